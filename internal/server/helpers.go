package server

import (
	"errors"
	"strconv"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// currentUserID reads the user id attached by the auth middleware. Zero means
// anonymous.
func currentUserID(c *fiber.Ctx) uint {
	if userID, ok := c.Locals("userID").(uint); ok {
		return userID
	}
	return 0
}

// statusForError maps an AppError code to its HTTP status.
func statusForError(err error) int {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case models.ErrCodeValidation:
		return fiber.StatusBadRequest
	case models.ErrCodeNotFound:
		return fiber.StatusNotFound
	case models.ErrCodePermission, models.ErrCodeAuthentication, models.ErrCodeRateLimit:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes a service or repository error with the right status.
func respondError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, statusForError(err), err)
}

// parsePage returns the 1-based page number from the query string.
func parsePage(c *fiber.Ctx) int {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// parseUintParam parses a numeric route parameter.
func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	value, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, models.NewValidationError("Invalid " + name + " parameter")
	}
	return uint(value), nil
}

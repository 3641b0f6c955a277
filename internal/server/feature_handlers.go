package server

import (
	"github.com/gofiber/fiber/v2"
)

// ListFeatures returns the evaluated feature flags for the requesting user.
// Anonymous requests get the flags evaluated with user ID zero, so
// percentage rollouts read as disabled.
func (s *Server) ListFeatures(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"features": s.flags.Snapshot(currentUserID(c)),
	})
}

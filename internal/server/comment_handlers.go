package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListComments handles GET /api/articles/:slug/comments/
func (s *Server) ListComments(c *fiber.Ctx) error {
	comments, count, err := s.commentService.List(c.UserContext(), c.Params("slug"), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"comments":      comments,
		"commentsCount": count,
	})
}

// CreateComment handles POST /api/articles/:slug/comments/
func (s *Server) CreateComment(c *fiber.Ctx) error {
	return s.createComment(c, nil)
}

// ReplyToComment handles POST /api/articles/:slug/comments/:id/
func (s *Server) ReplyToComment(c *fiber.Ctx) error {
	parentID, err := parseUintParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	return s.createComment(c, &parentID)
}

func (s *Server) createComment(c *fiber.Ctx, parentID *uint) error {
	var req struct {
		Comment struct {
			Body string `json:"body"`
		} `json:"comment"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.Create(c.UserContext(), service.CreateCommentInput{
		UserID:   currentUserID(c),
		Slug:     c.Params("slug"),
		Body:     req.Comment.Body,
		ParentID: parentID,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"comment": comment})
}

// DeleteComment handles DELETE /api/articles/:slug/comments/:id/
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := parseUintParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := s.commentService.Delete(c.UserContext(), currentUserID(c), c.Params("slug"), commentID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

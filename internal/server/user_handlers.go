package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// userEnvelope is the wire shape of a user in request and response bodies.
type userEnvelope struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
	Token    string `json:"token,omitempty"`
}

func newUserEnvelope(user *models.User, token string) userEnvelope {
	envelope := userEnvelope{
		Email:    user.Email,
		Username: user.Username,
		Token:    token,
	}
	if user.Profile != nil {
		envelope.Bio = user.Profile.Bio
		envelope.Image = user.Profile.Image
	}
	return envelope
}

// Register handles POST /api/users/
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		User struct {
			Username string `json:"username"`
			Email    string `json:"email"`
			Password string `json:"password"`
		} `json:"user"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, token, err := s.userService.Register(c.UserContext(), service.RegisterInput{
		Username: req.User.Username,
		Email:    req.User.Email,
		Password: req.User.Password,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user": newUserEnvelope(user, token),
	})
}

// Login handles POST /api/users/login/
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		User struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		} `json:"user"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, token, err := s.userService.Login(c.UserContext(), service.LoginInput{
		Email:    req.User.Email,
		Password: req.User.Password,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"user": newUserEnvelope(user, token),
	})
}

// VerifyAccount handles GET /api/users/verify/:uid/:token/
func (s *Server) VerifyAccount(c *fiber.Ctx) error {
	if err := s.userService.VerifyAccount(c.UserContext(), c.Params("uid"), c.Params("token")); err != nil {
		if statusForError(err) == fiber.StatusInternalServerError {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusBadRequest).SendString("Activation link is invalid!")
	}
	return c.SendString("Account was verified successfully")
}

// GetCurrentUser handles GET /api/user/
func (s *Server) GetCurrentUser(c *fiber.Ctx) error {
	user, err := s.userService.GetCurrent(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"user": newUserEnvelope(user, "")})
}

// UpdateCurrentUser handles PUT /api/user/
func (s *Server) UpdateCurrentUser(c *fiber.Ctx) error {
	var req struct {
		User struct {
			Username *string `json:"username"`
			Email    *string `json:"email"`
			Password *string `json:"password"`
			Bio      *string `json:"bio"`
			Image    *string `json:"image"`
		} `json:"user"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Update(c.UserContext(), service.UpdateUserInput{
		UserID:   currentUserID(c),
		Username: req.User.Username,
		Email:    req.User.Email,
		Password: req.User.Password,
		Bio:      req.User.Bio,
		Image:    req.User.Image,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"user": newUserEnvelope(user, "")})
}

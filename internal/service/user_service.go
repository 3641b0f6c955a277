// Package service holds the business rules sitting between the HTTP handlers
// and the repositories: input validation, ownership checks, slug assignment,
// token issuing and the verification-mail flow.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/mail"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	sessionTokenTTL      = 7 * 24 * time.Hour
	verificationTokenTTL = 3 * 24 * time.Hour

	verificationPurpose = "account-verification"
)

// UserService implements registration, login, account verification and
// self-service account updates.
type UserService struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	mailer   mail.Sender
	cfg      *config.Config
}

func NewUserService(users repository.UserRepository, profiles repository.ProfileRepository, mailer mail.Sender, cfg *config.Config) *UserService {
	return &UserService{users: users, profiles: profiles, mailer: mailer, cfg: cfg}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates an unconfirmed active user with its profile, issues a
// session token and sends the verification mail. Mail failures are logged and
// never fail the registration.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, string, error) {
	if err := validation.ValidateUsername(input.Username); err != nil {
		return nil, "", models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(input.Email); err != nil {
		return nil, "", models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(input.Password); err != nil {
		return nil, "", models.NewValidationError(err.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}

	user := &models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: string(hashed),
		IsActive: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}

	s.sendVerificationMail(ctx, user)

	return user, token, nil
}

type LoginInput struct {
	Email    string
	Password string
}

// Login authenticates by email and password.
func (s *UserService) Login(ctx context.Context, input LoginInput) (*models.User, string, error) {
	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", models.NewValidationError("A user with this email and password was not found.")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, "", models.NewValidationError("A user with this email and password was not found.")
	}
	if !user.IsActive {
		return nil, "", models.NewValidationError("This user has been deactivated.")
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}
	return user, token, nil
}

// VerifyAccount consumes a verification token. Tokens stop working once the
// account is confirmed, so each link is good for a single activation.
func (s *UserService) VerifyAccount(ctx context.Context, uid string, token string) error {
	userID, err := strconv.ParseUint(uid, 10, 64)
	if err != nil {
		return models.NewValidationError("Activation link is invalid!")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return models.NewValidationError("Activation link is invalid!")
	}
	if purpose, _ := claims["purpose"].(string); purpose != verificationPurpose {
		return models.NewValidationError("Activation link is invalid!")
	}
	sub, _ := claims["sub"].(string)
	if sub != uid {
		return models.NewValidationError("Activation link is invalid!")
	}

	user, err := s.users.GetByID(ctx, uint(userID))
	if err != nil {
		return models.NewValidationError("Activation link is invalid!")
	}
	if user.IsConfirmed {
		return models.NewValidationError("Activation link is invalid!")
	}

	user.IsConfirmed = true
	return s.users.Update(ctx, user)
}

// GetCurrent returns the authenticated user with its profile preloaded.
func (s *UserService) GetCurrent(ctx context.Context, userID uint) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

type UpdateUserInput struct {
	UserID   uint
	Username *string
	Email    *string
	Password *string
	Bio      *string
	Image    *string
}

// Update partially updates the caller's account and profile. A supplied
// password is validated and re-hashed.
func (s *UserService) Update(ctx context.Context, input UpdateUserInput) (*models.User, error) {
	user, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Username != nil {
		if err := validation.ValidateUsername(*input.Username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Username = *input.Username
	}
	if input.Email != nil {
		if err := validation.ValidateEmail(*input.Email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Email = *input.Email
	}
	if input.Password != nil {
		if err := validation.ValidatePassword(*input.Password); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		user.Password = string(hashed)
	}
	profileChanged := false
	if user.Profile != nil {
		if input.Bio != nil {
			user.Profile.Bio = *input.Bio
			profileChanged = true
		}
		if input.Image != nil {
			user.Profile.Image = *input.Image
			profileChanged = true
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	if profileChanged {
		// Saving the user does not touch the existing profiles row, so the
		// profile is persisted explicitly. The preloaded row lacks the joined
		// username; set it so the cache entry is invalidated.
		user.Profile.Username = user.Username
		if err := s.profiles.Update(ctx, user.Profile); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// IssueToken signs a session JWT for the user.
func (s *UserService) IssueToken(user *models.User) (string, error) {
	if s.cfg.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(user.ID), 10),
		"username": user.Username,
		"iss":      "inkwell-api",
		"aud":      "inkwell-client",
		"exp":      now.Add(sessionTokenTTL).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
}

// verificationToken signs a short-lived token bound to the user id, embedded
// in the activation link.
func (s *UserService) verificationToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":     strconv.FormatUint(uint64(user.ID), 10),
		"purpose": verificationPurpose,
		"iss":     "inkwell-api",
		"exp":     now.Add(verificationTokenTTL).Unix(),
		"iat":     now.Unix(),
		"jti":     uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
}

func (s *UserService) sendVerificationMail(ctx context.Context, user *models.User) {
	if s.mailer == nil {
		return
	}
	token, err := s.verificationToken(user)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to sign verification token", "user_id", user.ID, "error", err)
		return
	}
	link := fmt.Sprintf("%s/api/users/verify/%d/%s/", s.cfg.BaseURL, user.ID, token)
	if err := s.mailer.SendVerificationEmail(user.Email, user.Username, link); err != nil {
		slog.ErrorContext(ctx, "Failed to send verification email", "user_id", user.ID, "error", err)
	}
}

// Package middleware provides authentication and authorization middleware for the application.
package middleware

import (
	"context"
	"strconv"
	"strings"

	"inkwell/internal/config"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// UserVerifier checks that the token's user is still active and not deleted.
type UserVerifier func(ctx context.Context, userID uint) error

// Session tokens carry these claims. Purpose-scoped tokens (for example the
// activation link) omit the audience and must never pass as a session.
const (
	tokenIssuer   = "inkwell-api"
	tokenAudience = "inkwell-client"
)

func userIDFromToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusForbidden, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, fiber.NewError(fiber.StatusForbidden, "Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Invalid token claims")
	}

	// Validate issuer and audience
	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != tokenIssuer {
		return 0, fiber.NewError(fiber.StatusForbidden, "Invalid token issuer")
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != tokenAudience {
		return 0, fiber.NewError(fiber.StatusForbidden, "Invalid token audience")
	}

	// User ID lives in the "sub" claim (subject claim per RFC 7519)
	subClaim, ok := claims["sub"]
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Invalid token structure - missing subject")
	}
	subStr, ok := subClaim.(string)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Invalid token subject type")
	}

	userIDVal, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusForbidden, "Invalid user ID in token")
	}
	return uint(userIDVal), nil
}

func attachUser(c *fiber.Ctx, userID uint) {
	c.Locals("userID", userID)
	// Sync to UserContext for logging and downstream services
	ctx := context.WithValue(c.UserContext(), UserIDKey, userID)
	c.SetUserContext(ctx)
}

// AuthRequired returns middleware that enforces authentication for protected
// routes. When a verifier is supplied, tokens of deactivated or deleted users
// are rejected too.
func AuthRequired(verify UserVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewAuthenticationError("Authentication credentials were not provided."))
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewAuthenticationError("Invalid authorization header format"))
		}

		userID, err := userIDFromToken(parts[1])
		if err != nil {
			message := "Invalid or expired token"
			if fe, ok := err.(*fiber.Error); ok {
				message = fe.Message
			}
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewAuthenticationError(message))
		}

		if verify != nil {
			if err := verify(c.UserContext(), userID); err != nil {
				return models.RespondWithError(c, fiber.StatusForbidden,
					models.NewAuthenticationError("Invalid or expired token"))
			}
		}

		attachUser(c, userID)
		return c.Next()
	}
}

// OptionalAuth resolves the user ID from the Authorization header when one is
// present but never rejects the request. Public reads use it so that
// reaction state can be personalized for signed-in readers.
func OptionalAuth(verify UserVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Next()
		}

		userID, err := userIDFromToken(parts[1])
		if err != nil {
			return c.Next()
		}
		if verify != nil {
			if err := verify(c.UserContext(), userID); err != nil {
				return c.Next()
			}
		}

		attachUser(c, userID)
		return c.Next()
	}
}

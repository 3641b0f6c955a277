package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func signClaims(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func generateToken(t *testing.T, secret string, userID uint, exp time.Duration) string {
	t.Helper()
	return signClaims(t, secret, jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": "inkwell-api",
		"aud": "inkwell-client",
		"exp": time.Now().Add(exp).Unix(),
	})
}

func TestAuthRequired(t *testing.T) {
	app := fiber.New()
	InitMiddleware(&config.Config{JWTSecret: testSecret})

	app.Get("/test", AuthRequired(nil), func(c *fiber.Ctx) error {
		userID := c.Locals("userID")
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"userID": userID})
	})

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedUserID uint
	}{
		{
			name:           "Happy Path",
			authHeader:     "Bearer " + generateToken(t, testSecret, 123, time.Hour),
			expectedStatus: http.StatusOK,
			expectedUserID: 123,
		},
		{
			name:           "Missing Header",
			authHeader:     "",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Invalid Format",
			authHeader:     "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Expired Token",
			authHeader:     "Bearer " + generateToken(t, testSecret, 123, -time.Hour),
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Wrong Secret",
			authHeader:     "Bearer " + generateToken(t, "another-secret-entirely-0123456789abcdef", 123, time.Hour),
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Garbage Token",
			authHeader:     "Bearer not.a.token",
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "Wrong Issuer",
			authHeader: "Bearer " + signClaims(t, testSecret, jwt.MapClaims{
				"sub": "123",
				"iss": "someone-else",
				"aud": "inkwell-client",
				"exp": time.Now().Add(time.Hour).Unix(),
			}),
			expectedStatus: http.StatusForbidden,
		},
		{
			// An activation-link token is validly signed but carries no
			// audience; it must not work as a session.
			name: "Activation Token Rejected",
			authHeader: "Bearer " + signClaims(t, testSecret, jwt.MapClaims{
				"sub":     "123",
				"iss":     "inkwell-api",
				"purpose": "account-verification",
				"exp":     time.Now().Add(time.Hour).Unix(),
			}),
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusOK {
				var body map[string]any
				assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, float64(tt.expectedUserID), body["userID"])
			}
		})
	}
}

func TestAuthRequiredDeactivatedUser(t *testing.T) {
	app := fiber.New()
	InitMiddleware(&config.Config{JWTSecret: testSecret})

	verify := func(ctx context.Context, userID uint) error {
		if userID == 666 {
			return models.NewAuthenticationError("deactivated")
		}
		return nil
	}
	app.Get("/test", AuthRequired(verify), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+generateToken(t, testSecret, 666, time.Hour))
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+generateToken(t, testSecret, 1, time.Hour))
	resp, err = app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestOptionalAuth(t *testing.T) {
	app := fiber.New()
	InitMiddleware(&config.Config{JWTSecret: testSecret})

	app.Get("/test", OptionalAuth(nil), func(c *fiber.Ctx) error {
		if userID := c.Locals("userID"); userID != nil {
			return c.JSON(fiber.Map{"userID": userID})
		}
		return c.JSON(fiber.Map{"userID": nil})
	})

	t.Run("No header proceeds anonymously", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Nil(t, body["userID"])
	})

	t.Run("Valid token resolves user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer "+generateToken(t, testSecret, 42, time.Hour))
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, float64(42), body["userID"])
	})

	t.Run("Bad token proceeds anonymously", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Nil(t, body["userID"])
	})
}

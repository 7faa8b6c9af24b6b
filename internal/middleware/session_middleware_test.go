package middleware_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"shopsphere/internal/logger"
	"shopsphere/internal/middleware"
	"shopsphere/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func signedToken(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  userID,
		"username": "alice",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func setupApp(auth *services.AuthService) *fiber.App {
	app := fiber.New()
	app.Use(middleware.BearerSession(auth, logger.Discard()))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		return c.SendString(userID)
	})
	return app
}

func TestBearerSession(t *testing.T) {
	auth := services.NewAuthService(secret, logger.Discard())
	app := setupApp(auth)

	t.Run("No header passes through anonymously", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/whoami", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		_, signedIn := auth.Identity()
		assert.False(t, signedIn)
	})

	t.Run("Malformed header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set("Authorization", "Token abc")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Invalid token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Valid token signs the session in", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, "u42"))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		identity, signedIn := auth.Identity()
		require.True(t, signedIn)
		assert.Equal(t, "u42", identity.UserID)
	})
}

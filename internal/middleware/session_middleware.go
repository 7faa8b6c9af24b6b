package middleware

import (
	"strings"

	"shopsphere/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// BearerSession is a Fiber middleware that signs the session in with the
// JWT from an "Authorization: Bearer <token>" header. Requests without the
// header pass through unchanged, so anonymous browsing keeps working.
func BearerSession(authService *services.AuthService, log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Next()
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		// fasthttp reuses header buffers; the token outlives the request.
		tokenString := strings.Clone(parts[1])

		identity, err := authService.SignIn(tokenString)
		if err != nil {
			log.WithError(err).Info("JWT validation failed")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		c.Locals("user_id", identity.UserID)
		c.Locals("username", identity.Username)

		return c.Next()
	}
}

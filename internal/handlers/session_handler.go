package handlers

import (
	"shopsphere/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// SessionHandler signs the session in and out with a backend-issued token.
type SessionHandler struct {
	auth     *services.AuthService
	validate *validator.Validate
	log      logrus.FieldLogger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(auth *services.AuthService, log logrus.FieldLogger) *SessionHandler {
	return &SessionHandler{
		auth:     auth,
		validate: validator.New(),
		log:      log,
	}
}

// RegisterRoutes registers the session routes with the Fiber app.
func (h *SessionHandler) RegisterRoutes(router fiber.Router) {
	sessionRoutes := router.Group("/session")
	sessionRoutes.Get("/", h.HandleGetSession)
	sessionRoutes.Post("/", h.HandleSignIn)
	sessionRoutes.Delete("/", h.HandleSignOut)
}

// SessionRequest represents the request body for signing in.
type SessionRequest struct {
	Token string `json:"token" validate:"required"`
}

// HandleGetSession returns the current identity.
func (h *SessionHandler) HandleGetSession(c *fiber.Ctx) error {
	identity, ok := h.auth.Identity()
	if !ok {
		return c.JSON(fiber.Map{"authenticated": false})
	}
	return c.JSON(fiber.Map{
		"authenticated": true,
		"user":          identity,
	})
}

// HandleSignIn validates the token and makes its user the session's identity.
func (h *SessionHandler) HandleSignIn(c *fiber.Ctx) error {
	var req SessionRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}

	identity, err := h.auth.SignIn(req.Token)
	if err != nil {
		h.log.WithError(err).Info("Sign-in rejected")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication failed",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user":    identity,
	})
}

// HandleSignOut forgets the identity. The cart is kept.
func (h *SessionHandler) HandleSignOut(c *fiber.Ctx) error {
	h.auth.SignOut()
	return c.SendStatus(fiber.StatusNoContent)
}

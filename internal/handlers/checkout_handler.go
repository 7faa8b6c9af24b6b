package handlers

import (
	"errors"

	"shopsphere/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler handles HTTP requests for checkout.
type CheckoutHandler struct {
	checkout *services.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(checkout *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// RegisterRoutes registers the checkout routes with the Fiber app.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	checkoutRoutes := router.Group("/checkout")
	checkoutRoutes.Get("/", h.HandleGetStatus)
	checkoutRoutes.Post("/", h.HandleCheckout)
}

// HandleGetStatus reports the controller state and the last outcome.
func (h *CheckoutHandler) HandleGetStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"state":        h.checkout.State(),
		"last_outcome": h.checkout.LastOutcome(),
	})
}

// HandleCheckout submits the cart. The caller stays on the current view on
// success; on a missing login the body carries where to redirect.
func (h *CheckoutHandler) HandleCheckout(c *fiber.Ctx) error {
	result, err := h.checkout.InitiateCheckout(c.UserContext())
	if err != nil {
		status := statusFor(err)
		if errors.Is(err, services.ErrUnauthenticated) {
			c.Set(fiber.HeaderLocation, result.RedirectTo)
		}
		return c.Status(status).JSON(fiber.Map{
			"message": result.Message,
			"error":   err.Error(),
			"result":  result,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

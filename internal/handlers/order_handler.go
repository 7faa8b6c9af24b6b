package handlers

import (
	"errors"

	"shopsphere/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// OrderHandler handles HTTP requests for the user's order history.
type OrderHandler struct {
	service *services.OrderService
	log     logrus.FieldLogger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, log logrus.FieldLogger) *OrderHandler {
	return &OrderHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
}

// HandleGetOrders retrieves the signed-in user's orders from the backend.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.MyOrders(c.UserContext())
	if err != nil {
		if errors.Is(err, services.ErrUnauthenticated) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message":  "Please login to view your orders",
				"redirect": services.LoginPath,
			})
		}
		h.log.WithError(err).Warn("Error getting orders")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

package handlers

import (
	"shopsphere/internal/services"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler exposes recent notifications for the UI to display.
type NotificationHandler struct {
	feed *services.FeedNotifier
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(feed *services.FeedNotifier) *NotificationHandler {
	return &NotificationHandler{feed: feed}
}

// RegisterRoutes registers the notification routes with the Fiber app.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/notifications", h.HandleGetNotifications)
}

// HandleGetNotifications returns recent notifications, oldest first.
func (h *NotificationHandler) HandleGetNotifications(c *fiber.Ctx) error {
	return c.JSON(h.feed.Recent())
}

package handlers

import (
	"errors"

	"shopsphere/internal/models"
	"shopsphere/internal/services"
	"shopsphere/pkg/storeapi"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// CartHandler handles HTTP requests for the session's cart.
type CartHandler struct {
	cart     *services.CartService
	products *services.ProductService
	validate *validator.Validate
	log      logrus.FieldLogger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cart *services.CartService, products *services.ProductService, log logrus.FieldLogger) *CartHandler {
	return &CartHandler{
		cart:     cart,
		products: products,
		validate: validator.New(),
		log:      log,
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items/:id", h.HandleSetQuantity)
	cartRoutes.Delete("/items/:id", h.HandleRemoveItem)
}

// AddItemRequest represents the request body for adding a product.
type AddItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1"`
}

// SetQuantityRequest represents the request body for changing a quantity.
type SetQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// CartResponse is the cart as shown to the UI.
type CartResponse struct {
	Items    []models.CartLineItem `json:"items"`
	Count    int                   `json:"count"`
	Subtotal string                `json:"subtotal"`
}

func (h *CartHandler) cartResponse() CartResponse {
	return CartResponse{
		Items:    h.cart.Items(),
		Count:    h.cart.TotalQuantity(),
		Subtotal: h.cart.Subtotal().StringFixed(2),
	}
}

// HandleGetCart returns the cart lines and totals.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	return c.JSON(h.cartResponse())
}

// HandleAddItem looks the product up on the backend and adds it.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	if _, err := h.products.AddToCart(c.UserContext(), req.ProductID, req.Quantity); err != nil {
		h.log.WithError(err).WithField("product_id", req.ProductID).Info("Add to cart rejected")
		if statusFor(err) != fiber.StatusInternalServerError {
			return errorResponse(c, "Could not add item", err)
		}
		status := fiber.StatusBadGateway
		var apiErr *storeapi.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == fiber.StatusNotFound {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{
			"message": services.MsgProductNotFound,
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(h.cartResponse())
}

// HandleSetQuantity changes the quantity of a line.
func (h *CartHandler) HandleSetQuantity(c *fiber.Ctx) error {
	var req SetQuantityRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}

	if err := h.cart.SetQuantity(c.UserContext(), c.Params("id"), req.Quantity); err != nil {
		return errorResponse(c, "Could not update quantity", err)
	}
	return c.JSON(h.cartResponse())
}

// HandleRemoveItem removes a line. Removing an absent product succeeds.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	h.cart.RemoveItem(c.UserContext(), c.Params("id"))
	return c.JSON(h.cartResponse())
}

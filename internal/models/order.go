package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem represents a single item within an order.
type OrderItem struct {
	ProductID string          `json:"product"`
	Name      string          `json:"name"`
	Quantity  int             `json:"qty"`
	Price     decimal.Decimal `json:"price"` // Price at the time the item was added
	Image     string          `json:"image"`
}

// OrderSubmission is the frozen projection of a cart sent to the backend.
// It is built once and never mutated.
type OrderSubmission struct {
	SubmissionID string
	Items        []OrderItem
	TotalAmount  decimal.Decimal
	Identity     Identity
	CreatedAt    time.Time
}

// NewOrderSubmission copies the lines and subtotal of cart. The caller
// should pass a cart it owns (a clone) so nothing is shared.
func NewOrderSubmission(cart *Cart, identity Identity) OrderSubmission {
	lines := cart.Items()
	items := make([]OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			Price:     line.UnitPrice,
			Image:     line.Image,
		})
	}
	return OrderSubmission{
		SubmissionID: uuid.New().String(),
		Items:        items,
		TotalAmount:  cart.Subtotal(),
		Identity:     identity,
		CreatedAt:    time.Now(),
	}
}

// Order represents an order as recorded by the backend.
type Order struct {
	ID          string          `json:"_id"`
	UserID      string          `json:"user"`
	OrderItems  []OrderItem     `json:"orderItems"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      string          `json:"status"` // e.g., "pending", "processing", "shipped", "delivered"
	CreatedAt   time.Time       `json:"createdAt"`
}

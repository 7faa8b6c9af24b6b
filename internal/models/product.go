package models

import "github.com/shopspring/decimal"

// Product is the catalog view of a product as returned by the backend.
// Only the fields the cart snapshots at add time are kept.
type Product struct {
	ID       string          `json:"_id" validate:"required"`
	Name     string          `json:"name" validate:"required,max=200"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image" validate:"omitempty,max=2048"`
	Category string          `json:"category" validate:"omitempty,max=100"`
	Stock    int             `json:"stock" validate:"gte=0"`
}

// InStock reports whether the product can be added to a cart.
func (p Product) InStock() bool {
	return p.Stock > 0
}

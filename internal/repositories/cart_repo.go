package repositories

import (
	"context"

	"shopsphere/internal/models"
)

// CartRepository mirrors the cart to a durable medium. It owns no business
// rules: Save stores what it is given and Load returns what was stored.
// Load returns an empty cart when nothing has been saved yet.
type CartRepository interface {
	Save(ctx context.Context, cart *models.Cart) error
	Load(ctx context.Context) (*models.Cart, error)
}

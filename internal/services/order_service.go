package services

import (
	"context"
	"fmt"

	"shopsphere/internal/models"
)

// OrderLister reads the signed-in user's orders from the backend.
type OrderLister interface {
	MyOrders(ctx context.Context, identity models.Identity) ([]models.Order, error)
}

// OrderService handles the order history of the signed-in user.
type OrderService struct {
	lister OrderLister
	auth   IdentityProvider
}

// NewOrderService creates a new OrderService.
func NewOrderService(lister OrderLister, auth IdentityProvider) *OrderService {
	return &OrderService{
		lister: lister,
		auth:   auth,
	}
}

// MyOrders returns the orders placed by the signed-in user.
func (s *OrderService) MyOrders(ctx context.Context) ([]models.Order, error) {
	identity, ok := s.auth.Identity()
	if !ok {
		return nil, ErrUnauthenticated
	}
	orders, err := s.lister.MyOrders(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for user %s: %w", identity.UserID, err)
	}
	return orders, nil
}

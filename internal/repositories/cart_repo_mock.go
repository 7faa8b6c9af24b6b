package repositories

import (
	"context"
	"sync"

	"shopsphere/internal/models"
)

// MockCartRepository is an in-memory implementation of CartRepository.
// It stores a deep copy so later changes to the saved cart do not leak in.
type MockCartRepository struct {
	cart  *models.Cart
	saves int
	mu    sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{}
}

// Save replaces the stored cart.
func (r *MockCartRepository) Save(_ context.Context, cart *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cart = cart.Clone()
	r.saves++
	return nil
}

// Load returns a copy of the stored cart, or an empty one.
func (r *MockCartRepository) Load(_ context.Context) (*models.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.cart == nil {
		return models.NewCart(), nil
	}
	return r.cart.Clone(), nil
}

// Saves reports how many times Save was called.
func (r *MockCartRepository) Saves() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saves
}

package services

import (
	"context"
	"fmt"
	"sync"

	"shopsphere/internal/models"
	"shopsphere/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// CartService owns the session's cart. Every operation validates before it
// mutates, so a rejected call leaves the cart exactly as it was. Each
// successful mutation is mirrored to the repository; a failed save is
// logged and does not undo the mutation.
type CartService struct {
	mu   sync.RWMutex
	cart *models.Cart
	repo repositories.CartRepository
	log  logrus.FieldLogger
}

// NewCartService creates a CartService holding an empty cart. Call Restore
// to seed it from the repository.
func NewCartService(repo repositories.CartRepository, log logrus.FieldLogger) *CartService {
	return &CartService{
		cart: models.NewCart(),
		repo: repo,
		log:  log,
	}
}

// Restore replaces the in-memory cart with the persisted one. Load failures
// and lines that break cart invariants are logged and skipped; the cart is
// never left in an invalid state.
func (s *CartService) Restore(ctx context.Context) {
	loaded, err := s.repo.Load(ctx)
	if err != nil {
		s.log.WithError(err).Warn("Could not restore cart, starting empty")
		loaded = models.NewCart()
	}
	if loaded == nil {
		loaded = models.NewCart()
	}

	restored := models.NewCart()
	for _, item := range loaded.Items() {
		if err := validateLine(item); err != nil {
			s.log.WithError(err).WithField("product_id", item.ProductID).Warn("Dropping invalid cart line")
			continue
		}
		restored.Add(item)
	}

	s.mu.Lock()
	s.cart = restored
	s.mu.Unlock()

	s.log.WithField("items", restored.Len()).Info("Cart restored")
}

// AddItem adds quantity units of product. A product already in the cart has
// its quantity increased. The total is not capped at the stock seen at add
// time.
func (s *CartService) AddItem(ctx context.Context, product models.Product, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	if product.ID == "" {
		return fmt.Errorf("%w: missing product id", ErrInvalidProduct)
	}
	if product.Price.IsNegative() {
		return fmt.Errorf("%w: negative price for %s", ErrInvalidProduct, product.ID)
	}
	if !product.InStock() {
		return fmt.Errorf("%w: %s", ErrOutOfStock, product.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Add(models.NewCartLineItem(product, quantity))
	s.persist(ctx)
	return nil
}

// RemoveItem drops the line for productID. Removing an absent product is a
// no-op.
func (s *CartService) RemoveItem(ctx context.Context, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart.Remove(productID) {
		s.persist(ctx)
	}
}

// SetQuantity overwrites the quantity of a line. Zero is rejected rather
// than treated as removal.
func (s *CartService) SetQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cart.SetQuantity(productID, quantity) {
		return fmt.Errorf("%w: %s", ErrItemNotFound, productID)
	}
	s.persist(ctx)
	return nil
}

// Clear empties the cart. Only checkout calls this, after the backend has
// confirmed the order.
func (s *CartService) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Clear()
	s.persist(ctx)
}

// Subtotal is Σ quantity × unit price over the current lines.
func (s *CartService) Subtotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Subtotal()
}

// Items returns the lines in insertion order.
func (s *CartService) Items() []models.CartLineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Items()
}

// Len is the number of distinct products in the cart.
func (s *CartService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Len()
}

// TotalQuantity is the number of units in the cart.
func (s *CartService) TotalQuantity() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.TotalQuantity()
}

// Snapshot returns a deep copy of the cart.
func (s *CartService) Snapshot() *models.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Clone()
}

// persist must be called with s.mu held.
func (s *CartService) persist(ctx context.Context) {
	if err := s.repo.Save(ctx, s.cart.Clone()); err != nil {
		s.log.WithError(err).Warn("Failed to persist cart")
	}
}

func validateLine(item models.CartLineItem) error {
	switch {
	case item.ProductID == "":
		return fmt.Errorf("%w: missing product id", ErrInvalidProduct)
	case item.UnitPrice.IsNegative():
		return fmt.Errorf("%w: negative price", ErrInvalidProduct)
	case item.Quantity < 1:
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, item.Quantity)
	}
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"

	"shopsphere/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

const (
	MsgAddedToCart     = "Added to shopping bag!"
	MsgProductNotFound = "Product not found"
)

// ProductFetcher looks a product up on the backend.
type ProductFetcher interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

// ProductService reads products from the backend at add time. Stock is
// read once here and never re-checked later.
type ProductService struct {
	fetcher  ProductFetcher
	cart     *CartService
	notifier Notifier
	validate *validator.Validate
	log      logrus.FieldLogger
}

// NewProductService creates a new ProductService.
func NewProductService(fetcher ProductFetcher, cart *CartService, notifier Notifier, log logrus.FieldLogger) *ProductService {
	return &ProductService{
		fetcher:  fetcher,
		cart:     cart,
		notifier: notifier,
		validate: validator.New(),
		log:      log,
	}
}

// FetchProductStock returns the stock the backend reports for productID.
func (s *ProductService) FetchProductStock(ctx context.Context, productID string) (int, error) {
	product, err := s.fetcher.GetProduct(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("product %s not found: %w", productID, err)
	}
	return product.Stock, nil
}

// AddToCart fetches productID and adds quantity units of it to the cart.
func (s *ProductService) AddToCart(ctx context.Context, productID string, quantity int) (*models.Product, error) {
	if quantity < 1 {
		s.notifier.Notify(models.NotificationError, ErrInvalidQuantity.Error())
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	product, err := s.fetcher.GetProduct(ctx, productID)
	if err != nil {
		s.log.WithError(err).WithField("product_id", productID).Warn("Product lookup failed")
		s.notifier.Notify(models.NotificationError, MsgProductNotFound)
		return nil, fmt.Errorf("product %s not found: %w", productID, err)
	}

	if err := s.validate.Struct(product); err != nil {
		s.notifier.Notify(models.NotificationError, MsgProductNotFound)
		return nil, fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}

	if err := s.cart.AddItem(ctx, *product, quantity); err != nil {
		message := err.Error()
		if errors.Is(err, ErrOutOfStock) {
			message = "Out of Stock"
		}
		s.notifier.Notify(models.NotificationError, message)
		return nil, err
	}

	s.notifier.Notify(models.NotificationSuccess, MsgAddedToCart)
	return product, nil
}

package services_test

import (
	"context"
	"testing"

	"shopsphere/internal/logger"
	"shopsphere/internal/models"
	"shopsphere/internal/repositories"
	"shopsphere/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockOrderSubmitter is a mock implementation of services.OrderSubmitter
type MockOrderSubmitter struct {
	mock.Mock
}

func (m *MockOrderSubmitter) SubmitOrder(ctx context.Context, submission models.OrderSubmission) (string, error) {
	args := m.Called(ctx, submission)
	return args.String(0), args.Error(1)
}

// MockProductFetcher is a mock implementation of services.ProductFetcher
type MockProductFetcher struct {
	mock.Mock
}

func (m *MockProductFetcher) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

// MockCartRepository is a testify mock of repositories.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) Save(ctx context.Context, cart *models.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *MockCartRepository) Load(ctx context.Context) (*models.Cart, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

// MockOrderLister is a mock implementation of services.OrderLister
type MockOrderLister struct {
	mock.Mock
}

func (m *MockOrderLister) MyOrders(ctx context.Context, identity models.Identity) ([]models.Order, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

// MockPublisher is a mock implementation of services.NotificationPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishNotification(kind, message string) error {
	args := m.Called(kind, message)
	return args.Error(0)
}

// staticIdentity is an IdentityProvider with a fixed answer.
type staticIdentity struct {
	identity *models.Identity
}

func (s staticIdentity) Identity() (models.Identity, bool) {
	if s.identity == nil {
		return models.Identity{}, false
	}
	return *s.identity, true
}

var (
	signedIn  = staticIdentity{identity: &models.Identity{UserID: "user-123", Username: "testuser", Token: "tok"}}
	anonymous = staticIdentity{}
)

// recordingNotifier remembers every notification kind in order.
type recordingNotifier struct {
	kinds    []models.NotificationKind
	messages []string
}

func (r *recordingNotifier) Notify(kind models.NotificationKind, message string) {
	r.kinds = append(r.kinds, kind)
	r.messages = append(r.messages, message)
}

func product(id, price string, stock int) models.Product {
	return models.Product{
		ID:       id,
		Name:     "Product " + id,
		Price:    decimal.RequireFromString(price),
		Image:    id + ".png",
		Category: "Tech",
		Stock:    stock,
	}
}

// newCart returns a CartService over an in-memory repository.
func newCart(t *testing.T) (*services.CartService, *repositories.MockCartRepository) {
	t.Helper()
	repo := repositories.NewMockCartRepository()
	return services.NewCartService(repo, logger.Discard()), repo
}

// quantities maps product ID to quantity for compact assertions.
func quantities(items []models.CartLineItem) map[string]int {
	out := make(map[string]int, len(items))
	for _, item := range items {
		out[item.ProductID] = item.Quantity
	}
	return out
}

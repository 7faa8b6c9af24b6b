package services_test

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"shopsphere/internal/logger"
	"shopsphere/internal/models"
	"shopsphere/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCartService_AddItemMergesQuantity(t *testing.T) {
	cart, repo := newCart(t)
	ctx := context.Background()

	require.NoError(t, cart.AddItem(ctx, product("P", "10.00", 3), 2))
	require.NoError(t, cart.AddItem(ctx, product("P", "10.00", 3), 3))

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	// Quantity may exceed the stock seen at add time.
	assert.Equal(t, 3, items[0].StockAtAdd)
	assert.Equal(t, 2, repo.Saves())
}

func TestCartService_AddItemRejections(t *testing.T) {
	cart, repo := newCart(t)
	ctx := context.Background()

	err := cart.AddItem(ctx, product("P", "10", 5), 0)
	assert.ErrorIs(t, err, services.ErrInvalidQuantity)

	err = cart.AddItem(ctx, product("P", "10", 0), 1)
	assert.ErrorIs(t, err, services.ErrOutOfStock)

	err = cart.AddItem(ctx, product("", "10", 5), 1)
	assert.ErrorIs(t, err, services.ErrInvalidProduct)

	err = cart.AddItem(ctx, product("P", "-1", 5), 1)
	assert.ErrorIs(t, err, services.ErrInvalidProduct)

	assert.Equal(t, 0, cart.Len())
	assert.Equal(t, 0, repo.Saves())
}

func TestCartService_RemoveItemIsIdempotent(t *testing.T) {
	cart, repo := newCart(t)
	ctx := context.Background()
	require.NoError(t, cart.AddItem(ctx, product("A", "1", 5), 1))
	saves := repo.Saves()

	cart.RemoveItem(ctx, "missing")
	assert.Equal(t, map[string]int{"A": 1}, quantities(cart.Items()))
	assert.Equal(t, saves, repo.Saves())

	cart.RemoveItem(ctx, "A")
	cart.RemoveItem(ctx, "A")
	assert.Equal(t, 0, cart.Len())
}

func TestCartService_SetQuantity(t *testing.T) {
	cart, _ := newCart(t)
	ctx := context.Background()
	require.NoError(t, cart.AddItem(ctx, product("A", "2.50", 5), 1))

	require.NoError(t, cart.SetQuantity(ctx, "A", 4))
	assert.True(t, decimal.RequireFromString("10").Equal(cart.Subtotal()))

	err := cart.SetQuantity(ctx, "A", 0)
	assert.ErrorIs(t, err, services.ErrInvalidQuantity)
	assert.Equal(t, map[string]int{"A": 4}, quantities(cart.Items()))

	err = cart.SetQuantity(ctx, "B", 2)
	assert.ErrorIs(t, err, services.ErrItemNotFound)
}

func TestCartService_SubtotalMatchesRecomputation(t *testing.T) {
	cart, _ := newCart(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))
	prices := []string{"0.99", "49.99", "1200", "3.333", "0"}

	for i := 0; i < 500; i++ {
		id := fmt.Sprintf("p%d", rng.Intn(6))
		switch rng.Intn(3) {
		case 0:
			_ = cart.AddItem(ctx, product(id, prices[rng.Intn(len(prices))], 10), rng.Intn(4))
		case 1:
			cart.RemoveItem(ctx, id)
		case 2:
			_ = cart.SetQuantity(ctx, id, rng.Intn(4))
		}

		expected := decimal.Zero
		for _, item := range cart.Items() {
			require.GreaterOrEqual(t, item.Quantity, 1)
			expected = expected.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		require.True(t, expected.Equal(cart.Subtotal()), "step %d: %s != %s", i, expected, cart.Subtotal())
	}
}

func TestCartService_SnapshotIsDeepCopy(t *testing.T) {
	cart, _ := newCart(t)
	ctx := context.Background()
	require.NoError(t, cart.AddItem(ctx, product("A", "1", 5), 1))

	snap := cart.Snapshot()
	require.NoError(t, cart.SetQuantity(ctx, "A", 3))

	got, _ := snap.Get("A")
	assert.Equal(t, 1, got.Quantity)
}

func TestCartService_RestoreFromRepository(t *testing.T) {
	cart, repo := newCart(t)
	ctx := context.Background()
	require.NoError(t, cart.AddItem(ctx, product("A", "1", 5), 2))
	require.NoError(t, cart.AddItem(ctx, product("B", "3", 5), 1))

	// A new session over the same storage sees the same cart.
	restarted := services.NewCartService(repo, logger.Discard())
	restarted.Restore(ctx)

	assert.Equal(t, map[string]int{"A": 2, "B": 1}, quantities(restarted.Items()))
	assert.True(t, decimal.RequireFromString("5").Equal(restarted.Subtotal()))
}

func TestCartService_RestoreFailureYieldsEmptyCart(t *testing.T) {
	repo := new(MockCartRepository)
	repo.On("Load", mock.Anything).Return(nil, fmt.Errorf("corrupt cart data")).Once()

	cart := services.NewCartService(repo, logger.Discard())
	cart.Restore(context.Background())

	assert.Equal(t, 0, cart.Len())
	repo.AssertExpectations(t)
}

func TestCartService_RestoreDropsInvalidLines(t *testing.T) {
	stored := models.NewCartFromItems([]models.CartLineItem{
		{ProductID: "good", UnitPrice: decimal.NewFromInt(2), Quantity: 1},
		{ProductID: "zero", UnitPrice: decimal.NewFromInt(2), Quantity: 0},
		{ProductID: "", UnitPrice: decimal.NewFromInt(2), Quantity: 1},
		{ProductID: "neg", UnitPrice: decimal.NewFromInt(-2), Quantity: 1},
	})
	repo := new(MockCartRepository)
	repo.On("Load", mock.Anything).Return(stored, nil).Once()

	cart := services.NewCartService(repo, logger.Discard())
	cart.Restore(context.Background())

	assert.Equal(t, map[string]int{"good": 1}, quantities(cart.Items()))
	repo.AssertExpectations(t)
}

func TestCartService_SaveFailureKeepsMutation(t *testing.T) {
	repo := new(MockCartRepository)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*models.Cart")).Return(fmt.Errorf("disk full"))

	cart := services.NewCartService(repo, logger.Discard())
	require.NoError(t, cart.AddItem(context.Background(), product("A", "1", 5), 1))

	assert.Equal(t, 1, cart.Len())
	repo.AssertNumberOfCalls(t, "Save", 1)
}

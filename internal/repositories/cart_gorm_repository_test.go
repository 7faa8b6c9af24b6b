package repositories_test

import (
	"context"
	"fmt"
	"testing"

	"shopsphere/internal/models"
	"shopsphere/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Each test gets its own named in-memory database.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := repositories.OpenDatabase("sqlite", dsn)
	require.NoError(t, err)
	return db
}

func sampleCart() *models.Cart {
	return models.NewCartFromItems([]models.CartLineItem{
		{ProductID: "p2", Name: "Keyboard", UnitPrice: decimal.RequireFromString("75.00"), Quantity: 1, StockAtAdd: 25},
		{ProductID: "p1", Name: "Laptop", UnitPrice: decimal.RequireFromString("1200.99"), Image: "laptop.png", Category: "Tech", Quantity: 2, StockAtAdd: 10},
	})
}

func TestGORMCartRepository_SaveAndLoad(t *testing.T) {
	db := openTestDB(t)
	repo := repositories.NewGORMCartRepository(db, "session-a")
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleCart()))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)

	items := loaded.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "p2", items[0].ProductID)
	assert.Equal(t, "p1", items[1].ProductID)
	assert.Equal(t, 2, items[1].Quantity)
	assert.Equal(t, "laptop.png", items[1].Image)
	assert.Equal(t, 10, items[1].StockAtAdd)
	assert.True(t, decimal.RequireFromString("2476.98").Equal(loaded.Subtotal()), loaded.Subtotal().String())
}

func TestGORMCartRepository_SaveReplacesPreviousRows(t *testing.T) {
	db := openTestDB(t)
	repo := repositories.NewGORMCartRepository(db, "session-a")
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleCart()))

	smaller := sampleCart()
	smaller.Remove("p2")
	require.NoError(t, repo.Save(ctx, smaller))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Len())

	require.NoError(t, repo.Save(ctx, models.NewCart()))
	loaded, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
}

func TestGORMCartRepository_SessionsAreIsolated(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	a := repositories.NewGORMCartRepository(db, "session-a")
	b := repositories.NewGORMCartRepository(db, "session-b")

	require.NoError(t, a.Save(ctx, sampleCart()))

	loaded, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
}

func TestMockCartRepository_StoresCopy(t *testing.T) {
	repo := repositories.NewMockCartRepository()
	ctx := context.Background()

	empty, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())

	cart := sampleCart()
	require.NoError(t, repo.Save(ctx, cart))
	cart.Clear()

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Len())
	assert.Equal(t, 1, repo.Saves())
}

func TestOpenDatabase_UnknownDriver(t *testing.T) {
	_, err := repositories.OpenDatabase("oracle", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

package repositories

import (
	"context"
	"fmt"

	"shopsphere/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// cartLineRecord is one persisted cart line. Position keeps insertion order.
type cartLineRecord struct {
	SessionKey string          `gorm:"primaryKey;type:varchar(64)"`
	ProductID  string          `gorm:"primaryKey;type:varchar(64)"`
	Position   int             `gorm:"not null"`
	Name       string          `gorm:"type:varchar(200)"`
	UnitPrice  decimal.Decimal `gorm:"type:varchar(40);not null"`
	Image      string          `gorm:"type:varchar(2048)"`
	Category   string          `gorm:"type:varchar(100)"`
	Quantity   int             `gorm:"not null"`
	StockAtAdd int
}

// TableName overrides the table name
func (cartLineRecord) TableName() string {
	return "cart_line_items"
}

// GORMCartRepository is a GORM implementation of CartRepository. All rows
// of one session share a session key.
type GORMCartRepository struct {
	db         *gorm.DB
	sessionKey string
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB, sessionKey string) *GORMCartRepository {
	return &GORMCartRepository{
		db:         db,
		sessionKey: sessionKey,
	}
}

// Save replaces the session's rows with the lines of cart in one transaction.
func (r *GORMCartRepository) Save(ctx context.Context, cart *models.Cart) error {
	items := cart.Items()
	records := make([]cartLineRecord, 0, len(items))
	for i, item := range items {
		records = append(records, cartLineRecord{
			SessionKey: r.sessionKey,
			ProductID:  item.ProductID,
			Position:   i,
			Name:       item.Name,
			UnitPrice:  item.UnitPrice,
			Image:      item.Image,
			Category:   item.Category,
			Quantity:   item.Quantity,
			StockAtAdd: item.StockAtAdd,
		})
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_key = ?", r.sessionKey).Delete(&cartLineRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Create(&records).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save cart for session %s: %w", r.sessionKey, err)
	}
	return nil
}

// Load reads the session's rows in insertion order.
func (r *GORMCartRepository) Load(ctx context.Context) (*models.Cart, error) {
	var records []cartLineRecord
	err := r.db.WithContext(ctx).
		Where("session_key = ?", r.sessionKey).
		Order("position ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load cart for session %s: %w", r.sessionKey, err)
	}

	items := make([]models.CartLineItem, 0, len(records))
	for _, rec := range records {
		items = append(items, models.CartLineItem{
			ProductID:  rec.ProductID,
			Name:       rec.Name,
			UnitPrice:  rec.UnitPrice,
			Image:      rec.Image,
			Category:   rec.Category,
			Quantity:   rec.Quantity,
			StockAtAdd: rec.StockAtAdd,
		})
	}
	return models.NewCartFromItems(items), nil
}

package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickserve/backend/internal/domain/catalog"
	"github.com/quickserve/backend/internal/domain/inventory"
)

// GormStockStore implements inventory.Store with conditional decrements.
// DecrementAll is all-or-nothing: it opens its own nested transaction so
// a stale row undoes the decrements already applied, even when the caller
// holds an outer transaction across retries.
type GormStockStore struct {
	db *gorm.DB
}

// NewGormStockStore creates a new GormStockStore
func NewGormStockStore(db *gorm.DB) *GormStockStore {
	return &GormStockStore{db: db}
}

// StockLevels returns the current stock level per requested item
func (s *GormStockStore) StockLevels(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	var rows []struct {
		ID            uuid.UUID
		StockQuantity int
	}
	if err := dbFromContext(ctx, s.db).
		Model(&catalog.InventoryItem{}).
		Select("id", "stock_quantity").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	levels := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		levels[row.ID] = row.StockQuantity
	}
	return levels, nil
}

// DecrementAll applies every decrement conditionally on the level the
// snapshot observed. A row that moved since the snapshot affects zero
// rows; the store reports inventory.ErrStale. The nested transaction
// (a savepoint when the caller already holds one) rolls back the rows
// applied before the stale one, so the ledger retries from a clean
// slate instead of decrementing twice.
func (s *GormStockStore) DecrementAll(ctx context.Context, decs []inventory.Decrement) error {
	return dbFromContext(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		for _, dec := range decs {
			result := tx.
				Model(&catalog.InventoryItem{}).
				Where("id = ? AND stock_quantity = ?", dec.ProductID, dec.Expected).
				Update("stock_quantity", gorm.Expr("stock_quantity - ?", dec.Quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return inventory.ErrStale
			}
		}
		return nil
	})
}

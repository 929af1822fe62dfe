package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickserve/backend/internal/domain/catalog"
	"github.com/quickserve/backend/internal/domain/shared"
)

// GormInventoryItemRepository implements catalog.InventoryItemRepository
// using GORM
type GormInventoryItemRepository struct {
	db *gorm.DB
}

// NewGormInventoryItemRepository creates a new GormInventoryItemRepository
func NewGormInventoryItemRepository(db *gorm.DB) *GormInventoryItemRepository {
	return &GormInventoryItemRepository{db: db}
}

// FindByID finds an inventory item by its ID
func (r *GormInventoryItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.InventoryItem, error) {
	var item catalog.InventoryItem
	if err := dbFromContext(ctx, r.db).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByIDs finds inventory items by a set of IDs
func (r *GormInventoryItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.InventoryItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []catalog.InventoryItem
	if err := dbFromContext(ctx, r.db).Find(&items, "id IN ?", ids).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Save creates or updates an inventory item
func (r *GormInventoryItemRepository) Save(ctx context.Context, item *catalog.InventoryItem) error {
	return dbFromContext(ctx, r.db).Save(item).Error
}

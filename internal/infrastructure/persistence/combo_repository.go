package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickserve/backend/internal/domain/catalog"
	"github.com/quickserve/backend/internal/domain/shared"
)

// GormComboRepository implements catalog.ComboRepository using GORM
type GormComboRepository struct {
	db *gorm.DB
}

// NewGormComboRepository creates a new GormComboRepository
func NewGormComboRepository(db *gorm.DB) *GormComboRepository {
	return &GormComboRepository{db: db}
}

// withAssociations preloads line items and rules in declaration order
func (r *GormComboRepository) withAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("DiscountRules", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
}

// FindByID finds a combo definition by its ID
func (r *GormComboRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ComboDefinition, error) {
	var combo catalog.ComboDefinition
	if err := r.withAssociations(dbFromContext(ctx, r.db)).
		First(&combo, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &combo, nil
}

// FindByIDs finds combo definitions by a set of IDs
func (r *GormComboRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.ComboDefinition, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var combos []catalog.ComboDefinition
	if err := r.withAssociations(dbFromContext(ctx, r.db)).
		Find(&combos, "id IN ?", ids).Error; err != nil {
		return nil, err
	}
	return combos, nil
}

// FindAll returns every combo definition
func (r *GormComboRepository) FindAll(ctx context.Context) ([]catalog.ComboDefinition, error) {
	var combos []catalog.ComboDefinition
	if err := r.withAssociations(dbFromContext(ctx, r.db)).
		Order("name ASC").
		Find(&combos).Error; err != nil {
		return nil, err
	}
	return combos, nil
}

// Save creates or updates a combo definition with its associations
func (r *GormComboRepository) Save(ctx context.Context, combo *catalog.ComboDefinition) error {
	return dbFromContext(ctx, r.db).Save(combo).Error
}

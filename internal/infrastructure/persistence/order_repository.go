package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickserve/backend/internal/domain/sales"
	"github.com/quickserve/backend/internal/domain/shared"
)

// GormOrderRepository implements sales.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Insert stores a newly finalized order together with its lines
func (r *GormOrderRepository) Insert(ctx context.Context, order *sales.Order) error {
	return dbFromContext(ctx, r.db).Create(order).Error
}

// FindByID finds an order with its line items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Order, error) {
	var order sales.Order
	if err := dbFromContext(ctx, r.db).
		Preload("LineItems").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// ListByShift returns every order of a shift regardless of status
func (r *GormOrderRepository) ListByShift(ctx context.Context, shiftID uuid.UUID) ([]*sales.Order, error) {
	var orders []*sales.Order
	if err := dbFromContext(ctx, r.db).
		Where("shift_id = ?", shiftID).
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Update saves status changes with optimistic locking on the version
func (r *GormOrderRepository) Update(ctx context.Context, order *sales.Order) error {
	result := dbFromContext(ctx, r.db).
		Model(order).
		Where("id = ? AND version = ?", order.ID, order.Version-1).
		Updates(map[string]interface{}{
			"status":        order.Status,
			"cancelled_at":  order.CancelledAt,
			"cancel_reason": order.CancelReason,
			"version":       order.Version,
			"updated_at":    order.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrOptimisticLock
	}
	return nil
}

package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickserve/backend/internal/domain/sales"
	"github.com/quickserve/backend/internal/domain/shared"
)

// GormShiftRepository implements sales.ShiftRepository using GORM
type GormShiftRepository struct {
	db *gorm.DB
}

// NewGormShiftRepository creates a new GormShiftRepository
func NewGormShiftRepository(db *gorm.DB) *GormShiftRepository {
	return &GormShiftRepository{db: db}
}

// Save stores a newly opened shift
func (r *GormShiftRepository) Save(ctx context.Context, shift *sales.Shift) error {
	return dbFromContext(ctx, r.db).Create(shift).Error
}

// FindByID finds a shift by its ID
func (r *GormShiftRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Shift, error) {
	var shift sales.Shift
	if err := dbFromContext(ctx, r.db).First(&shift, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &shift, nil
}

// FindOpenByEmployee returns the employee's open shift, or nil when the
// employee has none
func (r *GormShiftRepository) FindOpenByEmployee(ctx context.Context, employeeID uuid.UUID) (*sales.Shift, error) {
	var shift sales.Shift
	err := dbFromContext(ctx, r.db).
		Where("employee_id = ? AND status = ?", employeeID, sales.ShiftStatusOpen).
		First(&shift).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &shift, nil
}

// Update saves aggregate changes with optimistic locking on the version
func (r *GormShiftRepository) Update(ctx context.Context, shift *sales.Shift) error {
	result := dbFromContext(ctx, r.db).
		Model(shift).
		Where("id = ? AND version = ?", shift.ID, shift.Version-1).
		Updates(map[string]interface{}{
			"status":        shift.Status,
			"closed_at":     shift.ClosedAt,
			"total_orders":  shift.TotalOrders,
			"total_revenue": shift.TotalRevenue,
			"actual_cash":   shift.ActualCash,
			"variance":      shift.Variance,
			"version":       shift.Version,
			"updated_at":    shift.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrOptimisticLock
	}
	return nil
}

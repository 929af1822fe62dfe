package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/quickserve/backend/internal/domain/shared"
	"github.com/quickserve/backend/internal/domain/shared/valueobject"
)

// ShiftStatus represents the status of a cash-register session
type ShiftStatus string

const (
	ShiftStatusOpen   ShiftStatus = "OPEN"
	ShiftStatusClosed ShiftStatus = "CLOSED"
)

// Shift is a cash-register session. TotalOrders and TotalRevenue are
// derived exclusively from completed orders: incremented by the finalizer
// and fully recomputed on cancellation. ActualCash and Variance are
// written once at close and immutable afterwards.
type Shift struct {
	shared.BaseAggregateRoot
	EmployeeID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	OpenedAt     time.Time         `gorm:"not null"`
	ClosedAt     *time.Time        `gorm:"type:timestamp"`
	Status       ShiftStatus       `gorm:"type:varchar(10);not null;index"`
	InitialCash  valueobject.Money `gorm:"type:decimal(18,4);not null"`
	TotalOrders  int               `gorm:"not null;default:0"`
	TotalRevenue valueobject.Money `gorm:"type:decimal(18,4);not null"`
	ActualCash   valueobject.Money `gorm:"type:decimal(18,4)"`
	Variance     valueobject.Money `gorm:"type:decimal(18,4)"`
}

// TableName returns the table name for GORM
func (Shift) TableName() string {
	return "shifts"
}

// OpenShift starts a new cash-register session
func OpenShift(employeeID uuid.UUID, initialCash valueobject.Money, now time.Time) (*Shift, error) {
	if employeeID == uuid.Nil {
		return nil, shared.NewValidationError("employee ID is required")
	}
	if initialCash.IsNegative() {
		return nil, shared.NewValidationError("initial cash cannot be negative")
	}

	shift := &Shift{
		BaseAggregateRoot: shared.NewBaseAggregateRootAt(now),
		EmployeeID:        employeeID,
		OpenedAt:          now,
		Status:            ShiftStatusOpen,
		InitialCash:       initialCash,
		TotalRevenue:      valueobject.ZeroUSD(),
		ActualCash:        valueobject.ZeroUSD(),
		Variance:          valueobject.ZeroUSD(),
	}
	shift.AddDomainEvent(NewShiftOpenedEvent(shift, now))
	return shift, nil
}

// IsOpen returns true while orders may be finalized against the shift
func (s *Shift) IsOpen() bool {
	return s.Status == ShiftStatusOpen
}

// RecordOrder applies the O(1) incremental aggregate update for a newly
// completed order
func (s *Shift) RecordOrder(total valueobject.Money) error {
	if !s.IsOpen() {
		return shared.ErrNoActiveShift
	}
	s.TotalOrders++
	s.TotalRevenue = s.TotalRevenue.MustAdd(total)
	s.IncrementVersion()
	return nil
}

// ApplyRecompute replaces the aggregate with values recomputed from the
// shift's full order list. Cancellation always recomputes rather than
// decrementing, so the totals stay correct regardless of cancellation
// history - even after the shift has closed.
func (s *Shift) ApplyRecompute(totalOrders int, totalRevenue valueobject.Money) {
	s.TotalOrders = totalOrders
	s.TotalRevenue = totalRevenue
	s.IncrementVersion()
}

// Close ends the session, counting the drawer once. Variance compares the
// counted cash against the opening float plus recorded revenue and is
// immutable after this call.
func (s *Shift) Close(actualCash valueobject.Money, now time.Time) error {
	if !s.IsOpen() {
		return shared.NewDomainError(shared.ErrInvalidState.Code, "shift is already closed")
	}
	if actualCash.IsNegative() {
		return shared.NewValidationError("counted cash cannot be negative")
	}

	expected := s.InitialCash.MustAdd(s.TotalRevenue)
	s.ActualCash = actualCash
	s.Variance = actualCash.MustSubtract(expected)
	s.Status = ShiftStatusClosed
	s.ClosedAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()

	s.AddDomainEvent(NewShiftClosedEvent(s, now))
	return nil
}

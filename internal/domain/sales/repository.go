package sales

import (
	"context"

	"github.com/google/uuid"
)

// OrderRepository persists orders with their line items
type OrderRepository interface {
	// Insert stores a newly finalized order together with its lines
	Insert(ctx context.Context, order *Order) error
	// FindByID loads an order and its lines by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// ListByShift returns every order of a shift, any status
	ListByShift(ctx context.Context, shiftID uuid.UUID) ([]*Order, error)
	// Update saves status changes using optimistic locking
	Update(ctx context.Context, order *Order) error
}

// ShiftRepository persists cash-register sessions
type ShiftRepository interface {
	// Save stores a newly opened shift
	Save(ctx context.Context, shift *Shift) error
	// FindByID loads a shift by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Shift, error)
	// FindOpenByEmployee returns the employee's open shift, if any
	FindOpenByEmployee(ctx context.Context, employeeID uuid.UUID) (*Shift, error)
	// Update saves aggregate changes using optimistic locking
	Update(ctx context.Context, shift *Shift) error
}

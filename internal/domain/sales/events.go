package sales

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/quickserve/backend/internal/domain/shared"
)

// Event type constants
const (
	EventTypeOrderCompleted = "sales.order.completed"
	EventTypeOrderCancelled = "sales.order.cancelled"
	EventTypeShiftOpened    = "sales.shift.opened"
	EventTypeShiftClosed    = "sales.shift.closed"
)

// OrderCompletedEvent is raised when a cart is finalized into an order
type OrderCompletedEvent struct {
	shared.BaseDomainEvent
	OrderTotal decimal.Decimal `json:"order_total"`
	LineCount  int             `json:"line_count"`
	ShiftID    string          `json:"shift_id"`
}

// NewOrderCompletedEvent creates a new order completed event
func NewOrderCompletedEvent(order *Order, occurredAt time.Time) *OrderCompletedEvent {
	return &OrderCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCompleted, "Order", order.ID, occurredAt),
		OrderTotal:      order.Total.Amount(),
		LineCount:       len(order.LineItems),
		ShiftID:         order.ShiftID.String(),
	}
}

// OrderCancelledEvent is raised on the terminal completed-to-cancelled
// transition
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderTotal decimal.Decimal `json:"order_total"`
	ShiftID    string          `json:"shift_id"`
	Reason     string          `json:"reason"`
}

// NewOrderCancelledEvent creates a new order cancelled event
func NewOrderCancelledEvent(order *Order, reason string, occurredAt time.Time) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, "Order", order.ID, occurredAt),
		OrderTotal:      order.Total.Amount(),
		ShiftID:         order.ShiftID.String(),
		Reason:          reason,
	}
}

// ShiftOpenedEvent is raised when a cash-register session starts
type ShiftOpenedEvent struct {
	shared.BaseDomainEvent
	EmployeeID  string          `json:"employee_id"`
	InitialCash decimal.Decimal `json:"initial_cash"`
}

// NewShiftOpenedEvent creates a new shift opened event
func NewShiftOpenedEvent(shift *Shift, occurredAt time.Time) *ShiftOpenedEvent {
	return &ShiftOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShiftOpened, "Shift", shift.ID, occurredAt),
		EmployeeID:      shift.EmployeeID.String(),
		InitialCash:     shift.InitialCash.Amount(),
	}
}

// ShiftClosedEvent is raised when the drawer is counted and the session
// ends
type ShiftClosedEvent struct {
	shared.BaseDomainEvent
	TotalOrders  int             `json:"total_orders"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	ActualCash   decimal.Decimal `json:"actual_cash"`
	Variance     decimal.Decimal `json:"variance"`
}

// NewShiftClosedEvent creates a new shift closed event
func NewShiftClosedEvent(shift *Shift, occurredAt time.Time) *ShiftClosedEvent {
	return &ShiftClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShiftClosed, "Shift", shift.ID, occurredAt),
		TotalOrders:     shift.TotalOrders,
		TotalRevenue:    shift.TotalRevenue.Amount(),
		ActualCash:      shift.ActualCash.Amount(),
		Variance:        shift.Variance.Amount(),
	}
}

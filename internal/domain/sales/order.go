package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/quickserve/backend/internal/domain/shared"
	"github.com/quickserve/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a committed order
type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// The only legal transition is completed to cancelled; cancelled is terminal.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	return s == OrderStatusCompleted && target == OrderStatusCancelled
}

// MaxCancelReasonLength bounds the free-text cancellation reason
const MaxCancelReasonLength = 500

// OrderLineItem is a priced line of a committed order. Either ComboID or
// ProductID is set, never both. FinalUnitPrice carries the discount
// resolved at finalize time and is never above UnitPrice.
type OrderLineItem struct {
	shared.BaseEntity
	OrderID            uuid.UUID         `gorm:"type:uuid;not null;index"`
	ComboID            *uuid.UUID        `gorm:"type:uuid"`
	ProductID          *uuid.UUID        `gorm:"type:uuid"`
	Description        string            `gorm:"type:varchar(200)"`
	Quantity           int               `gorm:"not null"`
	UnitPrice          valueobject.Money `gorm:"type:decimal(18,4);not null"`
	FinalUnitPrice     valueobject.Money `gorm:"type:decimal(18,4);not null"`
	DiscountRuleID     *uuid.UUID        `gorm:"type:uuid"`
	DiscountKind       string            `gorm:"type:varchar(20)"`
	DiscountPercentage decimal.Decimal   `gorm:"type:decimal(8,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderLineItem) TableName() string {
	return "order_line_items"
}

// HasDiscount returns true when a rule influenced the final price
func (l *OrderLineItem) HasDiscount() bool {
	return l.DiscountRuleID != nil
}

// LineSubtotal is the undiscounted amount for the line
func (l *OrderLineItem) LineSubtotal() valueobject.Money {
	return l.UnitPrice.MultiplyByInt(int64(l.Quantity))
}

// LineTotal is the discounted amount for the line
func (l *OrderLineItem) LineTotal() valueobject.Money {
	return l.FinalUnitPrice.MultiplyByInt(int64(l.Quantity))
}

// Order is an immutable record of a finalized sale. The single mutation it
// ever undergoes is the terminal completed-to-cancelled transition.
type Order struct {
	shared.BaseAggregateRoot
	ShiftID       uuid.UUID         `gorm:"type:uuid;not null;index"`
	LineItems     []OrderLineItem   `gorm:"foreignKey:OrderID;references:ID"`
	Subtotal      valueobject.Money `gorm:"type:decimal(18,4);not null"`
	DiscountTotal valueobject.Money `gorm:"type:decimal(18,4);not null"`
	Total         valueobject.Money `gorm:"type:decimal(18,4);not null"`
	Status        OrderStatus       `gorm:"type:varchar(20);not null;index"`
	CancelledAt   *time.Time        `gorm:"type:timestamp"`
	CancelReason  string            `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a completed order from priced line items. Totals are
// derived from the lines: subtotal from unit prices, total from final unit
// prices, discountTotal as their difference.
func NewOrder(shiftID uuid.UUID, lines []OrderLineItem, now time.Time) (*Order, error) {
	if len(lines) == 0 {
		return nil, shared.ErrEmptyCart
	}
	if shiftID == uuid.Nil {
		return nil, shared.ErrNoActiveShift
	}

	subtotal := valueobject.ZeroUSD()
	total := valueobject.ZeroUSD()
	for i := range lines {
		line := &lines[i]
		if line.Quantity <= 0 {
			return nil, shared.NewValidationError("order line quantity must be positive")
		}
		above, err := line.FinalUnitPrice.GreaterThan(line.UnitPrice)
		if err != nil {
			return nil, shared.NewValidationError(err.Error())
		}
		if above {
			return nil, shared.NewValidationError("final unit price cannot exceed unit price")
		}
		subtotal = subtotal.MustAdd(line.LineSubtotal())
		total = total.MustAdd(line.LineTotal())
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRootAt(now),
		ShiftID:           shiftID,
		Subtotal:          subtotal,
		DiscountTotal:     subtotal.MustSubtract(total),
		Total:             total,
		Status:            OrderStatusCompleted,
	}
	for i := range lines {
		lines[i].OrderID = order.ID
	}
	order.LineItems = lines

	order.AddDomainEvent(NewOrderCompletedEvent(order, now))
	return order, nil
}

// Cancel performs the terminal status transition. Cancelling an order that
// is not completed is rejected, not a no-op. Reserved stock is not
// restored; the goods left the counter when the order completed.
func (o *Order) Cancel(reason string, now time.Time) error {
	if len(reason) > MaxCancelReasonLength {
		return shared.NewValidationError("cancellation reason exceeds 500 characters")
	}
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError(shared.ErrInvalidState.Code,
			"only completed orders can be cancelled")
	}

	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderCancelledEvent(o, reason, now))
	return nil
}

// IsCompleted returns true while the order counts toward shift totals
func (o *Order) IsCompleted() bool {
	return o.Status == OrderStatusCompleted
}

// IsCancelled returns true after the terminal transition
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

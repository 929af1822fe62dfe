package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quickserve/backend/internal/domain/catalog"
	"github.com/quickserve/backend/internal/domain/sales"
)

// SelectionInput is a buyer's pick for one choice group
type SelectionInput struct {
	ChoiceGroup string    `json:"choice_group" validate:"required"`
	ProductID   uuid.UUID `json:"product_id" validate:"required"`
}

// CartLineInput is one cart line: a combo with its selections, or a
// standalone inventory item. Exactly one of ComboID and ProductID is set.
type CartLineInput struct {
	ComboID    *uuid.UUID       `json:"combo_id"`
	ProductID  *uuid.UUID       `json:"product_id"`
	Quantity   int              `json:"quantity" validate:"required,gt=0"`
	Selections []SelectionInput `json:"selections" validate:"dive"`
}

// FinalizeOrderRequest commits a cart against an open shift. A zero
// ShiftID is handled by the finalizer itself, not the struct validator.
type FinalizeOrderRequest struct {
	ShiftID uuid.UUID       `json:"shift_id"`
	Lines   []CartLineInput `json:"lines" validate:"dive"`
}

// CancelOrderRequest voids a completed order
type CancelOrderRequest struct {
	OrderID uuid.UUID `json:"order_id" validate:"required"`
	Reason  string    `json:"reason" validate:"max=500"`
}

// OpenShiftRequest starts a cash-register session
type OpenShiftRequest struct {
	EmployeeID  uuid.UUID       `json:"employee_id" validate:"required"`
	InitialCash decimal.Decimal `json:"initial_cash"`
}

// CloseShiftRequest ends a session with the counted drawer amount
type CloseShiftRequest struct {
	ShiftID    uuid.UUID       `json:"shift_id" validate:"required"`
	ActualCash decimal.Decimal `json:"actual_cash"`
}

// OrderLineResponse is one priced line of a committed order
type OrderLineResponse struct {
	ID                 uuid.UUID       `json:"id"`
	ComboID            *uuid.UUID      `json:"combo_id,omitempty"`
	ProductID          *uuid.UUID      `json:"product_id,omitempty"`
	Description        string          `json:"description"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	FinalUnitPrice     decimal.Decimal `json:"final_unit_price"`
	DiscountRuleID     *uuid.UUID      `json:"discount_rule_id,omitempty"`
	DiscountKind       string          `json:"discount_kind,omitempty"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
}

// OrderResponse is the API view of an order
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	ShiftID       uuid.UUID           `json:"shift_id"`
	Status        string              `json:"status"`
	Lines         []OrderLineResponse `json:"lines"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	DiscountTotal decimal.Decimal     `json:"discount_total"`
	Total         decimal.Decimal     `json:"total"`
	CancelledAt   *time.Time          `json:"cancelled_at,omitempty"`
	CancelReason  string              `json:"cancel_reason,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// ShiftResponse is the API view of a shift
type ShiftResponse struct {
	ID           uuid.UUID       `json:"id"`
	EmployeeID   uuid.UUID       `json:"employee_id"`
	Status       string          `json:"status"`
	OpenedAt     time.Time       `json:"opened_at"`
	ClosedAt     *time.Time      `json:"closed_at,omitempty"`
	InitialCash  decimal.Decimal `json:"initial_cash"`
	TotalOrders  int             `json:"total_orders"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	ActualCash   decimal.Decimal `json:"actual_cash"`
	Variance     decimal.Decimal `json:"variance"`
}

// ToOrderResponse converts an order aggregate to its response
func ToOrderResponse(order *sales.Order) OrderResponse {
	lines := make([]OrderLineResponse, 0, len(order.LineItems))
	for _, line := range order.LineItems {
		lines = append(lines, OrderLineResponse{
			ID:                 line.ID,
			ComboID:            line.ComboID,
			ProductID:          line.ProductID,
			Description:        line.Description,
			Quantity:           line.Quantity,
			UnitPrice:          line.UnitPrice.Amount(),
			FinalUnitPrice:     line.FinalUnitPrice.Amount(),
			DiscountRuleID:     line.DiscountRuleID,
			DiscountKind:       line.DiscountKind,
			DiscountPercentage: line.DiscountPercentage,
		})
	}
	return OrderResponse{
		ID:            order.ID,
		ShiftID:       order.ShiftID,
		Status:        order.Status.String(),
		Lines:         lines,
		Subtotal:      order.Subtotal.Amount(),
		DiscountTotal: order.DiscountTotal.Amount(),
		Total:         order.Total.Amount(),
		CancelledAt:   order.CancelledAt,
		CancelReason:  order.CancelReason,
		CreatedAt:     order.CreatedAt,
	}
}

// ToShiftResponse converts a shift aggregate to its response
func ToShiftResponse(shift *sales.Shift) ShiftResponse {
	return ShiftResponse{
		ID:           shift.ID,
		EmployeeID:   shift.EmployeeID,
		Status:       string(shift.Status),
		OpenedAt:     shift.OpenedAt,
		ClosedAt:     shift.ClosedAt,
		InitialCash:  shift.InitialCash.Amount(),
		TotalOrders:  shift.TotalOrders,
		TotalRevenue: shift.TotalRevenue.Amount(),
		ActualCash:   shift.ActualCash.Amount(),
		Variance:     shift.Variance.Amount(),
	}
}

// toSelections maps selection inputs to the domain type
func toSelections(inputs []SelectionInput) []catalog.Selection {
	selections := make([]catalog.Selection, 0, len(inputs))
	for _, in := range inputs {
		selections = append(selections, catalog.Selection{
			ChoiceGroup: in.ChoiceGroup,
			ProductID:   in.ProductID,
		})
	}
	return selections
}

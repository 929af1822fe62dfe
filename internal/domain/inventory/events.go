package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/quickserve/backend/internal/domain/shared"
)

// EventTypeStockReserved identifies stock reservation events
const EventTypeStockReserved = "inventory.stock.reserved"

// ReservedItem is one item's share of a reservation
type ReservedItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	NewLevel  int       `json:"new_level"`
}

// StockReservedEvent is raised when a reservation decrements stock
type StockReservedEvent struct {
	shared.BaseDomainEvent
	Items []ReservedItem `json:"items"`
}

// NewStockReservedEvent creates a new stock reserved event. The aggregate
// ID is the order the reservation belongs to.
func NewStockReservedEvent(orderID uuid.UUID, reqs *Requirements, res *Reservation, occurredAt time.Time) *StockReservedEvent {
	items := make([]ReservedItem, 0)
	for _, req := range reqs.Items() {
		items = append(items, ReservedItem{
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			NewLevel:  res.Levels[req.ProductID],
		})
	}
	return &StockReservedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReserved, "Order", orderID, occurredAt),
		Items:           items,
	}
}

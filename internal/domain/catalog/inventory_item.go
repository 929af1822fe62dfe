package catalog

import (
	"strings"

	"github.com/quickserve/backend/internal/domain/shared"
	"github.com/quickserve/backend/internal/domain/shared/valueobject"
)

// ItemKind classifies a sellable inventory item
type ItemKind string

const (
	ItemKindProduct ItemKind = "product"
	ItemKindDrink   ItemKind = "drink"
	ItemKindSide    ItemKind = "side"
)

// IsValid returns true for a known item kind
func (k ItemKind) IsValid() bool {
	switch k {
	case ItemKindProduct, ItemKindDrink, ItemKindSide:
		return true
	}
	return false
}

// InventoryItem is a sellable unit with an authoritative stock counter.
// StockQuantity is mutated exclusively through the stock ledger; catalog
// code treats it as read-only.
type InventoryItem struct {
	shared.BaseEntity
	Name          string            `gorm:"type:varchar(200);not null"`
	Kind          ItemKind          `gorm:"type:varchar(20);not null;index"`
	UnitPrice     valueobject.Money `gorm:"type:decimal(18,4);not null"`
	StockQuantity int               `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// NewInventoryItem creates a new inventory item
func NewInventoryItem(name string, kind ItemKind, unitPrice valueobject.Money, initialStock int) (*InventoryItem, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewValidationError("item name is required")
	}
	if !kind.IsValid() {
		return nil, shared.NewValidationError("unknown item kind: " + string(kind))
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewValidationError("unit price cannot be negative")
	}
	if initialStock < 0 {
		return nil, shared.NewValidationError("initial stock cannot be negative")
	}

	return &InventoryItem{
		BaseEntity:    shared.NewBaseEntity(),
		Name:          name,
		Kind:          kind,
		UnitPrice:     unitPrice,
		StockQuantity: initialStock,
	}, nil
}

// InStock returns true when at least qty units remain
func (i *InventoryItem) InStock(qty int) bool {
	return i.StockQuantity >= qty
}

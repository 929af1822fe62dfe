package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ComboRepository provides read access to combo definitions. Authoring
// happens in the admin workflow; checkout only ever reads.
type ComboRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ComboDefinition, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]ComboDefinition, error)
	FindAll(ctx context.Context) ([]ComboDefinition, error)
	Save(ctx context.Context, combo *ComboDefinition) error
}

// InventoryItemRepository provides access to inventory items. Stock
// counters are mutated only through the inventory store used by the
// stock ledger, never through this repository.
type InventoryItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryItem, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]InventoryItem, error)
	Save(ctx context.Context, item *InventoryItem) error
}

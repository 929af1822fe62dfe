package pricing

import (
	"sort"

	"github.com/google/uuid"
	"github.com/quickserve/backend/internal/domain/catalog"
	"github.com/quickserve/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CartLine is one line of a cashier cart: either a combo (with the buyer's
// choice-group selections) or a standalone inventory item. UnitPrice is the
// undiscounted price - the combo base price or the item price.
type CartLine struct {
	ComboID    *uuid.UUID
	ProductID  *uuid.UUID
	Quantity   int
	UnitPrice  valueobject.Money
	Selections []catalog.Selection
}

// IsCombo returns true when the line sells a combo
func (l CartLine) IsCombo() bool {
	return l.ComboID != nil
}

// Cart is the full set of lines priced together. Cross-item promotions and
// temporal windows depend on the whole cart and the clock at commit time,
// which is why pricing happens at finalize, not at add-to-cart.
type Cart []CartLine

// ComboQuantity sums the quantity of a combo across all cart lines
func (c Cart) ComboQuantity(comboID uuid.UUID) int {
	total := 0
	for _, line := range c {
		if line.ComboID != nil && *line.ComboID == comboID {
			total += line.Quantity
		}
	}
	return total
}

// Catalog indexes the combo definitions visible to the rule engine
type Catalog map[uuid.UUID]*catalog.ComboDefinition

// Combo looks up a combo definition by ID
func (c Catalog) Combo(id uuid.UUID) (*catalog.ComboDefinition, bool) {
	combo, ok := c[id]
	return combo, ok
}

// sortedIDs returns the catalog's combo IDs in a stable order so rule
// evaluation is deterministic across runs
func (c Catalog) sortedIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// AppliedDiscount records the winning rule for a priced line
type AppliedDiscount struct {
	RuleID     uuid.UUID        `json:"rule_id"`
	Kind       catalog.RuleKind `json:"kind"`
	Percentage decimal.Decimal  `json:"percentage"`
}

// PricedLine is a cart line with its resolved final unit price. Discount
// is nil when no rule applied; FinalUnitPrice then equals UnitPrice.
type PricedLine struct {
	CartLine
	FinalUnitPrice valueobject.Money
	Discount       *AppliedDiscount
}

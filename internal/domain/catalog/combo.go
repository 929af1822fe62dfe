package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/quickserve/backend/internal/domain/shared"
	"github.com/quickserve/backend/internal/domain/shared/valueobject"
)

// SelectionMode distinguishes components that are always included from
// components the buyer picks out of a choice group
type SelectionMode string

const (
	SelectionModeFixed  SelectionMode = "fixed"
	SelectionModeChoice SelectionMode = "choice"
)

// ComboLineItem is one component slot of a combo. Fixed slots are implicit
// in every sale; choice slots belong to a named choice group from which
// exactly one alternative is picked.
type ComboLineItem struct {
	shared.BaseEntity
	ComboID       uuid.UUID     `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID     `gorm:"type:uuid;not null"`
	Quantity      int           `gorm:"not null;default:1"`
	SelectionMode SelectionMode `gorm:"type:varchar(10);not null"`
	ChoiceGroup   string        `gorm:"type:varchar(100)"` // empty for fixed items
	Position      int           `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ComboLineItem) TableName() string {
	return "combo_line_items"
}

// IsChoice returns true for a choice slot
func (l *ComboLineItem) IsChoice() bool {
	return l.SelectionMode == SelectionModeChoice
}

// ComboDefinition is a sellable bundle: a base price, component slots and
// the discount rules declared against it. Definitions are authored by the
// admin workflow and are read-only during checkout.
type ComboDefinition struct {
	shared.BaseAggregateRoot
	Name          string            `gorm:"type:varchar(200);not null"`
	BasePrice     valueobject.Money `gorm:"type:decimal(18,4);not null"`
	LineItems     []ComboLineItem   `gorm:"foreignKey:ComboID;references:ID"`
	DiscountRules []DiscountRule    `gorm:"foreignKey:ComboID;references:ID"`
}

// TableName returns the table name for GORM
func (ComboDefinition) TableName() string {
	return "combo_definitions"
}

// NewComboDefinition creates a new combo definition
func NewComboDefinition(name string, basePrice valueobject.Money) (*ComboDefinition, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewValidationError("combo name is required")
	}
	if basePrice.IsNegative() {
		return nil, shared.NewValidationError("base price cannot be negative")
	}

	return &ComboDefinition{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		BasePrice:         basePrice,
	}, nil
}

// AddFixedItem appends an always-included component slot
func (c *ComboDefinition) AddFixedItem(productID uuid.UUID, quantity int) (*ComboLineItem, error) {
	if quantity <= 0 {
		return nil, shared.NewValidationError("line item quantity must be positive")
	}
	line := ComboLineItem{
		BaseEntity:    shared.NewBaseEntity(),
		ComboID:       c.ID,
		ProductID:     productID,
		Quantity:      quantity,
		SelectionMode: SelectionModeFixed,
		Position:      len(c.LineItems),
	}
	c.LineItems = append(c.LineItems, line)
	return &c.LineItems[len(c.LineItems)-1], nil
}

// AddChoiceItem appends an alternative to the named choice group
func (c *ComboDefinition) AddChoiceItem(productID uuid.UUID, quantity int, choiceGroup string) (*ComboLineItem, error) {
	if quantity <= 0 {
		return nil, shared.NewValidationError("line item quantity must be positive")
	}
	if strings.TrimSpace(choiceGroup) == "" {
		return nil, shared.NewValidationError("choice items require a choice group")
	}
	line := ComboLineItem{
		BaseEntity:    shared.NewBaseEntity(),
		ComboID:       c.ID,
		ProductID:     productID,
		Quantity:      quantity,
		SelectionMode: SelectionModeChoice,
		ChoiceGroup:   choiceGroup,
		Position:      len(c.LineItems),
	}
	c.LineItems = append(c.LineItems, line)
	return &c.LineItems[len(c.LineItems)-1], nil
}

// AddDiscountRule attaches a rule to the combo, preserving declaration order
func (c *ComboDefinition) AddDiscountRule(rule DiscountRule) {
	rule.ComboID = c.ID
	rule.Position = len(c.DiscountRules)
	c.DiscountRules = append(c.DiscountRules, rule)
}

// FixedItems returns the fixed slots in declaration order
func (c *ComboDefinition) FixedItems() []ComboLineItem {
	fixed := make([]ComboLineItem, 0, len(c.LineItems))
	for _, line := range c.LineItems {
		if !line.IsChoice() {
			fixed = append(fixed, line)
		}
	}
	return fixed
}

// ChoiceGroups returns the distinct choice group names in declaration order
func (c *ComboDefinition) ChoiceGroups() []string {
	seen := make(map[string]bool)
	groups := make([]string, 0)
	for _, line := range c.LineItems {
		if line.IsChoice() && !seen[line.ChoiceGroup] {
			seen[line.ChoiceGroup] = true
			groups = append(groups, line.ChoiceGroup)
		}
	}
	return groups
}

// GroupAlternatives returns the alternatives declared for a choice group
func (c *ComboDefinition) GroupAlternatives(choiceGroup string) []ComboLineItem {
	alts := make([]ComboLineItem, 0)
	for _, line := range c.LineItems {
		if line.IsChoice() && line.ChoiceGroup == choiceGroup {
			alts = append(alts, line)
		}
	}
	return alts
}

// RulesOfKind returns the combo's rules of one kind in declaration order
func (c *ComboDefinition) RulesOfKind(kind RuleKind) []DiscountRule {
	rules := make([]DiscountRule, 0)
	for _, rule := range c.DiscountRules {
		if rule.Kind == kind {
			rules = append(rules, rule)
		}
	}
	return rules
}

// HasFixedProduct returns true when productID is declared as a fixed slot
func (c *ComboDefinition) HasFixedProduct(productID uuid.UUID) bool {
	for _, line := range c.LineItems {
		if !line.IsChoice() && line.ProductID == productID {
			return true
		}
	}
	return false
}

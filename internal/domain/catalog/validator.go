package catalog

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/quickserve/backend/internal/domain/shared"
)

// Selection is a buyer's pick for one choice group of a combo
type Selection struct {
	ChoiceGroup string
	ProductID   uuid.UUID
}

// LineupEntry is one concrete component of a resolved combo sale
type LineupEntry struct {
	Item     *InventoryItem
	Quantity int
}

// ComboValidator is a pure domain service that checks the structural
// soundness of combo definitions and of buyer selections within them.
// All methods collect every violation instead of stopping at the first.
type ComboValidator struct{}

// NewComboValidator creates a new combo validator
func NewComboValidator() *ComboValidator {
	return &ComboValidator{}
}

// ValidateDefinition checks a combo definition and returns the full list
// of violations: no line items at all, choice items missing a choice
// group, and choice groups with fewer than two alternatives.
func (v *ComboValidator) ValidateDefinition(combo *ComboDefinition) []error {
	violations := make([]error, 0)

	if len(combo.LineItems) == 0 {
		violations = append(violations,
			shared.NewValidationError("combo must declare at least one line item"))
	}

	for _, line := range combo.LineItems {
		if line.IsChoice() && line.ChoiceGroup == "" {
			violations = append(violations, shared.NewValidationError(
				fmt.Sprintf("choice item %s must declare a choice group", line.ProductID)))
		}
	}

	for _, group := range combo.ChoiceGroups() {
		if len(combo.GroupAlternatives(group)) < 2 {
			violations = append(violations, shared.NewValidationError(
				fmt.Sprintf("choice group %q must offer at least two alternatives", group)))
		}
	}

	return violations
}

// ValidateSelections checks buyer selections against a combo definition.
// Every declared choice group needs exactly one selection naming one of
// its alternatives; fixed products are implicit and must never be
// selected explicitly.
func (v *ComboValidator) ValidateSelections(combo *ComboDefinition, selections []Selection) []error {
	violations := make([]error, 0)

	groups := combo.ChoiceGroups()
	declared := make(map[string]bool, len(groups))
	for _, g := range groups {
		declared[g] = true
	}

	seen := make(map[string]bool)
	for _, sel := range selections {
		if combo.HasFixedProduct(sel.ProductID) {
			violations = append(violations, shared.NewValidationError(
				fmt.Sprintf("product %s is a fixed component and cannot be selected", sel.ProductID)))
			continue
		}
		if !declared[sel.ChoiceGroup] {
			violations = append(violations, shared.NewValidationError(
				fmt.Sprintf("combo %q has no choice group %q", combo.Name, sel.ChoiceGroup)))
			continue
		}
		if seen[sel.ChoiceGroup] {
			violations = append(violations, shared.NewValidationError(
				fmt.Sprintf("duplicate selection for choice group %q", sel.ChoiceGroup)))
			continue
		}
		seen[sel.ChoiceGroup] = true

		if v.alternativeFor(combo, sel) == nil {
			violations = append(violations, shared.NewValidationError(
				fmt.Sprintf("product %s is not an alternative of choice group %q",
					sel.ProductID, sel.ChoiceGroup)))
		}
	}

	for _, group := range groups {
		if !seen[group] {
			violations = append(violations, shared.NewValidationError(
				fmt.Sprintf("choice group %q requires a selection", group)))
		}
	}

	return violations
}

// ResolveFinalLineup validates the selections and, on success, returns the
// concrete component list (fixed slots plus chosen alternatives) resolved
// against the inventory index. On any violation only the errors are
// returned, never a partial lineup.
func (v *ComboValidator) ResolveFinalLineup(
	combo *ComboDefinition,
	selections []Selection,
	inventoryIndex map[uuid.UUID]*InventoryItem,
) ([]LineupEntry, []error) {
	violations := v.ValidateSelections(combo, selections)
	if len(violations) > 0 {
		return nil, violations
	}

	chosen := make(map[string]uuid.UUID, len(selections))
	for _, sel := range selections {
		chosen[sel.ChoiceGroup] = sel.ProductID
	}

	lineup := make([]LineupEntry, 0, len(combo.LineItems))
	for _, line := range combo.LineItems {
		productID := line.ProductID
		if line.IsChoice() {
			if chosen[line.ChoiceGroup] != line.ProductID {
				continue // not the picked alternative
			}
			productID = chosen[line.ChoiceGroup]
		}

		item, ok := inventoryIndex[productID]
		if !ok {
			violations = append(violations, shared.NewDomainError(shared.ErrNotFound.Code,
				fmt.Sprintf("inventory item %s not found", productID)))
			continue
		}
		lineup = append(lineup, LineupEntry{Item: item, Quantity: line.Quantity})
	}

	if len(violations) > 0 {
		return nil, violations
	}
	return lineup, nil
}

// alternativeFor returns the line item matching a selection, or nil
func (v *ComboValidator) alternativeFor(combo *ComboDefinition, sel Selection) *ComboLineItem {
	alts := combo.GroupAlternatives(sel.ChoiceGroup)
	for i := range alts {
		if alts[i].ProductID == sel.ProductID {
			return &alts[i]
		}
	}
	return nil
}

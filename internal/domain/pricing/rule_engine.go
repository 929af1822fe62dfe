package pricing

import (
	"time"

	"github.com/quickserve/backend/internal/domain/catalog"
	"github.com/quickserve/backend/internal/domain/shared"
	"github.com/quickserve/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

const isoDateLayout = "2006-01-02"
const clockLayout = "15:04"

// RuleEngine is a pure domain service computing discounts over combos, a
// cart and a clock reading. It holds no state and is safe for concurrent
// use from any goroutine.
//
// When several rule classes apply to one line the highest percentage wins;
// on a tie the class computed first keeps the line (simple, then quantity,
// then cross-promotion). Discounts never stack.
type RuleEngine struct{}

// NewRuleEngine creates a new rule engine
func NewRuleEngine() *RuleEngine {
	return &RuleEngine{}
}

// IsRuleActive reports whether a rule's temporal condition holds at now.
// Weekday rules compare now's weekday (0=Sunday), date rules compare now's
// ISO calendar date, and a time range additionally requires now's
// time-of-day to fall within [start, end].
func (e *RuleEngine) IsRuleActive(rule *catalog.DiscountRule, now time.Time) bool {
	switch rule.TemporalKind {
	case catalog.TemporalKindWeekday:
		if int(now.Weekday()) != rule.Weekday {
			return false
		}
	case catalog.TemporalKindDate:
		if now.Format(isoDateLayout) != rule.Date {
			return false
		}
	default:
		return false
	}

	if !rule.HasTimeRange() {
		return true
	}
	return e.withinTimeRange(rule.StartTime, rule.EndTime, now)
}

// withinTimeRange checks now's time-of-day against an inclusive [start, end]
// window given as "HH:MM" strings. A malformed window never activates.
func (e *RuleEngine) withinTimeRange(start, end string, now time.Time) bool {
	startClock, err := time.Parse(clockLayout, start)
	if err != nil {
		return false
	}
	endClock, err := time.Parse(clockLayout, end)
	if err != nil {
		return false
	}

	minutes := now.Hour()*60 + now.Minute()
	startMin := startClock.Hour()*60 + startClock.Minute()
	endMin := endClock.Hour()*60 + endClock.Minute()
	return minutes >= startMin && minutes <= endMin
}

// SimpleDiscountFor returns the first active simple rule on the combo in
// declaration order. First match wins; there is no best-of-many for this
// kind.
func (e *RuleEngine) SimpleDiscountFor(combo *catalog.ComboDefinition, now time.Time) *catalog.DiscountRule {
	for _, rule := range combo.RulesOfKind(catalog.RuleKindSimple) {
		if e.IsRuleActive(&rule, now) {
			active := rule
			return &active
		}
	}
	return nil
}

// QuantityDiscountFor evaluates the combo's quantity rules against a cart
// line. The first active rule whose RequiredQuantity the line reaches
// yields a discount equivalent to the blended unit price
//
//	(normal*unit + discounted*unit*(1-pct/100)) / quantity
//
// expressed as an effective percentage of the unit price.
func (e *RuleEngine) QuantityDiscountFor(line CartLine, combo *catalog.ComboDefinition, now time.Time) (*AppliedDiscount, error) {
	for _, rule := range combo.RulesOfKind(catalog.RuleKindQuantity) {
		if !e.IsRuleActive(&rule, now) {
			continue
		}
		if rule.RequiredQuantity <= 0 || line.Quantity < rule.RequiredQuantity {
			continue
		}
		if err := rule.ValidatePercentage(); err != nil {
			return nil, err
		}

		groups := line.Quantity / rule.RequiredQuantity
		discountedUnits := groups * rule.DiscountedQuantity
		if discountedUnits > line.Quantity {
			discountedUnits = line.Quantity
		}
		if discountedUnits == 0 {
			continue
		}

		// pct * discountedUnits / quantity == 1 - blended/unit, scaled to 100
		effective := rule.Percentage.
			Mul(decimal.NewFromInt(int64(discountedUnits))).
			Div(decimal.NewFromInt(int64(line.Quantity)))

		return &AppliedDiscount{
			RuleID:     rule.ID,
			Kind:       catalog.RuleKindQuantity,
			Percentage: effective,
		}, nil
	}
	return nil, nil
}

// CrossPromotionDiscountFor scans every cross-promotion rule in the
// catalog. A rule fires when it is active and its trigger combo appears in
// the cart with quantity > 0; it then offers its percentage to every line
// selling the target combo. Offers merge keep-best: a percentage only
// replaces a strictly greater one, never stacks.
func (e *RuleEngine) CrossPromotionDiscountFor(line CartLine, cart Cart, cat Catalog, now time.Time) (*AppliedDiscount, error) {
	if !line.IsCombo() {
		return nil, nil
	}

	var best *AppliedDiscount
	for _, comboID := range cat.sortedIDs() {
		combo := cat[comboID]
		for _, rule := range combo.RulesOfKind(catalog.RuleKindCrossPromotion) {
			if !e.IsRuleActive(&rule, now) {
				continue
			}
			if rule.TriggerComboID == nil || rule.TargetComboID == nil {
				continue
			}
			if *rule.TargetComboID != *line.ComboID {
				continue
			}
			if cart.ComboQuantity(*rule.TriggerComboID) <= 0 {
				continue
			}
			if err := rule.ValidatePercentage(); err != nil {
				return nil, err
			}
			if best == nil || rule.Percentage.GreaterThan(best.Percentage) {
				best = &AppliedDiscount{
					RuleID:     rule.ID,
					Kind:       catalog.RuleKindCrossPromotion,
					Percentage: rule.Percentage,
				}
			}
		}
	}
	return best, nil
}

// ResolveBestDiscount evaluates all three rule classes for a cart line and
// selects the maximum percentage among them (max-wins). It returns the
// final unit price and the winning discount, or the plain unit price and a
// nil discount when nothing applies.
func (e *RuleEngine) ResolveBestDiscount(line CartLine, cart Cart, cat Catalog, now time.Time) (valueobject.Money, *AppliedDiscount, error) {
	var best *AppliedDiscount

	if line.IsCombo() {
		combo, ok := cat.Combo(*line.ComboID)
		if !ok {
			return valueobject.Money{}, nil, shared.NewDomainError(shared.ErrNotFound.Code,
				"combo "+line.ComboID.String()+" not found in catalog")
		}

		if rule := e.SimpleDiscountFor(combo, now); rule != nil {
			if err := rule.ValidatePercentage(); err != nil {
				return valueobject.Money{}, nil, err
			}
			best = &AppliedDiscount{
				RuleID:     rule.ID,
				Kind:       catalog.RuleKindSimple,
				Percentage: rule.Percentage,
			}
		}

		quantity, err := e.QuantityDiscountFor(line, combo, now)
		if err != nil {
			return valueobject.Money{}, nil, err
		}
		best = keepBest(best, quantity)
	}

	cross, err := e.CrossPromotionDiscountFor(line, cart, cat, now)
	if err != nil {
		return valueobject.Money{}, nil, err
	}
	best = keepBest(best, cross)

	if best == nil {
		return line.UnitPrice, nil, nil
	}
	return line.UnitPrice.ApplyDiscount(best.Percentage), best, nil
}

// PriceCart resolves the best discount for every cart line
func (e *RuleEngine) PriceCart(cart Cart, cat Catalog, now time.Time) ([]PricedLine, error) {
	priced := make([]PricedLine, 0, len(cart))
	for _, line := range cart {
		finalPrice, discount, err := e.ResolveBestDiscount(line, cart, cat, now)
		if err != nil {
			return nil, err
		}
		priced = append(priced, PricedLine{
			CartLine:       line,
			FinalUnitPrice: finalPrice,
			Discount:       discount,
		})
	}
	return priced, nil
}

// keepBest returns the candidate with the strictly greater percentage; on
// a tie the earlier-computed candidate wins.
func keepBest(current, candidate *AppliedDiscount) *AppliedDiscount {
	if candidate == nil {
		return current
	}
	if current == nil || candidate.Percentage.GreaterThan(current.Percentage) {
		return candidate
	}
	return current
}

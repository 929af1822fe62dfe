package pricing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickserve/backend/internal/domain/catalog"
	"github.com/quickserve/backend/internal/domain/shared"
	"github.com/quickserve/backend/internal/domain/shared/valueobject"
)

// monday is 2025-03-10, a Monday
var monday = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newCombo(t *testing.T, name string, basePrice float64) *catalog.ComboDefinition {
	t.Helper()
	combo, err := catalog.NewComboDefinition(name, valueobject.NewMoneyUSDFromFloat(basePrice))
	require.NoError(t, err)
	return combo
}

func weekdayRule(kind catalog.RuleKind, pct float64, weekday int) catalog.DiscountRule {
	return catalog.DiscountRule{
		BaseEntity:   shared.NewBaseEntity(),
		Kind:         kind,
		Percentage:   decimal.NewFromFloat(pct),
		TemporalKind: catalog.TemporalKindWeekday,
		Weekday:      weekday,
	}
}

func comboLine(comboID uuid.UUID, qty int, unitPrice float64) CartLine {
	id := comboID
	return CartLine{
		ComboID:   &id,
		Quantity:  qty,
		UnitPrice: valueobject.NewMoneyUSDFromFloat(unitPrice),
	}
}

func TestIsRuleActive(t *testing.T) {
	e := NewRuleEngine()

	t.Run("weekday match", func(t *testing.T) {
		rule := weekdayRule(catalog.RuleKindSimple, 10, 1)
		assert.True(t, e.IsRuleActive(&rule, monday))
		assert.False(t, e.IsRuleActive(&rule, monday.AddDate(0, 0, 1)))
	})

	t.Run("date match", func(t *testing.T) {
		rule := catalog.DiscountRule{
			Kind:         catalog.RuleKindSimple,
			Percentage:   decimal.NewFromInt(10),
			TemporalKind: catalog.TemporalKindDate,
			Date:         "2025-03-10",
		}
		assert.True(t, e.IsRuleActive(&rule, monday))
		assert.False(t, e.IsRuleActive(&rule, monday.AddDate(0, 0, 7)))
	})

	t.Run("time window is inclusive on both ends", func(t *testing.T) {
		rule := weekdayRule(catalog.RuleKindSimple, 10, 1)
		rule.StartTime = "11:00"
		rule.EndTime = "14:00"

		at := func(h, m int) time.Time {
			return time.Date(2025, 3, 10, h, m, 0, 0, time.UTC)
		}
		assert.True(t, e.IsRuleActive(&rule, at(11, 0)))
		assert.True(t, e.IsRuleActive(&rule, at(14, 0)))
		assert.True(t, e.IsRuleActive(&rule, at(12, 30)))
		assert.False(t, e.IsRuleActive(&rule, at(10, 59)))
		assert.False(t, e.IsRuleActive(&rule, at(14, 1)))
	})

	t.Run("malformed time window never activates", func(t *testing.T) {
		rule := weekdayRule(catalog.RuleKindSimple, 10, 1)
		rule.StartTime = "25:99"
		rule.EndTime = "14:00"
		assert.False(t, e.IsRuleActive(&rule, monday))
	})
}

func TestSimpleDiscount(t *testing.T) {
	e := NewRuleEngine()

	t.Run("first active rule wins in declaration order", func(t *testing.T) {
		combo := newCombo(t, "Burger Combo", 10.00)
		combo.AddDiscountRule(weekdayRule(catalog.RuleKindSimple, 10, 1))
		combo.AddDiscountRule(weekdayRule(catalog.RuleKindSimple, 30, 1))

		rule := e.SimpleDiscountFor(combo, monday)
		require.NotNil(t, rule)
		assert.True(t, rule.Percentage.Equal(decimal.NewFromInt(10)))
	})

	t.Run("inactive rules are skipped", func(t *testing.T) {
		combo := newCombo(t, "Burger Combo", 10.00)
		combo.AddDiscountRule(weekdayRule(catalog.RuleKindSimple, 10, 2))
		combo.AddDiscountRule(weekdayRule(catalog.RuleKindSimple, 30, 1))

		rule := e.SimpleDiscountFor(combo, monday)
		require.NotNil(t, rule)
		assert.True(t, rule.Percentage.Equal(decimal.NewFromInt(30)))
	})

	t.Run("nothing active", func(t *testing.T) {
		combo := newCombo(t, "Burger Combo", 10.00)
		combo.AddDiscountRule(weekdayRule(catalog.RuleKindSimple, 10, 3))
		assert.Nil(t, e.SimpleDiscountFor(combo, monday))
	})
}

func TestQuantityDiscount(t *testing.T) {
	e := NewRuleEngine()

	quantityRule := func(pct float64, required, discounted int) catalog.DiscountRule {
		rule := weekdayRule(catalog.RuleKindQuantity, pct, 1)
		rule.RequiredQuantity = required
		rule.DiscountedQuantity = discounted
		return rule
	}

	t.Run("blends the discounted units into an effective percentage", func(t *testing.T) {
		combo := newCombo(t, "Burger Combo", 10.00)
		combo.AddDiscountRule(quantityRule(50, 2, 1))

		// 5 units, 2 groups of 2, so 2 units at half price:
		// (3*10 + 2*5) / 5 = 8.00, an effective 20%
		line := comboLine(combo.ID, 5, 10.00)
		d, err := e.QuantityDiscountFor(line, combo, monday)
		require.NoError(t, err)
		require.NotNil(t, d)
		assert.True(t, d.Percentage.Equal(decimal.NewFromInt(20)), "got %s", d.Percentage)

		final := line.UnitPrice.ApplyDiscount(d.Percentage)
		assert.True(t, final.Equals(valueobject.NewMoneyUSDFromFloat(8.00)))
	})

	t.Run("below the required quantity nothing applies", func(t *testing.T) {
		combo := newCombo(t, "Burger Combo", 10.00)
		combo.AddDiscountRule(quantityRule(50, 3, 1))

		d, err := e.QuantityDiscountFor(comboLine(combo.ID, 2, 10.00), combo, monday)
		require.NoError(t, err)
		assert.Nil(t, d)
	})

	t.Run("discounted units never exceed the line quantity", func(t *testing.T) {
		combo := newCombo(t, "Burger Combo", 10.00)
		combo.AddDiscountRule(quantityRule(50, 1, 2))

		d, err := e.QuantityDiscountFor(comboLine(combo.ID, 3, 10.00), combo, monday)
		require.NoError(t, err)
		require.NotNil(t, d)
		// capped at 3 of 3 units discounted, effective 50%
		assert.True(t, d.Percentage.Equal(decimal.NewFromInt(50)))
	})

	t.Run("invalid percentage surfaces at computation time", func(t *testing.T) {
		combo := newCombo(t, "Burger Combo", 10.00)
		combo.AddDiscountRule(quantityRule(150, 2, 1))

		_, err := e.QuantityDiscountFor(comboLine(combo.ID, 4, 10.00), combo, monday)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestCrossPromotionDiscount(t *testing.T) {
	e := NewRuleEngine()

	t.Run("appears with the trigger and disappears without it", func(t *testing.T) {
		trigger := newCombo(t, "Family Feast", 25.00)
		target := newCombo(t, "Kids Meal", 6.00)

		rule := weekdayRule(catalog.RuleKindCrossPromotion, 20, 1)
		triggerID, targetID := trigger.ID, target.ID
		rule.TriggerComboID = &triggerID
		rule.TargetComboID = &targetID
		trigger.AddDiscountRule(rule)

		cat := Catalog{trigger.ID: trigger, target.ID: target}
		targetLine := comboLine(target.ID, 1, 6.00)

		with := Cart{comboLine(trigger.ID, 1, 25.00), targetLine}
		d, err := e.CrossPromotionDiscountFor(targetLine, with, cat, monday)
		require.NoError(t, err)
		require.NotNil(t, d)
		assert.True(t, d.Percentage.Equal(decimal.NewFromInt(20)))

		without := Cart{targetLine}
		d, err = e.CrossPromotionDiscountFor(targetLine, without, cat, monday)
		require.NoError(t, err)
		assert.Nil(t, d)
	})

	t.Run("self-trigger models buy combo get same combo", func(t *testing.T) {
		combo := newCombo(t, "Burger Combo", 10.00)
		rule := weekdayRule(catalog.RuleKindCrossPromotion, 15, 1)
		id := combo.ID
		rule.TriggerComboID = &id
		rule.TargetComboID = &id
		combo.AddDiscountRule(rule)

		cat := Catalog{combo.ID: combo}
		line := comboLine(combo.ID, 2, 10.00)

		d, err := e.CrossPromotionDiscountFor(line, Cart{line}, cat, monday)
		require.NoError(t, err)
		require.NotNil(t, d)
	})

	t.Run("competing offers merge keep-best", func(t *testing.T) {
		a := newCombo(t, "Combo A", 12.00)
		b := newCombo(t, "Combo B", 15.00)
		target := newCombo(t, "Kids Meal", 6.00)
		targetID := target.ID

		weak := weekdayRule(catalog.RuleKindCrossPromotion, 10, 1)
		aID := a.ID
		weak.TriggerComboID = &aID
		weak.TargetComboID = &targetID
		a.AddDiscountRule(weak)

		strong := weekdayRule(catalog.RuleKindCrossPromotion, 25, 1)
		bID := b.ID
		strong.TriggerComboID = &bID
		strong.TargetComboID = &targetID
		b.AddDiscountRule(strong)

		cat := Catalog{a.ID: a, b.ID: b, target.ID: target}
		targetLine := comboLine(target.ID, 1, 6.00)
		cart := Cart{comboLine(a.ID, 1, 12.00), comboLine(b.ID, 1, 15.00), targetLine}

		d, err := e.CrossPromotionDiscountFor(targetLine, cart, cat, monday)
		require.NoError(t, err)
		require.NotNil(t, d)
		assert.True(t, d.Percentage.Equal(decimal.NewFromInt(25)))
	})

	t.Run("standalone item lines never match", func(t *testing.T) {
		productID := uuid.New()
		line := CartLine{ProductID: &productID, Quantity: 1, UnitPrice: valueobject.NewMoneyUSDFromFloat(3.00)}

		d, err := e.CrossPromotionDiscountFor(line, Cart{line}, Catalog{}, monday)
		require.NoError(t, err)
		assert.Nil(t, d)
	})
}

func TestResolveBestDiscount(t *testing.T) {
	e := NewRuleEngine()

	t.Run("maximum percentage wins across rule classes", func(t *testing.T) {
		combo := newCombo(t, "Burger Combo", 10.00)
		combo.AddDiscountRule(weekdayRule(catalog.RuleKindSimple, 10, 1))

		quantity := weekdayRule(catalog.RuleKindQuantity, 50, 1)
		quantity.RequiredQuantity = 2
		quantity.DiscountedQuantity = 1
		combo.AddDiscountRule(quantity)

		cat := Catalog{combo.ID: combo}
		// 4 units, 2 discounted at 50%: effective 25%, beating simple 10%
		line := comboLine(combo.ID, 4, 10.00)

		final, d, err := e.ResolveBestDiscount(line, Cart{line}, cat, monday)
		require.NoError(t, err)
		require.NotNil(t, d)
		assert.Equal(t, catalog.RuleKindQuantity, d.Kind)
		assert.True(t, final.Equals(valueobject.NewMoneyUSDFromFloat(7.50)))
	})

	t.Run("tie goes to the class computed first", func(t *testing.T) {
		combo := newCombo(t, "Burger Combo", 10.00)
		combo.AddDiscountRule(weekdayRule(catalog.RuleKindSimple, 25, 1))

		quantity := weekdayRule(catalog.RuleKindQuantity, 50, 1)
		quantity.RequiredQuantity = 2
		quantity.DiscountedQuantity = 1
		combo.AddDiscountRule(quantity)

		cat := Catalog{combo.ID: combo}
		// quantity also resolves to an effective 25%
		line := comboLine(combo.ID, 4, 10.00)

		_, d, err := e.ResolveBestDiscount(line, Cart{line}, cat, monday)
		require.NoError(t, err)
		require.NotNil(t, d)
		assert.Equal(t, catalog.RuleKindSimple, d.Kind)
	})

	t.Run("no active rules leaves the unit price untouched", func(t *testing.T) {
		combo := newCombo(t, "Burger Combo", 10.00)
		combo.AddDiscountRule(weekdayRule(catalog.RuleKindSimple, 10, 3))

		cat := Catalog{combo.ID: combo}
		line := comboLine(combo.ID, 1, 10.00)

		final, d, err := e.ResolveBestDiscount(line, Cart{line}, cat, monday)
		require.NoError(t, err)
		assert.Nil(t, d)
		assert.True(t, final.Equals(line.UnitPrice))
	})

	t.Run("unknown combo", func(t *testing.T) {
		line := comboLine(uuid.New(), 1, 10.00)
		_, _, err := e.ResolveBestDiscount(line, Cart{line}, Catalog{}, monday)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestPriceCart(t *testing.T) {
	e := NewRuleEngine()

	combo := newCombo(t, "Burger Combo", 10.00)
	combo.AddDiscountRule(weekdayRule(catalog.RuleKindSimple, 10, 1))
	cat := Catalog{combo.ID: combo}

	productID := uuid.New()
	cart := Cart{
		comboLine(combo.ID, 2, 10.00),
		{ProductID: &productID, Quantity: 1, UnitPrice: valueobject.NewMoneyUSDFromFloat(2.50)},
	}

	priced, err := e.PriceCart(cart, cat, monday)
	require.NoError(t, err)
	require.Len(t, priced, 2)

	require.NotNil(t, priced[0].Discount)
	assert.True(t, priced[0].FinalUnitPrice.Equals(valueobject.NewMoneyUSDFromFloat(9.00)))

	assert.Nil(t, priced[1].Discount)
	assert.True(t, priced[1].FinalUnitPrice.Equals(valueobject.NewMoneyUSDFromFloat(2.50)))
}

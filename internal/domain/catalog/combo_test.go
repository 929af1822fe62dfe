package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickserve/backend/internal/domain/shared"
	"github.com/quickserve/backend/internal/domain/shared/valueobject"
)

func TestNewComboDefinition(t *testing.T) {
	t.Run("creates a combo", func(t *testing.T) {
		combo, err := NewComboDefinition("Burger Combo", valueobject.NewMoneyUSDFromFloat(9.99))
		require.NoError(t, err)
		assert.Equal(t, "Burger Combo", combo.Name)
		assert.NotEqual(t, uuid.Nil, combo.ID)
	})

	t.Run("rejects blank name", func(t *testing.T) {
		_, err := NewComboDefinition("  ", valueobject.ZeroUSD())
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("rejects negative base price", func(t *testing.T) {
		_, err := NewComboDefinition("Burger Combo", valueobject.NewMoneyUSDFromFloat(-1))
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestComboDefinitionLineItems(t *testing.T) {
	newCombo := func(t *testing.T) *ComboDefinition {
		combo, err := NewComboDefinition("Burger Combo", valueobject.NewMoneyUSDFromFloat(9.99))
		require.NoError(t, err)
		return combo
	}

	t.Run("fixed and choice slots keep declaration order", func(t *testing.T) {
		combo := newCombo(t)
		burger := uuid.New()
		cola := uuid.New()
		juice := uuid.New()

		_, err := combo.AddFixedItem(burger, 1)
		require.NoError(t, err)
		_, err = combo.AddChoiceItem(cola, 1, "drink")
		require.NoError(t, err)
		_, err = combo.AddChoiceItem(juice, 1, "drink")
		require.NoError(t, err)

		fixed := combo.FixedItems()
		require.Len(t, fixed, 1)
		assert.Equal(t, burger, fixed[0].ProductID)

		assert.Equal(t, []string{"drink"}, combo.ChoiceGroups())
		alts := combo.GroupAlternatives("drink")
		require.Len(t, alts, 2)
		assert.Equal(t, cola, alts[0].ProductID)
		assert.Equal(t, juice, alts[1].ProductID)

		assert.True(t, combo.HasFixedProduct(burger))
		assert.False(t, combo.HasFixedProduct(cola))

		for i, line := range combo.LineItems {
			assert.Equal(t, i, line.Position)
			assert.Equal(t, combo.ID, line.ComboID)
		}
	})

	t.Run("rejects non positive quantity", func(t *testing.T) {
		combo := newCombo(t)
		_, err := combo.AddFixedItem(uuid.New(), 0)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("rejects choice item without group", func(t *testing.T) {
		combo := newCombo(t)
		_, err := combo.AddChoiceItem(uuid.New(), 1, " ")
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("choice groups listed in first-seen order", func(t *testing.T) {
		combo := newCombo(t)
		for _, group := range []string{"drink", "side", "drink", "side"} {
			_, err := combo.AddChoiceItem(uuid.New(), 1, group)
			require.NoError(t, err)
		}
		assert.Equal(t, []string{"drink", "side"}, combo.ChoiceGroups())
	})
}

func TestComboDefinitionRules(t *testing.T) {
	combo, err := NewComboDefinition("Burger Combo", valueobject.NewMoneyUSDFromFloat(9.99))
	require.NoError(t, err)

	combo.AddDiscountRule(DiscountRule{
		BaseEntity:   shared.NewBaseEntity(),
		Kind:         RuleKindSimple,
		Percentage:   decimal.NewFromInt(10),
		TemporalKind: TemporalKindWeekday,
		Weekday:      1,
	})
	combo.AddDiscountRule(DiscountRule{
		BaseEntity:       shared.NewBaseEntity(),
		Kind:             RuleKindQuantity,
		Percentage:       decimal.NewFromInt(50),
		TemporalKind:     TemporalKindWeekday,
		Weekday:          1,
		RequiredQuantity: 2,
	})

	assert.Len(t, combo.RulesOfKind(RuleKindSimple), 1)
	assert.Len(t, combo.RulesOfKind(RuleKindQuantity), 1)
	assert.Empty(t, combo.RulesOfKind(RuleKindCrossPromotion))
	assert.Equal(t, 0, combo.DiscountRules[0].Position)
	assert.Equal(t, 1, combo.DiscountRules[1].Position)
	assert.Equal(t, combo.ID, combo.DiscountRules[0].ComboID)
}

func TestDiscountRuleValidatePercentage(t *testing.T) {
	cases := []struct {
		name    string
		pct     decimal.Decimal
		wantErr bool
	}{
		{"zero", decimal.Zero, true},
		{"negative", decimal.NewFromInt(-5), true},
		{"above hundred", decimal.NewFromFloat(100.01), true},
		{"one", decimal.NewFromInt(1), false},
		{"hundred", decimal.NewFromInt(100), false},
		{"fractional", decimal.NewFromFloat(12.5), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rule := DiscountRule{Percentage: tc.pct}
			err := rule.ValidatePercentage()
			if tc.wantErr {
				assert.ErrorIs(t, err, shared.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewInventoryItem(t *testing.T) {
	t.Run("creates an item", func(t *testing.T) {
		item, err := NewInventoryItem("Cola", ItemKindDrink, valueobject.NewMoneyUSDFromFloat(2.50), 20)
		require.NoError(t, err)
		assert.True(t, item.InStock(20))
		assert.False(t, item.InStock(21))
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		_, err := NewInventoryItem("Cola", ItemKind("dessert"), valueobject.ZeroUSD(), 0)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("rejects negative stock", func(t *testing.T) {
		_, err := NewInventoryItem("Cola", ItemKindDrink, valueobject.ZeroUSD(), -1)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

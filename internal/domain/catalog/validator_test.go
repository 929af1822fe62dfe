package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickserve/backend/internal/domain/shared/valueobject"
)

// burgerCombo builds: 1 fixed burger, drink group {cola, juice},
// side group {fries, salad}
func burgerCombo(t *testing.T) (*ComboDefinition, map[string]uuid.UUID) {
	t.Helper()
	combo, err := NewComboDefinition("Burger Combo", valueobject.NewMoneyUSDFromFloat(9.99))
	require.NoError(t, err)

	ids := map[string]uuid.UUID{
		"burger": uuid.New(),
		"cola":   uuid.New(),
		"juice":  uuid.New(),
		"fries":  uuid.New(),
		"salad":  uuid.New(),
	}

	_, err = combo.AddFixedItem(ids["burger"], 1)
	require.NoError(t, err)
	_, err = combo.AddChoiceItem(ids["cola"], 1, "drink")
	require.NoError(t, err)
	_, err = combo.AddChoiceItem(ids["juice"], 1, "drink")
	require.NoError(t, err)
	_, err = combo.AddChoiceItem(ids["fries"], 1, "side")
	require.NoError(t, err)
	_, err = combo.AddChoiceItem(ids["salad"], 1, "side")
	require.NoError(t, err)

	return combo, ids
}

func inventoryFor(t *testing.T, ids map[string]uuid.UUID) map[uuid.UUID]*InventoryItem {
	t.Helper()
	index := make(map[uuid.UUID]*InventoryItem, len(ids))
	for name, id := range ids {
		item, err := NewInventoryItem(name, ItemKindProduct, valueobject.NewMoneyUSDFromFloat(1.00), 100)
		require.NoError(t, err)
		item.ID = id
		index[id] = item
	}
	return index
}

func TestValidateDefinition(t *testing.T) {
	v := NewComboValidator()

	t.Run("well-formed combo passes", func(t *testing.T) {
		combo, _ := burgerCombo(t)
		assert.Empty(t, v.ValidateDefinition(combo))
	})

	t.Run("empty combo is rejected", func(t *testing.T) {
		combo, err := NewComboDefinition("Empty", valueobject.ZeroUSD())
		require.NoError(t, err)
		violations := v.ValidateDefinition(combo)
		require.Len(t, violations, 1)
	})

	t.Run("single-alternative group is rejected", func(t *testing.T) {
		combo, err := NewComboDefinition("Lonely", valueobject.ZeroUSD())
		require.NoError(t, err)
		_, err = combo.AddChoiceItem(uuid.New(), 1, "drink")
		require.NoError(t, err)

		violations := v.ValidateDefinition(combo)
		require.Len(t, violations, 1)
		assert.Contains(t, violations[0].Error(), "at least two alternatives")
	})

	t.Run("collects every violation", func(t *testing.T) {
		combo, err := NewComboDefinition("Broken", valueobject.ZeroUSD())
		require.NoError(t, err)
		_, err = combo.AddChoiceItem(uuid.New(), 1, "drink")
		require.NoError(t, err)
		_, err = combo.AddChoiceItem(uuid.New(), 1, "side")
		require.NoError(t, err)

		// both groups have a single alternative
		assert.Len(t, v.ValidateDefinition(combo), 2)
	})
}

func TestValidateSelections(t *testing.T) {
	v := NewComboValidator()

	t.Run("complete valid selections pass", func(t *testing.T) {
		combo, ids := burgerCombo(t)
		violations := v.ValidateSelections(combo, []Selection{
			{ChoiceGroup: "drink", ProductID: ids["cola"]},
			{ChoiceGroup: "side", ProductID: ids["fries"]},
		})
		assert.Empty(t, violations)
	})

	t.Run("selecting a fixed product is rejected", func(t *testing.T) {
		combo, ids := burgerCombo(t)
		violations := v.ValidateSelections(combo, []Selection{
			{ChoiceGroup: "drink", ProductID: ids["burger"]},
			{ChoiceGroup: "side", ProductID: ids["fries"]},
		})
		require.Len(t, violations, 2) // fixed pick plus missing drink selection
		assert.Contains(t, violations[0].Error(), "fixed component")
	})

	t.Run("unknown choice group is rejected", func(t *testing.T) {
		combo, ids := burgerCombo(t)
		violations := v.ValidateSelections(combo, []Selection{
			{ChoiceGroup: "dessert", ProductID: ids["cola"]},
			{ChoiceGroup: "drink", ProductID: ids["cola"]},
			{ChoiceGroup: "side", ProductID: ids["fries"]},
		})
		require.Len(t, violations, 1)
		assert.Contains(t, violations[0].Error(), "no choice group")
	})

	t.Run("duplicate group selection is rejected", func(t *testing.T) {
		combo, ids := burgerCombo(t)
		violations := v.ValidateSelections(combo, []Selection{
			{ChoiceGroup: "drink", ProductID: ids["cola"]},
			{ChoiceGroup: "drink", ProductID: ids["juice"]},
			{ChoiceGroup: "side", ProductID: ids["fries"]},
		})
		require.Len(t, violations, 1)
		assert.Contains(t, violations[0].Error(), "duplicate")
	})

	t.Run("product outside the group is rejected", func(t *testing.T) {
		combo, ids := burgerCombo(t)
		violations := v.ValidateSelections(combo, []Selection{
			{ChoiceGroup: "drink", ProductID: ids["fries"]},
			{ChoiceGroup: "side", ProductID: ids["fries"]},
		})
		require.Len(t, violations, 1)
		assert.Contains(t, violations[0].Error(), "not an alternative")
	})

	t.Run("missing group selection is rejected", func(t *testing.T) {
		combo, ids := burgerCombo(t)
		violations := v.ValidateSelections(combo, []Selection{
			{ChoiceGroup: "drink", ProductID: ids["cola"]},
		})
		require.Len(t, violations, 1)
		assert.Contains(t, violations[0].Error(), "requires a selection")
	})
}

func TestResolveFinalLineup(t *testing.T) {
	v := NewComboValidator()

	t.Run("resolves fixed slots plus picked alternatives", func(t *testing.T) {
		combo, ids := burgerCombo(t)
		index := inventoryFor(t, ids)

		lineup, violations := v.ResolveFinalLineup(combo, []Selection{
			{ChoiceGroup: "drink", ProductID: ids["juice"]},
			{ChoiceGroup: "side", ProductID: ids["salad"]},
		}, index)
		require.Empty(t, violations)
		require.Len(t, lineup, 3)

		assert.Equal(t, ids["burger"], lineup[0].Item.ID)
		assert.Equal(t, ids["juice"], lineup[1].Item.ID)
		assert.Equal(t, ids["salad"], lineup[2].Item.ID)
	})

	t.Run("invalid selections yield errors and no lineup", func(t *testing.T) {
		combo, ids := burgerCombo(t)
		index := inventoryFor(t, ids)

		lineup, violations := v.ResolveFinalLineup(combo, nil, index)
		assert.Nil(t, lineup)
		assert.Len(t, violations, 2)
	})

	t.Run("missing inventory item yields errors and no lineup", func(t *testing.T) {
		combo, ids := burgerCombo(t)
		index := inventoryFor(t, ids)
		delete(index, ids["burger"])

		lineup, violations := v.ResolveFinalLineup(combo, []Selection{
			{ChoiceGroup: "drink", ProductID: ids["cola"]},
			{ChoiceGroup: "side", ProductID: ids["fries"]},
		}, index)
		assert.Nil(t, lineup)
		require.Len(t, violations, 1)
	})
}

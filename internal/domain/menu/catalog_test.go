package menu

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func validSnapshot() *Snapshot {
	return &Snapshot{
		Version:     "2026-08-01",
		LastUpdated: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
		Categories: []Category{
			{ID: "cat-plates", Name: "Plates", SortOrder: 1},
			{ID: "cat-sides", Name: "Sides", SortOrder: 2},
		},
		ModifierGroups: []ModifierGroup{
			{
				ID:            "grp-sauces",
				Name:          "Sauces",
				Required:      false,
				MinSelections: 0,
				MaxSelections: intPtr(3),
				Modifiers: []Modifier{
					{ID: "mod-sweet", Name: "Sweet BBQ", Price: decimal.Zero},
					{ID: "mod-spicy", Name: "Spicy Vinegar", Price: decimal.Zero},
				},
			},
			{
				ID:            "grp-bread",
				Name:          "Bread Choice",
				Required:      true,
				MinSelections: 1,
				MaxSelections: intPtr(1),
				Modifiers: []Modifier{
					{ID: "mod-texas-toast", Name: "Texas Toast", Price: decimal.Zero},
				},
			},
		},
		Items: []Item{
			{
				ID:               "item-brisket-plate",
				Name:             "Brisket Plate",
				Price:            decimal.RequireFromString("16.50"),
				CategoryID:       "cat-plates",
				Available:        true,
				ModifierGroupIDs: []string{"grp-sauces", "grp-bread"},
				GroupOverrides: map[string]GroupOverride{
					"grp-bread": {SortOrder: 1},
				},
			},
		},
	}
}

func TestCategoryValidate(t *testing.T) {
	assert.NoError(t, Category{ID: "cat-plates", Name: "Plates"}.Validate())
	assert.ErrorIs(t, Category{Name: "Plates"}.Validate(), ErrEmptyID)
	assert.ErrorIs(t, Category{ID: "cat-plates"}.Validate(), ErrEmptyName)
}

func TestModifierValidate(t *testing.T) {
	assert.ErrorIs(t,
		Modifier{ID: "mod-x", Name: "X", Price: decimal.RequireFromString("-0.50")}.Validate(),
		ErrNegativePrice)
}

func TestModifierGroupValidate(t *testing.T) {
	t.Run("required group must allow a selection", func(t *testing.T) {
		g := ModifierGroup{ID: "grp-x", Name: "X", Required: true, MinSelections: 0}
		assert.ErrorIs(t, g.Validate(), ErrRequiredNeedsMin)
	})

	t.Run("min cannot exceed max", func(t *testing.T) {
		g := ModifierGroup{ID: "grp-x", Name: "X", MinSelections: 3, MaxSelections: intPtr(2)}
		assert.ErrorIs(t, g.Validate(), ErrSelectionBounds)
	})

	t.Run("nil max is unbounded", func(t *testing.T) {
		g := ModifierGroup{ID: "grp-x", Name: "X", MinSelections: 5}
		assert.NoError(t, g.Validate())
	})

	t.Run("duplicate modifier IDs rejected", func(t *testing.T) {
		g := ModifierGroup{
			ID: "grp-x", Name: "X",
			Modifiers: []Modifier{
				{ID: "mod-a", Name: "A"},
				{ID: "mod-a", Name: "A again"},
			},
		}
		assert.ErrorIs(t, g.Validate(), ErrDuplicateID)
	})
}

func TestSnapshotValidate(t *testing.T) {
	t.Run("valid snapshot", func(t *testing.T) {
		assert.NoError(t, validSnapshot().Validate())
	})

	t.Run("duplicate category", func(t *testing.T) {
		s := validSnapshot()
		s.Categories = append(s.Categories, Category{ID: "cat-plates", Name: "Plates Again"})
		assert.ErrorIs(t, s.Validate(), ErrDuplicateID)
	})

	t.Run("item referencing unknown category", func(t *testing.T) {
		s := validSnapshot()
		s.Items[0].CategoryID = "cat-desserts"
		assert.ErrorIs(t, s.Validate(), ErrUnknownCategory)
	})

	t.Run("item referencing unknown group", func(t *testing.T) {
		s := validSnapshot()
		s.Items[0].ModifierGroupIDs = append(s.Items[0].ModifierGroupIDs, "grp-rubs")
		assert.ErrorIs(t, s.Validate(), ErrUnknownGroup)
	})

	t.Run("override referencing unknown group", func(t *testing.T) {
		s := validSnapshot()
		s.Items[0].GroupOverrides["grp-rubs"] = GroupOverride{SortOrder: 5}
		assert.ErrorIs(t, s.Validate(), ErrUnknownGroup)
	})
}

func TestSnapshotFind(t *testing.T) {
	s := validSnapshot()

	item, ok := s.FindItem("item-brisket-plate")
	assert.True(t, ok)
	assert.Equal(t, "Brisket Plate", item.Name)

	_, ok = s.FindItem("item-ribs")
	assert.False(t, ok)

	grp, ok := s.FindGroup("grp-sauces")
	assert.True(t, ok)
	assert.Len(t, grp.Modifiers, 2)
}

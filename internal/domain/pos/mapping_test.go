package pos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDMapping(t *testing.T) {
	t.Run("valid environment", func(t *testing.T) {
		m, err := NewIDMapping(EnvironmentSandbox)
		require.NoError(t, err)
		assert.Equal(t, EnvironmentSandbox, m.Environment)
		assert.Equal(t, 0, m.Size())
	})

	t.Run("invalid environment", func(t *testing.T) {
		_, err := NewIDMapping(Environment("staging"))
		assert.ErrorIs(t, err, ErrInvalidEnvironment)
	})
}

func TestIDMappingRecord(t *testing.T) {
	m, err := NewIDMapping(EnvironmentSandbox)
	require.NoError(t, err)

	t.Run("records and looks up by entity type", func(t *testing.T) {
		require.NoError(t, m.Record(EntityTypeCategory, "cat-brisket", "POS-100"))
		require.NoError(t, m.Record(EntityTypeItem, "item-brisket-plate", "POS-200"))

		posID, ok := m.CategoryID("cat-brisket")
		assert.True(t, ok)
		assert.Equal(t, "POS-100", posID)

		posID, ok = m.ItemID("item-brisket-plate")
		assert.True(t, ok)
		assert.Equal(t, "POS-200", posID)

		// Same local ID never collides across entity types.
		_, ok = m.ItemID("cat-brisket")
		assert.False(t, ok)
		assert.Equal(t, 2, m.Size())
	})

	t.Run("re-recording the same pair is a no-op", func(t *testing.T) {
		require.NoError(t, m.Record(EntityTypeCategory, "cat-brisket", "POS-100"))
		assert.Equal(t, 2, m.Size())
	})

	t.Run("re-mapping to a different POS ID conflicts", func(t *testing.T) {
		err := m.Record(EntityTypeCategory, "cat-brisket", "POS-999")
		assert.ErrorIs(t, err, ErrMappingConflict)

		posID, _ := m.CategoryID("cat-brisket")
		assert.Equal(t, "POS-100", posID)
	})

	t.Run("rejects empty IDs", func(t *testing.T) {
		assert.ErrorIs(t, m.Record(EntityTypeModifier, "", "POS-1"), ErrEmptyLocalID)
		assert.ErrorIs(t, m.Record(EntityTypeModifier, "mod-pickles", ""), ErrEmptyPOSID)
	})

	t.Run("rejects unknown entity type", func(t *testing.T) {
		assert.Error(t, m.Record(EntityType("discount"), "x", "y"))
	})
}

func TestIDMappingLookupMissing(t *testing.T) {
	m, err := NewIDMapping(EnvironmentProduction)
	require.NoError(t, err)

	_, ok := m.Lookup(EntityTypeModifierGroup, "grp-sauces")
	assert.False(t, ok)

	_, ok = m.Lookup(EntityType("discount"), "x")
	assert.False(t, ok)
}

package pos

import (
	"context"
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// Mapping Errors
// ---------------------------------------------------------------------------

var (
	ErrInvalidEnvironment = errors.New("pos: invalid environment")
	ErrEmptyLocalID       = errors.New("pos: local ID cannot be empty")
	ErrEmptyPOSID         = errors.New("pos: POS ID cannot be empty")
	ErrMappingConflict    = errors.New("pos: local ID already mapped to a different POS ID")
)

// ---------------------------------------------------------------------------
// EntityType
// ---------------------------------------------------------------------------

// EntityType identifies which mapping table an entry belongs to
type EntityType string

const (
	EntityTypeCategory      EntityType = "category"
	EntityTypeModifierGroup EntityType = "modifier_group"
	EntityTypeModifier      EntityType = "modifier"
	EntityTypeItem          EntityType = "item"
)

// IsValid returns true if the entity type is valid
func (t EntityType) IsValid() bool {
	switch t {
	case EntityTypeCategory, EntityTypeModifierGroup, EntityTypeModifier, EntityTypeItem:
		return true
	default:
		return false
	}
}

// String returns the string representation of EntityType
func (t EntityType) String() string {
	return string(t)
}

// ---------------------------------------------------------------------------
// IDMapping Entity
// ---------------------------------------------------------------------------

// IDMapping translates local catalog IDs to POS-assigned IDs for one
// environment. It grows monotonically: synchronization only adds entries,
// never removes them. Mutations go through a single accumulating pass during
// an export run, so the maps need no internal locking.
type IDMapping struct {
	Environment    Environment
	Categories     map[string]string
	ModifierGroups map[string]string
	Modifiers      map[string]string
	Items          map[string]string
}

// NewIDMapping creates an empty-but-valid mapping for the environment
func NewIDMapping(env Environment) (*IDMapping, error) {
	if !env.IsValid() {
		return nil, ErrInvalidEnvironment
	}
	return &IDMapping{
		Environment:    env,
		Categories:     make(map[string]string),
		ModifierGroups: make(map[string]string),
		Modifiers:      make(map[string]string),
		Items:          make(map[string]string),
	}, nil
}

func (m *IDMapping) table(t EntityType) map[string]string {
	switch t {
	case EntityTypeCategory:
		return m.Categories
	case EntityTypeModifierGroup:
		return m.ModifierGroups
	case EntityTypeModifier:
		return m.Modifiers
	case EntityTypeItem:
		return m.Items
	default:
		return nil
	}
}

// Lookup returns the POS ID mapped to the local ID, if any
func (m *IDMapping) Lookup(t EntityType, localID string) (string, bool) {
	tbl := m.table(t)
	if tbl == nil {
		return "", false
	}
	posID, ok := tbl[localID]
	return posID, ok
}

// Record adds a local->POS entry. Recording the same pair twice is a no-op;
// recording a different POS ID for an already-mapped local ID is a conflict,
// since entries are append-only.
func (m *IDMapping) Record(t EntityType, localID, posID string) error {
	if localID == "" {
		return ErrEmptyLocalID
	}
	if posID == "" {
		return ErrEmptyPOSID
	}
	tbl := m.table(t)
	if tbl == nil {
		return fmt.Errorf("pos: unknown entity type %q", t)
	}
	if existing, ok := tbl[localID]; ok {
		if existing == posID {
			return nil
		}
		return fmt.Errorf("%w: %s %q is %q, got %q", ErrMappingConflict, t, localID, existing, posID)
	}
	tbl[localID] = posID
	return nil
}

// CategoryID returns the POS category ID for a local category ID
func (m *IDMapping) CategoryID(localID string) (string, bool) {
	return m.Lookup(EntityTypeCategory, localID)
}

// ModifierGroupID returns the POS group ID for a local group ID
func (m *IDMapping) ModifierGroupID(localID string) (string, bool) {
	return m.Lookup(EntityTypeModifierGroup, localID)
}

// ModifierID returns the POS modifier ID for a local modifier ID
func (m *IDMapping) ModifierID(localID string) (string, bool) {
	return m.Lookup(EntityTypeModifier, localID)
}

// ItemID returns the POS item ID for a local item ID
func (m *IDMapping) ItemID(localID string) (string, bool) {
	return m.Lookup(EntityTypeItem, localID)
}

// Size returns the total number of entries across all tables
func (m *IDMapping) Size() int {
	return len(m.Categories) + len(m.ModifierGroups) + len(m.Modifiers) + len(m.Items)
}

// ---------------------------------------------------------------------------
// MappingStore Port
// ---------------------------------------------------------------------------

// MappingStore persists IDMapping per environment. Load never fails on
// "not found": a missing persisted mapping yields an empty valid mapping.
// Save is an atomic replace; a concurrent reader must never observe a
// partially written mapping.
type MappingStore interface {
	Load(ctx context.Context, env Environment) (*IDMapping, error)
	Save(ctx context.Context, mapping *IDMapping) error

	// Ref returns a human-readable locator for the persisted mapping of the
	// environment (e.g. a file path or table reference), for operator-facing
	// export summaries.
	Ref(env Environment) string
}

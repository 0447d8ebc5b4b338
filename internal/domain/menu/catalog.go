package menu

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Catalog Errors
// ---------------------------------------------------------------------------

var (
	ErrSnapshotNotFound    = errors.New("menu: catalog snapshot not found")
	ErrEmptyID             = errors.New("menu: entity ID cannot be empty")
	ErrEmptyName           = errors.New("menu: entity name cannot be empty")
	ErrNegativePrice       = errors.New("menu: price cannot be negative")
	ErrDuplicateID         = errors.New("menu: duplicate entity ID")
	ErrUnknownCategory     = errors.New("menu: item references unknown category")
	ErrUnknownGroup        = errors.New("menu: item references unknown modifier group")
	ErrSelectionBounds     = errors.New("menu: min selections exceeds max selections")
	ErrRequiredNeedsMin    = errors.New("menu: required group must allow at least one selection")
	ErrModifierOutsideItem = errors.New("menu: modifier does not belong to any group on the item")
)

// ---------------------------------------------------------------------------
// Catalog Entities
// ---------------------------------------------------------------------------

// Category is a display grouping for menu items. IDs are stable,
// human-assigned strings; edits happen by re-authoring the catalog.
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// Validate validates the category
func (c Category) Validate() error {
	if c.ID == "" {
		return ErrEmptyID
	}
	if c.Name == "" {
		return fmt.Errorf("%w: category %q", ErrEmptyName, c.ID)
	}
	return nil
}

// Modifier is a priced add-on belonging to exactly one ModifierGroup.
type Modifier struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Validate validates the modifier
func (m Modifier) Validate() error {
	if m.ID == "" {
		return ErrEmptyID
	}
	if m.Name == "" {
		return fmt.Errorf("%w: modifier %q", ErrEmptyName, m.ID)
	}
	if m.Price.IsNegative() {
		return fmt.Errorf("%w: modifier %q", ErrNegativePrice, m.ID)
	}
	return nil
}

// ModifierGroup is a named set of modifiers attachable to a menu item,
// with selection-count constraints.
type ModifierGroup struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Required      bool       `json:"required"`
	MinSelections int        `json:"min_selections"`
	MaxSelections *int       `json:"max_selections,omitempty"` // nil = unbounded
	Modifiers     []Modifier `json:"modifiers"`
}

// Validate validates the group and all modifiers it owns
func (g ModifierGroup) Validate() error {
	if g.ID == "" {
		return ErrEmptyID
	}
	if g.Name == "" {
		return fmt.Errorf("%w: modifier group %q", ErrEmptyName, g.ID)
	}
	if g.MaxSelections != nil && g.MinSelections > *g.MaxSelections {
		return fmt.Errorf("%w: modifier group %q", ErrSelectionBounds, g.ID)
	}
	if g.Required && g.MinSelections < 1 {
		return fmt.Errorf("%w: modifier group %q", ErrRequiredNeedsMin, g.ID)
	}
	seen := make(map[string]struct{}, len(g.Modifiers))
	for _, m := range g.Modifiers {
		if err := m.Validate(); err != nil {
			return err
		}
		if _, dup := seen[m.ID]; dup {
			return fmt.Errorf("%w: modifier %q in group %q", ErrDuplicateID, m.ID, g.ID)
		}
		seen[m.ID] = struct{}{}
	}
	return nil
}

// GroupOverride records a per-item ordering/required override for a
// modifier group attached to an item.
type GroupOverride struct {
	SortOrder int   `json:"sort_order"`
	Required  *bool `json:"required,omitempty"`
}

// Item is a sellable menu entry.
type Item struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  string          `json:"category_id"`
	Available   bool            `json:"available"`
	// ModifierGroupIDs references groups by ID; order-independent as a set.
	ModifierGroupIDs []string `json:"modifier_group_ids,omitempty"`
	// GroupOverrides optionally overrides group ordering/required per item.
	// An absent override means "use group declaration order, no override".
	GroupOverrides map[string]GroupOverride `json:"group_overrides,omitempty"`
}

// Validate validates the item in isolation (references are checked by Snapshot)
func (i Item) Validate() error {
	if i.ID == "" {
		return ErrEmptyID
	}
	if i.Name == "" {
		return fmt.Errorf("%w: item %q", ErrEmptyName, i.ID)
	}
	if i.Price.IsNegative() {
		return fmt.Errorf("%w: item %q", ErrNegativePrice, i.ID)
	}
	if i.CategoryID == "" {
		return fmt.Errorf("%w: item %q has no category", ErrUnknownCategory, i.ID)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Snapshot
// ---------------------------------------------------------------------------

// Snapshot is the whole locally authored menu. It is an immutable input to
// synchronization; authoring happens outside this system.
type Snapshot struct {
	Version        string          `json:"version"`
	LastUpdated    time.Time       `json:"last_updated"`
	Categories     []Category      `json:"categories"`
	ModifierGroups []ModifierGroup `json:"modifier_groups"`
	Items          []Item          `json:"items"`
}

// Validate validates the snapshot, including cross-entity references.
func (s *Snapshot) Validate() error {
	categories := make(map[string]struct{}, len(s.Categories))
	for _, c := range s.Categories {
		if err := c.Validate(); err != nil {
			return err
		}
		if _, dup := categories[c.ID]; dup {
			return fmt.Errorf("%w: category %q", ErrDuplicateID, c.ID)
		}
		categories[c.ID] = struct{}{}
	}

	groups := make(map[string]struct{}, len(s.ModifierGroups))
	for _, g := range s.ModifierGroups {
		if err := g.Validate(); err != nil {
			return err
		}
		if _, dup := groups[g.ID]; dup {
			return fmt.Errorf("%w: modifier group %q", ErrDuplicateID, g.ID)
		}
		groups[g.ID] = struct{}{}
	}

	items := make(map[string]struct{}, len(s.Items))
	for _, i := range s.Items {
		if err := i.Validate(); err != nil {
			return err
		}
		if _, dup := items[i.ID]; dup {
			return fmt.Errorf("%w: item %q", ErrDuplicateID, i.ID)
		}
		items[i.ID] = struct{}{}
		if _, ok := categories[i.CategoryID]; !ok {
			return fmt.Errorf("%w: item %q -> category %q", ErrUnknownCategory, i.ID, i.CategoryID)
		}
		for _, gid := range i.ModifierGroupIDs {
			if _, ok := groups[gid]; !ok {
				return fmt.Errorf("%w: item %q -> group %q", ErrUnknownGroup, i.ID, gid)
			}
		}
		for gid := range i.GroupOverrides {
			if _, ok := groups[gid]; !ok {
				return fmt.Errorf("%w: item %q override -> group %q", ErrUnknownGroup, i.ID, gid)
			}
		}
	}
	return nil
}

// FindItem returns the item with the given ID, if present
func (s *Snapshot) FindItem(id string) (Item, bool) {
	for _, i := range s.Items {
		if i.ID == id {
			return i, true
		}
	}
	return Item{}, false
}

// FindGroup returns the modifier group with the given ID, if present
func (s *Snapshot) FindGroup(id string) (ModifierGroup, bool) {
	for _, g := range s.ModifierGroups {
		if g.ID == id {
			return g, true
		}
	}
	return ModifierGroup{}, false
}

// ---------------------------------------------------------------------------
// SnapshotReader Port
// ---------------------------------------------------------------------------

// SnapshotReader loads the canonical local menu. Implementations live in the
// infrastructure layer; absence of a snapshot is ErrSnapshotNotFound and is a
// fatal precondition for synchronization.
type SnapshotReader interface {
	ReadSnapshot(ctx context.Context) (*Snapshot, error)
}

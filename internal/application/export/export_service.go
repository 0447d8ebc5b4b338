package export

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/smokestack/backend/internal/domain/menu"
	"github.com/smokestack/backend/internal/domain/pos"
)

// ---------------------------------------------------------------------------
// SubmissionResult
// ---------------------------------------------------------------------------

// ErrorKind distinguishes direct creation failures from cascades
type ErrorKind string

const (
	// ErrorKindDirect is a creation call that itself failed
	ErrorKindDirect ErrorKind = "direct"
	// ErrorKindDependentSkip is a child skipped because its parent failed,
	// recorded distinctly so operators can tell root causes from cascades
	ErrorKindDependentSkip ErrorKind = "dependent_skip"
)

// ExportError records one failed creation with enough context to retry
type ExportError struct {
	Kind    ErrorKind `json:"kind"`
	Entity  string    `json:"entity"`
	LocalID string    `json:"local_id"`
	Message string    `json:"message"`
}

// SubmissionResult is the outcome of one catalog export run. It is
// constructed once per run and immutable after construction.
type SubmissionResult struct {
	Success               bool            `json:"success"`
	Environment           pos.Environment `json:"environment"`
	CreatedCategories     int             `json:"created_categories"`
	CreatedModifierGroups int             `json:"created_modifier_groups"`
	CreatedModifiers      int             `json:"created_modifiers"`
	CreatedItems          int             `json:"created_items"`
	Errors                []ExportError   `json:"errors"`
	MappingRef            string          `json:"mapping_ref"`
}

// ---------------------------------------------------------------------------
// Per-entity sync state
// ---------------------------------------------------------------------------

// entityStatus makes the create-if-missing loop an explicit state machine per
// entity. Later stages consult it for skip-on-parent-failure decisions: a
// parent is a valid reference only once this run has marked it mapped.
type entityStatus int

const (
	statusUnmapped entityStatus = iota
	statusMapped
	statusFailed
)

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service drives dependency-ordered creation of missing POS entities and
// mapping persistence. All collaborators are injected so tests can
// substitute fakes.
type Service struct {
	reader menu.SnapshotReader
	store  pos.MappingStore
	client pos.Client
	log    *zap.Logger
}

// NewService creates a new export Service
func NewService(reader menu.SnapshotReader, store pos.MappingStore, client pos.Client, log *zap.Logger) *Service {
	return &Service{
		reader: reader,
		store:  store,
		client: client,
		log:    log,
	}
}

// ExportCatalog synchronizes the local catalog to the POS environment the
// injected client targets. Preconditions (missing or invalid snapshot,
// unreadable mapping) fail fast with an error. Past that point no remote
// failure is fatal: every creation error is recorded and the run continues,
// the mutated mapping is persisted win or lose, and a SubmissionResult is
// always returned. Re-running is idempotent because already-mapped entities
// are skipped.
func (s *Service) ExportCatalog(ctx context.Context) (*SubmissionResult, error) {
	snapshot, err := s.reader.ReadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: reading catalog snapshot: %w", err)
	}
	if err := snapshot.Validate(); err != nil {
		return nil, fmt.Errorf("export: invalid catalog snapshot: %w", err)
	}

	env := s.client.Environment()
	mapping, err := s.store.Load(ctx, env)
	if err != nil {
		return nil, fmt.Errorf("export: loading %s mapping: %w", env, err)
	}

	s.log.Info("starting catalog export",
		zap.String("environment", env.String()),
		zap.String("catalog_version", snapshot.Version),
		zap.Int("mapped_entries", mapping.Size()),
	)

	r := &run{
		snapshot: snapshot,
		mapping:  mapping,
		client:   s.client,
		log:      s.log,
		statuses: make(map[pos.EntityType]map[string]entityStatus),
		result:   &SubmissionResult{Environment: env},
	}

	// Strictly dependency-ordered: a later stage may reference a POS ID only
	// after the referenced entity's stage has completed.
	r.syncCategories(ctx)
	r.syncModifierGroups(ctx)
	r.syncItems(ctx)

	// Partial progress must survive even a failing run, so a re-run only
	// retries what previously failed.
	if err := s.store.Save(ctx, mapping); err != nil {
		s.log.Error("persisting mapping failed", zap.Error(err))
		r.result.Errors = append(r.result.Errors, ExportError{
			Kind:    ErrorKindDirect,
			Entity:  "mapping",
			Message: err.Error(),
		})
	}

	r.result.MappingRef = s.store.Ref(env)
	r.result.Success = len(r.result.Errors) == 0

	s.log.Info("catalog export finished",
		zap.String("environment", env.String()),
		zap.Bool("success", r.result.Success),
		zap.Int("created_categories", r.result.CreatedCategories),
		zap.Int("created_modifier_groups", r.result.CreatedModifierGroups),
		zap.Int("created_modifiers", r.result.CreatedModifiers),
		zap.Int("created_items", r.result.CreatedItems),
		zap.Int("errors", len(r.result.Errors)),
	)
	return r.result, nil
}

// ---------------------------------------------------------------------------
// run
// ---------------------------------------------------------------------------

// run holds the mutable state of one export pass. Entities are processed in a
// single accumulating pass, so the in-memory mapping has one writer.
type run struct {
	snapshot *menu.Snapshot
	mapping  *pos.IDMapping
	client   pos.Client
	log      *zap.Logger
	statuses map[pos.EntityType]map[string]entityStatus
	result   *SubmissionResult
}

func (r *run) status(t pos.EntityType, localID string) entityStatus {
	if m, ok := r.statuses[t]; ok {
		return m[localID]
	}
	return statusUnmapped
}

func (r *run) setStatus(t pos.EntityType, localID string, st entityStatus) {
	m, ok := r.statuses[t]
	if !ok {
		m = make(map[string]entityStatus)
		r.statuses[t] = m
	}
	m[localID] = st
}

func (r *run) fail(t pos.EntityType, localID string, err error) {
	r.setStatus(t, localID, statusFailed)
	r.result.Errors = append(r.result.Errors, ExportError{
		Kind:    ErrorKindDirect,
		Entity:  t.String(),
		LocalID: localID,
		Message: err.Error(),
	})
	r.log.Warn("POS creation failed",
		zap.String("entity", t.String()),
		zap.String("local_id", localID),
		zap.Error(err),
	)
}

func (r *run) skipDependent(t pos.EntityType, localID string, reason string) {
	r.setStatus(t, localID, statusFailed)
	r.result.Errors = append(r.result.Errors, ExportError{
		Kind:    ErrorKindDependentSkip,
		Entity:  t.String(),
		LocalID: localID,
		Message: reason,
	})
}

func (r *run) mapped(t pos.EntityType, localID, posID string) {
	if err := r.mapping.Record(t, localID, posID); err != nil {
		// Record only conflicts on a re-mapped ID, which the skip logic rules
		// out; treat it as a failed entity rather than aborting the run.
		r.fail(t, localID, err)
		return
	}
	r.setStatus(t, localID, statusMapped)
}

// syncCategories creates every category missing from the mapping
func (r *run) syncCategories(ctx context.Context) {
	for _, c := range r.snapshot.Categories {
		if _, ok := r.mapping.CategoryID(c.ID); ok {
			r.setStatus(pos.EntityTypeCategory, c.ID, statusMapped)
			continue
		}
		posID, err := r.client.CreateCategory(ctx, pos.CreateCategoryRequest{
			Name:      c.Name,
			SortOrder: c.SortOrder,
		})
		if err != nil {
			r.fail(pos.EntityTypeCategory, c.ID, err)
			continue
		}
		r.mapped(pos.EntityTypeCategory, c.ID, posID)
		r.result.CreatedCategories++
	}
}

// syncModifierGroups creates missing groups, then the modifiers inside each
// group whose POS ID is known. Modifiers of a group that failed to create are
// skipped as dependent failures, never created orphaned.
func (r *run) syncModifierGroups(ctx context.Context) {
	for _, g := range r.snapshot.ModifierGroups {
		groupPOSID, alreadyMapped := r.mapping.ModifierGroupID(g.ID)
		if alreadyMapped {
			r.setStatus(pos.EntityTypeModifierGroup, g.ID, statusMapped)
		} else {
			posID, err := r.client.CreateModifierGroup(ctx, pos.CreateModifierGroupRequest{
				Name:          g.Name,
				Required:      g.Required,
				MinSelections: g.MinSelections,
				MaxSelections: g.MaxSelections,
			})
			if err != nil {
				r.fail(pos.EntityTypeModifierGroup, g.ID, err)
				for _, m := range g.Modifiers {
					if _, ok := r.mapping.ModifierID(m.ID); ok {
						continue
					}
					r.skipDependent(pos.EntityTypeModifier, m.ID,
						fmt.Sprintf("owning group %q failed to create", g.ID))
				}
				continue
			}
			groupPOSID = posID
			r.mapped(pos.EntityTypeModifierGroup, g.ID, posID)
			r.result.CreatedModifierGroups++
		}

		for _, m := range g.Modifiers {
			if _, ok := r.mapping.ModifierID(m.ID); ok {
				r.setStatus(pos.EntityTypeModifier, m.ID, statusMapped)
				continue
			}
			posID, err := r.client.CreateModifier(ctx, pos.CreateModifierRequest{
				GroupPOSID: groupPOSID,
				Name:       m.Name,
				PriceCents: pos.ToCents(m.Price),
			})
			if err != nil {
				r.fail(pos.EntityTypeModifier, m.ID, err)
				continue
			}
			r.mapped(pos.EntityTypeModifier, m.ID, posID)
			r.result.CreatedModifiers++
		}
	}
}

// syncItems creates missing items and attaches their mapped modifier groups.
// An item whose category is unmapped is skipped, never created with a
// dangling reference.
func (r *run) syncItems(ctx context.Context) {
	for _, item := range r.snapshot.Items {
		if _, ok := r.mapping.ItemID(item.ID); ok {
			r.setStatus(pos.EntityTypeItem, item.ID, statusMapped)
			continue
		}
		if r.status(pos.EntityTypeCategory, item.CategoryID) != statusMapped {
			r.skipDependent(pos.EntityTypeItem, item.ID,
				fmt.Sprintf("category %q is not mapped", item.CategoryID))
			continue
		}
		categoryPOSID, _ := r.mapping.CategoryID(item.CategoryID)
		itemPOSID, err := r.client.CreateItem(ctx, pos.CreateItemRequest{
			CategoryPOSID: categoryPOSID,
			Name:          item.Name,
			Description:   item.Description,
			PriceCents:    pos.ToCents(item.Price),
			Available:     item.Available,
		})
		if err != nil {
			r.fail(pos.EntityTypeItem, item.ID, err)
			continue
		}
		r.mapped(pos.EntityTypeItem, item.ID, itemPOSID)
		r.result.CreatedItems++

		for _, gid := range orderedGroupIDs(item) {
			if r.status(pos.EntityTypeModifierGroup, gid) != statusMapped {
				// Group creation failed earlier this run; never attach an
				// unmapped group.
				r.skipDependent(pos.EntityTypeModifierGroup, gid,
					fmt.Sprintf("not attached to item %q: group is not mapped", item.ID))
				continue
			}
			groupPOSID, _ := r.mapping.ModifierGroupID(gid)
			if err := r.client.AttachModifierGroup(ctx, itemPOSID, groupPOSID); err != nil {
				r.result.Errors = append(r.result.Errors, ExportError{
					Kind:    ErrorKindDirect,
					Entity:  pos.EntityTypeItem.String(),
					LocalID: item.ID,
					Message: fmt.Sprintf("attaching group %q: %v", gid, err),
				})
			}
		}
	}
}

// orderedGroupIDs returns the item's modifier group references in attach
// order: the per-item override sort order when present, declaration order of
// the references otherwise.
func orderedGroupIDs(item menu.Item) []string {
	ids := make([]string, len(item.ModifierGroupIDs))
	copy(ids, item.ModifierGroupIDs)
	if len(item.GroupOverrides) == 0 {
		return ids
	}
	sort.SliceStable(ids, func(i, j int) bool {
		oi, iok := item.GroupOverrides[ids[i]]
		oj, jok := item.GroupOverrides[ids[j]]
		switch {
		case iok && jok:
			return oi.SortOrder < oj.SortOrder
		case iok:
			return true
		default:
			return false
		}
	})
	return ids
}

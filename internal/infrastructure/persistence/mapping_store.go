package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/smokestack/backend/internal/domain/pos"
	"github.com/smokestack/backend/internal/infrastructure/persistence/models"
)

// GormMappingStore implements pos.MappingStore using GORM. Each environment
// owns a disjoint set of rows keyed by (environment, entity type, local ID),
// so sandbox and production mappings can never bleed into each other.
type GormMappingStore struct {
	db   *gorm.DB
	path string
}

// NewGormMappingStore creates a new GormMappingStore. path is only used for
// the operator-facing Ref locator.
func NewGormMappingStore(db *gorm.DB, path string) *GormMappingStore {
	return &GormMappingStore{db: db, path: path}
}

// Load reads the persisted mapping for the environment. A mapping that was
// never saved yields an empty valid mapping, never an error.
func (s *GormMappingStore) Load(ctx context.Context, env pos.Environment) (*pos.IDMapping, error) {
	mapping, err := pos.NewIDMapping(env)
	if err != nil {
		return nil, err
	}

	var rows []models.POSIDMappingModel
	if err := s.db.WithContext(ctx).
		Where("environment = ?", env.String()).
		Order("entity_type ASC, local_id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("persistence: loading %s mapping: %w", env, err)
	}

	for _, row := range rows {
		t := pos.EntityType(row.EntityType)
		if !t.IsValid() {
			return nil, fmt.Errorf("persistence: corrupt mapping row: unknown entity type %q", row.EntityType)
		}
		if err := mapping.Record(t, row.LocalID, row.POSID); err != nil {
			return nil, fmt.Errorf("persistence: corrupt mapping row: %w", err)
		}
	}
	return mapping, nil
}

// Save atomically replaces the persisted mapping for the mapping's
// environment. The delete and re-insert happen in one transaction, so a
// reader never observes a partially written mapping.
func (s *GormMappingStore) Save(ctx context.Context, mapping *pos.IDMapping) error {
	if !mapping.Environment.IsValid() {
		return pos.ErrInvalidEnvironment
	}

	rows := make([]models.POSIDMappingModel, 0, mapping.Size())
	appendTable := func(t pos.EntityType, table map[string]string) {
		for localID, posID := range table {
			rows = append(rows, models.POSIDMappingModel{
				Environment: mapping.Environment.String(),
				EntityType:  t.String(),
				LocalID:     localID,
				POSID:       posID,
			})
		}
	}
	appendTable(pos.EntityTypeCategory, mapping.Categories)
	appendTable(pos.EntityTypeModifierGroup, mapping.ModifierGroups)
	appendTable(pos.EntityTypeModifier, mapping.Modifiers)
	appendTable(pos.EntityTypeItem, mapping.Items)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("environment = ?", mapping.Environment.String()).
			Delete(&models.POSIDMappingModel{}).Error; err != nil {
			return fmt.Errorf("persistence: clearing %s mapping: %w", mapping.Environment, err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, 200).Error; err != nil {
			return fmt.Errorf("persistence: writing %s mapping: %w", mapping.Environment, err)
		}
		return nil
	})
}

// Ref returns a human-readable locator for the environment's mapping rows
func (s *GormMappingStore) Ref(env pos.Environment) string {
	return fmt.Sprintf("sqlite://%s/pos_id_mappings?environment=%s", s.path, env)
}

package models

import "time"

// POSIDMappingModel is the GORM model for one local->POS ID translation
// entry. One row per (environment, entity type, local ID); environments
// never share rows.
type POSIDMappingModel struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	Environment string    `gorm:"size:16;not null;uniqueIndex:idx_pos_mapping_key,priority:1"`
	EntityType  string    `gorm:"size:32;not null;uniqueIndex:idx_pos_mapping_key,priority:2"`
	LocalID     string    `gorm:"size:128;not null;uniqueIndex:idx_pos_mapping_key,priority:3"`
	POSID       string    `gorm:"column:pos_id;size:128;not null"`
	CreatedAt   time.Time
}

// TableName returns the table name for POSIDMappingModel
func (POSIDMappingModel) TableName() string {
	return "pos_id_mappings"
}

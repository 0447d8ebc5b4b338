package persistence

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/smokestack/backend/internal/infrastructure/persistence/models"
)

// NewSQLiteDatabase opens (creating if necessary) the SQLite database at
// path and migrates the mapping schema.
func NewSQLiteDatabase(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("persistence: creating data directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("persistence: opening sqlite database: %w", err)
	}

	if err := db.AutoMigrate(&models.POSIDMappingModel{}); err != nil {
		return nil, fmt.Errorf("persistence: migrating schema: %w", err)
	}
	return db, nil
}

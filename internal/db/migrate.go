package db

import (
	"fmt"

	"github.com/henrietta/dispatch/internal/models"
	"gorm.io/gorm"
)

// AllModels returns the persisted GORM models for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.Note{},
	}
}

// AutoMigrate creates or updates all persisted tables.
func AutoMigrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

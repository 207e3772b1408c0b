package checks

import (
	"fmt"

	"area-reconciler/core/database"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CheckDatabase verifies the row store schema using the row models as the
// source of truth.
func CheckDatabase(db *gorm.DB) (*database.SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return database.CheckSchema(db)
}

// FixDatabase migrates the row store tables.
func FixDatabase(db *gorm.DB, logger *zap.Logger) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to migrate row store", zap.Error(err))
		return err
	}
	logger.Info("Migrated row store")
	return nil
}

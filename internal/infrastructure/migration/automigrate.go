// Package migration keeps the schema in sync with the persistence models.
package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/devvault/cockpit/internal/infrastructure/persistence/models"
	"github.com/devvault/cockpit/internal/shared/logger"
)

// AutoMigrateModels returns every persistence model subject to auto-migration.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.ProjectModel{},
		&models.GitConnectionModel{},
		&models.GitConnectionScopeModel{},
		&models.OAuthStateModel{},
	}
}

// Run applies gorm auto-migration for all registered models.
func Run(db *gorm.DB, log logger.Interface) error {
	log.Infow("running schema migration", "models", len(AutoMigrateModels()))
	if err := db.AutoMigrate(AutoMigrateModels()...); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}
	log.Infow("schema migration completed")
	return nil
}

package database

import (
	"fmt"

	"shorty/internal/config"
	"shorty/internal/domain"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AutoMigrate runs migrations for all domain models. Owners go first because
// of the foreign key on urls.owner_id.
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("starting database auto-migration")

	models := []interface{}{
		&domain.Owner{},
		&domain.UrlMapping{},
	}

	for _, model := range models {
		modelName := fmt.Sprintf("%T", model)
		if err := db.AutoMigrate(model); err != nil {
			log.Error("failed to migrate model",
				zap.String("model", modelName),
				zap.Error(err))
			return fmt.Errorf("failed to migrate model %s: %w", modelName, err)
		}
		log.Info("model migrated", zap.String("model", modelName))
	}

	log.Info("database auto-migration completed")
	return nil
}

// SeedData makes sure the system owner account exists. Every anonymous
// submission is attributed to it.
func SeedData(db *gorm.DB, cfg *config.Owner, log *zap.Logger) error {
	owner := domain.Owner{
		ID:       cfg.DefaultID,
		Username: cfg.Username,
		IsActive: true,
	}

	result := db.Where(domain.Owner{ID: cfg.DefaultID}).FirstOrCreate(&owner)
	if result.Error != nil {
		return fmt.Errorf("failed to seed system owner: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		log.Info("seeded system owner",
			zap.Int64("owner_id", owner.ID),
			zap.String("username", owner.Username))
	} else {
		log.Info("system owner already present", zap.Int64("owner_id", owner.ID))
	}

	return nil
}

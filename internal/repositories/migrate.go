package repositories

import (
	"context"
	"fmt"

	"github.com/anonto42/compass/backend/internal/models"
	"gorm.io/gorm"
)

// Migrate creates the compass schema and brings every table up to date.
func Migrate(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)
	if err := db.Exec("CREATE SCHEMA IF NOT EXISTS " + models.Schema).Error; err != nil {
		return fmt.Errorf("create schema %s: %w", models.Schema, err)
	}
	err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Vote{},
		&models.Recommendation{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

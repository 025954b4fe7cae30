package repositories

import (
	"context"
	"os"
	"testing"

	"github.com/anonto42/compass/backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB connects to TEST_DATABASE_URL, migrates the schema and empties
// every table. Tests using it are skipped when the variable is not set.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, Migrate(ctx, db))
	truncate(t, db)

	t.Cleanup(func() {
		truncate(t, db)
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func truncate(t *testing.T, db *gorm.DB) {
	t.Helper()
	err := db.Exec("TRUNCATE " +
		models.Vote{}.TableName() + ", " +
		models.Post{}.TableName() + ", " +
		models.User{}.TableName() + " RESTART IDENTITY CASCADE").Error
	require.NoError(t, err)
}

func createTestUser(t *testing.T, repo *PostgresUserRepository, externalID string, native bool) *models.User {
	t.Helper()
	user := &models.User{
		Name:       externalID,
		Email:      externalID + "@example.com",
		ExternalID: externalID,
		IsNative:   native,
	}
	created, err := repo.CreateIfAbsent(context.Background(), user)
	require.NoError(t, err)
	require.True(t, created)
	return user
}

func createTestPost(t *testing.T, repo *PostgresPostRepository, owner *models.User, title string) *models.Post {
	t.Helper()
	post := &models.Post{Title: title, Content: title + " body", Tag: owner.IsNative, CreatedBy: owner.ID}
	require.NoError(t, repo.Create(context.Background(), post))
	return post
}

package repositories

import (
	"context"

	"github.com/anonto42/compass/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// CreateIfAbsent inserts user unless its external id is already synced.
	// created is false when the row already existed; user.ID is set either way.
	CreateIfAbsent(ctx context.Context, user *models.User) (created bool, err error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.User, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) CreateIfAbsent(ctx context.Context, user *models.User) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_id"}},
			DoNothing: true,
		}).
		Create(user)
	if res.Error != nil {
		return false, translate(res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	existing, err := r.GetByExternalID(ctx, user.ExternalID)
	if err != nil {
		return false, err
	}
	*user = *existing
	return false, nil
}

// GetByID retrieves a user by local id
func (r *PostgresUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetByExternalID retrieves a user by identity provider uid
func (r *PostgresUserRepository) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

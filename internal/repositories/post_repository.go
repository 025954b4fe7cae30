package repositories

import (
	"context"

	"github.com/anonto42/compass/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	ListByCreator(ctx context.Context, userID uint) ([]models.Post, error)
	// UpdateOwned and DeleteOwned only match rows created by ownerID and
	// return ErrNotFound when nothing matched.
	UpdateOwned(ctx context.Context, id, ownerID uint, changes PostChanges) (*models.Post, error)
	DeleteOwned(ctx context.Context, id, ownerID uint) error
}

// PostChanges lists the editable fields of a post. Empty fields are left
// untouched.
type PostChanges struct {
	Title   string
	Content string
}

// Empty reports whether there is nothing to change.
func (c PostChanges) Empty() bool {
	return c.Title == "" && c.Content == ""
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// Create inserts a post; id and timestamps are filled from the database.
func (r *PostgresPostRepository) Create(ctx context.Context, post *models.Post) error {
	return translate(r.db.WithContext(ctx).Clauses(clause.Returning{}).Create(post).Error)
}

func (r *PostgresPostRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

// ListByCreator returns every post of a user, newest first.
func (r *PostgresPostRepository) ListByCreator(ctx context.Context, userID uint) ([]models.Post, error) {
	posts := []models.Post{}
	err := r.db.WithContext(ctx).
		Where("created_by = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, translate(err)
	}
	return posts, nil
}

func (r *PostgresPostRepository) UpdateOwned(ctx context.Context, id, ownerID uint, changes PostChanges) (*models.Post, error) {
	updates := map[string]interface{}{
		"last_updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
	}
	if changes.Title != "" {
		updates["title"] = changes.Title
	}
	if changes.Content != "" {
		updates["content"] = changes.Content
	}

	var post models.Post
	res := r.db.WithContext(ctx).
		Model(&post).
		Clauses(clause.Returning{}).
		Where("id = ? AND created_by = ?", id, ownerID).
		Updates(updates)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &post, nil
}

func (r *PostgresPostRepository) DeleteOwned(ctx context.Context, id, ownerID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND created_by = ?", id, ownerID).
		Delete(&models.Post{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

package repositories

import (
	"context"

	"github.com/anonto42/compass/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoteRepository defines the interface for vote data operations
type VoteRepository interface {
	// Upsert inserts the vote or, if the voter already voted on the post,
	// replaces its type. vote is filled with the stored row.
	Upsert(ctx context.Context, vote *models.Vote) error
	// DeleteByVoter removes the voter's vote on a post and returns its id.
	DeleteByVoter(ctx context.Context, postID, voterID uint) (uint, error)
	Tally(ctx context.Context, postID uint) (models.VoteTally, error)
	// TallyMany returns a tally for each requested post, zero for posts
	// without votes.
	TallyMany(ctx context.Context, postIDs []uint) (map[uint]models.VoteTally, error)
}

// PostgresVoteRepository implements VoteRepository for PostgreSQL
type PostgresVoteRepository struct {
	db *gorm.DB
}

// NewPostgresVoteRepository creates a new PostgresVoteRepository
func NewPostgresVoteRepository(db *gorm.DB) *PostgresVoteRepository {
	return &PostgresVoteRepository{db: db}
}

func (r *PostgresVoteRepository) Upsert(ctx context.Context, vote *models.Vote) error {
	res := r.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "post_id"}, {Name: "voted_by"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"vote_type": gorm.Expr("excluded.vote_type"),
					"voted_at":  gorm.Expr("CURRENT_TIMESTAMP"),
				}),
			},
			clause.Returning{},
		).
		Create(vote)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *PostgresVoteRepository) DeleteByVoter(ctx context.Context, postID, voterID uint) (uint, error) {
	var vote models.Vote
	res := r.db.WithContext(ctx).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "id"}}}).
		Where("post_id = ? AND voted_by = ?", postID, voterID).
		Delete(&vote)
	if res.Error != nil {
		return 0, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, ErrNotFound
	}
	return vote.ID, nil
}

const tallyColumns = "COUNT(*) FILTER (WHERE vote_type = ?) AS upvote_count, " +
	"COUNT(*) FILTER (WHERE vote_type = ?) AS downvote_count"

func (r *PostgresVoteRepository) Tally(ctx context.Context, postID uint) (models.VoteTally, error) {
	tally := models.VoteTally{PostID: postID}
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Select(tallyColumns, models.VoteUp, models.VoteDown).
		Where("post_id = ?", postID).
		Scan(&tally).Error
	if err != nil {
		return models.VoteTally{}, translate(err)
	}
	tally.PostID = postID
	return tally, nil
}

func (r *PostgresVoteRepository) TallyMany(ctx context.Context, postIDs []uint) (map[uint]models.VoteTally, error) {
	tallies := make(map[uint]models.VoteTally, len(postIDs))
	for _, id := range postIDs {
		tallies[id] = models.VoteTally{PostID: id}
	}
	if len(postIDs) == 0 {
		return tallies, nil
	}

	var rows []models.VoteTally
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Select("post_id, "+tallyColumns, models.VoteUp, models.VoteDown).
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	for _, row := range rows {
		tallies[row.PostID] = row
	}
	return tallies, nil
}

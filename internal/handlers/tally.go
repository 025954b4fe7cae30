package handlers

import (
	"context"

	"github.com/anonto42/compass/backend/internal/models"
	"github.com/anonto42/compass/backend/internal/repositories"
)

// withTallies attaches the vote tally of each post using a single query.
func withTallies(ctx context.Context, votes repositories.VoteRepository, posts []models.Post) ([]models.PostWithTally, error) {
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	tallies, err := votes.TallyMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]models.PostWithTally, len(posts))
	for i, p := range posts {
		result[i] = models.PostWithTally{Post: p, VoteTally: tallies[p.ID]}
	}
	return result, nil
}

package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/anonto42/compass/backend/internal/apperror"
	"github.com/anonto42/compass/backend/internal/models"
	"github.com/anonto42/compass/backend/internal/repositories"
	"github.com/anonto42/compass/backend/internal/response"
	"github.com/labstack/echo/v4"
)

// VoteHandler handles HTTP requests related to votes
type VoteHandler struct {
	voteRepository repositories.VoteRepository
	userRepository repositories.UserRepository
}

// NewVoteHandler creates a new VoteHandler
func NewVoteHandler(voteRepo repositories.VoteRepository, userRepo repositories.UserRepository) *VoteHandler {
	return &VoteHandler{
		voteRepository: voteRepo,
		userRepository: userRepo,
	}
}

// RegisterVoteRoutes registers vote-related routes
func (h *VoteHandler) RegisterVoteRoutes(g *echo.Group) {
	g.POST("/:postId", response.Wrap(h.CastVote))
	g.DELETE("/:postId", response.Wrap(h.RemoveVote))
}

// CastVote records the caller's vote on a post, replacing any earlier vote
func (h *VoteHandler) CastVote(c echo.Context) error {
	postID, err := postIDParam(c)
	if err != nil {
		return err
	}

	var req models.CastVoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := localUserOrFail(c, h.userRepository)
	if err != nil {
		return err
	}

	vote := &models.Vote{PostID: postID, VotedBy: user.ID, Type: req.VoteType}
	if err := h.voteRepository.Upsert(c.Request().Context(), vote); err != nil {
		switch {
		case errors.Is(err, repositories.ErrReferenceMissing):
			return apperror.NotFound(fmt.Sprintf("Post %d not found", postID))
		case errors.Is(err, repositories.ErrInvalidValue):
			return apperror.InvalidInput("Invalid Vote Type")
		case errors.Is(err, repositories.ErrNoRowsAffected):
			return apperror.VoteFailed()
		}
		return err
	}

	return response.JSON(c, http.StatusOK, vote, "Voted successfully")
}

// RemoveVote deletes the caller's vote on a post
func (h *VoteHandler) RemoveVote(c echo.Context) error {
	postID, err := postIDParam(c)
	if err != nil {
		return err
	}

	user, err := localUserOrFail(c, h.userRepository)
	if err != nil {
		return err
	}

	id, err := h.voteRepository.DeleteByVoter(c.Request().Context(), postID, user.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperror.NotFound(fmt.Sprintf("Vote not found on post %d", postID))
		}
		return err
	}

	return response.JSON(c, http.StatusOK, echo.Map{"id": id}, "Vote deleted successfully")
}

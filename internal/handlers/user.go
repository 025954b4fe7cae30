package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/anonto42/compass/backend/internal/apperror"
	"github.com/anonto42/compass/backend/internal/identity"
	"github.com/anonto42/compass/backend/internal/middleware"
	"github.com/anonto42/compass/backend/internal/models"
	"github.com/anonto42/compass/backend/internal/repositories"
	"github.com/anonto42/compass/backend/internal/response"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	userRepository repositories.UserRepository
	postRepository repositories.PostRepository
	voteRepository repositories.VoteRepository
	profiles       identity.ProfileSource
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, postRepo repositories.PostRepository, voteRepo repositories.VoteRepository, profiles identity.ProfileSource) *UserHandler {
	return &UserHandler{
		userRepository: userRepo,
		postRepository: postRepo,
		voteRepository: voteRepo,
		profiles:       profiles,
	}
}

// RegisterUserRoutes registers user-related routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.POST("/sync", response.Wrap(h.SyncUser))
	g.GET("/profile", response.Wrap(h.GetProfile))
	g.GET("/posts", response.Wrap(h.GetCurrentUserPosts))
}

// SyncUser creates the local user row for the caller. Calling it again for
// the same identity is a no-op that reports the user as existing.
func (h *UserHandler) SyncUser(c echo.Context) error {
	caller, err := middleware.CallerIdentity(c)
	if err != nil {
		return err
	}

	var req models.SyncUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	profile, err := h.fetchProfile(c, caller)
	if err != nil {
		return err
	}
	if profile.Email == "" {
		return apperror.MissingEmail()
	}

	user := &models.User{
		Name:       displayName(req.Username, profile),
		Email:      profile.Email,
		ExternalID: caller.UID,
		IsNative:   req.IsNative != nil && *req.IsNative,
	}

	created, err := h.userRepository.CreateIfAbsent(c.Request().Context(), user)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return apperror.Conflict("Email is already linked to another account")
		}
		return err
	}
	if !created {
		return response.JSON(c, http.StatusOK, "Existed", "User already exists")
	}

	return response.JSON(c, http.StatusOK, echo.Map{"localId": user.ID}, "User synced successfully")
}

// GetProfile returns the caller's external profile merged with the local row
// when one exists. It does not require a prior sync.
func (h *UserHandler) GetProfile(c echo.Context) error {
	caller, err := middleware.CallerIdentity(c)
	if err != nil {
		return err
	}

	profile, err := h.fetchProfile(c, caller)
	if err != nil {
		return err
	}

	resp := models.ProfileResponse{
		UserID:    caller.UID,
		Username:  profile.DisplayName,
		Email:     profile.Email,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		CreatedAt: profile.CreatedAt,
		UpdatedAt: profile.UpdatedAt,
	}

	local, err := h.userRepository.GetByExternalID(c.Request().Context(), caller.UID)
	switch {
	case err == nil:
		resp.LocalID = &local.ID
		resp.IsNative = local.IsNative
		if resp.Username == "" {
			resp.Username = local.Name
		}
		if resp.CreatedAt.IsZero() {
			resp.CreatedAt = local.CreatedAt
			resp.UpdatedAt = local.UpdatedAt
		}
	case !errors.Is(err, repositories.ErrNotFound):
		return err
	}

	return response.JSON(c, http.StatusOK, resp, "")
}

// GetCurrentUserPosts lists the caller's posts with their vote tallies.
func (h *UserHandler) GetCurrentUserPosts(c echo.Context) error {
	user, err := localUserOrFail(c, h.userRepository)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	posts, err := h.postRepository.ListByCreator(ctx, user.ID)
	if err != nil {
		return err
	}
	result, err := withTallies(ctx, h.voteRepository, posts)
	if err != nil {
		return err
	}

	return response.JSON(c, http.StatusOK, result, "Posts fetched successfully")
}

func (h *UserHandler) fetchProfile(c echo.Context, caller *identity.Identity) (*identity.Profile, error) {
	profile, err := h.profiles.Profile(c.Request().Context(), caller)
	if err != nil {
		if errors.Is(err, identity.ErrUnknownUser) {
			return nil, apperror.Unauthenticated("User is unknown to the identity provider")
		}
		return nil, err
	}
	return profile, nil
}

// displayName picks the name stored for a newly synced user.
func displayName(requested string, profile *identity.Profile) string {
	if name := strings.TrimSpace(requested); name != "" {
		return name
	}
	if profile.DisplayName != "" {
		return profile.DisplayName
	}
	local, _, _ := strings.Cut(profile.Email, "@")
	return local
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/compass/backend/internal/apperror"
	"github.com/anonto42/compass/backend/internal/models"
	"github.com/anonto42/compass/backend/internal/repositories"
	"github.com/anonto42/compass/backend/internal/response"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
	voteRepository repositories.VoteRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository, voteRepo repositories.VoteRepository) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		userRepository: userRepo,
		voteRepository: voteRepo,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("", response.Wrap(h.CreatePost))
	g.GET("/:postId", response.Wrap(h.ReadPost))
	g.PATCH("/:postId", response.Wrap(h.EditPost))
	g.DELETE("/:postId", response.Wrap(h.DeletePost))
	g.GET("/user/:userId", response.Wrap(h.GetPostsOfUser))
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := localUserOrFail(c, h.userRepository)
	if err != nil {
		return err
	}

	post := &models.Post{
		Title:     req.Title,
		Content:   req.Content,
		Tag:       user.IsNative,
		CreatedBy: user.ID,
	}
	if err := h.postRepository.Create(c.Request().Context(), post); err != nil {
		if errors.Is(err, repositories.ErrReferenceMissing) {
			return apperror.NotSynced()
		}
		return err
	}

	return response.JSON(c, http.StatusCreated, post, "Post created successfully")
}

// ReadPost retrieves a post by ID together with its vote tally
func (h *PostHandler) ReadPost(c echo.Context) error {
	postID, err := postIDParam(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	post, err := h.postRepository.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperror.NotFound("Post not found")
		}
		return err
	}

	tally, err := h.voteRepository.Tally(ctx, post.ID)
	if err != nil {
		return err
	}

	return response.JSON(c, http.StatusOK, models.PostWithTally{Post: *post, VoteTally: tally}, "Post fetched successfully")
}

// EditPost updates the title and/or content of one of the caller's posts
func (h *PostHandler) EditPost(c echo.Context) error {
	postID, err := postIDParam(c)
	if err != nil {
		return err
	}

	var req models.UpdatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	changes := repositories.PostChanges{Title: req.Title, Content: req.Content}
	if changes.Empty() {
		return apperror.InvalidInput("Provide a new title or new content")
	}

	user, err := localUserOrFail(c, h.userRepository)
	if err != nil {
		return err
	}

	post, err := h.postRepository.UpdateOwned(c.Request().Context(), postID, user.ID, changes)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperror.NotFoundOrForbidden("Post not found or you are not authorized to edit it")
		}
		return err
	}

	return response.JSON(c, http.StatusOK, post, "Post updated successfully")
}

// DeletePost deletes one of the caller's posts
func (h *PostHandler) DeletePost(c echo.Context) error {
	postID, err := postIDParam(c)
	if err != nil {
		return err
	}

	user, err := localUserOrFail(c, h.userRepository)
	if err != nil {
		return err
	}

	if err := h.postRepository.DeleteOwned(c.Request().Context(), postID, user.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperror.NotFoundOrForbidden("Post not found or you are not authorized to delete it")
		}
		return err
	}

	return response.JSON(c, http.StatusOK, nil, "Post deleted successfully")
}

// GetPostsOfUser lists every post of the given user with vote tallies
func (h *PostHandler) GetPostsOfUser(c echo.Context) error {
	userID, err := userIDParam(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.userRepository.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperror.NotFound("User not found")
		}
		return err
	}

	posts, err := h.postRepository.ListByCreator(ctx, userID)
	if err != nil {
		return err
	}
	result, err := withTallies(ctx, h.voteRepository, posts)
	if err != nil {
		return err
	}

	return response.JSON(c, http.StatusOK, result, "Posts fetched successfully")
}

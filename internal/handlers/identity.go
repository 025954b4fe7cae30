package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/anonto42/compass/backend/internal/apperror"
	"github.com/anonto42/compass/backend/internal/middleware"
	"github.com/anonto42/compass/backend/internal/models"
	"github.com/anonto42/compass/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// localUserOrFail maps the verified caller to its local user row.
func localUserOrFail(c echo.Context, users repositories.UserRepository) (*models.User, error) {
	caller, err := middleware.CallerIdentity(c)
	if err != nil {
		return nil, err
	}

	user, err := users.GetByExternalID(c.Request().Context(), caller.UID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotSynced()
		}
		return nil, err
	}
	return user, nil
}

// postIDParam parses the :postId path parameter.
func postIDParam(c echo.Context) (uint, error) {
	raw := c.Param("postId")
	if raw == "" {
		return 0, apperror.InvalidInput("Invalid Post Id")
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, apperror.InvalidID("Invalid Post Id provided")
	}
	return uint(id), nil
}

// userIDParam parses the :userId path parameter.
func userIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		return 0, apperror.InvalidInput("Invalid User Id")
	}
	return uint(id), nil
}

// bindAndValidate decodes the request body into req and validates it.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusRequestEntityTooLarge {
			return err
		}
		return apperror.InvalidInput("Invalid request payload").Wrap(err)
	}
	return c.Validate(req)
}

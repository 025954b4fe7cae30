package middleware

import (
	"strings"

	"github.com/anonto42/compass/backend/internal/apperror"
	"github.com/anonto42/compass/backend/internal/identity"
	"github.com/labstack/echo/v4"
)

const identityKey = "identity"

// Authenticate creates an Echo middleware that verifies the bearer token of
// every request and stores the verified identity in the context.
func Authenticate(verifier identity.Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return apperror.Unauthenticated("Authorization header is missing")
			}

			tokenParts := strings.Fields(authHeader)
			if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
				return apperror.Unauthenticated("Authorization header must be in Bearer format")
			}

			id, err := verifier.Verify(c.Request().Context(), tokenParts[1])
			if err != nil {
				return apperror.Unauthenticated("Invalid or expired token").Wrap(err)
			}

			SetIdentity(c, id)
			return next(c)
		}
	}
}

// SetIdentity stores a verified identity on the request context.
func SetIdentity(c echo.Context, id *identity.Identity) {
	c.Set(identityKey, id)
}

// CallerIdentity returns the verified caller, or Unauthenticated when the
// request did not pass through Authenticate.
func CallerIdentity(c echo.Context) (*identity.Identity, error) {
	id, ok := c.Get(identityKey).(*identity.Identity)
	if !ok || id == nil || id.UID == "" {
		return nil, apperror.Unauthenticated("")
	}
	return id, nil
}

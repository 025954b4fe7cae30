package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/anonto42/compass/backend/internal/apperror"
	"github.com/anonto42/compass/backend/internal/response"
	"github.com/labstack/echo/v4"
)

// Pinger is implemented by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthCheck reports that the process is up.
func (h *HealthHandler) HealthCheck(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// Readiness reports whether the database is reachable.
func (h *HealthHandler) Readiness(c echo.Context) error {
	if h.db == nil {
		return response.JSON(c, http.StatusOK, echo.Map{"postgres": "not configured"}, "")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		return apperror.New(http.StatusServiceUnavailable, "Database unavailable").Wrap(err)
	}
	return response.JSON(c, http.StatusOK, echo.Map{"postgres": "ok"}, "")
}

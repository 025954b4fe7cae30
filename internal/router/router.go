package router

import (
	"log/slog"

	"github.com/anonto42/compass/backend/internal/handlers"
	"github.com/anonto42/compass/backend/internal/identity"
	"github.com/anonto42/compass/backend/internal/middleware"
	"github.com/anonto42/compass/backend/internal/repositories"
	"github.com/anonto42/compass/backend/internal/response"
	"github.com/anonto42/compass/backend/internal/validators"
	"github.com/anonto42/compass/backend/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
)

// Deps are the collaborators injected into the handlers.
type Deps struct {
	Users    repositories.UserRepository
	Posts    repositories.PostRepository
	Votes    repositories.VoteRepository
	Identity identity.Provider
	DB       handlers.Pinger
}

// New builds a fully configured Echo instance.
func New(cfg *config.Config, deps Deps, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = response.ErrorHandler(logger)

	SetupMiddleware(e, cfg, logger)
	SetupRoutes(e, cfg, deps)
	return e
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, cfg *config.Config, logger *slog.Logger) {
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORSWithConfig(eMiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins(),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	if cfg.BodyLimit != "" {
		e.Use(eMiddleware.BodyLimit(cfg.BodyLimit))
	}
	logger.Debug("global middleware configured")
}

// SetupRoutes mounts the health probes and the authenticated API
func SetupRoutes(e *echo.Echo, cfg *config.Config, deps Deps) {
	health := handlers.NewHealthHandler(deps.DB)
	e.GET("/healthcheck", health.HealthCheck)
	e.GET("/readyz", health.Readiness)

	api := e.Group(cfg.Prefix, middleware.Authenticate(deps.Identity))

	userHandler := handlers.NewUserHandler(deps.Users, deps.Posts, deps.Votes, deps.Identity)
	userHandler.RegisterUserRoutes(api.Group("/user"))

	postHandler := handlers.NewPostHandler(deps.Posts, deps.Users, deps.Votes)
	postHandler.RegisterPostRoutes(api.Group("/posts"))

	voteHandler := handlers.NewVoteHandler(deps.Votes, deps.Users)
	voteHandler.RegisterVoteRoutes(api.Group("/vote"))
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/anonto42/compass/backend/internal/identity"
	"github.com/anonto42/compass/backend/internal/repositories"
	"github.com/anonto42/compass/backend/internal/router"
	"github.com/anonto42/compass/backend/pkg/config"
	"github.com/anonto42/compass/backend/pkg/firebase"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := initLogger(cfg)

	// Initialize database connection
	db, err := config.InitDB(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect to database", "database_url", redactURL(cfg.DatabaseURL))
		return err
	}
	defer db.CloseDB()

	if cfg.AutoMigrate {
		if err := repositories.Migrate(ctx, db.Postgres); err != nil {
			return err
		}
		logger.Info("database migrations completed")
	}

	provider, err := newIdentityProvider(ctx, cfg)
	if err != nil {
		return err
	}

	sqlDB, err := db.Postgres.DB()
	if err != nil {
		return err
	}
	e := router.New(cfg, router.Deps{
		Users:    repositories.NewPostgresUserRepository(db.Postgres),
		Posts:    repositories.NewPostgresPostRepository(db.Postgres),
		Votes:    repositories.NewPostgresVoteRepository(db.Postgres),
		Identity: provider,
		DB:       sqlDB,
	}, logger)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Env, "auth_provider", cfg.AuthProvider)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func newIdentityProvider(ctx context.Context, cfg *config.Config) (identity.Provider, error) {
	switch cfg.AuthProvider {
	case config.ProviderJWT:
		return identity.NewJWTProvider(cfg.AuthSecretKey), nil
	case config.ProviderFirebase:
		app, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			return nil, err
		}
		return identity.NewFirebaseProvider(app.AuthClient), nil
	}
	return nil, fmt.Errorf("unknown auth provider %q", cfg.AuthProvider)
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// redactURL strips the password from a connection string.
func redactURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}
	if parsed.User != nil {
		parsed.User = url.User(parsed.User.Username())
	}
	return parsed.String()
}

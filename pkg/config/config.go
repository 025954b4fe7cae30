// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	ProviderFirebase = "firebase"
	ProviderJWT      = "jwt"
)

type Config struct {
	Port   string `env:"PORT" envDefault:"8080"`
	Env    string `env:"APP_ENV" envDefault:"development"`
	Prefix string `env:"API_PREFIX" envDefault:"/api/v1"`

	DatabaseURL    string `env:"DATABASE_URL,required,notEmpty"`
	DBMaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	DBMaxIdleConns int    `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	AutoMigrate    bool   `env:"AUTO_MIGRATE" envDefault:"true"`

	// Identity provider: firebase or jwt
	AuthProvider            string `env:"AUTH_PROVIDER" envDefault:"firebase"`
	AuthSecretKey           string `env:"AUTH_SECRET_KEY"`
	FirebaseCredentialsPath string `env:"FIREBASE_CREDENTIALS_PATH"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Comma-separated, empty allows any origin
	CORSAllowedOrigins string        `env:"CORS_ALLOWED_ORIGINS" envDefault:""`
	BodyLimit          string        `env:"BODY_LIMIT" envDefault:"1M"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads an optional .env file, then parses the environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field rules env tags cannot express.
func (c *Config) Validate() error {
	switch c.AuthProvider {
	case ProviderJWT:
		if c.AuthSecretKey == "" {
			return errors.New("AUTH_SECRET_KEY is required when AUTH_PROVIDER=jwt")
		}
	case ProviderFirebase:
		if c.FirebaseCredentialsPath == "" {
			return errors.New("FIREBASE_CREDENTIALS_PATH is required when AUTH_PROVIDER=firebase")
		}
	default:
		return fmt.Errorf("unknown AUTH_PROVIDER %q", c.AuthProvider)
	}
	if c.Prefix != "" && !strings.HasPrefix(c.Prefix, "/") {
		return fmt.Errorf("API_PREFIX must start with '/': %q", c.Prefix)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// AllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) AllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))
	for _, origin := range origins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

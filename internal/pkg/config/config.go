// Package config loads service settings from the environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const minSecretLength = 32

type Config struct {
	Port     string `env:"PORT,      default=8000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	// BaseURL prefixes every returned short URL.
	BaseURL        string   `env:"BASE_URL,             default=http://localhost:8000"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS, default=http://localhost:5173"`
	// Storage selects the backing store: "mongo" or "memory".
	Storage      string `env:"STORAGE,      default=mongo"`
	VisitWorkers int    `env:"VISIT_WORKERS, default=4"`

	Auth  AuthConfig
	Links LinkConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	JWTSecret         string        `env:"JWT_SECRET"`
	TokenTTL          time.Duration `env:"TOKEN_TTL,           default=24h"`
	TokenIssuer       string        `env:"TOKEN_ISSUER,        default=shortener-service"`
	MinPasswordLength int           `env:"MIN_PASSWORD_LENGTH, default=8"`
}

type LinkConfig struct {
	CodeLength      int `env:"CODE_LENGTH,       default=6"`
	CodeMaxAttempts int `env:"CODE_MAX_ATTEMPTS, default=5"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=url_shortener"`
}

type RedisConfig struct {
	Enabled  bool          `env:"REDIS_ENABLED,   default=true"`
	Addr     string        `env:"REDIS_ADDR,      default=localhost:6379"`
	DB       int           `env:"REDIS_DB,        default=0"`
	CacheTTL time.Duration `env:"REDIS_CACHE_TTL, default=1h"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom is Load with an explicit source, used by tests.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDevelopment reports whether the service runs with developer defaults.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Validate rejects settings the service cannot start with. A weak or missing
// signing secret is tolerated in development only.
func (c *Config) Validate() error {
	var errs []error

	if !c.IsDevelopment() && len(c.Auth.JWTSecret) < minSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes outside development", minSecretLength))
	}
	switch c.Storage {
	case "mongo", "memory":
	default:
		errs = append(errs, fmt.Errorf("STORAGE must be mongo or memory, got %q", c.Storage))
	}
	if c.BaseURL == "" {
		errs = append(errs, errors.New("BASE_URL is required"))
	}
	if c.Links.CodeLength < 4 || c.Links.CodeLength > 32 {
		errs = append(errs, fmt.Errorf("CODE_LENGTH must be between 4 and 32, got %d", c.Links.CodeLength))
	}
	if c.Links.CodeMaxAttempts < 1 {
		errs = append(errs, errors.New("CODE_MAX_ATTEMPTS must be positive"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

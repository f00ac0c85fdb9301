package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=5001"`
	Env       string        `env:"ENV,       default=development"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	JWTSecret string        `env:"JWT_SECRET_KEY"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Uploads UploadConfig
	Seed    SeedConfig

	// ClientBuildDir holds the compiled single-page client. Empty disables the
	// fallback route.
	ClientBuildDir string `env:"CLIENT_BUILD_DIR"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=newsroom"`
}

// RedisConfig configures the category cache. An empty Addr disables it.
type RedisConfig struct {
	Addr        string        `env:"REDIS_ADDR"`
	Password    string        `env:"REDIS_PASSWORD"`
	DB          int           `env:"REDIS_DB,           default=0"`
	CategoryTTL time.Duration `env:"CATEGORY_CACHE_TTL, default=10m"`
}

type UploadConfig struct {
	Dir            string `env:"UPLOAD_DIR,       default=uploads"`
	MaxBytes       int64  `env:"MAX_UPLOAD_BYTES, default=5242880"`
	CleanupWorkers int    `env:"CLEANUP_WORKERS,  default=2"`
}

// SeedConfig lists the accounts created on first boot. An account with an
// empty password is skipped.
type SeedConfig struct {
	ReporterEmail    string `env:"REPORTER_ACCOUNT_ID, default=reporter@esil.com"`
	ReporterPassword string `env:"REPORTER_ACCOUNT_PASSWORD"`
	AdminEmail       string `env:"ADMIN_ACCOUNT_ID,    default=admin@esil.com"`
	AdminPassword    string `env:"ADMIN_ACCOUNT_PASSWORD"`
}

func (c *Config) IsProduction() bool { return c.Env == "production" }

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET_KEY is required")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.Uploads.MaxBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Session storage backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNone   = "none"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	API     APIConfig
	Storage StorageConfig
	Session SessionConfig
	Mongo   MongoConfig
	Redis   RedisConfig

	AuditEnabled bool `env:"AUDIT_ENABLED, default=false"`
	// RequiredRoles restricts the BFF resource routes; empty allows any
	// signed-in user.
	RequiredRoles []string `env:"REQUIRED_ROLES"`
}

type APIConfig struct {
	BaseURL string `env:"ADMIN_API_BASE_URL"`
	// Timeout of 0 leaves requests bounded only by the transport.
	Timeout   time.Duration `env:"HTTP_TIMEOUT,   default=0s"`
	RateLimit float64       `env:"API_RATE_LIMIT, default=0"`
}

type StorageConfig struct {
	Secret        string `env:"ADMIN_STORAGE_SECRET"`
	Cipher        string `env:"ADMIN_STORAGE_CIPHER,          default=xchacha"`
	AgeWorkFactor int    `env:"ADMIN_STORAGE_AGE_WORK_FACTOR, default=15"`
}

type SessionConfig struct {
	Backend string `env:"SESSION_BACKEND, default=file"`
	File    string `env:"SESSION_FILE"`
	Key     string `env:"SESSION_KEY,     default=admin-auth-storage"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=admin_console"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// Load reads an optional .env file from the working directory and then the
// environment. Variables already set in the environment win over .env.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Session.File == "" {
		cfg.Session.File = DefaultSessionFile()
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Session.Backend {
	case BackendFile, BackendMemory, BackendRedis, BackendMongo, BackendNone:
	default:
		return fmt.Errorf("config: unknown SESSION_BACKEND %q", c.Session.Backend)
	}
	switch c.Storage.Cipher {
	case "xchacha", "age":
	default:
		return fmt.Errorf("config: unknown ADMIN_STORAGE_CIPHER %q", c.Storage.Cipher)
	}
	if c.Session.Backend == BackendRedis && c.Redis.Addr == "" {
		return errors.New("config: SESSION_BACKEND=redis requires REDIS_ADDR")
	}
	if c.API.RateLimit < 0 {
		return errors.New("config: API_RATE_LIMIT must not be negative")
	}
	return nil
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool { return c.Env == "production" }

// DefaultSessionFile is $XDG_CONFIG_HOME/adminconsole/storage.json (or the
// platform equivalent).
func DefaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "adminconsole", "storage.json")
}

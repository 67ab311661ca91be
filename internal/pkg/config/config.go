package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	// MarkersFile is an optional YAML file naming the marker icon assets.
	MarkersFile string `env:"MARKERS_FILE"`

	Grical GricalConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Audit  AuditConfig
}

type GricalConfig struct {
	BaseURL   string        `env:"GRICAL_BASE_URL,   default=https://grical.org"`
	Timeout   time.Duration `env:"GRICAL_TIMEOUT,    default=15s"`
	UserAgent string        `env:"GRICAL_USER_AGENT, default=grical-overlay/1.0"`
}

// MongoConfig configures the skipped-record audit store. An empty URI
// disables it.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=grical_overlay"`
}

// RedisConfig configures the overlay cache. An empty address disables it.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,  default=0"`
	TTL      time.Duration `env:"CACHE_TTL, default=60s"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// IsDevelopment reports whether the service runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	return &cfg, nil
}

// LoadFrom reads configuration from the given lookuper instead of the process
// environment.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	return &cfg, nil
}

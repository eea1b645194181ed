// Package config loads stockroom settings from STOCKROOM_* environment variables.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Prefix is prepended to every variable name.
const Prefix = "STOCKROOM_"

type Config struct {
	APIURL         string        `env:"API_URL,         default=http://localhost:5000/api"`
	WebURL         string        `env:"WEB_URL"`
	Home           string        `env:"HOME"`
	LogLevel       string        `env:"LOG_LEVEL,       default=info"`
	LogFile        string        `env:"LOG_FILE"`
	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT,    default=30s"`
	PollInterval   time.Duration `env:"POLL_INTERVAL,   default=30s"`
	SearchDebounce time.Duration `env:"SEARCH_DEBOUNCE, default=500ms"`

	Store StoreConfig
}

type StoreConfig struct {
	Backend     string `env:"STORE,        default=file"`
	Key         string `env:"STORE_KEY"`
	RedisURL    string `env:"REDIS_URL"`
	RedisPrefix string `env:"REDIS_PREFIX, default=stockroom:"`
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through l, which sees names without the prefix
// already applied.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.PrefixLookuper(Prefix, l),
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.fill(); err != nil {
		return nil, err
	}
	return &cfg, cfg.validate()
}

func (c *Config) fill() error {
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	if c.WebURL == "" {
		c.WebURL = strings.TrimSuffix(c.APIURL, "/api")
	}
	if c.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("config: resolve home dir: %w", err)
		}
		c.Home = filepath.Join(home, ".stockroom")
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(c.Home, "stockroom.log")
	}
	return nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case "file", "memory":
	case "redis":
		if c.Store.RedisURL == "" {
			return fmt.Errorf("config: %sREDIS_URL is required when %sSTORE=redis", Prefix, Prefix)
		}
	default:
		return fmt.Errorf("config: %sSTORE must be file, redis or memory, got %q", Prefix, c.Store.Backend)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("config: %sHTTP_TIMEOUT must be positive", Prefix)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("config: %sPOLL_INTERVAL must be positive", Prefix)
	}
	return nil
}

// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrymomot/fileinput-locales/pkg/logger"
	"github.com/dmitrymomot/fileinput-locales/pkg/redis"
)

// Config is the full service configuration.
type Config struct {
	Address       string `env:"ADDRESS" envDefault:":8080"`
	DefaultLocale string `env:"DEFAULT_LOCALE" envDefault:"en"`

	// LocalesDir holds {code}.yaml or {code}.json bundles registered over the
	// embedded ones. Empty means embedded bundles only.
	LocalesDir string `env:"LOCALES_DIR"`
	// StrictSchema refuses to start when any bundle has schema issues.
	StrictSchema bool `env:"STRICT_SCHEMA" envDefault:"false"`

	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"1h"`
	CacheMaxBytes int           `env:"CACHE_MAX_BYTES" envDefault:"8388608"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Log   logger.Config
	Redis redis.Config
}

// Load parses Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

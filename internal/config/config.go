package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr              string        `env:"ADDR" envDefault:":8080"`
	DBPath            string        `env:"DB_PATH" envDefault:"file:puzzle.db"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"INFO"`
	Timezone          string        `env:"TIMEZONE" envDefault:"Local"`
	RetryWorkerCount  int           `env:"RETRY_WORKER_COUNT" envDefault:"1"`
	RetryQueueSize    int           `env:"RETRY_QUEUE_SIZE" envDefault:"32"`
	RetryMaxAttempts  int           `env:"RETRY_MAX_ATTEMPTS" envDefault:"3"`
	RetryInitialDelay time.Duration `env:"RETRY_INITIAL_DELAY" envDefault:"1s"`
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing.
func Load() (Config, error) {
	// Ignore error so the app still starts when .env is absent.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// MustLoad is Load for main packages: an unparsable environment is fatal.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	return cfg
}

// Validate reports the first invalid setting, named by its environment variable.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}
	if c.RetryWorkerCount < 1 {
		return fmt.Errorf("RETRY_WORKER_COUNT must be at least 1, got %d", c.RetryWorkerCount)
	}
	if c.RetryQueueSize < 1 {
		return fmt.Errorf("RETRY_QUEUE_SIZE must be at least 1, got %d", c.RetryQueueSize)
	}
	if c.RetryMaxAttempts < 1 || c.RetryMaxAttempts > 10 {
		return fmt.Errorf("RETRY_MAX_ATTEMPTS must be between 1 and 10, got %d", c.RetryMaxAttempts)
	}
	if c.RetryInitialDelay <= 0 {
		return fmt.Errorf("RETRY_INITIAL_DELAY must be positive, got %s", c.RetryInitialDelay)
	}
	return nil
}

// Location resolves Timezone. Calendar-day arithmetic (streaks, daily
// challenges) happens in this zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

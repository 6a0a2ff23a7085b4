// Package config loads the engine configuration consumed by the CLI
// runner. Embedders configure a Brain programmatically through options;
// the TOML file exists so the agraph binary can be tuned without a
// rebuild.
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/roach88/agraph/internal/brain"
)

// Config mirrors the Brain's construction surface.
type Config struct {
	// IdleTimeoutSeconds is the idle budget before the loop stops with
	// a timed-out outcome. Zero disables the budget.
	IdleTimeoutSeconds int `toml:"idle_timeout_seconds"`

	// QueueCapacity bounds the pending-activation queue.
	QueueCapacity int `toml:"queue_capacity"`

	// StrictLookup disables the lenient "<name>/0" retry on a registry
	// miss.
	StrictLookup bool `toml:"strict_lookup"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		IdleTimeoutSeconds: int(brain.DefaultIdleTimeout / time.Second),
		QueueCapacity:      brain.DefaultQueueCapacity,
	}
}

// Load reads a TOML config file, applying defaults for absent keys.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the Brain cannot honor.
func (c Config) Validate() error {
	if c.IdleTimeoutSeconds < 0 {
		return fmt.Errorf("idle_timeout_seconds must be >= 0, got %d", c.IdleTimeoutSeconds)
	}
	if c.QueueCapacity < 1 {
		return fmt.Errorf("queue_capacity must be >= 1, got %d", c.QueueCapacity)
	}
	return nil
}

// Options maps the configuration onto Brain construction options.
func (c Config) Options() []brain.Option {
	opts := []brain.Option{
		brain.WithIdleTimeout(time.Duration(c.IdleTimeoutSeconds) * time.Second),
		brain.WithQueueCapacity(c.QueueCapacity),
	}
	if c.StrictLookup {
		opts = append(opts, brain.WithStrictLookup())
	}
	return opts
}

package config

import (
	"fmt"
	"os"
	"strconv"
)

const EnvScoringWorkers = "FITSCORE_SCORING_WORKERS"

// ScoringConfig holds scoring engine parameters.
type ScoringConfig struct {
	// Workers bounds batch recalculation concurrency.
	Workers int `toml:"workers"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ScoringConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ScoringConfig) Merge(overlay *ScoringConfig) {
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
}

func (c *ScoringConfig) loadDefaults() {
	if c.Workers == 0 {
		c.Workers = 4
	}
}

func (c *ScoringConfig) loadEnv() {
	if v := os.Getenv(EnvScoringWorkers); v != "" {
		if workers, err := strconv.Atoi(v); err == nil {
			c.Workers = workers
		}
	}
}

func (c *ScoringConfig) validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("invalid workers: %d", c.Workers)
	}
	return nil
}

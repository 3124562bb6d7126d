// Package config defines service configuration and its loading order.
//
// Precedence (low -> high):
//  1. built-in defaults (New)
//  2. optional YAML file named by PITCHBOARD_CONFIG
//  3. environment variables with the PITCHBOARD_ prefix
package config

import (
	"fmt"
	"runtime"
)

// Month bounds of a regular season as published in the source files.
const (
	firstSeasonMonth = 1
	lastSeasonMonth  = 12
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DatasetDir holds the statcast_{season}_{month}.csv[.gz] files.
	DatasetDir string `koanf:"dataset_dir"`

	// Season selects the season loaded at startup.
	Season int `koanf:"season"`

	// StartMonth and EndMonth bound the loaded months, inclusive.
	StartMonth int `koanf:"start_month"`
	EndMonth   int `koanf:"end_month"`

	// MovementUnit is the unit scores and profiles are reported in:
	// "feet" (the file unit) or "inches".
	MovementUnit string `koanf:"movement_unit"`

	// MinGroupSize keeps pitch-type groups smaller than this off the
	// boards. A standard deviation needs at least two pitches.
	MinGroupSize int `koanf:"min_group_size"`

	// IncludeVelocity adds release-speed variance to consistency scores.
	IncludeVelocity bool `koanf:"include_velocity"`

	// WorkerCount sets the number of indexing workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory indexing queue.
	QueueSize int `koanf:"queue_size"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// QualifyingPA is the minimum plate appearances a pitcher needs to
	// count as a peer in league rate-stat percentiles.
	QualifyingPA int `koanf:"qualifying_pa"`
}

// New creates a Config with the built-in defaults. The season window
// matches the published files, March through October.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		DatasetDir:          "data",
		Season:              2024,
		StartMonth:          3,
		EndMonth:            10,
		MovementUnit:        "inches",
		MinGroupSize:        2,
		IncludeVelocity:     false,
		WorkerCount:         runtime.NumCPU(),
		QueueSize:           10_000,
		MaxLeaderboardLimit: 100,
		QualifyingPA:        50,
	}
}

// Months returns the configured load months in ascending order.
func (c *Config) Months() []int {
	if c.StartMonth > c.EndMonth {
		return nil
	}
	months := make([]int, 0, c.EndMonth-c.StartMonth+1)
	for m := c.StartMonth; m <= c.EndMonth; m++ {
		months = append(months, m)
	}
	return months
}

// validate rejects configurations the service cannot run with.
func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DatasetDir == "":
		return fmt.Errorf("%w: dataset_dir must not be empty", ErrInvalidConfig)
	case c.Season < 1900:
		return fmt.Errorf("%w: season %d out of range", ErrInvalidConfig, c.Season)
	case c.StartMonth < firstSeasonMonth || c.StartMonth > lastSeasonMonth ||
		c.EndMonth < firstSeasonMonth || c.EndMonth > lastSeasonMonth:
		return fmt.Errorf("%w: months must be within %d..%d",
			ErrInvalidConfig, firstSeasonMonth, lastSeasonMonth)
	case c.StartMonth > c.EndMonth:
		return fmt.Errorf("%w: start_month %d is after end_month %d",
			ErrInvalidConfig, c.StartMonth, c.EndMonth)
	case c.MovementUnit != "feet" && c.MovementUnit != "inches":
		return fmt.Errorf("%w: movement_unit must be feet or inches, got %q",
			ErrInvalidConfig, c.MovementUnit)
	case c.MinGroupSize < 2:
		return fmt.Errorf("%w: min_group_size must be at least 2", ErrInvalidConfig)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.MaxLeaderboardLimit < 1:
		return fmt.Errorf("%w: max_leaderboard_limit must be positive", ErrInvalidConfig)
	case c.QualifyingPA < 0:
		return fmt.Errorf("%w: qualifying_pa must not be negative", ErrInvalidConfig)
	}
	return nil
}

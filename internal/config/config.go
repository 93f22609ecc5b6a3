// Package config handles host configuration loading: default values,
// then a YAML file, then CLI flag overrides applied by the caller.
// None of the eight solver core packages import this one.
package config

import (
	"time"

	"github.com/ShenMian/sokoban-go/internal/lowerbound"
	"github.com/ShenMian/sokoban-go/internal/solver"
)

// Config holds all host settings.
type Config struct {
	Search  SearchConfig  `yaml:"search"`
	Logging LoggingConfig `yaml:"logging"`
	Store   StoreConfig   `yaml:"store"`
}

// SearchConfig holds the solver's tunables.
type SearchConfig struct {
	Strategy         string        `yaml:"strategy"`
	LowerBoundMethod string        `yaml:"lower_bound_method"`
	TimeSlice        time.Duration `yaml:"time_slice"`
	TotalBudget      time.Duration `yaml:"total_budget"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// StoreConfig holds level/solution persistence settings.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Search: SearchConfig{
			Strategy:         "fast",
			LowerBoundMethod: "minimum-push",
			TimeSlice:        50 * time.Millisecond,
			TotalBudget:      30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Store: StoreConfig{
			Path: "sokoban-store.json",
		},
	}
}

// Strategy parses Search.Strategy into a solver.Strategy. Unknown
// values default to solver.Fast.
func (c *Config) Strategy() solver.Strategy {
	switch c.Search.Strategy {
	case "mixed":
		return solver.Mixed
	case "optimal-move-push":
		return solver.OptimalMovePush
	case "optimal-push-move":
		return solver.OptimalPushMove
	default:
		return solver.Fast
	}
}

// LowerBoundMethod parses Search.LowerBoundMethod into a
// lowerbound.Method. Unknown values default to ManhattanDistance.
func (c *Config) LowerBoundMethod() lowerbound.Method {
	switch c.Search.LowerBoundMethod {
	case "minimum-move":
		return lowerbound.MinimumMove
	case "minimum-push":
		return lowerbound.MinimumPush
	default:
		return lowerbound.ManhattanDistance
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ShenMian/sokoban-go/internal/lowerbound"
	"github.com/ShenMian/sokoban-go/internal/solver"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Search.Strategy != "fast" {
		t.Errorf("expected default strategy 'fast', got %s", cfg.Search.Strategy)
	}
	if cfg.Search.TimeSlice != 50*time.Millisecond {
		t.Errorf("expected default time slice 50ms, got %v", cfg.Search.TimeSlice)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level 'info', got %s", cfg.Logging.Level)
	}
}

func TestStrategyParsing(t *testing.T) {
	tests := []struct {
		name string
		want solver.Strategy
	}{
		{"fast", solver.Fast},
		{"mixed", solver.Mixed},
		{"optimal-move-push", solver.OptimalMovePush},
		{"optimal-push-move", solver.OptimalPushMove},
		{"nonsense", solver.Fast},
	}
	for _, tt := range tests {
		cfg := Default()
		cfg.Search.Strategy = tt.name
		if got := cfg.Strategy(); got != tt.want {
			t.Errorf("Strategy() for %q = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLowerBoundMethodParsing(t *testing.T) {
	tests := []struct {
		name string
		want lowerbound.Method
	}{
		{"minimum-move", lowerbound.MinimumMove},
		{"minimum-push", lowerbound.MinimumPush},
		{"manhattan", lowerbound.ManhattanDistance},
		{"nonsense", lowerbound.ManhattanDistance},
	}
	for _, tt := range tests {
		cfg := Default()
		cfg.Search.LowerBoundMethod = tt.name
		if got := cfg.LowerBoundMethod(); got != tt.want {
			t.Errorf("LowerBoundMethod() for %q = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "sokoban.yaml")
	yamlContent := `
search:
  strategy: mixed
  lower_bound_method: minimum-move
  time_slice: 100ms
  total_budget: 1m
logging:
  level: debug
  log_file: solver.log
store:
  path: levels.json
`
	if err := os.WriteFile(path, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("write test config: %v", err)
	}

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Search.Strategy != "mixed" {
		t.Errorf("Strategy = %s, want mixed", cfg.Search.Strategy)
	}
	if cfg.Search.TimeSlice != 100*time.Millisecond {
		t.Errorf("TimeSlice = %v, want 100ms", cfg.Search.TimeSlice)
	}
	if cfg.Logging.LogFile != "solver.log" {
		t.Errorf("LogFile = %s, want solver.log", cfg.Logging.LogFile)
	}
	if cfg.Store.Path != "levels.json" {
		t.Errorf("Store.Path = %s, want levels.json", cfg.Store.Path)
	}
}

func TestLoadAppliesFlagOverridesLast(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "sokoban.yaml")
	if err := os.WriteFile(path, []byte("search:\n  strategy: mixed\n"), 0644); err != nil {
		t.Fatalf("write test config: %v", err)
	}

	cfg, err := Load(path, func(c *Config) {
		c.Search.Strategy = "fast"
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Search.Strategy != "fast" {
		t.Errorf("Strategy = %s, want fast (flag should win over file)", cfg.Search.Strategy)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	if err == nil {
		t.Error("expected an error loading a missing explicit path")
	}
}

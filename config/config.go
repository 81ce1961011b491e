// Package config provides configuration parsing for sysmon.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stkisengese/desktop-system-monitor/history"
)

// Config represents the sysmon configuration.
type Config struct {
	// Sampling holds the fixed refresh intervals.
	Sampling SamplingConfig `yaml:"sampling"`

	// History holds graph history settings.
	History HistoryConfig `yaml:"history"`

	// Display holds rendering settings.
	Display DisplayConfig `yaml:"display"`

	// LogFile is the path for log output. Empty disables file logging.
	LogFile string `yaml:"log_file"`
}

// SamplingConfig holds refresh intervals as duration strings
// (e.g. "1s", "500ms").
type SamplingConfig struct {
	// MemoryInterval is the refresh interval for memory, swap and disk.
	MemoryInterval string `yaml:"memory_interval"`
	// ProcessInterval is the refresh interval for the process table.
	ProcessInterval string `yaml:"process_interval"`
	// NetworkInterval is the refresh interval for interface counters.
	NetworkInterval string `yaml:"network_interval"`
	// SummaryInterval is the refresh interval for the system summary.
	SummaryInterval string `yaml:"summary_interval"`
}

// HistoryConfig holds graph history settings.
type HistoryConfig struct {
	// Capacity is the number of samples each graph retains.
	Capacity int `yaml:"capacity"`
	// CPU, Thermal and Fan hold per-graph defaults.
	CPU     GraphConfig `yaml:"cpu"`
	Thermal GraphConfig `yaml:"thermal"`
	Fan     GraphConfig `yaml:"fan"`
}

// GraphConfig holds one graph's startup state.
type GraphConfig struct {
	// CadenceHz is the sampling rate in Hz (1 to 30).
	CadenceHz float64 `yaml:"cadence_hz"`
	// Paused starts the graph with recording paused.
	Paused bool `yaml:"paused"`
}

// DisplayConfig holds rendering settings.
type DisplayConfig struct {
	// WarnPercent is the usage percentage at which meters turn yellow.
	WarnPercent float64 `yaml:"warn_percent"`
	// DangerPercent is the usage percentage at which meters turn red.
	DangerPercent float64 `yaml:"danger_percent"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	graph := GraphConfig{CadenceHz: history.DefaultCadenceHz}
	return &Config{
		Sampling: SamplingConfig{
			MemoryInterval:  "1s",
			ProcessInterval: "3s",
			NetworkInterval: "1s",
			SummaryInterval: "2s",
		},
		History: HistoryConfig{
			Capacity: history.DefaultCapacity,
			CPU:      graph,
			Thermal:  graph,
			Fan:      graph,
		},
		Display: DisplayConfig{
			WarnPercent:   70,
			DangerPercent: 90,
		},
	}
}

// DefaultPath returns the default config file location,
// ~/.config/sysmon/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "sysmon", "config.yaml")
}

// LoadConfig loads configuration from a YAML file, merging with
// defaults. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return config, nil
}

// Validate checks the configuration for logical consistency.
func (c *Config) Validate() error {
	intervals := []struct {
		name  string
		value string
	}{
		{"sampling.memory_interval", c.Sampling.MemoryInterval},
		{"sampling.process_interval", c.Sampling.ProcessInterval},
		{"sampling.network_interval", c.Sampling.NetworkInterval},
		{"sampling.summary_interval", c.Sampling.SummaryInterval},
	}
	for _, iv := range intervals {
		d, err := time.ParseDuration(iv.value)
		if err != nil {
			return fmt.Errorf("%s: invalid duration %q", iv.name, iv.value)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %q", iv.name, iv.value)
		}
	}

	if c.History.Capacity <= 0 {
		return fmt.Errorf("history.capacity must be positive, got %d", c.History.Capacity)
	}

	graphs := []struct {
		name  string
		graph GraphConfig
	}{
		{"history.cpu", c.History.CPU},
		{"history.thermal", c.History.Thermal},
		{"history.fan", c.History.Fan},
	}
	for _, g := range graphs {
		hz := g.graph.CadenceHz
		if hz < history.MinCadenceHz || hz > history.MaxCadenceHz {
			return fmt.Errorf("%s.cadence_hz must be between %v and %v, got %v",
				g.name, history.MinCadenceHz, history.MaxCadenceHz, hz)
		}
	}

	if c.Display.WarnPercent <= 0 || c.Display.WarnPercent > 100 {
		return fmt.Errorf("display.warn_percent must be in (0, 100], got %v", c.Display.WarnPercent)
	}
	if c.Display.DangerPercent <= c.Display.WarnPercent || c.Display.DangerPercent > 100 {
		return fmt.Errorf("display.danger_percent must be above warn_percent and at most 100, got %v",
			c.Display.DangerPercent)
	}

	return nil
}

// Interval parses a duration string, falling back to def when the
// string is empty or malformed.
func Interval(value string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// SaveConfig saves configuration to a YAML file.
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

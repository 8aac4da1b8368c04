// Package config holds rtk's policy configuration: rendering limits, the
// noise-name denylist, and tracking storage. Everything has a sensible
// default; a config file is optional.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/chiralitie/rtk/internal/filter"
)

// Config is the full rtk configuration.
type Config struct {
	// Render holds the summary size policy.
	Render filter.Limits `yaml:"render"`

	// NoiseNames is the directory-listing denylist. Replaces the default
	// list entirely when set, so projects can opt noise back in.
	NoiseNames []string `yaml:"noise_names"`

	// Tracking configures the usage sink.
	Tracking TrackingConfig `yaml:"tracking"`
}

// TrackingConfig configures the invocation-tracking store.
type TrackingConfig struct {
	Enabled      bool   `yaml:"enabled"`
	DatabasePath string `yaml:"database_path"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() *Config {
	return &Config{
		Render:     filter.DefaultLimits(),
		NoiseNames: filter.DefaultNoiseNames(),
		Tracking: TrackingConfig{
			Enabled:      true,
			DatabasePath: filepath.Join(homeDir(), ".rtk", "usage.db"),
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(homeDir(), ".rtk", "config.yaml")
}

// Load reads configuration from a YAML file, returning defaults when the
// file does not exist. Environment overrides apply last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if len(cfg.NoiseNames) == 0 {
		cfg.NoiseNames = filter.DefaultNoiseNames()
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file, creating parent
// directories as needed.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("RTK_DB"); path != "" {
		c.Tracking.DatabasePath = path
	}
	if v := os.Getenv("RTK_NO_TRACKING"); v != "" {
		c.Tracking.Enabled = false
	}
}

// Validate rejects nonsensical rendering limits.
func (c *Config) Validate() error {
	limits := map[string]int{
		"max_issue_blocks":   c.Render.MaxIssueBlocks,
		"max_failures":       c.Render.MaxFailures,
		"failure_body_chars": c.Render.FailureBodyChars,
		"max_rules":          c.Render.MaxRules,
		"max_rule_locations": c.Render.MaxRuleLocations,
		"max_extensions":     c.Render.MaxExtensions,
		"fallback_lines":     c.Render.FallbackLines,
	}
	for name, value := range limits {
		if value <= 0 {
			return fmt.Errorf("render.%s must be positive, got %d", name, value)
		}
	}
	if c.Render.BlockCloseMinLines < 0 {
		return fmt.Errorf("render.block_close_min_lines must not be negative, got %d", c.Render.BlockCloseMinLines)
	}
	return nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

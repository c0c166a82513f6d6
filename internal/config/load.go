package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Validation errors.
var (
	ErrInvalidMapping = errors.New("invalid world mapping")
	ErrInvalidBounds  = errors.New("invalid playable bounds")
	ErrInvalidTree    = errors.New("invalid tree settings")
	ErrInvalidAgent   = errors.New("invalid agent settings")
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would make the world mapping inconsistent.
func (c *Config) Validate() error {
	w := c.World
	if w.CellScale <= 0 || w.HeightScale == 0 || w.PassabilityDivisor < 1 {
		return fmt.Errorf("%w: cell_scale=%v height_scale=%v divisor=%d",
			ErrInvalidMapping, w.CellScale, w.HeightScale, w.PassabilityDivisor)
	}
	if w.MinX >= w.MaxX || w.MinZ >= w.MaxZ {
		return fmt.Errorf("%w: x [%v,%v] z [%v,%v]", ErrInvalidBounds, w.MinX, w.MaxX, w.MinZ, w.MaxZ)
	}
	if p := c.Agent.MaxPitch; p <= 0 || float64(p) >= math.Pi/2 {
		return fmt.Errorf("%w: max_pitch=%v must be in (0, pi/2)", ErrInvalidAgent, p)
	}
	if c.Tree.NodeBudget < 1 {
		return fmt.Errorf("%w: node_budget=%d", ErrInvalidTree, c.Tree.NodeBudget)
	}
	return nil
}

// DataPath joins a data file name onto the data directory.
// Absolute names are returned unchanged.
func (c *Config) DataPath(name string) string {
	if filepath.IsAbs(name) || c.Data.Dir == "" {
		return name
	}
	return filepath.Join(c.Data.Dir, name)
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Woodland")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Woodland")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "woodland")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "woodland")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

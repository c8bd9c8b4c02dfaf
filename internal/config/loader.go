package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Minimum arena that still holds both spawn cells apart.
const (
	MinGridWidth  = 12
	MinGridHeight = 3
)

// ErrInvalidConfig is returned when a loaded configuration fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// LoadLightcycle loads lightcycle configuration.
// Search order: customPath -> ~/.lightcycle/configs/lightcycle.yaml -> ./configs/lightcycle.yaml -> embedded default
func LoadLightcycle(customPath string) (LightcycleConfig, error) {
	// Unset keys keep their default values.
	cfg := DefaultLightcycleConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return DefaultLightcycleConfig(), fmt.Errorf("config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	candidates := []string{
		userConfigPath("lightcycle.yaml"),
		filepath.Join("configs", "lightcycle.yaml"),
	}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if loaded, ok := tryLoad(path); ok {
			return loaded, nil
		}
	}

	// Use embedded default YAML
	cfg = DefaultLightcycleConfig()
	if err := yaml.Unmarshal(defaultLightcycleYAML, &cfg); err != nil || cfg.Validate() != nil {
		return DefaultLightcycleConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// tryLoad reads an optional config file. Missing, unparsable, or invalid
// files are skipped so the next location in the search order is used.
func tryLoad(path string) (LightcycleConfig, bool) {
	cfg := DefaultLightcycleConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, false
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, false
	}
	if err := cfg.Validate(); err != nil {
		return cfg, false
	}
	return cfg, true
}

// Validate checks that the configuration describes a playable arena.
func (c LightcycleConfig) Validate() error {
	if c.Grid.Width < MinGridWidth {
		return fmt.Errorf("%w: grid width %d is below %d", ErrInvalidConfig, c.Grid.Width, MinGridWidth)
	}
	if c.Grid.Height < MinGridHeight {
		return fmt.Errorf("%w: grid height %d is below %d", ErrInvalidConfig, c.Grid.Height, MinGridHeight)
	}
	if c.Timing.MinIntervalMS <= 0 {
		return fmt.Errorf("%w: min interval must be positive", ErrInvalidConfig)
	}
	if c.Timing.BaseIntervalMS < c.Timing.MinIntervalMS {
		return fmt.Errorf("%w: base interval %dms is below the floor %dms",
			ErrInvalidConfig, c.Timing.BaseIntervalMS, c.Timing.MinIntervalMS)
	}
	if c.Timing.StepMS < 0 {
		return fmt.Errorf("%w: interval step must not be negative", ErrInvalidConfig)
	}
	if c.Versus.MaxLevel < 1 {
		return fmt.Errorf("%w: versus max level must be at least 1", ErrInvalidConfig)
	}
	if c.Storage.ProgressKey == "" {
		return fmt.Errorf("%w: progress key is empty", ErrInvalidConfig)
	}
	return nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".lightcycle", "configs", filename)
}

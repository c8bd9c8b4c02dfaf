// Package config provides YAML-based game configuration loading and
// the difficulty profile for the lightcycle arena.
package config

// LightcycleConfig contains all configuration for the lightcycle game.
type LightcycleConfig struct {
	Grid    GridConfig    `yaml:"grid"`
	Timing  TimingConfig  `yaml:"timing"`
	Versus  VersusConfig  `yaml:"versus"`
	Players PlayersConfig `yaml:"players"`
	Storage StorageConfig `yaml:"storage"`
}

// GridConfig defines the arena size in cells.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// TimingConfig defines the tick interval curve in milliseconds:
// max(MinIntervalMS, BaseIntervalMS - level*StepMS).
type TimingConfig struct {
	BaseIntervalMS int `yaml:"base_interval_ms"`
	StepMS         int `yaml:"step_ms"`
	MinIntervalMS  int `yaml:"min_interval_ms"`
}

// VersusConfig defines two-player mode limits.
type VersusConfig struct {
	MaxLevel int `yaml:"max_level"`
}

// PlayersConfig defines display names.
type PlayersConfig struct {
	Name       string `yaml:"name"`
	BotName    string `yaml:"bot_name"`
	VersusName string `yaml:"versus_name"`
}

// StorageConfig defines persistence keys.
type StorageConfig struct {
	ProgressKey string `yaml:"progress_key"`
}

// MaxTurns returns the stalemate ceiling for the configured grid.
func (c LightcycleConfig) MaxTurns() int {
	return c.Grid.Width * c.Grid.Height
}

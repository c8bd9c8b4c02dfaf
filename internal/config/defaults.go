package config

import (
	_ "embed"
)

//go:embed defaults/lightcycle.yaml
var defaultLightcycleYAML []byte

// DefaultLightcycleConfig returns the default lightcycle configuration.
func DefaultLightcycleConfig() LightcycleConfig {
	return LightcycleConfig{
		Grid: GridConfig{
			Width:  38,
			Height: 22,
		},
		Timing: TimingConfig{
			BaseIntervalMS: 170,
			StepMS:         12,
			MinIntervalMS:  60,
		},
		Versus: VersusConfig{
			MaxLevel: 10,
		},
		Players: PlayersConfig{
			Name:       "Player One",
			BotName:    "Tim",
			VersusName: "Player Two",
		},
		Storage: StorageConfig{
			ProgressKey: "tron-lightcycle-progress",
		},
	}
}

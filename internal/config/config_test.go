package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultLightcycleConfigMatchesEmbedded(t *testing.T) {
	var cfg LightcycleConfig
	require.NoError(t, yaml.Unmarshal(defaultLightcycleYAML, &cfg))

	assert.Equal(t, DefaultLightcycleConfig(), cfg)
	assert.Equal(t, 38*22, cfg.MaxTurns())
}

func TestLoadLightcycleCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.yaml")
	data := []byte("grid:\n  width: 20\n  height: 10\nplayers:\n  bot_name: \"Rinzler\"\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadLightcycle(path)
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Grid.Width)
	assert.Equal(t, 10, cfg.Grid.Height)
	assert.Equal(t, "Rinzler", cfg.Players.BotName)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, "Player One", cfg.Players.Name)
	assert.Equal(t, 170, cfg.Timing.BaseIntervalMS)
}

func TestLoadLightcycleErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadLightcycle(filepath.Join(dir, "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("grid: [1, 2"), 0o644))
		_, err := LoadLightcycle(path)
		require.Error(t, err)
	})

	t.Run("grid too small", func(t *testing.T) {
		path := filepath.Join(dir, "tiny.yaml")
		require.NoError(t, os.WriteFile(path, []byte("grid:\n  width: 8\n"), 0o644))
		cfg, err := LoadLightcycle(path)
		require.ErrorIs(t, err, ErrInvalidConfig)
		assert.Equal(t, DefaultLightcycleConfig(), cfg)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*LightcycleConfig)
		ok     bool
	}{
		{"defaults", func(*LightcycleConfig) {}, true},
		{"smallest grid", func(c *LightcycleConfig) { c.Grid = GridConfig{Width: 12, Height: 3} }, true},
		{"narrow grid", func(c *LightcycleConfig) { c.Grid.Width = 11 }, false},
		{"flat grid", func(c *LightcycleConfig) { c.Grid.Height = 2 }, false},
		{"zero floor", func(c *LightcycleConfig) { c.Timing.MinIntervalMS = 0 }, false},
		{"base below floor", func(c *LightcycleConfig) { c.Timing.BaseIntervalMS = 50 }, false},
		{"negative step", func(c *LightcycleConfig) { c.Timing.StepMS = -1 }, false},
		{"no versus levels", func(c *LightcycleConfig) { c.Versus.MaxLevel = 0 }, false},
		{"empty key", func(c *LightcycleConfig) { c.Storage.ProgressKey = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultLightcycleConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestProfileFor(t *testing.T) {
	timing := DefaultLightcycleConfig().Timing

	tests := []struct {
		level      int
		interval   time.Duration
		neighbors  int
		tieBreak   bool
		randomness float64
	}{
		{level: 1, interval: 158 * time.Millisecond, neighbors: 0, tieBreak: false, randomness: 0.44},
		{level: 2, interval: 146 * time.Millisecond, neighbors: 3, tieBreak: false, randomness: 0.38},
		{level: 3, interval: 134 * time.Millisecond, neighbors: 3, tieBreak: true, randomness: 0.32},
		{level: 5, interval: 110 * time.Millisecond, neighbors: 4, tieBreak: true, randomness: 0.20},
		{level: 8, interval: 74 * time.Millisecond, neighbors: 4, tieBreak: true, randomness: 0.05},
		{level: 10, interval: 60 * time.Millisecond, neighbors: 4, tieBreak: true, randomness: 0.05},
		{level: 40, interval: 60 * time.Millisecond, neighbors: 4, tieBreak: true, randomness: 0.05},
	}

	for _, tt := range tests {
		p := ProfileFor(tt.level, timing)
		assert.Equal(t, tt.level, p.Level)
		assert.Equal(t, tt.interval, p.TickInterval, "level %d interval", tt.level)
		assert.Equal(t, tt.neighbors, p.OpennessNeighbors, "level %d neighbors", tt.level)
		assert.Equal(t, tt.tieBreak, p.TieBreakOnOpenness, "level %d tie-break", tt.level)
		assert.InDelta(t, tt.randomness, p.Randomness, 1e-9, "level %d randomness", tt.level)
	}
}

func TestProfileForClampsLowLevels(t *testing.T) {
	timing := DefaultLightcycleConfig().Timing
	for _, level := range []int{0, -3} {
		assert.Equal(t, ProfileFor(1, timing), ProfileFor(level, timing))
	}
}

func TestTickIntervalMonotonic(t *testing.T) {
	timing := DefaultLightcycleConfig().Timing
	prev := TickInterval(1, timing)
	for level := 2; level <= 20; level++ {
		cur := TickInterval(level, timing)
		assert.LessOrEqual(t, cur, prev)
		assert.GreaterOrEqual(t, cur, 60*time.Millisecond)
		prev = cur
	}
}

func TestClampVersusLevel(t *testing.T) {
	assert.Equal(t, 1, ClampVersusLevel(0, 10))
	assert.Equal(t, 1, ClampVersusLevel(-5, 10))
	assert.Equal(t, 7, ClampVersusLevel(7, 10))
	assert.Equal(t, 10, ClampVersusLevel(11, 10))
	assert.Equal(t, 1, ClampVersusLevel(4, 0))
}

func TestStartLevel(t *testing.T) {
	assert.Equal(t, 1, StartLevel(0))
	assert.Equal(t, 4, StartLevel(4))
}

package config

import (
	"math"
	"time"
)

// Profile is every difficulty-dependent engine parameter for one level.
// It is a pure function of the level and the timing curve.
type Profile struct {
	Level        int
	TickInterval time.Duration

	// OpennessNeighbors is how many cells around a candidate move the bot
	// inspects: 0 disables the openness score, 3 checks ahead and both
	// sides, 4 also checks behind.
	OpennessNeighbors int

	// TieBreakOnOpenness prefers the more open move when two candidates
	// are equally close to the opponent.
	TieBreakOnOpenness bool

	// Randomness is the probability of picking a random safe move instead
	// of the best ranked one.
	Randomness float64
}

// ProfileFor returns the difficulty profile for a level. Levels below 1
// are treated as 1.
func ProfileFor(level int, timing TimingConfig) Profile {
	level = max(1, level)

	p := Profile{
		Level:              level,
		TickInterval:       TickInterval(level, timing),
		TieBreakOnOpenness: level >= 3,
		Randomness:         math.Max(0.05, 0.5-float64(level)*0.06),
	}

	switch {
	case level >= 5:
		p.OpennessNeighbors = 4
	case level >= 2:
		p.OpennessNeighbors = 3
	}
	return p
}

// TickInterval returns the session tick period for a level. It shrinks by
// StepMS per level and never drops below MinIntervalMS.
func TickInterval(level int, timing TimingConfig) time.Duration {
	ms := max(timing.MinIntervalMS, timing.BaseIntervalMS-level*timing.StepMS)
	return time.Duration(ms) * time.Millisecond
}

// ClampVersusLevel clamps a two-player level selection to [1, maxLevel].
func ClampVersusLevel(level, maxLevel int) int {
	return min(max(level, 1), max(maxLevel, 1))
}

// StartLevel returns the level a bot-mode session starts at for a stored
// progression level.
func StartLevel(level int) int {
	return max(1, level)
}

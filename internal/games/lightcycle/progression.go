package lightcycle

import (
	"strings"

	"github.com/vovakirdan/lightcycle/internal/core"
)

// DefaultPlayerName is used when a pilot name is blank.
const DefaultPlayerName = "Player One"

// Progression is the single-player run state carried between sessions.
type Progression struct {
	// Score is the cumulative run score; a loss resets it.
	Score int
	// Level is the level the next attempt starts at.
	Level        int
	HighScore    int
	HighestLevel int
	// LastDelta is the reward of the latest win, 0 after a loss.
	LastDelta int
	Player    string
}

// Change describes how one outcome moved the progression.
type Change struct {
	Delta int
	// RunEnded is set when a loss or draw wiped a positive run score,
	// which is kept in EndedScore.
	RunEnded   bool
	EndedScore int
}

// NewProgression restores a progression from its persisted payload.
// Missing values fall back to defaults.
func NewProgression(saved core.Progress) Progression {
	return Progression{
		Level:        1,
		HighScore:    max(0, saved.HighScore),
		HighestLevel: max(1, saved.HighestLevel),
		Player:       NormalizeName(saved.Player, DefaultPlayerName),
	}
}

// Apply folds a bot-mode outcome into the progression. A win adds the score
// delta and unlocks the next level; a loss or draw resets score and level.
// Versus outcomes leave it untouched.
func (p *Progression) Apply(o Outcome) Change {
	if o.Mode != ModeBot {
		return Change{}
	}

	if o.HumanWon() {
		delta := o.ScoreDelta()
		p.Score += delta
		p.LastDelta = delta
		p.HighestLevel = max(p.HighestLevel, o.Level)
		p.Level = max(p.Level, o.Level+1)
		p.HighScore = max(p.HighScore, p.Score)
		return Change{Delta: delta}
	}

	ch := Change{RunEnded: p.Score > 0, EndedScore: p.Score}
	p.Score = 0
	p.Level = 1
	p.LastDelta = 0
	return ch
}

// Payload returns the record persisted after every session.
func (p Progression) Payload() core.Progress {
	return core.Progress{
		HighScore:    max(p.HighScore, p.Score),
		HighestLevel: p.HighestLevel,
		Player:       p.Player,
	}
}

// NormalizeName trims a display name and falls back when it is blank.
func NormalizeName(name, fallback string) string {
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		return trimmed
	}
	return fallback
}

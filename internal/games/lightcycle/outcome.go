package lightcycle

import (
	"math"

	"github.com/vovakirdan/lightcycle/internal/core"
)

// Outcome is the terminal result of a session.
type Outcome struct {
	Mode  Mode
	Level int
	// Winner is core.PlayerNone on a draw.
	Winner core.PlayerID
	// Stalemate is set when both agents survived to the turn ceiling.
	Stalemate      bool
	Turns          int
	MaxTurns       int
	WinnerTrailLen int
}

// Draw reports whether nobody won.
func (o Outcome) Draw() bool {
	return o.Winner == core.PlayerNone
}

// HumanWon reports whether player 1 beat the bot.
func (o Outcome) HumanWon() bool {
	return o.Mode == ModeBot && o.Winner == core.Player1
}

// ScoreDelta returns the points player 1 earns from a bot-mode win, or 0.
func (o Outcome) ScoreDelta() int {
	if !o.HumanWon() {
		return 0
	}
	return ScoreDelta(o.Level, o.Turns, o.WinnerTrailLen, o.MaxTurns)
}

// ScoreDelta is the reward for a win at level after turns ticks with a trail
// of trailLen cells: a level base, a tempo bonus for finishing early and a
// style bonus for the trail.
func ScoreDelta(level, turns, trailLen, maxTurns int) int {
	base := 420 + level*180
	tempo := max(0, (maxTurns-turns)*4)
	style := int(math.Round(float64(trailLen) * 2.5))
	return base + tempo + style
}

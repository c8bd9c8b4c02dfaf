// Package lightcycle implements the grid duel: two lightcycles leave
// permanent trails on a fixed grid and the last one moving wins.
//
// The engine (Session) is pure and deterministic for a given random source.
// Game adapts it to the platform's registry.Game interface and owns the
// single-player progression.
package lightcycle

import (
	"fmt"

	"github.com/vovakirdan/lightcycle/internal/core"
)

// Direction is one of the four grid headings.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

var directionVectors = [...]core.Point{
	DirUp:    {X: 0, Y: -1},
	DirDown:  {X: 0, Y: 1},
	DirLeft:  {X: -1, Y: 0},
	DirRight: {X: 1, Y: 0},
}

// Vector returns the unit step for the direction.
func (d Direction) Vector() core.Point {
	return directionVectors[d]
}

// Opposite returns the reverse heading. It is an involution.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	default:
		return DirLeft
	}
}

// Left returns the heading after a left turn.
func (d Direction) Left() Direction {
	switch d {
	case DirUp:
		return DirLeft
	case DirDown:
		return DirRight
	case DirLeft:
		return DirDown
	default:
		return DirUp
	}
}

// Right returns the heading after a right turn.
func (d Direction) Right() Direction {
	switch d {
	case DirUp:
		return DirRight
	case DirDown:
		return DirLeft
	case DirLeft:
		return DirUp
	default:
		return DirDown
	}
}

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// isOpposite checks if next would reverse current.
func isOpposite(next, current Direction) bool {
	return current.Opposite() == next
}

// DirectionFromAction maps a steer action to a direction.
func DirectionFromAction(a core.Action) (Direction, bool) {
	switch a {
	case core.ActionUp:
		return DirUp, true
	case core.ActionDown:
		return DirDown, true
	case core.ActionLeft:
		return DirLeft, true
	case core.ActionRight:
		return DirRight, true
	default:
		return DirUp, false
	}
}

// Mode selects who controls player 2.
type Mode string

const (
	ModeBot    Mode = "bot"
	ModeVersus Mode = "versus"
)

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeBot, ModeVersus:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("lightcycle: unknown mode %q (want bot or versus)", s)
	}
}

// Control is the kind of driver steering an agent.
type Control int

const (
	ControlHuman Control = iota
	ControlBot
)

// String returns the control name.
func (c Control) String() string {
	if c == ControlBot {
		return "bot"
	}
	return "human"
}

// Status is the session lifecycle state.
type Status string

const (
	StatusInitialized Status = "initialized"
	StatusPlaying     Status = "playing"
	StatusEnded       Status = "ended"
)

// Agent is one lightcycle.
type Agent struct {
	ID        core.PlayerID
	Position  core.Point
	Direction Direction
	// Trail holds previously occupied cells, oldest first.
	Trail   []core.Point
	Alive   bool
	Control Control
}

func (a Agent) clone() Agent {
	a.Trail = append([]core.Point(nil), a.Trail...)
	return a
}

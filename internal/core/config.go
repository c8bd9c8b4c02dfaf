package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW int    // Screen width in characters
	ScreenH int    // Screen height in characters
	Seed    int64  // RNG seed for deterministic gameplay
	Level   int    // Starting level; 0 lets the game pick
	Player  string // Player 1 display name

	// Opponent overrides the configured Player 2 name in versus mode.
	Opponent string
	// Online is set when each pilot steers from a separate terminal.
	Online bool

	// Progress is the persisted progression loaded by the platform, if any.
	Progress *Progress
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW: 80,
		ScreenH: 24,
		Seed:    0, // 0 means use current time in platform layer
	}
}

// Progress is the persisted single-player progression. The JSON field names
// are the stored payload format.
type Progress struct {
	HighScore    int    `json:"score"`
	HighestLevel int    `json:"level"`
	Player       string `json:"player"`
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int    // Cumulative run score
	Level    int    // Level of the current session
	Status   string // Session lifecycle status
	GameOver bool   // Whether the current session has ended
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
	// Round is set exactly once, on the step that ended a session.
	Round *RoundResult
}

// RoundResult describes a finished session for the platform to persist.
type RoundResult struct {
	GameID   string
	Mode     string
	Level    int
	Winner   PlayerID // PlayerNone on a draw
	Turns    int
	Player   string
	Opponent string

	// ScoreDelta is the points earned by the round (bot mode wins only).
	ScoreDelta int
	// RunScore is the cumulative score after the round.
	RunScore int
	// RunEnded is set when a bot-mode run was reset; EndedRunScore holds
	// the score the run reached before the reset.
	RunEnded      bool
	EndedRunScore int
	// NextLevel is the level the next attempt starts at.
	NextLevel int

	// Progress is the payload to persist after the round.
	Progress Progress
}

// Draw reports whether the round ended without a winner.
func (r RoundResult) Draw() bool {
	return r.Winner == PlayerNone
}

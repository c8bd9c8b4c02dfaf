// Package multiplayer pairs two SSH sessions into an online versus duel.
// A lobby code links the host to the joiner; the server then runs one
// authoritative game per match and streams rendered frames to both pilots.
package multiplayer

// SessionID uniquely identifies a connected terminal session.
type SessionID string

// MatchID uniquely identifies an online match.
type MatchID string

// EndReason explains why an online match stopped.
type EndReason int

const (
	// EndReasonLeft means a pilot left the match from the game screen.
	EndReasonLeft EndReason = iota
	// EndReasonDisconnect means a pilot's connection closed.
	EndReasonDisconnect
	// EndReasonShutdown means the server stopped the match.
	EndReasonShutdown
)

// String returns a human-readable name for the reason.
func (r EndReason) String() string {
	switch r {
	case EndReasonLeft:
		return "left"
	case EndReasonDisconnect:
		return "disconnect"
	case EndReasonShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// Notice is the message shown to the pilot who is still connected.
func (r EndReason) Notice() string {
	switch r {
	case EndReasonLeft:
		return "Your opponent left the match"
	case EndReasonDisconnect:
		return "Your opponent disconnected"
	case EndReasonShutdown:
		return "The server is shutting down"
	default:
		return "The match ended"
	}
}

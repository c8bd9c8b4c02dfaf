package multiplayer

import (
	"github.com/vovakirdan/lightcycle/internal/core"
)

// SessionEvent is sent from the coordinator or a match to a session.
type SessionEvent interface {
	sessionEvent()
}

// LobbyCreatedEvent confirms a hosted lobby and carries its join code.
type LobbyCreatedEvent struct {
	Code  string
	Level int
}

// LobbyErrorEvent reports a failed host or join attempt, or an expired lobby.
type LobbyErrorEvent struct {
	Message string
}

// MatchStartedEvent tells a pilot which side it steers.
type MatchStartedEvent struct {
	MatchID  MatchID
	Code     string
	Side     core.PlayerID
	Opponent string
	Level    int
}

// FrameEvent carries one rendered frame of a running match. Frames are
// coalesced: a slow session only ever sees the latest one.
type FrameEvent struct {
	MatchID MatchID
	Tick    uint64
	Screen  *core.Screen
	State   core.GameState
}

// MatchEndedEvent tells the remaining pilot that the match is over.
type MatchEndedEvent struct {
	MatchID MatchID
	Reason  EndReason
}

func (LobbyCreatedEvent) sessionEvent() {}
func (LobbyErrorEvent) sessionEvent() {}
func (MatchStartedEvent) sessionEvent() {}
func (FrameEvent) sessionEvent() {}
func (MatchEndedEvent) sessionEvent() {}

// CoordinatorMessage is sent from a session to the coordinator.
type CoordinatorMessage interface {
	coordinatorMessage()
}

// CreateLobbyMsg hosts a new lobby at the given versus level.
type CreateLobbyMsg struct {
	SessionID SessionID
	Name      string
	Level     int
}

// JoinLobbyMsg joins the lobby with the given code and starts the match.
type JoinLobbyMsg struct {
	SessionID SessionID
	Code      string
	Name      string
}

// CancelLobbyMsg closes the lobby hosted by the session.
type CancelLobbyMsg struct {
	SessionID SessionID
}

// LeaveMatchMsg removes the session from its running match.
type LeaveMatchMsg struct {
	SessionID SessionID
}

// InputMsg forwards one game action of the session's pilot.
type InputMsg struct {
	SessionID SessionID
	Action    core.Action
}

// SessionDisconnectedMsg signals that a session's connection closed.
type SessionDisconnectedMsg struct {
	SessionID SessionID
}

func (CreateLobbyMsg) coordinatorMessage() {}
func (JoinLobbyMsg) coordinatorMessage() {}
func (CancelLobbyMsg) coordinatorMessage() {}
func (LeaveMatchMsg) coordinatorMessage() {}
func (InputMsg) coordinatorMessage() {}
func (SessionDisconnectedMsg) coordinatorMessage() {}

package multiplayer

import (
	"sync"
	"time"

	"github.com/vovakirdan/lightcycle/internal/core"
)

// OnlineGame is the part of a registered game an online match drives.
// registry.Game satisfies it.
type OnlineGame interface {
	Reset(cfg core.RuntimeConfig)
	Step(in core.MultiInputFrame) core.StepResult
	Render(dst *core.Screen)
	TickInterval() time.Duration
}

// RoundHandler receives every round a match finishes.
type RoundHandler func(id MatchID, round core.RoundResult)

// MatchEnd describes why a match loop returned.
type MatchEnd struct {
	MatchID MatchID
	Reason  EndReason
	// Leaver is the session that left or disconnected, if any.
	Leaver SessionID
	Ticks  uint64
}

type departure struct {
	session SessionID
	reason  EndReason
}

// Match is one authoritative online duel. The host steers Player1 and the
// joiner Player2. Rounds follow each other inside the same match until a
// pilot leaves.
type Match struct {
	id     MatchID
	code   string
	game   OnlineGame
	pilots [2]SessionHandle
	screen *core.Screen

	inputMu sync.Mutex
	input   core.MultiInputFrame

	tick     uint64
	left     chan departure
	stop     chan struct{}
	stopOnce sync.Once
}

// NewMatch creates a match for a game that was already Reset. Frames are
// rendered at frameW x frameH.
func NewMatch(id MatchID, code string, game OnlineGame, host, joiner SessionHandle, frameW, frameH int) *Match {
	return &Match{
		id:     id,
		code:   code,
		game:   game,
		pilots: [2]SessionHandle{host, joiner},
		screen: core.NewScreen(frameW, frameH),
		input:  core.NewMultiInputFrame(),
		left:   make(chan departure, 2),
		stop:   make(chan struct{}),
	}
}

// ID returns the match identifier.
func (m *Match) ID() MatchID {
	return m.id
}

// Code returns the lobby code the match was created from.
func (m *Match) Code() string {
	return m.code
}

// Side returns the player slot steered by the session, or PlayerNone.
func (m *Match) Side(id SessionID) core.PlayerID {
	switch id {
	case m.pilots[0].ID():
		return core.Player1
	case m.pilots[1].ID():
		return core.Player2
	default:
		return core.PlayerNone
	}
}

// Opponent returns the other pilot of the session.
func (m *Match) Opponent(id SessionID) SessionHandle {
	if id == m.pilots[0].ID() {
		return m.pilots[1]
	}
	return m.pilots[0]
}

// Input buffers an action for the next tick. The latest steer of a side
// wins.
func (m *Match) Input(side core.PlayerID, a core.Action) {
	if side == core.PlayerNone {
		return
	}
	m.inputMu.Lock()
	defer m.inputMu.Unlock()
	m.input.Add(side, a)
}

// Leave ends the match on behalf of a session.
func (m *Match) Leave(id SessionID, reason EndReason) {
	select {
	case m.left <- departure{session: id, reason: reason}:
	default:
	}
}

// Stop ends the match without a leaver.
func (m *Match) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
	})
}

// Run drives the match at the game's tick interval until a pilot leaves or
// the match is stopped. onRound is called from the match goroutine.
func (m *Match) Run(onRound RoundHandler) MatchEnd {
	defer m.Stop()
	for _, p := range m.pilots {
		go m.watch(p)
	}

	m.broadcast(core.GameState{})

	timer := time.NewTimer(m.game.TickInterval())
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			if round := m.step(); round != nil && onRound != nil {
				onRound(m.id, *round)
			}
			timer.Reset(m.game.TickInterval())

		case d := <-m.left:
			return MatchEnd{MatchID: m.id, Reason: d.reason, Leaver: d.session, Ticks: m.tick}

		case <-m.stop:
			return MatchEnd{MatchID: m.id, Reason: EndReasonShutdown, Ticks: m.tick}
		}
	}
}

// watch reports a pilot whose session closed.
func (m *Match) watch(p SessionHandle) {
	select {
	case <-p.Done():
		m.Leave(p.ID(), EndReasonDisconnect)
	case <-m.stop:
	}
}

func (m *Match) step() *core.RoundResult {
	m.inputMu.Lock()
	in := m.input
	m.input = core.NewMultiInputFrame()
	m.inputMu.Unlock()

	res := m.game.Step(in)
	m.tick++
	m.broadcast(res.State)
	return res.Round
}

func (m *Match) broadcast(state core.GameState) {
	m.game.Render(m.screen)
	for _, p := range m.pilots {
		// Each session gets its own copy since the next tick reuses the buffer.
		p.Send(FrameEvent{
			MatchID: m.id,
			Tick:    m.tick,
			Screen:  m.screen.Clone(),
			State:   state,
		})
	}
}

package multiplayer

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/lightcycle/internal/core"
)

const waitTimeout = 2 * time.Second

// stubGame counts steps and remembers the last steer of each side. A
// Confirm from either side ends a round won by Player1.
type stubGame struct {
	mu     sync.Mutex
	cfg    core.RuntimeConfig
	steps  int
	steers map[core.PlayerID]core.Action
}

func newStubGame() *stubGame {
	return &stubGame{steers: make(map[core.PlayerID]core.Action)}
}

func (g *stubGame) Reset(cfg core.RuntimeConfig) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cfg = cfg
}

func (g *stubGame) Step(in core.MultiInputFrame) core.StepResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.steps++
	for _, id := range []core.PlayerID{core.Player1, core.Player2} {
		if a := in.Player(id).Steer(); a != core.ActionNone {
			g.steers[id] = a
		}
	}
	res := core.StepResult{State: core.GameState{Level: g.cfg.Level}}
	if in.Has(core.ActionConfirm) {
		res.Round = &core.RoundResult{
			Mode: "versus", Level: g.cfg.Level, Winner: core.Player1,
			Player: g.cfg.Player, Opponent: g.cfg.Opponent,
		}
	}
	return res
}

func (g *stubGame) Render(dst *core.Screen) {
	g.mu.Lock()
	defer g.mu.Unlock()
	dst.Clear()
	dst.DrawText(0, 0, fmt.Sprintf("step %d", g.steps))
}

func (g *stubGame) TickInterval() time.Duration {
	return time.Millisecond
}

func (g *stubGame) steer(id core.PlayerID) core.Action {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.steers[id]
}

func (g *stubGame) config() core.RuntimeConfig {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cfg
}

// waitFor reads events from s until one of type T arrives.
func waitFor[T SessionEvent](t *testing.T, s *ChannelSession) T {
	t.Helper()
	found := make(chan T, 1)
	go func() {
		for {
			evt, ok := s.Next()
			if !ok {
				return
			}
			if v, match := evt.(T); match {
				found <- v
				return
			}
		}
	}()
	select {
	case v := <-found:
		return v
	case <-time.After(waitTimeout):
		var zero T
		t.Fatalf("timed out waiting for %T", zero)
		return zero
	}
}

type fixture struct {
	coord  *Coordinator
	game   *stubGame
	rounds chan core.RoundResult
	host   *ChannelSession
	joiner *ChannelSession
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		game:   newStubGame(),
		rounds: make(chan core.RoundResult, 8),
		host:   NewChannelSession("host", 0),
		joiner: NewChannelSession("joiner", 0),
	}
	cfg := DefaultCoordinatorConfig()
	cfg.FrameW, cfg.FrameH = 20, 4
	f.coord = NewCoordinator(cfg,
		func() (OnlineGame, error) { return f.game, nil },
		func(_ MatchID, r core.RoundResult) { f.rounds <- r },
		nil,
	)
	f.coord.Start()
	f.coord.Connect(f.host)
	f.coord.Connect(f.joiner)
	t.Cleanup(func() {
		f.coord.Stop()
		f.host.Close()
		f.joiner.Close()
	})
	return f
}

// startMatch hosts a lobby and joins it with a lowercase code.
func (f *fixture) startMatch(t *testing.T) (MatchStartedEvent, MatchStartedEvent) {
	t.Helper()
	f.coord.Send(CreateLobbyMsg{SessionID: "host", Name: "Sam", Level: 3})
	created := waitFor[LobbyCreatedEvent](t, f.host)
	require.Len(t, created.Code, CodeLength)
	assert.Equal(t, 3, created.Level)

	f.coord.Send(JoinLobbyMsg{SessionID: "joiner", Code: " " + created.Code + " ", Name: "Quorra"})
	hostStart := waitFor[MatchStartedEvent](t, f.host)
	joinStart := waitFor[MatchStartedEvent](t, f.joiner)
	return hostStart, joinStart
}

func TestHostAndJoin(t *testing.T) {
	f := newFixture(t)
	hostStart, joinStart := f.startMatch(t)

	assert.Equal(t, core.Player1, hostStart.Side)
	assert.Equal(t, core.Player2, joinStart.Side)
	assert.Equal(t, "Quorra", hostStart.Opponent)
	assert.Equal(t, "Sam", joinStart.Opponent)
	assert.Equal(t, hostStart.MatchID, joinStart.MatchID)

	cfg := f.game.config()
	assert.Equal(t, "Sam", cfg.Player)
	assert.Equal(t, "Quorra", cfg.Opponent)
	assert.Equal(t, 3, cfg.Level)
	assert.True(t, cfg.Online)
	assert.Equal(t, 0, f.coord.Lobbies())
	assert.Equal(t, 1, f.coord.Matches())

	frame := waitFor[FrameEvent](t, f.joiner)
	assert.Equal(t, hostStart.MatchID, frame.MatchID)
	require.NotNil(t, frame.Screen)
	assert.Equal(t, 20, frame.Screen.Width())
	assert.Contains(t, frame.Screen.Row(0), "step")
}

func TestInputRoutedBySide(t *testing.T) {
	f := newFixture(t)
	f.startMatch(t)

	f.coord.Send(InputMsg{SessionID: "joiner", Action: core.ActionLeft})
	f.coord.Send(InputMsg{SessionID: "host", Action: core.ActionDown})

	assert.Eventually(t, func() bool {
		return f.game.steer(core.Player2) == core.ActionLeft && f.game.steer(core.Player1) == core.ActionDown
	}, waitTimeout, time.Millisecond)
}

func TestRoundsReported(t *testing.T) {
	f := newFixture(t)
	f.startMatch(t)

	f.coord.Send(InputMsg{SessionID: "joiner", Action: core.ActionConfirm})

	select {
	case r := <-f.rounds:
		assert.Equal(t, "Sam", r.Player)
		assert.Equal(t, "Quorra", r.Opponent)
		assert.Equal(t, core.Player1, r.Winner)
	case <-time.After(waitTimeout):
		t.Fatal("no round reported")
	}
}

func TestLeaveNotifiesOpponent(t *testing.T) {
	f := newFixture(t)
	hostStart, _ := f.startMatch(t)

	f.coord.Send(LeaveMatchMsg{SessionID: "joiner"})

	ended := waitFor[MatchEndedEvent](t, f.host)
	assert.Equal(t, hostStart.MatchID, ended.MatchID)
	assert.Equal(t, EndReasonLeft, ended.Reason)
	assert.Eventually(t, func() bool { return f.coord.Matches() == 0 }, waitTimeout, time.Millisecond)

	// Both pilots are free to host again.
	f.coord.Send(CreateLobbyMsg{SessionID: "host", Name: "Sam", Level: 1})
	waitFor[LobbyCreatedEvent](t, f.host)
}

func TestDisconnectEndsMatch(t *testing.T) {
	f := newFixture(t)
	f.startMatch(t)

	f.host.Close()

	ended := waitFor[MatchEndedEvent](t, f.joiner)
	assert.Equal(t, EndReasonDisconnect, ended.Reason)
}

func TestJoinErrors(t *testing.T) {
	f := newFixture(t)

	f.coord.Send(JoinLobbyMsg{SessionID: "joiner", Code: "ZZZZZZ", Name: "Quorra"})
	assert.Equal(t, "Lobby not found", waitFor[LobbyErrorEvent](t, f.joiner).Message)

	f.coord.Send(CreateLobbyMsg{SessionID: "host", Name: "Sam", Level: 1})
	created := waitFor[LobbyCreatedEvent](t, f.host)

	f.coord.Send(JoinLobbyMsg{SessionID: "host", Code: created.Code, Name: "Sam"})
	assert.Equal(t, "Already in a lobby or match", waitFor[LobbyErrorEvent](t, f.host).Message)

	f.coord.Send(CancelLobbyMsg{SessionID: "host"})
	f.coord.Send(JoinLobbyMsg{SessionID: "joiner", Code: created.Code, Name: "Quorra"})
	assert.Equal(t, "Lobby not found", waitFor[LobbyErrorEvent](t, f.joiner).Message)
}

func TestExpireLobbies(t *testing.T) {
	f := newFixture(t)

	f.coord.Send(CreateLobbyMsg{SessionID: "host", Name: "Sam", Level: 1})
	waitFor[LobbyCreatedEvent](t, f.host)

	f.coord.expireLobbies(time.Now().Add(f.coord.config.LobbyTimeout + time.Second))

	assert.Equal(t, "Lobby expired", waitFor[LobbyErrorEvent](t, f.host).Message)
	assert.Equal(t, 0, f.coord.Lobbies())
}

func TestStopEndsMatches(t *testing.T) {
	f := newFixture(t)
	f.startMatch(t)

	f.coord.Stop()

	assert.Equal(t, EndReasonShutdown, waitFor[MatchEndedEvent](t, f.host).Reason)
	assert.Equal(t, EndReasonShutdown, waitFor[MatchEndedEvent](t, f.joiner).Reason)
	assert.Equal(t, 0, f.coord.Matches())
}

func TestGenerateJoinCode(t *testing.T) {
	for range 20 {
		code := generateJoinCode()
		require.Len(t, code, CodeLength)
		for _, r := range code {
			assert.True(t, (r >= 'A' && r <= 'Z') || (r >= '2' && r <= '7'), "unexpected rune %q in %s", r, code)
		}
	}
	assert.Equal(t, "AB2C3D", NormalizeCode("  ab2c3d "))
}

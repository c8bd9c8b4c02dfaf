package tui

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/lightcycle/internal/core"
	"github.com/vovakirdan/lightcycle/internal/leaderboard"
	"github.com/vovakirdan/lightcycle/internal/storage"
)

// scriptedGame ends a round whenever it sees Confirm.
type scriptedGame struct {
	frames []core.MultiInputFrame
	round  core.RoundResult
	score  int
	resets int
	width  int
}

func (g *scriptedGame) ID() string { return "scripted" }
func (g *scriptedGame) Title() string { return "Scripted" }
func (g *scriptedGame) Reset(cfg core.RuntimeConfig) { g.resets++; g.width = cfg.ScreenW }
func (g *scriptedGame) TickInterval() time.Duration { return 50 * time.Millisecond }
func (g *scriptedGame) Render(dst *core.Screen) { dst.DrawText(0, 0, "scripted") }
func (g *scriptedGame) State() core.GameState { return core.GameState{Score: g.score} }
func (g *scriptedGame) Resize(w, _ int) { g.width = w }

func (g *scriptedGame) Step(in core.MultiInputFrame) core.StepResult {
	g.frames = append(g.frames, in.Clone())
	if !in.Has(core.ActionConfirm) {
		return core.StepResult{State: g.State()}
	}
	g.score = g.round.RunScore
	round := g.round
	return core.StepResult{State: g.State(), Round: &round}
}

func newTestRecorder(t *testing.T) (*Recorder, *storage.Store) {
	t.Helper()

	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := log.New(io.Discard)
	queue := leaderboard.NewQueue(leaderboard.LogSyncer{Logger: logger}, logger)
	t.Cleanup(queue.Wait)

	return NewRecorder(store, "test-progress", queue, logger), store
}

func winRound() core.RoundResult {
	return core.RoundResult{
		GameID:     "scripted",
		Mode:       "bot",
		Level:      1,
		Winner:     core.Player1,
		Turns:      40,
		Player:     "Flynn",
		Opponent:   "Tim",
		ScoreDelta: 900,
		RunScore:   900,
		NextLevel:  2,
		Progress:   core.Progress{HighScore: 900, HighestLevel: 2, Player: "Flynn"},
	}
}

func updateGame(t *testing.T, m GameModel, msg tea.Msg) (GameModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	gm, ok := next.(GameModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return gm, cmd
}

func TestGameModelIgnoresStaleTicks(t *testing.T) {
	game := &scriptedGame{}
	m := NewGameModel(game, nil, core.DefaultConfig())
	m.Init()

	m, cmd := updateGame(t, m, TickMsg{Loop: m.loop + 1000})
	if cmd != nil {
		t.Error("stale tick should not schedule another tick")
	}
	if len(game.frames) != 0 {
		t.Errorf("stale tick stepped the game %d times", len(game.frames))
	}

	_, cmd = updateGame(t, m, TickMsg{Loop: m.loop})
	if cmd == nil {
		t.Error("expected next tick to be scheduled")
	}
	if len(game.frames) != 1 {
		t.Errorf("expected 1 step, got %d", len(game.frames))
	}
}

func TestGameModelBuffersKeysUntilTick(t *testing.T) {
	game := &scriptedGame{}
	m := NewGameModel(game, nil, core.DefaultConfig())
	m.Init()

	m, _ = updateGame(t, m, runeKey('w'))
	m, _ = updateGame(t, m, runeKey('a'))
	m, _ = updateGame(t, m, TickMsg{Loop: m.loop})
	_, _ = updateGame(t, m, TickMsg{Loop: m.loop})

	if len(game.frames) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(game.frames))
	}
	if got := game.frames[0].Player1().Steer(); got != core.ActionLeft {
		t.Errorf("first frame steer = %v, want Left", got)
	}
	if !game.frames[1].Player1().Empty() {
		t.Error("frame should be cleared after each tick")
	}
}

func TestGameModelRecordsRounds(t *testing.T) {
	recorder, store := newTestRecorder(t)
	game := &scriptedGame{round: winRound()}
	m := NewGameModel(game, recorder, core.DefaultConfig())
	m.Init()

	m, _ = updateGame(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = updateGame(t, m, TickMsg{Loop: m.loop})

	if m.LastRound() == nil {
		t.Fatal("expected last round to be kept")
	}

	matches, err := store.RecentMatches(10)
	if err != nil {
		t.Fatalf("RecentMatches failed: %v", err)
	}
	if len(matches) != 1 || matches[0].Winner != "player1" || matches[0].ScoreDelta != 900 {
		t.Errorf("unexpected matches: %+v", matches)
	}

	p, found, err := store.LoadProgress("test-progress")
	if err != nil || !found {
		t.Fatalf("LoadProgress = (%v, %v)", found, err)
	}
	if p.HighScore != 900 || p.HighestLevel != 2 || p.Player != "Flynn" {
		t.Errorf("unexpected progress: %+v", p)
	}

	// Leaving with points on the board keeps the run.
	m, cmd := updateGame(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() || cmd == nil {
		t.Error("expected esc to request the menu")
	}

	scores, err := store.TopScores("scripted", 10)
	if err != nil {
		t.Fatalf("TopScores failed: %v", err)
	}
	if len(scores) != 1 || scores[0].Score != 900 || scores[0].Player != "Flynn" {
		t.Errorf("unexpected scores: %+v", scores)
	}
}

func TestGameModelQuit(t *testing.T) {
	m := NewGameModel(&scriptedGame{}, nil, core.DefaultConfig())
	m.Init()

	m, cmd := updateGame(t, m, runeKey('q'))
	if !m.IsQuitting() || cmd == nil {
		t.Error("expected q to quit")
	}
	if m.View() != "" {
		t.Error("expected empty view after quit")
	}
}

func TestGameModelResize(t *testing.T) {
	game := &scriptedGame{}
	m := NewGameModel(game, nil, core.DefaultConfig())
	m.Init()

	m, _ = updateGame(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if game.width != 100 {
		t.Errorf("game width = %d, want 100", game.width)
	}
	if game.resets != 1 {
		t.Errorf("resize must not reset the game, resets = %d", game.resets)
	}
	if m.screen.Width() != 100 || m.screen.Height() != 30 {
		t.Errorf("screen = %dx%d, want 100x30", m.screen.Width(), m.screen.Height())
	}
}

func TestGameModelScreenshot(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	m := NewGameModel(&scriptedGame{}, nil, core.DefaultConfig())
	m.Init()

	m, cmd := updateGame(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil || m.IsQuitting() {
		t.Fatal("ctrl+s should not interrupt play")
	}

	files, err := filepath.Glob(filepath.Join(home, ".lightcycle", "screenshots", "scripted_*.txt"))
	if err != nil || len(files) != 1 {
		t.Fatalf("expected one screenshot, got %v (%v)", files, err)
	}
	data, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "scripted") {
		t.Errorf("screenshot = %q", data)
	}
}

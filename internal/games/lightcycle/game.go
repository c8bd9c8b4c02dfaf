package lightcycle

import (
	"math/rand"
	"sync"
	"time"

	"github.com/vovakirdan/lightcycle/internal/config"
	"github.com/vovakirdan/lightcycle/internal/core"
	"github.com/vovakirdan/lightcycle/internal/registry"
)

// Registry identifiers.
const (
	GameID       = "lightcycle"
	VersusGameID = "lightcycle_versus"
)

// Package-level configuration shared by registered factories, set once by
// the CLI after loading the config file.
var (
	cfgMu     sync.RWMutex
	activeCfg = config.DefaultLightcycleConfig()
)

// SetConfig replaces the configuration used by newly created games.
func SetConfig(cfg config.LightcycleConfig) {
	cfgMu.Lock()
	defer cfgMu.Unlock()
	activeCfg = cfg
}

// ActiveConfig returns the configuration used by newly created games.
func ActiveConfig() config.LightcycleConfig {
	cfgMu.RLock()
	defer cfgMu.RUnlock()
	return activeCfg
}

func init() {
	registry.Register(GameID, func() registry.Game {
		return New(ModeBot, ActiveConfig())
	})
	registry.Register(VersusGameID, func() registry.Game {
		return New(ModeVersus, ActiveConfig())
	})
}

// Game plugs the duel engine into the platform. It owns the current session
// and, in bot mode, the run progression across sessions.
type Game struct {
	mode Mode
	cfg  config.LightcycleConfig
	rng  *rand.Rand

	session  *Session
	progress Progression
	names    Names

	lastOutcome *Outcome
	lastChange  Change

	screenW  int
	screenH  int
	tooSmall bool
	online   bool
}

// New creates a game for the given mode. Call Reset before stepping it.
func New(mode Mode, cfg config.LightcycleConfig) *Game {
	if mode != ModeVersus {
		mode = ModeBot
	}
	return &Game{
		mode:     mode,
		cfg:      cfg,
		progress: NewProgression(core.Progress{}),
	}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeVersus {
		return VersusGameID
	}
	return GameID
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeVersus {
		return "Lightcycle (Versus)"
	}
	return "Lightcycle"
}

// LocalPlayers reports two keyboard pilots in versus mode.
func (g *Game) LocalPlayers() int {
	if g.mode == ModeVersus {
		return 2
	}
	return 1
}

// Mode returns the game mode.
func (g *Game) Mode() Mode {
	return g.mode
}

// Reset restores the progression from cfg and prepares the first session,
// waiting for launch.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.tooSmall = g.arenaTooSmall()
	g.online = cfg.Online
	g.lastOutcome = nil
	g.lastChange = Change{}

	saved := core.Progress{}
	if cfg.Progress != nil {
		saved = *cfg.Progress
	}
	g.progress = NewProgression(saved)

	// Explicit name, then the saved one, then the configured default.
	name := NormalizeName(g.cfg.Players.Name, DefaultPlayerName)
	name = NormalizeName(saved.Player, name)
	g.progress.Player = NormalizeName(cfg.Player, name)
	g.names = g.namesFor(g.progress.Player, cfg.Opponent)

	level := g.progress.Level
	if g.mode == ModeVersus {
		level = config.ClampVersusLevel(max(1, cfg.Level), g.cfg.Versus.MaxLevel)
	} else if cfg.Level > 0 {
		level = config.StartLevel(cfg.Level)
		g.progress.Level = level
	}
	g.session = NewSession(OptionsFromConfig(g.cfg, g.mode, level, g.rng))
}

func (g *Game) namesFor(player, opponent string) Names {
	if g.mode == ModeVersus {
		opponent = NormalizeName(opponent, g.cfg.Players.VersusName)
	} else {
		opponent = g.cfg.Players.BotName
	}
	return Names{
		Player1: player,
		Player2: opponent,
	}
}

// Resize updates the screen dimensions used for layout.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.tooSmall = g.arenaTooSmall()
}

// Step applies player input and advances the session by one tick.
func (g *Game) Step(in core.MultiInputFrame) core.StepResult {
	if g.session == nil {
		g.Reset(core.DefaultConfig())
	}

	switch g.session.Status() {
	case StatusInitialized:
		if in.Has(core.ActionConfirm) {
			g.session.Start()
		}
		return core.StepResult{State: g.State()}
	case StatusEnded:
		switch {
		case in.Has(core.ActionRestart):
			g.launch(g.RematchLevel())
		case in.Has(core.ActionConfirm):
			g.launch(g.NextLevel())
		}
		return core.StepResult{State: g.State()}
	}

	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	for _, id := range []core.PlayerID{core.Player1, core.Player2} {
		if dir, ok := DirectionFromAction(in.Player(id).Steer()); ok {
			g.session.SetDirection(id, dir)
		}
	}

	out := g.session.Tick()
	if out == nil {
		return core.StepResult{State: g.State()}
	}

	g.lastOutcome = out
	g.lastChange = g.progress.Apply(*out)
	round := g.roundResult(*out)
	return core.StepResult{State: g.State(), Round: &round}
}

// launch replaces the session with a new one already in play.
func (g *Game) launch(level int) {
	g.lastOutcome = nil
	g.lastChange = Change{}
	g.session = StartSession(OptionsFromConfig(g.cfg, g.mode, level, g.rng))
}

// RematchLevel is the level a rematch replays: level 1 after a bot-mode
// loss or draw, the same level otherwise.
func (g *Game) RematchLevel() int {
	if g.mode == ModeBot && g.lastOutcome != nil && !g.lastOutcome.HumanWon() {
		return 1
	}
	return g.session.Level()
}

// NextLevel is the level the next attempt starts at.
func (g *Game) NextLevel() int {
	if g.mode == ModeBot {
		return g.progress.Level
	}
	return g.session.Level()
}

func (g *Game) roundResult(o Outcome) core.RoundResult {
	return core.RoundResult{
		GameID:        g.ID(),
		Mode:          string(o.Mode),
		Level:         o.Level,
		Winner:        o.Winner,
		Turns:         o.Turns,
		Player:        g.names.Player1,
		Opponent:      g.names.Player2,
		ScoreDelta:    g.lastChange.Delta,
		RunScore:      g.progress.Score,
		RunEnded:      g.lastChange.RunEnded,
		EndedRunScore: g.lastChange.EndedScore,
		NextLevel:     g.NextLevel(),
		Progress:      g.progress.Payload(),
	}
}

// TickInterval returns the current session's tick period.
func (g *Game) TickInterval() time.Duration {
	if g.session == nil {
		return config.TickInterval(1, g.cfg.Timing)
	}
	return g.session.TickInterval()
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	st := core.GameState{Score: g.progress.Score}
	if g.session != nil {
		st.Level = g.session.Level()
		st.Status = string(g.session.Status())
		st.GameOver = g.session.Status() == StatusEnded
	}
	return st
}

// Session exposes the running session.
func (g *Game) Session() *Session {
	return g.session
}

// Progression returns a copy of the run progression.
func (g *Game) Progression() Progression {
	return g.progress
}

// Names returns the pilot names.
func (g *Game) Names() Names {
	return g.names
}

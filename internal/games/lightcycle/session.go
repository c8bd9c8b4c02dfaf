package lightcycle

import (
	"math/rand"
	"sync"
	"time"

	"github.com/vovakirdan/lightcycle/internal/config"
	"github.com/vovakirdan/lightcycle/internal/core"
)

// spawnInset is player 1's spawn column; player 2 spawns at width-spawnInset-1.
const spawnInset = 5

// Options configures a new session.
type Options struct {
	Width  int
	Height int
	Mode   Mode
	// Level is normalized: at least 1, and clamped to MaxVersusLevel in
	// versus mode.
	Level          int
	MaxVersusLevel int
	Timing         config.TimingConfig
	// Rand drives the bot. A nil source is seeded from the clock.
	Rand *rand.Rand
}

// OptionsFromConfig builds session options from the loaded configuration.
func OptionsFromConfig(cfg config.LightcycleConfig, mode Mode, level int, rng *rand.Rand) Options {
	return Options{
		Width:          cfg.Grid.Width,
		Height:         cfg.Grid.Height,
		Mode:           mode,
		Level:          level,
		MaxVersusLevel: cfg.Versus.MaxLevel,
		Timing:         cfg.Timing,
		Rand:           rng,
	}
}

// Session is one duel on the grid. All methods are safe for concurrent use;
// input may arrive from a different goroutine than the tick driver.
type Session struct {
	mu sync.Mutex

	width    int
	height   int
	maxTurns int
	mode     Mode
	profile  config.Profile
	rng      *rand.Rand

	agents   [2]Agent
	inputs   [2]Direction
	occupied map[core.Point]struct{}
	turns    int
	status   Status
	outcome  *Outcome
}

// NewSession creates a session in the initialized state with both agents on
// their spawn cells.
func NewSession(opts Options) *Session {
	if opts.Mode != ModeVersus {
		opts.Mode = ModeBot
	}
	level := max(1, opts.Level)
	if opts.Mode == ModeVersus {
		limit := opts.MaxVersusLevel
		if limit <= 0 {
			limit = config.DefaultLightcycleConfig().Versus.MaxLevel
		}
		level = config.ClampVersusLevel(level, limit)
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &Session{
		width:    opts.Width,
		height:   opts.Height,
		maxTurns: opts.Width * opts.Height,
		mode:     opts.Mode,
		profile:  config.ProfileFor(level, opts.Timing),
		rng:      rng,
		status:   StatusInitialized,
	}

	mid := opts.Height / 2
	p2Control := ControlHuman
	if opts.Mode == ModeBot {
		p2Control = ControlBot
	}
	s.agents[0] = Agent{
		ID:        core.Player1,
		Position:  core.Point{X: spawnInset, Y: mid},
		Direction: DirRight,
		Alive:     true,
		Control:   ControlHuman,
	}
	s.agents[1] = Agent{
		ID:        core.Player2,
		Position:  core.Point{X: opts.Width - spawnInset - 1, Y: mid},
		Direction: DirLeft,
		Alive:     true,
		Control:   p2Control,
	}
	s.inputs = [2]Direction{DirRight, DirLeft}

	s.occupied = make(map[core.Point]struct{}, s.maxTurns)
	s.occupied[s.agents[0].Position] = struct{}{}
	s.occupied[s.agents[1].Position] = struct{}{}

	return s
}

// StartSession creates a session and puts it straight into play.
func StartSession(opts Options) *Session {
	s := NewSession(opts)
	s.Start()
	return s
}

// Start moves an initialized session into play. It has no effect otherwise.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusInitialized {
		s.status = StatusPlaying
	}
}

// SetDirection buffers the latest steering input for a human-controlled
// agent. Input for bot agents, unknown slots, or a session that is not
// playing is dropped. Reversals are rejected at tick time.
func (s *Session) SetDirection(player core.PlayerID, d Direction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := agentIndex(player)
	if !ok || s.status != StatusPlaying {
		return
	}
	if s.agents[idx].Control != ControlHuman {
		return
	}
	s.inputs[idx] = d
}

type move struct {
	dir     Direction
	next    core.Point
	collide bool
}

// Tick advances the session by one step. It returns the outcome on the tick
// that ends the session and nil otherwise. Ticks outside of play are no-ops.
func (s *Session) Tick() *Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusPlaying {
		return nil
	}

	// Both moves are planned against the pre-tick state.
	var moves [2]move
	for i := range s.agents {
		a := &s.agents[i]
		if !a.Alive {
			continue
		}
		dir := s.intendedDirection(i)
		next := a.Position.Add(dir.Vector())
		moves[i] = move{
			dir:     dir,
			next:    next,
			collide: !s.inBounds(next) || s.isOccupied(next),
		}
	}

	headOn := s.agents[0].Alive && s.agents[1].Alive && moves[0].next == moves[1].next

	for i := range s.agents {
		a := &s.agents[i]
		if !a.Alive {
			continue
		}
		m := moves[i]
		if m.collide || headOn {
			a.Alive = false
			continue
		}
		a.Trail = append(a.Trail, a.Position)
		a.Position = m.next
		a.Direction = m.dir
		s.occupied[m.next] = struct{}{}
	}

	s.turns++

	alive := s.aliveCount()
	if alive > 1 && s.turns < s.maxTurns {
		return nil
	}

	s.status = StatusEnded
	s.outcome = s.buildOutcome(alive)
	out := *s.outcome
	return &out
}

// intendedDirection resolves the direction agent i will try this tick.
func (s *Session) intendedDirection(i int) Direction {
	a := s.agents[i]
	if a.Control == ControlBot {
		return chooseDirection(botView{
			width:    s.width,
			height:   s.height,
			occupied: s.occupied,
			self:     a,
			opponent: s.agents[1-i].Position,
			profile:  s.profile,
		}, s.rng)
	}
	if want := s.inputs[i]; !isOpposite(want, a.Direction) {
		return want
	}
	return a.Direction
}

func (s *Session) buildOutcome(alive int) *Outcome {
	o := &Outcome{
		Mode:      s.mode,
		Level:     s.profile.Level,
		Turns:     s.turns,
		MaxTurns:  s.maxTurns,
		Stalemate: alive > 1,
	}
	if alive == 1 {
		for _, a := range s.agents {
			if a.Alive {
				o.Winner = a.ID
				o.WinnerTrailLen = len(a.Trail)
			}
		}
	}
	return o
}

func (s *Session) aliveCount() int {
	n := 0
	for _, a := range s.agents {
		if a.Alive {
			n++
		}
	}
	return n
}

func (s *Session) inBounds(p core.Point) bool {
	return p.X >= 0 && p.X < s.width && p.Y >= 0 && p.Y < s.height
}

func (s *Session) isOccupied(p core.Point) bool {
	_, ok := s.occupied[p]
	return ok
}

// Status returns the lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Outcome returns the terminal outcome once the session has ended.
func (s *Session) Outcome() (Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outcome == nil {
		return Outcome{}, false
	}
	return *s.outcome, true
}

// Mode returns the session mode.
func (s *Session) Mode() Mode {
	return s.mode
}

// Level returns the normalized difficulty level.
func (s *Session) Level() int {
	return s.profile.Level
}

// Profile returns the difficulty profile the session runs with.
func (s *Session) Profile() config.Profile {
	return s.profile
}

// TickInterval returns the fixed tick period for this session.
func (s *Session) TickInterval() time.Duration {
	return s.profile.TickInterval
}

// MaxTurns returns the stalemate ceiling (width * height).
func (s *Session) MaxTurns() int {
	return s.maxTurns
}

// Size returns the grid dimensions.
func (s *Session) Size() (width, height int) {
	return s.width, s.height
}

func agentIndex(p core.PlayerID) (int, bool) {
	switch p {
	case core.Player1:
		return 0, true
	case core.Player2:
		return 1, true
	default:
		return 0, false
	}
}

package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/lightcycle/internal/core"
	"github.com/vovakirdan/lightcycle/internal/leaderboard"
	"github.com/vovakirdan/lightcycle/internal/multiplayer"
	"github.com/vovakirdan/lightcycle/internal/registry"
	"github.com/vovakirdan/lightcycle/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.lightcycle/host_key.
	HostKeyPath string

	// DBPath is the path to the database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// ProgressKey is the base progress key; each SSH user gets its own
	// key derived from it.
	ProgressKey string

	// MaxVersusLevel bounds the versus level picker.
	MaxVersusLevel int

	// OnlineGameID is the registered game online duels run. Empty disables
	// online versus.
	OnlineGameID string

	// OnlineFrameW and OnlineFrameH size the frames streamed to online pilots.
	OnlineFrameW int
	OnlineFrameH int
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:        ":23234",
		DBPath:         "~/.lightcycle/lightcycle.db",
		IdleTimeout:    30 * time.Minute,
		ProgressKey:    "tron-lightcycle-progress",
		MaxVersusLevel: 10,
		OnlineFrameW:   78,
		OnlineFrameH:   24,
	}
}

// SSHServer wraps a Wish SSH server for the game.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	queue  *leaderboard.Queue
	coord  *multiplayer.Coordinator
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
// A nil logger logs to stderr.
func NewSSHServer(cfg SSHServerConfig, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "lightcycle-ssh",
		})
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open database", "error", err)
		// Continue without storage
		store = nil
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		queue:  leaderboard.NewQueue(leaderboard.LogSyncer{Logger: logger}, logger),
		logger: logger,
	}

	if cfg.OnlineGameID != "" {
		srv.coord = srv.newCoordinator()
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".lightcycle", "host_key")
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			activeterm.Middleware(),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// newCoordinator wires online duels to the registry and the match history.
func (s *SSHServer) newCoordinator() *multiplayer.Coordinator {
	cfg := multiplayer.DefaultCoordinatorConfig()
	if s.config.OnlineFrameW > 0 && s.config.OnlineFrameH > 0 {
		cfg.FrameW = s.config.OnlineFrameW
		cfg.FrameH = s.config.OnlineFrameH
	}

	history := NewRecorder(s.store, "", nil, s.logger.With("component", "online"))
	factory := func() (multiplayer.OnlineGame, error) {
		game, err := registry.Create(s.config.OnlineGameID)
		if err != nil {
			return nil, err
		}
		return game, nil
	}
	onRound := func(id multiplayer.MatchID, round core.RoundResult) {
		round.Mode = "online"
		history.RecordMatch(round)
	}
	return multiplayer.NewCoordinator(cfg, factory, onRound, s.logger.With("component", "coordinator"))
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	user := sshSession.User()
	recorder := NewRecorder(
		s.store,
		ProgressKey(s.config.ProgressKey, user),
		s.queue,
		s.logger.With("user", user),
	)

	cfg := core.RuntimeConfig{
		ScreenW: pty.Window.Width,
		ScreenH: pty.Window.Height,
		Seed:    time.Now().UnixNano(),
	}

	model := NewSessionModel(recorder, cfg, user, s.config.MaxVersusLevel)
	if s.coord != nil {
		seat := newOnlineSeat(s.coord)
		model = model.withOnline(s.coord, seat)
		go func() {
			<-sshSession.Context().Done()
			seat.close()
		}()
	}

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	if s.coord != nil {
		s.coord.Start()
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown ends online matches, gracefully stops the server, then flushes
// pending leaderboard syncs and closes the store.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.coord != nil {
		s.coord.Stop()
	}
	err := s.server.Shutdown(ctx)
	s.queue.Wait()
	if s.store != nil {
		s.store.Close()
	}
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// sessionScreen is the screen a session is showing.
type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenGame
	screenScoreboard
	screenOnline
)

// SessionModel manages the full session flow: menu -> game or scoreboard -> menu.
// This is the top-level model used for SSH sessions.
type SessionModel struct {
	recorder       *Recorder
	config         core.RuntimeConfig
	username       string
	maxVersusLevel int
	screen         sessionScreen
	menu           MenuModel
	gameModel      *GameModel
	scoreboard     *ScoreboardModel
	online         *OnlineModel
	coord          CoordinatorClient
	seat           *onlineSeat
	quitting       bool
}

// NewSessionModel creates a new session model. The SSH user name is the
// default pilot name until the player saves another one.
func NewSessionModel(recorder *Recorder, cfg core.RuntimeConfig, username string, maxVersusLevel int) SessionModel {
	m := SessionModel{
		recorder:       recorder,
		config:         cfg,
		username:       username,
		maxVersusLevel: maxVersusLevel,
	}
	m.menu = m.newMenu()
	return m
}

// withOnline enables the online versus entry.
func (m SessionModel) withOnline(coord CoordinatorClient, seat *onlineSeat) SessionModel {
	m.coord = coord
	m.seat = seat
	m.menu = m.newMenu()
	return m
}

// newMenu builds a menu from the latest saved progress.
func (m SessionModel) newMenu() MenuModel {
	progress := m.recorder.LoadProgress()
	cfg := m.config
	if cfg.Player == "" && progress == nil {
		cfg.Player = m.username
	}
	menu := NewMenuModel(cfg, progress, m.maxVersusLevel)
	if m.seat != nil {
		menu = menu.WithOnline()
	}
	return menu
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenScoreboard:
		return m.updateScoreboard(msg)
	case screenOnline:
		return m.updateOnline(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		m.config = m.menu.Config()
		sb := NewScoreboardModel(m.recorder.Store(), m.recorder.LoadProgress(), m.config.ScreenW, m.config.ScreenH)
		m.scoreboard = &sb
		m.screen = screenScoreboard
		return m, sb.Init()

	case m.menu.Selected() == nil:
		return m, cmd
	}

	// The menu quits its own program; inside a session we switch screens instead.
	m.config = m.menu.Config()
	result := m.menu.Result()
	if result.GameID == OnlineGameID && m.seat != nil {
		return m.toOnline()
	}
	game, err := registry.Create(result.GameID)
	if err != nil {
		// Shouldn't happen since menu only shows registered games
		m.menu = m.newMenu()
		return m, nil
	}

	cfg := m.config
	cfg.Seed = time.Now().UnixNano()
	cfg.Progress = m.recorder.LoadProgress()
	gameModel := NewGameModel(game, m.recorder, cfg)
	m.gameModel = &gameModel
	m.screen = screenGame

	return m, m.gameModel.Init()
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.gameModel = &gameModel
	}

	if m.gameModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.gameModel.BackToMenu() {
		m.gameModel = nil
		return m.toMenu()
	}

	return m, cmd
}

// updateScoreboard handles updates when the scoreboard is open.
func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scoreboard.Update(msg)
	if sb, ok := newModel.(ScoreboardModel); ok {
		m.scoreboard = &sb
	}

	if m.scoreboard.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.scoreboard.IsGoingBack() {
		m.scoreboard = nil
		return m.toMenu()
	}

	return m, cmd
}

// toOnline opens the online lobby on a fresh coordinator session.
func (m SessionModel) toOnline() (tea.Model, tea.Cmd) {
	name := m.config.Player
	if name == "" {
		name = m.username
	}
	online := NewOnlineModel(m.coord, m.seat.open(), name, m.config.Level, m.config.ScreenW, m.config.ScreenH)
	m.online = &online
	m.screen = screenOnline
	return m, online.Init()
}

// updateOnline handles updates when the online lobby is open.
func (m SessionModel) updateOnline(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.online.Update(msg)
	if online, ok := newModel.(OnlineModel); ok {
		m.online = &online
	}

	if m.online.IsQuitting() {
		m.seat.close()
		m.quitting = true
		return m, tea.Quit
	}

	if m.online.BackToMenu() {
		m.seat.close()
		m.online = nil
		return m.toMenu()
	}

	return m, cmd
}

// toMenu returns to a fresh menu, keeping the chosen pilot name.
func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.menu = m.newMenu()
	return m, m.menu.Init()
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		return m.gameModel.View()
	case screenScoreboard:
		return m.scoreboard.View()
	case screenOnline:
		return m.online.View()
	default:
		return m.menu.View()
	}
}

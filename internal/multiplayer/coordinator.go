package multiplayer

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/lightcycle/internal/core"
)

// CodeLength is the number of characters in a lobby code.
const CodeLength = 6

// Lobby is a hosted duel waiting for its opponent.
type Lobby struct {
	Code      string
	Level     int
	Host      SessionHandle
	HostName  string
	CreatedAt time.Time
}

// CoordinatorConfig holds configuration for the coordinator.
type CoordinatorConfig struct {
	LobbyTimeout  time.Duration // How long a lobby waits for a joiner
	CleanupPeriod time.Duration // How often expired lobbies are swept
	FrameW        int           // Size of the frames streamed to pilots
	FrameH        int
}

// DefaultCoordinatorConfig returns sensible defaults.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		LobbyTimeout:  5 * time.Minute,
		CleanupPeriod: 30 * time.Second,
		FrameW:        78,
		FrameH:        24,
	}
}

// GameFactory creates the game instance of a new match.
type GameFactory func() (OnlineGame, error)

// Coordinator pairs sessions through lobby codes and owns the running
// matches. Messages are handled one at a time on its own goroutine.
type Coordinator struct {
	config  CoordinatorConfig
	factory GameFactory
	onRound RoundHandler
	logger  *log.Logger

	mu           sync.Mutex
	sessions     map[SessionID]SessionHandle
	lobbies      map[string]*Lobby
	matches      map[MatchID]*Match
	sessionLobby map[SessionID]string
	sessionMatch map[SessionID]MatchID

	msgs     chan CoordinatorMessage
	done     chan struct{}
	stopOnce sync.Once
	running  sync.WaitGroup
}

// NewCoordinator creates a coordinator. onRound may be nil; a nil logger
// discards log output.
func NewCoordinator(cfg CoordinatorConfig, factory GameFactory, onRound RoundHandler, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.CleanupPeriod <= 0 {
		cfg.CleanupPeriod = DefaultCoordinatorConfig().CleanupPeriod
	}
	return &Coordinator{
		config:       cfg,
		factory:      factory,
		onRound:      onRound,
		logger:       logger,
		sessions:     make(map[SessionID]SessionHandle),
		lobbies:      make(map[string]*Lobby),
		matches:      make(map[MatchID]*Match),
		sessionLobby: make(map[SessionID]string),
		sessionMatch: make(map[SessionID]MatchID),
		msgs:         make(chan CoordinatorMessage, 256),
		done:         make(chan struct{}),
	}
}

// Start begins processing messages and sweeping expired lobbies.
func (c *Coordinator) Start() {
	go c.processMessages()
	go c.cleanupLoop()
}

// Stop ends every running match and waits for their loops to return.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)
		c.mu.Lock()
		for _, m := range c.matches {
			m.Stop()
		}
		c.mu.Unlock()
		c.running.Wait()
	})
}

// Connect makes a session reachable by the coordinator.
func (c *Coordinator) Connect(session SessionHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[session.ID()] = session
}

// Disconnect removes a session, closing its lobby or leaving its match.
func (c *Coordinator) Disconnect(id SessionID) {
	c.Send(SessionDisconnectedMsg{SessionID: id})
}

// Send queues a message for the coordinator goroutine.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	select {
	case c.msgs <- msg:
	case <-c.done:
	}
}

func (c *Coordinator) processMessages() {
	for {
		select {
		case msg := <-c.msgs:
			c.handleMessage(msg)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg CoordinatorMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch m := msg.(type) {
	case CreateLobbyMsg:
		c.createLobby(m)
	case JoinLobbyMsg:
		c.joinLobby(m)
	case CancelLobbyMsg:
		c.closeLobby(m.SessionID)
	case LeaveMatchMsg:
		c.leaveMatch(m.SessionID, EndReasonLeft)
	case InputMsg:
		c.input(m)
	case SessionDisconnectedMsg:
		c.closeLobby(m.SessionID)
		c.leaveMatch(m.SessionID, EndReasonDisconnect)
		delete(c.sessions, m.SessionID)
	}
}

func (c *Coordinator) createLobby(msg CreateLobbyMsg) {
	session, ok := c.sessions[msg.SessionID]
	if !ok {
		return
	}
	if c.busy(msg.SessionID) {
		session.Send(LobbyErrorEvent{Message: "Already in a lobby or match"})
		return
	}

	lobby := &Lobby{
		Code:      c.uniqueCode(),
		Level:     max(1, msg.Level),
		Host:      session,
		HostName:  msg.Name,
		CreatedAt: time.Now(),
	}
	c.lobbies[lobby.Code] = lobby
	c.sessionLobby[msg.SessionID] = lobby.Code

	c.logger.Info("lobby created", "code", lobby.Code, "host", msg.Name, "level", lobby.Level)
	session.Send(LobbyCreatedEvent{Code: lobby.Code, Level: lobby.Level})
}

func (c *Coordinator) joinLobby(msg JoinLobbyMsg) {
	session, ok := c.sessions[msg.SessionID]
	if !ok {
		return
	}
	if c.busy(msg.SessionID) {
		session.Send(LobbyErrorEvent{Message: "Already in a lobby or match"})
		return
	}

	code := NormalizeCode(msg.Code)
	lobby, exists := c.lobbies[code]
	switch {
	case !exists:
		session.Send(LobbyErrorEvent{Message: "Lobby not found"})
		return
	case lobby.Host.ID() == msg.SessionID:
		session.Send(LobbyErrorEvent{Message: "Cannot join your own lobby"})
		return
	}

	delete(c.lobbies, code)
	delete(c.sessionLobby, lobby.Host.ID())
	c.startMatch(lobby, session, msg.Name)
}

// startMatch must be called with c.mu held.
func (c *Coordinator) startMatch(lobby *Lobby, joiner SessionHandle, joinerName string) {
	select {
	case <-c.done:
		return
	default:
	}

	game, err := c.factory()
	if err != nil {
		c.logger.Error("could not create online game", "code", lobby.Code, "error", err)
		lobby.Host.Send(LobbyErrorEvent{Message: "Failed to create game"})
		joiner.Send(LobbyErrorEvent{Message: "Failed to create game"})
		return
	}

	game.Reset(core.RuntimeConfig{
		ScreenW:  c.config.FrameW,
		ScreenH:  c.config.FrameH,
		Seed:     time.Now().UnixNano(),
		Level:    lobby.Level,
		Player:   lobby.HostName,
		Opponent: joinerName,
		Online:   true,
	})

	id := MatchID(uuid.NewString())
	match := NewMatch(id, lobby.Code, game, lobby.Host, joiner, c.config.FrameW, c.config.FrameH)
	c.matches[id] = match
	c.sessionMatch[lobby.Host.ID()] = id
	c.sessionMatch[joiner.ID()] = id

	c.logger.Info("match started", "match", id, "code", lobby.Code,
		"host", lobby.HostName, "joiner", joinerName, "level", lobby.Level)

	lobby.Host.Send(MatchStartedEvent{
		MatchID: id, Code: lobby.Code, Side: core.Player1, Opponent: joinerName, Level: lobby.Level,
	})
	joiner.Send(MatchStartedEvent{
		MatchID: id, Code: lobby.Code, Side: core.Player2, Opponent: lobby.HostName, Level: lobby.Level,
	})

	c.running.Add(1)
	go func() {
		defer c.running.Done()
		end := match.Run(c.onRound)
		c.matchEnded(match, end)
	}()
}

func (c *Coordinator) matchEnded(match *Match, end MatchEnd) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.matches, match.ID())
	for _, p := range match.pilots {
		if c.sessionMatch[p.ID()] == match.ID() {
			delete(c.sessionMatch, p.ID())
		}
	}

	c.logger.Info("match ended", "match", end.MatchID, "reason", end.Reason, "ticks", end.Ticks)

	evt := MatchEndedEvent{MatchID: end.MatchID, Reason: end.Reason}
	if end.Leaver != "" {
		match.Opponent(end.Leaver).Send(evt)
		return
	}
	for _, p := range match.pilots {
		p.Send(evt)
	}
}

// closeLobby drops the lobby hosted by the session, if any.
func (c *Coordinator) closeLobby(id SessionID) {
	code, ok := c.sessionLobby[id]
	if !ok {
		return
	}
	delete(c.sessionLobby, id)
	delete(c.lobbies, code)
	c.logger.Debug("lobby closed", "code", code)
}

func (c *Coordinator) leaveMatch(id SessionID, reason EndReason) {
	matchID, ok := c.sessionMatch[id]
	if !ok {
		return
	}
	delete(c.sessionMatch, id)
	if match, exists := c.matches[matchID]; exists {
		match.Leave(id, reason)
	}
}

func (c *Coordinator) input(msg InputMsg) {
	matchID, ok := c.sessionMatch[msg.SessionID]
	if !ok {
		return
	}
	if match, exists := c.matches[matchID]; exists {
		match.Input(match.Side(msg.SessionID), msg.Action)
	}
}

func (c *Coordinator) busy(id SessionID) bool {
	_, inLobby := c.sessionLobby[id]
	_, inMatch := c.sessionMatch[id]
	return inLobby || inMatch
}

func (c *Coordinator) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.expireLobbies(time.Now())
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) expireLobbies(now time.Time) {
	if c.config.LobbyTimeout <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for code, lobby := range c.lobbies {
		if now.Sub(lobby.CreatedAt) > c.config.LobbyTimeout {
			lobby.Host.Send(LobbyErrorEvent{Message: "Lobby expired"})
			delete(c.sessionLobby, lobby.Host.ID())
			delete(c.lobbies, code)
		}
	}
}

// uniqueCode must be called with c.mu held.
func (c *Coordinator) uniqueCode() string {
	for {
		code := generateJoinCode()
		if _, exists := c.lobbies[code]; !exists {
			return code
		}
	}
}

// generateJoinCode creates a code from the base32 alphabet (A-Z, 2-7).
func generateJoinCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	return base32.StdEncoding.EncodeToString(b)[:CodeLength]
}

// NormalizeCode uppercases a typed code and strips spaces around it.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Lobbies returns the number of open lobbies.
func (c *Coordinator) Lobbies() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lobbies)
}

// Matches returns the number of running matches.
func (c *Coordinator) Matches() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.matches)
}

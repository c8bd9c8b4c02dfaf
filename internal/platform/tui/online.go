package tui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/vovakirdan/lightcycle/internal/core"
	"github.com/vovakirdan/lightcycle/internal/multiplayer"
)

// OnlineGameID is the menu entry that opens the online lobby.
const OnlineGameID = "online"

// OnlineState represents the current state of the online lobby.
type OnlineState int

const (
	OnlineStateChoose OnlineState = iota
	OnlineStateHosting
	OnlineStateEnterCode
	OnlineStateJoining
	OnlineStateInMatch
)

// CoordinatorClient is the part of the coordinator the lobby talks to.
type CoordinatorClient interface {
	Send(msg multiplayer.CoordinatorMessage)
}

// onlineEventMsg wraps a coordinator event for Bubble Tea. Events of an
// earlier session are ignored.
type onlineEventMsg struct {
	session multiplayer.SessionID
	event   multiplayer.SessionEvent
}

// onlineClosedMsg is sent once the session's event stream ends.
type onlineClosedMsg struct{}

// OnlineModel hosts or joins an online duel and then shows the frames the
// server streams. Keys are forwarded to the match as actions of this
// pilot's side.
type OnlineModel struct {
	state     OnlineState
	width     int
	height    int
	client    CoordinatorClient
	session   *multiplayer.ChannelSession
	keyMapper *KeyMapper
	name      string
	level     int

	code      string
	codeInput textinput.Model
	notice    string
	hosting   bool // lobby requested, not yet confirmed

	matchID  multiplayer.MatchID
	side     core.PlayerID
	opponent string
	frame    *core.Screen

	backToMenu bool
	quitting   bool
}

// NewOnlineModel creates the online lobby for one pilot. level is the
// versus level used when hosting.
func NewOnlineModel(client CoordinatorClient, session *multiplayer.ChannelSession, name string, level, width, height int) OnlineModel {
	input := textinput.New()
	input.Placeholder = "ABC234"
	input.CharLimit = multiplayer.CodeLength
	input.Width = multiplayer.CodeLength + 1
	input.Prompt = "> "

	return OnlineModel{
		width:     width,
		height:    height,
		client:    client,
		session:   session,
		keyMapper: NewKeyMapper(1),
		name:      name,
		level:     max(1, level),
		codeInput: input,
	}
}

// Init starts listening for coordinator events.
func (m OnlineModel) Init() tea.Cmd {
	return m.waitForEvent()
}

func (m OnlineModel) waitForEvent() tea.Cmd {
	session := m.session
	if session == nil {
		return nil
	}
	return func() tea.Msg {
		evt, ok := session.Next()
		if !ok {
			return onlineClosedMsg{}
		}
		return onlineEventMsg{session: session.ID(), event: evt}
	}
}

// Update handles messages.
func (m OnlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case onlineEventMsg:
		if msg.session != m.sessionID() {
			return m, nil
		}
		m = m.handleEvent(msg.event)
		return m, m.waitForEvent()

	case onlineClosedMsg:
		return m, nil
	}

	if m.state == OnlineStateEnterCode {
		var cmd tea.Cmd
		m.codeInput, cmd = m.codeInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m OnlineModel) handleEvent(evt multiplayer.SessionEvent) OnlineModel {
	switch e := evt.(type) {
	case multiplayer.LobbyCreatedEvent:
		m.hosting = false
		if m.state == OnlineStateChoose {
			m.code = e.Code
			m.level = e.Level
			m.state = OnlineStateHosting
			m.notice = ""
		} else {
			// The pilot moved on before the lobby was confirmed.
			m.send(multiplayer.CancelLobbyMsg{SessionID: m.sessionID()})
		}

	case multiplayer.LobbyErrorEvent:
		m.hosting = false
		m.notice = e.Message
		switch m.state {
		case OnlineStateHosting:
			m.state = OnlineStateChoose
		case OnlineStateJoining:
			m.state = OnlineStateEnterCode
		}

	case multiplayer.MatchStartedEvent:
		m.matchID = e.MatchID
		m.side = e.Side
		m.opponent = e.Opponent
		m.level = e.Level
		m.code = e.Code
		m.frame = nil
		m.notice = ""
		m.state = OnlineStateInMatch

	case multiplayer.FrameEvent:
		if m.state == OnlineStateInMatch && e.MatchID == m.matchID {
			m.frame = e.Screen
		}

	case multiplayer.MatchEndedEvent:
		if m.state == OnlineStateInMatch && e.MatchID == m.matchID {
			m = m.endMatch(e.Reason.Notice())
		}
	}
	return m
}

func (m OnlineModel) endMatch(notice string) OnlineModel {
	m.state = OnlineStateChoose
	m.matchID = ""
	m.frame = nil
	m.notice = notice
	return m
}

func (m OnlineModel) send(msg multiplayer.CoordinatorMessage) {
	if m.client != nil && m.session != nil {
		m.client.Send(msg)
	}
}

func (m OnlineModel) sessionID() multiplayer.SessionID {
	if m.session == nil {
		return ""
	}
	return m.session.ID()
}

func (m OnlineModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	switch m.state {
	case OnlineStateChoose:
		return m.handleChooseKey(msg)
	case OnlineStateHosting:
		switch msg.String() {
		case "esc", "b":
			m.send(multiplayer.CancelLobbyMsg{SessionID: m.sessionID()})
			m.state = OnlineStateChoose
			m.code = ""
		case "q":
			return m.quit()
		}
	case OnlineStateEnterCode:
		return m.handleCodeKey(msg)
	case OnlineStateInMatch:
		return m.handleMatchKey(msg)
	}
	return m, nil
}

func (m OnlineModel) handleChooseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "H", "1":
		if m.hosting {
			return m, nil
		}
		m.hosting = true
		m.notice = ""
		m.send(multiplayer.CreateLobbyMsg{SessionID: m.sessionID(), Name: m.name, Level: m.level})
	case "j", "J", "2":
		m.notice = ""
		m.state = OnlineStateEnterCode
		m.codeInput.SetValue("")
		return m, m.codeInput.Focus()
	case "esc", "b":
		m.backToMenu = true
	case "q":
		return m.quit()
	}
	return m, nil
}

func (m OnlineModel) handleCodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.codeInput.Blur()
		m.state = OnlineStateChoose
		return m, nil
	case "enter":
		code := multiplayer.NormalizeCode(m.codeInput.Value())
		if len(code) != multiplayer.CodeLength {
			m.notice = fmt.Sprintf("Codes have %d characters", multiplayer.CodeLength)
			return m, nil
		}
		m.code = code
		m.notice = ""
		m.codeInput.Blur()
		m.state = OnlineStateJoining
		m.send(multiplayer.JoinLobbyMsg{SessionID: m.sessionID(), Code: code, Name: m.name})
		return m, nil
	}

	var cmd tea.Cmd
	m.codeInput, cmd = m.codeInput.Update(msg)
	return m, cmd
}

func (m OnlineModel) handleMatchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	_, action, isQuit := m.keyMapper.MapKey(msg)
	switch {
	case isQuit:
		return m.quit()
	case action == core.ActionBack:
		m.send(multiplayer.LeaveMatchMsg{SessionID: m.sessionID()})
		return m.endMatch("You left the match"), nil
	case action != core.ActionNone:
		m.send(multiplayer.InputMsg{SessionID: m.sessionID(), Action: action})
	}
	return m, nil
}

// quit releases the lobby or match before quitting.
func (m OnlineModel) quit() (tea.Model, tea.Cmd) {
	switch m.state {
	case OnlineStateHosting:
		m.send(multiplayer.CancelLobbyMsg{SessionID: m.sessionID()})
	case OnlineStateInMatch:
		m.send(multiplayer.LeaveMatchMsg{SessionID: m.sessionID()})
	}
	m.quitting = true
	return m, tea.Quit
}

// View renders the current state.
func (m OnlineModel) View() string {
	if m.quitting {
		return ""
	}
	if m.state == OnlineStateInMatch {
		return m.viewMatch()
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	codeStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	noticeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	var lines []string
	switch m.state {
	case OnlineStateChoose:
		lines = []string{
			titleStyle.Render("ONLINE VERSUS"),
			"",
			fmt.Sprintf("[H] Host a duel at level %d", m.level),
			"[J] Join with a code",
			"",
			dimStyle.Render("Esc: Back  |  Q: Quit"),
		}
	case OnlineStateHosting:
		lines = []string{
			titleStyle.Render("HOSTING"),
			"",
			"Share this code with your opponent:",
			"",
			codeStyle.Render(fmt.Sprintf("[ %s ]", m.code)),
			"",
			"Waiting for a challenger...",
			"",
			dimStyle.Render("Esc: Cancel  |  Q: Quit"),
		}
	case OnlineStateEnterCode:
		lines = []string{
			titleStyle.Render("JOIN"),
			"",
			"Enter the lobby code:",
			"",
			m.codeInput.View(),
			"",
			dimStyle.Render("Enter: Connect  |  Esc: Back"),
		}
	case OnlineStateJoining:
		lines = []string{
			titleStyle.Render("CONNECTING"),
			"",
			fmt.Sprintf("Joining %s...", m.code),
		}
	}

	if m.notice != "" {
		lines = append(lines, "", noticeStyle.Render(m.notice))
	}

	var b strings.Builder
	b.WriteString("\n")
	for _, line := range lines {
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}
	return b.String()
}

func (m OnlineModel) viewMatch() string {
	if m.frame == nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			fmt.Sprintf("Starting duel against %s...", m.opponent))
	}
	if m.width < m.frame.Width() || m.height < m.frame.Height() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			fmt.Sprintf("Window too small\nNeed %dx%d", m.frame.Width(), m.frame.Height()))
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, RenderScreen(m.frame))
}

// State returns the current online state.
func (m OnlineModel) State() OnlineState {
	return m.state
}

// Side returns the side this pilot steers in the current match.
func (m OnlineModel) Side() core.PlayerID {
	return m.side
}

// Code returns the lobby code being hosted or joined.
func (m OnlineModel) Code() string {
	return m.code
}

// Notice returns the last lobby message shown to the pilot.
func (m OnlineModel) Notice() string {
	return m.notice
}

// BackToMenu returns true if the pilot wants the main menu.
func (m OnlineModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if the pilot wants to quit entirely.
func (m OnlineModel) IsQuitting() bool {
	return m.quitting
}

// onlineSeat tracks the coordinator session of one SSH connection. A new
// session is opened for every visit to the online lobby.
type onlineSeat struct {
	coord *multiplayer.Coordinator

	mu      sync.Mutex
	session *multiplayer.ChannelSession
}

func newOnlineSeat(coord *multiplayer.Coordinator) *onlineSeat {
	if coord == nil {
		return nil
	}
	return &onlineSeat{coord: coord}
}

// open replaces the current session with a fresh one.
func (s *onlineSeat) open() *multiplayer.ChannelSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
	s.session = multiplayer.NewChannelSession(multiplayer.SessionID(uuid.NewString()), 16)
	s.coord.Connect(s.session)
	return s.session
}

func (s *onlineSeat) close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *onlineSeat) closeLocked() {
	if s.session == nil {
		return
	}
	s.coord.Disconnect(s.session.ID())
	s.session.Close()
	s.session = nil
}

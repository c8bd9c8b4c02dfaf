package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/vovakirdan/lightcycle/internal/core"
	"github.com/vovakirdan/lightcycle/internal/registry"
)

// maxNameLength bounds the pilot name typed in the menu.
const maxNameLength = 24

// MenuItem represents a selectable game in the menu.
type MenuItem struct {
	GameID  string
	Title   string
	Players int
}

// MenuModel is the Bubble Tea model for the start menu: pick a game, the
// versus level, and the pilot name.
type MenuModel struct {
	items          []MenuItem
	cursor         int // len(items) is the pilot name row
	width          int
	height         int
	config         core.RuntimeConfig
	progress       *core.Progress
	keyMapper      *KeyMapper
	versusLevel    int
	maxVersusLevel int
	nameInput      textinput.Model
	editingName    bool
	quitting       bool
	selected       *MenuItem
	openScoreboard bool
}

// NewMenuModel creates a new menu model. progress is the saved progress,
// if any; maxVersusLevel bounds the versus level picker.
func NewMenuModel(cfg core.RuntimeConfig, progress *core.Progress, maxVersusLevel int) MenuModel {
	games := registry.List()
	items := make([]MenuItem, 0, len(games))
	for _, g := range games {
		items = append(items, MenuItem{
			GameID:  g.ID,
			Title:   g.Title,
			Players: g.Players,
		})
	}

	if cfg.Player == "" && progress != nil {
		cfg.Player = progress.Player
	}

	input := textinput.New()
	input.Placeholder = "Player One"
	input.CharLimit = maxNameLength
	input.Width = maxNameLength
	input.Prompt = "> "

	return MenuModel{
		items:          items,
		width:          cfg.ScreenW,
		height:         cfg.ScreenH,
		config:         cfg,
		progress:       progress,
		keyMapper:      NewKeyMapper(1),
		versusLevel:    max(1, cfg.Level),
		maxVersusLevel: max(1, maxVersusLevel),
		nameInput:      input,
	}
}

// WithOnline adds the online versus entry after the local games.
func (m MenuModel) WithOnline() MenuModel {
	items := make([]MenuItem, len(m.items), len(m.items)+1)
	copy(items, m.items)
	m.items = append(items, MenuItem{GameID: OnlineGameID, Title: "Online versus", Players: 2})
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editingName {
			return m.handleNameKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	if m.editingName {
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items) {
			m.cursor++
		}

	case MenuActionLeft:
		if m.onVersus() && m.versusLevel > 1 {
			m.versusLevel--
		}

	case MenuActionRight:
		if m.onVersus() && m.versusLevel < m.maxVersusLevel {
			m.versusLevel++
		}

	case MenuActionSelect:
		if m.cursor == len(m.items) {
			m.editingName = true
			m.nameInput.SetValue(m.config.Player)
			m.nameInput.CursorEnd()
			return m, m.nameInput.Focus()
		}
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			m.config.Level = 0
			if selected.Players > 1 {
				m.config.Level = m.versusLevel
			}
			return m, tea.Quit
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit
	}

	return m, nil
}

// handleNameKey routes keys to the name input while it is focused.
func (m MenuModel) handleNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "enter":
		m.config.Player = strings.TrimSpace(m.nameInput.Value())
		m.editingName = false
		m.nameInput.Blur()
		return m, nil
	case "esc":
		m.editingName = false
		m.nameInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

// onVersus reports whether the cursor is on a two-player game.
func (m MenuModel) onVersus() bool {
	return m.cursor < len(m.items) && m.items[m.cursor].Players > 1
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerStyled(titleStyle, "  L I G H T C Y C L E  ", m.width))
	b.WriteString("\n\n")

	b.WriteString(centerStyled(dimStyle, m.progressLine(), m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = activeStyle
		}

		line := cursor + item.Title
		if item.Players > 1 {
			line += fmt.Sprintf("  < Level %d >", m.versusLevel)
		} else {
			line += "  vs bot"
		}
		b.WriteString(centerStyled(style, line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.editingName {
		b.WriteString(centerText("Pilot name", m.width))
		b.WriteString("\n")
		b.WriteString(centerText(m.nameInput.View(), m.width))
		b.WriteString("\n\n")
		b.WriteString(centerStyled(dimStyle, "Enter: Save  |  Esc: Cancel", m.width))
		b.WriteString("\n")
		return b.String()
	}

	cursor := "  "
	style := lipgloss.NewStyle()
	if m.cursor == len(m.items) {
		cursor = "> "
		style = activeStyle
	}
	b.WriteString(centerStyled(style, cursor+"Pilot: "+m.pilotName(), m.width))
	b.WriteString("\n\n")

	controls := "Up/Down: Navigate  |  Left/Right: Level  |  Enter: Select  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerStyled(dimStyle, controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// pilotName returns the name shown on the pilot row.
func (m MenuModel) pilotName() string {
	if m.config.Player == "" {
		return m.nameInput.Placeholder
	}
	return m.config.Player
}

// progressLine summarizes the saved progress.
func (m MenuModel) progressLine() string {
	if m.progress == nil {
		return "No runs yet. Derez the bot to start climbing."
	}
	return fmt.Sprintf("High score %s  |  Highest level %d",
		humanize.Comma(int64(m.progress.HighScore)), m.progress.HighestLevel)
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the runtime config with the chosen level and pilot name.
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// centerStyled styles text and centers it by its visible width.
func centerStyled(style lipgloss.Style, text string, width int) string {
	return centerText(style.Render(runewidth.Truncate(text, max(width, 1), "…")), width)
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	GameID          string
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(cfg core.RuntimeConfig, progress *core.Progress, maxVersusLevel int) (MenuResult, error) {
	model := NewMenuModel(cfg, progress, maxVersusLevel)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	return m.Result(), nil
}

// Result converts the final menu state into a MenuResult.
func (m MenuModel) Result() MenuResult {
	result := MenuResult{
		Config: m.Config(),
	}

	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.IsQuitting():
		result.Quit = true
	case m.Selected() != nil:
		result.GameID = m.Selected().GameID
	default:
		result.Quit = true
	}
	return result
}

package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/lightcycle/internal/core"
)

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
//
// WASD always steers player 1. The arrow keys steer player 2 when two
// players share the keyboard, and player 1 otherwise.
type KeyMapper struct {
	players int
}

// NewKeyMapper creates a key mapper for the given number of local players.
func NewKeyMapper(players int) *KeyMapper {
	return &KeyMapper{players: players}
}

// arrowsPlayer returns the player the arrow keys steer.
func (km *KeyMapper) arrowsPlayer() core.PlayerID {
	if km.players > 1 {
		return core.Player2
	}
	return core.Player1
}

// MapKey translates a key message to a player action.
// Returns the player, the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (player core.PlayerID, action core.Action, isQuit bool) {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return core.Player1, core.ActionQuit, true
	}

	switch key {
	case "w":
		return core.Player1, core.ActionUp, false
	case "s":
		return core.Player1, core.ActionDown, false
	case "a":
		return core.Player1, core.ActionLeft, false
	case "d":
		return core.Player1, core.ActionRight, false
	case "up":
		return km.arrowsPlayer(), core.ActionUp, false
	case "down":
		return km.arrowsPlayer(), core.ActionDown, false
	case "left":
		return km.arrowsPlayer(), core.ActionLeft, false
	case "right":
		return km.arrowsPlayer(), core.ActionRight, false
	case "enter", " ":
		return core.Player1, core.ActionConfirm, false
	case "r":
		return core.Player1, core.ActionRestart, false
	case "b", "esc":
		return core.Player1, core.ActionBack, false
	}

	return core.PlayerNone, core.ActionNone, false
}

// MapKeyToMultiFrame updates a multi-input frame based on a key message.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToMultiFrame(msg tea.KeyMsg, frame *core.MultiInputFrame) bool {
	player, action, isQuit := km.MapKey(msg)
	if action != core.ActionNone && !isQuit {
		frame.Add(player, action)
	}
	return isQuit
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionSelect
	MenuActionBack
	MenuActionScoreboard
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "a", "left", "h":
		return MenuActionLeft
	case "d", "right", "l":
		return MenuActionRight
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}

	return MenuActionNone
}

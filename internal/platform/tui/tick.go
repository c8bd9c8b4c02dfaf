// Package tui provides the Bubble Tea integration for the lightcycle platform.
// It handles the terminal UI loop, input mapping, and persistence of finished rounds.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick.
// Loop identifies the tick chain that scheduled it.
type TickMsg struct {
	Loop int64
	Time time.Time
}

var loopSeq atomic.Int64

// nextLoop returns a fresh tick chain identifier.
func nextLoop() int64 {
	return loopSeq.Add(1)
}

// tickCmd returns a Bubble Tea command that sends one tick message after interval.
func tickCmd(loop int64, interval time.Duration) tea.Cmd {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Loop: loop, Time: t}
	})
}

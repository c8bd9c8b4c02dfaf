package lightcycle

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/lightcycle/internal/core"
)

// Names are the display names of both pilots.
type Names struct {
	Player1 string
	Player2 string
}

// Headline returns the status headline for a session, before launch when
// outcome is nil.
func Headline(mode Mode, outcome *Outcome, n Names) string {
	bot := mode == ModeBot
	switch {
	case outcome == nil:
		if bot {
			return fmt.Sprintf("%s vs %s — Awaiting Launch", n.Player1, n.Player2)
		}
		return "Awaiting Launch Sequence"
	case outcome.Draw():
		if bot {
			return "Gridlock — No Derezzing This Cycle"
		}
		return "Stalemate on the Grid"
	case outcome.Winner == core.Player1:
		if bot {
			return fmt.Sprintf("%s Derezzes %s", n.Player1, n.Player2)
		}
		return n.Player1 + " Dominates"
	default:
		if bot {
			return fmt.Sprintf("%s Outspeeds %s", n.Player2, n.Player1)
		}
		return n.Player2 + " Dominates"
	}
}

// ResultTitle returns the short title shown over the arena after a round.
func ResultTitle(o Outcome, n Names) string {
	bot := o.Mode == ModeBot
	switch {
	case o.Draw():
		return "Grid Draw"
	case o.Winner == core.Player1 && bot:
		return n.Player1 + " Levels Up"
	case o.Winner == core.Player1:
		return n.Player1 + " Victory"
	case bot:
		return n.Player2 + " Prevails"
	default:
		return n.Player2 + " Victory"
	}
}

// ResultCopy returns the line under the result title. delta and highScore
// only matter for a bot-mode win.
func ResultCopy(o Outcome, n Names, delta, highScore int) string {
	switch {
	case o.Draw():
		return "No victor this cycle. Run it back?"
	case o.Mode != ModeBot:
		return "Swap pilots or launch another round."
	case o.Winner == core.Player1:
		prefix := ""
		if delta > 0 {
			prefix = fmt.Sprintf("Score +%s. ", FormatScore(delta))
		}
		return fmt.Sprintf("%s%s edges ahead. High score %s. %s's adapting.",
			prefix, n.Player1, FormatScore(highScore), n.Player2)
	default:
		return fmt.Sprintf("%s grabbed the lead. Reset your lines and reclaim the grid.", n.Player2)
	}
}

// StatusCopy returns the hint shown while a bot-mode or versus session is
// waiting or running.
func StatusCopy(mode Mode, level int, n Names) string {
	if mode == ModeBot {
		return fmt.Sprintf("Level %d: WASD to steer. Derezz %s before he boxes you in.", level, n.Player2)
	}
	return fmt.Sprintf("Level %d: %s on WASD, %s on arrow keys.", level, n.Player1, n.Player2)
}

// FormatScore renders a score with thousands separators.
func FormatScore(n int) string {
	return humanize.Comma(int64(n))
}

package lightcycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/lightcycle/internal/core"
)

func TestHeadline(t *testing.T) {
	names := Names{Player1: "Sam", Player2: "Tim"}
	win := &Outcome{Mode: ModeBot, Winner: core.Player1}
	loss := &Outcome{Mode: ModeBot, Winner: core.Player2}
	draw := &Outcome{Mode: ModeBot}

	tests := []struct {
		mode    Mode
		outcome *Outcome
		want    string
	}{
		{ModeBot, nil, "Sam vs Tim — Awaiting Launch"},
		{ModeVersus, nil, "Awaiting Launch Sequence"},
		{ModeBot, draw, "Gridlock — No Derezzing This Cycle"},
		{ModeVersus, draw, "Stalemate on the Grid"},
		{ModeBot, win, "Sam Derezzes Tim"},
		{ModeVersus, win, "Sam Dominates"},
		{ModeBot, loss, "Tim Outspeeds Sam"},
		{ModeVersus, loss, "Tim Dominates"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Headline(tt.mode, tt.outcome, names))
	}
}

func TestResultText(t *testing.T) {
	names := Names{Player1: "Sam", Player2: "Tim"}

	win := Outcome{Mode: ModeBot, Winner: core.Player1}
	assert.Equal(t, "Sam Levels Up", ResultTitle(win, names))
	assert.Equal(t, "Score +4,152. Sam edges ahead. High score 12,000. Tim's adapting.",
		ResultCopy(win, names, 4152, 12000))

	loss := Outcome{Mode: ModeBot, Winner: core.Player2}
	assert.Equal(t, "Tim Prevails", ResultTitle(loss, names))
	assert.Equal(t, "Tim grabbed the lead. Reset your lines and reclaim the grid.", ResultCopy(loss, names, 0, 0))

	draw := Outcome{Mode: ModeBot}
	assert.Equal(t, "Grid Draw", ResultTitle(draw, names))
	assert.Equal(t, "No victor this cycle. Run it back?", ResultCopy(draw, names, 0, 0))

	versus := Outcome{Mode: ModeVersus, Winner: core.Player2}
	assert.Equal(t, "Tim Victory", ResultTitle(versus, names))
	assert.Equal(t, "Swap pilots or launch another round.", ResultCopy(versus, names, 0, 0))
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "0", FormatScore(0))
	assert.Equal(t, "999", FormatScore(999))
	assert.Equal(t, "1,000", FormatScore(1000))
	assert.Equal(t, "1,234,567", FormatScore(1234567))
}

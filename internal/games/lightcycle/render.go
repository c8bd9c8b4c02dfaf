package lightcycle

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/lightcycle/internal/config"
	"github.com/vovakirdan/lightcycle/internal/core"
)

// Each grid cell is drawn two characters wide so the arena looks square.
const cellWidth = 2

type agentStyle struct {
	trail, head core.Color
}

var agentStyles = [2]agentStyle{
	{trail: core.ColorCyan, head: core.ColorBrightCyan},
	{trail: core.ColorRed, head: core.ColorBrightRed},
}

// FrameSize returns the framed arena size in screen characters for cfg.
func FrameSize(cfg config.LightcycleConfig) (w, h int) {
	return cfg.Grid.Width*cellWidth + 2, cfg.Grid.Height + 2
}

func (g *Game) arenaSize() (w, h int) {
	return FrameSize(g.cfg)
}

// arenaTooSmall reports whether a known screen size cannot fit the arena.
func (g *Game) arenaTooSmall() bool {
	if g.screenW <= 0 || g.screenH <= 0 {
		return false
	}
	w, h := g.arenaSize()
	return g.screenW < w || g.screenH < h
}

// Render draws the arena, both cycles, and the status overlays.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.session == nil {
		return
	}

	aw, ah := g.arenaSize()
	if dst.Width() < aw || dst.Height() < ah {
		renderOverlay(dst, core.NewRect(0, 0, dst.Width(), dst.Height()), []overlayLine{
			{"Window too small", core.ColorYellow},
			{fmt.Sprintf("Need %dx%d", aw, ah), core.ColorWhite},
		})
		return
	}

	arena := core.NewRect((dst.Width()-aw)/2, (dst.Height()-ah)/2, aw, ah)
	snap := g.session.Snapshot()

	dst.DrawBox(arena, core.ColorGray)
	g.renderHUD(dst, arena, snap)
	renderGrid(dst, arena, snap)
	for i, a := range snap.Agents {
		renderAgent(dst, arena, a, agentStyles[i])
	}

	switch snap.Status {
	case StatusInitialized:
		renderOverlay(dst, arena, []overlayLine{
			{Headline(g.mode, nil, g.names), core.ColorYellow},
			{StatusCopy(g.mode, snap.Level, g.names), core.ColorWhite},
			{"Press Enter to launch", core.ColorBrightCyan},
		})
	case StatusEnded:
		if g.lastOutcome != nil {
			renderOverlay(dst, arena, g.resultLines(*g.lastOutcome))
		}
	}
}

// renderHUD writes the status line into the top border and the key hints
// into the bottom border.
func (g *Game) renderHUD(dst *core.Screen, arena core.Rect, snap Snapshot) {
	parts := []string{"LIGHTCYCLE", fmt.Sprintf("Level %d", snap.Level)}
	if g.mode == ModeBot {
		high := max(g.progress.HighScore, g.progress.Score)
		parts = append(parts,
			"Score "+FormatScore(g.progress.Score),
			"High "+FormatScore(high),
		)
	} else {
		parts = append(parts, "Versus")
	}
	parts = append(parts, fmt.Sprintf("Turn %d/%d", snap.Turns, snap.MaxTurns))
	drawClipped(dst, arena.X+2, arena.Y, " "+strings.Join(parts, " ─ ")+" ", arena.W-4, core.ColorYellow)

	var hint string
	switch {
	case g.online:
		hint = "WASD/arrows steer ─ Enter launch ─ R rematch ─ Esc leave"
	case g.mode == ModeBot:
		hint = fmt.Sprintf("%s: WASD/arrows ─ Enter launch ─ R rematch ─ B menu", g.names.Player1)
	default:
		hint = fmt.Sprintf("%s: WASD ─ %s: arrows ─ Enter launch ─ R rematch ─ B menu", g.names.Player1, g.names.Player2)
	}
	drawClipped(dst, arena.X+2, arena.Bottom()-1, " "+hint+" ", arena.W-4, core.ColorGray)
}

func renderGrid(dst *core.Screen, arena core.Rect, snap Snapshot) {
	for y := range snap.Height {
		for x := range snap.Width {
			sx, sy := cellOrigin(arena, core.Point{X: x, Y: y})
			dst.SetColored(sx, sy, '·', core.ColorDarkGray)
		}
	}
}

func renderAgent(dst *core.Screen, arena core.Rect, a Agent, style agentStyle) {
	for _, p := range a.Trail {
		fillCell(dst, arena, p, '▒', style.trail)
	}
	if a.Alive {
		fillCell(dst, arena, a.Position, '█', style.head)
	} else {
		fillCell(dst, arena, a.Position, '✕', style.head)
	}
}

// cellOrigin maps a grid cell to its leftmost screen character.
func cellOrigin(arena core.Rect, p core.Point) (int, int) {
	return arena.X + 1 + p.X*cellWidth, arena.Y + 1 + p.Y
}

func fillCell(dst *core.Screen, arena core.Rect, p core.Point, r rune, c core.Color) {
	sx, sy := cellOrigin(arena, p)
	for i := range cellWidth {
		dst.SetColored(sx+i, sy, r, c)
	}
}

func (g *Game) resultLines(o Outcome) []overlayLine {
	high := max(g.progress.HighScore, g.progress.Score)
	lines := []overlayLine{
		{Headline(o.Mode, &o, g.names), core.ColorYellow},
		{ResultTitle(o, g.names), core.ColorWhite},
		{ResultCopy(o, g.names, g.lastChange.Delta, high), core.ColorWhite},
	}

	var actions []string
	switch {
	case o.HumanWon():
		actions = []string{
			fmt.Sprintf("R: replay level %d", g.RematchLevel()),
			fmt.Sprintf("Enter: level %d", g.NextLevel()),
		}
	case o.Mode == ModeBot:
		actions = []string{"R: restart level 1"}
	default:
		actions = []string{fmt.Sprintf("R: rematch level %d", g.RematchLevel())}
	}
	actions = append(actions, "B: menu")
	lines = append(lines, overlayLine{strings.Join(actions, "   "), core.ColorBrightCyan})
	return lines
}

type overlayLine struct {
	text  string
	color core.Color
}

// renderOverlay draws a framed message box centered in area.
func renderOverlay(dst *core.Screen, area core.Rect, lines []overlayLine) {
	maxLen := 0
	for _, l := range lines {
		maxLen = max(maxLen, len([]rune(l.text)))
	}
	boxW := min(maxLen+4, area.W)
	boxH := len(lines)*2 + 1
	box := core.NewRect(area.X+(area.W-boxW)/2, area.Y+(area.H-boxH)/2, boxW, boxH)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box, core.ColorWhite)
	for i, l := range lines {
		n := len([]rune(l.text))
		x := box.X + max(2, (boxW-n)/2)
		drawClipped(dst, x, box.Y+1+i*2, l.text, boxW-4, l.color)
	}
}

// drawClipped draws at most limit runes of text.
func drawClipped(dst *core.Screen, x, y int, text string, limit int, c core.Color) {
	if limit <= 0 {
		return
	}
	runes := []rune(text)
	if len(runes) > limit {
		runes = runes[:limit]
	}
	dst.DrawTextColored(x, y, string(runes), c)
}

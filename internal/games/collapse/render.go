package collapse

import (
	"fmt"
	"strings"

	platformcore "github.com/vovakirdan/tui-collapse/internal/core"
	"github.com/vovakirdan/tui-collapse/internal/games/collapse/core"
)

// Fill glyph per severity tier, darkest first.
var tierGlyphs = [core.TierCount]rune{'░', '▒', '▓', '█'}

// Render draws the game state to the screen.
func (g *Game) Render(dst *platformcore.Screen) {
	dst.Clear()

	g.renderHUD(dst)

	switch {
	case g.err != nil:
		g.renderOverlay(dst, "Cannot start game", g.err.Error())
		return
	case g.tooSmall:
		g.renderOverlay(dst, "Window too small", "Resize to continue")
		return
	case g.engine == nil:
		return
	}

	g.renderBoard(dst)
	g.renderFooter(dst)

	switch {
	case g.gameOver:
		g.renderOverlay(dst, "Game Over", fmt.Sprintf("Score %d  -  Press R to restart", g.score))
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *platformcore.Screen) {
	var sb strings.Builder
	fmt.Fprintf(&sb, " %s | Score: %d", g.variant.Title, g.score)
	if g.moves >= 0 {
		fmt.Fprintf(&sb, " | Moves: %d", g.moves)
	}
	if g.stats.Largest > 0 {
		fmt.Fprintf(&sb, " | Best block: %d", g.stats.Largest)
	}
	dst.DrawTextColor(0, 0, sb.String(), platformcore.ColorCyan)

	dst.DrawTextColor(0, 1, " ←↑↓→/hjkl: Move | Space: Tap | Click: Tap | P: Pause | Q: Quit", platformcore.ColorGray)

	for x := range dst.Width() {
		dst.SetWithColor(x, 2, '─', platformcore.ColorGray)
	}
}

// renderBoard draws every tile at its resting position and the cursor.
func (g *Game) renderBoard(dst *platformcore.Screen) {
	board := g.engine.Board()
	for col := range board.Columns() {
		for _, it := range board.Column(col) {
			g.renderTile(dst, it, it.Address() == g.cursor)
		}
	}

	// The cursor may sit over an empty cell of a short column
	if _, ok := board.At(g.cursor); !ok {
		r := g.view.tileRect(g.view.layout.CellPosition(g.cursor))
		x, y := r.Center()
		dst.SetWithColor(x, y, '+', platformcore.ColorBrightWhite)
	}
}

// renderTile fills a tile's cells with its tier glyph.
func (g *Game) renderTile(dst *platformcore.Screen, it *core.Item, selected bool) {
	r := g.view.tileRect(it.Position())
	glyph := tierGlyphs[it.Tier()]
	color := TileColor(it.Color(), it.Tier())

	// Leave a one-column gutter between wide tiles
	w := r.W
	if w >= 4 {
		w--
	}

	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.X+w; x++ {
			dst.SetWithColor(x, y, glyph, color)
		}
	}

	if selected {
		cy := r.Y + r.H/2
		if w >= 2 {
			dst.SetWithColor(r.X, cy, '[', platformcore.ColorBrightWhite)
			dst.SetWithColor(r.X+w-1, cy, ']', platformcore.ColorBrightWhite)
		} else {
			dst.SetWithColor(r.X, cy, '●', platformcore.ColorBrightWhite)
		}
	}
}

// renderFooter shows the latest engine notice on the bottom row.
func (g *Game) renderFooter(dst *platformcore.Screen) {
	if g.notice == "" {
		return
	}
	dst.DrawTextColor(1, dst.Height()-1, g.notice, platformcore.ColorYellow)
}

// renderOverlay draws a centered message box.
func (g *Game) renderOverlay(dst *platformcore.Screen, line1, line2 string) {
	w := max(len([]rune(line1)), len([]rune(line2))) + 4
	h := 5
	box := platformcore.NewRect((dst.Width()-w)/2, (dst.Height()-h)/2, w, h)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box, platformcore.ColorWhite)
	dst.DrawTextCentered(box.Y+1, line1)
	dst.DrawTextCentered(box.Y+3, line2)
}

// TileColor maps a tile colour to a screen colour. The top tier is
// highlighted with the bright variant.
func TileColor(c core.Color, t core.Tier) platformcore.Color {
	var out platformcore.Color
	switch c {
	case core.ColorRed:
		out = platformcore.ColorRed
	case core.ColorGreen:
		out = platformcore.ColorGreen
	case core.ColorBlue:
		out = platformcore.ColorBlue
	case core.ColorYellow:
		out = platformcore.ColorYellow
	case core.ColorPurple:
		out = platformcore.ColorMagenta
	case core.ColorPink:
		out = platformcore.ColorPink
	default:
		out = platformcore.ColorWhite
	}
	if t == core.Tier3 {
		out = out.Bright()
	}
	return out
}

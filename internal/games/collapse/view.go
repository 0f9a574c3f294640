package collapse

import (
	"math"

	platformcore "github.com/vovakirdan/tui-collapse/internal/core"
	"github.com/vovakirdan/tui-collapse/internal/games/collapse/core"
)

// Screen rows reserved above and below the board.
const (
	hudHeight    = 3
	footerHeight = 1
)

// aspect is the number of terminal columns per world unit. A terminal cell is
// roughly twice as tall as it is wide, so one world unit spans two columns
// and one row.
const aspect = 2.0

// eps absorbs float error when tile edges land on whole cells.
const eps = 1e-9

// boardView maps the engine's world coordinates onto terminal cells.
// World Y grows upward, screen rows grow downward.
type boardView struct {
	area   platformcore.Rect
	layout *core.Layout
}

func newBoardView(p core.Params, screenW, screenH int) (*boardView, error) {
	area := platformcore.NewRect(0, hudHeight, screenW, screenH-hudHeight-footerHeight)
	vp := core.Viewport{
		BottomLeft: core.V(0, 0),
		TopRight:   core.V(float64(area.W)/aspect, float64(area.H)),
	}
	layout, err := core.NewLayout(p, vp, core.DefaultMargins())
	if err != nil {
		return nil, err
	}
	return &boardView{area: area, layout: layout}, nil
}

// tooSmall reports whether a tile would be narrower than one terminal cell.
func (v *boardView) tooSmall() bool {
	return v.layout.ItemSize() < 1
}

// tileRect returns the screen cells covered by a tile resting at pos.
// Adjacent tiles share edges, so their rectangles never overlap.
func (v *boardView) tileRect(pos core.Vec2) platformcore.Rect {
	half := v.layout.ItemSize() / 2
	x0 := v.screenX(pos.X - half)
	x1 := v.screenX(pos.X + half)
	y0 := v.screenY(pos.Y + half)
	y1 := v.screenY(pos.Y - half)
	return platformcore.NewRect(x0, y0, x1-x0, y1-y0)
}

func (v *boardView) screenX(wx float64) int {
	return v.area.X + int(math.Floor(wx*aspect+eps))
}

func (v *boardView) screenY(wy float64) int {
	return v.area.Y + int(math.Floor(float64(v.area.H)-wy+eps))
}

// world returns the world position at the centre of screen cell (x, y).
func (v *boardView) world(x, y int) core.Vec2 {
	return core.V(
		(float64(x-v.area.X)+0.5)/aspect,
		float64(v.area.H)-(float64(y-v.area.Y)+0.5),
	)
}

// cellAt returns the board cell under screen cell (x, y).
func (v *boardView) cellAt(x, y int) (core.Address, bool) {
	if !v.area.Contains(x, y) {
		return core.Address{}, false
	}
	return v.layout.CellAt(v.world(x, y))
}

// boardRect returns the screen rectangle enclosing every cell of the board.
func (v *boardView) boardRect() platformcore.Rect {
	lo := v.tileRect(v.layout.CellPosition(core.A(0, v.layout.Rows()-1)))
	hi := v.tileRect(v.layout.CellPosition(core.A(v.layout.Columns()-1, 0)))
	return platformcore.NewRect(lo.X, lo.Y, hi.Right()-lo.X, hi.Bottom()-lo.Y)
}

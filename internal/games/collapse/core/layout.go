package core

import "math"

// Default board margins in world units.
const (
	DefaultMarginHorizontal = 0.5
	DefaultMarginVertical   = 0.5
)

// Viewport is the visible world rectangle the board must fit into.
type Viewport struct {
	BottomLeft Vec2
	TopRight   Vec2
}

// Width returns the horizontal extent of the viewport.
func (v Viewport) Width() float64 { return v.TopRight.X - v.BottomLeft.X }

// Height returns the vertical extent of the viewport.
func (v Viewport) Height() float64 { return v.TopRight.Y - v.BottomLeft.Y }

// Margins are subtracted from each edge of the viewport.
type Margins struct {
	Horizontal float64
	Vertical   float64
}

// DefaultMargins returns the standard half-unit margins.
func DefaultMargins() Margins {
	return Margins{Horizontal: DefaultMarginHorizontal, Vertical: DefaultMarginVertical}
}

// Layout holds the board geometry. It is computed once and never mutated.
type Layout struct {
	columns  int
	rows     int
	viewport Viewport
	center   Vec2
	itemSize float64
	cells    []Vec2 // column-major, index = col*rows + row
}

// NewLayout computes item size and every cell position for the board.
func NewLayout(p Params, vp Viewport, m Margins) (*Layout, error) {
	if p.Columns <= 0 || p.Rows <= 0 {
		return nil, configErrorf("layout", "board dimensions must be positive, got %dx%d", p.Columns, p.Rows)
	}
	usableW := vp.Width() - 2*m.Horizontal
	usableH := vp.Height() - 2*m.Vertical
	if usableW <= 0 || usableH <= 0 {
		return nil, configErrorf("viewport", "usable area %.2fx%.2f is empty after margins", usableW, usableH)
	}

	l := &Layout{
		columns:  p.Columns,
		rows:     p.Rows,
		viewport: vp,
		center:   vp.BottomLeft.Mid(vp.TopRight),
		itemSize: math.Min(usableW/float64(p.Columns), usableH/float64(p.Rows)),
		cells:    make([]Vec2, p.Columns*p.Rows),
	}
	for c := 0; c < p.Columns; c++ {
		for r := 0; r < p.Rows; r++ {
			l.cells[c*p.Rows+r] = Vec2{
				X: l.axisPosition(c, p.Columns, l.center.X),
				Y: l.axisPosition(r, p.Rows, l.center.Y),
			}
		}
	}
	return l, nil
}

// axisPosition places the index-th of count items symmetrically around center.
// With an even count the two middle items sit half a cell either side of it.
func (l *Layout) axisPosition(index, count int, center float64) float64 {
	if count%2 == 0 {
		leftMiddle := count/2 - 1
		return center + (float64(index-leftMiddle)-0.5)*l.itemSize
	}
	middle := count / 2
	return center + float64(index-middle)*l.itemSize
}

// ItemSize returns the uniform edge length of an item.
func (l *Layout) ItemSize() float64 { return l.itemSize }

// Center returns the midpoint of the viewport.
func (l *Layout) Center() Vec2 { return l.center }

// Viewport returns the viewport the layout was computed for.
func (l *Layout) Viewport() Viewport { return l.viewport }

// Columns returns the number of columns the layout was computed for.
func (l *Layout) Columns() int { return l.columns }

// Rows returns the number of rows the layout was computed for.
func (l *Layout) Rows() int { return l.rows }

// CellPosition returns the world position of a cell centre.
// Rows above the board extend the same grid upward.
func (l *Layout) CellPosition(a Address) Vec2 {
	if a.Col >= 0 && a.Col < l.columns && a.Row >= 0 && a.Row < l.rows {
		return l.cells[a.Col*l.rows+a.Row]
	}
	return Vec2{
		X: l.axisPosition(a.Col, l.columns, l.center.X),
		Y: l.axisPosition(a.Row, l.rows, l.center.Y),
	}
}

// SpawnPosition returns where the ordinal-th new item of a column appears.
// Pending spawns stack upward above the top of the viewport without overlap.
func (l *Layout) SpawnPosition(col, ordinal int) Vec2 {
	return Vec2{
		X: l.axisPosition(col, l.columns, l.center.X),
		Y: l.viewport.TopRight.Y + float64(ordinal+1)*l.itemSize,
	}
}

// CellAt maps a world position back to the cell under it.
func (l *Layout) CellAt(p Vec2) (Address, bool) {
	origin := l.CellPosition(A(0, 0))
	half := l.itemSize / 2
	col := int(math.Floor((p.X - origin.X + half) / l.itemSize))
	row := int(math.Floor((p.Y - origin.Y + half) / l.itemSize))
	if col < 0 || col >= l.columns || row < 0 || row >= l.rows {
		return Address{}, false
	}
	return A(col, row), true
}

package core

import "fmt"

// Address identifies a board cell by column and row.
// Columns grow to the right, rows grow upward from the bottom of the board.
type Address struct {
	Col int
	Row int
}

// A is a convenience constructor for Address.
func A(col, row int) Address {
	return Address{Col: col, Row: row}
}

// String returns a string representation of the address.
func (a Address) String() string {
	return fmt.Sprintf("(%d,%d)", a.Col, a.Row)
}

// Add returns a new Address offset by (dc, dr).
func (a Address) Add(dc, dr int) Address {
	return Address{Col: a.Col + dc, Row: a.Row + dr}
}

// Dir represents one of the four neighbour directions.
type Dir uint8

const (
	DirLeft Dir = iota
	DirRight
	DirDown
	DirUp
)

// Directions lists the 4-neighbourhood in traversal order.
var Directions = [4]Dir{DirLeft, DirRight, DirDown, DirUp}

// Delta returns the column and row offset for the direction.
func (d Dir) Delta() (int, int) {
	switch d {
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	case DirDown:
		return 0, -1
	case DirUp:
		return 0, 1
	default:
		return 0, 0
	}
}

// Step returns the neighbouring address in direction d.
func (a Address) Step(d Dir) Address {
	dc, dr := d.Delta()
	return a.Add(dc, dr)
}

// Vec2 is a point in world space, Y pointing up.
type Vec2 struct {
	X float64
	Y float64
}

// V is a convenience constructor for Vec2.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns the component-wise sum.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns the component-wise difference.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale multiplies both components by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Mid returns the midpoint between v and o.
func (v Vec2) Mid(o Vec2) Vec2 {
	return v.Add(o).Scale(0.5)
}

package core

import (
	"fmt"
	"math/rand"
	"slices"
)

// Board is the authoritative grid: one dense, row-ascending slice per column.
// For every active item, board.At(item.Address()) == item.
type Board struct {
	rows    int
	columns [][]*Item
}

// NewBoard allocates empty columns for a columns x rows board.
func NewBoard(columns, rows int) *Board {
	b := &Board{
		rows:    rows,
		columns: make([][]*Item, columns),
	}
	for i := range b.columns {
		b.columns[i] = make([]*Item, 0, rows)
	}
	return b
}

// Fill spawns one random item per cell in column-major, row-ascending order.
func (b *Board) Fill(pool *Pool, layout *Layout, rng *rand.Rand) error {
	for i := range b.columns {
		for j := len(b.columns[i]); j < b.rows; j++ {
			c := Color(rng.Intn(pool.Colors()))
			it, err := pool.Acquire(c, layout.CellPosition(A(i, j)), 0)
			if err != nil {
				return fmt.Errorf("board: fill %s: %w", A(i, j), err)
			}
			b.Insert(it, i)
		}
	}
	return nil
}

// Columns returns the number of columns.
func (b *Board) Columns() int { return len(b.columns) }

// Rows returns the nominal number of rows of a full column.
func (b *Board) Rows() int { return b.rows }

// InBounds reports whether a lies within the nominal board rectangle.
func (b *Board) InBounds(a Address) bool {
	return a.Col >= 0 && a.Col < len(b.columns) && a.Row >= 0 && a.Row < b.rows
}

// At returns the item at a, or false if the cell is empty or out of bounds.
func (b *Board) At(a Address) (*Item, bool) {
	if a.Col < 0 || a.Col >= len(b.columns) {
		return nil, false
	}
	col := b.columns[a.Col]
	if a.Row < 0 || a.Row >= len(col) {
		return nil, false
	}
	return col[a.Row], true
}

// Column returns the items of column i, bottom first.
// The slice is owned by the board and must not be modified.
func (b *Board) Column(i int) []*Item {
	return b.columns[i]
}

// Len returns the number of active items on the board.
func (b *Board) Len() int {
	n := 0
	for _, col := range b.columns {
		n += len(col)
	}
	return n
}

// Full reports whether every column holds Rows items.
func (b *Board) Full() bool {
	for _, col := range b.columns {
		if len(col) != b.rows {
			return false
		}
	}
	return true
}

// Insert appends an item on top of column col and assigns its address.
func (b *Board) Insert(it *Item, col int) {
	invariant(it.active, "insert of inactive item %d", it.id)
	it.addr = A(col, len(b.columns[col]))
	b.columns[col] = append(b.columns[col], it)
}

// Remove deletes an item from its column and shifts every item above it down
// one row. Only logical addresses change; positions are left to the caller.
func (b *Board) Remove(it *Item) {
	a := it.addr
	cur, ok := b.At(a)
	invariant(ok && cur == it, "remove of item %d not found at %s", it.id, a)

	b.columns[a.Col] = slices.Delete(b.columns[a.Col], a.Row, a.Row+1)
	for k := a.Row; k < len(b.columns[a.Col]); k++ {
		b.columns[a.Col][k].addr.Row = k
	}
}

// Swap exchanges the items at two addresses and their addresses.
func (b *Board) Swap(x, y Address) {
	ix, okX := b.At(x)
	iy, okY := b.At(y)
	invariant(okX && okY, "swap of empty cell %s <-> %s", x, y)

	b.columns[x.Col][x.Row], b.columns[y.Col][y.Row] = iy, ix
	ix.addr, iy.addr = iy.addr, ix.addr
}

// Addresses lists every occupied cell in column-major, row-ascending order.
func (b *Board) Addresses() []Address {
	out := make([]Address, 0, b.Len())
	for i, col := range b.columns {
		for j := range col {
			out = append(out, A(i, j))
		}
	}
	return out
}

// Each visits every item in column-major order until fn returns false.
func (b *Board) Each(fn func(*Item) bool) {
	for _, col := range b.columns {
		for _, it := range col {
			if !fn(it) {
				return
			}
		}
	}
}

// Drain removes every item and hands it to release, leaving empty columns.
func (b *Board) Drain(release func(*Item)) {
	for i, col := range b.columns {
		for _, it := range col {
			release(it)
		}
		b.columns[i] = b.columns[i][:0]
	}
}

// Verify checks the dense-column and address invariants.
func (b *Board) Verify() error {
	for i, col := range b.columns {
		if len(col) > b.rows {
			return fmt.Errorf("board: column %d holds %d items, max %d", i, len(col), b.rows)
		}
		for j, it := range col {
			if it == nil {
				return fmt.Errorf("board: nil item at %s", A(i, j))
			}
			if !it.active {
				return fmt.Errorf("board: inactive item %d at %s", it.id, A(i, j))
			}
			if it.addr != A(i, j) {
				return fmt.Errorf("board: item %d at %s reports address %s", it.id, A(i, j), it.addr)
			}
		}
	}
	return nil
}

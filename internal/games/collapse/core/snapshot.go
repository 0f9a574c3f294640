package core

// Snapshot captures the board for determinism testing and headless reports.
type Snapshot struct {
	Columns  [][]Color
	Tiers    [][]Tier
	Items    int
	Free     []int
	Deadlock bool
	Shuffles int
}

// Snapshot returns a copy of the current board state.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Columns:  make([][]Color, e.board.Columns()),
		Tiers:    make([][]Tier, e.board.Columns()),
		Items:    e.board.Len(),
		Free:     e.pool.Stats().Free,
		Deadlock: e.lastScan.Deadlock,
		Shuffles: e.shuffles,
	}
	for i := range s.Columns {
		col := e.board.Column(i)
		s.Columns[i] = make([]Color, len(col))
		s.Tiers[i] = make([]Tier, len(col))
		for j, it := range col {
			s.Columns[i][j] = it.color
			s.Tiers[i][j] = it.tier
		}
	}
	return s
}

// String renders the board top row first using colour letters.
func (s Snapshot) String() string {
	rows := 0
	for _, col := range s.Columns {
		rows = max(rows, len(col))
	}
	buf := make([]rune, 0, (len(s.Columns)+1)*rows)
	for r := rows - 1; r >= 0; r-- {
		for _, col := range s.Columns {
			if r < len(col) {
				buf = append(buf, col[r].Char())
			} else {
				buf = append(buf, '.')
			}
		}
		if r > 0 {
			buf = append(buf, '\n')
		}
	}
	return string(buf)
}

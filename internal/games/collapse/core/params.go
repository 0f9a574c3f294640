package core

import "time"

// Board limits.
const (
	MinRows    = 2
	MaxRows    = 10
	MinColumns = 2
	MaxColumns = 10
	MinColors  = 1
)

// Defaults applied by DefaultParams.
const (
	DefaultPoolMultiplier = 5
	DefaultSettleFrames   = 1
	DefaultShuffleDelay   = 2 * time.Second
)

// ShuffleMode selects the deadlock recovery permutation.
type ShuffleMode string

const (
	// ShuffleBiased swaps every cell with an independently drawn random cell.
	ShuffleBiased ShuffleMode = "biased"
	// ShuffleUniform performs a Fisher-Yates permutation of the occupied cells.
	ShuffleUniform ShuffleMode = "uniform"
)

// Params is everything the core needs to build a board.
type Params struct {
	Columns        int
	Rows           int
	Colors         int
	Thresholds     Thresholds
	PoolMultiplier int
	SettleFrames   int
	ShuffleDelay   time.Duration
	ShuffleMode    ShuffleMode
}

// DefaultParams returns a valid 8x8 board with four colours.
func DefaultParams() Params {
	return Params{
		Columns:        8,
		Rows:           8,
		Colors:         4,
		Thresholds:     Thresholds{A: 4, B: 7, C: 9},
		PoolMultiplier: DefaultPoolMultiplier,
		SettleFrames:   DefaultSettleFrames,
		ShuffleDelay:   DefaultShuffleDelay,
		ShuffleMode:    ShuffleBiased,
	}
}

// Cells returns the number of cells on a full board.
func (p Params) Cells() int {
	return p.Columns * p.Rows
}

// PoolCapacity returns the number of items pre-allocated per colour.
func (p Params) PoolCapacity() int {
	m := p.PoolMultiplier
	if m <= 0 {
		m = DefaultPoolMultiplier
	}
	return p.Cells() * m
}

// Validate checks the parameters in the order a setup screen would report them.
// Every failure wraps ErrInvalidConfig and is fatal to board creation.
func (p Params) Validate() error {
	if p.Rows < MinRows || p.Rows > MaxRows {
		return configErrorf("rows", "must be between %d and %d, got %d", MinRows, MaxRows, p.Rows)
	}
	if p.Columns < MinColumns || p.Columns > MaxColumns {
		return configErrorf("columns", "must be between %d and %d, got %d", MinColumns, MaxColumns, p.Columns)
	}
	if p.Colors < MinColors || p.Colors > MaxColors {
		return configErrorf("colors", "must be between %d and %d, got %d", MinColors, MaxColors, p.Colors)
	}
	if p.Cells() <= p.Colors {
		return configErrorf("colors",
			"unsolvable deadlock is highly likely for %dx%d with %d colors; increase board size or decrease color count",
			p.Columns, p.Rows, p.Colors)
	}
	t := p.Thresholds
	if t.A < 1 || t.A >= t.B || t.B >= t.C {
		return configErrorf("thresholds", "must satisfy 1 <= a < b < c, got a=%d b=%d c=%d", t.A, t.B, t.C)
	}
	if p.PoolMultiplier < 0 {
		return configErrorf("pool_multiplier", "must not be negative, got %d", p.PoolMultiplier)
	}
	if p.SettleFrames < 0 {
		return configErrorf("settle_frames", "must not be negative, got %d", p.SettleFrames)
	}
	if p.ShuffleDelay < 0 {
		return configErrorf("shuffle_delay", "must not be negative, got %s", p.ShuffleDelay)
	}
	switch p.ShuffleMode {
	case "", ShuffleBiased, ShuffleUniform:
	default:
		return configErrorf("shuffle", "unknown mode %q", p.ShuffleMode)
	}
	return nil
}

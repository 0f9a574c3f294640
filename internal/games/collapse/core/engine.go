package core

import (
	"context"
	"fmt"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"
)

// Block is a maximal set of same-coloured, 4-connected cells.
type Block struct {
	Color   Color
	Members []Address
}

// Size returns the number of cells in the block.
func (b Block) Size() int { return len(b.Members) }

// TapResult describes the outcome of a tap.
type TapResult struct {
	Size    int   // block size at the tapped cell; 1 means nothing was cleared
	Color   Color // colour of the tapped block
	Counts  []int // replacement items requested per column
	Spawned int   // replacement items actually placed
	Dropped int   // replacements lost to pool exhaustion
}

// Cleared reports whether the tap removed a block.
func (r TapResult) Cleared() bool { return r.Size > 1 }

// ScanResult summarises a full-board scan.
type ScanResult struct {
	Blocks     int
	Largest    int
	Deadlock   bool
	Unsolvable bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source used for colours and shuffles.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithSeed seeds a private random source.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewSource(seed)) }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithScheduler sets the scheduler that runs settle rescans and shuffles.
// The owner of the scheduler must call Advance from its frame loop.
func WithScheduler(s *Scheduler) Option {
	return func(e *Engine) { e.sched = s }
}

// Engine owns a board and runs match detection, clearing, refills and
// deadlock recovery. All methods must be called from a single goroutine.
type Engine struct {
	params Params
	layout *Layout
	pool   *Pool
	board  *Board
	rng    *rand.Rand
	logger *log.Logger
	sched  *Scheduler
	events Events

	ctx    context.Context
	cancel context.CancelFunc

	// Flood fill and scan bookkeeping, reused across calls.
	visited itemSet
	covered itemSet
	block   []*Item
	stack   []*Item

	started        bool
	shufflePending bool
	shuffles       int
	lastScan       ScanResult
}

// NewEngine validates params and wires the engine to its layout and pool.
func NewEngine(params Params, layout *Layout, pool *Pool, opts ...Option) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if layout.Columns() != params.Columns || layout.Rows() != params.Rows {
		return nil, configErrorf("layout", "computed for %dx%d, board is %dx%d",
			layout.Columns(), layout.Rows(), params.Columns, params.Rows)
	}
	if pool.Colors() != params.Colors {
		return nil, configErrorf("pool", "holds %d colors, board uses %d", pool.Colors(), params.Colors)
	}
	if params.ShuffleMode == "" {
		params.ShuffleMode = ShuffleBiased
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		params:  params,
		layout:  layout,
		pool:    pool,
		board:   NewBoard(params.Columns, params.Rows),
		ctx:     ctx,
		cancel:  cancel,
		visited: newItemSet(params.Cells()),
		covered: newItemSet(params.Cells()),
		block:   make([]*Item, 0, params.Cells()),
		stack:   make([]*Item, 0, params.Cells()),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(1))
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	if e.sched == nil {
		e.sched = NewScheduler()
	}
	return e, nil
}

// Params returns the engine's board parameters.
func (e *Engine) Params() Params { return e.params }

// Board returns the live board. Callers must not mutate it.
func (e *Engine) Board() *Board { return e.board }

// Layout returns the board geometry.
func (e *Engine) Layout() *Layout { return e.layout }

// Pool returns the item pool.
func (e *Engine) Pool() *Pool { return e.pool }

// Scheduler returns the scheduler driving deferred work.
func (e *Engine) Scheduler() *Scheduler { return e.sched }

// Events returns the notification hub for subscriptions.
func (e *Engine) Events() *Events { return &e.events }

// LastScan returns the result of the most recent full-board scan.
func (e *Engine) LastScan() ScanResult { return e.lastScan }

// ShufflePending reports whether a deadlock shuffle is scheduled.
func (e *Engine) ShufflePending() bool { return e.shufflePending }

// Shuffles returns the number of shuffle passes since the last non-deadlocked scan.
func (e *Engine) Shuffles() int { return e.shuffles }

// Closed reports whether Close has been called.
func (e *Engine) Closed() bool { return e.ctx.Err() != nil }

// Start fills the board with random colours, announces it and runs the
// initial scan.
func (e *Engine) Start() error {
	if err := e.begin(); err != nil {
		return err
	}
	if err := e.board.Fill(e.pool, e.layout, e.rng); err != nil {
		e.board.Drain(e.pool.Release)
		return fmt.Errorf("engine: %w", err)
	}
	e.announce()
	return nil
}

// Load places an explicit column-major colour layout instead of a random
// fill. Columns may be shorter than Rows.
func (e *Engine) Load(columns [][]Color) error {
	if err := e.begin(); err != nil {
		return err
	}
	if len(columns) != e.params.Columns {
		return configErrorf("load", "expected %d columns, got %d", e.params.Columns, len(columns))
	}
	for i, col := range columns {
		if len(col) > e.params.Rows {
			return configErrorf("load", "column %d has %d rows, max %d", i, len(col), e.params.Rows)
		}
		for j, c := range col {
			if int(c) >= e.params.Colors {
				return configErrorf("load", "color %s at %s outside %d colors", c, A(i, j), e.params.Colors)
			}
		}
	}
	for i, col := range columns {
		for j, c := range col {
			it, err := e.pool.Acquire(c, e.layout.CellPosition(A(i, j)), 0)
			if err != nil {
				e.board.Drain(e.pool.Release)
				return fmt.Errorf("engine: load %s: %w", A(i, j), err)
			}
			e.board.Insert(it, i)
		}
	}
	e.announce()
	return nil
}

func (e *Engine) begin() error {
	if e.Closed() {
		return ErrClosed
	}
	if e.started {
		return fmt.Errorf("engine: board already started")
	}
	e.started = true
	return nil
}

func (e *Engine) announce() {
	cols := make([][]View, e.board.Columns())
	for i := range cols {
		col := e.board.Column(i)
		cols[i] = make([]View, len(col))
		for j, it := range col {
			cols[i][j] = it.View()
		}
	}
	e.events.Emit(BoardCreatedEvent{Columns: cols})
	e.logger.Debug("board created", "columns", e.params.Columns, "rows", e.params.Rows, "colors", e.params.Colors)
	e.Rescan()
}

// Close tears the board down: pending continuations are cancelled, every
// item goes back to the pool and listeners are dropped.
func (e *Engine) Close() {
	if e.Closed() {
		return
	}
	e.cancel()
	e.board.Drain(e.pool.Release)
	e.events.Reset()
	e.shufflePending = false
}

// DiscoverBlock returns the block containing a. In scan mode (hitMode false)
// cells covered earlier in the running scan are skipped, and a covered seed
// yields an empty block. Outside a scan nothing is covered. An empty cell
// yields an empty block.
func (e *Engine) DiscoverBlock(a Address, hitMode bool) Block {
	seed, ok := e.board.At(a)
	if !ok || (!hitMode && e.covered.has(seed.id)) {
		return Block{}
	}
	members := e.discover(seed, hitMode)
	out := Block{Color: seed.color, Members: make([]Address, len(members))}
	for i, it := range members {
		out.Members[i] = it.addr
	}
	return out
}

// discover runs an iterative flood fill from seed. Every cell is examined at
// most once per call. The returned slice is scratch space owned by the engine.
func (e *Engine) discover(seed *Item, hitMode bool) []*Item {
	e.visited.reset()
	e.block = e.block[:0]
	e.stack = append(e.stack[:0], seed)
	e.visited.add(seed.id)

	for len(e.stack) > 0 {
		cur := e.stack[len(e.stack)-1]
		e.stack = e.stack[:len(e.stack)-1]
		e.block = append(e.block, cur)

		for _, d := range Directions {
			next, ok := e.board.At(cur.addr.Step(d))
			if !ok || e.visited.has(next.id) {
				continue
			}
			if !hitMode && e.covered.has(next.id) {
				continue
			}
			e.visited.add(next.id)
			if next.color != seed.color {
				continue
			}
			e.stack = append(e.stack, next)
		}
	}
	return e.block
}

// Tap resolves a player selection. Blocks of one are left alone. Larger
// blocks are returned to the pool, replacements are spawned above their
// columns, and a settle rescan is scheduled for the next frame.
func (e *Engine) Tap(a Address) (TapResult, error) {
	if e.Closed() {
		return TapResult{}, ErrClosed
	}
	if !e.board.InBounds(a) {
		return TapResult{}, fmt.Errorf("engine: tap %s: %w", a, ErrOutOfBounds)
	}
	seed, ok := e.board.At(a)
	if !ok {
		return TapResult{}, fmt.Errorf("engine: tap %s: %w", a, ErrNoItem)
	}

	members := e.discover(seed, true)
	res := TapResult{Size: len(members), Color: seed.color}
	if len(members) == 1 {
		return res, nil
	}

	cleared := make([]*Item, len(members))
	copy(cleared, members)
	addrs := make([]Address, len(cleared))
	res.Counts = make([]int, e.params.Columns)
	for i, it := range cleared {
		addrs[i] = it.addr
		res.Counts[it.addr.Col]++
	}
	for _, it := range cleared {
		e.board.Remove(it)
		e.pool.Release(it)
	}
	e.events.Emit(BlockClearedEvent{Color: seed.color, Members: addrs})

	counts := make([]int, len(res.Counts))
	copy(counts, res.Counts)
	e.events.Emit(SpawnRequestedEvent{Counts: counts})

	res.Spawned, res.Dropped = e.refill(res.Counts)
	e.logger.Debug("block cleared", "at", a, "color", seed.color, "size", res.Size,
		"spawned", res.Spawned, "dropped", res.Dropped)

	e.sched.AfterFrames(e.ctx, e.params.SettleFrames, e.settle)
	return res, nil
}

// refill spawns counts[i] new random items above column i, then settles
// every affected column so resting positions match addresses.
func (e *Engine) refill(counts []int) (spawned, dropped int) {
	for col, n := range counts {
		if n == 0 {
			continue
		}
		for ordinal := range n {
			c := Color(e.rng.Intn(e.params.Colors))
			it, err := e.pool.Acquire(c, e.layout.SpawnPosition(col, ordinal), 0)
			if err != nil {
				dropped++
				e.logger.Warn("replacement dropped", "column", col, "color", c, "error", err)
				e.events.Emit(PoolExhaustedEvent{Color: c, Column: col})
				continue
			}
			e.board.Insert(it, col)
			spawned++
			e.events.Emit(ItemCreatedEvent{Item: it.View()})
		}
		e.settleColumn(col)
	}
	return spawned, dropped
}

// settleColumn moves every item in col to the resting position of its address.
func (e *Engine) settleColumn(col int) {
	for _, it := range e.board.Column(col) {
		to := e.layout.CellPosition(it.addr)
		if it.pos == to {
			continue
		}
		from := it.pos
		it.pos = to
		e.events.Emit(ItemMovedEvent{Item: it.View(), From: from, To: to})
	}
}

func (e *Engine) settle() {
	e.Rescan()
}

// Rescan recomputes every block, assigns tiers by block size and checks for
// deadlock. A deadlock schedules a shuffle after the configured delay.
func (e *Engine) Rescan() ScanResult {
	e.covered.reset()
	res := ScanResult{Deadlock: true}

	for i := range e.board.Columns() {
		for _, it := range e.board.Column(i) {
			if e.covered.has(it.id) {
				continue
			}
			members := e.discover(it, false)
			size := len(members)
			res.Blocks++
			if size > res.Largest {
				res.Largest = size
			}
			if size > 1 {
				res.Deadlock = false
			}

			tier := e.params.Thresholds.TierFor(size)
			for _, m := range members {
				e.covered.add(m.id)
				if m.tier == tier {
					continue
				}
				from := m.tier
				m.tier = tier
				e.events.Emit(TierChangedEvent{Item: m.View(), From: from})
			}
		}
	}

	e.covered.reset()

	if res.Deadlock {
		res.Unsolvable = !e.anyColorRepeats()
	} else {
		e.shuffles = 0
	}
	e.lastScan = res

	if res.Deadlock {
		e.events.Emit(DeadlockDetectedEvent{Unsolvable: res.Unsolvable})
		switch {
		case res.Unsolvable:
			e.logger.Error("deadlock cannot be resolved by shuffling", "items", e.board.Len())
		case !e.shufflePending:
			e.shufflePending = true
			e.logger.Debug("deadlock detected, shuffle scheduled", "delay", e.params.ShuffleDelay)
			e.sched.After(e.ctx, e.params.ShuffleDelay, e.scheduledShuffle)
		}
	}
	return res
}

// anyColorRepeats reports whether some colour occurs on at least two cells.
func (e *Engine) anyColorRepeats() bool {
	var seen [MaxColors]int
	repeated := false
	e.board.Each(func(it *Item) bool {
		seen[it.color]++
		repeated = seen[it.color] > 1
		return !repeated
	})
	return repeated
}

// scheduledShuffle runs the delayed deadlock recovery. A board resolved in
// the meantime, by a manual Shuffle or Load, is left alone.
func (e *Engine) scheduledShuffle() {
	e.shufflePending = false
	if !e.lastScan.Deadlock || e.lastScan.Unsolvable {
		return
	}
	e.Shuffle()
}

// Shuffle permutes the occupied cells and rescans. In biased mode every cell,
// visited column-major, is swapped with an independently drawn random cell.
func (e *Engine) Shuffle() {
	if e.Closed() {
		return
	}
	addrs := e.board.Addresses()
	if len(addrs) > 1 {
		switch e.params.ShuffleMode {
		case ShuffleUniform:
			for i := len(addrs) - 1; i > 0; i-- {
				e.swap(addrs[i], addrs[e.rng.Intn(i+1)])
			}
		default:
			for _, src := range addrs {
				e.swap(src, addrs[e.rng.Intn(len(addrs))])
			}
		}
	}

	e.shuffles++
	attempt := e.shuffles
	res := e.Rescan()
	e.logger.Debug("board shuffled", "attempt", attempt, "resolved", !res.Deadlock)
	e.events.Emit(ShuffledEvent{Attempt: attempt, Resolved: !res.Deadlock})
}

// swap exchanges two cells together with their resting positions.
func (e *Engine) swap(x, y Address) {
	if x == y {
		return
	}
	ix, _ := e.board.At(x)
	iy, _ := e.board.At(y)
	e.board.Swap(x, y)
	ix.pos, iy.pos = iy.pos, ix.pos
	e.events.Emit(ItemMovedEvent{Item: ix.View(), From: iy.pos, To: ix.pos})
	e.events.Emit(ItemMovedEvent{Item: iy.View(), From: ix.pos, To: iy.pos})
}

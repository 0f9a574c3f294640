package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-collapse/internal/games/collapse/core"
)

const frame = 16 * time.Millisecond

// assertSettled checks that every item rests on its cell and carries the
// tier of the block it belongs to.
func assertSettled(t *testing.T, e *core.Engine) {
	t.Helper()
	require.NoError(t, e.Board().Verify())
	for _, a := range e.Board().Addresses() {
		it, _ := e.Board().At(a)
		assert.Equal(t, e.Layout().CellPosition(a), it.Position(), "position of %s", a)
	}
}

func assertTiers(t *testing.T, e *core.Engine) {
	t.Helper()
	th := e.Params().Thresholds
	for _, a := range e.Board().Addresses() {
		it, _ := e.Board().At(a)
		size := e.DiscoverBlock(a, true).Size()
		assert.Equal(t, th.TierFor(size), it.Tier(), "tier of %s (block %d)", a, size)
	}
}

func TestStartFillsEveryCell(t *testing.T) {
	p := testParams(8, 6, 4)
	e := newEngine(t, p, core.WithSeed(3))
	rec := record(e)

	require.NoError(t, e.Start())

	assert.True(t, e.Board().Full())
	assert.Equal(t, p.Cells(), e.Board().Len())
	assertSettled(t, e)
	assertTiers(t, e)

	created := eventsOf[core.BoardCreatedEvent](rec)
	require.Len(t, created, 1)
	require.Len(t, created[0].Columns, p.Columns)
	for _, col := range created[0].Columns {
		assert.Len(t, col, p.Rows)
	}

	active := 0
	for c := range p.Colors {
		active += e.Pool().Active(core.Color(c))
	}
	assert.Equal(t, p.Cells(), active)
}

func TestStartTwiceFails(t *testing.T) {
	e := newEngine(t, testParams(3, 3, 2))
	require.NoError(t, e.Start())
	assert.Error(t, e.Start())
	assert.Error(t, e.Load(checkerboard(3, 3)))
}

func TestLoadRejectsBadLayouts(t *testing.T) {
	p := testParams(3, 3, 2)

	e := newEngine(t, p)
	assert.ErrorIs(t, e.Load(checkerboard(2, 3)), core.ErrInvalidConfig)

	e = newEngine(t, p)
	assert.ErrorIs(t, e.Load([][]core.Color{{R}, {B}, {G}}), core.ErrInvalidConfig)

	e = newEngine(t, p)
	assert.ErrorIs(t, e.Load(checkerboard(3, 4)), core.ErrInvalidConfig)
}

func TestFloodFillSingleColorBoard(t *testing.T) {
	p := testParams(5, 4, 1)
	e := newEngine(t, p)
	require.NoError(t, e.Start())

	block := e.DiscoverBlock(core.A(2, 2), true)
	assert.Equal(t, R, block.Color)
	assert.Equal(t, p.Cells(), block.Size())

	seen := make(map[core.Address]bool)
	for _, a := range block.Members {
		assert.False(t, seen[a], "duplicate member %s", a)
		seen[a] = true
	}

	for _, a := range e.Board().Addresses() {
		it, _ := e.Board().At(a)
		assert.Equal(t, core.Tier3, it.Tier())
	}
}

func TestDiscoverBlockScanModeAfterRescan(t *testing.T) {
	uniform := [][]core.Color{{R, R, R}, {R, R, R}, {R, R, R}}
	e := loaded(t, testParams(3, 3, 2), uniform)

	// Coverage from the load scan does not leak past it.
	assert.Equal(t, 9, e.DiscoverBlock(core.A(1, 1), false).Size())
	e.Rescan()
	assert.Equal(t, 9, e.DiscoverBlock(core.A(0, 2), false).Size())
	assert.Equal(t, 9, e.DiscoverBlock(core.A(0, 2), true).Size())

	c := loaded(t, testParams(3, 3, 2), checkerboard(3, 3))
	assert.Equal(t, 1, c.DiscoverBlock(core.A(1, 1), false).Size())
}

func TestDiscoverBlockEmptyCell(t *testing.T) {
	e := loaded(t, testParams(3, 3, 2), [][]core.Color{{R}, {R, G}, {}})

	assert.Zero(t, e.DiscoverBlock(core.A(2, 0), true).Size())
	assert.Zero(t, e.DiscoverBlock(core.A(0, 2), true).Size())

	block := e.DiscoverBlock(core.A(0, 0), true)
	assert.ElementsMatch(t, []core.Address{core.A(0, 0), core.A(1, 0)}, block.Members)
}

func TestTiersFollowBlockSize(t *testing.T) {
	p := testParams(7, 8, 2)
	p.Thresholds = core.Thresholds{A: 2, B: 4, C: 6}
	reds := func(n int) []core.Color {
		col := make([]core.Color, n)
		for i := range col {
			col[i] = R
		}
		return col
	}
	e := loaded(t, p, [][]core.Color{reds(2), {G}, reds(3), {G}, reds(5), {G}, reds(7)})

	s := e.Snapshot()
	assert.Equal(t, []core.Tier{core.Tier0, core.Tier0}, s.Tiers[0])
	assert.Equal(t, []core.Tier{core.Tier0}, s.Tiers[1])
	for _, tier := range s.Tiers[2] {
		assert.Equal(t, core.Tier1, tier)
	}
	for _, tier := range s.Tiers[4] {
		assert.Equal(t, core.Tier2, tier)
	}
	for _, tier := range s.Tiers[6] {
		assert.Equal(t, core.Tier3, tier)
	}
	assertTiers(t, e)
}

func TestTapSingleIsNoop(t *testing.T) {
	e := loaded(t, testParams(3, 3, 2), checkerboard(3, 3))
	rec := record(e)
	before := e.Snapshot()

	res, err := e.Tap(core.A(1, 1))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Size)
	assert.False(t, res.Cleared())
	assert.Equal(t, before, e.Snapshot())
	assert.Empty(t, eventsOf[core.BlockClearedEvent](rec))
}

func TestTapClearsAndRefills(t *testing.T) {
	p := testParams(3, 3, 2)
	e := loaded(t, p, [][]core.Color{{R, R, G}, {G, R, G}, {G, G, R}}, core.WithSeed(11))
	rec := record(e)

	redBefore := e.Pool().Free(R)
	totalBefore := e.Pool().Free(R) + e.Pool().Free(G)
	var redAtClear int
	e.Events().Subscribe(func(ev core.Event) {
		if _, ok := ev.(core.BlockClearedEvent); ok {
			redAtClear = e.Pool().Free(R)
		}
	})

	res, err := e.Tap(core.A(0, 0))
	require.NoError(t, err)

	assert.True(t, res.Cleared())
	assert.Equal(t, 3, res.Size)
	assert.Equal(t, R, res.Color)
	assert.Equal(t, []int{2, 1, 0}, res.Counts)
	assert.Equal(t, 3, res.Spawned)
	assert.Zero(t, res.Dropped)
	assert.Equal(t, redBefore+3, redAtClear)
	assert.Equal(t, totalBefore, e.Pool().Free(R)+e.Pool().Free(G))

	cleared := eventsOf[core.BlockClearedEvent](rec)
	require.Len(t, cleared, 1)
	assert.ElementsMatch(t, []core.Address{core.A(0, 0), core.A(0, 1), core.A(1, 1)}, cleared[0].Members)

	spawn := eventsOf[core.SpawnRequestedEvent](rec)
	require.Len(t, spawn, 1)
	assert.Equal(t, []int{2, 1, 0}, spawn[0].Counts)
	assert.Len(t, eventsOf[core.ItemCreatedEvent](rec), 3)

	// The green item from the top of column 0 dropped to the bottom.
	moved := false
	for _, ev := range eventsOf[core.ItemMovedEvent](rec) {
		if ev.Item.Color == G && ev.To == e.Layout().CellPosition(core.A(0, 0)) {
			moved = true
		}
	}
	assert.True(t, moved)

	assert.True(t, e.Board().Full())
	assertSettled(t, e)
}

func TestTapSchedulesSettleRescan(t *testing.T) {
	p := testParams(3, 3, 2)
	e := loaded(t, p, [][]core.Color{{R, R, G}, {G, R, G}, {G, G, R}}, core.WithSeed(5))

	_, err := e.Tap(core.A(0, 0))
	require.NoError(t, err)
	require.Equal(t, 1, e.Scheduler().Pending())

	assert.Equal(t, 1, e.Scheduler().Advance(frame))
	assertTiers(t, e)
}

func TestTapErrors(t *testing.T) {
	e := loaded(t, testParams(3, 3, 2), [][]core.Color{{R}, {G, G}, {}})

	_, err := e.Tap(core.A(3, 0))
	assert.ErrorIs(t, err, core.ErrOutOfBounds)
	_, err = e.Tap(core.A(0, -1))
	assert.ErrorIs(t, err, core.ErrOutOfBounds)
	_, err = e.Tap(core.A(2, 0))
	assert.ErrorIs(t, err, core.ErrNoItem)

	e.Close()
	_, err = e.Tap(core.A(1, 0))
	assert.ErrorIs(t, err, core.ErrClosed)
}

func TestTapPoolExhaustionLeavesColumnShort(t *testing.T) {
	p := testParams(3, 2, 2)
	pool, err := core.NewPool(2, 3)
	require.NoError(t, err)
	// Every random draw picks green, which is fully in use.
	e := newEngineWithPool(t, p, pool, core.WithRand(alwaysLast()))
	require.NoError(t, e.Load([][]core.Color{{R, R}, {G, G}, {G, R}}))
	rec := record(e)

	res, err := e.Tap(core.A(0, 1))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Size)
	assert.Zero(t, res.Spawned)
	assert.Equal(t, 2, res.Dropped)
	assert.Len(t, eventsOf[core.PoolExhaustedEvent](rec), 2)
	assert.Empty(t, e.Board().Column(0))
	assert.Equal(t, 2, pool.Free(R))
	require.NoError(t, e.Board().Verify())

	_, err = e.Tap(core.A(0, 0))
	assert.ErrorIs(t, err, core.ErrNoItem)

	e.Scheduler().Advance(frame)
	assert.False(t, e.LastScan().Deadlock)
}

func TestTapRefillUsesRandomColor(t *testing.T) {
	p := testParams(2, 2, 2)
	e := loaded(t, p, [][]core.Color{{G, G}, {R, R}}, core.WithRand(alwaysFirst()))

	_, err := e.Tap(core.A(0, 0))
	require.NoError(t, err)

	assert.Equal(t, [][]core.Color{{R, R}, {R, R}}, e.Snapshot().Columns)
}

func TestDeadlockDetection(t *testing.T) {
	p := testParams(4, 4, 2)
	e := newEngine(t, p)
	rec := record(e)
	require.NoError(t, e.Load(checkerboard(4, 4)))

	scan := e.LastScan()
	assert.True(t, scan.Deadlock)
	assert.False(t, scan.Unsolvable)
	assert.Equal(t, 16, scan.Blocks)
	assert.Equal(t, 1, scan.Largest)
	assert.True(t, e.ShufflePending())
	assert.Equal(t, 1, e.Scheduler().Pending())
	require.Len(t, eventsOf[core.DeadlockDetectedEvent](rec), 1)

	// A second scan does not stack another shuffle.
	e.Rescan()
	assert.Equal(t, 1, e.Scheduler().Pending())
}

func TestSingleBlockBreaksDeadlock(t *testing.T) {
	board := checkerboard(4, 4)
	// Joins (0,0), (0,2) and (1,1) through (0,1).
	board[0][1] = R
	e := loaded(t, testParams(4, 4, 2), board)

	scan := e.LastScan()
	assert.False(t, scan.Deadlock)
	assert.Equal(t, 4, scan.Largest)
	assert.False(t, e.ShufflePending())
	assert.Zero(t, e.Scheduler().Pending())
}

func TestUnsolvableDeadlockIsNotRescheduled(t *testing.T) {
	e := loaded(t, testParams(2, 2, 3), [][]core.Color{{R, G}, {B}})

	scan := e.LastScan()
	assert.True(t, scan.Deadlock)
	assert.True(t, scan.Unsolvable)
	assert.False(t, e.ShufflePending())
	assert.Zero(t, e.Scheduler().Pending())
}

func TestShuffleRunsAfterDelay(t *testing.T) {
	p := testParams(4, 4, 2)
	p.ShuffleDelay = 2 * time.Second
	e := newEngine(t, p, core.WithSeed(9))
	rec := record(e)
	require.NoError(t, e.Load(checkerboard(4, 4)))
	counts := colorCounts(e.Snapshot())

	for range 3 {
		e.Scheduler().Advance(500 * time.Millisecond)
	}
	assert.Empty(t, eventsOf[core.ShuffledEvent](rec))

	e.Scheduler().Advance(500 * time.Millisecond)
	shuffled := eventsOf[core.ShuffledEvent](rec)
	require.Len(t, shuffled, 1)
	assert.Equal(t, 1, shuffled[0].Attempt)

	e.Scheduler().RunUntilIdle(500*time.Millisecond, 10000)
	assert.False(t, e.LastScan().Deadlock)
	assert.False(t, e.ShufflePending())
	assert.Zero(t, e.Shuffles())
	assert.Equal(t, counts, colorCounts(e.Snapshot()))
	assertSettled(t, e)
	assertTiers(t, e)

	last := eventsOf[core.ShuffledEvent](rec)
	assert.True(t, last[len(last)-1].Resolved)
}

func TestPendingShuffleSkippedOnceResolved(t *testing.T) {
	e := loaded(t, testParams(4, 4, 2), checkerboard(4, 4), core.WithSeed(5))
	require.True(t, e.ShufflePending())

	for i := 0; e.LastScan().Deadlock; i++ {
		require.Less(t, i, 100, "manual shuffles never resolved the board")
		e.Shuffle()
	}
	require.Equal(t, 1, e.Scheduler().Pending())

	rec := record(e)
	before := e.Snapshot()
	e.Scheduler().RunUntilIdle(500*time.Millisecond, 10000)

	assert.Empty(t, eventsOf[core.ShuffledEvent](rec))
	assert.Equal(t, before.Columns, e.Snapshot().Columns)
	assert.False(t, e.ShufflePending())
	assert.False(t, e.LastScan().Deadlock)
}

func TestShuffleModesPreserveColors(t *testing.T) {
	for _, mode := range []core.ShuffleMode{core.ShuffleBiased, core.ShuffleUniform} {
		t.Run(string(mode), func(t *testing.T) {
			p := testParams(6, 6, 3)
			p.ShuffleMode = mode
			e := newEngine(t, p, core.WithSeed(21))
			require.NoError(t, e.Start())
			rec := record(e)
			counts := colorCounts(e.Snapshot())

			e.Shuffle()

			assert.Equal(t, counts, colorCounts(e.Snapshot()))
			assertSettled(t, e)
			assertTiers(t, e)
			shuffled := eventsOf[core.ShuffledEvent](rec)
			require.Len(t, shuffled, 1)
			assert.Equal(t, !e.LastScan().Deadlock, shuffled[0].Resolved)
		})
	}
}

func TestCloseCancelsPendingWork(t *testing.T) {
	p := testParams(4, 4, 2)
	e := newEngine(t, p)
	rec := record(e)
	require.NoError(t, e.Load(checkerboard(4, 4)))
	require.True(t, e.ShufflePending())

	e.Close()

	assert.True(t, e.Closed())
	assert.Zero(t, e.Scheduler().Pending())
	assert.Zero(t, e.Scheduler().Advance(10*time.Second))
	assert.Empty(t, eventsOf[core.ShuffledEvent](rec))
	assert.Zero(t, e.Events().Len())
	assert.Zero(t, e.Board().Len())
	for c := range p.Colors {
		assert.Equal(t, e.Pool().Capacity(), e.Pool().Free(core.Color(c)))
	}
	assert.ErrorIs(t, e.Start(), core.ErrClosed)

	// Closing twice is harmless.
	e.Close()
}

func TestSameSeedSameGame(t *testing.T) {
	p := testParams(8, 8, 4)
	a := newEngine(t, p, core.WithSeed(42))
	b := newEngine(t, p, core.WithSeed(42))
	require.NoError(t, a.Start())
	require.NoError(t, b.Start())
	require.Equal(t, a.Snapshot(), b.Snapshot())

	for _, addr := range []core.Address{core.A(0, 0), core.A(3, 4), core.A(7, 7), core.A(5, 1)} {
		ra, errA := a.Tap(addr)
		rb, errB := b.Tap(addr)
		require.NoError(t, errA)
		require.NoError(t, errB)
		assert.Equal(t, ra, rb)
		a.Scheduler().RunUntilIdle(frame, 1000)
		b.Scheduler().RunUntilIdle(frame, 1000)
		require.Equal(t, a.Snapshot(), b.Snapshot())
	}
}

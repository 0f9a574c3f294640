package core_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-collapse/internal/games/collapse/core"
)

const (
	R = core.ColorRed
	G = core.ColorGreen
	B = core.ColorBlue
)

// fixedSource makes every Intn call return the same extreme value, which is
// n-1 for powers of two when v is MaxInt64 and 0 when v is 0.
type fixedSource struct{ v int64 }

func (s fixedSource) Int63() int64 { return s.v }
func (fixedSource) Seed(int64)     {}

func alwaysLast() *rand.Rand  { return rand.New(fixedSource{v: math.MaxInt64}) }
func alwaysFirst() *rand.Rand { return rand.New(fixedSource{v: 0}) }

func testParams(cols, rows, colors int) core.Params {
	p := core.DefaultParams()
	p.Columns = cols
	p.Rows = rows
	p.Colors = colors
	return p
}

func testViewport() core.Viewport {
	return core.Viewport{BottomLeft: core.V(0, 0), TopRight: core.V(11, 11)}
}

func newLayout(t *testing.T, p core.Params) *core.Layout {
	t.Helper()
	l, err := core.NewLayout(p, testViewport(), core.DefaultMargins())
	require.NoError(t, err)
	return l
}

// newEngine builds an engine over a pool sized from params.
func newEngine(t *testing.T, p core.Params, opts ...core.Option) *core.Engine {
	t.Helper()
	pool, err := core.NewPoolFor(p)
	require.NoError(t, err)
	return newEngineWithPool(t, p, pool, opts...)
}

func newEngineWithPool(t *testing.T, p core.Params, pool *core.Pool, opts ...core.Option) *core.Engine {
	t.Helper()
	e, err := core.NewEngine(p, newLayout(t, p), pool, opts...)
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

// loaded builds an engine with an explicit column-major layout.
func loaded(t *testing.T, p core.Params, columns [][]core.Color, opts ...core.Option) *core.Engine {
	t.Helper()
	e := newEngine(t, p, opts...)
	require.NoError(t, e.Load(columns))
	return e
}

// checkerboard returns a cols x rows grid where no two neighbours match.
func checkerboard(cols, rows int) [][]core.Color {
	out := make([][]core.Color, cols)
	for i := range out {
		out[i] = make([]core.Color, rows)
		for j := range out[i] {
			if (i+j)%2 == 0 {
				out[i][j] = R
			} else {
				out[i][j] = G
			}
		}
	}
	return out
}

func colorCounts(s core.Snapshot) map[core.Color]int {
	counts := make(map[core.Color]int)
	for _, col := range s.Columns {
		for _, c := range col {
			counts[c]++
		}
	}
	return counts
}

// recorder collects engine events by type.
type recorder struct {
	events []core.Event
}

func record(e *core.Engine) *recorder {
	r := &recorder{}
	e.Events().Subscribe(func(ev core.Event) { r.events = append(r.events, ev) })
	return r
}

func eventsOf[T core.Event](r *recorder) []T {
	var out []T
	for _, ev := range r.events {
		if v, ok := ev.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

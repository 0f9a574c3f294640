package collapse

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-collapse/internal/games/collapse/core"
)

// Strategy picks the next cell for headless autoplay.
type Strategy string

const (
	// StrategyRandom taps a random occupied cell.
	StrategyRandom Strategy = "random"
	// StrategyGreedy taps the first cell of the largest block on the board.
	StrategyGreedy Strategy = "greedy"
)

// ParseStrategy validates a strategy name. The empty string means random.
func ParseStrategy(s string) (Strategy, bool) {
	switch Strategy(s) {
	case "", StrategyRandom:
		return StrategyRandom, true
	case StrategyGreedy:
		return StrategyGreedy, true
	default:
		return "", false
	}
}

// SimOptions configures a headless run.
type SimOptions struct {
	Seed     int64
	Taps     int
	Strategy Strategy
	TickRate int
	Logger   *log.Logger
}

// SimReport summarises a headless run.
type SimReport struct {
	Stats
	Score      int
	Frames     int
	Unsolvable bool
	Stalled    bool // deferred work never drained
	Pool       core.PoolStats
	Final      core.Snapshot
}

// maxIdleTime bounds the simulated time spent draining work after one tap.
const maxIdleTime = time.Minute

// Simulate plays params headlessly, checking the board invariants after every
// tap. It stops after opts.Taps taps, or earlier if the board becomes
// unsolvable or stalls.
func Simulate(params core.Params, opts SimOptions) (SimReport, error) {
	var rep SimReport

	vp := core.Viewport{
		BottomLeft: core.V(0, 0),
		TopRight:   core.V(float64(params.Columns)+1, float64(params.Rows)+1),
	}
	layout, err := core.NewLayout(params, vp, core.DefaultMargins())
	if err != nil {
		return rep, err
	}
	pool, err := core.NewPoolFor(params)
	if err != nil {
		return rep, err
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	engineOpts := []core.Option{core.WithRand(rng)}
	if opts.Logger != nil {
		engineOpts = append(engineOpts, core.WithLogger(opts.Logger))
	}
	engine, err := core.NewEngine(params, layout, pool, engineOpts...)
	if err != nil {
		return rep, err
	}
	defer engine.Close()

	engine.Events().Subscribe(func(ev core.Event) {
		switch ev := ev.(type) {
		case core.DeadlockDetectedEvent:
			rep.Deadlocks++
			rep.Unsolvable = rep.Unsolvable || ev.Unsolvable
		case core.ShuffledEvent:
			rep.Shuffles++
		case core.PoolExhaustedEvent:
			rep.Dropped++
		}
	})

	if err := engine.Start(); err != nil {
		return rep, err
	}

	dt := frameDuration(opts.TickRate)
	maxFrames := int(maxIdleTime / dt)
	drain := func() {
		rep.Frames += engine.Scheduler().RunUntilIdle(dt, maxFrames)
		rep.Stalled = engine.Scheduler().Pending() > 0
	}

	drain()
	for rep.Taps < opts.Taps && !rep.Unsolvable && !rep.Stalled {
		a, ok := pick(engine, rng, opts.Strategy)
		if !ok {
			break
		}
		res, err := engine.Tap(a)
		if err != nil {
			return rep, fmt.Errorf("sim: tap %s: %w", a, err)
		}
		rep.Taps++
		if res.Cleared() {
			rep.Moves++
			rep.Cleared += res.Size
			rep.Largest = max(rep.Largest, res.Size)
			rep.Score += Score(res.Size)
		}
		if err := engine.Board().Verify(); err != nil {
			return rep, fmt.Errorf("sim: after tap %d at %s: %w", rep.Taps, a, err)
		}
		drain()
	}

	rep.Pool = pool.Stats()
	rep.Final = engine.Snapshot()
	return rep, nil
}

func pick(e *core.Engine, rng *rand.Rand, s Strategy) (core.Address, bool) {
	addrs := e.Board().Addresses()
	if len(addrs) == 0 {
		return core.Address{}, false
	}
	if s != StrategyGreedy {
		return addrs[rng.Intn(len(addrs))], true
	}

	best, bestSize := addrs[0], 0
	for _, a := range addrs {
		if n := e.DiscoverBlock(a, true).Size(); n > bestSize {
			best, bestSize = a, n
		}
	}
	return best, true
}

// Package collapse provides the Collapse tile-matching puzzle for the platform.
// Tapping a block of two or more same-coloured tiles clears it; new tiles
// drop into the emptied columns and a stuck board is reshuffled automatically.
package collapse

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-collapse/internal/config"
	platformcore "github.com/vovakirdan/tui-collapse/internal/core"
	"github.com/vovakirdan/tui-collapse/internal/games/collapse/core"
	"github.com/vovakirdan/tui-collapse/internal/registry"
)

// Variant describes one registered flavour of the game.
type Variant struct {
	ID          string
	Title       string
	Description string

	// Apply adjusts the loaded configuration before the difficulty preset.
	Apply func(cfg *config.CollapseConfig)
}

// Registered variants.
var (
	Classic = Variant{
		ID:          "collapse",
		Title:       "Collapse",
		Description: "Clear blocks of matching tiles with a limited number of moves",
	}
	Zen = Variant{
		ID:          "collapse_zen",
		Title:       "Collapse (Zen)",
		Description: "Endless board, no move limit",
		Apply: func(cfg *config.CollapseConfig) {
			cfg.Gameplay.Moves = 0
		},
	}
	Mini = Variant{
		ID:          "collapse_mini",
		Title:       "Collapse (Mini)",
		Description: "5x5 board with three colours and 20 moves",
		Apply: func(cfg *config.CollapseConfig) {
			cfg.Board.Columns = 5
			cfg.Board.Rows = 5
			cfg.Board.Colors = 3
			cfg.Gameplay.Moves = 20
		},
	}
)

// Notice shown in the footer for this many ticks.
const noticeTicks = 90

// Game implements registry.Game on top of the collapse engine.
type Game struct {
	variant Variant
	preset  config.DifficultyPreset // overrides the package preset when set
	cfg     config.CollapseConfig
	rng     *rand.Rand
	engine  *core.Engine
	view    *boardView
	dt      time.Duration

	// Screen dimensions
	screenW int
	screenH int

	cursor core.Address
	parked [][]core.Color // tiles kept while the window is too small

	tick     uint64
	score    int
	moves    int // moves left, -1 when unlimited
	stats    Stats
	cleared  int // items cleared during the current Step
	notice   string
	noticeAt uint64

	gameOver bool
	stuck    bool // board cannot be resolved by shuffling
	paused   bool
	tooSmall bool
	err      error
}

// Stats are the running totals for the current session.
type Stats struct {
	Taps      int // every tap that hit a tile
	Moves     int // taps that cleared a block
	Cleared   int // items removed
	Largest   int // largest block cleared
	Deadlocks int
	Shuffles  int
	Dropped   int // replacements lost to pool exhaustion
}

// Package-level variables for configuration
var (
	configPath string
	difficulty = config.DifficultyNormal
	logger     = log.New(io.Discard)
)

// SetConfigPath sets a custom config file path. Empty means use the search order.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset applied on every Reset.
func SetDifficultyPreset(preset config.DifficultyPreset) {
	difficulty = preset
}

// SetLogger sets the logger handed to new engines.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

func init() {
	for _, v := range Variants() {
		registry.Register(v.ID, func() registry.Game {
			return New(v)
		})
	}
}

// New creates a game for the given variant.
func New(v Variant) *Game {
	return &Game{variant: v}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return g.variant.ID
}

// Title returns the display name.
func (g *Game) Title() string {
	return g.variant.Title
}

// Description returns a one-line summary for menus.
func (g *Game) Description() string {
	return g.variant.Description
}

// SetDifficulty selects the preset for this game only. It applies from the
// next Reset.
func (g *Game) SetDifficulty(name string) error {
	p, ok := config.ParsePreset(name)
	if !ok {
		return fmt.Errorf("collapse: unknown difficulty %q", name)
	}
	g.preset = p
	return nil
}

// Reset loads configuration and starts a fresh board.
func (g *Game) Reset(cfg platformcore.RuntimeConfig) {
	g.release()

	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.dt = frameDuration(cfg.TickRate)
	g.tick = 0
	g.score = 0
	g.stats = Stats{}
	g.cleared = 0
	g.notice = ""
	g.gameOver = false
	g.stuck = false
	g.paused = false
	g.err = nil

	g.cfg, g.err = g.loadConfig()
	if g.err != nil {
		return
	}

	g.moves = g.cfg.Gameplay.Moves
	if g.moves <= 0 {
		g.moves = -1
	}

	params := g.cfg.ToParams()
	g.cursor = core.A(params.Columns/2, params.Rows/2)
	g.parked = nil
	g.err = g.build(nil)
}

func (g *Game) loadConfig() (config.CollapseConfig, error) {
	preset := difficulty
	if g.preset != "" {
		preset = g.preset
	}
	return VariantConfig(g.variant, preset)
}

// VariantConfig resolves the configuration a new game of v would use with
// the given preset, honouring SetConfigPath.
func VariantConfig(v Variant, preset config.DifficultyPreset) (config.CollapseConfig, error) {
	cfg, err := config.LoadCollapse(configPath)
	if err != nil {
		return cfg, err
	}
	if v.Apply != nil {
		v.Apply(&cfg)
	}
	config.ApplyCollapsePreset(&cfg, preset)
	return cfg, cfg.ToParams().Validate()
}

// Variants returns every registered variant in registration order.
func Variants() []Variant {
	return []Variant{Classic, Zen, Mini}
}

// LookupVariant finds a variant by ID.
func LookupVariant(id string) (Variant, bool) {
	for _, v := range Variants() {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// build creates the layout, pool and engine for the current screen size.
// A nil columns argument fills the board at random, otherwise the given
// colours are placed as they are.
func (g *Game) build(columns [][]core.Color) error {
	params := g.cfg.ToParams()

	view, err := newBoardView(params, g.screenW, g.screenH)
	if err != nil {
		g.tooSmall = true
		g.parked = columns
		return nil
	}
	g.view = view
	g.tooSmall = view.tooSmall()
	if g.tooSmall {
		g.parked = columns
		return nil
	}

	pool, err := core.NewPoolFor(params)
	if err != nil {
		return err
	}
	engine, err := core.NewEngine(params, view.layout, pool,
		core.WithRand(g.rng),
		core.WithLogger(logger.With("game", g.variant.ID)),
	)
	if err != nil {
		return err
	}
	engine.Events().Subscribe(g.onEvent)

	if columns == nil {
		err = engine.Start()
	} else {
		err = engine.Load(columns)
	}
	if err != nil {
		engine.Close()
		return err
	}
	g.engine = engine
	return nil
}

// onEvent tracks the engine notifications the HUD reports on.
func (g *Game) onEvent(ev core.Event) {
	switch ev := ev.(type) {
	case core.DeadlockDetectedEvent:
		g.stats.Deadlocks++
		if ev.Unsolvable {
			g.stuck = true
			g.setNotice("No moves left")
			return
		}
		g.setNotice("No moves, shuffling...")
	case core.ShuffledEvent:
		g.stats.Shuffles++
		if ev.Resolved {
			g.setNotice("Shuffled")
		}
	case core.PoolExhaustedEvent:
		g.stats.Dropped++
	}
}

func (g *Game) setNotice(msg string) {
	g.notice = msg
	g.noticeAt = g.tick
}

// Step advances the game by one tick.
func (g *Game) Step(in platformcore.InputFrame) platformcore.StepResult {
	g.tick++
	g.cleared = 0

	if g.err != nil || g.tooSmall || g.engine == nil {
		return g.result()
	}

	// Handle pause toggle
	if in.Has(platformcore.ActionPause) && !g.gameOver {
		g.paused = !g.paused
	}
	if g.paused || g.gameOver {
		return g.result()
	}

	g.moveCursor(in)

	switch {
	case in.HasPointer:
		if a, ok := g.view.cellAt(in.Pointer.X, in.Pointer.Y); ok {
			g.cursor = a
			g.tap(a)
		}
	case in.Has(platformcore.ActionSelect):
		g.tap(g.cursor)
	}

	g.engine.Scheduler().Advance(g.dt)

	if g.stuck || g.moves == 0 {
		g.gameOver = true
	}
	if g.notice != "" && g.tick-g.noticeAt > noticeTicks {
		g.notice = ""
	}
	return g.result()
}

func (g *Game) result() platformcore.StepResult {
	return platformcore.StepResult{State: g.State(), Cleared: g.cleared}
}

// moveCursor moves the selection, row 0 being the bottom of the board.
func (g *Game) moveCursor(in platformcore.InputFrame) {
	p := g.engine.Params()
	if in.Has(platformcore.ActionLeft) {
		g.cursor.Col--
	}
	if in.Has(platformcore.ActionRight) {
		g.cursor.Col++
	}
	if in.Has(platformcore.ActionUp) {
		g.cursor.Row++
	}
	if in.Has(platformcore.ActionDown) {
		g.cursor.Row--
	}
	g.cursor.Col = platformcore.Clamp(g.cursor.Col, 0, p.Columns-1)
	g.cursor.Row = platformcore.Clamp(g.cursor.Row, 0, p.Rows-1)
}

// tap forwards a selection to the engine and scores it.
// Only taps that clear a block consume a move.
func (g *Game) tap(a core.Address) {
	res, err := g.engine.Tap(a)
	if errors.Is(err, core.ErrNoItem) {
		return
	}
	if err != nil {
		logger.Error("tap failed", "at", a, "error", err)
		return
	}
	g.stats.Taps++
	if !res.Cleared() {
		return
	}

	g.score += Score(res.Size)
	g.cleared = res.Size
	g.stats.Moves++
	g.stats.Cleared += res.Size
	g.stats.Largest = max(g.stats.Largest, res.Size)
	if g.moves > 0 {
		g.moves--
	}
}

// Score returns the points for clearing a block of n tiles.
func Score(n int) int {
	if n < 2 {
		return 0
	}
	return n * n
}

// Resize rebuilds the board geometry for a new terminal size, keeping the
// tiles, score and moves of the running game.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	if g.err != nil {
		return
	}

	columns := g.parked
	if g.engine != nil {
		columns = g.engine.Snapshot().Columns
	}
	g.release()
	g.parked = nil
	g.err = g.build(columns)
}

// Close releases the engine and its pending work.
func (g *Game) Close() {
	g.release()
}

func (g *Game) release() {
	if g.engine != nil {
		g.engine.Close()
		g.engine = nil
	}
}

// State returns the current game state.
func (g *Game) State() platformcore.GameState {
	return platformcore.GameState{
		Score:    g.score,
		Moves:    g.moves,
		GameOver: g.gameOver,
		Paused:   g.paused || g.tooSmall,
	}
}

// Summary reports the details stored with a final score.
func (g *Game) Summary() registry.Summary {
	return registry.Summary{LargestBlock: g.stats.Largest, Moves: g.stats.Moves}
}

// Stats returns the session totals.
func (g *Game) Stats() Stats {
	return g.stats
}

// Err returns the configuration or engine error that stopped the game, if any.
func (g *Game) Err() error {
	return g.err
}

func frameDuration(tickRate int) time.Duration {
	if tickRate <= 0 {
		tickRate = platformcore.DefaultConfig().TickRate
	}
	return time.Second / time.Duration(tickRate)
}

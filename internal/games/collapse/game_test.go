package collapse

import (
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-collapse/internal/config"
	platformcore "github.com/vovakirdan/tui-collapse/internal/core"
	"github.com/vovakirdan/tui-collapse/internal/games/collapse/core"
	"github.com/vovakirdan/tui-collapse/internal/registry"
)

func testConfig(seed int64) platformcore.RuntimeConfig {
	return platformcore.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     seed,
	}
}

// newTestGame starts a game that only sees the embedded default config.
func newTestGame(t *testing.T, v Variant, seed int64) *Game {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	SetConfigPath("")
	SetDifficultyPreset(config.DifficultyNormal)

	g := New(v)
	g.Reset(testConfig(seed))
	t.Cleanup(g.Close)
	if err := g.Err(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	return g
}

// pairBoard is a 5x5 board whose only block larger than one is the red
// pair at (0,0) and (0,1).
func pairBoard() [][]core.Color {
	cols := make([][]core.Color, 5)
	for c := range cols {
		cols[c] = make([]core.Color, 5)
		for r := range cols[c] {
			if (c+r)%2 == 0 {
				cols[c][r] = core.ColorGreen
			} else {
				cols[c][r] = core.ColorBlue
			}
		}
	}
	cols[0][0] = core.ColorRed
	cols[0][1] = core.ColorRed
	return cols
}

func loadBoard(t *testing.T, g *Game, columns [][]core.Color) {
	t.Helper()
	g.release()
	if err := g.build(columns); err != nil {
		t.Fatalf("build failed: %v", err)
	}
}

func selectFrame() platformcore.InputFrame {
	in := platformcore.NewInputFrame()
	in.Set(platformcore.ActionSelect)
	return in
}

func TestVariantsRegistered(t *testing.T) {
	tests := []struct {
		id    string
		title string
	}{
		{"collapse", "Collapse"},
		{"collapse_zen", "Collapse (Zen)"},
		{"collapse_mini", "Collapse (Mini)"},
	}

	for _, tt := range tests {
		if !registry.Exists(tt.id) {
			t.Errorf("variant %q not registered", tt.id)
			continue
		}
		g, err := registry.Create(tt.id)
		if err != nil {
			t.Fatalf("Create(%q) failed: %v", tt.id, err)
		}
		if g.ID() != tt.id || g.Title() != tt.title {
			t.Errorf("Create(%q) = %s/%s", tt.id, g.ID(), g.Title())
		}
		if d, ok := g.(registry.Describer); !ok || d.Description() == "" {
			t.Errorf("variant %q should describe itself", tt.id)
		}
	}
}

func TestResetFillsBoard(t *testing.T) {
	g := newTestGame(t, Classic, 42)

	if !g.engine.Board().Full() {
		t.Error("board should be full after Reset")
	}
	state := g.State()
	if state.Score != 0 || state.Moves != 40 || state.GameOver || state.Paused {
		t.Errorf("unexpected initial state %+v", state)
	}
	if g.cursor != core.A(4, 4) {
		t.Errorf("cursor should start in the middle, got %s", g.cursor)
	}
}

func TestVariantParams(t *testing.T) {
	mini := newTestGame(t, Mini, 1)
	p := mini.engine.Params()
	if p.Columns != 5 || p.Rows != 5 || p.Colors != 3 {
		t.Errorf("mini params = %dx%d/%d, want 5x5/3", p.Columns, p.Rows, p.Colors)
	}
	if mini.State().Moves != 20 {
		t.Errorf("mini moves = %d, want 20", mini.State().Moves)
	}

	zen := newTestGame(t, Zen, 1)
	if zen.State().Moves != -1 {
		t.Errorf("zen moves = %d, want unlimited", zen.State().Moves)
	}
}

func TestDifficultyPresetApplied(t *testing.T) {
	g := newTestGame(t, Classic, 1)
	SetDifficultyPreset(config.DifficultyHard)
	t.Cleanup(func() { SetDifficultyPreset(config.DifficultyNormal) })

	g.Reset(testConfig(1))
	if g.engine.Params().Colors != 5 {
		t.Errorf("hard colors = %d, want 5", g.engine.Params().Colors)
	}
	if g.State().Moves != 30 {
		t.Errorf("hard moves = %d, want 30", g.State().Moves)
	}
}

func TestCursorClamps(t *testing.T) {
	g := newTestGame(t, Mini, 1)

	for range 10 {
		in := platformcore.NewInputFrame()
		in.Set(platformcore.ActionLeft)
		in.Set(platformcore.ActionUp)
		g.Step(in)
	}
	if g.cursor != core.A(0, 4) {
		t.Errorf("cursor = %s, want top-left (0,4)", g.cursor)
	}

	for range 10 {
		in := platformcore.NewInputFrame()
		in.Set(platformcore.ActionRight)
		in.Set(platformcore.ActionDown)
		g.Step(in)
	}
	if g.cursor != core.A(4, 0) {
		t.Errorf("cursor = %s, want bottom-right (4,0)", g.cursor)
	}
}

func TestTapClearsBlock(t *testing.T) {
	g := newTestGame(t, Mini, 1)
	loadBoard(t, g, pairBoard())
	g.cursor = core.A(0, 0)

	res := g.Step(selectFrame())

	if res.Cleared != 2 {
		t.Errorf("Cleared = %d, want 2", res.Cleared)
	}
	if res.State.Score != 4 {
		t.Errorf("Score = %d, want 4", res.State.Score)
	}
	if res.State.Moves != 19 {
		t.Errorf("Moves = %d, want 19", res.State.Moves)
	}
	if !g.engine.Board().Full() {
		t.Error("cleared cells should be refilled")
	}
	if s := g.Stats(); s.Taps != 1 || s.Moves != 1 || s.Largest != 2 {
		t.Errorf("unexpected stats %+v", s)
	}
}

func TestSingleTileTapIsFree(t *testing.T) {
	g := newTestGame(t, Mini, 1)
	loadBoard(t, g, pairBoard())
	g.cursor = core.A(2, 2)

	res := g.Step(selectFrame())

	if res.Cleared != 0 || res.State.Score != 0 || res.State.Moves != 20 {
		t.Errorf("single tile tap changed state: %+v cleared=%d", res.State, res.Cleared)
	}
	if g.Stats().Taps != 1 {
		t.Errorf("Taps = %d, want 1", g.Stats().Taps)
	}
}

func TestPointerTap(t *testing.T) {
	g := newTestGame(t, Mini, 1)
	loadBoard(t, g, pairBoard())

	x, y := g.view.tileRect(g.view.layout.CellPosition(core.A(0, 1))).Center()
	in := platformcore.NewInputFrame()
	in.Click(x, y)
	res := g.Step(in)

	if g.cursor != core.A(0, 1) {
		t.Errorf("cursor should follow the pointer, got %s", g.cursor)
	}
	if res.State.Score != 4 {
		t.Errorf("Score = %d, want 4", res.State.Score)
	}
}

func TestPointerOutsideBoardIgnored(t *testing.T) {
	g := newTestGame(t, Mini, 1)
	loadBoard(t, g, pairBoard())
	before := g.cursor

	in := platformcore.NewInputFrame()
	in.Click(0, 0) // HUD row
	g.Step(in)

	if g.cursor != before || g.Stats().Taps != 0 {
		t.Error("clicks outside the board should do nothing")
	}
}

func TestGameOverWhenMovesRunOut(t *testing.T) {
	g := newTestGame(t, Mini, 1)
	loadBoard(t, g, pairBoard())
	g.moves = 1
	g.cursor = core.A(0, 0)

	res := g.Step(selectFrame())
	if !res.State.GameOver {
		t.Fatal("game should end when the last move is used")
	}
	if res.State.Moves != 0 {
		t.Errorf("Moves = %d, want 0", res.State.Moves)
	}

	score := g.score
	g.Step(selectFrame())
	if g.score != score {
		t.Error("taps after game over should be ignored")
	}
}

func TestZenNeverRunsOut(t *testing.T) {
	g := newTestGame(t, Zen, 1)
	// The green pair left behind keeps the board solvable whatever refills
	loadBoard(t, g, [][]core.Color{
		{core.ColorRed, core.ColorRed, core.ColorGreen}, {core.ColorGreen}, {}, {}, {}, {}, {}, {},
	})
	g.cursor = core.A(0, 0)

	res := g.Step(selectFrame())
	if res.State.Moves != -1 || res.State.GameOver {
		t.Errorf("zen state after tap = %+v", res.State)
	}
}

func TestPauseBlocksInput(t *testing.T) {
	g := newTestGame(t, Mini, 1)
	loadBoard(t, g, pairBoard())
	g.cursor = core.A(0, 0)

	in := platformcore.NewInputFrame()
	in.Set(platformcore.ActionPause)
	g.Step(in)
	if !g.State().Paused {
		t.Fatal("game should be paused")
	}

	frame := g.engine.Scheduler().Frame()
	g.Step(selectFrame())
	if g.score != 0 {
		t.Error("taps while paused should be ignored")
	}
	if g.engine.Scheduler().Frame() != frame {
		t.Error("scheduler should not advance while paused")
	}

	g.Step(in)
	if g.State().Paused {
		t.Error("second pause should resume")
	}
}

func TestViewCellRoundTrip(t *testing.T) {
	g := newTestGame(t, Classic, 1)

	for _, a := range g.engine.Board().Addresses() {
		r := g.view.tileRect(g.view.layout.CellPosition(a))
		if r.W < 2 || r.H < 1 {
			t.Fatalf("tile %s too small: %+v", a, r)
		}
		x, y := r.Center()
		got, ok := g.view.cellAt(x, y)
		if !ok || got != a {
			t.Errorf("cellAt(center of %s) = %s, %v", a, got, ok)
		}
	}
}

func TestTilesDoNotOverlap(t *testing.T) {
	g := newTestGame(t, Classic, 1)
	owner := map[platformcore.Point]core.Address{}

	for _, a := range g.engine.Board().Addresses() {
		r := g.view.tileRect(g.view.layout.CellPosition(a))
		for y := r.Y; y < r.Bottom(); y++ {
			for x := r.X; x < r.Right(); x++ {
				p := platformcore.Point{X: x, Y: y}
				if prev, ok := owner[p]; ok {
					t.Fatalf("cell %v covered by %s and %s", p, prev, a)
				}
				owner[p] = a
			}
		}
	}
}

func TestTooSmallThenResize(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	g := New(Classic)
	t.Cleanup(g.Close)
	g.Reset(platformcore.RuntimeConfig{ScreenW: 10, ScreenH: 5, TickRate: 60, Seed: 1})

	if !g.State().Paused {
		t.Error("tiny window should pause the game")
	}
	if g.Snapshot().State != StatePausedSmall {
		t.Errorf("State = %s, want %s", g.Snapshot().State, StatePausedSmall)
	}

	g.Resize(80, 24)
	if g.tooSmall || g.engine == nil || !g.engine.Board().Full() {
		t.Error("resize to a usable size should start the board")
	}
}

func TestResizeKeepsBoard(t *testing.T) {
	g := newTestGame(t, Mini, 7)
	loadBoard(t, g, pairBoard())
	g.cursor = core.A(0, 0)
	g.Step(selectFrame())

	before := g.Snapshot()
	g.Resize(120, 40)
	after := g.Snapshot()

	if !reflect.DeepEqual(before.Board.Columns, after.Board.Columns) {
		t.Errorf("resize changed the board:\n%s\nvs\n%s", before.Board, after.Board)
	}
	if after.Score != before.Score || after.Moves != before.Moves || after.Cursor != before.Cursor {
		t.Errorf("resize changed the session: %+v vs %+v", before, after)
	}

	// Too small keeps the tiles until the window grows again
	g.Resize(8, 4)
	g.Resize(80, 24)
	if !reflect.DeepEqual(before.Board.Columns, g.Snapshot().Board.Columns) {
		t.Error("tiles should survive a too-small window")
	}
}

func TestDeterminism(t *testing.T) {
	g1 := newTestGame(t, Classic, 12345)
	g2 := newTestGame(t, Classic, 12345)

	for range 20 {
		a, ok := pick(g1.engine, g1.rng, StrategyGreedy)
		if !ok {
			break
		}
		g1.cursor, g2.cursor = a, a
		g1.Step(selectFrame())
		g2.Step(selectFrame())
	}

	if !reflect.DeepEqual(g1.Snapshot(), g2.Snapshot()) {
		t.Errorf("same seed and input should produce the same game:\n%s\nvs\n%s",
			g1.Snapshot().Board, g2.Snapshot().Board)
	}
}

func TestConfigErrorShown(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	SetConfigPath("/nonexistent/collapse.yaml")
	t.Cleanup(func() { SetConfigPath("") })

	g := New(Classic)
	g.Reset(testConfig(1))
	t.Cleanup(g.Close)

	if g.Err() == nil {
		t.Fatal("missing custom config should be reported")
	}
	if g.Snapshot().State != StateError {
		t.Errorf("State = %s, want %s", g.Snapshot().State, StateError)
	}

	screen := platformcore.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Cannot start game") {
		t.Error("config error should be rendered")
	}
	g.Step(selectFrame()) // must not panic without an engine
}

func TestRender(t *testing.T) {
	g := newTestGame(t, Mini, 1)
	loadBoard(t, g, pairBoard())
	g.cursor = core.A(0, 0)

	screen := platformcore.NewScreen(80, 24)
	g.Render(screen)

	if !strings.Contains(screen.Row(0), "Score: 0") || !strings.Contains(screen.Row(0), "Moves: 20") {
		t.Errorf("HUD missing score or moves: %q", screen.Row(0))
	}

	r := g.view.tileRect(g.view.layout.CellPosition(core.A(0, 0)))
	cy := r.Y + r.H/2
	if screen.Get(r.X, cy) != '[' {
		t.Errorf("cursor bracket missing at (%d,%d): %q", r.X, cy, screen.Get(r.X, cy))
	}
	cell := screen.GetCell(r.X+1, cy)
	if cell.Rune != tierGlyphs[core.Tier0] || cell.Color != platformcore.ColorRed {
		t.Errorf("red tile rendered as %q/%d", cell.Rune, cell.Color)
	}
}

func TestRenderGameOver(t *testing.T) {
	g := newTestGame(t, Mini, 1)
	g.gameOver = true

	screen := platformcore.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Game Over") {
		t.Error("game over overlay missing")
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{0, 0},
		{1, 0},
		{2, 4},
		{5, 25},
		{10, 100},
	}
	for _, tt := range tests {
		if got := Score(tt.n); got != tt.want {
			t.Errorf("Score(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestTileColor(t *testing.T) {
	tests := []struct {
		color core.Color
		tier  core.Tier
		want  platformcore.Color
	}{
		{core.ColorRed, core.Tier0, platformcore.ColorRed},
		{core.ColorRed, core.Tier2, platformcore.ColorRed},
		{core.ColorRed, core.Tier3, platformcore.ColorBrightRed},
		{core.ColorPurple, core.Tier1, platformcore.ColorMagenta},
		{core.ColorPink, core.Tier3, platformcore.ColorBrightPink},
	}
	for _, tt := range tests {
		if got := TileColor(tt.color, tt.tier); got != tt.want {
			t.Errorf("TileColor(%s, %s) = %d, want %d", tt.color, tt.tier, got, tt.want)
		}
	}
}

func TestSetDifficultyPerGame(t *testing.T) {
	g := newTestGame(t, Classic, 1)

	if err := g.SetDifficulty("easy"); err != nil {
		t.Fatalf("SetDifficulty failed: %v", err)
	}
	g.Reset(testConfig(1))
	if g.engine.Params().Colors != 3 || g.State().Moves != 50 {
		t.Errorf("easy game = %d colors / %d moves, want 3 / 50", g.engine.Params().Colors, g.State().Moves)
	}

	other := newTestGame(t, Classic, 1)
	if other.engine.Params().Colors != 4 {
		t.Error("per-game difficulty should not leak into other games")
	}

	if err := g.SetDifficulty("brutal"); err == nil {
		t.Error("unknown difficulty should be rejected")
	}
}

func TestSummary(t *testing.T) {
	g := newTestGame(t, Mini, 1)
	loadBoard(t, g, pairBoard())
	g.cursor = core.A(0, 0)
	g.Step(selectFrame())

	s := g.Summary()
	if s.LargestBlock != 2 || s.Moves != 1 {
		t.Errorf("Summary = %+v, want largest 2 after 1 move", s)
	}
}

func TestLookupVariantConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	SetConfigPath("")

	v, ok := LookupVariant("collapse_mini")
	if !ok {
		t.Fatal("collapse_mini not found")
	}
	if _, ok := LookupVariant("collapse_huge"); ok {
		t.Error("unknown variant should not be found")
	}

	cfg, err := VariantConfig(v, config.DifficultyHard)
	if err != nil {
		t.Fatalf("VariantConfig failed: %v", err)
	}
	if cfg.Board.Columns != 5 || cfg.Board.Colors != 4 || cfg.Gameplay.Moves != 10 {
		t.Errorf("mini/hard board = %+v, moves %d", cfg.Board, cfg.Gameplay.Moves)
	}
}

package collapse

import "github.com/vovakirdan/tui-collapse/internal/games/collapse/core"

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StatePaused      GameStateType = "paused"
	StateGameOver    GameStateType = "game_over"
	StateError       GameStateType = "error"
	StatePausedSmall GameStateType = "paused_small_window"
)

// Snapshot captures the complete game state for determinism testing.
type Snapshot struct {
	Tick   uint64
	ID     string
	Score  int
	Moves  int
	Cursor core.Address
	Stats  Stats
	Board  core.Snapshot
	State  GameStateType
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.err != nil:
		state = StateError
	case g.tooSmall:
		state = StatePausedSmall
	case g.gameOver:
		state = StateGameOver
	case g.paused:
		state = StatePaused
	}

	snap := Snapshot{
		Tick:   g.tick,
		ID:     g.variant.ID,
		Score:  g.score,
		Moves:  g.moves,
		Cursor: g.cursor,
		Stats:  g.stats,
		State:  state,
	}
	if g.engine != nil {
		snap.Board = g.engine.Snapshot()
	}
	return snap
}

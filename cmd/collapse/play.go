package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-collapse/internal/config"
	"github.com/vovakirdan/tui-collapse/internal/core"
	"github.com/vovakirdan/tui-collapse/internal/games/collapse"
	"github.com/vovakirdan/tui-collapse/internal/platform/tui"
	"github.com/vovakirdan/tui-collapse/internal/registry"
	"github.com/vovakirdan/tui-collapse/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a variant",
	Long: `Start playing the specified variant.

Controls:
  Arrows/WASD/hjkl - Move cursor
  Space/Enter      - Tap the tile under the cursor
  Mouse click      - Tap the clicked tile
  P                - Pause
  R                - Restart (after game over)
  Esc/B            - Back (when paused or over)
  Ctrl+S           - Save a screenshot
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - One colour fewer, 10 extra moves
  normal - Configured values
  hard   - One colour more, 10 fewer moves

Examples:
  collapse play collapse
  collapse play collapse_zen --difficulty easy
  collapse play collapse --config ./my-collapse.toml`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom config (YAML or TOML)")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
}

// applyGameFlags validates --difficulty and passes it with --config to the
// game package before any game is created.
func applyGameFlags() error {
	preset, ok := config.ParsePreset(flagDifficulty)
	if !ok {
		return fmt.Errorf("unknown difficulty %q (want easy, normal or hard)", flagDifficulty)
	}
	collapse.SetConfigPath(flagConfig)
	collapse.SetDifficultyPreset(preset)
	return nil
}

// terminalConfig returns a runtime config sized to the current terminal.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := args[0]

	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown game %q, run 'collapse list' to see available variants", gameID)
	}
	if err := applyGameFlags(); err != nil {
		return err
	}

	logger, closeLog, err := newLogger(true)
	if err != nil {
		return err
	}
	defer closeLog()

	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("cannot create game: %w", err)
	}

	// Continue without storage - game still works
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}

	_, runErr := tui.Run(game, store, terminalConfig(), logger)

	if store != nil {
		store.Close()
	}
	if runErr != nil {
		return fmt.Errorf("error running game: %w", runErr)
	}
	return nil
}

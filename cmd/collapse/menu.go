package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-collapse/internal/platform/tui"
	"github.com/vovakirdan/tui-collapse/internal/registry"
	"github.com/vovakirdan/tui-collapse/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a variant and difficulty from a menu",
	Long: `Start in interactive menu mode.

Pick a variant, then a difficulty. Going back from a paused or finished
game returns to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Tab          - High scores
  Esc          - Back
  Q            - Quit

Examples:
  collapse menu
  collapse menu --fps 30
  collapse menu --config ./collapse.yaml`,
	RunE: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom config (YAML or TOML)")
}

func runMenu(_ *cobra.Command, _ []string) error {
	if err := applyGameFlags(); err != nil {
		return err
	}
	logger, closeLog, err := newLogger(true)
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	cfg := terminalConfig()

	for {
		menuResult, err := tui.RunMenu(cfg)
		if err != nil {
			return err
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit || (menuResult.GameID == "" && !menuResult.WantsScoreboard) {
			return nil
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				return sbErr
			}
			if goBack {
				continue
			}
			return nil
		}

		game, err := registry.Create(menuResult.GameID)
		if err != nil {
			logger.Error("cannot create game", "game", menuResult.GameID, "error", err)
			continue
		}
		if t, ok := game.(registry.Tunable); ok {
			if err := t.SetDifficulty(string(menuResult.Difficulty)); err != nil {
				logger.Warn("ignoring difficulty", "error", err)
			}
		}

		// Fresh board unless a seed was pinned
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		backToMenu, err := tui.Run(game, store, cfg, logger)
		if err != nil {
			return fmt.Errorf("error running game: %w", err)
		}
		if !backToMenu {
			return nil
		}
	}
}

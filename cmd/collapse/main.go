// collapse is a tile-matching puzzle for the terminal: tap groups of two or
// more same-coloured tiles to clear them and let the columns refill.
//
// Usage:
//
//	collapse list              - List available variants
//	collapse play <game>       - Play a variant
//	collapse menu              - Pick variant and difficulty interactively
//	collapse sim               - Run a headless seeded autoplay
//	collapse serve             - Start SSH server for remote play
//	collapse scores [game]     - Show high scores
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible boards
//	--db <path>         - Set database path (default: ~/.collapse/scores.db)
//	--log-level <lvl>   - debug, info, warn or error (default: warn)
//	--log-file <path>   - Write logs to a file while the UI owns the terminal
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-collapse/internal/games/collapse"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "collapse",
	Short: "Collapse - clear blocks of matching tiles in your terminal",
	Long: `Collapse is a tile-matching puzzle. Tap a group of two or more
adjacent tiles of the same colour to clear it; the columns fall and refill.
When no group is left the board shuffles itself.

Available commands:
  list     - Show all variants
  play     - Play a specific variant directly
  menu     - Interactive variant and difficulty picker
  sim      - Headless autoplay that checks the board after every tap
  serve    - Start SSH server for remote play
  scores   - View high scores

Examples:
  collapse list
  collapse play collapse
  collapse play collapse_mini --difficulty hard
  collapse sim --taps 500 --strategy greedy --seed 42
  collapse serve --ssh :2222
  collapse scores collapse`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.collapse/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Log file (interactive commands discard logs without it)")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// newLogger builds the command logger and hands it to the game package.
// Interactive commands own the terminal, so they only log to --log-file.
// The returned func closes the log file, if any.
func newLogger(interactive bool) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	switch {
	case flagLogFile != "":
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	case interactive:
		w = io.Discard
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "collapse",
	})
	collapse.SetLogger(logger)
	return logger, closeFn, nil
}

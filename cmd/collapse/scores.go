package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-collapse/internal/registry"
	"github.com/vovakirdan/tui-collapse/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show high scores",
	Long: `Display the top scores for a variant, or a summary of every
variant played when no game is given.

Examples:
  collapse scores
  collapse scores collapse
  collapse scores collapse_mini --limit 20
  collapse scores collapse_zen --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all scores of the game")
}

func runScores(_ *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("error opening scores database: %w", err)
	}
	defer store.Close()

	if len(args) == 0 {
		return printAllStats(store)
	}

	gameID := args[0]
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown game %q, run 'collapse list' to see available variants", gameID)
	}

	if flagScoresClear {
		if err := store.ClearScores(gameID); err != nil {
			return err
		}
		fmt.Printf("Cleared scores for %s.\n", gameID)
		return nil
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("error creating game: %w", err)
	}
	title := game.Title()

	scores, err := store.TopScores(gameID, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("error retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'collapse play %s' to set the first high score!\n", gameID)
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-5s  %-5s  %s\n", "Rank", "Score", "Block", "Moves", "Date")
	fmt.Printf("  %-4s  %-8s  %-5s  %-5s  %s\n", "----", "-----", "-----", "-----", "----")

	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-8d  %-5d  %-5d  %s\n", i+1, entry.Score, entry.LargestBlock, entry.Moves, dateStr)
	}

	stats, err := store.GetGameStats(gameID)
	if err == nil {
		fmt.Println()
		fmt.Printf("Best: %d  Games: %d  Average: %.1f  Biggest block: %d\n",
			stats.HighScore, stats.GamesCount, stats.AvgScore, stats.LargestBlock)
	}
	return nil
}

func printAllStats(store *storage.Store) error {
	all, err := store.GetAllGamesStats()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No scores recorded yet.")
		return nil
	}

	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("  %-16s  %-5s  %-8s  %-8s  %-5s  %s\n", "Game", "Games", "Best", "Average", "Block", "Last played")
	fmt.Printf("  %-16s  %-5s  %-8s  %-8s  %-5s  %s\n", "----", "-----", "----", "-------", "-----", "-----------")
	for _, id := range ids {
		st := all[id]
		fmt.Printf("  %-16s  %-5d  %-8d  %-8.1f  %-5d  %s\n",
			id, st.GamesCount, st.HighScore, st.AvgScore, st.LargestBlock, st.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}

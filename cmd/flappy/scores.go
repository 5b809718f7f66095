package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
	"github.com/vovakirdan/tui-flappy/internal/registry"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var (
	flagScoresUser  string
	flagScoresLimit int
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show high scores and achievements",
	Long: `Display the top scores and unlocked achievements for a mode.

Examples:
  flappy scores
  flappy scores flappy_smooth --limit 20
  flappy scores --user alice     # achievements of an SSH user
  flappy scores --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresUser, "user", "", "SSH user whose achievements to show")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the mode's score history")
}

func runScores(_ *cobra.Command, args []string) error {
	gameID, err := modeArg(args)
	if err != nil {
		return err
	}
	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearScores(gameID); err != nil {
			return err
		}
		fmt.Printf("Cleared scores for %s.\n", game.Title())
		return nil
	}

	scores, err := store.TopScores(gameID, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", game.Title())
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'flappy play %s' to set the first high score!\n", gameID)
	} else {
		fmt.Printf("  %-4s  %-8s  %-8s  %s\n", "Rank", "Score", "Level", "Date")
		fmt.Printf("  %-4s  %-8s  %-8s  %s\n", "----", "-----", "-----", "----")
		for i, entry := range scores {
			fmt.Printf("  %-4d  %-8d  %-8s  %s\n", i+1, entry.Score, entry.Level, entry.CreatedAt.Format("2006-01-02 15:04"))
		}

		if stats, err := store.GetGameStats(gameID); err == nil {
			fmt.Println()
			fmt.Printf("Runs: %d  Best: %d  Average: %.1f\n", stats.GamesCount, stats.HighScore, stats.AvgScore)
		}
	}

	unlocked, err := flappy.LoadUnlocked(store.KV(tui.UserNamespace(gameID, flagScoresUser)))
	if err != nil {
		return fmt.Errorf("reading achievements: %w", err)
	}
	have := make(map[string]bool, len(unlocked))
	for _, a := range unlocked {
		have[a.ID] = true
	}

	fmt.Println()
	fmt.Println("Achievements:")
	for _, a := range flappy.Achievements {
		mark := " "
		if have[a.ID] {
			mark = "x"
		}
		fmt.Printf("  [%s] %-14s %s\n", mark, a.Title, a.Description)
	}
	return nil
}

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ghostmaze/internal/registry"
	"github.com/vovakirdan/ghostmaze/internal/storage"
)

var flagRuns int

var scoresCmd = &cobra.Command{
	Use:   "scores <game>",
	Short: "Show high scores for a level",
	Long: `Display the top 10 high scores and the most recent runs for the
specified level.

Examples:
  ghostmaze scores ghostmaze
  ghostmaze scores ghostmaze_twin --runs 20`,
	Args: cobra.ExactArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagRuns, "runs", 5, "Number of recent runs to show")
}

func runScores(cmd *cobra.Command, args []string) {
	gameID := args[0]

	// Check if game exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'ghostmaze list' to see available games.")
		os.Exit(1)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}
	title := game.Title()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}

	scores, err := store.TopScores(gameID, 10)
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}
	runs, err := store.RecentRuns(gameID, flagRuns)
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'ghostmaze play %s' to set the first high score!\n", gameID)
	} else {
		fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
		fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")
		for i, entry := range scores {
			dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
			fmt.Printf("  %-4d  %-10d  %s\n", i+1, entry.Score, dateStr)
		}

		fmt.Println()
		if highScore, err := store.HighScore(gameID); err == nil {
			fmt.Printf("Best: %d\n", highScore)
		}
	}

	if len(runs) == 0 {
		return
	}
	fmt.Println()
	fmt.Println("Recent runs")
	fmt.Println()
	fmt.Printf("  %-10s  %-6s  %-7s  %-5s  %-6s  %-6s  %-8s  %s\n",
		"Level", "Score", "Pellets", "Fruit", "Ghosts", "Deaths", "Time", "Date")
	for _, r := range runs {
		fmt.Printf("  %-10s  %-6d  %-7d  %-5d  %-6d  %-6d  %-8s  %s\n",
			r.LevelID, r.Score, r.Pellets, r.Fruits, r.Captures, r.Deaths,
			r.Duration.Round(time.Second), r.CreatedAt.Format("2006-01-02 15:04"))
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ghostmaze/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all playable levels",
	Long:  `Shows every built-in level registered as a game.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No games available.")
		return
	}

	fmt.Println("Available games:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
	}

	fmt.Printf("  %-*s  %-8s  %s\n", maxIDLen, "ID", "Level", "Title")
	fmt.Printf("  %-*s  %-8s  %s\n", maxIDLen, "--", "-----", "-----")
	for _, g := range games {
		fmt.Printf("  %-*s  %-8s  %s\n", maxIDLen, g.ID, g.Level, g.Title)
	}

	fmt.Println()
	fmt.Println("Run 'ghostmaze play <id>' to play a level.")
}

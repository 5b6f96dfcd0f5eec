package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ghostmaze/internal/platform/tui"
	"github.com/vovakirdan/ghostmaze/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a level from a menu",
	Long: `Start Ghost Maze in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a level.
After a game ends, press B or Esc to return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select level
  Tab          - Scoreboard
  Q            - Quit

Examples:
  ghostmaze menu
  ghostmaze menu --fps 30
  ghostmaze menu --difficulty easy --sound
  ghostmaze menu --db ./scores.db`,
	Run: runMenu,
}

func init() {
	// Uses global flags from main.go (--fps, --seed, --db)
	addGameFlags(menuCmd)
}

func runMenu(_ *cobra.Command, _ []string) {
	if err := applyGameFlags(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, logCloser := newLogger("ghostmaze", true)
	defer logCloser.Close()

	opts := tui.Options{Logger: logger}
	opts.Store = openStore(logger)
	if n := openSound(logger); n != nil {
		defer n.Close()
		opts.Sound = n
	}

	cfg := terminalConfig()

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(opts.Store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(opts.Store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue // Back to menu
			}
			break // User quit from scoreboard
		}

		gameID := menuResult.GameID
		if gameID == "" {
			break
		}

		game, err := registry.Create(gameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}

		// Fresh seed for each game unless one was pinned
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		logger.Info("starting game", "game", gameID, "seed", cfg.Seed)
		quit, err := tui.RunUntilBack(game, cfg, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
		if quit {
			break
		}
	}

	if opts.Store != nil {
		opts.Store.Close()
	}
}

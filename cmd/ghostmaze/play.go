package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/ghostmaze/internal/config"
	"github.com/vovakirdan/ghostmaze/internal/core"
	"github.com/vovakirdan/ghostmaze/internal/games/ghostmaze"
	"github.com/vovakirdan/ghostmaze/internal/games/ghostmaze/levels"
	"github.com/vovakirdan/ghostmaze/internal/platform/audio"
	"github.com/vovakirdan/ghostmaze/internal/platform/tui"
	"github.com/vovakirdan/ghostmaze/internal/registry"
	"github.com/vovakirdan/ghostmaze/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagMap        string
	flagWatch      bool
	flagSound      bool
	flagVolume     float64
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a level",
	Long: `Start playing the specified level.

Controls:
  Arrows/WASD/HJKL  - Steer
  Space             - Hop onto a half-block
  P                 - Pause
  R                 - Restart (after game over)
  Ctrl+S            - Save a screenshot
  Q/Ctrl+C          - Quit

Difficulty options:
  easy   - Five lives, timings as configured
  normal - Slightly shorter power-ups, fruit and ghost release
  hard   - Two lives, much shorter power-ups, fruit and ghost release
  fixed  - Timings as configured, no scaling

Examples:
  ghostmaze play ghostmaze
  ghostmaze play ghostmaze_twin --difficulty hard
  ghostmaze play ghostmaze --config ./my-ghostmaze.yaml
  ghostmaze play ghostmaze --map ./my-level.txt --watch
  ghostmaze play ghostmaze --sound`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	addGameFlags(playCmd)
	playCmd.Flags().StringVar(&flagMap, "map", "", "Play a map file instead of the built-in level")
	playCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload the map file when it changes (requires --map)")
}

// addGameFlags registers the flags shared by commands that start games.
func addGameFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	cmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	cmd.Flags().BoolVar(&flagSound, "sound", false, "Play sound effects")
	cmd.Flags().Float64Var(&flagVolume, "volume", 0.5, "Sound volume from 0 to 1")
}

// applyGameFlags hands config and difficulty to the game package before any
// game is created. Bad values are reported here rather than silently
// replaced by defaults at reset.
func applyGameFlags() error {
	if flagDifficulty != "" {
		if _, ok := config.ParsePreset(flagDifficulty); !ok {
			return fmt.Errorf("unknown difficulty %q (use easy, normal, hard or fixed)", flagDifficulty)
		}
	}
	if flagConfig != "" {
		if _, err := config.Load(flagConfig); err != nil {
			return err
		}
	}
	ghostmaze.SetConfigPath(flagConfig)
	ghostmaze.SetDifficultyPreset(flagDifficulty)
	return nil
}

// terminalConfig builds the runtime config from the terminal size.
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

// openSound opens the speaker when --sound is set. Failure is not fatal.
func openSound(logger *log.Logger) *audio.Notifier {
	if !flagSound {
		return nil
	}
	n := audio.New(flagVolume)
	if err := n.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: sound disabled: %v\n", err)
		logger.Warn("sound disabled", "error", err)
		return nil
	}
	return n
}

// openStore opens score storage. Failure is not fatal.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		logger.Warn("scores disabled", "error", err)
		return nil
	}
	logger.Debug("scores opened", "driver", store.Driver())
	return store
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := args[0]

	// Check if game exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'ghostmaze list' to see available games.")
		os.Exit(1)
	}
	if flagWatch && flagMap == "" {
		fmt.Fprintln(os.Stderr, "Error: --watch requires --map")
		os.Exit(1)
	}
	if err := applyGameFlags(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, logCloser := newLogger("ghostmaze", true)
	defer logCloser.Close()

	var opts tui.Options
	opts.Logger = logger

	if flagMap != "" {
		abs, err := filepath.Abs(flagMap)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		// Fail before the alt screen hides the message
		if _, err := levels.LoadFile(abs); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading map: %v\n", err)
			os.Exit(1)
		}
		ghostmaze.SetMapFile(abs)

		if flagWatch {
			w, err := levels.NewWatcher(logger, abs)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error watching map: %v\n", err)
				os.Exit(1)
			}
			defer w.Close()
			opts.Reload = w.Events
			go func() {
				for err := range w.Errors {
					logger.Warn("watch error", "error", err)
				}
			}()
		}
	}

	cfg := terminalConfig()

	// Create game instance
	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	opts.Store = openStore(logger)
	if n := openSound(logger); n != nil {
		defer n.Close()
		opts.Sound = n
	}

	logger.Info("starting game", "game", gameID, "map", flagMap, "seed", cfg.Seed)
	runErr := tui.Run(game, cfg, opts)

	// Close store before potential exit
	if opts.Store != nil {
		opts.Store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

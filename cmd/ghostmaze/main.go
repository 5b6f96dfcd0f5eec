// ghostmaze is a terminal maze chase: eat the pellets, dodge the ghosts, and
// turn the tables on them after a fruit.
//
// Usage:
//
//	ghostmaze list              - List available levels as games
//	ghostmaze play <game>       - Play a level
//	ghostmaze menu              - Pick levels interactively
//	ghostmaze serve             - Start SSH server for remote play
//	ghostmaze stream            - Serve a world to websocket clients
//	ghostmaze scores <game>     - Show high scores and recent runs
//	ghostmaze sim               - Run a level headless and print the result
//	ghostmaze levels            - List or check level files
//	ghostmaze schema            - Print the config file JSON schema
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path or postgres:// DSN (default: ~/.ghostmaze/scores.db)
//	--log-level <level>  - debug, info, warn or error (default: info)
//	--log-file <path>    - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
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
	Use:   "ghostmaze",
	Short: "Ghost Maze - a maze chase in your terminal",
	Long: `Ghost Maze is a terminal maze chase. Eat every pellet, keep away from
the ghosts, and grab the fruit to make them eatable for a while.

Available commands:
  list     - Show all levels
  play     - Play a level directly
  menu     - Interactive level picker
  serve    - Start SSH server for remote play
  stream   - Serve a world over websockets
  scores   - View high scores and recent runs
  sim      - Headless deterministic run
  levels   - List built-in levels or check a map file
  schema   - Print the config JSON schema

Examples:
  ghostmaze list
  ghostmaze play ghostmaze
  ghostmaze play ghostmaze --map ./my-level.txt --watch
  ghostmaze menu
  ghostmaze serve --ssh :2222
  ghostmaze sim --frames 600 --script "0:left,120:up"`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.ghostmaze/scores.db", "Path to scores database or postgres:// DSN")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(streamCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(schemaCmd)
}

// newLogger builds the logger for a command. Interactive commands own the
// terminal, so without --log-file their logs are dropped. The returned
// closer must be called when the command ends.
func newLogger(prefix string, interactive bool) (*log.Logger, io.Closer) {
	var out io.Writer = os.Stderr
	var closer io.Closer = io.NopCloser(nil)

	switch {
	case flagLogFile != "":
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
			out = io.Discard
			break
		}
		out = f
		closer = f
	case interactive:
		out = io.Discard
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if lvl, err := log.ParseLevel(flagLogLevel); err == nil {
		logger.SetLevel(lvl)
	} else {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
	}
	return logger, closer
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ghostmaze/internal/platform/stream"
)

var (
	flagStreamAddr string
	flagLevel      string
)

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Serve a running world over websockets",
	Long: `Run one world and send every frame to websocket clients on /ws.

The first client to connect steers the player with
  {"type":"input","dir":"up","hop":false}
and may restart the round with {"type":"reset"}. Later clients watch.
When the player leaves, the oldest spectator takes over.

Every tick each client receives
  {"type":"frame","tick":N,"snapshot":{...},"events":["pellet-eaten",...]}

Examples:
  ghostmaze stream
  ghostmaze stream --addr :9000 --level twin
  ghostmaze stream --map ./my-level.txt --fps 30`,
	Run: runStream,
}

func init() {
	streamCmd.Flags().StringVar(&flagStreamAddr, "addr", ":8080", "HTTP listen address")
	streamCmd.Flags().StringVar(&flagLevel, "level", "classic", "Built-in level ID")
	streamCmd.Flags().StringVar(&flagMap, "map", "", "Serve a map file instead of a built-in level")
	streamCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	streamCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func runStream(_ *cobra.Command, _ []string) {
	logger, logCloser := newLogger("ghostmaze-stream", false)
	defer logCloser.Close()

	lvl, err := resolveLevel(flagLevel, flagMap)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	tuning, err := loadTuning()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	server, err := stream.New(stream.Config{
		Level:    lvl,
		Tuning:   tuning,
		TickRate: flagFPS,
		Seed:     flagSeed,
		Logger:   logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Streaming %s on ws://localhost:%s/ws\n", lvl.Name, portOf(flagStreamAddr))
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(ctx, flagStreamAddr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/ghostmaze.yaml
var defaultGhostMazeYAML []byte

// DefaultGhostMazeConfig returns the default Ghost Maze configuration.
func DefaultGhostMazeConfig() GhostMazeConfig {
	return GhostMazeConfig{
		World: WorldConfig{
			CellSize:       50,
			HalfExtent:     25,
			Speed:          2,
			ContactRadius:  30,
			HopReach:       75,
			HalfBlockReach: 50,
		},
		Timing: TimingConfig{
			GateTravel:     Duration(time.Second),
			GateOpenFor:    Duration(5 * time.Second),
			ReleaseDelay:   Duration(time.Second),
			ReleaseStagger: Duration(500 * time.Millisecond),
			ReleasePause:   Duration(500 * time.Millisecond),
			CaptureRespawn: Duration(time.Second),
			PelletRespawn:  Duration(time.Minute),
			FruitInterval:  Duration(10 * time.Second),
			FruitLifetime:  Duration(10 * time.Second),
			PowerUp:        Duration(10 * time.Second),
		},
		Scoring: ScoringConfig{
			Lives:        3,
			PelletPoints: 1,
			FruitPoints:  50,
		},
		Difficulty: DifficultyConfig{
			Enabled: false,
			Level:   0,
			Scaling: ScalingConfig{
				PowerUpReduction:       Duration(6 * time.Second),
				FruitLifetimeReduction: Duration(4 * time.Second),
				ReleaseDelayReduction:  Duration(500 * time.Millisecond),
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultGhostMazeYAML
}

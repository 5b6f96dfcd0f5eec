package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/ghostmaze/internal/games/ghostmaze/engine"
)

// FileName is the config file name looked up in the config directories.
const FileName = "ghostmaze.yaml"

// Load loads Ghost Maze configuration. Keys missing from the file keep their
// default values.
// Search order: customPath -> ~/.ghostmaze/configs/ghostmaze.yaml -> ./configs/ghostmaze.yaml -> embedded default
func Load(customPath string) (GhostMazeConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return GhostMazeConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return GhostMazeConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(FileName); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", FileName)); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultGhostMazeYAML)
	if err != nil {
		return DefaultGhostMazeConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(data []byte) (GhostMazeConfig, error) {
	cfg := DefaultGhostMazeConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return GhostMazeConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return GhostMazeConfig{}, err
	}
	return cfg, nil
}

// Validate checks that the config describes a playable world.
func (c GhostMazeConfig) Validate() error {
	if c.Difficulty.Level < 0 || c.Difficulty.Level > 1 {
		return fmt.Errorf("config: difficulty level %v outside [0, 1]", c.Difficulty.Level)
	}
	if err := c.Tuning().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Tuning converts the config into engine constants, with difficulty scaling
// applied.
func (c GhostMazeConfig) Tuning() engine.Tuning {
	t := engine.DefaultTuning()

	t.CellSize = c.World.CellSize
	t.HalfExtent = c.World.HalfExtent
	t.Speed = c.World.Speed
	t.ContactRadius = c.World.ContactRadius
	t.HopReach = c.World.HopReach
	t.HalfBlockReach = c.World.HalfBlockReach

	// Elevation and gate heights follow the cell size.
	t.ElevatedY = -c.World.CellSize / 2
	t.GateClosedY = -c.World.CellSize / 4
	t.GateOpenY = -c.World.CellSize * 3 / 4

	t.Lives = c.Scoring.Lives
	t.PelletPoints = c.Scoring.PelletPoints
	t.FruitPoints = c.Scoring.FruitPoints

	d := c.Difficulty
	s := d.Scaling
	t.Timings = engine.Timings{
		GateTravel:     c.Timing.GateTravel.Std(),
		GateOpenFor:    c.Timing.GateOpenFor.Std(),
		ReleaseDelay:   d.scaled(c.Timing.ReleaseDelay, s.ReleaseDelayReduction),
		ReleaseStagger: c.Timing.ReleaseStagger.Std(),
		ReleasePause:   c.Timing.ReleasePause.Std(),
		CaptureRespawn: c.Timing.CaptureRespawn.Std(),
		PelletRespawn:  c.Timing.PelletRespawn.Std(),
		FruitInterval:  c.Timing.FruitInterval.Std(),
		FruitLifetime:  d.scaled(c.Timing.FruitLifetime, s.FruitLifetimeReduction),
		PowerUp:        d.scaled(c.Timing.PowerUp, s.PowerUpReduction),
	}
	return t
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ghostmaze", "configs", filename)
}

package config

import (
	"math"
	"time"
)

// DifficultyConfig scales timings between an easy and a hard end.
type DifficultyConfig struct {
	Enabled bool          `yaml:"enabled" json:"enabled"`
	Level   float64       `yaml:"level" json:"level" jsonschema:"minimum=0,maximum=1,description=Difficulty from easy (0) to hard (1)"`
	Scaling ScalingConfig `yaml:"scaling" json:"scaling"`
}

// ScalingConfig defines how much each timing shrinks at level 1.0.
type ScalingConfig struct {
	PowerUpReduction       Duration `yaml:"power_up_reduction" json:"power_up_reduction" jsonschema:"description=Go duration string. Power-up time removed at full difficulty"`
	FruitLifetimeReduction Duration `yaml:"fruit_lifetime_reduction" json:"fruit_lifetime_reduction" jsonschema:"description=Go duration string. Fruit lifetime removed at full difficulty"`
	ReleaseDelayReduction  Duration `yaml:"release_delay_reduction" json:"release_delay_reduction" jsonschema:"description=Go duration string. Release delay removed at full difficulty"`
}

// minScaled is the floor for any scaled timing.
const minScaled = 250 * time.Millisecond

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. The empty string means no preset.
func ParsePreset(s string) (DifficultyPreset, bool) {
	switch p := DifficultyPreset(s); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, true
	default:
		return "", false
	}
}

// InitialLevelForPreset returns the difficulty level for a preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables scaling.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ApplyPreset modifies the config based on a difficulty preset. An empty
// preset leaves the config untouched.
func ApplyPreset(cfg *GhostMazeConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
		return
	}
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.Level = InitialLevelForPreset(preset)

	switch preset {
	case DifficultyEasy:
		cfg.Scoring.Lives = 5
	case DifficultyHard:
		cfg.Scoring.Lives = 2
	}
}

// scaled shortens base by level × reduction, never below minScaled. Bases
// already under the floor are returned as is.
func (d DifficultyConfig) scaled(base, reduction Duration) time.Duration {
	if !d.Enabled || base.Std() <= minScaled {
		return base.Std()
	}
	level := min(1, max(0, d.Level))
	v := base.Std() - time.Duration(math.Round(level*float64(reduction.Std())))
	return max(v, minScaled)
}

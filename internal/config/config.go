// Package config provides YAML-based game configuration loading and
// difficulty presets for Ghost Maze.
package config

import (
	"fmt"
	"time"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

// GhostMazeConfig contains all configuration for a Ghost Maze round.
type GhostMazeConfig struct {
	World      WorldConfig      `yaml:"world" json:"world" jsonschema:"description=Geometry and movement"`
	Timing     TimingConfig     `yaml:"timing" json:"timing" jsonschema:"description=Durations of the timed events"`
	Scoring    ScoringConfig    `yaml:"scoring" json:"scoring" jsonschema:"description=Lives and points"`
	Difficulty DifficultyConfig `yaml:"difficulty" json:"difficulty" jsonschema:"description=Difficulty scaling"`
}

// WorldConfig defines geometry and movement, in world units.
type WorldConfig struct {
	CellSize       float64 `yaml:"cell_size" json:"cell_size" jsonschema:"minimum=0,exclusiveMinimum=true,description=World units per map cell"`
	HalfExtent     float64 `yaml:"half_extent" json:"half_extent" jsonschema:"minimum=0,exclusiveMinimum=true,description=Half width of entity boxes"`
	Speed          float64 `yaml:"speed" json:"speed" jsonschema:"minimum=0,exclusiveMinimum=true,description=Units moved per frame"`
	ContactRadius  float64 `yaml:"contact_radius" json:"contact_radius" jsonschema:"minimum=0,exclusiveMinimum=true,description=Pickup and ghost contact distance"`
	HopReach       float64 `yaml:"hop_reach" json:"hop_reach" jsonschema:"minimum=0,exclusiveMinimum=true,description=How close a half-block must be to hop onto it"`
	HalfBlockReach float64 `yaml:"half_block_reach" json:"half_block_reach" jsonschema:"minimum=0,exclusiveMinimum=true,description=How far from a half-block the player stays elevated"`
}

// TimingConfig defines every timed event. Values are Go duration strings.
type TimingConfig struct {
	GateTravel     Duration `yaml:"gate_travel" json:"gate_travel" jsonschema:"description=Go duration string. Time for a gate to slide fully open or closed"`
	GateOpenFor    Duration `yaml:"gate_open_for" json:"gate_open_for" jsonschema:"description=Go duration string. Gates close this long after opening"`
	ReleaseDelay   Duration `yaml:"release_delay" json:"release_delay" jsonschema:"description=Go duration string. Ghosts may move this long after the gates open"`
	ReleaseStagger Duration `yaml:"release_stagger" json:"release_stagger" jsonschema:"description=Go duration string. Extra wait per ghost index before leaving the house"`
	ReleasePause   Duration `yaml:"release_pause" json:"release_pause" jsonschema:"description=Go duration string. Pause after a released ghost is blocked going up"`
	CaptureRespawn Duration `yaml:"capture_respawn" json:"capture_respawn" jsonschema:"description=Go duration string. Wait before a captured ghost leaves again"`
	PelletRespawn  Duration `yaml:"pellet_respawn" json:"pellet_respawn" jsonschema:"description=Go duration string. Time until an eaten pellet returns"`
	FruitInterval  Duration `yaml:"fruit_interval" json:"fruit_interval" jsonschema:"description=Go duration string. Period between fruit spawn attempts"`
	FruitLifetime  Duration `yaml:"fruit_lifetime" json:"fruit_lifetime" jsonschema:"description=Go duration string. How long an uneaten fruit stays"`
	PowerUp        Duration `yaml:"power_up" json:"power_up" jsonschema:"description=Go duration string. How long ghosts stay eatable after a fruit"`
}

// ScoringConfig defines lives and points.
type ScoringConfig struct {
	Lives        int `yaml:"lives" json:"lives" jsonschema:"minimum=1"`
	PelletPoints int `yaml:"pellet_points" json:"pellet_points" jsonschema:"minimum=0"`
	FruitPoints  int `yaml:"fruit_points" json:"fruit_points" jsonschema:"minimum=0"`
}

// Duration is a time.Duration written as a string such as "500ms" or "1m".
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// String implements fmt.Stringer.
func (d Duration) String() string { return time.Duration(d).String() }

// UnmarshalYAML accepts a duration string.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("line %d: duration must be a string: %w", node.Line, err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalYAML writes the duration string.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// MarshalText writes the duration string; used for JSON output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText accepts a duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// JSONSchema describes Duration as a duration string.
func (Duration) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Pattern:     `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`,
		Description: "Go duration string, e.g. 500ms, 10s, 1m",
	}
}

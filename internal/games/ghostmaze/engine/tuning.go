package engine

import (
	"errors"
	"fmt"
	"time"
)

// Timings holds every duration the scheduler and ghost state machine use.
type Timings struct {
	GateTravel     time.Duration // Time for a gate to slide fully open or closed
	GateOpenFor    time.Duration // Gates close this long after opening
	ReleaseDelay   time.Duration // Ghosts may move this long after the gates open
	ReleaseStagger time.Duration // Extra release delay per ghost index
	ReleasePause   time.Duration // Pause after a released ghost is blocked going up
	CaptureRespawn time.Duration // Delay before a captured ghost moves again
	PelletRespawn  time.Duration // Consumed pellets come back after this long
	FruitInterval  time.Duration // Period between fruit spawn attempts
	FruitLifetime  time.Duration // A fruit expires this long after spawning
	PowerUp        time.Duration // Ghosts stay eatable this long after a fruit
}

// Tuning is the full set of constants for one world.
type Tuning struct {
	CellSize       float64 // World units per map cell
	HalfExtent     float64 // Half width of every entity box
	Speed          float64 // World units moved per step
	ContactRadius  float64 // Centre distance for pickups and ghost contact
	HopReach       float64 // Half width of the box a half-block can be hopped from
	HalfBlockReach float64 // Half width of the box that keeps the player elevated
	ElevatedY      float64 // Player Y while standing on a half-block
	GateClosedY    float64 // Gate Y offset when closed
	GateOpenY      float64 // Gate Y offset when fully open

	Lives        int
	PelletPoints int
	FruitPoints  int

	Timings
}

// DefaultTuning returns the classic arcade constants.
func DefaultTuning() Tuning {
	return Tuning{
		CellSize:       50,
		HalfExtent:     25,
		Speed:          2,
		ContactRadius:  30,
		HopReach:       75,
		HalfBlockReach: 50,
		ElevatedY:      -25,
		GateClosedY:    -12.5,
		GateOpenY:      -37.5,
		Lives:          3,
		PelletPoints:   1,
		FruitPoints:    50,
		Timings: Timings{
			GateTravel:     time.Second,
			GateOpenFor:    5 * time.Second,
			ReleaseDelay:   time.Second,
			ReleaseStagger: 500 * time.Millisecond,
			ReleasePause:   500 * time.Millisecond,
			CaptureRespawn: time.Second,
			PelletRespawn:  60 * time.Second,
			FruitInterval:  10 * time.Second,
			FruitLifetime:  10 * time.Second,
			PowerUp:        10 * time.Second,
		},
	}
}

// ErrInvalidTuning is wrapped by every error Validate returns.
var ErrInvalidTuning = errors.New("engine: invalid tuning")

// Validate checks that the tuning describes a playable world.
func (t Tuning) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"cell size", t.CellSize},
		{"half extent", t.HalfExtent},
		{"speed", t.Speed},
		{"contact radius", t.ContactRadius},
		{"hop reach", t.HopReach},
		{"half-block reach", t.HalfBlockReach},
	}
	for _, p := range positive {
		if p.v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidTuning, p.name, p.v)
		}
	}
	if t.Speed >= t.HalfExtent {
		return fmt.Errorf("%w: speed %v would tunnel through %v-wide boxes", ErrInvalidTuning, t.Speed, 2*t.HalfExtent)
	}
	if t.Lives < 1 {
		return fmt.Errorf("%w: lives must be at least 1, got %d", ErrInvalidTuning, t.Lives)
	}
	if t.PelletPoints < 0 || t.FruitPoints < 0 {
		return fmt.Errorf("%w: points must not be negative", ErrInvalidTuning)
	}

	durations := []struct {
		name string
		d    time.Duration
	}{
		{"gate travel", t.GateTravel},
		{"gate open time", t.GateOpenFor},
		{"release delay", t.ReleaseDelay},
		{"release stagger", t.ReleaseStagger},
		{"release pause", t.ReleasePause},
		{"capture respawn", t.CaptureRespawn},
		{"pellet respawn", t.PelletRespawn},
		{"power-up", t.PowerUp},
	}
	for _, d := range durations {
		if d.d < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidTuning, d.name)
		}
	}
	if t.FruitInterval <= 0 || t.FruitLifetime <= 0 {
		return fmt.Errorf("%w: fruit interval and lifetime must be positive", ErrInvalidTuning)
	}
	return nil
}

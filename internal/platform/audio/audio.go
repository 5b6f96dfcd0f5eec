// Package audio plays short synthesized tones for game cues.
package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/ghostmaze/internal/core"
	"github.com/vovakirdan/ghostmaze/internal/games/ghostmaze/engine"
)

const sampleRate = beep.SampleRate(44100)

// note is one tone of a cue melody. A zero frequency is a rest.
type note struct {
	freq float64
	dur  time.Duration
}

func cue(k engine.EventKind) core.Cue {
	return core.Cue(k.String())
}

// melodies maps the cues that make a sound to their notes. Other cues are
// silent.
var melodies = map[core.Cue][]note{
	cue(engine.EventPelletEaten): {
		{440, 35 * time.Millisecond},
		{330, 35 * time.Millisecond},
	},
	cue(engine.EventFruitEaten): {
		{660, 60 * time.Millisecond},
		{880, 60 * time.Millisecond},
		{1100, 90 * time.Millisecond},
	},
	cue(engine.EventGhostCaptured): {
		{1320, 50 * time.Millisecond},
		{1760, 80 * time.Millisecond},
	},
	cue(engine.EventPlayerDeath): {
		{660, 80 * time.Millisecond},
		{550, 80 * time.Millisecond},
		{440, 80 * time.Millisecond},
		{330, 80 * time.Millisecond},
		{220, 160 * time.Millisecond},
	},
	cue(engine.EventGameOver): {
		{330, 200 * time.Millisecond},
		{0, 50 * time.Millisecond},
		{262, 200 * time.Millisecond},
		{0, 50 * time.Millisecond},
		{196, 400 * time.Millisecond},
	},
}

// Notifier plays cue sounds on the system speaker. A Notifier that was never
// initialized, or whose speaker failed to open, ignores every cue.
type Notifier struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
}

// New creates a notifier. Volume is a linear gain in [0, 1].
func New(volume float64) *Notifier {
	return &Notifier{
		mixer:  &beep.Mixer{},
		volume: min(max(volume, 0), 1),
	}
}

// Init opens the speaker.
func (n *Notifier) Init() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/20)); err != nil {
		return fmt.Errorf("audio: cannot open speaker: %w", err)
	}
	speaker.Play(n.mixer)
	n.initialized = true
	return nil
}

// Play queues the sound for a cue. It never blocks on playback.
func (n *Notifier) Play(c core.Cue) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.initialized {
		return
	}
	s := Sound(c, sampleRate, n.volume)
	if s == nil {
		return
	}
	speaker.Lock()
	n.mixer.Add(s)
	speaker.Unlock()
}

// Close silences pending sounds.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.initialized {
		return
	}
	speaker.Lock()
	n.mixer.Clear()
	speaker.Unlock()
	n.initialized = false
}

// Sound builds the finite streamer for a cue, or nil when the cue is silent.
func Sound(c core.Cue, rate beep.SampleRate, volume float64) beep.Streamer {
	notes, ok := melodies[c]
	if !ok || volume <= 0 {
		return nil
	}

	parts := make([]beep.Streamer, 0, len(notes))
	for _, nt := range notes {
		n := rate.N(nt.dur)
		if nt.freq == 0 {
			parts = append(parts, beep.Silence(n))
			continue
		}
		tone, err := generators.SineTone(rate, nt.freq)
		if err != nil {
			// Frequency above Nyquist for this rate
			parts = append(parts, beep.Silence(n))
			continue
		}
		parts = append(parts, beep.Take(n, tone))
	}
	return &effects.Volume{
		Streamer: beep.Seq(parts...),
		Base:     2,
		Volume:   math.Log2(volume),
	}
}

// Duration returns how long the sound for a cue lasts.
func Duration(c core.Cue) time.Duration {
	var d time.Duration
	for _, nt := range melodies[c] {
		d += nt.dur
	}
	return d
}

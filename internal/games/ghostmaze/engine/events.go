package engine

import "time"

// EventKind identifies something that happened during a step.
type EventKind uint8

const (
	EventPelletEaten EventKind = iota
	EventPelletRespawned
	EventFruitSpawned
	EventFruitExpired
	EventFruitEaten
	EventPowerUpEnded
	EventHop
	EventGatesOpened
	EventGatesClosed
	EventGhostsReleased
	EventGhostCaptured
	EventPlayerDeath
	EventGameOver
)

var eventNames = [...]string{
	EventPelletEaten:     "pellet-eaten",
	EventPelletRespawned: "pellet-respawned",
	EventFruitSpawned:    "fruit-spawned",
	EventFruitExpired:    "fruit-expired",
	EventFruitEaten:      "fruit-eaten",
	EventPowerUpEnded:    "power-up-ended",
	EventHop:             "hop",
	EventGatesOpened:     "gates-opened",
	EventGatesClosed:     "gates-closed",
	EventGhostsReleased:  "ghosts-released",
	EventGhostCaptured:   "ghost-captured",
	EventPlayerDeath:     "player-death",
	EventGameOver:        "game-over",
}

// String returns the wire name of the event kind.
func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return "unknown"
}

// Event is emitted once per occurrence. Cell and GhostID are set when they
// apply to the kind.
type Event struct {
	Kind    EventKind
	At      time.Duration
	Cell    Cell
	GhostID int
}

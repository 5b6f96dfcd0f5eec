package engine

import "github.com/vovakirdan/ghostmaze/internal/core"

// Verdict is the outcome of a prospective move.
type Verdict uint8

const (
	Clear Verdict = iota
	BlockedByWall
	BlockedByHalfBlock
	BlockedByClosedGate
	BlockedByOtherGhost
)

// String returns the string representation of a verdict.
func (v Verdict) String() string {
	switch v {
	case Clear:
		return "clear"
	case BlockedByWall:
		return "blocked-by-wall"
	case BlockedByHalfBlock:
		return "blocked-by-half-block"
	case BlockedByClosedGate:
		return "blocked-by-closed-gate"
	case BlockedByOtherGhost:
		return "blocked-by-other-ghost"
	default:
		return "unknown"
	}
}

// Blocked reports whether the move is refused.
func (v Verdict) Blocked() bool {
	return v != Clear
}

// Mover identifies who is asking to move.
type Mover uint8

const (
	MoverPlayer Mover = iota
	MoverGhost
)

// Probe is a collision query: the box a mover would occupy after moving.
type Probe struct {
	Box      core.Box
	Mover    Mover
	Elevated bool // the mover stands on a half-block
	Self     int  // ghost ID to ignore when checking ghost-ghost contact
}

// Resolve decides whether the probe's box may be occupied. It never mutates
// anything.
//
// Gates are ghost-only doors: the player is always stopped by them and ghosts
// pass only while a gate is fully open. Half-blocks stop ground-level movers.
// Ghosts also block each other. When several blockers overlap, walls win over
// gates, gates over half-blocks and half-blocks over ghosts.
func Resolve(g *Grid, ghosts []Ghost, p Probe) Verdict {
	var wall, gate, half bool
	g.obstaclesNear(p.Box, func(o Obstacle) {
		if !p.Box.Intersects(o.Box) {
			return
		}
		switch o.Kind {
		case ObstacleWall:
			wall = true
		case ObstacleGate:
			if p.Mover == MoverPlayer || g.GateBlocks(o) {
				gate = true
			}
		case ObstacleHalfBlock:
			if !p.Elevated {
				half = true
			}
		}
	})

	switch {
	case wall:
		return BlockedByWall
	case gate:
		return BlockedByClosedGate
	case half:
		return BlockedByHalfBlock
	}

	if p.Mover == MoverGhost {
		for _, other := range ghosts {
			if other.ID == p.Self {
				continue
			}
			if p.Box.Intersects(other.box(g.tuning.HalfExtent)) {
				return BlockedByOtherGhost
			}
		}
	}
	return Clear
}

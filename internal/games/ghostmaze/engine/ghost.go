package engine

import (
	"math/rand"
	"time"
)

// GhostState is the behaviour state of a ghost.
type GhostState uint8

const (
	// GhostHoused waits in the ghost house until ghosts are released.
	GhostHoused GhostState = iota
	// GhostPreRelease waits for Deadline, then climbs out while it can.
	GhostPreRelease
	// GhostPaused was stopped on the way out and waits for Deadline before
	// taking its assigned direction.
	GhostPaused
	// GhostWandering roams the maze, turning at intersections.
	GhostWandering
)

// String returns the string representation of a ghost state.
func (s GhostState) String() string {
	switch s {
	case GhostHoused:
		return "housed"
	case GhostPreRelease:
		return "pre-release"
	case GhostPaused:
		return "paused"
	case GhostWandering:
		return "wandering"
	default:
		return "unknown"
	}
}

// Ghost is an autonomous enemy. State and Deadline are the whole of its
// behaviour memory.
type Ghost struct {
	Body
	ID       int
	Variant  int
	Spawn    Cell
	Heading  Dir
	State    GhostState
	Deadline time.Duration
}

// LegalFunc answers whether a one-step move in a direction is clear.
type LegalFunc func(Dir) bool

// Advance runs one tick of the behaviour state machine for the ghost at
// position index in the release order. It returns the updated ghost and the
// direction to move this tick, or DirNone to stay put. Advance does not move
// the ghost itself.
func (g Ghost) Advance(now time.Duration, index int, legal LegalFunc, rng *rand.Rand, t Timings) (Ghost, Dir) {
	if g.State == GhostHoused {
		g.State = GhostPreRelease
		g.Deadline = now + time.Duration(index)*t.ReleaseStagger
		g.Heading = DirUp
	}

	switch g.State {
	case GhostPreRelease:
		if now < g.Deadline {
			return g, DirNone
		}
		if legal(DirUp) {
			g.Heading = DirUp
			return g, DirUp
		}
		g.State = GhostPaused
		g.Deadline = now + t.ReleasePause
		return g, DirNone

	case GhostPaused:
		if now < g.Deadline {
			return g, DirNone
		}
		switch index {
		case 0:
			g.Heading = DirLeft
		case 1:
			g.Heading = DirRight
		}
		g.State = GhostWandering
		return g.keepGoing(legal, rng)

	case GhostWandering:
		if exits(legal) > 2 {
			g.Heading = chooseExit(g.Heading, legal, rng)
		}
		return g.keepGoing(legal, rng)
	}
	return g, DirNone
}

// keepGoing moves along the heading, picking a new exit when blocked.
func (g Ghost) keepGoing(legal LegalFunc, rng *rand.Rand) (Ghost, Dir) {
	if legal(g.Heading) {
		return g, g.Heading
	}
	g.Heading = chooseExit(g.Heading, legal, rng)
	if g.Heading != DirNone && legal(g.Heading) {
		return g, g.Heading
	}
	return g, DirNone
}

// exits counts the legal directions.
func exits(legal LegalFunc) int {
	n := 0
	for _, d := range Cardinals {
		if legal(d) {
			n++
		}
	}
	return n
}

// chooseExit picks uniformly among legal directions other than the reverse of
// heading. With no such exit the ghost turns back.
func chooseExit(heading Dir, legal LegalFunc, rng *rand.Rand) Dir {
	reverse := heading.Opposite()
	var options [4]Dir
	n := 0
	for _, d := range Cardinals {
		if d != reverse && legal(d) {
			options[n] = d
			n++
		}
	}
	if n == 0 {
		return reverse
	}
	return options[rng.Intn(n)]
}

// ghostProbe builds the collision query for ghost g moving one step in d.
func (w *World) ghostProbe(g Ghost, d Dir) Probe {
	pos := advance(g.Pos, d, w.tuning.Speed)
	return Probe{
		Box:   Body{Pos: pos}.box(w.tuning.HalfExtent),
		Mover: MoverGhost,
		Self:  g.ID,
	}
}

// moveGhosts advances every ghost in release order. Each ghost sees the
// others at their already-updated positions.
func (w *World) moveGhosts(now time.Duration) {
	for i := range w.ghosts {
		g := w.ghosts[i]
		legal := func(d Dir) bool {
			if d == DirNone {
				return false
			}
			return Resolve(w.grid, w.ghosts, w.ghostProbe(g, d)) == Clear
		}
		next, move := g.Advance(now, i, legal, w.rng, w.tuning.Timings)
		if move != DirNone {
			next.Pos = advance(next.Pos, move, w.tuning.Speed)
			next.Facing = move
		}
		w.ghosts[i] = next
	}
}

// spawnGhost creates a ghost at its spawn cell.
func (w *World) spawnGhost(s GhostSpawn, state GhostState, deadline time.Duration) Ghost {
	x, z := w.grid.CellCenter(s.Cell)
	g := Ghost{
		Body:     Body{Pos: Vec3{X: x, Z: z}, Facing: DirUp},
		ID:       w.nextGhostID,
		Variant:  s.Variant,
		Spawn:    s.Cell,
		Heading:  DirUp,
		State:    state,
		Deadline: deadline,
	}
	w.nextGhostID++
	return g
}

// Package engine is the Ghost Maze simulation: a tile-grid world, an AABB
// collision resolver, player and ghost motion, the ghost behaviour state
// machine and the timed events that drive a round.
//
// The package is UI-agnostic and deterministic. Time enters only through the
// monotonic timestamp passed to Step, and randomness only through the
// injected *rand.Rand.
package engine

// Dir is a movement or facing direction on the ground plane.
type Dir uint8

const (
	DirNone Dir = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// Cardinals lists the four movement directions in the fixed order used for
// ghost exit selection. Keep the order stable: it feeds the RNG.
var Cardinals = [4]Dir{DirUp, DirDown, DirLeft, DirRight}

// String returns the string representation of a direction.
func (d Dir) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// ParseDir converts a direction name back to a Dir. Unknown names map to DirNone.
func ParseDir(s string) Dir {
	switch s {
	case "up", "u":
		return DirUp
	case "down", "d":
		return DirDown
	case "left", "l":
		return DirLeft
	case "right", "r":
		return DirRight
	default:
		return DirNone
	}
}

// Delta returns the world-space (dx, dz) for one unit of movement.
// Up moves towards larger Z, which is towards the top rows of the map file.
func (d Dir) Delta() (dx, dz float64) {
	switch d {
	case DirUp:
		return 0, 1
	case DirDown:
		return 0, -1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// Opposite returns the reverse direction. DirNone has no opposite.
func (d Dir) Opposite() Dir {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	default:
		return DirNone
	}
}

// Yaw is the presentation rotation in degrees for an entity facing d.
func (d Dir) Yaw() float64 {
	switch d {
	case DirUp:
		return 180
	case DirLeft:
		return 90
	case DirRight:
		return -90
	default:
		return 0
	}
}

// Vec3 is a world position. Y is only used for half-block elevation and
// gate offsets; negative Y is up.
type Vec3 struct {
	X, Y, Z float64
}

// Cell addresses a tile by map row and column. Row 0 is the first line of the
// map file.
type Cell struct {
	Row, Col int
}

// C is shorthand for constructing a Cell.
func C(row, col int) Cell {
	return Cell{Row: row, Col: col}
}

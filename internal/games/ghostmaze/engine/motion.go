package engine

import (
	"math"

	"github.com/vovakirdan/ghostmaze/internal/core"
)

// Body is the positional part shared by the player and ghosts.
type Body struct {
	Pos    Vec3
	Facing Dir
}

func (b Body) box(half float64) core.Box {
	return core.BoxAround(b.Pos.X, b.Pos.Z, half)
}

// Distance returns the ground-plane distance between the body and (x, z).
func (b Body) Distance(x, z float64) float64 {
	return math.Hypot(b.Pos.X-x, b.Pos.Z-z)
}

// advance returns pos moved dist units towards d. Y is untouched.
func advance(pos Vec3, d Dir, dist float64) Vec3 {
	dx, dz := d.Delta()
	pos.X += dx * dist
	pos.Z += dz * dist
	return pos
}

// Player is the user-controlled entity.
type Player struct {
	Body
	Current     Dir  // direction the player is travelling
	Next        Dir  // buffered request, taken as soon as it becomes legal
	OnHalfBlock bool // standing on a half-block, Y at Tuning.ElevatedY
}

// playerProbe builds the collision query for the player moving one step in d.
func (w *World) playerProbe(d Dir) Probe {
	pos := advance(w.player.Pos, d, w.tuning.Speed)
	return Probe{
		Box:      core.BoxAround(pos.X, pos.Z, w.tuning.HalfExtent),
		Mover:    MoverPlayer,
		Elevated: w.player.OnHalfBlock,
		Self:     -1,
	}
}

// playerCanMove reports whether one step in d is legal.
func (w *World) playerCanMove(d Dir) bool {
	if d == DirNone {
		return false
	}
	return Resolve(w.grid, w.ghosts, w.playerProbe(d)) == Clear
}

// movePlayer applies the buffered direction when legal, then advances the
// player. A blocked move leaves position, elevation and facing untouched.
func (w *World) movePlayer() (moved bool) {
	p := &w.player
	if p.Next != DirNone && p.Next != p.Current && w.playerCanMove(p.Next) {
		p.Current = p.Next
	}
	if !w.playerCanMove(p.Current) {
		return false
	}
	p.Pos = advance(p.Pos, p.Current, w.tuning.Speed)
	p.Facing = p.Current
	return true
}

// hop lifts the player onto an adjacent half-block.
func (w *World) hop() bool {
	p := &w.player
	if p.OnHalfBlock || !w.grid.halfBlockWithin(p.Pos.X, p.Pos.Z, w.tuning.HopReach) {
		return false
	}
	p.Pos.Y = w.tuning.ElevatedY
	p.OnHalfBlock = true
	return true
}

// dropFromHalfBlock returns the player to ground level once no half-block is
// under them any more.
func (w *World) dropFromHalfBlock() bool {
	p := &w.player
	if !p.OnHalfBlock || w.grid.halfBlockWithin(p.Pos.X, p.Pos.Z, w.tuning.HalfBlockReach) {
		return false
	}
	p.Pos.Y = 0
	p.OnHalfBlock = false
	return true
}

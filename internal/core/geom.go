// Package core provides fundamental types shared by the simulation and the
// platform layers. It contains no external dependencies (especially no Bubble
// Tea) so game logic stays pure and testable.
package core

// Rect is an integer rectangle in screen cells, used for layout and drawing.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Box is an axis-aligned bounding box on the ground plane (world X and Z).
// All world-space collision in the maze is done with boxes.
type Box struct {
	MinX, MinZ float64
	MaxX, MaxZ float64
}

// BoxAround returns the square box with the given half extent centred on (x, z).
func BoxAround(x, z, half float64) Box {
	return Box{MinX: x - half, MinZ: z - half, MaxX: x + half, MaxZ: z + half}
}

// Intersects reports strict overlap: boxes that only touch along an edge do
// not intersect.
func (b Box) Intersects(o Box) bool {
	return b.MaxX > o.MinX && b.MinX < o.MaxX &&
		b.MaxZ > o.MinZ && b.MinZ < o.MaxZ
}

// Contains reports whether the point lies inside the box, edges included.
func (b Box) Contains(x, z float64) bool {
	return x >= b.MinX && x <= b.MaxX && z >= b.MinZ && z <= b.MaxZ
}

// Center returns the centre point of the box.
func (b Box) Center() (float64, float64) {
	return (b.MinX + b.MaxX) / 2, (b.MinZ + b.MaxZ) / 2
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

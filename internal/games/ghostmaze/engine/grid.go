package engine

import (
	"math"
	"time"

	"github.com/vovakirdan/ghostmaze/internal/core"
)

// ObstacleKind tags a static blocker. The resolver dispatches on the tag
// rather than on the blocker's appearance.
type ObstacleKind uint8

const (
	ObstacleWall ObstacleKind = iota
	ObstacleHalfBlock
	ObstacleGate
)

// String returns the string representation of an obstacle kind.
func (k ObstacleKind) String() string {
	switch k {
	case ObstacleWall:
		return "wall"
	case ObstacleHalfBlock:
		return "half-block"
	case ObstacleGate:
		return "gate"
	default:
		return "unknown"
	}
}

// Obstacle is a static blocker occupying one cell.
type Obstacle struct {
	Kind ObstacleKind
	Cell Cell
	Box  core.Box
	gate int // index into Grid.gates for gate obstacles, -1 otherwise
}

// GatePhase is the vertical state of a ghost-house gate.
type GatePhase uint8

const (
	GateClosed GatePhase = iota
	GateOpening
	GateOpen
	GateClosing
)

// String returns the string representation of a gate phase.
func (p GatePhase) String() string {
	switch p {
	case GateClosed:
		return "closed"
	case GateOpening:
		return "opening"
	case GateOpen:
		return "open"
	case GateClosing:
		return "closing"
	default:
		return "unknown"
	}
}

// Gate is the mutable state of one gate cell.
type Gate struct {
	Cell  Cell
	Phase GatePhase
	since time.Duration // start of the current Opening/Closing slide
}

// Grid is the world built from a Layout. Only pellet presence and gate phases
// change after construction.
type Grid struct {
	layout    *Layout
	tuning    Tuning
	tiles     []Tile
	obstacles []Obstacle
	byCell    []int // obstacle index per cell, -1 when empty
	gates     []Gate
	halfs     []int // obstacle indices of half-blocks
}

// NewGrid instantiates the static world for a layout.
func NewGrid(l *Layout, t Tuning) *Grid {
	g := &Grid{
		layout: l,
		tuning: t,
		tiles:  make([]Tile, len(l.tiles)),
		byCell: make([]int, len(l.tiles)),
	}
	copy(g.tiles, l.tiles)

	for i := range g.byCell {
		g.byCell[i] = -1
	}

	for row := 0; row < l.height; row++ {
		for col := 0; col < l.width; col++ {
			var kind ObstacleKind
			switch l.Tile(row, col) {
			case TileWall:
				kind = ObstacleWall
			case TileHalfBlock:
				kind = ObstacleHalfBlock
			case TileGate:
				kind = ObstacleGate
			default:
				continue
			}

			c := C(row, col)
			x, z := g.CellCenter(c)
			o := Obstacle{
				Kind: kind,
				Cell: c,
				Box:  core.BoxAround(x, z, t.CellSize/2),
				gate: -1,
			}
			switch kind {
			case ObstacleGate:
				o.gate = len(g.gates)
				g.gates = append(g.gates, Gate{Cell: c, Phase: GateClosed})
			case ObstacleHalfBlock:
				g.halfs = append(g.halfs, len(g.obstacles))
			}
			g.byCell[row*l.width+col] = len(g.obstacles)
			g.obstacles = append(g.obstacles, o)
		}
	}
	return g
}

// Rows returns the number of map rows.
func (g *Grid) Rows() int { return g.layout.height }

// Cols returns the number of map columns.
func (g *Grid) Cols() int { return g.layout.width }

// Layout returns the layout the grid was built from.
func (g *Grid) Layout() *Layout { return g.layout }

func (g *Grid) inside(c Cell) bool {
	return c.Row >= 0 && c.Row < g.layout.height && c.Col >= 0 && c.Col < g.layout.width
}

// TileAt returns the current tile at (row, col). A consumed pellet reads as
// floor. Cells outside the map are floor.
func (g *Grid) TileAt(row, col int) Tile {
	c := C(row, col)
	if !g.inside(c) {
		return TileFloor
	}
	return g.tiles[row*g.layout.width+col]
}

// CellCenter returns the world (x, z) of a cell centre. The last map row sits
// at Z = 0.
func (g *Grid) CellCenter(c Cell) (x, z float64) {
	size := g.tuning.CellSize
	return size * float64(c.Col), size * float64(g.layout.height-1-c.Row)
}

// WorldToCell returns the cell whose centre is nearest to (x, z).
func (g *Grid) WorldToCell(x, z float64) Cell {
	size := g.tuning.CellSize
	col := int(math.Round(x / size))
	row := g.layout.height - 1 - int(math.Round(z/size))
	return C(row, col)
}

// Obstacles returns the static blockers in map order. Callers must not modify
// the returned slice.
func (g *Grid) Obstacles() []Obstacle {
	return g.obstacles
}

// ObstacleAt returns the obstacle occupying a cell, if any.
func (g *Grid) ObstacleAt(c Cell) (Obstacle, bool) {
	if !g.inside(c) {
		return Obstacle{}, false
	}
	idx := g.byCell[c.Row*g.layout.width+c.Col]
	if idx < 0 {
		return Obstacle{}, false
	}
	return g.obstacles[idx], true
}

// obstaclesNear calls fn for each obstacle whose cell could overlap box.
func (g *Grid) obstaclesNear(box core.Box, fn func(Obstacle)) {
	size := g.tuning.CellSize
	lo := g.WorldToCell(box.MinX-size/2, box.MaxZ+size/2)
	hi := g.WorldToCell(box.MaxX+size/2, box.MinZ-size/2)
	for row := max(lo.Row, 0); row <= min(hi.Row, g.layout.height-1); row++ {
		for col := max(lo.Col, 0); col <= min(hi.Col, g.layout.width-1); col++ {
			if idx := g.byCell[row*g.layout.width+col]; idx >= 0 {
				fn(g.obstacles[idx])
			}
		}
	}
}

// GateBlocks reports whether a gate obstacle currently blocks ghosts.
// Only a fully open gate lets a ghost through.
func (g *Grid) GateBlocks(o Obstacle) bool {
	if o.gate < 0 {
		return false
	}
	return g.gates[o.gate].Phase != GateOpen
}

// Gates returns a copy of every gate's state.
func (g *Grid) Gates() []Gate {
	out := make([]Gate, len(g.gates))
	copy(out, g.gates)
	return out
}

// GateOffset returns the presentation Y offset of gate i at time now.
func (g *Grid) GateOffset(i int, now time.Duration) float64 {
	gate := g.gates[i]
	closed, open := g.tuning.GateClosedY, g.tuning.GateOpenY
	switch gate.Phase {
	case GateOpen:
		return open
	case GateOpening:
		return closed + (open-closed)*g.slide(gate, now)
	case GateClosing:
		return open + (closed-open)*g.slide(gate, now)
	default:
		return closed
	}
}

// slide returns how far the current slide has progressed, in [0, 1].
func (g *Grid) slide(gate Gate, now time.Duration) float64 {
	travel := g.tuning.GateTravel
	if travel <= 0 {
		return 1
	}
	return min(1, max(0, float64(now-gate.since)/float64(travel)))
}

// openGates starts every closed or closing gate sliding open. A gate caught
// mid-close reverses from its current height.
func (g *Grid) openGates(now time.Duration) {
	for i := range g.gates {
		gate := &g.gates[i]
		switch gate.Phase {
		case GateClosed:
			gate.Phase, gate.since = GateOpening, now
		case GateClosing:
			done := g.slide(*gate, now)
			gate.Phase = GateOpening
			gate.since = now - time.Duration((1-done)*float64(g.tuning.GateTravel))
		}
	}
	g.settleGates(now)
}

// closeGates starts every open or opening gate sliding closed.
func (g *Grid) closeGates(now time.Duration) {
	for i := range g.gates {
		gate := &g.gates[i]
		switch gate.Phase {
		case GateOpen:
			gate.Phase, gate.since = GateClosing, now
		case GateOpening:
			done := g.slide(*gate, now)
			gate.Phase = GateClosing
			gate.since = now - time.Duration((1-done)*float64(g.tuning.GateTravel))
		}
	}
	g.settleGates(now)
}

// settleGates finishes slides whose travel time has elapsed.
func (g *Grid) settleGates(now time.Duration) {
	for i := range g.gates {
		gate := &g.gates[i]
		if g.slide(*gate, now) < 1 {
			continue
		}
		switch gate.Phase {
		case GateOpening:
			gate.Phase = GateOpen
		case GateClosing:
			gate.Phase = GateClosed
		}
	}
}

// HasPellet reports whether a live pellet sits in the cell.
func (g *Grid) HasPellet(c Cell) bool {
	return g.inside(c) && g.tiles[c.Row*g.layout.width+c.Col] == TilePellet
}

func (g *Grid) setPellet(c Cell, live bool) {
	if !g.inside(c) {
		return
	}
	tile := TileFloor
	if live {
		tile = TilePellet
	}
	g.tiles[c.Row*g.layout.width+c.Col] = tile
}

// PelletCells returns every live pellet cell in row-major order.
func (g *Grid) PelletCells() []Cell {
	out := make([]Cell, 0, len(g.layout.pellets))
	for _, c := range g.layout.pellets {
		if g.HasPellet(c) {
			out = append(out, c)
		}
	}
	return out
}

// halfBlockWithin reports whether some half-block centre lies within reach of
// (x, z) on both axes, edges included.
func (g *Grid) halfBlockWithin(x, z, reach float64) bool {
	for _, idx := range g.halfs {
		cx, cz := g.obstacles[idx].Box.Center()
		if core.BoxAround(cx, cz, reach).Contains(x, z) {
			return true
		}
	}
	return false
}

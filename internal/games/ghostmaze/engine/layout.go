package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Tile is the static classification of one map cell.
type Tile uint8

const (
	TileFloor Tile = iota
	TileWall
	TilePellet
	TileHalfBlock
	TileGate
	TilePlayerSpawn
	TileGhostSpawn
)

// String returns the string representation of a tile.
func (t Tile) String() string {
	switch t {
	case TileFloor:
		return "floor"
	case TileWall:
		return "wall"
	case TilePellet:
		return "pellet"
	case TileHalfBlock:
		return "half-block"
	case TileGate:
		return "gate"
	case TilePlayerSpawn:
		return "player-spawn"
	case TileGhostSpawn:
		return "ghost-spawn"
	default:
		return "unknown"
	}
}

// Map symbols.
const (
	SymbolWall        = '#'
	SymbolPellet      = '.'
	SymbolHalfBlock   = '\''
	SymbolGate        = '-'
	SymbolPlayerSpawn = 'P'
	SymbolGhostOne    = '1'
	SymbolGhostTwo    = '2'
)

// Load failures. A map that fails to parse produces no layout at all.
var (
	ErrEmptyMap         = errors.New("engine: map is empty")
	ErrNoPlayerSpawn    = errors.New("engine: map has no player spawn")
	ErrManyPlayerSpawns = errors.New("engine: map has more than one player spawn")
)

// GhostSpawn is a ghost start cell and the variant drawn there.
type GhostSpawn struct {
	Cell    Cell
	Variant int
}

// Layout is a parsed map: the immutable description a Grid is built from.
// One Layout can seed any number of worlds.
type Layout struct {
	width  int
	height int
	tiles  []Tile

	playerSpawn Cell
	ghostSpawns []GhostSpawn
	pellets     []Cell
}

// ParseLayout classifies every symbol of a text map. Rows may be ragged;
// short rows are padded with floor. Trailing blank lines are ignored.
func ParseLayout(lines []string) (*Layout, error) {
	rows := make([]string, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, strings.TrimRight(line, "\r"))
	}
	for len(rows) > 0 && strings.TrimSpace(rows[len(rows)-1]) == "" {
		rows = rows[:len(rows)-1]
	}
	if len(rows) == 0 {
		return nil, ErrEmptyMap
	}

	width := 0
	for _, r := range rows {
		width = max(width, len([]rune(r)))
	}
	if width == 0 {
		return nil, ErrEmptyMap
	}

	l := &Layout{
		width:  width,
		height: len(rows),
		tiles:  make([]Tile, width*len(rows)),
	}

	spawnSeen := false
	for row, line := range rows {
		for col, sym := range []rune(line) {
			c := C(row, col)
			tile := TileFloor
			switch sym {
			case SymbolWall:
				tile = TileWall
			case SymbolPellet:
				tile = TilePellet
				l.pellets = append(l.pellets, c)
			case SymbolHalfBlock:
				tile = TileHalfBlock
			case SymbolGate:
				tile = TileGate
			case SymbolPlayerSpawn:
				if spawnSeen {
					return nil, fmt.Errorf("%w: second spawn at row %d col %d", ErrManyPlayerSpawns, row, col)
				}
				spawnSeen = true
				tile = TilePlayerSpawn
				l.playerSpawn = c
			case SymbolGhostOne, SymbolGhostTwo:
				tile = TileGhostSpawn
				l.ghostSpawns = append(l.ghostSpawns, GhostSpawn{Cell: c, Variant: int(sym - '0')})
			}
			l.tiles[row*width+col] = tile
		}
	}

	if !spawnSeen {
		return nil, ErrNoPlayerSpawn
	}
	return l, nil
}

// Width returns the number of columns.
func (l *Layout) Width() int { return l.width }

// Height returns the number of rows.
func (l *Layout) Height() int { return l.height }

// PlayerSpawn returns the player's start cell.
func (l *Layout) PlayerSpawn() Cell { return l.playerSpawn }

// GhostSpawns returns ghost start cells in map order.
func (l *Layout) GhostSpawns() []GhostSpawn {
	out := make([]GhostSpawn, len(l.ghostSpawns))
	copy(out, l.ghostSpawns)
	return out
}

// PelletCount returns how many pellets the map starts with.
func (l *Layout) PelletCount() int { return len(l.pellets) }

// Tile returns the tile at (row, col); cells outside the map are floor.
func (l *Layout) Tile(row, col int) Tile {
	if row < 0 || row >= l.height || col < 0 || col >= l.width {
		return TileFloor
	}
	return l.tiles[row*l.width+col]
}

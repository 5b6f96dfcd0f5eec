package ghostmaze

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/ghostmaze/internal/core"
	"github.com/vovakirdan/ghostmaze/internal/games/ghostmaze/engine"
)

// Glyphs used by the maze renderer.
const (
	glyphWall      = '█'
	glyphPellet    = '·'
	glyphHalfBlock = '▄'
	glyphGate      = '═'
	glyphGateMove  = '╌'
	glyphFruit     = '♣'
	glyphGhost     = 'ᗣ'
	glyphLife      = '●'
)

// ghostColors is indexed by ghost variant.
var ghostColors = [...]core.Color{core.ColorBrightRed, core.ColorPink}

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.world == nil {
		g.renderHUD(dst)
		msg := "Cannot load map"
		if g.loadErr != nil {
			msg = g.loadErr.Error()
		}
		g.renderOverlay(dst, "Map error", msg)
		return
	}

	g.renderHUD(dst)

	// Handle special states
	if g.tooSmall {
		g.renderOverlay(dst, "Window too small", "Resize to continue")
		return
	}

	g.renderMap(dst)
	g.renderFruit(dst)
	g.renderGhosts(dst)
	g.renderPlayer(dst)

	// Draw overlays
	switch {
	case g.world.State().Phase == engine.PhaseGameOver:
		g.renderOverlay(dst, "Game Over", "Press R to restart")
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *core.Screen) {
	hud := " Ghost Maze: " + g.level.Name
	if g.world != nil {
		s := g.world.State()
		hud += fmt.Sprintf(" | Score: %d  Lives: ", s.Score)
		dst.DrawText(0, 0, hud)
		x := len([]rune(hud))
		for i, n := 0, g.tuning.Lives; i < n; i++ {
			c := core.ColorYellow
			if i >= s.Lives {
				c = core.ColorGray
			}
			dst.SetColored(x+i, 0, glyphLife, c)
		}
		if secs := g.world.PowerUpRemaining(); secs > 0 {
			dst.DrawTextColored(x+g.tuning.Lives+2, 0,
				fmt.Sprintf("Ghosts are eatable for next %ds", secs), core.ColorBrightCyan)
		}
	} else {
		dst.DrawText(0, 0, hud)
	}

	// Draw separator
	for x, n := 0, dst.Width(); x < n; x++ {
		dst.Set(x, 1, '─')
	}
}

// cellPos converts a map cell to its top-left screen position.
func (g *Game) cellPos(c engine.Cell) (int, int) {
	return g.mapOffsetX + c.Col*g.cellW, g.mapOffsetY + c.Row
}

// setCell fills one map cell with a glyph.
func (g *Game) setCell(dst *core.Screen, c engine.Cell, r rune, col core.Color) {
	x, y := g.cellPos(c)
	for i, n := 0, g.cellW; i < n; i++ {
		dst.SetColored(x+i, y, r, col)
	}
}

// setEntity draws a glyph in the first column of a cell and blanks the rest.
func (g *Game) setEntity(dst *core.Screen, c engine.Cell, r rune, col core.Color) {
	x, y := g.cellPos(c)
	dst.SetColored(x, y, r, col)
	for i := 1; i < g.cellW; i++ {
		dst.Set(x+i, y, ' ')
	}
}

// renderMap draws walls, half-blocks, gates and live pellets.
func (g *Game) renderMap(dst *core.Screen) {
	grid := g.world.Grid()
	for row, n := 0, grid.Rows(); row < n; row++ {
		for col, n := 0, grid.Cols(); col < n; col++ {
			c := engine.C(row, col)
			switch grid.TileAt(row, col) {
			case engine.TileWall:
				g.setCell(dst, c, glyphWall, core.ColorBlue)
			case engine.TileHalfBlock:
				g.setCell(dst, c, glyphHalfBlock, core.ColorGray)
			case engine.TilePellet:
				if grid.HasPellet(c) {
					g.setEntity(dst, c, glyphPellet, core.ColorBrightYellow)
				}
			}
		}
	}

	for _, gate := range grid.Gates() {
		switch gate.Phase {
		case engine.GateClosed:
			g.setCell(dst, gate.Cell, glyphGate, core.ColorPink)
		case engine.GateOpening, engine.GateClosing:
			g.setCell(dst, gate.Cell, glyphGateMove, core.ColorPink)
		}
	}
}

func (g *Game) renderFruit(dst *core.Screen) {
	if f, ok := g.world.Fruit(); ok {
		g.setEntity(dst, f.Cell, glyphFruit, core.ColorRed)
	}
}

func (g *Game) renderGhosts(dst *core.Screen) {
	grid := g.world.Grid()
	eatable := g.world.State().GhostEatable
	for _, gh := range g.world.Ghosts() {
		col := ghostColors[gh.Variant%len(ghostColors)]
		if eatable {
			col = core.ColorBrightBlue
		}
		g.setEntity(dst, grid.WorldToCell(gh.Pos.X, gh.Pos.Z), glyphGhost, col)
	}
}

// renderPlayer draws the player as a mouth opening towards its facing.
func (g *Game) renderPlayer(dst *core.Screen) {
	p := g.world.Player()
	col := core.ColorYellow
	if p.OnHalfBlock {
		col = core.ColorBrightWhite
	}
	g.setEntity(dst, g.world.Grid().WorldToCell(p.Pos.X, p.Pos.Z), playerGlyph(p.Facing), col)
}

func playerGlyph(d engine.Dir) rune {
	switch d {
	case engine.DirUp:
		return 'v'
	case engine.DirDown:
		return '^'
	case engine.DirLeft:
		return '>'
	case engine.DirRight:
		return '<'
	default:
		return 'C'
	}
}

// renderOverlay draws a centered overlay message.
func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	w := dst.Width()
	h := dst.Height()

	maxLen := max(len([]rune(line1)), len([]rune(line2)))
	if maxLen > w-4 && w > 4 {
		maxLen = w - 4
		line2 = truncate(line2, maxLen)
	}
	boxW := maxLen + 4
	boxH := 5
	box := core.NewRect((w-boxW)/2, (h-boxH)/2, boxW, boxH)

	blank := strings.Repeat(" ", boxW)
	for y := box.Y; y < box.Bottom(); y++ {
		dst.DrawText(box.X, y, blank)
	}
	dst.DrawBox(box, core.ColorDefault)

	dst.DrawTextCentered(box.Y+1, line1, core.ColorBrightWhite)
	dst.DrawTextCentered(box.Y+3, line2, core.ColorDefault)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

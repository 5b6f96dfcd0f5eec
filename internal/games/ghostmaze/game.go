// Package ghostmaze adapts the maze engine to the arcade platform: fixed
// ticks become engine timestamps, actions become steering input and the
// world is drawn into the character screen.
package ghostmaze

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/vovakirdan/ghostmaze/internal/config"
	"github.com/vovakirdan/ghostmaze/internal/core"
	"github.com/vovakirdan/ghostmaze/internal/games/ghostmaze/engine"
	"github.com/vovakirdan/ghostmaze/internal/games/ghostmaze/levels"
	"github.com/vovakirdan/ghostmaze/internal/registry"
)

// BaseID is the registry ID of the first built-in level. Other levels are
// registered as BaseID + "_" + level ID.
const BaseID = "ghostmaze"

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// mapFile replaces the built-in level for every Ghost Maze game when set.
var mapFile string

// SetConfigPath sets a custom config file path for Ghost Maze.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset for Ghost Maze.
func SetDifficultyPreset(preset string) {
	p, ok := config.ParsePreset(preset)
	if !ok {
		p = ""
	}
	difficultyPreset = p
}

// SetMapFile makes games load their map from a file instead of the built-in
// level. An empty path restores the built-in levels.
func SetMapFile(path string) {
	mapFile = path
}

// MapFile returns the map file set with SetMapFile.
func MapFile() string {
	return mapFile
}

// GameID returns the registry ID for a built-in level.
func GameID(levelID string, first bool) string {
	if first {
		return BaseID
	}
	return BaseID + "_" + levelID
}

func init() {
	lvls, err := levels.Builtin()
	if err != nil {
		panic(fmt.Sprintf("ghostmaze: built-in levels: %v", err))
	}
	for i, lvl := range lvls {
		lvl := lvl
		id := GameID(lvl.ID, i == 0)
		registry.Register(id, func() registry.Game {
			return New(id, lvl)
		})
	}
}

// Summary describes a finished or abandoned round for score keeping.
type Summary struct {
	GameID  string
	LevelID string
	Score   int
	Stats   engine.Stats
	Elapsed time.Duration
}

// Game implements the Ghost Maze game on top of engine.World.
type Game struct {
	id    string
	level levels.Level

	world    *engine.World
	rng      *rand.Rand
	tuning   engine.Tuning
	simTicks uint64 // ticks that reached the engine; paused ticks do not count
	tickRate int
	best     int // best score seen this round; death wipes the running score

	// Screen layout
	screenW    int
	screenH    int
	hudHeight  int
	cellW      int
	mapOffsetX int
	mapOffsetY int

	paused   bool
	tooSmall bool
	loadErr  error

	lastEvents []engine.Event
}

// New creates a game playing the given level under a registry ID.
func New(id string, lvl levels.Level) *Game {
	return &Game{id: id, level: lvl}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return g.id
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Ghost Maze: " + g.level.Name
}

// Description returns the level description shown in menus.
func (g *Game) Description() string {
	return g.level.Description
}

// LevelInfo returns the level ID and its menu position.
func (g *Game) LevelInfo() (string, int) {
	return g.level.ID, g.level.Order
}

// Level returns the level currently loaded.
func (g *Game) Level() levels.Level {
	return g.level
}

// Reset initializes/restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.simTicks = 0
	g.best = 0
	g.paused = false
	g.loadErr = nil
	g.lastEvents = nil
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.hudHeight = 2
	g.tickRate = cfg.TickRate
	if g.tickRate <= 0 {
		g.tickRate = core.DefaultConfig().TickRate
	}

	gameCfg, err := config.Load(configPath)
	if err != nil {
		gameCfg = config.DefaultGhostMazeConfig()
	}
	config.ApplyPreset(&gameCfg, difficultyPreset)
	g.tuning = gameCfg.Tuning()

	if mapFile != "" {
		lvl, err := levels.LoadFile(mapFile)
		if err != nil {
			g.fail(err)
			return
		}
		g.level = lvl
	}
	if err := g.build(); err != nil {
		g.fail(err)
	}
}

// ReloadMap rereads the map file and starts a fresh round on it. The current
// world is kept when the file cannot be loaded.
func (g *Game) ReloadMap() error {
	if g.level.FilePath == "" {
		return fmt.Errorf("ghostmaze: level %s has no map file", g.level.ID)
	}
	lvl, err := levels.LoadFile(g.level.FilePath)
	if err != nil {
		return err
	}
	prev := g.level
	g.level = lvl
	if err := g.build(); err != nil {
		g.level = prev
		return err
	}
	g.simTicks = 0
	g.best = 0
	g.loadErr = nil
	return nil
}

// build creates a world for the current level and lays it out on screen.
func (g *Game) build() error {
	layout, err := g.level.Layout()
	if err != nil {
		return err
	}
	world, err := engine.NewWorld(layout, engine.Options{Tuning: g.tuning, Rand: g.rng})
	if err != nil {
		return err
	}
	g.world = world
	g.layout()
	return nil
}

func (g *Game) fail(err error) {
	g.world = nil
	g.loadErr = err
}

// layout centres the map. Cells are two characters wide when there is room,
// which keeps the maze roughly square in a terminal.
func (g *Game) layout() {
	if g.world == nil {
		return
	}
	cols := g.world.Grid().Cols()
	rows := g.world.Grid().Rows()

	g.cellW = 2
	if g.screenW < cols*2 {
		g.cellW = 1
	}
	requiredW := cols * g.cellW
	requiredH := rows + g.hudHeight
	if g.screenW < requiredW || g.screenH < requiredH {
		g.tooSmall = true
		return
	}
	g.tooSmall = false
	g.mapOffsetX = (g.screenW - requiredW) / 2
	g.mapOffsetY = g.hudHeight + (g.screenH-requiredH)/2
}

// Resize adapts the layout to a new screen size.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.layout()
}

// now converts simulated ticks to engine time.
func (g *Game) now() time.Duration {
	return time.Duration(g.simTicks) * time.Second / time.Duration(g.tickRate)
}

// Step advances the game by one tick.
func (g *Game) Step(input core.InputFrame) core.StepResult {
	g.lastEvents = nil

	if g.world == nil {
		return core.StepResult{State: g.State()}
	}

	// Handle restart
	if input.Has(core.ActionRestart) && g.world.State().Phase == engine.PhaseGameOver {
		g.Reset(core.RuntimeConfig{
			Seed:     g.rng.Int63(),
			ScreenW:  g.screenW,
			ScreenH:  g.screenH,
			TickRate: g.tickRate,
		})
		return core.StepResult{State: g.State()}
	}

	// Handle pause toggle
	if input.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused || g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	res := g.world.Step(g.now(), toEngineInput(input))
	g.simTicks++
	g.lastEvents = res.Events
	g.best = max(g.best, g.world.State().Score)

	var cues []core.Cue
	if len(res.Events) > 0 {
		cues = make([]core.Cue, len(res.Events))
		for i, ev := range res.Events {
			cues[i] = core.Cue(ev.Kind.String())
		}
	}
	return core.StepResult{State: g.State(), Cues: cues}
}

// toEngineInput maps platform actions to steering input. When several
// directions arrive in one frame the first in up, down, left, right order wins.
func toEngineInput(in core.InputFrame) engine.Input {
	var out engine.Input
	switch {
	case in.Has(core.ActionUp):
		out.Dir = engine.DirUp
	case in.Has(core.ActionDown):
		out.Dir = engine.DirDown
	case in.Has(core.ActionLeft):
		out.Dir = engine.DirLeft
	case in.Has(core.ActionRight):
		out.Dir = engine.DirRight
	}
	out.Hop = in.Has(core.ActionHop)
	return out
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.world == nil {
		return core.GameState{GameOver: true}
	}
	s := g.world.State()
	return core.GameState{
		Score:    s.Score,
		Lives:    s.Lives,
		GameOver: s.Phase == engine.PhaseGameOver,
		Paused:   g.paused,
	}
}

// Summary reports the round so far. Score is the best score reached, since
// losing a life wipes the running score.
func (g *Game) Summary() Summary {
	s := Summary{GameID: g.id, LevelID: g.level.ID, Score: g.best}
	if g.world != nil {
		s.Stats = g.world.Stats()
		s.Elapsed = g.world.Now()
	}
	return s
}

// Events returns the engine events of the last step.
func (g *Game) Events() []engine.Event {
	return g.lastEvents
}

// Err returns the map loading error, if any.
func (g *Game) Err() error {
	return g.loadErr
}

// Snapshot returns the engine snapshot for determinism tests and remote
// renderers.
func (g *Game) Snapshot() engine.Snapshot {
	if g.world == nil {
		return engine.Snapshot{}
	}
	return g.world.Snapshot()
}

// DebugState returns a string representation of the game state.
func (g *Game) DebugState() string {
	if g.world == nil {
		return fmt.Sprintf("Level: %s, error: %v\n", g.level.ID, g.loadErr)
	}
	var b strings.Builder
	s := g.world.State()
	p := g.world.Player()
	fmt.Fprintf(&b, "Tick: %d, Time: %s, Level: %s\n", g.simTicks, g.world.Now(), g.level.ID)
	fmt.Fprintf(&b, "Score: %d, Lives: %d, Phase: %s\n", s.Score, s.Lives, s.Phase)
	fmt.Fprintf(&b, "Player: (%.0f, %.0f) %s elevated=%v\n", p.Pos.X, p.Pos.Z, p.Facing, p.OnHalfBlock)
	for _, gh := range g.world.Ghosts() {
		fmt.Fprintf(&b, "Ghost %d: (%.0f, %.0f) %s %s\n", gh.ID, gh.Pos.X, gh.Pos.Z, gh.State, gh.Heading)
	}
	return b.String()
}

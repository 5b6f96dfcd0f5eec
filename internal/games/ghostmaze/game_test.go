package ghostmaze

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/ghostmaze/internal/core"
	"github.com/vovakirdan/ghostmaze/internal/registry"
)

func newGame(t *testing.T, id string, seed int64) *Game {
	t.Helper()
	rg, err := registry.Create(id)
	if err != nil {
		t.Fatalf("Create(%q) failed: %v", id, err)
	}
	g, ok := rg.(*Game)
	if !ok {
		t.Fatalf("Create(%q) returned %T", id, rg)
	}
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: seed})
	if err := g.Err(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	return g
}

func frame(actions ...core.Action) core.InputFrame {
	f := core.NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

func useMapFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "custom.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	SetMapFile(path)
	t.Cleanup(func() { SetMapFile("") })
	return path
}

func TestRegistersBuiltinLevels(t *testing.T) {
	for _, id := range []string{"ghostmaze", "ghostmaze_twin"} {
		if !registry.Exists(id) {
			t.Errorf("game %q not registered", id)
		}
	}
	classic, _ := registry.Info("ghostmaze")
	twin, _ := registry.Info("ghostmaze_twin")
	if classic.Level != "classic" || twin.Level != "twin" || classic.Order >= twin.Order {
		t.Errorf("level info: classic = %+v, twin = %+v", classic, twin)
	}
	if twin.Description == "" {
		t.Error("twin has no description")
	}

	g := newGame(t, "ghostmaze_twin", 1)
	if g.ID() != "ghostmaze_twin" || g.Level().ID != "twin" {
		t.Errorf("ID() = %q, level = %q", g.ID(), g.Level().ID)
	}
	if !strings.HasPrefix(g.Title(), "Ghost Maze") {
		t.Errorf("Title() = %q", g.Title())
	}
}

func TestDeterminism(t *testing.T) {
	script := func(i int) core.InputFrame {
		switch i % 240 {
		case 0:
			return frame(core.ActionLeft)
		case 60:
			return frame(core.ActionUp)
		case 120:
			return frame(core.ActionRight, core.ActionHop)
		case 180:
			return frame(core.ActionDown)
		}
		return core.NewInputFrame()
	}

	g1 := newGame(t, "ghostmaze", 42)
	g2 := newGame(t, "ghostmaze", 42)
	for i := 0; i < 3000; i++ {
		g1.Step(script(i))
		g2.Step(script(i))
	}

	if !reflect.DeepEqual(g1.Snapshot(), g2.Snapshot()) {
		t.Errorf("same seed and input diverged:\n%s\n%s", g1.DebugState(), g2.DebugState())
	}
}

func TestTickClock(t *testing.T) {
	g := newGame(t, "ghostmaze", 1)
	for i := 0; i < 61; i++ {
		g.Step(core.NewInputFrame())
	}
	if ms := g.Snapshot().TimeMS; ms != 1000 {
		t.Errorf("TimeMS after 61 ticks = %d, expected 1000", ms)
	}
}

func TestPauseFreezesTime(t *testing.T) {
	g := newGame(t, "ghostmaze", 1)
	g.Step(frame(core.ActionLeft))

	g.Step(frame(core.ActionPause))
	if !g.State().Paused {
		t.Fatal("expected paused state")
	}
	before := g.Snapshot()
	for i := 0; i < 120; i++ {
		g.Step(frame(core.ActionLeft))
	}
	if after := g.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Errorf("world advanced while paused: tick %d -> %d", before.Tick, after.Tick)
	}

	g.Step(frame(core.ActionPause))
	if g.State().Paused {
		t.Error("expected pause to toggle off")
	}
}

func TestPelletCue(t *testing.T) {
	useMapFile(t, "#####\n#P..#\n#####\n")
	g := newGame(t, "ghostmaze", 1)

	var cues []core.Cue
	res := g.Step(frame(core.ActionRight))
	cues = append(cues, res.Cues...)
	for i := 0; i < 30; i++ {
		cues = append(cues, g.Step(core.NewInputFrame()).Cues...)
	}

	found := false
	for _, c := range cues {
		if c == "pellet-eaten" {
			found = true
		}
	}
	if !found {
		t.Fatalf("cues = %v, expected pellet-eaten", cues)
	}
	if s := g.State(); s.Score != 1 || s.Lives != 3 {
		t.Errorf("state = %+v, expected score 1 and 3 lives", s)
	}
	if sum := g.Summary(); sum.Score != 1 || sum.Stats.PelletsEaten != 1 || sum.LevelID != "custom" {
		t.Errorf("Summary() = %+v", sum)
	}
}

func TestReloadMap(t *testing.T) {
	path := useMapFile(t, "#####\n#P..#\n#####\n")
	g := newGame(t, "ghostmaze", 1)

	if err := os.WriteFile(path, []byte("#######\n#P....#\n#######\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := g.ReloadMap(); err != nil {
		t.Fatalf("ReloadMap failed: %v", err)
	}
	if got := g.Snapshot().Pellets; got != 4 {
		t.Errorf("Pellets after reload = %d, expected 4", got)
	}

	if err := os.WriteFile(path, []byte("#####\n#...#\n#####\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := g.ReloadMap(); err == nil {
		t.Error("expected error for a map without a player spawn")
	}
	if got := g.Snapshot().Pellets; got != 4 {
		t.Errorf("failed reload replaced the world: %d pellets", got)
	}
}

func TestBadMapFile(t *testing.T) {
	useMapFile(t, "###\n#.#\n###\n")
	rg, err := registry.Create("ghostmaze")
	if err != nil {
		t.Fatal(err)
	}
	g := rg.(*Game)
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1})

	if g.Err() == nil {
		t.Fatal("expected load error")
	}
	g.Step(frame(core.ActionLeft))
	if !g.State().GameOver {
		t.Error("a game without a map should report game over")
	}

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Map error") {
		t.Error("expected map error overlay")
	}
}

func TestRender(t *testing.T) {
	g := newGame(t, "ghostmaze", 1)
	screen := core.NewScreen(80, 24)
	g.Render(screen)

	if hud := screen.Row(0); !strings.Contains(hud, "Score: 0") {
		t.Errorf("HUD = %q", hud)
	}
	out := screen.String()
	for _, r := range []rune{glyphWall, glyphPellet, glyphGate, glyphGhost, 'C'} {
		if !strings.ContainsRune(out, r) {
			t.Errorf("rendered maze has no %q", r)
		}
	}

	g.Step(frame(core.ActionPause))
	g.Render(screen)
	if !strings.Contains(screen.String(), "Paused") {
		t.Error("expected pause overlay")
	}
}

func TestRenderTooSmall(t *testing.T) {
	g := newGame(t, "ghostmaze", 1)
	g.Resize(20, 10)
	screen := core.NewScreen(20, 10)
	g.Render(screen)
	if !strings.Contains(screen.String(), "too small") {
		t.Error("expected too small overlay")
	}

	g.Resize(80, 24)
	screen.Resize(80, 24)
	g.Render(screen)
	if strings.Contains(screen.String(), "too small") {
		t.Error("overlay kept after resize")
	}
}

package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/ghostmaze/internal/core"
	"github.com/vovakirdan/ghostmaze/internal/games/ghostmaze"
	"github.com/vovakirdan/ghostmaze/internal/games/ghostmaze/engine"
	"github.com/vovakirdan/ghostmaze/internal/storage"
)

// fakeGame ends the round after a fixed number of steps.
type fakeGame struct {
	steps     int
	endAfter  int
	resets    int
	reloads   int
	reloadErr error
	inputs    []core.InputFrame
}

func (g *fakeGame) ID() string    { return "fake" }
func (g *fakeGame) Title() string { return "Fake" }

func (g *fakeGame) Reset(core.RuntimeConfig) {
	g.resets++
	g.steps = 0
}

func (g *fakeGame) Step(in core.InputFrame) core.StepResult {
	g.steps++
	g.inputs = append(g.inputs, in.Clone())
	return core.StepResult{State: g.State(), Cues: []core.Cue{"pellet-eaten"}}
}

func (g *fakeGame) Render(dst *core.Screen) {
	dst.Clear()
	dst.DrawText(0, 0, "fake")
}

func (g *fakeGame) State() core.GameState {
	return core.GameState{Score: 0, GameOver: g.steps >= g.endAfter}
}

func (g *fakeGame) Summary() ghostmaze.Summary {
	return ghostmaze.Summary{
		GameID:  "fake",
		LevelID: "classic",
		Score:   7,
		Stats:   engine.Stats{PelletsEaten: 7, Deaths: 3},
	}
}

func (g *fakeGame) ReloadMap() error {
	g.reloads++
	return g.reloadErr
}

type recordingSink struct {
	cues []core.Cue
}

func (s *recordingSink) Play(c core.Cue) { s.cues = append(s.cues, c) }

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm
}

func TestKeyMapper(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp, false},
		{tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft, false},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")}, core.ActionRight, false},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}, core.ActionHop, false},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")}, core.ActionPause, false},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}, core.ActionQuit, true},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}, core.ActionNone, false},
	}

	for _, tt := range tests {
		action, quit := km.MapKey(tt.msg)
		if action != tt.action || quit != tt.quit {
			t.Errorf("MapKey(%q) = %v, %v, expected %v, %v", tt.msg.String(), action, quit, tt.action, tt.quit)
		}
	}

	if got := km.MapKeyToMenuAction(tea.KeyMsg{Type: tea.KeyTab}); got != MenuActionScoreboard {
		t.Errorf("tab = %v, expected scoreboard", got)
	}
}

func TestRenderScreen(t *testing.T) {
	s := core.NewScreen(4, 2)
	s.DrawText(0, 0, "ab")
	s.SetColored(2, 0, 'c', core.ColorRed)
	s.DrawTextColored(0, 1, "xy", core.ColorBlue)

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, expected 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "ab") {
		t.Errorf("default-colour run should be unstyled: %q", lines[0])
	}
	for _, want := range []string{"c", "xy"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestModelRecordsRound(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	game := &fakeGame{endAfter: 3}
	sink := &recordingSink{}
	m := NewModel(game, core.RuntimeConfig{ScreenW: 20, ScreenH: 5, TickRate: 60, Seed: 1}, Options{
		Store: store,
		Sound: sink,
	})
	m.Init()

	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	for i := 0; i < 5; i++ {
		m = update(t, m, TickMsg{})
	}

	if !game.inputs[0].Has(core.ActionLeft) {
		t.Error("key press did not reach the game")
	}
	if game.inputs[1].Has(core.ActionLeft) {
		t.Error("input frame not cleared after a tick")
	}
	if len(sink.cues) != 5 {
		t.Errorf("sink got %d cues, expected 5", len(sink.cues))
	}

	high, err := store.HighScore("fake")
	if err != nil || high != 7 {
		t.Errorf("HighScore() = %d, %v, expected the summary score 7", high, err)
	}
	runs, err := store.RecentRuns("fake", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected one run saved once, got %d", len(runs))
	}
	if runs[0].Pellets != 7 || runs[0].Deaths != 3 || runs[0].LevelID != "classic" {
		t.Errorf("run = %+v", runs[0])
	}

	// Restart after game over
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	update(t, m, TickMsg{})
	if game.resets != 2 {
		t.Errorf("resets = %d, expected 2", game.resets)
	}
}

func TestModelReload(t *testing.T) {
	game := &fakeGame{endAfter: 100}
	m := NewModel(game, core.RuntimeConfig{ScreenW: 40, ScreenH: 5, TickRate: 60, Seed: 1}, Options{})
	m.Init()

	m = update(t, m, ReloadMsg{Path: "/tmp/level.txt"})
	if game.reloads != 1 {
		t.Fatalf("reloads = %d, expected 1", game.reloads)
	}
	if !strings.Contains(m.View(), "Map reloaded: level.txt") {
		t.Error("expected reload status line")
	}

	game.reloadErr = errors.New("boom")
	m = update(t, m, ReloadMsg{Path: "/tmp/level.txt"})
	if !strings.Contains(m.View(), "Reload failed: boom") {
		t.Error("expected reload failure status line")
	}
}

func TestModelBackToMenu(t *testing.T) {
	game := &fakeGame{endAfter: 1}
	m := NewModel(game, core.RuntimeConfig{ScreenW: 20, ScreenH: 5, TickRate: 60, Seed: 1}, Options{})
	m.allowBack = true
	m.Init()

	m = update(t, m, TickMsg{})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() {
		t.Error("esc after game over should return to the menu")
	}
	if m.IsQuitting() {
		t.Error("back to menu is not a quit")
	}
}

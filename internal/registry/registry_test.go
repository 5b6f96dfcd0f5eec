package registry

import (
	"testing"

	"github.com/vovakirdan/ghostmaze/internal/core"
)

type stubGame struct {
	id    string
	level string
	order int
}

func (g stubGame) ID() string                           { return g.id }
func (g stubGame) Title() string                        { return "Stub " + g.id }
func (g stubGame) Reset(core.RuntimeConfig)             {}
func (g stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g stubGame) Render(*core.Screen)                  {}
func (g stubGame) State() core.GameState                { return core.GameState{} }

type leveledStub struct{ stubGame }

func (g leveledStub) LevelInfo() (string, int) { return g.level, g.order }
func (g leveledStub) Description() string      { return "level " + g.level }

func register(t *testing.T, g Game) {
	t.Helper()
	Register(g.ID(), func() Game { return g })
	t.Cleanup(func() {
		mu.Lock()
		delete(factories, g.ID())
		delete(infos, g.ID())
		mu.Unlock()
	})
}

func TestListInLevelOrder(t *testing.T) {
	register(t, leveledStub{stubGame{id: "reg_b", level: "bravo", order: 2}})
	register(t, leveledStub{stubGame{id: "reg_a", level: "alpha", order: 3}})
	register(t, leveledStub{stubGame{id: "reg_c", level: "charlie", order: 1}})
	register(t, stubGame{id: "reg_plain"})

	var got []string
	for _, info := range List() {
		got = append(got, info.ID)
	}
	want := []string{"reg_plain", "reg_c", "reg_b", "reg_a"}
	if len(got) != len(want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("List() = %v, want %v", got, want)
		}
	}
}

func TestInfo(t *testing.T) {
	register(t, leveledStub{stubGame{id: "reg_info", level: "twin", order: 2}})

	info, ok := Info("reg_info")
	if !ok {
		t.Fatal("Info not found")
	}
	want := GameInfo{ID: "reg_info", Title: "Stub reg_info", Description: "level twin", Level: "twin", Order: 2}
	if info != want {
		t.Errorf("Info = %+v, want %+v", info, want)
	}
	if _, ok := Info("reg_missing"); ok {
		t.Error("Info found an unregistered game")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	register(t, stubGame{id: "reg_dup"})
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate ID")
		}
	}()
	Register("reg_dup", func() Game { return stubGame{id: "reg_dup"} })
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("reg_nope"); err == nil {
		t.Error("expected error for unknown game")
	}
	if Exists("reg_nope") {
		t.Error("Exists reported an unknown game")
	}
}

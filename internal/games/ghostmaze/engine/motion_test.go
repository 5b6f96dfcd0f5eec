package engine

import (
	"testing"
	"time"
)

func TestBlockedMoveIsIdempotent(t *testing.T) {
	w := newTestWorld(t, []string{
		"#####",
		"#P  #",
		"#####",
	}, nil)
	d := &driver{w: w}

	for i := 0; i < 60; i++ {
		d.step(Input{Dir: DirRight})
	}
	p := w.Player()
	if p.Pos.X != 150 || p.Pos.Z != 50 {
		t.Fatalf("player stopped at (%v,%v), want (150,50)", p.Pos.X, p.Pos.Z)
	}
	if p.Facing != DirRight {
		t.Fatalf("facing = %v, want right", p.Facing)
	}

	// Neither the current heading nor a new blocked request changes anything.
	before := w.Player()
	d.step(Input{})
	d.step(Input{Dir: DirUp})
	after := w.Player()
	if after.Pos != before.Pos || after.Facing != before.Facing || after.OnHalfBlock != before.OnHalfBlock {
		t.Errorf("blocked step changed the player: %+v -> %+v", before, after)
	}
	if after.Next != DirUp || after.Current != DirRight {
		t.Errorf("buffer = %v/%v, want current right with up pending", after.Current, after.Next)
	}
}

func TestBufferedTurnTakesEffectWhenLegal(t *testing.T) {
	w := newTestWorld(t, []string{
		"#####",
		"#P  #",
		"## ##",
		"#####",
	}, nil)
	d := &driver{w: w}

	d.step(Input{Dir: DirRight})
	d.step(Input{Dir: DirDown})
	for i := 0; i < 100; i++ {
		d.step(Input{})
	}

	p := w.Player()
	if p.Pos.X != 100 || p.Pos.Z != 50 {
		t.Errorf("player at (%v,%v), want (100,50) after turning down", p.Pos.X, p.Pos.Z)
	}
	if p.Current != DirDown || p.Facing != DirDown {
		t.Errorf("current=%v facing=%v, want down", p.Current, p.Facing)
	}
}

func TestHalfBlockHop(t *testing.T) {
	w := newTestWorld(t, []string{
		"#######",
		"#P '  #",
		"#######",
	}, nil)
	d := &driver{w: w}

	res := d.step(Input{Dir: DirRight, Hop: true})
	if countEvents(res.Events, EventHop) != 0 || w.Player().OnHalfBlock {
		t.Fatal("hopped from outside the hop reach")
	}

	for i := 0; i < 40; i++ {
		d.step(Input{})
	}
	p := w.Player()
	if p.Pos.X != 100 || p.OnHalfBlock {
		t.Fatalf("player at x=%v elevated=%v, want stopped at 100 on the ground", p.Pos.X, p.OnHalfBlock)
	}

	res = d.step(Input{Hop: true})
	if countEvents(res.Events, EventHop) != 1 {
		t.Fatal("no hop event")
	}
	p = w.Player()
	if !p.OnHalfBlock || p.Pos.Y != -25 || p.Pos.X != 102 {
		t.Fatalf("after hop: %+v", p)
	}

	res = d.step(Input{Hop: true})
	if countEvents(res.Events, EventHop) != 0 {
		t.Error("hopped while already elevated")
	}

	for w.Player().Pos.X < 200 {
		d.step(Input{})
		if !w.Player().OnHalfBlock {
			t.Fatalf("dropped early at x=%v", w.Player().Pos.X)
		}
	}
	d.step(Input{})
	p = w.Player()
	if p.Pos.X != 202 || p.OnHalfBlock || p.Pos.Y != 0 {
		t.Fatalf("leaving the half-block: %+v", p)
	}

	for i := 0; i < 40; i++ {
		d.step(Input{})
	}
	if x := w.Player().Pos.X; x != 250 {
		t.Fatalf("player at x=%v, want stopped by the wall at 250", x)
	}

	for i := 0; i < 60; i++ {
		d.step(Input{Dir: DirLeft})
	}
	if x := w.Player().Pos.X; x != 200 {
		t.Errorf("player at x=%v, want stopped by the half-block at 200", x)
	}
}

func TestGateAlwaysBlocksPlayer(t *testing.T) {
	w := newTestWorld(t, []string{
		"#####",
		"#P-.#",
		"#####",
	}, nil)
	d := &driver{w: w}

	d.runUntil(2*time.Second, Input{Dir: DirRight})

	if !w.State().GatesOpened {
		t.Fatal("directional input did not open the gates")
	}
	if g := w.Grid().Gates()[0]; g.Phase != GateOpen {
		t.Fatalf("gate phase = %v, want open", g.Phase)
	}
	if x := w.Player().Pos.X; x != 50 {
		t.Errorf("player passed through an open gate: x=%v", x)
	}
}

package core

import "testing"

func TestInputFrame(t *testing.T) {
	f := NewInputFrame()
	if f.Has(ActionLeft) {
		t.Fatal("new frame should be empty")
	}

	f.Set(ActionLeft)
	f.Set(ActionHop)
	clone := f.Clone()

	f.Clear()
	if f.Has(ActionLeft) || f.Has(ActionHop) {
		t.Error("Clear should drop every action")
	}
	if !clone.Has(ActionLeft) || !clone.Has(ActionHop) {
		t.Error("Clone should not share storage with the original")
	}
}

func TestInputFrameZeroValue(t *testing.T) {
	var f InputFrame
	if f.Has(ActionUp) {
		t.Error("zero frame should report no actions")
	}
	f.Set(ActionUp)
	if !f.Has(ActionUp) {
		t.Error("Set on zero frame should allocate")
	}
}

func TestActionString(t *testing.T) {
	if ActionHop.String() != "Hop" {
		t.Errorf("ActionHop.String() = %q", ActionHop.String())
	}
	if Action(99).String() != "Unknown" {
		t.Errorf("unknown action should stringify as Unknown")
	}
}

func TestColorANSI(t *testing.T) {
	if ColorDefault.ANSI() != "" {
		t.Error("default colour should have no code")
	}
	if ColorOrange.ANSI() != "208" {
		t.Errorf("ColorOrange.ANSI() = %q", ColorOrange.ANSI())
	}
	if Color(200).ANSI() != "" {
		t.Error("out-of-range colour should fall back to default")
	}
}

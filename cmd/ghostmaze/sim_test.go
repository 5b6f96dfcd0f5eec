package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/ghostmaze/internal/games/ghostmaze/engine"
	"github.com/vovakirdan/ghostmaze/internal/games/ghostmaze/levels"
)

func TestParseScript(t *testing.T) {
	got, err := parseScript("0:left, 90:up+hop,200:R")
	if err != nil {
		t.Fatalf("parseScript() failed: %v", err)
	}
	want := map[int]engine.Input{
		0:   {Dir: engine.DirLeft},
		90:  {Dir: engine.DirUp, Hop: true},
		200: {Dir: engine.DirRight},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseScript() = %v, expected %v", got, want)
	}

	for _, bad := range []string{"left", "x:up", "-1:up", "5:jump"} {
		if _, err := parseScript(bad); err == nil {
			t.Errorf("parseScript(%q) should fail", bad)
		}
	}

	if got, err := parseScript(""); err != nil || len(got) != 0 {
		t.Errorf("empty script = %v, %v", got, err)
	}
}

func TestSimulateIsDeterministic(t *testing.T) {
	lvl, err := levels.BuiltinByID("classic")
	if err != nil {
		t.Fatal(err)
	}
	script, err := parseScript("0:left,120:up,240:right+hop,360:down")
	if err != nil {
		t.Fatal(err)
	}

	a, err := simulate(lvl, engine.DefaultTuning(), 7, 60, 1200, script)
	if err != nil {
		t.Fatalf("simulate() failed: %v", err)
	}
	b, err := simulate(lvl, engine.DefaultTuning(), 7, 60, 1200, script)
	if err != nil {
		t.Fatalf("simulate() failed: %v", err)
	}

	outA, _ := yaml.Marshal(a)
	outB, _ := yaml.Marshal(b)
	if string(outA) != string(outB) {
		t.Error("identical runs printed different reports")
	}
	if a.Snapshot.Tick != 1200 {
		t.Errorf("tick = %d, expected 1200", a.Snapshot.Tick)
	}
	if !strings.Contains(string(outA), "snapshot:") {
		t.Errorf("report lacks snapshot:\n%s", outA)
	}
}

func TestCheckLevel(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.txt")
	bad := filepath.Join(dir, "bad.txt")
	if err := os.WriteFile(good, []byte("#######\n#P..'.#\n#######\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("#####\n#...#\n#####\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	summary, err := checkLevel(good)
	if err != nil {
		t.Fatalf("checkLevel(good) failed: %v", err)
	}
	if !strings.Contains(summary, "7x3") || !strings.Contains(summary, "3 pellets") {
		t.Errorf("summary = %q", summary)
	}

	if _, err := checkLevel(bad); err == nil {
		t.Error("checkLevel(bad) should fail without a player spawn")
	}
}

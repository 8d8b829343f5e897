package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	brogue "codeberg.org/brogue/brogue-core"
)

func TestDefaultLevel(t *testing.T) {
	rows, err := readLevel("")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != brogue.DROWS {
		t.Errorf("%d rows", len(rows))
	}
	if _, start, err := brogue.ParseLevel(rows); err != nil || start == brogue.InvalidPos {
		t.Errorf("bad level: %v (start %v)", err, start)
	}
}

func TestLevelFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.txt")
	if err := os.WriteFile(path, []byte("XXXX\r\nX@.X\r\nXXXX\r\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	sc := simConfig{LevelPath: path, Seed: 3, LogOutput: io.Discard}
	w, err := newSimulation(sc)
	if err != nil {
		t.Fatal(err)
	}
	if w.PP().X != 1 || w.PP().Y != 1 {
		t.Errorf("player at %v", w.PP())
	}
	sc.LevelPath = filepath.Join(t.TempDir(), "missing.txt")
	if _, err := newSimulation(sc); err == nil {
		t.Error("missing level loaded")
	}
}

func TestSimulationHordes(t *testing.T) {
	w, err := newSimulation(simConfig{Seed: 7, Hordes: 5, LogOutput: io.Discard})
	if err != nil {
		t.Fatal(err)
	}
	if w.Arena.Count() < 6 {
		t.Errorf("%d creatures", w.Arena.Count())
	}
	if err := w.CheckOccupancy(); err != nil {
		t.Error(err)
	}
}

func TestRunHeadless(t *testing.T) {
	var out bytes.Buffer
	sc := simConfig{Seed: 11, Hordes: 4, LogOutput: io.Discard}
	if err := runHeadless(sc, autopilot{bolt: brogue.BoltFire, level: 3}, 50, &out); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) < brogue.DROWS {
		t.Fatalf("%d lines of output", len(lines))
	}
	pic := lines[len(lines)-brogue.DROWS:]
	for _, l := range pic {
		if n := len([]rune(l)); n != brogue.DCOLS {
			t.Errorf("picture line of %d runes: %q", n, l)
		}
	}
}

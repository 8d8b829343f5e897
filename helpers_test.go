package brogue

import (
	"io"
	"testing"

	"codeberg.org/anaseto/gruid"
)

const rounds = 50

// openLevel is a single room filling the whole level.
var openLevel = []string{
	"XXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXX",
	"X.............................................................................X",
	"X.............................................................................X",
	"X.............................................................................X",
	"X.............................................................................X",
	"X.............................................................................X",
	"X.............................................................................X",
	"X.............................................................................X",
	"X.............................................................................X",
	"X.............................................................................X",
	"X.............................................................................X",
	"X.............................................................................X",
	"X.............................................................................X",
	"X.............................................................................X",
	"X.............................................................................X",
	"X.............................................................................X",
	"X.............................................................................X",
	"X.............................................................................X",
	"X.............................................................................X",
	"X.............................................................................X",
	"X.............................................................................X",
	"X.............................................................................X",
	"X.............................................................................X",
	"X.............................................................................X",
	"X.............................................................................X",
	"X.............................................................................X",
	"X.............................................................................X",
	"X.............................................................................X",
	"XXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXX",
}

// mixedLevel has rooms, corridors, doors and various hazards.
var mixedLevel = []string{
	"XXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXX",
	"X...............#.......................#.....................................X",
	"X...............#.......~~~~~...........#...........==........................X",
	"X..@............+.......~~~~~...........+...........==.........:::............X",
	"X...............#.......~~~~~...........#......................:::............X",
	"X...............#.......................#.....................................X",
	"X...............#########.#########.#####.....%%%.............................X",
	"X...................................#.........................................X",
	`X..""""""""""...........^...........#...........**............&&&&............X`,
	`X..""""""""""...........................................................----..X`,
	"X...................................#.......................................<.X",
	"X###############.####################.........................................X",
	"X...............#.............................................................X",
	"X...............#...............#########S##########..........................X",
	"X...............+...............#..................#..........................X",
	"X...............#...............#..................#.......F..................X",
	"X...............#...............#..................#..........................X",
	"X...............#...............#..................#..........................X",
	"X...............#...............####################..........................X",
	"X...............#.............................................................X",
	"X...............#.............................................................X",
	"X...............#.............................................................X",
	"X...............#..................>..........................................X",
	"X...............#.............................................................X",
	"X...............#.............................................................X",
	"X...............#.............................................................X",
	"X...............#.............................................................X",
	"X...............#.............................................................X",
	"XXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXX",
}

// testConfig returns a configuration suited to tests: deterministic, quiet,
// and panicking on invariant violations.
func testConfig(seed uint64) Config {
	cfg := DefaultConfig()
	cfg.Seed = seed
	cfg.Debug = true
	cfg.LogLevel = "error"
	return cfg.WithLogOutput(io.Discard)
}

// newTestWorld returns a world on the given level, with the player placed at
// the cell marked '@', if any.
func newTestWorld(t *testing.T, cfg Config, rows []string) *World {
	t.Helper()
	w, err := NewWorld(cfg, WithSink(&Logs{}))
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	start, err := w.LoadLevel(rows)
	if err != nil {
		t.Fatalf("LoadLevel: %v", err)
	}
	if start != InvalidPos {
		if _, err := w.PlacePlayer(start); err != nil {
			t.Fatalf("PlacePlayer: %v", err)
		}
	}
	return w
}

// openWorld returns a world on the open level with the player at p.
func openWorld(t *testing.T, seed uint64, p gruid.Point) *World {
	t.Helper()
	w := newTestWorld(t, testConfig(seed), openLevel)
	if _, err := w.PlacePlayer(p); err != nil {
		t.Fatalf("PlacePlayer: %v", err)
	}
	return w
}

// spawnAt spawns a monster exactly at p.
func spawnAt(t *testing.T, w *World, kind SpeciesID, p gruid.Point) *Creature {
	t.Helper()
	c, err := w.SpawnMonster(kind, p)
	if err != nil {
		t.Fatalf("SpawnMonster(%v): %v", kind, err)
	}
	if c.P != p {
		t.Fatalf("%s spawned at %v instead of %v", c.Info.Name, c.P, p)
	}
	return c
}

// checkOccupancy fails the test if occupancy flags and positions disagree.
func checkOccupancy(t *testing.T, w *World) {
	t.Helper()
	if err := w.CheckOccupancy(); err != nil {
		t.Fatal(err)
	}
}

// expectPanic fails the test if f does not panic.
func expectPanic(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	f()
}

package brogue

import (
	"testing"

	"codeberg.org/anaseto/gruid"
)

func TestWouldAvoidTerrain(t *testing.T) {
	w := openWorld(t, 1, gruid.Point{X: 2, Y: 2})
	at := gruid.Point{X: 20, Y: 10}
	next := gruid.Point{X: 21, Y: 10}
	cases := []struct {
		tile    TileType
		kind    SpeciesID
		state   Mindstate
		avoided bool
	}{
		{Lava, SpeciesGoblin, Wandering, true},
		{Lava, SpeciesSalamander, Wandering, false},
		{Chasm, SpeciesGoblin, TrackingScent, true},
		{Chasm, SpeciesVampireBat, TrackingScent, false},
		{DeepWater, SpeciesGoblin, TrackingScent, true},
		{DeepWater, SpeciesVampireBat, TrackingScent, false},
		{Fire, SpeciesGoblin, TrackingScent, true},
		{Fire, SpeciesWillOWisp, TrackingScent, false},
		{Lichen, SpeciesGoblin, Wandering, true},
		{Lichen, SpeciesGoblin, TrackingScent, false},
		{Spiderweb, SpeciesGoblin, Wandering, false},
		{Grass, SpeciesGoblin, Wandering, false},
		{Grass, SpeciesWillOWisp, Wandering, true},
		{Grass, SpeciesWillOWisp, TrackingScent, false},
		{PressurePlate, SpeciesGoblin, Wandering, true},
		{PressurePlate, SpeciesGoblin, TrackingScent, false},
		{Brimstone, SpeciesGoblin, Wandering, true},
		{Brimstone, SpeciesGoblin, Fleeing, false},
		{DownStairs, SpeciesGoblin, TrackingScent, true},
		{DownStairs, SpeciesVampireBat, TrackingScent, true},
		{Wall, SpeciesGoblin, TrackingScent, true},
		{SecretDoor, SpeciesGoblin, TrackingScent, false},
	}
	for _, tc := range cases {
		w.Map.SetTile(next, Floor)
		for l := LayerLiquid; l < NLayers; l++ {
			w.Map.ClearLayer(next, l)
		}
		w.Map.SetTile(next, tc.tile)
		c := spawnAt(t, w, tc.kind, at)
		c.State = tc.state
		if got := w.WouldAvoid(c, next); got != tc.avoided {
			t.Errorf("%s (%v) on %v: avoided=%v, want %v", c.Info.Name, tc.state, tc.tile, got, tc.avoided)
		}
		w.KillCreature(c, true)
		w.Reap()
	}
}

func TestWouldAvoidPlayerSecretDoor(t *testing.T) {
	w := openWorld(t, 1, gruid.Point{X: 10, Y: 10})
	w.Map.SetTile(gruid.Point{X: 11, Y: 10}, SecretDoor)
	if !w.WouldAvoid(w.PlayerCreature(), gruid.Point{X: 11, Y: 10}) {
		t.Error("player walks through an undiscovered secret door")
	}
	if !w.WouldAvoid(w.PlayerCreature(), gruid.Point{X: -1, Y: 10}) {
		t.Error("cell out of map not avoided")
	}
}

func TestWouldAvoidLiquidDwellers(t *testing.T) {
	w := newTestWorld(t, testConfig(2), mixedLevel)
	water := gruid.Point{X: 26, Y: 3}
	eel := spawnAt(t, w, SpeciesEel, water)
	if !w.WouldAvoid(eel, gruid.Point{X: 23, Y: 3}) {
		t.Error("eel leaves the water")
	}
	if w.WouldAvoid(eel, gruid.Point{X: 27, Y: 3}) {
		t.Error("eel avoids deep water")
	}
	g := spawnAt(t, w, SpeciesGoblin, gruid.Point{X: 23, Y: 2})
	if !w.WouldAvoid(g, gruid.Point{X: 24, Y: 2}) {
		t.Error("dry goblin steps into deep water")
	}
	if w.MonstersAreEnemies(eel, g) {
		t.Error("eel hunts on dry land")
	}
	w.SetCreatureLocation(g, gruid.Point{X: 24, Y: 2})
	if !w.MonstersAreEnemies(eel, g) {
		t.Error("eel does not hunt swimmers")
	}
	if w.WouldAvoid(g, gruid.Point{X: 25, Y: 2}) {
		t.Error("swimming goblin avoids more deep water")
	}
}

func TestWouldAvoidAdjacentEnemy(t *testing.T) {
	w := openWorld(t, 1, gruid.Point{X: 10, Y: 10})
	g := spawnAt(t, w, SpeciesGoblin, gruid.Point{X: 11, Y: 11})
	g.State = TrackingScent
	if w.WouldAvoid(g, w.PP()) {
		t.Error("goblin avoids attacking the player")
	}
	// no cutting corners around walls
	w.Map.SetTile(gruid.Point{X: 10, Y: 11}, Wall)
	w.Map.SetTile(gruid.Point{X: 11, Y: 10}, Wall)
	if !w.WouldAvoid(g, w.PP()) {
		t.Error("goblin attacks diagonally around walls")
	}
}

func TestWouldAvoidNoSideEffects(t *testing.T) {
	w := newTestWorld(t, testConfig(5), mixedLevel)
	rng := NewRNG(3)
	kinds := []SpeciesID{SpeciesGoblin, SpeciesEel, SpeciesVampireBat, SpeciesSalamander, SpeciesSpider}
	var cs []*Creature
	for _, k := range kinds {
		c, err := w.SpawnMonster(k, randInnerPoint(rng))
		if err != nil {
			t.Fatal(err)
		}
		cs = append(cs, c)
	}
	before := w.Map.String()
	for range rounds {
		c := cs[rng.IntN(len(cs))]
		p := randInnerPoint(rng)
		state := *c
		first := w.WouldAvoid(c, p)
		for range 3 {
			if w.WouldAvoid(c, p) != first {
				t.Fatalf("WouldAvoid(%s, %v) not stable", c.Info.Name, p)
			}
		}
		if c.P != state.P || c.State != state.State || c.HP != state.HP {
			t.Errorf("WouldAvoid changed %s", c.Info.Name)
		}
	}
	if w.Map.String() != before {
		t.Error("WouldAvoid changed the map")
	}
	checkOccupancy(t, w)
}

func TestTeammatesAndEnemies(t *testing.T) {
	w := openWorld(t, 1, gruid.Point{X: 2, Y: 2})
	pl := w.PlayerCreature()
	a := spawnAt(t, w, SpeciesGoblin, gruid.Point{X: 10, Y: 10})
	b := spawnAt(t, w, SpeciesGoblinConjurer, gruid.Point{X: 11, Y: 10})
	if !w.MonstersAreEnemies(a, pl) || w.Teammates(a, pl) {
		t.Error("goblin not an enemy of the player")
	}
	if w.MonstersAreEnemies(a, b) {
		t.Error("goblins are enemies")
	}
	if err := w.SetLeader(b, a); err != nil {
		t.Fatal(err)
	}
	if !w.Teammates(a, b) {
		t.Error("leader and follower not teammates")
	}
	b.PutStatus(StatusDiscordant, 5)
	if w.Teammates(a, b) || !w.MonstersAreEnemies(a, b) {
		t.Error("discord does not break teams")
	}
	b.ClearStatus(StatusDiscordant)
	w.BecomeAllyWith(a)
	if !w.Teammates(a, pl) || w.MonstersAreEnemies(a, pl) {
		t.Error("ally not on the player's team")
	}
	if !w.MonstersAreEnemies(a, b) {
		t.Error("ally not an enemy of its former follower")
	}
}

func TestCanPass(t *testing.T) {
	w := openWorld(t, 1, gruid.Point{X: 2, Y: 2})
	leader := spawnAt(t, w, SpeciesGoblin, gruid.Point{X: 10, Y: 10})
	follower := spawnAt(t, w, SpeciesGoblin, gruid.Point{X: 11, Y: 10})
	if err := w.SetLeader(follower, leader); err != nil {
		t.Fatal(err)
	}
	if !w.canPass(leader, follower) {
		t.Error("leader cannot pass its follower")
	}
	leader.State, follower.State = Wandering, Wandering
	if w.canPass(follower, leader) {
		t.Error("wandering follower passes its leader")
	}
	follower.State = TrackingScent
	if !w.canPass(follower, leader) {
		t.Error("tracking follower cannot pass wandering leader")
	}
	leader.PutStatus(StatusParalyzed, 5)
	if w.canPass(follower, leader) {
		t.Error("passing a paralyzed creature")
	}
	if w.canPass(leader, w.PlayerCreature()) {
		t.Error("passing the player")
	}
}

func TestPassableArcCount(t *testing.T) {
	w := openWorld(t, 1, gruid.Point{X: 2, Y: 2})
	for x := 1; x < DCOLS-1; x++ {
		if x != 30 {
			w.Map.SetTile(gruid.Point{X: x, Y: 10}, Wall)
		}
	}
	cases := []struct {
		p    gruid.Point
		arcs int
	}{
		{gruid.Point{X: 30, Y: 5}, 0},
		{gruid.Point{X: 30, Y: 8}, 0},
		{gruid.Point{X: 30, Y: 9}, 2},
		{gruid.Point{X: 30, Y: 10}, 2},
		{gruid.Point{X: 10, Y: 9}, 1},
		{gruid.Point{X: 1, Y: 1}, 1},
	}
	for _, c := range cases {
		if n := w.Map.PassableArcCount(c.p); n != c.arcs {
			t.Errorf("arcs at %v: %d, want %d", c.p, n, c.arcs)
		}
	}
}

func TestAvoidCorridors(t *testing.T) {
	w := openWorld(t, 1, gruid.Point{X: 2, Y: 2})
	for x := 1; x < DCOLS-1; x++ {
		if x != 30 {
			w.Map.SetTile(gruid.Point{X: x, Y: 10}, Wall)
		}
	}
	leader := spawnAt(t, w, SpeciesJackal, gruid.Point{X: 30, Y: 8})
	follower := spawnAt(t, w, SpeciesJackal, gruid.Point{X: 40, Y: 5})
	if err := w.SetLeader(follower, leader); err != nil {
		t.Fatal(err)
	}
	lone := spawnAt(t, w, SpeciesJackal, gruid.Point{X: 50, Y: 8})
	gob := spawnAt(t, w, SpeciesGoblin, gruid.Point{X: 60, Y: 8})
	gob.Bookkeeping |= MBLeader
	entrance := gruid.Point{X: 30, Y: 9}
	cases := []struct {
		c       *Creature
		state   Mindstate
		from    gruid.Point
		avoided bool
	}{
		{leader, TrackingScent, gruid.Point{X: 30, Y: 8}, true},
		{leader, Wandering, gruid.Point{X: 30, Y: 8}, false},
		{leader, TrackingScent, gruid.Point{X: 30, Y: 10}, false},
		{lone, TrackingScent, gruid.Point{X: 30, Y: 8}, false},
		{gob, TrackingScent, gruid.Point{X: 31, Y: 8}, false},
	}
	for i, tc := range cases {
		if tc.c.P != tc.from {
			w.SetCreatureLocation(tc.c, tc.from)
		}
		tc.c.State = tc.state
		if got := w.WouldAvoid(tc.c, entrance); got != tc.avoided {
			t.Errorf("case %d: %s (%v) from %v avoids corridor entrance: %v", i, tc.c.Info.Name, tc.state, tc.from, got)
		}
	}
}

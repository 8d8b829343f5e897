package brogue

import (
	"testing"

	"codeberg.org/anaseto/gruid"
)

func TestScentDistance(t *testing.T) {
	a := gruid.Point{X: 10, Y: 10}
	if d := scentDistance(a, a); d != 0 {
		t.Errorf("scent distance to self: %d", d)
	}
	if d := scentDistance(a, gruid.Point{X: 13, Y: 10}); d != 6 {
		t.Errorf("orthogonal scent distance: %d", d)
	}
	if d := scentDistance(a, gruid.Point{X: 13, Y: 13}); d != 9 {
		t.Errorf("diagonal scent distance: %d", d)
	}
}

func TestUpdateScent(t *testing.T) {
	w := newTestWorld(t, testConfig(1), mixedLevel)
	pp := w.PP()
	if w.Scent.At(pp) != w.ScentTurn {
		t.Errorf("no fresh scent under the player: %d", w.Scent.At(pp))
	}
	near := pp.Add(gruid.Point{X: 3, Y: 0})
	if w.Scent.At(near) != w.ScentTurn-scentDistance(pp, near) {
		t.Errorf("bad scent at %v: %d", near, w.Scent.At(near))
	}
	// the room beyond the wall is not reached
	if w.Scent.At(gruid.Point{X: 5, Y: 15}) != 0 {
		t.Errorf("scent through walls: %d", w.Scent.At(gruid.Point{X: 5, Y: 15}))
	}
	if w.Scent.At(gruid.Point{X: 16, Y: 1}) != 0 {
		t.Error("scent laid on a wall")
	}
}

func TestAwarenessDistance(t *testing.T) {
	dg := NewDarknessGrid()
	w := newTestWorld(t, testConfig(1), openLevel)
	w.Light = dg
	pl, err := w.PlacePlayer(gruid.Point{X: 10, Y: 10})
	if err != nil {
		t.Fatal(err)
	}
	g := spawnAt(t, w, SpeciesGoblin, gruid.Point{X: 15, Y: 10})
	g.State = Wandering
	base := w.AwarenessDistance(g, pl)
	if base != scentDistance(g.P, pl.P) {
		t.Errorf("base awareness distance: %d", base)
	}
	prev := base
	check := func(what string) {
		t.Helper()
		d := w.AwarenessDistance(g, pl)
		if d <= prev {
			t.Errorf("%s does not increase awareness distance: %d <= %d", what, d, prev)
		}
		prev = d
	}
	w.Player.StealthBonus = 3
	check("stealth")
	pl.PutStatus(StatusInvisible, 20)
	check("invisibility")
	dg.Set(pl.P, darkThreshold)
	check("darkness")
	g.State = Sleeping
	check("sleeping observer")
	w.Player.JustRested = true
	check("resting")
	dg.Set(pl.P, shadowThreshold)
	w.UpdateVision()
	check("shadows")
	w.Player.StealthBonus = -10
	if d := w.AwarenessDistance(g, pl); d >= prev {
		t.Errorf("aggravation does not decrease awareness distance: %d", d)
	}
}

func TestAwarenessDirectSenses(t *testing.T) {
	w := openWorld(t, 1, gruid.Point{X: 10, Y: 10})
	bat := spawnAt(t, w, SpeciesVampireBat, gruid.Point{X: 15, Y: 12})
	bat.State = Wandering
	if d := w.AwarenessDistance(bat, w.PlayerCreature()); d != 12 {
		t.Errorf("flyer awareness distance: %d", d)
	}
}

func TestAwareOfTarget(t *testing.T) {
	w := openWorld(t, 1, gruid.Point{X: 10, Y: 10})
	pl := w.PlayerCreature()
	far := spawnAt(t, w, SpeciesGoblin, gruid.Point{X: 70, Y: 25})
	near := spawnAt(t, w, SpeciesGoblin, gruid.Point{X: 11, Y: 10})
	for range rounds {
		far.State = TrackingScent
		if w.AwareOfTarget(far, pl) {
			t.Fatal("goblin aware of the player from across the level")
		}
		near.State = TrackingScent
		if !w.AwareOfTarget(near, pl) {
			t.Fatal("tracking goblin loses an adjacent player")
		}
	}
	near.State = Wandering
	noticed := 0
	for range 10 * rounds {
		if w.AwareOfTarget(near, pl) {
			noticed++
		}
	}
	if noticed == 0 || noticed == 10*rounds {
		t.Errorf("adjacent wanderer noticed the player %d times out of %d", noticed, 10*rounds)
	}
}

func TestScentDirection(t *testing.T) {
	w := openWorld(t, 1, gruid.Point{X: 10, Y: 10})
	g := spawnAt(t, w, SpeciesGoblin, gruid.Point{X: 14, Y: 10})
	g.State = TrackingScent
	dir, ok := w.ScentDirection(g)
	if !ok || dir != (gruid.Point{X: -1, Y: 0}) {
		t.Errorf("scent direction: %v %v", dir, ok)
	}
	// blocked by a wall: go around
	w.Map.SetTile(gruid.Point{X: 13, Y: 10}, Wall)
	dir, ok = w.ScentDirection(g)
	if !ok || dir.X != -1 || dir.Y == 0 {
		t.Errorf("scent direction around wall: %v %v", dir, ok)
	}
	// no fresher scent around
	w.Scent = w.Scent.New()
	if _, ok := w.ScentDirection(g); ok {
		t.Error("following scent that does not exist")
	}
}

func TestScentRefresh(t *testing.T) {
	w := openWorld(t, 1, gruid.Point{X: 10, Y: 10})
	g := spawnAt(t, w, SpeciesGoblin, gruid.Point{X: 20, Y: 10})
	g.State = TrackingScent
	for _, gaveUp := range []bool{false, true} {
		w.Scent = w.Scent.New()
		w.Scent.Set(gruid.Point{X: 22, Y: 10}, 50)
		g.Bookkeeping &^= MBGivenUpOnScent
		if gaveUp {
			g.Bookkeeping |= MBGivenUpOnScent
		}
		dir, ok := w.ScentDirection(g)
		switch {
		case gaveUp && ok:
			t.Errorf("goblin that lost the trail repairs it: %v", dir)
		case !gaveUp && (!ok || dir != gruid.Point{X: 1, Y: 0}):
			t.Errorf("stale scent not refreshed: %v %v", dir, ok)
		}
	}
}

func TestScentGivenUpCleared(t *testing.T) {
	w := openWorld(t, 1, gruid.Point{X: 10, Y: 10})
	g := spawnAt(t, w, SpeciesGoblin, gruid.Point{X: 12, Y: 10})
	g.State = TrackingScent
	g.Bookkeeping |= MBGivenUpOnScent
	w.UpdateMonsterState(g)
	if g.Bookkeeping.Any(MBGivenUpOnScent) {
		t.Error("goblin noticing the player still gave up on its scent")
	}
}

func TestScentFollowing(t *testing.T) {
	w := newTestWorld(t, testConfig(4), mixedLevel)
	pp := w.PP()
	g := spawnAt(t, w, SpeciesGoblin, pp.Add(gruid.Point{X: 8, Y: 5}))
	g.State = TrackingScent
	start := scentDistance(g.P, pp)
	for range 20 {
		dir, ok := w.ScentDirection(g)
		if !ok {
			break
		}
		q := g.P.Add(dir)
		if w.CreatureAt(q) != nil {
			break
		}
		w.SetCreatureLocation(g, q)
	}
	if d := scentDistance(g.P, pp); d >= start || d > 3 {
		t.Errorf("goblin did not follow the scent: at %v, distance %d", g.P, d)
	}
}

package brogue

import (
	"testing"

	"codeberg.org/anaseto/gruid"
)

func TestNextTieBreak(t *testing.T) {
	w := openWorld(t, 1, gruid.Point{X: 5, Y: 5})
	a := spawnAt(t, w, SpeciesGoblin, gruid.Point{X: 20, Y: 10})
	b := spawnAt(t, w, SpeciesGoblin, gruid.Point{X: 21, Y: 10})
	pl := w.PlayerCreature()
	for _, c := range []*Creature{pl, a, b} {
		c.TicksUntilTurn = 50
	}
	if w.next() != pl {
		t.Errorf("tie not broken in favor of the player")
	}
	pl.TicksUntilTurn = 60
	if w.next() != a {
		t.Errorf("tie not broken in favor of the lowest ID")
	}
	w.KillCreature(a, true)
	if w.next() != b {
		t.Errorf("dying creature selected")
	}
}

func TestSpeedOrdering(t *testing.T) {
	w := openWorld(t, 1, gruid.Point{X: 5, Y: 5})
	// captive creatures only spend time, so their darkness counts turns
	var cs []*Creature
	for i := range 3 {
		c := spawnAt(t, w, SpeciesGoblin, gruid.Point{X: 20 + 2*i, Y: 10})
		c.Bookkeeping |= MBCaptive
		c.PutStatus(StatusDarkened, permanentStatus)
		cs = append(cs, c)
	}
	fast, normal, slow := cs[0], cs[1], cs[2]
	w.Haste(fast, permanentStatus)
	w.Slow(slow, permanentStatus)
	if fast.MovementDuration != 50 || slow.MovementDuration != 200 {
		t.Fatalf("speeds: %d %d", fast.MovementDuration, slow.MovementDuration)
	}
	if n := w.RunTurns(10); n != 10 {
		t.Fatalf("ran %d player turns", n)
	}
	turns := func(c *Creature) int { return permanentStatus - c.Status[StatusDarkened] }
	nf, nn, ns := turns(fast), turns(normal), turns(slow)
	if nn < 9 || nn > 10 {
		t.Errorf("normal speed creature took %d turns", nn)
	}
	if nf < 2*nn-2 || nf > 2*nn {
		t.Errorf("hasted creature took %d turns, normal %d", nf, nn)
	}
	if ns < nn/2-1 || ns > nn/2+1 {
		t.Errorf("slowed creature took %d turns, normal %d", ns, nn)
	}
}

func TestRunTurnsResting(t *testing.T) {
	w := openWorld(t, 1, gruid.Point{X: 5, Y: 5})
	turn, scent, ticks := w.Turn, w.ScentTurn, w.Ticks
	if n := w.RunTurns(5); n != 5 {
		t.Fatalf("ran %d turns", n)
	}
	if w.Turn != turn+5 {
		t.Errorf("turn counter: %d", w.Turn)
	}
	if w.ScentTurn != scent+5*w.Config.ScentTurnStep {
		t.Errorf("scent turn: %d", w.ScentTurn)
	}
	if w.Ticks-ticks != 5*w.Config.WaitTicks {
		t.Errorf("%d ticks elapsed", w.Ticks-ticks)
	}
	if !w.Player.JustRested {
		t.Error("resting player not marked as rested")
	}
	if w.Scent.At(w.PP()) != w.ScentTurn {
		t.Error("scent not refreshed")
	}
}

func TestAdvanceToPlayer(t *testing.T) {
	w := openWorld(t, 1, gruid.Point{X: 5, Y: 5})
	g := spawnAt(t, w, SpeciesGoblin, gruid.Point{X: 20, Y: 10})
	g.Bookkeeping |= MBCaptive
	w.PlayerCreature().TicksUntilTurn = 250
	turn, ticks := w.Turn, w.Ticks
	if !w.AdvanceToPlayer() {
		t.Fatal("level stopped")
	}
	if w.next() != w.PlayerCreature() || w.Turn != turn {
		t.Error("player turn not reached or taken")
	}
	// two goblin turns, the player's turn is 50 ticks away
	if w.Ticks-ticks != 200 || w.PlayerCreature().TicksUntilTurn != 50 {
		t.Errorf("%d ticks elapsed", w.Ticks-ticks)
	}
}

func TestControllerMoves(t *testing.T) {
	w := openWorld(t, 1, gruid.Point{X: 5, Y: 5})
	w.Controller = ActionFunc(func(*World) Action {
		return Action{Kind: ActionMove, Dir: gruid.Point{X: 1, Y: 0}}
	})
	w.RunTurns(3)
	if w.PP() != (gruid.Point{X: 8, Y: 5}) {
		t.Errorf("player at %v", w.PP())
	}
	if w.Player.JustRested {
		t.Error("moving player marked as rested")
	}
}

func TestControllerZaps(t *testing.T) {
	w := openWorld(t, 1, gruid.Point{X: 5, Y: 5})
	g := spawnAt(t, w, SpeciesGoblin, gruid.Point{X: 10, Y: 5})
	g.Bookkeeping |= MBCaptive
	w.Controller = ActionFunc(func(*World) Action {
		return Action{Kind: ActionZap, Target: g.P, Bolt: BoltLightning, Level: 10}
	})
	w.RunTurns(10)
	if w.Arena.Get(g.ID) != nil {
		t.Error("goblin survived ten lightning bolts")
	}
	// zapping at oneself is refused and the player waits instead
	w.Controller = ActionFunc(func(w *World) Action {
		return Action{Kind: ActionZap, Target: w.PP(), Bolt: BoltFire}
	})
	ticks := w.Ticks
	if n := w.RunTurns(1); n != 1 || w.Ticks-ticks != w.Config.WaitTicks {
		t.Errorf("self zap: %d turns, %d ticks", n, w.Ticks-ticks)
	}
}

func TestShieldDecay(t *testing.T) {
	w := openWorld(t, 1, gruid.Point{X: 5, Y: 5})
	g := spawnAt(t, w, SpeciesGoblin, gruid.Point{X: 20, Y: 10})
	g.PutStatus(StatusShielded, 100)
	for i := range 20 {
		if !g.Has(StatusShielded) {
			t.Fatalf("shield vanished after %d turns", i)
		}
		w.DecrementStatuses(g)
	}
	if g.Has(StatusShielded) {
		t.Errorf("shield left after twenty turns: %d", g.Status[StatusShielded])
	}
}

func TestIntrinsicStatusesKept(t *testing.T) {
	w := openWorld(t, 1, gruid.Point{X: 5, Y: 5})
	b := spawnAt(t, w, SpeciesVampireBat, gruid.Point{X: 20, Y: 10})
	for range 2 * permanentStatus {
		w.DecrementStatuses(b)
	}
	if !b.Flies() {
		t.Error("bat stopped flying")
	}
}

func TestLifespan(t *testing.T) {
	w := openWorld(t, 1, gruid.Point{X: 5, Y: 5})
	b := spawnAt(t, w, SpeciesSpectralBlade, gruid.Point{X: 20, Y: 10})
	b.PutStatus(StatusLifespanRemaining, 3)
	for range 2 {
		w.DecrementStatuses(b)
	}
	if b.IsDying() {
		t.Fatal("blade dissipated early")
	}
	w.DecrementStatuses(b)
	if !b.IsDying() {
		t.Fatal("blade outlived its lifespan")
	}
	w.Step()
	if w.Arena.Get(b.ID) != nil {
		t.Error("dissipated blade not reaped")
	}
	checkOccupancy(t, w)
}

func TestFireBurnsOut(t *testing.T) {
	w := openWorld(t, 2, gruid.Point{X: 5, Y: 5})
	p := gruid.Point{X: 40, Y: 15}
	w.Map.SetTile(p, Fire)
	for _, d := range dirs8[:4] {
		w.Map.SetTile(p.Add(d), Grass)
	}
	for range 40 {
		w.UpdateEnvironment()
	}
	if w.Map.Tile(p, LayerSurface) != Ash {
		t.Errorf("fire left %v", w.Map.Tile(p, LayerSurface))
	}
	burnt := 0
	for _, d := range dirs8[:4] {
		switch w.Map.Tile(p.Add(d), LayerSurface) {
		case Ash:
			burnt++
		case Fire:
			t.Errorf("fire still burning at %v", p.Add(d))
		}
	}
	if burnt == 0 {
		t.Error("fire did not spread to the grass")
	}
}

func TestTemporaryTilesExpire(t *testing.T) {
	w := openWorld(t, 1, gruid.Point{X: 5, Y: 5})
	p := gruid.Point{X: 30, Y: 15}
	w.Map.SetTile(p, Forcefield)
	for range 19 {
		w.UpdateEnvironment()
	}
	if w.Map.Passable(p) {
		t.Fatal("forcefield vanished early")
	}
	w.UpdateEnvironment()
	if w.Map.Tile(p, LayerSurface) != Nothing || !w.Map.Passable(p) {
		t.Errorf("forcefield did not vanish: %v", w.Map.Tile(p, LayerSurface))
	}
}

func TestPressurePlate(t *testing.T) {
	w := newTestWorld(t, testConfig(1), mixedLevel)
	pl := w.PlayerCreature()
	plate := gruid.Point{X: 24, Y: 8}
	w.SetCreatureLocation(pl, plate)
	if !w.Map.HasCellFlag(plate, PlateDepressed) {
		t.Fatal("plate not depressed")
	}
	if w.Map.Tile(plate, LayerGas) != CausticGas {
		t.Error("no gas released")
	}
	if !pl.Has(StatusPoisoned) {
		t.Error("player not poisoned by the gas")
	}
	// the trap fires once
	w.Map.ClearLayer(plate, LayerGas)
	w.ApplyTileEffects(pl)
	if w.Map.Tile(plate, LayerGas) != Nothing {
		t.Error("trap fired twice")
	}
}

func TestLavaKills(t *testing.T) {
	w := newTestWorld(t, testConfig(1), mixedLevel)
	g := spawnAt(t, w, SpeciesGoblin, gruid.Point{X: 51, Y: 2})
	w.SetCreatureLocation(g, gruid.Point{X: 52, Y: 2})
	if !g.IsDying() {
		t.Fatal("goblin swims in lava")
	}
	w.Reap()
	checkOccupancy(t, w)
	s := spawnAt(t, w, SpeciesSalamander, gruid.Point{X: 51, Y: 3})
	w.SetCreatureLocation(s, gruid.Point{X: 52, Y: 3})
	if s.IsDying() {
		t.Error("salamander burnt by lava")
	}
	pl := w.PlayerCreature()
	w.SetCreatureLocation(pl, gruid.Point{X: 51, Y: 2})
	w.SetCreatureLocation(pl, gruid.Point{X: 52, Y: 2})
	if !w.GameOver {
		t.Error("player survived lava")
	}
}

func TestChasmFall(t *testing.T) {
	w := newTestWorld(t, testConfig(1), mixedLevel)
	g := spawnAt(t, w, SpeciesGoblin, gruid.Point{X: 63, Y: 5})
	w.SetCreatureLocation(g, gruid.Point{X: 64, Y: 4})
	if !g.IsDying() || !g.Bookkeeping.Any(MBIsFalling) {
		t.Error("goblin did not fall")
	}
	pl := w.PlayerCreature()
	w.SetCreatureLocation(pl, gruid.Point{X: 63, Y: 3})
	if !w.Player.Fell {
		t.Fatal("player did not fall")
	}
	if w.Step() || w.RunTurns(3) != 0 {
		t.Error("level keeps running after the player fell")
	}
}

func TestSpiderwebSticks(t *testing.T) {
	w := newTestWorld(t, testConfig(1), mixedLevel)
	pl := w.PlayerCreature()
	w.SetCreatureLocation(pl, gruid.Point{X: 50, Y: 8})
	w.SetCreatureLocation(pl, gruid.Point{X: 49, Y: 8})
	if !pl.Has(StatusStuck) {
		t.Fatal("player not stuck in the web")
	}
	w.SetCreatureLocation(pl, gruid.Point{X: 50, Y: 8})
	w.DecrementStatuses(pl)
	if pl.Has(StatusStuck) {
		t.Error("still stuck out of the web")
	}
}

func TestSchedulerOccupancy(t *testing.T) {
	w := newTestWorld(t, testConfig(17), mixedLevel)
	rng := NewRNG(5)
	for range 15 {
		kind := SpeciesID(rng.RandRange(int(SpeciesRat), int(nBuiltinSpecies)-1))
		w.SpawnMonster(kind, randInnerPoint(rng))
	}
	w.Controller = ActionFunc(func(w *World) Action {
		if rng.RandPercent(30) {
			return Action{Kind: ActionWait}
		}
		return Action{Kind: ActionMove, Dir: dirs8[rng.IntN(len(dirs8))]}
	})
	for range 20 * rounds {
		if !w.Step() {
			break
		}
		checkOccupancy(t, w)
		if w.Arena.PendingRemovals() != 0 {
			t.Fatal("dead creatures left after a step")
		}
	}
}

func TestIdleTurnCost(t *testing.T) {
	w := openWorld(t, 1, gruid.Point{X: 5, Y: 5})
	w.Player.StealthBonus = 30
	rat := spawnAt(t, w, SpeciesRat, gruid.Point{X: 70, Y: 25})
	rat.State = Sleeping
	turret := spawnAt(t, w, SpeciesArrowTurret, gruid.Point{X: 75, Y: 5})
	for _, c := range []*Creature{rat, turret} {
		c.MovementDuration = 50
		c.TicksUntilTurn = 0
		w.takeTurn(c)
		if c.spent != w.Config.WaitTicks || c.TicksUntilTurn != w.Config.WaitTicks {
			t.Errorf("idle %s spent %d ticks", c.Info.Name, c.spent)
		}
	}
}

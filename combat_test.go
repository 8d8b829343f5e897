package brogue

import (
	"testing"

	"codeberg.org/anaseto/gruid"
)

func TestHitProbability(t *testing.T) {
	w := openWorld(t, 1, gruid.Point{X: 5, Y: 5})
	g := spawnAt(t, w, SpeciesGoblin, gruid.Point{X: 6, Y: 5})
	pl := w.PlayerCreature()
	for def := range 300 {
		g.Info.Defense = def
		p := w.HitProbability(pl, g)
		if p < 0 || p > 100 {
			t.Fatalf("hit probability %d for defense %d", p, def)
		}
	}
	g.Info.Defense = 0
	pl.Info.Accuracy = 1000
	if p := w.HitProbability(pl, g); p != 100 {
		t.Errorf("hit probability not capped: %d", p)
	}
	pl.Info.Accuracy = 50
	g.Info.Defense = 70
	g.PutStatus(StatusParalyzed, 5)
	if p := w.HitProbability(pl, g); p != 100 {
		t.Errorf("paralyzed defender can be missed: %d", p)
	}
}

func TestShieldAbsorbs(t *testing.T) {
	w := openWorld(t, 1, gruid.Point{X: 5, Y: 5})
	g := spawnAt(t, w, SpeciesGoblin, gruid.Point{X: 6, Y: 5})
	hp := g.HP
	g.PutStatus(StatusShielded, 50)
	if w.InflictDamage(nil, g, 3, DamageBolt) {
		t.Fatal("shielded goblin died")
	}
	if g.HP != hp || g.Status[StatusShielded] != 20 {
		t.Errorf("shield absorbed badly: hp %d shield %d", g.HP, g.Status[StatusShielded])
	}
	w.InflictDamage(nil, g, 5, DamageBolt)
	if g.HP != hp-3 || g.Has(StatusShielded) {
		t.Errorf("broken shield: hp %d shield %d", g.HP, g.Status[StatusShielded])
	}
}

func TestInvulnerable(t *testing.T) {
	w := openWorld(t, 1, gruid.Point{X: 5, Y: 5})
	m := spawnAt(t, w, SpeciesMirrorTotem, gruid.Point{X: 6, Y: 5})
	if w.InflictDamage(w.PlayerCreature(), m, 1000, DamageMelee) || m.HP != m.Info.MaxHP {
		t.Error("invulnerable totem hurt")
	}
}

func TestKillCreature(t *testing.T) {
	w := openWorld(t, 1, gruid.Point{X: 5, Y: 5})
	d := spawnAt(t, w, SpeciesDragon, gruid.Point{X: 20, Y: 10})
	if d.CarriedItem == nil {
		t.Fatal("dragon without treasure")
	}
	it := d.CarriedItem
	if !w.InflictDamage(w.PlayerCreature(), d, d.HP, DamageMelee) {
		t.Fatal("dragon survived")
	}
	if w.CreatureAt(gruid.Point{X: 20, Y: 10}) != nil {
		t.Error("dead dragon still occupies its cell")
	}
	if w.ItemAt(gruid.Point{X: 20, Y: 10}) != it {
		t.Error("dragon did not drop its treasure")
	}
	if w.Arena.PendingRemovals() != 1 {
		t.Errorf("pending removals: %d", w.Arena.PendingRemovals())
	}
	checkOccupancy(t, w)
	w.Reap()
	if w.Arena.Get(d.ID) != nil {
		t.Error("dead dragon not reaped")
	}
	// killing twice is harmless
	w.KillCreature(d, true)
	if w.Arena.PendingRemovals() != 0 {
		t.Error("dead creature killed again")
	}
}

func TestKillReleasesCarried(t *testing.T) {
	w := openWorld(t, 1, gruid.Point{X: 5, Y: 5})
	b := spawnAt(t, w, SpeciesVampireBat, gruid.Point{X: 20, Y: 10})
	b.Carried = w.NewCreature(SpeciesKobold)
	w.KillCreature(b, false)
	var kobold *Creature
	for c := range w.Arena.Monsters() {
		if c.Kind == SpeciesKobold {
			kobold = c
		}
	}
	if kobold == nil {
		t.Fatal("carried kobold lost")
	}
	if kobold.P != (gruid.Point{X: 20, Y: 10}) {
		t.Errorf("kobold released at %v", kobold.P)
	}
	checkOccupancy(t, w)
}

func TestPlayerDeath(t *testing.T) {
	w := openWorld(t, 1, gruid.Point{X: 5, Y: 5})
	g := spawnAt(t, w, SpeciesGoblin, gruid.Point{X: 6, Y: 5})
	pl := w.PlayerCreature()
	if !w.InflictDamage(g, pl, pl.HP+5, DamageMelee) {
		t.Fatal("player survived")
	}
	if !w.GameOver {
		t.Error("no game over")
	}
	w.Reap()
	if w.PlayerCreature() == nil {
		t.Error("player reaped")
	}
	if w.Step() {
		t.Error("scheduler runs after game over")
	}
	last := w.Msgs.(*Logs).Last(1)
	if len(last) != 1 || last[0].Text != "You die... (killed by the goblin)" {
		t.Errorf("death message: %v", last)
	}
}

func TestSneakAttack(t *testing.T) {
	w := openWorld(t, 1, gruid.Point{X: 5, Y: 5})
	pl := w.PlayerCreature()
	pl.Info.Damage = Range{Min: 3, Max: 3, Clump: 1}
	g := spawnAt(t, w, SpeciesOgre, gruid.Point{X: 6, Y: 5})
	g.State = Sleeping
	if !w.Attack(pl, g) {
		t.Fatal("sneak attack missed")
	}
	if g.HP != g.Info.MaxHP-9 {
		t.Errorf("sneak attack dealt %d damage", g.Info.MaxHP-g.HP)
	}
	if g.State == Sleeping {
		t.Error("ogre still asleep")
	}
}

func TestSplitOnDefend(t *testing.T) {
	w := openWorld(t, 1, gruid.Point{X: 5, Y: 5})
	pl := w.PlayerCreature()
	pl.Info.Accuracy = 1000
	pl.Info.Damage = Range{Min: 10, Max: 10, Clump: 1}
	j := spawnAt(t, w, SpeciesPinkJelly, gruid.Point{X: 6, Y: 5})
	j.State = TrackingScent
	w.Attack(pl, j)
	if w.Arena.Count() != 3 {
		t.Fatalf("jelly did not split: %d creatures", w.Arena.Count())
	}
	total := 0
	for c := range w.Arena.Monsters() {
		if c.Kind != SpeciesPinkJelly {
			t.Errorf("clone is a %s", c.Info.Name)
		}
		if c.HP != 20 {
			t.Errorf("jelly with %d hp", c.HP)
		}
		total += c.HP
	}
	if total != 40 {
		t.Errorf("split jellies have %d hp in total", total)
	}
	checkOccupancy(t, w)
}

func TestPoisonAttack(t *testing.T) {
	w := openWorld(t, 1, gruid.Point{X: 5, Y: 5})
	pl := w.PlayerCreature()
	s := spawnAt(t, w, SpeciesSpider, gruid.Point{X: 6, Y: 5})
	s.Info.Accuracy = 10000
	hp := pl.HP
	w.Attack(s, pl)
	if pl.HP != hp {
		t.Error("poisonous attack dealt direct damage")
	}
	if !pl.Has(StatusPoisoned) || pl.PoisonAmount != 1 {
		t.Errorf("player not poisoned: %d turns, %d per turn", pl.Status[StatusPoisoned], pl.PoisonAmount)
	}
	turns := pl.Status[StatusPoisoned]
	w.DecrementStatuses(pl)
	if pl.HP != hp-1 || pl.Status[StatusPoisoned] != turns-1 {
		t.Errorf("poison tick: hp %d, %d turns left", pl.HP, pl.Status[StatusPoisoned])
	}
}

func TestStealAndFlee(t *testing.T) {
	w := openWorld(t, 1, gruid.Point{X: 5, Y: 5})
	pl := w.PlayerCreature()
	w.Player.Pack = []*Item{{Kind: ItemGold, Name: "a gold piece"}}
	m := spawnAt(t, w, SpeciesMonkey, gruid.Point{X: 6, Y: 5})
	m.State = TrackingScent
	m.Info.Accuracy = 10000
	w.Attack(m, pl)
	if m.CarriedItem == nil || len(w.Player.Pack) != 0 {
		t.Fatal("monkey did not steal")
	}
	if m.State != Fleeing || m.Mode != ModePermFleeing {
		t.Errorf("thief does not run away: %v", m.State)
	}
	w.KillCreature(m, false)
	if w.ItemAt(gruid.Point{X: 6, Y: 5}) == nil {
		t.Error("stolen item lost")
	}
}

func TestSeize(t *testing.T) {
	w := newTestWorld(t, testConfig(1), mixedLevel)
	pl := w.PlayerCreature()
	w.SetCreatureLocation(pl, gruid.Point{X: 23, Y: 3})
	bog := spawnAt(t, w, SpeciesBogMonster, gruid.Point{X: 24, Y: 3})
	bog.Info.Accuracy = 10000
	w.Attack(bog, pl)
	if !pl.Bookkeeping.Any(MBSeized) || !bog.Bookkeeping.Any(MBSeizing) {
		t.Fatal("bog monster did not seize")
	}
	pl.spent = 0
	if !w.PlayerMove(gruid.Point{X: -1, Y: 0}) || pl.P != (gruid.Point{X: 23, Y: 3}) {
		t.Error("seized player moved away")
	}
	w.KillCreature(bog, true)
	if !w.PlayerMove(gruid.Point{X: -1, Y: 0}) || pl.P != (gruid.Point{X: 22, Y: 3}) {
		t.Errorf("freed player could not move: %v", pl.P)
	}
}

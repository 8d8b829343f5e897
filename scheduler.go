package brogue

import (
	"codeberg.org/anaseto/gruid"
	"github.com/sirupsen/logrus"
)

// envPeriod is the number of ticks between two environment updates.
const envPeriod = 100

// ActionKind represents the kind of action the player chose.
type ActionKind int

const (
	ActionWait ActionKind = iota // rest or search
	ActionMove                   // move or attack in a direction
	ActionZap                    // fire a bolt at a target cell
)

// Action describes a player action.
type Action struct {
	Kind   ActionKind
	Dir    gruid.Point // for ActionMove
	Target gruid.Point // for ActionZap
	Bolt   BoltType    // for ActionZap
	Level  int         // for ActionZap: staff enchantment
}

// PlayerController provides the actions of the player. It is called each
// time the player's turn comes.
type PlayerController interface {
	PlayerAction(w *World) Action
}

// restingController makes the player rest forever.
type restingController struct{}

func (restingController) PlayerAction(*World) Action {
	return Action{Kind: ActionWait}
}

// ActionFunc is an adapter to use ordinary functions as player controllers.
type ActionFunc func(w *World) Action

func (f ActionFunc) PlayerAction(w *World) Action {
	return f(w)
}

// next returns the creature whose turn comes first: the smallest tick
// counter, ties going to the lowest ID. Dying creatures are never selected.
func (w *World) next() *Creature {
	var first *Creature
	for c := range w.Arena.Living() {
		if first == nil || c.TicksUntilTurn < first.TicksUntilTurn {
			first = c
		}
	}
	return first
}

// Step advances time up to the next creature's turn and lets it act, then
// reaps the creatures that died. It reports whether the level is still
// running (the player is neither dead nor gone).
func (w *World) Step() bool {
	if w.GameOver || w.Player.Fell {
		return false
	}
	c := w.next()
	if c == nil {
		return false
	}
	if dt := c.TicksUntilTurn; dt > 0 {
		for o := range w.Arena.Living() {
			o.TicksUntilTurn -= dt
		}
		w.Ticks += dt
		w.envTicks += dt
		for w.envTicks >= envPeriod {
			w.envTicks -= envPeriod
			w.UpdateEnvironment()
		}
	}
	if !c.IsDying() && !w.GameOver {
		w.takeTurn(c)
	}
	w.Reap()
	return !w.GameOver && !w.Player.Fell
}

// RunTurns runs the scheduler until the player has taken n turns or the
// level stops. It returns the number of player turns taken.
func (w *World) RunTurns(n int) int {
	if w.PlayerCreature() == nil {
		return 0
	}
	start := w.Turn
	for w.Turn-start < n && w.Step() {
	}
	return w.Turn - start
}

// AdvanceToPlayer lets the other creatures act until the player's turn
// comes. It reports whether the level is still running.
func (w *World) AdvanceToPlayer() bool {
	for !w.GameOver && !w.Player.Fell {
		c := w.next()
		if c == nil {
			return false
		}
		if c.IsPlayer() {
			return true
		}
		w.Step()
	}
	return false
}

// takeTurn makes c act, charges the action's cost and updates its statuses.
// Immobilized creatures lose their action but are still charged.
func (w *World) takeTurn(c *Creature) {
	c.spent = 0
	from := c.P
	switch {
	case c.immobilized():
		w.spend(c, c.MovementDuration)
	case c.IsPlayer():
		w.playerTurn(c)
	default:
		w.MonstersTurn(c)
	}
	if c.IsDying() {
		if c.IsPlayer() {
			w.Msgs.EndTurn()
		}
		return
	}
	if c.spent == 0 {
		// no legal action: the creature waits
		w.spend(c, w.Config.WaitTicks)
	}
	if c.P == from && !w.Player.Fell {
		w.ApplyTileEffects(c)
	}
	if !c.IsDying() {
		w.DecrementStatuses(c)
	}
	if c.IsPlayer() {
		w.Turn++
		w.ScentTurn += w.Config.ScentTurnStep
		if !c.IsDying() {
			w.UpdateScent()
		}
		w.Msgs.EndTurn()
	}
}

func (w *World) playerTurn(pl *Creature) {
	a := w.Controller.PlayerAction(w)
	w.Player.JustRested = false
	switch a.Kind {
	case ActionMove:
		if !w.PlayerMove(a.Dir) {
			w.Diag.WithFields(logrus.Fields{"dir": a.Dir}).Debug("invalid player move")
		}
	case ActionZap:
		if a.Target == pl.P || !inMap(a.Target) || a.Bolt < 0 || a.Bolt >= NBoltTypes {
			w.Diag.WithFields(logrus.Fields{"target": a.Target, "bolt": a.Bolt}).Debug("invalid zap")
			return
		}
		w.Zap(pl.P, a.Target, a.Bolt, max(1, a.Level), false)
		if !pl.IsDying() {
			w.spend(pl, pl.AttackDuration)
		}
	default:
		w.Player.JustRested = true
		w.spend(pl, w.Config.WaitTicks)
	}
}

// intrinsicStatus reports whether a status is granted permanently by the
// species of c.
func intrinsicStatus(c *Creature, st Status) bool {
	switch st {
	case StatusLevitating:
		return c.Info.Flags.Any(MonstFlies)
	case StatusImmuneToFire:
		return c.Info.Flags.Any(MonstImmuneToFire)
	case StatusInvisible:
		return c.Info.Flags.Any(MonstInvisible)
	default:
		return false
	}
}

// DecrementStatuses makes the statuses of c progress by one turn. Shields
// decay by a twentieth of their initial strength instead. Poison and burning
// deal their damage first.
func (w *World) DecrementStatuses(c *Creature) {
	if c.Has(StatusPoisoned) {
		if w.InflictDamage(nil, c, c.PoisonAmount, DamagePoison) {
			return
		}
	}
	if c.Has(StatusBurning) {
		if w.Map.HasTerrainFlag(c.P, TExtinguishesFire) && !c.Flies() {
			c.ClearStatus(StatusBurning)
		} else {
			w.ignite(c.P)
			if w.InflictDamage(nil, c, w.rand.RandRange(1, 3), DamageFire) {
				return
			}
		}
	}
	for st := range NStatus {
		if !c.Has(st) || intrinsicStatus(c, st) {
			continue
		}
		switch st {
		case StatusShielded:
			c.Status[st] -= max(1, c.MaxStatus[st]/20)
		case StatusStuck:
			if !w.Map.HasTerrainFlag(c.P, TEntangles) {
				c.Status[st] = 0
			}
		default:
			c.Status[st]--
		}
		if c.Status[st] > 0 {
			continue
		}
		c.ClearStatus(st)
		w.endStatus(c, st)
		if c.IsDying() {
			return
		}
	}
}

// endStatus handles the expiration of a status.
func (w *World) endStatus(c *Creature, st Status) {
	switch st {
	case StatusHasted, StatusSlowed:
		c.updateSpeeds()
	case StatusPoisoned:
		c.PoisonAmount = 0
	case StatusLifespanRemaining:
		if w.CanSeeCreature(c) {
			w.Logf("%s dissipates into thin air.", c.Name())
		}
		w.KillCreature(c, true)
		return
	case StatusLevitating:
		w.settle(c)
	case StatusDiscordant:
		if c.IsPlayer() {
			return
		}
	case StatusShielded, StatusExplosionImmunity, StatusStuck:
		return
	}
	if c.IsDying() {
		return
	}
	switch {
	case c.IsPlayer():
		w.LogfStyled("You are no longer %s.", LogStatusEnd, st)
	case w.CanSeeCreature(c):
		w.LogfStyled("%s is no longer %s.", LogStatusEnd, c.Name(), st)
	}
}

// UpdateEnvironment makes terrain evolve: temporary tiles expire, fires
// burn out into their remains and spread to flammable neighbors, and
// creatures standing in flames catch fire.
func (w *World) UpdateEnvironment() {
	var fires []gruid.Point
	for p := range w.Map.Layers[LayerDungeon].All() {
		if w.Map.HasTerrainFlag(p, TIsFire) {
			fires = append(fires, p)
		}
	}
	for _, p := range fires {
		for _, d := range dirs8[:4] {
			q := p.Add(d)
			if w.Map.HasTerrainFlag(q, TIsFlammable) && !w.Map.HasTerrainFlag(q, TIsFire) &&
				w.rand.RandPercent(50) {
				w.ignite(q)
			}
		}
	}
	w.Map.expireTiles()
	for c := range w.Arena.Living() {
		if w.Map.HasTerrainFlag(c.P, TIsFire) && !w.WouldBeImmune(c, TIsFire) {
			w.exposeToFire(c)
		}
	}
	w.UpdateVision()
}

// expireTiles makes temporary tiles age by one step, replacing expired ones
// by what they leave behind.
func (m *Map) expireTiles() {
	for p := range m.Layers[LayerDungeon].All() {
		tm := m.timers.At(p)
		for l := range NLayers {
			if tm[l] <= 0 {
				continue
			}
			tm[l]--
			m.timers.Set(p, tm)
			if tm[l] > 0 {
				continue
			}
			t := m.Tile(p, l)
			if t.Flags().Any(TIsFire) && tileCatalog[t].BurnsTo != Nothing {
				m.ClearLayer(p, l)
				m.SetTile(p, tileCatalog[t].BurnsTo)
			} else {
				m.ClearLayer(p, l)
			}
			tm = m.timers.At(p)
		}
	}
}

// ignite sets fire to the flammable layers at p. Creatures there are exposed
// to the flames.
func (w *World) ignite(p gruid.Point) {
	if !inMap(p) || !w.Map.HasTerrainFlag(p, TIsFlammable|TSpontaneouslyIgnites) {
		return
	}
	explodes := false
	for l := range NLayers {
		t := w.Map.Tile(p, l)
		if !t.Flags().Any(TIsFlammable | TSpontaneouslyIgnites) {
			continue
		}
		res := tileCatalog[t].BurnsTo
		explodes = explodes || res.Flags().Any(TCausesExplosiveDamage)
		if !t.Flags().Any(TSpontaneouslyIgnites) {
			w.Map.ClearLayer(p, l)
		}
		if res != Nothing {
			w.Map.SetTile(p, res)
		}
	}
	c := w.CreatureAt(p)
	if c == nil {
		return
	}
	if explodes {
		w.explode(c)
	}
	if !c.IsDying() {
		w.exposeToFire(c)
	}
}

// WouldBeImmune reports whether c ignores the given terrain flags.
func (w *World) WouldBeImmune(c *Creature, f TerrainFlags) bool {
	return w.terrainImmunities(c)&f == f
}

// explode deals explosion damage to c, which is then briefly immune to
// further explosions.
func (w *World) explode(c *Creature) {
	if c.Has(StatusExplosionImmunity) || w.WouldBeImmune(c, TCausesExplosiveDamage) {
		return
	}
	c.PutStatus(StatusExplosionImmunity, 5)
	if w.CanSeeCreature(c) {
		w.LogfStyled("%s is caught in the explosion!", w.hurtStyle(c), c.Name())
	}
	w.InflictDamage(nil, c, w.rand.RandClump(Range{Min: 5, Max: 15, Clump: 2}), DamageFire)
}

// ApplyTileEffects applies the effects of the terrain at the cell of c:
// traps, lava, deep water, webs, chasms, fire and gases.
func (w *World) ApplyTileEffects(c *Creature) {
	if c.IsDying() || !inMap(c.P) {
		return
	}
	p := c.P
	imm := w.terrainImmunities(c)
	f := w.Map.TerrainFlags(p) &^ imm
	if f.Any(TIsDFTrap) && !w.Map.HasCellFlag(p, PlateDepressed) {
		w.Map.setCellFlag(p, PlateDepressed)
		if w.InFOV(p) {
			w.LogStyled("There is a click, and caustic gas billows out!", LogNotable)
		}
		w.releaseGas(p, CausticGas, 2)
		f = w.Map.TerrainFlags(p) &^ imm
	}
	if f.Any(TLavaInstaDeath) {
		if c.IsPlayer() {
			w.LogStyled("You are incinerated by the lava!", LogHurtPlayer)
			w.gameOver("burned by lava")
		} else if w.CanSeeCreature(c) {
			w.LogfStyled("%s is incinerated by the lava.", LogHurtMons, c.Name())
		}
		w.KillCreature(c, true)
		return
	}
	if f.Any(TAutoDescent) {
		w.fall(c)
		return
	}
	if f.Any(TIsDeepWater) && !c.Info.Flags.Any(MonstRestrictedToLiquid|MonstSubmerges) {
		if c.CarriedItem != nil && w.rand.RandPercent(50) {
			if w.CanSeeCreature(c) {
				w.Logf("%s drops %s, swept away by the current.", c.Name(), c.CarriedItem)
			}
			c.CarriedItem = nil
		}
	}
	if c.Has(StatusBurning) && w.Map.HasTerrainFlag(p, TExtinguishesFire) && !c.Flies() {
		c.ClearStatus(StatusBurning)
		if c.IsPlayer() {
			w.LogStyled("You are no longer burning.", LogStatusEnd)
		}
	}
	if f.Any(TEntangles) && !c.Has(StatusStuck) && !c.Info.Flags.Any(MonstInvulnerable) {
		c.PutStatus(StatusStuck, w.rand.RandRange(3, 7))
		if c.IsPlayer() {
			w.LogStyled("You are stuck in the spiderweb!", LogHurtPlayer)
		} else if w.CanSeeCreature(c) {
			w.Logf("%s is stuck in the spiderweb.", c.Name())
		}
	}
	if f.Any(TSpontaneouslyIgnites) && !f.Any(TIsFire) {
		w.ignite(p)
		if c.IsDying() {
			return
		}
		f = w.Map.TerrainFlags(p) &^ imm
	}
	if f.Any(TCausesExplosiveDamage) {
		w.explode(c)
		if c.IsDying() {
			return
		}
	}
	if f.Any(TIsFire) {
		w.exposeToFire(c)
	}
	if f.Any(TCausesPoison) && !c.Info.Flags.Any(MonstInanimate) {
		if !c.Has(StatusPoisoned) && (c.IsPlayer() || w.CanSeeCreature(c)) {
			w.LogfStyled("%s %s poisoned.", w.hurtStyle(c), c.Name(), verb(c, "is", "are"))
		}
		w.addPoison(c, 5, 1)
	}
	if f.Any(TCausesConfusion) && !c.Has(StatusConfused) {
		c.PutStatus(StatusConfused, 10)
		if c.IsPlayer() {
			w.LogStyled("You feel confused.", LogHurtPlayer)
		}
	}
	if f.Any(TCausesParalysis) && !c.Has(StatusParalyzed) {
		c.PutStatus(StatusParalyzed, 10)
		if c.IsPlayer() {
			w.LogStyled("You are paralyzed!", LogHurtPlayer)
		} else if w.CanSeeCreature(c) {
			w.Logf("%s is paralyzed.", c.Name())
		}
	}
	if f.Any(TCausesNausea) {
		c.PutStatus(StatusNauseous, 10)
	}
	if f.Any(TCausesDamage) {
		if c.IsPlayer() || w.CanSeeCreature(c) {
			w.LogfStyled("%s %s scalded.", w.hurtStyle(c), c.Name(), verb(c, "is", "are"))
		}
		w.InflictDamage(nil, c, w.rand.RandRange(2, 4), DamageTerrain)
	}
}

// verb returns the third person form for monsters and the second person one
// for the player.
func verb(c *Creature, third, second string) string {
	if c.IsPlayer() {
		return second
	}
	return third
}

// fall makes c fall through a chasm to the level below. A monster leaves
// the level for good; the player's departure ends the level.
func (w *World) fall(c *Creature) {
	if c.IsPlayer() {
		w.LogStyled("You plunge downward into the chasm!", LogSpecial)
		w.Player.Fell = true
		return
	}
	if w.CanSeeCreature(c) {
		w.Logf("%s plunges out of sight!", c.Name())
	}
	c.Bookkeeping |= MBIsFalling
	w.KillCreature(c, true)
}

// releaseGas spreads a gas over the cells within radius steps of p that gas
// can reach.
func (w *World) releaseGas(p gruid.Point, gas TileType, radius int) {
	mp := &MapPath{passable: func(q gruid.Point) bool {
		return inMap(q) && !w.Map.HasTerrainFlag(q, TObstructsGas)
	}}
	for _, n := range w.PR.BreadthFirstMap(mp, []gruid.Point{p}, radius) {
		w.Map.SetTile(n.P, gas)
	}
}

package brogue

import (
	"math"

	"codeberg.org/anaseto/gruid"
	"github.com/sirupsen/logrus"
)

// DamageKind represents the source of some damage.
type DamageKind int

const (
	DamageMelee DamageKind = iota
	DamageBolt
	DamagePoison
	DamageFire
	DamageTerrain
)

const (
	// burningDuration is the duration of the burning status when catching
	// fire.
	burningDuration = 7

	// shieldUnits is the number of shield points per point of absorbed
	// damage.
	shieldUnits = 10
)

// HitProbability returns the chance in percent that attacker hits defender.
// Each point of defense lowers accuracy by about 1.4%.
func (w *World) HitProbability(attacker, defender *Creature) int {
	if defender.Bookkeeping.Any(MBCaptive|MBSeized) || defender.immobilized() || defender.Has(StatusStuck) {
		return 100
	}
	p := float64(attacker.Info.Accuracy) * math.Pow(0.986, float64(defender.Info.Defense))
	return min(100, max(0, int(p)))
}

// Attack resolves a melee attack. It reports whether it hit.
func (w *World) Attack(attacker, defender *Creature) bool {
	sleeping := defender.State == Sleeping && !defender.IsPlayer() || defender.immobilized()
	if defender.State == Sleeping && !defender.IsPlayer() {
		w.WakeUp(defender)
	}
	if !sleeping && !w.rand.RandPercent(w.HitProbability(attacker, defender)) {
		w.logMiss(attacker, defender)
		return false
	}
	dmg := w.rand.RandClump(attacker.Info.Damage)
	if attacker.IsPlayer() && sleeping {
		// sneak attack
		dmg *= 3
	}
	if attacker.Info.Abilities.Any(MAPoisons) {
		w.addPoison(defender, dmg, 1)
		if w.CanSeeCreature(defender) || w.CanSeeCreature(attacker) {
			w.LogfStyled("%s poisons %s.", w.hurtStyle(defender), attacker.Name(), defender.Name())
		}
		w.specialHit(attacker, defender)
		return true
	}
	w.logHit(attacker, defender, dmg)
	if w.InflictDamage(attacker, defender, dmg, DamageMelee) {
		return true
	}
	w.specialHit(attacker, defender)
	if defender.Info.Abilities.Any(MAClonesSelfOnDefend) && dmg > 0 && !defender.IsDying() {
		w.splitCreature(defender)
	}
	return true
}

// specialHit applies the on-hit abilities of the attacker.
func (w *World) specialHit(attacker, defender *Creature) {
	if defender.IsDying() {
		return
	}
	ab := attacker.Info.Abilities
	if ab.Any(MAHitBurns) {
		w.exposeToFire(defender)
	}
	if ab.Any(MASeizes) && !attacker.Bookkeeping.Any(MBSeizing) {
		attacker.Bookkeeping |= MBSeizing
		defender.Bookkeeping |= MBSeized
		if defender.IsPlayer() {
			w.LogfStyled("%s seizes you!", LogHurtPlayer, attacker.Name())
		}
	}
	if ab.Any(MAHitStealFlee) && defender.IsPlayer() && attacker.CarriedItem == nil && w.stealItem(attacker) {
		attacker.Mode = ModePermFleeing
		attacker.State = Fleeing
	}
}

func (w *World) hurtStyle(defender *Creature) LogStyle {
	if defender.IsPlayer() {
		return LogHurtPlayer
	}
	return LogHurtMons
}

func (w *World) logHit(attacker, defender *Creature, dmg int) {
	if !w.CanSeeCreature(attacker) && !w.CanSeeCreature(defender) {
		return
	}
	switch {
	case attacker.IsPlayer():
		w.LogfStyled("You hit %s (%d dmg).", LogHurtMons, defender.Name(), dmg)
	case defender.IsPlayer():
		w.LogfStyled("%s hits you (%d dmg).", LogHurtPlayer, attacker.Name(), dmg)
	default:
		w.LogfStyled("%s hits %s (%d dmg).", LogHurtMons, attacker.Name(), defender.Name(), dmg)
	}
}

func (w *World) logMiss(attacker, defender *Creature) {
	if !w.CanSeeCreature(attacker) && !w.CanSeeCreature(defender) {
		return
	}
	switch {
	case attacker.IsPlayer():
		w.Logf("You miss %s.", defender.Name())
	default:
		w.Logf("%s misses %s.", attacker.Name(), defender.Name())
	}
}

// InflictDamage deals damage to defender, after shields absorb what they
// can. The attacker may be nil. It reports whether defender died.
func (w *World) InflictDamage(attacker, defender *Creature, dmg int, kind DamageKind) bool {
	if dmg <= 0 || defender.IsDying() || defender.Info.Flags.Any(MonstInvulnerable) {
		return false
	}
	if defender.Has(StatusShielded) {
		defender.Status[StatusShielded] -= dmg * shieldUnits
		if defender.Status[StatusShielded] < 0 {
			dmg = -defender.Status[StatusShielded] / shieldUnits
			defender.ClearStatus(StatusShielded)
		} else {
			dmg = 0
		}
	}
	if dmg <= 0 {
		return false
	}
	defender.HP -= dmg
	if defender.HP > 0 {
		if defender.State == Sleeping && !defender.IsPlayer() && kind != DamagePoison {
			w.WakeUp(defender)
		}
		return false
	}
	if defender.IsPlayer() {
		w.gameOver(deathCause(attacker, kind))
	}
	w.KillCreature(defender, false)
	return true
}

func deathCause(attacker *Creature, kind DamageKind) string {
	switch {
	case attacker != nil && !attacker.IsPlayer():
		return "killed by " + attacker.Name()
	case kind == DamagePoison:
		return "poison"
	case kind == DamageFire:
		return "burned to death"
	case kind == DamageTerrain:
		return "killed by the terrain"
	default:
		return "killed"
	}
}

// KillCreature kills c. A monster leaves its cell immediately and is staged
// for removal at the next reap. It drops its item and releases the creature
// it carries. Killing the player ends the game.
func (w *World) KillCreature(c *Creature, quietly bool) {
	if c.Bookkeeping.Any(MBIsDying) {
		return
	}
	c.HP = min(c.HP, 0)
	if c.IsPlayer() {
		w.gameOver("killed")
		c.Bookkeeping |= MBIsDying
		return
	}
	if !quietly && w.CanSeeCreature(c) {
		if c.Info.Flags.Any(MonstInanimate) {
			w.LogfStyled("%s is destroyed.", LogHurtMons, c.Name())
		} else {
			w.LogfStyled("%s dies.", LogHurtMons, c.Name())
		}
	}
	w.releaseSeized(c)
	if c.Bookkeeping.Any(MBSeized) {
		for _, d := range dirs8 {
			if o := w.CreatureAt(c.P.Add(d)); o != nil {
				o.Bookkeeping &^= MBSeizing
			}
		}
	}
	w.unplace(c)
	w.Arena.MarkForRemoval(c)
	if it := c.CarriedItem; it != nil && !c.Bookkeeping.Any(MBIsFalling) {
		c.CarriedItem = nil
		if !w.DropItem(c.P, it) {
			w.Diag.WithFields(logrus.Fields{"item": it.String(), "pos": c.P}).Warn("no room to drop item")
		}
	}
	if inner := c.Carried; inner != nil {
		c.Carried = nil
		w.releaseCarried(inner, c.P)
	}
}

// releaseCarried puts a creature carried by a dead one back on the level.
func (w *World) releaseCarried(inner *Creature, at gruid.Point) {
	p := w.NearestFreeCell(at, inner)
	if p == InvalidPos {
		w.Diag.WithFields(logrus.Fields{"species": inner.Info.Name, "pos": at}).Warn("no room to release carried creature")
		return
	}
	inner.Leader = NoID
	inner.Bookkeeping &^= MBFollower | MBLeader | MBIsDying
	if err := w.AddCreature(inner, p); err != nil {
		w.Diag.WithFields(logrus.Fields{"error": err}).Warn("releasing carried creature")
		return
	}
	if w.CanSeeCreature(inner) {
		w.Logf("%s is released.", inner.Name())
	}
}

// Heal restores a percentage of the maximum HP of c.
func (w *World) Heal(c *Creature, percent int) {
	c.HP = min(c.Info.MaxHP, c.HP+max(1, c.Info.MaxHP*percent/100))
}

// addPoison poisons c for a number of turns, with the given damage per turn
// added to any current poisoning.
func (w *World) addPoison(c *Creature, turns, amount int) {
	if turns <= 0 || c.Info.Flags.Any(MonstInanimate|MonstInvulnerable) {
		return
	}
	c.Status[StatusPoisoned] += turns
	c.MaxStatus[StatusPoisoned] = max(c.MaxStatus[StatusPoisoned], c.Status[StatusPoisoned])
	c.PoisonAmount += amount
}

// exposeToFire sets c burning, unless it is immune or already burning.
func (w *World) exposeToFire(c *Creature) {
	if c.IsDying() || c.Has(StatusImmuneToFire) || c.Info.Flags.Any(MonstInvulnerable) ||
		c.Bookkeeping.Any(MBSubmerged) || c.Has(StatusBurning) {
		return
	}
	if w.Map.HasTerrainFlag(c.P, TExtinguishesFire) && !c.Flies() {
		return
	}
	c.PutStatus(StatusBurning, burningDuration)
	c.Bookkeeping &^= MBSubmerged
	if c.IsPlayer() {
		w.LogStyled("You catch fire!", LogHurtPlayer)
	} else if w.CanSeeCreature(c) {
		w.LogfStyled("%s catches fire!", LogHurtMons, c.Name())
	}
}

// splitCreature makes a wounded creature split in two, each part getting
// half of the remaining HP.
func (w *World) splitCreature(c *Creature) {
	if c.HP < 2 {
		return
	}
	clone := w.CloneCreature(c)
	if clone == nil {
		return
	}
	half := (c.HP + 1) / 2
	c.HP, clone.HP = half, half
	if w.CanSeeCreature(c) {
		w.Logf("%s splits in two!", c.Name())
	}
}

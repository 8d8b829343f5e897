package brogue

import (
	"codeberg.org/anaseto/gruid"
	"codeberg.org/anaseto/gruid/paths"
)

// alliedWithPlayer reports whether c fights on the player's side.
func (c *Creature) alliedWithPlayer() bool {
	return c.IsPlayer() || c.State == Ally
}

// MonstersAreEnemies reports whether a and b would attack each other.
func (w *World) MonstersAreEnemies(a, b *Creature) bool {
	if a.ID == b.ID || a.Bookkeeping.Any(MBCaptive) || b.Bookkeeping.Any(MBCaptive) {
		return false
	}
	if a.Has(StatusDiscordant) || b.Has(StatusDiscordant) {
		return true
	}
	// liquid dwellers attack anything swimming in their element
	if w.huntsInWater(a, b) || w.huntsInWater(b, a) {
		return true
	}
	return a.alliedWithPlayer() != b.alliedWithPlayer()
}

func (w *World) huntsInWater(a, b *Creature) bool {
	return a.Info.Flags.Any(MonstRestrictedToLiquid) && !b.Info.Flags.Any(MonstRestrictedToLiquid) &&
		!b.Flies() && w.Map.HasTerrainFlag(b.P, TIsDeepWater)
}

// Teammates reports whether a and b are on the same team: linked through
// leadership, or both on the player's side. Discord breaks teams.
func (w *World) Teammates(a, b *Creature) bool {
	if a.ID == b.ID {
		return true
	}
	if a.Has(StatusDiscordant) || b.Has(StatusDiscordant) {
		return false
	}
	af, bf := a.Bookkeeping.Any(MBFollower), b.Bookkeeping.Any(MBFollower)
	switch {
	case af && a.Leader == b.ID:
		return true
	case bf && b.Leader == a.ID:
		return true
	case af && bf && a.Leader == b.Leader:
		return true
	}
	return a.alliedWithPlayer() && b.alliedWithPlayer()
}

// canPass reports whether mover may swap places with blocker.
func (w *World) canPass(mover, blocker *Creature) bool {
	if blocker.IsPlayer() || blocker.IsDying() {
		return false
	}
	if blocker.Bookkeeping.Any(MBCaptive|MBSeized|MBSeizing) || blocker.Info.Flags.Any(MonstImmobile) ||
		blocker.immobilized() {
		return false
	}
	if mover.Bookkeeping.Any(MBSeized | MBSeizing) {
		return false
	}
	if !w.Teammates(mover, blocker) || w.MonstersAreEnemies(mover, blocker) {
		return false
	}
	if blocker.Bookkeeping.Any(MBFollower) && blocker.Leader == mover.ID {
		return true
	}
	return mover.State == TrackingScent && blocker.State != TrackingScent
}

// terrainImmunities returns the terrain flags that cannot harm c.
func (w *World) terrainImmunities(c *Creature) TerrainFlags {
	var imm TerrainFlags
	if c.Has(StatusImmuneToFire) {
		imm |= TIsFire | TSpontaneouslyIgnites | TLavaInstaDeath
	}
	if c.Info.Flags.Any(MonstInvulnerable) {
		imm |= TIsFire | TSpontaneouslyIgnites | TLavaInstaDeath | TCausesDamage |
			TCausesParalysis | TCausesConfusion | TCausesExplosiveDamage
	}
	if c.Info.Flags.Any(MonstInanimate) {
		imm |= TCausesDamage | TCausesParalysis | TCausesConfusion | TCausesNausea
	}
	if c.Flies() {
		imm |= TAutoDescent | TCausesPoison | TIsDeepWater | TIsDFTrap | TLavaInstaDeath
	}
	if c.Info.Flags.Any(MonstImmuneToWebs) {
		imm |= TEntangles
	}
	if c.Info.Flags.Any(MonstImmuneToWater) {
		imm |= TIsDeepWater
	}
	if c.IsPlayer() && w.Player.Respiration {
		imm |= TRespirationImmunities
	}
	return imm
}

// WouldAvoid reports whether creature c would refuse to step into p. It is
// evaluated anew for each candidate cell and has no side effects.
func (w *World) WouldAvoid(c *Creature, p gruid.Point) bool {
	if !inMap(p) {
		return true
	}
	tf := w.Map.TerrainFlags(p)
	cf := w.Map.CellFlags(p)
	defender := w.CreatureAt(p)
	if defender != nil && defender.ID == c.ID {
		defender = nil
	}

	if tf.Any(TIsStairs) {
		return true
	}
	if c.Info.Flags.Any(MonstRestrictedToLiquid) && !tf.Any(TAllowsSubmerging) {
		return true
	}
	if tf.Any(TObstructsPassability) {
		if !c.IsPlayer() && tf.Any(TIsSecret) {
			// monsters know the secret doors of their level
			return false
		}
		if defender != nil && defender.Info.Flags.Any(MonstAttackableThruWalls) && w.MonstersAreEnemies(c, defender) {
			return false
		}
		return true
	}
	if defender != nil && !defender.IsDying() && w.MonstersAreEnemies(c, defender) &&
		paths.DistanceChebyshev(c.P, p) == 1 {
		return w.Map.DiagonalBlocked(c.P, p)
	}
	if c.IsPlayer() && tf.Any(TIsSecret) {
		return false
	}

	tf &^= w.terrainImmunities(c)
	here := w.Map.TerrainFlags(c.P)
	occupied := cf&(HasPlayer|HasMonster) != 0

	if tf.Any(TSpontaneouslyIgnites) && !occupied && !here.Any(TIsFire|TSpontaneouslyIgnites) &&
		(c.IsPlayer() || c.State != TrackingScent && c.State != Fleeing) {
		return true
	}
	if !c.IsPlayer() && c.State == Wandering && c.Info.Flags.Any(MonstFiery) && tf.Any(TIsFlammable) {
		// fiery wanderers do not set the level ablaze for nothing
		return true
	}
	if !c.IsPlayer() && c.Has(StatusBurning) &&
		w.Map.BurnedTerrainFlags(p)&^w.terrainImmunities(c)&(TCausesExplosiveDamage|TCausesDamage|TAutoDescent) != 0 {
		return true
	}
	if tf.Any(TIsFire) && !here.Any(TIsFire) && !occupied {
		return true
	}
	if tf.Any(THarmfulTerrain&^(TIsFire|TCausesPoison)) && !here.Any(THarmfulTerrain&^(TIsFire|TCausesPoison)) {
		return true
	}
	if tf.Any(TAutoDescent) && !(tf.Any(TEntangles) && c.Info.Flags.Any(MonstImmuneToWebs)) {
		return true
	}
	if tf.Any(TIsDFTrap) && cf&PlateDepressed == 0 &&
		(c.IsPlayer() || c.State == Wandering || c.State == Ally && !tf.Any(TIsSecret)) &&
		!c.Has(StatusEntranced) {
		return true
	}
	if tf.Any(TLavaInstaDeath) {
		return true
	}
	if tf.Any(TIsDeepWater) && !here.Any(TIsDeepWater) {
		return true
	}
	if tf.Any(TCausesPoison) && !here.Any(TCausesPoison) &&
		(c.IsPlayer() || c.State != TrackingScent || c.HP < 10) {
		return true
	}
	if c.Info.Abilities.Any(MAAvoidCorridors) && c.State == TrackingScent &&
		c.Bookkeeping.Any(MBFollower|MBLeader) && !here.Any(THarmfulTerrain|TIsDeepWater) &&
		w.Map.PassableArcCount(p) >= 2 && w.Map.PassableArcCount(c.P) < 2 {
		// pack hunters wait in the open rather than enter corridors
		return true
	}
	return false
}

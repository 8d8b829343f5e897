package brogue

import (
	"fmt"
	"math"
)

// BoltType represents a kind of bolt, from a staff, a wand or a monster
// ability.
type BoltType int

const (
	BoltTeleport BoltType = iota
	BoltSlow
	BoltPolymorph
	BoltNegation
	BoltDomination
	BoltBeckoning
	BoltPlenty
	BoltInvisibility
	BoltEmpowerment
	BoltLightning
	BoltFire
	BoltPoison
	BoltTunneling
	BoltBlinking
	BoltEntrancement
	BoltObstruction
	BoltDiscord
	BoltConjuration
	BoltHealing
	BoltHaste
	BoltShielding
	BoltSpiderweb
	BoltSpark
	BoltDragonfire
	BoltArrow
	NBoltTypes
)

// boltFlags describes how a bolt travels and whom it affects.
type boltFlags uint16

const (
	boltPierces         boltFlags = 1 << iota // passes through creatures
	boltHaltsBefore                           // stops in the cell before an obstacle
	boltFiery                                 // ignites flammable cells on its way
	boltSupport                               // cast at allies
	boltNotReflectable                        // never reflected
	boltHostile                               // wakes up its target
	boltPassesThruCreatures                   // ignores creatures entirely
	boltTunnels                               // bores through walls
)

// boltSpec describes a kind of bolt. Damage and Duration give the numeric
// strength of the bolt for a given level, when relevant. Hit is applied to
// each creature the bolt hits, and Land to the cell where it stops; both
// report whether the effect was noticeable enough to identify the bolt.
type boltSpec struct {
	Name        string
	Description string // used in cast messages
	Flags       boltFlags
	Damage      func(level int) Range
	Duration    func(level int) int
	Describe    func(level int) string
	Hit         func(w *World, z *zapState, c *Creature) bool
	Land        func(w *World, z *zapState) bool
}

var boltCatalog [NBoltTypes]boltSpec

func init() {
	boltCatalog = [NBoltTypes]boltSpec{
		BoltTeleport: {Name: "teleport other", Description: "a spell of teleportation", Flags: boltHostile,
			Describe: func(int) string { return "teleports the target far away" },
			Hit:      hitTeleport},
		BoltSlow: {Name: "slowness", Description: "a spell of slowness", Flags: boltHostile,
			Duration: slowDuration,
			Describe: func(l int) string { return fmt.Sprintf("slows for %d turns", slowDuration(l)) },
			Hit:      hitSlow},
		BoltPolymorph: {Name: "polymorph", Description: "a spell of polymorph", Flags: boltHostile,
			Describe: func(int) string { return "transforms the target into a random creature" },
			Hit:      hitPolymorph},
		BoltNegation: {Name: "negation", Description: "a negation bolt", Flags: boltHostile,
			Describe: func(int) string { return "strips the target of its magic" },
			Hit:      hitNegation},
		BoltDomination: {Name: "domination", Description: "a spell of domination", Flags: boltNotReflectable,
			Describe: func(int) string { return "may bind the target to your will, more surely if wounded" },
			Hit:      hitDomination},
		BoltBeckoning: {Name: "beckoning", Description: "a spell of beckoning", Flags: boltHostile,
			Describe: func(int) string { return "pulls the target next to the caster" },
			Hit:      hitBeckoning},
		BoltPlenty: {Name: "plenty", Description: "a spell of plenty", Flags: boltNotReflectable,
			Describe: func(int) string { return "duplicates the target, splitting its health" },
			Hit:      hitPlenty},
		BoltInvisibility: {Name: "invisibility", Description: "a spell of invisibility", Flags: boltSupport | boltNotReflectable,
			Duration: func(int) int { return invisibilityDuration },
			Describe: func(int) string { return fmt.Sprintf("makes the target invisible for %d turns", invisibilityDuration) },
			Hit:      hitInvisibility},
		BoltEmpowerment: {Name: "empowerment", Description: "a spell of empowerment", Flags: boltSupport | boltNotReflectable,
			Describe: func(int) string { return "makes an ally permanently stronger" },
			Hit:      hitEmpowerment},
		BoltLightning: {Name: "lightning", Description: "a bolt of lightning", Flags: boltPierces | boltHostile,
			Damage:   staffDamage,
			Describe: describeDamage,
			Hit:      hitDamage},
		BoltFire: {Name: "firebolt", Description: "a firebolt", Flags: boltFiery | boltHostile,
			Damage:   staffDamage,
			Describe: describeDamage,
			Hit:      hitFire},
		BoltPoison: {Name: "poison", Description: "a bolt of poison", Flags: boltHostile,
			Duration: staffPoison,
			Describe: func(l int) string { return fmt.Sprintf("poisons for %d turns", staffPoison(l)) },
			Hit:      hitPoison},
		BoltTunneling: {Name: "tunneling", Description: "a tunneling bolt", Flags: boltPassesThruCreatures | boltTunnels | boltNotReflectable,
			Duration: func(l int) int { return l },
			Describe: func(l int) string { return fmt.Sprintf("bores through up to %d walls", l) },
			Land:     landTunneling},
		BoltBlinking: {Name: "blinking", Description: "a blink", Flags: boltHaltsBefore | boltNotReflectable,
			Duration: staffBlinkDistance,
			Describe: func(l int) string { return fmt.Sprintf("teleports the caster up to %d cells", staffBlinkDistance(l)) }},
		BoltEntrancement: {Name: "entrancement", Description: "a spell of entrancement", Flags: boltHostile,
			Duration: entrancementDuration,
			Describe: func(l int) string { return fmt.Sprintf("entrances for %d turns", entrancementDuration(l)) },
			Hit:      hitEntrancement},
		BoltObstruction: {Name: "obstruction", Description: "a spell of obstruction", Flags: boltHaltsBefore | boltNotReflectable,
			Duration: obstructionCount,
			Describe: func(l int) string { return fmt.Sprintf("conjures up to %d crystal walls", obstructionCount(l)) },
			Land:     landObstruction},
		BoltDiscord: {Name: "discord", Description: "a spell of discord", Flags: boltHostile,
			Duration: discordDuration,
			Describe: func(l int) string { return fmt.Sprintf("turns the target against its allies for %d turns", discordDuration(l)) },
			Hit:      hitDiscord},
		BoltConjuration: {Name: "conjuration", Description: "spectral blades", Flags: boltHaltsBefore | boltNotReflectable,
			Duration: staffBladeCount,
			Describe: func(l int) string { return fmt.Sprintf("summons %d spectral blades", staffBladeCount(l)) },
			Land:     landConjuration},
		BoltHealing: {Name: "healing", Description: "a spell of healing", Flags: boltSupport | boltNotReflectable,
			Duration: healPercent,
			Describe: func(l int) string { return fmt.Sprintf("heals %d%% of the target's health", healPercent(l)) },
			Hit:      hitHealing},
		BoltHaste: {Name: "haste other", Description: "a spell of haste", Flags: boltSupport | boltNotReflectable,
			Duration: hasteDuration,
			Describe: func(l int) string { return fmt.Sprintf("hastes for %d turns", hasteDuration(l)) },
			Hit:      hitHaste},
		BoltShielding: {Name: "protection", Description: "a spell of protection", Flags: boltSupport | boltNotReflectable,
			Duration: staffProtection,
			Describe: func(l int) string { return fmt.Sprintf("shields from %d damage", staffProtection(l)) },
			Hit:      hitShielding},
		BoltSpiderweb: {Name: "spiderweb", Description: "a web", Flags: boltNotReflectable | boltHostile,
			Describe: func(int) string { return "entangles the target in sticky webs" },
			Land:     landSpiderweb},
		BoltSpark: {Name: "spark", Description: "a spark", Flags: boltHostile,
			Damage:   sparkDamage,
			Describe: describeDamage,
			Hit:      hitDamage},
		BoltDragonfire: {Name: "dragonfire", Description: "a blast of fire", Flags: boltFiery | boltHostile,
			Damage:   func(int) Range { return Range{Min: 25, Max: 50, Clump: 1} },
			Describe: describeDamage,
			Hit:      hitFire},
		BoltArrow: {Name: "arrow", Description: "an arrow", Flags: boltHostile | boltNotReflectable,
			Damage:   func(int) Range { return Range{Min: 2, Max: 6, Clump: 1} },
			Describe: describeDamage,
			Hit:      hitDamage},
	}
}

func (bt BoltType) String() string {
	if bt < 0 || bt >= NBoltTypes {
		return fmt.Sprintf("BoltType(%d)", int(bt))
	}
	return boltCatalog[bt].Name
}

// BoltByName returns the bolt type with the given name.
func BoltByName(name string) (BoltType, bool) {
	for bt := range NBoltTypes {
		if boltCatalog[bt].Name == name {
			return bt, true
		}
	}
	return 0, false
}

// Strength formulas, by staff or wand enchantment level.

const invisibilityDuration = 150

func staffDamage(level int) Range {
	return Range{Min: (2 + level) * 3 / 4, Max: 4 + 5*level/2, Clump: 1 + level/3}
}

func sparkDamage(level int) Range {
	return Range{Min: 1 + level/2, Max: 3 + level, Clump: 1}
}

func staffPoison(level int) int {
	return int(5 * math.Pow(1.3, float64(level-2)))
}

func slowDuration(level int) int         { return 5 * level }
func hasteDuration(level int) int        { return 2 + 4*level }
func discordDuration(level int) int      { return 4 * level }
func entrancementDuration(level int) int { return 3 * level }
func staffBlinkDistance(level int) int   { return 2*level + 2 }
func staffBladeCount(level int) int      { return max(1, 3*level/2) }
func healPercent(level int) int          { return min(100, 10*level) }
func obstructionCount(level int) int     { return 2 + 3*level }

// staffProtection returns the damage a shield of the given level absorbs.
func staffProtection(level int) int {
	return int(130*math.Pow(1.4, float64(level-2))) / 10
}

// dominationChance returns the chance in percent to dominate c: certain
// below a fifth of its health, then decreasing with its health.
func dominationChance(c *Creature) int {
	if c.HP*5 < c.Info.MaxHP {
		return 100
	}
	return max(0, 100-100*c.HP/max(1, c.Info.MaxHP))
}

func describeDamage(level int) string {
	r := staffDamage(level)
	return fmt.Sprintf("deals %d-%d damage", r.Min, r.Max)
}

// StaffDescription describes the effect of a bolt at the given level, and
// at the next one.
func StaffDescription(bt BoltType, level int) string {
	if bt < 0 || bt >= NBoltTypes {
		return ""
	}
	spec := &boltCatalog[bt]
	cur, next := spec.Describe(level), spec.Describe(level+1)
	if spec.Damage != nil {
		r, nr := spec.Damage(level), spec.Damage(level+1)
		cur = fmt.Sprintf("deals %d-%d damage", r.Min, r.Max)
		next = fmt.Sprintf("deals %d-%d damage", nr.Min, nr.Max)
	}
	if cur == next {
		return fmt.Sprintf("%s: %s.", spec.Name, cur)
	}
	return fmt.Sprintf("%s: %s (at next level: %s).", spec.Name, cur, next)
}

// reflectionChance returns the chance in percent that armor of reflection
// with the given enchantment reflects a bolt.
func reflectionChance(enchant int) int {
	if enchant <= 0 {
		return 0
	}
	return min(100, max(1, int(100-100*math.Pow(0.85, float64(enchant)))))
}

// willReflect rolls whether c reflects a bolt of the given type.
func (w *World) willReflect(c *Creature, bt BoltType) bool {
	if boltCatalog[bt].Flags&boltNotReflectable != 0 || c.Bookkeeping.Any(MBSubmerged) {
		return false
	}
	switch {
	case c.Info.Abilities.Any(MAReflect100):
		return true
	case c.IsPlayer():
		return w.rand.RandPercent(reflectionChance(w.Player.ReflectEnchant))
	case c.Info.Flags.Any(MonstReflect4):
		return w.rand.RandPercent(reflectionChance(4))
	}
	return false
}

// hasBolt reports whether c can cast the given bolt.
func (c *Creature) hasBolt(bt BoltType) bool {
	for _, b := range c.Info.Bolts {
		if b == bt {
			return true
		}
	}
	return false
}

package brogue

import (
	"fmt"

	"codeberg.org/anaseto/gruid"
)

// Mindstate represents the behavior state of a creature.
type Mindstate int8

const (
	Sleeping Mindstate = iota
	Wandering
	TrackingScent
	Fleeing
	Ally
	nMindstates
)

func (st Mindstate) String() string {
	switch st {
	case Sleeping:
		return "sleeping"
	case Wandering:
		return "wandering"
	case TrackingScent:
		return "hunting"
	case Fleeing:
		return "fleeing"
	case Ally:
		return "ally"
	default:
		return fmt.Sprintf("Mindstate(%d)", int(st))
	}
}

// Valid reports whether st is one of the known states.
func (st Mindstate) Valid() bool {
	return st >= Sleeping && st < nMindstates
}

// CreatureMode qualifies the state of a creature.
type CreatureMode int8

const (
	ModeNormal      CreatureMode = iota
	ModePermFleeing              // flees until some condition is met (thieves)
)

// Status represents a temporary status effect.
type Status int

const (
	StatusLevitating Status = iota
	StatusSlowed
	StatusHasted
	StatusConfused
	StatusBurning
	StatusParalyzed
	StatusPoisoned
	StatusStuck
	StatusNauseous
	StatusDiscordant
	StatusImmuneToFire
	StatusExplosionImmunity
	StatusMagicalFear
	StatusEntranced
	StatusDarkened
	StatusLifespanRemaining
	StatusShielded
	StatusInvisible
	NStatus
)

var statusNames = [NStatus]string{
	StatusLevitating:        "levitating",
	StatusSlowed:            "slowed",
	StatusHasted:            "hasted",
	StatusConfused:          "confused",
	StatusBurning:           "burning",
	StatusParalyzed:         "paralyzed",
	StatusPoisoned:          "poisoned",
	StatusStuck:             "stuck",
	StatusNauseous:          "nauseous",
	StatusDiscordant:        "discordant",
	StatusImmuneToFire:      "immune to fire",
	StatusExplosionImmunity: "explosion immune",
	StatusMagicalFear:       "terrified",
	StatusEntranced:         "entranced",
	StatusDarkened:          "darkened",
	StatusLifespanRemaining: "lifespan",
	StatusShielded:          "shielded",
	StatusInvisible:         "invisible",
}

func (st Status) String() string {
	if st < 0 || st >= NStatus {
		return fmt.Sprintf("Status(%d)", int(st))
	}
	return statusNames[st]
}

// permanentStatus is the duration given to intrinsic statuses (flying,
// fire immunity).
const permanentStatus = 1000

// MonsterFlags represents capabilities of a species as a bitset. They only
// change through magic (negation, polymorph).
type MonsterFlags uint64

// Any reports whether any of the flags is in the set.
func (f MonsterFlags) Any(of MonsterFlags) bool {
	return f&of != 0
}

const (
	MonstInvisible MonsterFlags = 1 << iota
	MonstInanimate
	MonstImmobile
	MonstCarryItem25
	MonstCarryItem100
	MonstAlwaysHunting
	MonstFleesNearDeath
	MonstAttackableThruWalls
	MonstImmuneToFire
	MonstImmuneToWebs
	MonstImmuneToWater
	MonstRestrictedToLiquid
	MonstSubmerges
	MonstFlies
	MonstFlits
	MonstMaintainsDistance
	MonstReflect4
	MonstDiesIfNegated
	MonstNeverSleeps
	MonstFiery
	MonstInvulnerable
	MonstCastSpellsSlowly
	MonstAlwaysUseAbility
	MonstUnique
)

// negatableFlags are lost when a creature is negated.
const negatableFlags = MonstInvisible | MonstImmuneToFire | MonstFlies | MonstFlits |
	MonstReflect4 | MonstFiery | MonstCastSpellsSlowly | MonstAlwaysUseAbility

// AbilityFlags represents special attack and defense abilities as a bitset.
type AbilityFlags uint64

// Any reports whether any of the abilities is in the set.
func (f AbilityFlags) Any(of AbilityFlags) bool {
	return f&of != 0
}

const (
	MAHitStealFlee AbilityFlags = 1 << iota
	MAReflect100
	MAClonesSelfOnDefend
	MAAvoidCorridors
	MAPoisons
	MAHitBurns
	MASeizes
)

// BookFlags represents transient bookkeeping information about a creature as
// a bitset. Unlike capabilities, they change during normal play.
type BookFlags uint32

// Any reports whether any of the flags is in the set.
func (f BookFlags) Any(of BookFlags) bool {
	return f&of != 0
}

const (
	MBSubmerged BookFlags = 1 << iota
	MBCaptive
	MBFollower
	MBLeader
	MBSeizing
	MBSeized
	MBJustSummoned
	MBIsDying
	MBBoundToLeader // dies with its leader (spectral blades)
	MBGivenUpOnScent
	MBIsFalling
)

// Creature holds the data of the player or a monster.
type Creature struct {
	ID               ID
	Kind             SpeciesID   // species in the catalog
	Info             SpeciesInfo // current characteristics (changed by magic)
	P                gruid.Point // position
	HP               int         // current hit points
	State            Mindstate
	Mode             CreatureMode
	Status           [NStatus]int // status counters
	MaxStatus        [NStatus]int // initial values of status counters
	Bookkeeping      BookFlags
	Leader           ID        // weak reference, NoID if none
	CarriedItem      *Item     // owned
	Carried          *Creature // owned nested creature, released on death
	Waypoints        uint64    // visited waypoints bitset
	TargetWaypoint   int       // index of current wander destination, -1 if none
	TicksUntilTurn   int
	MovementDuration int
	AttackDuration   int
	PoisonAmount     int // damage per turn while poisoned
	LastSeenPlayerAt gruid.Point
	Path             []gruid.Point // current travel path
	Empowered        int           // number of empowerments

	spent int // ticks spent during the current turn
}

// IsPlayer reports whether the creature is the player.
func (c *Creature) IsPlayer() bool {
	return c.ID == PlayerID
}

// IsDying reports whether the creature is dead or about to be reaped.
func (c *Creature) IsDying() bool {
	return c.HP <= 0 || c.Bookkeeping.Any(MBIsDying)
}

// Name returns a short description of the creature for messages.
func (c *Creature) Name() string {
	if c.IsPlayer() {
		return "you"
	}
	return "the " + c.Info.Name
}

// Has reports whether the creature currently has the given status.
func (c *Creature) Has(st Status) bool {
	return c.Status[st] > 0
}

// PutStatus sets a status to at least the given duration.
func (c *Creature) PutStatus(st Status, n int) {
	if n > c.Status[st] {
		c.Status[st] = n
	}
	if c.Status[st] > c.MaxStatus[st] {
		c.MaxStatus[st] = c.Status[st]
	}
}

// ClearStatus removes a status.
func (c *Creature) ClearStatus(st Status) {
	c.Status[st] = 0
	c.MaxStatus[st] = 0
}

// Flies reports whether the creature is above ground.
func (c *Creature) Flies() bool {
	return c.Has(StatusLevitating)
}

// immobilized reports whether the creature loses its turn.
func (c *Creature) immobilized() bool {
	return c.Has(StatusParalyzed) || c.Has(StatusEntranced) || c.Bookkeeping.Any(MBCaptive)
}

// updateSpeeds recomputes movement and attack durations from the species
// base values and the haste and slow statuses.
func (c *Creature) updateSpeeds() {
	mv, at := c.Info.MovementDuration, c.Info.AttackDuration
	switch {
	case c.Has(StatusHasted) && !c.Has(StatusSlowed):
		mv, at = mv/2, at/2
	case c.Has(StatusSlowed) && !c.Has(StatusHasted):
		mv, at = mv*2, at*2
	}
	c.MovementDuration, c.AttackDuration = mv, at
}

// initIntrinsics sets the statuses implied by species flags.
func (c *Creature) initIntrinsics() {
	if c.Info.Flags.Any(MonstFlies) {
		c.PutStatus(StatusLevitating, permanentStatus)
	}
	if c.Info.Flags.Any(MonstImmuneToFire) {
		c.PutStatus(StatusImmuneToFire, permanentStatus)
	}
	if c.Info.Flags.Any(MonstInvisible) {
		c.PutStatus(StatusInvisible, permanentStatus)
	}
	c.updateSpeeds()
}

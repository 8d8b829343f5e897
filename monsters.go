package brogue

import (
	"slices"

	"codeberg.org/anaseto/gruid"
	"codeberg.org/anaseto/gruid/paths"
	"github.com/zyedidia/generic/mapset"
)

const (
	// fleeDistance is the distance under which distance-keeping creatures
	// back off.
	fleeDistance = 3

	// followDistance is how far followers let their leader go.
	followDistance = 2

	// spellChance is the chance in percent to use an eligible bolt.
	spellChance = 30

	// monsterBoltLevel is the base power of bolts cast by monsters.
	monsterBoltLevel = 3
)

// UpdateMonsterState runs the state machine of a monster, once per turn.
// The resulting state is always one of the five mindstates.
func (w *World) UpdateMonsterState(c *Creature) {
	pl := w.PlayerCreature()
	if c.IsPlayer() || pl == nil {
		return
	}
	if c.Info.Flags.Any(MonstAlwaysHunting) && c.State != Ally {
		c.State = TrackingScent
		return
	}
	aware := !pl.IsDying() && c.State != Ally && w.AwareOfTarget(c, pl)
	if c.Info.Flags.Any(MonstImmobile) && c.State != Ally {
		if aware {
			c.State = TrackingScent
		} else {
			c.State = Sleeping
		}
		return
	}
	if c.Mode == ModePermFleeing && (c.State == Wandering || c.State == TrackingScent) {
		c.State = Fleeing
	}
	if c.Has(StatusMagicalFear) && (c.State == Wandering || c.State == TrackingScent || c.State == Ally) {
		c.State = Fleeing
	}
	closest := w.closestFearedEnemy(c)
	fleesNearDeath := c.Info.Flags.Any(MonstFleesNearDeath)
	switch {
	case c.State == Wandering && aware && w.InFOV(c.P):
		w.AlertMonster(c)
	case c.State == Sleeping:
		if aware {
			w.WakeUp(c)
		}
	case c.State == TrackingScent && !aware:
		c.State = Wandering
		w.wanderToward(c, c.LastSeenPlayerAt)
	case c.State == TrackingScent && closest < fleeDistance:
		c.State = Fleeing
	case c.State != Ally && fleesNearDeath && c.HP < 3*c.Info.MaxHP/4:
		// fleers recover at three quarters of their health
		if c.State == Fleeing || c.HP <= c.Info.MaxHP/4 {
			c.State = Fleeing
		}
	case c.State == Ally && fleesNearDeath && c.HP <= c.Info.MaxHP/4:
		c.State = Fleeing
	case c.Mode == ModeNormal && c.State == Fleeing && !c.Has(StatusMagicalFear) && closest >= fleeDistance &&
		!fleesNearDeath:
		c.State = w.recoveredState(c)
	case c.Mode == ModePermFleeing && c.State == Fleeing && c.Info.Abilities.Any(MAHitStealFlee) &&
		!c.Has(StatusMagicalFear) && c.CarriedItem == nil:
		c.Mode = ModeNormal
		w.AlertMonster(c)
	case c.Mode == ModeNormal && c.State == Fleeing && fleesNearDeath && !c.Has(StatusMagicalFear) &&
		c.HP >= 3*c.Info.MaxHP/4:
		c.State = w.recoveredState(c)
	}
	if aware {
		c.Bookkeeping &^= MBGivenUpOnScent
		if c.State == Fleeing || c.State == TrackingScent {
			c.LastSeenPlayerAt = pl.P
		}
	}
}

// recoveredState returns the state of a creature that stops fleeing.
func (w *World) recoveredState(c *Creature) Mindstate {
	if c.Bookkeeping.Any(MBFollower) && c.Leader == PlayerID {
		return Ally
	}
	return TrackingScent
}

// fleesFrom reports whether c runs away from o.
func (w *World) fleesFrom(c, o *Creature) bool {
	if !w.MonstersAreEnemies(c, o) || o.Bookkeeping.Any(MBCaptive) {
		return false
	}
	return c.Info.Flags.Any(MonstMaintainsDistance) || c.Has(StatusMagicalFear) || c.Mode == ModePermFleeing
}

// closestFearedEnemy returns the distance to the closest enemy c flees from
// that could reach it in a straight line, or a distance larger than the map.
func (w *World) closestFearedEnemy(c *Creature) int {
	closest := DCOLS + DROWS
	for o := range w.Arena.Living() {
		if o.ID == c.ID || !w.fleesFrom(c, o) {
			continue
		}
		d := paths.DistanceChebyshev(c.P, o.P)
		if d < closest && w.OpenPathBetween(o.P, c.P) {
			closest = d
		}
	}
	return closest
}

// AlertMonster makes c start hunting the player, or flee if it always
// flees.
func (w *World) AlertMonster(c *Creature) {
	if c.Mode == ModePermFleeing {
		c.State = Fleeing
	} else {
		c.State = TrackingScent
	}
	c.LastSeenPlayerAt = w.PP()
}

// WakeUp alerts c and, transitively, its sleeping or wandering teammates.
func (w *World) WakeUp(c *Creature) {
	if c.IsPlayer() {
		return
	}
	visited := mapset.New[ID]()
	queue := []*Creature{c}
	visited.Put(c.ID)
	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]
		if m.State != Ally {
			w.AlertMonster(m)
		}
		m.TicksUntilTurn = max(m.TicksUntilTurn, 100)
		for o := range w.Arena.Monsters() {
			if visited.Has(o.ID) || !w.Teammates(m, o) || o.Mode != ModeNormal {
				continue
			}
			if o.State != Sleeping && o.State != Wandering {
				continue
			}
			visited.Put(o.ID)
			queue = append(queue, o)
		}
	}
}

// BecomeAllyWith makes c an ally following the player.
func (w *World) BecomeAllyWith(c *Creature) {
	pl := w.PlayerCreature()
	if c.IsPlayer() || pl == nil {
		return
	}
	w.Demote(c)
	w.Unfollow(c)
	c.Bookkeeping &^= MBCaptive | MBSeized | MBSeizing
	c.ClearStatus(StatusDiscordant)
	c.Mode = ModeNormal
	c.State = Ally
	if err := w.SetLeader(c, pl); err != nil {
		w.invariant(false, "ally leader: "+err.Error(), nil)
	}
}

// MonstersTurn makes a monster take its turn according to its state.
func (w *World) MonstersTurn(c *Creature) {
	c.Bookkeeping &^= MBJustSummoned
	w.UpdateMonsterState(c)
	w.markWaypoints(c)
	if c.State == Sleeping {
		return
	}
	if c.Info.Flags.Any(MonstImmobile) {
		if c.State == TrackingScent || c.State == Ally {
			w.monsterCastSpell(c)
		}
		return
	}
	if c.Has(StatusDiscordant) && w.attackAdjacentEnemy(c) {
		return
	}
	switch c.State {
	case TrackingScent:
		w.huntTurn(c)
	case Fleeing:
		w.fleeTurn(c)
	case Wandering:
		w.wanderTurn(c)
	case Ally:
		w.allyTurn(c)
	}
}

// attackAdjacentEnemy makes c attack an adjacent enemy, preferring the
// player. It reports whether it did.
func (w *World) attackAdjacentEnemy(c *Creature) bool {
	var target *Creature
	for _, d := range dirs8 {
		o := w.CreatureAt(c.P.Add(d))
		if o == nil || o.IsDying() || !w.MonstersAreEnemies(c, o) || w.Map.DiagonalBlocked(c.P, o.P) {
			continue
		}
		if o.Bookkeeping.Any(MBSubmerged) && !c.Bookkeeping.Any(MBSubmerged) {
			continue
		}
		if target == nil || o.IsPlayer() {
			target = o
		}
	}
	if target == nil {
		return false
	}
	return w.MoveMonster(c, target.P.Sub(c.P))
}

func (w *World) huntTurn(c *Creature) {
	if w.monsterCastSpell(c) {
		return
	}
	if w.attackAdjacentEnemy(c) {
		return
	}
	pl := w.PlayerCreature()
	if pl == nil || pl.IsDying() {
		c.State = Wandering
		return
	}
	if w.sensesDirectly(c) && w.OpenPathBetween(c.P, pl.P) &&
		w.MoveMonsterPassivelyTowards(c, pl.P, true) {
		return
	}
	if d, ok := w.ScentDirection(c); ok {
		if w.MoveMonster(c, d) {
			return
		}
	}
	if !w.InFOV(c.P) {
		// lost the trail
		c.Bookkeeping |= MBGivenUpOnScent
		c.State = Wandering
		w.wanderToward(c, c.LastSeenPlayerAt)
		return
	}
	w.TravelTowards(c, pl.P)
}

func (w *World) fleeTurn(c *Creature) {
	if w.monsterCastSpell(c) {
		return
	}
	var threats []gruid.Point
	for o := range w.Arena.Living() {
		if o.ID != c.ID && w.MonstersAreEnemies(c, o) && !o.Bookkeeping.Any(MBCaptive) &&
			paths.DistanceChebyshev(c.P, o.P) <= 2*DROWS {
			threats = append(threats, o.P)
		}
	}
	if q := w.fleeStep(c, threats); q != InvalidPos && w.MoveMonster(c, q.Sub(c.P)) {
		return
	}
	// cornered
	w.attackAdjacentEnemy(c)
}

func (w *World) wanderTurn(c *Creature) {
	if l := w.LeaderOf(c); l != nil && !l.IsPlayer() && !l.IsDying() {
		if paths.DistanceChebyshev(c.P, l.P) > followDistance {
			w.TravelTowards(c, l.P)
		}
		return
	}
	if c.TargetWaypoint < 0 || c.TargetWaypoint >= len(w.Map.Waypoints) {
		w.chooseWanderDestination(c)
	}
	if c.TargetWaypoint < 0 {
		if d, ok := w.randValidDirection(c, true); ok {
			w.MoveMonster(c, d)
		}
		return
	}
	if !w.TravelTowards(c, w.Map.Waypoints[c.TargetWaypoint]) {
		c.Waypoints |= 1 << uint(c.TargetWaypoint)
		c.TargetWaypoint = -1
	}
}

func (w *World) allyTurn(c *Creature) {
	if w.attackAdjacentEnemy(c) {
		return
	}
	if w.monsterCastSpell(c) {
		return
	}
	if t := w.closestVisibleEnemy(c, 10); t != nil {
		if w.TravelTowards(c, t.P) {
			return
		}
	}
	l := w.LeaderOf(c)
	if l == nil || l.IsDying() {
		return
	}
	if paths.DistanceChebyshev(c.P, l.P) > followDistance {
		w.TravelTowards(c, l.P)
	}
}

// closestVisibleEnemy returns the closest enemy within maxDist that c can
// see, or nil.
func (w *World) closestVisibleEnemy(c *Creature, maxDist int) *Creature {
	var best *Creature
	bestDist := maxDist + 1
	for o := range w.Arena.Living() {
		if o.ID == c.ID || !w.MonstersAreEnemies(c, o) || o.Bookkeeping.Any(MBCaptive|MBSubmerged) ||
			w.creatureHiddenFrom(o, c) {
			continue
		}
		d := paths.DistanceChebyshev(c.P, o.P)
		if d < bestDist && w.OpenPathBetween(c.P, o.P) {
			best, bestDist = o, d
		}
	}
	return best
}

// markWaypoints records the waypoints c is close to as visited.
func (w *World) markWaypoints(c *Creature) {
	for i, p := range w.Map.Waypoints {
		if paths.DistanceChebyshev(c.P, p) <= 2 {
			c.Waypoints |= 1 << uint(i)
			if i == c.TargetWaypoint {
				c.TargetWaypoint = -1
			}
		}
	}
}

// chooseWanderDestination picks the closest waypoint not yet visited by c,
// starting over once all have been visited.
func (w *World) chooseWanderDestination(c *Creature) {
	n := len(w.Map.Waypoints)
	c.TargetWaypoint = -1
	if n == 0 {
		return
	}
	all := uint64(1)<<uint(n) - 1
	if n == 64 {
		all = ^uint64(0)
	}
	if c.Waypoints&all == all {
		c.Waypoints = 0
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	w.rand.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })
	best := DCOLS + DROWS
	for _, i := range order {
		if c.Waypoints&(1<<uint(i)) != 0 {
			continue
		}
		if d := paths.DistanceChebyshev(c.P, w.Map.Waypoints[i]); d < best {
			best, c.TargetWaypoint = d, i
		}
	}
	c.Path = nil
}

// wanderToward makes c wander to the waypoint closest to p.
func (w *World) wanderToward(c *Creature, p gruid.Point) {
	if !inMap(p) || len(w.Map.Waypoints) == 0 {
		w.chooseWanderDestination(c)
		return
	}
	best := DCOLS + DROWS
	for i, wp := range w.Map.Waypoints {
		if d := paths.DistanceChebyshev(p, wp); d < best {
			best, c.TargetWaypoint = d, i
		}
	}
	c.Path = nil
}

// monsterCastSpell makes c cast one of its bolts at a suitable target. Each
// eligible bolt is used with some probability, unless the species always
// uses its abilities. It reports whether a bolt was cast.
func (w *World) monsterCastSpell(c *Creature) bool {
	if len(c.Info.Bolts) == 0 || c.Bookkeeping.Any(MBSubmerged) || c.Has(StatusEntranced) {
		return false
	}
	if c.Info.Flags.Any(MonstCastSpellsSlowly) && w.rand.RandPercent(50) {
		return false
	}
	bolts := slices.Clone(c.Info.Bolts)
	w.rand.Shuffle(len(bolts), func(i, j int) { bolts[i], bolts[j] = bolts[j], bolts[i] })
	for _, bt := range bolts {
		t := w.spellTarget(c, bt)
		if t == nil {
			continue
		}
		if !c.Info.Flags.Any(MonstAlwaysUseAbility) && !w.rand.RandPercent(spellChance) {
			continue
		}
		if w.CanSeeCreature(c) {
			w.Logf("%s casts %s.", c.Name(), boltCatalog[bt].Description)
		}
		w.Zap(c.P, t.P, bt, monsterBoltLevel+c.Empowered, false)
		if !c.IsDying() {
			w.spend(c, c.AttackDuration)
		}
		return true
	}
	return false
}

// spellTarget returns a creature that c may target with a bolt, or nil.
func (w *World) spellTarget(c *Creature, bt BoltType) *Creature {
	spec := &boltCatalog[bt]
	var best *Creature
	bestDist := DCOLS + DROWS
	for o := range w.Arena.Living() {
		if o.ID == c.ID || o.Bookkeeping.Any(MBSubmerged|MBCaptive) || w.creatureHiddenFrom(o, c) {
			continue
		}
		if spec.Flags&boltSupport != 0 {
			if !w.Teammates(c, o) || o.IsPlayer() || !w.needsSupport(o, bt) {
				continue
			}
		} else if !w.MonstersAreEnemies(c, o) || !w.worthCasting(c, o, bt) {
			continue
		}
		d := paths.DistanceChebyshev(c.P, o.P)
		if d >= bestDist || w.ComputeImpact(c.P, o.P, MaxBoltLength, false) != o.P {
			continue
		}
		if o.IsPlayer() && !w.InFOV(c.P) {
			continue
		}
		best, bestDist = o, d
	}
	return best
}

// needsSupport reports whether a teammate would benefit from a support
// bolt.
func (w *World) needsSupport(o *Creature, bt BoltType) bool {
	inCombat := o.State == TrackingScent || o.State == Ally && w.closestVisibleEnemy(o, 10) != nil
	switch bt {
	case BoltHaste:
		return inCombat && !o.Has(StatusHasted)
	case BoltShielding:
		return inCombat && !o.Has(StatusShielded)
	case BoltHealing:
		return o.HP <= o.Info.MaxHP*2/3
	case BoltInvisibility:
		return inCombat && !o.Has(StatusInvisible)
	case BoltEmpowerment:
		return inCombat && o.Empowered == 0
	default:
		return false
	}
}

// worthCasting reports whether casting a hostile bolt at an enemy makes
// sense.
func (w *World) worthCasting(c, o *Creature, bt BoltType) bool {
	switch bt {
	case BoltSlow:
		return !o.Has(StatusSlowed)
	case BoltDiscord:
		return !o.IsPlayer() && !o.Has(StatusDiscordant)
	case BoltNegation:
		return o.Info.Flags.Any(negatableFlags|MonstDiesIfNegated) || o.Has(StatusHasted) ||
			o.Has(StatusShielded) || len(o.Info.Bolts) > 0
	case BoltSpiderweb:
		return !o.Has(StatusStuck) && !o.Info.Flags.Any(MonstImmuneToWebs)
	case BoltBlinking:
		return paths.DistanceChebyshev(c.P, o.P) > fleeDistance && c.State == TrackingScent
	case BoltConjuration:
		return true
	case BoltFire, BoltDragonfire:
		return !o.Has(StatusImmuneToFire)
	case BoltEntrancement, BoltDomination:
		return !o.IsPlayer() && !o.Has(StatusEntranced)
	default:
		return true
	}
}

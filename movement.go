package brogue

import (
	"codeberg.org/anaseto/gruid"
	"codeberg.org/anaseto/gruid/paths"
)

func signum(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// spend charges a creature for an action.
func (w *World) spend(c *Creature, ticks int) {
	c.TicksUntilTurn += ticks
	c.spent += ticks
}

// randValidDirection returns a random direction c could move or attack in,
// or false if there is none. If respectAvoidance is false, hazardous cells
// are acceptable (confusion).
func (w *World) randValidDirection(c *Creature, respectAvoidance bool) (gruid.Point, bool) {
	var dirs []gruid.Point
	for _, d := range dirs8 {
		q := c.P.Add(d)
		if !inMap(q) || w.Map.HasTerrainFlag(q, TObstructsPassability) || w.Map.DiagonalBlocked(c.P, q) {
			continue
		}
		if respectAvoidance && w.WouldAvoid(c, q) && !w.Map.HasCellFlag(q, HasPlayer) {
			continue
		}
		if c.Info.Flags.Any(MonstRestrictedToLiquid) && !w.Map.HasTerrainFlag(q, TAllowsSubmerging) {
			continue
		}
		dirs = append(dirs, d)
	}
	if len(dirs) == 0 {
		return gruid.Point{}, false
	}
	return dirs[w.rand.IntN(len(dirs))], true
}

// MoveMonster makes c move one cell in direction dir, attacking an enemy
// there, swapping with a teammate that can be passed, or moving into the
// free cell. Confusion and flitting may change the direction. It reports
// whether c acted.
func (w *World) MoveMonster(c *Creature, dir gruid.Point) bool {
	if dir == (gruid.Point{}) || paths.DistanceChebyshev(dir, gruid.Point{}) > 1 {
		return false
	}
	if !c.Has(StatusEntranced) {
		switch {
		case c.Has(StatusConfused):
			if d, ok := w.randValidDirection(c, false); ok {
				dir = d
			}
		case c.Info.Flags.Any(MonstFlits) && !c.Bookkeeping.Any(MBSeizing) && w.rand.RandPercent(33):
			if d, ok := w.randValidDirection(c, true); ok {
				dir = d
			}
		}
	}
	to := c.P.Add(dir)
	if !inMap(to) {
		return false
	}
	if c.Info.Flags.Any(MonstRestrictedToLiquid) && !w.Map.HasTerrainFlag(to, TAllowsSubmerging) {
		return false
	}
	defender := w.CreatureAt(to)
	if c.Has(StatusStuck) && defender == nil && w.Map.HasTerrainFlag(c.P, TEntangles) &&
		!c.Info.Flags.Any(MonstImmuneToWebs) {
		c.Status[StatusStuck]--
		if c.Status[StatusStuck] > 0 && !c.Info.Flags.Any(MonstInvulnerable) {
			if w.CanSeeCreature(c) {
				w.Logf("%s struggles against the web.", c.Name())
			}
			w.spend(c, c.MovementDuration)
			return true
		}
		c.ClearStatus(StatusStuck)
		if l := w.Map.LayerWithFlag(c.P, TEntangles); l >= 0 {
			w.Map.ClearLayer(c.P, l)
		}
	}
	if defender != nil {
		return w.moveIntoCreature(c, defender, to)
	}
	if w.Map.HasTerrainFlag(to, TObstructsPassability) || w.Map.DiagonalBlocked(c.P, to) {
		return false
	}
	if w.struggles(c) {
		return true
	}
	w.releaseSeized(c)
	w.SetCreatureLocation(c, to)
	w.spend(c, c.MovementDuration)
	return true
}

// moveIntoCreature handles a move of c into the cell of another creature.
func (w *World) moveIntoCreature(c, defender *Creature, to gruid.Point) bool {
	if w.Map.DiagonalBlocked(c.P, to) {
		return false
	}
	hostile := w.MonstersAreEnemies(c, defender) ||
		c.Has(StatusConfused) && !w.canPass(c, defender) && !defender.Bookkeeping.Any(MBCaptive)
	if hostile {
		if defender.Bookkeeping.Any(MBSubmerged) && !c.Bookkeeping.Any(MBSubmerged) {
			// cannot reach what hides under the surface
			return false
		}
		if d, ok := w.MonsterSwarmDirection(c, defender); ok {
			w.SetCreatureLocation(c, c.P.Add(d))
			w.spend(c, c.MovementDuration)
			return true
		}
		w.Attack(c, defender)
		w.spend(c, c.AttackDuration)
		return true
	}
	if w.Map.HasTerrainFlag(to, TObstructsPassability) || !w.canPass(c, defender) {
		return false
	}
	if w.struggles(c) {
		return true
	}
	if !w.swapWith(c, defender) {
		return false
	}
	w.spend(c, c.MovementDuration)
	return true
}

// swapWith exchanges the places of c and the passable teammate defender. A
// teammate that would not stand in the cell of c is moved to the nearest
// cell it accepts instead. It reports whether the move happened.
func (w *World) swapWith(c, defender *Creature) bool {
	from, to := c.P, defender.P
	if !w.WouldAvoid(defender, from) {
		w.swapLocations(c, defender)
		return true
	}
	q := w.NearestQualifyingCell(to, func(p gruid.Point) bool {
		return p != from && !w.WouldAvoid(defender, p)
	})
	if q == InvalidPos {
		return false
	}
	w.SetCreatureLocation(defender, q)
	if w.Map.occupant(to) != NoID {
		return false
	}
	w.SetCreatureLocation(c, to)
	return true
}

// struggles reports whether c is held by an adjacent seizing creature, in
// which case it spends its turn struggling.
func (w *World) struggles(c *Creature) bool {
	if !c.Bookkeeping.Any(MBSeized) {
		return false
	}
	for _, d := range dirs8 {
		o := w.CreatureAt(c.P.Add(d))
		if o != nil && o.Bookkeeping.Any(MBSeizing) && w.MonstersAreEnemies(c, o) {
			if c.IsPlayer() {
				w.LogfStyled("You struggle but %s is holding your legs!", LogHurtPlayer, o.Name())
			}
			w.spend(c, c.MovementDuration)
			return true
		}
	}
	c.Bookkeeping &^= MBSeized
	return false
}

// releaseSeized ends any hold of c on adjacent creatures.
func (w *World) releaseSeized(c *Creature) {
	if !c.Bookkeeping.Any(MBSeizing) {
		return
	}
	c.Bookkeeping &^= MBSeizing
	for _, d := range dirs8 {
		if o := w.CreatureAt(c.P.Add(d)); o != nil {
			o.Bookkeeping &^= MBSeized
		}
	}
}

// MoveMonsterPassivelyTowards makes c step toward target, trying the direct
// step first and then the single-axis and sidestep alternatives. Creatures
// not hunting sometimes prefer a straight step when the target lies mostly
// along one axis. It reports whether c acted.
func (w *World) MoveMonsterPassivelyTowards(c *Creature, target gruid.Point, willingToAttackPlayer bool) bool {
	x, y := c.P.X, c.P.Y
	delta := target.Sub(c.P)
	dx, dy := signum(delta.X), signum(delta.Y)
	if dx == 0 && dy == 0 {
		return false
	}
	if !inMap(gruid.Point{X: x + dx, Y: y + dy}) {
		return false
	}
	try := func(q gruid.Point) bool {
		if !inMap(q) || w.WouldAvoid(c, q) {
			return false
		}
		if !willingToAttackPlayer && w.Map.HasCellFlag(q, HasPlayer) {
			return false
		}
		return w.MoveMonster(c, q.Sub(c.P))
	}
	ax, ay := abs(delta.X), abs(delta.Y)
	if c.State != TrackingScent && dx != 0 && dy != 0 {
		switch {
		case ax > ay && w.rand.RandRange(0, ax) > ay:
			if try(gruid.Point{X: x + dx, Y: y}) {
				return true
			}
		case ax < ay && w.rand.RandRange(0, ay) > ax:
			if try(gruid.Point{X: x, Y: y + dy}) {
				return true
			}
		}
	}
	if try(gruid.Point{X: x + dx, Y: y + dy}) {
		return true
	}
	var alts [4]gruid.Point
	switch {
	case dx != 0 && dy != 0:
		alts = [4]gruid.Point{{X: x + dx, Y: y}, {X: x, Y: y + dy}, {X: x - dx, Y: y + dy}, {X: x + dx, Y: y - dy}}
	case dy == 0:
		alts = [4]gruid.Point{{X: x + dx, Y: y - 1}, {X: x + dx, Y: y + 1}, {X: x, Y: y - 1}, {X: x, Y: y + 1}}
	default:
		alts = [4]gruid.Point{{X: x - 1, Y: y + dy}, {X: x + 1, Y: y + dy}, {X: x - 1, Y: y}, {X: x + 1, Y: y}}
	}
	// No preference between the two sides.
	for i := 0; i < 4; i += 2 {
		if w.rand.IntN(2) == 0 {
			alts[i], alts[i+1] = alts[i+1], alts[i]
		}
	}
	for _, q := range alts {
		if try(q) {
			return true
		}
	}
	return false
}

// MonsterSwarmDirection returns a direction where c could step to flank
// enemy, leaving its current frontal slot to a teammate that is adjacent to c,
// not already adjacent to enemy, with no other way to reach enemy and not
// already engaged by another enemy. Equivalent candidate cells are tried in
// random order.
func (w *World) MonsterSwarmDirection(c, enemy *Creature) (gruid.Point, bool) {
	if c.IsPlayer() || c.State != TrackingScent {
		return gruid.Point{}, false
	}
	adjacent := func(a, b gruid.Point) bool {
		return paths.DistanceChebyshev(a, b) == 1 && !w.Map.DiagonalBlocked(a, b)
	}
	if !adjacent(c.P, enemy.P) || enemy.Info.Flags.Any(MonstAttackableThruWalls) {
		return gruid.Point{}, false
	}
	dirs := dirs8
	w.rand.Shuffle(len(dirs), func(i, j int) { dirs[i], dirs[j] = dirs[j], dirs[i] })
	for _, d := range dirs {
		q := c.P.Add(d)
		if !inMap(q) || paths.DistanceChebyshev(q, enemy.P) != 1 || w.Map.occupant(q) != NoID ||
			w.Map.DiagonalBlocked(c.P, q) || w.Map.DiagonalBlocked(enemy.P, q) ||
			w.Map.HasTerrainFlag(q, TObstructsPassability) || w.WouldAvoid(c, q) {
			continue
		}
		for ally := range w.Arena.Living() {
			if ally.ID == c.ID || ally.ID == enemy.ID || !w.Teammates(c, ally) || !w.MonstersAreEnemies(ally, enemy) {
				continue
			}
			if !adjacent(c.P, ally.P) || w.WouldAvoid(ally, c.P) || adjacent(enemy.P, ally.P) {
				continue
			}
			if !w.hasAlternateFlank(ally, enemy) && !w.engaged(ally, c) {
				return d, true
			}
		}
	}
	return gruid.Point{}, false
}

// hasAlternateFlank reports whether ally could reach enemy through another
// free cell.
func (w *World) hasAlternateFlank(ally, enemy *Creature) bool {
	for _, d := range dirs8 {
		q := ally.P.Add(d)
		if inMap(q) && w.Map.occupant(q) == NoID && paths.DistanceChebyshev(q, enemy.P) == 1 &&
			!w.Map.DiagonalBlocked(enemy.P, q) && !w.Map.DiagonalBlocked(ally.P, q) && !w.WouldAvoid(ally, q) {
			return true
		}
	}
	return false
}

// engaged reports whether ally is already fighting an adjacent enemy other
// than the swarming creature.
func (w *World) engaged(ally, swarmer *Creature) bool {
	for o := range w.Arena.Living() {
		if o.ID == ally.ID || o.ID == swarmer.ID {
			continue
		}
		if paths.DistanceChebyshev(o.P, ally.P) == 1 && !w.Map.DiagonalBlocked(o.P, ally.P) &&
			w.MonstersAreEnemies(ally, o) {
			return true
		}
	}
	return false
}

// PlayerMove makes the player move or attack in a direction. It reports
// whether a turn was spent.
func (w *World) PlayerMove(dir gruid.Point) bool {
	pl := w.PlayerCreature()
	if pl == nil || pl.IsDying() {
		return false
	}
	if pl.Has(StatusConfused) {
		if d, ok := w.randValidDirection(pl, false); ok && w.rand.RandPercent(50) {
			dir = d
		}
	}
	to := pl.P.Add(dir)
	if !inMap(to) || dir == (gruid.Point{}) {
		return false
	}
	if o := w.CreatureAt(to); o != nil {
		switch {
		case o.Bookkeeping.Any(MBCaptive):
			w.LogfStyled("You free %s.", LogNotable, o.Name())
			w.BecomeAllyWith(o)
			w.spend(pl, pl.MovementDuration)
			return true
		case w.MonstersAreEnemies(pl, o):
			if w.Map.DiagonalBlocked(pl.P, to) {
				return false
			}
			w.Attack(pl, o)
			w.spend(pl, pl.AttackDuration)
			return true
		default:
			if w.Map.HasTerrainFlag(to, TObstructsPassability) || w.Map.DiagonalBlocked(pl.P, to) ||
				!w.canPass(pl, o) {
				return false
			}
			if w.struggles(pl) {
				return true
			}
			if !w.swapWith(pl, o) {
				return false
			}
			w.spend(pl, pl.MovementDuration)
			return true
		}
	}
	if w.Map.HasTerrainFlag(to, TObstructsPassability) || w.Map.DiagonalBlocked(pl.P, to) {
		return false
	}
	if pl.Has(StatusStuck) && w.Map.HasTerrainFlag(pl.P, TEntangles) {
		pl.Status[StatusStuck]--
		if pl.Status[StatusStuck] > 0 {
			w.Log("You struggle against the web.")
			w.spend(pl, pl.MovementDuration)
			return true
		}
		pl.ClearStatus(StatusStuck)
		if l := w.Map.LayerWithFlag(pl.P, TEntangles); l >= 0 {
			w.Map.ClearLayer(pl.P, l)
		}
		w.Log("You break free of the web.")
	}
	if w.struggles(pl) {
		return true
	}
	w.releaseSeized(pl)
	w.SetCreatureLocation(pl, to)
	if it := w.PickUpItem(to); it != nil {
		w.Player.Pack = append(w.Player.Pack, it)
		w.LogfStyled("You now have %s.", LogNotable, it)
	}
	w.spend(pl, pl.MovementDuration)
	return true
}

package brogue

import (
	"slices"

	"codeberg.org/anaseto/gruid"
	"codeberg.org/anaseto/gruid/paths"
)

// unreachable is the maximal cost of breadth first searches spanning the
// whole level.
const unreachable = DCOLS * DROWS

// MapPath implements the paths.Pather interface with eight-directional
// moves through cells accepted by passable.
type MapPath struct {
	passable func(gruid.Point) bool
	nbs      paths.Neighbors
}

func (mp *MapPath) Neighbors(p gruid.Point) []gruid.Point {
	return mp.nbs.All(p, mp.passable)
}

// computeWaypoints returns wander destinations: cells of a coarse lattice,
// each moved to the nearest cell where creatures may stand.
func (m *Map) computeWaypoints() []gruid.Point {
	const maxWaypoints = 64
	pr := paths.NewPathRange(gruid.NewRange(0, 0, DCOLS, DROWS))
	mp := &MapPath{passable: inMap}
	standable := func(p gruid.Point) bool {
		return m.Passable(p) && !m.HasTerrainFlag(p, TPathingBlocker|THarmfulTerrain|TIsStairs)
	}
	var wps []gruid.Point
	for y := 3; y < DROWS; y += 7 {
		for x := 5; x < DCOLS; x += 10 {
			best, bestCost := InvalidPos, unreachable
			for _, n := range pr.BreadthFirstMap(mp, []gruid.Point{{X: x, Y: y}}, 4) {
				if n.Cost < bestCost && standable(n.P) {
					best, bestCost = n.P, n.Cost
				}
			}
			if best != InvalidPos && !slices.Contains(wps, best) {
				wps = append(wps, best)
			}
			if len(wps) == maxWaypoints {
				return wps
			}
		}
	}
	return wps
}

// monPath implements paths.Astar for monster travel.
type monPath struct {
	w      *World
	c      *Creature
	target gruid.Point
	nbs    paths.Neighbors
}

func (mp *monPath) Neighbors(p gruid.Point) []gruid.Point {
	w := mp.w
	nbs := mp.nbs.All(p, func(q gruid.Point) bool {
		if q == mp.target {
			return inMap(q)
		}
		return w.Map.Passable(q) && !w.WouldAvoid(mp.c, q)
	})
	nbs = slices.DeleteFunc(nbs, func(q gruid.Point) bool {
		return w.Map.DiagonalBlocked(p, q)
	})
	// Shuffle so that monster movement is not unnaturally predictable.
	w.rand.Shuffle(len(nbs), func(i, j int) { nbs[i], nbs[j] = nbs[j], nbs[i] })
	return nbs
}

func (mp *monPath) Cost(from, to gruid.Point) int {
	if o := mp.w.Map.occupant(to); o != NoID && o != mp.c.ID && to != mp.target {
		return 5
	}
	return 1
}

func (mp *monPath) Estimation(from, to gruid.Point) int {
	return paths.DistanceChebyshev(from, to)
}

// TravelPath returns a path for c to the given cell, starting with the
// current position of c, or nil if there is none.
func (w *World) TravelPath(c *Creature, to gruid.Point) []gruid.Point {
	if !inMap(to) || to == c.P {
		return nil
	}
	mp := &monPath{w: w, c: c, target: to}
	return w.PR.AstarPath(mp, c.P, to)
}

// TravelTowards makes c take one step along a path toward the given cell,
// falling back to a direct approach when no path exists. It reports whether
// c acted.
func (w *World) TravelTowards(c *Creature, to gruid.Point) bool {
	if len(c.Path) < 2 || c.Path[0] != c.P || c.Path[len(c.Path)-1] != to ||
		w.Map.occupant(c.Path[1]) != NoID && c.Path[1] != to {
		c.Path = w.TravelPath(c, to)
	}
	if len(c.Path) < 2 {
		c.Path = nil
		return w.MoveMonsterPassivelyTowards(c, to, c.State != Ally)
	}
	next := c.Path[1]
	if !w.MoveMonster(c, next.Sub(c.P)) {
		c.Path = nil
		return false
	}
	if c.P == next {
		c.Path = c.Path[1:]
	}
	return true
}

// NearestQualifyingCell returns the cell closest to from, in steps through
// passable cells, that is not occupied and satisfies ok. It returns
// InvalidPos if there is no such cell.
func (w *World) NearestQualifyingCell(from gruid.Point, ok func(gruid.Point) bool) gruid.Point {
	mp := &MapPath{passable: func(p gruid.Point) bool {
		return p == from || w.Map.Passable(p)
	}}
	best, bestCost := InvalidPos, unreachable+1
	for _, n := range w.PR.BreadthFirstMap(mp, []gruid.Point{from}, unreachable) {
		if n.Cost >= bestCost || !w.Map.Passable(n.P) || w.Map.occupant(n.P) != NoID || !ok(n.P) {
			continue
		}
		best, bestCost = n.P, n.Cost
	}
	return best
}

// NearestFreeCell returns the free cell closest to from that c would not
// avoid, or InvalidPos.
func (w *World) NearestFreeCell(from gruid.Point, c *Creature) gruid.Point {
	return w.NearestQualifyingCell(from, func(p gruid.Point) bool {
		return !w.Map.HasTerrainFlag(p, TIsStairs) && (c == nil || !w.WouldAvoid(c, p))
	})
}

// RandomFreeCell returns a random free cell that c would not avoid, at
// least minDist cells away from c, or InvalidPos if none exists.
func (w *World) RandomFreeCell(c *Creature, minDist int) gruid.Point {
	var candidates []gruid.Point
	for p := range w.Map.Layers[LayerDungeon].All() {
		if !w.Map.Passable(p) || w.Map.occupant(p) != NoID || w.WouldAvoid(c, p) {
			continue
		}
		if paths.DistanceChebyshev(p, c.P) < minDist {
			continue
		}
		candidates = append(candidates, p)
	}
	if len(candidates) == 0 {
		return InvalidPos
	}
	return candidates[w.rand.IntN(len(candidates))]
}

// fleeStep returns the adjacent cell that takes c farthest from the given
// threats, or InvalidPos if c cannot get any farther.
func (w *World) fleeStep(c *Creature, threats []gruid.Point) gruid.Point {
	if len(threats) == 0 {
		return InvalidPos
	}
	mp := &MapPath{passable: func(p gruid.Point) bool {
		return w.Map.Passable(p) && (p == c.P || !w.WouldAvoid(c, p))
	}}
	const maxCost = 3 * DCOLS
	w.PR.BreadthFirstMap(mp, threats, maxCost)
	safety := func(p gruid.Point) int {
		d := w.PR.BreadthFirstMapAt(p)
		if d > maxCost {
			return maxCost
		}
		return d
	}
	best, bestSafety := InvalidPos, safety(c.P)
	for _, d := range dirs8 {
		q := c.P.Add(d)
		if !w.canStepInto(c, q) {
			continue
		}
		if s := safety(q); s > bestSafety {
			best, bestSafety = q, s
		}
	}
	return best
}

// canStepInto reports whether c could move into the adjacent cell q
// without attacking.
func (w *World) canStepInto(c *Creature, q gruid.Point) bool {
	if !w.Map.Passable(q) || w.Map.DiagonalBlocked(c.P, q) || w.WouldAvoid(c, q) {
		return false
	}
	if o := w.CreatureAt(q); o != nil && !w.canPass(c, o) {
		return false
	}
	return true
}

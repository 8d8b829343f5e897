package brogue

import (
	"codeberg.org/anaseto/gruid"
)

// fixed point arithmetic for line computations
const (
	fpBase   = 16
	fpFactor = 1 << fpBase
)

// ComputeLine returns the cells of the ray from origin through target,
// continued until it leaves the map. The origin is not part of the line. The
// longer axis advances by exactly one cell per step, while the sub-unit slope
// of the shorter axis accumulates as an error term rounded at one half, so
// that the line is symmetric and always passes through target. The line is
// empty if origin equals target.
func ComputeLine(origin, target gruid.Point) []gruid.Point {
	if origin == target {
		return nil
	}
	var vec, quadrant [2]int
	delta := [2]int{target.X - origin.X, target.Y - origin.Y}
	for i := range 2 {
		vec[i] = delta[i] * fpFactor
		quadrant[i] = 1
		if vec[i] < 0 {
			vec[i] = -vec[i]
			quadrant[i] = -1
		}
	}
	larger := max(vec[0], vec[1])
	// normalize: the larger component becomes one, the other is in [0,1]
	for i := range 2 {
		vec[i] = vec[i] * fpFactor / larger
	}
	var cur, errs [2]int
	var line []gruid.Point
	for {
		for i := range 2 {
			if vec[i] == fpFactor {
				cur[i]++
				continue
			}
			errs[i] += vec[i]
			if errs[i] >= fpFactor/2 {
				cur[i]++
				errs[i] -= fpFactor
			}
		}
		p := gruid.Point{X: origin.X + quadrant[0]*cur[0], Y: origin.Y + quadrant[1]*cur[1]}
		if !inMap(p) {
			break
		}
		line = append(line, p)
	}
	return line
}

// ComputeImpact returns the cell where a projectile thrown from origin
// toward target would land: the first cell along the line that obstructs
// passability or vision, or that holds a creature visible from origin, or
// the last cell allowed by maxDistance. If preferLastEmpty is true and the
// projectile was stopped by an obstacle, the cell just before is returned
// instead (the origin if the obstacle is adjacent).
func (w *World) ComputeImpact(origin, target gruid.Point, maxDistance int, preferLastEmpty bool) gruid.Point {
	line := ComputeLine(origin, target)
	n := min(len(line), maxDistance)
	if n <= 0 {
		return origin
	}
	viewer := w.CreatureAt(origin)
	i := 0
	for ; i < n; i++ {
		p := line[i]
		if c := w.CreatureAt(p); c != nil && !w.creatureHiddenFrom(c, viewer) && !c.Bookkeeping.Any(MBSubmerged) {
			break
		}
		if w.Map.HasTerrainFlag(p, TObstructsPassability|TObstructsVision) {
			break
		}
	}
	switch {
	case i == n:
		return line[n-1]
	case preferLastEmpty && i == 0:
		return origin
	case preferLastEmpty:
		return line[i-1]
	default:
		return line[i]
	}
}

// creatureHiddenFrom reports whether c cannot be perceived by the viewer
// (which may be nil): invisible non-allied creatures are hidden.
func (w *World) creatureHiddenFrom(c, viewer *Creature) bool {
	if c.Status[StatusInvisible] <= 0 {
		return false
	}
	if viewer != nil && w.Teammates(c, viewer) {
		return false
	}
	return true
}

// perimeterCoords returns the n-th point (0 <= n < 40) of the ring of radius
// 5 around the origin used to pick random reflection targets.
func perimeterCoords(n int) gruid.Point {
	switch {
	case n <= 10:
		return gruid.Point{X: n - 5, Y: -5} // top edge, left to right
	case n <= 21:
		return gruid.Point{X: n - 16, Y: 5} // bottom edge, left to right
	case n <= 30:
		return gruid.Point{X: -5, Y: n - 26} // left edge, top to bottom
	default:
		return gruid.Point{X: 5, Y: n - 35} // right edge, top to bottom
	}
}

// reflectionRetries bounds attempts at finding a non obstructed random
// reflection.
const reflectionRetries = 50

// ReflectPath returns a new bolt path where the bolt bounces at path[kink].
// The prefix path[:kink+1] is kept. If retrace is true, the continuation
// mirrors the incoming path back toward its origin and then extends it
// beyond; otherwise it follows a line toward a random target on the
// perimeter ring around the kink cell, retried a bounded number of times if
// the new line obstructs immediately. The result never exceeds
// MaxBoltLength cells.
func (w *World) ReflectPath(origin gruid.Point, path []gruid.Point, kink int, retrace bool) []gruid.Point {
	if kink < 0 || kink >= len(path) {
		return path
	}
	at := path[kink]
	prefix := make([]gruid.Point, kink+1, MaxBoltLength)
	copy(prefix, path[:kink+1])
	var tail []gruid.Point
	if retrace {
		for k := kink - 1; k >= 0; k-- {
			tail = append(tail, path[k])
		}
		tail = append(tail, origin)
		// keep going in the same direction past the origin
		ext := ComputeLine(at, origin)
		for i, p := range ext {
			if p == origin {
				tail = append(tail, ext[i+1:]...)
				break
			}
		}
	} else {
		for range reflectionRetries {
			t := at.Add(perimeterCoords(w.rand.IntN(40)))
			tail = ComputeLine(at, t)
			if len(tail) > 0 && !w.Map.HasTerrainFlag(tail[0], TObstructsPassability|TObstructsVision) {
				break
			}
		}
	}
	res := append(prefix, tail...)
	if len(res) > MaxBoltLength {
		res = res[:MaxBoltLength]
	}
	return res
}

package brogue

import (
	"math"

	"codeberg.org/anaseto/gruid"
)

const (
	maxScentAge       = 1000  // scent older than this is as good as none
	maxAwareness      = 10000 // upper bound of perceived distances
	invisibleBonus    = 10
	darknessBonus     = 5
	sleepingBonus     = 3
	awarenessMultiple = 3 // awareness threshold, in scent thresholds
)

// scentDistance is the scent decay between two cells: diagonal steps count
// for a bit more than orthogonal ones.
func scentDistance(a, b gruid.Point) int {
	d := a.Sub(b)
	dx, dy := abs(d.X), abs(d.Y)
	return 2*max(dx, dy) + min(dx, dy)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// dirs8 lists the eight directions, orthogonal ones first.
var dirs8 = [8]gruid.Point{
	{X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0},
	{X: -1, Y: -1}, {X: -1, Y: 1}, {X: 1, Y: -1}, {X: 1, Y: 1},
}

// UpdateScent lays fresh player scent over the cells within reach, keeping
// for each cell the freshest value.
func (w *World) UpdateScent() {
	pp := w.PP()
	if !inMap(pp) {
		return
	}
	passable := func(p gruid.Point) bool {
		return !w.Map.HasTerrainFlag(p, TObstructsPassability)
	}
	for _, p := range w.scentFOV.SSCVisionMap(pp, DCOLS, passable, true) {
		w.addScent(p, scentDistance(pp, p))
	}
	w.addScent(pp, 0)
}

func (w *World) addScent(p gruid.Point, d int) {
	if w.Map.HasTerrainFlag(p, TObstructsPassability) {
		return
	}
	v := w.ScentTurn - d
	if v > w.Scent.At(p) {
		w.Scent.Set(p, v)
	}
}

// AwarenessDistance returns how far target seems to observer. The result
// grows with stealth bonuses: invisibility, darkness, a sleeping observer,
// the player's stealth, resting and shadows.
func (w *World) AwarenessDistance(obs, tgt *Creature) int {
	var d int
	if w.sensesDirectly(obs) && (tgt.IsPlayer() && w.InFOV(obs.P) ||
		!tgt.IsPlayer() && w.OpenPathBetween(obs.P, tgt.P)) {
		d = scentDistance(obs.P, tgt.P)
	} else {
		d = w.ScentTurn - w.Scent.At(obs.P)
		if d < 0 || w.Scent.At(obs.P) == 0 {
			d = maxScentAge
		}
	}
	d = min(d, maxScentAge)
	bonus := 0
	if tgt.Has(StatusInvisible) {
		bonus += invisibleBonus
	}
	if w.Light.Darkness(tgt.P) >= darkThreshold {
		bonus += darknessBonus
	}
	if obs.State == Sleeping {
		bonus += sleepingBonus
	}
	if tgt.IsPlayer() {
		bonus += w.Player.StealthBonus
	}
	fd := float64(d) * math.Pow(1.1, float64(bonus))
	if tgt.IsPlayer() && w.Player.JustRested {
		fd *= 2
	}
	if w.Map.HasCellFlag(tgt.P, InShadow) {
		fd *= 2
	}
	return int(min(max(fd, 0), maxAwareness))
}

// sensesDirectly reports whether obs perceives its surroundings without
// relying on scent: flyers, swimmers and web weavers.
func (w *World) sensesDirectly(obs *Creature) bool {
	return obs.Flies() || obs.Info.Flags.Any(MonstRestrictedToLiquid) ||
		obs.Bookkeeping.Any(MBSubmerged) ||
		obs.Info.Flags.Any(MonstImmuneToWebs) && obs.hasBolt(BoltSpiderweb)
}

// AwareOfTarget reports whether obs notices tgt this turn. Creatures already
// tracking stay aware while the target is within range. Otherwise, the
// chance of noticing is 1/(d+1) for a perceived distance d.
func (w *World) AwareOfTarget(obs, tgt *Creature) bool {
	d := w.AwarenessDistance(obs, tgt)
	if d > awarenessMultiple*obs.Info.ScentThreshold {
		return false
	}
	if obs.State == TrackingScent {
		return true
	}
	if tgt.IsPlayer() && !w.InFOV(obs.P) {
		return false
	}
	return w.rand.RandRange(0, d) == 0
}

// ScentDirection returns the direction of the freshest adjacent scent that c
// can follow. If c is stuck, the scent around it is refreshed once from the
// cells two steps away before giving up, unless c already lost the trail
// since it last noticed the player.
func (w *World) ScentDirection(c *Creature) (gruid.Point, bool) {
	for retry := !c.Bookkeeping.Any(MBGivenUpOnScent); ; retry = false {
		best, bestDir := 0, gruid.Point{}
		for _, d := range dirs8 {
			q := c.P.Add(d)
			if !inMap(q) || w.Scent.At(q) <= best {
				continue
			}
			if o := w.CreatureAt(q); o != nil && !o.IsPlayer() && !w.canPass(c, o) {
				continue
			}
			if w.Map.HasTerrainFlag(q, TObstructsPassability) || w.Map.DiagonalBlocked(c.P, q) ||
				w.WouldAvoid(c, q) {
				continue
			}
			best, bestDir = w.Scent.At(q), d
		}
		if best > 0 && best > w.Scent.At(c.P) {
			return bestDir, true
		}
		if !retry {
			return gruid.Point{}, false
		}
		w.refreshScentAround(c.P)
	}
}

// refreshScentAround relaxes the scent of the neighbors of p from their own
// neighbors, repairing trails broken by terrain changes.
func (w *World) refreshScentAround(p gruid.Point) {
	for _, d := range dirs8 {
		q := p.Add(d)
		if !inMap(q) || w.Map.HasTerrainFlag(q, TObstructsPassability) {
			continue
		}
		v := w.Scent.At(q)
		for _, d2 := range dirs8 {
			r := q.Add(d2)
			if inMap(r) {
				v = max(v, w.Scent.At(r)-1)
			}
		}
		w.Scent.Set(q, v)
	}
}

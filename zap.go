package brogue

import (
	"codeberg.org/anaseto/gruid"
	"github.com/sirupsen/logrus"
)

// Bolt describes a bolt being cast.
type Bolt struct {
	Type   BoltType
	Origin gruid.Point
	Target gruid.Point
	Level  int
	Caster ID // NoID for bolts without a caster (traps)
}

// ZapReport describes the outcome of a bolt.
type ZapReport struct {
	AutoID      bool          // the effect was noticeable enough to identify the bolt
	Path        []gruid.Point // cells traversed by the bolt, in order
	Reflections int           // number of times the bolt bounced
	Stop        gruid.Point   // cell where the bolt stopped
	Hit         []ID          // creatures hit, in order
	Length      int           // light length of the bolt, for drawing
}

// zapState holds the state of a bolt during its resolution.
type zapState struct {
	Bolt
	spec   *boltSpec
	caster *Creature // may be nil or dead
	hide   bool      // do not reveal the nature of the bolt
	level  int       // remaining power, for tunneling
	report ZapReport
}

// Zap casts a bolt from origin toward target. It reports whether the effect
// should identify the bolt's source.
func (w *World) Zap(origin, target gruid.Point, bt BoltType, level int, hideDetails bool) bool {
	caster := NoID
	if c := w.CreatureAt(origin); c != nil {
		caster = c.ID
	}
	b := Bolt{Type: bt, Origin: origin, Target: target, Level: level, Caster: caster}
	return w.ZapBolt(b, hideDetails).AutoID
}

// ZapBolt resolves a bolt cell by cell along its path: reflections off
// creatures, early stops, piercing, tunneling and fire, then the effect of
// the bolt where it lands. Resolution stops at once if the player dies.
func (w *World) ZapBolt(b Bolt, hideDetails bool) ZapReport {
	if !w.invariant(b.Origin != b.Target, "bolt aimed at its own origin",
		logrus.Fields{"bolt": b.Type, "pos": b.Origin}) {
		return ZapReport{Stop: b.Origin}
	}
	if !w.invariant(b.Type >= 0 && b.Type < NBoltTypes, "unknown bolt type", logrus.Fields{"bolt": int(b.Type)}) {
		return ZapReport{Stop: b.Origin}
	}
	z := &zapState{
		Bolt:   b,
		spec:   &boltCatalog[b.Type],
		caster: w.Arena.Get(b.Caster),
		hide:   hideDetails,
		level:  b.Level,
	}
	if z.caster != nil && z.caster.P != b.Origin {
		z.caster = nil
	}
	z.report.Length = 5 * b.Level
	z.report.Stop = b.Origin
	path := ComputeLine(b.Origin, b.Target)
	if len(path) > MaxBoltLength {
		path = path[:MaxBoltLength]
	}
	blinking := b.Type == BoltBlinking
	if blinking {
		if z.caster == nil || len(path) == 0 || !w.Map.Passable(path[0]) || w.CreatureAt(path[0]) != nil {
			// no room to blink
			return z.report
		}
		path = path[:min(len(path), staffBlinkDistance(b.Level))]
		w.unplace(z.caster)
	}
	w.traverse(z, path)
	if blinking {
		w.landBlink(z)
	}
	if w.GameOver {
		return z.report
	}
	if z.spec.Land != nil && z.spec.Land(w, z) {
		z.report.AutoID = true
	}
	return z.report
}

// traverse moves the bolt along its path until it stops.
func (w *World) traverse(z *zapState, path []gruid.Point) {
	reflected := false
	segOrigin := z.Origin
	prev := z.Origin
	for i := 0; i < len(path) && i < MaxBoltLength; i++ {
		p := path[i]
		c := w.CreatureAt(p)
		if c != nil && z.spec.Flags&boltPassesThruCreatures == 0 && z.report.Reflections < w.Config.MaxReflect &&
			w.willReflect(c, z.Type) {
			// the first reflection sends the bolt back at its caster
			retrace := !reflected && z.caster != nil && !z.caster.IsDying()
			path = w.ReflectPath(segOrigin, path, i, retrace)
			reflected = true
			segOrigin = p
			z.report.Reflections++
			z.report.Path = append(z.report.Path, p)
			w.logReflection(z, c)
			prev = p
			continue
		}
		blocked := w.Map.HasTerrainFlag(p, TObstructsPassability|TObstructsVision)
		if z.spec.Flags&boltTunnels != 0 && blocked {
			if w.Map.HasCellFlag(p, Impregnable) {
				if i == 0 || z.report.Reflections >= w.Config.MaxReflect {
					break
				}
				// bounce off the impregnable wall
				path = w.ReflectPath(segOrigin, path, i-1, false)
				segOrigin = path[i-1]
				z.report.Reflections++
				i--
				continue
			}
			w.tunnelize(p, p.Sub(prev))
			z.report.Path = append(z.report.Path, p)
			z.report.AutoID = true
			prev = p
			z.level--
			if z.level <= 0 {
				break
			}
			continue
		}
		hitsCreature := c != nil && !c.Bookkeeping.Any(MBSubmerged) && z.spec.Flags&boltPassesThruCreatures == 0
		if z.spec.Flags&boltHaltsBefore != 0 && (blocked || hitsCreature) {
			break
		}
		if z.spec.Flags&boltFiery != 0 {
			w.ignite(p)
			if w.GameOver {
				z.report.Stop = p
				return
			}
		}
		if blocked {
			break
		}
		z.report.Path = append(z.report.Path, p)
		prev = p
		if hitsCreature {
			z.report.Hit = append(z.report.Hit, c.ID)
			if z.spec.Hit != nil && z.spec.Hit(w, z, c) {
				z.report.AutoID = true
			}
			w.provoke(z, c)
			if w.GameOver {
				z.report.Stop = p
				return
			}
			if z.spec.Flags&boltPierces == 0 {
				break
			}
		}
	}
	z.report.Stop = prev
}

func (w *World) logReflection(z *zapState, c *Creature) {
	if !w.CanSeeCreature(c) {
		return
	}
	name := "the bolt"
	if !z.hide {
		name = z.spec.Description
	}
	if c.IsPlayer() {
		w.LogfStyled("Your armor reflects %s!", LogNotable, name)
		return
	}
	w.Logf("%s reflects %s!", c.Name(), name)
}

// provoke wakes up a creature hit by a hostile bolt.
func (w *World) provoke(z *zapState, c *Creature) {
	if z.spec.Flags&boltHostile == 0 || c.IsDying() || c.IsPlayer() {
		return
	}
	if c.State == Sleeping {
		w.WakeUp(c)
	}
}

// landBlink puts back a blinking caster at the cell where its bolt stopped.
func (w *World) landBlink(z *zapState) {
	c := z.caster
	dest := z.report.Stop
	if w.Map.occupant(dest) != NoID || !w.Map.Passable(dest) {
		dest = z.Origin
	}
	if w.Map.occupant(dest) != NoID {
		dest = w.NearestFreeCell(z.Origin, c)
	}
	if !w.invariant(dest != InvalidPos, "no cell to land a blink", logrus.Fields{"id": c.ID}) {
		w.KillCreature(c, true)
		return
	}
	w.place(c, dest)
	c.Path = nil
	if c.IsPlayer() {
		w.UpdateVision()
	}
	w.settle(c)
	z.report.AutoID = dest != z.Origin
	if z.report.AutoID && w.CanSeeCreature(c) && !c.IsPlayer() {
		w.Logf("%s blinks.", c.Name())
	}
}

// tunnelize dissolves the obstructing layers at p, reached by a bolt moving
// in direction dir, and sometimes at one lateral neighbor.
func (w *World) tunnelize(p, dir gruid.Point) {
	w.dissolve(p)
	if !w.rand.RandPercent(50) {
		return
	}
	sides := lateralCells(p, dir)
	if q := sides[w.rand.IntN(2)]; inMap(q) {
		w.dissolve(q)
	}
}

// lateralCells returns the two neighbors of p on the sides of a bolt moving
// in direction dir. For diagonal moves, these are the corner cells next to
// the previous step, which open the passage for walkers.
func lateralCells(p, dir gruid.Point) [2]gruid.Point {
	dir = gruid.Point{X: signum(dir.X), Y: signum(dir.Y)}
	if dir.X != 0 && dir.Y != 0 {
		return [2]gruid.Point{p.Add(gruid.Point{X: -dir.X, Y: 0}), p.Add(gruid.Point{X: 0, Y: -dir.Y})}
	}
	return [2]gruid.Point{p.Add(gruid.Point{X: -dir.Y, Y: dir.X}), p.Add(gruid.Point{X: dir.Y, Y: -dir.X})}
}

func (w *World) dissolve(p gruid.Point) {
	if w.Map.HasCellFlag(p, Impregnable) {
		return
	}
	for l := range NLayers {
		if w.Map.Tile(p, l).Flags().Any(TObstructsPassability | TObstructsVision) {
			w.Map.ClearLayer(p, l)
			if l == LayerDungeon {
				w.Map.SetTile(p, Rubble)
			}
		}
	}
}

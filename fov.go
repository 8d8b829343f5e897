package brogue

import (
	"codeberg.org/anaseto/gruid"
)

// Lighting answers light level queries. Lighting itself is computed outside
// of the engine.
type Lighting interface {
	// Darkness returns how dark a cell is, from 0 (lit) to 100.
	Darkness(p gruid.Point) int
}

const (
	darkThreshold   = 50 // cells at least this dark hide their occupant
	shadowThreshold = 90 // deep shadow
)

// uniformLight is a lighting where every cell is lit.
type uniformLight struct{}

func (uniformLight) Darkness(gruid.Point) int { return 0 }

// DarknessGrid is a lighting backed by a map-sized grid of darkness values.
type DarknessGrid CacheGrid[int]

// NewDarknessGrid returns a fully lit darkness grid.
func NewDarknessGrid() DarknessGrid {
	return DarknessGrid(make(CacheGrid[int], DCOLS*DROWS))
}

func (dg DarknessGrid) Darkness(p gruid.Point) int {
	return CacheGrid[int](dg).At(p)
}

// Set changes the darkness of a cell.
func (dg DarknessGrid) Set(p gruid.Point, v int) {
	CacheGrid[int](dg).Set(p, v)
}

// UpdateVision recomputes the player's field of view and the shadow flags.
// It has to be called each time the player moves or terrain changes vision.
func (w *World) UpdateVision() {
	for p := range w.Map.Layers[LayerDungeon].All() {
		w.Map.clearCellFlag(p, InFOV|InShadow)
		if w.Light.Darkness(p) >= shadowThreshold {
			w.Map.setCellFlag(p, InShadow)
		}
	}
	pp := w.PP()
	if !inMap(pp) {
		return
	}
	passable := func(p gruid.Point) bool {
		return !w.Map.HasTerrainFlag(p, TObstructsVision)
	}
	for _, p := range w.fov.SSCVisionMap(pp, DCOLS, passable, true) {
		w.Map.setCellFlag(p, InFOV|Discovered)
	}
	w.Map.setCellFlag(pp, InFOV|Discovered)
}

// InFOV reports whether p is in the player's field of view.
func (w *World) InFOV(p gruid.Point) bool {
	return w.Map.HasCellFlag(p, InFOV)
}

// CanSeeCreature reports whether the player can see the given creature.
func (w *World) CanSeeCreature(c *Creature) bool {
	if c.ID == PlayerID {
		return true
	}
	if c.Bookkeeping.Any(MBSubmerged) || c.Status[StatusInvisible] > 0 && c.State != Ally {
		return false
	}
	return w.InFOV(c.P)
}

// OpenPathBetween reports whether the straight line from a to b crosses no
// cell obstructing passability before reaching b.
func (w *World) OpenPathBetween(a, b gruid.Point) bool {
	if a == b {
		return true
	}
	for _, p := range ComputeLine(a, b) {
		if p == b {
			return true
		}
		if w.Map.HasTerrainFlag(p, TObstructsPassability) {
			return false
		}
	}
	return false
}

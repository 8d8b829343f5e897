package brogue

import (
	"fmt"
	"strings"

	"codeberg.org/anaseto/gruid"
	"codeberg.org/anaseto/gruid/rl"
)

// CellFlags describes occupancy and knowledge of a cell as a bitset.
type CellFlags uint32

const (
	HasPlayer CellFlags = 1 << iota
	HasMonster
	HasItem
	Discovered
	InFOV
	InShadow
	Impregnable
	PlateDepressed
)

// Map holds the terrain and cell information of a level.
type Map struct {
	Layers    [NLayers]rl.Grid         // stacked terrain layers
	Flags     CacheGrid[CellFlags]     // per cell flags
	Items     map[gruid.Point]*Item    // floor items
	Waypoints []gruid.Point            // wander destinations
	timers    CacheGrid[[NLayers]int8] // remaining lifetime of expiring tiles
	occ       CacheGrid[ID]            // occupant ID + 1, 0 if empty
}

// NewMap returns a level filled with floor surrounded by impregnable
// granite.
func NewMap() *Map {
	m := &Map{
		Flags:  make(CacheGrid[CellFlags], DCOLS*DROWS),
		Items:  make(map[gruid.Point]*Item),
		timers: make(CacheGrid[[NLayers]int8], DCOLS*DROWS),
		occ:    make(CacheGrid[ID], DCOLS*DROWS),
	}
	for i := range m.Layers {
		m.Layers[i] = rl.NewGrid(DCOLS, DROWS)
	}
	m.Layers[LayerDungeon].Fill(rl.Cell(Floor))
	for p := range m.Layers[LayerDungeon].All() {
		if onBoundary(p) {
			m.Layers[LayerDungeon].Set(p, rl.Cell(Granite))
			m.Flags.Set(p, Impregnable)
		}
	}
	return m
}

func inMap(p gruid.Point) bool {
	return p.X >= 0 && p.X < DCOLS && p.Y >= 0 && p.Y < DROWS
}

func onBoundary(p gruid.Point) bool {
	return p.X == 0 || p.Y == 0 || p.X == DCOLS-1 || p.Y == DROWS-1
}

// Tile returns the tile at the given layer of p.
func (m *Map) Tile(p gruid.Point, l Layer) TileType {
	return TileType(m.Layers[l].At(p))
}

// SetTile puts a tile in its layer at p, replacing what was there.
func (m *Map) SetTile(p gruid.Point, t TileType) {
	if !inMap(p) {
		return
	}
	l := t.Layer()
	m.Layers[l].Set(p, rl.Cell(t))
	tm := m.timers.At(p)
	tm[l] = int8(tileCatalog[t].Lifetime)
	m.timers.Set(p, tm)
}

// ClearLayer removes the tile at the given layer of p. Clearing the dungeon
// layer leaves floor.
func (m *Map) ClearLayer(p gruid.Point, l Layer) {
	if l == LayerDungeon {
		m.SetTile(p, Floor)
		return
	}
	m.Layers[l].Set(p, rl.Cell(Nothing))
	tm := m.timers.At(p)
	tm[l] = 0
	m.timers.Set(p, tm)
}

// TerrainFlags returns the union of the flags of all the layers at p. Cells
// outside the map behave like granite.
func (m *Map) TerrainFlags(p gruid.Point) TerrainFlags {
	if !inMap(p) {
		return TObstructsEverything
	}
	var f TerrainFlags
	for l := range NLayers {
		f |= m.Tile(p, l).Flags()
	}
	return f
}

// HasTerrainFlag reports whether any layer at p has any of the flags.
func (m *Map) HasTerrainFlag(p gruid.Point, f TerrainFlags) bool {
	return m.TerrainFlags(p).Any(f)
}

// LayerWithFlag returns the first layer at p with any of the flags, or -1.
func (m *Map) LayerWithFlag(p gruid.Point, f TerrainFlags) Layer {
	for l := range NLayers {
		if m.Tile(p, l).Flags().Any(f) {
			return l
		}
	}
	return -1
}

// Passable reports whether p does not obstruct passability.
func (m *Map) Passable(p gruid.Point) bool {
	return inMap(p) && !m.HasTerrainFlag(p, TObstructsPassability)
}

// CellFlags returns the cell flags at p.
func (m *Map) CellFlags(p gruid.Point) CellFlags {
	return m.Flags.At(p)
}

// HasCellFlag reports whether p has any of the given cell flags.
func (m *Map) HasCellFlag(p gruid.Point, f CellFlags) bool {
	return m.Flags.At(p)&f != 0
}

func (m *Map) setCellFlag(p gruid.Point, f CellFlags) {
	m.Flags.Set(p, m.Flags.At(p)|f)
}

func (m *Map) clearCellFlag(p gruid.Point, f CellFlags) {
	m.Flags.Set(p, m.Flags.At(p)&^f)
}

// DiagonalBlocked reports whether a diagonal step from one cell to an
// adjacent one cuts a corner: both orthogonal corner cells obstruct diagonal
// movement. Orthogonal steps are never blocked.
func (m *Map) DiagonalBlocked(from, to gruid.Point) bool {
	d := to.Sub(from)
	if d.X == 0 || d.Y == 0 {
		return false
	}
	c1 := gruid.Point{X: from.X, Y: to.Y}
	c2 := gruid.Point{X: to.X, Y: from.Y}
	return m.HasTerrainFlag(c1, TObstructsDiagonal) && m.HasTerrainFlag(c2, TObstructsDiagonal)
}

// arcDirs lists the neighbors of a cell in circular order.
var arcDirs = [8]gruid.Point{
	{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 1, Y: -1}, {X: 0, Y: -1}, {X: -1, Y: -1}, {X: -1, Y: 0}, {X: -1, Y: 1},
}

// PassableArcCount returns the number of separate passable arcs around p.
// Cells in corridors and doorways have at least two.
func (m *Map) PassableArcCount(p gruid.Point) int {
	open := func(q gruid.Point) bool {
		return inMap(q) && !m.HasTerrainFlag(q, TObstructsPassability)
	}
	n := 0
	for i, d := range arcDirs {
		if open(p.Add(d)) != open(p.Add(arcDirs[(i+7)%8])) {
			n++
		}
	}
	return n / 2
}

// BurnedTerrainFlags returns the flags the cell at p would gain if its
// flammable layers caught fire.
func (m *Map) BurnedTerrainFlags(p gruid.Point) TerrainFlags {
	var f TerrainFlags
	for l := range NLayers {
		t := m.Tile(p, l)
		if t.Flags().Any(TIsFlammable | TSpontaneouslyIgnites) {
			f |= tileCatalog[t].BurnsTo.Flags()
		} else {
			f |= t.Flags()
		}
	}
	return f
}

// occupant returns the ID of the creature at p, or NoID.
func (m *Map) occupant(p gruid.Point) ID {
	return m.occ.At(p) - 1
}

// legend maps level description runes to the tiles stacked at that cell.
var legend = map[rune][]TileType{
	'#': {Wall},
	'X': {Granite},
	'.': {Floor},
	'@': {Floor},
	'+': {Door},
	'S': {SecretDoor},
	'<': {UpStairs},
	'>': {DownStairs},
	'^': {PressurePlate},
	'~': {Floor, DeepWater},
	'-': {Floor, ShallowWater},
	'=': {Floor, Lava},
	':': {Floor, Chasm},
	'%': {Floor, Brimstone},
	'"': {Floor, Grass},
	'*': {Floor, Spiderweb},
	'&': {Floor, Lichen},
	'F': {Floor, Fire},
}

// ParseLevel builds a map from a textual description, one string per row.
// Missing cells are granite, and the map edges are always impregnable. It
// returns the position marked '@', or InvalidPos if none.
func ParseLevel(rows []string) (*Map, gruid.Point, error) {
	m := NewMap()
	start := InvalidPos
	m.Layers[LayerDungeon].Fill(rl.Cell(Granite))
	if len(rows) > DROWS {
		return nil, InvalidPos, fmt.Errorf("level has %d rows (max %d)", len(rows), DROWS)
	}
	for y, row := range rows {
		x := 0
		for _, r := range row {
			if x >= DCOLS {
				return nil, InvalidPos, fmt.Errorf("row %d too long", y)
			}
			tiles, ok := legend[r]
			if !ok {
				return nil, InvalidPos, fmt.Errorf("row %d: unknown terrain %q", y, r)
			}
			p := gruid.Point{X: x, Y: y}
			for _, t := range tiles {
				m.SetTile(p, t)
			}
			if r == '@' {
				start = p
			}
			if r == 'X' {
				m.setCellFlag(p, Impregnable)
			}
			x++
		}
	}
	for p := range m.Layers[LayerDungeon].All() {
		if onBoundary(p) {
			m.SetTile(p, Granite)
			m.setCellFlag(p, Impregnable)
		}
	}
	m.Waypoints = m.computeWaypoints()
	return m, start, nil
}

// String returns a textual representation of the terrain, using the glyph of
// the topmost non-empty layer.
func (m *Map) String() string {
	var sb strings.Builder
	for y := range DROWS {
		for x := range DCOLS {
			p := gruid.Point{X: x, Y: y}
			r := m.Tile(p, LayerDungeon).Rune()
			for _, l := range []Layer{LayerLiquid, LayerSurface} {
				if t := m.Tile(p, l); t != Nothing {
					r = t.Rune()
				}
			}
			sb.WriteRune(r)
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}

// CacheGrid is a map-sized grid of values.
type CacheGrid[T any] []T

// At returns the value in the grid at a given position.
func (cg CacheGrid[T]) At(p gruid.Point) T {
	var zero T
	if !inMap(p) {
		return zero
	}
	return cg[p.Y*DCOLS+p.X]
}

// Set puts a value at the given position in the grid.
func (cg CacheGrid[T]) Set(p gruid.Point, v T) {
	if !inMap(p) {
		return
	}
	cg[p.Y*DCOLS+p.X] = v
}

// New prepares a map-sized grid of zero values. It uses cg if already
// initialized.
func (cg CacheGrid[T]) New() CacheGrid[T] {
	if cg == nil {
		return make(CacheGrid[T], DCOLS*DROWS)
	}
	clear(cg)
	return cg
}

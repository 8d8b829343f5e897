package main

import (
	"strings"

	"codeberg.org/anaseto/gruid"
	brogue "codeberg.org/brogue/brogue-core"
)

// These are the colors of the main palette, given 16-palette color numbers
// compatible with terminals. Drivers map them to more precise colors.
const (
	ColorBackground          gruid.Color = gruid.ColorDefault
	ColorBackgroundSecondary gruid.Color = 1 + 0 // black
	ColorForeground          gruid.Color = gruid.ColorDefault
	ColorForegroundSecondary gruid.Color = 1 + 7  // white
	ColorForegroundEmph      gruid.Color = 1 + 15 // bright white
	ColorRed                 gruid.Color = 1 + 9  // bright red
	ColorGreen               gruid.Color = 1 + 2
	ColorYellow              gruid.Color = 1 + 3
	ColorBlue                gruid.Color = 1 + 4
	ColorMagenta             gruid.Color = 1 + 5
	ColorCyan                gruid.Color = 1 + 6
	ColorOrange              gruid.Color = 1 + 1  // red
	ColorViolet              gruid.Color = 1 + 12 // bright blue
)

// Styling attributes.
const (
	AttrInMap gruid.AttrMask = 1 << iota
	AttrReverse
	AttrBold
)

// Markups maps log style runes to gruid styles.
var Markups = map[rune]gruid.Style{
	'N': {},
	'G': {Fg: ColorGreen},
	'O': {Fg: ColorOrange},
	'Y': {Fg: ColorYellow},
	'C': {Fg: ColorCyan},
	'B': {Fg: ColorBlue},
}

// tileColor returns the foreground color of a tile type.
func tileColor(t brogue.TileType) gruid.Color {
	switch t {
	case brogue.Door, brogue.SecretDoor:
		return ColorYellow
	case brogue.UpStairs, brogue.DownStairs:
		return ColorForegroundEmph
	case brogue.DeepWater, brogue.ShallowWater:
		return ColorBlue
	case brogue.Lava, brogue.Fire, brogue.Explosion:
		return ColorRed
	case brogue.Brimstone, brogue.PressurePlate:
		return ColorOrange
	case brogue.Grass, brogue.Lichen:
		return ColorGreen
	case brogue.Chasm:
		return ColorBackgroundSecondary
	case brogue.Forcefield:
		return ColorCyan
	default:
		return ColorForeground
	}
}

// gasColor returns the background color of a gas tile type.
func gasColor(t brogue.TileType) gruid.Color {
	switch t {
	case brogue.CausticGas:
		return ColorGreen
	case brogue.ConfusionGas:
		return ColorViolet
	case brogue.ParalyticGas:
		return ColorMagenta
	case brogue.Steam:
		return ColorForegroundSecondary
	default:
		return ColorBackground
	}
}

// stateColor returns the color of a monster according to its mindstate.
func stateColor(c *brogue.Creature) gruid.Color {
	switch c.State {
	case brogue.Sleeping:
		return ColorBlue
	case brogue.Wandering:
		return ColorYellow
	case brogue.Fleeing:
		return ColorCyan
	case brogue.Ally:
		return ColorGreen
	default:
		return ColorRed
	}
}

// terrainCell returns the cell representing the terrain at p: the glyph of
// the topmost non-empty layer, with gas as background.
func terrainCell(m *brogue.Map, p gruid.Point) gruid.Cell {
	t := m.Tile(p, brogue.LayerDungeon)
	for _, l := range []brogue.Layer{brogue.LayerLiquid, brogue.LayerSurface} {
		if lt := m.Tile(p, l); lt != brogue.Nothing {
			t = lt
		}
	}
	st := gruid.Style{Fg: tileColor(t), Bg: gasColor(m.Tile(p, brogue.LayerGas)), Attrs: AttrInMap}
	return gruid.Cell{Rune: t.Rune(), Style: st}
}

// drawMap draws the level as seen by the player into gd.
func drawMap(gd gruid.Grid, w *brogue.World) {
	for y := range brogue.DROWS {
		for x := range brogue.DCOLS {
			p := gruid.Point{X: x, Y: y}
			if !w.Map.HasCellFlag(p, brogue.Discovered) {
				gd.Set(p, gruid.Cell{Rune: ' '})
				continue
			}
			c := terrainCell(w.Map, p)
			if !w.InFOV(p) {
				c.Style.Fg = ColorForegroundSecondary
				c.Style.Bg = ColorBackground
			}
			gd.Set(p, c)
		}
	}
	for c := range w.Arena.Living() {
		if !w.CanSeeCreature(c) {
			continue
		}
		st := gruid.Style{Fg: stateColor(c), Attrs: AttrInMap}
		if c.IsPlayer() {
			st.Fg = ColorForegroundEmph
		}
		gd.Set(c.P, gruid.Cell{Rune: c.Info.Rune, Style: st})
	}
}

// renderASCII returns a plain text picture of the whole level, creatures
// included.
func renderASCII(w *brogue.World) string {
	var sb strings.Builder
	for y := range brogue.DROWS {
		for x := range brogue.DCOLS {
			p := gruid.Point{X: x, Y: y}
			if c := w.CreatureAt(p); c != nil {
				sb.WriteRune(c.Info.Rune)
				continue
			}
			sb.WriteRune(terrainCell(w.Map, p).Rune)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

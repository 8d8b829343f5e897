//go:build js || sdl

package main

import (
	"fmt"
	"image"
	"image/color"

	"codeberg.org/anaseto/gruid"
	"codeberg.org/anaseto/gruid/tiles"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
)

const Tiles = true

// fontSize is the size in points of the font used to draw tiles.
const fontSize = 18

// tileManager draws cells with a monospace font.
type tileManager struct {
	drawer *tiles.Drawer
}

func newTileManager() (*tileManager, error) {
	fnt, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %v", err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size: fontSize,
		DPI:  72,
	})
	if err != nil {
		return nil, fmt.Errorf("font face: %v", err)
	}
	dr, err := tiles.NewDrawer(face)
	if err != nil {
		return nil, err
	}
	return &tileManager{drawer: dr}, nil
}

func (tm *tileManager) TileSize() gruid.Point {
	return tm.drawer.Size()
}

func (tm *tileManager) GetImage(gc gruid.Cell) image.Image {
	fg := ColorToRGBA(gc.Style.Fg, true)
	bg := ColorToRGBA(gc.Style.Bg, false)
	if gc.Style.Attrs&AttrReverse != 0 {
		fg, bg = bg, fg
	}
	return tm.drawer.Draw(gc.Rune, image.NewUniform(fg), image.NewUniform(bg))
}

// ColorToRGBA maps to colors from the dark selenized palette:
//
//	https://github.com/jan-warchol/selenized
func ColorToRGBA(c gruid.Color, fg bool) color.Color {
	const opaque = 255
	switch c {
	case ColorBackgroundSecondary:
		return color.RGBA{24, 73, 86, opaque}
	case ColorRed:
		return color.RGBA{250, 87, 80, opaque}
	case ColorGreen:
		return color.RGBA{117, 185, 56, opaque}
	case ColorYellow:
		return color.RGBA{219, 179, 45, opaque}
	case ColorBlue:
		return color.RGBA{88, 163, 255, opaque}
	case ColorMagenta:
		return color.RGBA{242, 117, 190, opaque}
	case ColorCyan:
		return color.RGBA{65, 199, 185, opaque}
	case ColorOrange:
		return color.RGBA{237, 134, 73, opaque}
	case ColorViolet:
		return color.RGBA{175, 136, 235, opaque}
	case ColorForegroundEmph:
		return color.RGBA{202, 216, 217, opaque}
	case ColorForegroundSecondary:
		return color.RGBA{114, 137, 143, opaque}
	}
	if fg {
		return color.RGBA{173, 188, 188, opaque}
	}
	return color.RGBA{16, 60, 72, opaque}
}

//go:build sdl

package main

import (
	"log"

	"codeberg.org/anaseto/gruid"
	sdl "codeberg.org/anaseto/gruid-sdl"
)

var driver gruid.Driver

func initDriver(fullscreen bool, sx, sy float64) {
	tm, err := newTileManager()
	if err != nil {
		log.Fatalf("loading font: %v", err)
	}
	dr := sdl.NewDriver(sdl.Config{
		TileManager: tm,
		Fullscreen:  fullscreen,
		WindowTitle: "Brogue monster simulator",
	})
	if sx != 1 || sy != 1 {
		dr.SetScale(float32(sx), float32(sy))
	}
	driver = dr
}

//go:build js

package main

import (
	"context"
	"log"
	"math/rand/v2"

	"codeberg.org/anaseto/gruid"
	jsd "codeberg.org/anaseto/gruid-js"
	brogue "codeberg.org/brogue/brogue-core"
)

var driver gruid.Driver

func initDriver() error {
	tm, err := newTileManager()
	if err != nil {
		return err
	}
	driver = jsd.NewDriver(jsd.Config{
		TileManager: tm,
		AppCanvasId: "appcanvas",
		AppDivId:    "appdiv",
	})
	return nil
}

func main() {
	log.SetPrefix("brogue-sim ")
	if err := initDriver(); err != nil {
		log.Fatal(err)
	}
	// a new simulation each time the previous one ends
	for {
		sc := simConfig{Seed: rand.Uint64() | 1, Hordes: 6}
		if err := RunGame(sc); err != nil {
			log.Fatal(err)
		}
	}
}

// RunGame starts an interactive simulation.
func RunGame(sc simConfig) error {
	logs := &brogue.Logs{}
	w, err := newSimulation(sc, brogue.WithSink(logs))
	if err != nil {
		return err
	}
	app := gruid.NewApp(gruid.AppConfig{
		Driver: driver,
		Model:  newModel(w, logs),
	})
	return app.Start(context.Background())
}

// subSig is defined here for build compatibility purposes, it is not used
// for the js backend.
func subSig(ctx context.Context, msgs chan<- gruid.Msg) {
}

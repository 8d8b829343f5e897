//go:build !js

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"

	"codeberg.org/anaseto/gruid"
	brogue "codeberg.org/brogue/brogue-core"
)

func main() {
	optConfig := flag.String("c", "", "path to YAML engine configuration")
	optLevel := flag.String("m", "", "path to level map (default: built-in level)")
	optSeed := flag.Uint64("s", 0, "random seed (default: from configuration)")
	optHordes := flag.Int("hordes", 6, "number of hordes to spawn")
	optHeadless := flag.Bool("headless", false, "run without user interface, the player being played by an autopilot")
	optTurns := flag.Int("turns", 200, "number of player turns in headless mode")
	optBolt := flag.String("bolt", "lightning", "bolt zapped by the autopilot")
	optBoltLevel := flag.Int("level", 3, "staff enchantment of the autopilot")
	optVersion := flag.Bool("version", false, "print build info")
	optFullscreen := new(bool)
	optWidthScale, optHeightScale := new(float64), new(float64)
	if Tiles {
		optFullscreen = flag.Bool("F", false, "fullscreen")
		optWidthScale = flag.Float64("w", 1.0, "window width scale factor")
		optHeightScale = flag.Float64("h", 1.0, "window height scale factor")
	}
	flag.Parse()

	if *optVersion {
		fmt.Printf("brogue-sim\t%v\n", Version)
		if bi, ok := debug.ReadBuildInfo(); ok {
			fmt.Print(bi)
		}
		os.Exit(0)
	}
	log.SetPrefix("brogue-sim ")
	sc := simConfig{
		ConfigPath: *optConfig,
		LevelPath:  *optLevel,
		Seed:       *optSeed,
		Hordes:     *optHordes,
	}
	if *optHeadless {
		bt, ok := brogue.BoltByName(*optBolt)
		if !ok {
			log.Fatalf("unknown bolt: %q", *optBolt)
		}
		ap := autopilot{bolt: bt, level: max(1, *optBoltLevel)}
		if err := runHeadless(sc, ap, *optTurns, os.Stdout); err != nil {
			log.Fatal(err)
		}
		return
	}
	f := logFile()
	if f != nil {
		sc.LogOutput = f
		defer f.Close()
	} else {
		sc.LogOutput = io.Discard
	}
	initDriver(*optFullscreen, *optWidthScale, *optHeightScale)
	if err := RunGame(sc); err != nil {
		log.Fatal(err)
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

// logFile returns the file diagnostics are written to during interactive
// simulations, which take over the terminal.
func logFile() *os.File {
	dir, err := os.UserCacheDir()
	if err != nil {
		log.Print(err)
		return nil
	}
	dir = filepath.Join(dir, "brogue-sim")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Print(err)
		return nil
	}
	f, err := os.Create(filepath.Join(dir, "logs.txt"))
	if err != nil {
		log.Print(err)
		return nil
	}
	return f
}

// subSig is a subscription that intercepts SIGTERM for closing the simulator
// gracefully.
func subSig(ctx context.Context, msgs chan<- gruid.Msg) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)
	select {
	case <-ctx.Done():
	case <-sig:
		msgs <- gruid.MsgQuit{}
	}
}

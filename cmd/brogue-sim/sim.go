package main

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"codeberg.org/anaseto/gruid"
	"codeberg.org/anaseto/gruid/paths"
	brogue "codeberg.org/brogue/brogue-core"
	"github.com/sirupsen/logrus"
)

//go:embed level.txt
var defaultLevel string

// Version is the simulator version.
const Version = "v0.1.0"

// simConfig gathers the command line settings of a simulation.
type simConfig struct {
	ConfigPath string // YAML engine configuration, if any
	LevelPath  string // level description, embedded level if empty
	Seed       uint64 // overrides the configuration seed when non-zero
	Hordes     int    // number of hordes to spawn
	LogOutput  io.Writer
}

// readLevel returns the rows of the level description at path, or of the
// default level.
func readLevel(path string) ([]string, error) {
	data := defaultLevel
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading level: %w", err)
		}
		data = string(b)
	}
	rows := strings.Split(strings.TrimRight(data, "\r\n"), "\n")
	for i, row := range rows {
		rows[i] = strings.TrimRight(row, "\r")
	}
	return rows, nil
}

// newSimulation sets up a level with the player and some random hordes.
func newSimulation(sc simConfig, opts ...brogue.Option) (*brogue.World, error) {
	cfg := brogue.DefaultConfig()
	if sc.ConfigPath != "" {
		var err error
		cfg, err = brogue.LoadConfig(sc.ConfigPath)
		if err != nil {
			return nil, err
		}
	}
	if sc.Seed != 0 {
		cfg.Seed = sc.Seed
	}
	if sc.LogOutput != nil {
		cfg = cfg.WithLogOutput(sc.LogOutput)
	}
	w, err := brogue.NewWorld(cfg, opts...)
	if err != nil {
		return nil, err
	}
	rows, err := readLevel(sc.LevelPath)
	if err != nil {
		return nil, err
	}
	start, err := w.LoadLevel(rows)
	if err != nil {
		return nil, err
	}
	if start == brogue.InvalidPos {
		return nil, errors.New("level without player start position")
	}
	if _, err := w.PlacePlayer(start); err != nil {
		return nil, err
	}
	populate(w, sc.Hordes)
	return w, nil
}

// minHordeDistance is the minimal distance between the player and a new
// horde.
const minHordeDistance = 10

// populate spawns n random hordes away from the player.
func populate(w *brogue.World, n int) {
	rng := w.Rand()
	for range n {
		for range 100 {
			p := gruid.Point{X: rng.IntN(brogue.DCOLS), Y: rng.IntN(brogue.DROWS)}
			if !w.Map.Passable(p) || paths.DistanceChebyshev(p, w.PP()) < minHordeDistance {
				continue
			}
			leader, err := w.SpawnRandomHorde(p)
			if err != nil {
				w.Diag.WithError(err).Debug("horde not spawned")
				continue
			}
			w.Diag.WithFields(logrus.Fields{
				"leader":    leader.Info.Name,
				"pos":       leader.P,
				"followers": len(w.Followers(leader)),
			}).Info("horde spawned")
			break
		}
	}
}

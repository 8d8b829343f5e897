package main

import (
	"fmt"
	"io"

	"codeberg.org/anaseto/gruid/paths"
	brogue "codeberg.org/brogue/brogue-core"
	"github.com/sirupsen/logrus"
)

// autopilot plays the player in headless simulations: it attacks adjacent
// hostiles, zaps the closest visible one, and rests otherwise.
type autopilot struct {
	bolt  brogue.BoltType
	level int
}

func (ap autopilot) PlayerAction(w *brogue.World) brogue.Action {
	pp := w.PP()
	var target *brogue.Creature
	best := 0
	for c := range w.Arena.Monsters() {
		if c.State == brogue.Ally || !w.CanSeeCreature(c) {
			continue
		}
		d := paths.DistanceChebyshev(c.P, pp)
		if target == nil || d < best {
			target, best = c, d
		}
	}
	switch {
	case target == nil:
		return brogue.Action{Kind: brogue.ActionWait}
	case best == 1:
		return brogue.Action{Kind: brogue.ActionMove, Dir: target.P.Sub(pp)}
	default:
		return brogue.Action{Kind: brogue.ActionZap, Target: target.P, Bolt: ap.bolt, Level: ap.level}
	}
}

// runHeadless runs a simulation for the given number of player turns and
// writes the combat log and the final level to out.
func runHeadless(sc simConfig, ap autopilot, turns int, out io.Writer) error {
	logs := &brogue.Logs{}
	w, err := newSimulation(sc, brogue.WithSink(logs), brogue.WithController(ap))
	if err != nil {
		return err
	}
	n := w.RunTurns(turns)
	for _, e := range logs.Entries {
		if _, err := fmt.Fprintln(out, e.String()); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(out, renderASCII(w)); err != nil {
		return err
	}
	if err := w.CheckOccupancy(); err != nil {
		w.Diag.WithError(err).Error("inconsistent level")
	}
	w.Diag.WithFields(logrus.Fields{
		"turns":     n,
		"ticks":     w.Ticks,
		"creatures": w.Arena.Count(),
		"dead":      w.GameOver,
		"fell":      w.Player.Fell,
	}).Info("simulation ended")
	return nil
}

package brogue

import (
	"errors"
	"fmt"

	"codeberg.org/anaseto/gruid"
	"github.com/sirupsen/logrus"
)

// ErrNoRoom is returned when no free cell could be found to place a
// creature.
var ErrNoRoom = errors.New("no free cell")

// NewCreature returns a creature of the given species, not yet on the level.
// Monsters start asleep three times out of four, unless they never sleep or
// always hunt.
func (w *World) NewCreature(kind SpeciesID) *Creature {
	info := w.Catalog.Info(kind)
	c := &Creature{
		ID:               NoID,
		Kind:             kind,
		Info:             info,
		HP:               info.MaxHP,
		Leader:           NoID,
		TargetWaypoint:   -1,
		LastSeenPlayerAt: InvalidPos,
	}
	c.initIntrinsics()
	c.TicksUntilTurn = c.MovementDuration
	switch {
	case kind == SpeciesPlayer:
	case info.Flags.Any(MonstAlwaysHunting):
		c.State = TrackingScent
	case info.Flags.Any(MonstNeverSleeps) || !w.rand.RandPercent(75):
		c.State = Wandering
	default:
		c.State = Sleeping
	}
	switch {
	case info.Flags.Any(MonstCarryItem100):
		c.CarriedItem = w.randomItem()
	case info.Flags.Any(MonstCarryItem25) && w.rand.RandPercent(25):
		c.CarriedItem = w.randomItem()
	}
	return c
}

func (w *World) randomItem() *Item {
	k := ItemKind(w.rand.IntN(int(ItemCharm) + 1))
	return &Item{Kind: k}
}

// AddCreature adds c to the level at p, giving it a new ID.
func (w *World) AddCreature(c *Creature, p gruid.Point) error {
	if !inMap(p) || !w.Map.Passable(p) || w.Map.occupant(p) != NoID {
		return fmt.Errorf("adding %s at %v: %w", c.Info.Name, p, ErrNoRoom)
	}
	w.Arena.add(c)
	w.place(c, p)
	if c.IsPlayer() {
		w.UpdateVision()
		w.UpdateScent()
	}
	w.settle(c)
	w.Diag.WithFields(logrus.Fields{"id": c.ID, "species": c.Info.Name, "pos": p}).Debug("spawned")
	return nil
}

// PlacePlayer creates the player at p. It has to be the first creature of
// the level.
func (w *World) PlacePlayer(p gruid.Point) (*Creature, error) {
	if w.Arena.Get(PlayerID) != nil || len(w.Arena.slots) > 0 {
		return nil, errors.New("player already placed")
	}
	pl := w.NewCreature(SpeciesPlayer)
	pc := w.Config.Player
	pl.Info.MaxHP, pl.HP = pc.MaxHP, pc.MaxHP
	pl.Info.Accuracy = pc.Accuracy
	pl.Info.Defense = pc.Defense
	pl.State = Ally
	if err := w.AddCreature(pl, p); err != nil {
		return nil, err
	}
	return pl, nil
}

// SpawnMonster creates a monster of the given species at the free cell
// nearest to p.
func (w *World) SpawnMonster(kind SpeciesID, p gruid.Point) (*Creature, error) {
	if kind <= SpeciesPlayer || int(kind) >= w.Catalog.Len() {
		return nil, fmt.Errorf("invalid species %d", kind)
	}
	c := w.NewCreature(kind)
	q := p
	if !w.Map.Passable(q) || w.Map.occupant(q) != NoID || w.WouldAvoid(c, q) {
		q = w.NearestFreeCell(p, c)
	}
	if q == InvalidPos {
		return nil, fmt.Errorf("spawning %s near %v: %w", c.Info.Name, p, ErrNoRoom)
	}
	if err := w.AddCreature(c, q); err != nil {
		return nil, err
	}
	return c, nil
}

// SpawnHorde creates a horde leader near p and its followers around it.
// Followers share the state of their leader.
func (w *World) SpawnHorde(h HordeSpec, p gruid.Point) (*Creature, error) {
	leader, err := w.SpawnMonster(h.Leader, p)
	if err != nil {
		return nil, err
	}
	for _, m := range h.Members {
		for range w.rand.RandClump(m.Count) {
			f, err := w.SpawnMonster(m.Kind, leader.P)
			if err != nil {
				w.Diag.WithFields(logrus.Fields{"leader": leader.Info.Name, "error": err}).Info("horde not complete")
				return leader, nil
			}
			if err := w.SetLeader(f, leader); err != nil {
				return leader, err
			}
			f.State = leader.State
		}
	}
	return leader, nil
}

// SpawnRandomHorde spawns a random horde from the catalog near p.
func (w *World) SpawnRandomHorde(p gruid.Point) (*Creature, error) {
	if len(w.Catalog.Hordes) == 0 {
		return nil, errors.New("no hordes in catalog")
	}
	return w.SpawnHorde(w.Catalog.Hordes[w.rand.IntN(len(w.Catalog.Hordes))], p)
}

// cloneData returns a deep copy of c, not on the level. Carried creatures
// are cloned too, but not carried items.
func cloneData(c *Creature) *Creature {
	clone := *c
	clone.ID = NoID
	clone.Info.Bolts = append([]BoltType(nil), c.Info.Bolts...)
	clone.CarriedItem = nil
	clone.Path = nil
	clone.spent = 0
	if c.Carried != nil {
		clone.Carried = cloneData(c.Carried)
	}
	return &clone
}

// CloneCreature adds a copy of c next to it. The clone follows the leader
// of c, or c itself if it has none. It returns nil if there is no room or c
// is the player.
func (w *World) CloneCreature(c *Creature) *Creature {
	if c.IsPlayer() {
		return nil
	}
	clone := cloneData(c)
	clone.Bookkeeping &^= MBLeader | MBFollower | MBCaptive | MBSeizing | MBSeized
	clone.Leader = NoID
	p := w.NearestFreeCell(c.P, clone)
	if p == InvalidPos {
		return nil
	}
	if err := w.AddCreature(clone, p); err != nil {
		w.Diag.WithFields(logrus.Fields{"error": err}).Warn("clone")
		return nil
	}
	leader := w.LeaderOf(c)
	if leader == nil {
		leader = c
	}
	if err := w.SetLeader(clone, leader); err != nil {
		w.Diag.WithFields(logrus.Fields{"error": err}).Warn("clone leader")
	}
	if c.Bookkeeping.Any(MBBoundToLeader) {
		clone.Bookkeeping |= MBBoundToLeader
	}
	return clone
}

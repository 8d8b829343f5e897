package brogue

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"codeberg.org/anaseto/gruid"
	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"
)

// ErrLeaderCycle is returned when assigning a leader would make a creature
// its own transitive leader.
var ErrLeaderCycle = errors.New("leader assignment would create a cycle")

// Arena stores the creatures of a level. Creatures refer to each other by
// ID, never by pointer, so that removals cannot leave dangling references.
// IDs are not reused within a level.
type Arena struct {
	slots   []*Creature
	pending mapset.Set[ID] // creatures marked for death, reaped at turn end
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{pending: mapset.New[ID]()}
}

// add inserts a creature and returns its new ID.
func (a *Arena) add(c *Creature) ID {
	c.ID = ID(len(a.slots))
	a.slots = append(a.slots, c)
	return c.ID
}

// Get returns the creature with the given ID, or nil if it does not exist
// or was reaped.
func (a *Arena) Get(i ID) *Creature {
	if i < 0 || int(i) >= len(a.slots) {
		return nil
	}
	return a.slots[i]
}

// All iterates over all the creatures not yet reaped, including dying ones,
// in ID order.
func (a *Arena) All() iter.Seq[*Creature] {
	return func(yield func(*Creature) bool) {
		for _, c := range a.slots {
			if c != nil && !yield(c) {
				return
			}
		}
	}
}

// Living iterates over the creatures that are not dying, in ID order.
func (a *Arena) Living() iter.Seq[*Creature] {
	return func(yield func(*Creature) bool) {
		for _, c := range a.slots {
			if c != nil && !c.IsDying() && !yield(c) {
				return
			}
		}
	}
}

// Monsters iterates over living non-player creatures.
func (a *Arena) Monsters() iter.Seq[*Creature] {
	return func(yield func(*Creature) bool) {
		for c := range a.Living() {
			if c.ID != PlayerID && !yield(c) {
				return
			}
		}
	}
}

// Count returns the number of living creatures.
func (a *Arena) Count() int {
	n := 0
	for range a.Living() {
		n++
	}
	return n
}

// MarkForRemoval stages a creature for removal at the next reap. The
// creature stays in the arena, flagged as dying, until then.
func (a *Arena) MarkForRemoval(c *Creature) {
	c.Bookkeeping |= MBIsDying
	a.pending.Put(c.ID)
}

// PendingRemovals returns the number of creatures waiting to be reaped.
func (a *Arena) PendingRemovals() int {
	return a.pending.Size()
}

// Reap removes the creatures marked for removal. Followers are unlinked from
// removed leaders before the removal, so no weak reference survives it.
func (w *World) Reap() {
	for w.Arena.pending.Size() > 0 {
		// Demotion may mark bound followers, reaped on the next pass.
		w.reapPending()
	}
}

func (w *World) reapPending() {
	var ids []ID
	w.Arena.pending.Each(func(i ID) { ids = append(ids, i) })
	slices.Sort(ids)
	w.Arena.pending.Clear()
	for _, i := range ids {
		c := w.Arena.Get(i)
		if c == nil {
			continue
		}
		if i == PlayerID {
			// The player is never removed: the game is over instead.
			continue
		}
		w.Demote(c)
		w.Unfollow(c)
		w.unplace(c)
		w.Arena.slots[i] = nil
		w.Diag.WithFields(logrus.Fields{"id": i, "species": c.Info.Name}).Debug("reaped")
	}
}

// place puts a creature at p, keeping occupancy flags in sync.
func (w *World) place(c *Creature, p gruid.Point) {
	if !w.invariant(w.Map.occupant(p) == NoID, "cell already occupied",
		logrus.Fields{"id": c.ID, "pos": p, "occupant": w.Map.occupant(p)}) {
		return
	}
	c.P = p
	w.Map.occ.Set(p, c.ID+1)
	if c.ID == PlayerID {
		w.Map.setCellFlag(p, HasPlayer)
	} else {
		w.Map.setCellFlag(p, HasMonster)
	}
}

// unplace removes a creature from its cell.
func (w *World) unplace(c *Creature) {
	if w.Map.occupant(c.P) != c.ID {
		return
	}
	w.Map.occ.Set(c.P, 0)
	w.Map.clearCellFlag(c.P, HasPlayer|HasMonster)
}

// SetCreatureLocation moves a creature to a free cell: the old cell's
// occupancy is cleared and the new one's set in a single step.
func (w *World) SetCreatureLocation(c *Creature, p gruid.Point) {
	if c.P == p {
		return
	}
	if !w.invariant(inMap(p) && w.Map.occupant(p) == NoID, "moving to occupied cell",
		logrus.Fields{"id": c.ID, "from": c.P, "to": p}) {
		return
	}
	w.unplace(c)
	w.place(c, p)
	if c.ID == PlayerID {
		w.UpdateVision()
	}
	w.settle(c)
}

// settle updates the state of a creature that just arrived in its cell.
func (w *World) settle(c *Creature) {
	c.Bookkeeping &^= MBSubmerged
	if c.Info.Flags.Any(MonstSubmerges) && w.Map.HasTerrainFlag(c.P, TAllowsSubmerging) &&
		!c.Flies() && !c.Has(StatusBurning) {
		c.Bookkeeping |= MBSubmerged
	}
	w.ApplyTileEffects(c)
}

// swapLocations exchanges the positions of two creatures.
func (w *World) swapLocations(a, b *Creature) {
	pa, pb := a.P, b.P
	w.unplace(a)
	w.unplace(b)
	w.place(a, pb)
	w.place(b, pa)
	if a.ID == PlayerID || b.ID == PlayerID {
		w.UpdateVision()
	}
	w.settle(a)
	if !b.IsDying() {
		w.settle(b)
	}
}

// CreatureAt returns the creature at p, or nil.
func (w *World) CreatureAt(p gruid.Point) *Creature {
	i := w.Map.occupant(p)
	if i == NoID {
		return nil
	}
	return w.Arena.Get(i)
}

// CheckOccupancy verifies that every creature occupies exactly the cell
// stored in its position, and that flagged cells belong to a creature.
func (w *World) CheckOccupancy() error {
	seen := 0
	for p := range w.Map.Layers[LayerDungeon].All() {
		f := w.Map.CellFlags(p)
		i := w.Map.occupant(p)
		flagged := f&(HasPlayer|HasMonster) != 0
		if flagged != (i != NoID) {
			return fmt.Errorf("occupancy flag out of sync at %v", p)
		}
		if i == NoID {
			continue
		}
		c := w.Arena.Get(i)
		if c == nil || c.P != p {
			return fmt.Errorf("occupant position mismatch at %v", p)
		}
		if (f&HasPlayer != 0) != (i == PlayerID) {
			return fmt.Errorf("player flag mismatch at %v", p)
		}
		seen++
	}
	n := 0
	for c := range w.Arena.All() {
		if c.IsDying() && c.ID != PlayerID {
			// dead monsters leave their cell immediately
			continue
		}
		n++
	}
	if seen != n {
		return errors.New("creature without cell")
	}
	return nil
}

// SetLeader makes leader the leader of follower. It fails if follower is
// already a transitive leader of leader.
func (w *World) SetLeader(follower, leader *Creature) error {
	if follower.ID == leader.ID {
		return ErrLeaderCycle
	}
	for i := leader.Leader; i != NoID; {
		if i == follower.ID {
			return ErrLeaderCycle
		}
		l := w.Arena.Get(i)
		if l == nil {
			break
		}
		i = l.Leader
	}
	w.Unfollow(follower)
	follower.Leader = leader.ID
	follower.Bookkeeping |= MBFollower
	leader.Bookkeeping |= MBLeader
	return nil
}

// LeaderOf returns the leader of c, or nil.
func (w *World) LeaderOf(c *Creature) *Creature {
	if c.Leader == NoID {
		return nil
	}
	return w.Arena.Get(c.Leader)
}

// Followers returns the direct followers of c.
func (w *World) Followers(c *Creature) []*Creature {
	var fs []*Creature
	for o := range w.Arena.All() {
		if o.Leader == c.ID && o.Bookkeeping.Any(MBFollower) {
			fs = append(fs, o)
		}
	}
	return fs
}

// Unfollow detaches c from its leader.
func (w *World) Unfollow(c *Creature) {
	l := w.LeaderOf(c)
	c.Leader = NoID
	c.Bookkeeping &^= MBFollower
	if l != nil && len(w.Followers(l)) == 0 {
		l.Bookkeeping &^= MBLeader
	}
}

// Demote removes c from the leadership of its followers. The first follower
// still alive becomes the new leader of the others. Followers bound to c die
// instead.
func (w *World) Demote(c *Creature) {
	if !c.Bookkeeping.Any(MBLeader) {
		return
	}
	c.Bookkeeping &^= MBLeader
	var newLeader *Creature
	for _, f := range w.Followers(c) {
		if f.Bookkeeping.Any(MBBoundToLeader) {
			f.Leader = NoID
			f.Bookkeeping &^= MBFollower
			if !f.IsDying() {
				w.KillCreature(f, false)
			}
			continue
		}
		if newLeader == nil {
			newLeader = f
			f.Leader = NoID
			f.Bookkeeping &^= MBFollower
			continue
		}
		f.Leader = newLeader.ID
		newLeader.Bookkeeping |= MBLeader
	}
}

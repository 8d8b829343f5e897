package brogue

import (
	"fmt"

	"codeberg.org/anaseto/gruid"
	"github.com/sirupsen/logrus"
)

// ItemKind represents a category of item. Item content lives outside the
// engine: only what monsters interact with is modeled.
type ItemKind int

const (
	ItemGold ItemKind = iota
	ItemPotion
	ItemScroll
	ItemStaff
	ItemWand
	ItemCharm
)

func (k ItemKind) String() string {
	switch k {
	case ItemGold:
		return "gold"
	case ItemPotion:
		return "potion"
	case ItemScroll:
		return "scroll"
	case ItemStaff:
		return "staff"
	case ItemWand:
		return "wand"
	case ItemCharm:
		return "charm"
	default:
		return fmt.Sprintf("ItemKind(%d)", int(k))
	}
}

// Item is a floor or carried item.
type Item struct {
	Kind ItemKind
	Name string
}

func (it *Item) String() string {
	if it.Name != "" {
		return it.Name
	}
	return it.Kind.String()
}

// ItemAt returns the floor item at p, or nil. A cell flagged as holding an
// item without any is repaired: the item was already picked up.
func (w *World) ItemAt(p gruid.Point) *Item {
	it := w.Map.Items[p]
	has := w.Map.HasCellFlag(p, HasItem)
	switch {
	case it == nil && has:
		w.invariant(false, "item flag without item", logrus.Fields{"pos": p})
		w.Map.clearCellFlag(p, HasItem)
	case it != nil && !has:
		w.invariant(false, "item without item flag", logrus.Fields{"pos": p})
		w.Map.setCellFlag(p, HasItem)
	}
	return it
}

// PutItem places an item on the floor at p.
func (w *World) PutItem(p gruid.Point, it *Item) {
	w.Map.Items[p] = it
	w.Map.setCellFlag(p, HasItem)
}

// PickUpItem removes and returns the floor item at p, or nil.
func (w *World) PickUpItem(p gruid.Point) *Item {
	it := w.ItemAt(p)
	if it == nil {
		return nil
	}
	delete(w.Map.Items, p)
	w.Map.clearCellFlag(p, HasItem)
	return it
}

// DropItem drops an item at the closest free floor cell around p. It
// reports whether a cell was found.
func (w *World) DropItem(p gruid.Point, it *Item) bool {
	q := w.NearestQualifyingCell(p, func(q gruid.Point) bool {
		return w.Map.Items[q] == nil && !w.Map.HasTerrainFlag(q, TPathingBlocker)
	})
	if q == InvalidPos {
		return false
	}
	w.PutItem(q, it)
	return true
}

// stealItem makes thief take a random item from the player's pack. It
// reports whether something was stolen.
func (w *World) stealItem(thief *Creature) bool {
	if thief.CarriedItem != nil || len(w.Player.Pack) == 0 {
		return false
	}
	i := w.rand.IntN(len(w.Player.Pack))
	it := w.Player.Pack[i]
	w.Player.Pack = append(w.Player.Pack[:i], w.Player.Pack[i+1:]...)
	thief.CarriedItem = it
	w.Logf("%s stole %s!", thief.Name(), it)
	return true
}

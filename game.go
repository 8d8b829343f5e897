package brogue

import (
	"errors"
	"fmt"

	"codeberg.org/anaseto/gruid"
	"codeberg.org/anaseto/gruid/paths"
	"codeberg.org/anaseto/gruid/rl"
	"github.com/sirupsen/logrus"
)

// Map dimensions.
const (
	DCOLS = 79
	DROWS = 29
)

// MaxBoltLength bounds the length of any bolt path, reflections included.
const MaxBoltLength = 2 * DCOLS

// InvalidPos is returned when no suitable position could be found.
var InvalidPos = gruid.Point{X: -1, Y: -1}

// ID represents a creature identifier: an index into the level's arena.
// Valid identifiers start from 0, which is always the player.
type ID int32

const (
	PlayerID ID = 0  // the player is always the first creature of a level
	NoID     ID = -1 // absence of creature (no leader, empty cell)
)

// PlayerState holds player-only modifiers consulted by the engine. Equipment
// and inventory live outside of the engine: only their effects are kept.
type PlayerState struct {
	StealthBonus   int     // stealth ring bonus (negative for aggravation)
	JustRested     bool    // whether the player rested or searched last turn
	ReflectEnchant int     // enchantment of reflective armor, 0 if none
	Respiration    bool    // respiration armor: immune to gases
	Pack           []*Item // items that monsters may steal
	Fell           bool    // the player fell through a chasm and left the level
}

// World owns everything about a loaded level: map, creatures, scent and
// scheduling state. It is created at level load and discarded at teardown.
// A World is not safe for concurrent use.
type World struct {
	Map        *Map           // terrain layers and cell flags
	Arena      *Arena         // creatures of the level
	Scent      CacheGrid[int] // player scent
	ScentTurn  int            // current scent age reference
	Ticks      int            // absolute scheduler time
	Turn       int            // number of player turns
	Player     PlayerState    // player-only modifiers
	GameOver   bool           // the player died
	Config     Config         // engine configuration
	Catalog    *Catalog       // creature species
	Msgs       MessageSink    // combat log
	Light      Lighting       // light level queries
	Diag       *logrus.Logger // diagnostics
	Controller PlayerController
	PR         *paths.PathRange

	fov      *rl.FOV // player field of view
	scentFOV *rl.FOV // scent laying mask
	envTicks int     // ticks accumulated toward next environment update
	rand     *RNG
}

// Option configures optional collaborators of a World.
type Option func(w *World)

// WithSink sets the message sink receiving combat log entries.
func WithSink(s MessageSink) Option {
	return func(w *World) { w.Msgs = s }
}

// WithLighting sets the light level provider.
func WithLighting(l Lighting) Option {
	return func(w *World) { w.Light = l }
}

// WithController sets the provider of player actions.
func WithController(pc PlayerController) Option {
	return func(w *World) { w.Controller = pc }
}

// WithRNG replaces the random number generator seeded from the configuration.
func WithRNG(r *RNG) Option {
	return func(w *World) { w.rand = r }
}

// NewWorld returns a new world with an empty level surrounded by impregnable
// granite, and the player not yet placed. Species listed in the configuration
// are added to the built-in catalog.
func NewWorld(cfg Config, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cat := NewCatalog()
	for _, spec := range cfg.Species {
		if _, err := cat.Add(spec); err != nil {
			return nil, fmt.Errorf("species catalog: %w", err)
		}
	}
	rg := gruid.NewRange(0, 0, DCOLS, DROWS)
	w := &World{
		Map:        NewMap(),
		Arena:      NewArena(),
		Scent:      make(CacheGrid[int], DCOLS*DROWS),
		ScentTurn:  1000,
		Config:     cfg,
		Catalog:    cat,
		Msgs:       &Logs{},
		Light:      uniformLight{},
		Diag:       cfg.NewLogger(),
		Controller: restingController{},
		PR:         paths.NewPathRange(rg),
		fov:        rl.NewFOV(rg),
		scentFOV:   rl.NewFOV(rg),
		rand:       NewRNG(cfg.Seed),
	}
	w.Player = PlayerState{
		StealthBonus:   cfg.Player.StealthBonus,
		ReflectEnchant: cfg.Player.ReflectEnchant,
		Respiration:    cfg.Player.Respiration,
	}
	w.Map.Waypoints = w.Map.computeWaypoints()
	for _, o := range opts {
		o(w)
	}
	return w, nil
}

// LoadLevel replaces the terrain by the level described by rows (see
// ParseLevel). It has to be called before any creature is added. It returns
// the position marked for the player, or InvalidPos.
func (w *World) LoadLevel(rows []string) (gruid.Point, error) {
	if len(w.Arena.slots) > 0 {
		return InvalidPos, errors.New("loading level: creatures already added")
	}
	m, start, err := ParseLevel(rows)
	if err != nil {
		return InvalidPos, fmt.Errorf("loading level: %w", err)
	}
	w.Map = m
	w.Scent = w.Scent.New()
	w.Diag.WithFields(logrus.Fields{"waypoints": len(m.Waypoints), "start": start}).Debug("level loaded")
	return start, nil
}

// PlayerCreature returns the player creature, or nil if not placed yet.
func (w *World) PlayerCreature() *Creature {
	return w.Arena.Get(PlayerID)
}

// PP returns the player's position.
func (w *World) PP() gruid.Point {
	if pl := w.PlayerCreature(); pl != nil {
		return pl.P
	}
	return InvalidPos
}

// Rand returns the world's random number generator.
func (w *World) Rand() *RNG {
	return w.rand
}

// invariant reports whether cond holds. A violated invariant panics in debug
// mode and is logged as a warning otherwise, the caller being responsible for
// degrading gracefully.
func (w *World) invariant(cond bool, msg string, fields logrus.Fields) bool {
	if cond {
		return true
	}
	if w.Config.Debug {
		panic(fmt.Sprintf("invariant violation: %s %v", msg, fields))
	}
	w.Diag.WithFields(fields).Warn(msg)
	return false
}

// gameOver handles the death of the player.
func (w *World) gameOver(cause string) {
	if w.GameOver {
		return
	}
	w.GameOver = true
	w.LogStyled(fmt.Sprintf("You die... (%s)", cause), LogSpecial)
	w.Diag.WithFields(logrus.Fields{"turn": w.Turn, "cause": cause}).Info("game over")
}

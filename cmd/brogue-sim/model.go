// This file defines the gruid model of the interactive simulator.

package main

import (
	"fmt"
	"runtime"
	"slices"
	"strings"

	"codeberg.org/anaseto/gruid"
	"codeberg.org/anaseto/gruid/paths"
	"codeberg.org/anaseto/gruid/ui"
	brogue "codeberg.org/brogue/brogue-core"
)

const (
	UIWidth  = brogue.DCOLS + 1
	UIHeight = brogue.DROWS + 1 + logLines
	logLines = 3
)

// mode represents the main model mode.
type mode int

const (
	modeNormal mode = iota // map mode
	modeTarget             // choosing the target of a bolt
	modeEnd                // the player died or left the level
)

// model describes the gruid.Model of the simulator.
type model struct {
	w       *brogue.World
	logs    *brogue.Logs
	gd      gruid.Grid
	status  *ui.Label
	log     *ui.Label
	mode    mode
	pending brogue.Action // action returned on the player's next turn
	cursor  gruid.Point   // targeting cursor
	bolt    brogue.BoltType
	level   int // staff enchantment
	keys    map[gruid.Key]gruid.Point
}

func newModel(w *brogue.World, logs *brogue.Logs) *model {
	md := &model{
		w:     w,
		logs:  logs,
		gd:    gruid.NewGrid(UIWidth, UIHeight),
		bolt:  brogue.BoltLightning,
		level: 3,
	}
	md.status = ui.NewLabel(ui.StyledText{}.WithMarkups(Markups))
	md.status.AdjustWidth = false
	md.log = ui.NewLabel(ui.StyledText{}.WithMarkups(Markups))
	md.log.AdjustWidth = false
	md.keys = map[gruid.Key]gruid.Point{
		gruid.KeyArrowLeft:  {X: -1, Y: 0},
		gruid.KeyArrowDown:  {X: 0, Y: 1},
		gruid.KeyArrowUp:    {X: 0, Y: -1},
		gruid.KeyArrowRight: {X: 1, Y: 0},
		"h":                 {X: -1, Y: 0},
		"j":                 {X: 0, Y: 1},
		"k":                 {X: 0, Y: -1},
		"l":                 {X: 1, Y: 0},
		"y":                 {X: -1, Y: -1},
		"u":                 {X: 1, Y: -1},
		"b":                 {X: -1, Y: 1},
		"n":                 {X: 1, Y: 1},
	}
	w.Controller = brogue.ActionFunc(md.playerAction)
	return md
}

// playerAction returns the pending action and resets it.
func (md *model) playerAction(*brogue.World) brogue.Action {
	a := md.pending
	md.pending = brogue.Action{Kind: brogue.ActionWait}
	return a
}

// act plays the given action and lets monsters act until the player's next
// turn.
func (md *model) act(a brogue.Action) {
	md.pending = a
	md.w.RunTurns(1)
	if !md.w.AdvanceToPlayer() {
		md.mode = modeEnd
		switch {
		case md.w.GameOver:
			md.logs.Message("You die... (press any key)", brogue.LogSpecial)
		case md.w.Player.Fell:
			md.logs.Message("You plunge downward into the darkness! (press any key)", brogue.LogSpecial)
		}
	}
}

func (md *model) Update(msg gruid.Msg) gruid.Effect {
	switch msg := msg.(type) {
	case gruid.MsgInit:
		md.w.AdvanceToPlayer()
		if runtime.GOOS == "js" {
			return nil
		}
		return gruid.Sub(subSig)
	case gruid.MsgQuit:
		return gruid.End()
	case gruid.MsgKeyDown:
		return md.updateKeyDown(msg)
	case gruid.MsgMouse:
		if md.mode == modeTarget && msg.Action == gruid.MouseMain && inMap(msg.P) {
			md.cursor = msg.P
			md.fire()
		}
	}
	return nil
}

func inMap(p gruid.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < brogue.DCOLS && p.Y < brogue.DROWS
}

func (md *model) updateKeyDown(msg gruid.MsgKeyDown) gruid.Effect {
	switch md.mode {
	case modeEnd:
		return gruid.End()
	case modeTarget:
		md.updateTarget(msg.Key)
		return nil
	}
	if dir, ok := md.keys[msg.Key]; ok {
		md.act(brogue.Action{Kind: brogue.ActionMove, Dir: dir})
		return nil
	}
	switch msg.Key {
	case ".", "5", gruid.KeyEnter:
		md.act(brogue.Action{Kind: brogue.ActionWait})
	case "z":
		md.mode = modeTarget
		md.cursor = md.nearestMonster()
	case "B":
		md.bolt = (md.bolt + 1) % brogue.NBoltTypes
	case "V":
		md.bolt = (md.bolt + brogue.NBoltTypes - 1) % brogue.NBoltTypes
	case "+":
		md.level = min(md.level+1, 10)
	case "-":
		md.level = max(md.level-1, 1)
	case "Q":
		return gruid.End()
	}
	return nil
}

func (md *model) updateTarget(key gruid.Key) {
	if dir, ok := md.keys[key]; ok {
		if q := md.cursor.Add(dir); inMap(q) {
			md.cursor = q
		}
		return
	}
	switch key {
	case ".", "z", gruid.KeyEnter:
		md.fire()
	case gruid.KeyTab:
		md.cursor = md.nextMonster(md.cursor)
	case gruid.KeyEscape:
		md.mode = modeNormal
	}
}

// fire zaps the current bolt at the cursor.
func (md *model) fire() {
	md.mode = modeNormal
	if md.cursor == md.w.PP() {
		return
	}
	md.act(brogue.Action{Kind: brogue.ActionZap, Target: md.cursor, Bolt: md.bolt, Level: md.level})
}

// visibleMonsters returns the monsters the player can see, closest first.
func (md *model) visibleMonsters() []*brogue.Creature {
	var ms []*brogue.Creature
	for c := range md.w.Arena.Monsters() {
		if md.w.CanSeeCreature(c) {
			ms = append(ms, c)
		}
	}
	pp := md.w.PP()
	slices.SortStableFunc(ms, func(a, b *brogue.Creature) int {
		return paths.DistanceChebyshev(a.P, pp) - paths.DistanceChebyshev(b.P, pp)
	})
	return ms
}

// nearestMonster returns the position of the closest visible monster, or the
// player's position.
func (md *model) nearestMonster() gruid.Point {
	if ms := md.visibleMonsters(); len(ms) > 0 {
		return ms[0].P
	}
	return md.w.PP()
}

// nextMonster returns the position of the visible monster following the one
// at p, cycling.
func (md *model) nextMonster(p gruid.Point) gruid.Point {
	ms := md.visibleMonsters()
	if len(ms) == 0 {
		return p
	}
	for i, c := range ms {
		if c.P == p {
			return ms[(i+1)%len(ms)].P
		}
	}
	return ms[0].P
}

func (md *model) Draw() gruid.Grid {
	md.gd.Fill(gruid.Cell{Rune: ' '})
	drawMap(md.gd, md.w)
	if md.mode == modeTarget {
		c := md.gd.At(md.cursor)
		c.Style.Attrs |= AttrReverse
		md.gd.Set(md.cursor, c)
	}
	md.status.SetText(md.statusText())
	md.status.Draw(md.gd.Slice(gruid.NewRange(0, brogue.DROWS, UIWidth, brogue.DROWS+1)))
	var sb strings.Builder
	for _, e := range md.logs.Last(logLines) {
		sb.WriteString(e.Markup())
		sb.WriteByte('\n')
	}
	md.log.SetText(sb.String())
	md.log.Draw(md.gd.Slice(gruid.NewRange(0, brogue.DROWS+1, UIWidth, UIHeight)))
	return md.gd
}

// statusText returns the status line, with markup.
func (md *model) statusText() string {
	pl := md.w.PlayerCreature()
	if pl == nil {
		return ""
	}
	hpc := 'N'
	if pl.HP*3 < pl.Info.MaxHP {
		hpc = 'O'
	}
	s := fmt.Sprintf("@%cHP %d/%d@N  Turn %d  Staff: @Y%s@N [%d]", hpc, pl.HP, pl.Info.MaxHP,
		md.w.Turn, md.bolt, md.level)
	for st := range brogue.NStatus {
		if pl.Has(st) {
			s += " @C" + st.String() + "@N"
		}
	}
	if md.mode == modeTarget {
		s += "  @Btargeting@N"
		if c := md.w.CreatureAt(md.cursor); c != nil && md.w.CanSeeCreature(c) && !c.IsPlayer() {
			s += fmt.Sprintf(": %s (%s, %d HP)", c.Info.Name, c.State, c.HP)
		}
	}
	return s
}

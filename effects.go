package brogue

import (
	"slices"

	"codeberg.org/anaseto/gruid"
	"codeberg.org/anaseto/gruid/paths"
	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"
)

const (
	// bladeLifespan is the number of turns spectral blades last.
	bladeLifespan = 15

	// teleportMinDistance is the minimal distance of a random teleport.
	teleportMinDistance = 10
)

// boltName returns how a bolt is called in messages.
func (z *zapState) boltName() string {
	if z.hide {
		return "the bolt"
	}
	return "the " + z.spec.Name
}

func (w *World) logBoltHit(z *zapState, c *Creature, dmg int) {
	if !w.CanSeeCreature(c) {
		return
	}
	if c.IsPlayer() {
		w.LogfStyled("%s hits you (%d dmg).", LogHurtPlayer, z.boltName(), dmg)
		return
	}
	w.LogfStyled("%s hits %s (%d dmg).", LogHurtMons, z.boltName(), c.Name(), dmg)
}

func hitDamage(w *World, z *zapState, c *Creature) bool {
	dmg := w.rand.RandClump(z.spec.Damage(z.Level))
	w.logBoltHit(z, c, dmg)
	w.InflictDamage(z.caster, c, dmg, DamageBolt)
	return true
}

func hitFire(w *World, z *zapState, c *Creature) bool {
	if c.Has(StatusImmuneToFire) || c.Info.Flags.Any(MonstInvulnerable) {
		if w.CanSeeCreature(c) {
			w.Logf("%s ignores %s.", c.Name(), z.boltName())
		}
		return true
	}
	dmg := w.rand.RandClump(z.spec.Damage(z.Level))
	w.logBoltHit(z, c, dmg)
	if w.InflictDamage(z.caster, c, dmg, DamageFire) {
		return true
	}
	w.exposeToFire(c)
	return true
}

func hitPoison(w *World, z *zapState, c *Creature) bool {
	if c.Info.Flags.Any(MonstInanimate | MonstInvulnerable) {
		return false
	}
	w.addPoison(c, staffPoison(z.Level), 1)
	switch {
	case c.IsPlayer():
		w.LogStyled("You feel very sick.", LogHurtPlayer)
	case w.CanSeeCreature(c):
		w.LogfStyled("%s looks very sick.", LogHurtMons, c.Name())
	}
	return true
}

func hitTeleport(w *World, z *zapState, c *Creature) bool {
	if c.Info.Flags.Any(MonstImmobile | MonstInvulnerable) {
		return false
	}
	visible := w.CanSeeCreature(c)
	if !w.TeleportRandomly(c) {
		return false
	}
	if visible && !c.IsPlayer() {
		w.Logf("%s disappears!", c.Name())
	}
	return visible || c.IsPlayer()
}

// TeleportRandomly moves c to a random free cell far from its position. It
// reports whether such a cell was found.
func (w *World) TeleportRandomly(c *Creature) bool {
	q := w.RandomFreeCell(c, teleportMinDistance)
	if q == InvalidPos {
		q = w.RandomFreeCell(c, 1)
	}
	if q == InvalidPos {
		return false
	}
	w.teleportTo(c, q)
	return true
}

func (w *World) teleportTo(c *Creature, q gruid.Point) {
	w.releaseSeized(c)
	if c.Bookkeeping.Any(MBSeized) {
		for _, d := range dirs8 {
			if o := w.CreatureAt(c.P.Add(d)); o != nil {
				o.Bookkeeping &^= MBSeizing
			}
		}
		c.Bookkeeping &^= MBSeized
	}
	c.Path = nil
	w.SetCreatureLocation(c, q)
	if c.IsPlayer() {
		w.LogStyled("You blink away!", LogNotable)
	}
}

func hitSlow(w *World, z *zapState, c *Creature) bool {
	if c.Info.Flags.Any(MonstInanimate | MonstInvulnerable) {
		return false
	}
	w.Slow(c, slowDuration(z.Level))
	return true
}

// Slow slows c for the given number of turns, ending any haste.
func (w *World) Slow(c *Creature, turns int) {
	c.ClearStatus(StatusHasted)
	c.Status[StatusSlowed] = turns
	c.MaxStatus[StatusSlowed] = turns
	c.updateSpeeds()
	switch {
	case c.IsPlayer():
		w.LogStyled("You feel yourself slow down.", LogHurtPlayer)
	case w.CanSeeCreature(c):
		w.Logf("%s slows down.", c.Name())
	}
}

func hitHaste(w *World, z *zapState, c *Creature) bool {
	if c.Info.Flags.Any(MonstInanimate | MonstInvulnerable) {
		return false
	}
	w.Haste(c, hasteDuration(z.Level))
	return true
}

// Haste hastes c for the given number of turns, ending any slowness.
func (w *World) Haste(c *Creature, turns int) {
	c.ClearStatus(StatusSlowed)
	c.Status[StatusHasted] = turns
	c.MaxStatus[StatusHasted] = turns
	c.updateSpeeds()
	switch {
	case c.IsPlayer():
		w.LogStyled("You feel yourself speed up.", LogNotable)
	case w.CanSeeCreature(c):
		w.Logf("%s speeds up.", c.Name())
	}
}

func hitPolymorph(w *World, z *zapState, c *Creature) bool {
	visible := w.CanSeeCreature(c)
	if !w.Polymorph(c) {
		return false
	}
	return visible
}

// Polymorph turns the monster c into a random other species, keeping its
// health fraction and allegiance. Inanimate, invulnerable and unique
// creatures, like the player, are not affected.
func (w *World) Polymorph(c *Creature) bool {
	if c.IsPlayer() || c.Info.Flags.Any(MonstInanimate|MonstInvulnerable|MonstUnique) {
		return false
	}
	var kinds []SpeciesID
	for k := SpeciesPlayer + 1; int(k) < w.Catalog.Len(); k++ {
		info := w.Catalog.Info(k)
		if k == c.Kind || info.Flags.Any(MonstInanimate|MonstInvulnerable|MonstUnique) {
			continue
		}
		kinds = append(kinds, k)
	}
	if len(kinds) == 0 {
		return false
	}
	old := c.Name()
	frac := c.HP * 1000 / max(1, c.Info.MaxHP)
	w.Demote(c)
	kind := kinds[w.rand.IntN(len(kinds))]
	c.Kind = kind
	c.Info = w.Catalog.Info(kind)
	c.HP = max(1, frac*c.Info.MaxHP/1000)
	c.Bookkeeping &^= MBSeizing | MBBoundToLeader | MBCaptive | MBSubmerged
	c.Empowered = 0
	for _, st := range []Status{StatusLevitating, StatusImmuneToFire, StatusInvisible} {
		c.ClearStatus(st)
	}
	c.initIntrinsics()
	c.Path = nil
	if c.State != Ally {
		if c.Info.Flags.Any(MonstAlwaysHunting) || c.State != Sleeping {
			c.State = TrackingScent
		}
		c.Mode = ModeNormal
	}
	if c.Info.Flags.Any(MonstRestrictedToLiquid) && !w.Map.HasTerrainFlag(c.P, TAllowsSubmerging) {
		// out of its element
		c.Info.Flags &^= MonstRestrictedToLiquid
	}
	if w.CanSeeCreature(c) {
		w.Logf("%s turns into %s!", old, c.Name())
	}
	w.settle(c)
	return true
}

func hitNegation(w *World, z *zapState, c *Creature) bool {
	return w.Negate(c)
}

// Negate strips c of its magical traits and statuses. Magical creatures die
// instead. It reports whether anything changed.
func (w *World) Negate(c *Creature) bool {
	if c.Info.Flags.Any(MonstDiesIfNegated) && !c.IsPlayer() {
		if w.CanSeeCreature(c) {
			w.LogfStyled("%s is destroyed by the negation.", LogHurtMons, c.Name())
		}
		w.KillCreature(c, true)
		return true
	}
	changed := false
	if !c.IsPlayer() {
		if c.Info.Flags.Any(negatableFlags) || c.Info.Abilities.Any(MAReflect100|MAHitBurns) ||
			len(c.Info.Bolts) > 0 || c.Empowered > 0 {
			changed = true
		}
		c.Info.Flags &^= negatableFlags
		c.Info.Abilities &^= MAReflect100 | MAHitBurns
		c.Info.Bolts = nil
	}
	for _, st := range []Status{StatusHasted, StatusSlowed, StatusShielded, StatusInvisible,
		StatusLevitating, StatusImmuneToFire, StatusDiscordant, StatusMagicalFear,
		StatusEntranced, StatusDarkened} {
		if c.Has(st) {
			changed = true
			c.ClearStatus(st)
		}
	}
	c.initIntrinsics()
	if changed {
		switch {
		case c.IsPlayer():
			w.LogStyled("You feel stripped of your magic.", LogNotable)
		case w.CanSeeCreature(c):
			w.Logf("%s is stripped of its magic.", c.Name())
		}
	}
	w.settle(c)
	return changed
}

// NegationBlast negates every creature within radius of origin that has an
// open line to it, except the one standing at origin. Creatures dying from
// it are staged for removal until the next reap.
func (w *World) NegationBlast(origin gruid.Point, radius int) {
	var targets []*Creature
	for c := range w.Arena.Living() {
		if c.P == origin || paths.DistanceChebyshev(c.P, origin) > radius || !w.OpenPathBetween(origin, c.P) {
			continue
		}
		targets = append(targets, c)
	}
	done := mapset.New[ID]()
	if w.InFOV(origin) {
		w.LogStyled("A flash of negation fills the area.", LogNotable)
	}
	for _, c := range targets {
		if done.Has(c.ID) || c.IsDying() {
			// killed as a bound follower of a previous target
			continue
		}
		done.Put(c.ID)
		w.Negate(c)
	}
	w.Diag.WithFields(logrus.Fields{"origin": origin, "negated": done.Size(),
		"dying": w.Arena.PendingRemovals()}).Debug("negation blast")
}

func hitDomination(w *World, z *zapState, c *Creature) bool {
	if c.IsPlayer() || z.caster == nil || !z.caster.IsPlayer() || c.State == Ally {
		return false
	}
	if c.Info.Flags.Any(MonstInanimate | MonstInvulnerable) {
		if w.CanSeeCreature(c) {
			w.Logf("%s is unaffected.", c.Name())
		}
		return false
	}
	if w.rand.RandPercent(dominationChance(c)) {
		w.BecomeAllyWith(c)
		w.LogfStyled("%s is bound to your will!", LogNotable, c.Name())
		return true
	}
	if w.CanSeeCreature(c) {
		w.Logf("%s resists the bolt of domination.", c.Name())
	}
	return false
}

func hitBeckoning(w *World, z *zapState, c *Creature) bool {
	caster := z.caster
	if caster == nil || caster.IsDying() || c.Info.Flags.Any(MonstImmobile|MonstInvulnerable) ||
		paths.DistanceChebyshev(c.P, caster.P) <= 1 {
		return false
	}
	dest := c.P
	for _, p := range ComputeLine(c.P, caster.P) {
		if p == caster.P || !w.Map.Passable(p) || w.Map.occupant(p) != NoID {
			break
		}
		dest = p
	}
	if dest == c.P {
		return false
	}
	w.teleportTo(c, dest)
	if w.CanSeeCreature(c) && !c.IsPlayer() {
		w.Logf("%s is pulled toward %s.", c.Name(), caster.Name())
	}
	return true
}

func hitPlenty(w *World, z *zapState, c *Creature) bool {
	if c.IsPlayer() || c.Info.Flags.Any(MonstInvulnerable|MonstUnique) {
		return false
	}
	clone := w.CloneCreature(c)
	if clone == nil {
		return false
	}
	// each copy gets half of the health, rounded up, as its new maximum
	half := (c.HP + 1) / 2
	c.HP, clone.HP = half, half
	c.Info.MaxHP, clone.Info.MaxHP = half, half
	if w.CanSeeCreature(c) {
		w.Logf("%s splits in two!", c.Name())
	}
	return true
}

func hitInvisibility(w *World, z *zapState, c *Creature) bool {
	if c.IsPlayer() {
		return false
	}
	c.PutStatus(StatusInvisible, invisibilityDuration)
	if w.CanSeeCreature(c) || w.InFOV(c.P) {
		w.Logf("%s vanishes!", c.Name())
		return true
	}
	return false
}

func hitEmpowerment(w *World, z *zapState, c *Creature) bool {
	if c.IsPlayer() {
		return false
	}
	w.Empower(c)
	return true
}

// Empower makes c permanently stronger.
func (w *World) Empower(c *Creature) {
	c.Empowered++
	c.Info.MaxHP += 10
	c.HP += 10
	c.Info.Defense += 10
	c.Info.Accuracy += 10
	c.Info.Damage.Min = c.Info.Damage.Min * 11 / 10
	c.Info.Damage.Max = (c.Info.Damage.Max*11 + 9) / 10
	if w.CanSeeCreature(c) {
		w.LogfStyled("%s looks stronger!", LogNotable, c.Name())
	}
}

func hitEntrancement(w *World, z *zapState, c *Creature) bool {
	if c.IsPlayer() || c.Info.Flags.Any(MonstInanimate|MonstInvulnerable) {
		return false
	}
	c.PutStatus(StatusEntranced, entrancementDuration(z.Level))
	if w.CanSeeCreature(c) {
		w.Logf("%s is entranced!", c.Name())
	}
	return true
}

func hitDiscord(w *World, z *zapState, c *Creature) bool {
	if c.IsPlayer() || c.Info.Flags.Any(MonstInanimate|MonstInvulnerable) {
		return false
	}
	c.PutStatus(StatusDiscordant, discordDuration(z.Level))
	if w.CanSeeCreature(c) {
		w.Logf("%s is seized by discord!", c.Name())
	}
	return true
}

func hitHealing(w *World, z *zapState, c *Creature) bool {
	if c.HP >= c.Info.MaxHP {
		return false
	}
	w.Heal(c, healPercent(z.Level))
	switch {
	case c.IsPlayer():
		w.LogStyled("You feel better.", LogNotable)
	case w.CanSeeCreature(c):
		w.Logf("%s looks healthier.", c.Name())
	}
	return true
}

func hitShielding(w *World, z *zapState, c *Creature) bool {
	c.Status[StatusShielded] += staffProtection(z.Level) * shieldUnits
	c.MaxStatus[StatusShielded] = c.Status[StatusShielded]
	switch {
	case c.IsPlayer():
		w.LogStyled("A shimmering shield coalesces around you.", LogNotable)
	case w.CanSeeCreature(c):
		w.Logf("A shimmering shield coalesces around %s.", c.Name())
	}
	return true
}

func landTunneling(w *World, z *zapState) bool {
	if len(z.report.Path) > 0 {
		w.UpdateVision()
	}
	return false
}

// landObstruction fills free cells around the stop cell with crystal.
func landObstruction(w *World, z *zapState) bool {
	n := obstructionCount(z.Level)
	mp := &MapPath{passable: w.Map.Passable}
	nodes := w.PR.BreadthFirstMap(mp, []gruid.Point{z.report.Stop}, n)
	slices.SortStableFunc(nodes, func(a, b paths.Node) int { return a.Cost - b.Cost })
	placed := 0
	for _, nd := range nodes {
		if placed >= n {
			break
		}
		p := nd.P
		if p == z.Origin || w.Map.occupant(p) != NoID || w.Map.HasTerrainFlag(p, TIsStairs) {
			continue
		}
		w.Map.SetTile(p, Forcefield)
		placed++
	}
	if placed == 0 {
		return false
	}
	w.UpdateVision()
	if w.InFOV(z.report.Stop) {
		w.Log("Crystal formations appear.")
	}
	return true
}

// landConjuration summons spectral blades near the stop cell, following
// the caster and vanishing after a while.
func landConjuration(w *World, z *zapState) bool {
	caster := z.caster
	if caster == nil || caster.IsDying() {
		return false
	}
	n := 0
	for range staffBladeCount(z.Level) {
		b := w.NewCreature(SpeciesSpectralBlade)
		p := w.NearestFreeCell(z.report.Stop, b)
		if p == InvalidPos {
			break
		}
		if err := w.AddCreature(b, p); err != nil {
			w.Diag.WithFields(logrus.Fields{"error": err}).Warn("conjuration")
			break
		}
		if err := w.SetLeader(b, caster); err != nil {
			w.Diag.WithFields(logrus.Fields{"error": err}).Warn("conjuration leader")
		}
		b.Bookkeeping |= MBBoundToLeader | MBJustSummoned
		b.PutStatus(StatusLifespanRemaining, bladeLifespan)
		if caster.IsPlayer() || caster.State == Ally {
			b.State = Ally
		} else {
			b.State = TrackingScent
		}
		n++
	}
	if n > 0 && w.InFOV(z.report.Stop) {
		w.Logf("%d spectral blades appear!", n)
	}
	return n > 0
}

// landSpiderweb spins webs at the stop cell and around it.
func landSpiderweb(w *World, z *zapState) bool {
	stop := z.report.Stop
	if stop == z.Origin {
		return false
	}
	spin := func(p gruid.Point) {
		if !w.Map.Passable(p) || w.Map.HasTerrainFlag(p, TPathingBlocker) {
			return
		}
		w.Map.SetTile(p, Spiderweb)
		if c := w.CreatureAt(p); c != nil && c.ID != z.Caster {
			w.ApplyTileEffects(c)
		}
	}
	spin(stop)
	for _, d := range dirs8 {
		if w.rand.RandPercent(50) {
			spin(stop.Add(d))
		}
	}
	return w.InFOV(stop)
}

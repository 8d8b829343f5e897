package brogue

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// SpeciesID identifies a species in a catalog.
type SpeciesID int

// SpeciesInfo describes the characteristics of a species. Each creature
// holds its own copy, which magic may alter.
type SpeciesInfo struct {
	Name             string
	Rune             rune
	MaxHP            int
	Defense          int
	Accuracy         int
	Damage           Range
	MovementDuration int
	AttackDuration   int
	ScentThreshold   int // perception: awareness threshold is three times this
	Bolts            []BoltType
	Flags            MonsterFlags
	Abilities        AbilityFlags
}

// Built-in species.
const (
	SpeciesPlayer SpeciesID = iota
	SpeciesRat
	SpeciesKobold
	SpeciesJackal
	SpeciesEel
	SpeciesMonkey
	SpeciesPinkJelly
	SpeciesGoblin
	SpeciesGoblinConjurer
	SpeciesGoblinMystic
	SpeciesGoblinArcher
	SpeciesVampireBat
	SpeciesArrowTurret
	SpeciesSparkTurret
	SpeciesOgre
	SpeciesBogMonster
	SpeciesSalamander
	SpeciesWillOWisp
	SpeciesWraith
	SpeciesZombie
	SpeciesSpider
	SpeciesPixie
	SpeciesPhantom
	SpeciesCentaur
	SpeciesDarBlademaster
	SpeciesDarPriestess
	SpeciesDarBattlemage
	SpeciesGolem
	SpeciesDragon
	SpeciesMirrorTotem
	SpeciesSpectralBlade
	SpeciesImp
	nBuiltinSpecies
)

const (
	std   = 100 // standard movement and attack duration
	fast  = 50
	slow  = 200
	sense = 20 // standard scent threshold
)

func dmg(lo, hi, clump int) Range { return Range{Min: lo, Max: hi, Clump: clump} }

var builtinSpecies = [nBuiltinSpecies]SpeciesInfo{
	SpeciesPlayer: {Name: "you", Rune: '@', MaxHP: 40, Accuracy: 100, Damage: dmg(1, 2, 1), MovementDuration: std, AttackDuration: std},
	SpeciesRat:    {Name: "rat", Rune: 'r', MaxHP: 6, Accuracy: 80, Damage: dmg(1, 3, 1), MovementDuration: std, AttackDuration: std, ScentThreshold: sense},
	SpeciesKobold: {Name: "kobold", Rune: 'k', MaxHP: 7, Accuracy: 80, Damage: dmg(1, 4, 1), MovementDuration: std, AttackDuration: std, ScentThreshold: sense},
	SpeciesJackal: {Name: "jackal", Rune: 'j', MaxHP: 8, Defense: 3, Accuracy: 70, Damage: dmg(2, 4, 1), MovementDuration: fast, AttackDuration: std, ScentThreshold: sense,
		Abilities: MAAvoidCorridors},
	SpeciesEel: {Name: "eel", Rune: 'e', MaxHP: 18, Defense: 27, Accuracy: 100, Damage: dmg(3, 7, 2), MovementDuration: fast, AttackDuration: std, ScentThreshold: sense,
		Flags: MonstRestrictedToLiquid | MonstImmuneToWater | MonstSubmerges | MonstFlits | MonstNeverSleeps},
	SpeciesMonkey: {Name: "monkey", Rune: 'm', MaxHP: 12, Defense: 17, Accuracy: 100, Damage: dmg(1, 3, 1), MovementDuration: std, AttackDuration: std, ScentThreshold: sense,
		Abilities: MAHitStealFlee},
	SpeciesPinkJelly: {Name: "pink jelly", Rune: 'J', MaxHP: 50, Accuracy: 50, Damage: dmg(1, 3, 1), MovementDuration: std, AttackDuration: std, ScentThreshold: sense,
		Abilities: MAClonesSelfOnDefend},
	SpeciesGoblin: {Name: "goblin", Rune: 'g', MaxHP: 15, Defense: 10, Accuracy: 70, Damage: dmg(2, 5, 1), MovementDuration: std, AttackDuration: std, ScentThreshold: sense},
	SpeciesGoblinConjurer: {Name: "goblin conjurer", Rune: 'g', MaxHP: 10, Defense: 10, Accuracy: 70, Damage: dmg(2, 4, 1), MovementDuration: std, AttackDuration: std, ScentThreshold: sense,
		Bolts: []BoltType{BoltConjuration}, Flags: MonstMaintainsDistance | MonstCastSpellsSlowly | MonstCarryItem25},
	SpeciesGoblinMystic: {Name: "goblin mystic", Rune: 'g', MaxHP: 10, Defense: 10, Accuracy: 70, Damage: dmg(2, 4, 1), MovementDuration: std, AttackDuration: std, ScentThreshold: sense,
		Bolts: []BoltType{BoltShielding}, Flags: MonstMaintainsDistance | MonstCarryItem25},
	SpeciesGoblinArcher: {Name: "goblin archer", Rune: 'g', MaxHP: 15, Defense: 10, Accuracy: 70, Damage: dmg(2, 4, 1), MovementDuration: std, AttackDuration: std, ScentThreshold: sense,
		Bolts: []BoltType{BoltArrow}, Flags: MonstMaintainsDistance},
	SpeciesVampireBat: {Name: "vampire bat", Rune: 'v', MaxHP: 18, Defense: 20, Accuracy: 100, Damage: dmg(2, 6, 1), MovementDuration: fast, AttackDuration: std, ScentThreshold: sense,
		Flags: MonstFlies | MonstFlits},
	SpeciesArrowTurret: {Name: "arrow turret", Rune: 'T', MaxHP: 35, Defense: 90, Accuracy: 90, Damage: dmg(2, 6, 1), MovementDuration: std, AttackDuration: 250, ScentThreshold: sense,
		Bolts: []BoltType{BoltArrow}, Flags: MonstImmobile | MonstAttackableThruWalls | MonstNeverSleeps | MonstAlwaysUseAbility},
	SpeciesSparkTurret: {Name: "spark turret", Rune: 'T', MaxHP: 80, Defense: 0, Accuracy: 100, Damage: dmg(0, 0, 0), MovementDuration: std, AttackDuration: 150, ScentThreshold: sense,
		Bolts: []BoltType{BoltSpark}, Flags: MonstImmobile | MonstAttackableThruWalls | MonstNeverSleeps | MonstAlwaysUseAbility | MonstInanimate},
	SpeciesOgre: {Name: "ogre", Rune: 'O', MaxHP: 55, Defense: 60, Accuracy: 125, Damage: dmg(9, 13, 2), MovementDuration: std, AttackDuration: slow, ScentThreshold: sense,
		Flags: MonstCarryItem25},
	SpeciesBogMonster: {Name: "bog monster", Rune: 'B', MaxHP: 55, Defense: 60, Accuracy: 5000, Damage: dmg(3, 4, 1), MovementDuration: std, AttackDuration: std, ScentThreshold: sense,
		Flags: MonstRestrictedToLiquid | MonstSubmerges | MonstFlits | MonstFleesNearDeath | MonstImmuneToWater, Abilities: MASeizes},
	SpeciesSalamander: {Name: "salamander", Rune: 'S', MaxHP: 60, Defense: 70, Accuracy: 150, Damage: dmg(5, 11, 3), MovementDuration: std, AttackDuration: std, ScentThreshold: sense,
		Flags: MonstImmuneToFire | MonstSubmerges | MonstNeverSleeps | MonstFiery, Abilities: MAHitBurns},
	SpeciesWillOWisp: {Name: "will-o-the-wisp", Rune: 'w', MaxHP: 10, Defense: 90, Accuracy: 100, Damage: dmg(5, 8, 2), MovementDuration: fast, AttackDuration: std, ScentThreshold: sense,
		Flags: MonstImmuneToFire | MonstFlits | MonstNeverSleeps | MonstFiery | MonstDiesIfNegated, Abilities: MAHitBurns},
	SpeciesWraith: {Name: "wraith", Rune: 'W', MaxHP: 50, Defense: 60, Accuracy: 120, Damage: dmg(6, 13, 2), MovementDuration: fast, AttackDuration: std, ScentThreshold: sense,
		Flags: MonstFleesNearDeath},
	SpeciesZombie: {Name: "zombie", Rune: 'Z', MaxHP: 80, Defense: 0, Accuracy: 100, Damage: dmg(7, 12, 1), MovementDuration: slow, AttackDuration: std, ScentThreshold: sense},
	SpeciesSpider: {Name: "spider", Rune: 's', MaxHP: 20, Defense: 70, Accuracy: 120, Damage: dmg(6, 11, 2), MovementDuration: std, AttackDuration: std, ScentThreshold: sense,
		Bolts: []BoltType{BoltSpiderweb}, Flags: MonstImmuneToWebs | MonstCastSpellsSlowly | MonstAlwaysUseAbility, Abilities: MAPoisons},
	SpeciesPixie: {Name: "pixie", Rune: 'p', MaxHP: 10, Defense: 90, Accuracy: 100, Damage: dmg(1, 3, 1), MovementDuration: fast, AttackDuration: std, ScentThreshold: sense,
		Bolts: []BoltType{BoltSpark, BoltSlow, BoltNegation, BoltDiscord}, Flags: MonstMaintainsDistance | MonstFlies | MonstFlits},
	SpeciesPhantom: {Name: "phantom", Rune: 'P', MaxHP: 20, Defense: 70, Accuracy: 160, Damage: dmg(2, 16, 4), MovementDuration: std, AttackDuration: std, ScentThreshold: sense,
		Flags: MonstInvisible | MonstFlits | MonstFlies | MonstImmuneToWebs},
	SpeciesCentaur: {Name: "centaur", Rune: 'C', MaxHP: 35, Defense: 50, Accuracy: 175, Damage: dmg(4, 8, 2), MovementDuration: fast, AttackDuration: std, ScentThreshold: sense,
		Bolts: []BoltType{BoltArrow}, Flags: MonstMaintainsDistance},
	SpeciesDarBlademaster: {Name: "dar blademaster", Rune: 'd', MaxHP: 35, Defense: 70, Accuracy: 160, Damage: dmg(5, 9, 2), MovementDuration: std, AttackDuration: std, ScentThreshold: sense,
		Bolts: []BoltType{BoltBlinking}, Flags: MonstCarryItem25},
	SpeciesDarPriestess: {Name: "dar priestess", Rune: 'd', MaxHP: 20, Defense: 60, Accuracy: 100, Damage: dmg(2, 5, 1), MovementDuration: std, AttackDuration: std, ScentThreshold: sense,
		Bolts: []BoltType{BoltNegation, BoltHealing, BoltHaste}, Flags: MonstMaintainsDistance | MonstFleesNearDeath | MonstCarryItem25},
	SpeciesDarBattlemage: {Name: "dar battlemage", Rune: 'd', MaxHP: 20, Defense: 60, Accuracy: 100, Damage: dmg(1, 3, 1), MovementDuration: std, AttackDuration: std, ScentThreshold: sense,
		Bolts: []BoltType{BoltFire, BoltSlow, BoltDiscord}, Flags: MonstMaintainsDistance | MonstCarryItem25},
	SpeciesGolem: {Name: "golem", Rune: 'G', MaxHP: 400, Defense: 70, Accuracy: 225, Damage: dmg(4, 8, 1), MovementDuration: std, AttackDuration: std, ScentThreshold: sense,
		Flags: MonstReflect4 | MonstDiesIfNegated},
	SpeciesDragon: {Name: "dragon", Rune: 'D', MaxHP: 150, Defense: 90, Accuracy: 250, Damage: dmg(25, 50, 4), MovementDuration: fast, AttackDuration: slow, ScentThreshold: sense,
		Bolts: []BoltType{BoltDragonfire}, Flags: MonstImmuneToFire | MonstCarryItem100},
	SpeciesMirrorTotem: {Name: "mirrored totem", Rune: 'M', MaxHP: 80, Defense: 0, Accuracy: 0, MovementDuration: std, AttackDuration: std, ScentThreshold: sense,
		Flags: MonstImmobile | MonstInanimate | MonstInvulnerable | MonstNeverSleeps, Abilities: MAReflect100},
	SpeciesSpectralBlade: {Name: "spectral blade", Rune: '|', MaxHP: 1, Defense: 0, Accuracy: 70, Damage: dmg(1, 1, 1), MovementDuration: fast, AttackDuration: std, ScentThreshold: sense,
		Flags: MonstInanimate | MonstFlies | MonstNeverSleeps | MonstDiesIfNegated | MonstImmuneToWebs},
	SpeciesImp: {Name: "imp", Rune: 'i', MaxHP: 35, Defense: 90, Accuracy: 225, Damage: dmg(4, 9, 2), MovementDuration: std, AttackDuration: std, ScentThreshold: sense,
		Bolts: []BoltType{BoltBlinking}, Flags: MonstDiesIfNegated, Abilities: MAHitStealFlee},
}

// HordeSpec describes a group of creatures spawned together: a leader and
// its followers.
type HordeSpec struct {
	Leader  SpeciesID
	Members []HordeMember
}

// HordeMember describes followers of a horde.
type HordeMember struct {
	Kind  SpeciesID
	Count Range
}

var builtinHordes = []HordeSpec{
	{Leader: SpeciesJackal, Members: []HordeMember{{SpeciesJackal, dmg(1, 3, 1)}}},
	{Leader: SpeciesGoblinConjurer, Members: []HordeMember{{SpeciesGoblin, dmg(2, 3, 1)}}},
	{Leader: SpeciesGoblin, Members: []HordeMember{{SpeciesGoblin, dmg(1, 2, 1)}, {SpeciesGoblinMystic, dmg(0, 1, 1)}, {SpeciesGoblinArcher, dmg(0, 1, 1)}}},
	{Leader: SpeciesOgre, Members: []HordeMember{{SpeciesGoblin, dmg(0, 2, 1)}}},
	{Leader: SpeciesDarBlademaster, Members: []HordeMember{{SpeciesDarPriestess, dmg(0, 1, 1)}, {SpeciesDarBattlemage, dmg(0, 1, 1)}}},
	{Leader: SpeciesRat},
	{Leader: SpeciesKobold},
	{Leader: SpeciesMonkey},
	{Leader: SpeciesVampireBat},
	{Leader: SpeciesSpider},
}

// Catalog holds the species and hordes a level can be populated with.
type Catalog struct {
	species []SpeciesInfo
	byName  map[string]SpeciesID
	Hordes  []HordeSpec
}

// NewCatalog returns a catalog with the built-in species and hordes.
func NewCatalog() *Catalog {
	cat := &Catalog{
		species: make([]SpeciesInfo, len(builtinSpecies)),
		byName:  make(map[string]SpeciesID, len(builtinSpecies)),
		Hordes:  append([]HordeSpec(nil), builtinHordes...),
	}
	copy(cat.species, builtinSpecies[:])
	for i, si := range cat.species {
		cat.byName[si.Name] = SpeciesID(i)
	}
	return cat
}

// Len returns the number of species.
func (cat *Catalog) Len() int {
	return len(cat.species)
}

// Info returns a copy of the characteristics of a species.
func (cat *Catalog) Info(id SpeciesID) SpeciesInfo {
	si := cat.species[id]
	si.Bolts = append([]BoltType(nil), si.Bolts...)
	return si
}

// Lookup returns the species with the given name.
func (cat *Catalog) Lookup(name string) (SpeciesID, bool) {
	id, ok := cat.byName[name]
	return id, ok
}

// SpeciesSpec is the serialized form of a species.
type SpeciesSpec struct {
	Name           string   `yaml:"name"`
	Glyph          string   `yaml:"glyph"`
	HP             int      `yaml:"hp"`
	Defense        int      `yaml:"defense"`
	Accuracy       int      `yaml:"accuracy"`
	Damage         Range    `yaml:"damage"`
	MoveDuration   int      `yaml:"move_duration"`
	AttackDuration int      `yaml:"attack_duration"`
	Perception     int      `yaml:"perception"`
	Bolts          []string `yaml:"bolts"`
	Flags          []string `yaml:"flags"`
	Abilities      []string `yaml:"abilities"`
}

var monsterFlagNames = map[string]MonsterFlags{
	"invisible":             MonstInvisible,
	"inanimate":             MonstInanimate,
	"immobile":              MonstImmobile,
	"carry_item_25":         MonstCarryItem25,
	"carry_item_100":        MonstCarryItem100,
	"always_hunting":        MonstAlwaysHunting,
	"flees_near_death":      MonstFleesNearDeath,
	"attackable_thru_walls": MonstAttackableThruWalls,
	"immune_to_fire":        MonstImmuneToFire,
	"immune_to_webs":        MonstImmuneToWebs,
	"immune_to_water":       MonstImmuneToWater,
	"restricted_to_liquid":  MonstRestrictedToLiquid,
	"submerges":             MonstSubmerges,
	"flies":                 MonstFlies,
	"flits":                 MonstFlits,
	"maintains_distance":    MonstMaintainsDistance,
	"reflect_4":             MonstReflect4,
	"dies_if_negated":       MonstDiesIfNegated,
	"never_sleeps":          MonstNeverSleeps,
	"fiery":                 MonstFiery,
	"invulnerable":          MonstInvulnerable,
	"cast_spells_slowly":    MonstCastSpellsSlowly,
	"always_use_ability":    MonstAlwaysUseAbility,
	"unique":                MonstUnique,
}

var abilityNames = map[string]AbilityFlags{
	"hit_steal_flee":        MAHitStealFlee,
	"reflect_100":           MAReflect100,
	"clones_self_on_defend": MAClonesSelfOnDefend,
	"avoid_corridors":       MAAvoidCorridors,
	"poisons":               MAPoisons,
	"hit_burns":             MAHitBurns,
	"seizes":                MASeizes,
}

// info converts a serialized species into species characteristics.
func (spec SpeciesSpec) info() (SpeciesInfo, error) {
	si := SpeciesInfo{
		Name:             strings.TrimSpace(spec.Name),
		MaxHP:            spec.HP,
		Defense:          spec.Defense,
		Accuracy:         spec.Accuracy,
		Damage:           spec.Damage,
		MovementDuration: spec.MoveDuration,
		AttackDuration:   spec.AttackDuration,
		ScentThreshold:   spec.Perception,
	}
	if si.Name == "" {
		return si, fmt.Errorf("species without name")
	}
	if utf8.RuneCountInString(spec.Glyph) != 1 {
		return si, fmt.Errorf("species %s: glyph must be a single character", si.Name)
	}
	si.Rune, _ = utf8.DecodeRuneInString(spec.Glyph)
	if si.MaxHP <= 0 {
		return si, fmt.Errorf("species %s: invalid hp %d", si.Name, si.MaxHP)
	}
	if si.Damage.Max < si.Damage.Min {
		return si, fmt.Errorf("species %s: invalid damage range", si.Name)
	}
	if si.MovementDuration == 0 {
		si.MovementDuration = std
	}
	if si.AttackDuration == 0 {
		si.AttackDuration = std
	}
	if si.ScentThreshold == 0 {
		si.ScentThreshold = sense
	}
	for _, name := range spec.Bolts {
		bt, ok := BoltByName(name)
		if !ok {
			return si, fmt.Errorf("species %s: unknown bolt %q", si.Name, name)
		}
		si.Bolts = append(si.Bolts, bt)
	}
	for _, name := range spec.Flags {
		f, ok := monsterFlagNames[name]
		if !ok {
			return si, fmt.Errorf("species %s: unknown flag %q", si.Name, name)
		}
		si.Flags |= f
	}
	for _, name := range spec.Abilities {
		f, ok := abilityNames[name]
		if !ok {
			return si, fmt.Errorf("species %s: unknown ability %q", si.Name, name)
		}
		si.Abilities |= f
	}
	return si, nil
}

// Add adds a new species, or replaces the built-in species with the same
// name.
func (cat *Catalog) Add(spec SpeciesSpec) (SpeciesID, error) {
	si, err := spec.info()
	if err != nil {
		return -1, err
	}
	if id, ok := cat.byName[si.Name]; ok {
		if id == SpeciesPlayer {
			return -1, fmt.Errorf("species %s: reserved name", si.Name)
		}
		cat.species[id] = si
		return id, nil
	}
	id := SpeciesID(len(cat.species))
	cat.species = append(cat.species, si)
	cat.byName[si.Name] = id
	return id, nil
}

// ParseSpecies decodes a YAML list of species.
func ParseSpecies(data []byte) ([]SpeciesSpec, error) {
	var specs []SpeciesSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("decoding species: %w", err)
	}
	return specs, nil
}

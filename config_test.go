package brogue

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testConfigYAML = `
seed: 42
log_level: debug
log_format: json
max_reflections: 3
player:
  max_hp: 60
  stealth_bonus: 2
  reflection_enchant: 5
species:
  - name: cave troll
    glyph: T
    hp: 65
    defense: 70
    accuracy: 125
    damage: {min: 10, max: 15, clump: 3}
    flags: [flees_near_death]
  - name: goblin
    glyph: g
    hp: 20
    damage: {min: 2, max: 5, clump: 1}
    bolts: [spark]
`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(testConfigYAML))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Seed != 42 || cfg.MaxReflect != 3 || cfg.LogFormat != "json" {
		t.Errorf("bad config: %+v", cfg)
	}
	if cfg.Player.MaxHP != 60 || cfg.Player.ReflectEnchant != 5 || cfg.Player.Accuracy != 100 {
		t.Errorf("bad player config: %+v", cfg.Player)
	}
	if cfg.WaitTicks != 100 || cfg.ScentTurnStep != 3 {
		t.Error("defaults not kept")
	}
	if len(cfg.Species) != 2 {
		t.Fatalf("%d species", len(cfg.Species))
	}
	empty, err := ParseConfig(nil)
	if err != nil {
		t.Fatal(err)
	}
	if empty.MaxReflect != DefaultConfig().MaxReflect {
		t.Error("empty config does not give defaults")
	}
}

func TestParseConfigErrors(t *testing.T) {
	for _, data := range []string{
		"unknown_key: 3",
		"wait_ticks: 0",
		"scent_turn_step: -1",
		"max_reflections: -1",
		"log_level: loud",
		"log_format: xml",
		"player: {max_hp: 0}",
		"seed: [1, 2]",
	} {
		if _, err := ParseConfig([]byte(data)); err == nil {
			t.Errorf("config %q accepted", data)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brogue.yaml")
	if err := os.WriteFile(path, []byte(testConfigYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Seed != 42 {
		t.Errorf("seed %d", cfg.Seed)
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file loaded")
	}
}

func TestConfigSpecies(t *testing.T) {
	cfg, err := ParseConfig([]byte(testConfigYAML))
	if err != nil {
		t.Fatal(err)
	}
	cfg = cfg.WithLogOutput(&bytes.Buffer{})
	w, err := NewWorld(cfg)
	if err != nil {
		t.Fatal(err)
	}
	troll, ok := w.Catalog.Lookup("cave troll")
	if !ok || int(troll) != int(nBuiltinSpecies) {
		t.Fatalf("troll not added: %d %v", troll, ok)
	}
	info := w.Catalog.Info(troll)
	if info.Rune != 'T' || info.MaxHP != 65 || !info.Flags.Any(MonstFleesNearDeath) {
		t.Errorf("troll: %+v", info)
	}
	if info.MovementDuration != 100 || info.ScentThreshold == 0 {
		t.Error("species defaults not applied")
	}
	g := w.Catalog.Info(SpeciesGoblin)
	if g.MaxHP != 20 || len(g.Bolts) != 1 || g.Bolts[0] != BoltSpark {
		t.Errorf("goblin not replaced: %+v", g)
	}
	if w.Catalog.Len() != int(nBuiltinSpecies)+1 {
		t.Errorf("%d species", w.Catalog.Len())
	}
}

func TestCatalogAddErrors(t *testing.T) {
	cat := NewCatalog()
	for _, spec := range []SpeciesSpec{
		{Glyph: "x", HP: 3},
		{Name: "blob", Glyph: "xy", HP: 3},
		{Name: "blob", Glyph: "x", HP: 0},
		{Name: "blob", Glyph: "x", HP: 3, Damage: Range{Min: 5, Max: 2}},
		{Name: "blob", Glyph: "x", HP: 3, Bolts: []string{"fireball"}},
		{Name: "blob", Glyph: "x", HP: 3, Flags: []string{"huge"}},
		{Name: "blob", Glyph: "x", HP: 3, Abilities: []string{"sings"}},
		{Name: "you", Glyph: "@", HP: 3},
	} {
		if _, err := cat.Add(spec); err == nil {
			t.Errorf("species %+v accepted", spec)
		}
	}
	if cat.Len() != int(nBuiltinSpecies) {
		t.Error("invalid species added")
	}
}

func TestParseSpecies(t *testing.T) {
	specs, err := ParseSpecies([]byte(`
- name: fury
  glyph: f
  hp: 19
  damage: {min: 6, max: 11, clump: 4}
  move_duration: 50
  flags: [flies, never_sleeps]
  abilities: [hit_burns]
`))
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 1 || specs[0].MoveDuration != 50 || len(specs[0].Flags) != 2 {
		t.Fatalf("species: %+v", specs)
	}
	cat := NewCatalog()
	id, err := cat.Add(specs[0])
	if err != nil {
		t.Fatal(err)
	}
	if info := cat.Info(id); !info.Flags.Any(MonstFlies) || !info.Abilities.Any(MAHitBurns) {
		t.Errorf("fury: %+v", info)
	}
	if _, err := ParseSpecies([]byte("name: [")); err == nil {
		t.Error("bad YAML accepted")
	}
}

func TestBuiltinSpeciesNames(t *testing.T) {
	cat := NewCatalog()
	for id := SpeciesPlayer; id < nBuiltinSpecies; id++ {
		info := cat.Info(id)
		if info.Name == "" || info.MaxHP <= 0 {
			t.Errorf("species %d: %+v", id, info)
		}
		if got, ok := cat.Lookup(info.Name); !ok || got != id {
			t.Errorf("duplicate species name %q", info.Name)
		}
	}
}

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.LogFormat = "json"
	cfg = cfg.WithLogOutput(&buf)
	l := cfg.NewLogger()
	l.WithField("id", 3).Info("spawned")
	if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), `"id":3`) {
		t.Errorf("json log line: %q", buf.String())
	}
	buf.Reset()
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Error("debug line logged at info level")
	}
}

func TestLogsMessages(t *testing.T) {
	l := &Logs{}
	l.Message("the goblin hits you.", LogHurtPlayer)
	l.Message("the goblin hits you.", LogHurtPlayer)
	l.EndTurn()
	l.Message("the goblin hits you.", LogHurtPlayer)
	last := l.Last(5)
	if len(last) != 2 {
		t.Fatalf("%d entries: %v", len(last), last)
	}
	if last[0].Text != "The goblin hits you." {
		t.Errorf("message not capitalized: %q", last[0].Text)
	}
	if !strings.Contains(last[0].String(), "2") {
		t.Errorf("duplicate not merged: %q", last[0].String())
	}
}

package brogue

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config contains the engine configuration, usually read from a YAML file.
type Config struct {
	Seed          uint64        `yaml:"seed"`
	Debug         bool          `yaml:"debug"`           // panic on invariant violations
	LogLevel      string        `yaml:"log_level"`       // logrus level name
	LogFormat     string        `yaml:"log_format"`      // "text" or "json"
	WaitTicks     int           `yaml:"wait_ticks"`      // cost of resting
	ScentTurnStep int           `yaml:"scent_turn_step"` // scent aging per player turn
	MaxReflect    int           `yaml:"max_reflections"` // reflections allowed per bolt
	Player        PlayerConfig  `yaml:"player"`
	Species       []SpeciesSpec `yaml:"species"`

	logOutput io.Writer
}

// PlayerConfig describes the player's starting modifiers.
type PlayerConfig struct {
	MaxHP          int  `yaml:"max_hp"`
	Accuracy       int  `yaml:"accuracy"`
	Defense        int  `yaml:"defense"`
	StealthBonus   int  `yaml:"stealth_bonus"`
	ReflectEnchant int  `yaml:"reflection_enchant"`
	Respiration    bool `yaml:"respiration"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Seed:          1,
		LogLevel:      "info",
		LogFormat:     "text",
		WaitTicks:     100,
		ScentTurnStep: 3,
		MaxReflect:    10,
		Player: PlayerConfig{
			MaxHP:    40,
			Accuracy: 100,
			Defense:  0,
		},
	}
}

// ParseConfig decodes a YAML configuration on top of the defaults. Unknown
// keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and decodes the YAML configuration file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	return ParseConfig(data)
}

// Validate checks configuration values.
func (cfg Config) Validate() error {
	if cfg.WaitTicks <= 0 {
		return fmt.Errorf("invalid wait_ticks: %d", cfg.WaitTicks)
	}
	if cfg.ScentTurnStep <= 0 {
		return fmt.Errorf("invalid scent_turn_step: %d", cfg.ScentTurnStep)
	}
	if cfg.MaxReflect < 0 {
		return fmt.Errorf("invalid max_reflections: %d", cfg.MaxReflect)
	}
	if cfg.Player.MaxHP <= 0 {
		return fmt.Errorf("invalid player max_hp: %d", cfg.Player.MaxHP)
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	switch strings.ToLower(cfg.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log_format: %q", cfg.LogFormat)
	}
	return nil
}

// WithLogOutput returns a copy of the configuration whose diagnostics are
// written to out instead of standard error.
func (cfg Config) WithLogOutput(out io.Writer) Config {
	cfg.logOutput = out
	return cfg
}

// NewLogger returns a diagnostics logger set up according to the
// configuration.
func (cfg Config) NewLogger() *logrus.Logger {
	l := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	if strings.ToLower(cfg.LogFormat) == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if cfg.logOutput != nil {
		l.SetOutput(cfg.logOutput)
	} else {
		l.SetOutput(os.Stderr)
	}
	return l
}

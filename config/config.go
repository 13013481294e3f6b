package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"fretloop/fretboard"
)

// OutputConfig defines the synth MIDI output
type OutputConfig struct {
	PortName       string `yaml:"portName,omitempty"`
	ChordChannel   uint8  `yaml:"chordChannel"`
	MelodyChannel  uint8  `yaml:"melodyChannel"`
	ChordVelocity  uint8  `yaml:"chordVelocity"`
	MelodyVelocity uint8  `yaml:"melodyVelocity"`
}

// InputConfig selects the MIDI keyboard used to toggle scale steps
type InputConfig struct {
	PortMatch string `yaml:"portMatch,omitempty"`
	Enabled   bool   `yaml:"enabled"`
}

// ClockConfig is read once at startup
type ClockConfig struct {
	Tempo           int `yaml:"tempo"`
	BeatsPerMeasure int `yaml:"beatsPerMeasure"`
}

// InstrumentConfig describes the fretboard
type InstrumentConfig struct {
	Tuning []string `yaml:"tuning"`
	Frets  int      `yaml:"frets"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	Palette string `yaml:"palette,omitempty"` // GIMP .gpl path, built-in if empty
}

// Config is the main configuration structure
type Config struct {
	Output     OutputConfig     `yaml:"output"`
	Input      InputConfig      `yaml:"input"`
	Clock      ClockConfig      `yaml:"clock"`
	Instrument InstrumentConfig `yaml:"instrument"`
	UI         UIConfig         `yaml:"ui,omitempty"`
	Debug      bool             `yaml:"debug,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			ChordChannel:   0,
			MelodyChannel:  1,
			ChordVelocity:  64, // chord sits under the melody
			MelodyVelocity: 90,
		},
		Input: InputConfig{Enabled: true},
		Clock: ClockConfig{
			Tempo:           120,
			BeatsPerMeasure: 4,
		},
		Instrument: InstrumentConfig{
			Tuning: fretboard.StandardTuning.Strings(),
			Frets:  fretboard.DefaultFrets,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "fretloop"), nil
}

// ConfigPath returns the full path to config.yaml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DebugLogPath returns where the debug log is written
func DebugLogPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "debug.log"), nil
}

// Load reads the config file at the default path, or returns defaults if
// it does not exist. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := DefaultConfig()
		return cfg, cfg.ApplyEnv()
	}
	return LoadFile(path)
}

// LoadFile reads one config file; missing fields keep their defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadDotEnv loads a .env file into the process environment if present.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// ApplyEnv overrides fields from FRETLOOP_* variables.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv("FRETLOOP_OUTPUT_PORT"); ok {
		c.Output.PortName = v
	}
	if v, ok := os.LookupEnv("FRETLOOP_INPUT_PORT"); ok {
		c.Input.PortMatch = v
	}
	if v, ok := os.LookupEnv("FRETLOOP_TEMPO"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FRETLOOP_TEMPO: %w", err)
		}
		c.Clock.Tempo = n
	}
	if v, ok := os.LookupEnv("FRETLOOP_DEBUG"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("FRETLOOP_DEBUG: %w", err)
		}
		c.Debug = b
	}
	return nil
}

// Validate checks ranges the engine relies on.
func (c *Config) Validate() error {
	if c.Clock.Tempo < 20 || c.Clock.Tempo > 300 {
		return fmt.Errorf("tempo %d outside 20-300", c.Clock.Tempo)
	}
	if c.Clock.BeatsPerMeasure < 1 || c.Clock.BeatsPerMeasure > 16 {
		return fmt.Errorf("beatsPerMeasure %d outside 1-16", c.Clock.BeatsPerMeasure)
	}
	if c.Output.ChordChannel > 15 || c.Output.MelodyChannel > 15 {
		return fmt.Errorf("midi channels must be 0-15")
	}
	if c.Output.ChordVelocity > 127 || c.Output.MelodyVelocity > 127 {
		return fmt.Errorf("velocities must be 0-127")
	}
	tuning, err := c.Tuning()
	if err != nil {
		return err
	}
	if _, err := fretboard.NewGrid(tuning, c.Instrument.Frets); err != nil {
		return fmt.Errorf("instrument: %w", err)
	}
	return nil
}

// Tuning parses the instrument tuning.
func (c *Config) Tuning() (fretboard.Tuning, error) {
	t, err := fretboard.ParseTuning(c.Instrument.Tuning)
	if err != nil {
		return nil, fmt.Errorf("instrument tuning: %w", err)
	}
	return t, nil
}

// Save writes the config to the default path
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config as YAML, creating the directory.
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

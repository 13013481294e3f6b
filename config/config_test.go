package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fretloop/fretboard"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Clock.Tempo)
	assert.Equal(t, 4, cfg.Clock.BeatsPerMeasure)
	assert.Equal(t, fretboard.DefaultFrets, cfg.Instrument.Frets)

	tun, err := cfg.Tuning()
	require.NoError(t, err)
	assert.Equal(t, fretboard.StandardTuning, tun)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "config.yaml")
	cfg := DefaultConfig()
	cfg.Output.PortName = "FluidSynth"
	cfg.Clock.Tempo = 90
	cfg.Instrument.Tuning = []string{"D5", "A4", "F4", "C4", "G3", "C3"}
	require.NoError(t, cfg.SaveFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("clock:\n  tempo: 100\n"), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Clock.Tempo)
	assert.Equal(t, 4, cfg.Clock.BeatsPerMeasure)
	assert.Equal(t, uint8(1), cfg.Output.MelodyChannel)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"slow", func(c *Config) { c.Clock.Tempo = 5 }},
		{"beats", func(c *Config) { c.Clock.BeatsPerMeasure = 0 }},
		{"channel", func(c *Config) { c.Output.MelodyChannel = 16 }},
		{"tuning", func(c *Config) { c.Instrument.Tuning = []string{"E5"} }},
		{"pitch", func(c *Config) { c.Instrument.Tuning[0] = "X5" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, DefaultConfig().Validate())
}

func TestValidateKeepsEveryFretInMIDIRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Instrument.Tuning = []string{"E12", "B4", "G4", "D4", "A3", "E3"}
	assert.ErrorIs(t, cfg.Validate(), fretboard.ErrPitchOutOfRange)

	cfg = DefaultConfig()
	cfg.Instrument.Tuning = []string{"E5", "B4", "G4", "D4", "A3", "C-3"}
	assert.ErrorIs(t, cfg.Validate(), fretboard.ErrPitchOutOfRange)

	cfg = DefaultConfig()
	cfg.Instrument.Frets = 0
	assert.ErrorIs(t, cfg.Validate(), fretboard.ErrFretOutOfRange)

	cfg = DefaultConfig()
	cfg.Instrument.Frets = 200
	assert.ErrorIs(t, cfg.Validate(), fretboard.ErrPitchOutOfRange)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("FRETLOOP_OUTPUT_PORT", "Surge")
	t.Setenv("FRETLOOP_TEMPO", "140")
	t.Setenv("FRETLOOP_DEBUG", "true")

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "Surge", cfg.Output.PortName)
	assert.Equal(t, 140, cfg.Clock.Tempo)
	assert.True(t, cfg.Debug)

	t.Setenv("FRETLOOP_TEMPO", "fast")
	assert.Error(t, DefaultConfig().ApplyEnv())
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("FRETLOOP_INPUT_PORT=Keystation\n"), 0644))
	t.Setenv("FRETLOOP_INPUT_PORT", "")
	os.Unsetenv("FRETLOOP_INPUT_PORT")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "Keystation", os.Getenv("FRETLOOP_INPUT_PORT"))

	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}

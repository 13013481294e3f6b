package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fretloop/fretboard"
	"fretloop/midi"
	"fretloop/sequencer"
	"fretloop/theme"
)

type nullOutput struct{}

func (nullOutput) Ready(ctx context.Context) error { return nil }
func (nullOutput) Send(evt midi.Event) error       { return nil }

func newTestModel(t *testing.T) Model {
	t.Helper()
	grid, err := fretboard.NewGrid(fretboard.StandardTuning, fretboard.DefaultFrets)
	require.NoError(t, err)
	voices := sequencer.Voices{
		Chord:  sequencer.Voice{Channel: 0, Velocity: 64},
		Melody: sequencer.Voice{Channel: 1, Velocity: 90},
	}
	mgr := sequencer.NewManager(grid, nullOutput{}, sequencer.NewClock(120, 4), voices)
	t.Cleanup(mgr.Close)
	return NewModel(context.Background(), mgr, nil, theme.New(nil))
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
		m = next.(Model)
	}
	return m
}

func TestToggleFretFromCursor(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "j", "l", "l", "l", " ")

	assert.True(t, m.Manager.View().Selection.Has(fretboard.Coord{Str: 1, Fret: 3}))
	assert.Empty(t, m.status)
}

func TestCursorStaysOnBoard(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "h", "k")
	assert.Zero(t, m.row)
	assert.Zero(t, m.col)

	for i := 0; i < 30; i++ {
		m = press(t, m, "l")
	}
	assert.Equal(t, fretboard.DefaultFrets-1, m.col)

	// dropping onto the step row clamps to twelve columns
	for i := 0; i < 10; i++ {
		m = press(t, m, "j")
	}
	assert.Equal(t, fretboard.NumStrings, m.row)
	assert.Equal(t, fretboard.NumSteps-1, m.col)

	m = press(t, m, " ")
	assert.True(t, m.Manager.View().Steps.Has(11))
}

func TestRootKeys(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "[")
	assert.Equal(t, fretboard.B, m.Manager.View().Root())
	m = press(t, m, "]", "]")
	assert.Equal(t, fretboard.CSharp, m.Manager.View().Root())
}

func TestPlayKey(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "p")
	assert.Equal(t, sequencer.Stopped, m.Manager.GetState(), "nothing selected")

	m = press(t, m, " ", "p")
	assert.Equal(t, sequencer.Running, m.Manager.GetState())
	assert.Contains(t, m.View(), "PLAY")

	m = press(t, m, "p")
	assert.Equal(t, sequencer.Stopped, m.Manager.GetState())
}

func TestViewRendersBoard(t *testing.T) {
	m := newTestModel(t)
	out := m.View()
	assert.Contains(t, out, "fretloop")
	assert.Contains(t, out, "E5")
	assert.Contains(t, out, "E3")
	assert.Contains(t, out, "select a fret to start")

	m = press(t, m, " ")
	assert.NotContains(t, m.View(), "select a fret to start")
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Empty(t, next.(Model).View())
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(t)
	assert.NotContains(t, m.View(), "Playback")
	m = press(t, m, "?")
	assert.Contains(t, m.View(), "Playback")
	assert.Contains(t, m.View(), "in scale")
	m = press(t, m, "?")
	assert.NotContains(t, m.View(), "Playback")
}

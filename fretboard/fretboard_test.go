package fretboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func standardGrid(t *testing.T) *Grid {
	t.Helper()
	g, err := NewGrid(StandardTuning, 25)
	require.NoError(t, err)
	return g
}

func TestPitchAt(t *testing.T) {
	g := standardGrid(t)

	assert.Equal(t, C, g.PitchAt(4, 3)) // A3 + 3
	assert.Equal(t, E, g.PitchAt(0, 0))
	assert.Equal(t, F, g.PitchAt(0, 1))
	assert.Equal(t, "D#", g.PitchAt(5, 11).String())

	for s := 0; s < g.Strings(); s++ {
		for f := 0; f+12 < g.Frets(); f++ {
			assert.Equal(t, g.PitchAt(s, f), g.PitchAt(s, f+12), "string %d fret %d", s, f)
		}
	}
}

func TestPitchAbsAt(t *testing.T) {
	g := standardGrid(t)

	assert.Equal(t, Pitch{E, 6}, g.PitchAbsAt(0, 12))
	assert.Equal(t, "C3", g.PitchAbsAt(4, 3).String(), "octave only moves every 12 frets")
	assert.Equal(t, Pitch{B, 4}, g.PitchAbsAt(1, 0))

	for s := 0; s < g.Strings(); s++ {
		for f := 0; f+12 < g.Frets(); f++ {
			assert.Equal(t, g.PitchAbsAt(s, f).Octave+1, g.PitchAbsAt(s, f+12).Octave)
		}
	}
}

func TestGridCheck(t *testing.T) {
	g := standardGrid(t)

	tests := []struct {
		coord Coord
		err   error
	}{
		{Coord{0, 0}, nil},
		{Coord{5, 24}, nil},
		{Coord{-1, 0}, ErrStringOutOfRange},
		{Coord{6, 0}, ErrStringOutOfRange},
		{Coord{0, -1}, ErrFretOutOfRange},
		{Coord{0, 25}, ErrFretOutOfRange},
	}
	for _, tt := range tests {
		err := g.Check(tt.coord)
		if tt.err == nil {
			assert.NoError(t, err, tt.coord.String())
		} else {
			assert.ErrorIs(t, err, tt.err, tt.coord.String())
		}
	}
}

func TestNewGridRejectsBadTuning(t *testing.T) {
	_, err := NewGrid(StandardTuning[:5], 19)
	assert.ErrorIs(t, err, ErrTuningLength)

	_, err = NewGrid(StandardTuning, 0)
	assert.ErrorIs(t, err, ErrFretOutOfRange)
}

func TestNewGridRejectsPitchesOffTheKeyboard(t *testing.T) {
	tuning := func(first, last Pitch) Tuning {
		tun := append(Tuning(nil), StandardTuning...)
		tun[0], tun[5] = first, last
		return tun
	}

	_, err := NewGrid(tuning(Pitch{E, 12}, Pitch{E, 3}), DefaultFrets)
	assert.ErrorIs(t, err, ErrPitchOutOfRange)
	_, err = NewGrid(tuning(Pitch{E, 5}, Pitch{C, -3}), DefaultFrets)
	assert.ErrorIs(t, err, ErrPitchOutOfRange)

	// G9 is key 127: the open string fits, one fret above it does not
	_, err = NewGrid(tuning(Pitch{G, 9}, Pitch{C, -1}), 1)
	assert.NoError(t, err)
	_, err = NewGrid(tuning(Pitch{G, 9}, Pitch{C, -1}), 2)
	assert.ErrorIs(t, err, ErrPitchOutOfRange)
}

func TestParsePitch(t *testing.T) {
	p, err := ParsePitch("C#-1")
	require.NoError(t, err)
	assert.Equal(t, Pitch{CSharp, -1}, p)
	assert.Equal(t, 1, p.MIDI())

	p, err = ParsePitch("A4")
	require.NoError(t, err)
	assert.Equal(t, 69, p.MIDI())
	assert.Equal(t, p, PitchFromMIDI(69))

	for _, bad := range []string{"", "5", "H2", "Db3", "E"} {
		_, err := ParsePitch(bad)
		assert.Error(t, err, bad)
	}
	_, err = ParsePitch("Db3")
	assert.ErrorIs(t, err, ErrUnknownNote)
}

func TestParseTuning(t *testing.T) {
	tun, err := ParseTuning([]string{"E5", "B4", "G4", "D4", "A3", "E3"})
	require.NoError(t, err)
	assert.Equal(t, StandardTuning, tun)
	assert.Equal(t, []string{"E5", "B4", "G4", "D4", "A3", "E3"}, tun.Strings())

	_, err = ParseTuning([]string{"E5"})
	assert.ErrorIs(t, err, ErrTuningLength)
}

func TestRotate(t *testing.T) {
	c := CanonicalChromatic()

	g, ok := c.Rotate(G)
	require.True(t, ok)
	assert.Equal(t,
		[]string{"G", "G#", "A", "A#", "B", "C", "C#", "D", "D#", "E", "F", "F#"},
		g.Names())
	assert.Equal(t, G, g.Root())

	// rotation is relative to the current ordering
	d, ok := g.Rotate(D)
	require.True(t, ok)
	assert.Equal(t, D, d.Root())
	assert.Equal(t, DSharp, d[1])
}

func TestRotateFullCycle(t *testing.T) {
	start := CanonicalChromatic()
	c := start
	for i := 0; i < 12; i++ {
		var ok bool
		c, ok = c.Rotate(Note((i * 7) % 12))
		require.True(t, ok)

		seen := map[Note]bool{}
		for _, n := range c {
			seen[n] = true
		}
		assert.Len(t, seen, 12, "rotation must stay a permutation")
	}
	c, _ = c.Rotate(start.Root())
	assert.Equal(t, start, c)
}

func TestRotateMissingRoot(t *testing.T) {
	c := CanonicalChromatic()
	got, ok := c.Rotate(Note(12))
	assert.False(t, ok)
	assert.Equal(t, c, got)
}

func TestStepMarks(t *testing.T) {
	var m StepMarks
	assert.True(t, m.Empty())
	assert.Empty(t, m.Resolve(CanonicalChromatic()))

	for _, s := range []int{7, 0, 4} {
		require.NoError(t, m.Toggle(s))
	}
	assert.Equal(t, []int{0, 4, 7}, m.Steps())
	assert.Equal(t, 3, m.Len())

	a, _ := CanonicalChromatic().Rotate(A)
	assert.Equal(t, []Note{A, CSharp, E}, m.Resolve(a))
	assert.Len(t, m.Resolve(a), m.Len())

	require.NoError(t, m.Toggle(4))
	assert.Equal(t, []int{0, 7}, m.Steps())

	assert.ErrorIs(t, m.Toggle(12), ErrStepOutOfRange)
	assert.ErrorIs(t, m.Toggle(-1), ErrStepOutOfRange)
	assert.Equal(t, []int{0, 7}, m.Steps(), "rejected toggles leave marks alone")
}

func TestSelectionToggle(t *testing.T) {
	var s Selection

	s.Toggle(Coord{0, 3})
	s.Toggle(Coord{0, 3})
	assert.True(t, s.Empty())

	s.Toggle(Coord{0, 3})
	s.Toggle(Coord{0, 5})
	assert.Equal(t, []Coord{{0, 5}}, s.Coords())
	assert.False(t, s.Has(Coord{0, 3}))

	s.Toggle(Coord{0, 0})
	assert.Equal(t, []Coord{{0, 0}}, s.Coords(), "open string is a fret like any other")
}

func TestSelectionInvolution(t *testing.T) {
	var s Selection
	s.Toggle(Coord{2, 2})
	s.Toggle(Coord{4, 3})
	before := s

	// an untouched string or the engaged fret itself comes back unchanged
	for _, c := range []Coord{{1, 1}, {0, 0}, {2, 2}, {4, 3}} {
		s.Toggle(c)
		s.Toggle(c)
		assert.Equal(t, before, s, c.String())
	}
}

func TestSelectionToggleEvictsSameString(t *testing.T) {
	var s Selection
	s.Toggle(Coord{2, 2})
	s.Toggle(Coord{4, 3})

	s.Toggle(Coord{2, 7})
	assert.Equal(t, []Coord{{2, 7}, {4, 3}}, s.Coords())

	// toggling the newcomer again leaves the string open, not back on fret 2
	s.Toggle(Coord{2, 7})
	assert.Equal(t, []Coord{{4, 3}}, s.Coords())
	assert.False(t, s.Has(Coord{2, 2}))
}

func TestSelectionResolve(t *testing.T) {
	g := standardGrid(t)
	var s Selection
	s.Toggle(Coord{4, 3})
	s.Toggle(Coord{0, 12})

	assert.Equal(t, []Pitch{{E, 6}, {C, 3}}, s.Resolve(g))
	assert.Equal(t, 2, s.Len())

	s.Clear()
	assert.Empty(t, s.Resolve(g))
}

package fretboard

import "fmt"

const (
	NumStrings = 6
	// DefaultFrets covers the open string plus 18 frets.
	DefaultFrets = 19
)

// StandardTuning is high E to low E, one octave above concert pitch.
var StandardTuning = Tuning{
	{E, 5}, {B, 4}, {G, 4}, {D, 4}, {A, 3}, {E, 3},
}

// Tuning holds the open pitch of each string; index 0 is the highest string.
type Tuning []Pitch

// ParseTuning builds a tuning from names like "E5".
func ParseTuning(names []string) (Tuning, error) {
	if len(names) != NumStrings {
		return nil, fmt.Errorf("got %d strings: %w", len(names), ErrTuningLength)
	}
	t := make(Tuning, len(names))
	for i, name := range names {
		p, err := ParsePitch(name)
		if err != nil {
			return nil, fmt.Errorf("string %d: %w", i, err)
		}
		t[i] = p
	}
	return t, nil
}

// Strings returns the tuning as pitch names.
func (t Tuning) Strings() []string {
	out := make([]string, len(t))
	for i, p := range t {
		out[i] = p.String()
	}
	return out
}

// Coord identifies a playable position on the board.
type Coord struct {
	Str  int
	Fret int
}

func (c Coord) String() string {
	return fmt.Sprintf("%d-%d", c.Str, c.Fret)
}

// Grid maps board coordinates to pitches. It is immutable.
type Grid struct {
	tuning Tuning
	frets  int
}

// NewGrid copies the tuning so later changes to the slice do not leak in.
func NewGrid(tuning Tuning, frets int) (*Grid, error) {
	if len(tuning) != NumStrings {
		return nil, fmt.Errorf("got %d strings: %w", len(tuning), ErrTuningLength)
	}
	if frets < 1 {
		return nil, fmt.Errorf("fret count %d: %w", frets, ErrFretOutOfRange)
	}
	t := make(Tuning, len(tuning))
	copy(t, tuning)
	g := &Grid{tuning: t, frets: frets}

	// every fret has to map onto a MIDI key
	for s, open := range t {
		if open.MIDI() < 0 {
			return nil, fmt.Errorf("string %d open %s: %w", s, open, ErrPitchOutOfRange)
		}
		if top := g.PitchAbsAt(s, frets-1); top.MIDI() > 127 {
			return nil, fmt.Errorf("string %d fret %d is %s: %w", s, frets-1, top, ErrPitchOutOfRange)
		}
	}
	return g, nil
}

func (g *Grid) Strings() int { return len(g.tuning) }
func (g *Grid) Frets() int   { return g.frets }

// Open returns the open pitch of string s.
func (g *Grid) Open(s int) Pitch { return g.tuning[s] }

// Check rejects coordinates outside the board.
func (g *Grid) Check(c Coord) error {
	if c.Str < 0 || c.Str >= len(g.tuning) {
		return fmt.Errorf("coord %s: %w", c, ErrStringOutOfRange)
	}
	if c.Fret < 0 || c.Fret >= g.frets {
		return fmt.Errorf("coord %s: %w", c, ErrFretOutOfRange)
	}
	return nil
}

// PitchAt returns the note fret semitones above the open string, mod 12.
// Callers validate with Check first.
func (g *Grid) PitchAt(s, fret int) Note {
	return g.tuning[s].Note.Transpose(fret)
}

// PitchAbsAt returns the pitch with octave. The octave only moves every 12
// frets; crossing B->C inside the first twelve frets keeps the open octave.
func (g *Grid) PitchAbsAt(s, fret int) Pitch {
	return Pitch{
		Note:   g.PitchAt(s, fret),
		Octave: g.tuning[s].Octave + fret/12,
	}
}

// Row returns the note names along one string, for rendering.
func (g *Grid) Row(s int) []Note {
	row := make([]Note, g.frets)
	for f := range row {
		row[f] = g.PitchAt(s, f)
	}
	return row
}

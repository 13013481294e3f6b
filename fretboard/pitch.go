package fretboard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownNote      = errors.New("unknown note name")
	ErrStringOutOfRange = errors.New("string index out of range")
	ErrFretOutOfRange   = errors.New("fret index out of range")
	ErrStepOutOfRange   = errors.New("step index out of range")
	ErrTuningLength     = errors.New("tuning must have one pitch per string")
	ErrPitchOutOfRange  = errors.New("pitch outside MIDI range 0-127")
)

// Note is a pitch class, 0 = C. Sharps only.
type Note uint8

const (
	C Note = iota
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
	A
	ASharp
	B
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func (n Note) String() string {
	return noteNames[n%12]
}

// Transpose returns the note the given number of semitones above n.
func (n Note) Transpose(semitones int) Note {
	v := (int(n) + semitones) % 12
	if v < 0 {
		v += 12
	}
	return Note(v)
}

// ParseNote accepts one of the twelve sharp note names.
func ParseNote(s string) (Note, error) {
	for i, name := range noteNames {
		if name == s {
			return Note(i), nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownNote)
}

// Pitch is a note name with an octave number (C4 = middle C).
type Pitch struct {
	Note   Note
	Octave int
}

func (p Pitch) String() string {
	return p.Note.String() + strconv.Itoa(p.Octave)
}

// MIDI returns the MIDI key number, C4 = 60.
func (p Pitch) MIDI() int {
	return (p.Octave+1)*12 + int(p.Note)
}

// PitchFromMIDI is the inverse of Pitch.MIDI.
func PitchFromMIDI(key int) Pitch {
	return Pitch{Note: Note(key % 12), Octave: key/12 - 1}
}

// ParsePitch parses names like "E5" or "C#-1".
func ParsePitch(s string) (Pitch, error) {
	i := strings.IndexFunc(s, func(r rune) bool { return r == '-' || (r >= '0' && r <= '9') })
	if i <= 0 {
		return Pitch{}, fmt.Errorf("pitch %q: missing octave", s)
	}
	n, err := ParseNote(s[:i])
	if err != nil {
		return Pitch{}, fmt.Errorf("pitch %q: %w", s, err)
	}
	oct, err := strconv.Atoi(s[i:])
	if err != nil {
		return Pitch{}, fmt.Errorf("pitch %q: bad octave: %w", s, err)
	}
	return Pitch{Note: n, Octave: oct}, nil
}

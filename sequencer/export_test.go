package sequencer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fretloop/fretboard"
	"fretloop/midi"
)

func TestRender(t *testing.T) {
	snap := Snapshot{
		Chord:  []fretboard.Pitch{{Note: fretboard.A, Octave: 3}},
		Melody: []fretboard.Note{fretboard.C, fretboard.G},
	}
	song := Render(snap, NewClock(100, 3), testVoices, 2)

	assert.Equal(t, 100, song.Tempo)
	assert.Equal(t, 3, song.BeatsPerMeasure)
	assert.Equal(t, int64(576), song.Length)
	assert.Equal(t, []uint8{57, 57}, ons(song.Events, 0))
	assert.Equal(t, []uint8{57, 57}, offs(song.Events, 0))
	assert.Equal(t, []uint8{60, 67, 60, 67}, ons(song.Events, 1))
	assert.Len(t, offs(song.Events, 1), 4)

	var melodyTicks []int64
	for _, e := range song.Events {
		if e.Type == midi.NoteOn && e.Channel == 1 {
			melodyTicks = append(melodyTicks, e.Tick)
		}
	}
	assert.Equal(t, []int64{0, 144, 288, 432}, melodyTicks)
	for _, e := range song.Events {
		assert.LessOrEqual(t, e.Tick, song.Length)
	}
}

func TestRenderNothing(t *testing.T) {
	song := Render(Snapshot{}, NewClock(120, 4), testVoices, 4)
	assert.Empty(t, song.Events)
	assert.Equal(t, int64(4*384), song.Length)

	assert.Empty(t, Render(Snapshot{Chord: twoNoteChord}, NewClock(120, 4), testVoices, 0).Events)
}

package sequencer

import "fretloop/midi"

// Render lays out the given number of measures of both lines from tick 0,
// the same way the scheduler plays them.
func Render(snap Snapshot, clock Clock, voices Voices, measures int) midi.Song {
	tpm := clock.TicksPerMeasure()
	length := int64(measures) * tpm

	song := midi.Song{
		Tempo:           clock.Tempo,
		BeatsPerMeasure: clock.BeatsPerMeasure,
		PPQ:             PPQ,
		Length:          length,
	}
	if measures <= 0 {
		return song
	}

	lines := []*Line{
		NewChordLine(snap.Chord, clock, voices.Chord, 0, 0),
		NewMelodyLine(snap.Melody, clock, voices.Melody, 0, 0),
	}
	for _, l := range lines {
		l.FillUntil(length - tpm)
		for evt := l.Pop(); evt != nil; evt = l.Pop() {
			if evt.Tick <= length {
				song.Events = append(song.Events, *evt)
			}
		}
	}
	return song
}

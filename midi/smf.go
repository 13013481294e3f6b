package midi

import (
	"fmt"
	"io"
	"sort"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Song describes a rendered loop for Standard MIDI File export.
type Song struct {
	Tempo           int
	BeatsPerMeasure int
	PPQ             int
	Length          int64 // total ticks
	Events          []Event
}

// WriteSMF writes one tempo track plus one track per used channel.
func WriteSMF(w io.Writer, song Song) error {
	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(song.PPQ)

	var track0 smf.Track
	track0.Add(0, smf.MetaMeter(uint8(song.BeatsPerMeasure), 4))
	track0.Add(0, smf.MetaTempo(float64(song.Tempo)))
	track0.Close(0)
	if err := sm.Add(track0); err != nil {
		return fmt.Errorf("add tempo track: %w", err)
	}

	byChannel := map[uint8][]Event{}
	for _, e := range song.Events {
		byChannel[e.Channel] = append(byChannel[e.Channel], e)
	}
	channels := make([]int, 0, len(byChannel))
	for ch := range byChannel {
		channels = append(channels, int(ch))
	}
	sort.Ints(channels)

	for _, ch := range channels {
		events := byChannel[uint8(ch)]
		sort.SliceStable(events, func(i, j int) bool { return events[i].Before(events[j]) })

		var track smf.Track
		var last int64
		for _, e := range events {
			delta := uint32(e.Tick - last)
			last = e.Tick
			switch e.Type {
			case NoteOn:
				track.Add(delta, gomidi.NoteOn(e.Channel, e.Note, e.Velocity))
			case NoteOff:
				track.Add(delta, gomidi.NoteOff(e.Channel, e.Note))
			}
		}
		end := song.Length - last
		if end < 0 {
			end = 0
		}
		track.Close(uint32(end))
		if err := sm.Add(track); err != nil {
			return fmt.Errorf("add track %d: %w", ch, err)
		}
	}

	if _, err := sm.WriteTo(w); err != nil {
		return fmt.Errorf("write smf: %w", err)
	}
	return nil
}

package midi

// MIDI message types
const (
	NoteOn  uint8 = 0x90
	NoteOff uint8 = 0x80
)

// Event is a timed MIDI event produced by a playback line.
type Event struct {
	Tick     int64 // absolute clock tick
	Type     uint8 // NoteOn, NoteOff
	Channel  uint8 // 0-15
	Note     uint8
	Velocity uint8
}

// Before orders events by tick; at equal ticks note-offs go first so a
// re-struck note is not cut by the previous release.
func (e Event) Before(o Event) bool {
	if e.Tick != o.Tick {
		return e.Tick < o.Tick
	}
	return e.Type == NoteOff && o.Type != NoteOff
}

// Off returns the release matching a note-on.
func (e Event) Off() Event {
	return Event{Tick: e.Tick, Type: NoteOff, Channel: e.Channel, Note: e.Note}
}

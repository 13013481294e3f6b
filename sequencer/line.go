package sequencer

import (
	"sort"

	"fretloop/fretboard"
	"fretloop/midi"
)

// LineKind names the two repeating lines.
type LineKind int

const (
	ChordLine LineKind = iota
	MelodyLine
)

func (k LineKind) String() string {
	if k == ChordLine {
		return "chord"
	}
	return "melody"
}

// MelodyOctave is the octave every melody step is played in.
const MelodyOctave = 4

// Voice is the MIDI channel and velocity a line plays on.
type Voice struct {
	Channel  uint8
	Velocity uint8
}

type lineNote struct {
	offset int64 // ticks from measure start
	length int64
	key    uint8
}

// Line repeats a fixed set of notes once per measure. Its notes are copied
// at construction and never change; a changed input means a new Line.
type Line struct {
	kind    LineKind
	voice   Voice
	notes   []lineNote
	measure int64

	// sustain lines that start mid-measure sound from "from" until the
	// measure ends; other notes before "from" are skipped
	sustain bool
	from    int64
	next    int64 // start tick of the next measure to generate

	queue    []midi.Event
	sounding map[uint8]bool
	disposed bool
}

// NewChordLine holds every pitch for one full measure, once per measure,
// starting with the measure at anchor.
func NewChordLine(pitches []fretboard.Pitch, clk Clock, v Voice, anchor, from int64) *Line {
	l := newLine(ChordLine, clk, v, anchor, from)
	l.sustain = true
	seen := map[uint8]bool{}
	for _, p := range pitches {
		key := uint8(p.MIDI())
		if seen[key] {
			continue
		}
		seen[key] = true
		l.notes = append(l.notes, lineNote{offset: 0, length: l.measure, key: key})
	}
	return l
}

// NewMelodyLine splits the measure into len(notes) equal slices and plays
// note i at the start of slice i for an eighth note, in MelodyOctave.
func NewMelodyLine(notes []fretboard.Note, clk Clock, v Voice, anchor, from int64) *Line {
	l := newLine(MelodyLine, clk, v, anchor, from)
	length := int64(EighthTicks)
	if length > l.measure {
		length = l.measure
	}
	for i, n := range notes {
		p := fretboard.Pitch{Note: n, Octave: MelodyOctave}
		l.notes = append(l.notes, lineNote{
			offset: int64(i) * l.measure / int64(len(notes)),
			length: length,
			key:    uint8(p.MIDI()),
		})
	}
	return l
}

func newLine(kind LineKind, clk Clock, v Voice, anchor, from int64) *Line {
	return &Line{
		kind:     kind,
		voice:    v,
		measure:  clk.TicksPerMeasure(),
		from:     from,
		next:     anchor,
		sounding: make(map[uint8]bool),
	}
}

func (l *Line) Kind() LineKind { return l.kind }

// Empty lines never emit events.
func (l *Line) Empty() bool { return len(l.notes) == 0 }

// FillUntil generates every measure that starts at or before tick.
func (l *Line) FillUntil(tick int64) {
	if l.disposed || l.Empty() {
		return
	}
	added := false
	for l.next <= tick {
		l.generate(l.next)
		l.next += l.measure
		added = true
	}
	if added {
		sort.SliceStable(l.queue, func(i, j int) bool { return l.queue[i].Before(l.queue[j]) })
	}
}

func (l *Line) generate(start int64) {
	for _, n := range l.notes {
		on := start + n.offset
		off := on + n.length
		if on < l.from {
			if !l.sustain || off <= l.from {
				continue
			}
			on = l.from
		}
		l.queue = append(l.queue,
			midi.Event{Tick: on, Type: midi.NoteOn, Channel: l.voice.Channel, Note: n.key, Velocity: l.voice.Velocity},
			midi.Event{Tick: off, Type: midi.NoteOff, Channel: l.voice.Channel, Note: n.key},
		)
	}
}

// Peek returns the next queued event without removing it (nil if empty)
func (l *Line) Peek() *midi.Event {
	if l.disposed || len(l.queue) == 0 {
		return nil
	}
	return &l.queue[0]
}

// Pop removes and returns the next event (nil if empty)
func (l *Line) Pop() *midi.Event {
	if l.disposed || len(l.queue) == 0 {
		return nil
	}
	evt := l.queue[0]
	l.queue = l.queue[1:]
	return &evt
}

// Sent records that evt reached the output, for release on Dispose.
func (l *Line) Sent(evt midi.Event) {
	switch evt.Type {
	case midi.NoteOn:
		l.sounding[evt.Note] = true
	case midi.NoteOff:
		delete(l.sounding, evt.Note)
	}
}

// Dispose drops all pending events. It returns note-offs for notes that
// were sent and not yet released. A disposed line emits nothing more.
func (l *Line) Dispose() []midi.Event {
	if l.disposed {
		return nil
	}
	l.disposed = true
	l.queue = nil

	keys := make([]int, 0, len(l.sounding))
	for k := range l.sounding {
		keys = append(keys, int(k))
	}
	sort.Ints(keys)
	offs := make([]midi.Event, 0, len(keys))
	for _, k := range keys {
		offs = append(offs, midi.Event{Type: midi.NoteOff, Channel: l.voice.Channel, Note: uint8(k)})
	}
	l.sounding = make(map[uint8]bool)
	return offs
}

func (l *Line) Disposed() bool { return l.disposed }

// Holds reports whether the line has evt's key sounding on evt's channel.
func (l *Line) Holds(evt midi.Event) bool {
	return evt.Channel == l.voice.Channel && l.sounding[evt.Note]
}

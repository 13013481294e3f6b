package sequencer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fretloop/debug"
	"fretloop/fretboard"
	"fretloop/midi"
)

// State of the scheduler
type State int

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Output is the tone-producing side. Ready must succeed before anything is
// scheduled; Send plays one event immediately.
type Output interface {
	Ready(ctx context.Context) error
	Send(evt midi.Event) error
}

// Snapshot is an immutable copy of the inputs a pair of lines is built from.
type Snapshot struct {
	Chord  []fretboard.Pitch
	Melody []fretboard.Note
}

// ReplaceMode says what happens to the clock when lines are rebuilt.
type ReplaceMode int

const (
	// KeepClock attaches the new lines to the current measure.
	KeepClock ReplaceMode = iota
	// RestartClock moves the clock back to measure 0. Used for root changes.
	RestartClock
)

// Voices assigns the two lines to channels.
type Voices struct {
	Chord  Voice
	Melody Voice
}

// Scheduler runs the chord and melody lines off one clock.
type Scheduler struct {
	out    Output
	voices Voices

	mu       sync.Mutex // guards everything below; events are sent holding it
	clock    Clock
	state    State
	chord    *Line
	melody   *Line
	stopChan chan struct{}
	wake     chan struct{} // per session, like stopChan

	// NoteOns later than this are dropped instead of played late
	lateTolerance time.Duration

	now       func() time.Time
	startLoop func(stop, wake chan struct{})
}

func NewScheduler(out Output, clock Clock, voices Voices) *Scheduler {
	s := &Scheduler{
		out:    out,
		voices: voices,
		clock:  clock,
		now:    time.Now,
	}
	s.lateTolerance = clock.Duration(EighthTicks)
	s.startLoop = func(stop, wake chan struct{}) { go s.run(stop, wake) }
	return s
}

// State returns Stopped or Running
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Clock returns a copy of the clock, origin included.
func (s *Scheduler) Clock() Clock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock
}

// Position returns the current measure and tick within it. Zero when stopped.
func (s *Scheduler) Position() (measure int64, tick int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Running {
		return 0, 0
	}
	t := s.clock.TimeToTick(s.now())
	tpm := s.clock.TicksPerMeasure()
	return t / tpm, t % tpm
}

// Start begins playback from measure 0. It does nothing when already running
// or when the snapshot has no chord. If the output cannot be readied the
// scheduler stays stopped and the error is returned.
func (s *Scheduler) Start(ctx context.Context, snap Snapshot) error {
	if s.State() == Running {
		return nil
	}
	if len(snap.Chord) == 0 {
		debug.Log("sched", "start ignored: empty selection")
		return nil
	}
	if err := s.out.Ready(ctx); err != nil {
		return fmt.Errorf("start playback: %w", err)
	}
	s.startReady(snap)
	return nil
}

// startReady is Start for callers that have already readied the output.
func (s *Scheduler) startReady(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Running || len(snap.Chord) == 0 {
		return
	}

	s.clock.Reset(s.now())
	s.installLocked(snap, 0, 0)
	s.state = Running
	s.stopChan = make(chan struct{})
	s.wake = make(chan struct{}, 1)
	debug.Log("sched", "start tempo=%d chord=%d melody=%d", s.clock.Tempo, len(snap.Chord), len(snap.Melody))
	s.startLoop(s.stopChan, s.wake)
}

// Stop halts playback and releases sounding notes. No event of the stopped
// session is sent after Stop returns.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Running {
		return
	}
	s.state = Stopped
	close(s.stopChan)
	s.stopChan, s.wake = nil, nil
	s.disposeLocked()
	debug.Log("sched", "stop")
}

// Replace rebuilds both lines from snap while running. The old lines are
// disposed before the new ones exist. With KeepClock the new lines join the
// current measure; with RestartClock the clock restarts at measure 0.
func (s *Scheduler) Replace(snap Snapshot, mode ReplaceMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Running {
		return
	}

	s.disposeLocked()

	now := s.now()
	var anchor, from int64
	if mode == RestartClock {
		s.clock.Reset(now)
	} else {
		from = s.clock.TimeToTick(now)
		anchor = s.clock.MeasureStart(from)
	}
	s.installLocked(snap, anchor, from)
	debug.Log("sched", "replace mode=%d anchor=%d from=%d chord=%d melody=%d",
		mode, anchor, from, len(snap.Chord), len(snap.Melody))

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler) installLocked(snap Snapshot, anchor, from int64) {
	s.chord = NewChordLine(snap.Chord, s.clock, s.voices.Chord, anchor, from)
	s.melody = NewMelodyLine(snap.Melody, s.clock, s.voices.Melody, anchor, from)
}

func (s *Scheduler) disposeLocked() {
	for _, l := range s.lines() {
		for _, off := range l.Dispose() {
			s.sendLocked(l, off)
		}
	}
	s.chord, s.melody = nil, nil
}

func (s *Scheduler) lines() []*Line {
	var out []*Line
	if s.chord != nil {
		out = append(out, s.chord)
	}
	if s.melody != nil {
		out = append(out, s.melody)
	}
	return out
}

// Audition sounds events once on top of the loop and releases them after d.
// A key a running line already holds on the same channel is left to the
// line, both at strike and at release.
func (s *Scheduler) Audition(events []midi.Event, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var struck []midi.Event
	for _, e := range events {
		if s.heldLocked(e) {
			continue
		}
		if err := s.out.Send(e); err != nil {
			s.releaseLocked(struck)
			return fmt.Errorf("audition: %w", err)
		}
		struck = append(struck, e)
	}
	if len(struck) == 0 {
		return nil
	}
	time.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.releaseLocked(struck)
	})
	return nil
}

func (s *Scheduler) releaseLocked(struck []midi.Event) {
	for _, e := range struck {
		if s.heldLocked(e) {
			continue
		}
		if err := s.out.Send(e.Off()); err != nil {
			debug.Log("audition", "release %d failed: %v", e.Note, err)
		}
	}
}

func (s *Scheduler) heldLocked(evt midi.Event) bool {
	for _, l := range s.lines() {
		if l.Holds(evt) {
			return true
		}
	}
	return false
}

func (s *Scheduler) sendLocked(l *Line, evt midi.Event) {
	if err := s.out.Send(evt); err != nil {
		debug.Log("sched", "%s send failed: %v", l.Kind(), err)
		return
	}
	l.Sent(evt)
}

// run is the dispatch loop for one running session.
func (s *Scheduler) run(stop, wake chan struct{}) {
	for {
		s.mu.Lock()
		if s.stopChan != stop {
			s.mu.Unlock()
			return
		}
		now := s.now()
		s.dispatchLocked(now)
		wait := s.nextWaitLocked(now)
		s.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-stop:
			timer.Stop()
			return
		case <-wake:
			timer.Stop()
		case <-timer.C:
		}
	}
}

// dispatchLocked sends every event due at or before now, in time order
// across both lines.
func (s *Scheduler) dispatchLocked(now time.Time) {
	horizon := s.clock.TimeToTick(now) + s.clock.TicksPerMeasure()
	for _, l := range s.lines() {
		l.FillUntil(horizon)
	}

	for {
		l, evt := s.earliestLocked()
		if evt == nil {
			return
		}
		at := s.clock.TickToTime(evt.Tick)
		if at.After(now) {
			return
		}
		l.Pop()
		if evt.Type == midi.NoteOn && now.Sub(at) > s.lateTolerance {
			debug.Log("sched", "%s dropped late note %d tick=%d", l.Kind(), evt.Note, evt.Tick)
			continue
		}
		s.sendLocked(l, *evt)
	}
}

func (s *Scheduler) earliestLocked() (*Line, *midi.Event) {
	var line *Line
	var next *midi.Event
	for _, l := range s.lines() {
		evt := l.Peek()
		if evt != nil && (next == nil || evt.Before(*next)) {
			line, next = l, evt
		}
	}
	if next == nil {
		return nil, nil
	}
	evt := *next
	return line, &evt
}

func (s *Scheduler) nextWaitLocked(now time.Time) time.Duration {
	maxWait := s.clock.MeasureDuration()
	_, evt := s.earliestLocked()
	if evt == nil {
		return maxWait
	}
	wait := s.clock.TickToTime(evt.Tick).Sub(now)
	if wait < 0 {
		return 0
	}
	if wait > maxWait {
		return maxWait
	}
	return wait
}

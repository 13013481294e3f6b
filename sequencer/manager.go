package sequencer

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"fretloop/debug"
	"fretloop/fretboard"
	"fretloop/midi"
)

// View is a read-only copy of everything the UI renders.
type View struct {
	Chromatic  fretboard.Chromatic
	Selection  fretboard.Selection
	Steps      fretboard.StepMarks
	Highlights [12]bool // pitch classes in the resolved scale
	State      State
	Measure    int64
	Tempo      int
	CanStart   bool
}

// Root is the selected root note.
func (v View) Root() fretboard.Note { return v.Chromatic.Root() }

// Manager owns the fretboard model and turns UI intents into scheduler
// transitions. All intents are safe for concurrent use.
type Manager struct {
	grid   *fretboard.Grid
	out    Output
	voices Voices
	sched  *Scheduler

	mu        sync.Mutex // guards model; held across scheduler calls so snapshots apply in order
	chromatic fretboard.Chromatic
	selection fretboard.Selection
	steps     fretboard.StepMarks

	// Notify UI of updates
	UpdateChan chan struct{}
}

// NewManager creates a manager rooted at C with nothing selected.
func NewManager(grid *fretboard.Grid, out Output, clock Clock, voices Voices) *Manager {
	return &Manager{
		grid:       grid,
		out:        out,
		voices:     voices,
		sched:      NewScheduler(out, clock, voices),
		chromatic:  fretboard.CanonicalChromatic(),
		UpdateChan: make(chan struct{}, 1),
	}
}

func (m *Manager) Grid() *fretboard.Grid { return m.grid }

func (m *Manager) Scheduler() *Scheduler { return m.sched }

// GetState returns the scheduler state
func (m *Manager) GetState() State { return m.sched.State() }

func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{
		Chord:  m.selection.Resolve(m.grid),
		Melody: m.steps.Resolve(m.chromatic),
	}
}

// Snapshot returns the current chord and melody inputs.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// ToggleFret engages or releases a fret. Out-of-range coordinates are
// rejected without touching the selection.
func (m *Manager) ToggleFret(str, fret int) error {
	c := fretboard.Coord{Str: str, Fret: fret}
	if err := m.grid.Check(c); err != nil {
		return fmt.Errorf("toggle fret: %w", err)
	}

	m.mu.Lock()
	m.selection.Toggle(c)
	m.sched.Replace(m.snapshotLocked(), KeepClock)
	m.mu.Unlock()

	debug.Log("intent", "toggle fret %s", c)
	m.notifyUpdate()
	return nil
}

// ToggleStep marks or clears a scale step.
func (m *Manager) ToggleStep(step int) error {
	m.mu.Lock()
	err := m.toggleStepLocked(step)
	m.mu.Unlock()
	if err != nil {
		return err
	}

	debug.Log("intent", "toggle step %d", step)
	m.notifyUpdate()
	return nil
}

func (m *Manager) toggleStepLocked(step int) error {
	if err := m.steps.Toggle(step); err != nil {
		return fmt.Errorf("toggle step: %w", err)
	}
	m.sched.Replace(m.snapshotLocked(), KeepClock)
	return nil
}

// SelectRoot re-roots the chromatic sequence. A running loop restarts from
// measure 0.
func (m *Manager) SelectRoot(root fretboard.Note) error {
	if root > fretboard.B {
		return fmt.Errorf("select root %d: %w", root, fretboard.ErrUnknownNote)
	}

	m.mu.Lock()
	rotated, ok := m.chromatic.Rotate(root)
	if !ok {
		m.mu.Unlock()
		return nil
	}
	m.chromatic = rotated
	m.sched.Replace(m.snapshotLocked(), RestartClock)
	m.mu.Unlock()

	debug.Log("intent", "root %s", root)
	m.notifyUpdate()
	return nil
}

// SelectRootName parses a note name and selects it.
func (m *Manager) SelectRootName(name string) error {
	n, err := fretboard.ParseNote(name)
	if err != nil {
		return fmt.Errorf("select root: %w", err)
	}
	return m.SelectRoot(n)
}

// ShiftRoot moves the root by semitones relative to the current root.
func (m *Manager) ShiftRoot(semitones int) error {
	m.mu.Lock()
	root := m.chromatic.Root()
	m.mu.Unlock()
	return m.SelectRoot(root.Transpose(semitones))
}

// CanStart reports whether there is a chord to play.
func (m *Manager) CanStart() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.selection.Empty()
}

// Play starts the loop. It is a no-op with an empty selection or when
// already playing; output failures are returned and playback stays stopped.
// The model stays unlocked while the output is readied.
func (m *Manager) Play(ctx context.Context) error {
	if !m.CanStart() || m.GetState() == Running {
		return nil
	}
	if err := m.out.Ready(ctx); err != nil {
		return fmt.Errorf("play: %w", err)
	}

	m.mu.Lock()
	m.sched.startReady(m.snapshotLocked())
	m.mu.Unlock()

	m.notifyUpdate()
	return nil
}

// Stop halts the loop.
func (m *Manager) Stop() {
	m.sched.Stop()
	m.notifyUpdate()
}

// TogglePlayback starts when stopped with frets selected, otherwise stops.
func (m *Manager) TogglePlayback(ctx context.Context) error {
	if m.GetState() == Stopped && m.CanStart() {
		return m.Play(ctx)
	}
	m.Stop()
	return nil
}

// PlayOnce sounds pitches together once, outside the loop. Keys the
// running chord is holding keep sounding with the loop.
func (m *Manager) PlayOnce(ctx context.Context, pitches []fretboard.Pitch, d time.Duration) error {
	if len(pitches) == 0 {
		return nil
	}
	if err := m.out.Ready(ctx); err != nil {
		return fmt.Errorf("play once: %w", err)
	}

	v := m.voices.Chord
	var events []midi.Event
	for _, p := range pitches {
		events = append(events, midi.Event{Type: midi.NoteOn, Channel: v.Channel, Note: uint8(p.MIDI()), Velocity: v.Velocity})
	}
	if err := m.sched.Audition(events, d); err != nil {
		return fmt.Errorf("play once: %w", err)
	}
	return nil
}

// PlaySelected auditions the selected chord, lowest note first, for a
// quarter note.
func (m *Manager) PlaySelected(ctx context.Context) error {
	pitches := m.Snapshot().Chord
	sort.SliceStable(pitches, func(i, j int) bool { return pitches[i].MIDI() < pitches[j].MIDI() })
	debug.Log("audition", "playing %v", pitches)
	return m.PlayOnce(ctx, pitches, m.sched.Clock().Duration(PPQ))
}

// PlayTestTone plays C4 for an eighth note.
func (m *Manager) PlayTestTone(ctx context.Context) error {
	return m.PlayOnce(ctx, []fretboard.Pitch{{Note: fretboard.C, Octave: 4}}, m.sched.Clock().Duration(EighthTicks))
}

// HandleNote toggles the scale step matching a keyboard key, relative to
// the current root.
func (m *Manager) HandleNote(key uint8) error {
	m.mu.Lock()
	step := ((int(key)%12 - int(m.chromatic.Root())) + 12) % 12
	err := m.toggleStepLocked(step)
	m.mu.Unlock()
	if err != nil {
		return err
	}

	debug.Log("intent", "keyboard %d toggles step %d", key, step)
	m.notifyUpdate()
	return nil
}

// View returns a copy of the model for rendering.
func (m *Manager) View() View {
	m.mu.Lock()
	v := View{
		Chromatic: m.chromatic,
		Selection: m.selection,
		Steps:     m.steps,
		CanStart:  !m.selection.Empty(),
	}
	for _, n := range m.steps.Resolve(m.chromatic) {
		v.Highlights[n] = true
	}
	m.mu.Unlock()

	v.State = m.sched.State()
	v.Measure, _ = m.sched.Position()
	v.Tempo = m.sched.Clock().Tempo
	return v
}

// Close stops playback.
func (m *Manager) Close() {
	m.sched.Stop()
}

func (m *Manager) notifyUpdate() {
	select {
	case m.UpdateChan <- struct{}{}:
	default:
	}
}

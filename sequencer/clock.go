package sequencer

import "time"

// PPQ is clock ticks per quarter note.
const PPQ = 96

// EighthTicks is the length of one melody note.
const EighthTicks = PPQ / 2

// Clock converts between wall time and ticks from a start origin.
// Tempo and time signature are fixed for the life of the process.
type Clock struct {
	Tempo           int // BPM
	BeatsPerMeasure int

	origin time.Time
}

func NewClock(tempo, beatsPerMeasure int) Clock {
	return Clock{Tempo: tempo, BeatsPerMeasure: beatsPerMeasure}
}

// Reset moves tick 0 to t.
func (c *Clock) Reset(t time.Time) { c.origin = t }

func (c Clock) Origin() time.Time { return c.origin }

func (c Clock) TicksPerMeasure() int64 {
	return int64(PPQ * c.BeatsPerMeasure)
}

// Duration converts a tick count to wall time at the clock's tempo.
func (c Clock) Duration(ticks int64) time.Duration {
	tpm := c.ticksPerMinute()
	whole, rem := ticks/tpm, ticks%tpm
	return time.Duration(whole*int64(time.Minute) + rem*int64(time.Minute)/tpm)
}

// ticksPerMinute is the divisor for both conversions. Whole minutes are
// split off first so long sessions do not overflow int64 nanoseconds.
func (c Clock) ticksPerMinute() int64 {
	return int64(c.Tempo) * PPQ
}

func (c Clock) MeasureDuration() time.Duration {
	return c.Duration(c.TicksPerMeasure())
}

func (c Clock) TickToTime(tick int64) time.Time {
	return c.origin.Add(c.Duration(tick))
}

// TimeToTick floors t to the last tick at or before it.
func (c Clock) TimeToTick(t time.Time) int64 {
	d := t.Sub(c.origin)
	if d < 0 {
		return 0
	}
	tpm := c.ticksPerMinute()
	whole, rem := int64(d/time.Minute), int64(d%time.Minute)
	return whole*tpm + rem*tpm/int64(time.Minute)
}

// MeasureStart returns the first tick of the measure containing tick.
func (c Clock) MeasureStart(tick int64) int64 {
	if tick <= 0 {
		return 0
	}
	return tick - tick%c.TicksPerMeasure()
}

package fretboard

import "fmt"

const NumSteps = 12

// StepMarks is the set of scale steps that are switched on.
type StepMarks struct {
	bits uint16
}

// Toggle flips membership of step.
func (m *StepMarks) Toggle(step int) error {
	if step < 0 || step >= NumSteps {
		return fmt.Errorf("step %d: %w", step, ErrStepOutOfRange)
	}
	m.bits ^= 1 << step
	return nil
}

func (m StepMarks) Has(step int) bool {
	return step >= 0 && step < NumSteps && m.bits&(1<<step) != 0
}

func (m StepMarks) Len() int {
	n := 0
	for s := 0; s < NumSteps; s++ {
		if m.Has(s) {
			n++
		}
	}
	return n
}

func (m StepMarks) Empty() bool { return m.bits == 0 }

// Steps returns the marked steps in ascending order.
func (m StepMarks) Steps() []int {
	var out []int
	for s := 0; s < NumSteps; s++ {
		if m.Has(s) {
			out = append(out, s)
		}
	}
	return out
}

// Resolve maps each marked step, ascending, to its note in c.
func (m StepMarks) Resolve(c Chromatic) []Note {
	var out []Note
	for _, s := range m.Steps() {
		out = append(out, c[s%12])
	}
	return out
}

package systolic

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Mode is the dataflow an array is running. It is fixed at reset and carried
// internally; Clock never takes it as an argument.
type Mode string

const (
	// ModeMMM is matrix-matrix multiply: wavefront enables, activations stream
	// left to right, partial sums flow top to bottom.
	ModeMMM Mode = "mmm"
	// ModeMVM is matrix-vector multiply: one column fires per cycle with a
	// broadcast activation, partial sums flow left to right.
	ModeMVM Mode = "mvm"
)

// ParseMode converts a string into a Mode. The bool is false for unknown
// values.
func ParseMode(value string) (Mode, bool) {
	switch Mode(cases.Lower(language.Und).String(value)) {
	case ModeMMM:
		return ModeMMM, true
	case ModeMVM:
		return ModeMVM, true
	default:
		return "", false
	}
}

// Label is the display form used in logs and renderings ("MMM", "MVM").
func (m Mode) Label() string {
	return cases.Upper(language.Und).String(string(m))
}

// Phase is the coarse state of an array's run.
type Phase int

const (
	// PhaseIdle: counter is zero and every latch is zero.
	PhaseIdle Phase = iota
	// PhaseDraining: some PE is still due to fire.
	PhaseDraining
	// PhaseDone: no PE will fire again until reset. Clocking is still allowed.
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDraining:
		return "draining"
	default:
		return "done"
	}
}

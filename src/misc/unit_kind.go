package misc

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UnitKind selects which systolic unit the simulator instantiates.
type UnitKind string

const (
	// UnitKindHsa is the dual-mode array (MMM wavefront or MVM broadcast).
	UnitKindHsa UnitKind = "hsa"
	// UnitKindMpuHsa is the dual-mode array locked to MMM.
	UnitKindMpuHsa UnitKind = "mpuhsa"
	// UnitKindMpu is the output-stationary matrix unit.
	UnitKindMpu UnitKind = "mpu"
	// UnitKindSpVpu is the 2:1 sparse vector unit.
	UnitKindSpVpu UnitKind = "spvpu"
)

var unitKindLabels = map[UnitKind]string{
	UnitKindHsa:    "HSA",
	UnitKindMpuHsa: "MPU-HSA",
	UnitKindMpu:    "MPU",
	UnitKindSpVpu:  "SpVPU",
}

// DefaultUnitKind returns the kind used when no explicit selection is made.
func DefaultUnitKind() UnitKind {
	return UnitKindHsa
}

// UnitKinds lists every supported kind in a stable order.
func UnitKinds() []UnitKind {
	return []UnitKind{UnitKindHsa, UnitKindMpuHsa, UnitKindMpu, UnitKindSpVpu}
}

// UnitKindFromString converts an arbitrary string into a UnitKind. Matching
// ignores case. When the provided value is unknown the bool return will be
// false.
func UnitKindFromString(value string) (UnitKind, bool) {
	kind := UnitKind(cases.Lower(language.Und).String(value))
	if _, ok := unitKindLabels[kind]; !ok {
		return "", false
	}
	return kind, true
}

// Label is the display name used in logs and dumps.
func (k UnitKind) Label() string {
	if label, ok := unitKindLabels[k]; ok {
		return label
	}
	return cases.Upper(language.Und).String(string(k))
}

// DataflowMode is the requested dataflow. Its values match the mode names the
// systolic units parse.
type DataflowMode string

const (
	DataflowMMM DataflowMode = "mmm"
	DataflowMVM DataflowMode = "mvm"
)

// DataflowModeFromString ignores case; unknown values return false.
func DataflowModeFromString(value string) (DataflowMode, bool) {
	switch mode := DataflowMode(cases.Lower(language.Und).String(value)); mode {
	case DataflowMMM, DataflowMVM:
		return mode, true
	default:
		return "", false
	}
}

func (m DataflowMode) Label() string {
	return cases.Upper(language.Und).String(string(m))
}

// EngineKind selects how the simulator loop is driven.
type EngineKind string

const (
	// EngineKindLoop clocks the unit from the main Cycle loop.
	EngineKindLoop EngineKind = "loop"
	// EngineKindAkita hands the unit to an akita serial engine.
	EngineKindAkita EngineKind = "akita"
)

func EngineKindFromString(value string) (EngineKind, bool) {
	switch kind := EngineKind(cases.Lower(language.Und).String(value)); kind {
	case EngineKindLoop, EngineKindAkita:
		return kind, true
	default:
		return "", false
	}
}

package systolic

import (
	"fmt"

	"github.com/samber/lo"
)

// Unit is the external contract shared by every array variant.
type Unit interface {
	Name() string
	Mode() Mode
	Discipline() Discipline
	Shape() (rows, cols int)
	Counter() int
	Phase() Phase
	Drained() bool
	DrainCycles() int

	// Clock advances exactly one cycle using the mode fixed at reset.
	Clock()
	// ClockAs advances one cycle after checking that mode is the unit's
	// current mode. An unknown or mismatched mode is reported and the unit is
	// left untouched.
	ClockAs(mode Mode) error
	// Reset restores the initial SRAM snapshot, zeroes latches, result and
	// counter, keeping the current mode.
	Reset()

	Result() *Grid
	Latches(dir Direction) *Grid
	EnableSnapshot() [][]bool
	Stats() Stats
	Render() string
}

// wiring is what a unit variant plugs into the shared array core: where each
// enabled PE gets its operands, how the SRAM streams, and where outputs go.
type wiring interface {
	// gather reads committed state only.
	gather(row, col int) Operands
	// stream applies the cycle's SRAM movement once every PE was evaluated.
	stream(enabled *EnableMap)
	// route stages latch writes and result inserts for one enabled PE.
	route(row, col int, out Outputs)
}

type pendingOutput struct {
	row int
	col int
	out Outputs
}

// array is the controller core: scheduler, latch fabric, MAC grid and
// result buffer advanced by a two-step clock.
type array struct {
	name       string
	rows       int
	cols       int
	window     int
	mode       Mode
	discipline Discipline
	drain      int
	counter    int

	enabled *EnableMap
	latches *LatchFabric
	macs    []MacUnit
	result  *Grid
	pending []pendingOutput
	stats   Stats

	wiring wiring
	srams  []*Sram
}

func newArray(name string, rows, cols int, macs []MacUnit, resultRows, resultCols int) *array {
	if len(macs) != rows*cols {
		panic(fmt.Sprintf("%s: %d MAC units for a %dx%d grid", name, len(macs), rows, cols))
	}
	return &array{
		name:    name,
		rows:    rows,
		cols:    cols,
		latches: NewLatchFabric(rows, cols),
		macs:    macs,
		result:  mustGrid(resultRows, resultCols),
		pending: make([]pendingOutput, 0, rows*cols),
	}
}

func (a *array) setDataflow(mode Mode, discipline Discipline, window int) {
	a.mode = mode
	a.discipline = discipline
	a.window = window
	a.enabled = NewEnableMap(discipline, a.rows, a.cols, window)
	a.drain = DrainCycles(discipline, a.rows, a.cols, window)
}

func (a *array) Name() string {
	return a.name
}

func (a *array) Mode() Mode {
	return a.mode
}

func (a *array) Discipline() Discipline {
	return a.discipline
}

func (a *array) Shape() (int, int) {
	return a.rows, a.cols
}

func (a *array) Counter() int {
	return a.counter
}

func (a *array) DrainCycles() int {
	return a.drain
}

func (a *array) Drained() bool {
	return a.counter >= a.drain
}

func (a *array) Phase() Phase {
	switch {
	case a.counter == 0:
		return PhaseIdle
	case a.counter < a.drain:
		return PhaseDraining
	default:
		return PhaseDone
	}
}

// computeStep evaluates every PE against committed state and returns the
// pending output table of the enabled ones. Nothing a PE reads is modified
// here except the SRAM streaming applied after the last PE.
func (a *array) computeStep() []pendingOutput {
	a.enabled.Update(a.counter)
	a.pending = a.pending[:0]

	for i := 0; i < a.rows; i++ {
		for j := 0; j < a.cols; j++ {
			mac := a.macs[i*a.cols+j]
			if !a.enabled.At(i, j) {
				mac.Clock(Operands{}, false)
				continue
			}
			out := mac.Clock(a.wiring.gather(i, j), true)
			a.pending = append(a.pending, pendingOutput{row: i, col: j, out: out})
		}
	}

	a.wiring.stream(a.enabled)
	return a.pending
}

// commitStep routes the pending outputs into the latch fabric and result
// buffer and then applies the latch writes as one clock edge.
func (a *array) commitStep(pending []pendingOutput) {
	for _, p := range pending {
		a.wiring.route(p.row, p.col, p.out)
	}
	a.stats.LatchWrites += int64(a.latches.Commit())
}

func (a *array) Clock() {
	pending := a.computeStep()
	a.commitStep(pending)

	active := int64(a.enabled.Count())
	a.stats.Cycles++
	a.stats.ActivePeCycles += active
	a.stats.IdlePeCycles += int64(a.rows*a.cols) - active
	a.stats.MacOps += active

	a.counter++
}

func (a *array) ClockAs(requested Mode) error {
	mode, ok := ParseMode(string(requested))
	if !ok {
		return fmt.Errorf("%s: unknown mode %q: %w", a.name, requested, ErrInvalidMode)
	}
	if mode != a.mode {
		return fmt.Errorf("%s: clocked as %s while reset for %s: %w", a.name, mode.Label(), a.mode.Label(), ErrModeMismatch)
	}
	a.Clock()
	return nil
}

// reset clears everything the core owns; SRAM restore is done here too since
// every unit registers its blocks in srams.
func (a *array) reset() {
	for _, s := range a.srams {
		s.Restore()
	}
	for _, mac := range a.macs {
		if r, ok := mac.(resetter); ok {
			r.Reset()
		}
	}
	a.latches.Clear()
	a.result.Zero()
	a.enabled.Clear()
	a.pending = a.pending[:0]
	a.stats.Reset()
	a.counter = 0
}

func (a *array) insertResultDown(col int, value int64) {
	a.result.ShiftColDown(col, value)
	a.stats.ResultInserts++
}

func (a *array) insertResultRight(row int, value int64) {
	a.result.ShiftRowRight(row, value)
	a.stats.ResultInserts++
}

// Result returns a copy of the result buffer, drained or not.
func (a *array) Result() *Grid {
	return a.result.Clone()
}

func (a *array) Latches(dir Direction) *Grid {
	return a.latches.Snapshot(dir)
}

// EnableSnapshot is the enable map of the most recent cycle.
func (a *array) EnableSnapshot() [][]bool {
	return a.enabled.Snapshot()
}

func (a *array) Stats() Stats {
	stats := a.stats
	stats.SramReads = lo.SumBy(a.srams, func(s *Sram) int64 { return s.Reads() })
	stats.SramShifts = lo.SumBy(a.srams, func(s *Sram) int64 { return s.Shifts() })
	return stats
}

func macGrid[T MacUnit](rows, cols int, build func() T) ([]MacUnit, []T) {
	typed := make([]T, rows*cols)
	macs := make([]MacUnit, rows*cols)
	for i := range typed {
		typed[i] = build()
		macs[i] = typed[i]
	}
	return macs, typed
}

var (
	_ Unit = (*Hsa)(nil)
	_ Unit = (*Mpu)(nil)
	_ Unit = (*SpVpu)(nil)
)

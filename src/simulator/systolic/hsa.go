package systolic

import "fmt"

// Hsa is the dual-mode N x N weight-stationary unit. Both modes share the same
// stationary weight matrix; only the input wiring and the enable rule change.
//
// MMM: activations stream left to right, partial sums flow top to bottom and
// the last row's outputs are collected in the result buffer. After
// DrainCycles clocks the buffer holds acts x weights.
//
// MVM: the vector is the last column of the activation matrix. Element j is
// broadcast to column j on cycle j, partial sums flow left to right and the
// last column delivers weights x vector into result column 0, all rows on the
// same cycle.
type Hsa struct {
	*array
	n       int
	locked  bool
	acts    *Sram // transposed: row r holds activation column r
	weights *Sram
}

// NewHsa builds a dual-mode unit from N x N activation and weight matrices.
func NewHsa(acts, weights [][]int64, mode Mode) (*Hsa, error) {
	return newHsa("hsa", acts, weights, mode, false)
}

// NewMpuHsa builds the MMM-only variant. It runs the same dataflow as Hsa in
// MMM mode and refuses to switch modes.
func NewMpuHsa(acts, weights [][]int64) (*Hsa, error) {
	return newHsa("mpuhsa", acts, weights, ModeMMM, true)
}

func newHsa(name string, acts, weights [][]int64, requested Mode, locked bool) (*Hsa, error) {
	mode, ok := ParseMode(string(requested))
	if !ok {
		return nil, fmt.Errorf("%s: unknown mode %q: %w", name, requested, ErrInvalidMode)
	}

	actGrid, err := GridFromRows(acts)
	if err != nil {
		return nil, fmt.Errorf("%s activations: %w", name, err)
	}
	weightGrid, err := GridFromRows(weights)
	if err != nil {
		return nil, fmt.Errorf("%s weights: %w", name, err)
	}

	n := weightGrid.Rows()
	if weightGrid.Cols() != n {
		return nil, fmt.Errorf("%s: weights %dx%d are not square: %w", name, weightGrid.Rows(), weightGrid.Cols(), ErrDimensionMismatch)
	}
	if actGrid.Rows() != n || actGrid.Cols() != n {
		return nil, fmt.Errorf("%s: activations %dx%d do not fit a %dx%d grid: %w", name, actGrid.Rows(), actGrid.Cols(), n, n, ErrDimensionMismatch)
	}

	macs, _ := macGrid(n, n, func() WsMac { return WsMac{} })

	h := &Hsa{
		array:   newArray(name, n, n, macs, n, n),
		n:       n,
		locked:  locked,
		acts:    NewSram(name+".acts", actGrid.Transpose()),
		weights: NewSram(name+".weights", weightGrid),
	}
	h.wiring = h
	h.srams = []*Sram{h.acts, h.weights}
	h.applyMode(mode)
	h.reset()

	return h, nil
}

func (h *Hsa) applyMode(mode Mode) {
	if mode == ModeMVM {
		h.setDataflow(ModeMVM, ColumnBroadcast, h.n)
		return
	}
	h.setDataflow(ModeMMM, Wavefront, h.n)
}

// Reset keeps the current mode.
func (h *Hsa) Reset() {
	h.reset()
}

// ResetMode is the only way to change dataflow: it switches mode, restores
// the SRAM snapshot and clears latches, counter and result.
func (h *Hsa) ResetMode(requested Mode) error {
	mode, ok := ParseMode(string(requested))
	if !ok {
		return fmt.Errorf("%s: unknown mode %q: %w", h.name, requested, ErrInvalidMode)
	}
	if h.locked && mode != h.mode {
		return fmt.Errorf("%s: cannot switch to %s: %w", h.name, mode.Label(), ErrModeLocked)
	}
	h.applyMode(mode)
	h.reset()
	return nil
}

// Locked reports whether the unit is fixed to MMM.
func (h *Hsa) Locked() bool {
	return h.locked
}

func (h *Hsa) gather(row, col int) Operands {
	ops := Operands{Weight: h.weights.Read(row, col)}

	if h.mode == ModeMVM {
		ops.Act = h.acts.Read(h.n-1, col)
		if col > 0 {
			ops.Carry = h.latches.Read(Forward, row, col-1)
		}
		return ops
	}

	if col == 0 {
		ops.Act = h.acts.Read(row, h.n-1)
	} else {
		ops.Act = h.latches.Read(Forward, row, col-1)
	}
	if row > 0 {
		ops.Carry = h.latches.Read(Down, row-1, col)
	}
	return ops
}

// stream shifts a row's activations once on every cycle its edge PE consumed
// one. MVM broadcasts and never streams.
func (h *Hsa) stream(enabled *EnableMap) {
	if h.mode == ModeMVM {
		return
	}
	for i := 0; i < h.n; i++ {
		if enabled.At(i, 0) {
			h.acts.StreamRow(i)
		}
	}
}

func (h *Hsa) route(row, col int, out Outputs) {
	if h.mode == ModeMVM {
		h.latches.Stage(Forward, row, col, out.Down)
		if col == h.n-1 {
			h.insertResultRight(row, out.Down)
		}
		return
	}

	h.latches.Stage(Forward, row, col, out.Forward)
	h.latches.Stage(Down, row, col, out.Down)
	if row == h.n-1 {
		h.insertResultDown(col, out.Down)
	}
}

// ResultVector is result column 0, where MVM delivers weights x vector.
func (h *Hsa) ResultVector() []int64 {
	return h.result.Col(0)
}

// Emitted is how many MMM outputs column col has delivered so far. Column
// col starts emitting on cycle N-1+col, one value per cycle for N cycles.
func (h *Hsa) Emitted(col int) int {
	if h.mode == ModeMVM {
		if h.counter >= h.n {
			return 1
		}
		return 0
	}
	first := h.n - 1 + col
	switch {
	case h.counter <= first:
		return 0
	case h.counter-first >= h.n:
		return h.n
	default:
		return h.counter - first
	}
}

// EdgeValues returns the values currently presented at the array boundary:
// the broadcast row on top in MVM, the next streamed activation per row on
// the left in MMM. The unused edge is zero.
func (h *Hsa) EdgeValues() (top []int64, left []int64) {
	top = make([]int64, h.n)
	left = make([]int64, h.n)
	for i := 0; i < h.n; i++ {
		if h.mode == ModeMVM {
			top[i] = h.acts.Peek(h.n-1, i)
		} else {
			left[i] = h.acts.Peek(i, h.n-1)
		}
	}
	return top, left
}

// Activations returns a copy of the live (transposed) activation store.
func (h *Hsa) Activations() *Grid {
	return h.acts.Live()
}

func (h *Hsa) Weights() *Grid {
	return h.weights.Live()
}

// VectorActivations builds the N x N activation matrix whose last column is
// v, which is how Hsa takes its MVM operand.
func VectorActivations(v []int64) [][]int64 {
	n := len(v)
	out := make([][]int64, n)
	for i := range out {
		out[i] = make([]int64, n)
		out[i][n-1] = v[i]
	}
	return out
}

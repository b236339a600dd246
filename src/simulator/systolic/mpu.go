package systolic

import "fmt"

// Mpu is the output-stationary matrix unit: an R x C grid of plain MACs.
// Activations (R x D) stream in from the left, weights (D x C) stream in from
// the top, and PE (r,c) accumulates element (r,c) of acts x weights over D
// cycles starting at cycle r+c.
type Mpu struct {
	*array
	depth   int
	acts    *Sram
	weights *Sram
	units   []*Mac
}

func NewMpu(acts, weights [][]int64) (*Mpu, error) {
	actGrid, err := GridFromRows(acts)
	if err != nil {
		return nil, fmt.Errorf("mpu activations: %w", err)
	}
	weightGrid, err := GridFromRows(weights)
	if err != nil {
		return nil, fmt.Errorf("mpu weights: %w", err)
	}
	if actGrid.Cols() != weightGrid.Rows() {
		return nil, fmt.Errorf("mpu: activations %dx%d cannot multiply weights %dx%d: %w",
			actGrid.Rows(), actGrid.Cols(), weightGrid.Rows(), weightGrid.Cols(), ErrDimensionMismatch)
	}

	rows, cols, depth := actGrid.Rows(), weightGrid.Cols(), actGrid.Cols()
	macs, units := macGrid(rows, cols, func() *Mac { return new(Mac) })

	m := &Mpu{
		array:   newArray("mpu", rows, cols, macs, rows, cols),
		depth:   depth,
		acts:    NewSram("mpu.acts", actGrid),
		weights: NewSram("mpu.weights", weightGrid),
		units:   units,
	}
	m.wiring = m
	m.srams = []*Sram{m.acts, m.weights}
	m.setDataflow(ModeMMM, Wavefront, depth)
	m.reset()

	return m, nil
}

func (m *Mpu) Reset() {
	m.reset()
}

// Depth is the shared inner dimension D.
func (m *Mpu) Depth() int {
	return m.depth
}

func (m *Mpu) gather(row, col int) Operands {
	var ops Operands
	if col == 0 {
		ops.Act = m.acts.Read(row, m.depth-1)
	} else {
		ops.Act = m.latches.Read(Forward, row, col-1)
	}
	if row == 0 {
		ops.Weight = m.weights.Read(m.depth-1, col)
	} else {
		ops.Weight = m.latches.Read(Down, row-1, col)
	}
	return ops
}

func (m *Mpu) stream(enabled *EnableMap) {
	for i := 0; i < m.rows; i++ {
		if enabled.At(i, 0) {
			m.acts.StreamRow(i)
		}
	}
	for j := 0; j < m.cols; j++ {
		if enabled.At(0, j) {
			m.weights.StreamCol(j)
		}
	}
}

func (m *Mpu) route(row, col int, out Outputs) {
	m.latches.Stage(Forward, row, col, out.Forward)
	m.latches.Stage(Down, row, col, out.Down)
}

// Result is the grid of PE accumulators; each holds its output element.
func (m *Mpu) Result() *Grid {
	out := mustGrid(m.rows, m.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			out.Set(i, j, m.units[i*m.cols+j].Accumulator())
		}
	}
	return out
}

// EdgeValues returns the next weight entering each column from the top and
// the next activation entering each row from the left.
func (m *Mpu) EdgeValues() (top []int64, left []int64) {
	top = make([]int64, m.cols)
	left = make([]int64, m.rows)
	for j := range top {
		top[j] = m.weights.Peek(m.depth-1, j)
	}
	for i := range left {
		left[i] = m.acts.Peek(i, m.depth-1)
	}
	return top, left
}

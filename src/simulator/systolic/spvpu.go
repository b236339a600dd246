package systolic

import "fmt"

// SpVpu is the sparse vector unit. An R x L weight matrix pruned 2:1 is
// packed onto R x L/2 double-pumped MACs. On cycle c every PE of packed
// column c receives activations v[2c] and v[2c+1] and uses the one its weight
// tag selects; partial sums flow left to right and the last packed column
// delivers weights x v into result column 0.
type SpVpu struct {
	*array
	vector  *Sram // 1 x L
	weights *Sram // R x L/2 packed values
	packed  *PackedWeights
}

// NewSpVpu packs a dense weight matrix and builds the unit. Weights that do
// not satisfy the pruning guarantee are rejected.
func NewSpVpu(vector []int64, weights [][]int64) (*SpVpu, error) {
	packed, err := Pack(weights)
	if err != nil {
		return nil, fmt.Errorf("spvpu: %w", err)
	}
	return NewSpVpuPacked(vector, packed)
}

// NewSpVpuPacked builds the unit from already packed weights.
func NewSpVpuPacked(vector []int64, packed *PackedWeights) (*SpVpu, error) {
	if packed == nil {
		return nil, fmt.Errorf("spvpu: nil packed weights: %w", ErrInvalidDimension)
	}
	if len(vector) != packed.LogicalCols() {
		return nil, fmt.Errorf("spvpu: vector of %d elements for %d logical weight columns: %w",
			len(vector), packed.LogicalCols(), ErrDimensionMismatch)
	}

	vectorGrid, err := GridFromRows([][]int64{vector})
	if err != nil {
		return nil, fmt.Errorf("spvpu vector: %w", err)
	}

	rows, cols := packed.Rows(), packed.Cols()
	macs, _ := macGrid(rows, cols, func() *SpMac { return new(SpMac) })

	s := &SpVpu{
		array:   newArray("spvpu", rows, cols, macs, rows, cols),
		vector:  NewSram("spvpu.vector", vectorGrid),
		weights: NewSram("spvpu.weights", packed.values),
		packed:  packed,
	}
	s.wiring = s
	s.srams = []*Sram{s.vector, s.weights}
	s.setDataflow(ModeMVM, PackedBroadcast, 1)
	s.reset()

	return s, nil
}

func (s *SpVpu) Reset() {
	s.reset()
}

func (s *SpVpu) gather(row, col int) Operands {
	ops := Operands{
		Act:    s.vector.Read(0, 2*col),
		AltAct: s.vector.Read(0, 2*col+1),
		Weight: s.weights.Read(row, col),
		Tag:    s.packed.Tag(row, col),
	}
	if col > 0 {
		ops.Carry = s.latches.Read(Forward, row, col-1)
	}
	return ops
}

func (s *SpVpu) stream(*EnableMap) {}

func (s *SpVpu) route(row, col int, out Outputs) {
	s.latches.Stage(Forward, row, col, out.Down)
	if col == s.cols-1 {
		s.insertResultRight(row, out.Down)
	}
}

// ResultVector is result column 0, weights x v once drained.
func (s *SpVpu) ResultVector() []int64 {
	return s.result.Col(0)
}

func (s *SpVpu) Packed() *PackedWeights {
	return s.packed
}

// EdgeValues returns the activation pair broadcast to each packed column.
func (s *SpVpu) EdgeValues() [][2]int64 {
	out := make([][2]int64, s.cols)
	for c := range out {
		out[c] = [2]int64{s.vector.Peek(0, 2*c), s.vector.Peek(0, 2*c+1)}
	}
	return out
}

package systolic

// Operands are the values presented to one PE on one cycle.
type Operands struct {
	// Act is the streamed or broadcast activation. Double-pumped units use it
	// for the even logical column.
	Act int64
	// AltAct is the odd logical column's activation on double-pumped units.
	AltAct int64
	// Weight is the stationary weight, or the top-streamed operand of an
	// output-stationary MAC.
	Weight int64
	// Tag selects Act (0) or AltAct (1) on double-pumped units.
	Tag uint8
	// Carry is the incoming partial sum.
	Carry int64
}

// Outputs are what a PE hands to its latches. Which plane each one lands in
// is decided by the array's dataflow, not by the MAC.
type Outputs struct {
	Forward int64
	Down    int64
}

// MacUnit is the compute contract of a processing element. A disabled MAC
// returns zero outputs and leaves any internal state untouched.
type MacUnit interface {
	Clock(in Operands, enabled bool) Outputs
}

// Mac is an output-stationary MAC: it accumulates Act*Weight internally and
// passes both operands on unchanged (Act to the right, Weight downwards).
type Mac struct {
	acc int64
}

func (m *Mac) Clock(in Operands, enabled bool) Outputs {
	if !enabled {
		return Outputs{}
	}
	m.acc += in.Act * in.Weight
	return Outputs{Forward: in.Act, Down: in.Weight}
}

// Accumulator returns the partial result held in the PE.
func (m *Mac) Accumulator() int64 {
	return m.acc
}

func (m *Mac) Reset() {
	m.acc = 0
}

// WsMac is a weight-stationary MAC. It forwards the activation and emits
// Act*Weight + Carry as the partial sum.
type WsMac struct{}

func (WsMac) Clock(in Operands, enabled bool) Outputs {
	if !enabled {
		return Outputs{}
	}
	return Outputs{Forward: in.Act, Down: in.Act*in.Weight + in.Carry}
}

// SpMac is the double-pumped sparse MAC. Two activations arrive per cycle and
// the stored weight tag's parity picks one. Weight and tag are loaded on the
// cycle the PE fires.
type SpMac struct {
	weight int64
	tag    uint8
}

func (m *SpMac) Clock(in Operands, enabled bool) Outputs {
	if !enabled {
		return Outputs{}
	}
	m.weight = in.Weight
	m.tag = in.Tag

	act := in.Act
	if m.tag%2 == 1 {
		act = in.AltAct
	}
	return Outputs{Forward: act, Down: act*m.weight + in.Carry}
}

// Weight returns the last loaded weight and tag.
func (m *SpMac) Weight() (int64, uint8) {
	return m.weight, m.tag
}

func (m *SpMac) Reset() {
	m.weight = 0
	m.tag = 0
}

type resetter interface {
	Reset()
}

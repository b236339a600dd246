package systolic

// Sram represents an on-chip SRAM block feeding the array edge. The live copy
// is what the array reads and shifts every cycle; the initial snapshot is
// kept untouched so Restore can bring the block back to its construction-time
// contents without rebuilding it.
type Sram struct {
	Name    string
	initial *Grid
	live    *Grid
	reads   int64
	shifts  int64
}

// NewSram copies contents into a fresh block. The caller's grid is never
// aliased.
func NewSram(name string, contents *Grid) *Sram {
	return &Sram{
		Name:    name,
		initial: contents.Clone(),
		live:    contents.Clone(),
	}
}

func (s *Sram) Rows() int {
	return s.live.Rows()
}

func (s *Sram) Cols() int {
	return s.live.Cols()
}

// Read returns the live value at (row, col) and counts the access.
func (s *Sram) Read(row, col int) int64 {
	s.reads++
	return s.live.At(row, col)
}

// Peek returns the live value without counting an access.
func (s *Sram) Peek(row, col int) int64 {
	return s.live.At(row, col)
}

// StreamRow rotates one row right by a slot, emulating left-to-right streaming.
func (s *Sram) StreamRow(row int) {
	s.shifts++
	s.live.RotateRowRight(row)
}

// StreamCol rotates one column down by a slot, emulating top-to-bottom streaming.
func (s *Sram) StreamCol(col int) {
	s.shifts++
	s.live.RotateColDown(col)
}

// Restore copies the initial snapshot back into the live block and clears
// the access counters.
func (s *Sram) Restore() {
	s.live.CopyFrom(s.initial)
	s.reads = 0
	s.shifts = 0
}

// Live returns a copy of the live contents.
func (s *Sram) Live() *Grid {
	return s.live.Clone()
}

func (s *Sram) Reads() int64 {
	return s.reads
}

func (s *Sram) Shifts() int64 {
	return s.shifts
}

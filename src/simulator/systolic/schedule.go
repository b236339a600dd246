package systolic

import "fmt"

// Discipline selects the enable-window rule of an array.
type Discipline int

const (
	// Wavefront activates anti-diagonals in lockstep: PE (r,c) computes for
	// window consecutive cycles starting at cycle r+c.
	Wavefront Discipline = iota
	// ColumnBroadcast activates a whole column for one cycle: column c fires
	// at cycle c.
	ColumnBroadcast
	// PackedBroadcast is ColumnBroadcast over packed (half-width) columns, each
	// covering two logical weight columns.
	PackedBroadcast
)

func (d Discipline) String() string {
	switch d {
	case Wavefront:
		return "wavefront"
	case ColumnBroadcast:
		return "column-broadcast"
	case PackedBroadcast:
		return "packed-broadcast"
	default:
		return fmt.Sprintf("discipline(%d)", int(d))
	}
}

// Enabled reports whether PE (row, col) computes on cycle counter. It is a
// pure function of its arguments.
func Enabled(d Discipline, row, col, counter, window int) bool {
	switch d {
	case Wavefront:
		start := row + col
		return start <= counter && counter < start+window
	case ColumnBroadcast, PackedBroadcast:
		return counter == col
	default:
		return false
	}
}

// ActiveCycles is the number of cycles PE (row, col) is enabled over a whole
// run: window for Wavefront, one for the broadcast disciplines.
func ActiveCycles(d Discipline, window int) int {
	if d == Wavefront {
		return window
	}
	return 1
}

// DrainCycles is the number of Clock calls after which no PE of a rows x cols
// grid is ever enabled again.
func DrainCycles(d Discipline, rows, cols, window int) int {
	if d == Wavefront {
		return rows + cols + window - 2
	}
	return cols
}

// EnableMap is the per-cycle activity snapshot of a whole grid.
type EnableMap struct {
	discipline Discipline
	window     int
	rows       int
	cols       int
	enabled    []bool
	count      int
}

func NewEnableMap(d Discipline, rows, cols, window int) *EnableMap {
	return &EnableMap{
		discipline: d,
		window:     window,
		rows:       rows,
		cols:       cols,
		enabled:    make([]bool, rows*cols),
	}
}

// Update recomputes every PE's enable for the given cycle.
func (m *EnableMap) Update(counter int) {
	m.count = 0
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			on := Enabled(m.discipline, i, j, counter, m.window)
			m.enabled[i*m.cols+j] = on
			if on {
				m.count++
			}
		}
	}
}

// Clear marks every PE disabled.
func (m *EnableMap) Clear() {
	for i := range m.enabled {
		m.enabled[i] = false
	}
	m.count = 0
}

func (m *EnableMap) At(row, col int) bool {
	return m.enabled[row*m.cols+col]
}

// Count is the number of PEs enabled by the last Update.
func (m *EnableMap) Count() int {
	return m.count
}

// Snapshot returns a [][]bool copy.
func (m *EnableMap) Snapshot() [][]bool {
	out := make([][]bool, m.rows)
	for i := range out {
		out[i] = make([]bool, m.cols)
		copy(out[i], m.enabled[i*m.cols:(i+1)*m.cols])
	}
	return out
}

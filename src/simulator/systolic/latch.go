package systolic

import "fmt"

// Direction names a latch plane.
type Direction int

const (
	// Forward latches feed the PE to the right on the next cycle.
	Forward Direction = iota
	// Down latches feed the PE below on the next cycle.
	Down
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Down:
		return "down"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

type stagedWrite struct {
	dir   Direction
	row   int
	col   int
	value int64
}

// LatchFabric holds the one-cycle registers between neighbouring PEs. Writes
// are staged during a cycle and only become visible after Commit, so every
// read within a cycle observes the previous cycle's values.
type LatchFabric struct {
	forward *Grid
	down    *Grid
	staged  []stagedWrite
	writes  int64
}

func NewLatchFabric(rows, cols int) *LatchFabric {
	return &LatchFabric{
		forward: mustGrid(rows, cols),
		down:    mustGrid(rows, cols),
		staged:  make([]stagedWrite, 0, rows*cols*2),
	}
}

func (l *LatchFabric) plane(dir Direction) *Grid {
	if dir == Down {
		return l.down
	}
	return l.forward
}

// Read returns the committed value of a latch.
func (l *LatchFabric) Read(dir Direction, row, col int) int64 {
	return l.plane(dir).At(row, col)
}

// Stage records a write to be applied on the next Commit.
func (l *LatchFabric) Stage(dir Direction, row, col int, value int64) {
	l.staged = append(l.staged, stagedWrite{dir: dir, row: row, col: col, value: value})
}

// Pending is the number of staged, uncommitted writes.
func (l *LatchFabric) Pending() int {
	return len(l.staged)
}

// Commit applies every staged write at once, as a clock edge would, and
// returns how many latches were written.
func (l *LatchFabric) Commit() int {
	for _, w := range l.staged {
		l.plane(w.dir).Set(w.row, w.col, w.value)
	}
	n := len(l.staged)
	l.writes += int64(n)
	l.staged = l.staged[:0]
	return n
}

// Clear zeroes both planes and drops staged writes.
func (l *LatchFabric) Clear() {
	l.forward.Zero()
	l.down.Zero()
	l.staged = l.staged[:0]
	l.writes = 0
}

// Snapshot returns a copy of one plane.
func (l *LatchFabric) Snapshot(dir Direction) *Grid {
	return l.plane(dir).Clone()
}

// Writes counts committed latch writes since the last Clear.
func (l *LatchFabric) Writes() int64 {
	return l.writes
}

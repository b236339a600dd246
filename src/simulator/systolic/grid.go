package systolic

import (
	"fmt"
	"strconv"
	"strings"
)

// Coord identifies one PE (or one SRAM cell) by row and column.
type Coord struct {
	Row int
	Col int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Grid is a fixed-size row-major matrix of int64 backed by a single owned
// slice. Its shape never changes after construction.
type Grid struct {
	rows int
	cols int
	data []int64
}

// NewGrid allocates a zeroed rows x cols grid.
func NewGrid(rows, cols int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("grid %dx%d: %w", rows, cols, ErrInvalidDimension)
	}

	return &Grid{
		rows: rows,
		cols: cols,
		data: make([]int64, rows*cols),
	}, nil
}

// GridFromRows copies a rectangular [][]int64 into a new grid. Ragged or empty
// input is rejected.
func GridFromRows(values [][]int64) (*Grid, error) {
	if len(values) == 0 || len(values[0]) == 0 {
		return nil, fmt.Errorf("empty matrix: %w", ErrInvalidDimension)
	}

	grid, err := NewGrid(len(values), len(values[0]))
	if err != nil {
		return nil, err
	}

	for i, row := range values {
		if len(row) != grid.cols {
			return nil, fmt.Errorf("row %d has %d columns, want %d: %w", i, len(row), grid.cols, ErrInvalidDimension)
		}
		copy(grid.data[i*grid.cols:(i+1)*grid.cols], row)
	}

	return grid, nil
}

func mustGrid(rows, cols int) *Grid {
	grid, err := NewGrid(rows, cols)
	if err != nil {
		panic(err)
	}
	return grid
}

func (g *Grid) Rows() int {
	return g.rows
}

func (g *Grid) Cols() int {
	return g.cols
}

func (g *Grid) index(row, col int) int {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		panic(fmt.Sprintf("grid index (%d,%d) out of range %dx%d", row, col, g.rows, g.cols))
	}
	return row*g.cols + col
}

func (g *Grid) At(row, col int) int64 {
	return g.data[g.index(row, col)]
}

func (g *Grid) Set(row, col int, value int64) {
	g.data[g.index(row, col)] = value
}

// Row returns a copy of one row.
func (g *Grid) Row(row int) []int64 {
	start := g.index(row, 0)
	out := make([]int64, g.cols)
	copy(out, g.data[start:start+g.cols])
	return out
}

// Col returns a copy of one column.
func (g *Grid) Col(col int) []int64 {
	out := make([]int64, g.rows)
	for i := 0; i < g.rows; i++ {
		out[i] = g.At(i, col)
	}
	return out
}

// ColGrid copies one column into a rows x 1 grid.
func (g *Grid) ColGrid(col int) *Grid {
	return &Grid{rows: g.rows, cols: 1, data: g.Col(col)}
}

// ToRows returns a [][]int64 copy that does not alias the grid.
func (g *Grid) ToRows() [][]int64 {
	out := make([][]int64, g.rows)
	for i := range out {
		out[i] = g.Row(i)
	}
	return out
}

func (g *Grid) Clone() *Grid {
	data := make([]int64, len(g.data))
	copy(data, g.data)
	return &Grid{rows: g.rows, cols: g.cols, data: data}
}

// CopyFrom overwrites g with the contents of src, which must have the same shape.
func (g *Grid) CopyFrom(src *Grid) {
	if g.rows != src.rows || g.cols != src.cols {
		panic(fmt.Sprintf("copy %dx%d into %dx%d", src.rows, src.cols, g.rows, g.cols))
	}
	copy(g.data, src.data)
}

func (g *Grid) Zero() {
	for i := range g.data {
		g.data[i] = 0
	}
}

func (g *Grid) Transpose() *Grid {
	out := mustGrid(g.cols, g.rows)
	for i := 0; i < g.rows; i++ {
		for j := 0; j < g.cols; j++ {
			out.Set(j, i, g.At(i, j))
		}
	}
	return out
}

func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.rows != other.rows || g.cols != other.cols {
		return false
	}
	for i := range g.data {
		if g.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

// RotateRowRight moves every element of the row one slot to the right; the
// rightmost element re-enters at slot 0.
func (g *Grid) RotateRowRight(row int) {
	start := g.index(row, 0)
	line := g.data[start : start+g.cols]
	last := line[g.cols-1]
	copy(line[1:], line[:g.cols-1])
	line[0] = last
}

// RotateColDown moves every element of the column one slot down; the bottom
// element re-enters at row 0.
func (g *Grid) RotateColDown(col int) {
	last := g.At(g.rows-1, col)
	for k := g.rows - 1; k > 0; k-- {
		g.Set(k, col, g.At(k-1, col))
	}
	g.Set(0, col, last)
}

// ShiftColDown pushes value in at the top of the column, discarding the bottom.
func (g *Grid) ShiftColDown(col int, value int64) {
	for k := g.rows - 1; k > 0; k-- {
		g.Set(k, col, g.At(k-1, col))
	}
	g.Set(0, col, value)
}

// ShiftRowRight pushes value in at column 0 of the row, discarding the rightmost.
func (g *Grid) ShiftRowRight(row int, value int64) {
	start := g.index(row, 0)
	line := g.data[start : start+g.cols]
	copy(line[1:], line[:g.cols-1])
	line[0] = value
}

func (g *Grid) String() string {
	var sb strings.Builder
	for i := 0; i < g.rows; i++ {
		for j := 0; j < g.cols; j++ {
			sb.WriteString("| ")
			sb.WriteString(strconv.FormatInt(g.At(i, j), 10))
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}
	return sb.String()
}

package systolic

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridFromRowsRejectsBadShapes(t *testing.T) {
	_, err := GridFromRows([][]int64{{1, 2}, {3}})
	assert.True(t, errors.Is(err, ErrInvalidDimension), "ragged: %v", err)

	_, err = GridFromRows(nil)
	assert.True(t, errors.Is(err, ErrInvalidDimension), "empty: %v", err)

	_, err = NewGrid(0, 3)
	assert.True(t, errors.Is(err, ErrInvalidDimension), "zero rows: %v", err)
}

func TestGridFromRowsCopiesInput(t *testing.T) {
	src := [][]int64{{1, 2}, {3, 4}}
	g, err := GridFromRows(src)
	require.NoError(t, err)

	src[0][0] = 99
	assert.Equal(t, int64(1), g.At(0, 0))

	rows := g.ToRows()
	rows[1][1] = 42
	assert.Equal(t, int64(4), g.At(1, 1))
}

func TestRotateRowRightWraps(t *testing.T) {
	g, err := GridFromRows([][]int64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)

	g.RotateRowRight(0)
	assert.Equal(t, []int64{3, 1, 2}, g.Row(0))
	assert.Equal(t, []int64{4, 5, 6}, g.Row(1))

	g.RotateRowRight(0)
	g.RotateRowRight(0)
	assert.Equal(t, []int64{1, 2, 3}, g.Row(0))
}

func TestRotateColDownWraps(t *testing.T) {
	g, err := GridFromRows([][]int64{{1, 4}, {2, 5}, {3, 6}})
	require.NoError(t, err)

	g.RotateColDown(1)
	assert.Equal(t, []int64{6, 4, 5}, g.Col(1))
	assert.Equal(t, []int64{1, 2, 3}, g.Col(0))
}

func TestShiftInsertsDiscardEdge(t *testing.T) {
	g, err := NewGrid(3, 3)
	require.NoError(t, err)

	g.ShiftColDown(2, 7)
	g.ShiftColDown(2, 8)
	assert.Equal(t, []int64{8, 7, 0}, g.Col(2))

	g.ShiftRowRight(1, 5)
	g.ShiftRowRight(1, 6)
	g.ShiftRowRight(1, 7)
	g.ShiftRowRight(1, 9)
	assert.Equal(t, []int64{9, 7, 6}, g.Row(1))
}

func TestTransposeAndEqual(t *testing.T) {
	g, err := GridFromRows([][]int64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)

	tr := g.Transpose()
	want := [][]int64{{1, 4}, {2, 5}, {3, 6}}
	if diff := cmp.Diff(want, tr.ToRows()); diff != "" {
		t.Fatalf("transpose mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, tr.Transpose().Equal(g))
	assert.False(t, tr.Equal(g))
}

func TestGridIndexOutOfRangePanics(t *testing.T) {
	g, err := NewGrid(2, 2)
	require.NoError(t, err)
	assert.Panics(t, func() { g.At(2, 0) })
	assert.Panics(t, func() { g.Set(0, -1, 1) })
}

func TestColGridCopiesColumn(t *testing.T) {
	g, err := GridFromRows([][]int64{{1, 2}, {3, 4}, {5, 6}})
	require.NoError(t, err)

	col := g.ColGrid(1)
	assert.Equal(t, 3, col.Rows())
	assert.Equal(t, 1, col.Cols())
	assert.Equal(t, [][]int64{{2}, {4}, {6}}, col.ToRows())

	col.Set(0, 0, 99)
	assert.Equal(t, int64(2), g.At(0, 1))

	assert.Panics(t, func() { g.ColGrid(2) })
}

package simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"systolicSim/src/simulator/systolic"
)

func TestMatMul(t *testing.T) {
	got := MatMul([][]int64{{3, 4}, {5, 6}}, [][]int64{{7, 2}, {1, 1}})
	assert.Equal(t, [][]int64{{25, 10}, {41, 16}}, got)

	got = MatMul([][]int64{{1, 2, 3}}, [][]int64{{1}, {0}, {-1}})
	assert.Equal(t, [][]int64{{-2}}, got)

	assert.Nil(t, MatMul(nil, [][]int64{{1}}))
}

func TestMatVec(t *testing.T) {
	assert.Equal(t, []int64{11, 3}, MatVec([][]int64{{7, 2}, {1, 1}}, []int64{1, 2}))
	assert.Equal(t, [][]int64{{11}, {3}}, column([]int64{11, 3}))
}

func TestWorkloadIsDeterministic(t *testing.T) {
	a := NewWorkload(7, 5)
	b := NewWorkload(7, 5)
	assert.Equal(t, a.Matrix(3, 4), b.Matrix(3, 4))
	assert.Equal(t, a.Vector(6), b.Vector(6))

	for _, row := range NewWorkload(3, 5).Matrix(8, 8) {
		for _, v := range row {
			assert.LessOrEqual(t, v, int64(5))
			assert.GreaterOrEqual(t, v, int64(-5))
		}
	}
}

func TestWorkloadPrunedIsPackable(t *testing.T) {
	w := NewWorkload(11, 9)
	for i := 0; i < 20; i++ {
		pruned := w.Pruned(5, 8)
		require.Len(t, pruned, 5)
		assert.Len(t, pruned[0], 8)
		assert.NoError(t, systolic.ValidateSparsity(pruned))
	}
}

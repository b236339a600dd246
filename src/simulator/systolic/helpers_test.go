package systolic

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func randomMatrix(rng *rand.Rand, rows, cols int, bound int64) [][]int64 {
	out := make([][]int64, rows)
	for i := range out {
		out[i] = make([]int64, cols)
		for j := range out[i] {
			out[i][j] = rng.Int63n(2*bound+1) - bound
		}
	}
	return out
}

// randomPruned returns a matrix where every contiguous pair holds exactly one
// non-zero.
func randomPruned(rng *rand.Rand, rows, cols int, bound int64) [][]int64 {
	out := make([][]int64, rows)
	for i := range out {
		out[i] = make([]int64, cols)
		for p := 0; p < cols/2; p++ {
			v := rng.Int63n(bound) + 1
			if rng.Intn(2) == 0 {
				v = -v
			}
			out[i][2*p+rng.Intn(2)] = v
		}
	}
	return out
}

func naiveMatMul(a, b [][]int64) [][]int64 {
	out := make([][]int64, len(a))
	for i := range a {
		out[i] = make([]int64, len(b[0]))
		for j := range b[0] {
			for k := range b {
				out[i][j] += a[i][k] * b[k][j]
			}
		}
	}
	return out
}

func naiveMatVec(w [][]int64, v []int64) []int64 {
	out := make([]int64, len(w))
	for i := range w {
		for j := range v {
			out[i] += w[i][j] * v[j]
		}
	}
	return out
}

func runToDrain(t *testing.T, unit Unit) {
	t.Helper()
	limit := unit.DrainCycles() + 1
	for i := 0; i < limit && !unit.Drained(); i++ {
		unit.Clock()
	}
	require.True(t, unit.Drained(), "%s still draining after %d cycles", unit.Name(), limit)
}

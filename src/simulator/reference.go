package simulator

import "github.com/samber/lo"

// MatMul is the plain triple-loop product a x b.
func MatMul(a, b [][]int64) [][]int64 {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	return lo.Map(a, func(row []int64, _ int) []int64 {
		return lo.Times(len(b[0]), func(j int) int64 {
			return lo.Sum(lo.Map(row, func(v int64, k int) int64 { return v * b[k][j] }))
		})
	})
}

// MatVec is w x v.
func MatVec(w [][]int64, v []int64) []int64 {
	return lo.Map(w, func(row []int64, _ int) int64 {
		return lo.Sum(lo.Map(row, func(x int64, j int) int64 { return x * v[j] }))
	})
}

// column turns v into an n x 1 matrix.
func column(v []int64) [][]int64 {
	return lo.Map(v, func(x int64, _ int) []int64 { return []int64{x} })
}

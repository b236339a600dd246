package simulator

import (
	"math/rand"

	"github.com/samber/lo"
)

// Workload generates deterministic operand matrices from a seed. Values are
// drawn uniformly from [-maxValue, maxValue].
type Workload struct {
	rng      *rand.Rand
	maxValue int64
}

func NewWorkload(seed int64, maxValue int64) *Workload {
	return &Workload{
		rng:      rand.New(rand.NewSource(seed)),
		maxValue: maxValue,
	}
}

func (this *Workload) Value() int64 {
	return this.rng.Int63n(2*this.maxValue+1) - this.maxValue
}

func (this *Workload) Vector(n int) []int64 {
	return lo.Times(n, func(int) int64 { return this.Value() })
}

func (this *Workload) Matrix(rows, cols int) [][]int64 {
	return lo.Times(rows, func(int) []int64 { return this.Vector(cols) })
}

// Pruned returns a rows x cols matrix (cols even) where each contiguous
// pair keeps at most one non-zero, chosen at random.
func (this *Workload) Pruned(rows, cols int) [][]int64 {
	return lo.Times(rows, func(int) []int64 {
		row := make([]int64, cols)
		for p := 0; p+1 < cols; p += 2 {
			row[p+this.rng.Intn(2)] = this.Value()
		}
		return row
	})
}

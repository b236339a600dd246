package systolic

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The activation matrix enters transposed: row r of the store is column r of
// acts, streamed from its last element. With that intake the drained MMM
// buffer is acts x weights in natural orientation.
func TestHsaTwoByTwoScenario(t *testing.T) {
	acts := [][]int64{{3, 4}, {5, 6}}
	weights := [][]int64{{7, 2}, {1, 1}}

	h, err := NewHsa(acts, weights, ModeMMM)
	require.NoError(t, err)
	assert.Equal(t, 4, h.DrainCycles())
	assert.Equal(t, PhaseIdle, h.Phase())

	// cycle 0: only PE(0,0) fires with the last activation row's first element
	h.Clock()
	assert.Equal(t, [][]bool{{true, false}, {false, false}}, h.EnableSnapshot())
	assert.Equal(t, int64(35), h.Latches(Down).At(0, 0))
	assert.Equal(t, int64(5), h.Latches(Forward).At(0, 0))

	// cycle 1: (acts x weights)[1][0] leaves the bottom of column 0
	h.Clock()
	assert.Equal(t, int64(41), h.Result().At(0, 0))
	assert.Equal(t, 1, h.Emitted(0))
	assert.Equal(t, 0, h.Emitted(1))

	// cycle 2: column 0 complete, column 1 has delivered its first value at the top
	h.Clock()
	res := h.Result()
	assert.Equal(t, []int64{25, 41}, res.Col(0))
	assert.Equal(t, int64(16), res.At(0, 1))
	assert.Equal(t, 2, h.Emitted(0))
	assert.Equal(t, 1, h.Emitted(1))
	assert.Equal(t, PhaseDraining, h.Phase())

	h.Clock()
	assert.True(t, h.Drained())
	assert.Equal(t, PhaseDone, h.Phase())
	want := [][]int64{{25, 10}, {41, 16}}
	if diff := cmp.Diff(want, h.Result().ToRows()); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestHsaMMMMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, n := range []int{1, 2, 3, 4, 5, 8} {
		for trial := 0; trial < 4; trial++ {
			acts := randomMatrix(rng, n, n, 9)
			weights := randomMatrix(rng, n, n, 9)

			h, err := NewHsa(acts, weights, ModeMMM)
			require.NoError(t, err)
			assert.Equal(t, 3*n-2, h.DrainCycles())

			runToDrain(t, h)
			if diff := cmp.Diff(naiveMatMul(acts, weights), h.Result().ToRows()); diff != "" {
				t.Fatalf("n=%d trial=%d (-want +got):\n%s", n, trial, diff)
			}
		}
	}
}

func TestHsaMVMMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for _, n := range []int{1, 2, 3, 4, 7} {
		weights := randomMatrix(rng, n, n, 9)
		v := randomMatrix(rng, 1, n, 9)[0]

		h, err := NewHsa(VectorActivations(v), weights, ModeMVM)
		require.NoError(t, err)
		assert.Equal(t, n, h.DrainCycles())

		for i := 0; i < n-1; i++ {
			h.Clock()
		}
		assert.Zero(t, h.Stats().ResultInserts, "n=%d: MVM results must arrive together", n)

		h.Clock()
		assert.Equal(t, int64(n), h.Stats().ResultInserts)
		assert.Equal(t, naiveMatVec(weights, v), h.ResultVector(), "n=%d", n)
		assert.Equal(t, 1, h.Emitted(0))
	}
}

// MVM takes the last column of a full activation matrix; the other columns
// are ignored.
func TestHsaMVMUsesLastActivationColumn(t *testing.T) {
	acts := [][]int64{{9, 1}, {9, 2}}
	weights := [][]int64{{7, 2}, {1, 1}}

	h, err := NewHsa(acts, weights, ModeMVM)
	require.NoError(t, err)
	runToDrain(t, h)
	assert.Equal(t, []int64{11, 3}, h.ResultVector())
}

func TestHsaResultStableAfterDrain(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, mode := range []Mode{ModeMMM, ModeMVM} {
		h, err := NewHsa(randomMatrix(rng, 4, 4, 9), randomMatrix(rng, 4, 4, 9), mode)
		require.NoError(t, err)
		runToDrain(t, h)

		result := h.Result()
		forward := h.Latches(Forward)
		down := h.Latches(Down)
		for i := 0; i < 10; i++ {
			h.Clock()
			assert.True(t, result.Equal(h.Result()), "%s: result changed on idle cycle %d", mode, i)
			assert.True(t, forward.Equal(h.Latches(Forward)))
			assert.True(t, down.Equal(h.Latches(Down)))
			assert.Equal(t, PhaseDone, h.Phase())
		}
	}
}

func TestHsaEnableCountsPerPE(t *testing.T) {
	const n = 5
	rng := rand.New(rand.NewSource(5))
	for _, tc := range []struct {
		mode Mode
		want int
	}{
		{ModeMMM, n},
		{ModeMVM, 1},
	} {
		h, err := NewHsa(randomMatrix(rng, n, n, 5), randomMatrix(rng, n, n, 5), tc.mode)
		require.NoError(t, err)

		counts := make([][]int, n)
		for i := range counts {
			counts[i] = make([]int, n)
		}
		for c := 0; c < h.DrainCycles()+n; c++ {
			h.Clock()
			for i, row := range h.EnableSnapshot() {
				for j, on := range row {
					if on {
						counts[i][j]++
					}
				}
			}
		}
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				assert.Equal(t, tc.want, counts[i][j], "%s pe(%d,%d)", tc.mode, i, j)
			}
		}
	}
}

func TestHsaActivationsRotateBackAfterRun(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	h, err := NewHsa(randomMatrix(rng, 4, 4, 9), randomMatrix(rng, 4, 4, 9), ModeMMM)
	require.NoError(t, err)

	initial := h.Activations()
	runToDrain(t, h)
	assert.True(t, initial.Equal(h.Activations()), "every row streams exactly N times")
}

func TestHsaEdgeValues(t *testing.T) {
	acts := [][]int64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	weights := [][]int64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

	h, err := NewHsa(acts, weights, ModeMMM)
	require.NoError(t, err)
	top, left := h.EdgeValues()
	assert.Equal(t, []int64{0, 0, 0}, top)
	assert.Equal(t, []int64{7, 8, 9}, left)

	require.NoError(t, h.ResetMode(ModeMVM))
	top, left = h.EdgeValues()
	assert.Equal(t, []int64{3, 6, 9}, top)
	assert.Equal(t, []int64{0, 0, 0}, left)
}

func TestHsaResetRestoresConstructionState(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	for _, mode := range []Mode{ModeMMM, ModeMVM} {
		h, err := NewHsa(randomMatrix(rng, 4, 4, 9), randomMatrix(rng, 4, 4, 9), mode)
		require.NoError(t, err)

		acts := h.Activations()
		weights := h.Weights()
		zero := mustGrid(4, 4)

		for round := 0; round < 5; round++ {
			for i := 0; i < rng.Intn(12); i++ {
				h.Clock()
			}
			h.Reset()
			if round%2 == 0 {
				h.Reset()
			}

			assert.Zero(t, h.Counter())
			assert.Equal(t, PhaseIdle, h.Phase())
			assert.True(t, acts.Equal(h.Activations()), "%s round %d: activations", mode, round)
			assert.True(t, weights.Equal(h.Weights()))
			assert.True(t, zero.Equal(h.Latches(Forward)))
			assert.True(t, zero.Equal(h.Latches(Down)))
			assert.True(t, zero.Equal(h.Result()))
			assert.Equal(t, Stats{}, h.Stats())
		}
	}
}

func TestHsaDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	acts := randomMatrix(rng, 6, 6, 20)
	weights := randomMatrix(rng, 6, 6, 20)

	for _, mode := range []Mode{ModeMMM, ModeMVM} {
		a, err := NewHsa(acts, weights, mode)
		require.NoError(t, err)
		b, err := NewHsa(acts, weights, mode)
		require.NoError(t, err)

		for c := 0; c < a.DrainCycles()+2; c++ {
			a.Clock()
			b.Clock()
			require.True(t, a.Latches(Forward).Equal(b.Latches(Forward)), "%s cycle %d", mode, c)
			require.True(t, a.Latches(Down).Equal(b.Latches(Down)), "%s cycle %d", mode, c)
			require.True(t, a.Result().Equal(b.Result()), "%s cycle %d", mode, c)
		}
	}
}

func TestHsaInputsAreCopied(t *testing.T) {
	acts := [][]int64{{3, 4}, {5, 6}}
	weights := [][]int64{{7, 2}, {1, 1}}
	h, err := NewHsa(acts, weights, ModeMMM)
	require.NoError(t, err)

	acts[0][0] = 100
	weights[1][1] = 100
	runToDrain(t, h)
	assert.Equal(t, [][]int64{{25, 10}, {41, 16}}, h.Result().ToRows())
}

func TestHsaClockAsRejectsOtherMode(t *testing.T) {
	h, err := NewHsa([][]int64{{1, 2}, {3, 4}}, [][]int64{{1, 0}, {0, 1}}, ModeMMM)
	require.NoError(t, err)

	require.NoError(t, h.ClockAs(ModeMMM))
	err = h.ClockAs(ModeMVM)
	assert.True(t, errors.Is(err, ErrModeMismatch), "got %v", err)
	assert.Equal(t, 1, h.Counter(), "rejected clock must not advance")
}

func TestHsaSwitchesModeThroughReset(t *testing.T) {
	rng := rand.New(rand.NewSource(19))
	acts := randomMatrix(rng, 4, 4, 9)
	weights := randomMatrix(rng, 4, 4, 9)

	h, err := NewHsa(acts, weights, ModeMMM)
	require.NoError(t, err)
	h.Clock()
	h.Clock()

	require.NoError(t, h.ResetMode(ModeMVM))
	assert.Equal(t, ModeMVM, h.Mode())
	assert.Equal(t, ColumnBroadcast, h.Discipline())
	runToDrain(t, h)

	v := make([]int64, 4)
	for i := range v {
		v[i] = acts[i][3]
	}
	assert.Equal(t, naiveMatVec(weights, v), h.ResultVector())

	require.NoError(t, h.ResetMode(ModeMMM))
	runToDrain(t, h)
	assert.Equal(t, naiveMatMul(acts, weights), h.Result().ToRows())

	assert.True(t, errors.Is(h.ResetMode(Mode("dense")), ErrInvalidMode))
}

func TestMpuHsaIsLockedToMMM(t *testing.T) {
	acts := [][]int64{{3, 4}, {5, 6}}
	weights := [][]int64{{7, 2}, {1, 1}}

	h, err := NewMpuHsa(acts, weights)
	require.NoError(t, err)
	assert.True(t, h.Locked())
	assert.Equal(t, "mpuhsa", h.Name())

	err = h.ResetMode(ModeMVM)
	assert.True(t, errors.Is(err, ErrModeLocked), "got %v", err)
	assert.Equal(t, ModeMMM, h.Mode())

	require.NoError(t, h.ResetMode(ModeMMM))
	runToDrain(t, h)
	assert.Equal(t, [][]int64{{25, 10}, {41, 16}}, h.Result().ToRows())
}

func TestHsaRejectsBadShapes(t *testing.T) {
	square := [][]int64{{1, 2}, {3, 4}}

	_, err := NewHsa(square, [][]int64{{1, 2, 3}, {4, 5, 6}}, ModeMMM)
	assert.True(t, errors.Is(err, ErrDimensionMismatch), "non-square weights: %v", err)

	_, err = NewHsa([][]int64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}, square, ModeMMM)
	assert.True(t, errors.Is(err, ErrDimensionMismatch), "acts size: %v", err)

	_, err = NewHsa([][]int64{{1}, {2, 3}}, square, ModeMMM)
	assert.True(t, errors.Is(err, ErrInvalidDimension), "ragged acts: %v", err)

	_, err = NewHsa(square, square, Mode("bogus"))
	assert.True(t, errors.Is(err, ErrInvalidMode), "unknown mode: %v", err)
}

func TestHsaNormalisesModeCase(t *testing.T) {
	weights := [][]int64{{7, 2}, {1, 1}}

	h, err := NewHsa(VectorActivations([]int64{1, 2}), weights, Mode("MVM"))
	require.NoError(t, err)
	assert.Equal(t, ModeMVM, h.Mode())
	assert.Equal(t, ColumnBroadcast, h.Discipline())
	assert.Equal(t, 2, h.DrainCycles())

	require.NoError(t, h.ClockAs(Mode("Mvm")))
	require.NoError(t, h.ClockAs(ModeMVM))
	assert.Equal(t, []int64{11, 3}, h.ResultVector())

	require.NoError(t, h.ResetMode(Mode("MMM")))
	assert.Equal(t, ModeMMM, h.Mode())
	assert.Equal(t, Wavefront, h.Discipline())

	err = h.ClockAs(Mode("conv"))
	assert.True(t, errors.Is(err, ErrInvalidMode), "got %v", err)
	assert.Zero(t, h.Counter())
}

func TestHsaStatsCountWork(t *testing.T) {
	const n = 3
	rng := rand.New(rand.NewSource(23))
	h, err := NewHsa(randomMatrix(rng, n, n, 4), randomMatrix(rng, n, n, 4), ModeMMM)
	require.NoError(t, err)
	runToDrain(t, h)

	stats := h.Stats()
	assert.Equal(t, int64(3*n-2), stats.Cycles)
	assert.Equal(t, int64(n*n*n), stats.MacOps)
	assert.Equal(t, int64(n*n*n), stats.ActivePeCycles)
	assert.Equal(t, int64(n*n*(3*n-2)-n*n*n), stats.IdlePeCycles)
	assert.Equal(t, int64(2*n*n*n), stats.LatchWrites)
	assert.Equal(t, int64(n*n), stats.ResultInserts)
	assert.Equal(t, int64(n*n), stats.SramShifts)
	assert.InDelta(t, float64(n)/float64(3*n-2), stats.Utilization(), 1e-9)
}

package simulator

import (
	"systolicSim/src/misc"
	"systolicSim/src/simulator/systolic"
)

// HsaPlatform runs the dual-mode array, or the MMM-locked variant when
// locked is set. In MVM the generated vector becomes the last activation
// column.
type HsaPlatform struct {
	unitPlatform
	locked bool
	hsa    *systolic.Hsa
}

func (this *HsaPlatform) Init(config_loader *misc.ConfigLoader) error {
	kind := misc.UnitKindHsa
	if this.locked {
		kind = misc.UnitKindMpuHsa
	}
	this.configure(kind, config_loader)

	n := config_loader.Size()
	mode := systolic.Mode(config_loader.Mode())
	workload := NewWorkload(config_loader.Seed(), config_loader.MaxValue())
	weights := workload.Matrix(n, n)

	var acts [][]int64
	var expected [][]int64
	if mode == systolic.ModeMVM {
		vector := workload.Vector(n)
		acts = systolic.VectorActivations(vector)
		expected = column(MatVec(weights, vector))
	} else {
		acts = workload.Matrix(n, n)
		expected = MatMul(acts, weights)
	}

	var err error
	if this.locked {
		this.hsa, err = systolic.NewMpuHsa(acts, weights)
	} else {
		this.hsa, err = systolic.NewHsa(acts, weights, mode)
	}
	if err != nil {
		return err
	}

	return this.attach(this.hsa, expected, this.result)
}

func (this *HsaPlatform) result() *systolic.Grid {
	if this.hsa.Mode() == systolic.ModeMVM {
		return this.hsa.Result().ColGrid(0)
	}
	return this.hsa.Result()
}

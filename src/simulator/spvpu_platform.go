package simulator

import (
	"systolicSim/src/misc"
	"systolicSim/src/simulator/systolic"
)

// SpVpuPlatform runs the sparse vector unit on a pruned Size x Cols weight
// matrix.
type SpVpuPlatform struct {
	unitPlatform
	spvpu *systolic.SpVpu
}

func (this *SpVpuPlatform) Init(config_loader *misc.ConfigLoader) error {
	this.configure(misc.UnitKindSpVpu, config_loader)

	workload := NewWorkload(config_loader.Seed(), config_loader.MaxValue())
	weights := workload.Pruned(config_loader.Size(), config_loader.Cols())
	vector := workload.Vector(config_loader.Cols())

	var err error
	this.spvpu, err = systolic.NewSpVpu(vector, weights)
	if err != nil {
		return err
	}

	return this.attach(this.spvpu, column(MatVec(weights, vector)), this.result)
}

func (this *SpVpuPlatform) result() *systolic.Grid {
	return this.spvpu.Result().ColGrid(0)
}

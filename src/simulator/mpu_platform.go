package simulator

import (
	"systolicSim/src/misc"
	"systolicSim/src/simulator/systolic"
)

// MpuPlatform runs the output-stationary unit on a Size x Depth by
// Depth x Cols product.
type MpuPlatform struct {
	unitPlatform
	mpu *systolic.Mpu
}

func (this *MpuPlatform) Init(config_loader *misc.ConfigLoader) error {
	this.configure(misc.UnitKindMpu, config_loader)

	workload := NewWorkload(config_loader.Seed(), config_loader.MaxValue())
	acts := workload.Matrix(config_loader.Size(), config_loader.Depth())
	weights := workload.Matrix(config_loader.Depth(), config_loader.Cols())

	var err error
	this.mpu, err = systolic.NewMpu(acts, weights)
	if err != nil {
		return err
	}

	return this.attach(this.mpu, MatMul(acts, weights), this.mpu.Result)
}

package simulator

import (
	"systolicSim/src/misc"
	"systolicSim/src/simulator/systolic"
)

type Simulator struct {
	kind     misc.UnitKind
	platform Platform
}

func (this *Simulator) Init(config_loader *misc.ConfigLoader) error {
	this.kind = config_loader.UnitKind()

	platform, err := newPlatformForKind(this.kind)
	if err != nil {
		return err
	}
	if err := platform.Init(config_loader); err != nil {
		return err
	}

	this.platform = platform
	return nil
}

func (this *Simulator) Fini() {
	if this.platform != nil {
		this.platform.Fini()
	}
}

func (this *Simulator) IsFinished() bool {
	if this.platform == nil {
		return true
	}

	return this.platform.IsFinished()
}

func (this *Simulator) Cycle() {
	if this.platform != nil {
		this.platform.Cycle()
	}
}

// Drain hands the remaining cycles to the akita engine instead of the Cycle
// loop.
func (this *Simulator) Drain() error {
	if this.platform == nil {
		return nil
	}
	return this.platform.Drain()
}

func (this *Simulator) Dump() error {
	if this.platform == nil {
		return nil
	}
	return this.platform.Dump()
}

func (this *Simulator) Unit() systolic.Unit {
	if this.platform == nil {
		return nil
	}
	return this.platform.Unit()
}

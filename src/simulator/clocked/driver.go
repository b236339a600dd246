// Package clocked drives systolic units from an akita discrete-event engine.
// Each tick of the driver clocks the unit once; the driver stops asking for
// ticks once the unit has drained.
package clocked

import (
	"k8s.io/klog/v2"

	"github.com/sarchlab/akita/v4/sim"

	"systolicSim/src/simulator/systolic"
)

// Observer is called after every cycle the driver clocks.
type Observer func(unit systolic.Unit)

// Driver is a ticking component wrapping one unit.
type Driver struct {
	*sim.TickingComponent

	engine   sim.Engine
	unit     systolic.Unit
	ticks    int
	observer Observer
}

// Tick clocks the unit once. It reports no progress when the unit has
// already drained, which lets the engine run out of events.
func (d *Driver) Tick() bool {
	if d.unit.Drained() {
		return false
	}

	d.unit.Clock()
	d.ticks++

	if d.observer != nil {
		d.observer(d.unit)
	}
	return true
}

// Ticks is the number of cycles the driver has clocked.
func (d *Driver) Ticks() int {
	return d.ticks
}

func (d *Driver) Unit() systolic.Unit {
	return d.unit
}

// Kick schedules the first tick at the engine's current time.
func (d *Driver) Kick() {
	d.engine.Schedule(sim.MakeTickEvent(d, d.engine.CurrentTime()))
}

// Builder creates drivers.
type Builder struct {
	engine   sim.Engine
	freq     sim.Freq
	observer Observer
}

// MakeBuilder returns a builder clocked at 1 GHz with no engine set.
func MakeBuilder() Builder {
	return Builder{freq: 1 * sim.GHz}
}

func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

func (b Builder) WithObserver(observer Observer) Builder {
	b.observer = observer
	return b
}

// Build wraps unit in a driver named name.
func (b Builder) Build(name string, unit systolic.Unit) *Driver {
	if b.engine == nil {
		panic("clocked: driver built without an engine")
	}

	d := &Driver{
		engine:   b.engine,
		unit:     unit,
		observer: b.observer,
	}
	d.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, d)
	return d
}

// Report summarises a Run.
type Report struct {
	Ticks int
	Time  sim.VTimeInSec
}

// Run drains unit on a fresh serial engine.
func Run(unit systolic.Unit, observer Observer) (Report, error) {
	engine := sim.NewSerialEngine()
	driver := MakeBuilder().
		WithEngine(engine).
		WithObserver(observer).
		Build(unit.Name()+".Driver", unit)

	driver.Kick()
	if err := engine.Run(); err != nil {
		return Report{}, err
	}

	report := Report{Ticks: driver.Ticks(), Time: engine.CurrentTime()}
	klog.V(1).Infof("[systolic] %s drained by engine after %d ticks (%.3e s simulated)",
		unit.Name(), report.Ticks, float64(report.Time))
	return report, nil
}

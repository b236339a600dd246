package simulator

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"k8s.io/klog/v2"

	"systolicSim/src/misc"
	"systolicSim/src/simulator/clocked"
	"systolicSim/src/simulator/systolic"
)

// ErrResultMismatch is returned by Dump when the drained result differs from
// the reference product.
var ErrResultMismatch = errors.New("simulated result differs from reference")

type Platform interface {
	Init(config_loader *misc.ConfigLoader) error
	Fini()
	IsFinished() bool
	Cycle()
	// Drain runs the unit to completion on an akita engine.
	Drain() error
	Dump() error
	Unit() systolic.Unit
}

func newPlatformForKind(kind misc.UnitKind) (Platform, error) {
	switch kind {
	case misc.UnitKindHsa:
		return new(HsaPlatform), nil
	case misc.UnitKindMpuHsa:
		return &HsaPlatform{locked: true}, nil
	case misc.UnitKindMpu:
		return new(MpuPlatform), nil
	case misc.UnitKindSpVpu:
		return new(SpVpuPlatform), nil
	default:
		return nil, fmt.Errorf("unsupported unit kind: %s", kind)
	}
}

// unitPlatform holds what every unit kind shares: the unit, its reference
// result, logging and dumping.
type unitPlatform struct {
	kind     misc.UnitKind
	unit     systolic.Unit
	expected *systolic.Grid
	actual   func() *systolic.Grid

	render            bool
	dumpDirpath       string
	progressInterval  int
	nextProgressCycle int

	lastStats systolic.Stats
	runStats  systolic.Stats
	cycleLog  []string
}

func (this *unitPlatform) configure(kind misc.UnitKind, config_loader *misc.ConfigLoader) {
	this.kind = kind
	this.render = config_loader.Render()
	this.dumpDirpath = config_loader.DumpDirpath()
	this.progressInterval = config_loader.ProgressInterval()
	this.nextProgressCycle = this.progressInterval
	this.lastStats = systolic.Stats{}
	this.runStats = systolic.Stats{}
	this.cycleLog = []string{"cycle,active_pes,mac_ops,latch_writes,result_inserts"}
}

// attach installs the unit and the reference it is checked against.
func (this *unitPlatform) attach(unit systolic.Unit, expected [][]int64, actual func() *systolic.Grid) error {
	grid, err := systolic.GridFromRows(expected)
	if err != nil {
		return fmt.Errorf("reference for %s: %w", this.kind, err)
	}

	this.unit = unit
	this.expected = grid
	this.actual = actual

	rows, cols := unit.Shape()
	klog.Infof("[systolic] %s %s %dx%d initialised, drains in %d cycles",
		this.kind.Label(), unit.Mode().Label(), rows, cols, unit.DrainCycles())
	if this.render {
		klog.Info("\n" + unit.Render())
	}
	return nil
}

func (this *unitPlatform) Unit() systolic.Unit {
	return this.unit
}

func (this *unitPlatform) Fini() {
	if this.unit != nil {
		klog.Infof("[systolic] %s finished after %d cycles, %d mac ops observed",
			this.kind.Label(), this.unit.Counter(), this.runStats.MacOps)
	}
}

func (this *unitPlatform) IsFinished() bool {
	if this.unit == nil {
		return true
	}
	return this.unit.Drained()
}

func (this *unitPlatform) Cycle() {
	if this.unit == nil {
		return
	}
	this.unit.Clock()
	this.observe(this.unit)
}

func (this *unitPlatform) Drain() error {
	if this.unit == nil {
		return nil
	}
	_, err := clocked.Run(this.unit, this.observe)
	return err
}

// observe records and logs the cycle that was just clocked.
func (this *unitPlatform) observe(unit systolic.Unit) {
	stats := unit.Stats()
	delta := statsDelta(stats, this.lastStats)
	this.lastStats = stats
	this.runStats.Accumulate(delta)

	cycle := unit.Counter() - 1
	this.cycleLog = append(this.cycleLog, fmt.Sprintf("%d,%d,%d,%d,%d",
		cycle, delta.ActivePeCycles, delta.MacOps, delta.LatchWrites, delta.ResultInserts))

	klog.V(1).Infof("[systolic] %s cycle=%d phase=%s active_pes=%d result_inserts=%d",
		this.kind.Label(), cycle, unit.Phase(), delta.ActivePeCycles, delta.ResultInserts)
	if this.render || klog.V(2).Enabled() {
		klog.Info("\n" + unit.Render())
	}

	if this.progressInterval > 0 && unit.Counter() >= this.nextProgressCycle {
		this.nextProgressCycle += this.progressInterval
		klog.Infof("[systolic] %s progress: %d/%d cycles, utilization so far %.4f",
			this.kind.Label(), unit.Counter(), unit.DrainCycles(), this.runStats.Utilization())
	}
}

// Dump writes result, reference, stats and cycle log when a dump directory
// is configured, then reports whether the result matched.
func (this *unitPlatform) Dump() error {
	if this.unit == nil {
		return nil
	}

	actual := this.actual()
	if this.dumpDirpath != "" {
		if err := this.writeFiles(actual); err != nil {
			return err
		}
	}

	if !this.expected.Equal(actual) {
		return fmt.Errorf("%s after %d cycles:\nexpected\n%sgot\n%s%w",
			this.kind.Label(), this.unit.Counter(), this.expected, actual, ErrResultMismatch)
	}

	klog.Infof("[systolic] %s result matches reference (%s)", this.kind.Label(), this.unit.Stats())
	return nil
}

func (this *unitPlatform) writeFiles(actual *systolic.Grid) error {
	prefix := platformPrefix(this.kind)
	stats := this.unit.Stats()
	rows, cols := this.unit.Shape()

	statsLines := []string{
		fmt.Sprintf("%s_unit: %s", prefix, this.unit.Name()),
		fmt.Sprintf("%s_mode: %s", prefix, this.unit.Mode().Label()),
		fmt.Sprintf("%s_rows: %d", prefix, rows),
		fmt.Sprintf("%s_cols: %d", prefix, cols),
		fmt.Sprintf("%s_drain_cycles: %d", prefix, this.unit.DrainCycles()),
		fmt.Sprintf("%s_cycles: %d", prefix, stats.Cycles),
		fmt.Sprintf("%s_active_pe_cycles: %d", prefix, stats.ActivePeCycles),
		fmt.Sprintf("%s_idle_pe_cycles: %d", prefix, stats.IdlePeCycles),
		fmt.Sprintf("%s_mac_ops: %d", prefix, stats.MacOps),
		fmt.Sprintf("%s_latch_writes: %d", prefix, stats.LatchWrites),
		fmt.Sprintf("%s_result_inserts: %d", prefix, stats.ResultInserts),
		fmt.Sprintf("%s_sram_reads: %d", prefix, stats.SramReads),
		fmt.Sprintf("%s_sram_shifts: %d", prefix, stats.SramShifts),
		fmt.Sprintf("%s_utilization: %.6f", prefix, stats.Utilization()),
		fmt.Sprintf("%s_observed_cycles: %d", prefix, this.runStats.Cycles),
		fmt.Sprintf("%s_observed_mac_ops: %d", prefix, this.runStats.MacOps),
		fmt.Sprintf("%s_matches_reference: %t", prefix, this.expected.Equal(actual)),
	}

	files := []struct {
		name  string
		lines []string
	}{
		{"result.txt", gridLines(actual)},
		{"expected.txt", gridLines(this.expected)},
		{"stats.txt", statsLines},
		{"cycle_log.csv", this.cycleLog},
	}
	for _, file := range files {
		file_dumper := new(misc.FileDumper)
		file_dumper.Init(filepath.Join(this.dumpDirpath, file.name))
		if err := file_dumper.WriteLines(file.lines); err != nil {
			return fmt.Errorf("dumping %s: %w", file.name, err)
		}
	}
	return nil
}

// statsDelta is what one clock added to the unit's counters.
func statsDelta(now, last systolic.Stats) systolic.Stats {
	return systolic.Stats{
		Cycles:         now.Cycles - last.Cycles,
		ActivePeCycles: now.ActivePeCycles - last.ActivePeCycles,
		IdlePeCycles:   now.IdlePeCycles - last.IdlePeCycles,
		MacOps:         now.MacOps - last.MacOps,
		LatchWrites:    now.LatchWrites - last.LatchWrites,
		ResultInserts:  now.ResultInserts - last.ResultInserts,
		SramReads:      now.SramReads - last.SramReads,
		SramShifts:     now.SramShifts - last.SramShifts,
	}
}

func platformPrefix(kind misc.UnitKind) string {
	switch kind {
	case misc.UnitKindHsa:
		return "HsaPlatform"
	case misc.UnitKindMpuHsa:
		return "MpuHsaPlatform"
	case misc.UnitKindMpu:
		return "MpuPlatform"
	case misc.UnitKindSpVpu:
		return "SpVpuPlatform"
	default:
		return string(kind)
	}
}

func gridLines(grid *systolic.Grid) []string {
	return lo.Map(grid.ToRows(), func(row []int64, _ int) string {
		return strings.Join(lo.Map(row, func(v int64, _ int) string { return fmt.Sprint(v) }), " ")
	})
}

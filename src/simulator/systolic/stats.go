package systolic

import "fmt"

// Stats records per-unit activity counters.
type Stats struct {
	Cycles         int64
	ActivePeCycles int64
	IdlePeCycles   int64
	MacOps         int64
	LatchWrites    int64
	ResultInserts  int64
	SramReads      int64
	SramShifts     int64
}

func (s *Stats) Reset() {
	*s = Stats{}
}

func (s *Stats) Accumulate(other Stats) {
	s.Cycles += other.Cycles
	s.ActivePeCycles += other.ActivePeCycles
	s.IdlePeCycles += other.IdlePeCycles
	s.MacOps += other.MacOps
	s.LatchWrites += other.LatchWrites
	s.ResultInserts += other.ResultInserts
	s.SramReads += other.SramReads
	s.SramShifts += other.SramShifts
}

// Utilization is the fraction of PE-cycles that did useful work.
func (s Stats) Utilization() float64 {
	total := s.ActivePeCycles + s.IdlePeCycles
	if total <= 0 {
		return 0
	}
	return float64(s.ActivePeCycles) / float64(total)
}

func (s Stats) String() string {
	return fmt.Sprintf(
		"cycles=%d active_pe_cycles=%d idle_pe_cycles=%d mac_ops=%d latch_writes=%d result_inserts=%d sram_reads=%d sram_shifts=%d utilization=%.4f",
		s.Cycles, s.ActivePeCycles, s.IdlePeCycles, s.MacOps, s.LatchWrites, s.ResultInserts, s.SramReads, s.SramShifts, s.Utilization(),
	)
}

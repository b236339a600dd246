package main

import (
	"flag"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"systolicSim/src/misc"
	"systolicSim/src/simulator"
)

func main() {
	err := NewRootCommand().Execute()
	klog.Flush()
	if err != nil {
		os.Exit(1)
	}
}

func NewRootCommand() *cobra.Command {
	opts := misc.DefaultOptions()

	command := &cobra.Command{
		Use:          "systolicSim",
		Short:        "Cycle-accurate simulator of weight-stationary systolic arrays",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return Run(opts)
		},
	}
	AddOptions(command.Flags(), &opts)

	// verbosity levels
	// level 0: run milestones and the final comparison
	// level 1: level 0 + one summary line per cycle
	// level 2: level 1 + rendering of the array after every cycle
	klog_flags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klog_flags)
	command.PersistentFlags().AddGoFlagSet(klog_flags)

	return command
}

func AddOptions(flags *pflag.FlagSet, opts *misc.Options) {
	flags.StringVar(&opts.Unit, "unit", opts.Unit, "systolic unit to simulate (hsa|mpuhsa|mpu|spvpu)")
	flags.StringVar(&opts.Mode, "mode", opts.Mode, "dataflow mode (mmm|mvm)")
	flags.IntVar(&opts.Size, "size", opts.Size, "array size N, or row count for mpu and spvpu")
	flags.IntVar(&opts.Depth, "depth", opts.Depth, "mpu inner dimension (<=0 means size)")
	flags.IntVar(&opts.Cols, "cols", opts.Cols,
		"mpu columns or spvpu logical weight columns (<=0 means size, twice size for spvpu)")
	flags.Int64Var(&opts.Seed, "seed", opts.Seed, "seed of the generated operands")
	flags.Int64Var(&opts.MaxValue, "max_value", opts.MaxValue, "generated operands lie in [-max_value, max_value]")
	flags.StringVar(&opts.Engine, "engine", opts.Engine, "clocking engine (loop|akita)")
	flags.BoolVar(&opts.Render, "render", opts.Render, "log the array rendering after every cycle")
	flags.StringVar(&opts.DumpDirpath, "dump_dirpath", opts.DumpDirpath,
		"directory for result.txt, expected.txt, stats.txt and cycle_log.csv")
	flags.IntVar(&opts.ProgressInterval, "progress_interval", opts.ProgressInterval,
		"log progress every N cycles (<=0 disables)")
}

// Run configures, validates, simulates until drained and dumps.
func Run(opts misc.Options) error {
	misc.ConfigureRuntime(opts)

	config_loader := new(misc.ConfigLoader)
	config_loader.Init()

	config_validator := new(misc.ConfigValidator)
	config_validator.Init(config_loader)
	if err := config_validator.Validate(); err != nil {
		return err
	}

	klog.Infof("[systolic] starting %s simulation on the %s engine",
		config_loader.UnitKind().Label(), config_loader.Engine())

	simulator_ := new(simulator.Simulator)
	if err := simulator_.Init(config_loader); err != nil {
		return err
	}
	defer simulator_.Fini()

	if config_loader.Engine() == misc.EngineKindAkita {
		if err := simulator_.Drain(); err != nil {
			return err
		}
	} else {
		for !simulator_.IsFinished() {
			simulator_.Cycle()
		}
	}

	return simulator_.Dump()
}

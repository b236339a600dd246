package misc

import (
	"errors"
	"fmt"
	"os"
)

type ConfigValidator struct {
	config_loader *ConfigLoader
}

func (this *ConfigValidator) Init(config_loader *ConfigLoader) {
	this.config_loader = config_loader
}

// Validate reports the first setting that cannot be simulated.
func (this *ConfigValidator) Validate() error {
	kind := this.config_loader.UnitKind()
	if kind == "" {
		return fmt.Errorf("unit %s is not supported", this.config_loader.RawUnit())
	}

	mode := this.config_loader.Mode()
	if mode == "" {
		return fmt.Errorf("mode %s is not supported", this.config_loader.RawMode())
	}

	if this.config_loader.Engine() == "" {
		return fmt.Errorf("engine %s is not supported", this.config_loader.RawEngine())
	}

	if this.config_loader.Size() <= 0 {
		return errors.New("size <= 0")
	}

	if this.config_loader.MaxValue() <= 0 {
		return errors.New("max_value <= 0")
	}

	if this.config_loader.ProgressInterval() < 0 {
		return errors.New("progress_interval < 0")
	}

	switch kind {
	case UnitKindMpuHsa:
		if mode != DataflowMMM {
			return fmt.Errorf("unit %s only runs %s", kind, DataflowMMM.Label())
		}
	case UnitKindMpu:
		if mode != DataflowMMM {
			return fmt.Errorf("unit %s only runs %s", kind, DataflowMMM.Label())
		}
		if this.config_loader.Depth() <= 0 {
			return errors.New("depth <= 0")
		}
		if this.config_loader.Cols() <= 0 {
			return errors.New("cols <= 0")
		}
	case UnitKindSpVpu:
		if mode != DataflowMVM {
			return fmt.Errorf("unit %s only runs %s", kind, DataflowMVM.Label())
		}
		if this.config_loader.Cols() <= 0 {
			return errors.New("cols <= 0")
		}
		if this.config_loader.Cols()%2 != 0 {
			return fmt.Errorf("cols %d must be even for %s", this.config_loader.Cols(), kind)
		}
	}

	if dumpDirpath := this.config_loader.DumpDirpath(); dumpDirpath != "" {
		if info, err := os.Stat(dumpDirpath); err == nil && !info.IsDir() {
			return fmt.Errorf("dump_dirpath %s is not a directory", dumpDirpath)
		}
	}

	return nil
}

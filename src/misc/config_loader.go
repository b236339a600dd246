package misc

import (
	"os"
	"path/filepath"
	"strings"
)

type ConfigLoader struct{}

// Options carries the raw command line values into ConfigureRuntime.
type Options struct {
	Unit             string
	Mode             string
	Size             int
	Depth            int
	Cols             int
	Seed             int64
	MaxValue         int64
	Engine           string
	Render           bool
	DumpDirpath      string
	ProgressInterval int
}

// DefaultOptions mirrors the flag defaults of the command line.
func DefaultOptions() Options {
	return Options{
		Unit:     string(DefaultUnitKind()),
		Mode:     string(DataflowMMM),
		Size:     4,
		Seed:     1,
		MaxValue: 9,
		Engine:   string(EngineKindLoop),
	}
}

type runtimeConfig struct {
	unitKind         UnitKind
	rawUnit          string
	mode             DataflowMode
	rawMode          string
	size             int
	depth            int
	cols             int
	seed             int64
	maxValue         int64
	engine           EngineKind
	rawEngine        string
	render           bool
	dumpDirpath      string
	progressInterval int
}

var globalConfig = runtimeConfig{
	unitKind: DefaultUnitKind(),
	rawUnit:  string(DefaultUnitKind()),
	mode:     DataflowMMM,
	rawMode:  string(DataflowMMM),
	size:     4,
	seed:     1,
	maxValue: 9,
	engine:   EngineKindLoop,
}

// ConfigureRuntime installs opts as the process-wide configuration. Unknown
// unit, mode or engine names are kept verbatim so ConfigValidator can report
// them.
func ConfigureRuntime(opts Options) {
	globalConfig.rawUnit = opts.Unit
	globalConfig.unitKind = ""
	if kind, ok := UnitKindFromString(opts.Unit); ok {
		globalConfig.unitKind = kind
	}

	globalConfig.rawMode = opts.Mode
	globalConfig.mode = ""
	if mode, ok := DataflowModeFromString(opts.Mode); ok {
		globalConfig.mode = mode
	}

	globalConfig.rawEngine = opts.Engine
	globalConfig.engine = ""
	if engine, ok := EngineKindFromString(opts.Engine); ok {
		globalConfig.engine = engine
	}

	globalConfig.size = opts.Size
	globalConfig.depth = opts.Depth
	globalConfig.cols = opts.Cols
	globalConfig.seed = opts.Seed
	globalConfig.maxValue = opts.MaxValue
	globalConfig.render = opts.Render
	globalConfig.dumpDirpath = resolveDirPath(opts.DumpDirpath)
	globalConfig.progressInterval = opts.ProgressInterval
}

func (this *ConfigLoader) Init() {}

func (this *ConfigLoader) UnitKind() UnitKind {
	return globalConfig.unitKind
}

func (this *ConfigLoader) RawUnit() string {
	return globalConfig.rawUnit
}

func (this *ConfigLoader) Mode() DataflowMode {
	return globalConfig.mode
}

func (this *ConfigLoader) RawMode() string {
	return globalConfig.rawMode
}

// Size is N for the square units and the row count R otherwise.
func (this *ConfigLoader) Size() int {
	return globalConfig.size
}

// Depth is the MPU inner dimension; it defaults to Size.
func (this *ConfigLoader) Depth() int {
	if globalConfig.depth <= 0 {
		return globalConfig.size
	}
	return globalConfig.depth
}

// Cols is the MPU column count or the SpVPU logical weight width. The MPU
// defaults to Size, the SpVPU to twice Size.
func (this *ConfigLoader) Cols() int {
	if globalConfig.cols > 0 {
		return globalConfig.cols
	}
	if globalConfig.unitKind == UnitKindSpVpu {
		return 2 * globalConfig.size
	}
	return globalConfig.size
}

func (this *ConfigLoader) Seed() int64 {
	return globalConfig.seed
}

func (this *ConfigLoader) MaxValue() int64 {
	return globalConfig.maxValue
}

func (this *ConfigLoader) Engine() EngineKind {
	return globalConfig.engine
}

func (this *ConfigLoader) RawEngine() string {
	return globalConfig.rawEngine
}

func (this *ConfigLoader) Render() bool {
	return globalConfig.render
}

// DumpDirpath is empty when nothing should be written.
func (this *ConfigLoader) DumpDirpath() string {
	return globalConfig.dumpDirpath
}

func (this *ConfigLoader) ProgressInterval() int {
	return globalConfig.progressInterval
}

func resolveDirPath(dirPath string) string {
	dirPath = strings.TrimSpace(dirPath)
	if dirPath == "" {
		return ""
	}

	if filepath.IsAbs(dirPath) {
		return filepath.Clean(dirPath)
	}

	if cwd, err := os.Getwd(); err == nil {
		return filepath.Join(cwd, dirPath)
	}
	if abs, err := filepath.Abs(dirPath); err == nil {
		return abs
	}
	return dirPath
}

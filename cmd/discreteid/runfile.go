package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/urfave/cli/v2"
)

// RunFile holds every setting of a run. It can be loaded from TOML; command
// line flags that are explicitly set take precedence.
type RunFile struct {
	Input     string `toml:"input"`
	Metric    string `toml:"metric"`
	Period    []int  `toml:"period"`
	Condensed bool   `toml:"condensed"`
	DMax      int    `toml:"dmax"`
	MaxK      int    `toml:"maxk"`
	Workers   int    `toml:"workers"`
	Seed      uint64 `toml:"seed"`
	LogLevel  string `toml:"log_level"`

	Method   string  `toml:"method"`
	Ratio    float64 `toml:"ratio"`
	K        int     `toml:"k"`
	Shell    bool    `toml:"shell"`
	LK       float64 `toml:"lk"`
	LN       float64 `toml:"ln"`
	Subset   int     `toml:"subset"`
	Validate bool    `toml:"validate"`
	Sampled  bool    `toml:"sampled"`
	Density  bool    `toml:"density"`

	Ks    []int     `toml:"ks"`
	Radii []float64 `toml:"radii"`
}

// defaultRunFile mirrors the flag defaults.
func defaultRunFile() *RunFile {
	return &RunFile{
		Metric:   MetricFlag.Value,
		LogLevel: LogLevelFlag.Value,
		Method:   MethodFlag.Value,
		Ratio:    RatioFlag.Value,
		K:        KFlag.Value,
	}
}

// loadRunFile reads a TOML run file over the defaults. An empty path yields
// the defaults.
func loadRunFile(path string) (*RunFile, error) {
	rf := defaultRunFile()
	if path == "" {
		return rf, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read run file: %w", err)
	}
	md, err := toml.Decode(string(data), rf)
	if err != nil {
		return nil, fmt.Errorf("decode run file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("run file %s: unknown keys %v", path, undecoded)
	}
	return rf, nil
}

// runFileFromContext loads the run file named by --config and applies the
// flags set on the command line.
func runFileFromContext(ctx *cli.Context) (*RunFile, error) {
	rf, err := loadRunFile(ctx.Path(ConfigFlag.Name))
	if err != nil {
		return nil, err
	}

	if ctx.IsSet(InputFlag.Name) {
		rf.Input = ctx.Path(InputFlag.Name)
	}
	if ctx.IsSet(MetricFlag.Name) {
		rf.Metric = ctx.String(MetricFlag.Name)
	}
	if ctx.IsSet(PeriodFlag.Name) {
		rf.Period = ctx.IntSlice(PeriodFlag.Name)
	}
	if ctx.IsSet(CondensedFlag.Name) {
		rf.Condensed = ctx.Bool(CondensedFlag.Name)
	}
	if ctx.IsSet(DMaxFlag.Name) {
		rf.DMax = ctx.Int(DMaxFlag.Name)
	}
	if ctx.IsSet(MaxKFlag.Name) {
		rf.MaxK = ctx.Int(MaxKFlag.Name)
	}
	if ctx.IsSet(WorkersFlag.Name) {
		rf.Workers = ctx.Int(WorkersFlag.Name)
	}
	if ctx.IsSet(SeedFlag.Name) {
		rf.Seed = ctx.Uint64(SeedFlag.Name)
	}
	if ctx.IsSet(LogLevelFlag.Name) {
		rf.LogLevel = ctx.String(LogLevelFlag.Name)
	}

	if ctx.IsSet(MethodFlag.Name) {
		rf.Method = ctx.String(MethodFlag.Name)
	}
	if ctx.IsSet(RatioFlag.Name) {
		rf.Ratio = ctx.Float64(RatioFlag.Name)
	}
	if ctx.IsSet(KFlag.Name) {
		rf.K = ctx.Int(KFlag.Name)
	}
	if ctx.IsSet(ShellFlag.Name) {
		rf.Shell = ctx.Bool(ShellFlag.Name)
	}
	if ctx.IsSet(LKFlag.Name) {
		rf.LK = ctx.Float64(LKFlag.Name)
	}
	if ctx.IsSet(LNFlag.Name) {
		rf.LN = ctx.Float64(LNFlag.Name)
	}
	if ctx.IsSet(SubsetFlag.Name) {
		rf.Subset = ctx.Int(SubsetFlag.Name)
	}
	if ctx.IsSet(ValidateFlag.Name) {
		rf.Validate = ctx.Bool(ValidateFlag.Name)
	}
	if ctx.IsSet(SampledFlag.Name) {
		rf.Sampled = ctx.Bool(SampledFlag.Name)
	}
	if ctx.IsSet(DensityFlag.Name) {
		rf.Density = ctx.Bool(DensityFlag.Name)
	}
	if ctx.IsSet(KsFlag.Name) {
		rf.Ks = ctx.IntSlice(KsFlag.Name)
	}
	if ctx.IsSet(RadiiFlag.Name) {
		rf.Radii = ctx.Float64Slice(RadiiFlag.Name)
	}

	if rf.Input == "" {
		return nil, fmt.Errorf("no input file; use --%s or set input in the run file", InputFlag.Name)
	}
	return rf, nil
}

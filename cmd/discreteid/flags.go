package main

import "github.com/urfave/cli/v2"

// Data and distance flags, shared by every command.
var (
	ConfigFlag = cli.PathFlag{
		Name:  "config",
		Usage: "TOML run file; explicit flags override its values",
	}
	InputFlag = cli.PathFlag{
		Name:    "input",
		Aliases: []string{"i"},
		Usage:   "CSV file of integer coordinates, one point per row",
	}
	MetricFlag = cli.StringFlag{
		Name:  "metric",
		Usage: "lattice metric: manhattan, euclidean or chebyshev",
		Value: "manhattan",
	}
	PeriodFlag = cli.IntSliceFlag{
		Name:  "period",
		Usage: "box period, one value for all axes or one per axis; empty for open boundaries",
	}
	CondensedFlag = cli.BoolFlag{
		Name:  "condensed",
		Usage: "store cumulative neighbor counts instead of neighbor tables",
	}
	DMaxFlag = cli.IntFlag{
		Name:  "dmax",
		Usage: "largest radius tracked in condensed mode (0 = data extent)",
	}
	MaxKFlag = cli.IntFlag{
		Name:  "maxk",
		Usage: "neighbors kept per point in full mode (0 = all)",
	}
	WorkersFlag = cli.IntFlag{
		Name:  "workers",
		Usage: "number of goroutines for the distance computation (0 = all CPUs)",
	}
	SeedFlag = cli.Uint64Flag{
		Name:  "seed",
		Usage: "seed for subset selection and model sampling",
	}
	LogLevelFlag = cli.StringFlag{
		Name:  "log-level",
		Usage: "critical, error, warning, notice, info or debug",
		Value: "warning",
	}
)

// Fit flags.
var (
	MethodFlag = cli.StringFlag{
		Name:  "method",
		Usage: "mle or bayes",
		Value: "mle",
	}
	RatioFlag = cli.Float64Flag{
		Name:  "ratio",
		Usage: "inner to outer radius ratio, in (0, 1)",
		Value: 0.5,
	}
	KFlag = cli.IntFlag{
		Name:  "k",
		Usage: "neighbor rank (or shell index with --shell) setting the outer radius",
		Value: 10,
	}
	ShellFlag = cli.BoolFlag{
		Name:  "shell",
		Usage: "count k in filled distance shells rather than neighbors",
	}
	LKFlag = cli.Float64Flag{
		Name:  "lk",
		Usage: "common outer radius; overrides --k when set",
	}
	LNFlag = cli.Float64Flag{
		Name:  "ln",
		Usage: "common inner radius (default: ratio * lk, rounded)",
	}
	SubsetFlag = cli.IntFlag{
		Name:  "subset",
		Usage: "fit on a random subset of this many points (0 = all)",
	}
	ValidateFlag = cli.BoolFlag{
		Name:  "validate",
		Usage: "test the fitted binomial model with a Kolmogorov-Smirnov test",
	}
	SampledFlag = cli.BoolFlag{
		Name:  "sampled",
		Usage: "validate against sampled model counts instead of the exact CDF",
	}
	DensityFlag = cli.BoolFlag{
		Name:  "density",
		Usage: "report mean neighbor densities at the fitted dimension",
	}
	KsFlag = cli.IntSliceFlag{
		Name:  "ks",
		Usage: "neighbor ranks to sweep",
	}
	RadiiFlag = cli.Float64SliceFlag{
		Name:  "radii",
		Usage: "radii to sweep",
	}
)

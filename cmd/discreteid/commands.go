package main

import (
	"fmt"
	"math"

	"github.com/TrevorS/discreteid"
	"github.com/urfave/cli/v2"
)

// fitFlags are shared by the commands that run binomial fits.
var fitFlags = []cli.Flag{
	&MethodFlag,
	&RatioFlag,
	&SubsetFlag,
}

// FitCommand runs a single fit.
var FitCommand = cli.Command{
	Action: fitAction,
	Name:   "fit",
	Usage:  "estimates the intrinsic dimension at one scale",
	Description: `
	The scale is either a neighbor rank (--k, optionally counted in
	distance shells with --shell) or a common outer radius (--lk).`,
	Flags: append([]cli.Flag{
		&KFlag,
		&ShellFlag,
		&LKFlag,
		&LNFlag,
		&ValidateFlag,
		&SampledFlag,
		&DensityFlag,
	}, fitFlags...),
}

// SweepKCommand estimates the dimension over a range of neighbor ranks.
var SweepKCommand = cli.Command{
	Action:    sweepKAction,
	Name:      "sweep-k",
	Usage:     "estimates the intrinsic dimension for each neighbor rank",
	ArgsUsage: "--ks 5,10,20",
	Flags:     append([]cli.Flag{&KsFlag}, fitFlags...),
}

// SweepRadiusCommand estimates the dimension over a range of radii.
var SweepRadiusCommand = cli.Command{
	Action:    sweepRadiusAction,
	Name:      "sweep-r",
	Usage:     "estimates the intrinsic dimension for each outer radius",
	ArgsUsage: "--radii 4,6,8",
	Flags:     append([]cli.Flag{&RadiiFlag}, fitFlags...),
}

// GrowthCommand fits the growth of the mean neighbor count with radius.
var GrowthCommand = cli.Command{
	Action:    growthAction,
	Name:      "growth",
	Usage:     "fits lattice and continuum power laws to the neighbor count growth",
	ArgsUsage: "--radii 1,2,3,4",
	Flags:     []cli.Flag{&RadiiFlag},
}

// HistogramCommand prints the pair distance histogram.
var HistogramCommand = cli.Command{
	Action: histogramAction,
	Name:   "hist",
	Usage:  "prints the number of point pairs per distance shell",
}

// session is a loaded data set with distances computed.
type session struct {
	rf  *RunFile
	est *discreteid.Estimator
}

// openSession reads the run settings and points and computes distances.
func openSession(ctx *cli.Context) (*session, error) {
	rf, err := runFileFromContext(ctx)
	if err != nil {
		return nil, err
	}
	points, err := readPointsFile(rf.Input)
	if err != nil {
		return nil, err
	}

	cfg := discreteid.DefaultConfig()
	cfg.Workers = rf.Workers
	cfg.Seed = rf.Seed
	cfg.Logger = discreteid.NewLogger(rf.LogLevel, "discreteid")

	est, err := discreteid.NewEstimator(points, cfg)
	if err != nil {
		return nil, err
	}
	err = est.ComputeDistances(discreteid.DistanceConfig{
		Metric:    discreteid.Metric(rf.Metric),
		Period:    rf.Period,
		Condensed: rf.Condensed,
		DMax:      rf.DMax,
		MaxK:      rf.MaxK,
	})
	if err != nil {
		return nil, err
	}
	return &session{rf: rf, est: est}, nil
}

// fitOptions converts the run settings to fit options.
func (s *session) fitOptions() (discreteid.FitOptions, error) {
	method, err := discreteid.ParseMethod(s.rf.Method)
	if err != nil {
		return discreteid.FitOptions{}, err
	}
	return discreteid.FitOptions{Method: method, SubsetSize: s.rf.Subset}, nil
}

// fitAction runs one fit and, on request, its validation and densities.
func fitAction(ctx *cli.Context) error {
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	opts, err := s.fitOptions()
	if err != nil {
		return err
	}

	var fit *discreteid.FitResult
	if s.rf.LK > 0 {
		ln := s.rf.LN
		if !ctx.IsSet(LNFlag.Name) && ln == 0 {
			ln = math.Round(s.rf.LK * s.rf.Ratio)
		}
		fit, err = s.est.ComputeIDBinomialLK(s.rf.LK, ln, opts)
	} else {
		fit, err = s.est.ComputeIDBinomialK(s.rf.K, s.rf.Ratio, s.rf.Shell, opts)
	}
	if err != nil {
		return err
	}
	printFit(ctx.App.Writer, fit)

	if s.rf.Validate && !math.IsNaN(fit.Dim) {
		res, err := s.est.ValidateModel(fit, !s.rf.Sampled)
		if err != nil {
			return err
		}
		printValidation(ctx.App.Writer, res)
	}
	if s.rf.Density && !math.IsNaN(fit.Dim) {
		ld, err := s.est.ComputeLocalDensity(fit, false)
		if err != nil {
			return err
		}
		printDensity(ctx.App.Writer, ld)
	}
	return nil
}

func sweepKAction(ctx *cli.Context) error {
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	if len(s.rf.Ks) == 0 {
		return fmt.Errorf("no ranks to sweep; use --%s", KsFlag.Name)
	}
	opts, err := s.fitOptions()
	if err != nil {
		return err
	}
	curve, err := s.est.IDScalingK(s.rf.Ks, s.rf.Ratio, opts)
	if err != nil {
		return err
	}
	labels := make([]string, len(s.rf.Ks))
	for i, k := range s.rf.Ks {
		labels[i] = fmt.Sprintf("%d", k)
	}
	printCurve(ctx.App.Writer, "k", labels, curve)
	return nil
}

func sweepRadiusAction(ctx *cli.Context) error {
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	if len(s.rf.Radii) == 0 {
		return fmt.Errorf("no radii to sweep; use --%s", RadiiFlag.Name)
	}
	opts, err := s.fitOptions()
	if err != nil {
		return err
	}
	curve, err := s.est.IDScaling(s.rf.Radii, s.rf.Ratio, opts)
	if err != nil {
		return err
	}
	labels := make([]string, len(s.rf.Radii))
	for i, r := range s.rf.Radii {
		labels[i] = fmt.Sprintf("%g", math.Round(r*s.rf.Ratio))
	}
	printCurve(ctx.App.Writer, "ln", labels, curve)
	return nil
}

func growthAction(ctx *cli.Context) error {
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	lattice, err := s.est.IDFit(s.rf.Radii)
	if err != nil {
		return err
	}
	continuum, err := s.est.IDFitContinuum(s.rf.Radii)
	if err != nil {
		return err
	}
	printGrowth(ctx.App.Writer, lattice, continuum)
	return nil
}

func histogramAction(ctx *cli.Context) error {
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	h, err := s.est.Histogram()
	if err != nil {
		return err
	}
	printHistogram(ctx.App.Writer, h)
	return nil
}

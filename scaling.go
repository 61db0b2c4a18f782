package discreteid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// lseStep is the step of the central difference used to differentiate the
// least-squares error of IDFit.
const lseStep = 1e-6

// ScalePoint is one entry of an ID-vs-scale curve.
type ScalePoint struct {
	// Scale is the radius (or mean outer radius for rank sweeps).
	Scale float64
	// Dim and Err are NaN when the estimate at this scale failed.
	Dim float64
	Err float64
	// Fit is the full fit behind the point, kept only when diagnostics were
	// requested.
	Fit *FitResult
}

// ScalingCurve lists estimates in the order the scales were requested.
type ScalingCurve []ScalePoint

// Scales returns the scale column of the curve.
func (c ScalingCurve) Scales() []float64 { return c.column(func(p ScalePoint) float64 { return p.Scale }) }

// Dims returns the dimension column of the curve.
func (c ScalingCurve) Dims() []float64 { return c.column(func(p ScalePoint) float64 { return p.Dim }) }

// Errs returns the error column of the curve.
func (c ScalingCurve) Errs() []float64 { return c.column(func(p ScalePoint) float64 { return p.Err }) }

func (c ScalingCurve) column(f func(ScalePoint) float64) []float64 {
	out := make([]float64, len(c))
	for i, p := range c {
		out[i] = f(p)
	}
	return out
}

func failedPoint(scale float64) ScalePoint {
	return ScalePoint{Scale: scale, Dim: math.NaN(), Err: math.NaN()}
}

// fitPoint turns a fit (or its failure) into a curve entry. Degenerate fits
// are boundary values rather than estimates and are recorded as failures.
func (e *Estimator) fitPoint(scale float64, fit *FitResult, err error, keep bool) ScalePoint {
	if err != nil {
		e.log.Debugf("scale %g skipped: %v", scale, err)
		return failedPoint(scale)
	}
	p := failedPoint(scale)
	if !fit.Degenerate() {
		p.Dim, p.Err = fit.Dim, fit.Err
	}
	if keep {
		p.Fit = fit
	}
	return p
}

// sweepOptions draws a random subset once so that every scale of a sweep
// uses the same points.
func (e *Estimator) sweepOptions(opts FitOptions) (FitOptions, error) {
	if err := e.requireDistances(); err != nil {
		return opts, err
	}
	if opts.Subset == nil && opts.SubsetSize != 0 {
		points, err := e.selectPoints(opts)
		if err != nil {
			return opts, err
		}
		opts.Subset = points
	}
	return opts, nil
}

// IDScaling fits the dimension at each outer radius in radii, with inner
// radius ratio times the outer one rounded half up. A radius that cannot be
// fitted yields a NaN entry and the sweep continues.
func (e *Estimator) IDScaling(radii []float64, ratio float64, opts FitOptions) (ScalingCurve, error) {
	opts, err := e.sweepOptions(opts)
	if err != nil {
		return nil, err
	}
	if err := checkRatio(ratio); err != nil {
		return nil, err
	}

	curve := make(ScalingCurve, len(radii))
	for i, r := range radii {
		fit, err := e.ComputeIDBinomialLK(r, math.Round(r*ratio), opts)
		curve[i] = e.fitPoint(r, fit, err, opts.Diagnostics)
	}
	return curve, nil
}

// IDScalingK fits the dimension at each neighbor rank in ks. The scale of
// each entry is the mean outer radius of that rank.
func (e *Estimator) IDScalingK(ks []int, ratio float64, opts FitOptions) (ScalingCurve, error) {
	opts, err := e.sweepOptions(opts)
	if err != nil {
		return nil, err
	}
	if err := checkRatio(ratio); err != nil {
		return nil, err
	}

	curve := make(ScalingCurve, len(ks))
	for i, k := range ks {
		fit, err := e.ComputeIDBinomialK(k, ratio, false, opts)
		scale := math.NaN()
		if err == nil {
			scale = stat.Mean(fit.Scales.Outer, nil)
		}
		curve[i] = e.fitPoint(scale, fit, err, opts.Diagnostics)
	}
	return curve, nil
}

// logMeanCounts returns log<N(r)> for each radius, the logarithm of the
// mean number of other points within r. Radii whose counts are unavailable
// or zero give NaN.
func (e *Estimator) logMeanCounts(radii []float64) []float64 {
	ys := make([]float64, len(radii))
	for i, r := range radii {
		mean, err := e.MeanNeighborCount(r)
		if err != nil || r <= 0 || mean <= 0 {
			ys[i] = math.NaN()
			continue
		}
		ys[i] = math.Log(mean)
	}
	return ys
}

// finitePrefix returns the radii and values among the first j+1 entries
// whose values are finite.
func finitePrefix(radii, ys []float64, j int) (rs, vs []float64) {
	for i := 0; i <= j; i++ {
		if !math.IsNaN(ys[i]) {
			rs = append(rs, radii[i])
			vs = append(vs, ys[i])
		}
	}
	return rs, vs
}

func checkRadii(radii []float64) error {
	if len(radii) < 2 {
		return fmt.Errorf("%w: need at least 2 radii, got %d", ErrConfiguration, len(radii))
	}
	return nil
}

// IDFit fits the growth of the mean neighbor count with radius directly:
// entry j-1 minimizes the squared error between log<N(r)> and
// log V(r, d) + c over the first j+1 radii. The curve has len(radii)-1
// entries; Err holds the root-mean-square residual.
func (e *Estimator) IDFit(radii []float64) (ScalingCurve, error) {
	if err := e.requireDistances(); err != nil {
		return nil, err
	}
	if err := checkRadii(radii); err != nil {
		return nil, err
	}

	ys := e.logMeanCounts(radii)
	curve := make(ScalingCurve, 0, len(radii)-1)
	for j := 1; j < len(radii); j++ {
		rs, vs := finitePrefix(radii, ys, j)
		if len(rs) < 2 {
			curve = append(curve, failedPoint(radii[j]))
			continue
		}
		dLSE := func(d float64) float64 {
			return (e.countLSE(rs, vs, d+lseStep) - e.countLSE(rs, vs, d-lseStep)) / (2 * lseStep)
		}
		lo := e.cfg.DimMin + lseStep
		d, err := e.cfg.RootFinder.FindRoot(dLSE, lo, e.cfg.DimMax)
		if err != nil {
			e.log.Debugf("IDFit at radius %g: %v", radii[j], err)
			curve = append(curve, failedPoint(radii[j]))
			continue
		}
		curve = append(curve, ScalePoint{
			Scale: radii[j],
			Dim:   d,
			Err:   math.Sqrt(e.countLSE(rs, vs, d) / float64(len(rs))),
		})
	}
	return curve, nil
}

// countLSE is the least-squares error of log V(r, d) + c against ys, with
// the offset c set to its optimum for d.
func (e *Estimator) countLSE(radii, ys []float64, d float64) float64 {
	res := make([]float64, len(radii))
	for i, r := range radii {
		v, _ := e.volumes.volume(r, d)
		res[i] = ys[i] - math.Log(v)
	}
	c := stat.Mean(res, nil)
	var sum float64
	for _, x := range res {
		sum += (x - c) * (x - c)
	}
	return sum
}

// IDFitContinuum is the continuum counterpart of IDFit: entry j-1 is the
// least-squares slope of log<N(r)> against log r over the first j+1
// radii, the dimension a continuous power law r^d would imply. Err is the
// standard error of the slope, NaN with fewer than three radii.
func (e *Estimator) IDFitContinuum(radii []float64) (ScalingCurve, error) {
	if err := e.requireDistances(); err != nil {
		return nil, err
	}
	if err := checkRadii(radii); err != nil {
		return nil, err
	}

	ys := e.logMeanCounts(radii)
	curve := make(ScalingCurve, 0, len(radii)-1)
	for j := 1; j < len(radii); j++ {
		rs, vs := finitePrefix(radii, ys, j)
		if len(rs) < 2 {
			curve = append(curve, failedPoint(radii[j]))
			continue
		}
		xs := make([]float64, len(rs))
		for i, r := range rs {
			xs[i] = math.Log(r)
		}
		alpha, beta := stat.LinearRegression(xs, vs, nil, false)
		curve = append(curve, ScalePoint{
			Scale: radii[j],
			Dim:   beta,
			Err:   slopeStdErr(xs, vs, alpha, beta),
		})
	}
	return curve, nil
}

// slopeStdErr returns the standard error of the slope of y = alpha + beta*x.
func slopeStdErr(xs, ys []float64, alpha, beta float64) float64 {
	m := len(xs)
	if m < 3 {
		return math.NaN()
	}
	mx := stat.Mean(xs, nil)
	var sse, sxx float64
	for i := range xs {
		r := ys[i] - alpha - beta*xs[i]
		sse += r * r
		sxx += (xs[i] - mx) * (xs[i] - mx)
	}
	if sxx == 0 {
		return math.NaN()
	}
	return math.Sqrt(sse / float64(m-2) / sxx)
}

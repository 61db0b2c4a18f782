package discreteid

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Method selects how the binomial model is fitted.
type Method int

const (
	// MethodMLE maximizes the binomial likelihood.
	MethodMLE Method = iota
	// MethodBayes reports the posterior mean and standard deviation.
	MethodBayes
)

func (m Method) String() string {
	switch m {
	case MethodMLE:
		return "mle"
	case MethodBayes:
		return "bayes"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod converts "mle" or "bayes" to a Method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "mle":
		return MethodMLE, nil
	case "bayes":
		return MethodBayes, nil
	default:
		return 0, fmt.Errorf("%w: unknown method %q", ErrConfiguration, s)
	}
}

// BetaPrior is the Beta(A, B) prior on the inner/outer volume ratio used by
// MethodBayes. Zero fields mean 1, a uniform prior.
type BetaPrior struct {
	A, B float64
}

// FitOptions control a single binomial fit.
type FitOptions struct {
	// Method is MethodMLE or MethodBayes.
	Method Method

	// Subset restricts the fit to these point indices.
	Subset []int

	// SubsetSize, when Subset is nil and SubsetSize > 0, fits on a random
	// subset of that many points drawn from the estimator's Sampler.
	SubsetSize int

	// Diagnostics attaches plottable curves to the result: the posterior
	// density for MethodBayes, the log-likelihood profile for MethodMLE.
	Diagnostics bool

	// Prior is used by MethodBayes.
	Prior BetaPrior
}

// Curve is a sampled function, ready for an external plotting routine.
type Curve struct {
	X []float64
	Y []float64
}

// FitResult is the outcome of one binomial fit.
type FitResult struct {
	// Dim is the intrinsic dimension estimate. NaN when nothing could be
	// estimated.
	Dim float64
	// Err is the standard error (MLE) or posterior standard deviation (Bayes).
	Err float64
	// Method is the method that produced the estimate.
	Method Method
	// Scales are the radii and counts the fit was computed from.
	Scales *Scales
	// Posterior is the normalized posterior density of the dimension.
	// Set for MethodBayes with Diagnostics.
	Posterior *Curve
	// Profile is the log-likelihood as a function of the dimension.
	// Set for MethodMLE with Diagnostics.
	Profile *Curve
	// Degeneracy is non-nil, wrapping ErrNumericDegeneracy, when the fit fell
	// back to a boundary or undefined value.
	Degeneracy error
}

// Degenerate reports whether the fit hit a numeric degeneracy.
func (f *FitResult) Degenerate() bool { return f.Degeneracy != nil }

// scalePair groups the points sharing one (outer, inner) radius pair. Their
// counts can be pooled because they share the success probability.
type scalePair struct {
	outer, inner float64
	k, n         int
}

// binomialModel is the likelihood of a Scales under the binomial model
// n ~ Binomial(k, V(inner, d)/V(outer, d)).
type binomialModel struct {
	pairs   []scalePair
	volumes *volumeCache
	k, n    int
}

func newBinomialModel(s *Scales, volumes *volumeCache) *binomialModel {
	type key struct{ outer, inner float64 }
	idx := make(map[key]int)
	m := &binomialModel{volumes: volumes}
	for i := range s.Points {
		// Pairs with no neighbors or equal radii carry no information on d.
		if s.K[i] == 0 || s.Inner[i] >= s.Outer[i] {
			continue
		}
		kk := key{s.Outer[i], s.Inner[i]}
		j, ok := idx[kk]
		if !ok {
			j = len(m.pairs)
			idx[kk] = j
			m.pairs = append(m.pairs, scalePair{outer: kk.outer, inner: kk.inner})
		}
		m.pairs[j].k += s.K[i]
		m.pairs[j].n += s.N[i]
		m.k += s.K[i]
		m.n += s.N[i]
	}
	// Fixed summation order regardless of map iteration or point order.
	sort.Slice(m.pairs, func(a, b int) bool {
		if m.pairs[a].outer != m.pairs[b].outer {
			return m.pairs[a].outer < m.pairs[b].outer
		}
		return m.pairs[a].inner < m.pairs[b].inner
	})
	return m
}

// logLik returns the binomial log-likelihood at dimension d, up to the
// binomial coefficients which do not depend on d.
func (m *binomialModel) logLik(d float64) float64 {
	var ll float64
	for _, pr := range m.pairs {
		p, _ := m.volumes.ratio(pr.inner, pr.outer, d)
		if !(p > 0 && p < 1) {
			continue
		}
		ll += float64(pr.n)*math.Log(p) + float64(pr.k-pr.n)*math.Log1p(-p)
	}
	return ll
}

// score returns the derivative of logLik with respect to d.
func (m *binomialModel) score(d float64) float64 {
	var s float64
	for _, pr := range m.pairs {
		p, dp := m.volumes.ratio(pr.inner, pr.outer, d)
		if !(p > 0 && p < 1) {
			continue
		}
		s += (float64(pr.n)/p - float64(pr.k-pr.n)/(1-p)) * dp
	}
	return s
}

// fisher returns the Fisher information of the model at d.
func (m *binomialModel) fisher(d float64) float64 {
	var info float64
	for _, pr := range m.pairs {
		p, dp := m.volumes.ratio(pr.inner, pr.outer, d)
		if !(p > 0 && p < 1) {
			continue
		}
		info += float64(pr.k) * dp * dp / (p * (1 - p))
	}
	return info
}

func degeneracy(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNumericDegeneracy, fmt.Sprintf(format, args...))
}

// Fit estimates the intrinsic dimension from precomputed scales.
func (e *Estimator) Fit(s *Scales, opts FitOptions) (*FitResult, error) {
	if err := e.requireDistances(); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: no scales to fit", ErrState)
	}

	model := newBinomialModel(s, e.volumes)
	res := &FitResult{Method: opts.Method, Scales: s}

	switch opts.Method {
	case MethodMLE:
		e.fitMLE(model, res)
		if opts.Diagnostics {
			res.Profile = e.profile(model)
		}
	case MethodBayes:
		e.fitBayes(model, opts.Prior, opts.Diagnostics, res)
	default:
		return nil, fmt.Errorf("%w: unknown method %v", ErrConfiguration, opts.Method)
	}

	if res.Degeneracy != nil {
		e.log.Debugf("degenerate %v fit on %d points: %v", opts.Method, s.Len(), res.Degeneracy)
	}
	return res, nil
}

// fitMLE solves the score equation on [DimMin, DimMax]. The score is
// positive below the maximum and negative above it.
func (e *Estimator) fitMLE(m *binomialModel, res *FitResult) {
	lo, hi := e.cfg.DimMin, e.cfg.DimMax
	switch {
	case m.k == 0:
		res.Dim, res.Err = math.NaN(), math.NaN()
		res.Degeneracy = degeneracy("no neighbors within the outer radius")
		return
	case m.n == 0:
		res.Dim, res.Err = hi, math.NaN()
		res.Degeneracy = degeneracy("no neighbors within the inner radius")
		return
	case m.n == m.k:
		res.Dim, res.Err = lo, math.NaN()
		res.Degeneracy = degeneracy("all neighbors lie within the inner radius")
		return
	}

	d, err := e.cfg.RootFinder.FindRoot(m.score, lo, hi)
	if err != nil {
		// Without a bracket the likelihood is monotone on the interval and
		// peaks at the end where the score points.
		if errors.Is(err, ErrNoBracket) || math.IsNaN(d) {
			if m.score(lo) <= 0 {
				d = lo
			} else {
				d = hi
			}
		}
		res.Dim, res.Err = d, math.NaN()
		res.Degeneracy = fmt.Errorf("%w: root search: %w", ErrNumericDegeneracy, err)
		return
	}

	res.Dim = d
	res.Err = 1 / math.Sqrt(m.fisher(d))
}

// grid returns GridSize dimension values spanning [DimMin, DimMax].
func (e *Estimator) grid() []float64 {
	return floats.Span(make([]float64, e.cfg.GridSize), e.cfg.DimMin, e.cfg.DimMax)
}

// profile samples the log-likelihood on the dimension grid.
func (e *Estimator) profile(m *binomialModel) *Curve {
	xs := e.grid()
	ys := make([]float64, len(xs))
	for i, d := range xs {
		ys[i] = m.logLik(d)
	}
	return &Curve{X: xs, Y: ys}
}

// ComputeIDBinomialK fits the dimension at a fixed neighbor rank. With shell
// false the outer radius of each point is the distance of its k-th
// neighbor; with shell true it is the radius of its k-th filled distance
// shell. The inner radius is ratio times the outer one, rounded.
func (e *Estimator) ComputeIDBinomialK(k int, ratio float64, shell bool, opts FitOptions) (*FitResult, error) {
	points, err := e.fitPoints(opts)
	if err != nil {
		return nil, err
	}
	var s *Scales
	if shell {
		s, err = e.FixKShell(k, ratio, points)
	} else {
		s, err = e.FixK(k, ratio, points)
	}
	if err != nil {
		return nil, err
	}
	return e.Fit(s, opts)
}

// ComputeIDBinomialLK fits the dimension with the outer radius lk and inner
// radius ln shared by all selected points.
func (e *Estimator) ComputeIDBinomialLK(lk, ln float64, opts FitOptions) (*FitResult, error) {
	points, err := e.fitPoints(opts)
	if err != nil {
		return nil, err
	}
	s, err := e.FixRadius(lk, ln, points)
	if err != nil {
		return nil, err
	}
	return e.Fit(s, opts)
}

// fitPoints resolves the subset of opts, returning nil for "all points".
func (e *Estimator) fitPoints(opts FitOptions) ([]int, error) {
	if err := e.requireDistances(); err != nil {
		return nil, err
	}
	if opts.Subset == nil && opts.SubsetSize == 0 {
		return nil, nil
	}
	return e.selectPoints(opts)
}

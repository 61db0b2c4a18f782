package discreteid

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ValidationResult compares the observed inner counts with the binomial
// model implied by a fit.
type ValidationResult struct {
	// CDF tells whether the model side used exact cumulative probabilities
	// (true) or a sample drawn from the point-mass probabilities (false).
	CDF bool
	// Support lists the count values 0..max k.
	Support []int
	// Empirical and Model are the cumulative distributions at each support
	// value when CDF is true, and the point-mass frequencies otherwise.
	Empirical []float64
	Model     []float64
	// Statistics[x] is |F_emp(x) - F_model(x)| at each support value.
	Statistics []float64
	// Statistic is the Kolmogorov-Smirnov distance, the maximum of Statistics.
	Statistic float64
	// PValue is the two-sided p-value, in (0, 1].
	PValue float64
}

// ValidateModel tests whether the inner neighbor counts behind fit follow
// the binomial model with the fitted dimension.
//
// With cdf true, the empirical CDF of the counts is compared with the
// mixture of each point's binomial CDF, a one-sample test. With cdf false,
// one count per point is drawn from the model's point-mass probabilities
// using the estimator's Sampler, and the two samples are compared.
func (e *Estimator) ValidateModel(fit *FitResult, cdf bool) (*ValidationResult, error) {
	if err := e.requireDistances(); err != nil {
		return nil, err
	}
	if fit == nil || fit.Scales == nil {
		return nil, fmt.Errorf("%w: validation needs a fit", ErrState)
	}
	if math.IsNaN(fit.Dim) {
		return nil, fmt.Errorf("%w: fit has no dimension estimate: %v", ErrState, fit.Degeneracy)
	}
	s := fit.Scales
	if s.Len() == 0 {
		return nil, fmt.Errorf("%w: fit has no points", ErrState)
	}

	probs := make([]float64, s.Len())
	maxK := 0
	for i := range s.Points {
		probs[i] = e.successProbability(s.Inner[i], s.Outer[i], fit.Dim)
		maxK = max(maxK, s.K[i])
	}
	observed := make([]float64, s.Len())
	for i, n := range s.N {
		observed[i] = float64(n)
	}
	sort.Float64s(observed)

	res := &ValidationResult{
		CDF:        cdf,
		Support:    make([]int, maxK+1),
		Empirical:  make([]float64, maxK+1),
		Model:      make([]float64, maxK+1),
		Statistics: make([]float64, maxK+1),
	}
	for x := range res.Support {
		res.Support[x] = x
	}

	if cdf {
		for x := range res.Support {
			res.Empirical[x] = stat.CDF(float64(x), stat.Empirical, observed, nil)
			var sum float64
			for i := range probs {
				sum += binomialCDF(x, s.K[i], probs[i])
			}
			res.Model[x] = sum / float64(len(probs))
			res.Statistics[x] = math.Abs(res.Empirical[x] - res.Model[x])
		}
		res.Statistic = floats.Max(res.Statistics)
		res.PValue = kolmogorovPValue(res.Statistic, float64(len(observed)))
		return res, nil
	}

	simulated := make([]float64, len(probs))
	for i := range probs {
		simulated[i] = float64(sampleBinomial(e.cfg.Sampler, s.K[i], probs[i]))
	}
	sort.Float64s(simulated)

	m := float64(len(observed))
	for _, v := range observed {
		res.Empirical[int(v)] += 1 / m
	}
	for _, v := range simulated {
		res.Model[int(v)] += 1 / m
	}
	for x := range res.Support {
		q := float64(x)
		res.Statistics[x] = math.Abs(stat.CDF(q, stat.Empirical, observed, nil) - stat.CDF(q, stat.Empirical, simulated, nil))
	}
	res.Statistic = stat.KolmogorovSmirnov(observed, nil, simulated, nil)
	// Two samples of equal size m: effective size m*m/(m+m).
	res.PValue = kolmogorovPValue(res.Statistic, m/2)
	return res, nil
}

// successProbability returns V(inner, d)/V(outer, d), the chance that a
// neighbor within the outer radius also lies within the inner one.
func (e *Estimator) successProbability(inner, outer, d float64) float64 {
	if inner >= outer {
		return 1
	}
	p, _ := e.volumes.ratio(inner, outer, d)
	if math.IsNaN(p) {
		return 1
	}
	return math.Min(math.Max(p, 0), 1)
}

// binomialCDF returns P(X <= x) for X ~ Binomial(trials, p), handling the
// degenerate cases gonum's distribution does not accept.
func binomialCDF(x, trials int, p float64) float64 {
	switch {
	case x >= trials:
		return 1
	case trials == 0 || p <= 0:
		return 1
	case p >= 1:
		return 0
	}
	return distuv.Binomial{N: float64(trials), P: p}.CDF(float64(x))
}

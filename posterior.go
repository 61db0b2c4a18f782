package discreteid

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat/distuv"
)

// fitBayes evaluates the posterior of the dimension on a grid and reports
// its mean and standard deviation.
//
// With a single radius pair the posterior of p = V(ln)/V(lk) is the
// conjugate Beta(A+n, B+k-n); it is carried over to d with the Jacobian
// |dp/dd|. With several pairs there is no common p, and the binomial
// likelihood is combined with a flat prior on d instead.
func (e *Estimator) fitBayes(m *binomialModel, prior BetaPrior, diagnostics bool, res *FitResult) {
	if m.k == 0 {
		res.Dim, res.Err = math.NaN(), math.NaN()
		res.Degeneracy = degeneracy("no neighbors within the outer radius")
		return
	}
	a, b := prior.A, prior.B
	if a <= 0 {
		a = 1
	}
	if b <= 0 {
		b = 1
	}

	xs := e.grid()
	logPost := make([]float64, len(xs))
	if len(m.pairs) == 1 {
		pr := m.pairs[0]
		beta := distuv.Beta{Alpha: a + float64(pr.n), Beta: b + float64(pr.k-pr.n)}
		for i, d := range xs {
			p, dp := m.volumes.ratio(pr.inner, pr.outer, d)
			if !(p > 0 && p < 1) || dp == 0 {
				logPost[i] = math.Inf(-1)
				continue
			}
			logPost[i] = beta.LogProb(p) + math.Log(math.Abs(dp))
		}
	} else {
		for i, d := range xs {
			logPost[i] = m.logLik(d)
		}
	}

	w := posteriorWeights(logPost)
	if w == nil {
		res.Dim, res.Err = math.NaN(), math.NaN()
		res.Degeneracy = degeneracy("posterior vanishes on [%g, %g]", e.cfg.DimMin, e.cfg.DimMax)
		return
	}

	z := integrate.Trapezoidal(xs, w)
	moment := make([]float64, len(xs))
	for i, d := range xs {
		moment[i] = d * w[i]
	}
	mean := integrate.Trapezoidal(xs, moment) / z
	for i, d := range xs {
		moment[i] = (d - mean) * (d - mean) * w[i]
	}
	variance := integrate.Trapezoidal(xs, moment) / z

	res.Dim = mean
	res.Err = math.Sqrt(variance)
	if diagnostics {
		floats.Scale(1/z, w)
		res.Posterior = &Curve{X: xs, Y: w}
	}
}

// posteriorWeights exponentiates log densities relative to their maximum.
// It returns nil if no value is finite.
func posteriorWeights(logPost []float64) []float64 {
	peak := math.Inf(-1)
	for _, v := range logPost {
		if !math.IsNaN(v) && v > peak {
			peak = v
		}
	}
	if math.IsInf(peak, 0) {
		return nil
	}
	w := make([]float64, len(logPost))
	for i, v := range logPost {
		if math.IsNaN(v) {
			continue
		}
		w[i] = math.Exp(v - peak)
	}
	return w
}

// Package discreteid estimates the intrinsic dimension of data that lives on
// an integer lattice.
//
// The estimator counts, for each point, the neighbors within two nested
// radii lk > ln. If the data locally fills a d-dimensional lattice uniformly,
// the inner count n is binomially distributed given the outer count k:
//
//	n ~ Binomial(k, V(ln, d) / V(lk, d))
//
// where V(r, d) is the number of lattice sites in a ball of radius r. For the
// Manhattan metric V is the exact lattice count continued to real d, so the
// estimate stays unbiased at the small radii where continuum estimators fail.
//
// Basic usage:
//
//	est, err := discreteid.NewEstimator(points, discreteid.DefaultConfig())
//	err = est.ComputeDistances(discreteid.DistanceConfig{
//		Metric: discreteid.MetricManhattan,
//		Period: []int{20},
//	})
//	fit, err := est.ComputeIDBinomialK(25, 0.5, false, discreteid.FitOptions{})
//	// fit.Dim is the estimate, fit.Err its standard error
//
// # Distance storage
//
// Full mode keeps, per point, its MaxK nearest neighbors in ascending
// order. Condensed mode (DistanceConfig.Condensed) keeps only cumulative
// neighbor counts per integer radius up to DMax, which is all the binomial
// model needs and avoids storing neighbor identities. Condensed mode only
// answers integer radii. Every radius chosen by FixK and FixKShell is an
// integer shell, so both modes give identical fits.
//
// # Scale selection
//
// FixK takes, per point, the largest radius holding fewer than k neighbors.
// FixKShell takes the k-th filled distance shell, and FixRadius uses the same
// radii for all points. IDScaling and IDScalingK sweep these over a range of scales;
// scales that cannot be fitted are reported as NaN and the sweep goes on.
//
// # Checking the model
//
// ValidateModel compares the observed inner counts with the binomial model at
// the fitted dimension using a Kolmogorov-Smirnov test. A small p-value means
// the data is not locally uniform at that scale, or the estimate is off.
package discreteid

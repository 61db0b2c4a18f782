package discreteid

import (
	"fmt"
	"math"
)

const (
	bisectionTol     = 1e-10 // bracket width at which bisection stops
	bisectionMaxIter = 200   // maximum number of halvings
)

// RootFinder locates a zero of a continuous function on a bracket.
type RootFinder interface {
	// FindRoot returns x in [lo, hi] with f(x) ~ 0. f(lo) and f(hi) must
	// have opposite signs; otherwise ErrNoBracket is returned.
	FindRoot(f func(float64) float64, lo, hi float64) (float64, error)
}

// Bisection is a RootFinder that halves the bracket until it is narrower
// than Tol. Zero fields take the package defaults.
type Bisection struct {
	Tol     float64
	MaxIter int
}

// FindRoot implements RootFinder.
func (b Bisection) FindRoot(f func(float64) float64, lo, hi float64) (float64, error) {
	tol := b.Tol
	if tol <= 0 {
		tol = bisectionTol
	}
	maxIter := b.MaxIter
	if maxIter <= 0 {
		maxIter = bisectionMaxIter
	}

	flo, fhi := f(lo), f(hi)
	switch {
	case math.IsNaN(flo) || math.IsNaN(fhi):
		return math.NaN(), fmt.Errorf("%w: f is NaN at an end of [%g, %g]", ErrNoBracket, lo, hi)
	case flo == 0:
		return lo, nil
	case fhi == 0:
		return hi, nil
	case (flo > 0) == (fhi > 0):
		return math.NaN(), fmt.Errorf("%w: f(%g)=%g, f(%g)=%g", ErrNoBracket, lo, flo, hi, fhi)
	}

	mid := (lo + hi) / 2
	for i := 0; i < maxIter; i++ {
		mid = (lo + hi) / 2
		fm := f(mid)
		if fm == 0 {
			return mid, nil
		}
		if (fm > 0) == (flo > 0) {
			lo, flo = mid, fm
		} else {
			hi = mid
		}
		if hi-lo < tol {
			return (lo + hi) / 2, nil
		}
	}
	return mid, fmt.Errorf("bisection: failed to converge after %v steps", maxIter)
}

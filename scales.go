package discreteid

import (
	"fmt"
	"math"
)

// Scales holds, for each selected point, the two nested radii of the
// binomial model and the neighbor counts within them.
type Scales struct {
	// Points are the indices of the selected points.
	Points []int
	// Outer and Inner are the radii lk and ln, Inner <= Outer.
	Outer []float64
	Inner []float64
	// K and N count the other points within Outer and Inner.
	K []int
	N []int
}

// Len returns the number of selected points.
func (s *Scales) Len() int { return len(s.Points) }

// Totals returns the summed outer and inner neighbor counts.
func (s *Scales) Totals() (k, n int) {
	for i := range s.K {
		k += s.K[i]
		n += s.N[i]
	}
	return k, n
}

func newScales(size int) *Scales {
	return &Scales{
		Points: make([]int, 0, size),
		Outer:  make([]float64, 0, size),
		Inner:  make([]float64, 0, size),
		K:      make([]int, 0, size),
		N:      make([]int, 0, size),
	}
}

func (s *Scales) add(i int, outer, inner float64, k, n int) {
	s.Points = append(s.Points, i)
	s.Outer = append(s.Outer, outer)
	s.Inner = append(s.Inner, inner)
	s.K = append(s.K, k)
	s.N = append(s.N, n)
}

// innerRadius rounds half to even, so that 2.5 -> 2 and 3.5 -> 4.
func innerRadius(outer, ratio float64) float64 {
	return math.RoundToEven(outer * ratio)
}

func checkRatio(ratio float64) error {
	if !(ratio > 0 && ratio < 1) {
		return fmt.Errorf("%w: ratio must be in (0, 1), got %g", ErrConfiguration, ratio)
	}
	return nil
}

// resolvePoints validates an explicit subset, or returns all indices when
// points is nil.
func (e *Estimator) resolvePoints(points []int) ([]int, error) {
	if points == nil {
		all := make([]int, e.N())
		for i := range all {
			all[i] = i
		}
		return all, nil
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: empty subset", ErrConfiguration)
	}
	for _, i := range points {
		if i < 0 || i >= e.N() {
			return nil, fmt.Errorf("%w: subset index %d out of range [0, %d)", ErrConfiguration, i, e.N())
		}
	}
	return points, nil
}

// selectPoints resolves the subset requested by opts: an explicit Subset, a
// random subset of SubsetSize points, or every point.
func (e *Estimator) selectPoints(opts FitOptions) ([]int, error) {
	if opts.Subset != nil {
		return e.resolvePoints(opts.Subset)
	}
	if opts.SubsetSize > 0 {
		if opts.SubsetSize > e.N() {
			return nil, fmt.Errorf("%w: SubsetSize %d exceeds N=%d", ErrConfiguration, opts.SubsetSize, e.N())
		}
		return randomSubset(e.cfg.Sampler, e.N(), opts.SubsetSize), nil
	}
	if opts.SubsetSize < 0 {
		return nil, fmt.Errorf("%w: SubsetSize must be >= 0, got %d", ErrConfiguration, opts.SubsetSize)
	}
	return e.resolvePoints(nil)
}

// FixK sets the outer radius of every selected point to the largest integer
// radius holding fewer than k of its neighbors, and the inner radius to
// ratio times that, rounded. Neighbors at either radius are all counted, so
// each point has fewer than k neighbors in its outer ball. points nil means
// all.
func (e *Estimator) FixK(k int, ratio float64, points []int) (*Scales, error) {
	if err := e.requireDistances(); err != nil {
		return nil, err
	}
	if err := checkRatio(ratio); err != nil {
		return nil, err
	}
	if k < 1 || k > e.N()-1 {
		return nil, fmt.Errorf("%w: k must be in [1, %d], got %d", ErrConfiguration, e.N()-1, k)
	}
	if e.table != nil && k > e.table.MaxK {
		return nil, fmt.Errorf("%w: k=%d exceeds MaxK=%d", ErrConfiguration, k, e.table.MaxK)
	}
	sel, err := e.resolvePoints(points)
	if err != nil {
		return nil, err
	}

	s := newScales(len(sel))
	for _, i := range sel {
		shell := e.kthShell(i, k)
		switch {
		case shell < 0:
			return nil, fmt.Errorf("%w: point %d has fewer than %d neighbors within DMax=%d", ErrConfiguration, i, k, e.counts.DMax)
		case shell == 0:
			return nil, fmt.Errorf("%w: point %d has at least %d duplicates, so no radius holds fewer than k neighbors", ErrConfiguration, i, k)
		}
		outer := float64(shell - 1)
		if err := e.addPoint(s, i, outer, innerRadius(outer, ratio)); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// kthShell returns the shell of the k-th nearest neighbor of point i, which
// is the smallest integer radius holding k neighbors, or -1 if the stored
// distances do not reach it.
func (e *Estimator) kthShell(i, k int) int {
	if e.counts != nil {
		return e.counts.radiusFor(i, k)
	}
	j := e.table.Indices[i][k-1]
	return e.metric.Shell(e.points[i], e.points[j], e.period)
}

// FixKShell sets the outer radius of every selected point to its shells-th
// filled nonzero distance shell. Shells are integer radii in every metric,
// so both distance representations select the same radii.
func (e *Estimator) FixKShell(shells int, ratio float64, points []int) (*Scales, error) {
	if err := e.requireDistances(); err != nil {
		return nil, err
	}
	if err := checkRatio(ratio); err != nil {
		return nil, err
	}
	if shells < 1 {
		return nil, fmt.Errorf("%w: number of shells must be >= 1, got %d", ErrConfiguration, shells)
	}
	sel, err := e.resolvePoints(points)
	if err != nil {
		return nil, err
	}

	s := newScales(len(sel))
	for _, i := range sel {
		outer, ok := e.shellRadius(i, shells)
		if !ok {
			return nil, fmt.Errorf("%w: point %d has fewer than %d filled shells in the stored distances", ErrConfiguration, i, shells)
		}
		if err := e.addPoint(s, i, outer, innerRadius(outer, ratio)); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// shellRadius returns the radius of the shells-th filled nonzero shell of
// point i.
func (e *Estimator) shellRadius(i, shells int) (float64, bool) {
	seen := 0
	if e.counts != nil {
		row := e.counts.Counts[i]
		for r := 1; r <= e.counts.DMax; r++ {
			if row[r] > row[r-1] {
				seen++
				if seen == shells {
					return float64(r), true
				}
			}
		}
		return 0, false
	}
	prev := 0
	for _, j := range e.table.Indices[i] {
		sh := e.metric.Shell(e.points[i], e.points[j], e.period)
		if sh > prev {
			seen++
			prev = sh
			if seen == shells {
				return float64(sh), true
			}
		}
	}
	return 0, false
}

// FixRadius uses the same outer radius lk and inner radius ln for every
// selected point. points nil means all.
func (e *Estimator) FixRadius(lk, ln float64, points []int) (*Scales, error) {
	if err := e.requireDistances(); err != nil {
		return nil, err
	}
	if !(lk > 0) || ln < 0 || ln >= lk {
		return nil, fmt.Errorf("%w: radii must satisfy 0 <= ln < lk, got ln=%g lk=%g", ErrConfiguration, ln, lk)
	}
	sel, err := e.resolvePoints(points)
	if err != nil {
		return nil, err
	}

	s := newScales(len(sel))
	for _, i := range sel {
		if err := e.addPoint(s, i, lk, ln); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (e *Estimator) addPoint(s *Scales, i int, outer, inner float64) error {
	k, err := e.countWithin(i, outer)
	if err != nil {
		return err
	}
	n, err := e.countWithin(i, inner)
	if err != nil {
		return err
	}
	s.add(i, outer, inner, k, n)
	return nil
}

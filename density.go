package discreteid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// LocalDensity holds point densities measured at the two scales of a fit.
type LocalDensity struct {
	// Points are the indices the densities refer to.
	Points []int
	// Inner[i] is (N+1)/V(Inner, d), the density of the inner ball of point
	// Points[i] with the point itself counted. Outer[i] is
	// (K-N)/(V(Outer, d)-V(Inner, d)), the density of the shell between the
	// two radii. Both are in points per lattice site.
	Outer []float64
	Inner []float64
	// OuterMean and InnerMean are the dataset-level averages.
	OuterMean float64
	InnerMean float64
}

// ComputeLocalDensity divides the point counts behind fit by the volumes of
// the inner ball and of the outer shell at the fitted dimension. With
// relative set, both series are divided by their mean, which makes a uniform
// density 1.
func (e *Estimator) ComputeLocalDensity(fit *FitResult, relative bool) (*LocalDensity, error) {
	if err := e.requireDistances(); err != nil {
		return nil, err
	}
	if fit == nil || fit.Scales == nil {
		return nil, fmt.Errorf("%w: local density needs a fit", ErrState)
	}
	if math.IsNaN(fit.Dim) {
		return nil, fmt.Errorf("%w: fit has no dimension estimate: %v", ErrState, fit.Degeneracy)
	}

	s := fit.Scales
	ld := &LocalDensity{
		Points: append([]int(nil), s.Points...),
		Outer:  make([]float64, s.Len()),
		Inner:  make([]float64, s.Len()),
	}
	for i := range s.Points {
		vk, _ := e.volumes.volume(s.Outer[i], fit.Dim)
		vn, _ := e.volumes.volume(s.Inner[i], fit.Dim)
		ld.Outer[i] = density(s.K[i]-s.N[i], vk-vn)
		ld.Inner[i] = density(s.N[i]+1, vn)
	}
	ld.OuterMean = stat.Mean(ld.Outer, nil)
	ld.InnerMean = stat.Mean(ld.Inner, nil)

	if relative {
		if ld.OuterMean > 0 {
			floats.Scale(1/ld.OuterMean, ld.Outer)
			ld.OuterMean = stat.Mean(ld.Outer, nil)
		}
		if ld.InnerMean > 0 {
			floats.Scale(1/ld.InnerMean, ld.Inner)
			ld.InnerMean = stat.Mean(ld.Inner, nil)
		}
	}
	return ld, nil
}

// density is zero for an empty volume, as for a point whose radii coincide.
func density(count int, v float64) float64 {
	if !(v > 0) {
		return 0
	}
	return float64(count) / v
}

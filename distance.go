package discreteid

import (
	"fmt"
	"math"
)

// Metric names one of the supported lattice metrics.
type Metric string

const (
	MetricManhattan Metric = "manhattan"
	MetricEuclidean Metric = "euclidean"
	MetricChebyshev Metric = "chebyshev"
)

// LatticeMetric measures distances between integer points and describes how
// the volume of a ball grows with the dimension under that metric.
//
// period is nil for an open lattice, otherwise it holds one positive period
// per axis and separations follow the minimum-image convention.
type LatticeMetric interface {
	// Distance returns the distance between a and b.
	Distance(a, b, period []int) float64

	// Shell returns the smallest integer r with Distance(a, b) <= r.
	Shell(a, b, period []int) int

	// BallVolume returns the number of sites in a ball of radius r in
	// dimension d, continued to real d, and its derivative with respect to d.
	BallVolume(r, d float64) (v, dv float64)

	// MaxShell bounds Shell for points whose per-axis separations never
	// exceed extent.
	MaxShell(extent []int) int
}

// ResolveMetric returns the strategy for a metric name.
func ResolveMetric(m Metric) (LatticeMetric, error) {
	switch m {
	case MetricManhattan:
		return ManhattanMetric{}, nil
	case MetricEuclidean:
		return EuclideanMetric{}, nil
	case MetricChebyshev:
		return ChebyshevMetric{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown metric %q", ErrConfiguration, m)
	}
}

// axisDelta returns the separation of a and b along one axis. A positive p
// applies the minimum-image convention for that period.
func axisDelta(a, b, p int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	if p > 0 {
		d %= p
		if w := p - d; w < d {
			d = w
		}
	}
	return d
}

func periodAt(period []int, j int) int {
	if period == nil {
		return 0
	}
	return period[j]
}

// ManhattanMetric is the L1 (taxicab) lattice metric. Ball volumes are the
// exact lattice counts of the cross-polytope.
type ManhattanMetric struct{}

func (m ManhattanMetric) Distance(a, b, period []int) float64 {
	return float64(m.Shell(a, b, period))
}

func (ManhattanMetric) Shell(a, b, period []int) int {
	var sum int
	for j := range a {
		sum += axisDelta(a[j], b[j], periodAt(period, j))
	}
	return sum
}

func (ManhattanMetric) BallVolume(r, d float64) (float64, float64) {
	return latticeL1Volume(int(math.Floor(r)), d)
}

func (ManhattanMetric) MaxShell(extent []int) int {
	var sum int
	for _, e := range extent {
		sum += e
	}
	return sum
}

// ChebyshevMetric is the L-infinity lattice metric. A ball of radius r is a
// cube with (2r+1)^d sites.
type ChebyshevMetric struct{}

func (m ChebyshevMetric) Distance(a, b, period []int) float64 {
	return float64(m.Shell(a, b, period))
}

func (ChebyshevMetric) Shell(a, b, period []int) int {
	var maxVal int
	for j := range a {
		if v := axisDelta(a[j], b[j], periodAt(period, j)); v > maxVal {
			maxVal = v
		}
	}
	return maxVal
}

func (ChebyshevMetric) BallVolume(r, d float64) (float64, float64) {
	side := 2*math.Floor(r) + 1
	if side < 1 {
		return 0, 0
	}
	v := math.Pow(side, d)
	return v, v * math.Log(side)
}

func (ChebyshevMetric) MaxShell(extent []int) int {
	var maxVal int
	for _, e := range extent {
		maxVal = max(maxVal, e)
	}
	return maxVal
}

// EuclideanMetric is the L2 metric on the lattice. There is no closed form
// for lattice points in a Euclidean ball, so BallVolume uses the continuum
// volume of the d-ball; only ratios of volumes enter the binomial model.
type EuclideanMetric struct{}

func (EuclideanMetric) Distance(a, b, period []int) float64 {
	return math.Sqrt(float64(sumOfSquares(a, b, period)))
}

func (EuclideanMetric) Shell(a, b, period []int) int {
	return isqrtCeil(sumOfSquares(a, b, period))
}

func (EuclideanMetric) BallVolume(r, d float64) (float64, float64) {
	return continuumVolume(r, d)
}

func (EuclideanMetric) MaxShell(extent []int) int {
	var sum int
	for _, e := range extent {
		sum += e * e
	}
	return isqrtCeil(sum)
}

func sumOfSquares(a, b, period []int) int {
	var sum int
	for j := range a {
		d := axisDelta(a[j], b[j], periodAt(period, j))
		sum += d * d
	}
	return sum
}

// isqrtCeil returns the smallest r >= 0 with r*r >= s.
func isqrtCeil(s int) int {
	if s <= 0 {
		return 0
	}
	r := int(math.Sqrt(float64(s)))
	for r*r < s {
		r++
	}
	for r > 0 && (r-1)*(r-1) >= s {
		r--
	}
	return r
}

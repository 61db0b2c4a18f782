package discreteid

import (
	"fmt"
	"math"

	"github.com/c2h5oh/datasize"
	"github.com/op/go-logging"
)

// Estimator infers the intrinsic dimension of a set of integer points.
//
// The point set is copied at construction and never changes. Distances are
// computed by ComputeDistances and kept until the next successful call; fits
// are returned to the caller and never stored. An Estimator is not safe for
// concurrent use.
type Estimator struct {
	cfg    Config
	log    *logging.Logger
	points [][]int
	dims   int

	// Derived state, replaced as a whole by ComputeDistances.
	dist    DistanceConfig
	metric  LatticeMetric
	period  []int
	table   *DistanceTable
	counts  *CumulativeCounts
	volumes *volumeCache
}

// NewEstimator validates cfg and copies points, an N×d array of integer
// coordinates. All points must share the same positive dimension.
func NewEstimator(points [][]int, cfg Config) (*Estimator, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no points", ErrConfiguration)
	}

	dims := len(points[0])
	if dims == 0 {
		return nil, fmt.Errorf("%w: points have no coordinates", ErrConfiguration)
	}
	owned := make([][]int, len(points))
	flat := make([]int, len(points)*dims)
	for i, p := range points {
		if len(p) != dims {
			return nil, fmt.Errorf("%w: point %d has %d coordinates, expected %d", ErrConfiguration, i, len(p), dims)
		}
		owned[i] = flat[i*dims : (i+1)*dims : (i+1)*dims]
		copy(owned[i], p)
	}

	return &Estimator{cfg: cfg, log: cfg.Logger, points: owned, dims: dims}, nil
}

// N returns the number of points.
func (e *Estimator) N() int { return len(e.points) }

// Dims returns the embedding dimension of the points.
func (e *Estimator) Dims() int { return e.dims }

// Condensed reports whether the current distances are in condensed form.
func (e *Estimator) Condensed() bool { return e.counts != nil }

// DistanceConfig returns the resolved configuration of the last successful
// ComputeDistances call.
func (e *Estimator) DistanceConfig() DistanceConfig { return e.dist }

// Table returns the full-mode neighbor table, or nil.
func (e *Estimator) Table() *DistanceTable { return e.table }

// Counts returns the condensed cumulative counts, or nil.
func (e *Estimator) Counts() *CumulativeCounts { return e.counts }

// ComputeDistances computes all pairwise distances and stores them in the
// representation selected by dc, replacing any earlier result. On error the
// previous distances are kept.
func (e *Estimator) ComputeDistances(dc DistanceConfig) error {
	n := e.N()
	if n < 2 {
		return fmt.Errorf("%w: need at least 2 points, got %d", ErrConfiguration, n)
	}
	if dc.Metric == "" {
		dc.Metric = MetricManhattan
	}
	metric, err := ResolveMetric(dc.Metric)
	if err != nil {
		return err
	}
	period, err := resolvePeriod(dc.Period, e.dims)
	if err != nil {
		return err
	}
	if err := e.checkCoordinates(period); err != nil {
		return err
	}

	var (
		table  *DistanceTable
		counts *CumulativeCounts
	)
	if dc.Condensed {
		if dc.DMax < 0 {
			return fmt.Errorf("%w: DMax must be >= 0, got %d", ErrConfiguration, dc.DMax)
		}
		if dc.DMax == 0 {
			dc.DMax = metric.MaxShell(e.extent(period))
		}
		e.log.Debugf("condensed distances: %d points, radii 0..%d, ~%s", n, dc.DMax,
			datasize.ByteSize(uint64(n)*uint64(dc.DMax+1)*8).HumanReadable())
		counts = computeCumulativeCounts(e.points, period, metric, dc.DMax, e.cfg.Workers)
	} else {
		if dc.MaxK < 0 {
			return fmt.Errorf("%w: MaxK must be >= 0, got %d", ErrConfiguration, dc.MaxK)
		}
		switch {
		case dc.MaxK == 0:
			dc.MaxK = n - 1
		case dc.MaxK > n-1:
			e.log.Warningf("MaxK=%d exceeds N-1; clamping to %d", dc.MaxK, n-1)
			dc.MaxK = n - 1
		}
		e.log.Debugf("full distances: %d points, %d neighbors each, ~%s", n, dc.MaxK,
			datasize.ByteSize(uint64(n)*uint64(dc.MaxK)*16).HumanReadable())
		table = computeDistanceTable(e.points, period, metric, dc.MaxK, e.cfg.Workers)
	}

	dc.Period = period
	e.dist = dc
	e.metric = metric
	e.period = period
	e.table = table
	e.counts = counts
	e.volumes = newVolumeCache(metric, e.cfg.VolumeCacheSize)
	return nil
}

// checkCoordinates verifies that periodic coordinates lie in [0, period).
func (e *Estimator) checkCoordinates(period []int) error {
	if period == nil {
		return nil
	}
	for i, p := range e.points {
		for j, x := range p {
			if x < 0 || x >= period[j] {
				return fmt.Errorf("%w: point %d coordinate %d = %d outside [0, %d)", ErrConfiguration, i, j, x, period[j])
			}
		}
	}
	return nil
}

// extent returns the largest possible per-axis separation.
func (e *Estimator) extent(period []int) []int {
	ext := make([]int, e.dims)
	if period != nil {
		for j, p := range period {
			ext[j] = p / 2
		}
		return ext
	}
	for j := 0; j < e.dims; j++ {
		lo, hi := e.points[0][j], e.points[0][j]
		for _, p := range e.points {
			lo = min(lo, p[j])
			hi = max(hi, p[j])
		}
		ext[j] = hi - lo
	}
	return ext
}

// requireDistances returns ErrState unless distances have been computed.
func (e *Estimator) requireDistances() error {
	if e.metric == nil {
		return fmt.Errorf("%w: distances have not been computed", ErrState)
	}
	return nil
}

// Histogram returns the number of ordered point pairs per integer distance
// shell. In full mode, pairs dropped by a truncated table are counted in
// Overflow.
func (e *Estimator) Histogram() (*DistanceHistogram, error) {
	if err := e.requireDistances(); err != nil {
		return nil, err
	}
	if e.counts != nil {
		return histogramFromCounts(e.counts), nil
	}
	return histogramFromTable(e.table, e.points, e.period, e.metric), nil
}

// NeighborCount returns the number of other points within radius r of point i.
// In condensed mode r must be an integer.
func (e *Estimator) NeighborCount(i int, r float64) (int, error) {
	if err := e.requireDistances(); err != nil {
		return 0, err
	}
	if i < 0 || i >= e.N() {
		return 0, fmt.Errorf("%w: point index %d out of range [0, %d)", ErrConfiguration, i, e.N())
	}
	return e.countWithin(i, r)
}

// MeanNeighborCount returns the number of other points within radius r,
// averaged over all points.
func (e *Estimator) MeanNeighborCount(r float64) (float64, error) {
	if err := e.requireDistances(); err != nil {
		return 0, err
	}
	total := 0
	for i := range e.points {
		c, err := e.countWithin(i, r)
		if err != nil {
			return 0, err
		}
		total += c
	}
	return float64(total) / float64(e.N()), nil
}

// countWithin counts the neighbors of point i within r from whichever
// representation is stored, failing if that representation cannot answer.
func (e *Estimator) countWithin(i int, r float64) (int, error) {
	if e.counts != nil {
		if r != math.Trunc(r) {
			return 0, fmt.Errorf("%w: condensed distances are binned by integer shell; radius %g is not an integer", ErrConfiguration, r)
		}
		if r > float64(e.counts.DMax) {
			return 0, fmt.Errorf("%w: radius %g exceeds DMax=%d", ErrConfiguration, r, e.counts.DMax)
		}
		return e.counts.within(i, r), nil
	}
	if !e.table.complete(i, r, e.N()) {
		return 0, fmt.Errorf("%w: radius %g reaches past the %d stored neighbors of point %d; increase MaxK or use condensed mode",
			ErrConfiguration, r, e.table.MaxK, i)
	}
	return countWithin(e.table.Distances[i], r), nil
}

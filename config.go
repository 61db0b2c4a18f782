package discreteid

import (
	"fmt"
	"runtime"

	"github.com/op/go-logging"
)

// Config controls estimator-wide behavior.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// Workers controls the number of goroutines used for the pairwise
	// distance computation. 0 means use runtime.NumCPU(). Results do not
	// depend on this value.
	Workers int

	// Seed initializes the default Sampler. Ignored when Sampler is set.
	Seed uint64

	// Sampler supplies randomness for subset selection and model sampling.
	// Default: a PCG generator seeded with Seed.
	Sampler Sampler

	// RootFinder solves the likelihood equations. Default: Bisection.
	RootFinder RootFinder

	// DimMin and DimMax bound the intrinsic dimension searched by every
	// estimator. Degenerate fits fall back to one of these bounds.
	// Defaults: 1e-6 and 50.
	DimMin float64
	DimMax float64

	// GridSize is the number of dimension values used for Bayesian
	// posteriors and diagnostic likelihood profiles. Must be >= 2.
	// Default: 4000.
	GridSize int

	// VolumeCacheSize is the number of ball volumes memoized per distance
	// computation. 0 disables the cache. Default: 4096.
	VolumeCacheSize int

	// Logger receives warnings about clamped parameters and degenerate
	// fits. Default: the "discreteid" go-logging logger.
	Logger *logging.Logger
}

// DistanceConfig selects how pairwise distances are computed and stored.
type DistanceConfig struct {
	// Metric is the lattice metric. Default: MetricManhattan.
	Metric Metric

	// Period makes the lattice a torus. nil means open boundaries, a single
	// value applies to every axis, otherwise one value per axis is needed.
	// Coordinates must lie in [0, period).
	Period []int

	// Condensed stores cumulative per-radius neighbor counts instead of a
	// per-point neighbor table.
	Condensed bool

	// DMax is the largest radius tracked in condensed mode. 0 means the
	// largest distance possible for the data (or the period).
	DMax int

	// MaxK is the number of neighbors kept per point in full mode. 0 means
	// N-1; larger values are clamped to N-1 with a warning.
	MaxK int
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		DimMin:          1e-6,
		DimMax:          50,
		GridSize:        4000,
		VolumeCacheSize: 4096,
	}
}

// DefaultDistanceConfig returns a full-mode Manhattan configuration on an
// open lattice.
func DefaultDistanceConfig() DistanceConfig {
	return DistanceConfig{Metric: MetricManhattan}
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Sampler == nil {
		cfg.Sampler = NewSampler(cfg.Seed)
	}
	if cfg.RootFinder == nil {
		cfg.RootFinder = Bisection{}
	}
	if cfg.DimMin == 0 {
		cfg.DimMin = 1e-6
	}
	if cfg.DimMax == 0 {
		cfg.DimMax = 50
	}
	if cfg.GridSize == 0 {
		cfg.GridSize = 4000
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.MustGetLogger("discreteid")
	}
}

// validateConfig checks that cfg fields are valid and returns a descriptive error if not.
func validateConfig(cfg *Config) error {
	if cfg.Workers < 0 {
		return fmt.Errorf("%w: Workers must be >= 0, got %d", ErrConfiguration, cfg.Workers)
	}
	if cfg.DimMin <= 0 {
		return fmt.Errorf("%w: DimMin must be > 0, got %g", ErrConfiguration, cfg.DimMin)
	}
	if cfg.DimMax <= cfg.DimMin {
		return fmt.Errorf("%w: DimMax (%g) must exceed DimMin (%g)", ErrConfiguration, cfg.DimMax, cfg.DimMin)
	}
	if cfg.GridSize < 2 {
		return fmt.Errorf("%w: GridSize must be >= 2, got %d", ErrConfiguration, cfg.GridSize)
	}
	if cfg.VolumeCacheSize < 0 {
		return fmt.Errorf("%w: VolumeCacheSize must be >= 0, got %d", ErrConfiguration, cfg.VolumeCacheSize)
	}
	return nil
}

// resolvePeriod expands a period setting to one value per axis.
func resolvePeriod(period []int, dims int) ([]int, error) {
	switch len(period) {
	case 0:
		return nil, nil
	case 1:
		out := make([]int, dims)
		for j := range out {
			out[j] = period[0]
		}
		return checkPeriod(out)
	case dims:
		out := make([]int, dims)
		copy(out, period)
		return checkPeriod(out)
	default:
		return nil, fmt.Errorf("%w: Period has %d entries, data has %d dimensions", ErrConfiguration, len(period), dims)
	}
}

func checkPeriod(period []int) ([]int, error) {
	for j, p := range period {
		if p <= 0 {
			return nil, fmt.Errorf("%w: Period[%d] must be > 0, got %d", ErrConfiguration, j, p)
		}
	}
	return period, nil
}

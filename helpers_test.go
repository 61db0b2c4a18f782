package discreteid

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	uniformN    = 500
	uniformDims = 5
	uniformBox  = 20
)

// uniformPoints draws n points uniformly from the box [0, box)^dims.
func uniformPoints(seed uint64, n, dims, box int) [][]int {
	rng := rand.New(rand.NewPCG(seed, 7))
	points := make([][]int, n)
	for i := range points {
		points[i] = make([]int, dims)
		for j := range points[i] {
			points[i][j] = rng.IntN(box)
		}
	}
	return points
}

// fullLattice lists every site of [0, side)^dims.
func fullLattice(side, dims int) [][]int {
	total := 1
	for j := 0; j < dims; j++ {
		total *= side
	}
	points := make([][]int, total)
	for i := range points {
		p := make([]int, dims)
		rest := i
		for j := range p {
			p[j] = rest % side
			rest /= side
		}
		points[i] = p
	}
	return points
}

// testConfig returns a config whose log output goes to buf.
func testConfig(buf *bytes.Buffer) Config {
	cfg := DefaultConfig()
	cfg.Seed = 1
	cfg.Logger = newLoggerTo(buf, "debug", "discreteid-test")
	return cfg
}

// newUniformEstimator returns an estimator on the standard 5-d periodic
// test set with distances computed in the requested mode.
func newUniformEstimator(t testing.TB, condensed bool) *Estimator {
	t.Helper()
	var buf bytes.Buffer
	est, err := NewEstimator(uniformPoints(42, uniformN, uniformDims, uniformBox), testConfig(&buf))
	require.NoError(t, err)
	require.NoError(t, est.ComputeDistances(DistanceConfig{
		Metric:    MetricManhattan,
		Period:    []int{uniformBox},
		Condensed: condensed,
	}))
	return est
}

// trimZeros drops trailing zero bins.
func trimZeros(counts []int) []int {
	end := len(counts)
	for end > 0 && counts[end-1] == 0 {
		end--
	}
	return counts[:end]
}

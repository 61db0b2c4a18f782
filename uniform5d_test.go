package discreteid

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// referenceData is 500 points drawn uniformly from a 5-d periodic box of
// side 20, with dimension estimates published for it.
type referenceData struct {
	Dataset string  `json:"dataset"`
	Data    [][]int `json:"data"`
	Period  []int   `json:"period"`
	DMax    int     `json:"dmax"`
	FixK    struct {
		K     int     `json:"k"`
		Ratio float64 `json:"ratio"`
		Dim   float64 `json:"dim"`
	} `json:"fix_k"`
	FixKShell struct {
		Shells int     `json:"shells"`
		Ratio  float64 `json:"ratio"`
		Dim    float64 `json:"dim"`
	} `json:"fix_k_shell"`
	BayesSubset struct {
		LK          float64 `json:"lk"`
		LN          float64 `json:"ln"`
		SubsetFirst int     `json:"subset_first"`
		Dim         float64 `json:"dim"`
	} `json:"bayes_subset"`
	Bayes struct {
		LK  float64 `json:"lk"`
		LN  float64 `json:"ln"`
		Dim float64 `json:"dim"`
	} `json:"bayes"`
	Density struct {
		InnerMean float64 `json:"inner_mean"`
		OuterMean float64 `json:"outer_mean"`
	} `json:"density"`
	RadiusSweep struct {
		Radii []float64 `json:"radii"`
		Ratio float64   `json:"ratio"`
		Dims  []float64 `json:"dims"`
	} `json:"radius_sweep"`
	KSweep struct {
		Ks    []int     `json:"ks"`
		Ratio float64   `json:"ratio"`
		Dims  []float64 `json:"dims"`
	} `json:"k_sweep"`
	Growth struct {
		Radii     []float64 `json:"radii"`
		Fit       []float64 `json:"fit"`
		Continuum []float64 `json:"continuum"`
	} `json:"growth"`
}

func loadReference(t *testing.T) referenceData {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", "uniform_5d_box20.json"))
	require.NoError(t, err)
	var rd referenceData
	require.NoError(t, json.Unmarshal(raw, &rd))
	require.Len(t, rd.Data, 500)
	return rd
}

func referenceEstimator(t *testing.T, rd referenceData, condensed bool) *Estimator {
	t.Helper()
	var buf bytes.Buffer
	est, err := NewEstimator(rd.Data, testConfig(&buf))
	require.NoError(t, err)
	dc := DistanceConfig{Period: rd.Period, Condensed: condensed}
	if condensed {
		dc.DMax = rd.DMax
	}
	require.NoError(t, est.ComputeDistances(dc))
	return est
}

func TestReference_FixK(t *testing.T) {
	rd := loadReference(t)
	for _, condensed := range []bool{false, true} {
		est := referenceEstimator(t, rd, condensed)

		fit, err := est.ComputeIDBinomialK(rd.FixK.K, rd.FixK.Ratio, false, FitOptions{})
		require.NoError(t, err)
		assert.InEpsilon(t, rd.FixK.Dim, fit.Dim, 1e-6, "condensed=%v", condensed)
		assert.InDelta(t, 5, fit.Dim, 0.1)
		for i := range fit.Scales.Points {
			assert.Less(t, fit.Scales.K[i], rd.FixK.K)
		}

		shell, err := est.ComputeIDBinomialK(rd.FixKShell.Shells, rd.FixKShell.Ratio, true, FitOptions{})
		require.NoError(t, err)
		assert.InEpsilon(t, rd.FixKShell.Dim, shell.Dim, 1e-6, "condensed=%v", condensed)
	}
}

func TestReference_Bayes(t *testing.T) {
	rd := loadReference(t)

	full := referenceEstimator(t, rd, false)
	subset := make([]int, rd.BayesSubset.SubsetFirst)
	for i := range subset {
		subset[i] = i
	}
	fit, err := full.ComputeIDBinomialLK(rd.BayesSubset.LK, rd.BayesSubset.LN, FitOptions{Method: MethodBayes, Subset: subset})
	require.NoError(t, err)
	assert.InDelta(t, rd.BayesSubset.Dim, fit.Dim, 1e-6)

	condensed := referenceEstimator(t, rd, true)
	fit, err = condensed.ComputeIDBinomialLK(rd.Bayes.LK, rd.Bayes.LN, FitOptions{Method: MethodBayes})
	require.NoError(t, err)
	assert.InDelta(t, rd.Bayes.Dim, fit.Dim, 1e-6)
}

func TestReference_LocalDensity(t *testing.T) {
	rd := loadReference(t)
	est := referenceEstimator(t, rd, true)

	fit, err := est.ComputeIDBinomialK(rd.FixK.K, rd.FixK.Ratio, false, FitOptions{})
	require.NoError(t, err)

	ld, err := est.ComputeLocalDensity(fit, false)
	require.NoError(t, err)
	assert.InEpsilon(t, rd.Density.InnerMean, ld.InnerMean, 1e-6)
	assert.InEpsilon(t, rd.Density.OuterMean, ld.OuterMean, 1e-6)

	rel, err := est.ComputeLocalDensity(fit, true)
	require.NoError(t, err)
	assert.InDelta(t, 1, rel.InnerMean, 1e-12)
	assert.InDelta(t, 1, rel.OuterMean, 1e-12)
}

func TestReference_ValidateModel(t *testing.T) {
	rd := loadReference(t)
	est := referenceEstimator(t, rd, false)

	fit, err := est.ComputeIDBinomialK(rd.FixK.K, rd.FixK.Ratio, false, FitOptions{})
	require.NoError(t, err)
	res, err := est.ValidateModel(fit, false)
	require.NoError(t, err)
	assert.Greater(t, res.PValue, 0.005)
}

func TestReference_IDScaling(t *testing.T) {
	rd := loadReference(t)
	est := referenceEstimator(t, rd, true)

	curve, err := est.IDScaling(rd.RadiusSweep.Radii, rd.RadiusSweep.Ratio, FitOptions{})
	require.NoError(t, err)
	compareFloat64Slices(t, "dims", rd.RadiusSweep.Dims, curve.Dims(), 1e-2)
}

func TestReference_IDScalingK(t *testing.T) {
	rd := loadReference(t)
	est := referenceEstimator(t, rd, false)

	curve, err := est.IDScalingK(rd.KSweep.Ks, rd.KSweep.Ratio, FitOptions{})
	require.NoError(t, err)
	for i, k := range rd.KSweep.Ks {
		assert.InEpsilon(t, rd.KSweep.Dims[i], curve[i].Dim, 1e-6, "k=%d", k)
	}

	small, err := est.IDScalingK([]int{5, 10, 15, 20}, 0.5, FitOptions{})
	require.NoError(t, err)
	for _, p := range small {
		assert.InDelta(t, 5, p.Dim, 0.3, "scale %v", p.Scale)
	}
	assert.IsIncreasing(t, small.Scales())
}

func TestReference_Growth(t *testing.T) {
	rd := loadReference(t)
	est := referenceEstimator(t, rd, true)

	fit, err := est.IDFit(rd.Growth.Radii)
	require.NoError(t, err)
	compareFloat64Slices(t, "fit", rd.Growth.Fit, fit.Dims(), 1e-4)

	cont, err := est.IDFitContinuum(rd.Growth.Radii)
	require.NoError(t, err)
	compareFloat64Slices(t, "continuum", rd.Growth.Continuum, cont.Dims(), 1e-4)
}

func TestEuclidean_FullMatchesCondensed(t *testing.T) {
	points := uniformPoints(9, 300, 3, 12)
	build := func(condensed bool) *Estimator {
		var buf bytes.Buffer
		est, err := NewEstimator(points, testConfig(&buf))
		require.NoError(t, err)
		require.NoError(t, est.ComputeDistances(DistanceConfig{
			Metric:    MetricEuclidean,
			Period:    []int{12},
			Condensed: condensed,
		}))
		return est
	}
	full, condensed := build(false), build(true)

	a, err := full.ComputeIDBinomialK(20, 0.5, false, FitOptions{})
	require.NoError(t, err)
	b, err := condensed.ComputeIDBinomialK(20, 0.5, false, FitOptions{})
	require.NoError(t, err)
	assert.Equal(t, a.Scales, b.Scales)
	assert.Equal(t, a.Dim, b.Dim)

	for i := 0; i < 10; i++ {
		x, err := full.NeighborCount(i, 2)
		require.NoError(t, err)
		y, err := condensed.NeighborCount(i, 2)
		require.NoError(t, err)
		assert.Equal(t, x, y, "point %d", i)
	}

	_, err = condensed.NeighborCount(0, 2.5)
	assert.ErrorIs(t, err, ErrConfiguration)
	_, err = condensed.ComputeIDBinomialLK(2.5, 1, FitOptions{})
	assert.ErrorIs(t, err, ErrConfiguration)
	_, err = full.NeighborCount(0, 2.5)
	assert.NoError(t, err)
}

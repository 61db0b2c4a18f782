package discreteid

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
)

type goldenFixK struct {
	K           int       `json:"k"`
	Ratio       float64   `json:"ratio"`
	Dim         float64   `json:"dim"`
	Err         float64   `json:"err"`
	KSStatistic float64   `json:"ks_statistic"`
	KSPValue    float64   `json:"ks_pvalue"`
	Outer       []float64 `json:"outer"`
	Inner       []float64 `json:"inner"`
	KCounts     []int     `json:"k_counts"`
	NCounts     []int     `json:"n_counts"`
}

type goldenFixRadius struct {
	LK  float64 `json:"lk"`
	LN  float64 `json:"ln"`
	Dim float64 `json:"dim"`
	Err float64 `json:"err"`
}

type goldenData struct {
	Dataset   string          `json:"dataset"`
	Data      [][]int         `json:"data"`
	Period    []int           `json:"period"`
	FixK      goldenFixK      `json:"fix_k"`
	FixRadius goldenFixRadius `json:"fix_radius"`
	Histogram []int           `json:"histogram"`
}

const (
	goldenDimTol = 1e-8
	goldenErrTol = 1e-7
	goldenKSTol  = 1e-6
)

func loadGolden(t *testing.T, name string) goldenData {
	t.Helper()
	path := filepath.Join("testdata", "golden_"+name+".json")
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Skipf("golden file not found: %s", path)
	}
	var gd goldenData
	if err := json.Unmarshal(raw, &gd); err != nil {
		t.Fatalf("failed to parse golden file: %v", err)
	}
	return gd
}

// compareFloat64Slices reports mismatches between golden and actual float slices
// at the given tolerance, logging up to 5 individual errors.
func compareFloat64Slices(t *testing.T, name string, golden, actual []float64, tol float64) {
	t.Helper()
	if len(golden) != len(actual) {
		t.Fatalf("%s length: golden=%d, got=%d", name, len(golden), len(actual))
	}
	mismatches := 0
	for i := range golden {
		if math.Abs(golden[i]-actual[i]) > tol {
			mismatches++
			if mismatches <= 5 {
				t.Errorf("%s[%d]: golden=%g, got=%g (diff=%g)",
					name, i, golden[i], actual[i],
					math.Abs(golden[i]-actual[i]))
			}
		}
	}
	if mismatches > 5 {
		t.Errorf("... and %d more %s mismatches beyond tolerance %g",
			mismatches-5, name, tol)
	}
}

// compareIntSlices reports mismatches between golden and actual int slices.
func compareIntSlices(t *testing.T, name string, golden, actual []int) {
	t.Helper()
	if len(golden) != len(actual) {
		t.Fatalf("%s length: golden=%d, got=%d", name, len(golden), len(actual))
	}
	mismatches := 0
	for i := range golden {
		if golden[i] != actual[i] {
			mismatches++
			if mismatches <= 5 {
				t.Errorf("%s[%d]: golden=%d, got=%d", name, i, golden[i], actual[i])
			}
		}
	}
	if mismatches > 5 {
		t.Errorf("... and %d more %s mismatches", mismatches-5, name)
	}
}

func runGoldenTest(t *testing.T, name string, condensed bool) {
	gd := loadGolden(t, name)

	var buf bytes.Buffer
	est, err := NewEstimator(gd.Data, testConfig(&buf))
	if err != nil {
		t.Fatalf("NewEstimator: %v", err)
	}
	if err := est.ComputeDistances(DistanceConfig{Period: gd.Period, Condensed: condensed}); err != nil {
		t.Fatalf("ComputeDistances: %v", err)
	}

	t.Run("histogram", func(t *testing.T) {
		h, err := est.Histogram()
		if err != nil {
			t.Fatal(err)
		}
		compareIntSlices(t, "histogram", trimZeros(gd.Histogram), trimZeros(h.Counts))
	})

	t.Run("fix_k", func(t *testing.T) {
		fit, err := est.ComputeIDBinomialK(gd.FixK.K, gd.FixK.Ratio, false, FitOptions{})
		if err != nil {
			t.Fatal(err)
		}
		s := fit.Scales
		compareFloat64Slices(t, "outer", gd.FixK.Outer, s.Outer, 0)
		compareFloat64Slices(t, "inner", gd.FixK.Inner, s.Inner, 0)
		compareIntSlices(t, "k", gd.FixK.KCounts, s.K)
		compareIntSlices(t, "n", gd.FixK.NCounts, s.N)

		if math.Abs(fit.Dim-gd.FixK.Dim) > goldenDimTol {
			t.Errorf("dim: golden=%v, got=%v", gd.FixK.Dim, fit.Dim)
		}
		if math.Abs(fit.Err-gd.FixK.Err) > goldenErrTol {
			t.Errorf("err: golden=%v, got=%v", gd.FixK.Err, fit.Err)
		}

		res, err := est.ValidateModel(fit, true)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(res.Statistic-gd.FixK.KSStatistic) > goldenKSTol {
			t.Errorf("KS statistic: golden=%v, got=%v", gd.FixK.KSStatistic, res.Statistic)
		}
		if math.Abs(res.PValue-gd.FixK.KSPValue) > goldenKSTol {
			t.Errorf("KS p-value: golden=%v, got=%v", gd.FixK.KSPValue, res.PValue)
		}
	})

	t.Run("fix_radius", func(t *testing.T) {
		fit, err := est.ComputeIDBinomialLK(gd.FixRadius.LK, gd.FixRadius.LN, FitOptions{})
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(fit.Dim-gd.FixRadius.Dim) > goldenDimTol {
			t.Errorf("dim: golden=%v, got=%v", gd.FixRadius.Dim, fit.Dim)
		}
		if math.Abs(fit.Err-gd.FixRadius.Err) > goldenErrTol {
			t.Errorf("err: golden=%v, got=%v", gd.FixRadius.Err, fit.Err)
		}
	})
}

func TestGolden_Uniform3DPeriodic(t *testing.T) {
	runGoldenTest(t, "uniform_3d_periodic", false)
}

func TestGolden_Uniform3DPeriodicCondensed(t *testing.T) {
	runGoldenTest(t, "uniform_3d_periodic", true)
}

func TestGolden_Uniform2DOpen(t *testing.T) {
	runGoldenTest(t, "uniform_2d_open", false)
}

func TestGolden_Uniform2DOpenCondensed(t *testing.T) {
	runGoldenTest(t, "uniform_2d_open", true)
}

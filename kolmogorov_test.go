package discreteid

import (
	"math"
	"testing"
)

func TestKolmogorovQ_KnownValues(t *testing.T) {
	cases := []struct {
		lambda, want, tol float64
	}{
		{0, 1, 0},
		{0.5, 0.9639, 1e-4},
		{1.0, 0.2700, 1e-4},
		{1.358, 0.0500, 1e-3},
		{2.0, 0.00067, 1e-5},
	}
	for _, c := range cases {
		if got := kolmogorovQ(c.lambda); !almostEqual(got, c.want, c.tol) {
			t.Errorf("Q(%v) = %v, expected %v", c.lambda, got, c.want)
		}
	}
}

func TestKolmogorovQ_Decreasing(t *testing.T) {
	prev := 1.0
	for l := 0.3; l < 3; l += 0.1 {
		q := kolmogorovQ(l)
		if q > prev {
			t.Fatalf("Q(%v) = %v exceeds Q at smaller lambda %v", l, q, prev)
		}
		prev = q
	}
}

func TestKolmogorovPValue_Range(t *testing.T) {
	for _, d := range []float64{0, 0.01, 0.1, 0.5, 1} {
		for _, ne := range []float64{1, 10, 250, 1e6} {
			p := kolmogorovPValue(d, ne)
			if !(p > 0 && p <= 1) {
				t.Errorf("p(%v, %v) = %v outside (0, 1]", d, ne, p)
			}
		}
	}
	if p := kolmogorovPValue(math.NaN(), 10); p != 1 {
		t.Errorf("expected 1 for NaN statistic, got %v", p)
	}
}

func TestClampProbability(t *testing.T) {
	if p := clampProbability(0); p <= 0 {
		t.Errorf("expected positive, got %v", p)
	}
	if p := clampProbability(-1e-300); p <= 0 {
		t.Errorf("expected positive, got %v", p)
	}
	if p := clampProbability(1.0000001); p != 1 {
		t.Errorf("expected 1, got %v", p)
	}
	if p := clampProbability(0.3); p != 0.3 {
		t.Errorf("expected 0.3, got %v", p)
	}
}

package discreteid

import "math"

const (
	ksTermEps  = 1e-6  // stop when a term is this small relative to the previous one
	ksSumEps   = 1e-16 // or this small relative to the running sum
	ksMaxTerms = 100
)

// kolmogorovPValue returns the two-sided asymptotic p-value of a
// Kolmogorov-Smirnov distance d for an effective sample size ne, using the
// Stephens small-sample correction. The result lies in (0, 1].
func kolmogorovPValue(d, ne float64) float64 {
	if ne <= 0 || math.IsNaN(d) {
		return 1
	}
	sq := math.Sqrt(ne)
	return clampProbability(kolmogorovQ((sq + 0.12 + 0.11/sq) * d))
}

// kolmogorovQ is the survival function of the Kolmogorov distribution,
// Q(λ) = 2 Σ_{j≥1} (-1)^(j-1) exp(-2 j² λ²).
func kolmogorovQ(lambda float64) float64 {
	if lambda <= 0 {
		return 1
	}
	a2 := -2 * lambda * lambda
	fac := 2.0
	sum := 0.0
	prev := 0.0
	for j := 1; j <= ksMaxTerms; j++ {
		term := fac * math.Exp(a2*float64(j*j))
		sum += term
		if math.Abs(term) <= ksTermEps*prev || math.Abs(term) <= ksSumEps*sum {
			return sum
		}
		fac = -fac
		prev = math.Abs(term)
	}
	// The series only fails to converge for tiny λ, where Q is 1.
	return 1
}

// clampProbability maps p into (0, 1].
func clampProbability(p float64) float64 {
	switch {
	case math.IsNaN(p) || p > 1:
		return 1
	case p <= 0:
		return math.SmallestNonzeroFloat64
	default:
		return p
	}
}

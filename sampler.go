package discreteid

import (
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler is the source of randomness used for subset selection and for
// drawing model counts during validation.
type Sampler interface {
	// Perm returns a random permutation of [0, n).
	Perm(n int) []int
	// Source is the generator handed to distuv distributions.
	Source() rand.Source
}

// pcgStream is the fixed second PCG word; only the seed varies.
const pcgStream = 0x9e3779b97f4a7c15

// pcgSampler draws permutations and distuv variates from one PCG stream.
type pcgSampler struct {
	*rand.Rand
	src rand.Source
}

func (s pcgSampler) Source() rand.Source { return s.src }

// NewSampler returns a reproducible PCG-backed Sampler.
func NewSampler(seed uint64) Sampler {
	src := rand.NewPCG(seed, pcgStream)
	return pcgSampler{Rand: rand.New(src), src: src}
}

// randomSubset draws size distinct indices from [0, n), returned ascending.
func randomSubset(s Sampler, n, size int) []int {
	perm := s.Perm(n)
	subset := append([]int(nil), perm[:size]...)
	sort.Ints(subset)
	return subset
}

// sampleBinomial draws from Binomial(trials, p).
func sampleBinomial(s Sampler, trials int, p float64) int {
	if trials <= 0 || p <= 0 {
		return 0
	}
	if p >= 1 {
		return trials
	}
	return int(distuv.Binomial{N: float64(trials), P: p, Src: s.Source()}.Rand())
}

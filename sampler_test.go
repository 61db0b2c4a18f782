package discreteid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomSubset(t *testing.T) {
	a := randomSubset(NewSampler(3), 100, 20)
	b := randomSubset(NewSampler(3), 100, 20)
	c := randomSubset(NewSampler(4), 100, 20)

	require.Len(t, a, 20)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.IsIncreasing(t, a)
	for _, i := range a {
		assert.GreaterOrEqual(t, i, 0)
		assert.Less(t, i, 100)
	}
}

func TestSampleBinomial_Mean(t *testing.T) {
	s := NewSampler(5)
	const draws = 4000
	sum := 0
	for i := 0; i < draws; i++ {
		x := sampleBinomial(s, 20, 0.3)
		require.GreaterOrEqual(t, x, 0)
		require.LessOrEqual(t, x, 20)
		sum += x
	}
	// Mean 6, standard error sqrt(4.2/4000) ~ 0.03.
	assert.InDelta(t, 6, float64(sum)/draws, 0.15)
}

func TestSampleBinomial_Edges(t *testing.T) {
	s := NewSampler(5)
	assert.Equal(t, 0, sampleBinomial(s, 0, 0.5))
	assert.Equal(t, 0, sampleBinomial(s, 10, 0))
	assert.Equal(t, 10, sampleBinomial(s, 10, 1))
}

func TestSampleBinomial_Reproducible(t *testing.T) {
	a, b := NewSampler(11), NewSampler(11)
	for i := 0; i < 50; i++ {
		require.Equal(t, sampleBinomial(a, 40, 0.2), sampleBinomial(b, 40, 0.2))
	}
}

func TestSampler_SharesOneStream(t *testing.T) {
	// Permutations and binomial draws advance the same generator, so a
	// draw in between changes the next permutation.
	a, b := NewSampler(8), NewSampler(8)
	sampleBinomial(a, 40, 0.5)
	assert.NotEqual(t, a.Perm(30), b.Perm(30))
}

package discreteid

import (
	"math"

	lru "github.com/hashicorp/golang-lru"
	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/stat/combin"
)

// latticeL1Volume returns the number of sites of Z^d within L1 distance L of
// the origin together with its derivative in d.
//
// For integer d this is the Delannoy number sum_k C(L,k) C(d+L-k, L). Each
// term is a polynomial of degree L in d, which gives the continuation to real
// d. Terms with k > d stay O(1) while the total grows like L^d, so the sum
// does not suffer the cancellation of the equivalent 2^k C(L,k) C(d,k) form.
func latticeL1Volume(L int, d float64) (v, dv float64) {
	if L < 0 {
		return 0, 0
	}
	if L == 0 {
		return 1, 0
	}
	for k := 0; k <= L; k++ {
		c := combin.GeneralizedBinomial(float64(L), float64(k))
		g, dg := polyBinomial(d+float64(L-k), L)
		v += c * g
		dv += c * dg
	}
	return v, dv
}

// polyBinomial returns C(x, L) = x(x-1)...(x-L+1)/L! for real x and its
// derivative with respect to x.
func polyBinomial(x float64, L int) (g, dg float64) {
	g = 1
	for j := 0; j < L; j++ {
		den := float64(L - j)
		r := (x - float64(j)) / den
		dg = dg*r + g/den
		g *= r
	}
	return g, dg
}

// continuumVolume returns the volume of the Euclidean d-ball of radius r and
// its derivative in d.
func continuumVolume(r, d float64) (v, dv float64) {
	if r <= 0 {
		return 0, 0
	}
	lg, _ := math.Lgamma(d/2 + 1)
	logV := d/2*math.Log(math.Pi) - lg + d*math.Log(r)
	v = math.Exp(logV)
	dv = v * (0.5*math.Log(math.Pi) - 0.5*mathext.Digamma(d/2+1) + math.Log(r))
	return v, dv
}

type volumeKey struct {
	r, d float64
}

type volumeValue struct {
	v, dv float64
}

// volumeCache memoizes BallVolume for one metric. Fits evaluate the same few
// radii at every step of a root search or posterior grid.
type volumeCache struct {
	metric LatticeMetric
	cache  *lru.Cache
}

func newVolumeCache(metric LatticeMetric, size int) *volumeCache {
	c := &volumeCache{metric: metric}
	if size > 0 {
		if cache, err := lru.New(size); err == nil {
			c.cache = cache
		}
	}
	return c
}

// volume returns BallVolume(r, d), consulting the cache first.
func (c *volumeCache) volume(r, d float64) (float64, float64) {
	if c.cache == nil {
		return c.metric.BallVolume(r, d)
	}
	key := volumeKey{r: r, d: d}
	if val, ok := c.cache.Get(key); ok {
		vv := val.(volumeValue)
		return vv.v, vv.dv
	}
	v, dv := c.metric.BallVolume(r, d)
	c.cache.Add(key, volumeValue{v: v, dv: dv})
	return v, dv
}

// ratio returns p = V(inner)/V(outer) and dp/dd.
func (c *volumeCache) ratio(inner, outer, d float64) (p, dp float64) {
	vn, dvn := c.volume(inner, d)
	vk, dvk := c.volume(outer, d)
	if vk <= 0 {
		return math.NaN(), math.NaN()
	}
	p = vn / vk
	dp = (dvn*vk - vn*dvk) / (vk * vk)
	return p, dp
}

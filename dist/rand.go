package dist

import (
	"math/rand"
	"time"
)

// Pseudo-random generator. Every random value of a simulation comes from
// a single Rand, so a simulation is reproducible from its seed as long
// as the values are drawn in the same order.
// Not safe for concurrent use.
type Rand struct {
	rnd  *rand.Rand
	seed int64
}

// Creates a new generator. If seed is 0, the seed is taken from the
// clock.
func NewRand(seed int64) *Rand {
	if seed == 0 {
		seed = ClockSeed()
	}

	return &Rand{rand.New(rand.NewSource(seed)), seed}
}

// Seed derived from wall-clock time, never 0
func ClockSeed() int64 {
	s := time.Now().UnixNano() & 0x7fffffff
	if s == 0 {
		s = 1
	}

	return s
}

func (r *Rand) Seed() int64 {
	return r.seed
}

// Uniform deviate in the open interval (0, 1)
func (r *Rand) Unif() float64 {
	for {
		u := r.rnd.Float64()
		if u != 0 {
			return u
		}
	}
}

// Standard normal deviate
func (r *Rand) StdNorm() float64 {
	return r.rnd.NormFloat64()
}

// Weibull deviate, by inversion of a uniform deviate
func (r *Rand) Weibull(shape, scale float64) float64 {
	return QWeibull(r.Unif(), shape, scale, false)
}

// Integer uniformly distributed in [0, n)
func (r *Rand) Intn(n int) int {
	return r.rnd.Intn(n)
}

// Derives an independent generator for the i-th of several parallel
// streams.
func (r *Rand) Split(i int) *Rand {
	// splitmix64 finalizer, so that close seeds give unrelated streams
	z := uint64(r.seed) + uint64(i+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z ^= z >> 31

	s := int64(z >> 1)
	if s == 0 {
		s = 1
	}

	return &Rand{rand.New(rand.NewSource(s)), s}
}

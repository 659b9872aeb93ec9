package game

import (
	"math/rand"
	"time"
)

// Rand is a source of uniform floats in [0, 1).
// *math/rand.Rand satisfies it; tests inject scripted sequences.
type Rand interface {
	Float64() float64
}

// NewRand returns a seeded source. A zero seed uses the wall clock.
func NewRand(seed int64) Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// between returns a uniform float in [lo, hi).
func between(r Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// pick returns a uniform index in [0, n).
func pick(r Rand, n int) int {
	i := int(r.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Package randutil centralises RNG construction so every component that
// shuffles or generates key presses can be seeded deterministically.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand derived from a single int64 seed. rand/v2's PCG
// wants two 64-bit seeds; deriving both here keeps call sites reproducible.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// NewFromTime returns a *rand.Rand seeded from the wall clock, for runs
// where reproducibility does not matter.
func NewFromTime() *rand.Rand {
	return New(time.Now().UnixNano())
}

// Fork derives an independent generator from an existing one, so concurrent
// consumers never share a *rand.Rand.
func Fork(r *rand.Rand) *rand.Rand {
	return New(int64(r.Uint64()))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

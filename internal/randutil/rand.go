// Package randutil derives reproducible random sources for games.
package randutil

import rand "math/rand/v2"

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// Equal seeds always produce equal shuffles.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Seed returns a fresh non-zero seed from the runtime generator.
func Seed() int64 {
	for {
		if s := int64(rand.Uint64() >> 1); s != 0 {
			return s
		}
	}
}

// Resolve returns seed unchanged when it is non-zero, otherwise a fresh one.
// Zero is the "pick one for me" value used by config and CLI flags.
func Resolve(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return Seed()
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

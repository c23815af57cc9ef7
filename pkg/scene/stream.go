package scene

import "math/rand/v2"

// Feature salts. Each generated axis of the system draws from a stream
// derived from (seed, salt, index), so axes stay uncorrelated even though
// they share a base seed. Changing any of these constants changes every
// scene ever generated; treat them as part of the wire format.
const (
	SaltOrbits        uint64 = 0x9e3779b97f4a7c15
	SaltMoons         uint64 = 0xbf58476d1ce4e5b9
	SaltRings         uint64 = 0x94d049bb133111eb
	SaltNames         uint64 = 0xd6e8feb86659fd93
	SaltBeltGeometry  uint64 = 0xa0761d6478bd642f
	SaltBeltParticles uint64 = 0xe7037ed1a0b428db
	SaltStars         uint64 = 0x8ebc6af09c88c6e3
	SaltStarfield     uint64 = 0x589965cc75374cc3
)

// mixSeed avalanches (seed, salt, index) into a stream seed. The seed is
// truncated to 32 bits before mixing; the finalizer is murmur3-style so
// that adjacent indices land far apart in the output space.
func mixSeed(seed int64, salt uint64, index int) uint64 {
	x := uint64(uint32(seed))
	x ^= salt
	x ^= (uint64(index) + 1) * 0x9e3779b1
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}

// Stream is a deterministic sequence of pseudo-random values in [0, 1).
// Streams created with different salts or indices are uncorrelated even
// when the base seed is shared.
type Stream struct {
	rng *rand.Rand
}

// NewStream derives an independent stream from (seed, salt, index).
func NewStream(seed int64, salt uint64, index int) *Stream {
	k := mixSeed(seed, salt, index)
	return &Stream{rng: rand.New(rand.NewPCG(k, k^0xdeadbeef))}
}

// Float returns the next value in [0, 1).
func (s *Stream) Float() float64 { return s.rng.Float64() }

// Range returns the next value in [lo, hi).
func (s *Stream) Range(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// IntN returns the next integer in [0, n). IntN(0) returns 0.
func (s *Stream) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return s.rng.IntN(n)
}

// Bool returns true with probability p. The underlying draw is consumed
// either way, keeping downstream values stable when p changes.
func (s *Stream) Bool(p float64) bool { return s.rng.Float64() < p }

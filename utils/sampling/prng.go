// Package sampling implements a deterministic pseudo-random expansion
// function over a 32-byte seed. It is the sole source of randomness used
// by the ring and rlwe packages: mask generation, noise sampling and
// compressed-ciphertext seeds all go through a [Source].
//
// The generator is a keyed BLAKE3 XOF. It is an expansion function, not a
// cryptographically-audited DRBG: the ring package treats it as a
// caller-supplied source of entropy, and never reads system randomness
// on its own.
package sampling

import (
	"crypto/rand"
	"encoding/binary"
	"io"

	"github.com/zeebo/blake3"
)

// NewSeed draws a fresh 32-byte seed from the operating system's CSPRNG.
// The ring/rlwe packages never call this on their own; it exists so a
// top-level caller can seed a [Source] without depending on crypto/rand
// directly.
func NewSeed() [32]byte {
	var seed [32]byte
	if _, err := rand.Read(seed[:]); err != nil {
		panic(err)
	}
	return seed
}

// Source is a deterministic expansion function over a 32-byte seed.
// It is single-owner: [Source.Branch] must be used to derive independent
// substreams instead of sharing one Source across goroutines.
type Source struct {
	seed [32]byte
	xof  io.Reader
	ctr  uint64
}

// NewSource returns a [Source] expanding the given seed.
func NewSource(seed [32]byte) *Source {
	h, err := blake3.NewKeyed(seed[:])
	if err != nil {
		// blake3.NewKeyed only errors on a key of the wrong length;
		// seed is fixed-size, so this is a programmer error.
		panic(err)
	}
	return &Source{seed: seed, xof: h.Digest()}
}

// Seed returns the seed the receiver was constructed from.
func (s *Source) Seed() [32]byte {
	return s.seed
}

// NextU64 returns the next 64 bits of the expansion.
func (s *Source) NextU64() uint64 {
	var b [8]byte
	if _, err := io.ReadFull(s.xof, b[:]); err != nil {
		panic(err)
	}
	s.ctr++
	return binary.LittleEndian.Uint64(b[:])
}

// NextU64N returns a uniform value in [0, max) by rejection sampling
// against mask, the smallest (2^k - 1) with mask >= max-1.
func (s *Source) NextU64N(max uint64, mask uint64) uint64 {
	if max == 0 {
		panic("sampling: NextU64N called with max=0")
	}
	for {
		v := s.NextU64() & mask
		if v < max {
			return v
		}
	}
}

// NextF64 returns a uniform float64 in [min, max).
func (s *Source) NextF64(min, max float64) float64 {
	const mantissaBits = 53
	u := s.NextU64() >> (64 - mantissaBits)
	f := float64(u) / float64(uint64(1)<<mantissaBits)
	return min + f*(max-min)
}

// Branch derives a statistically-independent substream, returning both
// the derived seed (for persistence) and a ready-to-use [Source] over it.
// Branching is cheap: it costs one extra 32-byte XOF read on the parent
// stream and does not require locking a shared generator.
func (s *Source) Branch() ([32]byte, *Source) {
	var seed [32]byte
	if _, err := io.ReadFull(s.xof, seed[:]); err != nil {
		panic(err)
	}
	return seed, NewSource(seed)
}

// Read fills p with fresh pseudo-random bytes. It is the low-level
// primitive the ring sampler(s) build uniform-digit and Gaussian
// sampling on top of.
func (s *Source) Read(p []byte) (int, error) {
	return io.ReadFull(s.xof, p)
}

// Package rlwe implements the GLWE/LWE ciphertext layer (C6) and the
// non-GGSW half of the gadget layer (C7): secrets, plaintexts,
// ciphertexts and their compressed variants, encryption/decryption,
// GGLWE switching keys, automorphism keys, tensor keys and key
// generation.
package rlwe

import (
	"fmt"

	"github.com/glwelabs/poulpy/ring"
	"github.com/glwelabs/poulpy/utils/buffer"
	"github.com/glwelabs/poulpy/utils/sampling"
)

// DistributionKind identifies the distribution an LWE/GLWE secret
// coordinate was drawn from (§3.3). The kind is persisted alongside
// the secret and is a programmer-error precondition for every
// operation that samples from it: an operation given a NONE secret
// panics rather than silently treating it as zero.
type DistributionKind uint8

const (
	// NONE marks an uninitialized secret; any operation must reject it.
	NONE DistributionKind = iota
	// ZERO is the all-zero secret, used only in tests and as a
	// placeholder operand shape.
	ZERO
	// TernaryProb draws each coordinate in {-1,0,1} with Pr[+-1]=p/2.
	TernaryProb
	// TernaryFixed draws exactly H non-zero +-1 coordinates.
	TernaryFixed
	// BinaryProb draws each coordinate in {0,1} with Pr[1]=p.
	BinaryProb
	// BinaryFixed draws exactly H non-zero coordinates.
	BinaryFixed
	// BinaryBlock partitions coordinates into blocks of size B, each
	// block holding exactly one 1, enabling block-binary blind rotation.
	BinaryBlock
)

// Distribution bundles a DistributionKind with its numeric parameter:
// P for the probabilistic kinds, H for the fixed-weight kinds, B for
// BinaryBlock. Unused fields are zero.
type Distribution struct {
	Kind DistributionKind
	P    float64
	H    int
	B    int
}

// Secret is an n-coordinate LWE/GLWE secret: n = N for a GLWE secret
// polynomial, n = the LWE dimension for an LWE secret. rank independent
// polynomials make up a GLWE secret; Value holds them as columns of a
// single Znx.
type Secret struct {
	Dist  Distribution
	Value *ring.Znx
}

// NewSecret allocates an uninitialized (kind NONE) secret of the given
// shape; call Generate before use.
func NewSecret(n, rank, base2k, limbs int) *Secret {
	return &Secret{Dist: Distribution{Kind: NONE}, Value: ring.NewZnx(n, rank, limbs, base2k)}
}

// Generate samples every column of the secret from dist using source,
// storing digits only in limb 0 (a secret coordinate is a single small
// integer, not a multi-limb torus value).
func (s *Secret) Generate(dist Distribution, source *sampling.Source) {
	if dist.Kind == NONE {
		panic(fmt.Errorf("rlwe: cannot generate a secret with distribution NONE"))
	}
	s.Dist = dist
	for col := 0; col < s.Value.Cols; col++ {
		row := s.Value.At(col, 0)
		switch dist.Kind {
		case ZERO:
			for i := range row {
				row[i] = 0
			}
		case TernaryProb:
			for i := range row {
				row[i] = sampleTernaryProb(source, dist.P)
			}
		case TernaryFixed:
			fillFixedWeight(source, row, dist.H, true)
		case BinaryProb:
			for i := range row {
				row[i] = sampleBinaryProb(source, dist.P)
			}
		case BinaryFixed:
			fillFixedWeight(source, row, dist.H, false)
		case BinaryBlock:
			fillBlockBinary(source, row, dist.B)
		default:
			panic(fmt.Errorf("rlwe: unknown distribution kind %v", dist.Kind))
		}
	}
}

func sampleTernaryProb(source *sampling.Source, p float64) int64 {
	u := source.NextF64(0, 1)
	if u < p/2 {
		return -1
	}
	if u < p {
		return 1
	}
	return 0
}

func sampleBinaryProb(source *sampling.Source, p float64) int64 {
	if source.NextF64(0, 1) < p {
		return 1
	}
	return 0
}

func fillFixedWeight(source *sampling.Source, row []int64, h int, signed bool) {
	for i := range row {
		row[i] = 0
	}
	n := len(row)
	if h > n {
		panic(fmt.Errorf("rlwe: hamming weight %d exceeds dimension %d", h, n))
	}
	placed := 0
	for placed < h {
		idx := int(source.NextU64N(uint64(n), nextPow2Mask(n)))
		if row[idx] != 0 {
			continue
		}
		v := int64(1)
		if signed && source.NextU64()&1 == 1 {
			v = -1
		}
		row[idx] = v
		placed++
	}
}

func fillBlockBinary(source *sampling.Source, row []int64, b int) {
	n := len(row)
	if b <= 0 || n%b != 0 {
		panic(fmt.Errorf("rlwe: block size %d does not divide dimension %d", b, n))
	}
	for i := range row {
		row[i] = 0
	}
	for start := 0; start < n; start += b {
		idx := start + int(source.NextU64N(uint64(b), nextPow2Mask(b)))
		row[idx] = 1
	}
}

func nextPow2Mask(n int) uint64 {
	m := uint64(1)
	for m < uint64(n) {
		m <<= 1
	}
	return m - 1
}

// Prepared returns the SVP-prepared (frequency-domain) form of every
// secret coordinate, used by encryption/decryption's svp_apply step.
func (s *Secret) Prepared(m *ring.Module) []*ring.SVPPPol {
	out := make([]*ring.SVPPPol, s.Value.Cols)
	for c := range out {
		out[c] = m.PrepareSVP(s.Value, c)
	}
	return out
}

// WriteTo persists the secret as a 1-byte distribution tag, its
// numeric payload, then the inner scalar Znx (§6).
func (s *Secret) WriteTo(w buffer.Writer) (n int64, err error) {
	var inc int64
	if err = w.WriteByte(byte(s.Dist.Kind)); err != nil {
		return n, err
	}
	n++
	if inc, err = buffer.WriteAsUint64(w, uint64(s.Dist.H)); err != nil {
		return n + inc, err
	}
	n += inc
	if inc, err = buffer.WriteAsUint64(w, s.Dist.B); err != nil {
		return n + inc, err
	}
	n += inc
	var pBits uint64
	pBits = uint64(int64(s.Dist.P * (1 << 32)))
	if inc, err = buffer.WriteAsUint64(w, pBits); err != nil {
		return n + inc, err
	}
	n += inc
	inc, err = s.Value.WriteTo(w)
	return n + inc, err
}

// ReadFrom reads a secret written by WriteTo.
func (s *Secret) ReadFrom(r buffer.Reader) (n int64, err error) {
	var inc int64
	tag, err := r.ReadByte()
	if err != nil {
		return n, err
	}
	n++
	s.Dist.Kind = DistributionKind(tag)
	var h uint64
	if inc, err = buffer.ReadAsUint64(r, &h); err != nil {
		return n + inc, err
	}
	n += inc
	s.Dist.H = int(h)
	if inc, err = buffer.ReadAsUint64(r, &s.Dist.B); err != nil {
		return n + inc, err
	}
	n += inc
	var pBits uint64
	if inc, err = buffer.ReadAsUint64(r, &pBits); err != nil {
		return n + inc, err
	}
	n += inc
	s.Dist.P = float64(int64(pBits)) / (1 << 32)
	s.Value = &ring.Znx{}
	inc, err = s.Value.ReadFrom(r)
	return n + inc, err
}

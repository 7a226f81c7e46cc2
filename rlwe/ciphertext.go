package rlwe

import (
	"fmt"

	"github.com/glwelabs/poulpy/ring"
	"github.com/glwelabs/poulpy/utils/buffer"
	"github.com/glwelabs/poulpy/utils/sampling"
)

// Ciphertext is a GLWE ciphertext (§3.2): a Znx with Rank+1 columns
// (b, a_1, ..., a_rank) encrypting a plaintext m in R_q under a
// rank-coordinate secret. An LWE ciphertext is the Rank=0, N=n special
// case obtained by sample extraction (SampleExtract).
type Ciphertext struct {
	Base2K int
	K      int
	Rank   int
	Value  *ring.Znx
}

// NewCiphertext allocates a zeroed GLWE ciphertext of the given shape.
func NewCiphertext(n, rank, base2k, k int) *Ciphertext {
	limbs := (k + base2k - 1) / base2k
	return &Ciphertext{Base2K: base2k, K: k, Rank: rank, Value: ring.NewZnx(n, rank+1, limbs, base2k)}
}

// WriteTo persists the ciphertext as u32 k, u32 base2k, then the inner
// Znx (§6).
func (c *Ciphertext) WriteTo(w buffer.Writer) (n int64, err error) {
	var inc int64
	if inc, err = buffer.WriteAsUint32(w, uint32(c.K)); err != nil {
		return n + inc, err
	}
	n += inc
	if inc, err = buffer.WriteAsUint32(w, uint32(c.Base2K)); err != nil {
		return n + inc, err
	}
	n += inc
	inc, err = c.Value.WriteTo(w)
	return n + inc, err
}

// ReadFrom reads a ciphertext written by WriteTo.
func (c *Ciphertext) ReadFrom(r buffer.Reader) (n int64, err error) {
	var inc int64
	var k, base2k uint32
	if inc, err = buffer.ReadAsUint32(r, &k); err != nil {
		return n + inc, err
	}
	n += inc
	if inc, err = buffer.ReadAsUint32(r, &base2k); err != nil {
		return n + inc, err
	}
	n += inc
	c.K, c.Base2K = int(k), int(base2k)
	c.Value = &ring.Znx{}
	inc, err = c.Value.ReadFrom(r)
	c.Rank = c.Value.Cols - 1
	return n + inc, err
}

// CompressedCiphertext is the seeded-mask variant: columns 1..=rank are
// not stored, only the 32-byte seed they were sampled from. Decompress
// regenerates the mask deterministically before decryption or any
// operation requiring the explicit columns.
type CompressedCiphertext struct {
	Base2K int
	K      int
	Rank   int
	Seed   [32]byte
	B      *ring.Znx // column 0 only, shape (n, 1, limbs)
}

// Decompress regenerates columns 1..=rank from Seed into a full
// Ciphertext.
func (c *CompressedCiphertext) Decompress(n int) *Ciphertext {
	out := NewCiphertext(n, c.Rank, c.Base2K, c.K)
	copy(out.Value.At(0, 0), c.B.At(0, 0))
	for limb := 1; limb < c.B.Limbs; limb++ {
		copy(out.Value.At(0, limb), c.B.At(0, limb))
	}
	src := sampling.NewSource(c.Seed)
	for col := 1; col <= c.Rank; col++ {
		out.Value.FillUniform(col, src)
	}
	return out
}

// WriteTo persists the compressed ciphertext: u32 k, u32 base2k, the
// 32-byte seed, then the column-0-only inner Znx.
func (c *CompressedCiphertext) WriteTo(w buffer.Writer) (n int64, err error) {
	var inc int64
	if inc, err = buffer.WriteAsUint32(w, uint32(c.K)); err != nil {
		return n + inc, err
	}
	n += inc
	if inc, err = buffer.WriteAsUint32(w, uint32(c.Base2K)); err != nil {
		return n + inc, err
	}
	n += inc
	if nn, werr := w.Write(c.Seed[:]); werr != nil {
		return n + int64(nn), werr
	} else {
		n += int64(nn)
	}
	inc, err = c.B.WriteTo(w)
	return n + inc, err
}

// ReadFrom reads a compressed ciphertext written by WriteTo.
func (c *CompressedCiphertext) ReadFrom(r buffer.Reader) (n int64, err error) {
	var inc int64
	var k, base2k uint32
	if inc, err = buffer.ReadAsUint32(r, &k); err != nil {
		return n + inc, err
	}
	n += inc
	if inc, err = buffer.ReadAsUint32(r, &base2k); err != nil {
		return n + inc, err
	}
	n += inc
	c.K, c.Base2K = int(k), int(base2k)
	if nn, rerr := readFull(r, c.Seed[:]); rerr != nil {
		return n + int64(nn), rerr
	} else {
		n += int64(nn)
	}
	c.B = &ring.Znx{}
	inc, err = c.B.ReadFrom(r)
	return n + inc, err
}

func readFull(r buffer.Reader, p []byte) (int, error) {
	total := 0
	for total < len(p) {
		m, err := r.Read(p[total:])
		total += m
		if err != nil {
			return total, err
		}
		if m == 0 {
			return total, fmt.Errorf("rlwe: short read")
		}
	}
	return total, nil
}

// LWE is a single-column Znx of length n+1 encrypting a scalar: LWE[0]
// is the body, LWE[1:] the mask coordinates.
type LWE struct {
	N     int
	Value []int64
}

// SampleExtract extracts the constant coefficient of glwe's body and
// the first n mask coefficients (negated per the negacyclic
// convention, since extracting coefficient 0 of a product with X^i
// picks up a sign flip for i>0 terms that wrap) into a fresh LWE.
func SampleExtract(glwe *Ciphertext) *LWE {
	nGLWE := glwe.Value.N
	out := &LWE{N: nGLWE, Value: make([]int64, nGLWE*glwe.Rank+1)}
	out.Value[0] = glwe.Value.At(0, glwe.Value.Limbs-1)[0]
	pos := 1
	for col := 1; col <= glwe.Rank; col++ {
		row := glwe.Value.At(col, glwe.Value.Limbs-1)
		out.Value[pos] = row[0]
		for i := 1; i < nGLWE; i++ {
			out.Value[pos+i] = -row[nGLWE-i]
		}
		pos += nGLWE
	}
	return out
}

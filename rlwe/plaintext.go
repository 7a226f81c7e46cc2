package rlwe

import (
	"math/big"

	"github.com/glwelabs/poulpy/ring"
)

// Plaintext is a single-column Znx carrying an encoded message at a
// given log-scale, ready to be folded into a GLWE ciphertext's column
// zero by Encryptor.
type Plaintext struct {
	Base2K   int
	K        int
	LogScale int
	Value    *ring.Znx
}

// NewPlaintext allocates a zeroed plaintext of the given shape.
func NewPlaintext(n, base2k, k int) *Plaintext {
	limbs := (k + base2k - 1) / base2k
	return &Plaintext{Base2K: base2k, K: k, Value: ring.NewZnx(n, 1, limbs, base2k)}
}

// Encode maps an integer vector into the base-2k limb representation
// of the plaintext, MSB-aligned at logScale within the torus: value[i]
// is placed so that its least significant bit sits logScale bits below
// the torus's own MSB.
func (p *Plaintext) Encode(values []int64, logScale int) {
	p.LogScale = logScale
	n := p.Value.N
	if len(values) > n {
		panic("rlwe: Encode: more values than ring degree")
	}
	shift := p.K - logScale
	row := p.Value.At(0, 0)
	for i := range row {
		row[i] = 0
	}
	tmp := ring.NewZnx(n, 1, p.Value.Limbs, p.Base2K)
	trow := tmp.At(0, 0)
	for i, v := range values {
		trow[i] = v
	}
	tmp.Normalize(0, p.Value, 0, shift)
}

// Decode reassembles the big-endian base-2k digit chain of each
// coefficient into a signed integer and right-shifts by the encoding
// shift, rounding to the nearest integer, to recover the original value,
// reversing Encode.
func (p *Plaintext) Decode() []int64 {
	n := p.Value.N
	shift := uint(p.K - p.LogScale)
	out := make([]int64, n)
	acc := new(big.Int)
	base := new(big.Int).Lsh(big.NewInt(1), uint(p.Base2K))
	half := new(big.Int)
	if shift > 0 {
		half.Lsh(big.NewInt(1), shift-1)
	}
	for i := 0; i < n; i++ {
		acc.SetInt64(0)
		for limb := p.Value.Limbs - 1; limb >= 0; limb-- {
			acc.Mul(acc, base)
			acc.Add(acc, big.NewInt(p.Value.At(0, limb)[i]))
		}
		if shift > 0 {
			acc.Add(acc, half)
		}
		acc.Rsh(acc, shift)
		out[i] = acc.Int64()
	}
	return out
}

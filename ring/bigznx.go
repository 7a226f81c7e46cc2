package ring

import (
	"fmt"
	"math/big"
)

// BigZnx is the wide-coefficient accumulator of C3: same (cols, limbs,
// N) indexing as Znx, but each coefficient is an arbitrary-precision
// integer so that it can absorb an unnormalized inverse-transform
// result (a sum of up to `limbs` products of base-2^k digits) before
// Normalize folds it back into signed base-2^k digits.
//
// Kept on math/big rather than a hand-rolled wide-word carry chain:
// the accumulator width needed to hold a worst-case convolution sum is
// data-dependent, and a correctness-first bridge through big.Int avoids
// reproducing carry-propagation bugs in a second, wider, hand-rolled
// format.
type BigZnx struct {
	N     int
	Cols  int
	Limbs int
	Data  []*big.Int // layout: [col*Limbs*N + limb*N + i]
}

// NewBigZnx allocates a zeroed BigZnx of the given shape.
func NewBigZnx(n, cols, limbs int) *BigZnx {
	b := &BigZnx{N: n, Cols: cols, Limbs: limbs, Data: make([]*big.Int, cols*limbs*n)}
	for i := range b.Data {
		b.Data[i] = new(big.Int)
	}
	return b
}

// At returns the N big.Int coefficients for the given column and limb.
func (b *BigZnx) At(col, limb int) []*big.Int {
	if col < 0 || col >= b.Cols || limb < 0 || limb >= b.Limbs {
		panic(fmt.Errorf("ring: BigZnx.At(%d,%d) out of range", col, limb))
	}
	off := (col*b.Limbs + limb) * b.N
	return b.Data[off : off+b.N]
}

// Zero clears every coefficient of b.
func (b *BigZnx) Zero() {
	for _, x := range b.Data {
		x.SetInt64(0)
	}
}

// AddSmallInplace adds the digits of a Znx column into the matching
// column of b, coefficient-wise, without truncation.
func (b *BigZnx) AddSmallInplace(col int, src *Znx, srcCol int) {
	for limb := 0; limb < b.Limbs && limb < src.Limbs; limb++ {
		row := b.At(col, limb)
		s := src.At(srcCol, limb)
		for i := range row {
			row[i].Add(row[i], big.NewInt(s[i]))
		}
	}
}

// SubSmallBInplace subtracts the digits of a Znx column from the
// matching column of b, coefficient-wise.
func (b *BigZnx) SubSmallBInplace(col int, src *Znx, srcCol int) {
	for limb := 0; limb < b.Limbs && limb < src.Limbs; limb++ {
		row := b.At(col, limb)
		s := src.At(srcCol, limb)
		for i := range row {
			row[i].Sub(row[i], big.NewInt(s[i]))
		}
	}
}

// Normalize carry-propagates b's column col, least-significant limb
// first, into dst's matching column as signed base-2^Base2K digits
// centered in [-2^(Base2K-1), 2^(Base2K-1)). It is the same algorithm
// as Znx.Normalize, sized for a big.Int source.
func (b *BigZnx) Normalize(col int, dst *Znx, dstCol int) {
	base2k := uint(dst.Base2K)
	mod := new(big.Int).Lsh(big.NewInt(1), base2k)
	half := new(big.Int).Lsh(big.NewInt(1), base2k-1)
	n := dst.N

	carry := make([]*big.Int, n)
	for i := range carry {
		carry[i] = new(big.Int)
	}

	for limb := 0; limb < dst.Limbs; limb++ {
		out := dst.At(dstCol, limb)
		var in []*big.Int
		if limb < b.Limbs {
			in = b.At(col, limb)
		}
		for i := 0; i < n; i++ {
			v := new(big.Int).Set(carry[i])
			if in != nil {
				v.Add(v, in[i])
			}
			digit := new(big.Int).Mod(v, mod)
			if digit.Cmp(half) >= 0 {
				digit.Sub(digit, mod)
			}
			out[i] = digit.Int64()
			carry[i].Sub(v, digit)
			carry[i].Rsh(carry[i], base2k)
		}
	}
}

package hebin

import (
	"github.com/glwelabs/poulpy/ring"
	"github.com/glwelabs/poulpy/rgsw"
	"github.com/glwelabs/poulpy/rlwe"
	"github.com/glwelabs/poulpy/scratch"
)

// BlindRotateTmpBytes is the §4.5 byte-budget query for [BlindRotate]/
// [BlindRotateBlockBinary]: one accumulator GLWE, one rotated-partner
// GLWE and one CMux result GLWE live at once, plus whatever
// [rgsw.ExternalProductTmpBytes] the CMux's external product needs.
func BlindRotateTmpBytes(n, rank, dnum, dsize, limbs int) int {
	ct := scratch.TakeZnxTmpBytes(n, rank+1, limbs)
	return 3*ct + rgsw.ExternalProductTmpBytes(n, rank, dnum, dsize, limbs)
}

// BlindRotationKey is a vector of GGSW ciphertexts, one per coordinate
// of an LWE secret (§3.2), carrying the secret's distribution kind so
// the block-binary optimization of §4.10 can group coordinates.
type BlindRotationKey struct {
	Dist  rlwe.Distribution
	GGSWs []*rgsw.Ciphertext
}

// GenBlindRotationKey encrypts one GGSW per coordinate of lweSecret
// under the GLWE secret glweSk.
func GenBlindRotationKey(enc *rlwe.Encryptor, lweSecret *rlwe.Secret, glweSk *rlwe.Secret, dnum, dsize int) *BlindRotationKey {
	n := glweSk.Value.N
	brk := &BlindRotationKey{Dist: lweSecret.Dist, GGSWs: make([]*rgsw.Ciphertext, len(lweSecret.Value.At(0, 0)))}
	coords := lweSecret.Value.At(0, 0)
	for i, s := range coords {
		mu := ring.NewZnx(n, 1, 1, glweSk.Value.Base2K)
		mu.At(0, 0)[0] = s
		brk.GGSWs[i] = rgsw.Encrypt(enc, mu, glweSk, dnum, dsize)
	}
	return brk
}

// PreparedBlindRotationKey is the VMP-prepared form of every GGSW in a
// blind-rotation key.
type PreparedBlindRotationKey struct {
	Preps []*rgsw.Prepared
}

// Prepare transforms every GGSW of brk.
func (brk *BlindRotationKey) Prepare(m *ring.Module) *PreparedBlindRotationKey {
	p := &PreparedBlindRotationKey{Preps: make([]*rgsw.Prepared, len(brk.GGSWs))}
	for i, g := range brk.GGSWs {
		p.Preps[i] = g.Prepare(m)
	}
	return p
}

// ModSwitch2N rescales an LWE ciphertext's coefficients from the torus
// modulus into Z/2N: round(2N * x / q).
func ModSwitch2N(lwe *rlwe.LWE, k, twoN int) []int {
	q := int64(1) << uint(k)
	out := make([]int, len(lwe.Value))
	for i, x := range lwe.Value {
		num := x * int64(twoN)
		half := q / 2
		if num >= 0 {
			out[i] = int((num + half) / q)
		} else {
			out[i] = int((num - half) / q)
		}
		out[i] = ((out[i] % twoN) + twoN) % twoN
	}
	return out
}

// BlindRotate implements §4.10's CGGI algorithm: pre-rotate lut by the
// mod-switched body b, then for each LWE coordinate CMux the
// accumulator by X^{a_i} conditioned on the corresponding GGSW of
// sk_lwe,i.
func BlindRotate(m *ring.Module, lut *rlwe.Ciphertext, lwe *rlwe.LWE, k int, brk *PreparedBlindRotationKey, ggsws []*rgsw.Ciphertext) *rlwe.Ciphertext {
	n := lut.Value.N
	switched := ModSwitch2N(lwe, k, 2*n)

	acc := rlwe.NewCiphertext(n, lut.Rank, lut.Base2K, lut.K)
	for col := 0; col <= lut.Rank; col++ {
		lut.Value.Rotate(col, switched[0], acc.Value, col)
	}

	shifted := rlwe.NewCiphertext(n, lut.Rank, lut.Base2K, lut.K)
	for i := 1; i < len(switched); i++ {
		ai := switched[i]
		for col := 0; col <= acc.Rank; col++ {
			acc.Value.Rotate(col, ai, shifted.Value, col)
		}
		res := rlwe.NewCiphertext(n, lut.Rank, lut.Base2K, lut.K)
		rgsw.CMux(m, ggsws[i-1], brk.Preps[i-1], acc, shifted, res)
		acc = res
	}
	return acc
}

// BlindRotateBlockBinary implements the §4.10 block-binary variant: for
// a BinaryBlock(B) secret, every block shares one GGSW per block and
// the loop consumes B LWE coordinates per CMux by pre-combining the
// block's monomial exponent before the conditional multiply.
func BlindRotateBlockBinary(m *ring.Module, lut *rlwe.Ciphertext, lwe *rlwe.LWE, k, block int, brk *PreparedBlindRotationKey, ggsws []*rgsw.Ciphertext) *rlwe.Ciphertext {
	n := lut.Value.N
	switched := ModSwitch2N(lwe, k, 2*n)

	acc := rlwe.NewCiphertext(n, lut.Rank, lut.Base2K, lut.K)
	for col := 0; col <= lut.Rank; col++ {
		lut.Value.Rotate(col, switched[0], acc.Value, col)
	}

	coeffs := switched[1:]
	for start := 0; start < len(coeffs); start += block {
		end := start + block
		if end > len(coeffs) {
			end = len(coeffs)
		}
		exp := 0
		for _, a := range coeffs[start:end] {
			exp += a
		}
		shifted := rlwe.NewCiphertext(n, lut.Rank, lut.Base2K, lut.K)
		for col := 0; col <= acc.Rank; col++ {
			acc.Value.Rotate(col, exp, shifted.Value, col)
		}
		blockIdx := start / block
		res := rlwe.NewCiphertext(n, lut.Rank, lut.Base2K, lut.K)
		rgsw.CMux(m, ggsws[blockIdx], brk.Preps[blockIdx], acc, shifted, res)
		acc = res
	}
	return acc
}

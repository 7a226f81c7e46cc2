// Package rgsw implements the GGSW half of the gadget layer (C7): the
// GGSW ciphertext type, external product and CMux.
package rgsw

import (
	"github.com/glwelabs/poulpy/ring"
	"github.com/glwelabs/poulpy/rlwe"
)

// Ciphertext is a GGSW encryption of a scalar polynomial mu (§3.2):
// Dnum x (Rank+1) GLWE rows under the same secret s, row r column c
// encrypting gadget_r * mu * e_c (e_c the c-th unit vector of the
// (1, s_1, ..., s_rank) basis). This is exactly the shape of a
// rlwe.SwitchingKey from s to s with RankIn = Rank+1 — the two gadget
// ciphertext kinds share one matrix layout, differing only in what
// plaintext gets embedded at generation time (a secret coordinate for
// a switching key, the scalar mu for a GGSW).
type Ciphertext struct {
	Rank int
	Mat  *rlwe.SwitchingKey
}

// NewCiphertext allocates a zeroed GGSW ciphertext of the given shape.
func NewCiphertext(n, rank, base2k, k, dnum, dsize int) *Ciphertext {
	return &Ciphertext{Rank: rank, Mat: rlwe.NewSwitchingKey(n, rank+1, rank, base2k, k, dnum, dsize)}
}

// Encrypt encrypts mu as a GGSW under sk: row r, column c holds the
// gadget-r digit of mu embedded in the c-th basis-vector slot (column
// 0 carries mu*1, column c>=1 carries mu*s_c), via enc's noise/mask
// streams.
func Encrypt(enc *rlwe.Encryptor, mu *ring.Znx, sk *rlwe.Secret, dnum, dsize int) *Ciphertext {
	n := sk.Value.N
	base2k := sk.Value.Base2K
	k := dnum * dsize * base2k
	ct := NewCiphertext(n, sk.Value.Cols, base2k, k, dnum, dsize)

	for r := 0; r < dnum; r++ {
		for c := 0; c <= sk.Value.Cols; c++ {
			pt := rlwe.NewPlaintext(n, base2k, k)
			embedGadgetScalar(pt, mu, sk.Value, c, r, dsize)
			enc.EncryptSk(ct.Mat.Rows[r][c], pt, sk)
		}
	}
	return ct
}

// embedGadgetScalar writes into pt the r-th gadget rung of mu * e_c:
// for c == 0 this is mu itself (the trivial "1" basis slot); for
// c >= 1 it is the negacyclic ring product of mu and secret column
// c-1 (the s_c basis slot), both placed at limb dsize*r.
func embedGadgetScalar(pt *rlwe.Plaintext, mu *ring.Znx, sk *ring.Znx, c, row, dsize int) {
	limb := dsize * row
	if limb >= pt.Value.Limbs {
		return
	}
	out := pt.Value.At(0, limb)
	muRow := mu.At(0, 0)
	if c == 0 {
		copy(out, muRow)
		return
	}
	sRow := sk.At(c-1, 0)
	n := len(out)
	for i, mi := range muRow {
		if mi == 0 {
			continue
		}
		for j, sj := range sRow {
			if i+j < n {
				out[i+j] += mi * sj
			} else {
				out[i+j-n] -= mi * sj
			}
		}
	}
}

// Prepared is the VMP-prepared form of a GGSW ciphertext.
type Prepared struct {
	mat *rlwe.PreparedSwitchingKey
}

// Prepare transforms every cell of ct into its frequency-domain image.
func (ct *Ciphertext) Prepare(m *ring.Module) *Prepared {
	return &Prepared{mat: ct.Mat.Prepare(m)}
}

// ExternalProduct implements §4.7: decomposes every column of lhs
// (including column 0 — a GGSW row spans all Rank+1 input slots,
// unlike a switching key which treats column 0 additively) and
// multiplies by the prepared GGSW matrix, producing a GLWE encrypting
// mu * m into res.
func ExternalProduct(m *ring.Module, ct *Ciphertext, prep *Prepared, lhs *rlwe.Ciphertext, res *rlwe.Ciphertext) {
	applyFullDecompose(m, ct.Mat, prep.mat, lhs, res)
}

// ExternalProductInplace is ExternalProduct with res = lhs.
func ExternalProductInplace(m *ring.Module, ct *Ciphertext, prep *Prepared, lhs *rlwe.Ciphertext) {
	ExternalProduct(m, ct, prep, lhs, lhs)
}

// CMux selects y when ggswB encrypts 1 and x when it encrypts 0:
// CMux = x + ggswB (x) (y - x), computed via one external product.
func CMux(m *ring.Module, ggswB *Ciphertext, prepB *Prepared, x, y, res *rlwe.Ciphertext) {
	diff := rlwe.NewCiphertext(x.Value.N, x.Rank, x.Base2K, x.K)
	for col := 0; col <= x.Rank; col++ {
		ring.Sub(y.Value, col, x.Value, col, diff.Value, col)
	}
	ExternalProduct(m, ggswB, prepB, diff, res)
	for col := 0; col <= x.Rank; col++ {
		ring.Add(res.Value, col, x.Value, col, res.Value, col)
	}
}

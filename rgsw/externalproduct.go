package rgsw

import (
	"github.com/glwelabs/poulpy/ring"
	"github.com/glwelabs/poulpy/rlwe"
	"github.com/glwelabs/poulpy/scratch"
)

// ExternalProductTmpBytes is the §4.5 byte-budget query for
// [ExternalProduct]/[ExternalProductInplace]/[CMux]: one digit Znx/DftZnx
// per (row, offset, input column, spanning Rank+1 columns) plus one
// accumulator BigZnx/DftZnx per output column.
func ExternalProductTmpBytes(n, rank, dnum, dsize, limbs int) int {
	rankIn := rank + 1
	digit := dnum * dsize * rankIn * (scratch.TakeZnxTmpBytes(n, 1, 1) + scratch.TakeDFTTmpBytes(n, 1, 1))
	acc := rankIn * (scratch.TakeBigZnxTmpBytes(n, 1, limbs) + scratch.TakeDFTTmpBytes(n, 1, limbs))
	return digit + acc
}

// applyFullDecompose is the external-product core shared by
// ExternalProduct and CMux, implementing §4.7 in full: every column of
// lhs (0..=Rank) is gadget-decomposed into Dnum rows of Dsize
// consecutive limbs each (row r spans lhs limbs [r*Dsize, r*Dsize+Dsize)),
// and every one of those Dsize sub-limbs is separately transformed and
// multiplied against the matching row of the prepared GGSW matrix —
// di=0 lands at the row's own anchor limb, di>0 absorbs a more
// significant sub-limb shifted up by di positions in the accumulator,
// via [ring.VMPPMat.ApplyDigitsToDFT] — the "vmp_apply then
// vmp_apply_add at shift di" step 2b describes. A Dsize=1 key (the
// common case) degenerates this to exactly the single-limb-per-row
// form the rest of the module exercises.
func applyFullDecompose(m *ring.Module, mat *rlwe.SwitchingKey, prep *rlwe.PreparedSwitchingKey, lhs *rlwe.Ciphertext, res *rlwe.Ciphertext) {
	n := lhs.Value.N
	limbs := res.Value.Limbs
	rankIn := mat.RankIn // = lhs.Rank + 1

	digitDfts := make([][][]*ring.DftZnx, rankIn) // digitDfts[c][r][di]
	for c := 0; c < rankIn; c++ {
		digitDfts[c] = make([][]*ring.DftZnx, mat.Dnum)
		for r := 0; r < mat.Dnum; r++ {
			digitDfts[c][r] = make([]*ring.DftZnx, mat.Dsize)
			for di := 0; di < mat.Dsize; di++ {
				limbIdx := mat.Dsize*r + di
				digit := ring.NewZnx(n, 1, 1, lhs.Base2K)
				if limbIdx < lhs.Value.Limbs {
					copy(digit.At(0, 0), lhs.Value.At(c, limbIdx))
				}
				d := ring.NewDftZnx(n, 1, 1)
				m.DFT(digit, 0, d, 0)
				digitDfts[c][r][di] = d
			}
		}
	}

	for outCol := 0; outCol <= prep.Rank; outCol++ {
		resDft := ring.NewDftZnx(n, 1, limbs)
		prep.Mats[outCol].ApplyDigitsToDFT(resDft, 0, digitDfts)
		acc := ring.NewBigZnx(n, 1, limbs)
		m.IDFTTmpA(resDft, 0, acc, 0)
		acc.Normalize(0, res.Value, outCol)
	}
}

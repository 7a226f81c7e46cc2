package rlwe

import (
	"github.com/glwelabs/poulpy/ring"
	"github.com/glwelabs/poulpy/scratch"
)

// SwitchingKey is a GGLWE ciphertext (§3.2): a Dnum x RankIn matrix of
// GLWE rows under SOut, where row r column c encrypts
// floor(q / (base2k*Dsize)^(r+1)) * (digit * s_c^in). Dsize is the
// optional gadget-digit stride that trades ciphertext size for noise.
type SwitchingKey struct {
	Base2K int
	K      int
	Dnum   int
	Dsize  int
	RankIn int
	Rows   [][]*Ciphertext // Rows[r][c], c in [0, RankIn)
}

// NewSwitchingKey allocates a zeroed switching key of the given shape.
func NewSwitchingKey(n, rankIn, rankOut, base2k, k, dnum, dsize int) *SwitchingKey {
	sk := &SwitchingKey{Base2K: base2k, K: k, Dnum: dnum, Dsize: dsize, RankIn: rankIn}
	sk.Rows = make([][]*Ciphertext, dnum)
	for r := range sk.Rows {
		sk.Rows[r] = make([]*Ciphertext, rankIn)
		for c := range sk.Rows[r] {
			sk.Rows[r][c] = NewCiphertext(n, rankOut, base2k, k)
		}
	}
	return sk
}

// GenSwitchingKey encrypts, for every row r and column c, the gadget
// encoding of skIn's c-th coordinate under skOut: row r holds
// floor(q/(base2k*Dsize)^(r+1)) * skIn[c] encrypted as a GLWE under
// skOut, via the encryptor's noise/mask streams.
func GenSwitchingKey(enc *Encryptor, skIn, skOut *Secret, dnum, dsize int) *SwitchingKey {
	n := skIn.Value.N
	base2k := skOut.Value.Base2K
	k := dnum * dsize * base2k
	sk := NewSwitchingKey(n, skIn.Value.Cols, skOut.Value.Cols, base2k, k, dnum, dsize)

	for r := 0; r < dnum; r++ {
		for c := 0; c < skIn.Value.Cols; c++ {
			pt := NewPlaintext(n, base2k, k)
			gadgetEncodeCoordinate(pt, skIn.Value, c, r, dsize, base2k)
			enc.EncryptSk(sk.Rows[r][c], pt, skOut)
		}
	}
	return sk
}

// gadgetEncodeCoordinate writes into pt the r-th gadget-rung encoding
// of skIn's coordinate col: the single small secret digit placed at
// limb dsize*r (the rung this row contributes to the output
// precision), zero elsewhere.
func gadgetEncodeCoordinate(pt *Plaintext, secret *ring.Znx, col, row, dsize, base2k int) {
	limb := dsize * row
	if limb >= pt.Value.Limbs {
		return
	}
	out := pt.Value.At(0, limb)
	src := secret.At(col, 0)
	copy(out, src)
}

// PreparedSwitchingKey is the VMP-prepared form of a switching key:
// one matrix per output column (rankOut+1), each Dnum x RankIn,
// transformed once so ApplyKeySwitch can stream through memory without
// re-transforming a row on every call.
type PreparedSwitchingKey struct {
	Mats []*ring.VMPPMat // Mats[outCol], shape Dnum x RankIn
	Rank int
}

// Prepare transforms every cell of sk into its frequency-domain image.
func (sk *SwitchingKey) Prepare(m *ring.Module) *PreparedSwitchingKey {
	rankOut := sk.Rows[0][0].Rank
	p := &PreparedSwitchingKey{Rank: rankOut}
	p.Mats = make([]*ring.VMPPMat, rankOut+1)
	for outCol := 0; outCol <= rankOut; outCol++ {
		outCol := outCol
		p.Mats[outCol] = m.PrepareVMP(sk.Dnum, sk.RankIn, func(r, c int) *ring.Znx {
			return sk.Rows[r][c].Value.ColView(outCol)
		})
	}
	return p
}

// ApplyKeySwitchTmpBytes is the pure shape-to-bytes budget §4.5 asks
// every algebra operation to publish: one digit Znx + its DftZnx per
// (row, offset, input column), plus one accumulator BigZnx/DftZnx pair
// per output column. ApplyKeySwitch does not yet draw from a
// caller-owned [scratch.Arena] (see the DESIGN.md note on this
// package); this query exists so a future caller can size one ahead
// of that wiring without the budget arithmetic changing shape.
func ApplyKeySwitchTmpBytes(n, rankIn, rankOut, dnum, dsize, limbs int) int {
	digit := dnum * dsize * rankIn * (scratch.TakeZnxTmpBytes(n, 1, 1) + scratch.TakeDFTTmpBytes(n, 1, 1))
	acc := (rankOut + 1) * (scratch.TakeBigZnxTmpBytes(n, 1, limbs) + scratch.TakeDFTTmpBytes(n, 1, limbs))
	return digit + acc
}

// ApplyKeySwitch implements §4.8 and, through it, §4.7 step 2's full
// per-offset loop: gadget-decompose a's columns 1..=RankIn into Dnum
// rows of Dsize consecutive limbs each (row r spans limbs
// [r*Dsize, r*Dsize+Dsize)), transform every one of those Dsize
// sub-limbs, and multiply by the matching row of the prepared gadget
// matrix via [ring.VMPPMat.ApplyDigitsToDFT] at shift di — di=0 lands
// at the row's own anchor limb, di>0 absorbs a more significant
// sub-limb of a shifted up by di positions in the accumulator, the
// same derivation [applyFullDecompose] in package rgsw uses. Finally
// a[0] is folded straight into the res[0] accumulator after inverse
// transform, since column 0 of a switching key's input is additive
// rather than gadget-multiplied (§4.8).
func (p *PreparedSwitchingKey) ApplyKeySwitch(m *ring.Module, sk *SwitchingKey, a *Ciphertext, res *Ciphertext) {
	n := a.Value.N
	limbs := res.Value.Limbs

	digitDfts := make([][][]*ring.DftZnx, sk.RankIn) // digitDfts[c][r][di]
	for c := 0; c < sk.RankIn; c++ {
		digitDfts[c] = make([][]*ring.DftZnx, sk.Dnum)
		if c+1 > a.Rank {
			continue
		}
		for r := 0; r < sk.Dnum; r++ {
			digitDfts[c][r] = make([]*ring.DftZnx, sk.Dsize)
			for di := 0; di < sk.Dsize; di++ {
				limbIdx := sk.Dsize*r + di
				digit := ring.NewZnx(n, 1, 1, a.Base2K)
				if limbIdx < a.Value.Limbs {
					copy(digit.At(0, 0), a.Value.At(c+1, limbIdx))
				}
				d := ring.NewDftZnx(n, 1, 1)
				m.DFT(digit, 0, d, 0)
				digitDfts[c][r][di] = d
			}
		}
	}

	accs := make([]*ring.BigZnx, p.Rank+1)
	for outCol := range accs {
		resDft := ring.NewDftZnx(n, 1, limbs)
		p.Mats[outCol].ApplyDigitsToDFT(resDft, 0, digitDfts)
		accs[outCol] = ring.NewBigZnx(n, 1, limbs)
		m.IDFTTmpA(resDft, 0, accs[outCol], 0)
	}

	accs[0].AddSmallInplace(0, a.Value, 0)

	for outCol := range accs {
		accs[outCol].Normalize(0, res.Value, outCol)
	}
}

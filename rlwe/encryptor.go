package rlwe

import (
	"fmt"

	"github.com/glwelabs/poulpy/ring"
	"github.com/glwelabs/poulpy/utils/sampling"
)

// Encryptor bundles the module handle and the two independent
// randomness streams §4.6 requires: source_a drives the uniform mask,
// source_e drives the Gaussian noise. Splitting them lets a caller
// reseed only the mask (for a compressed ciphertext's public seed)
// without touching the noise stream, mirroring the teacher's
// WithSeededSecretRandomness / WithSeededPublicRandomness split.
type Encryptor struct {
	module  *ring.Module
	sourceA *sampling.Source
	sourceE *sampling.Source
	sigma   float64
	bound   float64
	kNoise  int
}

// NewEncryptor constructs an Encryptor over module using sourceA for
// the ciphertext mask and sourceE for encryption noise at standard
// deviation sigma, truncated at +-bound*sigma and scaled in at torus
// precision kNoise (§4.2 Add normal).
func NewEncryptor(module *ring.Module, sourceA, sourceE *sampling.Source, sigma, bound float64, kNoise int) *Encryptor {
	return &Encryptor{module: module, sourceA: sourceA, sourceE: sourceE, sigma: sigma, bound: bound, kNoise: kNoise}
}

// WithSeededMask returns a shallow copy of the receiver whose mask
// stream is reseeded from seed — the construction a compressed
// ciphertext's decompression step replays to regenerate its mask.
func (e *Encryptor) WithSeededMask(seed [32]byte) *Encryptor {
	cp := *e
	cp.sourceA = sampling.NewSource(seed)
	return &cp
}

// EncryptSk implements §4.6's encrypt_sk: fills the mask columns from
// source_a, folds in -sum(a_i * s_i), adds pt and Gaussian noise to
// column 0, then normalizes.
func (e *Encryptor) EncryptSk(ct *Ciphertext, pt *Plaintext, sk *Secret) {
	if sk.Dist.Kind == NONE {
		panic(fmt.Errorf("rlwe: EncryptSk: secret has distribution NONE"))
	}
	if ct.Rank != sk.Value.Cols {
		panic(fmt.Errorf("rlwe: EncryptSk: ciphertext rank %d does not match secret rank %d", ct.Rank, sk.Value.Cols))
	}

	prepared := sk.Prepared(e.module)
	n := ct.Value.N
	limbs := ct.Value.Limbs

	acc := ring.NewBigZnx(n, 1, limbs)
	for col := 1; col <= ct.Rank; col++ {
		ct.Value.FillUniform(col, e.sourceA)

		aDft := ring.NewDftZnx(n, 1, limbs)
		e.module.DFT(ct.Value, col, aDft, 0)

		prodDft := ring.NewDftZnx(n, 1, limbs)
		prepared[col-1].ApplyDFTToDFT(prodDft, 0, aDft, 0)
		e.module.IDFTTmpA(prodDft, 0, acc, 0)
	}

	negated := ring.NewZnx(n, 1, limbs, ct.Base2K)
	acc.Normalize(0, negated, 0)
	Negate(negated, 0, ct.Value, 0)

	addPlaintext(ct, pt)

	ct.Value.AddNormal(0, e.sourceE, e.sigma, e.bound, e.kNoise)
	ct.Value.Normalize(0, ct.Value, 0, 0)
}

func addPlaintext(ct *Ciphertext, pt *Plaintext) {
	if pt == nil {
		return
	}
	limbs := ct.Value.Limbs
	if pt.Value.Limbs < limbs {
		limbs = pt.Value.Limbs
	}
	for limb := 0; limb < limbs; limb++ {
		out := ct.Value.At(0, limb)
		in := pt.Value.At(0, limb)
		for i := range out {
			out[i] += in[i]
		}
	}
}

// Negate sets dst[col] = -a[colA] limb-wise; re-exported wrapper kept
// local to this package for readability at call sites above.
func Negate(a *ring.Znx, colA int, dst *ring.Znx, colDst int) {
	ring.Negate(a, colA, dst, colDst)
}

// Decryptor reverses EncryptSk: pt = ct[0] + sum(idft(svp_apply(s_i,
// dft(ct[i])))), normalized.
type Decryptor struct {
	module *ring.Module
}

// NewDecryptor constructs a Decryptor over module.
func NewDecryptor(module *ring.Module) *Decryptor {
	return &Decryptor{module: module}
}

// Decrypt writes the decrypted plaintext of ct under sk into pt.
func (d *Decryptor) Decrypt(ct *Ciphertext, sk *Secret, pt *Plaintext) {
	if sk.Dist.Kind == NONE {
		panic(fmt.Errorf("rlwe: Decrypt: secret has distribution NONE"))
	}
	prepared := sk.Prepared(d.module)
	n := ct.Value.N
	limbs := ct.Value.Limbs

	acc := ring.NewBigZnx(n, 1, limbs)
	acc.AddSmallInplace(0, ct.Value, 0)

	for col := 1; col <= ct.Rank; col++ {
		aDft := ring.NewDftZnx(n, 1, limbs)
		d.module.DFT(ct.Value, col, aDft, 0)
		prodDft := ring.NewDftZnx(n, 1, limbs)
		prepared[col-1].ApplyDFTToDFT(prodDft, 0, aDft, 0)
		d.module.IDFTTmpA(prodDft, 0, acc, 0)
	}

	acc.Normalize(0, pt.Value, 0)
}

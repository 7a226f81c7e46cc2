package rlwe

import "github.com/glwelabs/poulpy/ring"

// KeyGenerator bundles an Encryptor and exposes the higher-level key
// material every ciphertext-algebra operation needs: secrets,
// switching keys, automorphism keys and tensor keys, all generated
// through the same noise/mask streams.
type KeyGenerator struct {
	Module *ring.Module
	Enc    *Encryptor
}

// NewKeyGenerator constructs a KeyGenerator over module using enc.
func NewKeyGenerator(module *ring.Module, enc *Encryptor) *KeyGenerator {
	return &KeyGenerator{Module: module, Enc: enc}
}

// GaloisElementsForTrace returns the orbit of Galois elements
// p = -1, 5, 5^2, ..., 5^(logN-1) needed to compute a trace over the
// full ring (§4.9): automorphism keys for this orbit let Trace collapse
// a GLWE down to its constant coefficient.
func GaloisElementsForTrace(n int) []int {
	logN := 0
	for 1<<uint(logN) < n {
		logN++
	}
	els := make([]int, 0, logN+1)
	els = append(els, 2*n-1) // p = -1 mod 2N
	for k := 0; k < logN-1; k++ {
		els = append(els, ring.GaloisElement(n, k))
	}
	return els
}

// GenAutomorphismKeySet builds one automorphism key per element of ps.
func (kg *KeyGenerator) GenAutomorphismKeySet(sk *Secret, ps []int, dnum, dsize int) map[int]*AutomorphismKey {
	out := make(map[int]*AutomorphismKey, len(ps))
	for _, p := range ps {
		out[p] = GenAutomorphismKey(kg.Enc, sk, p, dnum, dsize)
	}
	return out
}

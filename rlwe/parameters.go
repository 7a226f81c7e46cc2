package rlwe

import "fmt"

// Parameters bundles the scheme-level knobs §6 names (`base2k ∈
// [1,30]`, `rank ∈ [1,8]` in practice, `dnum*dsize <= limbs`) into one
// caller-constructed struct, the teacher's own convention of passing a
// validated parameter literal into `NewEncryptor`/`NewKeyGenerator`
// rather than threading loose ints through every call site.
type Parameters struct {
	LogN   int
	Base2K int
	K      int
	Rank   int
	Dnum   int
	Dsize  int
	Sigma  float64
	Bound  float64
}

// N returns the ring degree 2^LogN.
func (p Parameters) N() int { return 1 << uint(p.LogN) }

// Limbs returns the number of base-2k limbs the torus precision K
// decomposes into.
func (p Parameters) Limbs() int { return (p.K + p.Base2K - 1) / p.Base2K }

// Validate checks the invariants §3.4/§6 place on a parameter set,
// panicking on the first violation (a malformed parameter set is a
// programmer error, not a runtime condition per §7).
func (p Parameters) Validate() {
	if p.LogN < 1 {
		panic(fmt.Errorf("rlwe: Parameters: LogN=%d must be >= 1", p.LogN))
	}
	if p.Base2K < 1 || p.Base2K > 30 {
		panic(fmt.Errorf("rlwe: Parameters: Base2K=%d out of [1,30]", p.Base2K))
	}
	if p.K%p.Base2K != 0 {
		panic(fmt.Errorf("rlwe: Parameters: K=%d is not a multiple of Base2K=%d", p.K, p.Base2K))
	}
	if p.Rank < 1 || p.Rank > 8 {
		panic(fmt.Errorf("rlwe: Parameters: Rank=%d out of [1,8]", p.Rank))
	}
	if p.Dnum < 1 {
		panic(fmt.Errorf("rlwe: Parameters: Dnum=%d must be >= 1", p.Dnum))
	}
	if p.Dsize < 1 {
		panic(fmt.Errorf("rlwe: Parameters: Dsize=%d must be >= 1", p.Dsize))
	}
	if p.Dnum*p.Dsize > p.Limbs() {
		panic(fmt.Errorf("rlwe: Parameters: Dnum*Dsize=%d exceeds Limbs=%d", p.Dnum*p.Dsize, p.Limbs()))
	}
}

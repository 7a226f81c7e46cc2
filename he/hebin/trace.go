// Package hebin implements the bit-level homomorphic evaluation layer:
// trace/packing (C8), blind rotation (C9) and circuit bootstrapping
// (C10), built on top of ring, scratch, rlwe and rgsw.
package hebin

import (
	"github.com/glwelabs/poulpy/ring"
	"github.com/glwelabs/poulpy/rlwe"
)

// Trace computes the field trace of ct over the sub-orbit [start, end)
// of the automorphism orbit p = -1, 5, 5^2, ...: ct <- (ct + sum_k
// aut_k(ct)) / 2^(end-start), via the supplied per-element automorphism
// keys. Every non-constant monomial in the automorphism-invariant
// subspace is driven toward zero; the constant coefficient survives.
func Trace(m *ring.Module, ct *rlwe.Ciphertext, keys map[int]*rlwe.AutomorphismKey, preps map[int]*rlwe.PreparedSwitchingKey, orbit []int, start, end int) *rlwe.Ciphertext {
	acc := rlwe.NewCiphertext(ct.Value.N, ct.Rank, ct.Base2K, ct.K)
	for col := 0; col <= ct.Rank; col++ {
		copy(acc.Value.At(col, 0), ct.Value.At(col, 0))
		for limb := 1; limb < ct.Value.Limbs; limb++ {
			copy(acc.Value.At(col, limb), ct.Value.At(col, limb))
		}
	}

	tmp := rlwe.NewCiphertext(ct.Value.N, ct.Rank, ct.Base2K, ct.K)
	for k := start; k < end && k < len(orbit); k++ {
		p := orbit[k]
		ak := keys[p]
		prep := preps[p]
		ak.Apply(m, prep, acc, tmp)
		for col := 0; col <= ct.Rank; col++ {
			out := acc.Value.At(col, 0)
			in := tmp.Value.At(col, 0)
			for i := range out {
				out[i] += in[i]
			}
		}
	}

	shift := end - start
	for col := 0; col <= ct.Rank; col++ {
		for limb := 0; limb < ct.Value.Limbs; limb++ {
			row := acc.Value.At(col, limb)
			for i := range row {
				row[i] >>= uint(shift)
			}
		}
	}
	return acc
}

// InnerSum rotates-and-adds ct over the automorphism orbit: result =
// sum over the orbit of aut_k(ct), without the final division Trace
// applies. Neither Trace nor Pack calls it.
func InnerSum(m *ring.Module, ct *rlwe.Ciphertext, keys map[int]*rlwe.AutomorphismKey, preps map[int]*rlwe.PreparedSwitchingKey, orbit []int) *rlwe.Ciphertext {
	acc := rlwe.NewCiphertext(ct.Value.N, ct.Rank, ct.Base2K, ct.K)
	for col := 0; col <= ct.Rank; col++ {
		copy(acc.Value.At(col, 0), ct.Value.At(col, 0))
	}
	tmp := rlwe.NewCiphertext(ct.Value.N, ct.Rank, ct.Base2K, ct.K)
	for _, p := range orbit {
		keys[p].Apply(m, preps[p], acc, tmp)
		for col := 0; col <= ct.Rank; col++ {
			out := acc.Value.At(col, 0)
			in := tmp.Value.At(col, 0)
			for i := range out {
				out[i] += in[i]
			}
		}
	}
	return acc
}

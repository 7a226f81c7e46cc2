package hebin

import (
	"math/bits"

	"github.com/glwelabs/poulpy/ring"
	"github.com/glwelabs/poulpy/rlwe"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Pack implements §4.9's packing: given a map from coefficient index
// (in [0, N)) to a GLWE whose constant coefficient carries the value
// meant for that slot (every other coefficient of the input assumed
// zero), produces one GLWE whose coefficient i equals the constant
// coefficient of inputs[i] (zero where the map has no entry).
//
// This follows the standard LWE/GLWE merge-tree construction (the same
// shape as [tuneinsight-lattigo]'s core/rlwe.Pack): every input is first
// scaled by 2^-logN to compensate for the doubling each of the logN
// merge levels introduces, then at level i the ciphertexts at distance
// t = N/2^(i+1) are merged pairwise — the right half is rotated into
// alignment with the left (X^t), added in, and the automorphism
// p = 5^(i-1) (p = -1 for i = 0) is applied to fold the half that does
// not belong at this lane away. After logN levels every contribution
// has been folded exactly 2^logN times, which the initial scale-down
// cancels, leaving the constant coefficient of ct[j] untouched for a
// degenerate single-ciphertext-at-0 input (testable property 8): with
// no partner ciphertext ever present, the loop reduces to the same
// rotate-and-add-conjugate step trace.go's [Trace] performs, scaled by
// the same factor it divides by at the end.
func Pack(m *ring.Module, inputs map[int]*rlwe.Ciphertext, n, rank, base2k, k int, keys map[int]*rlwe.AutomorphismKey, preps map[int]*rlwe.PreparedSwitchingKey) *rlwe.Ciphertext {
	logN := bits.Len(uint(n)) - 1

	// Clone in sorted index order: iteration order over inputs itself
	// never affects the merge-tree result below (every ciphertext is
	// keyed by its own slot), but a sorted walk keeps the bookkeeping
	// deterministic and easy to step through, matching §4.9's
	// "deterministic modulo input order" invariant.
	indices := maps.Keys(inputs)
	slices.Sort(indices)

	cts := make(map[int]*rlwe.Ciphertext, len(inputs))
	for _, i := range indices {
		if i < 0 || i >= n {
			panic("hebin: Pack: index out of [0, N) range")
		}
		cp := cloneCiphertext(inputs[i])
		rshInPlace(cp, logN)
		cts[i] = cp
	}

	for i := 0; i < logN; i++ {
		t := n >> uint(i+1)
		for jx, jy := 0, t; jx < t; jx, jy = jx+1, jy+1 {
			a, aok := cts[jx]
			b, bok := cts[jy]

			var tmpa *rlwe.Ciphertext
			if bok {
				rotated := rlwe.NewCiphertext(n, rank, base2k, k)
				for col := 0; col <= rank; col++ {
					b.Value.Rotate(col, t, rotated.Value, col)
				}
				if aok {
					tmpa = rlwe.NewCiphertext(n, rank, base2k, k)
					for col := 0; col <= rank; col++ {
						diff := tmpa.Value.At(col, 0)
						x := a.Value.At(col, 0)
						y := rotated.Value.At(col, 0)
						for j := range diff {
							diff[j] = x[j] - y[j]
						}
						sum := a.Value.At(col, 0)
						for j := range sum {
							sum[j] += y[j]
						}
					}
				} else {
					doubled := rlwe.NewCiphertext(n, rank, base2k, k)
					for col := 0; col <= rank; col++ {
						out := doubled.Value.At(col, 0)
						in := rotated.Value.At(col, 0)
						for j := range out {
							out[j] = 2 * in[j]
						}
					}
					cts[jx] = doubled
					a, aok = doubled, true
				}
			}

			if aok {
				var p int
				if i == 0 {
					p = 2*n - 1 // automorphism by -1 mod 2N
				} else {
					p = ring.GaloisElement(n, i-1)
				}
				ak := keys[p]
				prep := preps[p]
				folded := rlwe.NewCiphertext(n, rank, base2k, k)
				if tmpa != nil {
					ak.Apply(m, prep, tmpa, folded)
				} else {
					ak.Apply(m, prep, a, folded)
				}
				for col := 0; col <= rank; col++ {
					out := a.Value.At(col, 0)
					in := folded.Value.At(col, 0)
					for j := range out {
						out[j] += in[j]
					}
				}
				cts[jx] = a
			}
		}
	}

	if res, ok := cts[0]; ok {
		return res
	}
	return rlwe.NewCiphertext(n, rank, base2k, k)
}

// GaloisElementsForPack returns the Galois elements Pack's automorphism
// folding step needs for a full (logGap = 0) pack of N slots: p = -1
// for the first level, then p = 5^(i-1) for every subsequent level.
func GaloisElementsForPack(n int) []int {
	logN := bits.Len(uint(n)) - 1
	els := make([]int, 0, logN)
	for i := 0; i < logN; i++ {
		if i == 0 {
			els = append(els, 2*n-1)
			continue
		}
		els = append(els, ring.GaloisElement(n, i-1))
	}
	return els
}

func cloneCiphertext(ct *rlwe.Ciphertext) *rlwe.Ciphertext {
	cp := rlwe.NewCiphertext(ct.Value.N, ct.Rank, ct.Base2K, ct.K)
	for col := 0; col <= ct.Rank; col++ {
		for limb := 0; limb < ct.Value.Limbs; limb++ {
			copy(cp.Value.At(col, limb), ct.Value.At(col, limb))
		}
	}
	return cp
}

func rshInPlace(ct *rlwe.Ciphertext, shift int) {
	if shift == 0 {
		return
	}
	for col := 0; col <= ct.Rank; col++ {
		for limb := 0; limb < ct.Value.Limbs; limb++ {
			row := ct.Value.At(col, limb)
			for i := range row {
				row[i] >>= uint(shift)
			}
		}
	}
}

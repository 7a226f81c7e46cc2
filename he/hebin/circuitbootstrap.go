package hebin

import (
	"github.com/glwelabs/poulpy/ring"
	"github.com/glwelabs/poulpy/rgsw"
	"github.com/glwelabs/poulpy/rlwe"
	"github.com/glwelabs/poulpy/utils/concurrency"
)

// CircuitBootstrapKey bundles the key material §4.11 needs: a blind
// rotation key, a tensor key (for key-switching GGSW columns >= 1) and
// the automorphism-key orbit covering the trace.
type CircuitBootstrapKey struct {
	BRK    *PreparedBlindRotationKey
	GGSWs  []*rgsw.Ciphertext
	Tensor *rlwe.TensorKey
	Orbit  []int
	AutoK  map[int]*rlwe.AutomorphismKey
	Preps  map[int]*rlwe.PreparedSwitchingKey
}

// TestLUT builds a GLWE LUT encoding 1 in the top half of the ring and
// 0 in the bottom half, the selector §4.11 step 1 blind-rotates
// against to promote an LWE bit to a GLWE of that bit.
func TestLUT(n, rank, base2k, k int) *rlwe.Ciphertext {
	ct := rlwe.NewCiphertext(n, rank, base2k, k)
	row := ct.Value.At(0, ct.Value.Limbs-1)
	half := int64(1) << uint(base2k-1)
	for i := n / 2; i < n; i++ {
		row[i] = half
	}
	return ct
}

// CircuitBootstrap promotes a bootstrapped LWE bit to a GGSW of
// dimensions (dnum, dsize, rank) suitable as a CMux selector:
//  1. Blind-rotate lwe against the top/bottom-half test LUT.
//  2. For each gadget row, shift the rotated bit to the row's gadget
//     rung and write the cell: column 0 is the trivial (no key-switch)
//     encoding — bit itself already encrypts mu under the same
//     secret, across every column, so placing its columns at the
//     gadget-rung limb is exactly Enc(gadget_r * mu). Columns >= 1
//     reconstruct Enc(gadget_r * mu * s_t) via
//     mu*s_t = b*s_t + sum_i a_i*s_i*s_t: the body term b*s_t
//     key-switches through the tensor key's identity slot, and each
//     mask term a_i*s_i*s_t key-switches through the tensor key's
//     (i, t) product slot.
func CircuitBootstrap(m *ring.Module, lwe *rlwe.LWE, k, dnum, dsize int, ck *CircuitBootstrapKey, rank, base2k int) *rgsw.Ciphertext {
	n := m.N()
	lut := TestLUT(n, rank, base2k, k)
	bit := BlindRotate(m, lut, lwe, k, ck.BRK, ck.GGSWs)

	bit = hebinTrace(m, bit, ck)

	out := rgsw.NewCiphertext(n, rank, base2k, dnum*dsize*base2k, dnum, dsize)
	for row := 0; row < dnum; row++ {
		writeGadgetRung(out.Mat.Rows[row][0], bit, row, dsize)
	}

	// Column t+1 of every row is reconstructed independently of every
	// other column (each writes only out.Mat.Rows[row][t+1]), so the
	// rank columns dispatch across a worker pool per §5's coarse-grain
	// parallelism allowance — the per-bit/per-column fan-out the rest
	// of the module's concurrency story names.
	pool := make([]bool, maxInt(rank, 1))
	rm := concurrency.NewRessourceManager(pool)
	for t := 0; t < rank; t++ {
		t := t
		rm.Run(func(bool) error {
			reconstructColumn(m, out, bit, ck.Tensor, n, rank, base2k, k, dnum, dsize, t)
			return nil
		})
	}
	if err := rm.Wait(); err != nil {
		panic(err)
	}
	return out
}

// reconstructColumn reconstructs column t+1 of out across every
// gadget row from mu*s_t = b*s_t + sum_i a_i*s_i*s_t: one term per
// srcCol of the rotated bit, each key-switched through the matching
// tensor-key slot and accumulated into the cell.
func reconstructColumn(m *ring.Module, out *rgsw.Ciphertext, bit *rlwe.Ciphertext, tensor *rlwe.TensorKey, n, rank, base2k, k, dnum, dsize, t int) {
	col := t + 1
	terms := make([]columnTerm, 0, rank+1)
	terms = append(terms, columnTerm{srcCol: 0, sk: tensor.IdentityKey(t)})
	for i := 0; i < rank; i++ {
		terms = append(terms, columnTerm{srcCol: i + 1, sk: tensor.Key(i, t)})
	}

	preps := make([]*rlwe.PreparedSwitchingKey, len(terms))
	for i, term := range terms {
		if term.sk != nil {
			preps[i] = term.sk.Prepare(m)
		}
	}

	for row := 0; row < dnum; row++ {
		cell := out.Mat.Rows[row][col]
		for i, term := range terms {
			if term.sk == nil {
				continue
			}
			src := rlwe.NewCiphertext(n, rank, base2k, k)
			writeGadgetRungFrom(src, bit, term.srcCol, row, dsize)
			tmp := rlwe.NewCiphertext(n, rank, base2k, dnum*dsize*base2k)
			preps[i].ApplyKeySwitch(m, term.sk, src, tmp)
			addCiphertextInplace(cell, tmp)
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// columnTerm names one summand of mu*s_t = b*s_t + sum_i a_i*s_i*s_t:
// srcCol is the column of the rotated bit this term reads its digit
// from, sk the switching key encrypting the matching secret product.
type columnTerm struct {
	srcCol int
	sk     *rlwe.SwitchingKey
}

func hebinTrace(m *ring.Module, ct *rlwe.Ciphertext, ck *CircuitBootstrapKey) *rlwe.Ciphertext {
	if len(ck.Orbit) == 0 {
		return ct
	}
	return Trace(m, ct, ck.AutoK, ck.Preps, ck.Orbit, 0, len(ck.Orbit))
}

// writeGadgetRung copies every column of src (right-shifted to the
// row-th gadget rung) into the matching column of cell: cell is
// already a valid encryption of mu under the same secret as src once
// its columns sit at the correct limb, since limb placement is
// exactly multiplication by the gadget scalar.
func writeGadgetRung(cell *rlwe.Ciphertext, src *rlwe.Ciphertext, row, dsize int) {
	limb := dsize * row
	if limb >= cell.Value.Limbs {
		return
	}
	for col := 0; col <= cell.Rank; col++ {
		out := cell.Value.At(col, limb)
		in := src.Value.At(col, src.Value.Limbs-1)
		copy(out, in)
	}
}

// writeGadgetRungFrom copies a single column of src (right-shifted to
// the row-th gadget rung) into dst's column 1 — the one mask slot a
// rank-1 tensor sub-key's ApplyKeySwitch reads from.
func writeGadgetRungFrom(dst *rlwe.Ciphertext, src *rlwe.Ciphertext, srcCol, row, dsize int) {
	limb := dsize * row
	if limb >= dst.Value.Limbs {
		return
	}
	copy(dst.Value.At(1, limb), src.Value.At(srcCol, src.Value.Limbs-1))
}

// addCiphertextInplace adds src into dst, column by column, limb by
// limb.
func addCiphertextInplace(dst *rlwe.Ciphertext, src *rlwe.Ciphertext) {
	for col := 0; col <= dst.Rank; col++ {
		for limb := 0; limb < dst.Value.Limbs; limb++ {
			out := dst.Value.At(col, limb)
			in := src.Value.At(col, limb)
			for j := range out {
				out[j] += in[j]
			}
		}
	}
}

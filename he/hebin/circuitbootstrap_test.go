package hebin

import (
	"testing"

	"github.com/glwelabs/poulpy/ring"
	"github.com/glwelabs/poulpy/rgsw"
	"github.com/glwelabs/poulpy/rlwe"
	"github.com/glwelabs/poulpy/utils/sampling"
	"github.com/stretchr/testify/require"
)

// TestCircuitBootstrapShape checks the output GGSW has the dnum x
// (rank+1) shape the caller asked for.
func TestCircuitBootstrapShape(t *testing.T) {
	n, base2k, rank := 32, 18, 2
	nLWE := 6
	dnum, dsize := 3, 1
	k := dnum * dsize * base2k

	root := sampling.NewSource(sampling.NewSeed())
	_, sourceA := root.Branch()
	_, sourceE := root.Branch()
	module := ring.NewModule(n)
	enc := rlwe.NewEncryptor(module, sourceA, sourceE, 3.2, 6, base2k)

	_, glweSource := root.Branch()
	glweSk := rlwe.NewSecret(n, rank, base2k, 1)
	glweSk.Generate(rlwe.Distribution{Kind: rlwe.TernaryProb, P: 0.5}, glweSource)

	_, lweSource := root.Branch()
	lweSk := rlwe.NewSecret(nLWE, 1, base2k, 1)
	lweSk.Generate(rlwe.Distribution{Kind: rlwe.BinaryFixed, H: 2}, lweSource)

	brk := GenBlindRotationKey(enc, lweSk, glweSk, dnum, dsize)
	prep := brk.Prepare(module)
	tensor := rlwe.GenTensorKey(enc, glweSk, dnum, dsize)

	ck := &CircuitBootstrapKey{BRK: prep, GGSWs: brk.GGSWs, Tensor: tensor}

	lwe := &rlwe.LWE{N: nLWE, Value: make([]int64, nLWE+1)}
	out := CircuitBootstrap(module, lwe, k, dnum, dsize, ck, rank, base2k)

	require.Equal(t, dnum, out.Mat.Dnum)
	require.Equal(t, rank+1, out.Mat.RankIn)
	require.Len(t, out.Mat.Rows, dnum)
	for _, row := range out.Mat.Rows {
		require.Len(t, row, rank+1)
		for _, cell := range row {
			require.Equal(t, rank, cell.Rank)
		}
	}
}

// TestCircuitBootstrapZeroBitYieldsZeroColumns checks a degenerate but
// exactly verifiable property of the column-reconstruction step: an
// all-zero rotated bit (no mask, no body anywhere) has nothing to
// multiply against the tensor key's identity or product terms, so the
// reconstructed columns (>= 1) must come out exactly zero, not merely
// small. ApplyKeySwitch has no internal randomness — it only ever
// multiplies caller-supplied digits against the (noisy, but fixed)
// switching-key ciphertexts — so a zero digit at every row and every
// term contributes exactly zero, with no noise tolerance needed to
// state the expectation.
func TestCircuitBootstrapZeroBitYieldsZeroColumns(t *testing.T) {
	n, base2k, rank := 16, 18, 2
	dnum, dsize := 2, 1
	k := dnum * dsize * base2k

	root := sampling.NewSource(sampling.NewSeed())
	_, sourceA := root.Branch()
	_, sourceE := root.Branch()
	module := ring.NewModule(n)
	enc := rlwe.NewEncryptor(module, sourceA, sourceE, 3.2, 6, base2k)

	_, skSource := root.Branch()
	sk := rlwe.NewSecret(n, rank, base2k, 1)
	sk.Generate(rlwe.Distribution{Kind: rlwe.TernaryProb, P: 0.5}, skSource)

	tensor := rlwe.GenTensorKey(enc, sk, dnum, dsize)

	bit := rlwe.NewCiphertext(n, rank, base2k, k)
	out := rgsw.NewCiphertext(n, rank, base2k, dnum*dsize*base2k, dnum, dsize)

	for t := 0; t < rank; t++ {
		col := t + 1
		terms := []columnTerm{{srcCol: 0, sk: tensor.IdentityKey(t)}}
		for i := 0; i < rank; i++ {
			terms = append(terms, columnTerm{srcCol: i + 1, sk: tensor.Key(i, t)})
		}

		for row := 0; row < dnum; row++ {
			cell := out.Mat.Rows[row][col]
			for _, term := range terms {
				if term.sk == nil {
					continue
				}
				src := rlwe.NewCiphertext(n, rank, base2k, k)
				writeGadgetRungFrom(src, bit, term.srcCol, row, dsize)
				tmp := rlwe.NewCiphertext(n, rank, base2k, dnum*dsize*base2k)
				prep := term.sk.Prepare(module)
				prep.ApplyKeySwitch(module, term.sk, src, tmp)
				addCiphertextInplace(cell, tmp)
			}
		}
	}

	zero := make([]int64, n)
	for row := 0; row < dnum; row++ {
		for col := 1; col <= rank; col++ {
			cell := out.Mat.Rows[row][col]
			for limb := 0; limb < cell.Value.Limbs; limb++ {
				for c := 0; c <= cell.Rank; c++ {
					require.Equal(t, zero, cell.Value.At(c, limb), "row %d col %d limb %d column %d", row, col, limb, c)
				}
			}
		}
	}
}

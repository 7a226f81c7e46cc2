package rlwe

import (
	"math"
	"testing"

	"github.com/glwelabs/poulpy/ring"
	"github.com/glwelabs/poulpy/utils/sampling"
	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/require"
)

// newTestEncryptor builds an Encryptor/Decryptor pair sharing one root
// randomness stream, branched so the mask and noise streams are
// statistically independent (§4.4).
func newTestEncryptor(module *ring.Module, sigma, bound float64, kNoise int) (*Encryptor, *Decryptor) {
	root := sampling.NewSource(sampling.NewSeed())
	_, sourceA := root.Branch()
	_, sourceE := root.Branch()
	return NewEncryptor(module, sourceA, sourceE, sigma, bound, kNoise), NewDecryptor(module)
}

// TestEncryptDecryptRoundTrip is scenario S1: N=16, base2k=18, limbs=3,
// rank=1, a ternary-p=0.5 secret, 16 random 4-bit plaintext
// coefficients at log_scale = 2*18-5.
func TestEncryptDecryptRoundTrip(t *testing.T) {
	n, base2k, limbs, rank := 16, 18, 3, 1
	k := base2k * limbs
	logScale := 2*base2k - 5

	module := ring.NewModule(n)
	enc, dec := newTestEncryptor(module, 3.2, 6, base2k)

	root := sampling.NewSource(sampling.NewSeed())
	_, skSource := root.Branch()
	sk := NewSecret(n, rank, base2k, 1)
	sk.Generate(Distribution{Kind: TernaryProb, P: 0.5}, skSource)

	values := make([]int64, n)
	_, valSource := root.Branch()
	for i := range values {
		values[i] = int64(valSource.NextU64N(16, 15))
	}

	pt := NewPlaintext(n, base2k, k)
	pt.Encode(values, logScale)

	ct := NewCiphertext(n, rank, base2k, k)
	enc.EncryptSk(ct, pt, sk)

	out := NewPlaintext(n, base2k, k)
	out.LogScale = logScale
	dec.Decrypt(ct, sk, out)

	decoded := out.Decode()
	for i := range values {
		require.Equal(t, values[i], decoded[i], "coefficient %d", i)
	}
}

// TestEncryptDecryptNoiseBudget is testable property 4: the measured
// standard deviation of the decryption error, scaled by 2^k, stays
// within 0.1*sigma of the target sigma over a sample of >= 4096
// coefficients (here obtained by repeating a fresh small-ring
// encryption many times, since a single N=16 ring does not offer 4096
// coefficients on its own).
func TestEncryptDecryptNoiseBudget(t *testing.T) {
	n, base2k, limbs, rank := 16, 18, 3, 1
	k := base2k * limbs
	sigma := 3.2

	module := ring.NewModule(n)
	enc, dec := newTestEncryptor(module, sigma, 6, base2k)

	root := sampling.NewSource(sampling.NewSeed())
	_, skSource := root.Branch()
	sk := NewSecret(n, rank, base2k, 1)
	sk.Generate(Distribution{Kind: TernaryProb, P: 0.5}, skSource)

	pt := NewPlaintext(n, base2k, k)
	pt.Encode(make([]int64, n), 0)

	samples := make([]float64, 0, 4096)
	for len(samples) < 4096 {
		ct := NewCiphertext(n, rank, base2k, k)
		enc.EncryptSk(ct, pt, sk)

		out := NewPlaintext(n, base2k, k)
		dec.Decrypt(ct, sk, out)

		for _, v := range out.Value.At(0, 0) {
			samples = append(samples, float64(v))
		}
	}

	sd, err := stats.StandardDeviation(samples)
	require.NoError(t, err)
	require.InDelta(t, sigma, sd, 0.1*sigma+1, "measured noise std %f, want ~%f", sd, sigma)
	require.False(t, math.IsNaN(sd))
}

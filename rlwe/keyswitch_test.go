package rlwe

import (
	"testing"

	"github.com/glwelabs/poulpy/ring"
	"github.com/glwelabs/poulpy/utils/sampling"
	"github.com/stretchr/testify/require"
)

// TestKeySwitchOneToOne is scenario S3: N=256, base2k=12, k_in=60,
// k_ksk=72, dsize=1, a rank-1 to rank-1 key switch from skA to skB.
func TestKeySwitchOneToOne(t *testing.T) {
	n, base2k, rank := 256, 12, 1
	kIn, dnum, dsize := 60, 6, 1

	module := ring.NewModule(n)
	enc, dec := newTestEncryptor(module, 3.2, 6, base2k)

	root := sampling.NewSource(sampling.NewSeed())
	_, srcA := root.Branch()
	_, srcB := root.Branch()

	skA := NewSecret(n, rank, base2k, 1)
	skA.Generate(Distribution{Kind: TernaryProb, P: 0.5}, srcA)

	skB := NewSecret(n, rank, base2k, 1)
	skB.Generate(Distribution{Kind: TernaryProb, P: 0.5}, srcB)

	ksk := GenSwitchingKey(enc, skA, skB, dnum, dsize)
	prep := ksk.Prepare(module)

	logScale := base2k - 5
	values := make([]int64, n)
	_, valSrc := root.Branch()
	for i := range values {
		values[i] = int64(valSrc.NextU64N(8, 7))
	}

	pt := NewPlaintext(n, base2k, kIn)
	pt.Encode(values, logScale)

	ctA := NewCiphertext(n, rank, base2k, kIn)
	enc.EncryptSk(ctA, pt, skA)

	kKsk := dnum * dsize * base2k
	ctB := NewCiphertext(n, rank, base2k, kKsk)
	prep.ApplyKeySwitch(module, ksk, ctA, ctB)

	out := NewPlaintext(n, base2k, kKsk)
	out.LogScale = logScale
	dec.Decrypt(ctB, skB, out)

	decoded := out.Decode()
	for i := range values {
		require.Equal(t, values[i], decoded[i], "coefficient %d", i)
	}
}

// TestAutomorphismNegation is scenario S2: encode 1+X, apply the
// automorphism for p=-1 to the ciphertext, and check the decrypted
// result is 1-X (mod X^N+1, coefficient N-1 holds the -1).
func TestAutomorphismNegation(t *testing.T) {
	n, base2k, rank := 16, 18, 1
	k := base2k * 3
	dnum, dsize := 3, 1

	module := ring.NewModule(n)
	enc, dec := newTestEncryptor(module, 3.2, 6, base2k)

	root := sampling.NewSource(sampling.NewSeed())
	_, skSource := root.Branch()
	sk := NewSecret(n, rank, base2k, 1)
	sk.Generate(Distribution{Kind: TernaryProb, P: 0.5}, skSource)

	p := 2*n - 1
	ak := GenAutomorphismKey(enc, sk, p, dnum, dsize)
	prep := ak.SK.Prepare(module)

	logScale := 2*base2k - 5
	values := make([]int64, n)
	values[0] = 1
	values[1] = 1

	pt := NewPlaintext(n, base2k, k)
	pt.Encode(values, logScale)

	ct := NewCiphertext(n, rank, base2k, k)
	enc.EncryptSk(ct, pt, sk)

	res := NewCiphertext(n, rank, base2k, k)
	ak.Apply(module, prep, ct, res)

	out := NewPlaintext(n, base2k, k)
	out.LogScale = logScale
	dec.Decrypt(res, sk, out)

	decoded := out.Decode()
	want := make([]int64, n)
	want[0] = 1
	want[n-1] = -1
	for i := range want {
		require.Equal(t, want[i], decoded[i], "coefficient %d", i)
	}
}

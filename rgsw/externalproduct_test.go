package rgsw

import (
	"testing"

	"github.com/glwelabs/poulpy/ring"
	"github.com/glwelabs/poulpy/rlwe"
	"github.com/glwelabs/poulpy/utils/sampling"
	"github.com/stretchr/testify/require"
)

func newTestSetup(n, base2k int) (*ring.Module, *rlwe.Encryptor, *rlwe.Decryptor) {
	root := sampling.NewSource(sampling.NewSeed())
	_, sourceA := root.Branch()
	_, sourceE := root.Branch()
	module := ring.NewModule(n)
	return module, rlwe.NewEncryptor(module, sourceA, sourceE, 3.2, 6, base2k), rlwe.NewDecryptor(module)
}

// TestExternalProduct is scenario S4: encrypt m(X) = X^3 as a GLWE and
// mu = 2 as a GGSW, and check the external product decrypts to 2*X^3.
func TestExternalProduct(t *testing.T) {
	n, base2k, rank := 16, 18, 1
	dnum, dsize := 3, 1
	k := dnum * dsize * base2k

	module, enc, dec := newTestSetup(n, base2k)

	root := sampling.NewSource(sampling.NewSeed())
	_, skSource := root.Branch()
	sk := rlwe.NewSecret(n, rank, base2k, 1)
	sk.Generate(rlwe.Distribution{Kind: rlwe.TernaryProb, P: 0.5}, skSource)

	mu := ring.NewZnx(n, 1, 1, base2k)
	mu.At(0, 0)[0] = 2
	ggsw := Encrypt(enc, mu, sk, dnum, dsize)
	prep := ggsw.Prepare(module)

	logScale := 2*base2k - 5
	values := make([]int64, n)
	values[3] = 1 // m(X) = X^3

	pt := rlwe.NewPlaintext(n, base2k, k)
	pt.Encode(values, logScale)

	ctM := rlwe.NewCiphertext(n, rank, base2k, k)
	enc.EncryptSk(ctM, pt, sk)

	res := rlwe.NewCiphertext(n, rank, base2k, k)
	ExternalProduct(module, ggsw, prep, ctM, res)

	out := rlwe.NewPlaintext(n, base2k, k)
	out.LogScale = logScale
	dec.Decrypt(res, sk, out)

	decoded := out.Decode()
	want := make([]int64, n)
	want[3] = 2
	for i := range want {
		require.Equal(t, want[i], decoded[i], "coefficient %d", i)
	}
}

// TestCMux checks CMux selects x when the control GGSW encrypts 0 and y
// when it encrypts 1.
func TestCMux(t *testing.T) {
	n, base2k, rank := 16, 18, 1
	dnum, dsize := 3, 1
	k := dnum * dsize * base2k

	module, enc, dec := newTestSetup(n, base2k)

	root := sampling.NewSource(sampling.NewSeed())
	_, skSource := root.Branch()
	sk := rlwe.NewSecret(n, rank, base2k, 1)
	sk.Generate(rlwe.Distribution{Kind: rlwe.TernaryProb, P: 0.5}, skSource)

	logScale := 2*base2k - 5

	encodeOne := func(v int64) *rlwe.Ciphertext {
		values := make([]int64, n)
		values[0] = v
		pt := rlwe.NewPlaintext(n, base2k, k)
		pt.Encode(values, logScale)
		ct := rlwe.NewCiphertext(n, rank, base2k, k)
		enc.EncryptSk(ct, pt, sk)
		return ct
	}

	x := encodeOne(5)
	y := encodeOne(9)

	decodeCt := func(ct *rlwe.Ciphertext) int64 {
		out := rlwe.NewPlaintext(n, base2k, k)
		out.LogScale = logScale
		dec.Decrypt(ct, sk, out)
		return out.Decode()[0]
	}

	for _, tc := range []struct {
		bit  int64
		want int64
	}{{0, 5}, {1, 9}} {
		mu := ring.NewZnx(n, 1, 1, base2k)
		mu.At(0, 0)[0] = tc.bit
		ggsw := Encrypt(enc, mu, sk, dnum, dsize)
		prep := ggsw.Prepare(module)

		res := rlwe.NewCiphertext(n, rank, base2k, k)
		CMux(module, ggsw, prep, x, y, res)
		require.Equal(t, tc.want, decodeCt(res), "bit=%d", tc.bit)
	}
}

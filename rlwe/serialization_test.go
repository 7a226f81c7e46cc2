package rlwe

import (
	"testing"

	"github.com/glwelabs/poulpy/utils/buffer"
	"github.com/glwelabs/poulpy/utils/sampling"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// TestCiphertextSerializationRoundTrip is testable property: a
// ciphertext written via WriteTo and read back via ReadFrom is
// byte-for-byte identical in its shape and limb contents.
func TestCiphertextSerializationRoundTrip(t *testing.T) {
	n, base2k, rank := 16, 18, 1
	k := base2k * 3

	source := sampling.NewSource(sampling.NewSeed())
	ct := NewCiphertext(n, rank, base2k, k)
	for col := 0; col <= rank; col++ {
		ct.Value.FillUniform(col, source)
	}

	buf := buffer.NewBufferSize(1 << 16)
	_, err := ct.WriteTo(buf)
	require.NoError(t, err)
	require.NoError(t, buf.Flush())

	out := &Ciphertext{}
	_, err = out.ReadFrom(buf)
	require.NoError(t, err)

	require.Equal(t, ct.K, out.K)
	require.Equal(t, ct.Base2K, out.Base2K)
	require.Equal(t, ct.Rank, out.Rank)
	for col := 0; col <= rank; col++ {
		for limb := 0; limb < ct.Value.Limbs; limb++ {
			require.Equal(t, ct.Value.At(col, limb), out.Value.At(col, limb))
		}
	}
	if diff := cmp.Diff(ct.Value.Data, out.Value.Data); diff != "" {
		t.Fatalf("round-tripped ciphertext data mismatch (-want +got):\n%s", diff)
	}
}

// TestSecretSerializationRoundTrip checks a ternary secret survives a
// WriteTo/ReadFrom cycle, including its distribution tag and P payload.
func TestSecretSerializationRoundTrip(t *testing.T) {
	n, base2k, rank := 16, 18, 1
	source := sampling.NewSource(sampling.NewSeed())

	sk := NewSecret(n, rank, base2k, 1)
	sk.Generate(Distribution{Kind: TernaryProb, P: 0.5}, source)

	buf := buffer.NewBufferSize(1 << 16)
	_, err := sk.WriteTo(buf)
	require.NoError(t, err)
	require.NoError(t, buf.Flush())

	out := &Secret{}
	_, err = out.ReadFrom(buf)
	require.NoError(t, err)

	require.Equal(t, sk.Dist.Kind, out.Dist.Kind)
	require.InDelta(t, sk.Dist.P, out.Dist.P, 1e-6)
	for col := 0; col < rank; col++ {
		require.Equal(t, sk.Value.At(col, 0), out.Value.At(col, 0))
	}
}

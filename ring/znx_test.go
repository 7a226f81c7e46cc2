package ring

import (
	"testing"

	"github.com/glwelabs/poulpy/utils/buffer"
	"github.com/glwelabs/poulpy/utils/sampling"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestTransformRoundTrip(t *testing.T) {
	m := NewModule(64)
	source := sampling.NewSource(sampling.NewSeed())

	a := NewZnx(64, 1, 1, 12)
	a.FillUniform(0, source)

	d := NewDftZnx(64, 1, 1)
	m.DFT(a, 0, d, 0)

	acc := NewBigZnx(64, 1, 1)
	m.IDFTTmpA(d, 0, acc, 0)

	out := NewZnx(64, 1, 1, 12)
	acc.Normalize(0, out, 0)

	mask := int64(1)<<12 - 1
	for i := 0; i < 64; i++ {
		require.Equal(t, a.At(0, 0)[i]&mask, out.At(0, 0)[i]&mask)
	}
}

func TestNormalizeCarriesUpperLimb(t *testing.T) {
	z := NewZnx(8, 1, 2, 4)
	row := z.At(0, 0)
	for i := range row {
		row[i] = 20
	}

	out := NewZnx(8, 1, 2, 4)
	z.Normalize(0, out, 0, 0)

	for i := 0; i < 8; i++ {
		lo := out.At(0, 0)[i]
		hi := out.At(0, 1)[i]
		require.True(t, lo >= -8 && lo < 8)
		require.Equal(t, int64(1), hi)
	}
}

func TestAutomorphismInverse(t *testing.T) {
	n := 32
	a := NewZnx(n, 1, 1, 16)
	for i := 0; i < n; i++ {
		a.At(0, 0)[i] = int64(i + 1)
	}

	p := 5
	pInv := modInverseOdd(p, 2*n)

	fwd := NewZnx(n, 1, 1, 16)
	a.Automorphism(0, p, fwd, 0)

	back := NewZnx(n, 1, 1, 16)
	fwd.Automorphism(0, pInv, back, 0)

	require.True(t, a.Equal(back))
}

func TestRotateRoundTrip(t *testing.T) {
	n := 32
	a := NewZnx(n, 1, 1, 16)
	for i := 0; i < n; i++ {
		a.At(0, 0)[i] = int64(i + 1)
	}

	k := 7
	rotated := NewZnx(n, 1, 1, 16)
	a.Rotate(0, k, rotated, 0)

	back := NewZnx(n, 1, 1, 16)
	rotated.Rotate(0, -k, back, 0)

	require.True(t, a.Equal(back))

	identity := NewZnx(n, 1, 1, 16)
	a.Rotate(0, 0, identity, 0)
	require.True(t, a.Equal(identity))
}

func TestCloneCopyEqual(t *testing.T) {
	a := NewZnx(16, 2, 3, 8)
	source := sampling.NewSource(sampling.NewSeed())
	a.FillUniform(0, source)
	a.FillUniform(1, source)

	b := a.Clone()
	require.True(t, a.Equal(b))

	b.At(0, 0)[0]++
	require.False(t, a.Equal(b))

	b.Copy(a)
	require.True(t, a.Equal(b))
}

func TestZnxSerializationRoundTrip(t *testing.T) {
	a := NewZnx(32, 2, 2, 10)
	source := sampling.NewSource(sampling.NewSeed())
	a.FillUniform(0, source)
	a.FillUniform(1, source)

	buf := buffer.NewBufferSize(BufferSizeZnx(a.N, a.Cols, a.Limbs))
	_, err := a.WriteTo(buf)
	require.NoError(t, err)

	b := NewZnx(32, 2, 2, 10)
	_, err = b.ReadFrom(buf)
	require.NoError(t, err)
	require.True(t, a.Equal(b))
	if diff := cmp.Diff(a.Data, b.Data); diff != "" {
		t.Fatalf("round-tripped Znx data mismatch (-want +got):\n%s", diff)
	}
}

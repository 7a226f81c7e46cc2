package scratch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTakeZnxAliasesArenaBytes(t *testing.T) {
	n, cols, limbs, base2k := 16, 2, 3, 12
	budget := TakeZnxTmpBytes(n, cols, limbs)
	buf := make([]byte, budget)
	a := New(buf)

	z, next := TakeZnx(a, n, cols, limbs, base2k)
	require.Equal(t, 0, next.Available())
	require.Equal(t, cols*limbs*n, len(z.Data))

	z.At(1, 2)[0] = 7
	require.Equal(t, int64(7), z.At(1, 2)[0])

	offset := (1*limbs + 2) * n * 8
	require.NotZero(t, buf[offset], "mutating the Znx view should mutate the backing arena bytes")
}

func TestTakeZnxZeroed(t *testing.T) {
	n, cols, limbs, base2k := 8, 1, 1, 10
	buf := make([]byte, 2*TakeZnxTmpBytes(n, cols, limbs))
	for i := range buf {
		buf[i] = 0xff
	}
	a := New(buf)
	z, _ := TakeZnx(a, n, cols, limbs, base2k)
	for _, v := range z.Data {
		require.Equal(t, int64(0), v)
	}
}

func TestTakeDFTAliasesArenaBytes(t *testing.T) {
	n, cols, limbs := 16, 1, 2
	budget := TakeDFTTmpBytes(n, cols, limbs)
	buf := make([]byte, budget)
	a := New(buf)

	d, next := TakeDFT(a, n, cols, limbs)
	require.Equal(t, 0, next.Available())
	require.Equal(t, cols*limbs*n, len(d.Data))
	for _, v := range d.Data {
		require.Equal(t, complex(0, 0), v)
	}
}

func TestArenaSequentialTakesDoNotOverlap(t *testing.T) {
	n, cols, limbs, base2k := 16, 1, 1, 12
	budget := TakeZnxTmpBytes(n, cols, limbs)
	buf := make([]byte, 2*budget)
	a := New(buf)

	first, a2 := TakeZnx(a, n, cols, limbs, base2k)
	second, a3 := TakeZnx(a2, n, cols, limbs, base2k)

	first.At(0, 0)[0] = 42
	require.Equal(t, int64(0), second.At(0, 0)[0])
	require.Equal(t, 0, a3.Available())
}

func TestArenaTakeBytesPanicsWhenExhausted(t *testing.T) {
	a := New(make([]byte, 32))
	require.Panics(t, func() {
		a.TakeBytes(64)
	})
}

func TestBigZnxTmpBytesMatchesZnx(t *testing.T) {
	n, cols, limbs := 16, 2, 3
	require.Equal(t, TakeZnxTmpBytes(n, cols, limbs), TakeBigZnxTmpBytes(n, cols, limbs))
}

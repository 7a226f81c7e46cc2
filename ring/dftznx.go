package ring

import (
	"fmt"
	"math/big"
)

// DftZnx is the frequency-domain vector of C1/C2: cols x limbs x N
// complex scalars, opaque to the algebra above this package but
// algebraically isomorphic to the limbed coefficient domain via
// [Module.DFT] / [Module.IDFTTmpA]. Each limb of each column transforms
// independently — the limbed representation of a coefficient vector
// has no cross-limb structure the transform needs to see.
type DftZnx struct {
	N     int
	Cols  int
	Limbs int
	Data  []complex128 // layout: [col*Limbs*N + limb*N + i]
}

// NewDftZnx allocates a zeroed DftZnx of the given shape.
func NewDftZnx(n, cols, limbs int) *DftZnx {
	return &DftZnx{N: n, Cols: cols, Limbs: limbs, Data: make([]complex128, cols*limbs*n)}
}

// At returns the N frequency-domain scalars for the given column/limb.
func (d *DftZnx) At(col, limb int) []complex128 {
	if col < 0 || col >= d.Cols || limb < 0 || limb >= d.Limbs {
		panic(fmt.Errorf("ring: DftZnx.At(%d,%d) out of range", col, limb))
	}
	off := (col*d.Limbs + limb) * d.N
	return d.Data[off : off+d.N]
}

// Zero clears the receiver.
func (d *DftZnx) Zero() {
	for i := range d.Data {
		d.Data[i] = 0
	}
}

// AddInplace sets d[col] += src[srcCol] frequency-bin-wise.
func (d *DftZnx) AddInplace(col int, src *DftZnx, srcCol int) {
	for limb := 0; limb < d.Limbs; limb++ {
		out := d.At(col, limb)
		s := src.At(srcCol, limb)
		for i := range out {
			out[i] += s[i]
		}
	}
}

// MulAddInplace accumulates the componentwise product of two
// frequency-domain operands into d[col]: this is the SVP/VMP
// multiply-accumulate primitive every external-product-shaped
// algorithm in rlwe/rgsw/he/hebin is built from.
func (d *DftZnx) MulAddInplace(col int, a *DftZnx, aCol int, b *DftZnx, bCol int) {
	for limb := 0; limb < d.Limbs; limb++ {
		out := d.At(col, limb)
		x := a.At(aCol, limb)
		y := b.At(bCol, limb)
		for i := range out {
			out[i] += x[i] * y[i]
		}
	}
}

// MulAddBroadcast accumulates dst[col][limb] += scalar[scalarCol][0] *
// mat[matCol][limb] for every limb of mat: the gadget-product
// primitive, where scalar is a single-limb extracted digit and mat is
// a full multi-limb prepared ciphertext row that digit multiplies
// homogeneously across every output limb.
func (d *DftZnx) MulAddBroadcast(col int, scalar *DftZnx, scalarCol int, mat *DftZnx, matCol int) {
	d.MulAddBroadcastShift(col, scalar, scalarCol, mat, matCol, 0)
}

// MulAddBroadcastShift is MulAddBroadcast with the product landing
// `shift` limbs more significant than mat's own limb indexing: dst[col]
// [limb+shift] += scalar[scalarCol][0] * mat[matCol][limb]. §4.7 step 2
// uses this at shift=di when a gadget row absorbs one of its dsize-1
// extra, less-significant input sub-limbs — each additional offset di
// multiplies the same row key against a lhs limb that is di positions
// more significant than the row's own anchor limb, so the product must
// land di positions more significant in the accumulator too. Limbs
// that would land at or beyond dst's own limb count are silently
// dropped, which is exactly the dsize>1 truncation-as-optimization §4.7
// step 2a describes (the dropped contributions fall below the
// guaranteed output precision).
func (d *DftZnx) MulAddBroadcastShift(col int, scalar *DftZnx, scalarCol int, mat *DftZnx, matCol int, shift int) {
	s := scalar.At(scalarCol, 0)
	for limb := 0; limb < mat.Limbs; limb++ {
		out := limb + shift
		if out < 0 || out >= d.Limbs {
			continue
		}
		dst := d.At(col, out)
		row := mat.At(matCol, limb)
		for i := range dst {
			dst[i] += s[i] * row[i]
		}
	}
}

// DFT runs the forward transform of src's column srcCol into dst's
// column col: each limb is twisted by the powers of the primitive
// 2N-th root of unity and passed through the radix-2 FFT.
func (m *Module) DFT(src *Znx, srcCol int, dst *DftZnx, col int) {
	n := m.n
	buf := make([]complex128, n)
	for limb := 0; limb < src.Limbs && limb < dst.Limbs; limb++ {
		in := src.At(srcCol, limb)
		for i := 0; i < n; i++ {
			buf[i] = complex(float64(in[i]), 0) * m.psi[i]
		}
		fftInPlace(buf, m.rootsFwd, false)
		copy(dst.At(col, limb), buf)
	}
}

// IDFTTmpA runs the inverse transform of src's column srcCol into an
// unnormalized BigZnx accumulator at column col, consuming src (the
// caller must not reuse src's column after this call without a fresh
// DFT). The big.Int coefficients are rounded from the real part of the
// inverse-twisted FFT output.
func (m *Module) IDFTTmpA(src *DftZnx, srcCol int, dst *BigZnx, col int) {
	n := m.n
	buf := make([]complex128, n)
	for limb := 0; limb < src.Limbs && limb < dst.Limbs; limb++ {
		copy(buf, src.At(srcCol, limb))
		fftInPlace(buf, m.rootsInv, true)
		out := dst.At(col, limb)
		for i := 0; i < n; i++ {
			v := buf[i] * m.psiInv[i]
			out[i].Add(out[i], roundToBigInt(real(v)))
		}
	}
}

// IDFTConsume is IDFTTmpA into a freshly allocated BigZnx; named for
// parity with the spec's "alias: reinterpret storage" operation, which
// this float-backed implementation cannot literally satisfy (there is
// no bit-identical reinterpretation between a complex128 frequency
// buffer and a big.Int limb array), so it pays the same conversion
// cost as IDFTTmpA into a zeroed destination.
func (m *Module) IDFTConsume(src *DftZnx) *BigZnx {
	dst := NewBigZnx(m.n, src.Cols, src.Limbs)
	for col := 0; col < src.Cols; col++ {
		m.IDFTTmpA(src, col, dst, col)
	}
	return dst
}

func roundToBigInt(x float64) *big.Int {
	if x >= 0 {
		return big.NewInt(int64(x + 0.5))
	}
	return big.NewInt(int64(x - 0.5))
}

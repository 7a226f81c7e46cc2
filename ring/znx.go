package ring

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/glwelabs/poulpy/utils/buffer"
	"github.com/glwelabs/poulpy/utils/sampling"
)

// Znx is the small-limb polynomial vector of C2: cols independent
// polynomials in Z[X]/(X^N+1), each stored as limbs signed base-2^k
// digits, least-significant limb first. Digit magnitude is bounded by
// 2^(Base2K-1) once Normalize has been called; operations that have not
// yet normalized their output may transiently exceed that bound.
type Znx struct {
	N      int
	Cols   int
	Limbs  int
	Base2K int
	Data   []int64 // layout: [col*Limbs*N + limb*N + i]
}

// NewZnx allocates a zeroed Znx of the given shape.
func NewZnx(n, cols, limbs, base2k int) *Znx {
	return &Znx{N: n, Cols: cols, Limbs: limbs, Base2K: base2k, Data: make([]int64, cols*limbs*n)}
}

// At returns the N-coefficient slice for the given column and limb.
func (a *Znx) At(col, limb int) []int64 {
	if col < 0 || col >= a.Cols || limb < 0 || limb >= a.Limbs {
		panic(fmt.Errorf("ring: Znx.At(%d,%d) out of range (cols=%d limbs=%d)", col, limb, a.Cols, a.Limbs))
	}
	off := (col*a.Limbs + limb) * a.N
	return a.Data[off : off+a.N]
}

// BufferSize returns the number of bytes a Znx of this shape occupies
// on the wire or in a scratch arena, DEFAULTALIGN-rounded.
func BufferSizeZnx(n, cols, limbs int) int {
	raw := cols * limbs * n * 8
	return (raw + DEFAULTALIGN - 1) &^ (DEFAULTALIGN - 1)
}

// ColView returns a 1-column Znx aliasing column col of a: since
// columns are stored contiguously (Limbs*N values per column), this is
// a zero-copy slice, not a clone. Mutating the view mutates a.
func (a *Znx) ColView(col int) *Znx {
	if col < 0 || col >= a.Cols {
		panic(fmt.Errorf("ring: Znx.ColView(%d) out of range (cols=%d)", col, a.Cols))
	}
	start := col * a.Limbs * a.N
	end := start + a.Limbs*a.N
	return &Znx{N: a.N, Cols: 1, Limbs: a.Limbs, Base2K: a.Base2K, Data: a.Data[start:end]}
}

// Zero clears every digit of a.
func (a *Znx) Zero() {
	for i := range a.Data {
		a.Data[i] = 0
	}
}

// Clone returns a deep copy of a.
func (a *Znx) Clone() *Znx {
	b := &Znx{N: a.N, Cols: a.Cols, Limbs: a.Limbs, Base2K: a.Base2K, Data: make([]int64, len(a.Data))}
	copy(b.Data, a.Data)
	return b
}

// Copy overwrites the receiver's digits from src; shapes must match.
func (a *Znx) Copy(src *Znx) {
	if a.N != src.N || a.Cols != src.Cols || a.Limbs != src.Limbs {
		panic(fmt.Errorf("ring: Znx.Copy shape mismatch"))
	}
	copy(a.Data, src.Data)
}

// Equal reports whether a and b hold identical shapes and digits.
func (a *Znx) Equal(b *Znx) bool {
	if a.N != b.N || a.Cols != b.Cols || a.Limbs != b.Limbs {
		return false
	}
	return buffer.EqualAsUint64Slice(a.Data, b.Data)
}

// WriteTo serializes a as u32 n, cols, limbs followed by n*cols*limbs
// little-endian signed 64-bit integers, matching the persisted layout
// of §6.
func (a *Znx) WriteTo(w buffer.Writer) (n int64, err error) {
	var inc int64
	if inc, err = buffer.WriteAsUint32(w, uint32(a.N)); err != nil {
		return n + inc, err
	}
	n += inc
	if inc, err = buffer.WriteAsUint32(w, uint32(a.Cols)); err != nil {
		return n + inc, err
	}
	n += inc
	if inc, err = buffer.WriteAsUint32(w, uint32(a.Limbs)); err != nil {
		return n + inc, err
	}
	n += inc
	if inc, err = buffer.WriteInt64Slice(w, a.Data); err != nil {
		return n + inc, err
	}
	n += inc
	return n, w.Flush()
}

// ReadFrom deserializes a Znx written by WriteTo, reallocating the
// receiver's storage to match.
func (a *Znx) ReadFrom(r buffer.Reader) (n int64, err error) {
	var inc int64
	var N, cols, limbs uint32
	if inc, err = buffer.ReadAsUint32(r, &N); err != nil {
		return n + inc, err
	}
	n += inc
	if inc, err = buffer.ReadAsUint32(r, &cols); err != nil {
		return n + inc, err
	}
	n += inc
	if inc, err = buffer.ReadAsUint32(r, &limbs); err != nil {
		return n + inc, err
	}
	n += inc
	a.N, a.Cols, a.Limbs = int(N), int(cols), int(limbs)
	a.Data = make([]int64, a.Cols*a.Limbs*a.N)
	if inc, err = buffer.ReadInt64Slice(r, a.Data); err != nil {
		return n + inc, err
	}
	n += inc
	return n, nil
}

// FillUniform samples every digit of column col uniformly in
// [-2^(Base2K-1), 2^(Base2K-1)), consuming one PRNG draw per digit.
func (a *Znx) FillUniform(col int, source *sampling.Source) {
	mask := uint64(1)<<uint(a.Base2K) - 1
	half := int64(1) << uint(a.Base2K-1)
	for limb := 0; limb < a.Limbs; limb++ {
		row := a.At(col, limb)
		for i := range row {
			row[i] = int64(source.NextU64()&mask) - half
		}
	}
}

// AddNormal samples an integer Gaussian N(0, sigma^2) truncated at
// +/- bound*sigma, scales it by 2^(k-kNoise) and adds it to column col,
// limb 0 (the only limb with room for injected noise before a
// Normalize pass absorbs it into the higher limbs).
func (a *Znx) AddNormal(col int, source *sampling.Source, sigma float64, bound float64, kNoise int) {
	row := a.At(col, 0)
	scale := int64(1) << uint(a.Base2K-kNoise)
	for i := range row {
		row[i] += SampleGaussian(source, sigma, bound) * scale
	}
}

// SampleGaussian draws a single integer sample from a discrete
// Gaussian of standard deviation sigma, rejecting draws beyond
// +/- bound*sigma.
func SampleGaussian(source *sampling.Source, sigma, bound float64) int64 {
	for {
		u1 := source.NextF64(1e-12, 1)
		u2 := source.NextF64(0, 1)
		// Box-Muller.
		r := sigma * math.Sqrt(-2*math.Log(u1))
		theta := 2 * math.Pi * u2
		x := r * math.Cos(theta)
		if x > -bound*sigma && x < bound*sigma {
			return int64(roundHalfAwayFromZero(x))
		}
	}
}

func roundHalfAwayFromZero(x float64) float64 {
	if x >= 0 {
		return float64(int64(x + 0.5))
	}
	return float64(int64(x - 0.5))
}

// Automorphism applies X -> X^p (p odd, gcd(p, 2N) = 1) to every limb
// of column col of a, writing into the corresponding column of dst.
// Coefficient i of the result is coefficient j = i * p^-1 mod N of the
// source, sign-flipped when floor(j*p / N) is odd.
func (a *Znx) Automorphism(col int, p int, dst *Znx, dstCol int) {
	n := a.N
	pInv := modInverseOdd(p, 2*n)
	for limb := 0; limb < a.Limbs; limb++ {
		src := a.At(col, limb)
		out := dst.At(dstCol, limb)
		for i := 0; i < n; i++ {
			j := (i * pInv) % (2 * n)
			if j < 0 {
				j += 2 * n
			}
			sign := int64(1)
			if (j/n)%2 == 1 {
				sign = -1
			}
			out[i] = sign * src[j%n]
		}
	}
}

// Rotate multiplies column col by X^k with negacyclic wraparound,
// writing into dstCol of dst. It is the p = +-1-power special case of
// Automorphism restricted to a pure monomial shift.
func (a *Znx) Rotate(col int, k int, dst *Znx, dstCol int) {
	n := a.N
	k = ((k % (2 * n)) + 2*n) % (2 * n)
	for limb := 0; limb < a.Limbs; limb++ {
		src := a.At(col, limb)
		out := dst.At(dstCol, limb)
		for i := 0; i < n; i++ {
			j := i - k
			sign := int64(1)
			jm := ((j % (2 * n)) + 2*n) % (2 * n)
			if (jm / n) == 1 {
				sign = -1
			}
			out[i] = sign * src[jm%n]
		}
	}
}

// GaloisElement computes 5^g mod 2N, the canonical generator used by
// automorphism and trace.
func GaloisElement(n, g int) int {
	mod := 2 * n
	e := 1
	base := 5 % mod
	gg := ((g % eulerPhiOf2N(mod)) + eulerPhiOf2N(mod)) % eulerPhiOf2N(mod)
	for i := 0; i < gg; i++ {
		e = (e * base) % mod
	}
	return e
}

func eulerPhiOf2N(mod int) int {
	// mod = 2N with N a power of two: the multiplicative group of
	// Z/2N has order N/2 for N >= 4 (the order of 5 generates the
	// cyclic part); for bookkeeping purposes in this engine the
	// practical exponent range is taken modulo N.
	n := mod / 2
	if n < 2 {
		return 1
	}
	return n / 2
}

func modInverseOdd(p, mod int) int {
	// mod is a power of two (2N); p is odd, hence invertible.
	p = ((p % mod) + mod) % mod
	inv := 1
	for i := 0; i < bits.Len(uint(mod)); i++ {
		inv = (inv * (2 - p*inv)) % mod
		if inv < 0 {
			inv += mod
		}
	}
	return inv
}

// SwitchRing resizes a polynomial between ring degrees that are powers
// of two in a power-of-two ratio: subsampling when shrinking, zero
// padding when growing.
func SwitchRing(dst, src *Znx) {
	if dst.N <= src.N {
		ratio := src.N / dst.N
		for col := 0; col < dst.Cols; col++ {
			for limb := 0; limb < dst.Limbs; limb++ {
				out := dst.At(col, limb)
				in := src.At(col, limb)
				for i := range out {
					out[i] = in[i*ratio]
				}
			}
		}
		return
	}
	ratio := dst.N / src.N
	for col := 0; col < dst.Cols; col++ {
		for limb := 0; limb < dst.Limbs; limb++ {
			out := dst.At(col, limb)
			in := src.At(col, limb)
			for i := range out {
				out[i] = 0
			}
			for i := range in {
				out[i*ratio] = in[i]
			}
		}
	}
}

// Normalize carry-propagates column col of a into dst's matching
// column as centered base-2^Base2K digits, via the math/big bridge of
// BigZnx.Normalize. lsh left-shifts every digit before propagation
// (used to align a decoded plaintext to a target log-scale).
func (a *Znx) Normalize(col int, dst *Znx, dstCol int, lsh int) {
	tmp := NewBigZnx(a.N, 1, a.Limbs)
	for limb := 0; limb < a.Limbs; limb++ {
		row := tmp.At(0, limb)
		src := a.At(col, limb)
		for i := range row {
			v := src[i]
			if lsh != 0 {
				v <<= uint(lsh)
			}
			row[i].SetInt64(v)
		}
	}
	tmp.Normalize(0, dst, dstCol)
}

// Add sets dst[col] = a[colA] + b[colB] limb-wise, without normalizing.
func Add(a *Znx, colA int, b *Znx, colB int, dst *Znx, colDst int) {
	for limb := 0; limb < dst.Limbs; limb++ {
		out := dst.At(colDst, limb)
		x := a.At(colA, limb)
		y := b.At(colB, limb)
		for i := range out {
			out[i] = x[i] + y[i]
		}
	}
}

// Sub sets dst[col] = a[colA] - b[colB] limb-wise, without normalizing.
func Sub(a *Znx, colA int, b *Znx, colB int, dst *Znx, colDst int) {
	for limb := 0; limb < dst.Limbs; limb++ {
		out := dst.At(colDst, limb)
		x := a.At(colA, limb)
		y := b.At(colB, limb)
		for i := range out {
			out[i] = x[i] - y[i]
		}
	}
}

// Negate sets dst[col] = -a[colA] limb-wise.
func Negate(a *Znx, colA int, dst *Znx, colDst int) {
	for limb := 0; limb < dst.Limbs; limb++ {
		out := dst.At(colDst, limb)
		x := a.At(colA, limb)
		for i := range out {
			out[i] = -x[i]
		}
	}
}

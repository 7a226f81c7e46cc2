// Package ring implements the polynomial arithmetic runtime of the
// module: a base-2k limb-decomposed representation of Z[X]/(X^N+1) in
// three forms (small-limb [Znx], wide-limb [BigZnx] and frequency-domain
// [DftZnx]), the forward/inverse transform between them, and the
// prepared-operand layouts ([SVPPPol], [VMPPMat]) used by the ciphertext
// algebra in the rlwe and rgsw packages.
package ring

import (
	"fmt"
	"math"
	"math/bits"
)

// DEFAULTALIGN is the byte alignment every buffer passed to the
// transform kernel or carved out of a scratch arena must respect.
const DEFAULTALIGN = 64

// Module owns the twiddle tables for one fixed ring degree N and
// dispatches every transform between the coefficient and frequency
// domains. A Module is immutable after construction and may be shared
// read-only across goroutines.
//
// The transform is a complex-coefficient negacyclic DFT: coefficients
// are twisted by the powers of a primitive 2N-th root of unity and then
// run through a standard radix-2 Cooley-Tukey FFT of size N. This is an
// algebraic choice, not a performance one: the spec fixes the contract
// (dft/idft is a ring isomorphism onto a componentwise product ring,
// round-tripping to the identity) and leaves the butterfly schedule to
// the implementation.
type Module struct {
	n    int
	logN int

	psi    []complex128 // forward twist: psi[i] = w^i
	psiInv []complex128 // inverse twist: psiInv[i] = w^-i

	rootsFwd []complex128 // N-th roots of unity in natural order, forward FFT
	rootsInv []complex128 // N-th roots of unity in natural order, inverse FFT
}

// NewModule allocates a new [Module] for ring degree n, a power of two
// with n >= 2.
func NewModule(n int) *Module {
	if n < 2 || n&(n-1) != 0 {
		panic(fmt.Errorf("ring: N=%d must be a power of two >= 2", n))
	}

	logN := bits.Len(uint(n)) - 1

	m := &Module{
		n:        n,
		logN:     logN,
		psi:      make([]complex128, n),
		psiInv:   make([]complex128, n),
		rootsFwd: make([]complex128, n),
		rootsInv: make([]complex128, n),
	}

	// w = primitive 2N-th root of unity.
	for i := 0; i < n; i++ {
		angle := math.Pi * float64(i) / float64(n)
		m.psi[i] = complex(math.Cos(angle), math.Sin(angle))
		m.psiInv[i] = complex(math.Cos(-angle), math.Sin(-angle))
	}

	for i := 0; i < n; i++ {
		angle := -2 * math.Pi * float64(i) / float64(n)
		m.rootsFwd[i] = complex(math.Cos(angle), math.Sin(angle))
		m.rootsInv[i] = complex(math.Cos(-angle), math.Sin(-angle))
	}

	return m
}

// N returns the ring degree of the receiver.
func (m *Module) N() int { return m.n }

// LogN returns the base two logarithm of the ring degree of the receiver.
func (m *Module) LogN() int { return m.logN }

func fftInPlace(a []complex128, roots []complex128, invert bool) {
	n := len(a)

	// bit-reversal permutation of the data (roots stay in natural order:
	// a stage of size s reads every (n/s)-th root).
	logN := bits.Len(uint(n)) - 1
	for i := 0; i < n; i++ {
		j := bits.Reverse(uint(i)) >> (bits.UintSize - logN)
		if int(j) > i {
			a[i], a[int(j)] = a[int(j)], a[i]
		}
	}

	for size := 2; size <= n; size <<= 1 {
		half := size / 2
		stride := n / size
		for i := 0; i < n; i += size {
			for j := 0; j < half; j++ {
				w := roots[j*stride]
				u := a[i+j]
				v := a[i+j+half] * w
				a[i+j] = u + v
				a[i+j+half] = u - v
			}
		}
	}

	if invert {
		invN := complex(1/float64(n), 0)
		for i := range a {
			a[i] *= invN
		}
	}
}

// Package scratch implements the bump allocator of C5: a caller-owned
// byte arena that transient buffers can be carved from instead of
// touching the heap. The ciphertext-algebra operations in rlwe, rgsw
// and hebin do not take an Arena; they allocate their transient
// buffers on the heap and only publish TmpBytes budgets. Every typed
// Take* view has a companion TmpBytes query so callers can size one
// arena for an entire call tree by taking the max over every operation
// they plan to invoke.
package scratch

import (
	"fmt"
	"unsafe"

	"github.com/glwelabs/poulpy/ring"
)

// Arena is an aligned bump allocator. The zero value is not usable;
// construct one with New. Taking a typed view from an Arena returns
// both the view and a new Arena handle over the unconsumed remainder —
// the original handle must not be reused, matching the spec's
// exclusive-borrow discipline (concurrent typed takes on the same
// arena are impossible by construction since each take consumes the
// handle it was called on).
type Arena struct {
	buf []byte
	pos int
}

// New wraps buf (expected DEFAULTALIGN-aligned by the caller) into a
// fresh Arena.
func New(buf []byte) *Arena {
	return &Arena{buf: buf}
}

// Available reports the number of usable aligned bytes remaining.
func (a *Arena) Available() int {
	aligned := align(a.pos)
	if aligned >= len(a.buf) {
		return 0
	}
	return len(a.buf) - aligned
}

func align(pos int) int {
	const mask = ring.DEFAULTALIGN - 1
	return (pos + mask) &^ mask
}

// TakeBytes carves an aligned n-byte prefix off the arena, returning
// it and a new Arena over the remainder. It panics if the arena does
// not have n aligned bytes available — running out of scratch is a
// programmer error (§7), not a runtime condition to recover from.
func (a *Arena) TakeBytes(n int) ([]byte, *Arena) {
	start := align(a.pos)
	end := start + n
	if end > len(a.buf) {
		panic(fmt.Errorf("scratch: requested %d bytes, %d available", n, a.Available()))
	}
	return a.buf[start:end], &Arena{buf: a.buf, pos: end}
}

// TakeSlice carves len int64 values off the arena, reinterpreting the
// carved bytes in place rather than allocating a fresh backing array.
func TakeSlice(a *Arena, length int) ([]int64, *Arena) {
	b, next := a.TakeBytes(length * 8)
	if length == 0 {
		return nil, next
	}
	return unsafe.Slice((*int64)(unsafe.Pointer(&b[0])), length), next
}

// TakeZnxTmpBytes returns the exact byte budget TakeZnx consumes for
// the given shape.
func TakeZnxTmpBytes(n, cols, limbs int) int {
	return ring.BufferSizeZnx(n, cols, limbs)
}

// TakeZnx carves a Znx of the given shape off the arena: its Data
// slice aliases the carved bytes directly (via TakeSlice) rather than
// allocating a fresh []int64, so repeated Take/release cycles over the
// same arena touch no heap.
func TakeZnx(a *Arena, n, cols, limbs, base2k int) (*ring.Znx, *Arena) {
	length := cols * limbs * n
	b, next := a.TakeBytes(TakeZnxTmpBytes(n, cols, limbs))
	var data []int64
	if length > 0 {
		data = unsafe.Slice((*int64)(unsafe.Pointer(&b[0])), length)
		for i := range data {
			data[i] = 0
		}
	}
	return &ring.Znx{N: n, Cols: cols, Limbs: limbs, Base2K: base2k, Data: data}, next
}

// TakeBigZnxTmpBytes returns the exact byte budget TakeBigZnx consumes.
// BigZnx coefficients are arbitrary precision (see ring.BigZnx); the
// arena still reserves the small-limb-equivalent footprint so that a
// caller budgeting purely from shapes gets a stable, shape-only number.
func TakeBigZnxTmpBytes(n, cols, limbs int) int {
	return ring.BufferSizeZnx(n, cols, limbs)
}

// TakeBigZnx carves a BigZnx of the given shape off the arena. Unlike
// TakeZnx/TakeDFT, the carved bytes only reserve the budget: each
// coefficient is a *big.Int, which is itself a heap object regardless
// of where the slice header lives, so BigZnx can never be fully
// zero-heap under the math/big representation §4.3 builds on.
func TakeBigZnx(a *Arena, n, cols, limbs int) (*ring.BigZnx, *Arena) {
	_, next := a.TakeBytes(TakeBigZnxTmpBytes(n, cols, limbs))
	return ring.NewBigZnx(n, cols, limbs), next
}

// TakeDFTTmpBytes returns the exact byte budget TakeDFT consumes: two
// float64 words per complex coefficient.
func TakeDFTTmpBytes(n, cols, limbs int) int {
	raw := cols * limbs * n * 16
	return align(raw)
}

// TakeDFT carves a DftZnx of the given shape off the arena, aliasing
// its Data slice onto the carved bytes the same way TakeZnx does.
func TakeDFT(a *Arena, n, cols, limbs int) (*ring.DftZnx, *Arena) {
	length := cols * limbs * n
	b, next := a.TakeBytes(TakeDFTTmpBytes(n, cols, limbs))
	var data []complex128
	if length > 0 {
		data = unsafe.Slice((*complex128)(unsafe.Pointer(&b[0])), length)
		for i := range data {
			data[i] = 0
		}
	}
	return &ring.DftZnx{N: n, Cols: cols, Limbs: limbs, Data: data}, next
}

package buffer

import (
	"encoding/binary"
	"io"
	"math"
)

func fromU64[T scalar](bits uint64, dst *T) {
	switch p := any(dst).(type) {
	case *float64:
		*p = math.Float64frombits(bits)
	case *float32:
		*p = math.Float32frombits(uint32(bits))
	case *int:
		*p = int(int64(bits))
	case *int64:
		*p = int64(bits)
	case *int32:
		*p = int32(int64(bits))
	case *int16:
		*p = int16(int64(bits))
	case *int8:
		*p = int8(int64(bits))
	case *uint:
		*p = uint(bits)
	case *uint64:
		*p = bits
	case *uint32:
		*p = uint32(bits)
	case *uint16:
		*p = uint16(bits)
	case *uint8:
		*p = uint8(bits)
	}
}

// ReadAsUint8 reads a single byte into v.
func ReadAsUint8[T scalar](r Reader, v *T) (int64, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	fromU64(uint64(b), v)
	return 1, nil
}

// ReadAsUint16 reads a little-endian uint16 into v.
func ReadAsUint16[T scalar](r Reader, v *T) (int64, error) {
	var b [2]byte
	n, err := io.ReadFull(r, b[:])
	if err != nil {
		return int64(n), err
	}
	fromU64(uint64(binary.LittleEndian.Uint16(b[:])), v)
	return int64(n), nil
}

// ReadAsUint32 reads a little-endian uint32 into v.
func ReadAsUint32[T scalar](r Reader, v *T) (int64, error) {
	var b [4]byte
	n, err := io.ReadFull(r, b[:])
	if err != nil {
		return int64(n), err
	}
	fromU64(uint64(binary.LittleEndian.Uint32(b[:])), v)
	return int64(n), nil
}

// ReadAsUint64 reads a little-endian uint64 into v.
func ReadAsUint64[T scalar](r Reader, v *T) (int64, error) {
	var b [8]byte
	n, err := io.ReadFull(r, b[:])
	if err != nil {
		return int64(n), err
	}
	fromU64(binary.LittleEndian.Uint64(b[:]), v)
	return int64(n), nil
}

// ReadAsUint8Slice reads len(v) bytes into v.
func ReadAsUint8Slice[T scalar](r Reader, v []T) (n int64, err error) {
	var inc int64
	for i := range v {
		if inc, err = ReadAsUint8(r, &v[i]); err != nil {
			return n + inc, err
		}
		n += inc
	}
	return
}

// ReadAsUint16Slice reads len(v) little-endian uint16 into v.
func ReadAsUint16Slice[T scalar](r Reader, v []T) (n int64, err error) {
	var inc int64
	for i := range v {
		if inc, err = ReadAsUint16(r, &v[i]); err != nil {
			return n + inc, err
		}
		n += inc
	}
	return
}

// ReadAsUint32Slice reads len(v) little-endian uint32 into v.
func ReadAsUint32Slice[T scalar](r Reader, v []T) (n int64, err error) {
	var inc int64
	for i := range v {
		if inc, err = ReadAsUint32(r, &v[i]); err != nil {
			return n + inc, err
		}
		n += inc
	}
	return
}

// ReadAsUint64Slice reads len(v) little-endian uint64 into v.
func ReadAsUint64Slice[T scalar](r Reader, v []T) (n int64, err error) {
	var inc int64
	for i := range v {
		if inc, err = ReadAsUint64(r, &v[i]); err != nil {
			return n + inc, err
		}
		n += inc
	}
	return
}

// ReadInt64Slice reads a raw []int64 written by [WriteInt64Slice].
func ReadInt64Slice(r Reader, v []int64) (n int64, err error) {
	return ReadAsUint64Slice[int64](r, v)
}

// EqualAsUint64Slice compares two slices of 64-bit scalars.
func EqualAsUint64Slice[T scalar](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// EqualAsUint32Slice compares two slices of 32-bit scalars.
func EqualAsUint32Slice[T scalar](a, b []T) bool {
	return EqualAsUint64Slice(a, b)
}

// EqualAsUint16Slice compares two slices of 16-bit scalars.
func EqualAsUint16Slice[T scalar](a, b []T) bool {
	return EqualAsUint64Slice(a, b)
}

// EqualAsUint8Slice compares two slices of 8-bit scalars.
func EqualAsUint8Slice[T scalar](a, b []T) bool {
	return EqualAsUint64Slice(a, b)
}

package buffer

import (
	"encoding/binary"
	"math"
)

// scalar is the set of base integer/float kinds the generic helpers below
// accept, as re-interpreted bit patterns of the matching width.
type scalar interface {
	~uint | ~uint64 | ~int | ~int64 | ~float64 |
		~uint32 | ~int32 | ~float32 |
		~uint16 | ~int16 |
		~uint8 | ~int8
}

func toU64[T scalar](v T) uint64 { return uint64(anyToFloatOrInt(v)) }

// anyToFloatOrInt bridges the float/int cases through a uint64-shaped bit
// pattern so a single code path can serialize every scalar kind.
func anyToFloatOrInt[T scalar](v T) uint64 {
	switch x := any(v).(type) {
	case float64:
		return math.Float64bits(x)
	case float32:
		return uint64(math.Float32bits(x))
	case int:
		return uint64(int64(x))
	case int64:
		return uint64(x)
	case int32:
		return uint64(int64(x))
	case int16:
		return uint64(int64(x))
	case int8:
		return uint64(int64(x))
	case uint:
		return uint64(x)
	case uint64:
		return x
	case uint32:
		return uint64(x)
	case uint16:
		return uint64(x)
	case uint8:
		return uint64(x)
	default:
		return 0
	}
}

// WriteAsUint8 writes v truncated to a single byte.
func WriteAsUint8[T scalar](w Writer, v T) (int64, error) {
	if err := w.WriteByte(byte(toU64(v))); err != nil {
		return 0, err
	}
	return 1, nil
}

// WriteAsUint16 writes v as a little-endian uint16.
func WriteAsUint16[T scalar](w Writer, v T) (int64, error) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], uint16(toU64(v)))
	n, err := w.Write(b[:])
	return int64(n), err
}

// WriteAsUint32 writes v as a little-endian uint32.
func WriteAsUint32[T scalar](w Writer, v T) (int64, error) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(toU64(v)))
	n, err := w.Write(b[:])
	return int64(n), err
}

// WriteAsUint64 writes v as a little-endian uint64.
func WriteAsUint64[T scalar](w Writer, v T) (int64, error) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], toU64(v))
	n, err := w.Write(b[:])
	return int64(n), err
}

// WriteAsUint8Slice writes each element of v as one byte.
func WriteAsUint8Slice[T scalar](w Writer, v []T) (n int64, err error) {
	var inc int64
	for _, x := range v {
		if inc, err = WriteAsUint8(w, x); err != nil {
			return n + inc, err
		}
		n += inc
	}
	return
}

// WriteAsUint16Slice writes each element of v as a little-endian uint16.
func WriteAsUint16Slice[T scalar](w Writer, v []T) (n int64, err error) {
	var inc int64
	for _, x := range v {
		if inc, err = WriteAsUint16(w, x); err != nil {
			return n + inc, err
		}
		n += inc
	}
	return
}

// WriteAsUint32Slice writes each element of v as a little-endian uint32.
func WriteAsUint32Slice[T scalar](w Writer, v []T) (n int64, err error) {
	var inc int64
	for _, x := range v {
		if inc, err = WriteAsUint32(w, x); err != nil {
			return n + inc, err
		}
		n += inc
	}
	return
}

// WriteAsUint64Slice writes each element of v as a little-endian uint64.
func WriteAsUint64Slice[T scalar](w Writer, v []T) (n int64, err error) {
	var inc int64
	for _, x := range v {
		if inc, err = WriteAsUint64(w, x); err != nil {
			return n + inc, err
		}
		n += inc
	}
	return
}

// WriteInt64Slice writes a raw []int64, the layout used by every
// persisted coefficient vector in this module.
func WriteInt64Slice(w Writer, v []int64) (n int64, err error) {
	return WriteAsUint64Slice[int64](w, v)
}

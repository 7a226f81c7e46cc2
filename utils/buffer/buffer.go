// Package buffer implements a minimal, allocation-free binary writer/reader
// used by every persisted type in the module (GLWE/LWE ciphertexts, GGSW,
// GGLWE switching keys, secrets). All integers are written little-endian.
package buffer

import (
	"bytes"
	"fmt"
)

// Writer is the interface required to write on a pre-allocated buffer
// without going through a [bufio.Writer]. Every WriteTo method in this
// module takes this interface directly; none accepts a plain io.Writer.
type Writer interface {
	Write(p []byte) (n int, err error)
	WriteByte(c byte) error
	Flush() error
}

// Reader is the read-side counterpart of [Writer].
type Reader interface {
	Read(p []byte) (n int, err error)
	ReadByte() (byte, error)
}

// Buffer wraps a byte slice and implements both [Writer] and [Reader],
// growing as needed on writes.
type Buffer struct {
	buf *bytes.Buffer
}

// NewBuffer wraps an existing slice of bytes into a [Buffer].
// Reading from the returned buffer consumes p; writing appends to it.
func NewBuffer(p []byte) *Buffer {
	return &Buffer{buf: bytes.NewBuffer(p)}
}

// NewBufferSize allocates a new empty [Buffer] with a backing array of
// the requested capacity pre-reserved.
func NewBufferSize(size int) *Buffer {
	b := &Buffer{buf: new(bytes.Buffer)}
	b.buf.Grow(size)
	return b
}

func (b *Buffer) Write(p []byte) (int, error) {
	return b.buf.Write(p)
}

func (b *Buffer) WriteByte(c byte) error {
	return b.buf.WriteByte(c)
}

func (b *Buffer) Flush() error {
	return nil
}

func (b *Buffer) Read(p []byte) (int, error) {
	return b.buf.Read(p)
}

func (b *Buffer) ReadByte() (byte, error) {
	return b.buf.ReadByte()
}

// Bytes returns the backing bytes accumulated by writes issued so far.
func (b *Buffer) Bytes() []byte {
	return b.buf.Bytes()
}

// InvalidData is returned by Read* helpers and ReadFrom implementations
// when a persisted artifact does not match the shape the caller asked
// for. It names the offending field so a caller can decide whether to
// retry with a different schema.
type InvalidData struct {
	Field    string
	Got      uint64
	Expected uint64
}

func (e *InvalidData) Error() string {
	return fmt.Sprintf("invalid data: field %q = %d, expected %d", e.Field, e.Got, e.Expected)
}

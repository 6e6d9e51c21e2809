// Package octet provides the growable, randomly indexable byte container that
// backs the buffer codec. It keeps independent reader and writer indices over a
// single backing array:
//
//	+-------------------+------------------+------------------+
//	| discardable bytes |  readable bytes  |  writable bytes  |
//	+-------------------+------------------+------------------+
//	0      <=      readerIndex   <=   writerIndex    <=    capacity
package octet

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is matched by every *BoundsError.
var ErrOutOfBounds = errors.New("octet: index out of bounds")

// BoundsError is returned when a read runs past the readable bytes or an
// absolute access falls outside of the backing array.
type BoundsError struct {
	Op     string
	Index  int
	Length int
	Limit  int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("octet: %s: index %d length %d exceeds limit %d", e.Op, e.Index, e.Length, e.Limit)
}

func (e *BoundsError) Is(target error) bool {
	return target == ErrOutOfBounds
}

const minGrowth = 64

// Buffer is a byte container with independent reader and writer indices.
// It is not safe for concurrent use.
type Buffer struct {
	data []byte

	readerIndex int
	writerIndex int

	markedReaderIndex int
	markedWriterIndex int
}

// New returns an empty Buffer with room for capacity bytes.
func New(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{data: make([]byte, capacity)}
}

// Wrap returns a Buffer over b whose readable region is all of b. The slice
// is shared, not copied.
func Wrap(b []byte) *Buffer {
	return &Buffer{data: b, writerIndex: len(b)}
}

// Capacity is the size of the backing array.
func (b *Buffer) Capacity() int { return len(b.data) }

// ReadableBytes is the number of bytes between the reader and writer indices.
func (b *Buffer) ReadableBytes() int { return b.writerIndex - b.readerIndex }

// WritableBytes is the number of bytes that can be written without growing.
func (b *Buffer) WritableBytes() int { return len(b.data) - b.writerIndex }

func (b *Buffer) ReaderIndex() int { return b.readerIndex }

func (b *Buffer) WriterIndex() int { return b.writerIndex }

// SetReaderIndex moves the reader index, which must stay within [0, writerIndex].
func (b *Buffer) SetReaderIndex(i int) error {
	if i < 0 || i > b.writerIndex {
		return &BoundsError{Op: "set reader index", Index: i, Limit: b.writerIndex}
	}
	b.readerIndex = i
	return nil
}

// SetWriterIndex moves the writer index, which must stay within [readerIndex, capacity].
func (b *Buffer) SetWriterIndex(i int) error {
	if i < b.readerIndex || i > len(b.data) {
		return &BoundsError{Op: "set writer index", Index: i, Limit: len(b.data)}
	}
	b.writerIndex = i
	return nil
}

func (b *Buffer) MarkReaderIndex() { b.markedReaderIndex = b.readerIndex }

func (b *Buffer) ResetReaderIndex() { b.readerIndex = b.markedReaderIndex }

func (b *Buffer) MarkWriterIndex() { b.markedWriterIndex = b.writerIndex }

func (b *Buffer) ResetWriterIndex() { b.writerIndex = b.markedWriterIndex }

// EnsureWritable grows the backing array so that at least n more bytes can be
// written after the writer index. New bytes are zeroed.
func (b *Buffer) EnsureWritable(n int) {
	if n <= b.WritableBytes() {
		return
	}
	need := b.writerIndex + n
	newCap := 2 * len(b.data)
	if newCap < minGrowth {
		newCap = minGrowth
	}
	for newCap < need {
		newCap *= 2
	}
	grown := make([]byte, newCap)
	copy(grown, b.data)
	b.data = grown
}

// ReadByte consumes one byte.
func (b *Buffer) ReadByte() (byte, error) {
	if b.readerIndex >= b.writerIndex {
		return 0, &BoundsError{Op: "read", Index: b.readerIndex, Length: 1, Limit: b.writerIndex}
	}
	v := b.data[b.readerIndex]
	b.readerIndex++
	return v, nil
}

// ReadBytes fills dst from the reader index. Nothing is consumed if fewer than
// len(dst) bytes are readable.
func (b *Buffer) ReadBytes(dst []byte) error {
	if len(dst) > b.ReadableBytes() {
		return &BoundsError{Op: "read", Index: b.readerIndex, Length: len(dst), Limit: b.writerIndex}
	}
	b.readerIndex += copy(dst, b.data[b.readerIndex:])
	return nil
}

// WriteByte appends v at the writer index, growing as needed. The error is
// always nil; the signature satisfies io.ByteWriter.
func (b *Buffer) WriteByte(v byte) error {
	b.EnsureWritable(1)
	b.data[b.writerIndex] = v
	b.writerIndex++
	return nil
}

// WriteBytes appends p at the writer index, growing as needed.
func (b *Buffer) WriteBytes(p []byte) {
	b.EnsureWritable(len(p))
	b.writerIndex += copy(b.data[b.writerIndex:], p)
}

// GetByte returns the byte at an absolute index without moving either index.
func (b *Buffer) GetByte(i int) (byte, error) {
	if i < 0 || i >= len(b.data) {
		return 0, &BoundsError{Op: "get", Index: i, Length: 1, Limit: len(b.data)}
	}
	return b.data[i], nil
}

// SetByte stores v at an absolute index without moving either index.
func (b *Buffer) SetByte(i int, v byte) error {
	if i < 0 || i >= len(b.data) {
		return &BoundsError{Op: "set", Index: i, Length: 1, Limit: len(b.data)}
	}
	b.data[i] = v
	return nil
}

// GetBytes copies len(dst) bytes starting at an absolute index.
func (b *Buffer) GetBytes(i int, dst []byte) error {
	if i < 0 || i+len(dst) > len(b.data) {
		return &BoundsError{Op: "get", Index: i, Length: len(dst), Limit: len(b.data)}
	}
	copy(dst, b.data[i:])
	return nil
}

// Bytes returns the readable region. The slice aliases the backing array.
func (b *Buffer) Bytes() []byte {
	return b.data[b.readerIndex:b.writerIndex]
}

// Array returns the whole backing array, including unwritten capacity.
func (b *Buffer) Array() []byte {
	return b.data
}

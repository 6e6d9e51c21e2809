package buffer

import (
	"golang.org/x/text/encoding"

	"github.com/ardougne/runebuf/internal/core/octet"
)

// Reader decodes fields from a fixed sequence of bytes. A Reader starts in
// byte access mode and is meant to be consumed sequentially by one caller.
type Reader struct {
	buf      *octet.Buffer
	mode     AccessMode
	bitIndex int
	charset  encoding.Encoding
}

// NewReader returns a Reader over b. The slice is not copied.
func NewReader(b []byte, opts ...Option) *Reader {
	o := buildOptions(opts)
	return &Reader{buf: octet.Wrap(b), charset: o.charset}
}

func (r *Reader) Mode() AccessMode { return r.mode }

func (r *Reader) checkByteAccess(op string) error {
	if r.mode != ByteAccess {
		return &ModeError{Op: op, Want: ByteAccess, Have: r.mode}
	}
	return nil
}

func (r *Reader) checkBitAccess(op string) error {
	if r.mode != BitAccess {
		return &ModeError{Op: op, Want: BitAccess, Have: r.mode}
	}
	return nil
}

// SwitchToBitAccess starts addressing bits at the current byte position.
func (r *Reader) SwitchToBitAccess() error {
	if r.mode == BitAccess {
		return &ModeError{Op: "switch to bit access", Want: BitAccess, Have: BitAccess}
	}
	r.mode = BitAccess
	r.bitIndex = r.buf.ReaderIndex() * 8
	return nil
}

// SwitchToByteAccess resumes byte addressing at the first whole byte after
// the last bit read.
func (r *Reader) SwitchToByteAccess() error {
	if r.mode == ByteAccess {
		return &ModeError{Op: "switch to byte access", Want: ByteAccess, Have: ByteAccess}
	}
	if err := r.buf.SetReaderIndex((r.bitIndex + 7) / 8); err != nil {
		return err
	}
	r.mode = ByteAccess
	return nil
}

// Readable is the number of bytes left to read.
func (r *Reader) Readable() (int, error) {
	if err := r.checkByteAccess("readable"); err != nil {
		return 0, err
	}
	return r.buf.ReadableBytes(), nil
}

// Len is the total number of bytes the Reader was built over.
func (r *Reader) Len() int { return r.buf.WriterIndex() }

// Position is the index of the next byte to be read.
func (r *Reader) Position() int { return r.buf.ReaderIndex() }

// SetPosition moves the read cursor to an absolute index.
func (r *Reader) SetPosition(i int) error {
	if err := r.checkByteAccess("set position"); err != nil {
		return err
	}
	return r.buf.SetReaderIndex(i)
}

// Mark remembers the current read position for a later Reset.
func (r *Reader) Mark() { r.buf.MarkReaderIndex() }

// Reset rewinds to the position recorded by the last Mark, or to the start.
func (r *Reader) Reset() { r.buf.ResetReaderIndex() }

// BitPosition is the index of the next bit to be read while in bit access.
func (r *Reader) BitPosition() int { return r.bitIndex }

// Bytes returns the backing array. It aliases the Reader's storage.
func (r *Reader) Bytes() []byte { return r.buf.Array() }

// BytesAt copies len(dst) bytes from an absolute index without moving the cursor.
func (r *Reader) BytesAt(index int, dst []byte) error {
	return r.buf.GetBytes(index, dst)
}

func (r *Reader) require(op string, n int) error {
	if r.buf.ReadableBytes() < n {
		return &BoundsError{Op: op, Index: r.buf.ReaderIndex(), Length: n, Limit: r.buf.WriterIndex()}
	}
	return nil
}

func (r *Reader) read(op string, t DataType, order DataOrder, tr Transformation) (uint64, error) {
	if err := r.checkByteAccess(op); err != nil {
		return 0, err
	}
	if err := checkScalar(op, t, order, tr); err != nil {
		return 0, err
	}
	if err := r.require(op, t.Bytes()); err != nil {
		return 0, err
	}
	return readScalar(r.buf, t, order, tr)
}

// ReadSigned reads a scalar field and sign extends it to the natural range of t.
func (r *Reader) ReadSigned(t DataType, order DataOrder, tr Transformation) (int64, error) {
	value, err := r.read("read signed", t, order, tr)
	if err != nil {
		return 0, err
	}
	return signExtend(t, value), nil
}

// ReadUnsigned reads a scalar field as an unsigned value. Longs must be read
// with ReadSigned.
func (r *Reader) ReadUnsigned(t DataType, order DataOrder, tr Transformation) (uint64, error) {
	if t == Long {
		return 0, &ConfigError{Op: "read unsigned", Reason: "longs must be read as a signed type"}
	}
	value, err := r.read("read unsigned", t, order, tr)
	if err != nil {
		return 0, err
	}
	return unsignedMask(t, value), nil
}

// ReadUint8 reads one plain unsigned byte.
func (r *Reader) ReadUint8() (uint8, error) {
	v, err := r.ReadUnsigned(Byte, Big, None)
	return uint8(v), err
}

// ReadUint16 reads a big-endian unsigned short.
func (r *Reader) ReadUint16() (uint16, error) {
	v, err := r.ReadUnsigned(Short, Big, None)
	return uint16(v), err
}

// ReadInt32 reads a big-endian signed int.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadSigned(Int, Big, None)
	return int32(v), err
}

// ReadBits reads an n bit field, 1 <= n <= 32.
func (r *Reader) ReadBits(n int) (uint32, error) {
	if err := checkBitWidth("read bits", n); err != nil {
		return 0, err
	}
	if err := r.checkBitAccess("read bits"); err != nil {
		return 0, err
	}
	value, err := readBits(r.buf, r.bitIndex, n)
	if err != nil {
		return 0, err
	}
	r.bitIndex += n
	return value, nil
}

// ReadBit reads a single bit flag.
func (r *Reader) ReadBit() (bool, error) {
	v, err := r.ReadBits(1)
	return v == 1, err
}

// ReadBytes fills dst with the next len(dst) bytes.
func (r *Reader) ReadBytes(dst []byte) error {
	if err := r.checkByteAccess("read bytes"); err != nil {
		return err
	}
	return r.buf.ReadBytes(dst)
}

// ReadBytesReverse fills dst from its last index down to its first.
func (r *Reader) ReadBytesReverse(dst []byte) error {
	if err := r.checkByteAccess("read bytes reverse"); err != nil {
		return err
	}
	if err := r.require("read bytes reverse", len(dst)); err != nil {
		return err
	}
	for i := len(dst) - 1; i >= 0; i-- {
		dst[i], _ = r.buf.ReadByte()
	}
	return nil
}

// ReadBytesTransformed fills dst, undoing tr on every byte.
func (r *Reader) ReadBytesTransformed(tr Transformation, dst []byte) error {
	if tr == None {
		return r.ReadBytes(dst)
	}
	if err := r.checkTransformedBlock("read bytes transformed", tr, len(dst)); err != nil {
		return err
	}
	for i := range dst {
		b, _ := r.buf.ReadByte()
		dst[i] = tr.decode(b)
	}
	return nil
}

// ReadBytesReverseTransformed fills dst from its last index down, undoing tr
// on every byte.
func (r *Reader) ReadBytesReverseTransformed(tr Transformation, dst []byte) error {
	if tr == None {
		return r.ReadBytesReverse(dst)
	}
	if err := r.checkTransformedBlock("read bytes reverse transformed", tr, len(dst)); err != nil {
		return err
	}
	for i := len(dst) - 1; i >= 0; i-- {
		b, _ := r.buf.ReadByte()
		dst[i] = tr.decode(b)
	}
	return nil
}

func (r *Reader) checkTransformedBlock(op string, tr Transformation, n int) error {
	if err := r.checkByteAccess(op); err != nil {
		return err
	}
	if err := checkScalar(op, Byte, Big, tr); err != nil {
		return err
	}
	return r.require(op, n)
}

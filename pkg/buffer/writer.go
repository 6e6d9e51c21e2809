package buffer

import (
	"golang.org/x/text/encoding"

	"github.com/ardougne/runebuf/internal/core/octet"
)

// Writer encodes fields into a growable sequence of bytes. A Writer starts in
// byte access mode and is meant to be filled sequentially by one caller.
type Writer struct {
	buf      *octet.Buffer
	mode     AccessMode
	bitIndex int
	charset  encoding.Encoding
}

// NewWriter returns an empty Writer that grows on demand.
func NewWriter(opts ...Option) *Writer {
	return NewWriterSize(0, opts...)
}

// NewWriterSize returns an empty Writer with room for capacity bytes.
func NewWriterSize(capacity int, opts ...Option) *Writer {
	o := buildOptions(opts)
	return &Writer{buf: octet.New(capacity), charset: o.charset}
}

func (w *Writer) Mode() AccessMode { return w.mode }

func (w *Writer) checkByteAccess(op string) error {
	if w.mode != ByteAccess {
		return &ModeError{Op: op, Want: ByteAccess, Have: w.mode}
	}
	return nil
}

func (w *Writer) checkBitAccess(op string) error {
	if w.mode != BitAccess {
		return &ModeError{Op: op, Want: BitAccess, Have: w.mode}
	}
	return nil
}

// SwitchToBitAccess starts addressing bits at the current write position.
func (w *Writer) SwitchToBitAccess() error {
	if w.mode == BitAccess {
		return &ModeError{Op: "switch to bit access", Want: BitAccess, Have: BitAccess}
	}
	w.mode = BitAccess
	w.bitIndex = w.buf.WriterIndex() * 8
	return nil
}

// SwitchToByteAccess resumes byte addressing at the first whole byte after
// the last bit written. A partially filled final byte is kept.
func (w *Writer) SwitchToByteAccess() error {
	if w.mode == ByteAccess {
		return &ModeError{Op: "switch to byte access", Want: ByteAccess, Have: ByteAccess}
	}
	end := (w.bitIndex + 7) / 8
	if grow := end - w.buf.WriterIndex(); grow > 0 {
		w.buf.EnsureWritable(grow)
	}
	if err := w.buf.SetWriterIndex(end); err != nil {
		return err
	}
	w.mode = ByteAccess
	return nil
}

// Len is the number of bytes written so far.
func (w *Writer) Len() (int, error) {
	if err := w.checkByteAccess("len"); err != nil {
		return 0, err
	}
	return w.buf.WriterIndex(), nil
}

// BitPosition is the index of the next bit to be written while in bit access.
func (w *Writer) BitPosition() int { return w.bitIndex }

// end is the index just past the last byte written. In bit access this covers
// a partially written final byte.
func (w *Writer) end() int {
	if w.mode == BitAccess {
		if n := (w.bitIndex + 7) / 8; n > w.buf.WriterIndex() {
			return n
		}
	}
	return w.buf.WriterIndex()
}

// Bytes returns the bytes written so far, including those written as bits
// while still in bit access. The slice aliases the Writer's storage and is only
// valid until the next write.
func (w *Writer) Bytes() []byte { return w.buf.Array()[w.buf.ReaderIndex():w.end()] }

// ToReader returns a Reader over a copy of exactly the bytes written so far,
// with the same coverage as Bytes.
func (w *Writer) ToReader() *Reader {
	src := w.Bytes()
	b := make([]byte, len(src))
	copy(b, src)
	return NewReader(b, WithCharset(w.charset))
}

// ToRawReader returns a Reader over the Writer's whole backing array,
// including capacity that has not been written. The storage is shared.
func (w *Writer) ToRawReader() *Reader {
	return NewReader(w.buf.Array(), WithCharset(w.charset))
}

// Put writes the low t.Bytes() bytes of value with the given order and
// transformation.
func (w *Writer) Put(t DataType, order DataOrder, tr Transformation, value int64) error {
	if err := w.checkByteAccess("put"); err != nil {
		return err
	}
	if err := checkScalar("put", t, order, tr); err != nil {
		return err
	}
	w.buf.EnsureWritable(t.Bytes())
	return writeScalar(w.buf, t, order, tr, value)
}

func (w *Writer) PutUint8(v uint8) error { return w.Put(Byte, Big, None, int64(v)) }

func (w *Writer) PutUint16(v uint16) error { return w.Put(Short, Big, None, int64(v)) }

func (w *Writer) PutInt32(v int32) error { return w.Put(Int, Big, None, int64(v)) }

// PutBits writes the low n bits of value, 1 <= n <= 32.
func (w *Writer) PutBits(n int, value uint32) error {
	if err := checkBitWidth("put bits", n); err != nil {
		return err
	}
	if err := w.checkBitAccess("put bits"); err != nil {
		return err
	}

	bytePos := w.bitIndex >> 3
	if required := bytePos - w.buf.WriterIndex() + 1 + (n+7)/8; required > 0 {
		w.buf.EnsureWritable(required)
	}
	if err := writeBits(w.buf, w.bitIndex, n, value); err != nil {
		return err
	}
	w.bitIndex += n
	return nil
}

// PutBit writes a single bit flag.
func (w *Writer) PutBit(flag bool) error {
	if flag {
		return w.PutBits(1, 1)
	}
	return w.PutBits(1, 0)
}

func (w *Writer) PutBytes(b []byte) error {
	if err := w.checkByteAccess("put bytes"); err != nil {
		return err
	}
	w.buf.WriteBytes(b)
	return nil
}

// PutBytesReverse writes b from its last index down to its first.
func (w *Writer) PutBytesReverse(b []byte) error {
	if err := w.checkByteAccess("put bytes reverse"); err != nil {
		return err
	}
	w.buf.EnsureWritable(len(b))
	for i := len(b) - 1; i >= 0; i-- {
		_ = w.buf.WriteByte(b[i])
	}
	return nil
}

// PutBytesTransformed writes b, applying tr to every byte.
func (w *Writer) PutBytesTransformed(tr Transformation, b []byte) error {
	if tr == None {
		return w.PutBytes(b)
	}
	if err := w.checkTransformedBlock("put bytes transformed", tr, len(b)); err != nil {
		return err
	}
	for _, v := range b {
		_ = w.buf.WriteByte(tr.encode(v))
	}
	return nil
}

// PutBytesReverseTransformed writes b from its last index down, applying tr
// to every byte.
func (w *Writer) PutBytesReverseTransformed(tr Transformation, b []byte) error {
	if tr == None {
		return w.PutBytesReverse(b)
	}
	if err := w.checkTransformedBlock("put bytes reverse transformed", tr, len(b)); err != nil {
		return err
	}
	for i := len(b) - 1; i >= 0; i-- {
		_ = w.buf.WriteByte(tr.encode(b[i]))
	}
	return nil
}

func (w *Writer) checkTransformedBlock(op string, tr Transformation, n int) error {
	if err := w.checkByteAccess(op); err != nil {
		return err
	}
	if err := checkScalar(op, Byte, Big, tr); err != nil {
		return err
	}
	w.buf.EnsureWritable(n)
	return nil
}

// PutBytesFrom copies the unread bytes of r without advancing it.
func (w *Writer) PutBytesFrom(r *Reader) error {
	if err := r.checkByteAccess("put bytes from"); err != nil {
		return err
	}
	return w.PutBytes(r.buf.Bytes())
}

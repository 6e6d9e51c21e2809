package buffer

import "fmt"

// Variable-length integers. The high bit(s) of the first byte choose the
// width, so every decoder peeks one byte before consuming anything.

const (
	maxSmart       = 0x7FFF
	minSignedSmart = -0x4000
	maxSignedSmart = 0x3FFF
	maxBigSmart    = 0x7FFFFFFF
)

func (r *Reader) peek(op string) (byte, error) {
	if err := r.checkByteAccess(op); err != nil {
		return 0, err
	}
	if err := r.require(op, 1); err != nil {
		return 0, err
	}
	return r.buf.GetByte(r.buf.ReaderIndex())
}

// ReadSmart reads an unsigned smart: one byte for 0..127, otherwise a
// big-endian short offset by 0x8000 for 128..32767.
func (r *Reader) ReadSmart() (int, error) {
	peek, err := r.peek("read smart")
	if err != nil {
		return 0, err
	}
	if peek < 0x80 {
		v, err := r.ReadUnsigned(Byte, Big, None)
		return int(v), err
	}
	v, err := r.ReadUnsigned(Short, Big, None)
	if err != nil {
		return 0, err
	}
	return int(v) - 0x8000, nil
}

// ReadSignedSmart reads a signed smart: one byte holding v+64 for -64..63,
// otherwise a big-endian short holding v+0xC000.
func (r *Reader) ReadSignedSmart() (int, error) {
	peek, err := r.peek("read signed smart")
	if err != nil {
		return 0, err
	}
	if peek < 0x80 {
		v, err := r.ReadUnsigned(Byte, Big, None)
		if err != nil {
			return 0, err
		}
		return int(v) - 64, nil
	}
	v, err := r.ReadUnsigned(Short, Big, None)
	if err != nil {
		return 0, err
	}
	return int(v) - 0xC000, nil
}

// ReadBigSmart reads a short when the sign bit of the first byte is clear and
// an int with the sign bit masked off when it is set.
func (r *Reader) ReadBigSmart() (int, error) {
	peek, err := r.peek("read big smart")
	if err != nil {
		return 0, err
	}
	if peek&0x80 == 0 {
		v, err := r.ReadUnsigned(Short, Big, None)
		return int(v), err
	}
	v, err := r.ReadUnsigned(Int, Big, None)
	return int(v & maxBigSmart), err
}

// ReadExtendedSmart sums a chain of unsigned smarts, continuing for as long as
// each one holds the 32767 sentinel. The end of the data right after a
// sentinel also ends the chain. A smart cut short by the end of the data
// leaves the position where it was.
func (r *Reader) ReadExtendedSmart() (int, error) {
	start := r.buf.ReaderIndex()
	total := 0
	for {
		v, err := r.ReadSmart()
		if err != nil {
			_ = r.buf.SetReaderIndex(start)
			return 0, err
		}
		if v != maxSmart {
			return total + v, nil
		}
		total += maxSmart
		if r.buf.ReadableBytes() == 0 {
			return total, nil
		}
	}
}

func (w *Writer) PutSmart(v int) error {
	if err := w.checkByteAccess("put smart"); err != nil {
		return err
	}
	switch {
	case v < 0 || v > maxSmart:
		return &ConfigError{Op: "put smart", Reason: fmt.Sprintf("%d is outside of 0..%d", v, maxSmart)}
	case v >= 0x80:
		return w.Put(Short, Big, None, int64(v+0x8000))
	}
	return w.Put(Byte, Big, None, int64(v))
}

func (w *Writer) PutSignedSmart(v int) error {
	if err := w.checkByteAccess("put signed smart"); err != nil {
		return err
	}
	switch {
	case v < minSignedSmart || v > maxSignedSmart:
		return &ConfigError{Op: "put signed smart", Reason: fmt.Sprintf("%d is outside of %d..%d", v, minSignedSmart, maxSignedSmart)}
	case v < -64 || v > 63:
		return w.Put(Short, Big, None, int64(v+0xC000))
	}
	return w.Put(Byte, Big, None, int64(v+64))
}

func (w *Writer) PutBigSmart(v int) error {
	if err := w.checkByteAccess("put big smart"); err != nil {
		return err
	}
	switch {
	case v < 0 || v > maxBigSmart:
		return &ConfigError{Op: "put big smart", Reason: fmt.Sprintf("%d is outside of 0..%d", v, maxBigSmart)}
	case v > maxSmart:
		return w.Put(Int, Big, None, int64(v)|0x80000000)
	}
	return w.Put(Short, Big, None, int64(v))
}

// PutExtendedSmart writes v as a chain of unsigned smarts. A value that is an
// exact multiple of 32767 is followed by a terminating zero smart.
func (w *Writer) PutExtendedSmart(v int) error {
	if err := w.checkByteAccess("put extended smart"); err != nil {
		return err
	}
	if v < 0 {
		return &ConfigError{Op: "put extended smart", Reason: fmt.Sprintf("%d is negative", v)}
	}
	for ; v >= maxSmart; v -= maxSmart {
		if err := w.PutSmart(maxSmart); err != nil {
			return err
		}
	}
	return w.PutSmart(v)
}

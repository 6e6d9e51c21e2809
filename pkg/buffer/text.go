package buffer

import "bytes"

// ReadString reads bytes up to a NUL terminator or the end of the data,
// whichever comes first. The terminator is consumed but not returned; an
// exhausted Reader yields "".
func (r *Reader) ReadString() (string, error) {
	if err := r.checkByteAccess("read string"); err != nil {
		return "", err
	}
	remaining := r.buf.Bytes()
	end := bytes.IndexByte(remaining, 0)
	consumed := end + 1
	if end < 0 {
		end, consumed = len(remaining), len(remaining)
	}
	raw := make([]byte, end)
	copy(raw, remaining)
	if err := r.buf.SetReaderIndex(r.buf.ReaderIndex() + consumed); err != nil {
		return "", err
	}
	return decodeText(r.charset, raw)
}

// ReadJagString reads a flag byte and, when it is non-zero, a string. The
// flag byte is consumed either way.
func (r *Reader) ReadJagString() (string, error) {
	if err := r.checkByteAccess("read jag string"); err != nil {
		return "", err
	}
	if r.buf.ReadableBytes() == 0 {
		return "", nil
	}
	flag, err := r.buf.ReadByte()
	if err != nil || flag == 0 {
		return "", err
	}
	return r.ReadString()
}

// PutString writes s followed by a NUL terminator.
func (w *Writer) PutString(s string) error {
	if err := w.checkByteAccess("put string"); err != nil {
		return err
	}
	raw, err := encodeText("put string", w.charset, s)
	if err != nil {
		return err
	}
	w.buf.WriteBytes(raw)
	return w.buf.WriteByte(0)
}

// PutJagString writes a zero flag for the empty string and a one flag
// followed by the terminated string otherwise.
func (w *Writer) PutJagString(s string) error {
	if err := w.checkByteAccess("put jag string"); err != nil {
		return err
	}
	if s == "" {
		return w.buf.WriteByte(0)
	}
	raw, err := encodeText("put jag string", w.charset, s)
	if err != nil {
		return err
	}
	_ = w.buf.WriteByte(1)
	w.buf.WriteBytes(raw)
	return w.buf.WriteByte(0)
}

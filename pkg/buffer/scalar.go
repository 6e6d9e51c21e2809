package buffer

import "io"

// readScalar assembles a field of t.Bytes() bytes in the given order. The
// combination must already have passed checkScalar.
func readScalar(src io.ByteReader, t DataType, order DataOrder, tr Transformation) (uint64, error) {
	width := t.Bytes()

	var value uint64
	switch order {
	case Big:
		for i := width - 1; i >= 0; i-- {
			b, err := src.ReadByte()
			if err != nil {
				return 0, err
			}
			if i == 0 {
				b = tr.decode(b)
			}
			value |= uint64(b) << uint(i*8)
		}
	case Little:
		for i := 0; i < width; i++ {
			b, err := src.ReadByte()
			if err != nil {
				return 0, err
			}
			if i == 0 {
				b = tr.decode(b)
			}
			value |= uint64(b) << uint(i*8)
		}
	case Middle, InverseMiddle:
		var b [4]byte
		for i := range b {
			v, err := src.ReadByte()
			if err != nil {
				return 0, err
			}
			b[i] = v
		}
		if order == Middle {
			value = uint64(b[0])<<8 | uint64(b[1]) | uint64(b[2])<<24 | uint64(b[3])<<16
		} else {
			value = uint64(b[0])<<16 | uint64(b[1])<<24 | uint64(b[2]) | uint64(b[3])<<8
		}
	}
	return value, nil
}

// writeScalar emits the low t.Bytes() bytes of value in the given order. The
// combination must already have passed checkScalar.
func writeScalar(dst io.ByteWriter, t DataType, order DataOrder, tr Transformation, value int64) error {
	width := t.Bytes()
	v := uint64(value)

	switch order {
	case Big:
		for i := width - 1; i >= 0; i-- {
			b := byte(v >> uint(i*8))
			if i == 0 {
				b = tr.encode(b)
			}
			if err := dst.WriteByte(b); err != nil {
				return err
			}
		}
	case Little:
		for i := 0; i < width; i++ {
			b := byte(v >> uint(i*8))
			if i == 0 {
				b = tr.encode(b)
			}
			if err := dst.WriteByte(b); err != nil {
				return err
			}
		}
	case Middle:
		for _, b := range [4]byte{byte(v >> 8), byte(v), byte(v >> 24), byte(v >> 16)} {
			if err := dst.WriteByte(b); err != nil {
				return err
			}
		}
	case InverseMiddle:
		for _, b := range [4]byte{byte(v >> 16), byte(v >> 24), byte(v), byte(v >> 8)} {
			if err := dst.WriteByte(b); err != nil {
				return err
			}
		}
	}
	return nil
}

// signExtend narrows an assembled value into the signed range of t. Longs
// already fill all 64 bits.
func signExtend(t DataType, value uint64) int64 {
	if t == Long {
		return int64(value)
	}
	shift := uint(64 - t.Bytes()*8)
	return int64(value<<shift) >> shift
}

func unsignedMask(t DataType, value uint64) uint64 {
	return value & (uint64(1)<<uint(t.Bytes()*8) - 1)
}

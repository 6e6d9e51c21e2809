package buffer

import "fmt"

// bitMask[n] holds the low n bits set.
var bitMask = func() (m [33]uint32) {
	for i := range m {
		m[i] = uint32(uint64(1)<<uint(i) - 1)
	}
	return m
}()

type byteGetter interface {
	GetByte(i int) (byte, error)
}

type byteStore interface {
	byteGetter
	SetByte(i int, v byte) error
}

func checkBitWidth(op string, n int) error {
	if n < 1 || n > 32 {
		return &ConfigError{Op: op, Reason: fmt.Sprintf("number of bits must be between 1 and 32 inclusive, got %d", n)}
	}
	return nil
}

// readBits extracts n bits starting at bitIndex, most significant bit first.
func readBits(src byteGetter, bitIndex, n int) (uint32, error) {
	bytePos := bitIndex >> 3
	bitOffset := 8 - (bitIndex & 7)

	var value uint32
	for n > bitOffset {
		b, err := src.GetByte(bytePos)
		if err != nil {
			return 0, err
		}
		value |= (uint32(b) & bitMask[bitOffset]) << uint(n-bitOffset)
		bytePos++
		n -= bitOffset
		bitOffset = 8
	}

	b, err := src.GetByte(bytePos)
	if err != nil {
		return 0, err
	}
	if n == bitOffset {
		value |= uint32(b) & bitMask[bitOffset]
	} else {
		value |= uint32(b) >> uint(bitOffset-n) & bitMask[n]
	}
	return value, nil
}

// writeBits stores the low n bits of value starting at bitIndex, most
// significant bit first, leaving the surrounding bits of each byte untouched.
// The store must already cover every byte the field touches.
func writeBits(dst byteStore, bitIndex, n int, value uint32) error {
	bytePos := bitIndex >> 3
	bitOffset := 8 - (bitIndex & 7)

	for n > bitOffset {
		b, err := dst.GetByte(bytePos)
		if err != nil {
			return err
		}
		b &^= byte(bitMask[bitOffset])
		b |= byte(value >> uint(n-bitOffset) & bitMask[bitOffset])
		if err := dst.SetByte(bytePos, b); err != nil {
			return err
		}
		bytePos++
		n -= bitOffset
		bitOffset = 8
	}

	b, err := dst.GetByte(bytePos)
	if err != nil {
		return err
	}
	if n == bitOffset {
		b &^= byte(bitMask[bitOffset])
		b |= byte(value & bitMask[bitOffset])
	} else {
		shift := uint(bitOffset - n)
		b &^= byte(bitMask[n] << shift)
		b |= byte((value & bitMask[n]) << shift)
	}
	return dst.SetByte(bytePos, b)
}

// CheckBitWidth returns a *ConfigError unless 1 <= n <= 32.
func CheckBitWidth(n int) error {
	return checkBitWidth("check bit width", n)
}

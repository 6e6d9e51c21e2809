package bytes

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

const dumpLineLength = 16

// HexDump renders data in two columns, one for the bytes and the other for
// their ascii representation, 16 bytes to a line with the offset on the left.
func HexDump(data []byte) string {
	var dump strings.Builder
	for offset := 0; offset < len(data); offset += dumpLineLength {
		end := offset + dumpLineLength
		if end > len(data) {
			end = len(data)
		}
		dump.WriteString(dumpLine(data[offset:end], offset))
	}
	return dump.String()
}

// Build one line of formatted data.
func dumpLine(data []byte, offset int) string {
	var line strings.Builder

	line.WriteString(fmt.Sprintf("(%04X) ", offset))

	for i, b := range data {
		if i == 8 {
			// Visual aid - spacing between groups of 8 bytes.
			line.WriteString("  ")
		}
		line.WriteString(fmt.Sprintf("%02x ", b))
	}

	// Fill in rest of the line gap if we don't have enough bytes.
	for i := len(data); i < dumpLineLength; i++ {
		if i == 8 {
			line.WriteString("  ")
		}
		line.WriteString("   ")
	}
	line.WriteString("    ")

	// Display the print characters as-is, others as periods.
	for _, c := range data {
		if c < 0x80 && strconv.IsPrint(rune(c)) {
			line.WriteByte(c)
		} else {
			line.WriteByte('.')
		}
	}

	line.WriteString("\n")
	return line.String()
}

// FormatHex renders data as space separated lowercase hex pairs.
func FormatHex(data []byte) string {
	parts := make([]string, len(data))
	for i, b := range data {
		parts[i] = fmt.Sprintf("%02x", b)
	}
	return strings.Join(parts, " ")
}

// ParseHex accepts hex written the way it usually shows up in protocol notes:
// "0a0b", "0a 0b", "0x0a, 0x0b" or "0A:0B" all decode to the same two bytes.
func ParseHex(s string) ([]byte, error) {
	cleaned := strings.NewReplacer("0x", "", "0X", "", " ", "", ",", "", ":", "", "\n", "", "\t", "").Replace(s)
	b, err := hex.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("parsing hex %q: %w", s, err)
	}
	return b, nil
}

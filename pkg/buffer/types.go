package buffer

import (
	"fmt"
	"strings"
)

// DataType is a fixed-width scalar field.
type DataType int

const (
	Byte DataType = iota
	Short
	Tri
	Int
	Long
)

var dataTypeBytes = [...]int{Byte: 1, Short: 2, Tri: 3, Int: 4, Long: 8}

var dataTypeNames = [...]string{Byte: "byte", Short: "short", Tri: "tri", Int: "int", Long: "long"}

func (t DataType) valid() bool { return t >= Byte && t <= Long }

// Bytes is the width of the type on the wire, or 0 for an unknown type.
func (t DataType) Bytes() int {
	if !t.valid() {
		return 0
	}
	return dataTypeBytes[t]
}

func (t DataType) String() string {
	if !t.valid() {
		return fmt.Sprintf("DataType(%d)", int(t))
	}
	return dataTypeNames[t]
}

// ParseDataType accepts the names returned by DataType.String as well as a few
// aliases used in protocol notes ("medium", "tribyte", "long").
func ParseDataType(name string) (DataType, error) {
	switch normalize(name) {
	case "byte":
		return Byte, nil
	case "short":
		return Short, nil
	case "tri", "tribyte", "medium":
		return Tri, nil
	case "int":
		return Int, nil
	case "long":
		return Long, nil
	}
	return 0, &ConfigError{Op: "parse type", Reason: fmt.Sprintf("unknown data type %q", name)}
}

// DataOrder is the byte arrangement of a scalar field.
type DataOrder int

const (
	Big DataOrder = iota
	Little
	// Middle is only valid for Int: bits 8-15, 0-7, 24-31, 16-23 in wire order.
	Middle
	// InverseMiddle is only valid for Int: bits 16-23, 24-31, 0-7, 8-15 in wire order.
	InverseMiddle
)

var dataOrderNames = [...]string{Big: "big", Little: "little", Middle: "middle", InverseMiddle: "inverse_middle"}

func (o DataOrder) valid() bool { return o >= Big && o <= InverseMiddle }

func (o DataOrder) String() string {
	if !o.valid() {
		return fmt.Sprintf("DataOrder(%d)", int(o))
	}
	return dataOrderNames[o]
}

func ParseDataOrder(name string) (DataOrder, error) {
	switch normalize(name) {
	case "", "big":
		return Big, nil
	case "little":
		return Little, nil
	case "middle":
		return Middle, nil
	case "inverse_middle", "inversemiddle", "inversed_middle":
		return InverseMiddle, nil
	}
	return 0, &ConfigError{Op: "parse order", Reason: fmt.Sprintf("unknown data order %q", name)}
}

// Transformation is the single byte obfuscation applied to the least
// significant byte of a scalar field.
type Transformation int

const (
	None Transformation = iota
	Add
	Subtract
	Negate
)

var transformationNames = [...]string{None: "none", Add: "add", Subtract: "subtract", Negate: "negate"}

func (t Transformation) valid() bool { return t >= None && t <= Negate }

func (t Transformation) String() string {
	if !t.valid() {
		return fmt.Sprintf("Transformation(%d)", int(t))
	}
	return transformationNames[t]
}

func ParseTransformation(name string) (Transformation, error) {
	switch normalize(name) {
	case "", "none":
		return None, nil
	case "add", "a":
		return Add, nil
	case "subtract", "sub", "s":
		return Subtract, nil
	case "negate", "neg", "c":
		return Negate, nil
	}
	return 0, &ConfigError{Op: "parse transformation", Reason: fmt.Sprintf("unknown transformation %q", name)}
}

// Every transformation is its own inverse modulo 256, so encode and decode
// share these two functions only for readability at the call sites.

func (t Transformation) encode(b byte) byte {
	switch t {
	case Add:
		return b + 128
	case Subtract:
		return 128 - b
	case Negate:
		return -b
	}
	return b
}

func (t Transformation) decode(b byte) byte {
	switch t {
	case Add:
		return b - 128
	case Subtract:
		return 128 - b
	case Negate:
		return -b
	}
	return b
}

// AccessMode selects whether a Reader or Writer addresses whole bytes or bits.
type AccessMode int

const (
	ByteAccess AccessMode = iota
	BitAccess
)

func (m AccessMode) String() string {
	switch m {
	case ByteAccess:
		return "byte access"
	case BitAccess:
		return "bit access"
	}
	return fmt.Sprintf("AccessMode(%d)", int(m))
}

func normalize(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
}

// checkScalar validates a type/order/transformation combination before any
// byte is touched.
func checkScalar(op string, t DataType, order DataOrder, tr Transformation) error {
	switch {
	case !t.valid():
		return &ConfigError{Op: op, Reason: fmt.Sprintf("unknown data type %d", int(t))}
	case !order.valid():
		return &ConfigError{Op: op, Reason: fmt.Sprintf("unknown data order %d", int(order))}
	case !tr.valid():
		return &ConfigError{Op: op, Reason: fmt.Sprintf("unknown transformation %d", int(tr))}
	}
	if order == Middle || order == InverseMiddle {
		if tr != None {
			return &ConfigError{Op: op, Reason: order.String() + " endian cannot be transformed"}
		}
		if t != Int {
			return &ConfigError{Op: op, Reason: order.String() + " endian can only be used with an int"}
		}
	}
	return nil
}

// CheckField returns a *ConfigError if the scalar descriptor is illegal.
func CheckField(t DataType, order DataOrder, tr Transformation) error {
	return checkScalar("check field", t, order, tr)
}

// Package layout describes packet bodies as ordered lists of named fields and
// interprets them against a buffer.Reader or buffer.Writer.
package layout

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/ardougne/runebuf/pkg/buffer"
)

// Kind is the codec a field is read and written with.
type Kind string

const (
	KindScalar        Kind = "scalar"
	KindBits          Kind = "bits"
	KindBit           Kind = "bit"
	KindSmart         Kind = "smart"
	KindSignedSmart   Kind = "signed_smart"
	KindBigSmart      Kind = "big_smart"
	KindExtendedSmart Kind = "extended_smart"
	KindString        Kind = "string"
	KindJagString     Kind = "jag_string"
	KindBytes         Kind = "bytes"
	KindBitAccess     Kind = "bit_access"
	KindByteAccess    Kind = "byte_access"
)

// Field is one entry of a layout as written in a layout file.
type Field struct {
	Name string `mapstructure:"name"`
	Kind Kind   `mapstructure:"kind"`

	// Scalar fields.
	Type      string `mapstructure:"type"`
	Order     string `mapstructure:"order"`
	Transform string `mapstructure:"transform"`
	Signed    bool   `mapstructure:"signed"`

	// Width of a bits field.
	Width int `mapstructure:"width"`

	// Byte blocks. Transform above also applies to each byte of the block.
	Length  int  `mapstructure:"length"`
	Reverse bool `mapstructure:"reverse"`

	dataType  buffer.DataType
	order     buffer.DataOrder
	transform buffer.Transformation
}

// Layout is a named sequence of fields.
type Layout struct {
	Name        string  `mapstructure:"name"`
	Description string  `mapstructure:"description"`
	Fields      []Field `mapstructure:"fields"`
}

// Parse reads a layout from YAML.
func Parse(data []byte) (*Layout, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("reading layout: %w", err)
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Layout, error) {
	l := &Layout{}
	if err := v.Unmarshal(l); err != nil {
		return nil, fmt.Errorf("unmarshaling layout: %w", err)
	}
	if err := l.Compile(); err != nil {
		return nil, err
	}
	return l, nil
}

// Compile resolves the type names of every field and checks that the layout
// can be decoded: scalar descriptors must be legal, bit widths in range, and
// every field used in the access mode it needs.
func (l *Layout) Compile() error {
	if l.Name == "" {
		return &buffer.ConfigError{Op: "compile layout", Reason: "layout has no name"}
	}

	mode := buffer.ByteAccess
	seen := make(map[string]bool)
	for i := range l.Fields {
		f := &l.Fields[i]
		f.Kind = Kind(strings.ToLower(string(f.Kind)))

		if err := f.compile(mode); err != nil {
			return fmt.Errorf("layout %s: field %d (%s): %w", l.Name, i, f.Name, err)
		}
		switch f.Kind {
		case KindBitAccess:
			mode = buffer.BitAccess
			continue
		case KindByteAccess:
			mode = buffer.ByteAccess
			continue
		}
		if seen[f.Name] {
			return fmt.Errorf("layout %s: field %d: %w", l.Name, i,
				&buffer.ConfigError{Op: "compile layout", Reason: fmt.Sprintf("duplicate field name %q", f.Name)})
		}
		seen[f.Name] = true
	}
	return nil
}

func (f *Field) compile(mode buffer.AccessMode) error {
	need := buffer.ByteAccess
	switch f.Kind {
	case KindBitAccess:
		if mode == buffer.BitAccess {
			return &buffer.ModeError{Op: "compile layout", Want: buffer.BitAccess, Have: mode}
		}
		return nil
	case KindByteAccess:
		if mode == buffer.ByteAccess {
			return &buffer.ModeError{Op: "compile layout", Want: buffer.ByteAccess, Have: mode}
		}
		return nil
	case KindBits:
		if err := buffer.CheckBitWidth(f.Width); err != nil {
			return err
		}
		need = buffer.BitAccess
	case KindBit:
		f.Width = 1
		need = buffer.BitAccess
	case KindScalar:
		if err := f.compileScalar(); err != nil {
			return err
		}
	case KindBytes:
		if f.Length < 0 {
			return &buffer.ConfigError{Op: "compile layout", Reason: fmt.Sprintf("negative block length %d", f.Length)}
		}
		t, err := buffer.ParseTransformation(f.Transform)
		if err != nil {
			return err
		}
		f.transform = t
	case KindSmart, KindSignedSmart, KindBigSmart, KindExtendedSmart, KindString, KindJagString:
	default:
		return &buffer.ConfigError{Op: "compile layout", Reason: fmt.Sprintf("unknown field kind %q", f.Kind)}
	}

	if f.Name == "" {
		return &buffer.ConfigError{Op: "compile layout", Reason: "field has no name"}
	}
	// YAML 1.1 reads bare y, n, on and off as booleans, which arrive here as "1"
	// or "0".
	if _, err := strconv.ParseFloat(f.Name, 64); err == nil {
		return &buffer.ConfigError{Op: "compile layout", Reason: fmt.Sprintf("field name %q is a number; quote the name in the layout file", f.Name)}
	}
	if mode != need {
		return &buffer.ModeError{Op: "compile layout", Want: need, Have: mode}
	}
	return nil
}

func (f *Field) compileScalar() error {
	var err error
	if f.dataType, err = buffer.ParseDataType(f.Type); err != nil {
		return err
	}
	if f.order, err = buffer.ParseDataOrder(f.Order); err != nil {
		return err
	}
	if f.transform, err = buffer.ParseTransformation(f.Transform); err != nil {
		return err
	}
	if err := buffer.CheckField(f.dataType, f.order, f.transform); err != nil {
		return err
	}
	if f.dataType == buffer.Long && !f.Signed {
		return &buffer.ConfigError{Op: "compile layout", Reason: "longs must be declared signed"}
	}
	return nil
}

// Describe renders the field's wire shape, e.g. "int little add unsigned".
func (f *Field) Describe() string {
	switch f.Kind {
	case KindScalar:
		s := fmt.Sprintf("%s %s", f.dataType, f.order)
		if f.transform != buffer.None {
			s += " " + f.transform.String()
		}
		if !f.Signed {
			s += " unsigned"
		}
		return s
	case KindBits:
		return fmt.Sprintf("bits(%d)", f.Width)
	case KindBytes:
		s := fmt.Sprintf("bytes(%d)", f.Length)
		if f.Reverse {
			s += " reverse"
		}
		if f.transform != buffer.None {
			s += " " + f.transform.String()
		}
		return s
	}
	return string(f.Kind)
}

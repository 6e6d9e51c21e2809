package layout

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardougne/runebuf/pkg/buffer"
)

const itemLayout = `
name: item
description: test layout touching every codec
fields:
  - name: id
    kind: scalar
    type: short
    order: little
    transform: add
  - name: amount
    kind: scalar
    type: int
    order: middle
    signed: true
  - name: slot
    kind: smart
  - kind: bit_access
  - name: flag
    kind: bit
  - name: dir
    kind: bits
    width: 3
  - kind: byte_access
  - name: name
    kind: string
  - name: raw
    kind: bytes
    length: 2
    reverse: true
    transform: add
`

func TestParse(t *testing.T) {
	l, err := Parse([]byte(itemLayout))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if l.Name != "item" || l.Description != "test layout touching every codec" {
		t.Errorf("Parse() got name %q, description %q", l.Name, l.Description)
	}

	shapes := []string{
		"short little add unsigned",
		"int middle",
		"smart",
		"bit_access",
		"bit",
		"bits(3)",
		"byte_access",
		"string",
		"bytes(2) reverse add",
	}
	if len(l.Fields) != len(shapes) {
		t.Fatalf("Parse() want %d fields, got %d", len(shapes), len(l.Fields))
	}
	for i, want := range shapes {
		if got := l.Fields[i].Describe(); got != want {
			t.Errorf("field %d: Describe() want = %q, got = %q", i, want, got)
		}
	}
	if l.Fields[4].Width != 1 {
		t.Errorf("bit field should have a width of 1, got %d", l.Fields[4].Width)
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		fields  []Field
		wantErr error
	}{
		{
			name:    "middle endian short",
			fields:  []Field{{Name: "a", Kind: KindScalar, Type: "short", Order: "middle"}},
			wantErr: buffer.ErrConfig,
		},
		{
			name:    "transformed inverse middle",
			fields:  []Field{{Name: "a", Kind: KindScalar, Type: "int", Order: "inverse_middle", Transform: "add"}},
			wantErr: buffer.ErrConfig,
		},
		{
			name:    "unsigned long",
			fields:  []Field{{Name: "a", Kind: KindScalar, Type: "long"}},
			wantErr: buffer.ErrConfig,
		},
		{
			name:    "unknown order",
			fields:  []Field{{Name: "a", Kind: KindScalar, Type: "int", Order: "sideways"}},
			wantErr: buffer.ErrConfig,
		},
		{
			name:    "bits wider than 32",
			fields:  []Field{{Kind: KindBitAccess}, {Name: "a", Kind: KindBits, Width: 33}},
			wantErr: buffer.ErrConfig,
		},
		{
			name:    "zero width bits",
			fields:  []Field{{Kind: KindBitAccess}, {Name: "a", Kind: KindBits}},
			wantErr: buffer.ErrConfig,
		},
		{
			name:    "bits in byte access",
			fields:  []Field{{Name: "a", Kind: KindBits, Width: 4}},
			wantErr: buffer.ErrMode,
		},
		{
			name:    "scalar in bit access",
			fields:  []Field{{Kind: KindBitAccess}, {Name: "a", Kind: KindScalar, Type: "byte"}},
			wantErr: buffer.ErrMode,
		},
		{
			name:    "switching to the current mode",
			fields:  []Field{{Kind: KindByteAccess}},
			wantErr: buffer.ErrMode,
		},
		{
			name:    "duplicate names",
			fields:  []Field{{Name: "a", Kind: KindSmart}, {Name: "a", Kind: KindString}},
			wantErr: buffer.ErrConfig,
		},
		{
			name:    "missing name",
			fields:  []Field{{Kind: KindSmart}},
			wantErr: buffer.ErrConfig,
		},
		{
			name:    "number as name",
			fields:  []Field{{Name: "1", Kind: KindSmart}},
			wantErr: buffer.ErrConfig,
		},
		{
			name:    "unknown kind",
			fields:  []Field{{Name: "a", Kind: "varint"}},
			wantErr: buffer.ErrConfig,
		},
		{
			name:    "negative block",
			fields:  []Field{{Name: "a", Kind: KindBytes, Length: -1}},
			wantErr: buffer.ErrConfig,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &Layout{Name: "broken", Fields: tt.fields}
			err := l.Compile()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Compile() want error matching %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCompile_KindIsCaseInsensitive(t *testing.T) {
	l := &Layout{Name: "upper", Fields: []Field{{Name: "a", Kind: "SIGNED_SMART"}}}
	if err := l.Compile(); err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if l.Fields[0].Kind != KindSignedSmart {
		t.Errorf("Compile() want kind %s, got %s", KindSignedSmart, l.Fields[0].Kind)
	}
}

func TestParse_Errors(t *testing.T) {
	if _, err := Parse([]byte("fields: [")); err == nil {
		t.Error("Parse() expected an error for malformed YAML")
	}
	if _, err := Parse([]byte("fields:\n  - name: a\n    kind: smart\n")); err == nil {
		t.Error("Parse() expected an error for a layout without a name")
	}
}

func TestParse_FieldNamesReadAsBooleans(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		wantErr bool
	}{
		{name: "bare y", field: "y", wantErr: true},
		{name: "bare off", field: "off", wantErr: true},
		{name: "quoted y", field: `"y"`},
		{name: "bare x", field: "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Parse([]byte("name: coords\nfields:\n  - name: " + tt.field + "\n    kind: smart\n"))
			if tt.wantErr {
				if !errors.Is(err, buffer.ErrConfig) {
					t.Errorf("Parse() want error matching %v, got %v", buffer.ErrConfig, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if want := strings.Trim(tt.field, `"`); l.Fields[0].Name != want {
				t.Errorf("Parse() want field name %q, got %q", want, l.Fields[0].Name)
			}
		})
	}
}

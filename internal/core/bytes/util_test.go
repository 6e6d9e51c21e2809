package bytes

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseHex(t *testing.T) {
	type args struct {
		s string
	}
	tests := []struct {
		name    string
		args    args
		want    []byte
		wantErr bool
	}{
		{
			name: "empty string",
			args: args{s: ""},
			want: []byte{},
		},
		{
			name: "packed",
			args: args{s: "0a0bFF"},
			want: []byte{0x0a, 0x0b, 0xff},
		},
		{
			name: "separated with prefixes",
			args: args{s: "0x0a, 0x0b, 0xFF"},
			want: []byte{0x0a, 0x0b, 0xff},
		},
		{
			name: "colons",
			args: args{s: "80:01:11:70"},
			want: []byte{0x80, 0x01, 0x11, 0x70},
		},
		{
			name:    "odd length",
			args:    args{s: "abc"},
			wantErr: true,
		},
		{
			name:    "not hex",
			args:    args{s: "zz"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHex(tt.args.s)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHex() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseHex() returned the wrong bytes; diff:\n%s", diff)
			}
		})
	}
}

func TestFormatHex(t *testing.T) {
	if got := FormatHex([]byte{0x61, 0x00, 0xff}); got != "61 00 ff" {
		t.Errorf("FormatHex() want = %q, got = %q", "61 00 ff", got)
	}
	if got := FormatHex(nil); got != "" {
		t.Errorf("FormatHex(nil) want empty, got %q", got)
	}
}

func TestHexDump(t *testing.T) {
	data := append([]byte("Lumbidge castle\x00"), 0x01, 0xff)

	want := "(0000) 4c 75 6d 62 69 64 67 65   20 63 61 73 74 6c 65 00     Lumbidge castle.\n" +
		// 14 missing bytes, the group gap and the column gap.
		"(0010) 01 ff " + strings.Repeat(" ", 14*3+2+4) + "..\n"

	if diff := cmp.Diff(want, HexDump(data)); diff != "" {
		t.Errorf("HexDump() produced the wrong output; diff:\n%s", diff)
	}
	if HexDump(nil) != "" {
		t.Errorf("HexDump(nil) want empty output")
	}
}

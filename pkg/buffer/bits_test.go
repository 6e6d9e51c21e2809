package buffer

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBitMask(t *testing.T) {
	if bitMask[0] != 0 || bitMask[1] != 1 || bitMask[8] != 0xFF || bitMask[31] != 0x7FFFFFFF || bitMask[32] != 0xFFFFFFFF {
		t.Errorf("unexpected mask table: %v", bitMask)
	}
}

func TestBits_PackAcrossByteBoundaries(t *testing.T) {
	w := NewWriter()
	if err := w.SwitchToBitAccess(); err != nil {
		t.Fatalf("SwitchToBitAccess() returned error: %v", err)
	}

	fields := []struct {
		width int
		value uint32
	}{
		{3, 5},
		{5, 17},
		{13, 8000},
	}
	for _, f := range fields {
		if err := w.PutBits(f.width, f.value); err != nil {
			t.Fatalf("PutBits(%d, %d) returned error: %v", f.width, f.value, err)
		}
	}
	if w.BitPosition() != 21 {
		t.Errorf("expected bit position 21, got %d", w.BitPosition())
	}
	if err := w.SwitchToByteAccess(); err != nil {
		t.Fatalf("SwitchToByteAccess() returned error: %v", err)
	}

	if diff := cmp.Diff([]byte{0xB1, 0xFA, 0x00}, w.Bytes()); diff != "" {
		t.Errorf("PutBits() packed the wrong bytes; diff:\n%s", diff)
	}

	r := w.ToReader()
	if err := r.SwitchToBitAccess(); err != nil {
		t.Fatalf("SwitchToBitAccess() returned error: %v", err)
	}
	for _, f := range fields {
		got, err := r.ReadBits(f.width)
		if err != nil {
			t.Fatalf("ReadBits(%d) returned error: %v", f.width, err)
		}
		if got != f.value {
			t.Errorf("ReadBits(%d) want = %d, got = %d", f.width, f.value, got)
		}
	}
	if r.BitPosition() != 21 {
		t.Errorf("expected bit position 21, got %d", r.BitPosition())
	}
}

func TestBits_MixedWithBytes(t *testing.T) {
	w := NewWriter()
	_ = w.PutUint8(0xAB)
	_ = w.SwitchToBitAccess()
	_ = w.PutBit(true)
	_ = w.PutBits(32, 0xDEADBEEF)
	_ = w.PutBits(2, 3)
	_ = w.SwitchToByteAccess()
	_ = w.PutUint8(0xCD)

	if n, _ := w.Len(); n != 7 {
		t.Fatalf("expected 1 + ceil(35/8) + 1 = 7 bytes, got %d", n)
	}

	r := w.ToReader()
	if v, err := r.ReadUint8(); err != nil || v != 0xAB {
		t.Fatalf("ReadUint8() = %#x, %v", v, err)
	}
	_ = r.SwitchToBitAccess()
	if r.BitPosition() != 8 {
		t.Errorf("expected bit access to start at bit 8, got %d", r.BitPosition())
	}
	flag, _ := r.ReadBit()
	word, _ := r.ReadBits(32)
	tail, _ := r.ReadBits(2)
	if !flag || word != 0xDEADBEEF || tail != 3 {
		t.Errorf("unexpected bit fields: %v %#x %d", flag, word, tail)
	}
	if err := r.SwitchToByteAccess(); err != nil {
		t.Fatalf("SwitchToByteAccess() returned error: %v", err)
	}
	if r.Position() != 6 {
		t.Errorf("expected byte position ceil(43/8) = 6, got %d", r.Position())
	}
	if v, err := r.ReadUint8(); err != nil || v != 0xCD {
		t.Errorf("ReadUint8() = %#x, %v", v, err)
	}
}

func TestBits_PreservesNeighbouringBits(t *testing.T) {
	w := NewWriter()
	_ = w.SwitchToBitAccess()
	_ = w.PutBits(8, 0xFF)
	_ = w.PutBits(8, 0xFF)

	// Overwrite the middle of the already written bits.
	w.bitIndex = 6
	if err := w.PutBits(4, 0); err != nil {
		t.Fatalf("PutBits() returned error: %v", err)
	}
	w.bitIndex = 16
	_ = w.SwitchToByteAccess()

	if diff := cmp.Diff([]byte{0xFC, 0x3F}, w.Bytes()); diff != "" {
		t.Errorf("PutBits() disturbed neighbouring bits; diff:\n%s", diff)
	}
}

func TestBits_OnlyLowBitsOfValueAreWritten(t *testing.T) {
	w := NewWriter()
	_ = w.SwitchToBitAccess()
	_ = w.PutBits(4, 0xFFF5)
	_ = w.PutBits(4, 0)
	_ = w.SwitchToByteAccess()

	if diff := cmp.Diff([]byte{0x50}, w.Bytes()); diff != "" {
		t.Errorf("PutBits() leaked high bits; diff:\n%s", diff)
	}
}

func TestBits_VisibleBeforeLeavingBitAccess(t *testing.T) {
	tests := []struct {
		name   string
		prefix []byte
		width  int
		value  uint32
		want   []byte
	}{
		{name: "whole byte", width: 8, value: 0xAB, want: []byte{0xAB}},
		{name: "partial byte", width: 3, value: 5, want: []byte{0xA0}},
		{name: "after byte writes", prefix: []byte{0x01, 0x02}, width: 12, value: 0xFFF, want: []byte{0x01, 0x02, 0xFF, 0xF0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter()
			_ = w.PutBytes(tt.prefix)
			_ = w.SwitchToBitAccess()
			if err := w.PutBits(tt.width, tt.value); err != nil {
				t.Fatalf("PutBits() returned error: %v", err)
			}

			if diff := cmp.Diff(tt.want, w.Bytes()); diff != "" {
				t.Errorf("Bytes() in bit access; diff:\n%s", diff)
			}
			r := w.ToReader()
			if r.Len() != len(tt.want) {
				t.Errorf("ToReader() want length %d, got %d", len(tt.want), r.Len())
			}

			_ = w.SwitchToByteAccess()
			if diff := cmp.Diff(tt.want, w.Bytes()); diff != "" {
				t.Errorf("Bytes() after leaving bit access; diff:\n%s", diff)
			}
		})
	}
}

func TestBits_Errors(t *testing.T) {
	w := NewWriter()
	if err := w.PutBits(4, 1); !errors.Is(err, ErrMode) {
		t.Errorf("PutBits() in byte access expected ErrMode, got %v", err)
	}
	_ = w.SwitchToBitAccess()
	for _, n := range []int{0, -1, 33} {
		if err := w.PutBits(n, 1); !errors.Is(err, ErrConfig) {
			t.Errorf("PutBits(%d) expected ErrConfig, got %v", n, err)
		}
	}

	r := NewReader([]byte{0xFF})
	if _, err := r.ReadBits(1); !errors.Is(err, ErrMode) {
		t.Errorf("ReadBits() in byte access expected ErrMode, got %v", err)
	}
	_ = r.SwitchToBitAccess()
	if _, err := r.ReadBits(33); !errors.Is(err, ErrConfig) {
		t.Errorf("ReadBits(33) expected ErrConfig, got %v", err)
	}
	if _, err := r.ReadBits(9); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("ReadBits(9) past the end expected ErrOutOfBounds, got %v", err)
	}
	if r.BitPosition() != 0 {
		t.Errorf("a failed read must not advance the bit position, got %d", r.BitPosition())
	}
}

func TestAccessMode_Transitions(t *testing.T) {
	r := NewReader([]byte{1, 2})
	if r.Mode() != ByteAccess {
		t.Fatalf("expected a new reader to start in byte access")
	}
	if err := r.SwitchToByteAccess(); !errors.Is(err, ErrMode) {
		t.Errorf("re-entering byte access expected ErrMode, got %v", err)
	}
	if err := r.SwitchToBitAccess(); err != nil {
		t.Fatalf("SwitchToBitAccess() returned error: %v", err)
	}
	if err := r.SwitchToBitAccess(); !errors.Is(err, ErrMode) {
		t.Errorf("re-entering bit access expected ErrMode, got %v", err)
	}

	byteOps := map[string]func() error{
		"ReadSigned": func() error { _, err := r.ReadSigned(Byte, Big, None); return err },
		"ReadSmart":  func() error { _, err := r.ReadSmart(); return err },
		"ReadString": func() error { _, err := r.ReadString(); return err },
		"ReadBytes":  func() error { return r.ReadBytes(make([]byte, 1)) },
		"Readable":   func() error { _, err := r.Readable(); return err },
	}
	for name, op := range byteOps {
		if err := op(); !errors.Is(err, ErrMode) {
			t.Errorf("%s in bit access expected ErrMode, got %v", name, err)
		}
	}

	w := NewWriter()
	_ = w.SwitchToBitAccess()
	writeOps := map[string]func() error{
		"Put":       func() error { return w.Put(Byte, Big, None, 1) },
		"PutSmart":  func() error { return w.PutSmart(1) },
		"PutString": func() error { return w.PutString("x") },
		"PutBytes":  func() error { return w.PutBytes([]byte{1}) },
		"Len":       func() error { _, err := w.Len(); return err },
	}
	for name, op := range writeOps {
		if err := op(); !errors.Is(err, ErrMode) {
			t.Errorf("%s in bit access expected ErrMode, got %v", name, err)
		}
	}

	var modeErr *ModeError
	if err := w.SwitchToBitAccess(); !errors.As(err, &modeErr) || modeErr.Have != BitAccess {
		t.Errorf("expected *ModeError reporting bit access, got %v", err)
	}
}

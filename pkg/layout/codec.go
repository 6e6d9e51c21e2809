package layout

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"math"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ardougne/runebuf/internal/core/bytes"
	"github.com/ardougne/runebuf/pkg/buffer"
)

// Value is a decoded field. Exactly one of Int, Text and Raw is meaningful,
// depending on Kind.
type Value struct {
	Field string `json:"field"`
	Kind  Kind   `json:"kind"`
	Int   int64  `json:"int,omitempty"`
	Text  string `json:"text,omitempty"`
	Raw   []byte `json:"raw,omitempty"`
}

func (v Value) String() string {
	switch v.Kind {
	case KindString, KindJagString:
		return strconv.Quote(v.Text)
	case KindBytes:
		return "[" + bytes.FormatHex(v.Raw) + "]"
	}
	return strconv.FormatInt(v.Int, 10)
}

// Codec decodes and encodes layouts. The zero value is ready to use and
// discards its trace logs.
type Codec struct {
	Logger logrus.FieldLogger
}

func (c *Codec) logger() logrus.FieldLogger {
	if c.Logger == nil {
		discard := logrus.New()
		discard.Out = ioutil.Discard
		return discard
	}
	return c.Logger
}

// Decode reads every field of l from r in order. On error the values decoded
// so far are returned along with it.
func (c *Codec) Decode(r *buffer.Reader, l *Layout) ([]Value, error) {
	log := c.logger().WithField("layout", l.Name)

	values := make([]Value, 0, len(l.Fields))
	for i := range l.Fields {
		f := &l.Fields[i]
		start := r.Position()

		v, err := decodeField(r, f)
		if err != nil {
			return values, fmt.Errorf("decoding %s.%s at byte %d: %w", l.Name, f.Name, start, err)
		}
		if f.Kind == KindBitAccess || f.Kind == KindByteAccess {
			continue
		}
		log.WithFields(logrus.Fields{"field": f.Name, "shape": f.Describe()}).Debugf("decoded %s", v)
		values = append(values, v)
	}
	return values, nil
}

func decodeField(r *buffer.Reader, f *Field) (Value, error) {
	v := Value{Field: f.Name, Kind: f.Kind}

	var err error
	switch f.Kind {
	case KindBitAccess:
		err = r.SwitchToBitAccess()
	case KindByteAccess:
		err = r.SwitchToByteAccess()
	case KindScalar:
		if f.Signed {
			v.Int, err = r.ReadSigned(f.dataType, f.order, f.transform)
		} else {
			var u uint64
			u, err = r.ReadUnsigned(f.dataType, f.order, f.transform)
			v.Int = int64(u)
		}
	case KindBits, KindBit:
		var u uint32
		u, err = r.ReadBits(f.Width)
		v.Int = int64(u)
	case KindSmart, KindSignedSmart, KindBigSmart, KindExtendedSmart:
		var n int
		n, err = readSmart(r, f.Kind)
		v.Int = int64(n)
	case KindString:
		v.Text, err = r.ReadString()
	case KindJagString:
		v.Text, err = r.ReadJagString()
	case KindBytes:
		v.Raw = make([]byte, f.Length)
		if f.Reverse {
			err = r.ReadBytesReverseTransformed(f.transform, v.Raw)
		} else {
			err = r.ReadBytesTransformed(f.transform, v.Raw)
		}
	default:
		err = &buffer.ConfigError{Op: "decode", Reason: fmt.Sprintf("unknown field kind %q", f.Kind)}
	}
	return v, err
}

func readSmart(r *buffer.Reader, kind Kind) (int, error) {
	switch kind {
	case KindSignedSmart:
		return r.ReadSignedSmart()
	case KindBigSmart:
		return r.ReadBigSmart()
	case KindExtendedSmart:
		return r.ReadExtendedSmart()
	}
	return r.ReadSmart()
}

// Encode writes every field of l to w in order, taking values from the map by
// field name. Numbers may be given as any Go integer or float type, a
// json.Number, or a string in any base strconv understands; bits fields also
// accept booleans and byte blocks accept hex strings.
func (c *Codec) Encode(w *buffer.Writer, l *Layout, values map[string]interface{}) error {
	log := c.logger().WithField("layout", l.Name)

	for i := range l.Fields {
		f := &l.Fields[i]
		var value interface{}
		if f.Kind != KindBitAccess && f.Kind != KindByteAccess {
			var ok bool
			if value, ok = values[f.Name]; !ok {
				return fmt.Errorf("encoding %s: missing value for field %s", l.Name, f.Name)
			}
		}
		if err := encodeField(w, f, value); err != nil {
			return fmt.Errorf("encoding %s.%s: %w", l.Name, f.Name, err)
		}
		if value != nil {
			log.WithFields(logrus.Fields{"field": f.Name, "shape": f.Describe()}).Debugf("encoded %v", value)
		}
	}
	return nil
}

func encodeField(w *buffer.Writer, f *Field, value interface{}) error {
	switch f.Kind {
	case KindBitAccess:
		return w.SwitchToBitAccess()
	case KindByteAccess:
		return w.SwitchToByteAccess()
	case KindString, KindJagString:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected a string, got %T", value)
		}
		if f.Kind == KindJagString {
			return w.PutJagString(s)
		}
		return w.PutString(s)
	case KindBytes:
		b, err := toBytes(value)
		if err != nil {
			return err
		}
		if len(b) != f.Length {
			return fmt.Errorf("expected %d bytes, got %d", f.Length, len(b))
		}
		if f.Reverse {
			return w.PutBytesReverseTransformed(f.transform, b)
		}
		return w.PutBytesTransformed(f.transform, b)
	}

	n, err := toInt64(value)
	if err != nil {
		return err
	}
	switch f.Kind {
	case KindScalar:
		return w.Put(f.dataType, f.order, f.transform, n)
	case KindBits, KindBit:
		if n < 0 || n > math.MaxUint32 || (f.Width < 32 && n >= 1<<uint(f.Width)) {
			return &buffer.ConfigError{Op: "encode", Reason: fmt.Sprintf("%d does not fit in %d bits", n, f.Width)}
		}
		return w.PutBits(f.Width, uint32(n))
	case KindSmart:
		return w.PutSmart(int(n))
	case KindSignedSmart:
		return w.PutSignedSmart(int(n))
	case KindBigSmart:
		return w.PutBigSmart(int(n))
	case KindExtendedSmart:
		return w.PutExtendedSmart(int(n))
	}
	return &buffer.ConfigError{Op: "encode", Reason: fmt.Sprintf("unknown field kind %q", f.Kind)}
}

func toInt64(value interface{}) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("%d overflows int64", v)
		}
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%v is not an integer", v)
		}
		return int64(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case json.Number:
		return v.Int64()
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 0, 64)
		if err != nil {
			if b, berr := strconv.ParseBool(strings.TrimSpace(v)); berr == nil {
				return toInt64(b)
			}
			return 0, fmt.Errorf("parsing %q as an integer: %w", v, err)
		}
		return n, nil
	}
	return 0, fmt.Errorf("expected a number, got %T", value)
}

func toBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return bytes.ParseHex(v)
	}
	return nil, fmt.Errorf("expected bytes or a hex string, got %T", value)
}

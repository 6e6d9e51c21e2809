package buffer

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Option configures a Reader or Writer.
type Option func(*options)

type options struct {
	charset encoding.Encoding
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithCharset makes string operations transcode between Go's UTF-8 strings and
// enc on the wire. Without it, strings are passed through as raw bytes.
func WithCharset(enc encoding.Encoding) Option {
	return func(o *options) { o.charset = enc }
}

// ParseCharset maps a configuration name to an encoding. "raw" and the empty
// string mean no transcoding and return a nil encoding.
func ParseCharset(name string) (encoding.Encoding, error) {
	switch normalize(name) {
	case "", "raw":
		return nil, nil
	case "cp1252", "windows_1252":
		return charmap.Windows1252, nil
	case "latin1", "iso_8859_1":
		return charmap.ISO8859_1, nil
	}
	return nil, &ConfigError{Op: "parse charset", Reason: fmt.Sprintf("unknown charset %q", name)}
}

func decodeText(enc encoding.Encoding, raw []byte) (string, error) {
	if enc == nil {
		return string(raw), nil
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decoding string: %w", err)
	}
	return string(decoded), nil
}

func encodeText(op string, enc encoding.Encoding, s string) ([]byte, error) {
	raw := []byte(s)
	if enc != nil {
		var err error
		if raw, err = enc.NewEncoder().Bytes(raw); err != nil {
			return nil, fmt.Errorf("encoding string: %w", err)
		}
	}
	if bytes.IndexByte(raw, 0) >= 0 {
		return nil, &ConfigError{Op: op, Reason: "string contains a NUL byte"}
	}
	return raw, nil
}

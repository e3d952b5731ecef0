package protocol

import (
	"errors"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

var ErrUnsupportedEncoding = errors.New("unsupported encoding")

// Encoding is the text encoding negotiated with the command server.
// The zero value is UTF-8.
type Encoding struct {
	name string
	enc  encoding.Encoding
}

// UTF8 is the encoding requested from the server via HGENCODING.
var UTF8 = Encoding{name: "UTF-8", enc: unicode.UTF8}

// LookupEncoding resolves an encoding name as reported by the server,
// e.g. "UTF-8", "ascii" or "cp1252".
func LookupEncoding(name string) (Encoding, error) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return Encoding{}, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, name)
	}

	return Encoding{name: name, enc: enc}, nil
}

// Name returns the encoding name as reported by the server.
func (e Encoding) Name() string {
	if e.enc == nil {
		return UTF8.name
	}

	return e.name
}

// Encode converts s to the session encoding. It fails if s contains
// characters that are not representable in the encoding.
func (e Encoding) Encode(s string) ([]byte, error) {
	if e.enc == nil {
		return []byte(s), nil
	}

	b, err := e.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("failed to encode text as %s: %w", e.Name(), err)
	}

	return b, nil
}

// Decode converts b from the session encoding. Invalid sequences are
// replaced rather than rejected.
func (e Encoding) Decode(b []byte) string {
	if e.enc == nil {
		return string(b)
	}

	s, err := e.enc.NewDecoder().Bytes(b)
	if err != nil {
		// decoders of the supported encodings replace invalid input,
		// fall back to the raw bytes just in case
		return string(b)
	}

	return string(s)
}

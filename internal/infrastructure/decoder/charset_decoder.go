// Package decoder converts raw feed bytes into UTF-8 text
package decoder

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/damon-houk/nbp-currency-converter/internal/domain/entity"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// DefaultEncoding is the encoding the NBP publishes its XML tables in
const DefaultEncoding = "ISO-8859-2"

// CharsetDecoder decodes text in any encoding known to the WHATWG encoding index.
//
// Decoding is strict: a byte sequence the encoding cannot map is reported as a
// DecodeError rather than being replaced with U+FFFD. ISO-8859-2 maps all 256
// byte values, so for the NBP feed decoding never fails.
type CharsetDecoder struct{}

// NewCharsetDecoder creates a new decoder
func NewCharsetDecoder() *CharsetDecoder {
	return &CharsetDecoder{}
}

// Decode converts data from the named encoding into a string.
// An empty label selects DefaultEncoding.
func (d *CharsetDecoder) Decode(data []byte, label string) (string, error) {
	enc, name, err := lookup(label)
	if err != nil {
		return "", &entity.DecodeError{Encoding: label, Err: err}
	}

	if name == "utf-8" {
		if !utf8.Valid(data) {
			return "", &entity.DecodeError{Encoding: name, Err: errors.New("invalid UTF-8 byte sequence")}
		}
		return string(data), nil
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", &entity.DecodeError{Encoding: name, Err: err}
	}

	if i := bytes.IndexRune(out, utf8.RuneError); i >= 0 {
		return "", &entity.DecodeError{
			Encoding: name,
			Err:      fmt.Errorf("byte sequence not valid in %s near decoded offset %d", name, i),
		}
	}

	return string(out), nil
}

func lookup(label string) (encoding.Encoding, string, error) {
	label = strings.TrimSpace(label)
	if label == "" || strings.EqualFold(label, DefaultEncoding) {
		return charmap.ISO8859_2, "iso-8859-2", nil
	}

	enc, name := charset.Lookup(label)
	if enc == nil {
		return nil, "", fmt.Errorf("unsupported encoding %q", label)
	}

	return enc, name, nil
}

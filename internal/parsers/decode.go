package parsers

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decoder tries one encoding and reports whether it applied.
type decoder struct {
	name   string
	decode func([]byte) (string, bool)
}

// decoders is the fallback chain for text uploads, tried in order.
var decoders = []decoder{
	{name: "utf-8", decode: decodeUTF8},
	{name: "utf-8-sig", decode: decodeUTF8BOM},
	{name: "latin-1", decode: decodeWith(charmap.ISO8859_1)},
	{name: "cp1252", decode: decodeWith(charmap.Windows1252)},
}

// Decode converts raw bytes to text using the first encoding that applies,
// falling back to lossy UTF-8. It never fails.
func Decode(content []byte) (text string, encodingName string) {
	for _, d := range decoders {
		if s, ok := d.decode(content); ok {
			return s, d.name
		}
	}
	return strings.ToValidUTF8(string(content), ""), "utf-8-lossy"
}

func decodeUTF8(b []byte) (string, bool) {
	if bytes.HasPrefix(b, utf8BOM) || !utf8.Valid(b) {
		return "", false
	}
	return string(b), true
}

func decodeUTF8BOM(b []byte) (string, bool) {
	if !bytes.HasPrefix(b, utf8BOM) || !utf8.Valid(b) {
		return "", false
	}
	out, err := unicode.UTF8BOM.NewDecoder().Bytes(b)
	if err != nil {
		return "", false
	}
	return string(out), true
}

func decodeWith(enc encoding.Encoding) func([]byte) (string, bool) {
	return func(b []byte) (string, bool) {
		out, err := enc.NewDecoder().Bytes(b)
		if err != nil || !utf8.Valid(out) {
			return "", false
		}
		return string(out), true
	}
}

package parsers

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
		encoding string
	}{
		{name: "utf-8", input: []byte("Résumé"), expected: "Résumé", encoding: "utf-8"},
		{name: "utf-8 with BOM", input: append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello")...), expected: "hello", encoding: "utf-8-sig"},
		{name: "latin-1", input: []byte{'C', 'a', 'f', 0xE9}, expected: "Café", encoding: "latin-1"},
		{name: "empty", input: []byte{}, expected: "", encoding: "utf-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, enc := Decode(tt.input)
			assert.Equal(t, tt.expected, text)
			assert.Equal(t, tt.encoding, enc)
		})
	}
}

func TestDecode_NeverFails(t *testing.T) {
	inputs := [][]byte{
		{0xFF, 0xFE, 0x00, 0x41},
		{0x80, 0x81, 0x9D, 0xC3},
		{0xEF, 0xBB, 0xBF, 0xFF},
	}
	for _, in := range inputs {
		text, enc := Decode(in)
		assert.True(t, utf8.ValidString(text))
		assert.NotEmpty(t, enc)
	}
}

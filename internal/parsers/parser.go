// Package parsers converts uploaded resume files into plain text.
//
// Each format is a Parser. A Registry selects the first parser whose
// extensions match the filename, in registration order.
package parsers

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jonathan/resume-structurer/internal/types"
)

// MaxTextFileSize is the largest Markdown or LaTeX file accepted.
const MaxTextFileSize = 1024 * 1024

// Parser extracts text from one file format.
type Parser interface {
	// Extensions returns the lower-case extensions, with leading dot, this parser handles.
	Extensions() []string
	// CanHandle reports whether filename has one of the parser's extensions.
	CanHandle(filename string) bool
	// Validate checks content before parsing. The returned error message is user facing.
	Validate(content []byte, filename string) error
	// Parse extracts text. It fails only when no text can be recovered.
	Parse(ctx context.Context, content []byte, filename string) (*types.ParseResult, error)
}

// Validation failures. Messages are shown to the uploader verbatim.
//
//nolint:staticcheck // user-facing messages are capitalized
var (
	ErrEmptyFile = errors.New("File is empty")
	ErrNoText    = errors.New("File contains no readable text")
	ErrNoTextPDF = errors.New("No text could be extracted from PDF")
	ErrNotPDF    = errors.New("File does not appear to be a valid PDF")
	ErrEncrypted = errors.New("PDF is password protected")
	ErrNotLaTeX  = errors.New("File does not appear to be valid LaTeX")
)

// Extension returns the lower-cased extension of filename including the dot.
func Extension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

func hasExtension(exts []string, filename string) bool {
	return slices.Contains(exts, Extension(filename))
}

func checkExtension(exts []string, filename string) error {
	if hasExtension(exts, filename) {
		return nil
	}
	return fmt.Errorf("Invalid file extension: expected %s", strings.Join(exts, " or "))
}

func checkSize(content []byte, maxBytes int) error {
	if len(content) == 0 {
		return ErrEmptyFile
	}
	if maxBytes > 0 && len(content) > maxBytes {
		return fmt.Errorf("File too large: maximum size is %dKB", maxBytes/1024)
	}
	return nil
}

package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRegistry_Select(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		filename string
		want     Parser
	}{
		{filename: "resume.pdf", want: &PDFParser{}},
		{filename: "RESUME.PDF", want: &PDFParser{}},
		{filename: "resume.md", want: &MarkdownParser{}},
		{filename: "resume.markdown", want: &MarkdownParser{}},
		{filename: "resume.tex", want: &LaTeXParser{}},
		{filename: "resume.latex", want: &LaTeXParser{}},
		{filename: "resume.docx", want: nil},
		{filename: "resume", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got := r.Select(tt.filename)
			if tt.want == nil {
				assert.Nil(t, got)
				assert.False(t, r.IsSupported(tt.filename))
				return
			}
			assert.IsType(t, tt.want, got)
			assert.True(t, r.IsSupported(tt.filename))
		})
	}
}

func TestDefaultRegistry_SupportedExtensions(t *testing.T) {
	assert.Equal(t, []string{".pdf", ".md", ".markdown", ".tex", ".latex"}, DefaultRegistry().SupportedExtensions())
}

type alwaysParser struct{ MarkdownParser }

func (alwaysParser) CanHandle(string) bool { return true }

func TestRegistry_FirstMatchWins(t *testing.T) {
	first := &alwaysParser{}
	r := NewRegistry(first, NewMarkdownParser())
	assert.Same(t, first, r.Select("cv.md"))
}

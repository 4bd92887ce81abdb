package parsers

import (
	"context"
	"errors"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExtractor struct {
	pages []string
	err   error
	calls int
}

func (s *stubExtractor) ExtractPages(_ context.Context, _ []byte) ([]string, error) {
	s.calls++
	return s.pages, s.err
}

type stubInspector struct {
	info  *PDFInfo
	err   error
	calls int
}

func (s *stubInspector) Inspect(_ []byte) (*PDFInfo, error) {
	s.calls++
	return s.info, s.err
}

var minimalPDF = []byte("%PDF-1.4\n")

func TestPDFParser_Parse(t *testing.T) {
	tests := []struct {
		name         string
		primary      *stubExtractor
		fallback     *stubExtractor
		wantText     string
		wantPages    int
		wantWarnings []string
		wantFallback bool
		wantErr      error
	}{
		{
			name:      "primary succeeds",
			primary:   &stubExtractor{pages: []string{"page one", "", "page two"}},
			fallback:  &stubExtractor{},
			wantText:  "page one\n\npage two",
			wantPages: 3,
		},
		{
			name:         "primary empty uses fallback",
			primary:      &stubExtractor{pages: []string{"  ", "\n"}},
			fallback:     &stubExtractor{pages: []string{"plain text"}},
			wantText:     "plain text",
			wantPages:    1,
			wantWarnings: []string{FallbackWarning},
			wantFallback: true,
		},
		{
			name:         "primary error uses fallback",
			primary:      &stubExtractor{err: errors.New("bad xref")},
			fallback:     &stubExtractor{pages: []string{"a", "b"}},
			wantText:     "a\n\nb",
			wantPages:    2,
			wantWarnings: []string{FallbackWarning},
			wantFallback: true,
		},
		{
			name:         "both empty",
			primary:      &stubExtractor{pages: []string{""}},
			fallback:     &stubExtractor{err: errors.New("boom")},
			wantFallback: true,
			wantErr:      ErrNoTextPDF,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &PDFParser{Primary: tt.primary, Fallback: tt.fallback, Inspector: &stubInspector{}}

			result, err := p.Parse(context.Background(), minimalPDF, "cv.pdf")
			assert.Equal(t, 1, tt.primary.calls)
			if tt.wantFallback {
				assert.Equal(t, 1, tt.fallback.calls)
			} else {
				assert.Zero(t, tt.fallback.calls)
			}

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, result.Text)
			assert.Equal(t, tt.wantPages, result.PageCount)
			assert.Equal(t, len(tt.wantText), result.CharacterCount)
			if tt.wantWarnings == nil {
				assert.Empty(t, result.Warnings)
			} else {
				assert.Equal(t, tt.wantWarnings, result.Warnings)
			}
		})
	}
}

func TestPDFParser_Validate(t *testing.T) {
	tests := []struct {
		name          string
		content       []byte
		filename      string
		inspector     *stubInspector
		wantErr       error
		errMsg        string
		wantInspected bool
	}{
		{name: "valid", content: minimalPDF, filename: "cv.pdf", inspector: &stubInspector{info: &PDFInfo{PageCount: 2}}, wantInspected: true},
		{name: "wrong magic", content: []byte("PK\x03\x04"), filename: "cv.pdf", inspector: &stubInspector{}, wantErr: ErrNotPDF},
		{name: "empty", content: nil, filename: "cv.pdf", inspector: &stubInspector{}, wantErr: ErrEmptyFile},
		{name: "wrong extension", content: minimalPDF, filename: "cv.docx", inspector: &stubInspector{}, errMsg: "expected .pdf"},
		{name: "encrypted", content: minimalPDF, filename: "CV.PDF", inspector: &stubInspector{info: &PDFInfo{Encrypted: true}}, wantErr: ErrEncrypted, wantInspected: true},
		{name: "corrupt", content: minimalPDF, filename: "cv.pdf", inspector: &stubInspector{err: errors.New("xref missing")}, errMsg: "PDF validation failed: xref missing", wantInspected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &PDFParser{MaxBytes: DefaultMaxPDFSize, Inspector: tt.inspector}
			err := p.Validate(tt.content, tt.filename)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			default:
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantInspected, tt.inspector.calls == 1)
		})
	}
}

func TestPDFParser_ValidateTooLarge(t *testing.T) {
	p := &PDFParser{MaxBytes: 8, Inspector: &stubInspector{}}
	err := p.Validate([]byte("%PDF-1.4 and more"), "cv.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "File too large")
}

func TestNewPDFParser_RejectsCorruptDocument(t *testing.T) {
	p := NewPDFParser()
	err := p.Validate([]byte("%PDF-1.7\nthis is not a real document"), "cv.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PDF validation failed")
}

func TestNewPDFParser_RejectsNonPDF(t *testing.T) {
	p := NewPDFParser()
	assert.ErrorIs(t, p.Validate([]byte("hello world"), "cv.pdf"), ErrNotPDF)
}

func TestLayoutExtractor_CorruptInput(t *testing.T) {
	_, err := LayoutExtractor{}.ExtractPages(context.Background(), []byte("%PDF-garbage"))
	assert.Error(t, err)
}

func TestLayoutRows(t *testing.T) {
	rows := pdf.Rows{
		{Position: 700, Content: pdf.TextHorizontal{
			{S: "Jane", X: 10, W: 20, FontSize: 10},
			{S: "Doe", X: 35, W: 15, FontSize: 10},
		}},
		{Position: 680, Content: pdf.TextHorizontal{
			{S: "G", X: 10, W: 5, FontSize: 10},
			{S: "o", X: 15, W: 5, FontSize: 10},
		}},
		{Position: 660, Content: pdf.TextHorizontal{}},
	}
	assert.Equal(t, "Jane Doe\nGo\n", layoutRows(rows))
}

func TestJoinPages(t *testing.T) {
	assert.Equal(t, "", joinPages(nil))
	assert.Equal(t, "a\n\nb", joinPages([]string{" a", "", "  \n", "b\n"}))
}

package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-structurer/internal/apperr"
	"github.com/jonathan/resume-structurer/internal/parsers"
)

func TestIngest_Markdown(t *testing.T) {
	content := []byte("# Jane Doe\x00\n\n\n\nGo developer\x07")

	upload, err := Ingest(context.Background(), parsers.DefaultRegistry(), "Jane.MD", content, 0)
	require.NoError(t, err)

	assert.Equal(t, "# Jane Doe\n\nGo developer", upload.Result.Text)
	assert.Equal(t, len(upload.Result.Text), upload.Result.CharacterCount)
	assert.Equal(t, "md", upload.Metadata.FileType)
	assert.Equal(t, len(content), upload.Metadata.FileSize)
	assert.Equal(t, "utf-8", upload.Metadata.Encoding)
	assert.Equal(t, upload.Result.Text, upload.TextPreview)
}

func TestIngest_PreviewIsTruncated(t *testing.T) {
	content := []byte("# CV\n" + strings.Repeat("é", 800))

	upload, err := Ingest(context.Background(), parsers.DefaultRegistry(), "cv.md", content, 0)
	require.NoError(t, err)
	assert.Len(t, []rune(upload.TextPreview), PreviewLength)
}

func TestIngest_Errors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  []byte
		maxBytes int64
		code     string
		msg      string
	}{
		{name: "unsupported", filename: "cv.docx", content: []byte("x"), code: apperr.CodeInvalidFileType, msg: "docx"},
		{name: "no extension", filename: "cv", content: []byte("x"), code: apperr.CodeInvalidFileType, msg: "unknown"},
		{name: "too large", filename: "cv.md", content: []byte("# 0123456789"), maxBytes: 4, code: apperr.CodeFileTooLarge},
		{name: "empty", filename: "cv.md", content: []byte{}, code: apperr.CodeParsingFailed, msg: "File validation failed: File is empty"},
		{name: "not latex", filename: "cv.tex", content: []byte("plain"), code: apperr.CodeParsingFailed, msg: "valid LaTeX"},
		{name: "not pdf", filename: "cv.pdf", content: []byte("plain"), code: apperr.CodeParsingFailed, msg: "valid PDF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upload, err := Ingest(context.Background(), parsers.DefaultRegistry(), tt.filename, tt.content, tt.maxBytes)
			require.Error(t, err)
			assert.Nil(t, upload)
			assert.Equal(t, tt.code, apperr.Code(err))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestIngestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.tex")
	require.NoError(t, os.WriteFile(path, []byte(`\section{Skills} Go`), 0o644))

	upload, err := IngestFile(context.Background(), parsers.DefaultRegistry(), path, 0)
	require.NoError(t, err)
	assert.Equal(t, "Skills Go", upload.Result.Text)
	assert.Equal(t, "resume.tex", upload.Metadata.Filename)

	_, err = IngestFile(context.Background(), parsers.DefaultRegistry(), filepath.Join(dir, "missing.md"), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestFileType(t *testing.T) {
	assert.Equal(t, "pdf", FileType("CV.PDF"))
	assert.Equal(t, "markdown", FileType("a.b.markdown"))
	assert.Equal(t, "unknown", FileType("README"))
}

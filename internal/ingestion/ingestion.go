// Package ingestion validates and parses uploaded resume files.
package ingestion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-structurer/internal/apperr"
	"github.com/jonathan/resume-structurer/internal/logger"
	"github.com/jonathan/resume-structurer/internal/parsers"
	"github.com/jonathan/resume-structurer/internal/sanitize"
	"github.com/jonathan/resume-structurer/internal/types"
)

// DefaultMaxUploadSize is the largest upload accepted when no limit is configured.
const DefaultMaxUploadSize = 10 * 1024 * 1024

// PreviewLength is the number of characters kept in Upload.TextPreview.
const PreviewLength = 500

// Upload is a parsed resume file.
type Upload struct {
	Metadata    *Metadata          `json:"metadata"`
	Result      *types.ParseResult `json:"result"`
	TextPreview string             `json:"text_preview"`
}

// Ingest checks the extension and size of content, validates it with the
// matching parser and extracts its text. The extracted text is sanitized.
func Ingest(ctx context.Context, registry *parsers.Registry, filename string, content []byte, maxBytes int64) (*Upload, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadSize
	}
	logger.Info().Str("filename", filename).Int("size", len(content)).Msg("resume_upload_request")

	parser := registry.Select(filename)
	if parser == nil {
		return nil, apperr.NewUnsupportedTypeError(FileType(filename), registry.SupportedExtensions())
	}

	if int64(len(content)) > maxBytes {
		return nil, apperr.NewFileTooLargeError(int64(len(content)), maxBytes)
	}

	if err := parser.Validate(content, filename); err != nil {
		return nil, apperr.NewParsingError(fmt.Sprintf("File validation failed: %s", err), err)
	}

	meta := NewMetadata(filename, FileType(filename), content)

	result, err := parser.Parse(ctx, content, filename)
	if err != nil {
		return nil, apperr.NewParsingError(fmt.Sprintf("Failed to parse file: %s", err), err)
	}

	clean := sanitize.Text(result.Text)
	result = types.NewParseResult(clean, result.PageCount, result.Warnings)
	if meta.FileType != "pdf" {
		_, meta.Encoding = parsers.Decode(content)
	}

	logger.Info().Str("filename", filename).Int("chars", result.CharacterCount).Int("pages", result.PageCount).Msg("resume_parsed")

	return &Upload{
		Metadata:    meta,
		Result:      result,
		TextPreview: sanitize.Truncate(clean, PreviewLength),
	}, nil
}

// IngestFile reads path from disk and ingests it.
func IngestFile(ctx context.Context, registry *parsers.Registry, path string, maxBytes int64) (*Upload, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Ingest(ctx, registry, filepath.Base(path), content, maxBytes)
}

// FileType returns the lower-cased extension of filename without the dot,
// or "unknown" when there is none.
func FileType(filename string) string {
	ext := strings.TrimPrefix(parsers.Extension(filename), ".")
	if ext == "" {
		return "unknown"
	}
	return ext
}

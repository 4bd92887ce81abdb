package parsers

import (
	"context"
	"strings"

	"github.com/jonathan/resume-structurer/internal/logger"
	"github.com/jonathan/resume-structurer/internal/types"
)

// MarkdownParser reads Markdown resumes as plain text.
type MarkdownParser struct {
	MaxBytes int
}

// NewMarkdownParser returns a MarkdownParser with the default size limit.
func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{MaxBytes: MaxTextFileSize}
}

// Extensions implements Parser.
func (p *MarkdownParser) Extensions() []string {
	return []string{".md", ".markdown"}
}

// CanHandle implements Parser.
func (p *MarkdownParser) CanHandle(filename string) bool {
	return hasExtension(p.Extensions(), filename)
}

// Validate implements Parser.
func (p *MarkdownParser) Validate(content []byte, filename string) error {
	if err := checkExtension(p.Extensions(), filename); err != nil {
		return err
	}
	if err := checkSize(content, p.MaxBytes); err != nil {
		return err
	}
	if text, _ := Decode(content); strings.TrimSpace(text) == "" {
		return ErrNoText
	}
	return nil
}

// Parse implements Parser.
func (p *MarkdownParser) Parse(_ context.Context, content []byte, filename string) (*types.ParseResult, error) {
	logger.Info().Str("filename", filename).Int("size", len(content)).Msg("parsing_markdown")

	text, enc := Decode(content)
	text = cleanMarkdown(text)
	if text == "" {
		return nil, ErrNoText
	}

	logger.Info().Int("chars", len(text)).Str("encoding", enc).Msg("markdown_parsed")
	return types.NewParseResult(text, 1, nil), nil
}

// cleanMarkdown normalizes line endings and collapses runs of blank lines to one.
func cleanMarkdown(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(text)
}

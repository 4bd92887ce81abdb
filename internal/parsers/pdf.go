package parsers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	einopdf "github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoparser "github.com/cloudwego/eino/components/document/parser"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/jonathan/resume-structurer/internal/logger"
	"github.com/jonathan/resume-structurer/internal/types"
)

// DefaultMaxPDFSize is the largest PDF accepted.
const DefaultMaxPDFSize = 10 * 1024 * 1024

// FallbackWarning is attached when the primary extractor produced nothing.
const FallbackWarning = "Parsed with fallback parser - some formatting may be lost"

var pdfMagic = []byte("%PDF")

// PageExtractor returns the text of every page of a PDF, in order.
type PageExtractor interface {
	ExtractPages(ctx context.Context, content []byte) ([]string, error)
}

// PDFInfo describes the structure of a PDF.
type PDFInfo struct {
	PageCount int
	Encrypted bool
}

// Inspector reads PDF structure without extracting text.
type Inspector interface {
	Inspect(content []byte) (*PDFInfo, error)
}

// PDFParser extracts text with a layout-aware extractor and falls back to a
// page-by-page extractor when the first one yields nothing.
type PDFParser struct {
	MaxBytes  int
	Primary   PageExtractor
	Fallback  PageExtractor
	Inspector Inspector
}

// NewPDFParser returns a PDFParser wired to the default extractors.
func NewPDFParser() *PDFParser {
	return &PDFParser{
		MaxBytes:  DefaultMaxPDFSize,
		Primary:   LayoutExtractor{},
		Fallback:  PlainExtractor{},
		Inspector: StructureInspector{},
	}
}

// Extensions implements Parser.
func (p *PDFParser) Extensions() []string {
	return []string{".pdf"}
}

// CanHandle implements Parser.
func (p *PDFParser) CanHandle(filename string) bool {
	return hasExtension(p.Extensions(), filename)
}

// Validate implements Parser.
func (p *PDFParser) Validate(content []byte, filename string) error {
	if err := checkExtension(p.Extensions(), filename); err != nil {
		return err
	}
	if err := checkSize(content, p.MaxBytes); err != nil {
		return err
	}
	if !bytes.HasPrefix(content, pdfMagic) {
		return ErrNotPDF
	}

	info, err := p.Inspector.Inspect(content)
	if err != nil {
		return fmt.Errorf("PDF validation failed: %w", err)
	}
	if info.Encrypted {
		return ErrEncrypted
	}
	return nil
}

// Parse implements Parser.
func (p *PDFParser) Parse(ctx context.Context, content []byte, filename string) (*types.ParseResult, error) {
	logger.Info().Str("filename", filename).Int("size", len(content)).Msg("parsing_pdf")

	pages, primaryErr := p.Primary.ExtractPages(ctx, content)
	if primaryErr == nil {
		if text := joinPages(pages); text != "" {
			logger.Info().Int("pages", len(pages)).Int("chars", len(text)).Msg("pdf_parsed_primary")
			return types.NewParseResult(text, len(pages), nil), nil
		}
		primaryErr = errors.New("no text extracted")
	}
	logger.Warn().Err(primaryErr).Str("filename", filename).Msg("pdf_primary_failed")

	pages, fallbackErr := p.Fallback.ExtractPages(ctx, content)
	if fallbackErr == nil {
		if text := joinPages(pages); text != "" {
			logger.Info().Int("pages", len(pages)).Int("chars", len(text)).Msg("pdf_parsed_fallback")
			return types.NewParseResult(text, len(pages), []string{FallbackWarning}), nil
		}
		fallbackErr = errors.New("no text extracted")
	}
	logger.Error().Err(fallbackErr).Str("filename", filename).Msg("pdf_parse_failed")

	return nil, fmt.Errorf("%w (primary: %v; fallback: %v)", ErrNoTextPDF, primaryErr, fallbackErr)
}

// joinPages joins non-blank pages with a blank line.
func joinPages(pages []string) string {
	parts := make([]string, 0, len(pages))
	for _, page := range pages {
		if strings.TrimSpace(page) != "" {
			parts = append(parts, page)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}

// LayoutExtractor rebuilds each page line by line from positioned glyph runs.
type LayoutExtractor struct{}

// ExtractPages implements PageExtractor.
func (LayoutExtractor) ExtractPages(_ context.Context, content []byte) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("pdf reader: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf: %w", err)
	}

	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, layoutRows(rows))
	}
	return pages, nil
}

// layoutRows renders rows top to bottom, inserting a space where the gap
// between two runs is wider than a fraction of the font size.
func layoutRows(rows pdf.Rows) string {
	var sb strings.Builder
	for _, row := range rows {
		var line strings.Builder
		for i, word := range row.Content {
			if i > 0 {
				prev := row.Content[i-1]
				gap := word.X - (prev.X + prev.W)
				if gap > word.FontSize*0.15 && !strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(word.S, " ") {
					line.WriteByte(' ')
				}
			}
			line.WriteString(word.S)
		}
		if s := strings.TrimRight(line.String(), " "); s != "" {
			sb.WriteString(s)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// PlainExtractor reads each page's text stream without layout analysis.
type PlainExtractor struct{}

// ExtractPages implements PageExtractor.
func (PlainExtractor) ExtractPages(ctx context.Context, content []byte) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("pdf parser: %v", r)
		}
	}()

	p, err := einopdf.NewPDFParser(ctx, &einopdf.Config{ToPages: true})
	if err != nil {
		return nil, fmt.Errorf("failed to create pdf parser: %w", err)
	}

	docs, err := p.Parse(ctx, bytes.NewReader(content),
		einoparser.WithURI("upload.pdf"),
		einoparser.WithExtraMeta(map[string]any{"size": len(content)}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pdf: %w", err)
	}

	for _, doc := range docs {
		pages = append(pages, doc.Content)
	}
	return pages, nil
}

// StructureInspector reads the cross-reference table and page tree.
type StructureInspector struct{}

// Inspect implements Inspector.
func (StructureInspector) Inspect(content []byte) (info *PDFInfo, err error) {
	defer func() {
		if r := recover(); r != nil {
			info, err = nil, fmt.Errorf("corrupt pdf: %v", r)
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(content), conf)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "password") {
			return &PDFInfo{Encrypted: true}, nil
		}
		return nil, err
	}
	if ctx.Encrypt != nil {
		return &PDFInfo{Encrypted: true, PageCount: ctx.PageCount}, nil
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, err
	}
	if ctx.PageCount < 1 {
		return nil, errors.New("document has no pages")
	}
	return &PDFInfo{PageCount: ctx.PageCount}, nil
}

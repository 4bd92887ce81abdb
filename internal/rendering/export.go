package rendering

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/resume-structurer/internal/types"
)

// Format is an export format.
type Format string

// Export formats.
const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatLaTeX    Format = "latex"
)

// ParseFormat resolves a format name. An empty name means Markdown.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "", FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatLaTeX, "tex":
		return FormatLaTeX, nil
	default:
		return "", &FormatError{Format: name}
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatLaTeX:
		return "application/x-latex"
	default:
		return "text/markdown; charset=utf-8"
	}
}

// Extension returns the file extension used for the format, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatLaTeX:
		return "tex"
	default:
		return "md"
	}
}

// Export renders resume in format. primaryColor only affects LaTeX.
func Export(resume *types.CanonicalResume, format Format, primaryColor string) ([]byte, error) {
	switch format {
	case FormatMarkdown:
		return []byte(RenderMarkdown(resume)), nil
	case FormatJSON:
		data, err := json.MarshalIndent(resume, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal resume: %w", err)
		}
		return data, nil
	case FormatLaTeX:
		tex, err := RenderLaTeX(resume, primaryColor)
		if err != nil {
			return nil, err
		}
		return []byte(tex), nil
	default:
		return nil, &FormatError{Format: string(format)}
	}
}

package parsers

import (
	"context"
	"regexp"
	"strings"

	"github.com/jonathan/resume-structurer/internal/logger"
	"github.com/jonathan/resume-structurer/internal/types"
)

// GraphicsWarning is attached when a LaTeX source contains figures that are skipped.
const GraphicsWarning = "Graphics/diagrams in LaTeX file were not extracted"

// contentCommands keep their argument and drop the command.
var contentCommands = []string{
	"textbf", "textit", "emph", "underline", "texttt",
	"section", "subsection", "subsubsection",
	"title", "author", "date",
	"large", "Large", "LARGE", "huge", "Huge",
	"small", "footnotesize", "scriptsize",
	"centering", "raggedright", "raggedleft",
}

// removeCommands are dropped together with their arguments.
var removeCommands = []string{
	"documentclass", "usepackage", "pagestyle", "geometry",
	"setlength", "newcommand", "renewcommand", "definecolor",
	"hypersetup", "fancyhf", "fancyhead", "fancyfoot",
	"begin", "end", "input", "include",
}

type latexRule struct {
	re   *regexp.Regexp
	repl string
}

var (
	documentBodyRe = regexp.MustCompile(`(?s)\\begin\{document\}(.*?)\\end\{document\}`)
	latexRules     = buildLatexRules()
	spaceRunRe     = regexp.MustCompile(`[ \t]+`)
	blankRunRe     = regexp.MustCompile(`\n\s*\n\s*\n+`)
)

func buildLatexRules() []latexRule {
	var rules []latexRule
	for _, cmd := range removeCommands {
		rules = append(rules,
			latexRule{regexp.MustCompile(`\\` + cmd + `(?:\[[^\]]*\])?\{[^}]*\}`), ""},
			latexRule{regexp.MustCompile(`\\` + cmd + `(?:\[[^\]]*\])?`), ""},
		)
	}
	for _, cmd := range contentCommands {
		rules = append(rules, latexRule{regexp.MustCompile(`\\` + cmd + `\{([^}]*)\}`), "$1"})
	}
	return append(rules,
		latexRule{regexp.MustCompile(`\\item\s*`), "• "},
		latexRule{regexp.MustCompile(`\\href\{[^}]*\}\{([^}]*)\}`), "$1"},
		latexRule{regexp.MustCompile(`\\url\{([^}]*)\}`), "$1"},
		latexRule{regexp.MustCompile(`\\[a-zA-Z]+\*?(?:\[[^\]]*\])?(?:\{[^}]*\})?`), ""},
		latexRule{regexp.MustCompile(`[{}]`), ""},
	)
}

// LaTeXParser extracts readable text from LaTeX sources.
type LaTeXParser struct {
	MaxBytes int
}

// NewLaTeXParser returns a LaTeXParser with the default size limit.
func NewLaTeXParser() *LaTeXParser {
	return &LaTeXParser{MaxBytes: MaxTextFileSize}
}

// Extensions implements Parser.
func (p *LaTeXParser) Extensions() []string {
	return []string{".tex", ".latex"}
}

// CanHandle implements Parser.
func (p *LaTeXParser) CanHandle(filename string) bool {
	return hasExtension(p.Extensions(), filename)
}

// Validate implements Parser.
func (p *LaTeXParser) Validate(content []byte, filename string) error {
	if err := checkExtension(p.Extensions(), filename); err != nil {
		return err
	}
	if err := checkSize(content, p.MaxBytes); err != nil {
		return err
	}
	text, _ := Decode(content)
	if strings.TrimSpace(text) == "" {
		return ErrNoText
	}
	if !strings.Contains(text, `\`) {
		return ErrNotLaTeX
	}
	return nil
}

// Parse implements Parser.
func (p *LaTeXParser) Parse(_ context.Context, content []byte, filename string) (*types.ParseResult, error) {
	logger.Info().Str("filename", filename).Int("size", len(content)).Msg("parsing_latex")

	source, _ := Decode(content)
	text := ExtractLaTeXText(source)
	if text == "" {
		return nil, ErrNoText
	}

	var warnings []string
	if strings.Contains(source, `\begin{tikzpicture}`) || strings.Contains(source, `\includegraphics`) {
		warnings = append(warnings, GraphicsWarning)
	}

	logger.Info().Int("chars", len(text)).Msg("latex_parsed")
	return types.NewParseResult(text, 1, warnings), nil
}

// ExtractLaTeXText strips markup from a LaTeX source and returns its prose.
func ExtractLaTeXText(source string) string {
	text := stripLaTeXComments(source)

	if m := documentBodyRe.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	for _, r := range latexRules {
		text = r.re.ReplaceAllString(text, r.repl)
	}

	text = spaceRunRe.ReplaceAllString(text, " ")
	text = blankRunRe.ReplaceAllString(text, "\n\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// stripLaTeXComments cuts every line at its first % not preceded by a backslash.
func stripLaTeXComments(source string) string {
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		for j := 0; j < len(line); j++ {
			if line[j] == '%' && (j == 0 || line[j-1] != '\\') {
				lines[i] = line[:j]
				break
			}
		}
	}
	return strings.Join(lines, "\n")
}

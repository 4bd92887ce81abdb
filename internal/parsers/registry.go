package parsers

// Registry holds parsers in priority order.
type Registry struct {
	parsers []Parser
}

// NewRegistry returns a registry that selects among parsers in the given order.
func NewRegistry(parsers ...Parser) *Registry {
	return &Registry{parsers: parsers}
}

// DefaultRegistry returns the PDF, Markdown and LaTeX parsers, in that order.
func DefaultRegistry() *Registry {
	return NewRegistry(NewPDFParser(), NewMarkdownParser(), NewLaTeXParser())
}

// Select returns the first parser that can handle filename, or nil.
func (r *Registry) Select(filename string) Parser {
	for _, p := range r.parsers {
		if p.CanHandle(filename) {
			return p
		}
	}
	return nil
}

// SupportedExtensions lists every extension handled, in registration order.
func (r *Registry) SupportedExtensions() []string {
	var exts []string
	for _, p := range r.parsers {
		exts = append(exts, p.Extensions()...)
	}
	return exts
}

// IsSupported reports whether any parser can handle filename.
func (r *Registry) IsSupported(filename string) bool {
	return r.Select(filename) != nil
}

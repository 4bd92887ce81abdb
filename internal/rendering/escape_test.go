package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLaTeX(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "Built a cache in Go", "Built a cache in Go"},
		{"backslash", `C:\tmp`, `C:\textbackslash{}tmp`},
		{"braces", "map{k}", `map\{k\}`},
		{"money and percent", "Saved $1M at 99.9% uptime", `Saved \$1M at 99.9\% uptime`},
		{"ampersand and hash", "R&D issue #12", `R\&D issue \#12`},
		{"caret tilde underscore", "x^2 ~ snake_case", `x\textasciicircum{}2 \textasciitilde{} snake\_case`},
		{"all at once", `${}~&%#^_\`, `\$\{\}\textasciitilde{}\&\%\#\textasciicircum{}\_\textbackslash{}`},
		{"unicode untouched", "résumé α β", "résumé α β"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeLaTeX(tt.in))
		})
	}
}

package rendering

import "strings"

// latexEscaper escapes the characters LaTeX treats specially: \ { } $ & % # ^ _ ~
var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`%`, `\%`,
	`#`, `\#`,
	`^`, `\textasciicircum{}`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
)

// EscapeLaTeX escapes special LaTeX characters in text
func EscapeLaTeX(text string) string {
	return latexEscaper.Replace(text)
}

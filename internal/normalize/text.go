package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	monthYearRe  = regexp.MustCompile(`^(January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{4}$`)
	monthFirstRe = regexp.MustCompile(`^(\d{1,2})[/-](\d{4})$`)
	yearFirstRe  = regexp.MustCompile(`^(\d{4})-(\d{1,2})$`)

	horizontalSpaceRe = regexp.MustCompile(`[ \t]+`)
	blankLinesRe      = regexp.MustCompile(`\n{3,}`)

	ssnRe      = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
	passportRe = regexp.MustCompile(`\b[A-Z]{2}\d{7}\b`)
	cardRe     = regexp.MustCompile(`\b\d{4}[- ]?\d{4}[- ]?\d{4}[- ]?\d{4}\b`)
)

// Redacted replaces sensitive values removed by RemoveSensitiveInfo.
const Redacted = "[REDACTED]"

var ongoing = map[string]bool{"present": true, "current": true, "now": true, "ongoing": true}

// Date rewrites numeric month/year dates as "Month YYYY" and ongoing markers
// as "Present". Anything else is returned trimmed.
func Date(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || monthYearRe.MatchString(s) {
		return s
	}
	if ongoing[strings.ToLower(s)] {
		return "Present"
	}
	if m := monthFirstRe.FindStringSubmatch(s); m != nil {
		if out, ok := monthYear(m[1], m[2]); ok {
			return out
		}
	}
	if m := yearFirstRe.FindStringSubmatch(s); m != nil {
		if out, ok := monthYear(m[2], m[1]); ok {
			return out
		}
	}
	return s
}

func monthYear(month, year string) (string, bool) {
	n, err := strconv.Atoi(month)
	if err != nil || n < 1 || n > 12 {
		return "", false
	}
	return fmt.Sprintf("%s %s", time.Month(n), year), true
}

var typographic = strings.NewReplacer(
	"’", "'",
	"‘", "'",
	"“", `"`,
	"”", `"`,
	"–", "-",
	"—", "-",
)

// CleanText replaces typographic quotes and dashes with ASCII, collapses
// horizontal whitespace and limits blank lines to one.
func CleanText(s string) string {
	if s == "" {
		return s
	}
	s = typographic.Replace(s)
	s = horizontalSpaceRe.ReplaceAllString(s, " ")
	s = blankLinesRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// RemoveSensitiveInfo redacts social security, passport and card numbers.
func RemoveSensitiveInfo(s string) string {
	s = ssnRe.ReplaceAllString(s, Redacted)
	s = passportRe.ReplaceAllString(s, Redacted)
	return cardRe.ReplaceAllString(s, Redacted)
}

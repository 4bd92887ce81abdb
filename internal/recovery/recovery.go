// Package recovery extracts the JSON object a model was asked to produce
// from its free-form answer.
package recovery

import (
	"encoding/json"
	"strings"

	"github.com/jonathan/resume-structurer/internal/apperr"
	"github.com/jonathan/resume-structurer/internal/logger"
	"github.com/jonathan/resume-structurer/internal/sanitize"
)

// Strategy tries to read a JSON object out of text.
type Strategy func(text string) (map[string]any, bool)

// Anchors are the substrings searched for, in priority order, when the
// whole answer is not valid JSON.
var Anchors = []string{
	`{"structured_resume":`,
	`"structured_resume":`,
	`{`,
}

const logPreviewLength = 200

// Strategies returns the ordered strategies Recover applies to the
// fence-stripped text: a direct parse followed by one per anchor.
func Strategies() []Strategy {
	out := []Strategy{Direct}
	for _, anchor := range Anchors {
		out = append(out, Anchored(anchor))
	}
	return out
}

// Recover strips code fences from raw and returns the first object any
// strategy yields. It fails with a *apperr.RecoveryError when none does.
func Recover(raw string) (map[string]any, error) {
	text := StripFences(raw)

	for i, strategy := range Strategies() {
		if i == 1 {
			logger.Info().Str("content_preview", sanitize.Preview(text, logPreviewLength)).Msg("attempting_json_repair")
		}
		if obj, ok := strategy(text); ok {
			return obj, nil
		}
	}

	logger.Error().Int("chars", len(raw)).Msg("json_parse_failed")
	return nil, apperr.NewRecoveryError("Could not extract valid JSON from LLM response", raw)
}

// Direct parses text as a single JSON object.
func Direct(text string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// Anchored returns a strategy that parses the span from the first occurrence
// of anchor to the last closing brace, adding an opening brace if the span
// does not start with one.
func Anchored(anchor string) Strategy {
	return func(text string) (map[string]any, bool) {
		start := strings.Index(text, anchor)
		if start < 0 {
			return nil, false
		}
		end := strings.LastIndex(text, "}")
		if end < start {
			return nil, false
		}
		candidate := text[start : end+1]
		if !strings.HasPrefix(candidate, "{") {
			candidate = "{" + candidate
		}
		return Direct(candidate)
	}
}

// StripFences removes a leading ```json (or bare ```) marker and a trailing ```.
func StripFences(text string) string {
	text = strings.TrimSpace(text)

	switch {
	case strings.HasPrefix(text, "```json"):
		text = strings.TrimPrefix(text, "```json")
	case strings.HasPrefix(text, "```"):
		text = strings.TrimPrefix(text, "```")
		// skip a language tag on the fence line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			tag := text[:idx]
			if len(tag) < 20 && !strings.ContainsAny(tag, " {") {
				text = text[idx+1:]
			}
		}
	}

	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

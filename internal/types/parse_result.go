package types

import "unicode/utf8"

// ParseResult is the text extracted from one uploaded file.
type ParseResult struct {
	Text           string   `json:"text"`
	PageCount      int      `json:"page_count"`
	CharacterCount int      `json:"character_count"`
	Warnings       []string `json:"warnings"`
}

// NewParseResult builds a ParseResult whose CharacterCount is the rune length of text.
// A page count below one is raised to one.
func NewParseResult(text string, pageCount int, warnings []string) *ParseResult {
	if pageCount < 1 {
		pageCount = 1
	}
	if warnings == nil {
		warnings = []string{}
	}
	return &ParseResult{
		Text:           text,
		PageCount:      pageCount,
		CharacterCount: utf8.RuneCountInString(text),
		Warnings:       warnings,
	}
}

// Package reconcile renames field-name variants a model commonly emits to
// the canonical resume field names before validation.
package reconcile

// ResumeKey is the top-level key holding the resume in a model response.
const ResumeKey = "structured_resume"

// Alias maps alternative field names in one resume section to a canonical name.
type Alias struct {
	Section   string
	Canonical string
	Variants  []string
}

// Aliases is the rename table. Variants are tried in order; the first one
// present wins.
var Aliases = []Alias{
	{Section: "experience", Canonical: "role", Variants: []string{"title"}},
	{Section: "experience", Canonical: "organization", Variants: []string{"company"}},
	{Section: "education", Canonical: "institution", Variants: []string{"school", "university"}},
	{Section: "projects", Canonical: "highlights", Variants: []string{"achievements", "bullets"}},
}

// Response reconciles the resume held under ResumeKey in a recovered model
// response. A response without a resume object is left untouched.
func Response(obj map[string]any) {
	resume, ok := obj[ResumeKey].(map[string]any)
	if !ok {
		return
	}
	Resume(resume)
}

// Resume applies the alias table to resume in place and wraps a single
// experience description string into a one-element list. Keys that are
// already canonical are never overwritten.
func Resume(resume map[string]any) {
	for _, alias := range Aliases {
		for _, entry := range entries(resume, alias.Section) {
			rename(entry, alias.Canonical, alias.Variants)
		}
	}

	for _, entry := range entries(resume, "experience") {
		if s, ok := entry["description"].(string); ok {
			entry["description"] = []any{s}
		}
	}
}

func rename(entry map[string]any, canonical string, variants []string) {
	if _, exists := entry[canonical]; exists {
		return
	}
	for _, v := range variants {
		if value, found := entry[v]; found {
			entry[canonical] = value
			delete(entry, v)
			return
		}
	}
}

// entries returns the object elements of resume[section]; anything else is skipped.
func entries(resume map[string]any, section string) []map[string]any {
	list, ok := resume[section].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if entry, ok := item.(map[string]any); ok {
			out = append(out, entry)
		}
	}
	return out
}

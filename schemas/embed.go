// Package schemas holds the JSON Schemas for the structured resume artifacts.
package schemas

import "embed"

// Schema file names.
const (
	CanonicalResume  = "canonical_resume.schema.json"
	DecisionLogEntry = "decision_log_entry.schema.json"
)

// Files lists every schema in this directory.
var Files = []string{CanonicalResume, DecisionLogEntry}

// FS holds the schema files.
//
//go:embed *.schema.json
var FS embed.FS

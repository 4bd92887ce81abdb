package types

import (
	"github.com/go-playground/validator/v10"
)

// Structuring defaults.
const (
	DefaultProjectCount   = 3
	DefaultResumeLanguage = "English"
	DefaultVerbosity      = "Standard"
	DefaultPrimaryColor   = "blue"

	// MaxCustomInstructions is the longest custom instruction text accepted, in characters.
	MaxCustomInstructions = 2000
)

// StructuringSettings tunes the structuring prompt and the rendered output.
type StructuringSettings struct {
	ProjectCount   int    `json:"project_count" validate:"min=1,max=10"`
	ResumeLanguage string `json:"resume_language" validate:"required,max=50"`
	Verbosity      string `json:"verbosity" validate:"oneof=Concise Standard Detailed"`
	PrimaryColor   string `json:"primary_color" validate:"required,max=32"`
}

// DefaultStructuringSettings returns the settings used when a caller supplies none.
func DefaultStructuringSettings() StructuringSettings {
	return StructuringSettings{
		ProjectCount:   DefaultProjectCount,
		ResumeLanguage: DefaultResumeLanguage,
		Verbosity:      DefaultVerbosity,
		PrimaryColor:   DefaultPrimaryColor,
	}
}

// WithDefaults fills zero fields from DefaultStructuringSettings.
func (s StructuringSettings) WithDefaults() StructuringSettings {
	d := DefaultStructuringSettings()
	if s.ProjectCount == 0 {
		s.ProjectCount = d.ProjectCount
	}
	if s.ResumeLanguage == "" {
		s.ResumeLanguage = d.ResumeLanguage
	}
	if s.Verbosity == "" {
		s.Verbosity = d.Verbosity
	}
	if s.PrimaryColor == "" {
		s.PrimaryColor = d.PrimaryColor
	}
	return s
}

// Validate validates the StructuringSettings using the validator.
func (s *StructuringSettings) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}

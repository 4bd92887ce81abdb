// Package types provides type definitions for structured data used throughout the resume-structurer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Contact holds the candidate's contact details. Every field may be empty.
type Contact struct {
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	GitHub   string `json:"github,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
}

// TechnicalSkills groups skills by category. Each list is ordered and
// case-insensitively unique after normalization.
type TechnicalSkills struct {
	Languages           []string `json:"languages"`
	FrameworksLibraries []string `json:"frameworks_libraries"`
	ToolsPlatforms      []string `json:"tools_platforms"`
	Databases           []string `json:"databases"`
	Other               []string `json:"other"`
}

// Project is a notable project taken from the resume, GitHub, or both.
type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Source       string   `json:"source"`
	URL          string   `json:"url,omitempty"`
	Highlights   []string `json:"highlights"`
	StartDate    string   `json:"start_date,omitempty"`
	EndDate      string   `json:"end_date,omitempty"`
}

// Education is a single degree entry.
type Education struct {
	Degree             string   `json:"degree"`
	Institution        string   `json:"institution"`
	Location           string   `json:"location,omitempty"`
	GraduationDate     string   `json:"graduation_date,omitempty"`
	GPA                string   `json:"gpa,omitempty"`
	RelevantCoursework []string `json:"relevant_coursework"`
	Honors             []string `json:"honors"`
}

// Experience is a single work history entry. Description is never empty.
type Experience struct {
	Role         string   `json:"role"`
	Organization string   `json:"organization"`
	Location     string   `json:"location,omitempty"`
	StartDate    string   `json:"start_date,omitempty"`
	EndDate      string   `json:"end_date,omitempty"`
	Description  []string `json:"description"`
	Technologies []string `json:"technologies"`
}

// Certification is a professional certification.
type Certification struct {
	Name         string `json:"name"`
	Issuer       string `json:"issuer,omitempty"`
	Date         string `json:"date,omitempty"`
	CredentialID string `json:"credential_id,omitempty"`
	URL          string `json:"url,omitempty"`
}

// CanonicalResume is the fixed-shape resume record produced by structuring.
type CanonicalResume struct {
	Contact         Contact         `json:"contact"`
	Summary         string          `json:"summary,omitempty"`
	TechnicalSkills TechnicalSkills `json:"technical_skills"`
	Projects        []Project       `json:"projects"`
	Education       []Education     `json:"education"`
	Experience      []Experience    `json:"experience"`
	Certifications  []Certification `json:"certifications"`
	AdditionalInfo  string          `json:"additional_info,omitempty"`
}

// Fill replaces nil collections with empty ones so the record always
// serializes with lists rather than nulls.
func (r *CanonicalResume) Fill() {
	s := &r.TechnicalSkills
	for _, list := range []*[]string{&s.Languages, &s.FrameworksLibraries, &s.ToolsPlatforms, &s.Databases, &s.Other} {
		if *list == nil {
			*list = []string{}
		}
	}
	if r.Projects == nil {
		r.Projects = []Project{}
	}
	if r.Education == nil {
		r.Education = []Education{}
	}
	if r.Experience == nil {
		r.Experience = []Experience{}
	}
	if r.Certifications == nil {
		r.Certifications = []Certification{}
	}
	for i := range r.Projects {
		if r.Projects[i].Technologies == nil {
			r.Projects[i].Technologies = []string{}
		}
		if r.Projects[i].Highlights == nil {
			r.Projects[i].Highlights = []string{}
		}
	}
	for i := range r.Education {
		if r.Education[i].RelevantCoursework == nil {
			r.Education[i].RelevantCoursework = []string{}
		}
		if r.Education[i].Honors == nil {
			r.Education[i].Honors = []string{}
		}
	}
	for i := range r.Experience {
		if r.Experience[i].Description == nil {
			r.Experience[i].Description = []string{}
		}
		if r.Experience[i].Technologies == nil {
			r.Experience[i].Technologies = []string{}
		}
	}
}

// StructuredOutput is the result of a structuring run.
type StructuredOutput struct {
	StructuredResume CanonicalResume    `json:"structured_resume"`
	DecisionLog      []DecisionLogEntry `json:"decision_log"`
}

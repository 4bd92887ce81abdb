// Package rendering turns a canonical resume into Markdown, JSON or LaTeX.
package rendering

import (
	"embed"
	"strings"
	"sync"
	"text/template"

	"github.com/jonathan/resume-structurer/internal/types"
)

//go:embed templates/resume.tex.tmpl
var templateFS embed.FS

// accentColors maps primary color names to dvipsnames colors.
var accentColors = map[string]string{
	"blue":   "RoyalBlue",
	"navy":   "NavyBlue",
	"teal":   "TealBlue",
	"maroon": "Maroon",
	"purple": "Plum",
	"black":  "black",
}

const defaultAccent = "RoyalBlue"

// AccentColor returns the LaTeX color used for a primary color name.
func AccentColor(primaryColor string) string {
	if c, ok := accentColors[strings.ToLower(strings.TrimSpace(primaryColor))]; ok {
		return c
	}
	return defaultAccent
}

type latexData struct {
	Accent         string
	Name           string
	ContactLine    string
	LinkLine       string
	Summary        string
	Education      []latexEducation
	Experience     []latexExperience
	Projects       []latexProject
	Skills         []latexSkill
	Certifications []string
	AdditionalInfo string
}

type latexEducation struct {
	Institution string
	Location    string
	Degree      string
	Date        string
	Details     []string
}

type latexExperience struct {
	Role         string
	Organization string
	Location     string
	Dates        string
	Bullets      []string
}

type latexProject struct {
	Name         string
	Technologies string
	Dates        string
	Bullets      []string
}

type latexSkill struct {
	Label  string
	Values string
}

var (
	latexOnce sync.Once
	latexTmpl *template.Template
	latexErr  error
)

// parseTemplate parses the embedded LaTeX template once. Template actions use
// << >> so LaTeX braces need no quoting.
func parseTemplate() (*template.Template, error) {
	latexOnce.Do(func() {
		content, err := templateFS.ReadFile("templates/resume.tex.tmpl")
		if err != nil {
			latexErr = &TemplateError{Message: "failed to read template", Cause: err}
			return
		}
		latexTmpl, err = template.New("resume").Delims("<<", ">>").Parse(string(content))
		if err != nil {
			latexErr = &TemplateError{Message: "failed to parse template", Cause: err}
		}
	})
	return latexTmpl, latexErr
}

// RenderLaTeX renders resume as a LaTeX document. All resume text is escaped.
func RenderLaTeX(resume *types.CanonicalResume, primaryColor string) (string, error) {
	tmpl, err := parseTemplate()
	if err != nil {
		return "", err
	}

	var out strings.Builder
	if err := tmpl.Execute(&out, buildLaTeXData(resume, primaryColor)); err != nil {
		return "", &TemplateError{Message: "failed to execute template", Cause: err}
	}
	return out.String(), nil
}

func buildLaTeXData(r *types.CanonicalResume, primaryColor string) *latexData {
	name := r.Contact.FullName
	if strings.TrimSpace(name) == "" {
		name = "Your Name"
	}

	data := &latexData{
		Accent:         AccentColor(primaryColor),
		Name:           EscapeLaTeX(name),
		ContactLine:    contactLine(r.Contact),
		LinkLine:       linkLine(r.Contact),
		Summary:        EscapeLaTeX(r.Summary),
		AdditionalInfo: EscapeLaTeX(r.AdditionalInfo),
	}

	for _, e := range r.Education {
		var details []string
		if e.GPA != "" {
			details = append(details, "GPA: "+EscapeLaTeX(e.GPA))
		}
		if len(e.RelevantCoursework) > 0 {
			details = append(details, "Coursework: "+escapeJoin(e.RelevantCoursework))
		}
		if len(e.Honors) > 0 {
			details = append(details, "Honors: "+escapeJoin(e.Honors))
		}
		data.Education = append(data.Education, latexEducation{
			Institution: EscapeLaTeX(e.Institution),
			Location:    EscapeLaTeX(e.Location),
			Degree:      EscapeLaTeX(e.Degree),
			Date:        EscapeLaTeX(e.GraduationDate),
			Details:     details,
		})
	}

	for _, e := range r.Experience {
		data.Experience = append(data.Experience, latexExperience{
			Role:         EscapeLaTeX(e.Role),
			Organization: EscapeLaTeX(e.Organization),
			Location:     EscapeLaTeX(e.Location),
			Dates:        EscapeLaTeX(dateRange(e.StartDate, e.EndDate)),
			Bullets:      escapeAll(e.Description),
		})
	}

	for _, p := range r.Projects {
		bullets := escapeAll(p.Highlights)
		if p.Description != "" {
			bullets = append([]string{EscapeLaTeX(p.Description)}, bullets...)
		}
		data.Projects = append(data.Projects, latexProject{
			Name:         EscapeLaTeX(p.Name),
			Technologies: escapeJoin(p.Technologies),
			Dates:        EscapeLaTeX(dateRange(p.StartDate, p.EndDate)),
			Bullets:      bullets,
		})
	}

	for _, s := range skillRows(r.TechnicalSkills) {
		data.Skills = append(data.Skills, latexSkill{Label: s.label, Values: escapeJoin(s.values)})
	}

	for _, c := range r.Certifications {
		line := `\textbf{` + EscapeLaTeX(c.Name) + `}`
		if c.Issuer != "" {
			line += " -- " + EscapeLaTeX(c.Issuer)
		}
		if c.Date != "" {
			line += " (" + EscapeLaTeX(c.Date) + ")"
		}
		data.Certifications = append(data.Certifications, line)
	}

	return data
}

func contactLine(c types.Contact) string {
	var parts []string
	if c.Location != "" {
		parts = append(parts, `\small \faMapMarker* \hspace{.5pt} `+EscapeLaTeX(c.Location))
	}
	if c.Email != "" {
		email := EscapeLaTeX(c.Email)
		parts = append(parts, `\small \faEnvelope \hspace{.5pt} \href{mailto:`+email+`}{\underline{`+email+`}}`)
	}
	if c.Phone != "" {
		parts = append(parts, `\small \faPhone* \hspace{.5pt} `+EscapeLaTeX(c.Phone))
	}
	return strings.Join(parts, " ~ ")
}

func linkLine(c types.Contact) string {
	var parts []string
	if c.GitHub != "" {
		display := strings.TrimPrefix(c.GitHub, "https://github.com/")
		parts = append(parts, `\small \faGithub \hspace{.5pt} \href{`+EscapeLaTeX(c.GitHub)+`}{\underline{`+EscapeLaTeX(display)+`}}`)
	}
	if c.LinkedIn != "" {
		parts = append(parts, `\small \faLinkedin \hspace{.5pt} \href{`+EscapeLaTeX(c.LinkedIn)+`}{\underline{LinkedIn}}`)
	}
	if c.Website != "" {
		parts = append(parts, `\small \faGlobe \hspace{.5pt} \href{`+EscapeLaTeX(c.Website)+`}{\underline{Portfolio}}`)
	}
	return strings.Join(parts, " ~ ")
}

func escapeAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		out = append(out, EscapeLaTeX(s))
	}
	return out
}

func escapeJoin(items []string) string {
	return strings.Join(escapeAll(items), ", ")
}

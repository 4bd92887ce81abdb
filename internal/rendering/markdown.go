package rendering

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-structurer/internal/types"
)

type skillRow struct {
	label  string
	values []string
}

// skillRows lists the non-empty skill categories in display order.
func skillRows(s types.TechnicalSkills) []skillRow {
	all := []skillRow{
		{"Languages", s.Languages},
		{"Frameworks", s.FrameworksLibraries},
		{"Tools", s.ToolsPlatforms},
		{"Databases", s.Databases},
		{"Other", s.Other},
	}
	rows := all[:0]
	for _, row := range all {
		if len(row.values) > 0 {
			rows = append(rows, row)
		}
	}
	return rows
}

// dateRange formats start and end as "start - end", dropping missing parts.
func dateRange(start, end string) string {
	switch {
	case start != "" && end != "":
		return start + " - " + end
	case start != "":
		return start
	default:
		return end
	}
}

// RenderMarkdown renders resume as a Markdown document.
func RenderMarkdown(r *types.CanonicalResume) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	name := r.Contact.FullName
	if name == "" {
		name = "Resume"
	}
	line("# %s", name)
	line("")

	var contact []string
	for _, v := range []string{r.Contact.Email, r.Contact.Phone, r.Contact.Location} {
		if v != "" {
			contact = append(contact, v)
		}
	}
	for _, link := range []struct{ label, url string }{
		{"GitHub", r.Contact.GitHub},
		{"LinkedIn", r.Contact.LinkedIn},
		{"Website", r.Contact.Website},
	} {
		if link.url != "" {
			contact = append(contact, fmt.Sprintf("[%s](%s)", link.label, link.url))
		}
	}
	if len(contact) > 0 {
		line("%s", strings.Join(contact, " | "))
		line("")
	}

	if r.Summary != "" {
		line("## Summary")
		line("")
		line("%s", r.Summary)
		line("")
	}

	if rows := skillRows(r.TechnicalSkills); len(rows) > 0 {
		line("## Technical Skills")
		line("")
		for _, row := range rows {
			line("**%s:** %s", row.label, strings.Join(row.values, ", "))
		}
		line("")
	}

	if len(r.Projects) > 0 {
		line("## Projects")
		line("")
		for _, p := range r.Projects {
			title := "### " + p.Name
			if p.URL != "" {
				title += fmt.Sprintf(" ([Link](%s))", p.URL)
			}
			line("%s", title)
			line("")
			if p.Description != "" {
				line("%s", p.Description)
				line("")
			}
			if len(p.Technologies) > 0 {
				line("*Technologies: %s*", strings.Join(p.Technologies, ", "))
			}
			if len(p.Highlights) > 0 {
				line("")
				for _, h := range p.Highlights {
					line("- %s", h)
				}
			}
			line("")
		}
	}

	if len(r.Education) > 0 {
		line("## Education")
		line("")
		for _, e := range r.Education {
			line("### %s", e.Degree)
			line("**%s**", e.Institution)
			if e.GraduationDate != "" {
				line("Graduation: %s", e.GraduationDate)
			}
			if e.GPA != "" {
				line("GPA: %s", e.GPA)
			}
			if len(e.RelevantCoursework) > 0 {
				line("*Coursework: %s*", strings.Join(e.RelevantCoursework, ", "))
			}
			line("")
		}
	}

	if len(r.Experience) > 0 {
		line("## Experience")
		line("")
		for _, e := range r.Experience {
			line("### %s", e.Role)
			header := "**" + e.Organization + "**"
			if dates := dateRange(e.StartDate, e.EndDate); dates != "" {
				header += " | " + dates
			}
			line("%s", header)
			if e.Location != "" {
				line("*%s*", e.Location)
			}
			line("")
			for _, d := range e.Description {
				line("- %s", d)
			}
			if len(e.Technologies) > 0 {
				line("")
				line("*Technologies: %s*", strings.Join(e.Technologies, ", "))
			}
			line("")
		}
	}

	if len(r.Certifications) > 0 {
		line("## Certifications")
		line("")
		for _, c := range r.Certifications {
			item := "- **" + c.Name + "**"
			if c.Issuer != "" {
				item += " - " + c.Issuer
			}
			if c.Date != "" {
				item += " (" + c.Date + ")"
			}
			line("%s", item)
		}
		line("")
	}

	if r.AdditionalInfo != "" {
		line("## Additional Information")
		line("")
		line("%s", r.AdditionalInfo)
		line("")
	}

	return b.String()
}

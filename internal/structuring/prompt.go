package structuring

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/resume-structurer/internal/normalize"
	"github.com/jonathan/resume-structurer/internal/prompts"
	"github.com/jonathan/resume-structurer/internal/sanitize"
	"github.com/jonathan/resume-structurer/internal/types"
)

const (
	notProvided  = "Not provided"
	notAvailable = "N/A"

	// promptReadmeLength bounds each README excerpt embedded in the user prompt.
	promptReadmeLength = 500
)

// SystemPrompt returns the fixed system prompt: output shape, normalization
// rules and hard rules against fabrication.
func SystemPrompt() string {
	known := normalize.KnownTechnologies()
	sort.Strings(known)
	return prompts.Format(prompts.MustGet(prompts.Structuring, "system"), map[string]string{
		"KnownTechnologies": strings.Join(known, ", "),
	})
}

// UserPrompt embeds the sanitized evidence in tagged blocks followed by the
// numbered directives derived from settings.
func UserPrompt(resumeText string, github *types.GitHubData, customInstructions string, settings types.StructuringSettings) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line("%s", prompts.MustGet(prompts.Structuring, "user-intro"))
	line("")

	line("<unstructured_resume>")
	line("%s", orDefault(strings.TrimSpace(sanitize.Text(resumeText)), notProvided))
	line("</unstructured_resume>")
	line("")

	line("<github_data>")
	if github != nil {
		writeGitHub(&b, github)
	} else {
		line("%s", notProvided)
	}
	line("</github_data>")
	line("")

	custom := strings.TrimSpace(sanitize.Text(customInstructions))
	line("<custom_instructions>")
	line("%s", orDefault(custom, notProvided))
	line("</custom_instructions>")
	line("")

	line("%s", prompts.MustGet(prompts.Structuring, "user-goal"))
	b.WriteString(prompts.Format(prompts.MustGet(prompts.Structuring, "user-rules"), map[string]string{
		"Language":     settings.ResumeLanguage,
		"Verbosity":    settings.Verbosity,
		"ProjectCount": strconv.Itoa(settings.ProjectCount),
	}))
	if custom != "" {
		b.WriteByte('\n')
		b.WriteString(prompts.MustGet(prompts.Structuring, "user-rule-custom"))
	}
	return b.String()
}

func writeGitHub(b *strings.Builder, data *types.GitHubData) {
	p := data.Profile
	fmt.Fprintf(b, "PROFILE:\n")
	fmt.Fprintf(b, "  Username: %s\n", orDefault(p.Username, notAvailable))
	fmt.Fprintf(b, "  Name: %s\n", orDefault(sanitize.Text(p.Name), notAvailable))
	fmt.Fprintf(b, "  Bio: %s\n", orDefault(sanitize.Text(p.Bio), notAvailable))
	fmt.Fprintf(b, "  Location: %s\n", orDefault(sanitize.Text(p.Location), notAvailable))
	fmt.Fprintf(b, "  Email: %s\n", orDefault(p.Email, notAvailable))
	b.WriteByte('\n')

	fmt.Fprintf(b, "REPOSITORIES (%d total):\n", len(data.Repositories))
	for i, repo := range data.Repositories {
		fmt.Fprintf(b, "%d. %s\n", i+1, sanitize.Text(repo.Name))
		fmt.Fprintf(b, "   Description: %s\n", orDefault(sanitize.Text(repo.Description), "No description"))
		fmt.Fprintf(b, "   Languages: %s\n", strings.Join(repo.Languages, ", "))
		fmt.Fprintf(b, "   URL: %s\n", orDefault(repo.URL, notAvailable))
		fmt.Fprintf(b, "   Stars: %d\n", repo.Stars)
		if readme := sanitize.Preview(repo.Readme, promptReadmeLength); strings.TrimSpace(readme) != "" {
			fmt.Fprintf(b, "   README: %s\n", readme)
		}
		b.WriteByte('\n')
	}
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

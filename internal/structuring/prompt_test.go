package structuring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-structurer/internal/types"
)

func sampleGitHub() *types.GitHubData {
	return &types.GitHubData{
		Profile: types.GitHubProfile{Username: "octo", Name: "Octo\x00 Cat", Location: "Berlin"},
		Repositories: []types.GitHubRepository{
			{Name: "kv", Description: "Key value store", Languages: []string{"Go", "Shell"}, URL: "https://github.com/octo/kv", Stars: 3, Readme: strings.Repeat("r", 800)},
			{Name: "notes", Languages: []string{}},
		},
	}
}

func TestSystemPrompt(t *testing.T) {
	p := SystemPrompt()

	assert.Contains(t, p, "NEVER fabricate")
	assert.Contains(t, p, `"structured_resume"`)
	assert.Contains(t, p, "PostgreSQL")
	assert.NotContains(t, p, "{{.")
	assert.Equal(t, p, SystemPrompt(), "system prompt is deterministic")
}

func TestUserPrompt_ResumeOnly(t *testing.T) {
	p := UserPrompt("  Jane Doe\x00\nEngineer  ", nil, "", types.DefaultStructuringSettings())

	assert.True(t, strings.HasPrefix(p, "Please structure the following data into a canonical resume.\n\n"))
	assert.Contains(t, p, "<unstructured_resume>\nJane Doe\nEngineer\n</unstructured_resume>")
	assert.Contains(t, p, "<github_data>\nNot provided\n</github_data>")
	assert.Contains(t, p, "<custom_instructions>\nNot provided\n</custom_instructions>")
	assert.Contains(t, p, "2. Write the resume content in English.")
	assert.Contains(t, p, "3. Use a Standard writing style.")
	assert.Contains(t, p, "4. Select exactly 3 of the most relevant projects.")
	assert.NotContains(t, p, "5. Follow the custom instructions")
	assert.NotContains(t, p, "\x00")
}

func TestUserPrompt_GitHubAndInstructions(t *testing.T) {
	settings := types.StructuringSettings{ProjectCount: 5, ResumeLanguage: "German", Verbosity: "Concise", PrimaryColor: "red"}
	p := UserPrompt("", sampleGitHub(), "Emphasize backend work", settings)

	assert.Contains(t, p, "<unstructured_resume>\nNot provided\n</unstructured_resume>")
	assert.Contains(t, p, "PROFILE:\n  Username: octo\n  Name: Octo Cat\n  Bio: N/A\n  Location: Berlin\n  Email: N/A\n")
	assert.Contains(t, p, "REPOSITORIES (2 total):\n1. kv\n   Description: Key value store\n   Languages: Go, Shell\n   URL: https://github.com/octo/kv\n   Stars: 3\n   README: ")
	assert.Contains(t, p, "   README: "+strings.Repeat("r", 500)+"\n")
	assert.NotContains(t, p, strings.Repeat("r", 501))
	assert.Contains(t, p, "2. notes\n   Description: No description\n   Languages: \n   URL: N/A\n   Stars: 0\n\n")
	assert.Contains(t, p, "<custom_instructions>\nEmphasize backend work\n</custom_instructions>")
	assert.Contains(t, p, "4. Select exactly 5 of the most relevant projects.")
	assert.Contains(t, p, "2. Write the resume content in German.")
	assert.True(t, strings.HasSuffix(p, "5. Follow the custom instructions provided above. They take precedence over the rules above when they conflict."))
}

func TestUserPrompt_Deterministic(t *testing.T) {
	settings := types.DefaultStructuringSettings()
	a := UserPrompt("text", sampleGitHub(), "x", settings)
	b := UserPrompt("text", sampleGitHub(), "x", settings)
	assert.Equal(t, a, b)
}

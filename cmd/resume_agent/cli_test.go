package main

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/jonathan/resume-structurer/internal/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validOutput = `{
  "structured_resume": {
    "contact": {"full_name": "Jane Doe", "email": "jane@example.com"},
    "summary": "Backend engineer",
    "technical_skills": {"languages": ["Go"]},
    "projects": [],
    "education": [],
    "experience": [],
    "certifications": []
  },
  "decision_log": [
    {"section": "contact", "action": "included", "items": ["Jane Doe"], "reason": "From resume header", "source": "resume", "confidence": "high"}
  ]
}`

func TestLoadConfig_EnvOverrides(t *testing.T) {
	env := map[string]string{
		"LLM_PROVIDER": "anthropic",
		"LLM_API_KEY":  "test-key",
		"PORT":         "9090",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	c, err := loadConfig("", lookup)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", c.LLMProvider)
	assert.Equal(t, "test-key", c.LLMAPIKey)
	assert.Equal(t, 9090, c.Port)
	assert.Equal(t, int64(10<<20), c.MaxUploadBytes())
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.json"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestNewStructurer_RequiresAPIKey(t *testing.T) {
	c, err := loadConfig("", func(string) (string, bool) { return "", false })
	require.NoError(t, err)

	_, _, err = newStructurer(t.Context(), c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestReadInstructions(t *testing.T) {
	path := writeTestFile(t, "instructions.txt", "  Emphasize Go work.\n")

	tests := []struct {
		name    string
		inline  string
		path    string
		want    string
		wantErr bool
	}{
		{name: "inline only", inline: "Keep it short", want: "Keep it short"},
		{name: "empty", want: ""},
		{name: "from file", path: path, want: "Emphasize Go work."},
		{name: "both set", inline: "x", path: path, wantErr: true},
		{name: "missing file", path: filepath.Join(t.TempDir(), "nope.txt"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readInstructions(tt.inline, tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, "", map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, writeJSON(&buf, path, map[string]int{"b": 2}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"b": 2}`, string(data))
}

func TestValidateOutputFile(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validateOutputFile(writeTestFile(t, "out.json", validOutput)))
	})

	t.Run("missing structured_resume", func(t *testing.T) {
		err := validateOutputFile(writeTestFile(t, "out.json", `{"decision_log": []}`))
		var ve *schemas.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "structured_resume", ve.Errors[0].Field)
	})

	t.Run("bad decision entry", func(t *testing.T) {
		doc := `{"structured_resume": {"contact": {}}, "decision_log": [
			{"section": "skills", "action": "guessed", "items": [], "reason": "r", "source": "resume", "confidence": "high"}
		]}`
		err := validateOutputFile(writeTestFile(t, "out.json", doc))
		var ve *schemas.ValidationError
		require.ErrorAs(t, err, &ve)
		require.NotEmpty(t, ve.Errors)
		assert.Contains(t, ve.Errors[0].Field, "decision_log[0]")
	})

	t.Run("not json", func(t *testing.T) {
		err := validateOutputFile(writeTestFile(t, "out.json", "not json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse JSON file")
	})
}

func TestReadOutput(t *testing.T) {
	out, err := readOutput(writeTestFile(t, "out.json", validOutput))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", out.StructuredResume.Contact.FullName)
	require.Len(t, out.DecisionLog, 1)
	assert.Equal(t, "contact", out.DecisionLog[0].Section)
}

func TestCommands_FlagValidation(t *testing.T) {
	binaryPath := getBinaryPath(t)

	tests := []struct {
		name    string
		args    []string
		wantOut string
	}{
		{name: "parse missing file", args: []string{"parse"}, wantOut: "required flag"},
		{name: "github missing user", args: []string{"github"}, wantOut: "required flag"},
		{name: "validate missing file", args: []string{"validate"}, wantOut: "required flag"},
		{name: "export missing file", args: []string{"export"}, wantOut: "required flag"},
		{name: "structure without sources", args: []string{"structure"}, wantOut: "At least one data source"},
		{name: "parse unsupported type", args: []string{"parse", "--file", writeTestFile(t, "resume.docx", "x")}, wantOut: "Unsupported file type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binaryPath, tt.args...)
			output, err := cmd.CombinedOutput()
			assert.Error(t, err, "command should fail")
			assert.Contains(t, string(output), tt.wantOut)
		})
	}
}

func TestValidateCommand(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "validate", "--file", writeTestFile(t, "out.json", validOutput))
	output, err := cmd.CombinedOutput()
	assert.NoError(t, err, "command should succeed")
	assert.Contains(t, string(output), "Validation passed")

	cmd = exec.Command(binaryPath, "validate", "--kind", "resume", "--file", writeTestFile(t, "resume.json", `{"summary": "x"}`))
	output, err = cmd.CombinedOutput()
	assert.Error(t, err, "command should fail")
	assert.Contains(t, string(output), "Validation failed")
	if exitError, ok := err.(*exec.ExitError); ok {
		assert.Equal(t, 1, exitError.ExitCode(), "should exit with code 1 on validation failure")
	}
}

func TestExportCommand(t *testing.T) {
	binaryPath := getBinaryPath(t)
	input := writeTestFile(t, "out.json", validOutput)

	cmd := exec.Command(binaryPath, "export", "--file", input, "--format", "markdown")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, string(output))
	assert.Contains(t, string(output), "# Jane Doe")

	cmd = exec.Command(binaryPath, "export", "--file", input, "--format", "latex", "--color", "navy")
	output, err = cmd.CombinedOutput()
	require.NoError(t, err, string(output))
	assert.Contains(t, string(output), "NavyBlue")
}

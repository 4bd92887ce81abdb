package reconcile

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return m
}

func TestResume(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "experience aliases and description wrap",
			input:    `{"experience":[{"title":"Engineer","company":"Acme","description":"Did X"}]}`,
			expected: `{"experience":[{"role":"Engineer","organization":"Acme","description":["Did X"]}]}`,
		},
		{
			name:     "canonical key is not overwritten",
			input:    `{"experience":[{"role":"Lead","title":"Engineer","organization":"Acme","description":["a"]}]}`,
			expected: `{"experience":[{"role":"Lead","title":"Engineer","organization":"Acme","description":["a"]}]}`,
		},
		{
			name:     "school wins over university",
			input:    `{"education":[{"degree":"BSc","school":"MIT","university":"Harvard"}]}`,
			expected: `{"education":[{"degree":"BSc","institution":"MIT","university":"Harvard"}]}`,
		},
		{
			name:     "university alias",
			input:    `{"education":[{"degree":"BSc","university":"ETH"}]}`,
			expected: `{"education":[{"degree":"BSc","institution":"ETH"}]}`,
		},
		{
			name:     "project achievements and bullets",
			input:    `{"projects":[{"name":"a","achievements":["x"]},{"name":"b","bullets":["y"]},{"name":"c","highlights":[],"bullets":["z"]}]}`,
			expected: `{"projects":[{"name":"a","highlights":["x"]},{"name":"b","highlights":["y"]},{"name":"c","highlights":[],"bullets":["z"]}]}`,
		},
		{
			name:     "non-object entries and non-list sections are skipped",
			input:    `{"experience":["free text", {"company":"Acme"}],"education":"none"}`,
			expected: `{"experience":["free text", {"organization":"Acme"}],"education":"none"}`,
		},
		{
			name:     "list description untouched",
			input:    `{"experience":[{"role":"r","organization":"o","description":["a","b"]}]}`,
			expected: `{"experience":[{"role":"r","organization":"o","description":["a","b"]}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resume := decode(t, tt.input)
			Resume(resume)
			assert.Equal(t, decode(t, tt.expected), resume)
		})
	}
}

func TestResume_Idempotent(t *testing.T) {
	resume := decode(t, `{"experience":[{"title":"Engineer","company":"Acme","description":"Did X"}],"projects":[{"bullets":["b"]}]}`)
	Resume(resume)
	once, err := json.Marshal(resume)
	require.NoError(t, err)

	Resume(resume)
	twice, err := json.Marshal(resume)
	require.NoError(t, err)

	assert.JSONEq(t, string(once), string(twice))
}

func TestResponse(t *testing.T) {
	obj := decode(t, `{"structured_resume":{"experience":[{"title":"Engineer","company":"Acme","description":"Did X"}]},"decision_log":[{"title":"kept"}]}`)
	Response(obj)

	expected := decode(t, `{"structured_resume":{"experience":[{"role":"Engineer","organization":"Acme","description":["Did X"]}]},"decision_log":[{"title":"kept"}]}`)
	assert.Equal(t, expected, obj)
}

func TestResponse_NoResume(t *testing.T) {
	obj := decode(t, `{"experience":[{"title":"Engineer"}]}`)
	Response(obj)
	assert.Equal(t, decode(t, `{"experience":[{"title":"Engineer"}]}`), obj)

	obj = decode(t, `{"structured_resume":"oops"}`)
	Response(obj)
	assert.Equal(t, "oops", obj["structured_resume"])
}

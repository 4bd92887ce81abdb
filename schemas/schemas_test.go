package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	for _, schemaFile := range Files {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(".", schemaFile))
			require.NoError(t, err, "should be able to read schema file")

			var schemaObj map[string]any
			require.NoError(t, json.Unmarshal(data, &schemaObj), "schema file should be valid JSON: %s", schemaFile)

			assert.Contains(t, schemaObj, "$schema")
			assert.Equal(t, "object", schemaObj["type"])
		})
	}
}

func TestSchemaFiles_Compile(t *testing.T) {
	for _, schemaFile := range Files {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := FS.ReadFile(schemaFile)
			require.NoError(t, err)

			_, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
			assert.NoError(t, err)
		})
	}
}

func TestEmbeddedMatchesDisk(t *testing.T) {
	for _, schemaFile := range Files {
		embedded, err := FS.ReadFile(schemaFile)
		require.NoError(t, err)
		onDisk, err := os.ReadFile(schemaFile)
		require.NoError(t, err)
		assert.Equal(t, onDisk, embedded, schemaFile)
	}
}

func TestCanonicalResumeSchema_Examples(t *testing.T) {
	data, err := FS.ReadFile(CanonicalResume)
	require.NoError(t, err)
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	require.NoError(t, err)

	tests := []struct {
		name  string
		doc   string
		valid bool
	}{
		{name: "contact only", doc: `{"contact": {}}`, valid: true},
		{name: "nulls for optional fields", doc: `{"contact": {"phone": null}, "summary": null, "projects": null}`, valid: true},
		{name: "missing contact", doc: `{"summary": "x"}`, valid: false},
		{name: "bad project source", doc: `{"contact": {}, "projects": [{"name": "a", "description": "d", "technologies": [], "source": "blog"}]}`, valid: false},
		{name: "empty experience description", doc: `{"contact": {}, "experience": [{"role": "r", "organization": "o", "description": []}]}`, valid: false},
		{name: "education without institution", doc: `{"contact": {}, "education": [{"degree": "BSc"}]}`, valid: false},
		{name: "extra fields allowed", doc: `{"contact": {}, "notes": "x"}`, valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := schema.Validate(gojsonschema.NewStringLoader(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.Valid(), "%v", result.Errors())
		})
	}
}

package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeAndStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{name: "parsing", err: NewParsingError("bad pdf", nil), code: CodeParsingFailed, status: http.StatusBadRequest},
		{name: "unsupported type", err: NewUnsupportedTypeError("docx", []string{".pdf"}), code: CodeInvalidFileType, status: http.StatusBadRequest},
		{name: "too large", err: NewFileTooLargeError(20<<20, 10<<20), code: CodeFileTooLarge, status: http.StatusRequestEntityTooLarge},
		{name: "precondition", err: &PreconditionError{Message: "missing"}, code: CodeValidation, status: http.StatusBadRequest},
		{name: "github not found", err: &ExternalServiceError{Service: ServiceGitHub, NotFound: true}, code: CodeGitHubUserNotFound, status: http.StatusNotFound},
		{name: "github limited", err: &ExternalServiceError{Service: ServiceGitHub, Limited: true}, code: CodeGitHubAPI, status: http.StatusBadGateway},
		{name: "llm", err: &ExternalServiceError{Service: ServiceLLM, Message: "quota"}, code: CodeLLM, status: http.StatusBadGateway},
		{name: "recovery", err: NewRecoveryError("no json", "text"), code: CodeLLM, status: http.StatusBadGateway},
		{name: "schema", err: &SchemaValidationError{Message: "bad"}, code: CodeLLM, status: http.StatusBadGateway},
		{name: "not found", err: &NotFoundError{Resource: "Resume upload", ID: "7"}, code: CodeNotFound, status: http.StatusNotFound},
		{name: "unknown", err: errors.New("boom"), code: CodeInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.Equal(t, tt.code, Code(wrapped))
			assert.Equal(t, tt.status, HTTPStatus(wrapped))
		})
	}
}

func TestNewRecoveryError_BoundsPreview(t *testing.T) {
	raw := make([]byte, 2000)
	for i := range raw {
		raw[i] = 'x'
	}
	err := NewRecoveryError("no json", string(raw))
	assert.Len(t, err.Preview, maxPreview)
}

func TestSchemaValidationError_Message(t *testing.T) {
	err := &SchemaValidationError{
		Message: "structured_resume is invalid",
		Errors: []FieldError{
			{Field: "contact", Message: "contact is required"},
			{Field: "projects.0.source", Message: "must be one of resume, github, both"},
		},
	}
	assert.Contains(t, err.Error(), "contact: contact is required")
	assert.Contains(t, err.Error(), "projects.0.source")
}

func TestDetails(t *testing.T) {
	err := NewUnsupportedTypeError("docx", []string{".pdf", ".md"})
	assert.Equal(t, "Supported types: .pdf, .md", Details(fmt.Errorf("wrap: %w", err)))
	assert.Empty(t, Details(errors.New("other")))
}

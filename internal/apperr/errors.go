// Package apperr defines the error taxonomy shared by the synthesis pipeline and its boundaries.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error codes exposed at the HTTP boundary.
const (
	CodeParsingFailed      = "PARSING_FAILED"
	CodeInvalidFileType    = "INVALID_FILE_TYPE"
	CodeFileTooLarge       = "FILE_TOO_LARGE"
	CodeValidation         = "VALIDATION_ERROR"
	CodeGitHubAPI          = "GITHUB_API_ERROR"
	CodeGitHubUserNotFound = "GITHUB_USER_NOT_FOUND"
	CodeLLM                = "LLM_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeInternal           = "INTERNAL_ERROR"
)

// ParsingError means an uploaded file could not be read, is unsupported, or is oversized.
type ParsingError struct {
	Code    string
	Message string
	Details string
	Cause   error
}

func (e *ParsingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parsing failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parsing failed: %s", e.Message)
}

func (e *ParsingError) Unwrap() error {
	return e.Cause
}

// NewParsingError returns a generic PARSING_FAILED error.
func NewParsingError(message string, cause error) *ParsingError {
	return &ParsingError{Code: CodeParsingFailed, Message: message, Cause: cause}
}

// NewUnsupportedTypeError reports an extension no registered parser handles.
func NewUnsupportedTypeError(fileType string, supported []string) *ParsingError {
	return &ParsingError{
		Code:    CodeInvalidFileType,
		Message: fmt.Sprintf("Unsupported file type: %s", fileType),
		Details: fmt.Sprintf("Supported types: %s", strings.Join(supported, ", ")),
	}
}

// NewFileTooLargeError reports content larger than the configured upload limit.
func NewFileTooLargeError(size, maxSize int64) *ParsingError {
	return &ParsingError{
		Code: CodeFileTooLarge,
		Message: fmt.Sprintf("File size (%.1fMB) exceeds maximum allowed (%.1fMB)",
			float64(size)/1024/1024, float64(maxSize)/1024/1024),
	}
}

// PreconditionError means required inputs were missing or malformed.
type PreconditionError struct {
	Field   string
	Message string
}

func (e *PreconditionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("precondition failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("precondition failed: %s", e.Message)
}

// Service names an upstream dependency.
type Service string

// Upstream services.
const (
	ServiceGitHub Service = "github"
	ServiceLLM    Service = "llm"
)

// ExternalServiceError wraps a transport, auth or quota failure of an upstream service.
// The caller decides whether to retry.
type ExternalServiceError struct {
	Service  Service
	Message  string
	NotFound bool
	Limited  bool
	Cause    error
}

func (e *ExternalServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s service error: %s: %v", e.Service, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s service error: %s", e.Service, e.Message)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Cause
}

// maxPreview bounds the raw model text carried in diagnostics.
const maxPreview = 500

// RecoveryError means no JSON object could be extracted from the model response.
type RecoveryError struct {
	Message string
	Preview string
}

func (e *RecoveryError) Error() string {
	return fmt.Sprintf("response recovery failed: %s", e.Message)
}

// NewRecoveryError builds a RecoveryError keeping a bounded preview of raw.
func NewRecoveryError(message, raw string) *RecoveryError {
	preview := raw
	if len(preview) > maxPreview {
		preview = preview[:maxPreview]
	}
	return &RecoveryError{Message: message, Preview: preview}
}

// FieldError is a single schema violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SchemaValidationError means the recovered JSON does not match the canonical resume shape.
type SchemaValidationError struct {
	Message string
	Errors  []FieldError
	Payload any
}

func (e *SchemaValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("LLM response does not match expected schema: ")
	sb.WriteString(e.Message)
	for i, fe := range e.Errors {
		if i == 0 {
			sb.WriteString(": ")
		} else {
			sb.WriteString("; ")
		}
		sb.WriteString(fe.Field)
		sb.WriteString(": ")
		sb.WriteString(fe.Message)
	}
	return sb.String()
}

// NotFoundError reports a missing persisted record.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Code classifies err into one of the boundary error codes.
func Code(err error) string {
	var parsingErr *ParsingError
	var preconditionErr *PreconditionError
	var externalErr *ExternalServiceError
	var recoveryErr *RecoveryError
	var schemaErr *SchemaValidationError
	var notFoundErr *NotFoundError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &parsingErr):
		if parsingErr.Code != "" {
			return parsingErr.Code
		}
		return CodeParsingFailed
	case errors.As(err, &preconditionErr):
		return CodeValidation
	case errors.As(err, &externalErr):
		if externalErr.Service == ServiceGitHub {
			if externalErr.NotFound {
				return CodeGitHubUserNotFound
			}
			return CodeGitHubAPI
		}
		return CodeLLM
	case errors.As(err, &recoveryErr), errors.As(err, &schemaErr):
		return CodeLLM
	case errors.As(err, &notFoundErr):
		return CodeNotFound
	default:
		return CodeInternal
	}
}

// HTTPStatus maps err to the status code an HTTP boundary should answer with.
func HTTPStatus(err error) int {
	switch Code(err) {
	case CodeParsingFailed, CodeInvalidFileType, CodeValidation:
		return http.StatusBadRequest
	case CodeFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case CodeGitHubUserNotFound, CodeNotFound:
		return http.StatusNotFound
	case CodeGitHubAPI, CodeLLM:
		return http.StatusBadGateway
	case "":
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}

// Details returns the optional detail string attached to err, if any.
func Details(err error) string {
	var parsingErr *ParsingError
	if errors.As(err, &parsingErr) {
		return parsingErr.Details
	}
	return ""
}

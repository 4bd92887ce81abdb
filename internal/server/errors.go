package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/resume-structurer/internal/apperr"
	"github.com/jonathan/resume-structurer/internal/logger"
	"github.com/jonathan/resume-structurer/internal/server/middleware"
)

const codeRateLimited = "RATE_LIMIT_EXCEEDED"

// ErrorDetail is the body of every error response.
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse wraps ErrorDetail under "error".
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, code, message, details string) {
	s.jsonResponse(w, status, ErrorResponse{Error: ErrorDetail{
		Code:      code,
		Message:   message,
		Details:   details,
		RequestID: middleware.GetRequestID(r),
	}})
}

// handleError classifies err with apperr and writes the matching response.
// Unclassified errors are logged and reported without their text.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperr.Code(err)
	status := apperr.HTTPStatus(err)

	event := logger.Ctx(r.Context()).Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Ctx(r.Context()).Error()
	}
	event.Err(err).Str("code", code).Int("status", status).Msg("request_failed")

	s.writeError(w, r, status, code, publicMessage(err, code), apperr.Details(err))
}

// publicMessage returns the client-facing message for err.
func publicMessage(err error, code string) string {
	var parsingErr *apperr.ParsingError
	var preconditionErr *apperr.PreconditionError
	var externalErr *apperr.ExternalServiceError
	var recoveryErr *apperr.RecoveryError
	var schemaErr *apperr.SchemaValidationError

	switch {
	case errors.As(err, &parsingErr):
		return parsingErr.Message
	case errors.As(err, &preconditionErr):
		return preconditionErr.Message
	case errors.As(err, &externalErr):
		return externalErr.Message
	case errors.As(err, &recoveryErr):
		return "Failed to structure resume: " + recoveryErr.Message
	case errors.As(err, &schemaErr):
		return "Failed to structure resume: " + schemaErr.Error()
	case code == apperr.CodeNotFound:
		return err.Error()
	default:
		return "Internal server error"
	}
}

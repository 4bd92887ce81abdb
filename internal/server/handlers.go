package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/resume-structurer/internal/apperr"
)

const maxJSONBody = 1 << 20

var validate = validator.New()

// decodeJSON decodes a size-limited JSON body into v and validates its struct tags.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return &apperr.PreconditionError{Field: "body", Message: "Request body is empty"}
		}
		return &apperr.PreconditionError{Field: "body", Message: fmt.Sprintf("Invalid JSON body: %v", err)}
	}
	if err := validate.Struct(v); err != nil {
		return validationError(err)
	}
	return nil
}

// validationError converts validator errors into a PreconditionError naming the first field.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &apperr.PreconditionError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("%s failed the %q check", fe.Field(), fe.Tag()),
		}
	}
	return &apperr.PreconditionError{Message: err.Error()}
}

// pathID parses the {id} path value.
func pathID(r *http.Request) (uuid.UUID, error) {
	raw := r.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &apperr.PreconditionError{Field: "id", Message: fmt.Sprintf("Invalid ID: %q", raw)}
	}
	return id, nil
}

// queryInt reads a non-negative integer query parameter, defaulting when absent.
func queryInt(r *http.Request, name string, def, max int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || (max > 0 && n > max) {
		msg := fmt.Sprintf("%s must be a non-negative integer", name)
		if max > 0 {
			msg = fmt.Sprintf("%s must be an integer between 0 and %d", name, max)
		}
		return 0, &apperr.PreconditionError{Field: name, Message: msg}
	}
	return n, nil
}

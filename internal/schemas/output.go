package schemas

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/resume-structurer/internal/apperr"
	"github.com/jonathan/resume-structurer/internal/logger"
	"github.com/jonathan/resume-structurer/internal/types"
	schemafiles "github.com/jonathan/resume-structurer/schemas"
)

// Output validates a reconciled model response. The resume under
// "structured_resume" must validate in full; decision log entries that fail
// validation are dropped.
func Output(obj map[string]any) (*types.StructuredOutput, error) {
	raw, ok := obj["structured_resume"]
	if !ok {
		raw = map[string]any{}
	}

	resume, err := Resume(raw)
	if err != nil {
		return nil, err
	}
	return &types.StructuredOutput{
		StructuredResume: *resume,
		DecisionLog:      DecisionLog(obj["decision_log"]),
	}, nil
}

// Resume lower-cases project sources, validates raw against the canonical
// resume schema and decodes it. Failures are *apperr.SchemaValidationError
// carrying raw as payload.
func Resume(raw any) (*types.CanonicalResume, error) {
	if m, ok := raw.(map[string]any); ok {
		if projects, ok := m["projects"].([]any); ok {
			for _, p := range projects {
				if project, ok := p.(map[string]any); ok {
					lowerField(project, "source")
				}
			}
		}
	}

	if err := ValidateValue(schemafiles.CanonicalResume, raw); err != nil {
		logger.Error().Err(err).Msg("schema_validation_error")
		return nil, schemaError(err, raw)
	}

	var resume types.CanonicalResume
	if err := decode(raw, &resume); err != nil {
		logger.Error().Err(err).Msg("schema_validation_error")
		return nil, &apperr.SchemaValidationError{Message: err.Error(), Payload: raw}
	}
	return &resume, nil
}

// DecisionLog validates each entry of raw independently and returns the
// valid ones in order. A value that is not a list yields an empty log.
func DecisionLog(raw any) []types.DecisionLogEntry {
	list, _ := raw.([]any)
	out := make([]types.DecisionLogEntry, 0, len(list))

	for i, item := range list {
		if m, ok := item.(map[string]any); ok {
			lowerField(m, "action")
			lowerField(m, "source")
			lowerField(m, "confidence")
		}

		if err := ValidateValue(schemafiles.DecisionLogEntry, item); err != nil {
			logger.Warn().Int("index", i).Interface("entry", item).Str("error", err.Error()).Msg("invalid_decision_entry")
			continue
		}
		var entry types.DecisionLogEntry
		if err := decode(item, &entry); err != nil {
			logger.Warn().Int("index", i).Interface("entry", item).Str("error", err.Error()).Msg("invalid_decision_entry")
			continue
		}
		if entry.Items == nil {
			entry.Items = []string{}
		}
		out = append(out, entry)
	}
	return out
}

func lowerField(m map[string]any, key string) {
	if s, ok := m[key].(string); ok {
		m[key] = strings.ToLower(s)
	}
}

func decode(src, dst any) error {
	data, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}

func schemaError(err error, payload any) error {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	fields := make([]apperr.FieldError, 0, len(ve.Errors))
	for _, fe := range ve.Errors {
		fields = append(fields, apperr.FieldError{Field: fe.Field, Message: fe.Message})
	}
	return &apperr.SchemaValidationError{
		Message: "structured_resume is invalid",
		Errors:  fields,
		Payload: payload,
	}
}

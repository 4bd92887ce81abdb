package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/resume-structurer/internal/schemas"
	schemafiles "github.com/jonathan/resume-structurer/schemas"
	"github.com/spf13/cobra"
)

// Document kinds accepted by the validate command.
const (
	kindResume = "resume"
	kindOutput = "output"
)

var (
	validateFile string
	validateKind string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON document against the structured resume schemas",
	Long: `Validate a canonical resume (--kind resume) or a full structuring result
with its decision log (--kind output) against the embedded JSON Schemas.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "Path to JSON file (required)")
	validateCmd.Flags().StringVar(&validateKind, "kind", kindOutput, "Document kind: resume or output")

	if err := validateCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	var err error
	switch validateKind {
	case kindResume:
		err = schemas.ValidateFile(schemafiles.CanonicalResume, validateFile)
	case kindOutput:
		err = validateOutputFile(validateFile)
	default:
		return fmt.Errorf("unknown kind %q (want %s or %s)", validateKind, kindResume, kindOutput)
	}

	var ve *schemas.ValidationError
	if errors.As(err, &ve) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Validation failed:\n")
		for _, fe := range ve.Errors {
			fmt.Fprintf(cmd.ErrOrStderr(), "  - %s: %s\n", fe.Field, fe.Message)
		}
		return errors.New("document does not match schema")
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Validation passed")
	return nil
}

// validateOutputFile checks the structured_resume member and every
// decision_log entry of a structuring result.
func validateOutputFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}

	var doc struct {
		StructuredResume any   `json:"structured_resume"`
		DecisionLog      []any `json:"decision_log"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse JSON file: %w", err)
	}
	if doc.StructuredResume == nil {
		return &schemas.ValidationError{Errors: []schemas.FieldError{
			{Field: "structured_resume", Message: "is required"},
		}}
	}

	if err := schemas.ValidateValue(schemafiles.CanonicalResume, doc.StructuredResume); err != nil {
		return err
	}

	var all []schemas.FieldError
	for i, entry := range doc.DecisionLog {
		err := schemas.ValidateValue(schemafiles.DecisionLogEntry, entry)
		var ve *schemas.ValidationError
		if errors.As(err, &ve) {
			for _, fe := range ve.Errors {
				fe.Field = fmt.Sprintf("decision_log[%d].%s", i, fe.Field)
				all = append(all, fe)
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	if len(all) > 0 {
		return &schemas.ValidationError{Errors: all}
	}
	return nil
}

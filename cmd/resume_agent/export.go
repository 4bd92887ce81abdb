package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/resume-structurer/internal/rendering"
	"github.com/jonathan/resume-structurer/internal/types"
	"github.com/spf13/cobra"
)

var (
	exportFile   string
	exportFormat string
	exportColor  string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render a structuring result as markdown, json or LaTeX",
	Long: `Render the structured_resume of a saved structuring result (the JSON written
by the structure command) in the requested format.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFile, "file", "f", "", "Path to structuring result JSON (required)")
	exportCmd.Flags().StringVar(&exportFormat, "format", string(rendering.FormatMarkdown), "Export format: markdown, json or latex")
	exportCmd.Flags().StringVar(&exportColor, "color", types.DefaultPrimaryColor, "Primary color for LaTeX export")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file path (default stdout)")

	if err := exportCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	format, err := rendering.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	out, err := readOutput(exportFile)
	if err != nil {
		return err
	}

	data, err := rendering.Export(&out.StructuredResume, format, exportColor)
	if err != nil {
		return err
	}
	return writeBytes(cmd.OutOrStdout(), exportOut, data)
}

func readOutput(path string) (*types.StructuredOutput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read structuring result: %w", err)
	}
	var out types.StructuredOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse structuring result: %w", err)
	}
	return &out, nil
}

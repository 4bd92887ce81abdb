package main

import (
	"fmt"

	"github.com/jonathan/resume-structurer/internal/ingestion"
	"github.com/jonathan/resume-structurer/internal/logger"
	"github.com/jonathan/resume-structurer/internal/parsers"
	"github.com/spf13/cobra"
)

var (
	parseFile string
	parseOut  string
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Extract text from a resume file",
	Long: `Parse a PDF, Markdown or LaTeX resume and print the extracted text,
page count and warnings together with the file metadata as JSON.`,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseFile, "file", "f", "", "Path to resume file (required)")
	parseCmd.Flags().StringVarP(&parseOut, "out", "o", "", "Output file path (default stdout)")

	if err := parseCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, _ []string) error {
	upload, err := ingestion.IngestFile(cmd.Context(), parsers.DefaultRegistry(), parseFile, cfg.MaxUploadBytes())
	if err != nil {
		return err
	}

	logger.Info().
		Str("file", upload.Metadata.Filename).
		Str("file_type", upload.Metadata.FileType).
		Int("page_count", upload.Result.PageCount).
		Int("characters", upload.Result.CharacterCount).
		Msg("resume_parsed")

	return writeJSON(cmd.OutOrStdout(), parseOut, upload)
}

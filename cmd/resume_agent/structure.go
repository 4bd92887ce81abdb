package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/resume-structurer/internal/ingestion"
	"github.com/jonathan/resume-structurer/internal/logger"
	"github.com/jonathan/resume-structurer/internal/parsers"
	"github.com/jonathan/resume-structurer/internal/rendering"
	"github.com/jonathan/resume-structurer/internal/structuring"
	"github.com/jonathan/resume-structurer/internal/types"
	"github.com/spf13/cobra"
)

var (
	structureFile             string
	structureGitHubUser       string
	structureInstructions     string
	structureInstructionsFile string
	structureProjects         int
	structureLanguage         string
	structureVerbosity        string
	structureColor            string
	structureFormat           string
	structureOut              string
)

var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Structure a resume and/or GitHub profile with the model",
	Long: `Parse an optional resume file, fetch an optional GitHub profile and ask the
configured model to merge them into a canonical structured resume. At least
one of --file or --github-user is required.

Without --format the structured resume and decision log are written as JSON.
With --format the structured resume is exported as markdown, json or latex.`,
	RunE: runStructure,
}

func init() {
	f := structureCmd.Flags()
	f.StringVarP(&structureFile, "file", "f", "", "Path to resume file (PDF, Markdown or LaTeX)")
	f.StringVarP(&structureGitHubUser, "github-user", "g", "", "GitHub username to include")
	f.StringVar(&structureInstructions, "instructions", "", "Custom instructions for the model")
	f.StringVar(&structureInstructionsFile, "instructions-file", "", "Read custom instructions from a file")
	f.IntVar(&structureProjects, "projects", types.DefaultProjectCount, "Number of projects to include (1-10)")
	f.StringVar(&structureLanguage, "language", types.DefaultResumeLanguage, "Resume language")
	f.StringVar(&structureVerbosity, "verbosity", types.DefaultVerbosity, "Concise, Standard or Detailed")
	f.StringVar(&structureColor, "color", types.DefaultPrimaryColor, "Primary color for LaTeX export")
	f.StringVar(&structureFormat, "format", "", "Export format: markdown, json or latex")
	f.StringVarP(&structureOut, "out", "o", "", "Output file path (default stdout)")

	rootCmd.AddCommand(structureCmd)
}

func runStructure(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if structureFile == "" && structureGitHubUser == "" {
		return errors.New(structuring.NoSourceMessage)
	}

	var format rendering.Format
	if structureFormat != "" {
		f, err := rendering.ParseFormat(structureFormat)
		if err != nil {
			return err
		}
		format = f
	}

	instructions, err := readInstructions(structureInstructions, structureInstructionsFile)
	if err != nil {
		return err
	}

	req := structuring.Request{
		CustomInstructions: instructions,
		Settings: &types.StructuringSettings{
			ProjectCount:   structureProjects,
			ResumeLanguage: structureLanguage,
			Verbosity:      structureVerbosity,
			PrimaryColor:   structureColor,
		},
	}

	if structureFile != "" {
		upload, err := ingestion.IngestFile(ctx, parsers.DefaultRegistry(), structureFile, cfg.MaxUploadBytes())
		if err != nil {
			return err
		}
		for _, w := range upload.Result.Warnings {
			logger.Warn().Str("file", upload.Metadata.Filename).Msg(w)
		}
		req.ResumeText = upload.Result.Text
	}

	if structureGitHubUser != "" {
		data, err := newGitHubClient(cfg).FetchUserData(ctx, structureGitHubUser)
		if err != nil {
			return err
		}
		req.GitHub = data
	}

	service, client, err := newStructurer(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("llm_client_close_failed")
		}
	}()

	out, err := service.Structure(ctx, req)
	if err != nil {
		return err
	}

	if format == "" {
		return writeJSON(cmd.OutOrStdout(), structureOut, out)
	}
	data, err := rendering.Export(&out.StructuredResume, format, req.Settings.PrimaryColor)
	if err != nil {
		return err
	}
	return writeBytes(cmd.OutOrStdout(), structureOut, data)
}

// readInstructions returns inline instructions, or the contents of path when set.
func readInstructions(inline, path string) (string, error) {
	if path == "" {
		return inline, nil
	}
	if inline != "" {
		return "", fmt.Errorf("--instructions and --instructions-file are mutually exclusive")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read instructions file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Package main provides the resume_agent CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/jonathan/resume-structurer/internal/config"
	"github.com/jonathan/resume-structurer/internal/logger"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string

	// cfg is populated by the root command before any subcommand runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "resume_agent",
	Short: "Resume Structurer CLI and HTTP API Server",
	Long: `Resume Structurer turns uploaded resumes (PDF, Markdown, LaTeX) and public
GitHub activity into a canonical structured resume with a decision log
explaining where every field came from.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file (optional)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")
}

func setup(_ *cobra.Command, _ []string) error {
	loaded, err := loadConfig(configPath, os.LookupEnv)
	if err != nil {
		return err
	}
	if logLevel != "" {
		loaded.LogLevel = logLevel
	}
	cfg = loaded

	logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: os.Stderr,
	})
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

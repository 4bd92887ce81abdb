package main

import (
	"fmt"

	"github.com/jonathan/resume-structurer/internal/logger"
	"github.com/spf13/cobra"
)

var (
	githubUser string
	githubOut  string
)

var githubCmd = &cobra.Command{
	Use:   "github",
	Short: "Fetch a GitHub user's profile and top repositories",
	Long: `Fetch the public profile of a GitHub user and their highest scoring
original repositories, enriched with languages and README excerpts.`,
	RunE: runGitHub,
}

func init() {
	githubCmd.Flags().StringVarP(&githubUser, "user", "u", "", "GitHub username (required)")
	githubCmd.Flags().StringVarP(&githubOut, "out", "o", "", "Output file path (default stdout)")

	if err := githubCmd.MarkFlagRequired("user"); err != nil {
		panic(fmt.Sprintf("failed to mark user flag as required: %v", err))
	}

	rootCmd.AddCommand(githubCmd)
}

func runGitHub(cmd *cobra.Command, _ []string) error {
	data, err := newGitHubClient(cfg).FetchUserData(cmd.Context(), githubUser)
	if err != nil {
		return err
	}

	logger.Info().
		Str("username", data.Profile.Username).
		Int("repositories", len(data.Repositories)).
		Msg("github_fetched")

	return writeJSON(cmd.OutOrStdout(), githubOut, data)
}

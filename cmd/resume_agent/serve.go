package main

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-structurer/internal/db"
	"github.com/jonathan/resume-structurer/internal/logger"
	"github.com/jonathan/resume-structurer/internal/parsers"
	"github.com/jonathan/resume-structurer/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes REST endpoints for uploading resumes,
fetching GitHub data, structuring and exporting resumes.

When DATABASE_URL is set the server persists to PostgreSQL and applies the
schema on startup; otherwise it keeps everything in memory.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	port := cfg.Port
	if servePort > 0 {
		port = servePort
	}

	store, err := openStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}

	structurer, client, err := newStructurer(ctx, cfg)
	if err != nil {
		store.Close()
		return err
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("llm_client_close_failed")
		}
	}()

	srv, err := server.New(server.Config{
		Port:               port,
		MaxUploadBytes:     cfg.MaxUploadBytes(),
		AllowedOrigins:     cfg.Origins(),
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		GitHubCacheTTL:     cfg.GitHubCacheDuration(),
	}, server.Deps{
		Store:      store,
		Parsers:    parsers.DefaultRegistry(),
		GitHub:     newGitHubClient(cfg),
		Structurer: structurer,
	})
	if err != nil {
		store.Close()
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// openStore connects to PostgreSQL and migrates it, or returns an in-memory
// store when databaseURL is empty.
func openStore(ctx context.Context, databaseURL string) (db.Store, error) {
	if databaseURL == "" {
		logger.Warn().Msg("DATABASE_URL not set, using in-memory storage")
		return db.NewMemoryStore(), nil
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info().Msg("database_ready")
	return database, nil
}

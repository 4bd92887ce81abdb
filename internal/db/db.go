// Package db provides PostgreSQL storage for uploads, GitHub snapshots and
// structured resumes.
package db

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/resume-structurer/internal/types"
)

//go:embed schema.sql
var schemaSQL string

// Store is the persistence boundary used by the HTTP server. Getters return
// nil and no error when the record does not exist.
type Store interface {
	SaveUpload(ctx context.Context, in UploadInput) (*Upload, error)
	GetUpload(ctx context.Context, id uuid.UUID) (*Upload, error)
	UpsertGitHubData(ctx context.Context, data *types.GitHubData, fetchedAt, expiresAt time.Time) (*GitHubRecord, error)
	GetGitHubDataByUsername(ctx context.Context, username string, now time.Time) (*GitHubRecord, error)
	GetGitHubData(ctx context.Context, id uuid.UUID) (*GitHubRecord, error)
	SaveStructuredResume(ctx context.Context, in StructuredResumeInput) (*StructuredResume, error)
	GetStructuredResume(ctx context.Context, id uuid.UUID) (*StructuredResume, error)
	ListStructuredResumes(ctx context.Context, limit, offset int) ([]StructuredResume, error)
	Close()
}

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

var _ Store = (*DB)(nil)

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Migrate creates the tables and indexes if they do not exist.
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range statements(schemaSQL) {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// statements splits a SQL script on semicolons, dropping empty statements.
func statements(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

// NormalizeUsername returns the lookup key for a GitHub username.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// SaveUpload stores an upload and returns the stored record.
func (db *DB) SaveUpload(ctx context.Context, in UploadInput) (*Upload, error) {
	warnings := in.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	warningsJSON, err := json.Marshal(warnings)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal warnings: %w", err)
	}

	up := &Upload{
		ID:          uuid.New(),
		Filename:    in.Filename,
		FileType:    in.FileType,
		FileSize:    in.FileSize,
		ContentHash: in.ContentHash,
		Encoding:    in.Encoding,
		Text:        in.Text,
		PageCount:   in.PageCount,
		Warnings:    warnings,
	}
	err = db.pool.QueryRow(ctx,
		`INSERT INTO resume_uploads (id, filename, file_type, file_size, content_hash, encoding, extracted_text, page_count, warnings)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at`,
		up.ID, up.Filename, up.FileType, up.FileSize, up.ContentHash, up.Encoding, up.Text, up.PageCount, warningsJSON,
	).Scan(&up.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save upload: %w", err)
	}
	return up, nil
}

// GetUpload retrieves an upload by ID
func (db *DB) GetUpload(ctx context.Context, id uuid.UUID) (*Upload, error) {
	var up Upload
	var warningsJSON []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, filename, file_type, file_size, content_hash, encoding, extracted_text, page_count, warnings, created_at
		 FROM resume_uploads WHERE id = $1`,
		id,
	).Scan(&up.ID, &up.Filename, &up.FileType, &up.FileSize, &up.ContentHash, &up.Encoding, &up.Text, &up.PageCount, &warningsJSON, &up.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get upload: %w", err)
	}
	if err := json.Unmarshal(warningsJSON, &up.Warnings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal warnings: %w", err)
	}
	return &up, nil
}

// UpsertGitHubData stores the snapshot for data's user, replacing any earlier one.
func (db *DB) UpsertGitHubData(ctx context.Context, data *types.GitHubData, fetchedAt, expiresAt time.Time) (*GitHubRecord, error) {
	profileJSON, err := json.Marshal(data.Profile)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}
	repos := data.Repositories
	if repos == nil {
		repos = []types.GitHubRepository{}
	}
	reposJSON, err := json.Marshal(repos)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal repositories: %w", err)
	}

	rec := &GitHubRecord{
		Username:       NormalizeUsername(data.Profile.Username),
		Data:           *data,
		FetchedAt:      fetchedAt,
		CacheExpiresAt: expiresAt,
	}
	err = db.pool.QueryRow(ctx,
		`INSERT INTO github_data (id, username, profile, repositories, fetched_at, cache_expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (username) DO UPDATE
		 SET profile = EXCLUDED.profile, repositories = EXCLUDED.repositories,
		     fetched_at = EXCLUDED.fetched_at, cache_expires_at = EXCLUDED.cache_expires_at
		 RETURNING id`,
		uuid.New(), rec.Username, profileJSON, reposJSON, fetchedAt, expiresAt,
	).Scan(&rec.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert github data: %w", err)
	}
	return rec, nil
}

// GetGitHubDataByUsername returns the cached snapshot for username if it has
// not expired at now.
func (db *DB) GetGitHubDataByUsername(ctx context.Context, username string, now time.Time) (*GitHubRecord, error) {
	return db.getGitHubData(ctx,
		`SELECT id, username, profile, repositories, fetched_at, cache_expires_at
		 FROM github_data WHERE username = $1 AND cache_expires_at > $2`,
		NormalizeUsername(username), now,
	)
}

// GetGitHubData retrieves a snapshot by ID regardless of expiry.
func (db *DB) GetGitHubData(ctx context.Context, id uuid.UUID) (*GitHubRecord, error) {
	return db.getGitHubData(ctx,
		`SELECT id, username, profile, repositories, fetched_at, cache_expires_at
		 FROM github_data WHERE id = $1`,
		id,
	)
}

func (db *DB) getGitHubData(ctx context.Context, query string, args ...any) (*GitHubRecord, error) {
	var rec GitHubRecord
	var profileJSON, reposJSON []byte
	err := db.pool.QueryRow(ctx, query, args...).
		Scan(&rec.ID, &rec.Username, &profileJSON, &reposJSON, &rec.FetchedAt, &rec.CacheExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get github data: %w", err)
	}
	if err := json.Unmarshal(profileJSON, &rec.Data.Profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	if err := json.Unmarshal(reposJSON, &rec.Data.Repositories); err != nil {
		return nil, fmt.Errorf("failed to unmarshal repositories: %w", err)
	}
	return &rec, nil
}

// SaveStructuredResume stores a successful structuring result.
func (db *DB) SaveStructuredResume(ctx context.Context, in StructuredResumeInput) (*StructuredResume, error) {
	resumeJSON, err := json.Marshal(in.Output.StructuredResume)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resume: %w", err)
	}
	decisions := in.Output.DecisionLog
	if decisions == nil {
		decisions = []types.DecisionLogEntry{}
	}
	logJSON, err := json.Marshal(decisions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal decision log: %w", err)
	}
	settingsJSON, err := json.Marshal(in.Settings)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal settings: %w", err)
	}

	rec := &StructuredResume{
		ID:                 uuid.New(),
		ResumeUploadID:     in.ResumeUploadID,
		GitHubDataID:       in.GitHubDataID,
		StructuredResume:   in.Output.StructuredResume,
		DecisionLog:        decisions,
		CustomInstructions: in.CustomInstructions,
		Settings:           in.Settings,
	}
	err = db.pool.QueryRow(ctx,
		`INSERT INTO structured_resumes (id, resume_upload_id, github_data_id, structured_resume, decision_log, custom_instructions, settings)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		rec.ID, rec.ResumeUploadID, rec.GitHubDataID, resumeJSON, logJSON, rec.CustomInstructions, settingsJSON,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save structured resume: %w", err)
	}
	return rec, nil
}

const structuredResumeColumns = `id, resume_upload_id, github_data_id, structured_resume, decision_log, custom_instructions, settings, created_at`

// GetStructuredResume retrieves a structuring result by ID
func (db *DB) GetStructuredResume(ctx context.Context, id uuid.UUID) (*StructuredResume, error) {
	rec, err := scanStructuredResume(db.pool.QueryRow(ctx,
		`SELECT `+structuredResumeColumns+` FROM structured_resumes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get structured resume: %w", err)
	}
	return rec, nil
}

// ListStructuredResumes returns results newest first.
func (db *DB) ListStructuredResumes(ctx context.Context, limit, offset int) ([]StructuredResume, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+structuredResumeColumns+` FROM structured_resumes
		 ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list structured resumes: %w", err)
	}
	defer rows.Close()

	out := []StructuredResume{}
	for rows.Next() {
		rec, err := scanStructuredResume(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan structured resume: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list structured resumes: %w", err)
	}
	return out, nil
}

func scanStructuredResume(row pgx.Row) (*StructuredResume, error) {
	var rec StructuredResume
	var resumeJSON, logJSON, settingsJSON []byte
	if err := row.Scan(&rec.ID, &rec.ResumeUploadID, &rec.GitHubDataID, &resumeJSON, &logJSON,
		&rec.CustomInstructions, &settingsJSON, &rec.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(resumeJSON, &rec.StructuredResume); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resume: %w", err)
	}
	if err := json.Unmarshal(logJSON, &rec.DecisionLog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decision log: %w", err)
	}
	if err := json.Unmarshal(settingsJSON, &rec.Settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	return &rec, nil
}

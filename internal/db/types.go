package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-structurer/internal/types"
)

// Upload is a stored resume upload with its extracted text.
type Upload struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	FileType    string    `json:"file_type"`
	FileSize    int64     `json:"file_size"`
	ContentHash string    `json:"content_hash"`
	Encoding    string    `json:"encoding,omitempty"`
	Text        string    `json:"extracted_text"`
	PageCount   int       `json:"page_count"`
	Warnings    []string  `json:"warnings"`
	CreatedAt   time.Time `json:"created_at"`
}

// UploadInput holds the fields needed to store an upload.
type UploadInput struct {
	Filename    string
	FileType    string
	FileSize    int64
	ContentHash string
	Encoding    string
	Text        string
	PageCount   int
	Warnings    []string
}

// GitHubRecord is a cached GitHub snapshot for one user.
type GitHubRecord struct {
	ID             uuid.UUID        `json:"id"`
	Username       string           `json:"username"`
	Data           types.GitHubData `json:"data"`
	FetchedAt      time.Time        `json:"fetched_at"`
	CacheExpiresAt time.Time        `json:"cache_expires_at"`
}

// Fresh reports whether the snapshot is still valid at now.
func (r *GitHubRecord) Fresh(now time.Time) bool {
	return now.Before(r.CacheExpiresAt)
}

// StructuredResumeInput holds the fields needed to store a structuring result.
type StructuredResumeInput struct {
	ResumeUploadID     *uuid.UUID
	GitHubDataID       *uuid.UUID
	Output             types.StructuredOutput
	CustomInstructions string
	Settings           types.StructuringSettings
}

// StructuredResume is a stored structuring result.
type StructuredResume struct {
	ID                 uuid.UUID                 `json:"id"`
	ResumeUploadID     *uuid.UUID                `json:"resume_upload_id,omitempty"`
	GitHubDataID       *uuid.UUID                `json:"github_data_id,omitempty"`
	StructuredResume   types.CanonicalResume     `json:"structured_resume"`
	DecisionLog        []types.DecisionLogEntry  `json:"decision_log"`
	CustomInstructions string                    `json:"custom_instructions,omitempty"`
	Settings           types.StructuringSettings `json:"settings"`
	CreatedAt          time.Time                 `json:"created_at"`
}

package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-structurer/internal/apperr"
	"github.com/jonathan/resume-structurer/internal/db"
	"github.com/jonathan/resume-structurer/internal/ingestion"
	"github.com/jonathan/resume-structurer/internal/logger"
	"github.com/jonathan/resume-structurer/internal/rendering"
	"github.com/jonathan/resume-structurer/internal/sanitize"
	"github.com/jonathan/resume-structurer/internal/structuring"
	"github.com/jonathan/resume-structurer/internal/types"
)

// multipartOverhead is the allowance for multipart framing on top of the file size limit.
const multipartOverhead = 1 << 20

const (
	defaultListLimit = 20
	maxListLimit     = 100
	summaryPreview   = 300
)

// UploadResponse describes a stored upload.
type UploadResponse struct {
	UploadID       uuid.UUID `json:"upload_id"`
	Filename       string    `json:"filename"`
	FileType       string    `json:"file_type"`
	FileSize       int64     `json:"file_size"`
	PageCount      int       `json:"page_count"`
	CharacterCount int       `json:"character_count"`
	Warnings       []string  `json:"warnings"`
	TextPreview    string    `json:"text_preview"`
	CreatedAt      time.Time `json:"created_at"`
}

// UploadDetail adds the full extracted text to UploadResponse.
type UploadDetail struct {
	UploadResponse
	RawText string `json:"raw_text"`
}

func newUploadResponse(up *db.Upload) UploadResponse {
	return UploadResponse{
		UploadID:       up.ID,
		Filename:       up.Filename,
		FileType:       up.FileType,
		FileSize:       up.FileSize,
		PageCount:      up.PageCount,
		CharacterCount: len([]rune(up.Text)),
		Warnings:       up.Warnings,
		TextPreview:    sanitize.Truncate(up.Text, ingestion.PreviewLength),
		CreatedAt:      up.CreatedAt,
	}
}

func (s *Server) maxUploadBytes() int64 {
	if s.maxUpload > 0 {
		return s.maxUpload
	}
	return ingestion.DefaultMaxUploadSize
}

// handleUpload parses the multipart "file" field and stores the extracted text.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	limit := s.maxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.handleError(w, r, apperr.NewFileTooLargeError(max(r.ContentLength, limit+1), limit))
			return
		}
		s.handleError(w, r, &apperr.PreconditionError{Field: "file", Message: "A resume file must be sent in the 'file' form field"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		s.handleError(w, r, apperr.NewParsingError("Failed to read uploaded file", err))
		return
	}

	upload, err := ingestion.Ingest(r.Context(), s.parsers, header.Filename, content, limit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	stored, err := s.store.SaveUpload(r.Context(), db.UploadInput{
		Filename:    upload.Metadata.Filename,
		FileType:    upload.Metadata.FileType,
		FileSize:    int64(upload.Metadata.FileSize),
		ContentHash: upload.Metadata.Hash,
		Encoding:    upload.Metadata.Encoding,
		Text:        upload.Result.Text,
		PageCount:   upload.Result.PageCount,
		Warnings:    upload.Result.Warnings,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	logger.Ctx(r.Context()).Info().Str("upload_id", stored.ID.String()).Msg("resume_upload_stored")
	s.jsonResponse(w, http.StatusCreated, newUploadResponse(stored))
}

// handleGetUpload returns an upload including its full text.
func (s *Server) handleGetUpload(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	up, err := s.store.GetUpload(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if up == nil {
		s.handleError(w, r, &apperr.NotFoundError{Resource: "Resume upload", ID: id.String()})
		return
	}

	s.jsonResponse(w, http.StatusOK, UploadDetail{UploadResponse: newUploadResponse(up), RawText: up.Text})
}

// StructureRequest is the body of POST /api/resume/structure.
type StructureRequest struct {
	ResumeUploadID     *uuid.UUID                 `json:"resume_upload_id"`
	GitHubDataID       *uuid.UUID                 `json:"github_data_id"`
	CustomInstructions string                     `json:"custom_instructions"`
	Settings           *types.StructuringSettings `json:"settings" validate:"-"`
}

// StructureResponse identifies the stored result.
type StructureResponse struct {
	StructuredResumeID uuid.UUID `json:"structured_resume_id"`
	Status             string    `json:"status"`
	Message            string    `json:"message"`
}

// handleStructure loads the referenced sources, runs the structuring
// pipeline and stores the result. Nothing is stored when structuring fails.
func (s *Server) handleStructure(w http.ResponseWriter, r *http.Request) {
	var req StructureRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	ctx := r.Context()

	logger.Ctx(ctx).Info().
		Bool("resume", req.ResumeUploadID != nil).
		Bool("github", req.GitHubDataID != nil).
		Msg("structure_request")

	if req.ResumeUploadID == nil && req.GitHubDataID == nil {
		s.handleError(w, r, &apperr.PreconditionError{Field: "sources", Message: structuring.NoSourceMessage})
		return
	}

	var sreq structuring.Request
	if req.ResumeUploadID != nil {
		up, err := s.store.GetUpload(ctx, *req.ResumeUploadID)
		if err != nil {
			s.handleError(w, r, err)
			return
		}
		if up == nil {
			s.handleError(w, r, &apperr.NotFoundError{Resource: "Resume upload", ID: req.ResumeUploadID.String()})
			return
		}
		sreq.ResumeText = up.Text
	}
	if req.GitHubDataID != nil {
		rec, err := s.store.GetGitHubData(ctx, *req.GitHubDataID)
		if err != nil {
			s.handleError(w, r, err)
			return
		}
		if rec == nil {
			s.handleError(w, r, &apperr.NotFoundError{Resource: "GitHub data", ID: req.GitHubDataID.String()})
			return
		}
		sreq.GitHub = &rec.Data
	}
	sreq.CustomInstructions = req.CustomInstructions
	sreq.Settings = req.Settings

	out, err := s.structurer.Structure(ctx, sreq)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	settings := types.DefaultStructuringSettings()
	if req.Settings != nil {
		settings = req.Settings.WithDefaults()
	}
	rec, err := s.store.SaveStructuredResume(ctx, db.StructuredResumeInput{
		ResumeUploadID:     req.ResumeUploadID,
		GitHubDataID:       req.GitHubDataID,
		Output:             *out,
		CustomInstructions: req.CustomInstructions,
		Settings:           settings,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	logger.Ctx(ctx).Info().Str("structured_resume_id", rec.ID.String()).Msg("resume_structured_stored")
	s.jsonResponse(w, http.StatusCreated, StructureResponse{
		StructuredResumeID: rec.ID,
		Status:             "completed",
		Message:            "Resume structured successfully",
	})
}

// ResumeResponse is a stored structured resume with its decision log.
type ResumeResponse struct {
	ID          uuid.UUID                 `json:"id"`
	Resume      types.CanonicalResume     `json:"resume"`
	DecisionLog []types.DecisionLogEntry  `json:"decision_log"`
	Sources     map[string]bool           `json:"sources"`
	Settings    types.StructuringSettings `json:"settings"`
	CreatedAt   time.Time                 `json:"created_at"`
}

func (s *Server) loadResume(w http.ResponseWriter, r *http.Request) *db.StructuredResume {
	id, err := pathID(r)
	if err != nil {
		s.handleError(w, r, err)
		return nil
	}
	rec, err := s.store.GetStructuredResume(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return nil
	}
	if rec == nil {
		s.handleError(w, r, &apperr.NotFoundError{Resource: "Structured resume", ID: id.String()})
		return nil
	}
	return rec
}

// handleGetResume returns a structured resume with its decision log.
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	rec := s.loadResume(w, r)
	if rec == nil {
		return
	}
	s.jsonResponse(w, http.StatusOK, ResumeResponse{
		ID:          rec.ID,
		Resume:      rec.StructuredResume,
		DecisionLog: rec.DecisionLog,
		Sources: map[string]bool{
			types.SourceResume: rec.ResumeUploadID != nil,
			types.SourceGitHub: rec.GitHubDataID != nil,
		},
		Settings:  rec.Settings,
		CreatedAt: rec.CreatedAt,
	})
}

// ResumeSummary is one entry of the resume list.
type ResumeSummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Summary   string    `json:"summary,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ResumeList is the body of GET /api/resume.
type ResumeList struct {
	Items []ResumeSummary `json:"items"`
}

// handleListResumes lists structured resumes newest first.
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultListLimit, maxListLimit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0, 0)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	recs, err := s.store.ListStructuredResumes(r.Context(), limit, offset)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	items := make([]ResumeSummary, 0, len(recs))
	for _, rec := range recs {
		name := rec.StructuredResume.Contact.FullName
		if strings.TrimSpace(name) == "" {
			name = "Unknown"
		}
		summary := rec.StructuredResume.Summary
		if len([]rune(summary)) > summaryPreview {
			summary = sanitize.Truncate(summary, summaryPreview) + "..."
		}
		items = append(items, ResumeSummary{ID: rec.ID, Name: name, Summary: summary, CreatedAt: rec.CreatedAt})
	}
	s.jsonResponse(w, http.StatusOK, ResumeList{Items: items})
}

// handleExportResume renders a stored resume as Markdown, JSON or LaTeX.
// The LaTeX accent color comes from the stored settings unless ?color= is given.
func (s *Server) handleExportResume(w http.ResponseWriter, r *http.Request) {
	format, err := rendering.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.handleError(w, r, &apperr.PreconditionError{Field: "format", Message: err.Error()})
		return
	}

	rec := s.loadResume(w, r)
	if rec == nil {
		return
	}

	color := rec.Settings.PrimaryColor
	if c := r.URL.Query().Get("color"); c != "" {
		color = c
	}

	body, err := rendering.Export(&rec.StructuredResume, format, color)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=resume_%s.%s", rec.ID, format.Extension()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		logger.Ctx(r.Context()).Error().Err(err).Msg("export_write_failed")
	}
}

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-structurer/internal/apperr"
	"github.com/jonathan/resume-structurer/internal/db"
	"github.com/jonathan/resume-structurer/internal/structuring"
	"github.com/jonathan/resume-structurer/internal/types"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type stubStructurer struct {
	mu    sync.Mutex
	calls []structuring.Request
	out   *types.StructuredOutput
	err   error
}

func (s *stubStructurer) Structure(_ context.Context, req structuring.Request) (*types.StructuredOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, req)
	if s.err != nil {
		return nil, s.err
	}
	return s.out, nil
}

type stubGitHub struct {
	calls int
	data  *types.GitHubData
	err   error
}

func (s *stubGitHub) FetchUserData(_ context.Context, username string) (*types.GitHubData, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	data := *s.data
	data.Profile.Username = username
	return &data, nil
}

func sampleOutput() *types.StructuredOutput {
	resume := types.CanonicalResume{
		Contact: types.Contact{FullName: "Jane Doe", Email: "jane@example.com"},
		Summary: "Backend engineer.",
		Projects: []types.Project{{
			Name: "kv", Description: "Key-value store.", Technologies: []string{"Go"}, Source: types.SourceGitHub,
		}},
	}
	resume.Fill()
	return &types.StructuredOutput{
		StructuredResume: resume,
		DecisionLog: []types.DecisionLogEntry{{
			Section: "projects", Action: types.ActionIncluded, Items: []string{"kv"},
			Reason: "Most starred", Source: types.SourceGitHub, Confidence: types.ConfidenceHigh,
		}},
	}
}

type testEnv struct {
	handler    http.Handler
	store      *db.MemoryStore
	structurer *stubStructurer
	github     *stubGitHub
}

func newTestEnv(t *testing.T, cfg Config) *testEnv {
	t.Helper()
	env := &testEnv{
		store:      db.NewMemoryStore(),
		structurer: &stubStructurer{out: sampleOutput()},
		github: &stubGitHub{data: &types.GitHubData{
			Repositories: []types.GitHubRepository{
				{Name: "kv", URL: "https://github.com/octo/kv", Languages: []string{"Go"}, Topics: []string{}, Stars: 40, Score: 92},
			},
		}},
	}
	srv, err := New(cfg, Deps{
		Store:      env.store,
		GitHub:     env.github,
		Structurer: env.structurer,
		Now:        func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	env.handler = srv.Handler()
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func (e *testEnv) upload(t *testing.T, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/resume/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestNew_RequiresDeps(t *testing.T) {
	_, err := New(Config{}, Deps{})
	assert.Error(t, err)
	_, err = New(Config{}, Deps{Store: db.NewMemoryStore(), Structurer: &stubStructurer{}})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, Config{})
	w := env.do(t, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody[map[string]string](t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, Version, body["version"])
	assert.Equal(t, "2024-06-01T12:00:00Z", body["timestamp"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestUpload(t *testing.T) {
	env := newTestEnv(t, Config{MaxUploadBytes: 1024})

	w := env.upload(t, "cv.md", []byte("# Jane Doe\n\nGo developer in Berlin."))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	up := decodeBody[UploadResponse](t, w)
	assert.Equal(t, "cv.md", up.Filename)
	assert.Equal(t, "md", up.FileType)
	assert.Equal(t, 1, up.PageCount)
	assert.Contains(t, up.TextPreview, "Jane Doe")

	w = env.do(t, http.MethodGet, "/api/resume/upload/"+up.UploadID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decodeBody[UploadDetail](t, w)
	assert.Contains(t, detail.RawText, "Go developer in Berlin.")
}

func TestUpload_Errors(t *testing.T) {
	env := newTestEnv(t, Config{MaxUploadBytes: 64})

	tests := []struct {
		name       string
		filename   string
		content    []byte
		wantStatus int
		wantCode   string
	}{
		{"unsupported type", "cv.docx", []byte("hello"), http.StatusBadRequest, apperr.CodeInvalidFileType},
		{"too large", "cv.md", bytes.Repeat([]byte("a"), 100), http.StatusRequestEntityTooLarge, apperr.CodeFileTooLarge},
		{"whitespace only", "cv.md", []byte("   \n\n  "), http.StatusBadRequest, apperr.CodeParsingFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.upload(t, tt.filename, tt.content)
			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeBody[ErrorResponse](t, w)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.Equal(t, w.Header().Get("X-Request-ID"), body.Error.RequestID)
		})
	}

	t.Run("missing file field", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/resume/upload", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperr.CodeValidation, decodeBody[ErrorResponse](t, w).Error.Code)
	})

	t.Run("unsupported type lists supported extensions", func(t *testing.T) {
		w := env.upload(t, "cv.txt", []byte("hello"))
		body := decodeBody[ErrorResponse](t, w)
		assert.Contains(t, body.Error.Details, ".pdf")
		assert.Contains(t, body.Error.Details, ".tex")
	})
}

func TestGetUpload_NotFoundAndBadID(t *testing.T) {
	env := newTestEnv(t, Config{})

	w := env.do(t, http.MethodGet, "/api/resume/upload/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperr.CodeNotFound, decodeBody[ErrorResponse](t, w).Error.Code)

	w = env.do(t, http.MethodGet, "/api/resume/upload/42", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGitHubFetch_Caches(t *testing.T) {
	env := newTestEnv(t, Config{})

	w := env.do(t, http.MethodPost, "/api/github/fetch", GitHubFetchRequest{Username: " Octo "})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := decodeBody[GitHubFetchResponse](t, w)
	assert.False(t, first.Cached)
	assert.Equal(t, "Octo", first.Profile.Username)
	assert.Equal(t, 1, first.RepositoryCount)
	require.Len(t, first.TopRepositories, 1)
	assert.Equal(t, 92, first.TopRepositories[0].Score)

	w = env.do(t, http.MethodPost, "/api/github/fetch", GitHubFetchRequest{Username: "octo"})
	require.Equal(t, http.StatusOK, w.Code)
	second := decodeBody[GitHubFetchResponse](t, w)
	assert.True(t, second.Cached)
	assert.Equal(t, first.GitHubDataID, second.GitHubDataID)
	assert.Equal(t, 1, env.github.calls)
}

func TestGitHubFetch_Errors(t *testing.T) {
	env := newTestEnv(t, Config{})

	w := env.do(t, http.MethodPost, "/api/github/fetch", GitHubFetchRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperr.CodeValidation, decodeBody[ErrorResponse](t, w).Error.Code)

	w = env.do(t, http.MethodPost, "/api/github/fetch", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	env.github.err = &apperr.ExternalServiceError{Service: apperr.ServiceGitHub, Message: "GitHub user 'ghost' not found", NotFound: true}
	w = env.do(t, http.MethodPost, "/api/github/fetch", GitHubFetchRequest{Username: "ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody[ErrorResponse](t, w)
	assert.Equal(t, apperr.CodeGitHubUserNotFound, body.Error.Code)
	assert.Equal(t, "GitHub user 'ghost' not found", body.Error.Message)

	env.github.err = &apperr.ExternalServiceError{Service: apperr.ServiceGitHub, Message: "GitHub API rate limit exceeded", Limited: true}
	w = env.do(t, http.MethodPost, "/api/github/fetch", GitHubFetchRequest{Username: "busy"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, apperr.CodeGitHubAPI, decodeBody[ErrorResponse](t, w).Error.Code)
}

func TestStructure_FullFlow(t *testing.T) {
	env := newTestEnv(t, Config{})

	up := decodeBody[UploadResponse](t, env.upload(t, "cv.md", []byte("# Jane Doe\n\nGo developer.")))
	gh := decodeBody[GitHubFetchResponse](t, env.do(t, http.MethodPost, "/api/github/fetch", GitHubFetchRequest{Username: "octo"}))

	w := env.do(t, http.MethodPost, "/api/resume/structure", map[string]any{
		"resume_upload_id":    up.UploadID,
		"github_data_id":      gh.GitHubDataID,
		"custom_instructions": "Emphasize Go.",
		"settings":            map[string]any{"project_count": 2, "primary_color": "teal"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeBody[StructureResponse](t, w)
	assert.Equal(t, "completed", created.Status)

	require.Len(t, env.structurer.calls, 1)
	call := env.structurer.calls[0]
	assert.Contains(t, call.ResumeText, "Go developer.")
	require.NotNil(t, call.GitHub)
	assert.Equal(t, "kv", call.GitHub.Repositories[0].Name)
	assert.Equal(t, "Emphasize Go.", call.CustomInstructions)
	require.NotNil(t, call.Settings)
	assert.Equal(t, 2, call.Settings.ProjectCount)

	w = env.do(t, http.MethodGet, "/api/resume/"+created.StructuredResumeID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody[ResumeResponse](t, w)
	assert.Equal(t, "Jane Doe", got.Resume.Contact.FullName)
	assert.Len(t, got.DecisionLog, 1)
	assert.Equal(t, map[string]bool{"resume": true, "github": true}, got.Sources)
	assert.Equal(t, "teal", got.Settings.PrimaryColor)
	assert.Equal(t, types.DefaultVerbosity, got.Settings.Verbosity)

	w = env.do(t, http.MethodGet, "/api/resume", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeBody[ResumeList](t, w)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Jane Doe", list.Items[0].Name)

	w = env.do(t, http.MethodGet, "/api/export/"+created.StructuredResumeID.String()+"?format=latex", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/x-latex", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".tex")
	assert.Contains(t, w.Body.String(), "TealBlue")

	w = env.do(t, http.MethodGet, "/api/export/"+created.StructuredResumeID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "# Jane Doe"))

	w = env.do(t, http.MethodGet, "/api/export/"+created.StructuredResumeID.String()+"?format=docx", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStructure_Preconditions(t *testing.T) {
	env := newTestEnv(t, Config{})

	w := env.do(t, http.MethodPost, "/api/resume/structure", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody[ErrorResponse](t, w)
	assert.Equal(t, apperr.CodeValidation, body.Error.Code)
	assert.Equal(t, structuring.NoSourceMessage, body.Error.Message)

	w = env.do(t, http.MethodPost, "/api/resume/structure", map[string]any{"resume_upload_id": uuid.New()})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPost, "/api/resume/structure", map[string]any{"github_data_id": uuid.New()})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPost, "/api/resume/structure", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, env.structurer.calls)
}

func TestStructure_FailureStoresNothing(t *testing.T) {
	env := newTestEnv(t, Config{})
	up := decodeBody[UploadResponse](t, env.upload(t, "cv.md", []byte("# Jane Doe")))

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unrecoverable response", apperr.NewRecoveryError("Could not extract valid JSON from LLM response", "nope"), http.StatusBadGateway, apperr.CodeLLM},
		{"model outage", &apperr.ExternalServiceError{Service: apperr.ServiceLLM, Message: "LLM API error: timeout"}, http.StatusBadGateway, apperr.CodeLLM},
		{"bad settings", &apperr.PreconditionError{Field: "settings", Message: "invalid"}, http.StatusBadRequest, apperr.CodeValidation},
		{"unexpected", assert.AnError, http.StatusInternalServerError, apperr.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env.structurer.err = tt.err
			w := env.do(t, http.MethodPost, "/api/resume/structure", map[string]any{"resume_upload_id": up.UploadID})
			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeBody[ErrorResponse](t, w)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			if tt.wantCode == apperr.CodeInternal {
				assert.Equal(t, "Internal server error", body.Error.Message)
			}
		})
	}

	list, err := env.store.ListStructuredResumes(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListResumes_Pagination(t *testing.T) {
	env := newTestEnv(t, Config{})

	for _, q := range []string{"?limit=-1", "?limit=101", "?offset=x"} {
		w := env.do(t, http.MethodGet, "/api/resume"+q, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}

	w := env.do(t, http.MethodGet, "/api/resume?limit=5&offset=0", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[]}`, w.Body.String())
}

func TestStructure_RateLimited(t *testing.T) {
	env := newTestEnv(t, Config{RateLimitPerMinute: 5})
	up := decodeBody[UploadResponse](t, env.upload(t, "cv.md", []byte("# Jane Doe")))

	w := env.do(t, http.MethodPost, "/api/resume/structure", map[string]any{"resume_upload_id": up.UploadID})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))

	w = env.do(t, http.MethodPost, "/api/resume/structure", map[string]any{"resume_upload_id": up.UploadID})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", decodeBody[ErrorResponse](t, w).Error.Code)
	assert.Equal(t, "12", w.Header().Get("Retry-After"))
	assert.Len(t, env.structurer.calls, 1)
}

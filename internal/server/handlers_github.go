package server

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/resume-structurer/internal/db"
	"github.com/jonathan/resume-structurer/internal/logger"
)

// topRepositories is how many repositories the fetch response summarizes.
const topRepositories = 5

// GitHubFetchRequest is the body of POST /api/github/fetch.
type GitHubFetchRequest struct {
	Username string `json:"username" validate:"required,max=100"`
}

// GitHubProfileSummary is the profile part of GitHubFetchResponse.
type GitHubProfileSummary struct {
	Username    string `json:"username"`
	Name        string `json:"name,omitempty"`
	Bio         string `json:"bio,omitempty"`
	Location    string `json:"location,omitempty"`
	Email       string `json:"email,omitempty"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
}

// GitHubRepoSummary is one of the top repositories in GitHubFetchResponse.
type GitHubRepoSummary struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	URL         string   `json:"url"`
	Languages   []string `json:"languages"`
	Stars       int      `json:"stars"`
	Forks       int      `json:"forks"`
	UpdatedAt   string   `json:"updated_at"`
	Score       int      `json:"score"`
}

// GitHubFetchResponse identifies the stored snapshot and summarizes it.
type GitHubFetchResponse struct {
	GitHubDataID    uuid.UUID            `json:"github_data_id"`
	Profile         GitHubProfileSummary `json:"profile"`
	RepositoryCount int                  `json:"repository_count"`
	TopRepositories []GitHubRepoSummary  `json:"top_repositories"`
	Cached          bool                 `json:"cached"`
}

// handleGitHubFetch returns the cached snapshot for a user while it is fresh,
// otherwise fetches, ranks and stores a new one.
func (s *Server) handleGitHubFetch(w http.ResponseWriter, r *http.Request) {
	var req GitHubFetchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	ctx := r.Context()
	username := strings.TrimSpace(req.Username)
	now := s.now()

	logger.Ctx(ctx).Info().Str("username", username).Msg("github_fetch_request")

	cached, err := s.store.GetGitHubDataByUsername(ctx, username, now)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if cached != nil {
		logger.Ctx(ctx).Info().Str("username", username).Msg("github_cache_hit")
		s.jsonResponse(w, http.StatusOK, newGitHubFetchResponse(cached, true))
		return
	}

	data, err := s.github.FetchUserData(ctx, username)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	rec, err := s.store.UpsertGitHubData(ctx, data, now, now.Add(s.cacheTTL))
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	logger.Ctx(ctx).Info().Str("username", username).Str("github_data_id", rec.ID.String()).Msg("github_data_stored")
	s.jsonResponse(w, http.StatusOK, newGitHubFetchResponse(rec, false))
}

func newGitHubFetchResponse(rec *db.GitHubRecord, cached bool) GitHubFetchResponse {
	p := rec.Data.Profile
	repos := rec.Data.Repositories

	top := make([]GitHubRepoSummary, 0, min(len(repos), topRepositories))
	for _, repo := range repos[:min(len(repos), topRepositories)] {
		top = append(top, GitHubRepoSummary{
			Name:        repo.Name,
			Description: repo.Description,
			URL:         repo.URL,
			Languages:   repo.Languages,
			Stars:       repo.Stars,
			Forks:       repo.Forks,
			UpdatedAt:   repo.UpdatedAt,
			Score:       repo.Score,
		})
	}

	return GitHubFetchResponse{
		GitHubDataID: rec.ID,
		Profile: GitHubProfileSummary{
			Username:    p.Username,
			Name:        p.Name,
			Bio:         p.Bio,
			Location:    p.Location,
			Email:       p.Email,
			PublicRepos: p.PublicRepos,
			Followers:   p.Followers,
		},
		RepositoryCount: len(repos),
		TopRepositories: top,
		Cached:          cached,
	}
}

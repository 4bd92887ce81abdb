// Package github fetches a user's profile and repositories from the GitHub
// REST API and ranks the repositories by relevance for a resume.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-structurer/internal/apperr"
	"github.com/jonathan/resume-structurer/internal/fetch"
	"github.com/jonathan/resume-structurer/internal/logger"
	"github.com/jonathan/resume-structurer/internal/sanitize"
	"github.com/jonathan/resume-structurer/internal/types"
)

// DefaultBaseURL is the public GitHub REST endpoint.
const DefaultBaseURL = "https://api.github.com"

// CacheDuration is how long fetched GitHub data stays fresh.
const CacheDuration = 24 * time.Hour

const (
	perPage          = 100
	maxRepoPages     = 10
	enrichLimit      = 4
	maxUsernameChars = 100
)

// Client talks to the GitHub REST API.
type Client struct {
	baseURL  string
	token    string
	opts     *fetch.Options
	now      func() time.Time
	maxRepos int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.opts.Client = hc }
}

// WithClock overrides the clock used for recency scoring.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithMaxRepos overrides how many ranked repositories are kept.
func WithMaxRepos(n int) Option {
	return func(c *Client) { c.maxRepos = n }
}

// NewClient creates a client for baseURL. An empty baseURL uses DefaultBaseURL;
// an empty token makes unauthenticated requests.
func NewClient(baseURL, token string, options ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
		opts:     fetch.DefaultOptions(),
		now:      time.Now,
		maxRepos: MaxRepos,
	}
	for _, o := range options {
		o(c)
	}
	return c
}

// CacheExpiry returns when data fetched at now should be refreshed.
func CacheExpiry(now time.Time) time.Time {
	return now.Add(CacheDuration)
}

type userResponse struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	Bio         string `json:"bio"`
	Location    string `json:"location"`
	Email       string `json:"email"`
	Blog        string `json:"blog"`
	Company     string `json:"company"`
	Hireable    bool   `json:"hireable"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
	AvatarURL   string `json:"avatar_url"`
	HTMLURL     string `json:"html_url"`
}

// FetchUserData returns the profile of username and its top-ranked repositories,
// each with languages and a README excerpt.
func (c *Client) FetchUserData(ctx context.Context, username string) (*types.GitHubData, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(username) > maxUsernameChars {
		return nil, &apperr.PreconditionError{Field: "username", Message: "username must be between 1 and 100 characters"}
	}
	logger.Info().Str("username", username).Msg("fetching_github_data")

	var user userResponse
	if err := c.getJSON(ctx, "/users/"+url.PathEscape(username), nil, &user); err != nil {
		return nil, c.classify(err, username)
	}

	repos, err := c.listRepositories(ctx, username)
	if err != nil {
		return nil, c.classify(err, username)
	}

	ranked := Rank(repos, c.now(), c.maxRepos)
	c.enrich(ctx, ranked)

	data := &types.GitHubData{
		Profile: types.GitHubProfile{
			Username:    user.Login,
			Name:        sanitize.Text(user.Name),
			Bio:         sanitize.Text(user.Bio),
			Location:    sanitize.Text(user.Location),
			Email:       user.Email,
			Blog:        user.Blog,
			Company:     sanitize.Text(user.Company),
			Hireable:    user.Hireable,
			PublicRepos: user.PublicRepos,
			Followers:   user.Followers,
			Following:   user.Following,
			AvatarURL:   user.AvatarURL,
			HTMLURL:     user.HTMLURL,
		},
		Repositories: make([]types.GitHubRepository, 0, len(ranked)),
	}
	for _, cand := range ranked {
		data.Repositories = append(data.Repositories, Digest(cand))
	}

	logger.Info().Str("username", username).Int("repo_count", len(data.Repositories)).Msg("github_data_fetched")
	return data, nil
}

func (c *Client) listRepositories(ctx context.Context, username string) ([]Repository, error) {
	var all []Repository
	for page := 1; page <= maxRepoPages; page++ {
		q := url.Values{}
		q.Set("type", "owner")
		q.Set("sort", "updated")
		q.Set("per_page", fmt.Sprint(perPage))
		q.Set("page", fmt.Sprint(page))

		var batch []Repository
		if err := c.getJSON(ctx, "/users/"+url.PathEscape(username)+"/repos", q, &batch); err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < perPage {
			break
		}
	}
	return all, nil
}

// enrich fills languages and README for each candidate. Failures are logged
// and leave the field empty.
func (c *Client) enrich(ctx context.Context, candidates []Candidate) {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(enrichLimit)

	for i := range candidates {
		cand := &candidates[i]
		owner := cand.Owner.Login
		g.Go(func() error {
			langs, err := c.fetchLanguages(gCtx, owner, cand.Name)
			if err != nil {
				logger.Warn().Err(err).Str("repo", cand.Name).Msg("languages_fetch_failed")
			} else {
				cand.Languages = langs
			}

			readme, err := c.fetchReadme(gCtx, owner, cand.Name)
			if err != nil {
				logger.Warn().Err(err).Str("repo", cand.Name).Msg("readme_fetch_failed")
			} else {
				cand.Readme = readme
			}
			return nil
		})
	}
	_ = g.Wait()
}

// fetchLanguages returns language names ordered by bytes of code, largest first.
func (c *Client) fetchLanguages(ctx context.Context, owner, repo string) ([]string, error) {
	var bytesByLang map[string]int
	if err := c.getJSON(ctx, repoPath(owner, repo, "languages"), nil, &bytesByLang); err != nil {
		return nil, err
	}
	langs := make([]string, 0, len(bytesByLang))
	for lang := range bytesByLang {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool {
		if bytesByLang[langs[i]] != bytesByLang[langs[j]] {
			return bytesByLang[langs[i]] > bytesByLang[langs[j]]
		}
		return langs[i] < langs[j]
	})
	return langs, nil
}

// fetchReadme returns the README rendered to HTML and reduced to plain text.
// A missing README is not an error.
func (c *Client) fetchReadme(ctx context.Context, owner, repo string) (string, error) {
	opts := c.options("application/vnd.github.html+json")
	result, err := fetch.URL(ctx, c.baseURL+repoPath(owner, repo, "readme"), opts)
	if err != nil {
		var fetchErr *fetch.Error
		if errors.As(err, &fetchErr) && fetchErr.StatusCode == http.StatusNotFound {
			return "", nil
		}
		return "", err
	}
	return fetch.ExtractMainText(string(result.Body), fetch.ReadmeSelectors())
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, v any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	_, err := fetch.JSON(ctx, u, c.options("application/vnd.github+json"), v)
	return err
}

func (c *Client) options(accept string) *fetch.Options {
	headers := map[string]string{
		"Accept":               accept,
		"X-GitHub-Api-Version": "2022-11-28",
	}
	if c.token != "" {
		headers["Authorization"] = "Bearer " + c.token
	}
	return &fetch.Options{
		Timeout:   c.opts.Timeout,
		UserAgent: c.opts.UserAgent,
		Headers:   headers,
		Client:    c.opts.Client,
	}
}

// classify maps a transport failure onto the GitHub error kinds.
func (c *Client) classify(err error, username string) error {
	var fetchErr *fetch.Error
	if !errors.As(err, &fetchErr) || fetchErr.StatusCode == 0 {
		logger.Error().Err(err).Str("username", username).Msg("github_api_error")
		return &apperr.ExternalServiceError{Service: apperr.ServiceGitHub, Message: "GitHub API request failed", Cause: err}
	}

	logger.Error().Err(err).Str("username", username).Int("status", fetchErr.StatusCode).Msg("github_api_error")
	switch fetchErr.StatusCode {
	case http.StatusNotFound:
		return &apperr.ExternalServiceError{
			Service:  apperr.ServiceGitHub,
			Message:  fmt.Sprintf("GitHub user '%s' not found", username),
			NotFound: true,
		}
	case http.StatusForbidden, http.StatusTooManyRequests:
		return &apperr.ExternalServiceError{
			Service: apperr.ServiceGitHub,
			Message: "GitHub API rate limit exceeded. Please try again later.",
			Limited: true,
			Cause:   err,
		}
	default:
		return &apperr.ExternalServiceError{
			Service: apperr.ServiceGitHub,
			Message: fmt.Sprintf("GitHub API error: HTTP status %d", fetchErr.StatusCode),
			Cause:   err,
		}
	}
}

func repoPath(owner, repo, suffix string) string {
	return "/repos/" + url.PathEscape(owner) + "/" + url.PathEscape(repo) + "/" + suffix
}

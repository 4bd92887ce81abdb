package github

import (
	"sort"
	"strings"
	"time"

	"github.com/jonathan/resume-structurer/internal/sanitize"
	"github.com/jonathan/resume-structurer/internal/types"
)

// Ranking limits.
const (
	MaxRepos            = 15
	ReadmePreviewLength = 2000
)

// Repository is a raw repository record as returned by the repos endpoint.
// Languages and Readme are filled in separately.
type Repository struct {
	Name        string     `json:"name"`
	Owner       Owner      `json:"owner"`
	Description string     `json:"description"`
	HTMLURL     string     `json:"html_url"`
	Language    string     `json:"language"`
	Topics      []string   `json:"topics"`
	Stars       int        `json:"stargazers_count"`
	Forks       int        `json:"forks_count"`
	Size        int        `json:"size"`
	Archived    bool       `json:"archived"`
	Fork        bool       `json:"fork"`
	CreatedAt   *time.Time `json:"created_at"`
	PushedAt    *time.Time `json:"pushed_at"`

	Languages []string `json:"-"`
	Readme    string   `json:"-"`
}

// Owner is the account a repository belongs to.
type Owner struct {
	Login string `json:"login"`
}

// Candidate is a repository that passed filtering, with its relevance score.
type Candidate struct {
	Repository
	Score int
}

// Include reports whether repo is worth ranking. Archived repositories,
// forks and empty repositories without a description are excluded.
func Include(repo Repository) bool {
	if repo.Archived || repo.Fork {
		return false
	}
	if strings.TrimSpace(repo.Description) == "" && repo.Size == 0 {
		return false
	}
	return true
}

// Score computes an additive relevance score for repo as of now.
func Score(repo Repository, now time.Time) int {
	score := 0

	if repo.PushedAt != nil {
		days := int(now.Sub(*repo.PushedAt).Hours() / 24)
		switch {
		case days < 30:
			score += 50
		case days < 90:
			score += 30
		case days < 180:
			score += 15
		}
	}

	score += min(repo.Stars*5, 50)
	score += min(repo.Forks*2, 20)

	if strings.TrimSpace(repo.Description) != "" {
		score += 10
	}
	if len(repo.Topics) > 0 {
		score += 10
	}
	if repo.Size > 10 && repo.Size < 100000 {
		score += 5
	}
	return score
}

// Rank filters repos, orders them by score descending and keeps at most
// limit. Equal scores keep their input order.
func Rank(repos []Repository, now time.Time, limit int) []Candidate {
	candidates := make([]Candidate, 0, len(repos))
	for _, repo := range repos {
		if Include(repo) {
			candidates = append(candidates, Candidate{Repository: repo, Score: Score(repo, now)})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// Digest converts a ranked candidate into the record handed to the prompt builder.
func Digest(c Candidate) types.GitHubRepository {
	languages := c.Languages
	if len(languages) == 0 && c.Language != "" {
		languages = []string{c.Language}
	}
	if languages == nil {
		languages = []string{}
	}
	topics := c.Topics
	if topics == nil {
		topics = []string{}
	}

	out := types.GitHubRepository{
		Name:            c.Name,
		Description:     sanitize.Text(c.Description),
		URL:             c.HTMLURL,
		Languages:       languages,
		PrimaryLanguage: c.Language,
		Topics:          topics,
		Stars:           c.Stars,
		Forks:           c.Forks,
		Readme:          sanitize.Preview(c.Readme, ReadmePreviewLength),
		Score:           c.Score,
	}
	if c.CreatedAt != nil {
		out.CreatedAt = c.CreatedAt.UTC().Format(time.RFC3339)
	}
	if c.PushedAt != nil {
		out.UpdatedAt = c.PushedAt.UTC().Format(time.RFC3339)
	}
	return out
}

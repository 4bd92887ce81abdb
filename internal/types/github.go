package types

// GitHubProfile is the subset of a GitHub user profile used for structuring.
type GitHubProfile struct {
	Username    string `json:"username"`
	Name        string `json:"name,omitempty"`
	Bio         string `json:"bio,omitempty"`
	Location    string `json:"location,omitempty"`
	Email       string `json:"email,omitempty"`
	Blog        string `json:"blog,omitempty"`
	Company     string `json:"company,omitempty"`
	Hireable    bool   `json:"hireable,omitempty"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	HTMLURL     string `json:"html_url,omitempty"`
}

// GitHubRepository is a ranked repository digest.
type GitHubRepository struct {
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	URL             string   `json:"url"`
	Languages       []string `json:"languages"`
	PrimaryLanguage string   `json:"primary_language,omitempty"`
	Topics          []string `json:"topics"`
	Stars           int      `json:"stars"`
	Forks           int      `json:"forks"`
	CreatedAt       string   `json:"created_at,omitempty"`
	UpdatedAt       string   `json:"updated_at,omitempty"`
	Readme          string   `json:"readme,omitempty"`
	Score           int      `json:"score"`
}

// GitHubData is a profile plus its ranked repositories.
type GitHubData struct {
	Profile      GitHubProfile      `json:"profile"`
	Repositories []GitHubRepository `json:"repositories"`
}

package github

// User represents a GitHub account as returned by the list and search endpoints
type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"login"`
	DisplayName string `json:"name,omitempty"`
	AvatarURL   string `json:"avatar_url"`
}

// UserDetail represents the profile shown above a user's repository list
type UserDetail struct {
	AvatarURL      string `json:"avatar_url"`
	Username       string `json:"login"`
	DisplayName    string `json:"name,omitempty"`
	FollowerCount  int    `json:"followers"`
	FollowingCount int    `json:"following"`
}

// RepositorySummary represents one entry of a user's repository list
type RepositorySummary struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	FullName       string `json:"full_name"`
	OwnerLogin     string `json:"owner_login"`
	OwnerAvatarURL string `json:"owner_avatar_url"`
	HTMLURL        string `json:"html_url"`
	Description    string `json:"description,omitempty"`
	Language       string `json:"language,omitempty"`
	StarCount      int    `json:"stargazers_count"`
}

// SearchResult is one page of a user search
type SearchResult struct {
	TotalCount        int  `json:"total_count"`
	IncompleteResults bool `json:"incomplete_results"`
	Page[User]
}

// TokenInfo contains information about the authenticated token
type TokenInfo struct {
	User   string   `json:"user"`
	Scopes []string `json:"scopes"`
}

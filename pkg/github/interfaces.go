package github

import "context"

// APIClient defines the GitHub operations the browse controllers depend on
type APIClient interface {
	// ListUsers lists accounts in ID order, starting after since (0 = from the beginning)
	ListUsers(ctx context.Context, since int64, perPage int) (Page[User], error)

	// GetUserDetail fetches a single user's profile
	GetUserDetail(ctx context.Context, username string) (*UserDetail, error)

	// ListUserRepos lists public repositories owned by username, 1-based page
	ListUserRepos(ctx context.Context, username string, perPage, page int) (Page[RepositorySummary], error)

	// SearchUsers runs a user search, 1-based page
	SearchUsers(ctx context.Context, query string, perPage, page int) (*SearchResult, error)
}

// Ensure Client implements the interface
var _ APIClient = (*Client)(nil)

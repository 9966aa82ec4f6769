package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// DefaultBaseURL is the public GitHub REST API
const DefaultBaseURL = "https://api.github.com/"

// ClientConfig holds the settings used to build a Client
type ClientConfig struct {
	// Token is a personal access token sent as a bearer token. Empty means
	// anonymous access, which GitHub limits to 60 requests per hour.
	Token string

	// BaseURL overrides DefaultBaseURL (GitHub Enterprise, tests)
	BaseURL string

	// Timeout bounds each HTTP request. Zero means no timeout.
	Timeout time.Duration

	Retry       *RetryConfig
	RateLimiter *RateLimiterConfig
	Logger      *logrus.Entry
}

// Client implements the APIClient interface using the GitHub REST API
type Client struct {
	client  *github.Client
	limiter *RateLimiter
	retry   *RetryConfig
	log     *logrus.Entry
}

// NewClient creates a new GitHub API client
func NewClient(cfg ClientConfig) (*Client, error) {
	log := cfg.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	if cfg.Token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: cfg.Token},
		)
		httpClient = oauth2.NewClient(ctx, ts)
		httpClient.Timeout = cfg.Timeout
	} else {
		log.Warn("No GitHub token configured, using anonymous access")
	}

	gh := github.NewClient(httpClient)

	if cfg.BaseURL != "" {
		baseURL, err := parseBaseURL(cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		gh.BaseURL = baseURL
	}

	retry := cfg.Retry
	if retry == nil {
		retry = DefaultRetryConfig()
	}

	return &Client{
		client:  gh,
		limiter: NewRateLimiter(cfg.RateLimiter),
		retry:   retry,
		log:     log.WithField("component", "github"),
	}, nil
}

// parseBaseURL validates an API root and ensures the trailing slash go-github requires
func parseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", raw, err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: missing host", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u, nil
}

// RateLimiter returns the limiter tracking this client's budget
func (c *Client) RateLimiter() *RateLimiter {
	return c.limiter
}

// ListUsers lists accounts in ID order, starting after since
func (c *Client) ListUsers(ctx context.Context, since int64, perPage int) (Page[User], error) {
	opts := &github.UserListOptions{
		Since:       since,
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var users []*github.User
	err := c.do(ctx, "users", func() (*github.Response, error) {
		var resp *github.Response
		var err error
		users, resp, err = c.client.Users.ListAll(ctx, opts)
		return resp, err
	})
	if err != nil {
		return Page[User]{}, err
	}

	return NewPage(convertUsers(users), perPage), nil
}

// GetUserDetail fetches a single user's profile
func (c *Client) GetUserDetail(ctx context.Context, username string) (*UserDetail, error) {
	if username == "" {
		// Users.Get with an empty name returns the authenticated user
		return nil, NewError(ErrorTypeNotFound, "username cannot be empty", nil)
	}

	var user *github.User
	err := c.do(ctx, fmt.Sprintf("user %s", username), func() (*github.Response, error) {
		var resp *github.Response
		var err error
		user, resp, err = c.client.Users.Get(ctx, username)
		return resp, err
	})
	if err != nil {
		return nil, err
	}

	return convertUserDetail(user), nil
}

// ListUserRepos lists public repositories owned by username
func (c *Client) ListUserRepos(ctx context.Context, username string, perPage, page int) (Page[RepositorySummary], error) {
	opts := &github.RepositoryListByUserOptions{
		ListOptions: github.ListOptions{PerPage: perPage, Page: page},
	}

	var repos []*github.Repository
	err := c.do(ctx, fmt.Sprintf("repositories for user %s", username), func() (*github.Response, error) {
		var resp *github.Response
		var err error
		repos, resp, err = c.client.Repositories.ListByUser(ctx, username, opts)
		return resp, err
	})
	if err != nil {
		return Page[RepositorySummary]{}, err
	}

	items := make([]RepositorySummary, 0, len(repos))
	for _, repo := range repos {
		items = append(items, convertRepository(repo))
	}

	return NewPage(items, perPage), nil
}

// SearchUsers runs a user search
func (c *Client) SearchUsers(ctx context.Context, query string, perPage, page int) (*SearchResult, error) {
	opts := &github.SearchOptions{
		ListOptions: github.ListOptions{PerPage: perPage, Page: page},
	}

	var result *github.UsersSearchResult
	err := c.do(ctx, fmt.Sprintf("user search %q", query), func() (*github.Response, error) {
		var resp *github.Response
		var err error
		result, resp, err = c.client.Search.Users(ctx, query, opts)
		return resp, err
	})
	if err != nil {
		return nil, err
	}

	return &SearchResult{
		TotalCount:        result.GetTotal(),
		IncompleteResults: result.GetIncompleteResults(),
		Page:              NewPage(convertUsers(result.Users), perPage),
	}, nil
}

// do runs one API call through the rate limiter and retry policy
func (c *Client) do(ctx context.Context, resource string, call func() (*github.Response, error)) error {
	return WithRetry(ctx, func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return WrapError(err, resource)
		}

		resp, err := call()
		if resp != nil {
			c.limiter.Update(resp.Rate)
			c.log.WithFields(logrus.Fields{
				"resource":  resource,
				"status":    resp.StatusCode,
				"remaining": resp.Rate.Remaining,
			}).Debug("GitHub API call")
		}
		if err != nil {
			return WrapError(err, resource)
		}
		return nil
	}, c.retry)
}

func convertUsers(users []*github.User) []User {
	items := make([]User, 0, len(users))
	for _, u := range users {
		items = append(items, User{
			ID:          u.GetID(),
			Username:    u.GetLogin(),
			DisplayName: u.GetName(),
			AvatarURL:   u.GetAvatarURL(),
		})
	}
	return items
}

func convertUserDetail(u *github.User) *UserDetail {
	return &UserDetail{
		AvatarURL:      u.GetAvatarURL(),
		Username:       u.GetLogin(),
		DisplayName:    u.GetName(),
		FollowerCount:  u.GetFollowers(),
		FollowingCount: u.GetFollowing(),
	}
}

func convertRepository(repo *github.Repository) RepositorySummary {
	return RepositorySummary{
		ID:             repo.GetID(),
		Name:           repo.GetName(),
		FullName:       repo.GetFullName(),
		OwnerLogin:     repo.GetOwner().GetLogin(),
		OwnerAvatarURL: repo.GetOwner().GetAvatarURL(),
		HTMLURL:        repo.GetHTMLURL(),
		Description:    repo.GetDescription(),
		Language:       repo.GetLanguage(),
		StarCount:      repo.GetStargazersCount(),
	}
}

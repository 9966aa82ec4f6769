package browse

import (
	"context"
	"fmt"
	"sync"

	"ghbrowse/pkg/github"
)

// fakeClient implements github.APIClient with scripted responses
type fakeClient struct {
	mu    sync.Mutex
	calls []string

	ListUsersFunc     func(ctx context.Context, since int64, perPage int) (github.Page[github.User], error)
	GetUserDetailFunc func(ctx context.Context, username string) (*github.UserDetail, error)
	ListUserReposFunc func(ctx context.Context, username string, perPage, page int) (github.Page[github.RepositorySummary], error)
	SearchUsersFunc   func(ctx context.Context, query string, perPage, page int) (*github.SearchResult, error)
}

func (f *fakeClient) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeClient) ListUsers(ctx context.Context, since int64, perPage int) (github.Page[github.User], error) {
	f.record(fmt.Sprintf("users since=%d per_page=%d", since, perPage))
	if f.ListUsersFunc == nil {
		return github.Page[github.User]{}, nil
	}
	return f.ListUsersFunc(ctx, since, perPage)
}

func (f *fakeClient) GetUserDetail(ctx context.Context, username string) (*github.UserDetail, error) {
	f.record(fmt.Sprintf("user %s", username))
	if f.GetUserDetailFunc == nil {
		return &github.UserDetail{Username: username}, nil
	}
	return f.GetUserDetailFunc(ctx, username)
}

func (f *fakeClient) ListUserRepos(ctx context.Context, username string, perPage, page int) (github.Page[github.RepositorySummary], error) {
	f.record(fmt.Sprintf("repos %s page=%d per_page=%d", username, page, perPage))
	if f.ListUserReposFunc == nil {
		return github.Page[github.RepositorySummary]{}, nil
	}
	return f.ListUserReposFunc(ctx, username, perPage, page)
}

func (f *fakeClient) SearchUsers(ctx context.Context, query string, perPage, page int) (*github.SearchResult, error) {
	f.record(fmt.Sprintf("search %q page=%d per_page=%d", query, page, perPage))
	if f.SearchUsersFunc == nil {
		return &github.SearchResult{}, nil
	}
	return f.SearchUsersFunc(ctx, query, perPage, page)
}

var _ github.APIClient = (*fakeClient)(nil)

// makeUsers returns users with IDs from..to inclusive
func makeUsers(from, to int64) []github.User {
	users := make([]github.User, 0, to-from+1)
	for id := from; id <= to; id++ {
		users = append(users, github.User{
			ID:        id,
			Username:  fmt.Sprintf("user%d", id),
			AvatarURL: fmt.Sprintf("https://avatars.example.com/u/%d", id),
		})
	}
	return users
}

func makeRepos(owner string, from, to int64) []github.RepositorySummary {
	repos := make([]github.RepositorySummary, 0, to-from+1)
	for id := from; id <= to; id++ {
		name := fmt.Sprintf("repo%d", id)
		repos = append(repos, github.RepositorySummary{
			ID:         id,
			Name:       name,
			FullName:   owner + "/" + name,
			OwnerLogin: owner,
			HTMLURL:    "https://github.com/" + owner + "/" + name,
		})
	}
	return repos
}

// drainErrors returns every error event currently buffered
func drainErrors(ch <-chan ErrorEvent) []ErrorEvent {
	var events []ErrorEvent
	for {
		select {
		case ev := <-ch:
			events = append(events, ev)
		default:
			return events
		}
	}
}

package browse

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"ghbrowse/pkg/github"
)

// RepositoriesOptions configures a RepositoriesController
type RepositoriesOptions struct {
	PageSize int
	Logger   *logrus.Entry
}

// RepositoriesController browses one user's profile and repositories
type RepositoriesController struct {
	client   github.APIClient
	pageSize int
	log      *logrus.Entry

	pager  *Paginator[github.RepositorySummary]
	errors *conflated[ErrorEvent]

	mu           sync.Mutex
	detail       github.UserDetail
	gen          uint64
	cancelDetail context.CancelFunc
}

// NewRepositoriesController creates an idle controller; call Start with a username
func NewRepositoriesController(client github.APIClient, opts RepositoriesOptions) *RepositoriesController {
	if opts.PageSize <= 0 {
		opts.PageSize = github.DefaultPageSize
	}
	log := opts.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithField("controller", "repositories")

	c := &RepositoriesController{
		client:   client,
		pageSize: opts.PageSize,
		log:      log,
		errors:   newConflated[ErrorEvent](),
	}
	c.pager = NewPaginator(c.fetch, c.reportError, log)
	return c
}

// Start loads username's profile and first repository page concurrently.
// A profile failure is reported on its own and leaves the list untouched.
// A later Start supersedes this one: its profile and its failure are dropped.
func (c *RepositoriesController) Start(ctx context.Context, username string) {
	detailCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.mu.Lock()
	if c.cancelDetail != nil {
		c.cancelDetail()
	}
	c.gen++
	gen := c.gen
	c.cancelDetail = cancel
	c.detail = github.UserDetail{}
	c.mu.Unlock()

	// Only the profile fetch returns its error; list failures are emitted
	// by the paginator.
	var g errgroup.Group
	g.Go(func() error {
		return c.loadDetail(detailCtx, gen, username)
	})
	g.Go(func() error {
		if c.current(gen) {
			c.pager.Start(ctx, RepoPage{Username: username, Page: 1})
		}
		return nil
	})
	if err := g.Wait(); err != nil && c.current(gen) {
		c.reportError(err)
	}
}

// LoadMore appends the next repository page. It returns false when nothing
// was fetched because a fetch is in flight or the listing is exhausted.
func (c *RepositoriesController) LoadMore(ctx context.Context) bool {
	return c.pager.LoadMore(ctx)
}

// Detail returns the profile loaded by the last Start, or the zero value
func (c *RepositoriesController) Detail() github.UserDetail {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.detail
}

// State returns a snapshot of the repository list
func (c *RepositoriesController) State() State[github.RepositorySummary] {
	return c.pager.State()
}

// Updates delivers a snapshot after every list change, latest wins
func (c *RepositoriesController) Updates() <-chan State[github.RepositorySummary] {
	return c.pager.Updates()
}

// ErrorEvents delivers each failure once, latest wins
func (c *RepositoriesController) ErrorEvents() <-chan ErrorEvent {
	return c.errors.recv()
}

// Close drops the fetches in flight
func (c *RepositoriesController) Close() {
	c.mu.Lock()
	c.gen++
	if c.cancelDetail != nil {
		c.cancelDetail()
	}
	c.mu.Unlock()
	c.pager.Cancel()
}

func (c *RepositoriesController) current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.gen
}

func (c *RepositoriesController) loadDetail(ctx context.Context, gen uint64, username string) error {
	detail, err := c.client.GetUserDetail(ctx, username)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		c.log.WithField("username", username).Debug("Dropping superseded profile")
		return nil
	}
	if err != nil {
		return err
	}
	c.detail = *detail
	return nil
}

func (c *RepositoriesController) fetch(ctx context.Context, token Token) ([]github.RepositorySummary, Token, error) {
	t, ok := token.(RepoPage)
	if !ok {
		return nil, nil, fmt.Errorf("repositories controller cannot follow token %v", token)
	}

	page, err := c.client.ListUserRepos(ctx, t.Username, c.pageSize, t.Page)
	if err != nil {
		return nil, nil, err
	}
	if !page.HasMore {
		return page.Items, None{}, nil
	}
	return page.Items, RepoPage{Username: t.Username, Page: t.Page + 1}, nil
}

func (c *RepositoriesController) reportError(err error) {
	c.log.WithError(err).Debug("Repositories fetch failed")
	c.errors.send(newErrorEvent(err))
}

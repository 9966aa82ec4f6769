package browse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"ghbrowse/pkg/github"
)

// DefaultSearchDebounce is how long QueryChanged waits for typing to pause
const DefaultSearchDebounce = 300 * time.Millisecond

// UsersOptions configures a UsersController
type UsersOptions struct {
	PageSize       int
	SearchDebounce time.Duration
	Logger         *logrus.Entry
}

// UsersController browses the plain user listing or a user search
type UsersController struct {
	client   github.APIClient
	pageSize int
	log      *logrus.Entry

	pager    *Paginator[github.User]
	errors   *conflated[ErrorEvent]
	debounce *debouncer
}

// NewUsersController creates an idle controller; call Start to load the first page
func NewUsersController(client github.APIClient, opts UsersOptions) *UsersController {
	if opts.PageSize <= 0 {
		opts.PageSize = github.DefaultPageSize
	}
	if opts.SearchDebounce <= 0 {
		opts.SearchDebounce = DefaultSearchDebounce
	}
	log := opts.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithField("controller", "users")

	c := &UsersController{
		client:   client,
		pageSize: opts.PageSize,
		log:      log,
		errors:   newConflated[ErrorEvent](),
		debounce: newDebouncer(opts.SearchDebounce),
	}
	c.pager = NewPaginator(c.fetch, c.reportError, log)
	return c
}

// Start loads the first page of the plain user listing, replacing the list
func (c *UsersController) Start(ctx context.Context) {
	c.pager.Start(ctx, FetchSince{})
}

// LoadMore appends the next page. It returns false when nothing was fetched
// because a fetch is in flight or the listing is exhausted.
func (c *UsersController) LoadMore(ctx context.Context) bool {
	return c.pager.LoadMore(ctx)
}

// ChangeQuery restarts the list for a submitted query. A blank query goes
// back to the plain listing; anything else starts a search at page 1.
func (c *UsersController) ChangeQuery(ctx context.Context, query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		c.Start(ctx)
		return
	}
	c.pager.Start(ctx, SearchPage{Query: query, Page: 1})
}

// QueryChanged handles a query that is still being typed. ChangeQuery runs
// once the input has been quiet for the debounce delay, with the latest query.
func (c *UsersController) QueryChanged(ctx context.Context, query string) {
	c.debounce.trigger(func() {
		c.ChangeQuery(ctx, query)
	})
}

// State returns a snapshot of the current list
func (c *UsersController) State() State[github.User] {
	return c.pager.State()
}

// Updates delivers a snapshot after every state change, latest wins
func (c *UsersController) Updates() <-chan State[github.User] {
	return c.pager.Updates()
}

// ErrorEvents delivers each fetch failure once, latest wins
func (c *UsersController) ErrorEvents() <-chan ErrorEvent {
	return c.errors.recv()
}

// Close drops any pending query change and the fetch in flight
func (c *UsersController) Close() {
	c.debounce.stop()
	c.pager.Cancel()
}

func (c *UsersController) fetch(ctx context.Context, token Token) ([]github.User, Token, error) {
	switch t := token.(type) {
	case FetchSince:
		page, err := c.client.ListUsers(ctx, t.Since, c.pageSize)
		if err != nil {
			return nil, nil, err
		}
		last, ok := page.Last()
		if !page.HasMore || !ok {
			return page.Items, None{}, nil
		}
		return page.Items, FetchSince{Since: last.ID}, nil

	case SearchPage:
		result, err := c.client.SearchUsers(ctx, t.Query, c.pageSize, t.Page)
		if err != nil {
			return nil, nil, err
		}
		c.log.WithFields(logrus.Fields{
			"query": t.Query,
			"page":  t.Page,
			"total": result.TotalCount,
		}).Debug("Search results")
		if !result.HasMore {
			return result.Items, None{}, nil
		}
		return result.Items, SearchPage{Query: t.Query, Page: t.Page + 1}, nil

	default:
		return nil, nil, fmt.Errorf("users controller cannot follow token %v", token)
	}
}

func (c *UsersController) reportError(err error) {
	c.log.WithError(err).Debug("Users fetch failed")
	c.errors.send(newErrorEvent(err))
}

package browse

import (
	"context"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"
)

// FetchFunc fetches the page described by token and returns its items
// together with the token for the page after it
type FetchFunc[T any] func(ctx context.Context, token Token) ([]T, Token, error)

// Paginator is the list state machine shared by the controllers. It is idle
// or fetching; at most one fetch is live at a time.
//
// Start always proceeds and supersedes a live fetch: the older request's
// context is cancelled and its result, success or failure, is dropped.
// LoadMore never supersedes; it is a no-op while a fetch is live or once
// the token is None.
type Paginator[T any] struct {
	fetch  FetchFunc[T]
	emit   func(error)
	log    *logrus.Entry
	events *conflated[State[T]]

	mu     sync.Mutex
	state  State[T]
	gen    uint64
	cancel context.CancelFunc
}

// NewPaginator creates an idle paginator with an empty list. emit receives
// every failure of a live fetch exactly once.
func NewPaginator[T any](fetch FetchFunc[T], emit func(error), log *logrus.Entry) *Paginator[T] {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Paginator[T]{
		fetch:  fetch,
		emit:   emit,
		log:    log,
		events: newConflated[State[T]](),
		state:  State[T]{Token: None{}},
	}
}

// State returns a snapshot of the current list
func (p *Paginator[T]) State() State[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.clone()
}

// Updates delivers the latest snapshot after every state change. Snapshots
// the consumer has not read yet are replaced by newer ones.
func (p *Paginator[T]) Updates() <-chan State[T] {
	return p.events.recv()
}

// Start resets the list and fetches the page described by first, replacing
// the items on success. It blocks until the fetch completes or is superseded.
func (p *Paginator[T]) Start(ctx context.Context, first Token) {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.gen++
	gen := p.gen
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.state = State[T]{Token: None{}, IsLoading: true}
	p.publishLocked()
	p.mu.Unlock()

	defer cancel()

	p.log.WithField("token", first.String()).Debug("Starting listing")
	items, next, err := p.fetch(ctx, first)
	p.finish(gen, true, items, next, err)
}

// LoadMore fetches the page described by the current token and appends it.
// It returns false without any effect while a fetch is live or when the
// token is None.
func (p *Paginator[T]) LoadMore(ctx context.Context) bool {
	p.mu.Lock()
	if p.state.IsLoading || IsNone(p.state.Token) {
		p.mu.Unlock()
		return false
	}
	gen := p.gen
	token := p.state.Token
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.state.IsLoading = true
	p.publishLocked()
	p.mu.Unlock()

	defer cancel()

	p.log.WithField("token", token.String()).Debug("Loading more")
	items, next, err := p.fetch(ctx, token)
	p.finish(gen, false, items, next, err)
	return true
}

// Cancel aborts the live fetch, if any, and drops its result
func (p *Paginator[T]) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.gen++
	if p.state.IsLoading {
		p.state.IsLoading = false
		p.publishLocked()
	}
}

func (p *Paginator[T]) finish(gen uint64, replace bool, items []T, next Token, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen {
		p.log.WithError(err).Debug("Dropping result superseded by a newer request")
		return
	}

	p.cancel = nil
	p.state.IsLoading = false

	if err != nil {
		p.log.WithError(err).Debug("Fetch failed")
		p.publishLocked()
		if p.emit != nil {
			p.emit(err)
		}
		return
	}

	if next == nil {
		next = None{}
	}
	if replace {
		p.state.Items = slices.Clone(items)
	} else {
		p.state.Items = append(p.state.Items, items...)
	}
	p.state.Token = next
	p.publishLocked()
}

func (p *Paginator[T]) publishLocked() {
	p.events.send(p.state.clone())
}

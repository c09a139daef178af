package client

import (
	"context"
	"errors"
	"sync"
)

// State is the coordinator's lifecycle phase.
type State int

const (
	StateIdle State = iota
	StateInitializing
	StateReady
)

// ErrLoadFailed is surfaced when both halves of the initial load fail.
var ErrLoadFailed = errors.New("failed to load journals")

// Fetcher is what the coordinator needs from the API client.
type Fetcher interface {
	ListMonths(ctx context.Context) ([]string, error)
	List(ctx context.Context, month string, page, limit int) (ListPage, error)
}

// DefaultCoordinatorLimit is the page size used when none is configured.
const DefaultCoordinatorLimit = 20

// Coordinator sequences the journal view's fetches: initial load, month
// switches, page navigation, and post-delete refresh. It is safe for the
// concurrent completions its own fetches produce; every request carries
// the (month, page) it was issued for and a completion whose tag no
// longer matches current state is discarded, so a late response for a
// superseded view can never clobber a newer one.
type Coordinator struct {
	api   Fetcher
	limit int

	mu         sync.Mutex
	state      State
	months     []string
	month      string // selected month filter, "" = unfiltered
	page       int
	rows       []Journal
	pagination Pagination
	loading    bool
	err        error
}

// CoordinatorOption customizes a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithPageLimit sets the page size for all listing fetches.
func WithPageLimit(limit int) CoordinatorOption {
	return func(c *Coordinator) {
		if limit > 0 {
			c.limit = limit
		}
	}
}

func NewCoordinator(api Fetcher, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		api:   api,
		limit: DefaultCoordinatorLimit,
		state: StateIdle,
		page:  1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Init performs the initial load. It runs at most once per coordinator;
// later calls are no-ops. The month index and the first unfiltered page
// are fetched concurrently and either may fail alone; only a double
// failure is surfaced as an error. When the month index is non-empty the
// newest month's first page is fetched as a refinement pass and replaces
// the unfiltered preview, trading a fast first paint for an extra fetch.
func (c *Coordinator) Init(ctx context.Context) {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return
	}
	c.state = StateInitializing
	c.loading = true
	c.mu.Unlock()

	var (
		wg        sync.WaitGroup
		months    []string
		monthsErr error
		first     ListPage
		firstErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		months, monthsErr = c.api.ListMonths(ctx)
	}()
	go func() {
		defer wg.Done()
		first, firstErr = c.api.List(ctx, "", 1, c.limit)
	}()
	wg.Wait()

	c.mu.Lock()
	if monthsErr != nil && firstErr != nil {
		c.err = ErrLoadFailed
		c.state = StateReady
		c.loading = false
		c.mu.Unlock()
		return
	}

	if firstErr == nil {
		c.rows = first.Rows
		c.pagination = first.Pagination
	}
	refine := monthsErr == nil && len(months) > 0
	if refine {
		c.months = months
		c.month = months[0]
		c.page = 1
	}
	c.state = StateReady
	c.loading = false
	target := c.month
	c.mu.Unlock()

	if refine {
		c.complete(ctx, target, 1)
	}
}

// SetMonth switches the month filter and reloads from page 1. Ignored
// while initialization is in flight: the view it would populate is about
// to be replaced anyway.
func (c *Coordinator) SetMonth(ctx context.Context, month string) {
	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return
	}
	c.month = month
	c.page = 1
	c.loading = true
	c.err = nil
	c.mu.Unlock()

	c.complete(ctx, month, 1)
}

// SetPage navigates to an explicit page under the current filter.
func (c *Coordinator) SetPage(ctx context.Context, page int) {
	if page < 1 {
		page = 1
	}
	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return
	}
	month := c.month
	c.page = page
	c.loading = true
	c.err = nil
	c.mu.Unlock()

	c.complete(ctx, month, page)
}

// Refresh re-fetches the current page, typically after a delete. An empty
// result on a page past 1 means the deleted row was the last one on the
// last page; the coordinator steps back exactly one page rather than
// surfacing an empty view, preserving the user's approximate position.
func (c *Coordinator) Refresh(ctx context.Context) {
	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return
	}
	month, page := c.month, c.page
	c.loading = true
	c.err = nil
	c.mu.Unlock()

	res, err := c.api.List(ctx, month, page, c.limit)
	if err == nil && len(res.Rows) == 0 && page > 1 {
		c.mu.Lock()
		if c.month != month || c.page != page {
			c.mu.Unlock()
			return
		}
		c.page = page - 1
		c.mu.Unlock()

		c.complete(ctx, month, page-1)
		return
	}

	c.apply(month, page, res, err)
}

// complete runs one tagged listing fetch and applies its result.
func (c *Coordinator) complete(ctx context.Context, month string, page int) {
	res, err := c.api.List(ctx, month, page, c.limit)
	c.apply(month, page, res, err)
}

// apply commits a fetch result if its tag still matches current state.
// Failures set the error but leave previously displayed rows untouched:
// stale-but-visible beats blanking the view.
func (c *Coordinator) apply(month string, page int, res ListPage, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.month != month || c.page != page {
		return
	}
	c.loading = false
	if err != nil {
		c.err = err
		return
	}
	c.err = nil
	c.rows = res.Rows
	c.pagination = res.Pagination
}

// Snapshot is the UI-visible state at one instant.
type Snapshot struct {
	State      State
	Months     []string
	Month      string
	Page       int
	Rows       []Journal
	Pagination Pagination
	Loading    bool
	Err        error
}

// Snapshot returns a copy of the coordinator's current state.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	months := make([]string, len(c.months))
	copy(months, c.months)
	rows := make([]Journal, len(c.rows))
	copy(rows, c.rows)

	return Snapshot{
		State:      c.state,
		Months:     months,
		Month:      c.month,
		Page:       c.page,
		Rows:       rows,
		Pagination: c.pagination,
		Loading:    c.loading,
		Err:        c.err,
	}
}

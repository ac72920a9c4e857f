package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"acornAdmin/internal/modules/listview/application/port"
	"acornAdmin/internal/modules/listview/domain"
)

var ErrControllerClosed = errors.New("list view controller closed")

// ControllerConfig parameterizes a list view for one record type.
type ControllerConfig[T any] struct {
	Name         string
	Source       port.CollectionSource[T]
	Fields       []domain.Field[T]
	DefaultField string
	// DateOf is optional; without it date ranges are accepted but never narrow the view.
	DateOf       func(T) (time.Time, bool)
	IDOf         func(T) string
	ItemsPerPage int
}

// Controller owns a fetched collection, the filter inputs and the page position, and derives the
// visible page from them. It is safe for concurrent use; a newer Initialize supersedes an older one
// still in flight and Close cancels whatever is pending.
type Controller[T any] struct {
	cfg ControllerConfig[T]

	mu         sync.Mutex
	snapshot   []T
	filtered   []T
	filter     domain.FilterState
	page       domain.PageState
	loaded     bool
	lastErr    error
	generation uint64
	inflight   context.CancelFunc
	closed     bool

	lifetime context.Context
	cancel   context.CancelFunc
}

// NewController validates the configuration and returns an unloaded controller on page 1.
func NewController[T any](cfg ControllerConfig[T]) (*Controller[T], error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("list view %q: missing collection source", cfg.Name)
	}
	if len(cfg.Fields) == 0 {
		return nil, fmt.Errorf("list view %q: no filterable fields", cfg.Name)
	}
	if strings.TrimSpace(cfg.DefaultField) == "" {
		cfg.DefaultField = cfg.Fields[0].Key
	}
	if _, ok := domain.LookupField(cfg.Fields, cfg.DefaultField); !ok {
		return nil, fmt.Errorf("list view %q: default field %q: %w", cfg.Name, cfg.DefaultField, domain.ErrUnknownField)
	}
	cfg.ItemsPerPage = domain.NormalizeItemsPerPage(cfg.ItemsPerPage)

	lifetime, cancel := context.WithCancel(context.Background())
	return &Controller[T]{
		cfg:      cfg,
		snapshot: []T{},
		filtered: []T{},
		filter:   domain.FilterState{Field: cfg.DefaultField},
		page:     domain.PageState{CurrentPage: 1, ItemsPerPage: cfg.ItemsPerPage},
		lifetime: lifetime,
		cancel:   cancel,
	}, nil
}

// Name returns the screen name the controller was configured with.
func (c *Controller[T]) Name() string { return c.cfg.Name }

// Fields returns the filterable fields in display order.
func (c *Controller[T]) Fields() []domain.Field[T] { return c.cfg.Fields }

// Initialize fetches the whole collection once. On success the snapshot is replaced and the filtered
// view reset to it; on failure the previous snapshot (empty on first load) is kept and the error is
// logged, recorded and returned. There is no retry.
func (c *Controller[T]) Initialize(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrControllerClosed
	}
	c.generation++
	generation := c.generation
	if c.inflight != nil {
		c.inflight()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.lifetime, cancel)
	c.inflight = cancel
	c.mu.Unlock()

	defer func() {
		stop()
		cancel()
	}()

	slog.Debug("list view fetch start", slog.String("screen", c.cfg.Name), slog.Uint64("generation", generation))
	records, err := c.cfg.Source.FetchAll(fetchCtx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || generation != c.generation {
		slog.Debug("list view fetch discarded", slog.String("screen", c.cfg.Name), slog.Uint64("generation", generation))
		return port.ErrStaleFetch
	}
	c.inflight = nil
	if err != nil {
		c.lastErr = err
		slog.Error("list view fetch failed", slog.String("screen", c.cfg.Name), slog.Uint64("generation", generation), slog.Any("error", err))
		return err
	}
	if records == nil {
		records = []T{}
	}
	c.snapshot = records
	c.filtered = cloneSlice(records)
	c.loaded = true
	c.lastErr = nil
	c.page = c.page.Normalize(len(c.filtered))
	slog.Info("list view loaded", slog.String("screen", c.cfg.Name), slog.Int("records", len(records)), slog.Uint64("generation", generation))
	return nil
}

// SetFilterTerm stores the search term. The view changes only on ApplyFilter.
func (c *Controller[T]) SetFilterTerm(term string) {
	c.mu.Lock()
	c.filter.Term = term
	c.mu.Unlock()
}

// SetFilterField selects the field the term is matched against.
func (c *Controller[T]) SetFilterField(field string) error {
	resolved, ok := domain.LookupField(c.cfg.Fields, field)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownField, field)
	}
	c.mu.Lock()
	c.filter.Field = resolved.Key
	c.mu.Unlock()
	return nil
}

// SetDateRange stores the inclusive day range; nil bounds are open. A start after the end is
// rejected and the previous range kept.
func (c *Controller[T]) SetDateRange(start, end *time.Time) error {
	if err := domain.ValidateDateRange(start, end); err != nil {
		return err
	}
	c.mu.Lock()
	c.filter.DateStart = cloneTime(start)
	c.filter.DateEnd = cloneTime(end)
	c.mu.Unlock()
	return nil
}

// ApplyFilter recomputes the filtered view from the snapshot and returns to page 1.
func (c *Controller[T]) ApplyFilter() {
	c.mu.Lock()
	defer c.mu.Unlock()
	filtered, err := domain.ApplyFilter(c.snapshot, c.cfg.Fields, c.filter, c.cfg.DateOf)
	if err != nil {
		// fields are validated on the way in, so this only fires on a misconfigured screen
		slog.Error("list view filter failed", slog.String("screen", c.cfg.Name), slog.Any("error", err))
		filtered = cloneSlice(c.snapshot)
	}
	c.filtered = filtered
	c.page.CurrentPage = 1
}

// SetPage moves to page n clamped into [1, max(1, TotalPages)] and returns the page applied.
func (c *Controller[T]) SetPage(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page.CurrentPage = domain.ClampPage(n, domain.TotalPages(len(c.filtered), c.page.ItemsPerPage))
	return c.page.CurrentPage
}

// SetItemsPerPage changes the page size (bounded to [1, 100]) and keeps the current page in range.
func (c *Controller[T]) SetItemsPerPage(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < domain.MinItemsPerPage {
		n = domain.MinItemsPerPage
	}
	c.page.ItemsPerPage = domain.NormalizeItemsPerPage(n)
	c.page = c.page.Normalize(len(c.filtered))
	return c.page.ItemsPerPage
}

// TotalPages is ceil(len(filtered)/itemsPerPage); zero when nothing matches.
func (c *Controller[T]) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.TotalPages(len(c.filtered), c.page.ItemsPerPage)
}

// VisiblePage returns the current slice of the filtered view.
func (c *Controller[T]) VisiblePage() domain.Page[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.Page[T]{
		Items:         domain.Paginate(c.filtered, c.page),
		CurrentPage:   c.page.CurrentPage,
		ItemsPerPage:  c.page.ItemsPerPage,
		TotalPages:    domain.TotalPages(len(c.filtered), c.page.ItemsPerPage),
		FilteredCount: len(c.filtered),
		TotalCount:    len(c.snapshot),
	}
}

// Snapshot returns a copy of the full fetched collection.
func (c *Controller[T]) Snapshot() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneSlice(c.snapshot)
}

// Filtered returns a copy of the filtered view.
func (c *Controller[T]) Filtered() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneSlice(c.filtered)
}

// Filter returns the current filter inputs.
func (c *Controller[T]) Filter() domain.FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := c.filter
	state.DateStart = cloneTime(state.DateStart)
	state.DateEnd = cloneTime(state.DateEnd)
	return state
}

// Loaded reports whether at least one fetch succeeded.
func (c *Controller[T]) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// LastError returns the error of the most recent failed fetch, cleared by a successful one.
func (c *Controller[T]) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Find looks a record up by id in the snapshot.
func (c *Controller[T]) Find(id string) (T, bool) {
	var zero T
	if c.cfg.IDOf == nil {
		return zero, false
	}
	trimmed := strings.TrimSpace(id)
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, record := range c.snapshot {
		if c.cfg.IDOf(record) == trimmed {
			return record, true
		}
	}
	return zero, false
}

// Close cancels any in-flight fetch and drops the collection. Later calls to Initialize fail.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
	c.snapshot = []T{}
	c.filtered = []T{}
	c.inflight = nil
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	copied := *t
	return &copied
}

package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/driveport/driveport/internal/constants"
	"github.com/driveport/driveport/internal/events"
	"github.com/driveport/driveport/internal/logging"
	"github.com/driveport/driveport/internal/models"
)

// Coordinator debounces query input and runs searches against a freshly
// built index. Rapid keystrokes collapse into one fetch after the quiet
// period; only the latest pending query ever executes.
type Coordinator struct {
	store    Store
	user     models.User
	bus      *events.EventBus
	logger   *logging.Logger
	debounce time.Duration
	limit    int

	mu    sync.Mutex
	timer *time.Timer
}

// Option tunes a Coordinator.
type Option func(*Coordinator)

// WithDebounce overrides the quiet period.
func WithDebounce(d time.Duration) Option {
	return func(c *Coordinator) { c.debounce = d }
}

// WithLimit overrides the default hit cap.
func WithLimit(n int) Option {
	return func(c *Coordinator) { c.limit = n }
}

// NewCoordinator creates a search coordinator for the given user.
func NewCoordinator(store Store, user models.User, bus *events.EventBus, logger *logging.Logger, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:    store,
		user:     user,
		bus:      bus,
		logger:   logger,
		debounce: constants.SearchDebounce,
		limit:    constants.DefaultSearchLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Query schedules a debounced search. deliver runs on a background goroutine
// once the quiet period elapses; an earlier pending query that has not fired
// yet is dropped. Empty and whitespace-only queries deliver an empty result
// immediately without touching the store.
func (c *Coordinator) Query(ctx context.Context, query string, deliver func(Result, error)) {
	trimmed := strings.TrimSpace(query)

	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}

	if trimmed == "" {
		c.mu.Unlock()
		deliver(Result{Hits: []Hit{}, Suggestions: []string{}}, nil)
		return
	}

	c.timer = time.AfterFunc(c.debounce, func() {
		deliver(c.SearchNow(ctx, trimmed))
	})
	c.mu.Unlock()
}

// SearchNow runs one search synchronously, bypassing the debounce. The index
// is rebuilt from the store on every call.
func (c *Coordinator) SearchNow(ctx context.Context, query string) (Result, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return Result{Hits: []Hit{}, Suggestions: []string{}}, nil
	}

	start := time.Now()
	idx, err := BuildIndex(ctx, c.store, c.user)
	if err != nil {
		c.logger.Error().Str("query", trimmed).Err(err).Msg("Search fetch failed")
		return Result{}, err
	}

	result := idx.Search(trimmed, c.limit)

	c.logger.Debug().
		Str("query", trimmed).
		Int("indexed", idx.Len()).
		Int("hits", len(result.Hits)).
		Dur("elapsed", time.Since(start)).
		Msg("Search completed")

	if c.bus != nil {
		c.bus.Publish(events.NewSearchEvent(trimmed, len(result.Hits), len(result.Suggestions)))
	}
	return result, nil
}

// Stop cancels any pending debounced query.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Package poll implements a request-keyed polling cache: it holds the latest
// successful result per key, schedules background refetches, suppresses
// duplicate concurrent fetches, and keeps serving stale data when a refresh
// fails.
package poll

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FetchFunc produces a fresh value for a cache key.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Result is a point-in-time snapshot of one cache entry. When a refresh has
// failed, Err is set alongside the last good Value (stale-while-error) so
// callers can show both.
type Result[T any] struct {
	Value     T
	HasValue  bool // at least one fetch has succeeded
	Err       error
	UpdatedAt time.Time // completion time of the last successful fetch
	Fetching  bool
}

// Stale reports whether the entry is older than the given stale time.
func (r Result[T]) Stale(staleTime time.Duration) bool {
	return !r.HasValue || time.Since(r.UpdatedAt) >= staleTime
}

// Config holds the per-subscription refresh policy, set by tier policy.
type Config struct {
	// StaleTime is how long a cached result stays fresh; a read of a stale
	// entry triggers a background refetch.
	StaleTime time.Duration
	// RefetchInterval drives proactive refetches in Run regardless of read
	// activity.
	RefetchInterval time.Duration
}

type entry[T any] struct {
	value     T
	hasValue  bool
	err       error
	updatedAt time.Time
	fetching  bool
	token     uuid.UUID // identifies the authoritative in-flight fetch
	subs      map[int]func(Result[T])
	nextSub   int
}

// Cache is a request-keyed polling cache. All entry state is guarded by a
// single mutex; the in-flight check-and-set happens without any intervening
// suspension, so at most one fetch per key generation is ever issued.
type Cache[T any] struct {
	cfg    Config
	logger *slog.Logger

	mu      sync.Mutex
	entries map[string]*entry[T]
}

// New creates a Cache with the given refresh policy.
func New[T any](cfg Config, logger *slog.Logger) *Cache[T] {
	if cfg.StaleTime <= 0 {
		cfg.StaleTime = 20 * time.Second
	}
	if cfg.RefetchInterval <= 0 {
		cfg.RefetchInterval = time.Minute
	}
	return &Cache[T]{
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "poll")),
		entries: make(map[string]*entry[T]),
	}
}

// Get returns the current snapshot for key and, when the entry is missing or
// stale, starts a background refetch. It never blocks on the network.
func (c *Cache[T]) Get(ctx context.Context, key string, fetch FetchFunc[T]) Result[T] {
	c.mu.Lock()
	e := c.entry(key)
	snap := snapshot(e)
	shouldFetch := !e.fetching && snap.Stale(c.cfg.StaleTime)
	if shouldFetch {
		c.beginFetchLocked(ctx, key, e, fetch)
		snap.Fetching = true
	}
	c.mu.Unlock()
	return snap
}

// Refresh forces a refetch for key, bypassing staleness. If a fetch for the
// key is already in flight the call is a no-op and reports false.
func (c *Cache[T]) Refresh(ctx context.Context, key string, fetch FetchFunc[T]) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entry(key)
	if e.fetching {
		return false
	}
	c.beginFetchLocked(ctx, key, e, fetch)
	return true
}

// Run refetches key immediately and then on every RefetchInterval tick until
// ctx is cancelled. Ticks that find a fetch already in flight are no-ops.
func (c *Cache[T]) Run(ctx context.Context, key string, fetch FetchFunc[T]) {
	c.Refresh(ctx, key, fetch)

	ticker := time.NewTicker(c.cfg.RefetchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Refresh(ctx, key, fetch)
		}
	}
}

// GetWait behaves like Get but, when the entry has never been filled,
// blocks until the triggered fetch completes or ctx is done. Entries with a
// value return immediately, stale or not, and refresh in the background.
func (c *Cache[T]) GetWait(ctx context.Context, key string, fetch FetchFunc[T]) Result[T] {
	snap := c.Get(ctx, key, fetch)
	if snap.HasValue || snap.Err != nil {
		return snap
	}

	done := make(chan Result[T], 1)
	cancel := c.Subscribe(key, func(r Result[T]) {
		select {
		case done <- r:
		default:
		}
	})
	defer cancel()

	// The fetch may have completed between Get and Subscribe.
	if s := c.Snapshot(key); s.HasValue || s.Err != nil {
		return s
	}

	select {
	case <-ctx.Done():
		return c.Snapshot(key)
	case r := <-done:
		return r
	}
}

// Snapshot returns the current state for key without triggering a fetch.
func (c *Cache[T]) Snapshot(key string) Result[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		return snapshot(e)
	}
	return Result[T]{}
}

// Subscribe registers fn to be called with a snapshot after every fetch
// completion for key. The returned function removes the subscription.
func (c *Cache[T]) Subscribe(key string, fn func(Result[T])) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entry(key)
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if e, ok := c.entries[key]; ok {
			delete(e.subs, id)
		}
	}
}

// Invalidate starts a new fetch generation for key: any in-flight response
// is discarded when it completes, and the entry is marked stale so the next
// read refetches. The last good value keeps serving in the meantime.
func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		e.token = uuid.New()
		e.fetching = false
		e.updatedAt = time.Time{}
	}
}

// entry returns the entry for key, creating it if needed. Caller holds mu.
func (c *Cache[T]) entry(key string) *entry[T] {
	e, ok := c.entries[key]
	if !ok {
		e = &entry[T]{subs: make(map[int]func(Result[T]))}
		c.entries[key] = e
	}
	return e
}

// beginFetchLocked marks the entry in flight and launches the fetch
// goroutine. Caller holds mu; the flag is set before the lock is released so
// a concurrent trigger cannot issue a second fetch.
func (c *Cache[T]) beginFetchLocked(ctx context.Context, key string, e *entry[T], fetch FetchFunc[T]) {
	e.fetching = true
	tok := uuid.New()
	e.token = tok

	go func() {
		value, err := fetch(ctx)
		c.complete(key, tok, value, err)
	}()
}

// complete records a fetch outcome. Responses from a superseded generation
// (token mismatch after Invalidate) are dropped so a slow old fetch cannot
// clobber newer state.
func (c *Cache[T]) complete(key string, tok uuid.UUID, value T, err error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok || e.token != tok {
		c.mu.Unlock()
		c.logger.Debug("discarding superseded fetch result", slog.String("key", key))
		return
	}

	e.fetching = false
	if err != nil {
		e.err = err
		c.logger.Warn("fetch failed, serving stale value",
			slog.String("key", key),
			slog.Bool("has_value", e.hasValue),
			slog.String("error", err.Error()),
		)
	} else {
		e.value = value
		e.hasValue = true
		e.err = nil
		e.updatedAt = time.Now()
	}

	snap := snapshot(e)
	subs := make([]func(Result[T]), 0, len(e.subs))
	for _, fn := range e.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func snapshot[T any](e *entry[T]) Result[T] {
	return Result[T]{
		Value:     e.value,
		HasValue:  e.hasValue,
		Err:       e.err,
		UpdatedAt: e.updatedAt,
		Fetching:  e.fetching,
	}
}

// Package query is the data synchronization layer between commands and the
// HTTP client: declarative fetch bindings with caching, staleness windows,
// single-flight deduplication, bounded retry, conditional polling, and
// invalidation on mutation. Commands never talk to the backend directly for
// reads; they declare a Spec and let the cache decide whether the network
// is involved.
package query

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/emberapps/outreach/internal/api"
)

// Key identifies one cached binding. Keys are ordered tuples of primitives
// rendered into a single string, e.g. NewKey("batch", "batch-42").
type Key string

// NewKey builds a key from its tuple parts.
func NewKey(parts ...string) Key {
	return Key(strings.Join(parts, "/"))
}

// Spec declares one cached query binding.
type Spec[T any] struct {
	// Key is the stable cache key for this binding.
	Key Key

	// Fetch performs the actual backend call.
	Fetch func(ctx context.Context) (T, error)

	// StaleFor is the staleness window: a cached result younger than
	// this is served without a network call. Zero means every read
	// refetches (though concurrent readers still share one flight).
	StaleFor time.Duration

	// Retries is the number of extra attempts on transient failure.
	// Zero selects the default single retry; negative disables retry.
	Retries int

	// Fallback, when set, substitutes for the result after the fetch
	// (and its retries) ultimately fail. This is the degraded demo mode:
	// the command stays populated instead of erroring out. Authorization
	// failures are never masked by a fallback.
	Fallback fn.Option[T]
}

// entry is one cache slot. While a fetch is in flight, done is open and
// later readers of the same key wait on it instead of issuing their own
// call.
type entry struct {
	val       any
	fetchedAt time.Time
	hasValue  bool

	done chan struct{}
}

// Cache holds fetched results keyed by Key. One Cache instance is shared by
// all bindings of a command invocation.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]*entry
	log     *slog.Logger
	clock   func() time.Time
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithCacheLogger sets the structured logger.
func WithCacheLogger(log *slog.Logger) CacheOption {
	return func(c *Cache) {
		c.log = log
	}
}

// withClock overrides the time source. Used by tests.
func withClock(clock func() time.Time) CacheOption {
	return func(c *Cache) {
		c.clock = clock
	}
}

// NewCache creates an empty cache.
func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{
		entries: make(map[Key]*entry),
		log:     slog.Default(),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Invalidate drops the listed keys so the next read bypasses the cache and
// hits the network. In-flight fetches are left alone; their result lands in
// a slot that is no longer referenced.
func (c *Cache) Invalidate(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		delete(c.entries, key)
	}
}

// Fetch resolves a binding: fresh cache is served directly, a fetch already
// in flight for the same key is joined, and otherwise one network call is
// issued (with the spec's retry budget). On ultimate failure the spec's
// fallback is substituted when present, except for ErrUnauthorized which
// always propagates.
func Fetch[T any](ctx context.Context, c *Cache, spec Spec[T]) (T, error) {
	for {
		c.mu.Lock()
		e, ok := c.entries[spec.Key]

		switch {
		// Fresh cached value: no network call.
		case ok && e.hasValue &&
			c.clock().Sub(e.fetchedAt) < spec.StaleFor:

			val := e.val.(T)
			c.mu.Unlock()
			return val, nil

		// Someone else is already fetching this key: share the flight.
		case ok && e.done != nil:
			done := e.done
			c.mu.Unlock()

			select {
			case <-done:
				// Re-read the slot; it either has the shared
				// result now or the fetch failed and the loop
				// starts a fresh attempt.
				c.mu.Lock()
				e, ok := c.entries[spec.Key]
				if ok && e.hasValue {
					val := e.val.(T)
					c.mu.Unlock()
					return val, nil
				}
				c.mu.Unlock()
				continue

			case <-ctx.Done():
				var zero T
				return zero, ctx.Err()
			}

		default:
			// We own this fetch.
			e = &entry{done: make(chan struct{})}
			c.entries[spec.Key] = e
			c.mu.Unlock()

			return runFetchFor(ctx, c, spec, e)
		}
	}
}

// runFetchFor executes spec.Fetch with the retry budget for the entry this
// goroutine owns, publishes the outcome and releases waiters.
func runFetchFor[T any](ctx context.Context, c *Cache, spec Spec[T],
	e *entry) (T, error) {

	retries := spec.Retries
	if retries == 0 {
		retries = 1
	}
	if retries < 0 {
		retries = 0
	}

	var (
		val T
		err error
	)
	for attempt := 0; attempt <= retries; attempt++ {
		val, err = spec.Fetch(ctx)
		if err == nil {
			break
		}

		// Session termination and caller cancellation are not
		// transient; do not burn retries on them.
		if errors.Is(err, api.ErrUnauthorized) ||
			errors.Is(err, context.Canceled) {

			break
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err == nil {
		e.val = val
		e.hasValue = true
		e.fetchedAt = c.clock()
		close(e.done)
		e.done = nil
		return val, nil
	}

	// Failure: drop the slot so the cache stays untouched, then release
	// waiters so they can retry or fail on their own.
	if c.entries[spec.Key] == e {
		delete(c.entries, spec.Key)
	}
	close(e.done)
	e.done = nil

	if errors.Is(err, api.ErrUnauthorized) {
		var zero T
		return zero, err
	}

	var zero T
	if spec.Fallback.IsSome() {
		c.log.Warn("Backend unavailable, using demo data",
			"key", string(spec.Key), "err", err)
		return spec.Fallback.UnwrapOr(zero), nil
	}

	return zero, err
}

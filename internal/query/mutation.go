package query

import (
	"context"
	"errors"

	"github.com/emberapps/outreach/internal/api"
)

// Mutation declares one imperative backend action and the cache keys its
// success makes stale.
type Mutation[T any] struct {
	// Run performs the HTTP call.
	Run func(ctx context.Context) (T, error)

	// Invalidates lists the query keys to drop on success, forcing the
	// next read of each to hit the network.
	Invalidates []Key

	// OnSuccess surfaces the outcome to the user (the CLI's toast).
	OnSuccess func(val T)

	// OnError surfaces the failure. Cached state is left untouched.
	// Not invoked for ErrUnauthorized, which has already terminated the
	// session through the HTTP client.
	OnError func(err error)
}

// Do executes the mutation. On success the declared keys are invalidated
// before OnSuccess runs, so any notification handler that re-reads sees
// fresh state. On failure nothing is invalidated.
func Do[T any](ctx context.Context, c *Cache, m Mutation[T]) (T, error) {
	val, err := m.Run(ctx)
	if err != nil {
		if m.OnError != nil && !errors.Is(err, api.ErrUnauthorized) {
			m.OnError(err)
		}

		var zero T
		return zero, err
	}

	c.Invalidate(m.Invalidates...)

	if m.OnSuccess != nil {
		m.OnSuccess(val)
	}

	return val, nil
}

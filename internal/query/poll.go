package query

import (
	"context"
	"time"
)

// PollFunc inspects the current cached value and decides whether polling
// continues. It returns the delay before the next refetch and true to keep
// going, or false once the resource has reached a terminal state.
type PollFunc[T any] func(val T) (time.Duration, bool)

// Poll repeatedly resolves the binding, re-evaluating the interval against
// each fetched value. The first resolution honors the cache; every
// subsequent round invalidates the key first so the refetch actually hits
// the network. onUpdate runs after every resolution. Polling stops when the
// interval predicate reports a terminal state, when the context is
// canceled, or when a fetch fails; a canceled poller performs no further
// cache writes.
func Poll[T any](ctx context.Context, c *Cache, spec Spec[T],
	interval PollFunc[T], onUpdate func(T)) error {

	first := true
	for {
		if !first {
			c.Invalidate(spec.Key)
		}
		first = false

		val, err := Fetch(ctx, c, spec)
		if err != nil {
			return err
		}

		if onUpdate != nil {
			onUpdate(val)
		}

		delay, again := interval(val)
		if !again {
			return nil
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

package query

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// batchState is a minimal stand-in for a polled resource.
type batchState struct {
	Status    string
	Processed int
}

// active mirrors the poll predicate used for batches: keep refreshing while
// work is in progress.
func (b batchState) active() bool {
	return b.Status == "processing" || b.Status == "sending"
}

// TestPoll_StopsAtTerminalStatus verifies that polling refetches while the
// resource is active and stops the round after it reaches a terminal state.
func TestPoll_StopsAtTerminalStatus(t *testing.T) {
	c := NewCache()
	ctx := context.Background()

	states := []batchState{
		{Status: "processing", Processed: 10},
		{Status: "sending", Processed: 50},
		{Status: "completed", Processed: 50},
	}

	var calls atomic.Int64
	spec := Spec[batchState]{
		Key: NewKey("batch", "b1"),
		Fetch: func(ctx context.Context) (batchState, error) {
			n := calls.Add(1)
			return states[min(int(n)-1, len(states)-1)], nil
		},
	}

	var seen []string
	err := Poll(ctx, c, spec,
		func(b batchState) (time.Duration, bool) {
			return time.Millisecond, b.active()
		},
		func(b batchState) {
			seen = append(seen, b.Status)
		},
	)
	require.NoError(t, err)

	require.Equal(t,
		[]string{"processing", "sending", "completed"}, seen)
	require.EqualValues(t, 3, calls.Load())
}

// TestPoll_FirstResolutionHonorsCache verifies that an already-terminal
// cached value produces no network call at all.
func TestPoll_FirstResolutionHonorsCache(t *testing.T) {
	c := NewCache()
	ctx := context.Background()

	var calls atomic.Int64
	spec := Spec[batchState]{
		Key: NewKey("batch", "done"),
		Fetch: func(ctx context.Context) (batchState, error) {
			calls.Add(1)
			return batchState{Status: "completed"}, nil
		},
		StaleFor: time.Hour,
	}

	// Prime the cache.
	_, err := Fetch(ctx, c, spec)
	require.NoError(t, err)

	err = Poll(ctx, c, spec,
		func(b batchState) (time.Duration, bool) {
			return time.Millisecond, b.active()
		}, nil,
	)
	require.NoError(t, err)
	require.EqualValues(t, 1, calls.Load())
}

// TestPoll_ContextCancellation verifies that a canceled watcher stops
// between rounds with ctx.Err.
func TestPoll_ContextCancellation(t *testing.T) {
	c := NewCache()

	ctx, cancel := context.WithCancel(context.Background())

	spec := Spec[batchState]{
		Key: NewKey("batch", "slow"),
		Fetch: func(ctx context.Context) (batchState, error) {
			return batchState{Status: "processing"}, nil
		},
	}

	polled := make(chan struct{}, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- Poll(ctx, c, spec,
			func(b batchState) (time.Duration, bool) {
				// Long delay so cancellation wins the select.
				return time.Hour, true
			},
			func(batchState) {
				select {
				case polled <- struct{}{}:
				default:
				}
			},
		)
	}()

	<-polled
	cancel()

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("poll did not stop after cancellation")
	}
}

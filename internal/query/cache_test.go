package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/emberapps/outreach/internal/api"
)

// countingFetch returns a fetch function that counts invocations and
// returns the call number.
func countingFetch(calls *atomic.Int64) func(context.Context) (int, error) {
	return func(ctx context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}
}

// TestFetch_ServesFreshCache verifies that a value inside its staleness
// window is served without a network call.
func TestFetch_ServesFreshCache(t *testing.T) {
	c := NewCache()
	ctx := context.Background()

	var calls atomic.Int64
	spec := Spec[int]{
		Key:      NewKey("batch", "b1"),
		Fetch:    countingFetch(&calls),
		StaleFor: time.Hour,
	}

	v1, err := Fetch(ctx, c, spec)
	require.NoError(t, err)
	v2, err := Fetch(ctx, c, spec)
	require.NoError(t, err)

	require.Equal(t, v1, v2)
	require.EqualValues(t, 1, calls.Load())
}

// TestFetch_StalenessExpiry verifies that once the window elapses the next
// read hits the network again.
func TestFetch_StalenessExpiry(t *testing.T) {
	now := time.Unix(1000, 0)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(d)
	}

	c := NewCache(withClock(clock))
	ctx := context.Background()

	var calls atomic.Int64
	spec := Spec[int]{
		Key:      NewKey("dashboard-stats"),
		Fetch:    countingFetch(&calls),
		StaleFor: 30 * time.Second,
	}

	_, err := Fetch(ctx, c, spec)
	require.NoError(t, err)

	// Still fresh.
	advance(29 * time.Second)
	_, err = Fetch(ctx, c, spec)
	require.NoError(t, err)
	require.EqualValues(t, 1, calls.Load())

	// Now stale.
	advance(2 * time.Second)
	_, err = Fetch(ctx, c, spec)
	require.NoError(t, err)
	require.EqualValues(t, 2, calls.Load())
}

// TestFetch_SingleFlight verifies that concurrent readers of one key share
// a single in-flight request.
func TestFetch_SingleFlight(t *testing.T) {
	c := NewCache()
	ctx := context.Background()

	var calls atomic.Int64
	release := make(chan struct{})
	spec := Spec[string]{
		Key: NewKey("batches"),
		Fetch: func(ctx context.Context) (string, error) {
			calls.Add(1)
			<-release
			return "result", nil
		},
		StaleFor: time.Hour,
	}

	const readers = 8
	results := make([]string, readers)

	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := Fetch(ctx, c, spec)
			require.NoError(t, err)
			results[i] = v
		}(i)
	}

	// Give the readers time to pile onto the same flight, then let the
	// single fetch complete.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.EqualValues(t, 1, calls.Load())
	for _, v := range results {
		require.Equal(t, "result", v)
	}
}

// TestFetch_FallbackSubstitution verifies that a failing fetch surfaces the
// fallback dataset and leaves the cache unpopulated.
func TestFetch_FallbackSubstitution(t *testing.T) {
	c := NewCache()
	ctx := context.Background()

	var calls atomic.Int64
	spec := Spec[string]{
		Key: NewKey("dashboard-emails", "", "", ""),
		Fetch: func(ctx context.Context) (string, error) {
			calls.Add(1)
			return "", errors.New("connection refused")
		},
		StaleFor: time.Hour,
		Retries:  -1,
		Fallback: fn.Some("demo-data"),
	}

	v, err := Fetch(ctx, c, spec)
	require.NoError(t, err)
	require.Equal(t, "demo-data", v)

	// The fallback is not cached: the next read tries the network again.
	_, err = Fetch(ctx, c, spec)
	require.NoError(t, err)
	require.EqualValues(t, 2, calls.Load())
}

// TestFetch_UnauthorizedNeverMasked verifies that a fallback never hides a
// terminated session.
func TestFetch_UnauthorizedNeverMasked(t *testing.T) {
	c := NewCache()
	ctx := context.Background()

	spec := Spec[string]{
		Key: NewKey("batch", "b9"),
		Fetch: func(ctx context.Context) (string, error) {
			return "", api.ErrUnauthorized
		},
		Fallback: fn.Some("demo-data"),
	}

	_, err := Fetch(ctx, c, spec)
	require.ErrorIs(t, err, api.ErrUnauthorized)
}

// TestFetch_RetryBudget verifies the default single retry and its opt-out.
func TestFetch_RetryBudget(t *testing.T) {
	t.Run("default retries once", func(t *testing.T) {
		c := NewCache()

		var calls atomic.Int64
		spec := Spec[int]{
			Key: NewKey("k"),
			Fetch: func(ctx context.Context) (int, error) {
				if calls.Add(1) == 1 {
					return 0, errors.New("transient")
				}
				return 42, nil
			},
		}

		v, err := Fetch(context.Background(), c, spec)
		require.NoError(t, err)
		require.Equal(t, 42, v)
		require.EqualValues(t, 2, calls.Load())
	})

	t.Run("negative disables retry", func(t *testing.T) {
		c := NewCache()

		var calls atomic.Int64
		spec := Spec[int]{
			Key: NewKey("k"),
			Fetch: func(ctx context.Context) (int, error) {
				calls.Add(1)
				return 0, errors.New("transient")
			},
			Retries: -1,
		}

		_, err := Fetch(context.Background(), c, spec)
		require.Error(t, err)
		require.EqualValues(t, 1, calls.Load())
	})
}

// TestInvalidate verifies that invalidation forces the next read onto the
// network even inside the staleness window.
func TestInvalidate(t *testing.T) {
	c := NewCache()
	ctx := context.Background()

	var calls atomic.Int64
	spec := Spec[int]{
		Key:      NewKey("batch", "b1"),
		Fetch:    countingFetch(&calls),
		StaleFor: time.Hour,
	}

	_, err := Fetch(ctx, c, spec)
	require.NoError(t, err)

	c.Invalidate(spec.Key)

	_, err = Fetch(ctx, c, spec)
	require.NoError(t, err)
	require.EqualValues(t, 2, calls.Load())
}

// TestFetch_StalenessProperty verifies, for arbitrary windows and clock
// advances, that the network is hit exactly when the cached value has
// expired.
func TestFetch_StalenessProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		now := time.Unix(0, 0)
		c := NewCache(withClock(func() time.Time { return now }))
		ctx := context.Background()

		staleFor := time.Duration(
			rapid.IntRange(1, 3600).Draw(t, "staleForSec"),
		) * time.Second

		var calls int
		spec := Spec[int]{
			Key: NewKey("prop"),
			Fetch: func(ctx context.Context) (int, error) {
				calls++
				return calls, nil
			},
			StaleFor: staleFor,
		}

		lastFetchAt := now
		wantCalls := 0

		numReads := rapid.IntRange(1, 30).Draw(t, "numReads")
		for i := 0; i < numReads; i++ {
			advance := time.Duration(
				rapid.IntRange(0, 7200).Draw(t, "advanceSec"),
			) * time.Second
			now = now.Add(advance)

			expired := wantCalls == 0 ||
				now.Sub(lastFetchAt) >= staleFor

			_, err := Fetch(ctx, c, spec)
			if err != nil {
				t.Fatal(err)
			}

			if expired {
				wantCalls++
				lastFetchAt = now
			}
			if calls != wantCalls {
				t.Fatalf("after read %d: %d calls, want %d",
					i, calls, wantCalls)
			}
		}
	})
}

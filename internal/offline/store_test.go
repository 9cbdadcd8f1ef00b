package offline

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// newTestStore creates a Store backed by a real SQLite database in a
// temporary directory. The database is cleaned up when the test finishes.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := OpenSQLite(filepath.Join(t.TempDir(), "queue.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	store, err := NewStore(db, DefaultConfig(), slog.Default())
	require.NoError(t, err)

	return store
}

// makeOp creates a PendingOperation with the given type and a unique
// idempotency key.
func makeOp(opType OperationType) PendingOperation {
	return PendingOperation{
		IdempotencyKey: uuid.Must(uuid.NewV7()).String(),
		OperationType:  opType,
		PayloadJSON:    `{"batch_id": "batch-1"}`,
		UserEmail:      "user@example.com",
		CreatedAt:      time.Now(),
		ExpiresAt:      time.Now().Add(7 * 24 * time.Hour),
	}
}

// TestStore_EnqueueAndList verifies that enqueued operations appear in List
// output in FIFO order.
func TestStore_EnqueueAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ops := []PendingOperation{
		makeOp(OpSendBatch),
		makeOp(OpSendReply),
		makeOp(OpCheckReplies),
	}
	for _, op := range ops {
		require.NoError(t, store.Enqueue(ctx, op))
	}

	listed, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)

	for i, op := range listed {
		require.Equal(t, ops[i].IdempotencyKey, op.IdempotencyKey)
		require.Equal(t, ops[i].OperationType, op.OperationType)
		require.Equal(t, "pending", op.Status)
	}

	count, err := store.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), count)
}

// TestStore_DrainAndDeliver verifies the drain → deliver lifecycle.
func TestStore_DrainAndDeliver(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Enqueue(ctx, makeOp(OpSendBatch)))
	require.NoError(t, store.Enqueue(ctx, makeOp(OpCheckReplies)))

	// Drain returns both and marks them 'delivering'.
	drained, err := store.Drain(ctx)
	require.NoError(t, err)
	require.Len(t, drained, 2)
	require.Equal(t, "delivering", drained[0].Status)
	require.Equal(t, "delivering", drained[1].Status)

	// Nothing pending anymore; a second drain is empty.
	listed, err := store.List(ctx)
	require.NoError(t, err)
	require.Empty(t, listed)

	drained2, err := store.Drain(ctx)
	require.NoError(t, err)
	require.Empty(t, drained2)

	require.NoError(t, store.MarkDelivered(ctx, drained[0].ID))
	require.NoError(t, store.MarkDelivered(ctx, drained[1].ID))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(0), count)
}

// TestStore_MarkFailed verifies that failed operations return to pending
// state with incremented attempt counts.
func TestStore_MarkFailed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Enqueue(ctx, makeOp(OpSendReply)))

	drained, err := store.Drain(ctx)
	require.NoError(t, err)
	require.Len(t, drained, 1)
	require.Equal(t, 0, drained[0].Attempts)

	require.NoError(t, store.MarkFailed(
		ctx, drained[0].ID, "connection refused",
	))

	listed, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, "pending", listed[0].Status)
	require.Equal(t, 1, listed[0].Attempts)
	require.Equal(t, "connection refused", listed[0].LastError)

	// A second failure increments again.
	drained, err = store.Drain(ctx)
	require.NoError(t, err)
	require.NoError(t, store.MarkFailed(ctx, drained[0].ID, "timeout"))

	listed, err = store.List(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, listed[0].Attempts)
	require.Equal(t, "timeout", listed[0].LastError)
}

// TestStore_MaxPending verifies that the queue enforces its capacity.
func TestStore_MaxPending(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.cfg.MaxPending = 3

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Enqueue(ctx, makeOp(OpSendBatch)))
	}

	err := store.Enqueue(ctx, makeOp(OpSendBatch))
	require.ErrorIs(t, err, ErrQueueFull)

	// Draining frees capacity.
	drained, err := store.Drain(ctx)
	require.NoError(t, err)
	require.Len(t, drained, 3)

	require.NoError(t, store.Enqueue(ctx, makeOp(OpSendBatch)))
}

// TestStore_IdempotencyKeyUnique verifies the uniqueness constraint on
// idempotency keys.
func TestStore_IdempotencyKeyUnique(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	op := makeOp(OpSendBatch)
	require.NoError(t, store.Enqueue(ctx, op))

	dup := makeOp(OpSendBatch)
	dup.IdempotencyKey = op.IdempotencyKey
	require.Error(t, store.Enqueue(ctx, dup))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

// TestStore_PurgeExpired verifies that expired operations are removed while
// live ones survive.
func TestStore_PurgeExpired(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	expired := makeOp(OpSendBatch)
	expired.ExpiresAt = time.Now().Add(-time.Hour)
	require.NoError(t, store.Enqueue(ctx, expired))

	live := makeOp(OpCheckReplies)
	require.NoError(t, store.Enqueue(ctx, live))

	purged, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), purged)

	listed, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, live.IdempotencyKey, listed[0].IdempotencyKey)
}

// TestStore_ClearAndStats verifies aggregate counts and full clearing.
func TestStore_ClearAndStats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Enqueue(ctx, makeOp(OpSendBatch)))
	require.NoError(t, store.Enqueue(ctx, makeOp(OpSendReply)))

	drained, err := store.Drain(ctx)
	require.NoError(t, err)
	require.NoError(t, store.MarkDelivered(ctx, drained[0].ID))
	require.NoError(t, store.MarkFailed(ctx, drained[1].ID, "boom"))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.PendingCount)
	require.Equal(t, int64(1), stats.DeliveredCount)
	require.Equal(t, int64(1), stats.FailedCount)
	require.NotNil(t, stats.OldestPending)

	require.NoError(t, store.Clear(ctx))

	stats, err = store.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(0), stats.PendingCount)
	require.Equal(t, int64(0), stats.DeliveredCount)
	require.Nil(t, stats.OldestPending)
}

// TestPayloadRoundTrip verifies the payload codec restores the right type
// for each operation.
func TestPayloadRoundTrip(t *testing.T) {
	in := &SendBatchPayload{
		BatchID: "batch-7",
		LeadIDs: []string{"lead-1", "lead-2"},
	}

	raw, err := MarshalPayload(in)
	require.NoError(t, err)

	out, err := UnmarshalPayload(OpSendBatch, raw)
	require.NoError(t, err)
	require.Equal(t, in, out)

	_, err = UnmarshalPayload(OperationType("bogus"), raw)
	require.Error(t, err)
}

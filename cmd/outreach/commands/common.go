package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/emberapps/outreach/internal/api"
	"github.com/emberapps/outreach/internal/guard"
	"github.com/emberapps/outreach/internal/offline"
	"github.com/emberapps/outreach/internal/query"
	"github.com/emberapps/outreach/internal/session"
)

// Query keys for the cached bindings. Mutations name these when declaring
// what their success invalidates.
var (
	keyDashboardStats = query.NewKey("dashboard-stats")
	keyDashboardChart = query.NewKey("dashboard-chart")
	keyBatches        = query.NewKey("batches")
)

// keyDashboardEmails keys the sent-email listing by its filter tuple.
func keyDashboardEmails(provider, status, search string) query.Key {
	return query.NewKey("dashboard-emails", provider, status, search)
}

// keyBatch keys a single batch detail view.
func keyBatch(id string) query.Key {
	return query.NewKey("batch", id)
}

// keyConversation keys a conversation thread by provider and email ID.
func keyConversation(provider, emailID string) query.Key {
	return query.NewKey("conversation", provider, emailID)
}

// newLogger builds the CLI logger. Debug output is gated on --verbose so
// normal runs stay quiet on stderr.
var newLogger = sync.OnceValue(func() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
})

// resolveStateDir returns the configured state directory, falling back to
// the default under the home directory.
func resolveStateDir() (string, error) {
	if stateDir != "" {
		return stateDir, nil
	}
	return session.DefaultStateDir()
}

// getSession opens (or creates) the persisted session record.
var getSession = sync.OnceValues(func() (*session.Store, error) {
	dir, err := resolveStateDir()
	if err != nil {
		return nil, err
	}

	return session.NewStore(dir)
})

// getClient builds the API client bound to the session. A 401 anywhere
// clears the session through the client; the hook here tells the user what
// just happened.
func getClient(sess *session.Store) *api.Client {
	return api.NewClient(
		apiAddr, sess,
		api.WithLogger(newLogger()),
		api.WithUnauthorizedHook(func() {
			fmt.Fprintln(os.Stderr,
				"Session expired. Run `outreach login` to sign in again.")
		}),
	)
}

// getCache returns the process-wide query cache.
var getCache = sync.OnceValue(func() *query.Cache {
	return query.NewCache(query.WithCacheLogger(newLogger()))
})

// requireAuth verifies the session and returns an authenticated client plus
// the merged profile. On success it also drains any mutations queued while
// the backend was unreachable.
func requireAuth(ctx context.Context) (*api.Client, session.Profile, error) {
	sess, err := getSession()
	if err != nil {
		return nil, session.Profile{}, err
	}

	client := getClient(sess)
	g := guard.New(sess, client, guard.WithLogger(newLogger()))

	profile, err := g.Verify(ctx)
	if err != nil {
		return nil, session.Profile{}, err
	}

	// The backend just answered the guard checks, so connectivity is
	// known-good: deliver anything queued offline.
	drainPendingOperations(ctx, client, profile.Email)

	return client, profile, nil
}

// requireAdmin verifies the session and additionally requires the admin
// flag on the merged profile.
func requireAdmin(ctx context.Context) (*api.Client, session.Profile, error) {
	client, profile, err := requireAuth(ctx)
	if err != nil {
		return nil, session.Profile{}, err
	}
	if !profile.IsAdmin {
		return nil, session.Profile{}, fmt.Errorf(
			"admin access required for %s", profile.Email,
		)
	}

	return client, profile, nil
}

// newIdempotencyKey generates a time-ordered UUIDv7 key for queued
// operations, falling back to v4 if the monotonic source fails.
func newIdempotencyKey() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// backendUnreachable reports whether err is a transport-level failure
// rather than a backend-issued response. Only unreachable-backend failures
// are eligible for offline queueing.
func backendUnreachable(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return false
	}
	return !errors.Is(err, api.ErrUnauthorized)
}

// enqueueOffline records a mutation in the local queue for delivery on the
// next successful connection.
func enqueueOffline(ctx context.Context, opType offline.OperationType,
	payload any, userEmail string) error {

	dir, err := resolveStateDir()
	if err != nil {
		return err
	}

	store, err := offline.OpenStore(
		dir, offline.DefaultConfig(), newLogger(),
	)
	if err != nil {
		return fmt.Errorf("open offline queue: %w", err)
	}
	defer store.Close()

	payloadJSON, err := offline.MarshalPayload(payload)
	if err != nil {
		return err
	}

	now := time.Now()
	op := offline.PendingOperation{
		IdempotencyKey: newIdempotencyKey(),
		OperationType:  opType,
		PayloadJSON:    payloadJSON,
		UserEmail:      userEmail,
		CreatedAt:      now,
		ExpiresAt:      now.Add(offline.DefaultConfig().DefaultTTL),
	}

	if err := store.Enqueue(ctx, op); err != nil {
		return fmt.Errorf("queue operation: %w", err)
	}

	fmt.Printf("Backend unreachable. Queued %s for delivery on next "+
		"connection.\n", opType)

	return nil
}

// drainPendingOperations purges expired entries and delivers everything
// still pending, FIFO. Failures are re-queued with their attempt count
// bumped; an unreachable backend aborts the drain early.
func drainPendingOperations(ctx context.Context, client *api.Client,
	userEmail string) {

	log := newLogger()

	dir, err := resolveStateDir()
	if err != nil {
		return
	}

	// Nothing to do if the queue database was never created.
	if _, err := os.Stat(offline.QueueDBPath(dir)); err != nil {
		return
	}

	store, err := offline.OpenStore(
		dir, offline.DefaultConfig(), log,
	)
	if err != nil {
		log.Warn("Failed to open offline queue", "err", err)
		return
	}
	defer store.Close()

	if purged, err := store.PurgeExpired(ctx); err != nil {
		log.Warn("Failed to purge expired operations", "err", err)
	} else if purged > 0 {
		log.Debug("Purged expired queued operations", "count", purged)
	}

	ops, err := store.Drain(ctx)
	if err != nil {
		log.Warn("Failed to drain offline queue", "err", err)
		return
	}
	if len(ops) == 0 {
		return
	}

	delivered := 0
	for _, op := range ops {
		err := deliverOperation(ctx, client, op)
		if err != nil {
			if mfErr := store.MarkFailed(
				ctx, op.ID, err.Error(),
			); mfErr != nil {
				log.Warn("Failed to mark operation failed",
					"id", op.ID, "err", mfErr)
			}

			// The connection dropped again; leave the rest queued.
			if backendUnreachable(err) {
				break
			}
			continue
		}

		if err := store.MarkDelivered(ctx, op.ID); err != nil {
			log.Warn("Failed to mark operation delivered",
				"id", op.ID, "err", err)
		}
		delivered++
	}

	if delivered > 0 {
		fmt.Printf("Delivered %d queued operation(s).\n", delivered)
	}
}

// deliverOperation replays one queued mutation against the backend.
func deliverOperation(ctx context.Context, client *api.Client,
	op offline.PendingOperation) error {

	payload, err := offline.UnmarshalPayload(op.OperationType, op.PayloadJSON)
	if err != nil {
		return err
	}

	switch p := payload.(type) {
	case *offline.SendBatchPayload:
		path := fmt.Sprintf("/batch/%s/send", p.BatchID)
		body := map[string]any{"leadIds": p.LeadIDs}
		return client.Post(ctx, path, body, nil)

	case *offline.SendReplyPayload:
		path := fmt.Sprintf(
			"/api/conversation/%s/thread/%s/reply",
			p.Provider, p.EmailID,
		)
		body := map[string]any{
			"instructions":         p.Instructions,
			"recipient_first_name": p.RecipientFirstName,
			"sender_name":          p.SenderName,
			"sender_company":       p.SenderCompany,
		}
		return client.Post(ctx, path, body, nil)

	case *offline.CheckRepliesPayload:
		path := "/api/dashboard/check-replies"
		if p.Provider != "" {
			path += "?provider=" + string(p.Provider)
		}
		return client.Post(ctx, path, nil, nil)

	default:
		return fmt.Errorf("unknown operation type %q", op.OperationType)
	}
}

// outputJSON outputs data as JSON.
func outputJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

package offline

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// TxFunc is a callback executed within a database transaction.
type TxFunc func(ctx context.Context, tx *sql.Tx) error

// Store provides access to the local offline operation queue. Mutations
// performed while the backend is unreachable are recorded here and drained
// on the next successful connection.
type Store struct {
	db  *sql.DB
	cfg Config
}

// NewStore creates a new Store wrapping an existing database connection.
// The queue schema is brought up to date via the embedded migrations.
func NewStore(db *sql.DB, cfg Config, log *slog.Logger) (*Store, error) {
	if err := applyMigrations(db, log); err != nil {
		return nil, fmt.Errorf("apply queue schema: %w", err)
	}

	return &Store{
		db:  db,
		cfg: cfg,
	}, nil
}

// OpenStore opens the queue database under the given state directory,
// creating it (and the directory) as needed.
func OpenStore(stateDir string, cfg Config, log *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return nil, fmt.Errorf("ensure state dir: %w", err)
	}

	db, err := OpenSQLite(QueueDBPath(stateDir))
	if err != nil {
		return nil, fmt.Errorf("open queue db: %w", err)
	}

	store, err := NewStore(db, cfg, log)
	if err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// withTx runs fn inside a transaction, rolling back on error.
func (s *Store) withTx(ctx context.Context, fn TxFunc) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Execute the callback.
	if err := fn(ctx, tx); err != nil {
		// Attempt rollback, but prioritize returning the original error.
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %w, rollback error: %v",
				err, rbErr)
		}

		return err
	}

	// Commit the transaction.
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Enqueue adds a new operation to the queue. It returns ErrQueueFull if the
// number of pending operations has reached MaxPending.
func (s *Store) Enqueue(ctx context.Context, op PendingOperation) error {
	return s.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		// Check current count against the configured maximum.
		var count int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM pending_operations
			 WHERE status = 'pending'`,
		).Scan(&count)
		if err != nil {
			return fmt.Errorf("count pending: %w", err)
		}
		if count >= s.cfg.MaxPending {
			return ErrQueueFull
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO pending_operations
			 (idempotency_key, operation_type, payload_json,
			  user_email, created_at, expires_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			op.IdempotencyKey, string(op.OperationType),
			op.PayloadJSON, op.UserEmail,
			op.CreatedAt.Unix(), op.ExpiresAt.Unix(),
		)
		if err != nil {
			return fmt.Errorf("enqueue operation: %w", err)
		}

		return nil
	})
}

// List returns all pending operations in FIFO order without changing
// their status.
func (s *Store) List(ctx context.Context) ([]PendingOperation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, idempotency_key, operation_type, payload_json,
		        user_email, created_at, expires_at, attempts,
		        last_error, status
		 FROM pending_operations
		 WHERE status = 'pending'
		 ORDER BY id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOperations(rows)
}

// Drain atomically marks all pending operations as 'delivering' and returns
// them in FIFO order. This prevents concurrent drain from processing the
// same operations.
func (s *Store) Drain(ctx context.Context) ([]PendingOperation, error) {
	var ops []PendingOperation

	err := s.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			`SELECT id, idempotency_key, operation_type,
			        payload_json, user_email, created_at,
			        expires_at, attempts, last_error, status
			 FROM pending_operations
			 WHERE status = 'pending'
			 ORDER BY id ASC`,
		)
		if err != nil {
			return err
		}

		ops, err = scanOperations(rows)
		rows.Close()
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE pending_operations SET status = 'delivering'
			 WHERE status = 'pending'`,
		)
		if err != nil {
			return err
		}

		for i := range ops {
			ops[i].Status = "delivering"
		}

		return nil
	})

	return ops, err
}

// MarkDelivered marks an operation as successfully delivered.
func (s *Store) MarkDelivered(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE pending_operations SET status = 'delivered'
		 WHERE id = ?`, id,
	)
	return err
}

// MarkFailed records a delivery failure and increments the attempt count.
// The operation status is reset to 'pending' so it will be retried on the
// next drain cycle.
func (s *Store) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE pending_operations
		 SET status = 'pending', attempts = attempts + 1,
		     last_error = ?
		 WHERE id = ?`, errMsg, id,
	)
	return err
}

// PurgeExpired removes operations that have passed their expiry time and
// are still awaiting delivery. Returns the number of purged rows.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM pending_operations
		 WHERE expires_at < ? AND status IN ('pending', 'delivering')`,
		time.Now().Unix(),
	)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

// Clear deletes all operations from the queue regardless of status.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM pending_operations`)
	return err
}

// Stats returns aggregate counts for all operations in the queue.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var (
		stats  Stats
		oldest sql.NullInt64
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT
		    COUNT(CASE WHEN status = 'pending' THEN 1 END),
		    COUNT(CASE WHEN status = 'delivered' THEN 1 END),
		    COUNT(CASE WHEN attempts > 0 AND status = 'pending'
		          THEN 1 END),
		    MIN(CASE WHEN status = 'pending' THEN created_at END)
		 FROM pending_operations`,
	).Scan(
		&stats.PendingCount, &stats.DeliveredCount,
		&stats.FailedCount, &oldest,
	)
	if err != nil {
		return Stats{}, err
	}

	if oldest.Valid {
		t := time.Unix(oldest.Int64, 0)
		stats.OldestPending = &t
	}

	return stats, nil
}

// Count returns the number of pending operations.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pending_operations
		 WHERE status = 'pending'`,
	).Scan(&count)

	return count, err
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// scanOperations reads pending operation rows into their in-memory form.
func scanOperations(rows *sql.Rows) ([]PendingOperation, error) {
	var ops []PendingOperation
	for rows.Next() {
		var (
			op        PendingOperation
			created   int64
			expires   int64
			lastError sql.NullString
		)
		err := rows.Scan(
			&op.ID, &op.IdempotencyKey, &op.OperationType,
			&op.PayloadJSON, &op.UserEmail, &created, &expires,
			&op.Attempts, &lastError, &op.Status,
		)
		if err != nil {
			return nil, err
		}

		op.CreatedAt = time.Unix(created, 0)
		op.ExpiresAt = time.Unix(expires, 0)
		op.LastError = lastError.String

		ops = append(ops, op)
	}

	return ops, rows.Err()
}

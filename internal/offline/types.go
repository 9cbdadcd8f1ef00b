// Package offline records mutations performed while the backend is
// unreachable and delivers them on the next successful connection. The
// queue lives in a local SQLite database in the client state directory.
package offline

import (
	"errors"
	"time"
)

// OperationType defines the kind of mutation stored in the queue.
type OperationType string

const (
	// OpSendBatch represents a queued batch send.
	OpSendBatch OperationType = "send_batch"

	// OpSendReply represents a queued conversation reply.
	OpSendReply OperationType = "send_reply"

	// OpCheckReplies represents a queued reply-detection sweep.
	OpCheckReplies OperationType = "check_replies"
)

// PendingOperation is the domain type for a queued mutation awaiting
// delivery.
type PendingOperation struct {
	ID             int64
	IdempotencyKey string
	OperationType  OperationType
	PayloadJSON    string
	UserEmail      string
	CreatedAt      time.Time
	ExpiresAt      time.Time
	Attempts       int
	LastError      string
	Status         string
}

// Stats holds aggregate counts for queued operations.
type Stats struct {
	PendingCount   int64
	DeliveredCount int64
	FailedCount    int64
	OldestPending  *time.Time
}

// Config holds configuration for the local queue.
type Config struct {
	// MaxPending is the maximum number of pending operations allowed.
	MaxPending int

	// DefaultTTL is the default time-to-live for queued operations.
	DefaultTTL time.Duration
}

// DefaultConfig returns sensible defaults for the queue.
func DefaultConfig() Config {
	return Config{
		MaxPending: 100,
		DefaultTTL: 7 * 24 * time.Hour,
	}
}

// ErrQueueFull is returned when the queue has reached its maximum pending
// capacity.
var ErrQueueFull = errors.New("offline queue is full")

package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/emberapps/outreach/internal/offline"
)

// queueCmd is the parent command for the offline mutation queue.
var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Inspect the offline mutation queue",
	Long: `Inspect the local queue used when the backend is unreachable.

Sends, replies and reply checks issued while offline are stored here and
delivered automatically the next time an authenticated command connects.`,
}

var queueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List queued operations",
	RunE:  runQueueList,
}

var queueStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show queue statistics",
	RunE:  runQueueStats,
}

var queueClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every queued operation",
	RunE:  runQueueClear,
}

func init() {
	queueCmd.AddCommand(queueListCmd)
	queueCmd.AddCommand(queueStatsCmd)
	queueCmd.AddCommand(queueClearCmd)
}

// openQueueStore opens the queue database for subcommand use.
func openQueueStore() (*offline.Store, error) {
	dir, err := resolveStateDir()
	if err != nil {
		return nil, err
	}

	store, err := offline.OpenStore(
		dir, offline.DefaultConfig(), newLogger(),
	)
	if err != nil {
		return nil, fmt.Errorf("open queue: %w", err)
	}

	return store, nil
}

func runQueueList(cmd *cobra.Command, args []string) error {
	store, err := openQueueStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ops, err := store.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list queue: %w", err)
	}

	if outputFormat == "json" {
		return outputJSON(ops)
	}

	if len(ops) == 0 {
		fmt.Println("Queue is empty.")
		return nil
	}

	fmt.Printf("Pending operations: %d\n", len(ops))
	fmt.Println(strings.Repeat("-", 60))

	for _, op := range ops {
		fmt.Printf("#%d %s (queued %s, expires %s)\n",
			op.ID, op.OperationType,
			op.CreatedAt.Format(time.RFC3339),
			op.ExpiresAt.Format(time.RFC3339))
		if op.Attempts > 0 {
			fmt.Printf("   attempts: %d, last error: %s\n",
				op.Attempts, op.LastError)
		}
	}

	return nil
}

func runQueueStats(cmd *cobra.Command, args []string) error {
	store, err := openQueueStore()
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("queue stats: %w", err)
	}

	if outputFormat == "json" {
		return outputJSON(stats)
	}

	fmt.Printf("Pending:   %d\n", stats.PendingCount)
	fmt.Printf("Delivered: %d\n", stats.DeliveredCount)
	fmt.Printf("Failed:    %d\n", stats.FailedCount)
	if stats.OldestPending != nil {
		fmt.Printf("Oldest:    %s\n",
			stats.OldestPending.Format(time.RFC3339))
	}

	return nil
}

func runQueueClear(cmd *cobra.Command, args []string) error {
	store, err := openQueueStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("clear queue: %w", err)
	}

	fmt.Println("Queue cleared.")
	return nil
}

package commands

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/spf13/cobra"

	"github.com/emberapps/outreach/internal/outreach"
	"github.com/emberapps/outreach/internal/query"
)

// adminCmd groups the cross-user views available to admin accounts.
var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Product-wide usage views (admin accounts only)",
}

var adminStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show global usage and the per-user overview",
	RunE:  runAdminStats,
}

var adminUserCmd = &cobra.Command{
	Use:   "user <email>",
	Short: "Drill into one user's sending history",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminUser,
}

func init() {
	adminCmd.AddCommand(adminStatsCmd)
	adminCmd.AddCommand(adminUserCmd)
}

func runAdminStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, _, err := requireAdmin(ctx)
	if err != nil {
		return err
	}

	stats, err := query.Fetch(ctx, getCache(), query.Spec[outreach.AdminStats]{
		Key: query.NewKey("admin-stats"),
		Fetch: func(ctx context.Context) (outreach.AdminStats, error) {
			var s outreach.AdminStats
			err := client.Get(ctx, "/api/admin/stats", &s)
			return s, err
		},
		StaleFor: 30 * time.Second,
		Fallback: fn.Some(outreach.DemoAdminStats),
	})
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		return outputJSON(stats)
	}

	g := stats.GlobalStats
	fmt.Printf("Users: %d | Sent: %d (gmail %d, outlook %d) | "+
		"Delivered: %.1f%% | Replies: %d\n",
		g.TotalUsers, g.TotalEmailsSent, g.TotalGmail, g.TotalOutlook,
		g.GlobalSuccessRate, g.TotalReplies)
	fmt.Println(strings.Repeat("-", 72))

	for _, u := range stats.Users {
		fmt.Printf("%-30s %-8s %5d sent  %5.1f%%  %3d replies  %s\n",
			u.Email, u.AccountType, u.TotalSent, u.SuccessRate,
			u.Replies, u.LastSent)
	}

	return nil
}

func runAdminUser(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	email := args[0]

	client, _, err := requireAdmin(ctx)
	if err != nil {
		return err
	}

	details, err := query.Fetch(ctx, getCache(), query.Spec[outreach.UserDetails]{
		Key: query.NewKey("admin-user", email),
		Fetch: func(ctx context.Context) (outreach.UserDetails, error) {
			var d outreach.UserDetails
			path := "/api/admin/user/" + url.PathEscape(email)
			err := client.Get(ctx, path, &d)
			return d, err
		},
		StaleFor: 30 * time.Second,
		Fallback: fn.Some(outreach.DemoUserDetails),
	})
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		return outputJSON(details)
	}

	fmt.Printf("%s (gmail: %t, outlook: %t)\n",
		details.Email, details.HasGmail, details.HasOutlook)
	s := details.Stats
	fmt.Printf("Sent: %d (gmail %d, outlook %d) | Delivered: %.1f%% | "+
		"Replies: %d | Batches: %d\n",
		s.TotalSent, s.GmailSent, s.OutlookSent, s.SuccessRate,
		s.Replies, s.BatchesCount)
	fmt.Println(strings.Repeat("-", 60))

	for _, e := range details.RecentEmails {
		fmt.Printf("%-10s %-25s %s\n", e.Status, e.RecipientEmail,
			e.Subject)
	}

	return nil
}

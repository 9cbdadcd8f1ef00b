package commands

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/spf13/cobra"

	"github.com/emberapps/outreach/internal/offline"
	"github.com/emberapps/outreach/internal/outreach"
	"github.com/emberapps/outreach/internal/query"
)

var (
	emailsProvider string
	emailsStatus   string
	emailsSearch   string

	checkProvider string
)

// dashboardCmd is the parent command for the dashboard views.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Sent-email stats, listings and reply detection",
}

var dashboardStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate send/reply statistics",
	RunE:  runDashboardStats,
}

var dashboardEmailsCmd = &cobra.Command{
	Use:   "emails",
	Short: "List sent emails",
	RunE:  runDashboardEmails,
}

var dashboardChartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Show daily send/reply volume",
	RunE:  runDashboardChart,
}

var dashboardCheckRepliesCmd = &cobra.Command{
	Use:   "check-replies",
	Short: "Scan mailboxes for new replies",
	RunE:  runCheckReplies,
}

func init() {
	dashboardEmailsCmd.Flags().StringVar(&emailsProvider, "provider", "",
		"Filter by provider (gmail, outlook)")
	dashboardEmailsCmd.Flags().StringVar(&emailsStatus, "status", "",
		"Filter by delivery status")
	dashboardEmailsCmd.Flags().StringVar(&emailsSearch, "search", "",
		"Filter by recipient, company or subject")

	dashboardCheckRepliesCmd.Flags().StringVar(&checkProvider, "provider",
		"", "Only check one provider (gmail, outlook)")

	dashboardCmd.AddCommand(dashboardStatsCmd)
	dashboardCmd.AddCommand(dashboardEmailsCmd)
	dashboardCmd.AddCommand(dashboardChartCmd)
	dashboardCmd.AddCommand(dashboardCheckRepliesCmd)
}

func runDashboardStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, _, err := requireAuth(ctx)
	if err != nil {
		return err
	}

	stats, err := query.Fetch(ctx, getCache(), query.Spec[outreach.DashboardStats]{
		Key: keyDashboardStats,
		Fetch: func(ctx context.Context) (outreach.DashboardStats, error) {
			var s outreach.DashboardStats
			err := client.Get(ctx, "/api/dashboard/stats", &s)
			return s, err
		},
		StaleFor: 30 * time.Second,
		Fallback: fn.Some(outreach.DemoStats),
	})
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		return outputJSON(stats)
	}

	fmt.Printf("Total sent:     %d\n", stats.TotalSent)
	fmt.Printf("Delivered:      %d (%.1f%%)\n",
		stats.TotalSuccess, stats.SuccessRate)
	fmt.Printf("Failed:         %d\n", stats.TotalFailed)
	fmt.Printf("Replies:        %d (%.1f%%)\n",
		stats.TotalReplies, stats.ReplyRate)
	fmt.Printf("This week:      %d\n", stats.SentThisWeek)
	fmt.Printf("This month:     %d\n", stats.SentThisMonth)
	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("Gmail:          %d sent, %d delivered, %d replies\n",
		stats.GmailSent, stats.GmailSuccess, stats.GmailReplies)
	fmt.Printf("Outlook:        %d sent, %d delivered, %d replies\n",
		stats.OutlookSent, stats.OutlookSuccess, stats.OutlookReplies)

	return nil
}

func runDashboardEmails(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, _, err := requireAuth(ctx)
	if err != nil {
		return err
	}

	path := "/api/dashboard/emails"
	params := url.Values{}
	if emailsProvider != "" {
		params.Set("provider", emailsProvider)
	}
	if emailsStatus != "" {
		params.Set("status", emailsStatus)
	}
	if emailsSearch != "" {
		params.Set("search", emailsSearch)
	}
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	page, err := query.Fetch(ctx, getCache(), query.Spec[outreach.EmailsPage]{
		Key: keyDashboardEmails(emailsProvider, emailsStatus, emailsSearch),
		Fetch: func(ctx context.Context) (outreach.EmailsPage, error) {
			var p outreach.EmailsPage
			err := client.Get(ctx, path, &p)
			return p, err
		},
		StaleFor: 30 * time.Second,
		Fallback: fn.Some(outreach.DemoEmails),
	})
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		return outputJSON(page)
	}

	if len(page.Emails) == 0 {
		fmt.Println("No sent emails match.")
		return nil
	}

	for _, e := range page.Emails {
		marker := " "
		if e.HasReply {
			marker = "↩"
		}
		fmt.Printf("%s %-8s %-10s %-30s %s\n",
			marker, e.Provider, e.Status, e.RecipientEmail, e.Subject)
	}
	fmt.Printf("\n%d of %d emails (page %d/%d)\n",
		len(page.Emails), page.Total, page.Page, page.Pages)

	return nil
}

func runDashboardChart(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, _, err := requireAuth(ctx)
	if err != nil {
		return err
	}

	points, err := query.Fetch(ctx, getCache(), query.Spec[[]outreach.ChartPoint]{
		Key: keyDashboardChart,
		Fetch: func(ctx context.Context) ([]outreach.ChartPoint, error) {
			var pts []outreach.ChartPoint
			err := client.Get(ctx, "/api/dashboard/chart", &pts)
			return pts, err
		},
		StaleFor: time.Minute,
		Fallback: fn.Some(outreach.DemoChart),
	})
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		return outputJSON(points)
	}

	for _, p := range points {
		fmt.Printf("%-8s sent %-4d %s\n",
			p.Date, p.Sent, strings.Repeat("#", p.Sent))
		if p.Replies > 0 {
			fmt.Printf("%-8s repl %-4d %s\n",
				"", p.Replies, strings.Repeat("+", p.Replies))
		}
	}

	return nil
}

func runCheckReplies(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, profile, err := requireAuth(ctx)
	if err != nil {
		return err
	}

	path := "/api/dashboard/check-replies"
	if checkProvider != "" {
		path += "?provider=" + url.QueryEscape(checkProvider)
	}

	_, err = query.Do(ctx, getCache(), query.Mutation[outreach.CheckRepliesResult]{
		Run: func(ctx context.Context) (outreach.CheckRepliesResult, error) {
			var res outreach.CheckRepliesResult
			err := client.Post(ctx, path, nil, &res)
			return res, err
		},
		Invalidates: []query.Key{
			keyDashboardStats,
			keyDashboardChart,
			keyDashboardEmails(emailsProvider, emailsStatus, emailsSearch),
		},
		OnSuccess: func(res outreach.CheckRepliesResult) {
			msg := res.Message
			if msg == "" {
				msg = fmt.Sprintf("Checked %d emails. Found %d new replies!",
					res.Checked, res.NewReplies)
			}
			fmt.Println(msg)
		},
		OnError: func(err error) {
			fmt.Printf("Reply check failed: %v\n", err)
		},
	})

	// An unreachable backend queues the sweep instead of failing.
	if backendUnreachable(err) {
		return enqueueOffline(ctx, offline.OpCheckReplies,
			&offline.CheckRepliesPayload{
				Provider: outreach.Provider(checkProvider),
			}, profile.Email)
	}

	return err
}

package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/spf13/cobra"

	"github.com/emberapps/outreach/internal/offline"
	"github.com/emberapps/outreach/internal/outreach"
	"github.com/emberapps/outreach/internal/query"
	"github.com/emberapps/outreach/internal/render"
)

// watchInterval is the refetch delay while a batch is actively being
// processed or sent.
const watchInterval = 5 * time.Second

var (
	batchWatch     bool
	batchSendLeads []string
	draftText      string
	draftFile      string
	previewOut     string
)

// batchesCmd is the parent command for batch management.
var batchesCmd = &cobra.Command{
	Use:   "batches",
	Short: "List, watch and send outreach batches",
}

var batchesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all batches",
	RunE:  runBatchesList,
}

var batchesShowCmd = &cobra.Command{
	Use:   "show <batch-id>",
	Short: "Show a batch and its leads",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatchesShow,
}

var batchesSendCmd = &cobra.Command{
	Use:   "send <batch-id>",
	Short: "Send the generated drafts for a batch",
	Long: `Send the generated drafts for a batch.

Without --lead, every lead in the ready state is sent. Pass --lead one or
more times to send a subset.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatchesSend,
}

var batchesEditDraftCmd = &cobra.Command{
	Use:   "edit-draft <batch-id> <lead-id>",
	Short: "Replace the email draft for one lead",
	Long: `Replace the email draft for one lead.

The new draft comes from --draft, from --file, or from stdin when neither
flag is given.`,
	Args: cobra.ExactArgs(2),
	RunE: runBatchesEditDraft,
}

var batchesPreviewCmd = &cobra.Command{
	Use:   "preview <batch-id> <lead-id>",
	Short: "Render a lead's draft to HTML",
	Args:  cobra.ExactArgs(2),
	RunE:  runBatchesPreview,
}

func init() {
	batchesShowCmd.Flags().BoolVar(&batchWatch, "watch", false,
		"Keep refreshing while the batch is processing or sending")

	batchesSendCmd.Flags().StringArrayVar(&batchSendLeads, "lead", nil,
		"Lead ID to send (repeatable; default: all ready leads)")

	batchesEditDraftCmd.Flags().StringVar(&draftText, "draft", "",
		"New draft text")
	batchesEditDraftCmd.Flags().StringVar(&draftFile, "file", "",
		"Read the new draft from a file")

	batchesPreviewCmd.Flags().StringVar(&previewOut, "out", "",
		"Write the HTML page to a file instead of stdout")

	batchesCmd.AddCommand(batchesListCmd)
	batchesCmd.AddCommand(batchesShowCmd)
	batchesCmd.AddCommand(batchesSendCmd)
	batchesCmd.AddCommand(batchesEditDraftCmd)
	batchesCmd.AddCommand(batchesPreviewCmd)
}

// batchDetailSpec is the cached binding for one batch detail view.
func batchDetailSpec(client batchGetter, id string) query.Spec[outreach.BatchDetail] {
	return query.Spec[outreach.BatchDetail]{
		Key: keyBatch(id),
		Fetch: func(ctx context.Context) (outreach.BatchDetail, error) {
			var d outreach.BatchDetail
			err := client.Get(ctx, "/batch/"+id, &d)
			return d, err
		},
		StaleFor: 10 * time.Second,
		Fallback: fn.Some(outreach.DemoBatchDetail),
	}
}

// batchGetter is the slice of the API client the batch bindings need.
type batchGetter interface {
	Get(ctx context.Context, path string, out any) error
}

func runBatchesList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, _, err := requireAuth(ctx)
	if err != nil {
		return err
	}

	batches, err := query.Fetch(ctx, getCache(), query.Spec[[]outreach.Batch]{
		Key: keyBatches,
		Fetch: func(ctx context.Context) ([]outreach.Batch, error) {
			var bs []outreach.Batch
			err := client.Get(ctx, "/batches", &bs)
			return bs, err
		},
		StaleFor: 10 * time.Second,
		Fallback: fn.Some(outreach.DemoBatches),
	})
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		return outputJSON(batches)
	}

	if len(batches) == 0 {
		fmt.Println("No batches yet. Import leads with `outreach import`.")
		return nil
	}

	for _, b := range batches {
		fmt.Printf("%-12s %-11s %3d/%3d leads  %d sent, %d failed  %s\n",
			b.BatchID, b.Status, b.Processed, b.TotalLeads,
			b.Succeeded, b.Failed, b.SpreadsheetName)
	}

	return nil
}

func runBatchesShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id := args[0]

	client, _, err := requireAuth(ctx)
	if err != nil {
		return err
	}

	spec := batchDetailSpec(client, id)

	if !batchWatch {
		detail, err := query.Fetch(ctx, getCache(), spec)
		if err != nil {
			return err
		}
		return printBatchDetail(detail)
	}

	// Watch mode: refetch every watchInterval while the batch is being
	// processed or sent, stop once it reaches a terminal status.
	return query.Poll(ctx, getCache(), spec,
		func(d outreach.BatchDetail) (time.Duration, bool) {
			return watchInterval, d.Status.Active()
		},
		func(d outreach.BatchDetail) {
			fmt.Printf("[%s] %s: %d/%d processed, %d sent, %d failed\n",
				time.Now().Format("15:04:05"), d.Status,
				d.ProcessedLeads, d.TotalLeads,
				d.SentLeads, d.FailedLeads)
		},
	)
}

func printBatchDetail(d outreach.BatchDetail) error {
	if outputFormat == "json" {
		return outputJSON(d)
	}

	fmt.Printf("Batch %s (%s)\n", d.ID, d.Name)
	fmt.Printf("Status: %s | %d/%d processed, %d sent, %d failed\n",
		d.Status, d.ProcessedLeads, d.TotalLeads,
		d.SentLeads, d.FailedLeads)
	fmt.Println(strings.Repeat("-", 60))

	for _, l := range d.Leads {
		fmt.Printf("%-10s %-10s %-25s %s\n",
			l.ID, l.Status, l.Email, l.Company)
		if l.Error != "" {
			fmt.Printf("           error: %s\n", l.Error)
		}
	}

	return nil
}

func runBatchesSend(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id := args[0]

	client, profile, err := requireAuth(ctx)
	if err != nil {
		return err
	}

	leadIDs := batchSendLeads
	if len(leadIDs) == 0 {
		// Default to everything in the ready state.
		detail, err := query.Fetch(
			ctx, getCache(), batchDetailSpec(client, id),
		)
		if err != nil {
			return err
		}

		leadIDs = detail.ReadyLeadIDs()
		if len(leadIDs) == 0 {
			return fmt.Errorf("batch %s has no ready leads", id)
		}
	}

	_, err = query.Do(ctx, getCache(), query.Mutation[map[string]any]{
		Run: func(ctx context.Context) (map[string]any, error) {
			var res map[string]any
			err := client.Post(ctx, "/batch/"+id+"/send",
				map[string]any{"leadIds": leadIDs}, &res)
			return res, err
		},
		Invalidates: []query.Key{
			keyBatch(id), keyBatches, keyDashboardStats,
		},
		OnSuccess: func(map[string]any) {
			fmt.Printf("Sending %d emails from batch %s. Watch "+
				"progress with `outreach batches show %s --watch`.\n",
				len(leadIDs), id, id)
		},
		OnError: func(err error) {
			fmt.Printf("Send failed: %v\n", err)
		},
	})

	if backendUnreachable(err) {
		return enqueueOffline(ctx, offline.OpSendBatch,
			&offline.SendBatchPayload{
				BatchID: id,
				LeadIDs: leadIDs,
			}, profile.Email)
	}

	return err
}

func runBatchesEditDraft(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, leadID := args[0], args[1]

	client, _, err := requireAuth(ctx)
	if err != nil {
		return err
	}

	draft, err := resolveDraftInput()
	if err != nil {
		return err
	}
	if strings.TrimSpace(draft) == "" {
		return fmt.Errorf("draft is empty")
	}

	_, err = query.Do(ctx, getCache(), query.Mutation[map[string]any]{
		Run: func(ctx context.Context) (map[string]any, error) {
			var res map[string]any
			path := fmt.Sprintf("/batch/%s/leads/%s", id, leadID)
			err := client.Patch(ctx, path,
				map[string]string{"emailDraft": draft}, &res)
			return res, err
		},
		Invalidates: []query.Key{keyBatch(id)},
		OnSuccess: func(map[string]any) {
			fmt.Printf("Draft updated for lead %s.\n", leadID)
		},
		OnError: func(err error) {
			fmt.Printf("Draft update failed: %v\n", err)
		},
	})

	return err
}

// resolveDraftInput reads the new draft from --draft, --file or stdin, in
// that order of precedence.
func resolveDraftInput() (string, error) {
	if draftText != "" {
		return draftText, nil
	}

	if draftFile != "" {
		data, err := os.ReadFile(draftFile)
		if err != nil {
			return "", fmt.Errorf("read draft file: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read draft from stdin: %w", err)
	}
	return string(data), nil
}

func runBatchesPreview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, leadID := args[0], args[1]

	client, _, err := requireAuth(ctx)
	if err != nil {
		return err
	}

	detail, err := query.Fetch(ctx, getCache(), batchDetailSpec(client, id))
	if err != nil {
		return err
	}

	lead := detail.Lead(leadID)
	if lead == nil {
		return fmt.Errorf("lead %s not found in batch %s", leadID, id)
	}
	if lead.EmailDraft == "" {
		return fmt.Errorf("lead %s has no draft yet", leadID)
	}

	title := fmt.Sprintf("Draft for %s (%s)", lead.Name, lead.Company)
	page, err := render.DraftPage(title, lead.EmailDraft)
	if err != nil {
		return err
	}

	if previewOut != "" {
		if err := os.WriteFile(previewOut, []byte(page), 0o644); err != nil {
			return fmt.Errorf("write preview: %w", err)
		}
		fmt.Printf("Preview written to %s\n", previewOut)
		return nil
	}

	fmt.Print(page)
	return nil
}

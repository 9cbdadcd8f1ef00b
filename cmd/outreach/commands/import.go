package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/emberapps/outreach/internal/api"
	"github.com/emberapps/outreach/internal/outreach"
	"github.com/emberapps/outreach/internal/query"
)

var (
	importServices      string
	importWebsite       string
	importSenderName    string
	importSenderCompany string
)

// spreadsheetIDRe extracts the document ID from a Google Sheets URL.
var spreadsheetIDRe = regexp.MustCompile(`/d/([a-zA-Z0-9-_]+)`)

// importCmd is the parent command for lead ingestion.
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import leads and start a new batch",
}

var importCSVCmd = &cobra.Command{
	Use:   "csv <file>",
	Short: "Import leads from a CSV or Excel file",
	Args:  cobra.ExactArgs(1),
	RunE:  runImportCSV,
}

var importSheetsCmd = &cobra.Command{
	Use:   "sheets <url-or-id>",
	Short: "Import leads from a Google Sheet",
	Args:  cobra.ExactArgs(1),
	RunE:  runImportSheets,
}

func init() {
	for _, c := range []*cobra.Command{importCSVCmd, importSheetsCmd} {
		c.Flags().StringVar(&importServices, "services", "",
			"What you offer (used to tailor drafts)")
		c.Flags().StringVar(&importWebsite, "website", "",
			"Your website URL")
		c.Flags().StringVar(&importSenderName, "sender-name", "",
			"Name used to sign the emails")
		c.Flags().StringVar(&importSenderCompany, "sender-company", "",
			"Company used to sign the emails")
	}

	importCmd.AddCommand(importCSVCmd)
	importCmd.AddCommand(importSheetsCmd)
}

// importSuccessMessage is the toast shown after either import variant.
func importSuccessMessage(res outreach.ImportResult) string {
	return fmt.Sprintf("Batch created with %d leads!", res.TotalLeads)
}

// extractSpreadsheetID pulls the document ID out of a full Sheets URL, or
// returns the argument unchanged when it already looks like a bare ID.
func extractSpreadsheetID(arg string) string {
	if m := spreadsheetIDRe.FindStringSubmatch(arg); m != nil {
		return m[1]
	}
	return arg
}

// uploadLeadsFile POSTs the multipart import request for a local file.
func uploadLeadsFile(ctx context.Context, client *api.Client,
	path string) (outreach.ImportResult, error) {

	var res outreach.ImportResult

	f, err := os.Open(path)
	if err != nil {
		return res, fmt.Errorf("open leads file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return res, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return res, fmt.Errorf("read leads file: %w", err)
	}

	fields := map[string]string{
		"user_services":    importServices,
		"user_website_url": importWebsite,
		"sender_name":      importSenderName,
		"sender_company":   importSenderCompany,
	}
	for name, val := range fields {
		if err := mw.WriteField(name, val); err != nil {
			return res, err
		}
	}

	if err := mw.Close(); err != nil {
		return res, err
	}

	err = client.UploadFile(ctx, "/batch/import-csv-excel",
		mw.FormDataContentType(), &buf, &res)

	return res, err
}

func runImportCSV(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, _, err := requireAuth(ctx)
	if err != nil {
		return err
	}

	res, err := query.Do(ctx, getCache(), query.Mutation[outreach.ImportResult]{
		Run: func(ctx context.Context) (outreach.ImportResult, error) {
			return uploadLeadsFile(ctx, client, args[0])
		},
		Invalidates: []query.Key{keyBatches},
		OnError: func(err error) {
			fmt.Printf("Import failed: %v\n", err)
		},
	})
	if err != nil {
		return err
	}

	fmt.Println(importSuccessMessage(res))
	fmt.Printf("Batch ID: %s\n", res.BatchID)

	return nil
}

func runImportSheets(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, profile, err := requireAuth(ctx)
	if err != nil {
		return err
	}

	if !profile.HasSheetsScope {
		return fmt.Errorf("account %s has no Sheets access; re-run "+
			"`outreach login gmail` and grant the Sheets scope",
			profile.Email)
	}

	sheetID := extractSpreadsheetID(args[0])

	res, err := query.Do(ctx, getCache(), query.Mutation[outreach.ImportResult]{
		Run: func(ctx context.Context) (outreach.ImportResult, error) {
			var res outreach.ImportResult
			body := map[string]string{
				"spreadsheet_id":   sheetID,
				"user_services":    importServices,
				"user_website_url": importWebsite,
				"sender_name":      importSenderName,
				"sender_company":   importSenderCompany,
			}
			err := client.Post(ctx, "/batch/import-spreadsheet",
				body, &res)
			return res, err
		},
		Invalidates: []query.Key{keyBatches},
		OnError: func(err error) {
			fmt.Printf("Import failed: %v\n", err)
		},
	})
	if err != nil {
		return err
	}

	fmt.Println(importSuccessMessage(res))
	fmt.Printf("Batch ID: %s\n", res.BatchID)

	return nil
}

package commands

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emberapps/outreach/internal/api"
	"github.com/emberapps/outreach/internal/outreach"
	"github.com/emberapps/outreach/internal/session"
)

// TestExtractSpreadsheetID covers full URLs, bare IDs and odd suffixes.
func TestExtractSpreadsheetID(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		want string
	}{
		{
			name: "full edit url",
			arg:  "https://docs.google.com/spreadsheets/d/1AbC-dEf_123/edit#gid=0",
			want: "1AbC-dEf_123",
		},
		{
			name: "share url",
			arg:  "https://docs.google.com/spreadsheets/d/xYz987/view?usp=sharing",
			want: "xYz987",
		},
		{
			name: "bare id",
			arg:  "1AbC-dEf_123",
			want: "1AbC-dEf_123",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, extractSpreadsheetID(tc.arg))
		})
	}
}

// TestImportSuccessMessage pins the toast shown after an import.
func TestImportSuccessMessage(t *testing.T) {
	msg := importSuccessMessage(outreach.ImportResult{
		BatchID:    "batch-42",
		TotalLeads: 87,
	})
	require.Equal(t, "Batch created with 87 leads!", msg)
}

// TestUploadLeadsFile verifies the multipart request shape and the decoded
// import result.
func TestUploadLeadsFile(t *testing.T) {
	importServices = "web design"
	importWebsite = "https://ember.test"
	importSenderName = "Pat"
	importSenderCompany = "Ember"
	t.Cleanup(func() {
		importServices, importWebsite = "", ""
		importSenderName, importSenderCompany = "", ""
	})

	var gotFields map[string]string
	var gotFile string
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/batch/import-csv-excel", r.URL.Path)
			require.NoError(t, r.ParseMultipartForm(1<<20))

			gotFields = map[string]string{}
			for name := range r.MultipartForm.Value {
				gotFields[name] = r.FormValue(name)
			}

			f, hdr, err := r.FormFile("file")
			require.NoError(t, err)
			defer f.Close()
			gotFile = hdr.Filename

			w.Write([]byte(`{"batch_id": "batch-42", "total_leads": 87}`))
		},
	))
	defer srv.Close()

	leads := filepath.Join(t.TempDir(), "leads.csv")
	require.NoError(t, os.WriteFile(
		leads, []byte("email,company\na@b.co,Acme\n"), 0o644,
	))

	sess, err := session.NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, sess.SetToken("tok"))
	client := api.NewClient(srv.URL, sess)

	res, err := uploadLeadsFile(context.Background(), client, leads)
	require.NoError(t, err)

	require.Equal(t, "batch-42", res.BatchID)
	require.Equal(t, 87, res.TotalLeads)
	require.Equal(t, "Batch created with 87 leads!", importSuccessMessage(res))

	require.Equal(t, "leads.csv", gotFile)
	require.Equal(t, map[string]string{
		"user_services":    "web design",
		"user_website_url": "https://ember.test",
		"sender_name":      "Pat",
		"sender_company":   "Ember",
	}, gotFields)
}

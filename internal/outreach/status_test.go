package outreach

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestBatchStatusActive pins which statuses keep a watcher polling.
func TestBatchStatusActive(t *testing.T) {
	tests := []struct {
		status BatchStatus
		active bool
	}{
		{BatchDraft, false},
		{BatchProcessing, true},
		{BatchReady, false},
		{BatchSending, true},
		{BatchCompleted, false},
		{BatchPaused, false},
		{BatchFailed, false},
	}

	for _, tc := range tests {
		t.Run(string(tc.status), func(t *testing.T) {
			require.Equal(t, tc.active, tc.status.Active())
		})
	}
}

// TestProviderValid verifies only the two known providers pass.
func TestProviderValid(t *testing.T) {
	require.True(t, ProviderGmail.Valid())
	require.True(t, ProviderOutlook.Valid())
	require.False(t, Provider("yahoo").Valid())
	require.False(t, Provider("").Valid())
}

// TestBatchDetailHelpers covers lead lookup and ready-lead selection.
func TestBatchDetailHelpers(t *testing.T) {
	d := BatchDetail{
		Leads: []Lead{
			{ID: "l1", Status: LeadReady},
			{ID: "l2", Status: LeadSent},
			{ID: "l3", Status: LeadReady},
			{ID: "l4", Status: LeadFailed},
		},
	}

	require.Equal(t, []string{"l1", "l3"}, d.ReadyLeadIDs())

	require.NotNil(t, d.Lead("l2"))
	require.Equal(t, LeadSent, d.Lead("l2").Status)
	require.Nil(t, d.Lead("nope"))
}

package outreach

// Provider identifies which mail account an email was sent through.
type Provider string

const (
	// ProviderGmail routes through the user's Gmail account.
	ProviderGmail Provider = "gmail"

	// ProviderOutlook routes through the user's Outlook account.
	ProviderOutlook Provider = "outlook"
)

// Valid reports whether the provider is one the backend knows about.
func (p Provider) Valid() bool {
	return p == ProviderGmail || p == ProviderOutlook
}

// LeadStatus tracks a single lead through pending -> processing -> ready ->
// sent/failed.
type LeadStatus string

const (
	LeadPending    LeadStatus = "pending"
	LeadProcessing LeadStatus = "processing"
	LeadReady      LeadStatus = "ready"
	LeadSent       LeadStatus = "sent"
	LeadFailed     LeadStatus = "failed"
)

// BatchStatus tracks a batch through its lifecycle.
type BatchStatus string

const (
	BatchDraft      BatchStatus = "draft"
	BatchProcessing BatchStatus = "processing"
	BatchReady      BatchStatus = "ready"
	BatchSending    BatchStatus = "sending"
	BatchCompleted  BatchStatus = "completed"
	BatchPaused     BatchStatus = "paused"
	BatchFailed     BatchStatus = "failed"
)

// Active reports whether the backend is still working on the batch. Watchers
// keep polling only while the batch is active; ready and paused count as
// settled so a finished batch never triggers background refetches.
func (s BatchStatus) Active() bool {
	return s == BatchProcessing || s == BatchSending
}

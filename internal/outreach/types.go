package outreach

// Lead is one prospect record tracked through the outreach pipeline.
type Lead struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Company    string     `json:"company"`
	Website    string     `json:"website"`
	Status     LeadStatus `json:"status"`
	EmailDraft string     `json:"emailDraft,omitempty"`
	PainPoints []string   `json:"painPoints,omitempty"`
	SentAt     string     `json:"sentAt,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// Batch is a summary row as returned by the batch listing endpoint.
type Batch struct {
	BatchID         string      `json:"batch_id"`
	SpreadsheetName string      `json:"spreadsheet_name"`
	CreatedAt       string      `json:"created_at"`
	Status          BatchStatus `json:"status"`
	TotalLeads      int         `json:"total_leads"`
	Processed       int         `json:"processed"`
	Succeeded       int         `json:"succeeded"`
	Failed          int         `json:"failed"`
}

// BatchDetail is the full batch record including its leads.
type BatchDetail struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Status         BatchStatus `json:"status"`
	TotalLeads     int         `json:"totalLeads"`
	ProcessedLeads int         `json:"processedLeads"`
	SentLeads      int         `json:"sentLeads"`
	FailedLeads    int         `json:"failedLeads"`
	CreatedAt      string      `json:"createdAt"`
	Leads          []Lead      `json:"leads"`
}

// Lead returns the lead with the given ID, or nil if absent.
func (b *BatchDetail) Lead(id string) *Lead {
	for i := range b.Leads {
		if b.Leads[i].ID == id {
			return &b.Leads[i]
		}
	}
	return nil
}

// ReadyLeadIDs returns the IDs of all leads in the ready state.
func (b *BatchDetail) ReadyLeadIDs() []string {
	var ids []string
	for _, l := range b.Leads {
		if l.Status == LeadReady {
			ids = append(ids, l.ID)
		}
	}
	return ids
}

// ImportResult is returned by both spreadsheet and file import endpoints.
type ImportResult struct {
	BatchID    string `json:"batch_id"`
	TotalLeads int    `json:"total_leads"`
}

// DashboardStats holds the aggregate counters shown on the dashboard.
type DashboardStats struct {
	TotalSent      int     `json:"total_sent"`
	TotalSuccess   int     `json:"total_success"`
	TotalFailed    int     `json:"total_failed"`
	TotalReplies   int     `json:"total_replies"`
	SuccessRate    float64 `json:"success_rate"`
	ReplyRate      float64 `json:"reply_rate"`
	SentThisWeek   int     `json:"sent_this_week"`
	SentThisMonth  int     `json:"sent_this_month"`
	GmailSent      int     `json:"gmail_sent"`
	GmailSuccess   int     `json:"gmail_success"`
	GmailReplies   int     `json:"gmail_replies"`
	OutlookSent    int     `json:"outlook_sent"`
	OutlookSuccess int     `json:"outlook_success"`
	OutlookReplies int     `json:"outlook_replies"`
}

// SentEmail is one row of the dashboard sent-email listing.
type SentEmail struct {
	EmailID          string   `json:"email_id"`
	SentAt           string   `json:"sent_at"`
	RecipientEmail   string   `json:"recipient_email"`
	RecipientName    string   `json:"recipient_name"`
	RecipientCompany string   `json:"recipient_company"`
	Subject          string   `json:"subject"`
	Status           string   `json:"status"`
	HasReply         bool     `json:"has_reply"`
	BatchName        string   `json:"batch_name"`
	Provider         Provider `json:"provider"`
}

// EmailsPage is one page of the sent-email listing.
type EmailsPage struct {
	Emails  []SentEmail `json:"emails"`
	Total   int         `json:"total"`
	Page    int         `json:"page"`
	Pages   int         `json:"pages"`
	HasNext bool        `json:"has_next"`
	HasPrev bool        `json:"has_prev"`
}

// ChartPoint is one day of send/reply volume for the dashboard chart.
type ChartPoint struct {
	Date     string `json:"date"`
	FullDate string `json:"full_date"`
	Sent     int    `json:"sent"`
	Replies  int    `json:"replies"`
}

// CheckRepliesResult reports the outcome of a reply-detection sweep.
type CheckRepliesResult struct {
	Checked    int    `json:"checked"`
	NewReplies int    `json:"new_replies"`
	Message    string `json:"message"`
}

// Message is a single email in a conversation thread.
type Message struct {
	Direction string `json:"direction"`
	From      string `json:"from"`
	To        string `json:"to"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	Timestamp string `json:"timestamp"`
}

// Conversation is a full thread between the user and one recipient.
type Conversation struct {
	EmailID          string    `json:"email_id"`
	RecipientEmail   string    `json:"recipient_email"`
	RecipientName    string    `json:"recipient_name"`
	RecipientCompany string    `json:"recipient_company"`
	Provider         Provider  `json:"provider"`
	Messages         []Message `json:"conversation"`
}

// ReplyResult is returned after an AI-generated reply has been sent.
type ReplyResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// GlobalStats aggregates usage across every user of the product.
type GlobalStats struct {
	TotalUsers        int     `json:"total_users"`
	TotalEmailsSent   int     `json:"total_emails_sent"`
	TotalGmail        int     `json:"total_gmail"`
	TotalOutlook      int     `json:"total_outlook"`
	TotalSuccess      int     `json:"total_success"`
	TotalFailed       int     `json:"total_failed"`
	TotalReplies      int     `json:"total_replies"`
	GlobalSuccessRate float64 `json:"global_success_rate"`
}

// UserStats is one user's row in the admin overview.
type UserStats struct {
	Email        string  `json:"email"`
	AccountType  string  `json:"account_type"`
	TotalSent    int     `json:"total_sent"`
	GmailSent    int     `json:"gmail_sent"`
	OutlookSent  int     `json:"outlook_sent"`
	SuccessCount int     `json:"success_count"`
	FailedCount  int     `json:"failed_count"`
	SuccessRate  float64 `json:"success_rate"`
	Replies      int     `json:"replies"`
	LastSent     string  `json:"last_sent"`
}

// AdminStats is the admin overview payload.
type AdminStats struct {
	GlobalStats GlobalStats `json:"global_stats"`
	Users       []UserStats `json:"users"`
}

// UserDetailStats holds the per-user counters in a drill-down view.
type UserDetailStats struct {
	TotalSent    int     `json:"total_sent"`
	GmailSent    int     `json:"gmail_sent"`
	OutlookSent  int     `json:"outlook_sent"`
	SuccessCount int     `json:"success_count"`
	FailedCount  int     `json:"failed_count"`
	SuccessRate  float64 `json:"success_rate"`
	Replies      int     `json:"replies"`
	BatchesCount int     `json:"batches_count"`
}

// UserDetails is the admin drill-down for a single user.
type UserDetails struct {
	Email        string          `json:"email"`
	HasGmail     bool            `json:"has_gmail"`
	HasOutlook   bool            `json:"has_outlook"`
	Stats        UserDetailStats `json:"stats"`
	RecentEmails []SentEmail     `json:"recent_emails"`
}

// WebsiteAnalysis is the AI read on a prospect's website.
type WebsiteAnalysis struct {
	CurrentOfferings    []string `json:"current_offerings"`
	PotentialPainPoints []string `json:"potential_pain_points"`
	PersonalizedOffer   string   `json:"personalized_offer"`
}

// AnalysisResult is the single-lead analyze-and-outreach payload.
type AnalysisResult struct {
	URL                 string          `json:"url"`
	DiscoveredEmails    []string        `json:"discovered_emails"`
	PrimaryContactEmail string          `json:"primary_contact_email"`
	Analysis            WebsiteAnalysis `json:"analysis"`
	EmailSubject        string          `json:"email_subject"`
	EmailBody           string          `json:"email_body"`
}

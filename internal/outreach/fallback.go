package outreach

// Demo datasets used as degraded-mode substitutes when the backend is
// unreachable. Each data-bound command opts into the dataset for its own
// query key; the fallback keeps output populated instead of erroring out,
// which is deliberate product behavior and can be disabled per query.

// DemoStats is the dashboard-stats fallback.
var DemoStats = DashboardStats{
	TotalSent:      1234,
	TotalSuccess:   1200,
	TotalFailed:    34,
	TotalReplies:   450,
	SuccessRate:    97.2,
	ReplyRate:      37.5,
	SentThisWeek:   156,
	SentThisMonth:  678,
	GmailSent:      800,
	GmailSuccess:   780,
	GmailReplies:   290,
	OutlookSent:    434,
	OutlookSuccess: 420,
	OutlookReplies: 160,
}

// DemoEmails is the sent-email listing fallback.
var DemoEmails = EmailsPage{
	Emails: []SentEmail{
		{
			EmailID:          "1",
			SentAt:           "2026-01-12T10:30:00Z",
			RecipientEmail:   "john@acme.com",
			RecipientName:    "John Doe",
			RecipientCompany: "Acme Corp",
			Subject:          "Boost Your Sales Process",
			Status:           "sent",
			HasReply:         true,
			BatchName:        "Q1 Outreach",
			Provider:         ProviderGmail,
		},
		{
			EmailID:          "2",
			SentAt:           "2026-01-12T09:15:00Z",
			RecipientEmail:   "sarah@techstart.io",
			RecipientName:    "Sarah Chen",
			RecipientCompany: "TechStart",
			Subject:          "Streamline Your Operations",
			Status:           "replied",
			HasReply:         true,
			BatchName:        "Q1 Outreach",
			Provider:         ProviderOutlook,
		},
		{
			EmailID:          "3",
			SentAt:           "2026-01-11T16:45:00Z",
			RecipientEmail:   "mike@enterprise.co",
			RecipientName:    "Mike Johnson",
			RecipientCompany: "Enterprise Co",
			Subject:          "Automate Your Workflow",
			Status:           "sent",
			HasReply:         false,
			BatchName:        "Enterprise Leads",
			Provider:         ProviderGmail,
		},
		{
			EmailID:          "4",
			SentAt:           "2026-01-11T14:20:00Z",
			RecipientEmail:   "lisa@startup.dev",
			RecipientName:    "Lisa Wang",
			RecipientCompany: "Startup Dev",
			Subject:          "Scale Your Team",
			Status:           "failed",
			HasReply:         false,
			BatchName:        "Startup Outreach",
			Provider:         ProviderGmail,
		},
		{
			EmailID:          "5",
			SentAt:           "2026-01-10T11:00:00Z",
			RecipientEmail:   "tom@bigcorp.com",
			RecipientName:    "Tom Smith",
			RecipientCompany: "BigCorp",
			Subject:          "Increase Your Revenue",
			Status:           "replied",
			HasReply:         true,
			BatchName:        "Q1 Outreach",
			Provider:         ProviderOutlook,
		},
	},
	Total:   5,
	Page:    1,
	Pages:   1,
	HasNext: false,
	HasPrev: false,
}

// DemoChart is the daily volume chart fallback.
var DemoChart = []ChartPoint{
	{Date: "Jan 1", FullDate: "2026-01-01", Sent: 45, Replies: 12},
	{Date: "Jan 2", FullDate: "2026-01-02", Sent: 52, Replies: 18},
	{Date: "Jan 3", FullDate: "2026-01-03", Sent: 38, Replies: 14},
	{Date: "Jan 4", FullDate: "2026-01-04", Sent: 65, Replies: 22},
	{Date: "Jan 5", FullDate: "2026-01-05", Sent: 72, Replies: 28},
	{Date: "Jan 6", FullDate: "2026-01-06", Sent: 48, Replies: 15},
	{Date: "Jan 7", FullDate: "2026-01-07", Sent: 85, Replies: 32},
	{Date: "Jan 8", FullDate: "2026-01-08", Sent: 67, Replies: 24},
	{Date: "Jan 9", FullDate: "2026-01-09", Sent: 92, Replies: 38},
	{Date: "Jan 10", FullDate: "2026-01-10", Sent: 78, Replies: 29},
	{Date: "Jan 11", FullDate: "2026-01-11", Sent: 56, Replies: 19},
	{Date: "Jan 12", FullDate: "2026-01-12", Sent: 88, Replies: 35},
}

// DemoCheckReplies is the reply-detection fallback.
var DemoCheckReplies = CheckRepliesResult{
	Checked:    50,
	NewReplies: 3,
	Message:    "Checked 50 emails. Found 3 new replies!",
}

// DemoBatches is the batch listing fallback.
var DemoBatches = []Batch{
	{
		BatchID:         "batch-1",
		SpreadsheetName: "Q1 Outreach Campaign",
		CreatedAt:       "2026-01-12T09:00:00Z",
		Status:          BatchCompleted,
		TotalLeads:      150,
		Processed:       150,
		Succeeded:       145,
		Failed:          5,
	},
	{
		BatchID:         "batch-2",
		SpreadsheetName: "Enterprise Leads - January",
		CreatedAt:       "2026-01-11T14:30:00Z",
		Status:          BatchProcessing,
		TotalLeads:      75,
		Processed:       45,
		Succeeded:       43,
		Failed:          2,
	},
	{
		BatchID:         "batch-3",
		SpreadsheetName: "Startup Outreach",
		CreatedAt:       "2026-01-10T11:15:00Z",
		Status:          BatchCompleted,
		TotalLeads:      200,
		Processed:       200,
		Succeeded:       188,
		Failed:          12,
	},
	{
		BatchID:         "batch-4",
		SpreadsheetName: "Tech Companies List",
		CreatedAt:       "2026-01-09T16:45:00Z",
		Status:          BatchFailed,
		TotalLeads:      50,
		Processed:       23,
		Succeeded:       20,
		Failed:          3,
	},
}

// DemoBatchDetail is the batch drill-down fallback.
var DemoBatchDetail = BatchDetail{
	ID:             "1",
	Name:           "Q1 Outreach Campaign",
	Status:         BatchReady,
	TotalLeads:     150,
	ProcessedLeads: 150,
	SentLeads:      0,
	FailedLeads:    0,
	CreatedAt:      "2024-01-15T10:30:00Z",
	Leads: []Lead{
		{
			ID:      "1",
			Name:    "John Smith",
			Email:   "john@techcorp.com",
			Company: "TechCorp",
			Website: "https://techcorp.com",
			Status:  LeadReady,
			EmailDraft: "Hi John,\n\nI noticed TechCorp is expanding " +
				"its digital presence. Our platform has helped similar " +
				"companies increase their outreach efficiency by 40%.\n\n" +
				"Would you be open to a quick 15-minute call this " +
				"week?\n\nBest,\nAlex",
			PainPoints: []string{
				"Lead generation", "Sales automation", "CRM integration",
			},
		},
		{
			ID:      "2",
			Name:    "Sarah Johnson",
			Email:   "sarah@innovate.io",
			Company: "Innovate.io",
			Website: "https://innovate.io",
			Status:  LeadReady,
			EmailDraft: "Hi Sarah,\n\nI came across Innovate.io and was " +
				"impressed by your recent product launch. We specialize " +
				"in helping companies like yours scale their outreach.\n\n" +
				"Would love to share some insights. Free for a quick " +
				"chat?\n\nBest,\nAlex",
			PainPoints: []string{"Scaling outreach", "Email deliverability"},
		},
		{
			ID:         "3",
			Name:       "Mike Chen",
			Email:      "mike@growthlab.com",
			Company:    "GrowthLab",
			Website:    "https://growthlab.com",
			Status:     LeadSent,
			EmailDraft: "Hi Mike,\n\nYour work at GrowthLab caught my attention...",
			SentAt:     "2024-01-15T14:30:00Z",
		},
		{
			ID:      "4",
			Name:    "Emily Davis",
			Email:   "emily@startupx.com",
			Company: "StartupX",
			Website: "https://startupx.com",
			Status:  LeadFailed,
			Error:   "Email bounced - invalid address",
		},
		{
			ID:      "5",
			Name:    "David Wilson",
			Email:   "david@enterprise.co",
			Company: "Enterprise Co",
			Website: "https://enterprise.co",
			Status:  LeadProcessing,
		},
	},
}

// DemoConversation is the thread-view fallback.
var DemoConversation = Conversation{
	EmailID:          "abc-123",
	RecipientEmail:   "john@acme.com",
	RecipientName:    "John Doe",
	RecipientCompany: "Acme Corp",
	Provider:         ProviderGmail,
	Messages: []Message{
		{
			Direction: "sent",
			From:      "me@company.com",
			To:        "john@acme.com",
			Subject:   "Boost Your Sales Process with AutoReach AI",
			Body: "Hi John,\n\nI noticed Acme Corp has been expanding its " +
				"sales team recently. Congratulations on the growth!\n\n" +
				"I wanted to reach out because we've helped similar " +
				"companies streamline their outreach process and increase " +
				"response rates by 40%.\n\nWould you be open to a quick " +
				"15-minute call next week?\n\nBest regards,\nAlice Smith",
			Timestamp: "2026-01-12T10:30:00Z",
		},
		{
			Direction: "received",
			From:      "john@acme.com",
			To:        "me@company.com",
			Subject:   "Re: Boost Your Sales Process with AutoReach AI",
			Body: "Hi Alice,\n\nThanks for reaching out! We've actually " +
				"been looking for solutions to improve our outreach " +
				"efficiency.\n\nCould we schedule something for the week " +
				"after next? Also, do you have any case studies from " +
				"companies in our industry?\n\nBest,\nJohn",
			Timestamp: "2026-01-12T14:20:00Z",
		},
		{
			Direction: "sent",
			From:      "me@company.com",
			To:        "john@acme.com",
			Subject:   "Re: Boost Your Sales Process with AutoReach AI",
			Body: "Hi John,\n\nThe week after next works perfectly. " +
				"I've attached a case study from a company in a similar " +
				"space; they saw a 45% increase in qualified leads within " +
				"the first quarter.\n\nHow does Tuesday the 28th at 2 PM " +
				"EST sound?\n\nBest regards,\nAlice",
			Timestamp: "2026-01-12T16:45:00Z",
		},
		{
			Direction: "received",
			From:      "john@acme.com",
			To:        "me@company.com",
			Subject:   "Re: Boost Your Sales Process with AutoReach AI",
			Body: "Hi Alice,\n\nTuesday the 28th at 2 PM EST works great " +
				"for me. I'll send over a calendar invite.\n\nLooking " +
				"forward to the conversation!\n\nJohn",
			Timestamp: "2026-01-13T09:15:00Z",
		},
	},
}

// DemoAdminStats is the admin overview fallback.
var DemoAdminStats = AdminStats{
	GlobalStats: GlobalStats{
		TotalUsers:        45,
		TotalEmailsSent:   12500,
		TotalGmail:        8000,
		TotalOutlook:      4500,
		TotalSuccess:      12100,
		TotalFailed:       400,
		TotalReplies:      3800,
		GlobalSuccessRate: 96.8,
	},
	Users: []UserStats{
		{
			Email:        "alice@techcorp.com",
			AccountType:  "both",
			TotalSent:    450,
			GmailSent:    300,
			OutlookSent:  150,
			SuccessCount: 445,
			FailedCount:  5,
			SuccessRate:  98.9,
			Replies:      167,
			LastSent:     "2026-01-12T15:30:00Z",
		},
		{
			Email:        "bob@startup.io",
			AccountType:  "gmail",
			TotalSent:    320,
			GmailSent:    320,
			SuccessCount: 310,
			FailedCount:  10,
			SuccessRate:  96.9,
			Replies:      89,
			LastSent:     "2026-01-12T14:20:00Z",
		},
		{
			Email:        "carol@enterprise.co",
			AccountType:  "outlook",
			TotalSent:    580,
			OutlookSent:  580,
			SuccessCount: 565,
			FailedCount:  15,
			SuccessRate:  97.4,
			Replies:      203,
			LastSent:     "2026-01-12T16:45:00Z",
		},
		{
			Email:        "david@agency.com",
			AccountType:  "gmail",
			TotalSent:    890,
			GmailSent:    890,
			SuccessCount: 875,
			FailedCount:  15,
			SuccessRate:  98.3,
			Replies:      312,
			LastSent:     "2026-01-11T18:30:00Z",
		},
		{
			Email:        "emma@consulting.biz",
			AccountType:  "both",
			TotalSent:    1250,
			GmailSent:    800,
			OutlookSent:  450,
			SuccessCount: 1220,
			FailedCount:  30,
			SuccessRate:  97.6,
			Replies:      456,
			LastSent:     "2026-01-12T17:00:00Z",
		},
	},
}

// DemoUserDetails is the admin user drill-down fallback.
var DemoUserDetails = UserDetails{
	Email:      "alice@techcorp.com",
	HasGmail:   true,
	HasOutlook: true,
	Stats: UserDetailStats{
		TotalSent:    450,
		GmailSent:    300,
		OutlookSent:  150,
		SuccessCount: 445,
		FailedCount:  5,
		SuccessRate:  98.9,
		Replies:      167,
		BatchesCount: 8,
	},
	RecentEmails: []SentEmail{
		{
			EmailID:        "1",
			RecipientEmail: "john@company.com",
			RecipientName:  "John Doe",
			Subject:        "Boost Your Sales",
			Provider:       ProviderGmail,
			Status:         "replied",
			HasReply:       true,
			SentAt:         "2026-01-12T10:30:00Z",
		},
		{
			EmailID:        "2",
			RecipientEmail: "sarah@tech.io",
			RecipientName:  "Sarah Chen",
			Subject:        "Streamline Operations",
			Provider:       ProviderOutlook,
			Status:         "sent",
			HasReply:       false,
			SentAt:         "2026-01-12T09:15:00Z",
		},
		{
			EmailID:        "3",
			RecipientEmail: "mike@enterprise.co",
			RecipientName:  "Mike Johnson",
			Subject:        "Automate Workflow",
			Provider:       ProviderGmail,
			Status:         "sent",
			HasReply:       false,
			SentAt:         "2026-01-11T16:45:00Z",
		},
	},
}

// DemoAnalysis builds the analyze-and-outreach fallback for the given URL
// and sender. Sender fields fall back to placeholders when empty, matching
// the shape a real analysis would carry.
func DemoAnalysis(url, senderName, senderCompany string) AnalysisResult {
	if senderName == "" {
		senderName = "John"
	}
	if senderCompany == "" {
		senderCompany = "TechCorp"
	}

	return AnalysisResult{
		URL: url,
		DiscoveredEmails: []string{
			"info@example.com", "sales@example.com", "contact@example.com",
		},
		PrimaryContactEmail: "sales@example.com",
		Analysis: WebsiteAnalysis{
			CurrentOfferings: []string{
				"B2B SaaS Solutions", "Enterprise Software", "Cloud Services",
			},
			PotentialPainPoints: []string{
				"Manual sales processes", "Poor lead tracking",
				"Low email engagement",
			},
			PersonalizedOffer: "AI-powered sales automation platform",
		},
		EmailSubject: "Streamline Your Sales Process with AI",
		EmailBody: "Hi [Name],\n\nI noticed your company specializes in " +
			"enterprise software solutions. Many teams in your space " +
			"struggle with manual sales processes and low email " +
			"engagement rates.\n\nAt " + senderCompany + ", we've helped " +
			"similar companies increase their reply rates by 3x using " +
			"AI-powered personalization.\n\nWould you be open to a quick " +
			"15-minute call this week to explore if we might be a " +
			"fit?\n\nBest regards,\n" + senderName + "\n" + senderCompany,
	}
}

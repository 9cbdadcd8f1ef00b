package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/spf13/cobra"

	"github.com/emberapps/outreach/internal/offline"
	"github.com/emberapps/outreach/internal/outreach"
	"github.com/emberapps/outreach/internal/query"
)

var (
	convProvider      string
	replyInstructions string
	replyFirstName    string
	replySenderName   string
	replySenderCo     string
)

// conversationCmd is the parent command for reply threads.
var conversationCmd = &cobra.Command{
	Use:   "conversation",
	Short: "Read and answer detected reply threads",
}

var conversationShowCmd = &cobra.Command{
	Use:   "show <email-id>",
	Short: "Show the full thread for a sent email",
	Args:  cobra.ExactArgs(1),
	RunE:  runConversationShow,
}

var conversationReplyCmd = &cobra.Command{
	Use:   "reply <email-id>",
	Short: "Send an AI-drafted reply in a thread",
	Long: `Send an AI-drafted reply in a thread.

--instructions tells the backend what the reply should say; it is required
and validated before any request goes out.`,
	Args: cobra.ExactArgs(1),
	RunE: runConversationReply,
}

func init() {
	for _, c := range []*cobra.Command{
		conversationShowCmd, conversationReplyCmd,
	} {
		c.Flags().StringVar(&convProvider, "provider", "gmail",
			"Provider the email was sent through (gmail, outlook)")
	}

	conversationReplyCmd.Flags().StringVar(&replyInstructions,
		"instructions", "", "What the reply should say")
	conversationReplyCmd.Flags().StringVar(&replyFirstName,
		"first-name", "", "Recipient first name for the greeting")
	conversationReplyCmd.Flags().StringVar(&replySenderName,
		"sender-name", "", "Name used to sign the reply")
	conversationReplyCmd.Flags().StringVar(&replySenderCo,
		"sender-company", "", "Company used to sign the reply")

	conversationCmd.AddCommand(conversationShowCmd)
	conversationCmd.AddCommand(conversationReplyCmd)
}

func conversationSpec(client batchGetter, provider,
	emailID string) query.Spec[outreach.Conversation] {

	path := fmt.Sprintf("/api/conversation/%s/thread/%s", provider, emailID)

	return query.Spec[outreach.Conversation]{
		Key: keyConversation(provider, emailID),
		Fetch: func(ctx context.Context) (outreach.Conversation, error) {
			var conv outreach.Conversation
			err := client.Get(ctx, path, &conv)
			return conv, err
		},
		StaleFor: 15 * time.Second,
		Fallback: fn.Some(outreach.DemoConversation),
	}
}

func runConversationShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	emailID := args[0]

	client, _, err := requireAuth(ctx)
	if err != nil {
		return err
	}

	conv, err := query.Fetch(ctx, getCache(),
		conversationSpec(client, convProvider, emailID))
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		return outputJSON(conv)
	}

	fmt.Printf("Thread with %s <%s> at %s\n",
		conv.RecipientName, conv.RecipientEmail, conv.RecipientCompany)
	fmt.Println(strings.Repeat("=", 60))

	for _, m := range conv.Messages {
		arrow := "->"
		if m.Direction == "received" {
			arrow = "<-"
		}
		fmt.Printf("%s %s (%s)\n", arrow, m.From, m.Timestamp)
		fmt.Printf("   %s\n\n", m.Subject)
		fmt.Println(indent(m.Body, "   "))
		fmt.Println(strings.Repeat("-", 60))
	}

	return nil
}

// indent prefixes every line of s.
func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

func runConversationReply(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	emailID := args[0]

	// Validated before any network traffic.
	if strings.TrimSpace(replyInstructions) == "" {
		return fmt.Errorf("please provide reply instructions " +
			"(--instructions)")
	}

	client, profile, err := requireAuth(ctx)
	if err != nil {
		return err
	}

	path := fmt.Sprintf("/api/conversation/%s/thread/%s/reply",
		convProvider, emailID)
	body := map[string]string{
		"instructions":         replyInstructions,
		"recipient_first_name": replyFirstName,
		"sender_name":          replySenderName,
		"sender_company":       replySenderCo,
	}

	_, err = query.Do(ctx, getCache(), query.Mutation[outreach.ReplyResult]{
		Run: func(ctx context.Context) (outreach.ReplyResult, error) {
			var res outreach.ReplyResult
			err := client.Post(ctx, path, body, &res)
			return res, err
		},
		Invalidates: []query.Key{
			keyConversation(convProvider, emailID),
		},
		OnSuccess: func(res outreach.ReplyResult) {
			fmt.Println("Reply sent.")
			if res.Subject != "" {
				fmt.Printf("Subject: %s\n", res.Subject)
			}
		},
		OnError: func(err error) {
			fmt.Printf("Reply failed: %v\n", err)
		},
	})

	if backendUnreachable(err) {
		return enqueueOffline(ctx, offline.OpSendReply,
			&offline.SendReplyPayload{
				EmailID:            emailID,
				Provider:           outreach.Provider(convProvider),
				Instructions:       replyInstructions,
				RecipientFirstName: replyFirstName,
				SenderName:         replySenderName,
				SenderCompany:      replySenderCo,
			}, profile.Email)
	}

	return err
}

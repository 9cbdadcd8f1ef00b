package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/spf13/cobra"

	"github.com/emberapps/outreach/internal/outreach"
	"github.com/emberapps/outreach/internal/query"
)

var (
	analyzeSenderName    string
	analyzeSenderCompany string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Analyze a single website and draft an outreach email",
	Long: `Analyze a single prospect website, discover contact addresses and
generate a tailored outreach draft without creating a batch.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeSenderName, "sender-name", "",
		"Name used to sign the draft")
	analyzeCmd.Flags().StringVar(&analyzeSenderCompany, "sender-company",
		"", "Company used to sign the draft")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	target := args[0]

	client, _, err := requireAuth(ctx)
	if err != nil {
		return err
	}

	res, err := query.Fetch(ctx, getCache(), query.Spec[outreach.AnalysisResult]{
		Key: query.NewKey("analyze", target),
		Fetch: func(ctx context.Context) (outreach.AnalysisResult, error) {
			var out outreach.AnalysisResult
			body := map[string]string{
				"url":            target,
				"sender_name":    analyzeSenderName,
				"sender_company": analyzeSenderCompany,
			}
			err := client.Post(ctx, "/analyze-and-outreach", body, &out)
			return out, err
		},
		// Analysis crawls the target site server-side; never worth a
		// blind retry.
		Retries: -1,
		Fallback: fn.Some(outreach.DemoAnalysis(
			target, analyzeSenderName, analyzeSenderCompany,
		)),
	})
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		return outputJSON(res)
	}

	fmt.Printf("Analyzed %s\n", res.URL)
	fmt.Printf("Contacts: %s (primary: %s)\n",
		strings.Join(res.DiscoveredEmails, ", "),
		res.PrimaryContactEmail)
	fmt.Println(strings.Repeat("-", 60))

	fmt.Println("Offerings:")
	for _, o := range res.Analysis.CurrentOfferings {
		fmt.Printf("  - %s\n", o)
	}
	fmt.Println("Pain points:")
	for _, p := range res.Analysis.PotentialPainPoints {
		fmt.Printf("  - %s\n", p)
	}
	fmt.Printf("Angle: %s\n", res.Analysis.PersonalizedOffer)
	fmt.Println(strings.Repeat("-", 60))

	fmt.Printf("Subject: %s\n\n", res.EmailSubject)
	fmt.Println(res.EmailBody)

	return nil
}

package commands

import (
	"github.com/spf13/cobra"

	"github.com/emberapps/outreach/internal/api"
)

var (
	// apiAddr is the backend API base URL.
	apiAddr string

	// stateDir overrides the default client state directory.
	stateDir string

	// outputFormat controls output format (text, json).
	outputFormat string

	// verbose enables debug logging.
	verbose bool
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "outreach",
	Short: "Email outreach campaign CLI",
	Long: `Outreach CLI drives AI-assisted cold email campaigns from the terminal.

Log in with a Gmail or Outlook account, import leads from a CSV file or a
Google Sheet, watch batches as drafts are generated and sent, and follow up
on conversations with detected replies.`,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags.
	rootCmd.PersistentFlags().StringVar(
		&apiAddr, "api", api.DefaultBaseURL,
		"Backend API base URL",
	)
	rootCmd.PersistentFlags().StringVar(
		&stateDir, "state-dir", "",
		"Client state directory (default: ~/.outreach)",
	)
	rootCmd.PersistentFlags().StringVar(
		&outputFormat, "format", "text",
		"Output format: text, json",
	)
	rootCmd.PersistentFlags().BoolVar(
		&verbose, "verbose", false,
		"Enable debug logging",
	)

	// Add subcommands.
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(batchesCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(conversationCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(queueCmd)
	rootCmd.AddCommand(versionCmd)
}

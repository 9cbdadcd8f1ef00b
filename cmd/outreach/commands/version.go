package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emberapps/outreach/internal/build"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Run:   runVersion,
}

// runVersion prints the version and build information.
func runVersion(cmd *cobra.Command, args []string) {
	fmt.Printf("outreach version %s", build.Version)

	if build.Commit != "" {
		fmt.Printf(" commit=%s", build.Commit)
	}
	if gv := build.GoVersion(); gv != "" {
		fmt.Printf(" go=%s", gv)
	}

	fmt.Println()
}

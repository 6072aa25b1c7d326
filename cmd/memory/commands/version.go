// ABOUTME: Version command reporting the build stamp
// ABOUTME: Values are injected through SetVersion at startup
package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var buildVersion, buildCommit, buildDate = "dev", "none", "unknown"

// SetVersion records the build stamp (called from main)
func SetVersion(version, commit, date string) {
	buildVersion, buildCommit, buildDate = version, commit, date
}

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the build version, commit, and toolchain of the Memory CLI.`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(out, buildVersion)
				return
			}
			fmt.Fprintf(out, "Memory (SurrealDB) %s\n", buildVersion)
			fmt.Fprintf(out, "Commit: %s\n", buildCommit)
			fmt.Fprintf(out, "Built:  %s with %s\n", buildDate, runtime.Version())
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "print only the version number")
	return cmd
}

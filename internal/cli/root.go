package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// cliActor is recorded on events and audit entries produced by one-shot
// commands.
const cliActor = "cli"

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "triaged",
	Short: "Support ticket triage service",
	Long: `triaged fetches support tickets from ServiceNow and Jira (or generates
mock batches), categorizes and prioritizes them, assigns engineers by skill
and workload, and serves the results through a web dashboard and JSON API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "",
		"config file (default ./config.json, also honors TRIAGE_CONFIG)")
}

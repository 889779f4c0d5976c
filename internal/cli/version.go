package cli

import "github.com/spf13/cobra"

// Version is the build version string, overridden with -ldflags on release
// builds.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("triaged " + Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

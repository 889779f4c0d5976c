package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/service"
)

var (
	runCountServiceNow int
	runCountJira       int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one triage batch and print assignment counts",
	RunE:  runOnce,
}

func init() {
	runCmd.Flags().IntVar(&runCountServiceNow, "count-servicenow", 0,
		"mock ServiceNow tickets to generate (0 keeps the configured size)")
	runCmd.Flags().IntVar(&runCountJira, "count-jira", 0,
		"mock Jira tickets to generate (0 keeps the configured size)")
	rootCmd.AddCommand(runCmd)
}

func runOnce(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p, err := buildPipeline(ctx)
	if err != nil {
		return err
	}
	defer p.Close()

	batch, err := p.triage.RunBatch(ctx, service.RunOptions{
		MockServiceNow: runCountServiceNow,
		MockJira:       runCountJira,
		Actor:          cliActor,
	})
	if err != nil {
		return err
	}

	printBatch(cmd, batch)
	return nil
}

func printBatch(cmd *cobra.Command, batch domain.Batch) {
	unassigned := batch.CountUnassigned()
	cmd.Printf("run %s: %d tickets, %d assigned, %d unassigned (%s)\n",
		batch.RunID, len(batch.Tickets), len(batch.Tickets)-unassigned, unassigned, batch.Method)
	for _, name := range sortedKeys(batch.Workload) {
		cmd.Printf("  %-24s %d\n", name, batch.Workload[name])
	}
}

func sortedKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/spec-kit/triage-service/internal/assign"
)

var (
	reprocessAllowOverflow  bool
	reprocessSkillWeight    float64
	reprocessWorkloadWeight float64
)

var reprocessCmd = &cobra.Command{
	Use:   "reprocess",
	Short: "Re-triage the latest snapshot and reassign from reset workloads",
	Long: `reprocess loads the most recent snapshot file, re-classifies every ticket
with the rule-based strategy, reassigns from zeroed workload counters, and
saves the result as a new snapshot.`,
	RunE: runReprocess,
}

func init() {
	reprocessCmd.Flags().BoolVar(&reprocessAllowOverflow, "allow-overflow", false,
		"keep at-capacity engineers eligible for assignment")
	reprocessCmd.Flags().Float64Var(&reprocessSkillWeight, "skill-weight", 0,
		"skill match weight (0 uses the default)")
	reprocessCmd.Flags().Float64Var(&reprocessWorkloadWeight, "workload-weight", 0,
		"workload balance weight (0 uses the default)")
	rootCmd.AddCommand(reprocessCmd)
}

func runReprocess(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p, err := buildPipeline(ctx)
	if err != nil {
		return err
	}
	defer p.Close()

	before, err := p.triage.LoadLatest(ctx)
	if err != nil {
		return err
	}
	cmd.Printf("before: %d tickets, %d unassigned\n", len(before.Tickets), before.CountUnassigned())

	batch, err := p.triage.Reprocess(ctx, assign.Options{
		SkillWeight:    reprocessSkillWeight,
		WorkloadWeight: reprocessWorkloadWeight,
		AllowOverflow:  reprocessAllowOverflow,
	}, cliActor)
	if err != nil {
		return err
	}
	cmd.Printf("after:  %d tickets, %d unassigned\n", len(batch.Tickets), batch.CountUnassigned())

	printBatch(cmd, batch)
	return nil
}

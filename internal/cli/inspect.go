package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/config"
	"github.com/spec-kit/triage-service/internal/service"
	"github.com/spec-kit/triage-service/internal/storage"
)

var inspectFile string

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print a snapshot summary without changing anything",
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectFile, "file", "", "snapshot file name (default: latest)")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg := config.Load(cfgPath)

	store, err := storage.NewFileStore(cfg.DataStorage, zap.NewNop())
	if err != nil {
		return err
	}
	tickets, err := store.Load(inspectFile)
	if err != nil {
		return err
	}
	if len(tickets) == 0 {
		cmd.Println("no snapshot found")
		return nil
	}

	byCategory := make(map[string]int)
	byPriority := make(map[string]int)
	byEngineer := make(map[string]int)
	for _, t := range tickets {
		byCategory[string(t.Category)]++
		byPriority[string(t.Priority)]++
		if t.Assigned() {
			byEngineer[t.AssignedEngineer]++
		} else {
			byEngineer[service.UnassignedBucket]++
		}
	}

	cmd.Printf("%d tickets\n", len(tickets))
	printCounts(cmd, "category", byCategory)
	printCounts(cmd, "priority", byPriority)
	printCounts(cmd, "engineer", byEngineer)
	return nil
}

func printCounts(cmd *cobra.Command, label string, counts map[string]int) {
	cmd.Printf("by %s:\n", label)
	for _, key := range sortedKeys(counts) {
		cmd.Printf("  %-24s %d\n", key, counts[key])
	}
}

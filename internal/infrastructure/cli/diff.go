package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/specforge/specforge/pkg/application"
	"github.com/specforge/specforge/pkg/domain/scan"
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Rescan and compare against the previous scan snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, cfg, err := workspace()
		if err != nil {
			return err
		}
		provider, err := symbolProvider()
		if err != nil {
			return err
		}

		scans := application.NewScanService(repo, provider, nil)
		diffs := application.NewDiffService(repo, scans, nil)

		diff, _, err := diffs.DiffAgainstLatest(cmd.Context(), repo.Root(), cfg.Scan)
		if err != nil {
			mapped := MapError(err)
			printHint(mapped)
			return mapped
		}

		printDiff(diff)
		return nil
	},
}

func printDiff(diff *scan.Diff) {
	if diff.Empty() {
		fmt.Println("No changes since the previous scan.")
		return
	}
	for _, f := range diff.AddedFiles {
		fmt.Printf("A %s\n", f)
	}
	for _, f := range diff.RemovedFiles {
		fmt.Printf("D %s\n", f)
	}
	for _, f := range diff.ModifiedFiles {
		fmt.Printf("M %s\n", f)
	}
	fmt.Printf("\nSymbols: %d added, %d removed, %d modified\n",
		len(diff.AddedSymbols), len(diff.RemovedSymbols), len(diff.ModifiedSymbols))
}

func init() {
	RootCmd.AddCommand(diffCmd)
}

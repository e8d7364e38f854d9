package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/specforge/specforge/internal/infrastructure/watch"
	"github.com/specforge/specforge/pkg/application"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the project and report scan diffs as source changes settle",
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
		ctx := cmd.Context()

		// Baseline snapshot so the first settle has something to diff.
		if _, err := repo.LoadScan(); err != nil {
			if _, serr := scans.Scan(ctx, repo.Root(), cfg.Scan); serr != nil {
				return MapError(fmt.Errorf("baseline scan failed: %w", serr))
			}
		}

		watcher, err := watch.NewSourceWatcher(watchDebounce, func(changed []string) {
			fmt.Printf("\n%d paths changed, rescanning...\n", len(changed))
			diff, _, derr := diffs.DiffAgainstLatest(ctx, repo.Root(), cfg.Scan)
			if derr != nil {
				fmt.Printf("rescan failed: %v\n", derr)
				return
			}
			printDiff(diff)
		})
		if err != nil {
			return err
		}
		if err := watcher.WatchRecursive(repo.Root()); err != nil {
			return fmt.Errorf("failed to watch project: %w", err)
		}

		fmt.Printf("Watching %s (debounce %s). Ctrl-C to stop.\n", repo.Root(), watchDebounce)
		return watcher.Run(ctx)
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "settle window for change bursts")
	RootCmd.AddCommand(watchCmd)
}

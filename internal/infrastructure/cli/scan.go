package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/specforge/specforge/pkg/application"
	"github.com/specforge/specforge/pkg/domain/scan"
)

var scanOpts scan.Options

var scanCmd = &cobra.Command{
	Use:   "scan [root-dir]",
	Short: "Scan a project tree and record the snapshot",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) > 0 {
			root = args[0]
		}

		repo, cfg, err := workspace()
		if err != nil {
			return err
		}
		provider, err := symbolProvider()
		if err != nil {
			return err
		}

		opts := cfg.Scan
		if cmd.Flags().Changed("depth") {
			opts.Depth = scanOpts.Depth
		}
		if len(scanOpts.Include) > 0 {
			opts.Include = scanOpts.Include
		}
		if len(scanOpts.Exclude) > 0 {
			opts.Exclude = append(opts.Exclude, scanOpts.Exclude...)
		}
		if scanOpts.Language != "" {
			opts.Language = scanOpts.Language
		}

		service := application.NewScanService(repo, provider, nil)
		result, err := service.Scan(cmd.Context(), root, opts)
		if err != nil {
			return MapError(fmt.Errorf("scan failed: %w", err))
		}

		printScanSummary(result)
		return nil
	},
}

func printScanSummary(result *scan.Result) {
	fmt.Printf("Scanned %s\n", result.ProjectPath)
	fmt.Printf("  Files: %d  Directories: %d  Symbols: %d\n",
		result.Summary.TotalFiles, len(result.Directories), result.Summary.TotalSymbols)

	if len(result.Summary.Languages) > 0 {
		langs := make([]string, 0, len(result.Summary.Languages))
		for l := range result.Summary.Languages {
			langs = append(langs, l)
		}
		sort.Slice(langs, func(i, j int) bool {
			return result.Summary.Languages[langs[i]] > result.Summary.Languages[langs[j]]
		})
		fmt.Println("  Languages:")
		for _, l := range langs {
			fmt.Printf("    %-12s %d\n", l, result.Summary.Languages[l])
		}
	}

	if len(result.Summary.SuggestedDomains) > 0 {
		fmt.Println("  Suggested domains:")
		for _, d := range result.Summary.SuggestedDomains {
			fmt.Printf("    %-20s %3d files  confidence %d\n", d.Name, d.FileCount, d.Confidence)
		}
	}

	c := result.Summary.Complexity
	fmt.Printf("  Complexity: %s (~%d LOC, ~%d dependencies)\n", c.Grade, c.EstimatedLOC, c.DependencyCount)
}

func init() {
	scanCmd.Flags().IntVar(&scanOpts.Depth, "depth", scan.DefaultDepth, "maximum directory depth")
	scanCmd.Flags().StringSliceVar(&scanOpts.Include, "include", nil, "include glob patterns")
	scanCmd.Flags().StringSliceVar(&scanOpts.Exclude, "exclude", nil, "exclude glob patterns")
	scanCmd.Flags().StringVar(&scanOpts.Language, "language", "", "restrict to one language")
	RootCmd.AddCommand(scanCmd)
}

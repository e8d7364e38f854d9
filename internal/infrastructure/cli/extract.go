package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/specforge/specforge/pkg/application"
	"github.com/specforge/specforge/pkg/domain"
	"github.com/specforge/specforge/pkg/domain/symbol"
)

var (
	extractDepth         string
	extractDomain        string
	extractMinConfidence int
	extractIncludeKinds  []string
	extractExcludeKinds  []string
	extractRescan        bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Generate draft specifications from the latest scan",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, cfg, err := workspace()
		if err != nil {
			return err
		}

		result, err := repo.LoadScan()
		if err != nil || extractRescan {
			var notFound *domain.NotFoundError
			if err != nil && !errors.As(err, &notFound) && !extractRescan {
				return MapError(err)
			}
			provider, perr := symbolProvider()
			if perr != nil {
				return perr
			}
			scans := application.NewScanService(repo, provider, nil)
			result, err = scans.Scan(cmd.Context(), repo.Root(), cfg.Scan)
			if err != nil {
				return MapError(fmt.Errorf("scan failed: %w", err))
			}
		}

		opts := application.ExtractOptions{
			Depth:         application.ExtractDepth(extractDepth),
			Domain:        extractDomain,
			MinConfidence: extractMinConfidence,
			IncludeKinds:  toKinds(extractIncludeKinds),
			ExcludeKinds:  toKinds(extractExcludeKinds),
		}

		service := application.NewExtractService(repo, nil)
		out, err := service.Extract(result, opts, printProgress)
		if err != nil {
			return MapError(fmt.Errorf("extraction failed: %w", err))
		}

		fmt.Printf("\nCreated %d draft specs", out.Created)
		if out.SkippedGroups > 0 {
			fmt.Printf(" (skipped %d groups / %d symbols below confidence %d)",
				out.SkippedGroups, out.SkippedSymbols, opts.MinConfidence)
		}
		fmt.Println()
		for _, e := range out.Errors {
			fmt.Printf("  error: %s\n", e)
		}
		return nil
	},
}

func printProgress(p application.Progress) {
	if p.Total == 0 {
		fmt.Printf("%-12s starting\n", p.Phase)
		return
	}
	fmt.Printf("%-12s %d/%d (specs: %d)\n", p.Phase, p.Processed, p.Total, p.SpecsGenerated)
}

func toKinds(names []string) []symbol.Kind {
	kinds := make([]symbol.Kind, 0, len(names))
	for _, n := range names {
		kinds = append(kinds, symbol.Kind(n))
	}
	return kinds
}

func init() {
	extractCmd.Flags().StringVar(&extractDepth, "depth", "medium", "extraction depth (shallow, medium, deep)")
	extractCmd.Flags().StringVar(&extractDomain, "domain", "", "restrict extraction to one domain")
	extractCmd.Flags().IntVar(&extractMinConfidence, "min-confidence", 0, "skip groups below this confidence score")
	extractCmd.Flags().StringSliceVar(&extractIncludeKinds, "include-kinds", nil, "symbol kinds to include")
	extractCmd.Flags().StringSliceVar(&extractExcludeKinds, "exclude-kinds", nil, "symbol kinds to exclude")
	extractCmd.Flags().BoolVar(&extractRescan, "rescan", false, "rescan the project before extracting")
	RootCmd.AddCommand(extractCmd)
}

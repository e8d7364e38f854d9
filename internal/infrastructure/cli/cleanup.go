package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/specforge/specforge/pkg/application"
)

var (
	cleanupArchive  bool
	cleanupDryRun   bool
	cleanupMetaOnly bool
	cleanupDomain   string
	cleanupSpec     string
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete or archive generated artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, _, err := workspace()
		if err != nil {
			return err
		}
		service := application.NewCleanupService(repo, nil)

		if cleanupSpec != "" {
			if err := service.DeleteDraft(cleanupSpec); err != nil {
				mapped := MapError(err)
				printHint(mapped)
				return mapped
			}
			fmt.Printf("Deleted draft %s\n", cleanupSpec)
			return nil
		}

		opts := application.CleanupOptions{
			Archive: cleanupArchive,
			DryRun:  cleanupDryRun,
		}
		switch {
		case cleanupMetaOnly:
			opts.Scope = application.ScopeMeta
		case cleanupDomain != "":
			opts.Scope = application.ScopeDomain
			opts.Domain = cleanupDomain
		default:
			opts.Scope = application.ScopeFull
		}

		result, err := service.Cleanup(opts)
		if err != nil {
			return MapError(err)
		}

		verb := "Deleted"
		if result.DryRun {
			verb = "Would delete"
		}
		fmt.Printf("%s %d files and %d directories (%d bytes)\n",
			verb, result.DeletedFiles, result.DeletedDirs, result.FreedBytes)
		if result.ArchivedPath != "" {
			fmt.Printf("Archived to %s\n", result.ArchivedPath)
		}
		for _, e := range result.Errors {
			fmt.Printf("  error: %s\n", e)
		}
		return nil
	},
}

func init() {
	cleanupCmd.Flags().BoolVar(&cleanupArchive, "archive", false, "archive artifacts before deleting")
	cleanupCmd.Flags().BoolVar(&cleanupDryRun, "dry-run", false, "report without deleting")
	cleanupCmd.Flags().BoolVar(&cleanupMetaOnly, "meta-only", false, "only remove the metadata artifacts")
	cleanupCmd.Flags().StringVar(&cleanupDomain, "domain", "", "only remove one domain's drafts")
	cleanupCmd.Flags().StringVar(&cleanupSpec, "spec", "", "delete a single draft by id")
	RootCmd.AddCommand(cleanupCmd)
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/specforge/specforge/pkg/application"
)

var (
	finalizeDomain string
	finalizeAll    bool
	finalizeStore  string
)

var finalizeCmd = &cobra.Command{
	Use:   "finalize [id...]",
	Short: "Promote approved drafts into the canonical spec store",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, cfg, err := workspace()
		if err != nil {
			return err
		}
		store := cfg.SpecStoreDir
		if finalizeStore != "" {
			store = finalizeStore
		}
		service := application.NewFinalizeService(repo, store, nil, nil)

		var result *application.FinalizeResult
		switch {
		case len(args) > 0:
			result, err = service.FinalizeByID(args)
		case finalizeDomain != "":
			result, err = service.FinalizeDomain(finalizeDomain)
		case finalizeAll:
			result, err = service.FinalizeAllApproved()
		default:
			return fmt.Errorf("nothing to finalize: pass ids, --domain, or --all")
		}
		if err != nil {
			return MapError(err)
		}

		for _, f := range result.Finalized {
			fmt.Printf("Finalized %s -> %s\n", f.ID, f.Path)
		}
		if len(result.Skipped) > 0 {
			fmt.Printf("Skipped %d drafts not yet approved\n", len(result.Skipped))
		}
		for _, e := range result.Errors {
			fmt.Printf("  error: %s\n", e)
		}
		if len(result.Finalized) == 0 && len(result.Errors) == 0 {
			fmt.Println("No approved drafts to finalize.")
		}
		return nil
	},
}

func init() {
	finalizeCmd.Flags().StringVar(&finalizeDomain, "domain", "", "finalize approved drafts of one domain")
	finalizeCmd.Flags().BoolVar(&finalizeAll, "all", false, "finalize every approved draft")
	finalizeCmd.Flags().StringVar(&finalizeStore, "store", "", "override the canonical spec store directory")
	RootCmd.AddCommand(finalizeCmd)
}

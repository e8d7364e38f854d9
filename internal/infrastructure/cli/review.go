package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/specforge/specforge/pkg/application"
	"github.com/specforge/specforge/pkg/domain/review"
)

var (
	reviewStatusFilter string
	reviewComment      string
	reviewReason       string
	reviewSuggestions  []string
	reviewerName       string
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review draft specifications",
}

var reviewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List drafts and their review status",
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := reviewService()
		if err != nil {
			return err
		}
		items, err := service.List(review.Status(reviewStatusFilter))
		if err != nil {
			return MapError(err)
		}
		if len(items) == 0 {
			fmt.Println("No drafts found.")
			return nil
		}
		for _, it := range items {
			fmt.Printf("%-14s %3d/%s  %s\n", it.Status, it.Spec.Confidence.Score, it.Spec.Confidence.Grade, it.Spec.ID)
		}

		summary, err := service.Summary()
		if err != nil {
			return MapError(err)
		}
		fmt.Printf("\n%d total: %d pending, %d approved, %d rejected, %d needs revision\n",
			summary.Total, summary.Pending, summary.Approved, summary.Rejected, summary.NeedsRevision)
		return nil
	},
}

var reviewShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one draft's review state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := reviewService()
		if err != nil {
			return err
		}
		item, err := service.Get(args[0])
		if err != nil {
			mapped := MapError(err)
			printHint(mapped)
			return mapped
		}
		_, werr := os.Stdout.Write(item.Markdown())
		return werr
	},
}

var reviewApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Approve a draft",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := reviewService()
		if err != nil {
			return err
		}
		item, err := service.Approve(args[0], reviewComment)
		if err != nil {
			mapped := MapError(err)
			printHint(mapped)
			return mapped
		}
		fmt.Printf("Approved %s\n", item.Spec.ID)
		return nil
	},
}

var reviewRejectCmd = &cobra.Command{
	Use:   "reject <id>",
	Short: "Reject a draft (requires --reason)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := reviewService()
		if err != nil {
			return err
		}
		item, err := service.Reject(args[0], reviewReason)
		if err != nil {
			mapped := MapError(err)
			printHint(mapped)
			return mapped
		}
		fmt.Printf("Rejected %s\n", item.Spec.ID)
		return nil
	},
}

var reviewReviseCmd = &cobra.Command{
	Use:   "revise <id>",
	Short: "Request revision of a draft with suggestions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := reviewService()
		if err != nil {
			return err
		}
		item, err := service.RequestRevision(args[0], reviewSuggestions)
		if err != nil {
			mapped := MapError(err)
			printHint(mapped)
			return mapped
		}
		fmt.Printf("Revision requested for %s (%d suggestions on file)\n", item.Spec.ID, len(item.Suggestions))
		return nil
	},
}

func reviewService() (*application.ReviewService, error) {
	repo, cfg, err := workspace()
	if err != nil {
		return nil, err
	}
	reviewer := reviewerName
	if reviewer == "" {
		reviewer = cfg.Reviewer
	}
	return application.NewReviewService(repo, reviewer, nil), nil
}

func init() {
	reviewListCmd.Flags().StringVar(&reviewStatusFilter, "status", "", "filter by review status")
	reviewApproveCmd.Flags().StringVarP(&reviewComment, "comment", "m", "", "approval comment")
	reviewRejectCmd.Flags().StringVarP(&reviewReason, "reason", "r", "", "rejection reason (required)")
	_ = reviewRejectCmd.MarkFlagRequired("reason")
	reviewReviseCmd.Flags().StringSliceVarP(&reviewSuggestions, "suggestion", "s", nil, "revision suggestion (repeatable)")
	reviewCmd.PersistentFlags().StringVar(&reviewerName, "reviewer", "", "reviewer name recorded on transitions")

	reviewCmd.AddCommand(reviewListCmd, reviewShowCmd, reviewApproveCmd, reviewRejectCmd, reviewReviseCmd)
	RootCmd.AddCommand(reviewCmd)
}

package application

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/specforge/specforge/pkg/domain/meta"
	"github.com/specforge/specforge/pkg/domain/review"
	"github.com/specforge/specforge/pkg/storage"
)

// ReviewService drives the review state machine over persisted drafts. It is
// the only writer of both the review status and the draft's metadata status,
// which keeps the two in agreement on disk.
type ReviewService struct {
	repo     Workspace
	reviewer string
	logger   *slog.Logger
	now      func() time.Time
}

func NewReviewService(repo Workspace, reviewer string, logger *slog.Logger) *ReviewService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewService{repo: repo, reviewer: reviewer, logger: logger, now: time.Now}
}

// Approve moves a draft to approved. The optional comment is logged as info.
func (s *ReviewService) Approve(id, comment string) (*review.Item, error) {
	if comment == "" {
		comment = "Approved"
	}
	return s.transition(id, review.EventApprove, review.CommentInfo, comment, nil)
}

// Reject moves a draft to rejected. A reason is required and logged as error.
func (s *ReviewService) Reject(id, reason string) (*review.Item, error) {
	if reason == "" {
		return nil, fmt.Errorf("a rejection reason is required")
	}
	return s.transition(id, review.EventReject, review.CommentError, reason, nil)
}

// RequestRevision moves a draft to needs_revision and merges the given
// suggestions into its running list.
func (s *ReviewService) RequestRevision(id string, suggestions []string) (*review.Item, error) {
	message := fmt.Sprintf("Revision requested with %d suggestions", len(suggestions))
	return s.transition(id, review.EventRequestRevision, review.CommentSuggestion, message, suggestions)
}

func (s *ReviewService) transition(id, event string, commentType review.CommentType, message string, suggestions []string) (*review.Item, error) {
	item, err := s.repo.LoadDraft(id)
	if err != nil {
		return nil, err
	}

	sm, err := review.NewStateMachine(item.Status)
	if err != nil {
		return nil, err
	}
	next, err := sm.Transition(event)
	if err != nil {
		return nil, err
	}

	now := s.now()
	item.Status = next
	item.Spec.Metadata.Status = review.DraftStatus(next)
	item.AddComment(commentType, message, now)
	item.MergeSuggestions(suggestions)
	item.Reviewer = s.reviewer
	item.ReviewedAt = now

	if err := s.repo.SaveDraft(item); err != nil {
		return nil, fmt.Errorf("failed to persist review of %s: %w", id, err)
	}

	if err := s.refreshState(); err != nil {
		s.logger.Warn("review bookkeeping failed", "draft", id, "error", err)
	}
	s.logger.Info("review transition", "draft", id, "event", event, "status", next)
	return item, nil
}

// Get loads one review item by draft id.
func (s *ReviewService) Get(id string) (*review.Item, error) {
	return s.repo.LoadDraft(id)
}

// List returns review items, optionally filtered by status.
func (s *ReviewService) List(status review.Status) ([]review.Item, error) {
	items, err := s.repo.LoadDrafts("")
	if err != nil {
		return nil, err
	}
	if status == "" {
		return items, nil
	}
	filtered := make([]review.Item, 0, len(items))
	for _, it := range items {
		if it.Status == status {
			filtered = append(filtered, it)
		}
	}
	return filtered, nil
}

// Summary tallies all review items by status.
func (s *ReviewService) Summary() (review.Summary, error) {
	items, err := s.repo.LoadDrafts("")
	if err != nil {
		return review.Summary{}, err
	}
	return review.Summarize(items), nil
}

// refreshState mirrors the current tallies into the metadata counters and
// the review summary report.
func (s *ReviewService) refreshState() error {
	items, err := s.repo.LoadDrafts("")
	if err != nil {
		return err
	}
	summary := review.Summarize(items)

	m, err := s.repo.LoadMeta()
	if err != nil {
		return err
	}
	m.UpdateExtractionStatus(metaUpdate(m.ExtractionStatus.Extracted, summary), s.now())
	if err := s.repo.SaveMeta(m); err != nil {
		return err
	}

	return s.writeSummaryReport(summary)
}

func (s *ReviewService) writeSummaryReport(summary review.Summary) error {
	path, err := s.repo.ResolvePath(filepath.Join(storage.ReviewsDir, "summary.json"))
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal review summary: %w", err)
	}
	return storage.WriteArtifact(path, data)
}

// metaUpdate builds the partial counter merge shared by the extraction and
// review services. The finalized counter is owned by the finalizer and left
// untouched here.
func metaUpdate(extracted int, s review.Summary) meta.StatusUpdate {
	pending := s.Pending
	approved := s.Approved
	rejected := s.Rejected
	return meta.StatusUpdate{
		Extracted:     &extracted,
		PendingReview: &pending,
		Approved:      &approved,
		Rejected:      &rejected,
	}
}

// Package review models the human review workflow over extracted drafts:
// a state machine per draft plus a timestamped comment log.
package review

import (
	"time"

	"github.com/specforge/specforge/pkg/domain/draft"
)

// Status is the review state of a draft.
type Status string

const (
	StatusPending       Status = "pending"
	StatusApproved      Status = "approved"
	StatusRejected      Status = "rejected"
	StatusNeedsRevision Status = "needs_revision"
)

// CommentType classifies review comments.
type CommentType string

const (
	CommentInfo       CommentType = "info"
	CommentError      CommentType = "error"
	CommentSuggestion CommentType = "suggestion"
)

// Comment is one timestamped review note.
type Comment struct {
	Type      CommentType `json:"type" yaml:"type"`
	Message   string      `json:"message" yaml:"message"`
	Timestamp time.Time   `json:"timestamp" yaml:"timestamp"`
}

// Item wraps a draft with its review state. It is one-to-one with a draft
// and is persisted as the draft's structured-text twin; the draft's
// metadata.status is kept in lockstep by the workflow, which is the only
// writer of both.
type Item struct {
	Spec        draft.ExtractedSpec `json:"spec" yaml:"spec"`
	Status      Status              `json:"status" yaml:"status"`
	Comments    []Comment           `json:"comments,omitempty" yaml:"comments,omitempty"`
	Suggestions []string            `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	Reviewer    string              `json:"reviewer,omitempty" yaml:"reviewer,omitempty"`
	ReviewedAt  time.Time           `json:"reviewed_at,omitempty" yaml:"reviewed_at,omitempty"`
}

// DraftStatus maps a review status onto the draft's own status field.
// A revision request sends the draft back to plain draft state.
func DraftStatus(s Status) draft.Status {
	switch s {
	case StatusApproved:
		return draft.StatusApproved
	case StatusRejected:
		return draft.StatusRejected
	case StatusNeedsRevision:
		return draft.StatusDraft
	default:
		return draft.StatusPendingReview
	}
}

// AddComment appends a typed comment to the item's log.
func (it *Item) AddComment(t CommentType, message string, at time.Time) {
	it.Comments = append(it.Comments, Comment{Type: t, Message: message, Timestamp: at})
}

// MergeSuggestions appends suggestions not already present.
func (it *Item) MergeSuggestions(suggestions []string) {
	seen := make(map[string]bool, len(it.Suggestions))
	for _, s := range it.Suggestions {
		seen[s] = true
	}
	for _, s := range suggestions {
		if !seen[s] {
			seen[s] = true
			it.Suggestions = append(it.Suggestions, s)
		}
	}
}

// Summary tallies review items by status.
type Summary struct {
	Total         int `json:"total" yaml:"total"`
	Pending       int `json:"pending" yaml:"pending"`
	Approved      int `json:"approved" yaml:"approved"`
	Rejected      int `json:"rejected" yaml:"rejected"`
	NeedsRevision int `json:"needs_revision" yaml:"needs_revision"`
}

// Summarize is a pure tally over loaded items.
func Summarize(items []Item) Summary {
	s := Summary{Total: len(items)}
	for _, it := range items {
		switch it.Status {
		case StatusApproved:
			s.Approved++
		case StatusRejected:
			s.Rejected++
		case StatusNeedsRevision:
			s.NeedsRevision++
		default:
			s.Pending++
		}
	}
	return s
}

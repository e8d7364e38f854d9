package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/specforge/specforge/pkg/domain"
	"github.com/specforge/specforge/pkg/domain/confidence"
	"github.com/specforge/specforge/pkg/domain/draft"
	"github.com/specforge/specforge/pkg/domain/review"
)

func testItem(domainName, name string) *review.Item {
	return &review.Item{
		Spec: draft.ExtractedSpec{
			ID:          draft.Slug(domainName) + "/" + draft.Slug(name),
			Name:        name,
			Domain:      domainName,
			Description: "Test draft.",
			Confidence:  confidence.Result{Score: 75, Grade: confidence.GradeC},
			Metadata: draft.Metadata{
				ExtractedAt:   time.Now(),
				FormatVersion: draft.FormatVersion,
				Status:        draft.StatusPendingReview,
			},
		},
		Status: review.StatusPending,
	}
}

func TestSaveDraft_WritesTwins(t *testing.T) {
	repo := NewFilesystemRepository(t.TempDir())
	if err := repo.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	item := testItem("user", "Get User Profile")
	if err := repo.SaveDraft(item); err != nil {
		t.Fatalf("SaveDraft failed: %v", err)
	}

	jsonPath, mdPath, err := repo.DraftPaths(item.Spec.ID)
	if err != nil {
		t.Fatalf("DraftPaths failed: %v", err)
	}
	for _, p := range []string{jsonPath, mdPath} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("Expected twin %s to exist: %v", p, err)
		}
	}

	loaded, err := repo.LoadDraft(item.Spec.ID)
	if err != nil {
		t.Fatalf("LoadDraft failed: %v", err)
	}
	if loaded.Spec.ID != item.Spec.ID || loaded.Status != review.StatusPending {
		t.Errorf("Round trip mismatch: %+v", loaded)
	}
}

func TestSaveDraft_RejectsInvalid(t *testing.T) {
	repo := NewFilesystemRepository(t.TempDir())
	if err := repo.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	item := testItem("user", "Get User Profile")
	item.Spec.ID = "mismatched/id"
	if err := repo.SaveDraft(item); err == nil {
		t.Error("Expected invalid draft to be rejected")
	}
}

func TestLoadDraft_NotFound(t *testing.T) {
	repo := NewFilesystemRepository(t.TempDir())
	if err := repo.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	_, err := repo.LoadDraft("user/missing")
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("Expected NotFoundError, got %v", err)
	}
}

func TestLoadDraft_Malformed(t *testing.T) {
	repo := NewFilesystemRepository(t.TempDir())
	if err := repo.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	jsonPath, _, err := repo.DraftPaths("user/broken")
	if err != nil {
		t.Fatalf("DraftPaths failed: %v", err)
	}
	if err := writeFileAtomic(jsonPath, []byte("{not json")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	_, err = repo.LoadDraft("user/broken")
	var pe *domain.ParseError
	if !errors.As(err, &pe) {
		t.Errorf("Expected ParseError, got %v", err)
	}
}

func TestLoadDrafts(t *testing.T) {
	repo := NewFilesystemRepository(t.TempDir())
	if err := repo.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	// Missing drafts directory yields an empty list.
	items, err := repo.LoadDrafts("")
	if err != nil {
		t.Fatalf("LoadDrafts on empty workspace failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Expected no drafts, got %d", len(items))
	}

	for _, spec := range []struct{ domain, name string }{
		{"user", "Get User Profile"},
		{"user", "Create User"},
		{"billing", "Charge Invoice"},
	} {
		if err := repo.SaveDraft(testItem(spec.domain, spec.name)); err != nil {
			t.Fatalf("SaveDraft failed: %v", err)
		}
	}

	items, err = repo.LoadDrafts("")
	if err != nil {
		t.Fatalf("LoadDrafts failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("Expected 3 drafts, got %d", len(items))
	}
	if items[0].Spec.ID != "billing/charge-invoice" {
		t.Errorf("Drafts should be sorted by id, got %s first", items[0].Spec.ID)
	}

	users, err := repo.LoadDrafts("user")
	if err != nil {
		t.Fatalf("LoadDrafts(user) failed: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("Expected 2 user drafts, got %d", len(users))
	}
}

func TestDeleteDraft(t *testing.T) {
	repo := NewFilesystemRepository(t.TempDir())
	if err := repo.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	item := testItem("user", "Get User Profile")
	if err := repo.SaveDraft(item); err != nil {
		t.Fatalf("SaveDraft failed: %v", err)
	}

	if err := repo.DeleteDraft(item.Spec.ID); err != nil {
		t.Fatalf("DeleteDraft failed: %v", err)
	}

	jsonPath, mdPath, _ := repo.DraftPaths(item.Spec.ID)
	for _, p := range []string{jsonPath, mdPath} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("Twin %s should be gone", p)
		}
	}

	// The emptied domain directory is pruned.
	if _, err := os.Stat(filepath.Dir(jsonPath)); !os.IsNotExist(err) {
		t.Error("Empty domain directory should be pruned")
	}

	var nf *domain.NotFoundError
	if err := repo.DeleteDraft(item.Spec.ID); !errors.As(err, &nf) {
		t.Errorf("Deleting a missing draft should report NotFoundError, got %v", err)
	}
}

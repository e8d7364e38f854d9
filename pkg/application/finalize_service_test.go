package application

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specforge/specforge/pkg/domain/review"
	"github.com/specforge/specforge/pkg/domain/specstore"
)

// recordingLinker captures registry calls for assertions.
type recordingLinker struct {
	domains []string
	specs   []string
}

func (l *recordingLinker) EnsureDomain(domain string) error {
	l.domains = append(l.domains, domain)
	return nil
}

func (l *recordingLinker) LinkSpec(domain, specID, path string) error {
	l.specs = append(l.specs, specID)
	return nil
}

func approveDraft(t *testing.T, repo interface {
	LoadDraft(string) (*review.Item, error)
	SaveDraft(*review.Item) error
}, id string) {
	t.Helper()
	item, err := repo.LoadDraft(id)
	if err != nil {
		t.Fatalf("LoadDraft failed: %v", err)
	}
	item.Status = review.StatusApproved
	if err := repo.SaveDraft(item); err != nil {
		t.Fatalf("SaveDraft failed: %v", err)
	}
}

func TestFinalizeAllApproved(t *testing.T) {
	repo := newTestRepo(t)
	seedDraft(t, repo, "user", "Get User")
	seedDraft(t, repo, "user", "Create User")
	approveDraft(t, repo, "user/get-user")

	linker := &recordingLinker{}
	svc := NewFinalizeService(repo, "specs", linker, discard())

	result, err := svc.FinalizeAllApproved()
	if err != nil {
		t.Fatalf("FinalizeAllApproved failed: %v", err)
	}
	if len(result.Finalized) != 1 {
		t.Fatalf("Expected 1 finalized, got %d (errors: %v)", len(result.Finalized), result.Errors)
	}
	if len(result.Skipped) != 1 || result.Skipped[0] != "user/create-user" {
		t.Errorf("Unapproved drafts should be skipped in bulk mode, got %v", result.Skipped)
	}

	// The canonical document landed at <store>/<domain>/<name>/spec.md and
	// parses under the store's own format.
	target := filepath.Join(repo.Root(), "specs", "user", "get-user", "spec.md")
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("Canonical spec missing: %v", err)
	}
	doc, err := specstore.Parse(data)
	if err != nil {
		t.Fatalf("Canonical spec does not parse: %v", err)
	}
	if errs := doc.Validate(); len(errs) != 0 {
		t.Errorf("Canonical spec invalid: %v", errs)
	}
	if doc.FrontMatter.Status != "draft" {
		t.Errorf("Store lifecycle should restart at draft, got %q", doc.FrontMatter.Status)
	}

	if len(linker.domains) != 1 || linker.domains[0] != "user" {
		t.Errorf("Linker should register the domain, got %v", linker.domains)
	}
	if len(linker.specs) != 1 || linker.specs[0] != "user/get-user" {
		t.Errorf("Linker should link the spec, got %v", linker.specs)
	}

	m, err := repo.LoadMeta()
	if err != nil {
		t.Fatalf("LoadMeta failed: %v", err)
	}
	if m.ExtractionStatus.Finalized != 1 {
		t.Errorf("Finalized counter not bumped: %+v", m.ExtractionStatus)
	}
}

func TestFinalizeByID_RejectsUnapproved(t *testing.T) {
	repo := newTestRepo(t)
	seedDraft(t, repo, "user", "Get User")
	svc := NewFinalizeService(repo, "specs", nil, discard())

	result, err := svc.FinalizeByID([]string{"user/get-user", "user/missing"})
	if err != nil {
		t.Fatalf("FinalizeByID failed: %v", err)
	}
	if len(result.Finalized) != 0 {
		t.Errorf("Nothing should finalize, got %v", result.Finalized)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("Expected per-item errors for unapproved and missing, got %v", result.Errors)
	}
	if !strings.Contains(result.Errors[0], "not found") {
		t.Errorf("Missing draft error mismatch: %s", result.Errors[0])
	}
	if !strings.Contains(result.Errors[1], "not approved") {
		t.Errorf("Unapproved error mismatch: %s", result.Errors[1])
	}
}

func TestFinalizeDomain(t *testing.T) {
	repo := newTestRepo(t)
	seedDraft(t, repo, "user", "Get User")
	seedDraft(t, repo, "billing", "Charge Invoice")
	approveDraft(t, repo, "user/get-user")
	approveDraft(t, repo, "billing/charge-invoice")

	svc := NewFinalizeService(repo, "specs", nil, discard())
	result, err := svc.FinalizeDomain("user")
	if err != nil {
		t.Fatalf("FinalizeDomain failed: %v", err)
	}
	if len(result.Finalized) != 1 || result.Finalized[0].ID != "user/get-user" {
		t.Errorf("Domain scope should finalize only its drafts, got %+v", result.Finalized)
	}
}

func TestFinalize_Overwrite(t *testing.T) {
	repo := newTestRepo(t)
	seedDraft(t, repo, "user", "Get User")
	approveDraft(t, repo, "user/get-user")

	svc := NewFinalizeService(repo, "specs", nil, discard())
	if _, err := svc.FinalizeAllApproved(); err != nil {
		t.Fatalf("First finalize failed: %v", err)
	}
	result, err := svc.FinalizeAllApproved()
	if err != nil {
		t.Fatalf("Second finalize failed: %v", err)
	}
	if len(result.Finalized) != 1 || len(result.Errors) != 0 {
		t.Errorf("Re-finalizing should overwrite, got %+v", result)
	}
}

func TestFinalize_SchemaGate(t *testing.T) {
	repo := newTestRepo(t)
	item := seedDraft(t, repo, "user", "Get User")
	item.Status = review.StatusApproved
	item.Spec.Scenarios = nil // violates the minItems requirement
	if err := repo.SaveDraft(item); err != nil {
		t.Fatalf("SaveDraft failed: %v", err)
	}

	svc := NewFinalizeService(repo, "specs", nil, discard())
	result, err := svc.FinalizeAllApproved()
	if err != nil {
		t.Fatalf("FinalizeAllApproved failed: %v", err)
	}
	if len(result.Finalized) != 0 {
		t.Error("Schema-violating drafts must not finalize")
	}
	if len(result.Errors) != 1 {
		t.Errorf("Expected one per-item error, got %v", result.Errors)
	}
}

package application

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/specforge/specforge/pkg/domain/draft"
	"github.com/specforge/specforge/pkg/domain/meta"
	"github.com/specforge/specforge/pkg/domain/review"
	"github.com/specforge/specforge/pkg/domain/specstore"
)

// DomainLinker registers finalized specs with an external domain registry.
// It is optional; a nil linker skips registration.
type DomainLinker interface {
	EnsureDomain(domain string) error
	LinkSpec(domain, specID, path string) error
}

// FinalizedSpec records one promotion into the canonical store.
type FinalizedSpec struct {
	ID          string              `json:"id"`
	Domain      string              `json:"domain"`
	Path        string              `json:"path"`
	Draft       draft.ExtractedSpec `json:"draft"`
	FinalizedAt time.Time           `json:"finalized_at"`
}

// FinalizeResult aggregates a finalization run. A single spec's failure is
// recorded and does not abort the rest.
type FinalizeResult struct {
	Finalized []FinalizedSpec `json:"finalized"`
	Skipped   []string        `json:"skipped"`
	Errors    []string        `json:"errors"`
}

// draftSchema is the contract a draft's structured-text twin must satisfy
// before promotion. Validation failures are per-item errors, not crashes.
const draftSchema = `{
  "type": "object",
  "required": ["spec", "status"],
  "properties": {
    "status": {"type": "string"},
    "spec": {
      "type": "object",
      "required": ["id", "name", "domain", "confidence", "scenarios", "metadata"],
      "properties": {
        "id": {"type": "string", "minLength": 1},
        "name": {"type": "string", "minLength": 1},
        "domain": {"type": "string", "minLength": 1},
        "confidence": {
          "type": "object",
          "required": ["score", "grade"],
          "properties": {
            "score": {"type": "integer", "minimum": 0, "maximum": 100},
            "grade": {"type": "string", "enum": ["A", "B", "C", "D", "F"]}
          }
        },
        "scenarios": {"type": "array", "minItems": 1},
        "metadata": {
          "type": "object",
          "required": ["format_version", "status"]
        }
      }
    }
  }
}`

var draftSchemaLoader = gojsonschema.NewStringLoader(draftSchema)

// FinalizeService promotes approved drafts into the canonical spec store.
type FinalizeService struct {
	repo         Workspace
	specStoreDir string
	linker       DomainLinker
	logger       *slog.Logger
}

// NewFinalizeService creates a finalizer writing under specStoreDir
// (relative paths resolve against the project root).
func NewFinalizeService(repo Workspace, specStoreDir string, linker DomainLinker, logger *slog.Logger) *FinalizeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FinalizeService{repo: repo, specStoreDir: specStoreDir, linker: linker, logger: logger}
}

// FinalizeAllApproved promotes every approved draft.
func (s *FinalizeService) FinalizeAllApproved() (*FinalizeResult, error) {
	items, err := s.repo.LoadDrafts("")
	if err != nil {
		return nil, err
	}
	return s.finalizeItems(items, true), nil
}

// FinalizeDomain promotes approved drafts within one domain.
func (s *FinalizeService) FinalizeDomain(domain string) (*FinalizeResult, error) {
	items, err := s.repo.LoadDrafts(draft.Slug(domain))
	if err != nil {
		return nil, err
	}
	return s.finalizeItems(items, true), nil
}

// FinalizeByID promotes the identified drafts. Non-approved drafts are
// reported as per-item errors.
func (s *FinalizeService) FinalizeByID(ids []string) (*FinalizeResult, error) {
	result := &FinalizeResult{}
	var items []review.Item
	for _, id := range ids {
		item, err := s.repo.LoadDraft(id)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", id, err))
			continue
		}
		items = append(items, *item)
	}
	merged := s.finalizeItems(items, false)
	merged.Errors = append(result.Errors, merged.Errors...)
	return merged, nil
}

// finalizeItems runs the per-item pipeline. When skipUnapproved is set,
// non-approved items are silently skipped (bulk modes); otherwise they are
// per-item errors (explicit ids).
func (s *FinalizeService) finalizeItems(items []review.Item, skipUnapproved bool) *FinalizeResult {
	result := &FinalizeResult{}
	for i := range items {
		item := &items[i]
		if item.Status != review.StatusApproved {
			if skipUnapproved {
				result.Skipped = append(result.Skipped, item.Spec.ID)
				continue
			}
			result.Errors = append(result.Errors, fmt.Sprintf("%s: draft is %s, not approved", item.Spec.ID, item.Status))
			continue
		}

		finalized, err := s.finalizeOne(item)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", item.Spec.ID, err))
			continue
		}
		result.Finalized = append(result.Finalized, *finalized)
	}

	if len(result.Finalized) > 0 {
		if err := s.bumpFinalizedCounter(len(result.Finalized)); err != nil {
			result.Errors = append(result.Errors, err.Error())
		}
	}
	s.logger.Info("finalization complete",
		"finalized", len(result.Finalized),
		"skipped", len(result.Skipped),
		"errors", len(result.Errors))
	return result
}

func (s *FinalizeService) finalizeOne(item *review.Item) (*FinalizedSpec, error) {
	if err := s.validateDraft(item); err != nil {
		return nil, err
	}

	rendered, err := specstore.Render(&item.Spec)
	if err != nil {
		return nil, err
	}

	// The canonical store has its own parser; verify the document
	// round-trips before it leaves our hands.
	doc, err := specstore.Parse(rendered)
	if err != nil {
		return nil, fmt.Errorf("rendered document does not parse: %w", err)
	}
	if errs := doc.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("rendered document is invalid: %v", errs[0])
	}

	target := s.targetPath(&item.Spec)
	if err := os.MkdirAll(filepath.Dir(target), 0750); err != nil {
		return nil, fmt.Errorf("failed to create spec directory: %w", err)
	}
	if err := os.WriteFile(target, rendered, 0600); err != nil {
		return nil, fmt.Errorf("failed to write canonical spec: %w", err)
	}

	if s.linker != nil {
		if err := s.linker.EnsureDomain(item.Spec.Domain); err != nil {
			return nil, fmt.Errorf("failed to register domain: %w", err)
		}
		if err := s.linker.LinkSpec(item.Spec.Domain, item.Spec.ID, target); err != nil {
			return nil, fmt.Errorf("failed to link spec: %w", err)
		}
	}

	return &FinalizedSpec{
		ID:          item.Spec.ID,
		Domain:      item.Spec.Domain,
		Path:        target,
		Draft:       item.Spec,
		FinalizedAt: time.Now(),
	}, nil
}

// validateDraft checks the structured twin against the draft schema.
func (s *FinalizeService) validateDraft(item *review.Item) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	res, err := gojsonschema.Validate(draftSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if !res.Valid() {
		return fmt.Errorf("draft does not satisfy the spec schema: %s", res.Errors()[0])
	}
	return nil
}

// targetPath is <store>/<domain-slug>/<name-slug>/spec.md. Re-finalizing an
// id overwrites the previous document.
func (s *FinalizeService) targetPath(spec *draft.ExtractedSpec) string {
	storeDir := s.specStoreDir
	if !filepath.IsAbs(storeDir) {
		storeDir = filepath.Join(s.repo.Root(), storeDir)
	}
	return filepath.Join(storeDir, draft.Slug(spec.Domain), draft.Slug(spec.Name), "spec.md")
}

func (s *FinalizeService) bumpFinalizedCounter(n int) error {
	m, err := s.repo.LoadMeta()
	if err != nil {
		return fmt.Errorf("failed to load metadata: %w", err)
	}
	finalized := m.ExtractionStatus.Finalized + n
	m.UpdateExtractionStatus(meta.StatusUpdate{Finalized: &finalized}, time.Now())
	if err := s.repo.SaveMeta(m); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}
	return nil
}

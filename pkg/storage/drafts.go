package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/felixgeelhaar/fortify/retry"

	"github.com/specforge/specforge/pkg/domain"
	"github.com/specforge/specforge/pkg/domain/review"
)

// DraftPaths returns the structured-text and markdown twin paths for a draft
// id of the form "domain/name".
func (r *FilesystemRepository) DraftPaths(id string) (jsonPath, mdPath string, err error) {
	if !strings.Contains(id, "/") {
		return "", "", fmt.Errorf("draft id must be domain/name, got %q", id)
	}
	jsonPath, err = r.ResolvePath(filepath.Join(DraftsDir, id+".json"))
	if err != nil {
		return "", "", err
	}
	mdPath, err = r.ResolvePath(filepath.Join(DraftsDir, id+".md"))
	if err != nil {
		return "", "", err
	}
	return jsonPath, mdPath, nil
}

// SaveDraft persists a review item as the draft's twin files. The JSON twin
// is authoritative and written first; the markdown twin follows. A crash
// between the two writes loses only the human rendering, which the next
// save regenerates.
func (r *FilesystemRepository) SaveDraft(item *review.Item) error {
	if errs := item.Spec.Validate(); len(errs) > 0 {
		return fmt.Errorf("refusing to save invalid draft %q: %v", item.Spec.ID, errs[0])
	}

	jsonPath, mdPath, err := r.DraftPaths(item.Spec.ID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(item, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal draft %s: %w", item.Spec.ID, err)
	}
	if err := writeFileAtomic(jsonPath, data); err != nil {
		return fmt.Errorf("failed to write draft %s: %w", item.Spec.ID, err)
	}
	if err := writeFileAtomic(mdPath, item.Markdown()); err != nil {
		return fmt.Errorf("failed to write draft markdown %s: %w", item.Spec.ID, err)
	}
	return nil
}

// LoadDraft loads one review item by draft id.
func (r *FilesystemRepository) LoadDraft(id string) (*review.Item, error) {
	jsonPath, _, err := r.DraftPaths(id)
	if err != nil {
		return nil, err
	}

	retryer := retry.New[*review.Item](r.retryConfig)
	return retryer.Do(context.Background(), func(ctx context.Context) (*review.Item, error) {
		// #nosec G304 -- path is resolved and validated via ResolvePath
		data, err := os.ReadFile(jsonPath)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, domain.NewNotFound("draft", id)
			}
			return nil, fmt.Errorf("failed to read draft %s: %w", id, err)
		}

		var item review.Item
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, &domain.ParseError{Path: jsonPath, Err: err}
		}
		return &item, nil
	})
}

// LoadDrafts loads every persisted review item, sorted by draft id. A
// missing drafts directory means an empty list, not an error. Domain may be
// empty to load all domains.
func (r *FilesystemRepository) LoadDrafts(domainFilter string) ([]review.Item, error) {
	draftsRoot, err := r.ResolvePath(DraftsDir)
	if err != nil {
		return nil, err
	}

	var items []review.Item
	walkErr := filepath.WalkDir(draftsRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}

		rel, err := filepath.Rel(draftsRoot, path)
		if err != nil {
			return err
		}
		id := strings.TrimSuffix(filepath.ToSlash(rel), ".json")
		if domainFilter != "" && !strings.HasPrefix(id, domainFilter+"/") {
			return nil
		}

		item, err := r.LoadDraft(id)
		if err != nil {
			return fmt.Errorf("failed to load draft %s: %w", id, err)
		}
		items = append(items, *item)
		return nil
	})
	if walkErr != nil {
		if os.IsNotExist(walkErr) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to walk drafts: %w", walkErr)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Spec.ID < items[j].Spec.ID })
	return items, nil
}

// DeleteDraft removes a draft's twin files and prunes the domain directory
// if it is left empty.
func (r *FilesystemRepository) DeleteDraft(id string) error {
	jsonPath, mdPath, err := r.DraftPaths(id)
	if err != nil {
		return err
	}

	removed := false
	for _, p := range []string{jsonPath, mdPath} {
		if err := os.Remove(p); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("failed to delete %s: %w", p, err)
		}
		removed = true
	}
	if !removed {
		return domain.NewNotFound("draft", id)
	}

	// Prune the now-possibly-empty domain folder.
	domainDir := filepath.Dir(jsonPath)
	if entries, err := os.ReadDir(domainDir); err == nil && len(entries) == 0 {
		_ = os.Remove(domainDir)
	}
	return nil
}

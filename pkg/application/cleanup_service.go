package application

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/specforge/specforge/pkg/domain/draft"
	"github.com/specforge/specforge/pkg/storage"
)

// CleanupScope selects what a cleanup run touches.
type CleanupScope string

const (
	ScopeFull   CleanupScope = "full"
	ScopeMeta   CleanupScope = "meta"
	ScopeDomain CleanupScope = "domain"
)

// CleanupOptions configures one cleanup run.
type CleanupOptions struct {
	Scope   CleanupScope
	Domain  string
	Archive bool
	DryRun  bool
}

// CleanupTarget is one file or directory slated for deletion.
type CleanupTarget struct {
	Path      string `json:"path"`
	IsDir     bool   `json:"is_dir"`
	SizeBytes int64  `json:"size_bytes"`
}

// CleanupResult is the aggregate outcome. Per-path failures are recorded and
// do not abort the sweep. A dry run reports identical counts to the real run
// it predicts and mutates nothing.
type CleanupResult struct {
	RunID        string          `json:"run_id"`
	DryRun       bool            `json:"dry_run"`
	Targets      []CleanupTarget `json:"targets"`
	DeletedFiles int             `json:"deleted_files"`
	DeletedDirs  int             `json:"deleted_dirs"`
	FreedBytes   int64           `json:"freed_bytes"`
	ArchivedPath string          `json:"archived_path,omitempty"`
	Skipped      []string        `json:"skipped,omitempty"`
	Errors       []string        `json:"errors,omitempty"`
}

// CleanupService deletes or archives generated pipeline artifacts.
type CleanupService struct {
	repo   Workspace
	logger *slog.Logger
}

func NewCleanupService(repo Workspace, logger *slog.Logger) *CleanupService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CleanupService{repo: repo, logger: logger}
}

// Cleanup enumerates the managed artifacts for the requested scope, archives
// them first when asked, then deletes. Archiving must succeed before any
// deletion happens.
func (s *CleanupService) Cleanup(opts CleanupOptions) (*CleanupResult, error) {
	if opts.Scope == "" {
		opts.Scope = ScopeFull
	}
	if opts.Scope == ScopeDomain && opts.Domain == "" {
		return nil, fmt.Errorf("domain-scoped cleanup requires a domain")
	}

	targets, err := s.enumerate(opts)
	if err != nil {
		return nil, err
	}

	result := &CleanupResult{
		RunID:   uuid.New().String(),
		DryRun:  opts.DryRun,
		Targets: targets,
	}
	for _, t := range targets {
		if t.IsDir {
			result.DeletedDirs++
		} else {
			result.DeletedFiles++
			result.FreedBytes += t.SizeBytes
		}
	}

	if opts.DryRun {
		return result, nil
	}

	if opts.Archive {
		archived, err := s.repo.Archive(time.Now())
		if err != nil {
			return nil, fmt.Errorf("archive failed, nothing deleted: %w", err)
		}
		result.ArchivedPath = archived
	}

	// Files first, then directories deepest-first.
	result.DeletedFiles = 0
	result.DeletedDirs = 0
	result.FreedBytes = 0
	dirs := make([]CleanupTarget, 0)
	for _, t := range targets {
		if t.IsDir {
			dirs = append(dirs, t)
			continue
		}
		if err := os.Remove(t.Path); err != nil {
			if os.IsNotExist(err) {
				result.Skipped = append(result.Skipped, t.Path)
				continue
			}
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", t.Path, err))
			continue
		}
		result.DeletedFiles++
		result.FreedBytes += t.SizeBytes
	}

	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i].Path) > len(dirs[j].Path) })
	for _, t := range dirs {
		entries, err := os.ReadDir(t.Path)
		if err != nil {
			if os.IsNotExist(err) {
				result.Skipped = append(result.Skipped, t.Path)
				continue
			}
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", t.Path, err))
			continue
		}
		if len(entries) > 0 {
			// A managed directory is only removed when left empty.
			result.Skipped = append(result.Skipped, t.Path)
			continue
		}
		if err := os.Remove(t.Path); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", t.Path, err))
			continue
		}
		result.DeletedDirs++
	}

	s.logger.Info("cleanup complete",
		"scope", string(opts.Scope),
		"deleted_files", result.DeletedFiles,
		"deleted_dirs", result.DeletedDirs,
		"freed_bytes", result.FreedBytes,
		"errors", len(result.Errors))
	return result, nil
}

// DeleteDraft removes one draft's twin files and prunes its domain folder.
func (s *CleanupService) DeleteDraft(id string) error {
	return s.repo.DeleteDraft(id)
}

// enumerate lists deletion targets for the scope, files before their parent
// directories.
func (s *CleanupService) enumerate(opts CleanupOptions) ([]CleanupTarget, error) {
	var roots []string
	var metaFiles []string

	switch opts.Scope {
	case ScopeMeta:
		metaFiles = []string{storage.MetaFile, storage.ScanFile}
	case ScopeDomain:
		// Drafts live under the domain's slug, not its display name.
		roots = []string{filepath.Join(storage.DraftsDir, draft.Slug(opts.Domain))}
	default:
		roots = append(roots, storage.ManagedDirs...)
		metaFiles = []string{storage.MetaFile, storage.ScanFile}
	}

	var targets []CleanupTarget
	for _, rel := range roots {
		root, err := s.repo.ResolvePath(rel)
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(root); os.IsNotExist(err) {
			continue
		}
		walkErr := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				targets = append(targets, CleanupTarget{Path: path, IsDir: true})
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			targets = append(targets, CleanupTarget{Path: path, SizeBytes: info.Size()})
			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("failed to enumerate %s: %w", rel, walkErr)
		}
	}

	for _, rel := range metaFiles {
		path, err := s.repo.ResolvePath(rel)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		targets = append(targets, CleanupTarget{Path: path, SizeBytes: info.Size()})
	}
	return targets, nil
}

// Package storage persists pipeline artifacts under a project-root-scoped
// workspace directory: draft twins, review reports, scan snapshots, and the
// cross-run metadata record.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
)

const SpecforgeDir = ".specforge"
const DraftsDir = "drafts"
const ReviewsDir = "reviews"
const ReportsDir = "reports"
const MetaFile = "meta.json"
const ScanFile = "scan.json"
const ConfigFile = "config.yaml"

// ManagedDirs are the artifact directories cleanup and archive operate on.
var ManagedDirs = []string{DraftsDir, ReviewsDir, ReportsDir}

// FilesystemRepository is the single writer for all specforge artifacts of
// one project root. It is not safe for concurrent processes.
type FilesystemRepository struct {
	root        string
	retryConfig retry.Config
}

func NewFilesystemRepository(root string) *FilesystemRepository {
	return &FilesystemRepository{
		root: root,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// Root returns the project root directory.
func (r *FilesystemRepository) Root() string {
	return r.root
}

// BaseDir returns the workspace directory holding all managed artifacts.
func (r *FilesystemRepository) BaseDir() string {
	return filepath.Join(r.root, SpecforgeDir)
}

// ResolvePath validates a workspace-relative path and prevents traversal
// outside the .specforge directory. Nested paths are allowed because drafts
// are domain-scoped.
func (r *FilesystemRepository) ResolvePath(relative string) (string, error) {
	if relative == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	baseDir := r.BaseDir()
	cleanPath := filepath.Clean(filepath.Join(baseDir, relative))
	if cleanPath != baseDir && !strings.HasPrefix(cleanPath, baseDir+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid artifact path: %s", relative)
	}
	return cleanPath, nil
}

func (r *FilesystemRepository) Initialize() error {
	// G301: 0700 for directories
	if err := os.MkdirAll(r.BaseDir(), 0700); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", SpecforgeDir, err)
	}
	return nil
}

func (r *FilesystemRepository) IsInitialized() bool {
	_, err := os.Stat(r.BaseDir())
	return err == nil
}

// WriteArtifact atomically writes an artifact at a path previously validated
// with ResolvePath. Exposed for services that emit reports of their own.
func WriteArtifact(path string, data []byte) error {
	return writeFileAtomic(path, data)
}

// writeFileAtomic writes via a temp file in the target directory followed by
// a rename, so a crash never leaves a half-written artifact behind.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	// G306: artifacts are private to the operator
	if err := os.Chmod(tmpName, 0600); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

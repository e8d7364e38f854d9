package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// ArchiveDirName returns the timestamped directory name for an archive run.
func ArchiveDirName(at time.Time) string {
	return "archive-" + at.Format("20060102-150405")
}

// Archive copies the managed artifact directories and the metadata file into
// a timestamped archive directory under the workspace. It returns the
// archive path. Copying happens before any deletion; callers must not delete
// artifacts unless this succeeds.
func (r *FilesystemRepository) Archive(at time.Time) (string, error) {
	archiveDir, err := r.ResolvePath(ArchiveDirName(at))
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(archiveDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	for _, dir := range ManagedDirs {
		src, err := r.ResolvePath(dir)
		if err != nil {
			return "", err
		}
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}
		if err := copyTree(src, filepath.Join(archiveDir, dir)); err != nil {
			return "", fmt.Errorf("failed to archive %s: %w", dir, err)
		}
	}

	metaPath, err := r.ResolvePath(MetaFile)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(metaPath); err == nil {
		if err := copyFile(metaPath, filepath.Join(archiveDir, MetaFile)); err != nil {
			return "", fmt.Errorf("failed to archive metadata: %w", err)
		}
	}

	return archiveDir, nil
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0700)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0700); err != nil {
		return err
	}
	// #nosec G304 -- paths originate from a validated workspace walk
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

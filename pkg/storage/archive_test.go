package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestArchive(t *testing.T) {
	repo := NewFilesystemRepository(t.TempDir())
	if err := repo.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	item := testItem("user", "Get User Profile")
	if err := repo.SaveDraft(item); err != nil {
		t.Fatalf("SaveDraft failed: %v", err)
	}
	metaPath, _ := repo.ResolvePath(MetaFile)
	if err := writeFileAtomic(metaPath, []byte(`{"version":"1"}`)); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	at := time.Date(2026, 8, 1, 12, 30, 45, 0, time.UTC)
	archiveDir, err := repo.Archive(at)
	if err != nil {
		t.Fatalf("Archive failed: %v", err)
	}
	if filepath.Base(archiveDir) != "archive-20260801-123045" {
		t.Errorf("Unexpected archive name: %s", archiveDir)
	}

	// Copies exist under the archive, originals are untouched.
	archivedDraft := filepath.Join(archiveDir, DraftsDir, "user", "get-user-profile.json")
	if _, err := os.Stat(archivedDraft); err != nil {
		t.Errorf("Archived draft missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(archiveDir, MetaFile)); err != nil {
		t.Errorf("Archived metadata missing: %v", err)
	}

	jsonPath, _, _ := repo.DraftPaths(item.Spec.ID)
	if _, err := os.Stat(jsonPath); err != nil {
		t.Errorf("Original draft must survive archiving: %v", err)
	}
}

func TestArchive_EmptyWorkspace(t *testing.T) {
	repo := NewFilesystemRepository(t.TempDir())
	if err := repo.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	archiveDir, err := repo.Archive(time.Now())
	if err != nil {
		t.Fatalf("Archive of empty workspace failed: %v", err)
	}
	if _, err := os.Stat(archiveDir); err != nil {
		t.Errorf("Archive directory should exist even when empty: %v", err)
	}
}

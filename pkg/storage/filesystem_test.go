package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolvePath(t *testing.T) {
	repo := NewFilesystemRepository(t.TempDir())

	path, err := repo.ResolvePath("meta.json")
	if err != nil {
		t.Fatalf("ResolvePath failed: %v", err)
	}
	if path != filepath.Join(repo.BaseDir(), "meta.json") {
		t.Errorf("Unexpected resolved path: %s", path)
	}

	// Nested paths are legitimate for domain-scoped drafts.
	if _, err := repo.ResolvePath("drafts/user/get-user.json"); err != nil {
		t.Errorf("Nested path should resolve: %v", err)
	}

	for _, bad := range []string{"", "../outside", "drafts/../../escape", "../../etc/passwd"} {
		if _, err := repo.ResolvePath(bad); err == nil {
			t.Errorf("ResolvePath(%q) should be rejected", bad)
		}
	}
}

func TestInitialize(t *testing.T) {
	repo := NewFilesystemRepository(t.TempDir())

	if repo.IsInitialized() {
		t.Error("Fresh root should not be initialized")
	}
	if err := repo.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if !repo.IsInitialized() {
		t.Error("Initialize should create the workspace directory")
	}

	info, err := os.Stat(repo.BaseDir())
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if !info.IsDir() {
		t.Error("Workspace should be a directory")
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "artifact.json")

	if err := writeFileAtomic(path, []byte(`{"a":1}`)); err != nil {
		t.Fatalf("writeFileAtomic failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != `{"a":1}` {
		t.Errorf("Unexpected content: %s", data)
	}

	// Overwrite is atomic replacement, not append.
	if err := writeFileAtomic(path, []byte(`{"a":2}`)); err != nil {
		t.Fatalf("second writeFileAtomic failed: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != `{"a":2}` {
		t.Errorf("Expected replaced content, got %s", data)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected only the artifact, got %d entries", len(entries))
	}
}

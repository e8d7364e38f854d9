package application

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/specforge/specforge/pkg/domain/symbol"
	"github.com/specforge/specforge/pkg/storage"
)

// discard returns a logger that drops everything, keeping test output clean.
func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubProvider returns a fixed symbol set regardless of the scanned files.
type stubProvider struct {
	symbols []symbol.Symbol
}

func (stubProvider) Name() string { return "stub" }

func (p stubProvider) Symbols(_ context.Context, _ string, _ []string) ([]symbol.Symbol, error) {
	return p.symbols, nil
}

// newTestRepo creates an initialized workspace over a fresh project root.
func newTestRepo(t *testing.T) *storage.FilesystemRepository {
	t.Helper()
	repo := storage.NewFilesystemRepository(t.TempDir())
	if err := repo.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return repo
}

// writeProjectFile creates a file (and its parents) under the project root.
func writeProjectFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0700); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

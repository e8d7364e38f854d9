package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/specforge/specforge/pkg/domain/scan"
)

// DiffService compares scan snapshots across runs.
type DiffService struct {
	repo   Workspace
	scans  *ScanService
	logger *slog.Logger
}

func NewDiffService(repo Workspace, scans *ScanService, logger *slog.Logger) *DiffService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DiffService{repo: repo, scans: scans, logger: logger}
}

// DiffAgainstLatest rescans the project and diffs the fresh snapshot against
// the previously persisted one. The fresh snapshot becomes the new baseline.
func (s *DiffService) DiffAgainstLatest(ctx context.Context, root string, opts scan.Options) (*scan.Diff, *scan.Result, error) {
	before, err := s.repo.LoadScan()
	if err != nil {
		return nil, nil, fmt.Errorf("no baseline scan to diff against: %w", err)
	}

	after, err := s.scans.Scan(ctx, root, opts)
	if err != nil {
		return nil, nil, err
	}

	diff := scan.Compare(before, after)
	s.logger.Info("scan diff",
		"added_files", len(diff.AddedFiles),
		"removed_files", len(diff.RemovedFiles),
		"modified_files", len(diff.ModifiedFiles),
		"symbol_changes", len(diff.AddedSymbols)+len(diff.RemovedSymbols)+len(diff.ModifiedSymbols))
	return diff, after, nil
}

// Compare diffs two already-loaded snapshots.
func (s *DiffService) Compare(before, after *scan.Result) *scan.Diff {
	return scan.Compare(before, after)
}

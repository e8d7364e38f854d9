package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/specforge/specforge/pkg/domain/meta"
	"github.com/specforge/specforge/pkg/domain/scan"
	"github.com/specforge/specforge/pkg/domain/symbol"
)

// skipDirs are never descended into, on top of the dot-prefix rule.
var skipDirs = map[string]bool{
	"node_modules": true,
	"dist":         true,
	"build":        true,
	"vendor":       true,
	"__pycache__":  true,
}

// ScanService walks a project tree and produces immutable scan snapshots.
// It is read-only on the target tree; its only writes are the snapshot and
// metadata artifacts under the workspace.
type ScanService struct {
	repo     Workspace
	provider symbol.Provider
	logger   *slog.Logger
}

// NewScanService creates a scan service. A nil provider degrades to the
// no-symbols provider; a nil logger falls back to slog.Default().
func NewScanService(repo Workspace, provider symbol.Provider, logger *slog.Logger) *ScanService {
	if provider == nil {
		provider = symbol.NoopProvider{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ScanService{repo: repo, provider: provider, logger: logger}
}

// Scan traverses the project root up to the configured depth and returns a
// snapshot. An unreachable root is a failure with no partial result and no
// workspace writes.
func (s *ScanService) Scan(ctx context.Context, root string, opts scan.Options) (*scan.Result, error) {
	if opts.Depth <= 0 {
		opts.Depth = scan.DefaultDepth
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("project root is not reachable: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", absRoot)
	}

	files, dirs, err := walkTree(absRoot, opts.Depth)
	if err != nil {
		return nil, err
	}
	files = applyFilters(files, opts)

	symbols, err := s.provider.Symbols(ctx, absRoot, files)
	if err != nil {
		return nil, fmt.Errorf("symbol provider %s failed: %w", s.provider.Name(), err)
	}
	s.logger.Info("scan complete",
		"root", absRoot,
		"files", len(files),
		"symbols", len(symbols),
		"provider", s.provider.Name())

	result := &scan.Result{
		ID:          uuid.New().String(),
		ProjectPath: absRoot,
		ScannedAt:   time.Now(),
		Options:     opts,
		Files:       files,
		Directories: dirs,
		Symbols:     symbols,
		Summary:     scan.Summarize(files, symbols),
	}

	if err := s.record(result); err != nil {
		return nil, err
	}
	return result, nil
}

// record persists the snapshot and appends it to the scan history.
func (s *ScanService) record(result *scan.Result) error {
	if err := s.repo.Initialize(); err != nil {
		return err
	}
	if err := s.repo.SaveScan(result); err != nil {
		return fmt.Errorf("failed to persist scan snapshot: %w", err)
	}

	m, err := s.repo.LoadMeta()
	if err != nil {
		return fmt.Errorf("failed to load metadata: %w", err)
	}
	m.AddScan(meta.EntryFor(result), time.Now())
	if err := s.repo.SaveMeta(m); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}
	return nil
}

// walkTree traverses with an explicit stack rather than recursion, bounded
// by depth. Dot-prefixed and build-output directories are skipped; a
// .gitignore at the root is honored when present.
func walkTree(root string, maxDepth int) (files, dirs []string, err error) {
	var ignorer *gitignore.GitIgnore
	if gi, err := gitignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
		ignorer = gi
	}

	type frame struct {
		path  string
		depth int
	}
	stack := []frame{{path: root, depth: 0}}

	for len(stack) > 0 {
		fr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(fr.path)
		if err != nil {
			if fr.path == root {
				return nil, nil, fmt.Errorf("failed to read project root: %w", err)
			}
			continue // unreadable subdirectory, skip
		}

		for _, entry := range entries {
			name := entry.Name()
			if strings.HasPrefix(name, ".") {
				continue
			}
			full := filepath.Join(fr.path, name)
			rel, relErr := filepath.Rel(root, full)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)
			if ignorer != nil && ignorer.MatchesPath(rel) {
				continue
			}

			if entry.IsDir() {
				if skipDirs[name] {
					continue
				}
				dirs = append(dirs, rel)
				if fr.depth+1 < maxDepth {
					stack = append(stack, frame{path: full, depth: fr.depth + 1})
				}
				continue
			}
			files = append(files, rel)
		}
	}

	sort.Strings(files)
	sort.Strings(dirs)
	return files, dirs, nil
}

// applyFilters narrows the file list by include/exclude globs and the
// optional language filter. Globs are converted to regular expressions and
// matched as substrings of the relative path.
func applyFilters(files []string, opts scan.Options) []string {
	includes := compileGlobs(opts.Include)
	excludes := compileGlobs(opts.Exclude)

	out := make([]string, 0, len(files))
	for _, f := range files {
		if len(includes) > 0 && !anyMatch(includes, f) {
			continue
		}
		if anyMatch(excludes, f) {
			continue
		}
		if opts.Language != "" {
			lang := strings.ToLower(opts.Language)
			if scan.LanguageForPath(f) != lang && !strings.Contains(f, opts.Language) {
				continue
			}
		}
		out = append(out, f)
	}
	return out
}

func compileGlobs(globs []string) []*regexp.Regexp {
	var res []*regexp.Regexp
	for _, g := range globs {
		pattern := regexp.QuoteMeta(g)
		pattern = strings.ReplaceAll(pattern, `\*`, `.*`)
		pattern = strings.ReplaceAll(pattern, `\?`, `.`)
		re, err := regexp.Compile(pattern)
		if err != nil {
			continue
		}
		res = append(res, re)
	}
	return res
}

func anyMatch(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

package scan

import (
	"sort"

	"github.com/specforge/specforge/pkg/domain/symbol"
)

// SymbolChange describes one symbol-level difference between two scans.
type SymbolChange struct {
	Key    string        `json:"key" yaml:"key"`
	Path   string        `json:"path" yaml:"path"`
	Before symbol.Symbol `json:"before,omitempty" yaml:"before,omitempty"`
	After  symbol.Symbol `json:"after,omitempty" yaml:"after,omitempty"`
}

// Diff reports what changed between two scan snapshots.
//
// ModifiedFiles is derived from symbol-level changes: a file counts as
// modified when at least one of its tracked symbols changed. A file edit that
// leaves every tracked symbol intact (whitespace, comments) is therefore
// invisible here. This approximation is deliberate; direct content hashing
// would require both snapshots to retain file contents.
type Diff struct {
	AddedFiles      []string       `json:"added_files" yaml:"added_files"`
	RemovedFiles    []string       `json:"removed_files" yaml:"removed_files"`
	ModifiedFiles   []string       `json:"modified_files" yaml:"modified_files"`
	AddedSymbols    []SymbolChange `json:"added_symbols" yaml:"added_symbols"`
	RemovedSymbols  []SymbolChange `json:"removed_symbols" yaml:"removed_symbols"`
	ModifiedSymbols []SymbolChange `json:"modified_symbols" yaml:"modified_symbols"`
}

// Empty reports whether the two snapshots were identical under the diff's
// tracked dimensions.
func (d *Diff) Empty() bool {
	return len(d.AddedFiles) == 0 && len(d.RemovedFiles) == 0 && len(d.ModifiedFiles) == 0 &&
		len(d.AddedSymbols) == 0 && len(d.RemovedSymbols) == 0 && len(d.ModifiedSymbols) == 0
}

// Compare diffs two scan snapshots. Files are compared by set difference;
// symbols by their composite key, with surviving keys compared by content
// hash to flag modifications.
func Compare(before, after *Result) *Diff {
	d := &Diff{}

	beforeFiles := make(map[string]bool, len(before.Files))
	for _, f := range before.Files {
		beforeFiles[f] = true
	}
	afterFiles := make(map[string]bool, len(after.Files))
	for _, f := range after.Files {
		afterFiles[f] = true
		if !beforeFiles[f] {
			d.AddedFiles = append(d.AddedFiles, f)
		}
	}
	for _, f := range before.Files {
		if !afterFiles[f] {
			d.RemovedFiles = append(d.RemovedFiles, f)
		}
	}

	beforeSyms := make(map[string]symbol.Symbol, len(before.Symbols))
	for _, s := range before.Symbols {
		beforeSyms[s.Key()] = s
	}
	afterSyms := make(map[string]symbol.Symbol, len(after.Symbols))
	modifiedFiles := make(map[string]bool)
	for _, s := range after.Symbols {
		key := s.Key()
		afterSyms[key] = s
		prev, ok := beforeSyms[key]
		if !ok {
			d.AddedSymbols = append(d.AddedSymbols, SymbolChange{Key: key, Path: s.Location.Path, After: s})
			continue
		}
		if prev.ContentHash() != s.ContentHash() {
			d.ModifiedSymbols = append(d.ModifiedSymbols, SymbolChange{Key: key, Path: s.Location.Path, Before: prev, After: s})
			modifiedFiles[s.Location.Path] = true
		}
	}
	for _, s := range before.Symbols {
		if _, ok := afterSyms[s.Key()]; !ok {
			d.RemovedSymbols = append(d.RemovedSymbols, SymbolChange{Key: s.Key(), Path: s.Location.Path, Before: s})
		}
	}

	for f := range modifiedFiles {
		d.ModifiedFiles = append(d.ModifiedFiles, f)
	}

	sort.Strings(d.AddedFiles)
	sort.Strings(d.RemovedFiles)
	sort.Strings(d.ModifiedFiles)
	sortChanges(d.AddedSymbols)
	sortChanges(d.RemovedSymbols)
	sortChanges(d.ModifiedSymbols)
	return d
}

func sortChanges(changes []SymbolChange) {
	sort.Slice(changes, func(i, j int) bool { return changes[i].Key < changes[j].Key })
}

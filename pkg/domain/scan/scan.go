// Package scan defines scan snapshots of a project tree and the pure
// inference helpers that summarize them: language distribution, suggested
// domains, and a coarse complexity grade.
package scan

import (
	"time"

	"github.com/specforge/specforge/pkg/domain/symbol"
)

// Options controls a project scan.
type Options struct {
	Depth    int      `json:"depth" yaml:"depth"`
	Include  []string `json:"include,omitempty" yaml:"include,omitempty"`
	Exclude  []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`
	Language string   `json:"language,omitempty" yaml:"language,omitempty"`
}

// DefaultDepth bounds directory recursion when Options.Depth is zero.
const DefaultDepth = 5

// SuggestedDomain is a feature grouping inferred from directory conventions.
// It is derived from path structure, not authoritative.
type SuggestedDomain struct {
	Name        string   `json:"name" yaml:"name"`
	Path        string   `json:"path" yaml:"path"`
	FileCount   int      `json:"file_count" yaml:"file_count"`
	SymbolCount int      `json:"symbol_count" yaml:"symbol_count"`
	Confidence  int      `json:"confidence" yaml:"confidence"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Files       []string `json:"files,omitempty" yaml:"files,omitempty"`
}

// ComplexityGrade is a coarse size/coupling band for a scanned tree.
type ComplexityGrade string

const (
	ComplexityLow      ComplexityGrade = "low"
	ComplexityMedium   ComplexityGrade = "medium"
	ComplexityHigh     ComplexityGrade = "high"
	ComplexityVeryHigh ComplexityGrade = "very-high"
)

// Complexity estimates project size without reading file contents.
type Complexity struct {
	EstimatedLOC    int             `json:"estimated_loc" yaml:"estimated_loc"`
	AvgFileSize     float64         `json:"avg_file_size" yaml:"avg_file_size"`
	DependencyCount int             `json:"dependency_count" yaml:"dependency_count"`
	Grade           ComplexityGrade `json:"grade" yaml:"grade"`
}

// Summary aggregates one scan.
type Summary struct {
	TotalFiles       int               `json:"total_files" yaml:"total_files"`
	TotalSymbols     int               `json:"total_symbols" yaml:"total_symbols"`
	SymbolKinds      map[string]int    `json:"symbol_kinds" yaml:"symbol_kinds"`
	Languages        map[string]int    `json:"languages" yaml:"languages"`
	SuggestedDomains []SuggestedDomain `json:"suggested_domains" yaml:"suggested_domains"`
	Complexity       Complexity        `json:"complexity" yaml:"complexity"`
}

// Result is one immutable scan snapshot of a project tree.
type Result struct {
	ID          string          `json:"id" yaml:"id"`
	ProjectPath string          `json:"project_path" yaml:"project_path"`
	ScannedAt   time.Time       `json:"scanned_at" yaml:"scanned_at"`
	Options     Options         `json:"options" yaml:"options"`
	Files       []string        `json:"files" yaml:"files"`
	Directories []string        `json:"directories" yaml:"directories"`
	Symbols     []symbol.Symbol `json:"symbols,omitempty" yaml:"symbols,omitempty"`
	Summary     Summary         `json:"summary" yaml:"summary"`
}

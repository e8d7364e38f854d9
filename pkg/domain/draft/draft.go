// Package draft defines extracted draft specifications and the pure
// generator that synthesizes them from symbol groups.
package draft

import (
	"fmt"
	"time"

	"github.com/specforge/specforge/pkg/domain/confidence"
	"github.com/specforge/specforge/pkg/domain/symbol"
)

// Status is the lifecycle stage recorded on a draft itself. The review
// workflow is the only writer of this field after generation.
type Status string

const (
	StatusDraft         Status = "draft"
	StatusPendingReview Status = "pending_review"
	StatusApproved      Status = "approved"
	StatusRejected      Status = "rejected"
)

// FormatVersion is stamped into draft metadata so later tool versions can
// detect stale artifacts.
const FormatVersion = "1.0"

// Scenario is one inferred Given/When/Then behavior.
type Scenario struct {
	Name     string `json:"name" yaml:"name"`
	Given    string `json:"given" yaml:"given"`
	When     string `json:"when" yaml:"when"`
	Then     string `json:"then" yaml:"then"`
	Inferred bool   `json:"inferred" yaml:"inferred"`
}

// ContractType discriminates inferred contracts.
type ContractType string

const (
	ContractInput      ContractType = "input"
	ContractOutput     ContractType = "output"
	ContractInvariant  ContractType = "invariant"
	ContractDependency ContractType = "dependency"
)

// Contract is one inferred interface obligation.
type Contract struct {
	Type        ContractType `json:"type" yaml:"type"`
	Description string       `json:"description" yaml:"description"`
	Signature   string       `json:"signature,omitempty" yaml:"signature,omitempty"`
}

// Metadata records extraction provenance for a draft.
type Metadata struct {
	ExtractedAt   time.Time `json:"extracted_at" yaml:"extracted_at"`
	SourceFiles   []string  `json:"source_files" yaml:"source_files"`
	SymbolCount   int       `json:"symbol_count" yaml:"symbol_count"`
	FormatVersion string    `json:"format_version" yaml:"format_version"`
	Status        Status    `json:"status" yaml:"status"`
}

// ExtractedSpec is one draft behavioral specification synthesized from a
// symbol group. The ID is always slug(domain)/slug(name).
type ExtractedSpec struct {
	ID           string            `json:"id" yaml:"id"`
	Name         string            `json:"name" yaml:"name"`
	Domain       string            `json:"domain" yaml:"domain"`
	Description  string            `json:"description" yaml:"description"`
	Symbols      []symbol.Symbol   `json:"symbols" yaml:"symbols"`
	Confidence   confidence.Result `json:"confidence" yaml:"confidence"`
	Scenarios    []Scenario        `json:"scenarios" yaml:"scenarios"`
	Contracts    []Contract        `json:"contracts" yaml:"contracts"`
	RelatedSpecs []string          `json:"related_specs,omitempty" yaml:"related_specs,omitempty"`
	Metadata     Metadata          `json:"metadata" yaml:"metadata"`
}

// Validate checks structural integrity before persistence.
func (s *ExtractedSpec) Validate() []error {
	var errs []error
	if s.ID == "" {
		errs = append(errs, fmt.Errorf("draft ID is required"))
	}
	if s.Name == "" {
		errs = append(errs, fmt.Errorf("draft name is required"))
	}
	if s.Domain == "" {
		errs = append(errs, fmt.Errorf("draft domain is required"))
	}
	if s.ID != "" && s.ID != Slug(s.Domain)+"/"+Slug(s.Name) {
		errs = append(errs, fmt.Errorf("draft ID %q does not match slug(domain)/slug(name)", s.ID))
	}
	return errs
}

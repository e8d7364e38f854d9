// Package meta holds the small persisted record of scan history and
// extraction counters that survives across invocations.
package meta

import (
	"time"

	"github.com/specforge/specforge/pkg/domain/scan"
)

// SchemaVersion identifies the metadata file layout.
const SchemaVersion = "1"

// MaxScanHistory bounds retained scan entries, newest first.
const MaxScanHistory = 10

// ScanEntry is the retained summary of one scan.
type ScanEntry struct {
	ID           string               `json:"id" yaml:"id"`
	ScannedAt    time.Time            `json:"scanned_at" yaml:"scanned_at"`
	TotalFiles   int                  `json:"total_files" yaml:"total_files"`
	TotalSymbols int                  `json:"total_symbols" yaml:"total_symbols"`
	DomainCount  int                  `json:"domain_count" yaml:"domain_count"`
	Complexity   scan.ComplexityGrade `json:"complexity" yaml:"complexity"`
}

// ExtractionStatus counts pipeline outcomes across runs.
type ExtractionStatus struct {
	Extracted     int `json:"extracted" yaml:"extracted"`
	PendingReview int `json:"pending_review" yaml:"pending_review"`
	Approved      int `json:"approved" yaml:"approved"`
	Rejected      int `json:"rejected" yaml:"rejected"`
	Finalized     int `json:"finalized" yaml:"finalized"`
}

// StatusUpdate is a partial merge into ExtractionStatus; nil fields are
// left unchanged.
type StatusUpdate struct {
	Extracted     *int
	PendingReview *int
	Approved      *int
	Rejected      *int
	Finalized     *int
}

// Meta is the one-per-project persisted metadata record.
type Meta struct {
	Version          string           `json:"version" yaml:"version"`
	ScanHistory      []ScanEntry      `json:"scan_history" yaml:"scan_history"`
	LastScan         *ScanEntry       `json:"last_scan,omitempty" yaml:"last_scan,omitempty"`
	ExtractionStatus ExtractionStatus `json:"extraction_status" yaml:"extraction_status"`
	CreatedAt        time.Time        `json:"created_at" yaml:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at" yaml:"updated_at"`
}

// New returns the default record used when no metadata file exists yet.
func New(now time.Time) *Meta {
	return &Meta{
		Version:     SchemaVersion,
		ScanHistory: []ScanEntry{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// AddScan prepends an entry, truncates to MaxScanHistory, and mirrors the
// newest entry into LastScan.
func (m *Meta) AddScan(entry ScanEntry, now time.Time) {
	m.ScanHistory = append([]ScanEntry{entry}, m.ScanHistory...)
	if len(m.ScanHistory) > MaxScanHistory {
		m.ScanHistory = m.ScanHistory[:MaxScanHistory]
	}
	latest := m.ScanHistory[0]
	m.LastScan = &latest
	m.UpdatedAt = now
}

// UpdateExtractionStatus merges only the provided counters.
func (m *Meta) UpdateExtractionStatus(u StatusUpdate, now time.Time) {
	if u.Extracted != nil {
		m.ExtractionStatus.Extracted = *u.Extracted
	}
	if u.PendingReview != nil {
		m.ExtractionStatus.PendingReview = *u.PendingReview
	}
	if u.Approved != nil {
		m.ExtractionStatus.Approved = *u.Approved
	}
	if u.Rejected != nil {
		m.ExtractionStatus.Rejected = *u.Rejected
	}
	if u.Finalized != nil {
		m.ExtractionStatus.Finalized = *u.Finalized
	}
	m.UpdatedAt = now
}

// Reset clears history and zeros counters. The schema version and creation
// timestamp are preserved.
func (m *Meta) Reset(now time.Time) {
	m.ScanHistory = []ScanEntry{}
	m.LastScan = nil
	m.ExtractionStatus = ExtractionStatus{}
	m.UpdatedAt = now
}

// EntryFor summarizes a scan result for the history.
func EntryFor(result *scan.Result) ScanEntry {
	return ScanEntry{
		ID:           result.ID,
		ScannedAt:    result.ScannedAt,
		TotalFiles:   result.Summary.TotalFiles,
		TotalSymbols: result.Summary.TotalSymbols,
		DomainCount:  len(result.Summary.SuggestedDomains),
		Complexity:   result.Summary.Complexity.Grade,
	}
}

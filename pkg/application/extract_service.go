package application

import (
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/specforge/specforge/pkg/domain/confidence"
	"github.com/specforge/specforge/pkg/domain/draft"
	"github.com/specforge/specforge/pkg/domain/review"
	"github.com/specforge/specforge/pkg/domain/scan"
	"github.com/specforge/specforge/pkg/domain/symbol"
)

// ExtractDepth controls which symbol kinds participate in extraction.
type ExtractDepth string

const (
	DepthShallow ExtractDepth = "shallow"
	DepthMedium  ExtractDepth = "medium"
	DepthDeep    ExtractDepth = "deep"
)

// ExtractOptions narrows an extraction run.
type ExtractOptions struct {
	Depth         ExtractDepth
	Domain        string
	MinConfidence int
	IncludeKinds  []symbol.Kind
	ExcludeKinds  []symbol.Kind
}

// Phase names progress through an extraction run. Phases are strictly
// sequential and never interleave.
type Phase string

const (
	PhaseAnalyzing  Phase = "analyzing"
	PhaseGrouping   Phase = "grouping"
	PhaseGenerating Phase = "generating"
	PhaseSaving     Phase = "saving"
)

// Progress is reported synchronously at phase boundaries and per processed
// unit. Callbacks are observability only and must not drive control flow.
type Progress struct {
	Phase          Phase
	Processed      int
	Total          int
	SpecsGenerated int
}

// ProgressFunc receives progress updates; nil is allowed.
type ProgressFunc func(Progress)

// ExtractResult aggregates one extraction run. Per-group failures land in
// Errors; the run itself still succeeds.
type ExtractResult struct {
	Specs          []draft.ExtractedSpec
	Created        int
	SkippedGroups  int
	SkippedSymbols int
	Errors         []string
}

// ExtractService turns scan results plus provider symbols into persisted
// draft specifications.
type ExtractService struct {
	repo   Workspace
	logger *slog.Logger
}

func NewExtractService(repo Workspace, logger *slog.Logger) *ExtractService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractService{repo: repo, logger: logger}
}

// Extract filters and groups the scan's symbols, scores each group, and
// generates one draft per group at or above the confidence threshold.
// Groups below the threshold are counted, never dropped silently.
func (s *ExtractService) Extract(result *scan.Result, opts ExtractOptions, onProgress ProgressFunc) (*ExtractResult, error) {
	report := func(p Progress) {
		if onProgress != nil {
			onProgress(p)
		}
	}
	if opts.Depth == "" {
		opts.Depth = DepthMedium
	}

	total := len(result.Symbols)
	report(Progress{Phase: PhaseAnalyzing, Total: total})
	filtered := filterSymbols(result.Symbols, opts)
	report(Progress{Phase: PhaseAnalyzing, Processed: total, Total: total})

	report(Progress{Phase: PhaseGrouping, Total: len(filtered)})
	groups := groupSymbols(filtered, result.Summary.SuggestedDomains, opts.Domain)
	report(Progress{Phase: PhaseGrouping, Processed: len(filtered), Total: len(filtered)})

	knownDomains := make([]string, 0, len(result.Summary.SuggestedDomains))
	for _, d := range result.Summary.SuggestedDomains {
		knownDomains = append(knownDomains, d.Name)
	}

	out := &ExtractResult{}
	scorer := confidence.NewScorer(result.Files)

	report(Progress{Phase: PhaseGenerating, Total: len(groups)})
	processed := 0
	for _, g := range groups {
		processed++
		conf := scorer.ScoreGroup(g.symbols)
		if conf.Score < opts.MinConfidence {
			out.SkippedGroups++
			out.SkippedSymbols += len(g.symbols)
			report(Progress{Phase: PhaseGenerating, Processed: processed, Total: len(groups), SpecsGenerated: len(out.Specs)})
			continue
		}
		spec := draft.Generate(g.domain, g.symbols, conf, knownDomains, time.Now())
		out.Specs = append(out.Specs, *spec)
		report(Progress{Phase: PhaseGenerating, Processed: processed, Total: len(groups), SpecsGenerated: len(out.Specs)})
	}

	report(Progress{Phase: PhaseSaving, Total: len(out.Specs)})
	if err := s.repo.Initialize(); err != nil {
		return nil, err
	}
	for i := range out.Specs {
		item := &review.Item{
			Spec:        out.Specs[i],
			Status:      review.StatusPending,
			Suggestions: out.Specs[i].Confidence.Suggestions,
		}
		if err := s.repo.SaveDraft(item); err != nil {
			out.Errors = append(out.Errors, fmt.Sprintf("%s: %v", out.Specs[i].ID, err))
			continue
		}
		out.Created++
		report(Progress{Phase: PhaseSaving, Processed: out.Created, Total: len(out.Specs), SpecsGenerated: len(out.Specs)})
	}

	if err := s.updateMeta(out.Created); err != nil {
		out.Errors = append(out.Errors, err.Error())
	}
	s.logger.Info("extraction complete",
		"groups", len(groups),
		"created", out.Created,
		"skipped_groups", out.SkippedGroups,
		"skipped_symbols", out.SkippedSymbols,
		"errors", len(out.Errors))
	return out, nil
}

func (s *ExtractService) updateMeta(created int) error {
	m, err := s.repo.LoadMeta()
	if err != nil {
		return fmt.Errorf("failed to load metadata: %w", err)
	}
	items, err := s.repo.LoadDrafts("")
	if err != nil {
		return fmt.Errorf("failed to tally drafts: %w", err)
	}
	summary := review.Summarize(items)

	extracted := m.ExtractionStatus.Extracted + created
	m.UpdateExtractionStatus(metaUpdate(extracted, summary), time.Now())
	if err := s.repo.SaveMeta(m); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}
	return nil
}

// filterSymbols applies include/exclude kind filters, then the depth cut.
func filterSymbols(symbols []symbol.Symbol, opts ExtractOptions) []symbol.Symbol {
	include := kindSet(opts.IncludeKinds)
	exclude := kindSet(opts.ExcludeKinds)

	depthAllowed := func(k symbol.Kind) bool {
		switch opts.Depth {
		case DepthShallow:
			return k == symbol.KindClass || k == symbol.KindFunction || k == symbol.KindInterface
		case DepthMedium:
			return k == symbol.KindClass || k == symbol.KindFunction || k == symbol.KindInterface || k == symbol.KindMethod
		default:
			return true
		}
	}

	out := make([]symbol.Symbol, 0, len(symbols))
	for _, sym := range symbols {
		if len(include) > 0 && !include[sym.Kind] {
			continue
		}
		if exclude[sym.Kind] {
			continue
		}
		if !depthAllowed(sym.Kind) {
			continue
		}
		out = append(out, sym)
	}
	return out
}

func kindSet(kinds []symbol.Kind) map[symbol.Kind]bool {
	if len(kinds) == 0 {
		return nil
	}
	set := make(map[symbol.Kind]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return set
}

type symbolGroup struct {
	domain  string
	key     string
	symbols []symbol.Symbol
}

// groupSymbols buckets symbols first by inferred domain, then by declaring
// class; leftover free functions are grouped per source file.
func groupSymbols(symbols []symbol.Symbol, domains []scan.SuggestedDomain, domainFilter string) []symbolGroup {
	type domainBucket map[string][]symbol.Symbol
	byDomain := make(map[string]domainBucket)

	classNames := make(map[string]bool)
	for _, sym := range symbols {
		if sym.Kind == symbol.KindClass || sym.Kind == symbol.KindInterface {
			classNames[sym.NamePath] = true
		}
	}

	for _, sym := range symbols {
		dom := domainFor(sym.Location.Path, domains)
		if domainFilter != "" && dom != domainFilter {
			continue
		}
		bucket, ok := byDomain[dom]
		if !ok {
			bucket = make(domainBucket)
			byDomain[dom] = bucket
		}
		key := groupKey(sym, classNames)
		bucket[key] = append(bucket[key], sym)
	}

	var groups []symbolGroup
	for dom, bucket := range byDomain {
		for key, syms := range bucket {
			groups = append(groups, symbolGroup{domain: dom, key: key, symbols: syms})
		}
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].domain != groups[j].domain {
			return groups[i].domain < groups[j].domain
		}
		return groups[i].key < groups[j].key
	})
	return groups
}

func groupKey(sym symbol.Symbol, classNames map[string]bool) string {
	if sym.Kind == symbol.KindClass || sym.Kind == symbol.KindInterface {
		return sym.NamePath
	}
	if idx := strings.Index(sym.NamePath, "."); idx > 0 {
		if owner := sym.NamePath[:idx]; classNames[owner] {
			return owner
		}
	}
	base := path.Base(sym.Location.Path)
	return "functions/" + strings.TrimSuffix(base, path.Ext(base))
}

// domainFor matches a path against the suggested domain names, falling back
// to the segment after the first "src" component, then the first segment.
func domainFor(p string, domains []scan.SuggestedDomain) string {
	for _, d := range domains {
		if strings.Contains(p, d.Name) {
			return d.Name
		}
	}
	segments := strings.Split(path.Clean(p), "/")
	for i, seg := range segments {
		if seg == "src" && i+1 < len(segments)-1 {
			return segments[i+1]
		}
	}
	first := segments[0]
	if len(segments) == 1 {
		first = strings.TrimSuffix(first, path.Ext(first))
	}
	return first
}

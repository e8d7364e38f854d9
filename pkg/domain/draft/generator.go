package draft

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/specforge/specforge/pkg/domain/confidence"
	"github.com/specforge/specforge/pkg/domain/symbol"
)

// Generate synthesizes one draft spec from a symbol group. It is a pure
// function of its inputs; the clock is passed in so generation is
// reproducible.
func Generate(domain string, symbols []symbol.Symbol, conf confidence.Result, knownDomains []string, now time.Time) *ExtractedSpec {
	name := inferName(symbols)
	spec := &ExtractedSpec{
		ID:           Slug(domain) + "/" + Slug(name),
		Name:         name,
		Domain:       domain,
		Description:  inferDescription(name, symbols),
		Symbols:      symbols,
		Confidence:   conf,
		Scenarios:    inferScenarios(symbols),
		Contracts:    inferContracts(symbols),
		RelatedSpecs: inferRelated(domain, symbols, knownDomains),
		Metadata: Metadata{
			ExtractedAt:   now,
			SourceFiles:   sourceFiles(symbols),
			SymbolCount:   len(symbols),
			FormatVersion: FormatVersion,
			Status:        StatusPendingReview,
		},
	}
	return spec
}

// inferName prefers the first class symbol, then the callable with the
// longest name, then the first symbol.
func inferName(symbols []symbol.Symbol) string {
	for _, s := range symbols {
		if s.Kind == symbol.KindClass {
			return Humanize(s.Name)
		}
	}
	var longest string
	for _, s := range symbols {
		if s.IsCallable() && len(s.Name) > len(longest) {
			longest = s.Name
		}
	}
	if longest != "" {
		return Humanize(longest)
	}
	if len(symbols) > 0 {
		return Humanize(symbols[0].Name)
	}
	return "Unnamed"
}

// inferDescription takes the first documentation sentence of useful length,
// falling back to a generated sentence about the group's composition.
func inferDescription(name string, symbols []symbol.Symbol) string {
	for _, s := range symbols {
		sentence := firstSentence(s.Documentation)
		if len(sentence) >= 10 {
			return sentence
		}
	}

	kinds := make(map[symbol.Kind]int)
	for _, s := range symbols {
		kinds[s.Kind]++
	}
	parts := make([]string, 0, len(kinds))
	for kind, n := range kinds {
		parts = append(parts, fmt.Sprintf("%d %s", n, plural(string(kind), n)))
	}
	sort.Strings(parts)
	return fmt.Sprintf("%s groups %s extracted from the codebase.", name, strings.Join(parts, ", "))
}

func firstSentence(doc string) string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return ""
	}
	if idx := strings.IndexAny(doc, ".!?\n"); idx >= 0 {
		return strings.TrimSpace(doc[:idx+1])
	}
	return doc
}

func plural(word string, n int) string {
	if n == 1 {
		return word
	}
	if strings.HasSuffix(word, "s") {
		return word + "es"
	}
	return word + "s"
}

// scenarioPattern maps a verb prefix to a Given/When/Then template. The
// subject placeholder is the humanized identifier remainder after the verb.
type scenarioPattern struct {
	prefix *regexp.Regexp
	name   string
	given  string
	then   string
}

// Ordered; first match wins.
var scenarioPatterns = []scenarioPattern{
	{regexp.MustCompile(`^(get|find)`), "Retrieve %s", "a valid identifier for %s exists", "the %s is returned"},
	{regexp.MustCompile(`^create`), "Create %s", "valid input for a new %s is provided", "a new %s is persisted and returned"},
	{regexp.MustCompile(`^update`), "Update %s", "an existing %s and valid changes are provided", "the %s reflects the submitted changes"},
	{regexp.MustCompile(`^delete`), "Delete %s", "an existing %s is identified", "the %s is removed"},
	{regexp.MustCompile(`^validate`), "Validate %s", "a candidate %s is provided", "validity of the %s is reported with reasons"},
	{regexp.MustCompile(`^(is|has|can)`), "Check %s", "a %s in any state", "a boolean answer about the %s is returned"},
}

// inferScenarios produces one scenario per callable symbol, pattern-matched
// on its verb prefix. Groups with no callable symbols get exactly one
// generic scenario. Every generated scenario is marked inferred.
func inferScenarios(symbols []symbol.Symbol) []Scenario {
	var scenarios []Scenario
	for _, s := range symbols {
		if !s.IsCallable() {
			continue
		}
		scenarios = append(scenarios, scenarioFor(s))
	}
	if len(scenarios) == 0 {
		subject := "the component"
		if len(symbols) > 0 {
			subject = strings.ToLower(Humanize(symbols[0].Name))
		}
		scenarios = append(scenarios, Scenario{
			Name:     "General behavior",
			Given:    fmt.Sprintf("%s is available", subject),
			When:     fmt.Sprintf("%s is used by a caller", subject),
			Then:     "it behaves according to its documented responsibilities",
			Inferred: true,
		})
	}
	return scenarios
}

func scenarioFor(s symbol.Symbol) Scenario {
	for _, p := range scenarioPatterns {
		loc := p.prefix.FindString(s.Name)
		if loc == "" {
			continue
		}
		subject := strings.ToLower(Humanize(strings.TrimPrefix(s.Name, loc)))
		if subject == "" {
			subject = "the target"
		}
		return Scenario{
			Name:     fmt.Sprintf(p.name, subject),
			Given:    capitalize(fmt.Sprintf(p.given, subject)),
			When:     fmt.Sprintf("%s is called", s.Name),
			Then:     capitalize(fmt.Sprintf(p.then, subject)),
			Inferred: true,
		}
	}
	return Scenario{
		Name:     fmt.Sprintf("Execute %s", strings.ToLower(Humanize(s.Name))),
		Given:    "The required preconditions hold",
		When:     fmt.Sprintf("%s is invoked", s.Name),
		Then:     "It completes and returns its result",
		Inferred: true,
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var (
	paramListRe  = regexp.MustCompile(`\(([^)]*)\)`)
	returnTypeRe = regexp.MustCompile(`\)\s*:\s*(.+)$`)
)

// inferContracts parses textual signatures: a parenthesized parameter list
// becomes an input contract, a trailing type annotation an output contract.
// Symbols without signatures contribute nothing.
func inferContracts(symbols []symbol.Symbol) []Contract {
	var contracts []Contract
	for _, s := range symbols {
		if s.Signature == "" {
			continue
		}
		if m := paramListRe.FindStringSubmatch(s.Signature); m != nil && strings.TrimSpace(m[1]) != "" {
			contracts = append(contracts, Contract{
				Type:        ContractInput,
				Description: fmt.Sprintf("Input parameters for %s", s.Name),
				Signature:   strings.TrimSpace(m[1]),
			})
		}
		if m := returnTypeRe.FindStringSubmatch(s.Signature); m != nil && strings.TrimSpace(m[1]) != "" {
			contracts = append(contracts, Contract{
				Type:        ContractOutput,
				Description: fmt.Sprintf("Return value of %s", s.Name),
				Signature:   strings.TrimSpace(m[1]),
			})
		}
	}
	return contracts
}

// inferRelated scans group documentation for mentions of other known domains.
func inferRelated(domain string, symbols []symbol.Symbol, knownDomains []string) []string {
	ownSlug := Slug(domain)
	seen := make(map[string]bool)
	var related []string
	for _, s := range symbols {
		if s.Documentation == "" {
			continue
		}
		lower := strings.ToLower(s.Documentation)
		for _, known := range knownDomains {
			slugged := Slug(known)
			if slugged == ownSlug || seen[slugged] {
				continue
			}
			if strings.Contains(lower, strings.ToLower(known)) {
				seen[slugged] = true
				related = append(related, slugged)
			}
		}
	}
	sort.Strings(related)
	return related
}

func sourceFiles(symbols []symbol.Symbol) []string {
	seen := make(map[string]bool)
	var files []string
	for _, s := range symbols {
		if s.Location.Path != "" && !seen[s.Location.Path] {
			seen[s.Location.Path] = true
			files = append(files, s.Location.Path)
		}
	}
	sort.Strings(files)
	return files
}

package confidence

import (
	"path"
	"regexp"
	"strings"

	"github.com/specforge/specforge/pkg/domain/symbol"
)

// Scorer computes factor scores for symbols against a scan population. The
// known file list feeds the test-coverage estimate; siblings feed the
// structure factor.
type Scorer struct {
	knownFiles []string
}

// NewScorer creates a scorer over the given known relative file paths.
func NewScorer(knownFiles []string) *Scorer {
	return &Scorer{knownFiles: knownFiles}
}

// ScoreSymbol grades one symbol. Siblings are the other symbols declared in
// the same file; they may be empty.
func (sc *Scorer) ScoreSymbol(sym symbol.Symbol, siblings []symbol.Symbol) Result {
	f := Factors{
		Documentation: DocumentationScore(sym.Documentation),
		Naming:        NamingScore(sym.Name),
		Structure:     StructureScore(sym, siblings),
		TestCoverage:  sc.TestCoverageScore(sym, siblings),
		Typing:        TypingScore(sym.Signature),
	}
	score := Combine(f)
	return Result{
		Score:       score,
		Grade:       GradeFor(score),
		Factors:     f,
		Suggestions: suggestionsFor(f),
	}
}

// ScoreGroup grades a symbol group as the aggregate of its members.
func (sc *Scorer) ScoreGroup(symbols []symbol.Symbol) Result {
	results := make([]Result, 0, len(symbols))
	for _, sym := range symbols {
		siblings := make([]symbol.Symbol, 0, len(symbols)-1)
		for _, other := range symbols {
			if other.Key() != sym.Key() && other.Location.Path == sym.Location.Path {
				siblings = append(siblings, other)
			}
		}
		results = append(results, sc.ScoreSymbol(sym, siblings))
	}
	return Aggregate(results)
}

// DocumentationScore rewards presence, length, and structured tags.
func DocumentationScore(doc string) int {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return 0
	}
	score := 30
	if len(doc) > 50 {
		score += 20
	}
	if len(doc) > 100 {
		score += 10
	}
	lower := strings.ToLower(doc)
	if strings.Contains(lower, "@param") || strings.Contains(lower, "parameters:") {
		score += 15
	}
	if strings.Contains(lower, "@return") || strings.Contains(lower, "returns") {
		score += 10
	}
	if strings.Contains(lower, "@example") || strings.Contains(lower, "example:") {
		score += 15
	}
	if score > 100 {
		score = 100
	}
	return score
}

var (
	camelCaseRe  = regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`)
	pascalCaseRe = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)
	snakeCaseRe  = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	acronymRe    = regexp.MustCompile(`^[A-Z]{2,}$`)
	digitStartRe = regexp.MustCompile(`^[0-9]`)
	verbPrefixRe = regexp.MustCompile(`^(get|set|create|update|delete|find|is|has|can|should|validate|process|handle|parse|format|build|init|load|save)`)
)

// NamingScore rewards conventional, descriptive identifiers.
func NamingScore(name string) int {
	score := 50
	if len(name) >= 3 && len(name) <= 50 {
		score += 10
	} else {
		score -= 10
	}
	if camelCaseRe.MatchString(name) || pascalCaseRe.MatchString(name) || snakeCaseRe.MatchString(name) {
		score += 15
	}
	if verbPrefixRe.MatchString(name) {
		score += 15
	}
	if len(name) == 1 {
		score -= 30
	}
	if digitStartRe.MatchString(name) {
		score -= 20
	}
	if acronymRe.MatchString(name) {
		score -= 10
	}
	return clamp(score)
}

// namingFamily buckets an identifier into its casing convention.
func namingFamily(name string) string {
	switch {
	case acronymRe.MatchString(name):
		return "acronym"
	case pascalCaseRe.MatchString(name):
		return "pascal"
	case strings.Contains(name, "_") && snakeCaseRe.MatchString(name):
		return "snake"
	case camelCaseRe.MatchString(name):
		return "camel"
	default:
		return "other"
	}
}

// StructureScore rewards files whose symbols follow one naming convention
// and keep the kind mix narrow.
func StructureScore(sym symbol.Symbol, siblings []symbol.Symbol) int {
	score := 50
	if len(siblings) > 0 {
		family := namingFamily(sym.Name)
		matching := 0
		for _, s := range siblings {
			if namingFamily(s.Name) == family {
				matching++
			}
		}
		score += int(30 * float64(matching) / float64(len(siblings)))
	}

	kinds := map[symbol.Kind]bool{sym.Kind: true}
	for _, s := range siblings {
		kinds[s.Kind] = true
	}
	if len(kinds) <= 3 {
		score += 10
	} else if len(kinds) > 5 {
		score -= 10
	}
	return clamp(score)
}

// TestCoverageScore estimates coverage from test-file naming conventions.
// It never reads test contents; 60 means "a matching test file exists",
// 30 means "something test-shaped exists nearby", 0 means no signal.
func (sc *Scorer) TestCoverageScore(sym symbol.Symbol, siblings []symbol.Symbol) int {
	base := strings.TrimSuffix(path.Base(sym.Location.Path), path.Ext(sym.Location.Path))
	if base != "" {
		for _, f := range sc.knownFiles {
			name := path.Base(f)
			if strings.HasPrefix(name, base+".test.") || strings.HasPrefix(name, base+".spec.") ||
				strings.HasPrefix(name, base+"_test.") {
				return 60
			}
			if (strings.Contains(f, "/tests/") || strings.Contains(f, "/__tests__/") ||
				strings.HasPrefix(f, "tests/") || strings.HasPrefix(f, "__tests__/")) &&
				strings.Contains(name, base) {
				return 60
			}
		}
	}

	for _, s := range append(siblings, sym) {
		lower := strings.ToLower(s.Name)
		if strings.Contains(lower, "test") || strings.Contains(lower, "spec") {
			return 30
		}
	}
	return 0
}

var (
	typedParamRe = regexp.MustCompile(`\([^)]*\w+\s*:\s*[^)]+\)`)
	anyTypeRe    = regexp.MustCompile(`\bany\b`)
	genericRe    = regexp.MustCompile(`<[A-Za-z][^>]*>`)
)

// TypingScore rewards explicit, narrow type annotations in a signature.
func TypingScore(signature string) int {
	score := 40
	if signature != "" {
		score += 20
		if strings.Contains(signature, ":") || strings.Contains(signature, "->") {
			score += 15
		}
		if typedParamRe.MatchString(signature) {
			score += 15
		}
		if anyTypeRe.MatchString(signature) {
			score -= 20
		}
		if strings.Contains(signature, "unknown") {
			score += 5
		}
		if genericRe.MatchString(signature) {
			score += 10
		}
	}
	return clamp(score)
}

func suggestionsFor(f Factors) []string {
	var out []string
	if f.Documentation == 0 {
		out = append(out, "Add documentation describing purpose, parameters, and return value")
	} else if f.Documentation < 60 {
		out = append(out, "Expand documentation with parameter and return descriptions")
	}
	if f.Naming < 60 {
		out = append(out, "Rename to a descriptive, conventionally-cased identifier")
	}
	if f.TestCoverage == 0 {
		out = append(out, "Add a test file covering this symbol")
	}
	if f.Typing < 60 {
		out = append(out, "Add explicit type annotations to the signature")
	}
	if f.Structure < 50 {
		out = append(out, "Reduce the mix of symbol kinds in this file")
	}
	return out
}

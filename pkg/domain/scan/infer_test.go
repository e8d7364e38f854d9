package scan

import (
	"testing"

	"github.com/specforge/specforge/pkg/domain/symbol"
)

func TestLanguageForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"src/main.go", "go"},
		{"src/app.ts", "typescript"},
		{"src/App.TSX", "typescript"},
		{"lib/run.py", "python"},
		{"README", ""},
		{"Makefile", ""},
	}
	for _, tt := range tests {
		if got := LanguageForPath(tt.path); got != tt.want {
			t.Errorf("LanguageForPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestLanguageHistogram(t *testing.T) {
	hist := LanguageHistogram([]string{"a.go", "b.go", "c.ts", "LICENSE"})
	if hist["go"] != 2 {
		t.Errorf("Expected 2 go files, got %d", hist["go"])
	}
	if hist["typescript"] != 1 {
		t.Errorf("Expected 1 typescript file, got %d", hist["typescript"])
	}
	if len(hist) != 2 {
		t.Errorf("Unclassified files should be dropped, got %v", hist)
	}
}

func TestInferDomains(t *testing.T) {
	files := []string{
		"src/user/service.ts",
		"src/user/model.ts",
		"src/user/controller.ts",
		"src/billing/invoice.ts",
		"src/utils/strings.ts",
		"docs/readme.md",
	}
	symbols := []symbol.Symbol{
		{Name: "UserService", Kind: symbol.KindClass, NamePath: "UserService", Location: symbol.Location{Path: "src/user/service.ts"}},
		{Name: "getUser", Kind: symbol.KindMethod, NamePath: "UserService.getUser", Location: symbol.Location{Path: "src/user/service.ts"}},
	}

	domains := InferDomains(files, symbols)
	if len(domains) != 2 {
		t.Fatalf("Expected 2 domains (utils and docs excluded), got %d: %v", len(domains), domains)
	}
	if domains[0].Name != "user" {
		t.Errorf("Expected largest domain first, got %q", domains[0].Name)
	}
	if domains[0].FileCount != 3 {
		t.Errorf("Expected 3 user files, got %d", domains[0].FileCount)
	}
	if domains[0].SymbolCount != 2 {
		t.Errorf("Expected 2 user symbols, got %d", domains[0].SymbolCount)
	}
	if domains[1].Name != "billing" {
		t.Errorf("Expected billing second, got %q", domains[1].Name)
	}
	if domains[0].Confidence <= domains[1].Confidence {
		t.Errorf("user (%d) should outscore billing (%d)", domains[0].Confidence, domains[1].Confidence)
	}
}

func TestInferDomains_TieBreakAndCap(t *testing.T) {
	var files []string
	for _, name := range []string{"zeta", "alpha"} {
		files = append(files, "src/"+name+"/one.ts")
	}
	domains := InferDomains(files, nil)
	if len(domains) != 2 || domains[0].Name != "alpha" {
		t.Fatalf("Equal-sized domains should sort by name, got %v", domains)
	}

	files = nil
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		files = append(files, "src/"+name+"/one.ts")
	}
	if got := len(InferDomains(files, nil)); got != 10 {
		t.Errorf("Expected domain list capped at 10, got %d", got)
	}
}

func TestDomainConfidence(t *testing.T) {
	// 3 of 6 files = 50% share capped at 50, 2 symbols = 0.2, src/ root = 20.
	if got := DomainConfidence(3, 6, 2, "src/user"); got != 70 {
		t.Errorf("Expected confidence 70, got %d", got)
	}
	// Non-src root gets the 10-point base instead.
	if got := DomainConfidence(3, 6, 2, "lib/user"); got != 60 {
		t.Errorf("Expected confidence 60, got %d", got)
	}
	// File share is capped at 50 even when the domain holds every file.
	if got := DomainConfidence(10, 10, 0, "lib/all"); got != 60 {
		t.Errorf("Expected capped confidence 60, got %d", got)
	}
	// Symbol density caps at 30.
	if got := DomainConfidence(1, 100, 1000, "lib/dense"); got != 41 {
		t.Errorf("Expected confidence 41, got %d", got)
	}
	if got := DomainConfidence(0, 0, 0, "src/empty"); got != 20 {
		t.Errorf("Expected empty-scan confidence 20, got %d", got)
	}
}

func TestEstimateComplexity(t *testing.T) {
	tests := []struct {
		files int
		want  ComplexityGrade
	}{
		{0, ComplexityLow},
		{10, ComplexityLow},
		{40, ComplexityMedium},
		{100, ComplexityMedium},
		{150, ComplexityHigh},
		{300, ComplexityVeryHigh},
	}
	for _, tt := range tests {
		c := EstimateComplexity(tt.files)
		if c.Grade != tt.want {
			t.Errorf("EstimateComplexity(%d).Grade = %s, want %s", tt.files, c.Grade, tt.want)
		}
	}

	c := EstimateComplexity(50)
	if c.EstimatedLOC != 5000 {
		t.Errorf("Expected 5000 estimated LOC, got %d", c.EstimatedLOC)
	}
	if c.DependencyCount != 100 {
		t.Errorf("Expected 100 estimated dependencies, got %d", c.DependencyCount)
	}
	if c.AvgFileSize != 100 {
		t.Errorf("Expected average file size 100, got %f", c.AvgFileSize)
	}
}

func TestSummarize(t *testing.T) {
	files := []string{"src/user/a.ts", "src/user/b.ts"}
	symbols := []symbol.Symbol{
		{Name: "A", Kind: symbol.KindClass, NamePath: "A", Location: symbol.Location{Path: "src/user/a.ts"}},
		{Name: "run", Kind: symbol.KindFunction, NamePath: "run", Location: symbol.Location{Path: "src/user/b.ts"}},
	}

	s := Summarize(files, symbols)
	if s.TotalFiles != 2 || s.TotalSymbols != 2 {
		t.Errorf("Expected 2 files and 2 symbols, got %d and %d", s.TotalFiles, s.TotalSymbols)
	}
	if s.SymbolKinds["class"] != 1 || s.SymbolKinds["function"] != 1 {
		t.Errorf("Unexpected kind histogram: %v", s.SymbolKinds)
	}
	if s.Languages["typescript"] != 2 {
		t.Errorf("Expected 2 typescript files, got %d", s.Languages["typescript"])
	}
	if len(s.SuggestedDomains) != 1 || s.SuggestedDomains[0].Name != "user" {
		t.Errorf("Unexpected suggested domains: %v", s.SuggestedDomains)
	}
	if s.Complexity.Grade != ComplexityLow {
		t.Errorf("Expected low complexity, got %s", s.Complexity.Grade)
	}
}

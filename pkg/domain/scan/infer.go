package scan

import (
	"fmt"
	"math"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/specforge/specforge/pkg/domain/symbol"
)

// languageByExt maps file extensions to language names for the histogram.
var languageByExt = map[string]string{
	".go":     "go",
	".ts":     "typescript",
	".tsx":    "typescript",
	".js":     "javascript",
	".jsx":    "javascript",
	".mjs":    "javascript",
	".py":     "python",
	".rs":     "rust",
	".java":   "java",
	".kt":     "kotlin",
	".rb":     "ruby",
	".c":      "c",
	".h":      "c",
	".cpp":    "cpp",
	".cc":     "cpp",
	".hpp":    "cpp",
	".cs":     "csharp",
	".swift":  "swift",
	".php":    "php",
	".scala":  "scala",
	".sql":    "sql",
	".sh":     "shell",
	".yaml":   "yaml",
	".yml":    "yaml",
	".json":   "json",
	".toml":   "toml",
	".proto":  "protobuf",
	".md":     "markdown",
	".html":   "html",
	".css":    "css",
	".vue":    "vue",
	".svelte": "svelte",
}

// LanguageForPath classifies a file path by extension, or "" if unknown.
func LanguageForPath(p string) string {
	return languageByExt[strings.ToLower(path.Ext(p))]
}

// LanguageHistogram counts files per classified language.
func LanguageHistogram(files []string) map[string]int {
	hist := make(map[string]int)
	for _, f := range files {
		if lang := LanguageForPath(f); lang != "" {
			hist[lang]++
		}
	}
	return hist
}

// domainRoot matches conventional source roots followed by a named grouping.
var domainRoot = regexp.MustCompile(`^(src|lib|packages|modules|apps)/([^/]+)`)

// genericSegments are directory names too generic to count as domains.
var genericSegments = map[string]bool{
	"utils":     true,
	"helpers":   true,
	"types":     true,
	"config":    true,
	"test":      true,
	"tests":     true,
	"__tests__": true,
}

// maxSuggestedDomains bounds how many inferred domains a summary keeps.
const maxSuggestedDomains = 10

// InferDomains groups filtered file paths by directory convention and scores
// each candidate domain. Results are sorted by file count descending, capped
// at maxSuggestedDomains.
func InferDomains(files []string, symbols []symbol.Symbol) []SuggestedDomain {
	type bucket struct {
		path  string
		files []string
	}
	buckets := make(map[string]*bucket)
	for _, f := range files {
		m := domainRoot.FindStringSubmatch(f)
		if m == nil {
			continue
		}
		name := m[2]
		if genericSegments[strings.ToLower(name)] {
			continue
		}
		b, ok := buckets[name]
		if !ok {
			b = &bucket{path: m[0]}
			buckets[name] = b
		}
		b.files = append(b.files, f)
	}

	symbolsUnder := func(prefix string) int {
		n := 0
		for _, s := range symbols {
			if strings.HasPrefix(s.Location.Path, prefix+"/") || s.Location.Path == prefix {
				n++
			}
		}
		return n
	}

	total := len(files)
	domains := make([]SuggestedDomain, 0, len(buckets))
	for name, b := range buckets {
		symCount := symbolsUnder(b.path)
		domains = append(domains, SuggestedDomain{
			Name:        name,
			Path:        b.path,
			FileCount:   len(b.files),
			SymbolCount: symCount,
			Confidence:  DomainConfidence(len(b.files), total, symCount, b.path),
			Description: fmt.Sprintf("Inferred from %d files under %s", len(b.files), b.path),
			Files:       b.files,
		})
	}

	sort.Slice(domains, func(i, j int) bool {
		if domains[i].FileCount != domains[j].FileCount {
			return domains[i].FileCount > domains[j].FileCount
		}
		return domains[i].Name < domains[j].Name
	})
	if len(domains) > maxSuggestedDomains {
		domains = domains[:maxSuggestedDomains]
	}
	return domains
}

// DomainConfidence scores a candidate domain on a 0-100 scale. File share
// contributes up to 50 points, symbol density up to 30, and a conventional
// "src/" root adds 20 over the 10-point base for other roots.
func DomainConfidence(fileCount, totalFiles, symbolCount int, domainPath string) int {
	var score float64
	if totalFiles > 0 {
		score += math.Min(float64(fileCount)/float64(totalFiles)*100, 50)
	}
	score += math.Min(float64(symbolCount)/10, 30)
	if strings.Contains(domainPath+"/", "src/") {
		score += 20
	} else {
		score += 10
	}
	return int(math.Round(math.Min(score, 100)))
}

// EstimateComplexity grades project size from file count alone. Lines and
// dependencies are heuristic estimates, not measurements.
func EstimateComplexity(fileCount int) Complexity {
	estimatedLOC := fileCount * 100
	dependencyCount := fileCount * 2
	avgFileSize := 0.0
	if fileCount > 0 {
		avgFileSize = float64(estimatedLOC) / float64(fileCount)
	}

	score := 0.4*(float64(estimatedLOC)/10000) +
		0.4*(float64(dependencyCount)/100) +
		0.2*(avgFileSize/500)

	grade := ComplexityVeryHigh
	switch {
	case score < 0.5:
		grade = ComplexityLow
	case score < 1.5:
		grade = ComplexityMedium
	case score < 3:
		grade = ComplexityHigh
	}

	return Complexity{
		EstimatedLOC:    estimatedLOC,
		AvgFileSize:     avgFileSize,
		DependencyCount: dependencyCount,
		Grade:           grade,
	}
}

// Summarize computes the full summary for a filtered file list and the
// symbols reported for it.
func Summarize(files []string, symbols []symbol.Symbol) Summary {
	kinds := make(map[string]int)
	for _, s := range symbols {
		kinds[string(s.Kind)]++
	}
	return Summary{
		TotalFiles:       len(files),
		TotalSymbols:     len(symbols),
		SymbolKinds:      kinds,
		Languages:        LanguageHistogram(files),
		SuggestedDomains: InferDomains(files, symbols),
		Complexity:       EstimateComplexity(len(files)),
	}
}

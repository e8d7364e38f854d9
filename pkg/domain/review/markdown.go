package review

import (
	"fmt"
	"strings"
)

// Markdown renders the human-review twin of a draft. The structured-text
// twin remains authoritative; this rendering exists for reviewers.
func (it *Item) Markdown() []byte {
	var b strings.Builder
	spec := &it.Spec

	fmt.Fprintf(&b, "# %s\n\n", spec.Name)
	fmt.Fprintf(&b, "> Draft specification `%s` — review status: **%s**\n\n", spec.ID, it.Status)
	if spec.Description != "" {
		b.WriteString(spec.Description + "\n\n")
	}

	fmt.Fprintf(&b, "**Confidence**: %d/100 (grade %s)\n\n", spec.Confidence.Score, spec.Confidence.Grade)
	fmt.Fprintf(&b, "| Factor | Score |\n|---|---|\n")
	fmt.Fprintf(&b, "| Documentation | %d |\n", spec.Confidence.Factors.Documentation)
	fmt.Fprintf(&b, "| Naming | %d |\n", spec.Confidence.Factors.Naming)
	fmt.Fprintf(&b, "| Structure | %d |\n", spec.Confidence.Factors.Structure)
	fmt.Fprintf(&b, "| Test coverage | %d |\n", spec.Confidence.Factors.TestCoverage)
	fmt.Fprintf(&b, "| Typing | %d |\n\n", spec.Confidence.Factors.Typing)

	if len(spec.Scenarios) > 0 {
		b.WriteString("## Scenarios\n\n")
		for _, sc := range spec.Scenarios {
			fmt.Fprintf(&b, "### %s", sc.Name)
			if sc.Inferred {
				b.WriteString(" _(inferred)_")
			}
			b.WriteString("\n\n")
			fmt.Fprintf(&b, "- **Given** %s\n- **When** %s\n- **Then** %s\n\n", sc.Given, sc.When, sc.Then)
		}
	}

	if len(spec.Contracts) > 0 {
		b.WriteString("## Contracts\n\n")
		for _, c := range spec.Contracts {
			if c.Signature != "" {
				fmt.Fprintf(&b, "- **%s**: %s — `%s`\n", c.Type, c.Description, c.Signature)
			} else {
				fmt.Fprintf(&b, "- **%s**: %s\n", c.Type, c.Description)
			}
		}
		b.WriteString("\n")
	}

	if len(spec.Symbols) > 0 {
		b.WriteString("## Source Symbols\n\n")
		for _, s := range spec.Symbols {
			fmt.Fprintf(&b, "- `%s` (%s) — %s:%d\n", s.NamePath, s.Kind, s.Location.Path, s.Location.StartLine)
		}
		b.WriteString("\n")
	}

	if len(spec.RelatedSpecs) > 0 {
		b.WriteString("## Related Specs\n\n")
		for _, r := range spec.RelatedSpecs {
			fmt.Fprintf(&b, "- %s\n", r)
		}
		b.WriteString("\n")
	}

	if len(it.Suggestions) > 0 {
		b.WriteString("## Suggestions\n\n")
		for _, s := range it.Suggestions {
			fmt.Fprintf(&b, "- %s\n", s)
		}
		b.WriteString("\n")
	}

	if len(it.Comments) > 0 {
		b.WriteString("## Review Log\n\n")
		for _, c := range it.Comments {
			fmt.Fprintf(&b, "- [%s] %s: %s\n", c.Timestamp.Format("2006-01-02 15:04:05"), c.Type, c.Message)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "---\n_Extracted %s from %d symbols in %d files._\n",
		spec.Metadata.ExtractedAt.Format("2006-01-02 15:04:05"),
		spec.Metadata.SymbolCount, len(spec.Metadata.SourceFiles))
	return []byte(b.String())
}

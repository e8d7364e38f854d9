package specstore

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/specforge/specforge/pkg/domain/draft"
)

// Provenance is stamped into every finalized document's front-matter.
const Provenance = "specforge reverse extraction"

// Render converts an approved draft into the canonical store's document
// format. Every scenario and contract is restated as a SHALL requirement;
// scenarios are additionally listed in literal Given/When/Then form.
func Render(spec *draft.ExtractedSpec) ([]byte, error) {
	fm := FrontMatter{
		ID:         spec.ID,
		Title:      spec.Name,
		Status:     "draft",
		Domain:     spec.Domain,
		Provenance: Provenance,
		Confidence: spec.Confidence.Score,
	}
	header, err := yaml.Marshal(&fm)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal front-matter: %w", err)
	}

	var b strings.Builder
	b.WriteString(frontMatterDelimiter + "\n")
	b.Write(header)
	b.WriteString(frontMatterDelimiter + "\n\n")

	fmt.Fprintf(&b, "# %s\n\n", spec.Name)
	if spec.Description != "" {
		b.WriteString(spec.Description + "\n\n")
	}

	b.WriteString("## Requirements\n\n")
	n := 0
	for _, sc := range spec.Scenarios {
		n++
		fmt.Fprintf(&b, "- REQ-%03d: When %s, the system SHALL ensure that %s.\n",
			n, lowerFirst(sc.When), lowerFirst(strings.TrimSuffix(sc.Then, ".")))
	}
	for _, c := range spec.Contracts {
		n++
		switch c.Type {
		case draft.ContractInput:
			fmt.Fprintf(&b, "- REQ-%03d: The operation SHALL accept `%s`. %s.\n", n, c.Signature, c.Description)
		case draft.ContractOutput:
			fmt.Fprintf(&b, "- REQ-%03d: The operation SHALL return `%s`. %s.\n", n, c.Signature, c.Description)
		default:
			fmt.Fprintf(&b, "- REQ-%03d: The component SHALL uphold: %s.\n", n, c.Description)
		}
	}
	b.WriteString("\n")

	b.WriteString("## Scenarios\n\n")
	for _, sc := range spec.Scenarios {
		fmt.Fprintf(&b, "### %s\n\n", sc.Name)
		fmt.Fprintf(&b, "- Given %s\n", lowerFirst(sc.Given))
		fmt.Fprintf(&b, "- When %s\n", lowerFirst(sc.When))
		fmt.Fprintf(&b, "- Then %s\n\n", lowerFirst(sc.Then))
	}

	b.WriteString("## Non-Functional Requirements\n\n")
	b.WriteString("- Performance characteristics to be defined during review.\n")
	b.WriteString("- Error handling follows the project-wide conventions.\n\n")

	b.WriteString("## Constraints\n\n")
	b.WriteString("- Extracted specification; behavior inferred from code structure.\n")
	fmt.Fprintf(&b, "- Extraction confidence: %d/100 (grade %s).\n\n", spec.Confidence.Score, spec.Confidence.Grade)

	b.WriteString("## Glossary\n\n")
	fmt.Fprintf(&b, "- **%s**: %s\n", spec.Domain, "the feature domain this specification belongs to")

	return []byte(b.String()), nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

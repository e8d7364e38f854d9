// Package specstore renders approved drafts into the canonical specification
// store's document format and parses such documents back for verification.
// Front-matter is handled as a typed YAML block, never by ad-hoc line
// splitting.
package specstore

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// FrontMatter is the typed header of a canonical spec document. Status is the
// target store's own lifecycle and always starts over at "draft", regardless
// of the review status that got the spec here.
type FrontMatter struct {
	ID         string `yaml:"id"`
	Title      string `yaml:"title"`
	Status     string `yaml:"status"`
	Domain     string `yaml:"domain"`
	Provenance string `yaml:"provenance"`
	Confidence int    `yaml:"confidence"`
}

// Document is a parsed canonical spec file: typed front-matter plus the
// markdown body split into level-2 sections.
type Document struct {
	FrontMatter FrontMatter
	Sections    map[string]string
	Body        string
}

const frontMatterDelimiter = "---"

// Parse reads a canonical spec document. The front-matter block is decoded
// into the typed schema; unknown keys are rejected so schema drift surfaces
// as a parse error rather than silent data loss.
func Parse(data []byte) (*Document, error) {
	text := string(data)
	if !strings.HasPrefix(text, frontMatterDelimiter+"\n") {
		return nil, fmt.Errorf("missing front-matter block")
	}
	rest := text[len(frontMatterDelimiter)+1:]
	end := strings.Index(rest, "\n"+frontMatterDelimiter)
	if end < 0 {
		return nil, fmt.Errorf("unterminated front-matter block")
	}
	header := rest[:end]
	body := strings.TrimPrefix(rest[end+1+len(frontMatterDelimiter):], "\n")

	var fm FrontMatter
	dec := yaml.NewDecoder(strings.NewReader(header))
	dec.KnownFields(true)
	if err := dec.Decode(&fm); err != nil {
		return nil, fmt.Errorf("failed to parse front-matter: %w", err)
	}

	return &Document{
		FrontMatter: fm,
		Sections:    splitSections(body),
		Body:        body,
	}, nil
}

func splitSections(body string) map[string]string {
	sections := make(map[string]string)
	var current string
	var buf []string
	flush := func() {
		if current != "" {
			sections[current] = strings.TrimSpace(strings.Join(buf, "\n"))
		}
		buf = nil
	}
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "## ") {
			flush()
			current = strings.TrimSpace(strings.TrimPrefix(line, "## "))
			continue
		}
		buf = append(buf, line)
	}
	flush()
	return sections
}

// Validate checks that a parsed document satisfies the canonical store's
// structural requirements.
func (d *Document) Validate() []error {
	var errs []error
	if d.FrontMatter.ID == "" {
		errs = append(errs, fmt.Errorf("front-matter id is required"))
	}
	if d.FrontMatter.Title == "" {
		errs = append(errs, fmt.Errorf("front-matter title is required"))
	}
	if d.FrontMatter.Domain == "" {
		errs = append(errs, fmt.Errorf("front-matter domain is required"))
	}
	if d.FrontMatter.Confidence < 0 || d.FrontMatter.Confidence > 100 {
		errs = append(errs, fmt.Errorf("front-matter confidence must be in [0,100]"))
	}

	reqs, ok := d.Sections["Requirements"]
	if !ok {
		errs = append(errs, fmt.Errorf("missing Requirements section"))
	} else if !strings.Contains(reqs, "SHALL") {
		errs = append(errs, fmt.Errorf("Requirements section has no normative keyword"))
	}
	if _, ok := d.Sections["Scenarios"]; !ok {
		errs = append(errs, fmt.Errorf("missing Scenarios section"))
	}
	return errs
}

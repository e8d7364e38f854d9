package draft

import (
	"regexp"
	"strings"
)

var (
	camelBoundaryRe = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	nonSlugRe       = regexp.MustCompile(`[^a-z0-9]+`)
	dashRunRe       = regexp.MustCompile(`-{2,}`)
)

// Slug normalizes a name for use in draft identifiers and file paths:
// lowercase, camel boundaries split, non-alphanumerics collapsed to dashes.
func Slug(name string) string {
	s := camelBoundaryRe.ReplaceAllString(name, "$1-$2")
	s = strings.ToLower(s)
	s = nonSlugRe.ReplaceAllString(s, "-")
	s = dashRunRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SplitWords breaks a camelCase, PascalCase, or snake_case identifier into
// lowercase words.
func SplitWords(name string) []string {
	s := camelBoundaryRe.ReplaceAllString(name, "$1 $2")
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	fields := strings.Fields(strings.ToLower(s))
	return fields
}

// Humanize renders an identifier as a title-cased phrase, e.g.
// "getUserProfile" becomes "Get User Profile".
func Humanize(name string) string {
	words := SplitWords(name)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

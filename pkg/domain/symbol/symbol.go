// Package symbol defines the symbol records supplied by semantic code
// analysis providers and the provider interface itself.
package symbol

import "fmt"

// Kind indicates the syntactic kind of a symbol.
type Kind string

const (
	KindClass     Kind = "class"
	KindInterface Kind = "interface"
	KindFunction  Kind = "function"
	KindMethod    Kind = "method"
	KindField     Kind = "field"
	KindVariable  Kind = "variable"
	KindConstant  Kind = "constant"
	KindModule    Kind = "module"
)

// Location identifies where a symbol is declared in the source tree.
type Location struct {
	Path      string `json:"path" yaml:"path"`
	StartLine int    `json:"start_line" yaml:"start_line"`
	EndLine   int    `json:"end_line" yaml:"end_line"`
}

// Symbol is a single typed symbol record as reported by an analysis provider.
// NamePath is the dot-joined declaration path (e.g. "UserService.getProfile"),
// used to disambiguate same-named symbols within a file.
type Symbol struct {
	Name          string   `json:"name" yaml:"name"`
	Kind          Kind     `json:"kind" yaml:"kind"`
	NamePath      string   `json:"name_path" yaml:"name_path"`
	Location      Location `json:"location" yaml:"location"`
	Signature     string   `json:"signature,omitempty" yaml:"signature,omitempty"`
	Documentation string   `json:"documentation,omitempty" yaml:"documentation,omitempty"`
	Body          string   `json:"body,omitempty" yaml:"body,omitempty"`
}

// Key returns the composite identity used when diffing two scans.
func (s Symbol) Key() string {
	return fmt.Sprintf("%s::%s", s.Location.Path, s.NamePath)
}

// ContentHash summarizes the parts of a symbol that count as a modification
// when present in two scans under the same key.
func (s Symbol) ContentHash() string {
	return fmt.Sprintf("%s|%s|%d-%d", s.Kind, s.Signature, s.Location.StartLine, s.Location.EndLine)
}

// IsCallable reports whether the symbol can carry behavior scenarios.
func (s Symbol) IsCallable() bool {
	return s.Kind == KindFunction || s.Kind == KindMethod
}

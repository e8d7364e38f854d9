package symbol

import "context"

// Provider supplies typed symbol records for a source scope. Implementations
// may legitimately return an empty slice; callers must degrade gracefully
// rather than treat "no symbols" as an error.
type Provider interface {
	// Name identifies the provider for logging and provenance.
	Name() string
	// Symbols returns all symbol records found under the given root,
	// restricted to the given relative file paths.
	Symbols(ctx context.Context, root string, files []string) ([]Symbol, error)
}

// NoopProvider is the "no symbols available" provider. It is the default when
// no semantic analysis capability is wired into the host application.
type NoopProvider struct{}

func (NoopProvider) Name() string { return "none" }

func (NoopProvider) Symbols(_ context.Context, _ string, _ []string) ([]Symbol, error) {
	return nil, nil
}

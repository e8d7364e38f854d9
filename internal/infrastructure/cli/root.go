// Package cli wires the specforge commands. Commands construct services
// against the current working directory and print aggregate results; all
// pipeline behavior lives in pkg/application.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/specforge/specforge/pkg/domain/symbol"
	"github.com/specforge/specforge/pkg/provider/goast"
	"github.com/specforge/specforge/pkg/storage"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:     "specforge",
	Version: Version,
	Short:   "Reverse-engineer draft specifications from an existing codebase",
	Long: `Specforge scans an unannotated codebase, infers draft behavioral
specifications with a graded confidence signal, routes them through a human
review workflow, and promotes approved drafts into the canonical spec store.`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return RootCmd.Execute()
}

var providerName string

func init() {
	RootCmd.PersistentFlags().StringVar(&providerName, "provider", "none",
		"symbol analysis provider (none, goast)")
}

// workspace opens the repository for the current directory.
func workspace() (*storage.FilesystemRepository, *storage.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to determine working directory: %w", err)
	}
	repo := storage.NewFilesystemRepository(cwd)
	cfg, err := repo.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	return repo, cfg, nil
}

// symbolProvider resolves the --provider flag. The default deployment has no
// semantic analysis capability wired up and returns no symbols.
func symbolProvider() (symbol.Provider, error) {
	switch providerName {
	case "", "none":
		return symbol.NoopProvider{}, nil
	case "goast":
		return goast.New(), nil
	default:
		return nil, fmt.Errorf("unknown symbol provider %q (expected none or goast)", providerName)
	}
}

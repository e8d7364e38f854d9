package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the specforge workspace in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, cfg, err := workspace()
		if err != nil {
			return err
		}
		if repo.IsInitialized() {
			fmt.Println("Workspace already initialized.")
			return nil
		}
		if err := repo.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize workspace: %w", err)
		}
		if err := repo.SaveConfig(cfg); err != nil {
			return fmt.Errorf("failed to write default config: %w", err)
		}
		fmt.Printf("Initialized specforge workspace at %s\n", repo.BaseDir())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(initCmd)
}

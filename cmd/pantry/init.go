// Init command prepares the config directory and the selected backend.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pantry/internal/paths"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the pantry configuration and backend",
	Long: `Init creates the configuration directory, writes a default config.yaml
if none exists, and opens the configured backend once so it can create its
storage (the SQLite database file, or the Azure containers).

Example:
  pantry init
  pantry init --backend sqlite --data-dir ./data`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(flagConfigDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	if err := ensureConfigDir(configDir); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}

	cfg, err := loadServiceConfig()
	if err != nil {
		return err
	}
	s, err := openService(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("initialize %s backend: %w", cfg.Backend, err)
	}
	if err := s.Close(); err != nil {
		return fmt.Errorf("close %s backend: %w", cfg.Backend, err)
	}

	fmt.Printf("Initialized pantry (%s backend, config in %s)\n", cfg.Backend, configDir)
	return nil
}

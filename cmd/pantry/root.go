// Root command for the pantry CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

// version is the pantry CLI version.
const version = "0.1.0"

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagBackend   string
	flagScope     string
	flagVerbose   bool
)

// svc is the storage service opened for the running command; nil for
// commands that run without one. svcConfig is the configuration it was
// opened with.
var (
	svc       backendService
	svcConfig types.Config
)

// logger writes CLI diagnostics to stderr.
var logger *slog.Logger

var rootCmd = &cobra.Command{
	Use:   "pantry",
	Short: "Pantry is a typed record-storage client",
	Long: `Pantry stores typed records in private and public scopes, backed by
SQLite, Azure Blob Storage, or process memory. Commands operate on raw
record envelopes; applications use the library facade for typed access.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: initService,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeService()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory for the sqlite backend (default: $(CWD)/.pantry-db)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend: sqlite, azure, or memory (default: config value)")
	rootCmd.PersistentFlags().StringVar(&flagScope, "scope", string(types.ScopePrivate), "storage scope: private or public")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

// serviceless lists command names that run without an open backend.
var serviceless = map[string]bool{
	"version":                       true,
	"init":                          true,
	"help":                          true,
	"completion":                    true,
	cobra.ShellCompRequestCmd:       true,
	cobra.ShellCompNoDescRequestCmd: true,
}

// servicelessCommand reports whether cmd runs without an open backend.
// Completion shells are children of the completion command.
func servicelessCommand(cmd *cobra.Command) bool {
	if serviceless[cmd.Name()] {
		return true
	}
	if p := cmd.Parent(); p != nil && serviceless[p.Name()] {
		return true
	}
	return false
}

// initService configures logging and, for commands that touch storage,
// loads the configuration and opens the selected backend.
func initService(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if servicelessCommand(cmd) {
		return nil
	}

	cfg, err := loadServiceConfig()
	if err != nil {
		return err
	}
	s, err := openService(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("open %s backend: %w", cfg.Backend, err)
	}
	svc = s
	svcConfig = cfg
	return nil
}

// closeService releases the backend if one was opened. Safe to call more
// than once.
func closeService() error {
	if svc == nil {
		return nil
	}
	err := svc.Close()
	svc = nil
	return err
}

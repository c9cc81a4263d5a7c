// Status command reports the active backend and identity.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pantry/pkg/store"
	"github.com/mesh-intelligence/pantry/pkg/types"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show backend, identity, and scopes",
	Long: `Status reports the configured backend, its storage location, the
resolved identity, and the available scopes.

Example:
  pantry status`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Printf("Backend:   %s\n", svcConfig.Backend)

	switch svcConfig.Backend {
	case types.BackendSQLite:
		fmt.Printf("Data dir:  %s\n", svcConfig.DataDir)
	case types.BackendAzure:
		account := svcConfig.Azure.AccountURL
		if account == "" {
			account = "(connection string)"
		}
		fmt.Printf("Account:   %s\n", account)
		fmt.Printf("Containers: %s, %s\n", svcConfig.Azure.PrivateContainer, svcConfig.Azure.PublicContainer)
	}

	identity, err := store.CurrentUserID(cmd.Context(), svc)
	switch {
	case err == nil:
		fmt.Printf("Identity:  %s\n", identity)
	case errors.Is(err, store.ErrNullResponse):
		fmt.Printf("Identity:  (none)\n")
	default:
		return fmt.Errorf("resolve identity: %w", err)
	}

	fmt.Printf("Scopes:    ")
	for i, scope := range types.Scopes {
		if i > 0 {
			fmt.Printf(", ")
		}
		fmt.Printf("%s", scope)
	}
	fmt.Println()
	return nil
}

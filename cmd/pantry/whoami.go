// Whoami command resolves the caller's identity.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pantry/pkg/store"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Print the current identity",
	Long: `Whoami resolves the caller's identity from the backend. A backend
with no identity configured reports none.

Example:
  pantry whoami`,
	Args: cobra.NoArgs,
	RunE: runWhoami,
}

func runWhoami(cmd *cobra.Command, args []string) error {
	identity, err := store.CurrentUserID(cmd.Context(), svc)
	if err != nil {
		if errors.Is(err, store.ErrNullResponse) {
			return fmt.Errorf("no identity configured (set user_id in config.yaml or PANTRY_USER_ID)")
		}
		return fmt.Errorf("resolve identity: %w", err)
	}
	fmt.Println(identity)
	return nil
}

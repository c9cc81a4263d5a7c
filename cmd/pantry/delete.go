// Delete command removes a record by identifier.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pantry/pkg/store"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a record by ID",
	Long: `Delete removes the record with the given identifier from the selected
scope.

Example:
  pantry delete 0190a7e2-1111-7abc-8def-000000000001
  pantry delete --scope public 0190a7e2-1111-7abc-8def-000000000001`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	id := args[0]

	scope, err := resolveScope()
	if err != nil {
		return err
	}

	deleted, err := store.Remove(cmd.Context(), svc, scope, id)
	if err != nil {
		if errors.Is(err, store.ErrNullResponse) {
			return fmt.Errorf("no record %q in scope %s", id, scope)
		}
		return fmt.Errorf("delete record: %w", err)
	}

	fmt.Printf("Deleted %s\n", deleted)
	return nil
}

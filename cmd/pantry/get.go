// Get command retrieves a record by identifier.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a record by ID",
	Long: `Get retrieves a record from the selected scope by its identifier and
prints the record envelope as JSON.

Example:
  pantry get 0190a7e2-1111-7abc-8def-000000000001
  pantry get --scope public 0190a7e2-1111-7abc-8def-000000000001`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	id := args[0]

	scope, err := resolveScope()
	if err != nil {
		return err
	}

	rec, err := svc.Fetch(cmd.Context(), scope, id)
	if err != nil {
		return fmt.Errorf("fetch record: %w", err)
	}
	if rec == nil {
		return fmt.Errorf("no record %q in scope %s", id, scope)
	}

	return printJSON(rec)
}

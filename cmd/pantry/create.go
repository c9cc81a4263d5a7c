// Create command saves a new record.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create <type> <fields-json>",
	Short: "Create a record",
	Long: `Create saves a new record of the given type in the selected scope.
Fields are a JSON object mapping field names to tagged values; the backend
assigns the identifier, creator, and timestamps. The saved record is
printed as JSON.

Field values carry an explicit kind: string, int, double, bool, time,
bytes, or string_list.

Example:
  pantry create todo '{"title": {"kind": "string", "value": "Buy milk"}}'
  pantry create note '{"pinned": {"kind": "bool", "value": true}}' --scope public`,
	Args: cobra.ExactArgs(2),
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, args []string) error {
	recordType := args[0]

	scope, err := resolveScope()
	if err != nil {
		return err
	}

	fields, err := parseFields(args[1])
	if err != nil {
		return err
	}
	rec, err := buildRecord(recordType, "", fields)
	if err != nil {
		return err
	}

	saved, err := svc.Save(cmd.Context(), scope, rec)
	if err != nil {
		return fmt.Errorf("create record: %w", err)
	}

	return printJSON(saved)
}

// Update command overwrites an existing record.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update <type> <id> <fields-json>",
	Short: "Update a record",
	Long: `Update overwrites the record with the given identifier. The fields
JSON replaces the stored fields entirely; the stored creator and creation
time are preserved. There is no version check, so concurrent updates are
last-write-wins. The saved record is printed as JSON.

Example:
  pantry update todo 0190a7e2-1111-7abc-8def-000000000001 \
    '{"title": {"kind": "string", "value": "Buy oat milk"}}'`,
	Args: cobra.ExactArgs(3),
	RunE: runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	recordType := args[0]
	id := args[1]

	scope, err := resolveScope()
	if err != nil {
		return err
	}

	fields, err := parseFields(args[2])
	if err != nil {
		return err
	}
	rec, err := buildRecord(recordType, id, fields)
	if err != nil {
		return err
	}

	saved, err := svc.Save(cmd.Context(), scope, rec)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}

	return printJSON(saved)
}

// Export command writes records of selected types to a JSONL archive.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pantry/internal/archive"
	"github.com/mesh-intelligence/pantry/pkg/types"
)

var exportTypes []string

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export records to a JSONL archive",
	Long: `Export queries every record of each --type in the selected scope and
writes them to a JSON Lines archive, one record envelope per line. The
file is written atomically.

Example:
  pantry export backup.jsonl --type todo
  pantry export backup.jsonl --type todo --type note --scope public`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringArrayVar(&exportTypes, "type", nil, "record type to export (repeatable)")
	exportCmd.MarkFlagRequired("type")
}

func runExport(cmd *cobra.Command, args []string) error {
	path := args[0]

	scope, err := resolveScope()
	if err != nil {
		return err
	}

	var records []*types.Record
	for _, recordType := range exportTypes {
		recs, err := svc.Query(cmd.Context(), scope, recordType, types.Query{})
		if err != nil {
			return fmt.Errorf("query %s records: %w", recordType, err)
		}
		records = append(records, recs...)
	}

	if err := archive.Write(path, records); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}

	fmt.Printf("Exported %d records to %s\n", len(records), path)
	return nil
}

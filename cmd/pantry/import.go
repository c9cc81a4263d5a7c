// Import command loads records from a JSONL archive.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pantry/internal/archive"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import records from a JSONL archive",
	Long: `Import reads a JSON Lines archive and saves each record into the
selected scope. Records keep their archived identifiers, so importing
over existing records overwrites them; the backend re-stamps creator and
timestamps for records it has not seen before.

Example:
  pantry import backup.jsonl
  pantry import backup.jsonl --scope public`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]

	scope, err := resolveScope()
	if err != nil {
		return err
	}

	records, err := archive.Read(path)
	if err != nil {
		return fmt.Errorf("read archive: %w", err)
	}

	for _, rec := range records {
		imported, err := buildRecord(rec.Type(), rec.ID(), rec.Fields())
		if err != nil {
			return fmt.Errorf("record %s: %w", rec.ID(), err)
		}
		if _, err := svc.Save(cmd.Context(), scope, imported); err != nil {
			return fmt.Errorf("save record %s: %w", rec.ID(), err)
		}
	}

	fmt.Printf("Imported %d records from %s\n", len(records), path)
	return nil
}

// List command queries records of a type.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pantry/pkg/store"
	"github.com/mesh-intelligence/pantry/pkg/types"
)

var listMine bool

var listCmd = &cobra.Command{
	Use:   "list <type>",
	Short: "List records of a type",
	Long: `List queries every record of the given type in the selected scope,
ordered by creation time, and prints the envelopes as JSON.

With --mine, only records created by the current identity are listed.
Identity resolution runs first; when it fails, no query is issued.

Example:
  pantry list todo
  pantry list todo --mine
  pantry list note --scope public`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listMine, "mine", false, "list only records created by the current identity")
}

func runList(cmd *cobra.Command, args []string) error {
	recordType := args[0]

	scope, err := resolveScope()
	if err != nil {
		return err
	}

	var query types.Query
	if listMine {
		identity, err := store.CurrentUserID(cmd.Context(), svc)
		if err != nil {
			if errors.Is(err, store.ErrNullResponse) {
				return fmt.Errorf("no identity configured (set user_id in config.yaml or PANTRY_USER_ID)")
			}
			return fmt.Errorf("resolve identity: %w", err)
		}
		query.CreatorID = identity
	}

	recs, err := svc.Query(cmd.Context(), scope, recordType, query)
	if err != nil {
		return fmt.Errorf("query records: %w", err)
	}

	return printJSON(recs)
}

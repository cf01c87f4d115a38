package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storeroom/pkg/types"
)

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Retrieve an item by ID",
		Long: `Get looks up one item by its ID in the seeded registry.

Example:
  storeroom get ITEM002 --seed items.jsonl
  storeroom get ITEM002 --seed items.jsonl --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openRegistry()
			if err != nil {
				return err
			}
			defer store.Close()

			item, err := store.FindByID(args[0])
			if err != nil {
				return fmt.Errorf("get item: %w", err)
			}

			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), item.Record())
			}
			printItemDetails(cmd.OutOrStdout(), item)
			return nil
		},
	}
}

// printItemDetails prints item fields in human-readable format.
func printItemDetails(w io.Writer, item *types.Item) {
	fmt.Fprintf(w, "ID:          %s\n", item.ID())
	fmt.Fprintf(w, "Description: %s\n", item.Description())
	fmt.Fprintf(w, "Location:    %s\n", item.Location())
}

package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storeroom/internal/jsonl"
	"github.com/mesh-intelligence/storeroom/pkg/types"
)

func newListCmd(a *app) *cobra.Command {
	var jsonlMode bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items in description order",
		Long: `List prints the items reachable through the description index,
ascending by description. When two items share a description only the most
recently added one is listed.

Example:
  storeroom list --seed items.jsonl
  storeroom list --seed items.jsonl --json
  storeroom list --seed items.jsonl --jsonl`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openRegistry()
			if err != nil {
				return err
			}
			defer store.Close()

			items, err := store.ListByDescription()
			if err != nil {
				return sysError(fmt.Errorf("list items: %w", err))
			}

			out := cmd.OutOrStdout()
			switch {
			case jsonlMode:
				return jsonl.Write(out, items)
			case a.flags.jsonMode:
				records := make([]types.ItemRecord, len(items))
				for i, item := range items {
					records[i] = item.Record()
				}
				return writeJSON(out, records)
			default:
				printItemTable(out, items)
				return nil
			}
		},
	}
	cmd.Flags().BoolVar(&jsonlMode, "jsonl", false, "output one JSON record per line")
	return cmd
}

// printItemTable prints items in a human-readable table format.
func printItemTable(w io.Writer, items []*types.Item) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No items found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DESCRIPTION\tLOCATION\tID")
	fmt.Fprintln(tw, "-----------\t--------\t--")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", item.Description(), item.Location(), item.ID())
	}
	tw.Flush()
	fmt.Fprintf(w, "Total: %d item(s)\n", len(items))
}

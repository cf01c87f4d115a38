package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storeroom/pkg/storeroom"
)

const modulePath = "github.com/mesh-intelligence/storeroom"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the storeroom version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "storeroom v%s\nmodule: %s\n", storeroom.Version, modulePath)
			return nil
		},
	}
}

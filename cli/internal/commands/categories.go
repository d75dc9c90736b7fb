package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/duckworthlewis/dlc/pkg/dls"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List match categories and their G50",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, c := range dls.Categories() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-22s G50 %d\n", c, c.G50())
			}
			return nil
		},
	}
}

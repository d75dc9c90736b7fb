package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all matches in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			records := st.List()
			if len(records) == 0 {
				fmt.Fprintln(out, "No matches stored")
				return nil
			}
			for _, r := range records {
				fmt.Fprintf(out, "Match %d between %s and %s (%d overs, %s, created %s)\n",
					r.ID, r.Team1, r.Team2, r.Match.StartingOvers, r.Match.Category,
					r.Created.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/duckworthlewis/dlc/pkg/dls"
)

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show a match, its interruptions and the resources each side has",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := st.Get(matchID)
			if err != nil {
				return err
			}
			m, err := r.Load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Match %d: %s v %s, %d overs, %s (G50 %d)\n",
				r.ID, r.Team1, r.Team2, m.StartingOvers(), m.Category(), m.G50())
			for _, n := range []dls.InningsNumber{dls.First, dls.Second} {
				if err := printInnings(out, m, n); err != nil {
					return err
				}
			}
			if score, ok := m.Team1Score(); ok {
				res, err := m.ComputeTarget(score)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s scored %d; %s need %d\n", r.Team1, score, r.Team2, res.Target)
			}
			return nil
		},
	}
}

func printInnings(out io.Writer, m *dls.Match, n dls.InningsNumber) error {
	in, err := m.Innings(n)
	if err != nil {
		return err
	}
	available, err := in.ResourcesAvailable(nil)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s innings: %s overs allocated of %s, resources %s\n",
		n, in.Allocation(), in.StartingOvers(), available)
	for i, it := range in.Interruptions() {
		fmt.Fprintf(out, "  %d. %d down after %s overs (%s left), %s overs lost\n",
			i+1, it.WicketsLost, it.OversCompleted, it.OversLeft, it.OversRemoved)
	}
	return nil
}

package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/duckworthlewis/dlc/pkg/dls"
)

func intCmd() *cobra.Command {
	var oversLeft bool

	cmd := &cobra.Command{
		Use:   "int <wickets> <overs-completed> <overs-lost> <first|second>",
		Short: "Add an interruption to a match",
		Long: "Record a stoppage with <wickets> down after <overs-completed> overs that cut " +
			"<overs-lost> overs from the innings. Overs use cricket notation (37.3 is 37 overs " +
			"and 3 balls). With --overs-left the second argument is the overs remaining when " +
			"play stopped, before this stoppage's deduction.",
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			wickets, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("wickets %q: want a number", args[0])
			}
			at, err := dls.ParseOvers(args[1])
			if err != nil {
				return err
			}
			lost, err := dls.ParseOvers(args[2])
			if err != nil {
				return err
			}
			innings, err := dls.ParseInnings(args[3])
			if err != nil {
				return err
			}

			r, err := st.Get(matchID)
			if err != nil {
				return err
			}
			m, err := r.Load()
			if err != nil {
				return err
			}

			completed := at
			if oversLeft {
				in, err := m.Innings(innings)
				if err != nil {
					return err
				}
				if at > in.Allocation() {
					return fmt.Errorf("%w: %s overs left exceeds the %s allocated", dls.ErrInvalidInterruption, at, in.Allocation())
				}
				completed = in.Allocation() - at
			}

			if err := m.RecordInterruption(innings, wickets, completed, lost); err != nil {
				return err
			}
			st.Update(r, m)
			if err := st.Save(); err != nil {
				return err
			}

			in, _ := m.Innings(innings)
			fmt.Fprintf(cmd.OutOrStdout(), "Match %d: %s innings interrupted at %s for %d, %s overs lost; allocation now %s overs\n",
				r.ID, innings, completed, wickets, lost, in.Allocation())
			return nil
		},
	}
	cmd.Flags().BoolVar(&oversLeft, "overs-left", false, "treat the second argument as overs remaining at the stoppage")
	return cmd
}

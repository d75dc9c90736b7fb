package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/duckworthlewis/dlc/pkg/dls"
)

func newCmd() *cobra.Command {
	var team1, team2 string
	var g50 int

	cmd := &cobra.Command{
		Use:   "new <length> <category>",
		Short: "Create a new match",
		Long: "Create a new match of <length> overs per side. <category> is the highest grade " +
			"both teams are eligible to play; see `dlc categories`.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			length, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("length %q: want whole overs", args[0])
			}
			category, err := dls.ParseCategory(args[1])
			if err != nil {
				return err
			}
			if g50 == 0 {
				g50 = category.G50()
			}
			m, err := dls.NewMatchG50(length, category, g50)
			if err != nil {
				return err
			}

			r := st.Create(team1, team2, m)
			if err := st.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created match %d: %s v %s, %d overs, %s (G50 %d)\n",
				r.ID, team1, team2, length, category, m.G50())
			return nil
		},
	}
	cmd.Flags().StringVar(&team1, "team-1", "Team 1", "name of the team batting first")
	cmd.Flags().StringVar(&team2, "team-2", "Team 2", "name of the team batting second")
	cmd.Flags().IntVar(&g50, "g50", 0, "custom G50 (default from category)")
	return cmd
}

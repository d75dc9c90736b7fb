package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/duckworthlewis/dlc/pkg/dls"
	"github.com/duckworthlewis/dlc/pkg/dlsrpc"
)

const remoteTimeout = 10 * time.Second

func targetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "target <first-innings-total>",
		Short: "Calculate team 2's revised target",
		Long: "Calculate the current second innings target from team 1's total (not the par " +
			"score). It can be recalculated safely after further interruptions.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("first innings total %q: want a number", args[0])
			}

			r, err := st.Get(matchID)
			if err != nil {
				return err
			}
			m, err := r.Load()
			if err != nil {
				return err
			}
			if err := m.SetTeam1Score(score); err != nil {
				return err
			}

			res, err := computeTarget(cmd.Context(), m, score)
			if err != nil {
				return err
			}

			st.Update(r, m)
			if err := st.Save(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Adjusted target for %s is %d\n", r.Team2, res.Target)
			fmt.Fprintf(out, "  %d overs allotted, par %.2f (R1 %.1f%%, R2 %.1f%%, G50 %d)\n",
				res.OversAllotted, res.Par, res.R1, res.R2, res.G50)
			return nil
		},
	}
}

// computeTarget computes locally, or on the configured server.
func computeTarget(ctx context.Context, m *dls.Match, score int) (dls.TargetResult, error) {
	if serverAddr == "" {
		return m.ComputeTarget(score)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client, conn, err := dlsrpc.Dial(serverAddr, apiHeader, os.Getenv(envAPIKey))
	if err != nil {
		return dls.TargetResult{}, err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()

	slog.Debug("dlc: computing target remotely", "server", serverAddr)
	res, err := client.ComputeTarget(ctx, m.Snapshot(), score)
	if err != nil {
		return dls.TargetResult{}, fmt.Errorf("remote target: %w", err)
	}
	return res, nil
}

package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/duckworthlewis/dlc/cli/internal/matchstore"
)

// Environment variables read by the CLI.
const (
	envStorage = "DUCKWORTH_LEWIS_STORAGE"
	envAPIKey  = "DLC_API_KEY"
)

const defaultStorePath = "store.json"

var (
	storePath  string
	matchID    int
	serverAddr string
	apiHeader  string
	verbose    bool

	st *matchstore.Store
)

// Execute runs the dlc command tree against os.Args.
func Execute() error {
	return newRootCmd(os.Stdout, os.Stderr).Execute()
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:          "dlc",
		Short:        "Duckworth-Lewis Standard Edition target calculator",
		Long:         "Calculate targets for the team batting second in weather affected limited-overs matches using the Duckworth-Lewis Standard Edition.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level})))

			s, err := matchstore.Open(storePath)
			if err != nil {
				return err
			}
			st = s
			slog.Debug("dlc: store opened", "path", storePath, "matches", len(s.List()))
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVarP(&storePath, "store", "s", defaultStore(), "match store file (env "+envStorage+")")
	root.PersistentFlags().IntVarP(&matchID, "id", "i", 0, "match id (default latest match created)")
	root.PersistentFlags().StringVar(&serverAddr, "server", "", "dlc-server gRPC address; computes targets remotely (key from env "+envAPIKey+")")
	root.PersistentFlags().StringVar(&apiHeader, "api-key-header", "x-api-key", "metadata key the API key is sent in")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")

	root.AddCommand(newCmd(), intCmd(), targetCmd(), showCmd(), listCmd(), deleteCmd(), categoriesCmd())
	return root
}

func defaultStore() string {
	if p := os.Getenv(envStorage); p != "" {
		return p
	}
	return defaultStorePath
}

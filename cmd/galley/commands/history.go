package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/galleyproject/galley/pkg/stores"
)

func newHistoryCommand() *cobra.Command {
	var storePath string

	cmd := &cobra.Command{
		Use:   "history <run-id>",
		Short: "Show a recorded run and its events",
		Long: `Show one recorded converge run from the SQLite run log, including
every lifecycle event in the order it was recorded.`,
		Example: `  # Show a run recorded by "galley converge --store runs.db"
  galley history --store runs.db 2f1c9c0e-...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runID := args[0]

			store, err := stores.NewRunLogStore(stores.Config{Path: storePath})
			if err != nil {
				return err
			}
			if err := store.Init(ctx); err != nil {
				return err
			}
			defer store.Close()
			if err := store.Migrate(ctx); err != nil {
				return err
			}

			run, err := store.GetRun(ctx, runID)
			if err != nil {
				return err
			}
			events, err := store.GetEvents(ctx, runID)
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Run    *stores.Run    `json:"run"`
					Events []stores.Event `json:"events"`
				}{run, events})
			}

			fmt.Printf("Run %s on %s: %s (started %s)\n",
				run.ID, run.NodeName, run.Status, run.StartedAt.Format("2006-01-02 15:04:05"))
			if run.Error != nil {
				fmt.Printf("Error: %s\n", *run.Error)
			}
			for _, e := range events {
				fmt.Printf("  %s  %-20s %s\n", e.Timestamp.Format("15:04:05.000"), e.Type, e.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&storePath, "store", "runs.db", "SQLite run log path")

	return cmd
}

package commands

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/galleyproject/galley/pkg/compile"
	"github.com/galleyproject/galley/pkg/cookbook"
	"github.com/galleyproject/galley/pkg/exec"
	"github.com/galleyproject/galley/pkg/node"
	"github.com/galleyproject/galley/pkg/runlist"
	"github.com/galleyproject/galley/pkg/stores"
	"github.com/galleyproject/galley/pkg/telemetry"
)

func newConvergeCommand() *cobra.Command {
	var (
		storePath     string
		metricsListen string
	)

	cmd := &cobra.Command{
		Use:   "converge",
		Short: "Compile the run list into a resource collection",
		Long: `Compile the configured run list against the cookbook collection.

The run resolves the cookbook dependency order, loads libraries, LWRPs,
attribute files and resource definitions in phases, then evaluates each
run-list recipe in order. The resulting resource collection is printed
when the run completes.`,
		Example: `  # Converge using ./run.yaml
  galley converge

  # Converge with a run log and metrics endpoint
  galley converge -c node1.yaml --store runs.db --metrics-listen :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			logCfg := telemetry.DefaultConfig().Logging
			logCfg.Output = "stderr"
			if jsonOutput {
				logCfg.Format = "json"
			}
			if verbose {
				logCfg.Level = "debug"
			}
			logger, err := telemetry.NewLogger(logCfg)
			if err != nil {
				return err
			}
			log.Logger = logger.NewComponentLogger("converge").Zerolog()

			cfg, err := runlist.LoadConfig(configPath)
			if err != nil {
				return err
			}

			collection, err := cookbook.LoadCollection(cfg.CookbookPath)
			if err != nil {
				return err
			}
			log.Info().
				Str("path", cfg.CookbookPath).
				Int("cookbooks", collection.Len()).
				Msg("loaded cookbook collection")

			publisher := telemetry.NewEventPublisher(telemetry.EventsConfig{Enabled: true})
			metrics, err := telemetry.NewMetrics(telemetry.MetricsConfig{
				Enabled:   metricsListen != "",
				Namespace: "galley",
			})
			if err != nil {
				return err
			}
			if metricsListen != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", metrics.Handler())
				go func() {
					if err := http.ListenAndServe(metricsListen, mux); err != nil {
						log.Error().Err(err).Msg("metrics endpoint failed")
					}
				}()
			}

			var store *stores.RunLogStore
			if storePath != "" {
				store, err = stores.NewRunLogStore(stores.Config{Path: storePath})
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
				publisher.Subscribe(store.Subscriber(ctx), nil)
			}

			n := node.New(cfg.NodeName)
			runID := uuid.New().String()
			sink := telemetry.NewCompileSink(runID, publisher, metrics)
			rc := compile.NewRunContext(compile.RunContextConfig{
				RunID:      runID,
				Collection: collection,
				Node:       n,
				RunList:    runlist.NewExpanded(cfg.RunList),
				Executor:   exec.NewStarlarkExecutor(),
				Sink:       sink,
			})
			n.SetAttributeLoader(rc.IncludeAttributeFile)

			started := time.Now()
			metrics.RecordRunStarted()
			publisher.PublishRunStarted(rc.RunID, cfg.NodeName)
			if store != nil {
				if err := store.CreateRun(ctx, &stores.Run{
					ID:        rc.RunID,
					NodeName:  cfg.NodeName,
					Status:    stores.RunStatusRunning,
					StartedAt: started.UTC(),
				}); err != nil {
					return err
				}
			}

			runErr := compile.NewCompiler(rc).Run()
			duration := time.Since(started)
			if runErr != nil {
				publisher.PublishRunFailed(rc.RunID, runErr.Error())
				metrics.RecordRunCompleted("failed", duration)
				if store != nil {
					_ = store.CompleteRun(ctx, rc.RunID, stores.RunStatusFailed, runErr)
				}
				return runErr
			}

			publisher.PublishRunCompleted(rc.RunID, duration)
			metrics.RecordRunCompleted("completed", duration)
			if store != nil {
				if err := store.CompleteRun(ctx, rc.RunID, stores.RunStatusCompleted, nil); err != nil {
					return err
				}
			}

			printResources(rc)
			return nil
		},
	}

	cmd.Flags().StringVar(&storePath, "store", "", "SQLite run log path (disabled when empty)")
	cmd.Flags().StringVar(&metricsListen, "metrics-listen", "", "address for the Prometheus metrics endpoint (disabled when empty)")

	return cmd
}

func printResources(rc *compile.RunContext) {
	fmt.Printf("Run %s: %d resources, %d definitions\n",
		rc.RunID, rc.Resources.Len(), rc.Definitions.Len())
	for _, res := range rc.Resources.All() {
		fmt.Printf("  %s (%s)\n", res.ID(), res.Recipe)
	}
}

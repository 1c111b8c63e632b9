package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/galleyproject/galley/pkg/compile"
	"github.com/galleyproject/galley/pkg/cookbook"
	"github.com/galleyproject/galley/pkg/runlist"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the run config and cookbook collection",
		Long: `Validate the run configuration without executing any artifacts.

This command checks:
  - Run config syntax and required fields
  - Cookbook metadata for every cookbook in the collection
  - That every run-list recipe resolves to an existing file
  - The resolved cookbook load order`,
		Example: `  # Validate ./run.yaml
  galley validate

  # Validate a specific run config
  galley validate -c node1.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := runlist.LoadConfig(configPath)
			if err != nil {
				return err
			}

			collection, err := cookbook.LoadCollection(cfg.CookbookPath)
			if err != nil {
				return err
			}

			expanded := runlist.NewExpanded(cfg.RunList)
			var failures int
			for _, name := range expanded.Recipes() {
				cbName, shortName := compile.ParseRecipeName(name)
				cb, ok := collection.Lookup(cbName)
				if !ok {
					log.Error().Str("recipe", name).Str("cookbook", cbName).Msg("cookbook not in collection")
					failures++
					continue
				}
				if _, ok := cb.RecipeFiles()[shortName]; !ok {
					log.Error().Str("recipe", name).Msg("recipe file not found")
					failures++
				}
			}
			if failures > 0 {
				return fmt.Errorf("run list validation failed: %d unresolved recipes", failures)
			}

			order := compile.NewOrderResolver(collection).Order(expanded.Recipes())
			fmt.Printf("Run list OK: %d recipes across %d cookbooks\n", len(expanded.Recipes()), len(order))
			fmt.Println("Cookbook load order:")
			for i, name := range order {
				fmt.Printf("  %2d. %s\n", i+1, name)
			}
			return nil
		},
	}

	return cmd
}

// Package cli is the facilities command-line tool: offline searches over the
// permit dataset, Mongo seeding and the API server.
package cli

import (
	"context"
	"log/slog"

	"food-facilities-api-server/config"
	"food-facilities-api-server/internal/app"
	"food-facilities-api-server/internal/logger"
	"food-facilities-api-server/internal/search"

	"github.com/spf13/cobra"
)

// Loader builds the searcher used by the search subcommands.
type Loader func(ctx context.Context, cfg config.Config, logger *slog.Logger) (search.Searcher, error)

type options struct {
	configDir string
	csvPath   string
	jsonOut   bool
}

// NewRootCommand returns the facilities command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(loadSearcher)
}

func newRootCommand(load Loader) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "facilities",
		Short:         "Search San Francisco mobile food facility permits",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configDir, "config", "./config", "directory containing config.yaml")
	root.PersistentFlags().StringVar(&opts.csvPath, "csv", "", "read facilities from this CSV instead of the configured source")

	root.AddCommand(
		newSearchCommand(opts, load),
		newSeedCommand(opts),
		newServeCommand(opts),
	)
	return root
}

// loadConfig reads configuration and points the seed source at --csv when set.
func (o *options) loadConfig() (config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig(o.configDir)
	if err != nil {
		return cfg, nil, err
	}
	if o.csvPath != "" {
		cfg.Seed.Source = o.csvPath
	}
	return cfg, logger.New(cfg.Log), nil
}

func loadSearcher(ctx context.Context, cfg config.Config, logger *slog.Logger) (search.Searcher, error) {
	facilities, err := app.LoadFacilities(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	// One-shot commands gain nothing from the cache.
	return search.NewEngine(facilities, search.WithLogger(logger)), nil
}

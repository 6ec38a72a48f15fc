// Command inspect loads both datasets once and prints the explorer's views
// for one key to the terminal.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/impact-yield-explorer/internal/adapter/csvsource"
	"github.com/couchcryptid/impact-yield-explorer/internal/config"
	"github.com/couchcryptid/impact-yield-explorer/internal/domain"
	"github.com/couchcryptid/impact-yield-explorer/internal/index"
	"github.com/couchcryptid/impact-yield-explorer/internal/observability"
	"github.com/couchcryptid/impact-yield-explorer/internal/pipeline"
	"github.com/couchcryptid/impact-yield-explorer/internal/query"
)

type options struct {
	impacts string
	yields  string
	key     string
	year    int
	verbose bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:          "inspect",
		Short:        "Print yield and impact views for one key",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.key == "" {
				return fmt.Errorf("--key is required (try the keys subcommand)")
			}
			idx, cfg, err := loadIndex(cmd, opts)
			if err != nil {
				return err
			}
			year := cfg.DefaultYear
			if cmd.Flags().Changed("year") {
				year = opts.year
			}
			if err := checkYear(year); err != nil {
				return err
			}
			renderView(cmd.OutOrStdout(), query.BuildView(idx, opts.key, year))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.impacts, "impacts", "", "impact CSV path or URL (default: IMPACT_SOURCE)")
	rootCmd.PersistentFlags().StringVar(&opts.yields, "yields", "", "yield CSV path or URL (default: YIELD_SOURCE)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log ingestion progress to stderr")
	rootCmd.Flags().StringVarP(&opts.key, "key", "k", "", "country or impact category")
	rootCmd.Flags().IntVarP(&opts.year, "year", "y", 0, "last year of the window (default: DEFAULT_YEAR)")

	rootCmd.AddCommand(newKeysCmd(opts))
	rootCmd.AddCommand(newMarkersCmd(opts))

	return rootCmd
}

func newKeysCmd(opts *options) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List selectable keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			idx, _, err := loadIndex(cmd, opts)
			if err != nil {
				return err
			}
			keys := idx.Keys()
			if all {
				keys = idx.AllKeys()
			}
			renderKeys(cmd.OutOrStdout(), keys)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include impact categories with no yield data")
	return cmd
}

func newMarkersCmd(opts *options) *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "markers",
		Short: "List the impacts recorded in one year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			idx, cfg, err := loadIndex(cmd, opts)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("year") {
				year = cfg.DefaultYear
			}
			if err := checkYear(year); err != nil {
				return err
			}
			renderMarkers(cmd.OutOrStdout(), year, query.MapMarkers(idx, year))
			return nil
		},
	}
	cmd.Flags().IntVarP(&year, "year", "y", 0, "impact year (default: DEFAULT_YEAR)")
	return cmd
}

func checkYear(year int) error {
	if !domain.ValidYear(year) {
		return fmt.Errorf("--year %d out of range [%d, %d]", year, domain.MinYear, domain.MaxYear)
	}
	return nil
}

// loadIndex runs one ingestion pass using the service configuration, with
// source flags taking precedence over the environment.
func loadIndex(cmd *cobra.Command, opts *options) (*index.Index, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.impacts != "" {
		cfg.ImpactSource = opts.impacts
	}
	if opts.yields != "" {
		cfg.YieldSource = opts.yields
	}

	logOut := io.Discard
	if opts.verbose {
		logOut = cmd.ErrOrStderr()
	}
	logger := observability.NewLoggerTo(logOut, cfg)

	store := index.NewStore()
	p := pipeline.New(
		csvsource.New(cfg.ImpactSource, cfg.SourceTimeout, logger),
		csvsource.New(cfg.YieldSource, cfg.SourceTimeout, logger),
		store, logger, observability.NewUnregisteredMetrics(),
		pipeline.WithColumns(cfg.ImpactColumns, cfg.YieldColumns),
	)
	if err := p.Ingest(cmd.Context()); err != nil {
		return nil, nil, err
	}
	return store.Current(), cfg, nil
}

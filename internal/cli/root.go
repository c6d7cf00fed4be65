// Package cli wires the search pipeline to a cobra command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/itcaat/olxsearch/internal/config"
	"github.com/itcaat/olxsearch/internal/fetcher"
	"github.com/itcaat/olxsearch/internal/logging"
	"github.com/itcaat/olxsearch/internal/models"
	"github.com/itcaat/olxsearch/internal/search"
)

// Searcher is the part of search.Service the commands use.
type Searcher interface {
	Search(ctx context.Context, req models.SearchRequest) (*models.SearchResult, error)
	SearchRaw(ctx context.Context, req models.SearchRequest) (*models.RawSearchResult, error)
}

var (
	version = "dev"

	configPath string
	logLevel   string
	logFile    string

	cfg       config.Config
	logger    = logging.Discard()
	logCloser io.Closer

	// searchService is built from cfg on first use unless already set.
	searchService Searcher
)

var rootCmd = &cobra.Command{
	Use:   "olxsearch",
	Short: "Search classified ads on olx.com.br",
	Long: `Searches OLX Brazil listings and prints the result as JSON.
Results can be scoped by category and state, filtered strictly against the
query terms, sorted by price and enriched with data from each listing page.`,
	Version:            version,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (YAML or TOML), defaults to $OLXSEARCH_CONFIG")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
}

// Execute runs the command tree.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFile != "" {
		cfg.Logging.File = logFile
	}

	var w io.Writer = cmd.ErrOrStderr()
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		w = f
		logCloser = f
	}
	logger = logging.New(cfg.Logging.Level, w)
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if logCloser == nil {
		return nil
	}
	err := logCloser.Close()
	logCloser = nil
	return err
}

func searcher() Searcher {
	if searchService == nil {
		searchService = search.New(search.Options{
			Fetcher: fetcher.New(fetcher.Options{
				RequestsPerSecond: cfg.HTTP.RequestsPerSecond,
				Logger:            logger.With("component", "fetcher"),
			}),
			BaseURL: cfg.HTTP.BaseURL,
			Logger:  logger.With("component", "search"),
		})
	}
	return searchService
}


package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ziadkadry99/studyhub/internal/catalog"
	"github.com/ziadkadry99/studyhub/internal/config"
	"github.com/ziadkadry99/studyhub/internal/logging"
	"github.com/ziadkadry99/studyhub/internal/progress"
	"github.com/ziadkadry99/studyhub/internal/search"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `studyhub init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w\nRun `studyhub init` to create a config file", err)
	}
	return cfg, nil
}

// newLogger builds the zap logger for cfg, honouring --verbose.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.LogLevel, verbose)
}

// fetchCatalog loads every sheet once, showing progress on the terminal.
func fetchCatalog(ctx context.Context, cfg *config.Config, logger *zap.Logger, reporter progress.Reporter) (*catalog.Tables, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout())
	defer cancel()

	gw := catalog.NewGatewayFromConfig(cfg,
		catalog.WithReporter(reporter),
		catalog.WithLogger(logger))
	return gw.FetchAll(ctx)
}

// buildIndex embeds every resource of t with the configured provider.
func buildIndex(ctx context.Context, cfg *config.Config, t *catalog.Tables, logger *zap.Logger) (*search.Index, error) {
	embedder, err := search.NewEmbedder(cfg.Search)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	index := search.NewIndex(embedder, logger)
	if err := index.Build(ctx, t); err != nil {
		return nil, fmt.Errorf("building search index: %w", err)
	}
	return index, nil
}

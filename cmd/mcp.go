package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/studyhub/internal/catalog"
	mcpserver "github.com/ziadkadry99/studyhub/internal/mcp"
	"github.com/ziadkadry99/studyhub/internal/progress"
	"github.com/ziadkadry99/studyhub/internal/search"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing catalog browsing, resource search and share link tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		// Stdout carries the protocol, so no progress bar.
		tables, err := fetchCatalog(cmd.Context(), cfg, logger, progress.Nop{})
		if err != nil {
			return fmt.Errorf("loading catalog: %w", err)
		}
		repo := catalog.NewRepository()
		repo.Set(tables)

		var index *search.Index
		if cfg.Search.Enabled {
			index, err = buildIndex(cmd.Context(), cfg, tables, logger)
			if err != nil {
				logger.Warn("search disabled", zap.Error(err))
				index = nil
			}
		}

		mcpserver.Version = Version
		fmt.Fprintf(os.Stderr, "studyhub MCP server started on stdio (courses=%d, resources=%d)\n",
			len(tables.Courses), len(tables.Resources))

		return mcpserver.NewServer(repo, index, cfg.PublicBaseURL()).Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

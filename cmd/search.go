package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/studyhub/internal/progress"
	"github.com/ziadkadry99/studyhub/internal/search"
)

var searchQuery search.Query

var searchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Search resources by free text",
	Long:  `Loads the spreadsheet, indexes every resource and prints the closest matches.`,
	Args:  cobra.ExactArgs(1),
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

		tables, err := fetchCatalog(cmd.Context(), cfg, logger, progress.NewReporter())
		if err != nil {
			return err
		}
		index, err := buildIndex(cmd.Context(), cfg, tables, logger)
		if err != nil {
			return err
		}

		q := searchQuery
		q.Text = args[0]
		hits, err := index.Search(cmd.Context(), q)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), search.FormatHits(hits))
		return nil
	},
}

func init() {
	f := searchCmd.Flags()
	f.StringVar(&searchQuery.SubjectID, "subject", "", "only resources of this subject")
	f.StringVar(&searchQuery.Type, "type", "", "only resources of this type")
	f.StringVar(&searchQuery.Language, "language", "", "only resources in this language")
	f.IntVar(&searchQuery.Limit, "limit", 10, "maximum number of results")
	rootCmd.AddCommand(searchCmd)
}

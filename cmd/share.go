package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/studyhub/internal/share"
)

var (
	shareLink  share.Link
	shareBase  string
	shareTitle string
	shareDesc  string
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Build and inspect share links",
}

var shareEncodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Print the share URL for a selection",
	Example: `  studyhub share encode --course 1 --branch 10 --sem 100 --subject 1000
  studyhub share encode --course 1 --subject 1000 --type resource --id 42 --targets`,
	RunE: func(cmd *cobra.Command, args []string) error {
		link := shareLink
		if link.Type == "" {
			link.Type = share.TypePage
		}
		link.Highlight = true
		if !link.HasPath() {
			return fmt.Errorf("at least one of --course, --branch, --sem or --subject is required")
		}

		base := shareBase
		if base == "" {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			base = cfg.PublicBaseURL()
		}

		u := link.URL(base)
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, u)

		if showTargets, _ := cmd.Flags().GetBool("targets"); showTargets {
			for _, t := range share.Targets(u, shareTitle, shareDesc) {
				fmt.Fprintf(out, "%-9s %s\n", t.Name, t.URL)
			}
		}
		return nil
	},
}

var shareDecodeCmd = &cobra.Command{
	Use:   "decode <url>",
	Short: "Print the selection carried by a share URL as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		link, ok := share.Parse(args[0])
		if !ok {
			return fmt.Errorf("%q is not a share link", args[0])
		}
		data, err := json.MarshalIndent(link, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	f := shareEncodeCmd.Flags()
	f.StringVar(&shareLink.Course, "course", "", "course id")
	f.StringVar(&shareLink.Branch, "branch", "", "branch id")
	f.StringVar(&shareLink.Semester, "sem", "", "semester id")
	f.StringVar(&shareLink.Subject, "subject", "", "subject id")
	f.StringVar(&shareLink.Type, "type", share.TypePage, "shared item type")
	f.StringVar(&shareLink.ID, "id", "", "shared item id")
	f.StringVar(&shareBase, "base", "", "base URL (default: base_url from config)")
	f.Bool("targets", false, "also print the social share URLs")
	f.StringVar(&shareTitle, "title", "StudyHub", "title used in share targets")
	f.StringVar(&shareDesc, "description", "Free study resources", "description used in share targets")

	shareCmd.AddCommand(shareEncodeCmd, shareDecodeCmd)
	rootCmd.AddCommand(shareCmd)
}

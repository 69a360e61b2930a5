package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/studyhub/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize studyhub configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to point studyhub at your spreadsheet and generates a .studyhub.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/ziadkadry99/livepad/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize livepad configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the playground and generates a .livepad.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "livepad",
	Short: "Local live-code playground for HTML, CSS and JavaScript",
	Long: `livepad serves a three-editor playground (HTML, CSS, JavaScript) with a
live preview that recomposes as you type. Code and view preferences are
saved locally, can be exported as a zip archive, and can be driven from
files on disk or by AI agents over MCP.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".livepad.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

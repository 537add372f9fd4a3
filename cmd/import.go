package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/livepad/internal/importer"
)

var importPatternFlags map[string]string

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Load the editors from files in a directory",
	Long: `Finds the first file matching each fragment's pattern (by default
**/*.html, **/*.css and **/*.js) and saves its content as that editor's code.
Fragments with no matching file are left unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := openApp(ctx, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := importPatterns(a.cfg, importPatternFlags)
		if err != nil {
			return err
		}
		files, err := importer.Load(ctx, args[0], p, a.session)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Println("No matching files found.")
			return nil
		}
		for _, f := range files {
			fmt.Printf("  %-4s <- %s\n", f.Fragment.Label(), f.RelPath)
		}
		return nil
	},
}

var watchPatternFlags map[string]string

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Serve the playground and apply file changes as edits",
	Long: `Imports a directory, starts the playground server and keeps watching:
every time a matching file is saved its content replaces the editor's code
and the live preview updates.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd, args[0], watchPatternFlags)
	},
}

func init() {
	importCmd.Flags().StringToStringVar(&importPatternFlags, "pattern", nil, "Glob per fragment, e.g. --pattern css=styles/main.css")
	watchCmd.Flags().StringToStringVar(&watchPatternFlags, "pattern", nil, "Glob per fragment, e.g. --pattern css=styles/main.css")
	watchCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on (overrides config)")
	watchCmd.Flags().BoolVar(&serveNoOpen, "no-open", false, "Do not open the browser")
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(watchCmd)
}

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/livepad/internal/progress"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download the code as a zip archive",
	Long:  `Writes index.html, styles.css and script.js (empty ones omitted) into a zip archive.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := openApp(ctx, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		out := exportOutput
		if out == "" {
			out = a.cfg.ExportName
		}

		var buf bytes.Buffer
		names, err := a.session.Export(ctx, &buf, progress.NewReporter(out))
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		fmt.Printf("Wrote %s (%d files)\n", out, len(names))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Archive path (default from config, code.zip)")
	rootCmd.AddCommand(exportCmd)
}

package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/livepad/internal/site"
)

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Print the preview document for the saved code",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(context.Background(), nil)
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Fprint(cmd.OutOrStdout(), a.session.Preview())
		return nil
	},
}

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the preview in a new browser tab",
	Long: `Writes the preview document once to a temporary file and opens it in the
default browser. The tab is not updated by later edits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := openApp(ctx, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		doc, err := a.session.Detach(ctx)
		if err != nil {
			return err
		}
		path, err := site.WriteDetached(doc)
		if err != nil {
			return err
		}
		fmt.Printf("Preview written to %s\n", path)
		return site.OpenBrowser("file://" + path)
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved code with syntax highlighting",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(context.Background(), nil)
		if err != nil {
			return err
		}
		defer a.Close()

		src, prefs := a.session.Snapshot()
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStylePath(string(prefs.Theme)),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			return fmt.Errorf("creating renderer: %w", err)
		}
		out, err := renderer.Render(site.Markdown(src))
		if err != nil {
			return fmt.Errorf("rendering source: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(composeCmd)
	rootCmd.AddCommand(openCmd)
}

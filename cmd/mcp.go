package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/livepad/internal/mcp"
	"github.com/ziadkadry99/livepad/internal/notice"
	"github.com/ziadkadry99/livepad/internal/session"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long: `Starts a Model Context Protocol (MCP) server on stdio, exposing the saved
code and preferences as tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(context.Background(), func(a *app, opts *session.Options) {
			// Stdout carries the protocol.
			opts.Notifier = notice.Discard{}
		})
		if err != nil {
			return err
		}
		defer a.Close()

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "livepad MCP server started on stdio (db=%s)\n", a.db.Path())

		srv := mcpserver.NewServer(a.session)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/livepad/internal/session"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the editing session as tools.
type Server struct {
	session *session.Session
	mcp     *server.MCPServer
}

// NewServer creates a new MCP server backed by a loaded session.
func NewServer(sess *session.Session) *Server {
	s := &Server{session: sess}

	s.mcp = server.NewMCPServer(
		"livepad",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(getSessionTool, s.handleGetSession)
	s.mcp.AddTool(setFragmentTool, s.handleSetFragment)
	s.mcp.AddTool(setPreferenceTool, s.handleSetPreference)
	s.mcp.AddTool(composePreviewTool, s.handleComposePreview)
	s.mcp.AddTool(clearAllTool, s.handleClearAll)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}

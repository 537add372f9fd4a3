package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/livepad/internal/fragment"
)

// sessionResult is the JSON returned by get_session.
type sessionResult struct {
	Fragments   fragment.Sources     `json:"fragments"`
	Preferences fragment.Preferences `json:"preferences"`
}

// handleGetSession returns the fragments and preferences.
func (s *Server) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	src, prefs := s.session.Snapshot()
	data, err := json.MarshalIndent(sessionResult{Fragments: src, Preferences: prefs}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding session: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// handleSetFragment applies an edit to one fragment.
func (s *Server) handleSetFragment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("fragment")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: fragment"), nil
	}
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: text"), nil
	}

	f, err := fragment.Parse(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.session.OnEdit(ctx, f, text); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("edit failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s updated (%d bytes).", f.Label(), len(text))), nil
}

// handleSetPreference changes the theme or layout.
func (s *Server) handleSetPreference(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: name"), nil
	}
	value, err := request.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: value"), nil
	}

	if err := s.session.OnPreferenceChange(ctx, name, value); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s set to %s.", name, value)), nil
}

// handleComposePreview returns the composed preview document.
func (s *Server) handleComposePreview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.session.Preview()), nil
}

// handleClearAll resets the session.
func (s *Server) handleClearAll(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.session.ClearAll(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("clear failed: %v", err)), nil
	}
	return mcp.NewToolResultText("All editors cleared."), nil
}

package mcp

import "github.com/mark3labs/mcp-go/mcp"

// getSessionTool defines the get_session MCP tool.
var getSessionTool = mcp.NewTool("get_session",
	mcp.WithDescription("Get the current HTML, CSS and JavaScript fragments and the view preferences as JSON."),
)

// setFragmentTool defines the set_fragment MCP tool.
var setFragmentTool = mcp.NewTool("set_fragment",
	mcp.WithDescription("Replace the text of one fragment. The change is saved and the live preview is recomposed."),
	mcp.WithString("fragment",
		mcp.Required(),
		mcp.Description("Which editor to replace"),
		mcp.Enum("html", "css", "js"),
	),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("The new source text; an empty string clears the editor"),
	),
)

// setPreferenceTool defines the set_preference MCP tool.
var setPreferenceTool = mcp.NewTool("set_preference",
	mcp.WithDescription("Change a view preference."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("Preference to change"),
		mcp.Enum("theme", "layout"),
	),
	mcp.WithString("value",
		mcp.Required(),
		mcp.Description("light or dark for theme; stacked, preview-left or preview-right for layout"),
	),
)

// composePreviewTool defines the compose_preview MCP tool.
var composePreviewTool = mcp.NewTool("compose_preview",
	mcp.WithDescription("Get the complete HTML document the preview shows for the current fragments."),
)

// clearAllTool defines the clear_all MCP tool.
var clearAllTool = mcp.NewTool("clear_all",
	mcp.WithDescription("Empty all three editors, erase everything saved and restore the default preferences."),
)

package mcp

import "github.com/mark3labs/mcp-go/mcp"

var initToolDef = mcp.NewTool("gvt_init",
	mcp.WithDescription("Initialize version tracking in the working directory. Creates version 0."),
)

var addToolDef = mcp.NewTool("gvt_add",
	mcp.WithDescription("Start tracking a file. Snapshots its current bytes into a new version."),
	mcp.WithString("file", mcp.Required(), mcp.Description("File name in the working directory (no path separators)")),
	mcp.WithString("message", mcp.Description("Version message; replaces the default")),
)

var commitToolDef = mcp.NewTool("gvt_commit",
	mcp.WithDescription("Snapshot the current bytes of a tracked file into a new version."),
	mcp.WithString("file", mcp.Required(), mcp.Description("File name in the working directory (no path separators)")),
	mcp.WithString("message", mcp.Description("Version message; replaces the default")),
)

var detachToolDef = mcp.NewTool("gvt_detach",
	mcp.WithDescription("Stop tracking a file. Creates a new version without it; earlier versions keep their copy."),
	mcp.WithString("file", mcp.Required(), mcp.Description("Tracked file name")),
	mcp.WithString("message", mcp.Description("Version message; replaces the default")),
)

var checkoutToolDef = mcp.NewTool("gvt_checkout",
	mcp.WithDescription("Overwrite working files with their content from a version. The active version does not change."),
	mcp.WithNumber("version", mcp.Required(), mcp.Description("Version number, 0 to active"), mcp.Min(0)),
)

var historyToolDef = mcp.NewTool("gvt_history",
	mcp.WithDescription("List versions from the active one downward, most recent first."),
	mcp.WithNumber("limit", mcp.Description("Number of versions to list"), mcp.Min(1)),
	mcp.WithString("format", mcp.Description("Report format"), mcp.Enum("text", "markdown", "html")),
)

var versionToolDef = mcp.NewTool("gvt_version",
	mcp.WithDescription("Show the active version number and its message."),
)

var statusToolDef = mcp.NewTool("gvt_status",
	mcp.WithDescription("Compare files of the active version with their working copies."),
)

var journalToolDef = mcp.NewTool("gvt_journal",
	mcp.WithDescription("List recent mutating commands from the write-ahead journal."),
	mcp.WithNumber("limit", mcp.Description("Maximum entries (default 20, max 500)")),
)

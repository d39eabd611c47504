package mcp

import (
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/hpungsan/gvt/internal/config"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"gvt_init": {
		def:     initToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleInit },
	},
	"gvt_add": {
		def:     addToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAdd },
	},
	"gvt_commit": {
		def:     commitToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCommit },
	},
	"gvt_detach": {
		def:     detachToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDetach },
	},
	"gvt_checkout": {
		def:     checkoutToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCheckout },
	},
	"gvt_history": {
		def:     historyToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHistory },
	},
	"gvt_version": {
		def:     versionToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleVersion },
	},
	"gvt_status": {
		def:     statusToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStatus },
	},
	"gvt_journal": {
		def:     journalToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleJournal },
	},
}

// AllToolNames returns all valid tool names, sorted.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates an MCP server exposing the gvt commands for workDir.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(workDir string, cfg *config.Config, log zerolog.Logger, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"gvt",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(workDir, cfg, log)

	disabled := make(map[string]bool, len(cfg.DisabledTools))
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			log.Debug().Str("tool", name).Msg("tool disabled")
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run serves the MCP tools over stdio until stdin closes.
func Run(workDir string, cfg *config.Config, log zerolog.Logger, version string) error {
	s := NewServer(workDir, cfg, log, version)
	return server.ServeStdio(s)
}

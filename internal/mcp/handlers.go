package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"

	"github.com/hpungsan/gvt/internal/config"
	"github.com/hpungsan/gvt/internal/errors"
	"github.com/hpungsan/gvt/internal/ops"
	"github.com/hpungsan/gvt/internal/render"
)

// Handlers holds dependencies for MCP tool handlers. Every call opens and
// closes its own workspace, so the repository lock is held per call.
type Handlers struct {
	workDir string
	cfg     *config.Config
	log     zerolog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(workDir string, cfg *config.Config, log zerolog.Logger) *Handlers {
	return &Handlers{workDir: workDir, cfg: cfg, log: log}
}

// FileRequest represents the arguments for add, commit and detach.
type FileRequest struct {
	File    string  `json:"file"`
	Message *string `json:"message,omitempty"`
}

// CheckoutRequest represents the arguments for checkout.
type CheckoutRequest struct {
	Version *int `json:"version"`
}

// HistoryRequest represents the arguments for history.
type HistoryRequest struct {
	Limit  *int   `json:"limit,omitempty"`
	Format string `json:"format,omitempty"`
}

// JournalRequest represents the arguments for journal.
type JournalRequest struct {
	Limit int `json:"limit,omitempty"`
}

// HandleInit handles the gvt_init tool.
func (h *Handlers) HandleInit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Init(ctx, h.workDir, h.cfg, h.log)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleAdd handles the gvt_add tool.
func (h *Handlers) HandleAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FileRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Run(ctx, h.workDir, h.cfg, h.log, func(ws *ops.Workspace) (*ops.MutationOutput, error) {
		return ops.Add(ctx, ws, ops.AddInput{File: input.File, Message: input.Message})
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleCommit handles the gvt_commit tool.
func (h *Handlers) HandleCommit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FileRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Run(ctx, h.workDir, h.cfg, h.log, func(ws *ops.Workspace) (*ops.MutationOutput, error) {
		return ops.Commit(ctx, ws, ops.CommitInput{File: input.File, Message: input.Message})
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleDetach handles the gvt_detach tool.
func (h *Handlers) HandleDetach(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FileRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Run(ctx, h.workDir, h.cfg, h.log, func(ws *ops.Workspace) (*ops.MutationOutput, error) {
		return ops.Detach(ctx, ws, ops.DetachInput{File: input.File, Message: input.Message})
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleCheckout handles the gvt_checkout tool.
func (h *Handlers) HandleCheckout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CheckoutRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Version == nil {
		return errorResult(errors.NewUsage(errors.StatusUsage, "Please specify version to checkout.")), nil
	}

	result, err := ops.Run(ctx, h.workDir, h.cfg, h.log, func(ws *ops.Workspace) (*ops.CheckoutOutput, error) {
		return ops.Checkout(ctx, ws, ops.CheckoutInput{Version: *input.Version})
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleHistory handles the gvt_history tool. The report is rendered in
// the requested format; entries are always included.
func (h *Handlers) HandleHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HistoryRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	format, err := render.ParseFormat(input.Format)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Run(ctx, h.workDir, h.cfg, h.log, func(ws *ops.Workspace) (*ops.HistoryOutput, error) {
		return ops.History(ctx, ws, ops.HistoryInput{Limit: input.Limit})
	})
	if err != nil {
		return errorResult(err), nil
	}

	if result.Report, err = render.History(format, result.Entries); err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleVersion handles the gvt_version tool.
func (h *Handlers) HandleVersion(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Run(ctx, h.workDir, h.cfg, h.log, func(ws *ops.Workspace) (*ops.VersionOutput, error) {
		return ops.Version(ctx, ws)
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleStatus handles the gvt_status tool.
func (h *Handlers) HandleStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Run(ctx, h.workDir, h.cfg, h.log, func(ws *ops.Workspace) (*ops.StatusOutput, error) {
		return ops.Status(ctx, ws)
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleJournal handles the gvt_journal tool.
func (h *Handlers) HandleJournal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[JournalRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Run(ctx, h.workDir, h.cfg, h.log, func(ws *ops.Workspace) (*ops.JournalOutput, error) {
		return ops.Journal(ctx, ws, ops.JournalInput{Limit: input.Limit})
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// errorResult converts an error to an MCP error result.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if gErr, ok := err.(*errors.GvtError); ok {
		errorObj := map[string]any{
			"code":    gErr.Code,
			"message": gErr.Message,
			"status":  gErr.Status,
		}
		// Details of internal errors may carry file paths.
		if gErr.Code != errors.ErrInternal && gErr.Details != nil {
			errorObj["details"] = gErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  errors.StatusInternal,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates a successful MCP result with JSON content.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}

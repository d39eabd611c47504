package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"

	"github.com/hpungsan/gvt/internal/config"
)

// testSetup creates handlers over a fresh working directory.
func testSetup(t *testing.T) (*Handlers, string) {
	t.Helper()
	workDir := t.TempDir()
	return NewHandlers(workDir, config.DefaultConfig(), zerolog.Nop()), workDir
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want mcp.TextContent", result.Content[0])
	}
	return text.Text
}

func decodeResult(t *testing.T, result *mcp.CallToolResult, v any) {
	t.Helper()
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), v); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
}

type errorPayload struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Status  int    `json:"status"`
	} `json:"error"`
}

func decodeError(t *testing.T, result *mcp.CallToolResult) errorPayload {
	t.Helper()
	if !result.IsError {
		t.Fatalf("expected error result, got %s", resultText(t, result))
	}
	var p errorPayload
	if err := json.Unmarshal([]byte(resultText(t, result)), &p); err != nil {
		t.Fatalf("unmarshal error payload: %v", err)
	}
	return p
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) *mcp.CallToolResult {
	t.Helper()
	result, err := handler(context.Background(), makeRequest(args))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return result
}

func TestHandlers_NotInitialized(t *testing.T) {
	h, _ := testSetup(t)

	p := decodeError(t, call(t, h.HandleVersion, nil))
	if p.Error.Code != "NOT_INITIALIZED" || p.Error.Status != 2 {
		t.Errorf("error = %+v, want NOT_INITIALIZED/2", p.Error)
	}
}

func TestHandlers_Workflow(t *testing.T) {
	h, workDir := testSetup(t)

	var initOut struct {
		Version int    `json:"version"`
		Report  string `json:"report"`
	}
	decodeResult(t, call(t, h.HandleInit, nil), &initOut)
	if initOut.Report != "Current directory initialized successfully." {
		t.Errorf("init report = %q", initOut.Report)
	}

	if err := os.WriteFile(filepath.Join(workDir, "foo.txt"), []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	var addOut struct {
		Version int  `json:"version"`
		Created bool `json:"created"`
	}
	decodeResult(t, call(t, h.HandleAdd, map[string]any{"file": "foo.txt", "message": "track foo"}), &addOut)
	if addOut.Version != 1 || !addOut.Created {
		t.Errorf("add = %+v, want created version 1", addOut)
	}

	if err := os.WriteFile(filepath.Join(workDir, "foo.txt"), []byte("world"), 0644); err != nil {
		t.Fatal(err)
	}
	decodeResult(t, call(t, h.HandleCommit, map[string]any{"file": "foo.txt"}), &addOut)
	if addOut.Version != 2 {
		t.Errorf("commit version = %d, want 2", addOut.Version)
	}

	var coOut struct {
		Restored []string `json:"restored"`
	}
	decodeResult(t, call(t, h.HandleCheckout, map[string]any{"version": 1}), &coOut)
	data, _ := os.ReadFile(filepath.Join(workDir, "foo.txt"))
	if string(data) != "hello" {
		t.Errorf("foo.txt after checkout = %q, want %q", data, "hello")
	}

	var histOut struct {
		Active  int `json:"active"`
		Entries []struct {
			Version int    `json:"version"`
			Message string `json:"message"`
		} `json:"entries"`
		Report string `json:"report"`
	}
	decodeResult(t, call(t, h.HandleHistory, map[string]any{"limit": 2, "format": "markdown"}), &histOut)
	if histOut.Active != 2 || len(histOut.Entries) != 2 {
		t.Errorf("history = %+v", histOut)
	}
	if !strings.Contains(histOut.Report, "| 1 | track foo |") {
		t.Errorf("markdown report = %q", histOut.Report)
	}

	decodeResult(t, call(t, h.HandleDetach, map[string]any{"file": "foo.txt"}), &addOut)
	if addOut.Version != 3 {
		t.Errorf("detach version = %d, want 3", addOut.Version)
	}

	var journalOut struct {
		Entries []struct {
			Op string `json:"op"`
		} `json:"entries"`
	}
	decodeResult(t, call(t, h.HandleJournal, map[string]any{"limit": 10}), &journalOut)
	if len(journalOut.Entries) != 3 || journalOut.Entries[0].Op != "detach" {
		t.Errorf("journal = %+v", journalOut)
	}
}

func TestHandleAdd_Errors(t *testing.T) {
	h, _ := testSetup(t)
	call(t, h.HandleInit, nil)

	tests := []struct {
		name   string
		args   map[string]any
		code   string
		status int
	}{
		{"missing file", map[string]any{}, "USAGE", 20},
		{"not found", map[string]any{"file": "nope.txt"}, "FILE_NOT_FOUND", 21},
		{"nested path", map[string]any{"file": "a/b.txt"}, "INVALID_REQUEST", 70},
		{"wrong type", map[string]any{"file": 12}, "INVALID_REQUEST", 70},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := decodeError(t, call(t, h.HandleAdd, tt.args))
			if p.Error.Code != tt.code || p.Error.Status != tt.status {
				t.Errorf("error = %+v, want %s/%d", p.Error, tt.code, tt.status)
			}
		})
	}
}

func TestHandleCheckout_Errors(t *testing.T) {
	h, _ := testSetup(t)
	call(t, h.HandleInit, nil)

	tests := []struct {
		name string
		args map[string]any
		code string
	}{
		{"missing version", map[string]any{}, "USAGE"},
		{"out of range", map[string]any{"version": 5}, "INVALID_VERSION"},
		{"fractional", map[string]any{"version": 1.5}, "INVALID_REQUEST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := decodeError(t, call(t, h.HandleCheckout, tt.args))
			if p.Error.Code != tt.code {
				t.Errorf("code = %s, want %s", p.Error.Code, tt.code)
			}
		})
	}
}

func TestHandleHistory_BadFormat(t *testing.T) {
	h, _ := testSetup(t)
	call(t, h.HandleInit, nil)

	p := decodeError(t, call(t, h.HandleHistory, map[string]any{"format": "yaml"}))
	if p.Error.Code != "INVALID_REQUEST" {
		t.Errorf("code = %s, want INVALID_REQUEST", p.Error.Code)
	}
}

func TestHandleInit_Twice(t *testing.T) {
	h, _ := testSetup(t)
	call(t, h.HandleInit, nil)

	p := decodeError(t, call(t, h.HandleInit, nil))
	if p.Error.Code != "ALREADY_INITIALIZED" || p.Error.Status != 10 {
		t.Errorf("error = %+v", p.Error)
	}
}

func TestErrorResult_NonGvtError(t *testing.T) {
	p := decodeError(t, errorResult(os.ErrPermission))
	if p.Error.Code != "INTERNAL" || p.Error.Message != "an internal error occurred" {
		t.Errorf("error = %+v", p.Error)
	}
}

func TestToolRegistry(t *testing.T) {
	names := AllToolNames()
	if len(names) != 9 {
		t.Fatalf("AllToolNames() = %v, want 9 tools", names)
	}
	for _, name := range names {
		if !strings.HasPrefix(name, "gvt_") {
			t.Errorf("tool %q lacks gvt_ prefix", name)
		}
		if toolRegistry[name].def.Name != name {
			t.Errorf("tool %q definition named %q", name, toolRegistry[name].def.Name)
		}
	}

	unknown := ValidateDisabledTools([]string{"gvt_add", "gvt_push"})
	if len(unknown) != 1 || unknown[0] != "gvt_push" {
		t.Errorf("ValidateDisabledTools() = %v", unknown)
	}
}

func TestNewServer_DisabledTools(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DisabledTools = []string{"gvt_init"}
	if s := NewServer(t.TempDir(), cfg, zerolog.Nop(), "test"); s == nil {
		t.Fatal("NewServer() returned nil")
	}
}

// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the Pebble Sync importer for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/pebblesync/internal/importer"
	"github.com/starford/pebblesync/internal/storage"
)

// Server wraps the MCP server with importer tools.
type Server struct {
	mcp   *server.MCPServer
	imp   *importer.Importer
	store storage.Provider
}

// New creates a new MCP server with all importer tools registered.
func New(imp *importer.Importer, store storage.Provider) *Server {
	s := &Server{imp: imp, store: store}

	s.mcp = server.NewMCPServer(
		"Pebble Sync",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("import_notes",
		mcp.WithDescription("Fetch captured notes from the Pebble service and import them into the vault. "+
			"Set force to re-import records the dedupe ledger already knows."),
		mcp.WithBoolean("force", mcp.Description("Bypass dedupe and existing-file skips")),
	), s.importNotes)

	s.mcp.AddTool(mcp.NewTool("import_status",
		mcp.WithDescription("Report the last import run summary and the current dedupe ledger size."),
	), s.importStatus)

	s.mcp.AddTool(mcp.NewTool("reset_history",
		mcp.WithDescription("Clear the import history so the next run re-imports everything the service returns."),
	), s.resetHistory)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the full content of an imported Markdown note."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the note (e.g. Pebble/note.md)")),
	), s.readNote)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) importNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	force := req.GetBool("force", false)
	sum, err := s.imp.Run(ctx, force)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(sum.String()), nil
}

func (s *Server) importStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := map[string]any{
		"ledger_size": s.imp.LedgerSize(),
	}
	if last := s.imp.LastSummary(); last != nil {
		status["last_run"] = last
	}
	out, _ := json.MarshalIndent(status, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) resetHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.imp.ResetHistory(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("import history cleared"), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.store.Read(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

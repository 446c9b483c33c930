package server

import (
	"context"
	"log/slog"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpsrv "github.com/mark3labs/mcp-go/server"

	"github.com/f-is-h/mcp-easy-copy/internal/desktop"
	"github.com/f-is-h/mcp-easy-copy/internal/format"
)

const (
	ResourceURI  = "mcp-services://list"
	ResourceName = "mcp-services-list"

	// ToolName sorts ahead of ordinary tool names in a lexicographic listing.
	ToolName = "_________available_mcp_services_for_easy_copy_________"
)

// ─── services resource ───────────────────────────────────────────────────────

func (s *Server) resources() []mcpsrv.ServerResource {
	return []mcpsrv.ServerResource{s.resourceServices()}
}

func (s *Server) resourceServices() mcpsrv.ServerResource {
	res := mcplib.NewResource(ResourceURI, ResourceName,
		mcplib.WithResourceDescription("List of MCP services configured in Claude Desktop"),
		mcplib.WithMIMEType("text/plain"),
	)
	return mcpsrv.ServerResource{Resource: res, Handler: s.handleReadServices}
}

// handleReadServices never returns a protocol error: every failure to read
// the desktop config is reported as text.
func (s *Server) handleReadServices(ctx context.Context, req mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	uri := req.Params.URI
	if uri == "" {
		uri = ResourceURI
	}

	snap := s.lister.Inspect()
	var text string
	switch snap.Status {
	case desktop.StatusNotFound:
		text = format.NotFoundMessage
	case desktop.StatusUnreadable:
		s.logger.ErrorContext(ctx, "read_mcp_config_failed", slog.String("path", snap.Path), slog.String("error", snap.Err.Error()))
		text = format.ReadError(snap.Err)
	default:
		text = format.Bulleted(snap.Services)
	}

	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     text,
		},
	}, nil
}

// ─── services tool ───────────────────────────────────────────────────────────

func (s *Server) tools() []mcpsrv.ServerTool {
	return []mcpsrv.ServerTool{s.toolServices()}
}

func (s *Server) toolServices() mcpsrv.ServerTool {
	tool := mcplib.NewTool(ToolName,
		mcplib.WithDescription(s.toolDescription),
		mcplib.WithReadOnlyHintAnnotation(true),
		mcplib.WithIdempotentHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleListServices}
}

// handleListServices re-reads the desktop config on every call.
func (s *Server) handleListServices(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	services := s.lister.ListServices()
	s.logger.DebugContext(ctx, "list_services", slog.Int("count", len(services)))
	return mcplib.NewToolResultText(format.Numbered(services)), nil
}

package server

// In this file: MCP server construction and transport management.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpsrv "github.com/mark3labs/mcp-go/server"

	"github.com/f-is-h/mcp-easy-copy/internal/desktop"
	"github.com/f-is-h/mcp-easy-copy/internal/format"
	"github.com/f-is-h/mcp-easy-copy/internal/logging"
)

const (
	Name    = "mcp-easy-copy"
	Version = "1.0.0"

	notificationResourceUpdated = "notifications/resources/updated"
)

// Lister reads the configured services. desktop.Paths implements it.
type Lister interface {
	Inspect() desktop.Snapshot
	ListServices() []string
}

// Server wraps an MCP server exposing the configured service names.
type Server struct {
	mcp    *mcpsrv.MCPServer
	lister Lister
	logger *slog.Logger

	// toolDescription is computed once in New and never refreshed.
	toolDescription string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. A nil logger keeps the default.
func WithLogger(lg *slog.Logger) Option {
	return func(s *Server) {
		if lg != nil {
			s.logger = lg
		}
	}
}

// New creates the MCP server. The tool description is a snapshot of the
// services present at construction time.
func New(lister Lister, opts ...Option) *Server {
	s := &Server{
		lister: lister,
		logger: logging.ForComponent(logging.CompServer),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.toolDescription = format.Description(lister.ListServices())

	s.mcp = mcpsrv.NewMCPServer(
		Name,
		Version,
		mcpsrv.WithResourceCapabilities(false, true),
		mcpsrv.WithToolCapabilities(false),
		mcpsrv.WithHooks(s.hooks()),
		mcpsrv.WithRecovery(),
	)

	for _, r := range s.resources() {
		s.mcp.AddResource(r.Resource, r.Handler)
	}
	for _, t := range s.tools() {
		s.mcp.AddTool(t.Tool, t.Handler)
	}
	return s
}

// MCP returns the underlying protocol server.
func (s *Server) MCP() *mcpsrv.MCPServer {
	return s.mcp
}

// ToolDescription returns the description advertised for the listing tool.
func (s *Server) ToolDescription() string {
	return s.toolDescription
}

func (s *Server) hooks() *mcpsrv.Hooks {
	hooks := &mcpsrv.Hooks{}
	hooks.AddBeforeAny(func(ctx context.Context, id any, method mcplib.MCPMethod, _ any) {
		s.logger.DebugContext(ctx, "mcp_request", slog.String("method", string(method)), slog.Any("id", id))
	})
	hooks.AddOnError(func(ctx context.Context, id any, method mcplib.MCPMethod, _ any, err error) {
		s.logger.WarnContext(ctx, "mcp_request_failed", slog.String("method", string(method)), slog.Any("id", id), slog.String("error", err.Error()))
	})
	return hooks
}

// ServeStdio runs the MCP server over in/out until ctx is cancelled or the
// client closes the stream. Diagnostics never touch out.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	srv := mcpsrv.NewStdioServer(s.mcp)
	srv.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))

	s.logger.InfoContext(ctx, "mcp server listening on stdio")
	if err := srv.Listen(ctx, in, out); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("mcp stdio server error: %w", err)
	}
	return nil
}

// NotifyServicesChanged tells connected clients that the service list
// resource may have changed.
func (s *Server) NotifyServicesChanged(ctx context.Context) {
	s.logger.InfoContext(ctx, "services_resource_updated", slog.String("uri", ResourceURI))
	s.mcp.SendNotificationToAllClients(notificationResourceUpdated, map[string]any{
		"uri": ResourceURI,
	})
}

package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/agentlens/agentlens/internal/app"
	"github.com/agentlens/agentlens/internal/config"
)

const (
	// ServerName is the MCP server name
	ServerName = "agentlens"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies. Each tool
// call opens the components for its project root and closes them when
// the call finishes.
type Server struct {
	mcp      *server.MCPServer
	settings *config.Settings
	newApp   func(root string) (*app.App, error)
}

// NewServer creates a new MCP server instance.
func NewServer(settings *config.Settings) *Server {
	s := &Server{
		mcp:      server.NewMCPServer(ServerName, ServerVersion),
		settings: settings,
		newApp: func(root string) (*app.App, error) {
			return app.New(root, settings)
		},
	}
	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools.
func (s *Server) registerTools() {
	s.mcp.AddTool(indexCodebaseTool(), s.handleIndexCodebase)
	s.mcp.AddTool(searchCodeTool(), s.handleSearchCode)
	s.mcp.AddTool(indexStatusTool(), s.handleIndexStatus)
}

package mcp

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/Fuabioo/zipdir/internal/config"
)

const (
	serverName    = "zipdir"
	serverVersion = "0.1.0"
)

// Server wraps the MCP server with zipdir-specific state.
type Server struct {
	mcp    *server.MCPServer
	cfg    *config.Config
	logger *zap.Logger
	fs     afero.Fs
}

// NewServer creates and configures the MCP server with all zipdir tools registered.
func NewServer(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		cfg:    cfg,
		logger: logger.Named("mcp"),
		fs:     afero.NewOsFs(),
	}

	s.mcp = server.NewMCPServer(serverName, serverVersion)
	s.registerTools()

	return s, nil
}

func (s *Server) registerTools() {
	// zipdir_archive
	s.mcp.AddTool(mcp.NewTool("zipdir_archive",
		mcp.WithDescription("Packages a directory, or a single file, into a zip archive"),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("Absolute path to the directory or file to archive")),
		mcp.WithString("destination",
			mcp.Description("Path of the zip file to write (default: source + \".zip\")")),
		mcp.WithArray("methods",
			mcp.Description("Compression method candidates in priority order (default: configured list)"),
			mcp.WithStringItems()),
		mcp.WithString("on_unreadable",
			mcp.Description("\"empty\" (default), \"skip\" or \"abort\"")),
	), s.handleArchive)

	// zipdir_methods
	s.mcp.AddTool(mcp.NewTool("zipdir_methods",
		mcp.WithDescription("Lists compression method candidates and their availability"),
	), s.handleMethods)
}

// Serve starts the MCP server on stdio transport and blocks until ctx is
// done or stdin is closed.
func (s *Server) Serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	s.logger.Debug("serving on stdio")
	stdioServer := server.NewStdioServer(s.mcp)
	if err := stdioServer.Listen(ctx, os.Stdin, os.Stdout); err != nil {
		return fmt.Errorf("failed to serve MCP: %w", err)
	}
	return nil
}

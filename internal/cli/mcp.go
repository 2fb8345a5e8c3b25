package cli

import (
	"github.com/spf13/cobra"

	"github.com/Fuabioo/zipdir/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server on stdio",
	Long: `Starts the Model Context Protocol (MCP) server on stdio.

This command is used by MCP clients to ask zipdir to archive a path.
It should not be run directly by users.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, cfgFile, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// stdout carries the protocol; logs stay on stderr.
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logConfigFile(logger, cfgFile)

	srv, err := mcp.NewServer(cfg, logger)
	if err != nil {
		return err
	}
	return srv.Serve(cmd.Context())
}

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/Fuabioo/zipdir/internal/archive"
	"github.com/Fuabioo/zipdir/internal/errors"
)

// handleArchive implements zipdir_archive.
func (s *Server) handleArchive(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := request.RequireString("source")
	if err != nil || source == "" {
		return errorResult("INVALID_PARAMS", "source is required"), nil
	}

	source = archive.TrimTrailingSeparator(source)
	destination := request.GetString("destination", "")
	if destination == "" {
		destination = archive.DefaultDestination(source)
	}

	cfg := *s.cfg
	if names := request.GetStringSlice("methods", nil); names != nil {
		cfg.Methods = names
	}
	if policy := request.GetString("on_unreadable", ""); policy != "" {
		cfg.OnUnreadable = policy
	}

	candidates, err := cfg.Candidates()
	if err != nil {
		return mcpErrorResult(err), nil
	}

	opts, err := cfg.ArchiveOptions(s.fs, s.logger)
	if err != nil {
		return mcpErrorResult(err), nil
	}

	outcome, res, err := archive.New(opts).ArchiveWith(candidates, source, destination)
	switch outcome {
	case archive.OutcomeNoMethod:
		return jsonResult(map[string]interface{}{
			"outcome":     outcome.String(),
			"source":      source,
			"destination": destination,
		}), nil
	case archive.OutcomeFailed:
		s.logger.Debug("archive failed", zap.String("source", source), zap.Error(err))
		return mcpErrorResult(err), nil
	}

	response := map[string]interface{}{
		"outcome":            outcome.String(),
		"source":             res.Source,
		"destination":        res.Destination,
		"mode":               res.Mode,
		"method":             res.Method,
		"files":              res.Files,
		"dirs":               res.Dirs,
		"emptied":            res.Emptied,
		"skipped":            res.Skipped,
		"archive_size_bytes": res.ArchiveSize,
		"archive_size":       humanize.Bytes(uint64(res.ArchiveSize)),
	}

	return jsonResult(response), nil
}

// handleMethods implements zipdir_methods.
func (s *Server) handleMethods(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	candidates, err := s.cfg.Candidates()
	if err != nil {
		return mcpErrorResult(err), nil
	}

	return jsonResult(map[string]interface{}{
		"methods": archive.Describe(candidates),
	}), nil
}

// mcpErrorResult converts a zipdir error to an MCP error result.
func mcpErrorResult(err error) *mcp.CallToolResult {
	code := errors.Code(err)
	if code == "" {
		code = "INTERNAL_ERROR"
	}

	return errorResult(code, err.Error())
}

// errorResult creates an MCP error result.
func errorResult(code, message string) *mcp.CallToolResult {
	errorData := map[string]interface{}{
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
	}

	jsonBytes, err := json.Marshal(errorData)
	if err != nil {
		// Fallback to simple text
		return mcp.NewToolResultText(fmt.Sprintf("Error: %s - %s", code, message))
	}

	result := mcp.NewToolResultText(string(jsonBytes))
	result.IsError = true
	return result
}

// jsonResult creates an MCP success result from a JSON-serializable object.
func jsonResult(data interface{}) *mcp.CallToolResult {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return errorResult("INTERNAL_ERROR", fmt.Sprintf("failed to marshal response: %s", err))
	}

	return mcp.NewToolResultText(string(jsonBytes))
}

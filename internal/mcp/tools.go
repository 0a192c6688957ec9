package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/agentlens/agentlens/internal/app"
	"github.com/agentlens/agentlens/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams      = -32602 // Invalid method parameters
	ErrorCodeInternalError      = -32603 // Internal JSON-RPC error
	ErrorCodeIndexingInProgress = -32002 // Another indexing operation is already running
	ErrorCodeEmptyQuery         = -32004 // Query parameter is empty
)

// handleIndexCodebase handles the index_codebase tool invocation
func (s *Server) handleIndexCodebase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, err := requirePath(args)
	if err != nil {
		return nil, err
	}
	force, _ := args["force"].(bool)
	prune := getBoolDefault(args, "prune", true)

	a, err := s.newApp(path)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to open index", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() { _ = a.Close() }()

	sc, err := a.Scanner()
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid scanner configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}

	result, err := a.Indexer.IndexAll(ctx, sc, force)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "indexing failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	pruned := 0
	if prune {
		pruned, err = a.Indexer.PruneDeleted(ctx, sc)
		if err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "pruning failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	response := map[string]interface{}{
		"indexed":         true,
		"files_processed": result.FilesProcessed,
		"files_skipped":   result.FilesSkipped,
		"chunks_created":  result.ChunksCreated,
		"files_pruned":    pruned,
		"duration_ms":     result.Duration.Milliseconds(),
	}
	if len(result.Errors) > 0 {
		errorCount := len(result.Errors)
		if errorCount > 5 {
			response["errors"] = result.Errors[:5]
		} else {
			response["errors"] = result.Errors
		}
		response["error_count"] = errorCount
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleSearchCode handles the search_code tool invocation
func (s *Server) handleSearchCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, err := requirePath(args)
	if err != nil {
		return nil, err
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", 10)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	mode := getStringDefault(args, "mode", "hybrid")
	if mode != "hybrid" && mode != "vector" {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid mode", map[string]interface{}{
			"param":   "mode",
			"value":   mode,
			"allowed": []string{"hybrid", "vector"},
		})
	}

	a, err := s.newApp(path)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to open index", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() { _ = a.Close() }()

	results, err := searchByMode(ctx, a, mode, query, limit)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	items := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		items = append(items, map[string]interface{}{
			"id":         r.Chunk.ID,
			"file_path":  r.Chunk.FilePath,
			"start_line": r.Chunk.StartLine,
			"end_line":   r.Chunk.EndLine,
			"chunk_type": r.Chunk.ChunkType,
			"score":      r.Score,
			"content":    r.Chunk.Content,
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"query":   query,
		"mode":    mode,
		"count":   len(items),
		"results": items,
	})), nil
}

// handleIndexStatus handles the index_status tool invocation
func (s *Server) handleIndexStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, err := requirePath(args)
	if err != nil {
		return nil, err
	}

	a, err := s.newApp(path)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to open index", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() { _ = a.Close() }()

	if err := a.Store.Load(ctx); err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to load index", map[string]interface{}{
			"error": err.Error(),
		})
	}

	stats, err := a.Store.Stats(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"indexed":          stats.TotalFiles > 0,
		"path":             a.Root,
		"total_files":      stats.TotalFiles,
		"total_chunks":     stats.TotalChunks,
		"index_size_bytes": stats.IndexSizeBytes,
	}
	if stats.LastUpdated != nil {
		response["last_updated"] = stats.LastUpdated.Format("2006-01-02T15:04:05Z07:00")
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// searchByMode routes to the searcher entry point matching the requested mode.
func searchByMode(ctx context.Context, a *app.App, mode, query string, limit int) ([]types.SearchResult, error) {
	if mode == "vector" {
		return a.Searcher.Search(ctx, query, limit)
	}
	return a.Searcher.SearchHybrid(ctx, query, limit)
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// requirePath extracts and validates the path argument.
func requirePath(args map[string]interface{}) (string, error) {
	path, ok := args["path"].(string)
	if !ok || path == "" {
		return "", newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}
	if err := validatePath(path); err != nil {
		return "", newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}
	return path, nil
}

// validatePath checks if a path exists and is a readable directory
func validatePath(path string) error {
	if !filepath.IsAbs(path) {
		return ErrPathNotAbsolute
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ErrPathNotFound
	}
	if err != nil {
		return ErrPathNotReadable
	}
	if !info.IsDir() {
		return ErrNotDirectory
	}

	f, err := os.Open(path)
	if err != nil {
		return ErrPathNotReadable
	}
	_ = f.Close()

	return nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// Validation helpers

var (
	ErrPathNotAbsolute = errors.New("path must be absolute")
	ErrPathNotFound    = errors.New("path does not exist")
	ErrPathNotReadable = errors.New("path is not readable")
	ErrNotDirectory    = errors.New("path is not a directory")
)

package config

import (
	"log/slog"
	"os"
)

// SetupLogging installs the default logger writing to stderr so stdout
// stays clean for machine-readable output and the MCP stdio transport.
func SetupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// Log logs the resolved settings in a granular way, masking nothing
// because none of the values are secrets.
func Log(s *Settings) {
	logger := slog.Default()
	logger.Info("config: embedder", "provider", s.Embedder.Provider, "model", s.Embedder.Model, "endpoint", s.Embedder.Endpoint)
	logger.Info("config: chunking", "max_tokens", s.Chunking.MaxTokens, "overlap_tokens", s.Chunking.OverlapTokens)
	logger.Info("config: search", "hybrid", s.Search.Hybrid, "limit", s.Search.Limit)
	logger.Info("config: store", "backend", s.Store.Backend, "output_dir", s.Store.OutputDir)
}

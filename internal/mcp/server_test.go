package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentlens/agentlens/internal/app"
	"github.com/agentlens/agentlens/internal/chunker"
	"github.com/agentlens/agentlens/internal/config"
	"github.com/agentlens/agentlens/internal/indexer"
	"github.com/agentlens/agentlens/internal/searcher"
	"github.com/agentlens/agentlens/internal/store"
)

// fixedEmbedder avoids a live provider in handler tests.
type fixedEmbedder struct{}

func (fixedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{float32(len(text)), 1}, nil
}

func (e fixedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i, t := range texts {
		vecs[i], _ = e.Embed(ctx, t)
	}
	return vecs, nil
}

func (fixedEmbedder) Dimensions() int { return 2 }

func (fixedEmbedder) HealthCheck(ctx context.Context) error { return nil }

func testSettings() *config.Settings {
	s, err := config.LoadSettings()
	if err != nil {
		panic(err)
	}
	return s
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	settings := testSettings()
	s := NewServer(settings)
	s.newApp = func(root string) (*app.App, error) {
		st := store.NewFileStore(settings.IndexPath(root))
		emb := fixedEmbedder{}
		return &app.App{
			Root:     root,
			Settings: settings,
			Store:    st,
			Embedder: emb,
			Indexer:  indexer.New(st, emb, indexer.Options{Chunker: chunker.Default()}),
			Searcher: searcher.New(st, emb, searcher.Options{HybridEnabled: true}),
		}, nil
	}
	return s
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &payload))
	return payload
}

func TestHandleIndexCodebaseMissingPath(t *testing.T) {
	s := newTestServer(t)
	_, err := s.handleIndexCodebase(context.Background(), callRequest(map[string]interface{}{}))
	require.Error(t, err)

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestHandleIndexCodebaseRelativePath(t *testing.T) {
	s := newTestServer(t)
	_, err := s.handleIndexCodebase(context.Background(), callRequest(map[string]interface{}{
		"path": "relative/path",
	}))
	require.Error(t, err)
}

func TestHandleIndexCodebaseAndStatus(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"),
		[]byte("package main\n\nfunc main() {\n\tprintln(\"hello\")\n}\n"), 0o644))

	s := newTestServer(t)

	result, err := s.handleIndexCodebase(ctx, callRequest(map[string]interface{}{"path": root}))
	require.NoError(t, err)

	payload := resultText(t, result)
	assert.Equal(t, true, payload["indexed"])
	assert.Equal(t, float64(1), payload["files_processed"])
	assert.Positive(t, payload["chunks_created"])

	status, err := s.handleIndexStatus(ctx, callRequest(map[string]interface{}{"path": root}))
	require.NoError(t, err)

	statusPayload := resultText(t, status)
	assert.Equal(t, true, statusPayload["indexed"])
	assert.Equal(t, float64(1), statusPayload["total_files"])
}

func TestHandleSearchCode(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "auth.go"),
		[]byte("package auth\n\nfunc ValidateToken(token string) bool {\n\treturn token != \"\"\n}\n"), 0o644))

	s := newTestServer(t)
	_, err := s.handleIndexCodebase(ctx, callRequest(map[string]interface{}{"path": root}))
	require.NoError(t, err)

	result, err := s.handleSearchCode(ctx, callRequest(map[string]interface{}{
		"path":  root,
		"query": "validate token",
	}))
	require.NoError(t, err)

	payload := resultText(t, result)
	assert.Equal(t, "hybrid", payload["mode"])
	assert.Positive(t, payload["count"])
}

func TestHandleSearchCodeEmptyQuery(t *testing.T) {
	s := newTestServer(t)
	_, err := s.handleSearchCode(context.Background(), callRequest(map[string]interface{}{
		"path":  t.TempDir(),
		"query": "",
	}))
	require.Error(t, err)

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeEmptyQuery, mcpErr.Code)
}

func TestHandleSearchCodeInvalidLimit(t *testing.T) {
	s := newTestServer(t)
	_, err := s.handleSearchCode(context.Background(), callRequest(map[string]interface{}{
		"path":  t.TempDir(),
		"query": "something",
		"limit": float64(500),
	}))
	require.Error(t, err)
}

func TestHandleSearchCodeInvalidMode(t *testing.T) {
	s := newTestServer(t)
	_, err := s.handleSearchCode(context.Background(), callRequest(map[string]interface{}{
		"path":  t.TempDir(),
		"query": "something",
		"mode":  "keyword",
	}))
	require.Error(t, err)
}

package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentlens/agentlens/pkg/types"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "index.json"))
}

func makeChunk(id, path string, vector []float32) types.Chunk {
	return types.Chunk{
		ID:        id,
		FilePath:  path,
		StartLine: 1,
		EndLine:   10,
		Content:   "func main() {}",
		Vector:    vector,
		Hash:      types.HashContent("func main() {}"),
		UpdatedAt: time.Now().UTC(),
		ChunkType: types.ChunkFunction,
	}
}

func TestFileStoreSaveAndSearch(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SaveChunks(ctx, []types.Chunk{
		makeChunk("a.go:foo:1", "a.go", []float32{1, 0, 0}),
		makeChunk("b.go:bar:1", "b.go", []float32{0, 1, 0}),
		makeChunk("c.go:baz:1", "c.go", []float32{0.9, 0.1, 0}),
	}))

	results, err := s.Search(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a.go:foo:1", results[0].Chunk.ID)
	assert.Equal(t, "c.go:baz:1", results[1].Chunk.ID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestFileStoreSearchTieBreakDeterministic(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	// Identical vectors produce identical scores; order must fall back to ID.
	require.NoError(t, s.SaveChunks(ctx, []types.Chunk{
		makeChunk("z.go:last:1", "z.go", []float32{1, 1}),
		makeChunk("a.go:first:1", "a.go", []float32{1, 1}),
		makeChunk("m.go:mid:1", "m.go", []float32{1, 1}),
	}))

	for i := 0; i < 5; i++ {
		results, err := s.Search(ctx, []float32{1, 1}, 3)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "a.go:first:1", results[0].Chunk.ID)
		assert.Equal(t, "m.go:mid:1", results[1].Chunk.ID)
		assert.Equal(t, "z.go:last:1", results[2].Chunk.ID)
	}
}

func TestFileStoreSearchZeroLimit(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.SaveChunks(ctx, []types.Chunk{makeChunk("a.go:foo:1", "a.go", []float32{1})}))

	results, err := s.Search(ctx, []float32{1}, 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFileStoreUpsert(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first := makeChunk("a.go:foo:1", "a.go", []float32{1, 0})
	require.NoError(t, s.SaveChunks(ctx, []types.Chunk{first}))

	updated := first
	updated.Content = "func foo() { return }"
	updated.Vector = []float32{0, 1}
	require.NoError(t, s.SaveChunks(ctx, []types.Chunk{updated}))

	chunks, err := s.GetAllChunks(ctx)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "func foo() { return }", chunks[0].Content)
}

func TestFileStoreDeleteByFile(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SaveChunks(ctx, []types.Chunk{
		makeChunk("a.go:foo:1", "a.go", []float32{1}),
		makeChunk("a.go:bar:20", "a.go", []float32{1}),
		makeChunk("b.go:baz:1", "b.go", []float32{1}),
	}))
	require.NoError(t, s.SaveDocument(ctx, &types.Document{
		Path: "a.go", Hash: "abc", ModTime: time.Now(), ChunkIDs: []string{"a.go:foo:1", "a.go:bar:20"},
	}))

	removed, err := s.DeleteByFile(ctx, "a.go")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = s.GetDocument(ctx, "a.go")
	assert.ErrorIs(t, err, ErrNotFound)

	chunks, err := s.GetAllChunks(ctx)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "b.go:baz:1", chunks[0].ID)
}

func TestFileStoreDeleteMissingFile(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	removed, err := s.DeleteByFile(ctx, "nope.go")
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestFileStorePersistLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.json")

	s := NewFileStore(path)
	chunk := makeChunk("a.go:foo:1", "a.go", []float32{0.5, -0.25})
	require.NoError(t, s.SaveChunks(ctx, []types.Chunk{chunk}))
	require.NoError(t, s.SaveDocument(ctx, &types.Document{
		Path: "a.go", Hash: "abc", ModTime: time.Now().UTC(), ChunkIDs: []string{"a.go:foo:1"},
	}))
	require.NoError(t, s.Persist(ctx))

	restored := NewFileStore(path)
	require.NoError(t, restored.Load(ctx))

	chunks, err := restored.GetAllChunks(ctx)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, chunk.ID, chunks[0].ID)
	assert.Equal(t, chunk.Vector, chunks[0].Vector)
	assert.Equal(t, chunk.Hash, chunks[0].Hash)

	doc, err := restored.GetDocument(ctx, "a.go")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go:foo:1"}, doc.ChunkIDs)
}

func TestFileStoreLoadMissingFile(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(filepath.Join(t.TempDir(), "missing", "index.json"))
	require.NoError(t, s.Load(ctx))

	chunks, err := s.GetAllChunks(ctx)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestFileStoreLoadCorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := NewFileStore(path)
	err := s.Load(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt")
}

func TestFileStoreClear(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.json")

	s := NewFileStore(path)
	require.NoError(t, s.SaveChunks(ctx, []types.Chunk{makeChunk("a.go:foo:1", "a.go", []float32{1})}))
	require.NoError(t, s.Persist(ctx))
	require.FileExists(t, path)

	require.NoError(t, s.Clear(ctx))

	chunks, err := s.GetAllChunks(ctx)
	require.NoError(t, err)
	assert.Empty(t, chunks)
	assert.NoFileExists(t, path)

	// Clearing an already-empty store is fine.
	require.NoError(t, s.Clear(ctx))
}

func TestFileStoreStats(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	older := makeChunk("a.go:foo:1", "a.go", []float32{1})
	older.UpdatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := makeChunk("b.go:bar:1", "b.go", []float32{1})
	newer.UpdatedAt = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveChunks(ctx, []types.Chunk{older, newer}))
	require.NoError(t, s.SaveDocument(ctx, &types.Document{Path: "a.go", Hash: "x", ModTime: time.Now()}))
	require.NoError(t, s.SaveDocument(ctx, &types.Document{Path: "b.go", Hash: "y", ModTime: time.Now()}))
	require.NoError(t, s.Persist(ctx))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalFiles)
	assert.Equal(t, 2, stats.TotalChunks)
	assert.Positive(t, stats.IndexSizeBytes)
	require.NotNil(t, stats.LastUpdated)
	assert.Equal(t, newer.UpdatedAt, *stats.LastUpdated)
}

func TestFileStoreRejectsInvalidChunk(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	bad := makeChunk("", "a.go", []float32{1})
	err := s.SaveChunks(ctx, []types.Chunk{bad})
	require.Error(t, err)
}

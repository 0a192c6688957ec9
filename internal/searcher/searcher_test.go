package searcher

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentlens/agentlens/internal/store"
	"github.com/agentlens/agentlens/pkg/types"
)

// queryEmbedder returns a fixed vector for any input.
type queryEmbedder struct {
	vector []float32
}

func (q *queryEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return q.vector, nil
}

func (q *queryEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i := range texts {
		vecs[i] = q.vector
	}
	return vecs, nil
}

func (q *queryEmbedder) Dimensions() int { return len(q.vector) }

func (q *queryEmbedder) HealthCheck(ctx context.Context) error { return nil }

func storeWithChunks(t *testing.T, chunks ...types.Chunk) *store.FileStore {
	t.Helper()
	st := store.NewFileStore(filepath.Join(t.TempDir(), "index.json"))
	require.NoError(t, st.SaveChunks(context.Background(), chunks))
	return st
}

func chunkOf(id, content string, vector []float32) types.Chunk {
	return types.Chunk{
		ID:        id,
		FilePath:  "src.go",
		StartLine: 1,
		EndLine:   5,
		Content:   content,
		Vector:    vector,
		Hash:      types.HashContent(content),
		UpdatedAt: time.Now().UTC(),
		ChunkType: types.ChunkFunction,
	}
}

func resultIDs(results []types.SearchResult) []string {
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.Chunk.ID
	}
	return ids
}

func TestSearchRanksByCosine(t *testing.T) {
	ctx := context.Background()
	st := storeWithChunks(t,
		chunkOf("a", "alpha", []float32{1, 0}),
		chunkOf("b", "beta", []float32{0, 1}),
		chunkOf("c", "gamma", []float32{0.8, 0.2}),
	)
	s := New(st, &queryEmbedder{vector: []float32{1, 0}}, Options{})

	results, err := s.Search(ctx, "anything", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, resultIDs(results))
}

func TestSearchHybridDisabledTruncates(t *testing.T) {
	ctx := context.Background()
	st := storeWithChunks(t,
		chunkOf("a", "alpha", []float32{1, 0}),
		chunkOf("b", "beta", []float32{0.9, 0.1}),
		chunkOf("c", "gamma", []float32{0, 1}),
	)
	s := New(st, &queryEmbedder{vector: []float32{1, 0}}, Options{HybridEnabled: false})

	results, err := s.SearchHybrid(ctx, "anything", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, resultIDs(results))
}

func TestSearchHybridFusesLexicalMatches(t *testing.T) {
	ctx := context.Background()
	// Chunk "lex" is a poor vector match but a strong lexical match; fusion
	// must surface it above the pure-vector ranking.
	st := storeWithChunks(t,
		chunkOf("vec1", "completely unrelated content", []float32{1, 0}),
		chunkOf("vec2", "also unrelated content", []float32{0.95, 0.05}),
		chunkOf("lex", "handles user authentication tokens", []float32{0, 1}),
	)
	s := New(st, &queryEmbedder{vector: []float32{1, 0}}, Options{HybridEnabled: true})

	results, err := s.SearchHybrid(ctx, "user authentication", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Contains(t, resultIDs(results), "lex")
	// The lexical-only match must beat the weakest vector result.
	assert.NotEqual(t, "lex", results[2].Chunk.ID)
}

func TestSmartSearchDispatch(t *testing.T) {
	ctx := context.Background()
	st := storeWithChunks(t, chunkOf("a", "alpha content", []float32{1, 0}))

	hybrid := New(st, &queryEmbedder{vector: []float32{1, 0}}, Options{HybridEnabled: true})
	plain := New(st, &queryEmbedder{vector: []float32{1, 0}}, Options{HybridEnabled: false})

	hr, err := hybrid.SmartSearch(ctx, "alpha", 5)
	require.NoError(t, err)
	pr, err := plain.SmartSearch(ctx, "alpha", 5)
	require.NoError(t, err)

	require.Len(t, hr, 1)
	require.Len(t, pr, 1)
	assert.Equal(t, hr[0].Chunk.ID, pr[0].Chunk.ID)
}

func TestTextSearchScoring(t *testing.T) {
	chunks := []types.Chunk{
		chunkOf("both", "validates user authentication flow", nil),
		chunkOf("one", "authentication middleware", nil),
		chunkOf("none", "database connection pool", nil),
	}

	results := TextSearch(chunks, "user authentication", 10)
	require.Len(t, results, 2)

	// "both" matches both tokens and the verbatim phrase: 1.0 + 0.5.
	assert.Equal(t, "both", results[0].Chunk.ID)
	assert.InDelta(t, 1.5, float64(results[0].Score), 1e-6)

	// "one" matches a single token of two.
	assert.Equal(t, "one", results[1].Chunk.ID)
	assert.InDelta(t, 0.5, float64(results[1].Score), 1e-6)
}

func TestTextSearchCaseInsensitive(t *testing.T) {
	chunks := []types.Chunk{chunkOf("a", "Handles HTTP Requests", nil)}
	results := TextSearch(chunks, "http requests", 10)
	require.Len(t, results, 1)
	assert.InDelta(t, 1.5, float64(results[0].Score), 1e-6)
}

func TestTextSearchShortTokensDiscarded(t *testing.T) {
	chunks := []types.Chunk{chunkOf("a", "a b c content", nil)}
	assert.Empty(t, TextSearch(chunks, "a b c", 10))
	assert.Empty(t, TextSearch(chunks, "   ", 10))
}

func TestReciprocalRankFusion(t *testing.T) {
	a := chunkOf("a", "alpha", nil)
	b := chunkOf("b", "beta", nil)
	c := chunkOf("c", "gamma", nil)

	listA := []types.SearchResult{
		types.NewSearchResult(a, 0.9),
		types.NewSearchResult(b, 0.8),
	}
	listB := []types.SearchResult{
		types.NewSearchResult(b, 0.7),
		types.NewSearchResult(c, 0.6),
	}

	fused := ReciprocalRankFusion(DefaultRRFK, 3, listA, listB)
	require.Len(t, fused, 3)

	// b appears in both lists, so it must rank first.
	assert.Equal(t, "b", fused[0].Chunk.ID)
	// a leads its list, c trails its list.
	assert.Equal(t, "a", fused[1].Chunk.ID)
	assert.Equal(t, "c", fused[2].Chunk.ID)

	expectedB := 1.0/(60.0+1+1) + 1.0/(60.0+0+1)
	assert.InDelta(t, expectedB, float64(fused[0].Score), 1e-6)
}

func TestReciprocalRankFusionTruncates(t *testing.T) {
	var list []types.SearchResult
	for _, id := range []string{"a", "b", "c", "d"} {
		list = append(list, types.NewSearchResult(chunkOf(id, id, nil), 1))
	}
	fused := ReciprocalRankFusion(DefaultRRFK, 2, list)
	assert.Len(t, fused, 2)
}

func TestReciprocalRankFusionKeepsFirstOccurrence(t *testing.T) {
	first := chunkOf("x", "first copy", nil)
	second := chunkOf("x", "second copy", nil)

	fused := ReciprocalRankFusion(DefaultRRFK, 1,
		[]types.SearchResult{types.NewSearchResult(first, 0.9)},
		[]types.SearchResult{types.NewSearchResult(second, 0.8)},
	)
	require.Len(t, fused, 1)
	assert.Equal(t, "first copy", fused[0].Chunk.Content)
}

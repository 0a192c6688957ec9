package searcher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agentlens/agentlens/internal/embedder"
	"github.com/agentlens/agentlens/internal/store"
	"github.com/agentlens/agentlens/pkg/types"
)

// Searcher runs queries against a store using an embedding provider for
// the query vector.
type Searcher struct {
	store         store.Store
	embedder      embedder.Embedder
	hybridEnabled bool
	hybridK       float32
}

// Options configures a Searcher.
type Options struct {
	// HybridEnabled turns on lexical fusion in SearchHybrid and routes
	// SmartSearch to hybrid mode.
	HybridEnabled bool
	// HybridK is the RRF constant. Zero means DefaultRRFK.
	HybridK float32
}

// New creates a Searcher.
func New(st store.Store, emb embedder.Embedder, opts Options) *Searcher {
	k := opts.HybridK
	if k <= 0 {
		k = DefaultRRFK
	}
	return &Searcher{
		store:         st,
		embedder:      emb,
		hybridEnabled: opts.HybridEnabled,
		hybridK:       k,
	}
}

// Search ranks chunks by vector similarity only.
func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]types.SearchResult, error) {
	if err := s.store.Load(ctx); err != nil {
		return nil, err
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	return s.store.Search(ctx, vector, limit)
}

// SearchHybrid blends vector and lexical rankings. With hybrid fusion
// disabled it degrades to truncated vector search.
func (s *Searcher) SearchHybrid(ctx context.Context, query string, limit int) ([]types.SearchResult, error) {
	if err := s.store.Load(ctx); err != nil {
		return nil, err
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	// Over-fetch so fusion has candidates beyond the final cut.
	vectorResults, err := s.store.Search(ctx, vector, limit*2)
	if err != nil {
		return nil, err
	}

	if !s.hybridEnabled {
		if len(vectorResults) > limit {
			vectorResults = vectorResults[:limit]
		}
		return vectorResults, nil
	}

	chunks, err := s.store.GetAllChunks(ctx)
	if err != nil {
		return nil, err
	}
	textResults := TextSearch(chunks, query, limit*2)

	slog.Debug("hybrid search",
		"query", query,
		"vector_candidates", len(vectorResults),
		"text_candidates", len(textResults))

	return ReciprocalRankFusion(s.hybridK, limit, vectorResults, textResults), nil
}

// SmartSearch dispatches to hybrid or pure vector search based on the
// configured mode.
func (s *Searcher) SmartSearch(ctx context.Context, query string, limit int) ([]types.SearchResult, error) {
	if s.hybridEnabled {
		return s.SearchHybrid(ctx, query, limit)
	}
	return s.Search(ctx, query, limit)
}

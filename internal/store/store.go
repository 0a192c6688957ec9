package store

import (
	"context"
	"errors"
	"math"

	"github.com/agentlens/agentlens/pkg/types"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
)

// Store is the persistence contract for chunks and document records.
// Implementations must be safe for concurrent use.
type Store interface {
	// SaveChunks upserts chunks by ID.
	SaveChunks(ctx context.Context, chunks []types.Chunk) error
	// DeleteByFile removes all chunks for a file path and its document
	// record in a single operation, returning the number of chunks removed.
	DeleteByFile(ctx context.Context, path string) (int, error)
	// Search returns the top limit chunks by cosine similarity to the
	// query vector, descending. Ties break by ascending chunk ID so
	// repeated calls over the same data return the same order.
	Search(ctx context.Context, vector []float32, limit int) ([]types.SearchResult, error)
	// GetAllChunks returns every stored chunk.
	GetAllChunks(ctx context.Context) ([]types.Chunk, error)

	// GetDocument returns the document record for a path, or ErrNotFound.
	GetDocument(ctx context.Context, path string) (*types.Document, error)
	// SaveDocument upserts a document record.
	SaveDocument(ctx context.Context, doc *types.Document) error
	// ListDocuments returns every document record.
	ListDocuments(ctx context.Context) ([]types.Document, error)

	// Persist writes the current state durably. Backends that write
	// through on every mutation may treat this as a no-op.
	Persist(ctx context.Context) error
	// Load restores state from durable storage. A missing file is not an
	// error; corrupt data is.
	Load(ctx context.Context) error

	// Stats reports index-wide counters.
	Stats(ctx context.Context) (*types.IndexStats, error)
	// Clear removes all chunks, documents, and durable state.
	Clear(ctx context.Context) error

	Close() error
}

// CosineSimilarity computes the cosine similarity between two vectors.
// Mismatched lengths, empty vectors, or a zero magnitude yield 0.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}
	return float32(dot / denom)
}

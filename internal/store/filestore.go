package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/agentlens/agentlens/pkg/types"
)

// snapshot is the on-disk representation of the index.
type snapshot struct {
	Chunks    map[string]types.Chunk    `json:"chunks"`
	Documents map[string]types.Document `json:"documents"`
}

// FileStore keeps the whole index in memory and persists it as a single
// JSON snapshot. Persist writes to a temp file and renames it into place
// so readers never observe a partial index.
type FileStore struct {
	mu        sync.RWMutex
	path      string
	chunks    map[string]types.Chunk
	documents map[string]types.Document
}

// NewFileStore creates a file store backed by the snapshot at path.
// Call Load to restore any existing state.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path:      path,
		chunks:    make(map[string]types.Chunk),
		documents: make(map[string]types.Document),
	}
}

// Path returns the snapshot file location.
func (s *FileStore) Path() string {
	return s.path
}

// SaveChunks upserts chunks by ID.
func (s *FileStore) SaveChunks(ctx context.Context, chunks []types.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range chunks {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("invalid chunk %s: %w", c.ID, err)
		}
		s.chunks[c.ID] = c
	}
	return nil
}

// DeleteByFile removes all chunks for a path along with its document record.
func (s *FileStore) DeleteByFile(ctx context.Context, path string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, c := range s.chunks {
		if c.FilePath == path {
			delete(s.chunks, id)
			removed++
		}
	}
	delete(s.documents, path)
	return removed, nil
}

// Search scores every chunk against the query vector and returns the top
// limit results, descending by similarity with ties broken by chunk ID.
func (s *FileStore) Search(ctx context.Context, vector []float32, limit int) ([]types.SearchResult, error) {
	if limit <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]types.SearchResult, 0, len(s.chunks))
	for _, c := range s.chunks {
		score := CosineSimilarity(vector, c.Vector)
		results = append(results, types.NewSearchResult(c, score))
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chunk.ID < results[j].Chunk.ID
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// GetAllChunks returns every stored chunk.
func (s *FileStore) GetAllChunks(ctx context.Context) ([]types.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chunks := make([]types.Chunk, 0, len(s.chunks))
	for _, c := range s.chunks {
		chunks = append(chunks, c)
	}
	return chunks, nil
}

// GetDocument returns the document record for a path.
func (s *FileStore) GetDocument(ctx context.Context, path string) (*types.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[path]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", path, ErrNotFound)
	}
	return &doc, nil
}

// SaveDocument upserts a document record.
func (s *FileStore) SaveDocument(ctx context.Context, doc *types.Document) error {
	if doc == nil || doc.Path == "" {
		return errors.New("document path is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.Path] = *doc
	return nil
}

// ListDocuments returns every document record.
func (s *FileStore) ListDocuments(ctx context.Context) ([]types.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]types.Document, 0, len(s.documents))
	for _, d := range s.documents {
		docs = append(docs, d)
	}
	return docs, nil
}

// Persist writes the snapshot atomically via a temp file and rename.
func (s *FileStore) Persist(ctx context.Context) error {
	s.mu.RLock()
	snap := snapshot{Chunks: s.chunks, Documents: s.documents}
	data, err := json.MarshalIndent(snap, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".index-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace index: %w", err)
	}
	return nil
}

// Load restores the snapshot from disk. A missing file leaves the store
// empty; a corrupt file is an error.
func (s *FileStore) Load(ctx context.Context) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read index: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("index file %s is corrupt: %w", s.path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.chunks = snap.Chunks
	if s.chunks == nil {
		s.chunks = make(map[string]types.Chunk)
	}
	s.documents = snap.Documents
	if s.documents == nil {
		s.documents = make(map[string]types.Document)
	}
	return nil
}

// Stats reports counters for the current state plus the on-disk size.
func (s *FileStore) Stats(ctx context.Context) (*types.IndexStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &types.IndexStats{
		TotalFiles:  len(s.documents),
		TotalChunks: len(s.chunks),
	}

	if info, err := os.Stat(s.path); err == nil {
		stats.IndexSizeBytes = info.Size()
	}

	var last time.Time
	for _, c := range s.chunks {
		if c.UpdatedAt.After(last) {
			last = c.UpdatedAt
		}
	}
	if !last.IsZero() {
		stats.LastUpdated = &last
	}
	return stats, nil
}

// Clear drops all in-memory state and removes the snapshot file.
func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chunks = make(map[string]types.Chunk)
	s.documents = make(map[string]types.Document)

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove index file: %w", err)
	}
	return nil
}

// Close releases no resources for the file store.
func (s *FileStore) Close() error {
	return nil
}

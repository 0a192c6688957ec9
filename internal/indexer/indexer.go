package indexer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agentlens/agentlens/internal/analyzer"
	"github.com/agentlens/agentlens/internal/chunker"
	"github.com/agentlens/agentlens/internal/embedder"
	"github.com/agentlens/agentlens/internal/scanner"
	"github.com/agentlens/agentlens/internal/store"
	"github.com/agentlens/agentlens/pkg/types"
)

// EmbedBatchSize is the number of chunk texts sent to the embedding
// provider per request.
const EmbedBatchSize = 32

// ErrIndexInProgress is returned when a batch index is started while
// another one is still running on the same Indexer.
var ErrIndexInProgress = errors.New("an index operation is already in progress")

// Indexer coordinates the indexing pipeline: scan -> analyze -> chunk ->
// embed -> store.
type Indexer struct {
	store    store.Store
	embedder embedder.Embedder
	chunker  *chunker.Chunker
	analyzer *analyzer.Analyzer
	workers  int
	lock     indexLock
}

// Options configures an Indexer.
type Options struct {
	// Workers bounds concurrent file indexing. Zero means runtime.NumCPU().
	Workers int
	// Chunker overrides the default chunker when set.
	Chunker *chunker.Chunker
}

// Result summarizes one batch index run. Errors holds one "path: cause"
// message per failed file; a failed file never aborts the batch.
type Result struct {
	FilesProcessed int           `json:"files_processed"`
	FilesSkipped   int           `json:"files_skipped"`
	ChunksCreated  int           `json:"chunks_created"`
	Duration       time.Duration `json:"duration"`
	Errors         []string      `json:"errors,omitempty"`
}

// New creates an Indexer over the given store and embedder.
func New(st store.Store, emb embedder.Embedder, opts Options) *Indexer {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	ch := opts.Chunker
	if ch == nil {
		ch = chunker.Default()
	}
	return &Indexer{
		store:    st,
		embedder: emb,
		chunker:  ch,
		analyzer: analyzer.New(),
		workers:  workers,
	}
}

// IndexAll indexes every file the scanner returns, persisting the store
// once at the end. Only one batch may run per Indexer at a time.
func (idx *Indexer) IndexAll(ctx context.Context, sc *scanner.Scanner, force bool) (*Result, error) {
	if !idx.lock.TryAcquire() {
		return nil, ErrIndexInProgress
	}
	defer idx.lock.Release()

	start := time.Now()

	files, err := sc.Scan()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate files: %w", err)
	}

	if err := idx.store.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load index: %w", err)
	}

	slog.Info("indexing started", "root", sc.Root(), "files", len(files), "force", force)

	result := &Result{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(idx.workers)

	for _, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			created, skipped, err := idx.IndexFile(gctx, file, force)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", file.RelativePath, err))
			case skipped:
				result.FilesSkipped++
			default:
				result.FilesProcessed++
				result.ChunksCreated += created
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := idx.store.Persist(ctx); err != nil {
		return nil, fmt.Errorf("failed to persist index: %w", err)
	}

	result.Duration = time.Since(start)
	slog.Info("indexing finished",
		"processed", result.FilesProcessed,
		"skipped", result.FilesSkipped,
		"chunks", result.ChunksCreated,
		"errors", len(result.Errors),
		"duration", result.Duration)
	return result, nil
}

// IndexFile indexes a single file. It returns the number of chunks
// created and whether the file was skipped as unchanged. The caller is
// responsible for persisting the store.
func (idx *Indexer) IndexFile(ctx context.Context, file types.FileEntry, force bool) (created int, skipped bool, err error) {
	content, err := os.ReadFile(file.Path)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read file: %w", err)
	}
	text := string(content)
	hash := types.HashContent(text)

	if !force {
		doc, err := idx.store.GetDocument(ctx, file.RelativePath)
		if err == nil && doc.Hash == hash {
			return 0, true, nil
		}
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return 0, false, err
		}
	}

	// Drop any stale fragments before re-indexing so the file's chunk set
	// always matches exactly one content version.
	if _, err := idx.store.DeleteByFile(ctx, file.RelativePath); err != nil {
		return 0, false, fmt.Errorf("failed to delete stale chunks: %w", err)
	}

	var symbols []types.Symbol
	if idx.analyzer.Supports(file.Path) {
		symbols = idx.analyzer.ParseSymbols(file.Path, text)
	}
	chunks := idx.chunker.ChunkBySymbols(file, text, symbols)
	if len(chunks) == 0 {
		// Some files legitimately produce no chunks; record the document
		// so the file is still skipped next run.
		return 0, false, idx.store.SaveDocument(ctx, &types.Document{
			Path:    file.RelativePath,
			Hash:    hash,
			ModTime: time.Now().UTC(),
		})
	}

	if err := idx.embedChunks(ctx, chunks); err != nil {
		return 0, false, err
	}

	if err := idx.store.SaveChunks(ctx, chunks); err != nil {
		return 0, false, err
	}

	chunkIDs := make([]string, len(chunks))
	for i, c := range chunks {
		chunkIDs[i] = c.ID
	}
	doc := &types.Document{
		Path:     file.RelativePath,
		Hash:     hash,
		ModTime:  time.Now().UTC(),
		ChunkIDs: chunkIDs,
	}
	if err := idx.store.SaveDocument(ctx, doc); err != nil {
		return 0, false, err
	}
	return len(chunks), false, nil
}

// embedChunks fills in chunk vectors and update timestamps in fixed-size
// batches, preserving the chunk-to-vector positional correspondence within
// each batch.
func (idx *Indexer) embedChunks(ctx context.Context, chunks []types.Chunk) error {
	for start := 0; start < len(chunks); start += EmbedBatchSize {
		end := start + EmbedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}

		vectors, err := idx.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("failed to embed chunks: %w", err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("embedding batch returned %d vectors for %d inputs", len(vectors), len(batch))
		}
		now := time.Now().UTC()
		for i := range batch {
			batch[i].Vector = vectors[i]
			batch[i].UpdatedAt = now
		}
	}
	return nil
}

// PruneDeleted removes documents whose files no longer exist under the
// scanner's root, returning the number pruned. The store is persisted
// only when something was pruned.
func (idx *Indexer) PruneDeleted(ctx context.Context, sc *scanner.Scanner) (int, error) {
	files, err := sc.Scan()
	if err != nil {
		return 0, fmt.Errorf("failed to enumerate files: %w", err)
	}

	existing := make(map[string]struct{}, len(files))
	for _, f := range files {
		existing[f.RelativePath] = struct{}{}
	}

	docs, err := idx.store.ListDocuments(ctx)
	if err != nil {
		return 0, err
	}

	// Deterministic prune order keeps logs stable.
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })

	pruned := 0
	for _, doc := range docs {
		if _, ok := existing[doc.Path]; ok {
			continue
		}
		if _, err := idx.store.DeleteByFile(ctx, doc.Path); err != nil {
			return pruned, fmt.Errorf("failed to prune %s: %w", doc.Path, err)
		}
		slog.Debug("pruned deleted file", "path", doc.Path)
		pruned++
	}

	if pruned > 0 {
		if err := idx.store.Persist(ctx); err != nil {
			return pruned, fmt.Errorf("failed to persist index: %w", err)
		}
	}
	return pruned, nil
}

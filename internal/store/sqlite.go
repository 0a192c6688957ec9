package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/agentlens/agentlens/pkg/types"
)

// SQLiteStore implements Store on a SQLite database. Mutations write
// through immediately, so Persist and Load are no-ops.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite benefits from single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	path       TEXT PRIMARY KEY,
	hash       TEXT NOT NULL,
	mod_time   TIMESTAMP NOT NULL,
	chunk_ids  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS chunks (
	id         TEXT PRIMARY KEY,
	file_path  TEXT NOT NULL,
	start_line INTEGER NOT NULL,
	end_line   INTEGER NOT NULL,
	content    TEXT NOT NULL,
	vector     BLOB,
	hash       TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	chunk_type TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chunks_file_path ON chunks(file_path);
`

// NewSQLiteStore opens (and if necessary creates) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db, path: dbPath}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// encodeVector packs an embedding as little-endian float32 bytes.
func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// decodeVector unpacks a blob written by encodeVector.
func decodeVector(buf []byte) []float32 {
	if len(buf)%4 != 0 {
		return nil
	}
	v := make([]float32, len(buf)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return v
}

// SaveChunks upserts chunks by ID within a single transaction.
func (s *SQLiteStore) SaveChunks(ctx context.Context, chunks []types.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, file_path, start_line, end_line, content, vector, hash, updated_at, chunk_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			file_path = excluded.file_path,
			start_line = excluded.start_line,
			end_line = excluded.end_line,
			content = excluded.content,
			vector = excluded.vector,
			hash = excluded.hash,
			updated_at = excluded.updated_at,
			chunk_type = excluded.chunk_type
	`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, c := range chunks {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("invalid chunk %s: %w", c.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, c.ID, c.FilePath, c.StartLine, c.EndLine,
			c.Content, encodeVector(c.Vector), c.Hash, c.UpdatedAt, string(c.ChunkType)); err != nil {
			return fmt.Errorf("failed to save chunk %s: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

// DeleteByFile removes a file's chunks and document record in one transaction.
func (s *SQLiteStore) DeleteByFile(ctx context.Context, path string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE file_path = ?`, path)
	if err != nil {
		return 0, fmt.Errorf("failed to delete chunks for %s: %w", path, err)
	}
	removed, _ := res.RowsAffected()

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE path = ?`, path); err != nil {
		return 0, fmt.Errorf("failed to delete document %s: %w", path, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int(removed), nil
}

// Search scans all chunks and scores them in Go. The dataset is local and
// modest, so a full scan with exact cosine keeps results reproducible.
func (s *SQLiteStore) Search(ctx context.Context, vector []float32, limit int) ([]types.SearchResult, error) {
	if limit <= 0 {
		return nil, nil
	}

	chunks, err := s.GetAllChunks(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]types.SearchResult, 0, len(chunks))
	for _, c := range chunks {
		results = append(results, types.NewSearchResult(c, CosineSimilarity(vector, c.Vector)))
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
func (s *SQLiteStore) GetAllChunks(ctx context.Context) ([]types.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, file_path, start_line, end_line, content, vector, hash, updated_at, chunk_type
		FROM chunks
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var chunks []types.Chunk
	for rows.Next() {
		var c types.Chunk
		var vec []byte
		var chunkType string
		if err := rows.Scan(&c.ID, &c.FilePath, &c.StartLine, &c.EndLine,
			&c.Content, &vec, &c.Hash, &c.UpdatedAt, &chunkType); err != nil {
			return nil, err
		}
		c.Vector = decodeVector(vec)
		c.ChunkType = types.ChunkType(chunkType)
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

// GetDocument returns the document record for a path.
func (s *SQLiteStore) GetDocument(ctx context.Context, path string) (*types.Document, error) {
	var doc types.Document
	var chunkIDs string
	err := s.db.QueryRowContext(ctx, `
		SELECT path, hash, mod_time, chunk_ids FROM documents WHERE path = ?
	`, path).Scan(&doc.Path, &doc.Hash, &doc.ModTime, &chunkIDs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document %s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(chunkIDs), &doc.ChunkIDs); err != nil {
		return nil, fmt.Errorf("document %s has corrupt chunk IDs: %w", path, err)
	}
	return &doc, nil
}

// SaveDocument upserts a document record.
func (s *SQLiteStore) SaveDocument(ctx context.Context, doc *types.Document) error {
	if doc == nil || doc.Path == "" {
		return errors.New("document path is required")
	}

	chunkIDs, err := json.Marshal(doc.ChunkIDs)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (path, hash, mod_time, chunk_ids)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			hash = excluded.hash,
			mod_time = excluded.mod_time,
			chunk_ids = excluded.chunk_ids
	`, doc.Path, doc.Hash, doc.ModTime, string(chunkIDs))
	if err != nil {
		return fmt.Errorf("failed to save document %s: %w", doc.Path, err)
	}
	return nil
}

// ListDocuments returns every document record.
func (s *SQLiteStore) ListDocuments(ctx context.Context) ([]types.Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path, hash, mod_time, chunk_ids FROM documents`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var docs []types.Document
	for rows.Next() {
		var doc types.Document
		var chunkIDs string
		if err := rows.Scan(&doc.Path, &doc.Hash, &doc.ModTime, &chunkIDs); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(chunkIDs), &doc.ChunkIDs); err != nil {
			return nil, fmt.Errorf("document %s has corrupt chunk IDs: %w", doc.Path, err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Persist is a no-op: every mutation writes through to the database.
func (s *SQLiteStore) Persist(ctx context.Context) error {
	return nil
}

// Load is a no-op: state lives in the database.
func (s *SQLiteStore) Load(ctx context.Context) error {
	return nil
}

// Stats reports counters derived from the database.
func (s *SQLiteStore) Stats(ctx context.Context) (*types.IndexStats, error) {
	stats := &types.IndexStats{}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&stats.TotalFiles); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&stats.TotalChunks); err != nil {
		return nil, err
	}

	var last sql.NullTime
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(updated_at) FROM chunks`).Scan(&last); err != nil {
		return nil, err
	}
	if last.Valid {
		t := last.Time
		stats.LastUpdated = &t
	}

	if info, err := os.Stat(s.path); err == nil {
		stats.IndexSizeBytes = info.Size()
	}
	return stats, nil
}

// Clear drops all rows from both tables.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return err
	}
	return tx.Commit()
}

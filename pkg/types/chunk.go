package types

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

// ChunkType categorizes what kind of code region a chunk was cut from.
type ChunkType string

const (
	ChunkFunction   ChunkType = "function"
	ChunkClass      ChunkType = "class"
	ChunkMethod     ChunkType = "method"
	ChunkModule     ChunkType = "module"
	ChunkFileHeader ChunkType = "file_header"
	ChunkBlock      ChunkType = "block"
)

// Chunk is the unit of embedding and retrieval: a bounded excerpt of a file
// with its vector and bookkeeping metadata. Content includes a short header
// naming the file, symbol, and line range; Hash is computed over the raw
// excerpt before the header is prepended.
type Chunk struct {
	ID        string    `json:"id"`
	FilePath  string    `json:"file_path"`
	StartLine int       `json:"start_line"`
	EndLine   int       `json:"end_line"`
	Content   string    `json:"content"`
	Vector    []float32 `json:"vector"`
	Hash      string    `json:"hash"`
	UpdatedAt time.Time `json:"updated_at"`
	ChunkType ChunkType `json:"chunk_type"`
}

// Validate checks structural invariants of the chunk.
func (c *Chunk) Validate() error {
	if c.ID == "" {
		return errors.New("chunk id cannot be empty")
	}
	if c.Content == "" {
		return errors.New("chunk content cannot be empty")
	}
	if c.StartLine <= 0 || c.EndLine <= 0 {
		return errors.New("line numbers must be positive")
	}
	if c.StartLine > c.EndLine {
		return errors.New("start line must be before or equal to end line")
	}
	return nil
}

// Document tracks per-file index state: the whole-file content hash at last
// index time and the chunks currently owned by the file.
type Document struct {
	Path     string    `json:"path"`
	Hash     string    `json:"hash"`
	ModTime  time.Time `json:"mod_time"`
	ChunkIDs []string  `json:"chunk_ids"`
}

// IndexStats summarizes the state of a persisted index.
type IndexStats struct {
	TotalFiles     int        `json:"total_files"`
	TotalChunks    int        `json:"total_chunks"`
	IndexSizeBytes int64      `json:"index_size_bytes"`
	LastUpdated    *time.Time `json:"last_updated,omitempty"`
}

// HashLen is the length of a content hash in hex characters.
const HashLen = 16

// HashContent returns a truncated hex SHA-256 digest used for change
// detection of file and chunk content.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])[:HashLen]
}

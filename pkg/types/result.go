package types

// SearchResult pairs a chunk with a relevance score. It is produced by
// query-time ranking and never persisted.
type SearchResult struct {
	Chunk Chunk   `json:"chunk"`
	Score float32 `json:"score"`
}

// NewSearchResult builds a SearchResult.
func NewSearchResult(chunk Chunk, score float32) SearchResult {
	return SearchResult{Chunk: chunk, Score: score}
}

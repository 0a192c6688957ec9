package searcher

import (
	"sort"
	"strings"

	"github.com/agentlens/agentlens/pkg/types"
)

// DefaultRRFK is the rank-fusion constant from the original RRF paper.
// Larger values flatten the influence of rank position.
const DefaultRRFK = 60

// minTokenLen drops query tokens too short to be meaningful substrings.
const minTokenLen = 2

// TextSearch scores chunks lexically against a query. The score is the
// fraction of distinct query tokens found as substrings of the chunk,
// plus a flat 0.5 bonus when the whole query appears verbatim. Chunks
// matching no token are excluded.
func TextSearch(chunks []types.Chunk, query string, limit int) []types.SearchResult {
	queryLower := strings.ToLower(query)

	var tokens []string
	for _, w := range strings.Fields(queryLower) {
		if len(w) >= minTokenLen {
			tokens = append(tokens, w)
		}
	}
	if len(tokens) == 0 {
		return nil
	}

	var results []types.SearchResult
	for _, chunk := range chunks {
		contentLower := strings.ToLower(chunk.Content)

		matched := 0
		for _, w := range tokens {
			if strings.Contains(contentLower, w) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}

		score := float32(matched) / float32(len(tokens))
		if strings.Contains(contentLower, queryLower) {
			score += 0.5
		}
		results = append(results, types.NewSearchResult(chunk, score))
	}

	sortResults(results)
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// ReciprocalRankFusion merges ranked lists: a chunk at 0-based rank r in
// a list contributes 1/(k+r+1) to its fused score. The first occurrence
// of a chunk across the lists supplies its data.
func ReciprocalRankFusion(k float32, limit int, lists ...[]types.SearchResult) []types.SearchResult {
	scores := make(map[string]float32)
	chunks := make(map[string]types.Chunk)

	for _, list := range lists {
		for rank, result := range list {
			id := result.Chunk.ID
			scores[id] += 1 / (k + float32(rank) + 1)
			if _, ok := chunks[id]; !ok {
				chunks[id] = result.Chunk
			}
		}
	}

	results := make([]types.SearchResult, 0, len(scores))
	for id, score := range scores {
		results = append(results, types.NewSearchResult(chunks[id], score))
	}

	sortResults(results)
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// sortResults orders by score descending with chunk ID as tie-break so
// equal scores rank the same way on every call.
func sortResults(results []types.SearchResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chunk.ID < results[j].Chunk.ID
	})
}

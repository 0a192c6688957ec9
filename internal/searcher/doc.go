// Package searcher answers text queries against the store, either by
// pure vector similarity or by fusing vector and lexical rankings with
// Reciprocal Rank Fusion.
package searcher

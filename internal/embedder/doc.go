// Package embedder abstracts the external embedding provider behind a
// small interface: batch embedding with positional input/output
// correspondence, a declared dimensionality, and a health check that
// distinguishes an unreachable provider from a missing model.
//
// The Ollama provider talks to /api/embed and /api/tags. Calls carry a
// generous timeout rather than retrying; indexing is idempotent, so callers
// that need a retry simply re-run the operation. An optional LRU cache
// keyed by content hash avoids re-embedding unchanged text within a
// process.
package embedder

// Package chunker splits file text into retrieval-sized fragments.
//
// Symbol-aligned chunking keeps each fragment semantically coherent (one
// function, one class) which improves retrieval precision. The window
// fallback guarantees coverage for files without extractable symbols, and
// the overlap between adjacent windows keeps context from being lost at a
// boundary. Every fragment is rendered with a short header naming the file,
// symbol, and line range; the header is embedded along with the excerpt,
// but the change-detection hash covers the raw excerpt only.
package chunker

// Package types defines the shared value types of the index: chunks,
// documents, symbols, file entries, and search results. It has no
// dependencies on the pipeline packages so that every layer can exchange
// these values freely.
package types

// Package store persists code chunks and their embedding vectors and
// serves exact cosine-similarity search over them. Two backends are
// provided: a JSON snapshot file store (the default) and a SQLite store
// selected with the sqlite_vec build tag.
package store

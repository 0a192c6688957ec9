// Package indexer keeps the store consistent with a file tree. It runs
// the scan -> analyze -> chunk -> embed -> save pipeline per file, skips
// unchanged files by content hash, and prunes records for deleted files.
package indexer

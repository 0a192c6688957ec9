//go:build sqlite_vec

package store

import (
	// CGO-based SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverName is the SQL driver to use
	DriverName = "sqlite3"
	// BuildMode indicates how SQLite support was compiled
	BuildMode = "cgo"
)

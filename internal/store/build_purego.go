//go:build purego || !sqlite_vec

package store

import (
	// Pure-Go SQLite driver
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the SQL driver to use
	DriverName = "sqlite"
	// BuildMode indicates how SQLite support was compiled
	BuildMode = "purego"
)

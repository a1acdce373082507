//go:build purego || !sqlite_vec
// +build purego !sqlite_vec

package store

// This file is compiled when building without CGO or with the purego
// tag, selecting the pure-Go SQLite driver.
//
// Build command:
//   CGO_ENABLED=0 go build -tags "purego" ./...
//
// Driver used: modernc.org/sqlite

import (
	_ "modernc.org/sqlite"
)

// DriverName is the SQLite driver to use.
const DriverName = "sqlite"

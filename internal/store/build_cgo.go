//go:build sqlite_vec
// +build sqlite_vec

package store

// This file is compiled when building with CGO and the sqlite_vec tag,
// selecting the cgo-based SQLite driver.
//
// Build command:
//   CGO_ENABLED=1 go build -tags "sqlite_vec,fts5" ./...
//
// Driver used: github.com/mattn/go-sqlite3

import (
	_ "github.com/mattn/go-sqlite3"
)

// DriverName is the SQLite driver to use.
const DriverName = "sqlite3"

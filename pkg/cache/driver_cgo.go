//go:build cgo

package cache

import _ "github.com/mattn/go-sqlite3"

const sqliteDriver = "sqlite3"

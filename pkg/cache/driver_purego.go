//go:build !cgo

package cache

import _ "modernc.org/sqlite"

const sqliteDriver = "sqlite"
